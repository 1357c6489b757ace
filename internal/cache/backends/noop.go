package backends

import (
	"github.com/sinclairtarget/wcasa/internal/tally"
)

const NoopBackendName string = "noop"

type NoopBackend struct{}

func (b NoopBackend) Name() string {
	return NoopBackendName
}

func (b NoopBackend) Open() error {
	return nil
}

func (b NoopBackend) Close() error {
	return nil
}

func (b NoopBackend) Get(key string) (tally.Report, bool, error) {
	return tally.Report{}, false, nil
}

func (b NoopBackend) Add(key string, r tally.Report) error {
	return nil
}

func (b NoopBackend) Clear() error {
	return nil
}
