package backends

import (
	"github.com/sinclairtarget/wcasa/internal/tally"
)

// A cached per-file report as stored on disk.
type entry struct {
	Key    string       `json:"key"`
	Report tally.Report `json:"report"`
}
