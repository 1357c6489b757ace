package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/sinclairtarget/wcasa/internal/tally"
)

func writeReport(w io.Writer, r tally.Report, outputFormat string, limit int) error {
	switch outputFormat {
	case "csv":
		return writeCsv(w, r, limit)
	case "json":
		return writeJSON(w, r, limit)
	default:
		_, err := io.WriteString(w, r.RenderN(limit))
		return err
	}
}

func limitRanked(r tally.Report, limit int) []tally.AuthorTally {
	ranked := r.Rank()
	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}

	return ranked
}

func writeCsv(w io.Writer, r tally.Report, limit int) error {
	cw := csv.NewWriter(w)

	// Write header
	cw.Write([]string{"author", "loc", "percent"})

	for _, t := range limitRanked(r, limit) {
		record := []string{
			t.Author,
			strconv.Itoa(t.Lines),
			strconv.FormatFloat(t.Percent, 'f', 2, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("error writing CSV record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("error flushing CSV writer: %w", err)
	}

	return nil
}

type jsonReport struct {
	Tool          string              `json:"tool"`
	Version       string              `json:"version"`
	FilesAnalyzed int                 `json:"files_analyzed"`
	FilesFailed   int                 `json:"files_failed"`
	TotalLines    int                 `json:"total_lines"`
	CodeLines     int                 `json:"code_lines"`
	BlankLines    int                 `json:"blank_lines"`
	CommentLines  int                 `json:"comment_lines"`
	Authors       []tally.AuthorTally `json:"authors"`
}

func writeJSON(w io.Writer, r tally.Report, limit int) error {
	out := jsonReport{
		Tool:          tally.ToolName,
		Version:       Version,
		FilesAnalyzed: r.FilesAnalyzed,
		FilesFailed:   r.FilesFailed,
		TotalLines:    r.TotalLines,
		CodeLines:     r.CodeLines,
		BlankLines:    r.BlankLines,
		CommentLines:  r.CommentLines,
		Authors:       limitRanked(r, limit),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("error writing JSON: %w", err)
	}

	return nil
}
