package app

import (
    "encoding/json"
    "fmt"
    "io"

    "github.com/hyperifyio/xsearch/internal/result"
)

// WriteResult prints r as indented JSON on stdout and routes the text cost
// report according to mode. cost_report stays in the JSON only for
// ReportJSON.
func WriteResult(stdout, stderr io.Writer, r result.SearchResult, mode string) error {
    report := r.CostReport
    if mode != ReportJSON {
        r.CostReport = ""
    }
    if mode == ReportStderr && report != "" {
        if _, err := fmt.Fprintf(stderr, "\n%s\n", report); err != nil {
            return err
        }
    }

    enc := json.NewEncoder(stdout)
    enc.SetEscapeHTML(false)
    enc.SetIndent("", "  ")
    if err := enc.Encode(r); err != nil {
        return fmt.Errorf("encode result: %w", err)
    }

    if mode == ReportStdout && report != "" {
        if _, err := fmt.Fprintf(stdout, "\n%s\n", report); err != nil {
            return err
        }
    }
    return nil
}
