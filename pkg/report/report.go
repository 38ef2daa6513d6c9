// Package report loads the report documents produced by the upstream
// research pipeline and turns them into replacement maps for the fill
// engine.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Period is the reporting window of one report.
type Period struct {
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	StartDateISO string `json:"start_date_iso"`
	EndDateISO   string `json:"end_date_iso"`
	DateRange    string `json:"date_range"`
}

// Metadata describes how and when a report was produced.
type Metadata struct {
	Title             string `json:"title"`
	ReportType        string `json:"report_type"`
	Period            Period `json:"report_period"`
	GenerationTime    string `json:"generation_time"`
	GenerationTimeISO string `json:"generation_time_iso"`
	Agent             string `json:"agent"`
	Model             string `json:"model"`
}

// NewsItem is one news entry of a thematic section.
type NewsItem struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Section is one thematic block of the report body: a title and an ordered
// news list.
type Section struct {
	SectionTitle string     `json:"section_title"`
	NewsItems    []NewsItem `json:"news_items"`
}

// Content is the report body.
type Content struct {
	Title         string  `json:"title"`
	HotspotFocus  string  `json:"hotspot_focus"`
	Environmental Section `json:"environmental"`
	Social        Section `json:"social"`
	Governance    Section `json:"governance"`
}

// Report is one report document from the upstream pipeline.
type Report struct {
	Metadata Metadata `json:"report_metadata"`
	Content  Content  `json:"report_content"`
}

// Parse decodes a report document from raw JSON.
func Parse(b []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &r, nil
}

// Load reads and decodes a report document from path.
func Load(path string) (*Report, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	r, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", path, err)
	}
	return r, nil
}

// ReportDate returns the date portion of the generation time.
func (r *Report) ReportDate() string {
	t := strings.TrimSpace(r.Metadata.GenerationTime)
	if i := strings.IndexByte(t, ' '); i > 0 {
		return t[:i]
	}
	return t
}

// PeriodToken returns a short token identifying the report window, safe to
// embed in output file names.
func (r *Report) PeriodToken() string {
	for _, candidate := range []string{
		r.Metadata.Period.EndDateISO,
		r.Metadata.Period.EndDate,
		r.ReportDate(),
	} {
		if token := sanitizeToken(candidate); token != "" {
			return token
		}
	}
	return "report"
}

func sanitizeToken(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '-'
		}
		return r
	}, s)
}
