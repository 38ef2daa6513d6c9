package report

import (
	"strconv"

	"reportfill/pkg/fill"
)

// DefaultMaxNews caps each section's news list when no limit is configured.
const DefaultMaxNews = 8

var sections = []struct {
	prefix string
	get    func(*Report) Section
}{
	{"environmental", func(r *Report) Section { return r.Content.Environmental }},
	{"social", func(r *Report) Section { return r.Content.Social }},
	{"governance", func(r *Report) Section { return r.Content.Governance }},
}

// Values builds the replacement map for one report. Each section's news
// list is capped at maxNews entries; zero or negative means DefaultMaxNews.
// News slots beyond the report's data get no key at all, so the fill
// engine's cleanup removes their placeholders from the template.
func (r *Report) Values(maxNews int) fill.Values {
	if maxNews <= 0 {
		maxNews = DefaultMaxNews
	}

	vals := fill.Values{
		"date_range": fill.NormalizeValue(r.Metadata.Period.DateRange),
		"highlight":  fill.NormalizeValue(r.Content.HotspotFocus),
	}
	if date := r.ReportDate(); date != "" {
		vals["report_date"] = date
	}

	for _, s := range sections {
		section := s.get(r)
		vals[s.prefix+"_section_title"] = fill.NormalizeValue(section.SectionTitle)
		for i, item := range section.NewsItems {
			if i >= maxNews {
				break
			}
			n := strconv.Itoa(i + 1)
			vals[s.prefix+"_news_title_"+n] = fill.NormalizeValue(item.Title)
			vals[s.prefix+"_news_body_"+n] = fill.NormalizeValue(item.Content)
		}
	}
	return vals
}
