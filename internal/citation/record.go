// Package citation defines the normalized metadata record and renders it
// into the four supported citation styles.
package citation

import (
	"net/url"
	"strings"
	"time"
)

// SourceType determines which formatting branch runs for every style.
type SourceType string

const (
	TypeWebsite      SourceType = "website"
	TypeBook         SourceType = "book"
	TypeArticle      SourceType = "article"
	TypeVideo        SourceType = "video"
	TypeEncyclopedia SourceType = "encyclopedia"
)

// Default placeholders used when a provider supplies no value.
const (
	UntitledTitle    = "Untitled"
	UnknownPublisher = "Unknown Publisher"
	UnknownAuthor    = "Unknown"
	NoDate           = "n.d."
)

// Record is the canonical, provider-independent bibliographic record consumed
// by the formatter. Each request constructs and discards its own records; there
// is no shared state between requests.
type Record struct {
	Authors    []string   `json:"authors"`
	Title      string     `json:"title"`
	SiteName   string     `json:"siteName"`
	Publisher  string     `json:"publisher,omitempty"`
	Year       string     `json:"year,omitempty"`
	Month      string     `json:"month,omitempty"`
	Day        string     `json:"day,omitempty"`
	URL        string     `json:"url"`
	AccessDate string     `json:"accessDate,omitempty"`
	Type       SourceType `json:"type"`
	ID         string     `json:"id,omitempty"`
}

// HasDate reports whether any part of the publication date is known.
func (r *Record) HasDate() bool {
	return r.Year != "" || r.Month != "" || r.Day != ""
}

// Normalize applies the documented field defaults so a record is always
// renderable: empty title becomes "Untitled", empty site name falls back to
// the URL hostname or "Unknown Publisher", and blank author entries are
// dropped.
func (r *Record) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		r.Title = UntitledTitle
	}
	r.SiteName = strings.TrimSpace(r.SiteName)
	if r.SiteName == "" {
		r.SiteName = HostnameOf(r.URL)
	}
	if r.SiteName == "" {
		r.SiteName = UnknownPublisher
	}
	authors := r.Authors[:0]
	for _, a := range r.Authors {
		if s := strings.TrimSpace(a); s != "" {
			authors = append(authors, s)
		}
	}
	r.Authors = authors
}

// HostnameOf returns the hostname of rawURL with a leading "www." stripped,
// or "" if the URL cannot be parsed.
func HostnameOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// MonthName converts a month numeral (1-12) to its full English name.
// Out-of-range values return "".
func MonthName(n int) string {
	if n < 1 || n > 12 {
		return ""
	}
	return time.Month(n).String()
}

// Style identifies one of the four supported citation styles.
type Style string

const (
	StyleAPA7    Style = "apa7"
	StyleMLA9    Style = "mla9"
	StyleChicago Style = "chicago"
	StyleHarvard Style = "harvard"
)

// Citations holds one formatted citation per supported style. Emphasized
// titles carry literal *...* markup; consumers decide how to render it.
type Citations struct {
	APA7    string `json:"apa7"`
	MLA9    string `json:"mla9"`
	Chicago string `json:"chicago"`
	Harvard string `json:"harvard"`
}

// All renders a record into every supported style.
func All(r *Record) Citations {
	return Citations{
		APA7:    FormatAPA7(r),
		MLA9:    FormatMLA9(r),
		Chicago: FormatChicago(r),
		Harvard: FormatHarvard(r),
	}
}
