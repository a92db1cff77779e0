package citation

import "strings"

// Format renders a record in the given style. Unrecognized styles fall back
// to APA7.
func Format(r *Record, style Style) string {
	switch style {
	case StyleMLA9:
		return FormatMLA9(r)
	case StyleChicago:
		return FormatChicago(r)
	case StyleHarvard:
		return FormatHarvard(r)
	default:
		return FormatAPA7(r)
	}
}

// emph wraps emphasized titles in the literal italic markup that is part of
// the output contract.
func emph(s string) string {
	return "*" + s + "*"
}

// endSentence appends a period unless the text already ends with terminal
// punctuation, so "Doe, Jane, et al." never becomes "et al..".
func endSentence(s string) string {
	if s == "" {
		return s
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
		return s
	}
	return s + "."
}

// quoteTitle renders a quoted title with the period inside the quotes, MLA
// and Chicago style. Titles already ending in terminal punctuation keep it.
func quoteTitle(s string) string {
	switch {
	case s == "":
		return `""`
	case strings.ContainsAny(s[len(s)-1:], ".!?"):
		return `"` + s + `"`
	default:
		return `"` + s + `."`
	}
}

// yearOr renders the year or the "n.d." token.
func yearOr(r *Record) string {
	if r.Year == "" {
		return NoDate
	}
	return r.Year
}

// dateAPA renders the APA/Harvard parenthesized date body: "2020, May 4",
// collapsing missing sub-tokens, or "n.d." when no year is known.
func dateAPA(r *Record) string {
	if r.Year == "" {
		return NoDate
	}
	s := r.Year
	if r.Month != "" {
		s += ", " + r.Month
		if r.Day != "" {
			s += " " + r.Day
		}
	}
	return s
}

// dateMLA renders the MLA day-month-year token: "4 May 2020".
func dateMLA(r *Record) string {
	if r.Year == "" {
		return NoDate
	}
	var parts []string
	if r.Month != "" {
		if r.Day != "" {
			parts = append(parts, r.Day)
		}
		parts = append(parts, r.Month)
	}
	parts = append(parts, r.Year)
	return strings.Join(parts, " ")
}

// dateChicago renders the Chicago month-day-year token: "May 4, 2020".
func dateChicago(r *Record) string {
	if r.Year == "" {
		return NoDate
	}
	if r.Month == "" {
		return r.Year
	}
	if r.Day == "" {
		return r.Month + " " + r.Year
	}
	return r.Month + " " + r.Day + ", " + r.Year
}

// publisherOr prefers the explicit publisher over the container name for
// book-shaped references.
func publisherOr(r *Record) string {
	if r.Publisher != "" {
		return r.Publisher
	}
	return r.SiteName
}

// joinParts joins non-empty citation segments with single spaces.
func joinParts(parts ...string) string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
