package citation

import "strings"

// InputType controls which provider adapter resolves an input.
type InputType string

const (
	InputDOI       InputType = "doi"
	InputISBN      InputType = "isbn"
	InputYouTube   InputType = "youtube"
	InputWikipedia InputType = "wikipedia"
	InputURL       InputType = "url"
	InputText      InputType = "text"
)

// Classify maps a raw input string to exactly one InputType. The checks run
// in priority order because inputs can satisfy several patterns at once: a
// DOI URL also starts with "https://", so DOI must win over the generic URL
// check. No network access happens here.
func Classify(raw string) InputType {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(s, "10.") || strings.Contains(s, "doi.org/"):
		return InputDOI
	case isISBN(s):
		return InputISBN
	case strings.Contains(s, "youtube.com") || strings.Contains(s, "youtu.be"):
		return InputYouTube
	case strings.Contains(s, "wikipedia.org"):
		return InputWikipedia
	case strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://"):
		return InputURL
	default:
		return InputText
	}
}

// ExtractDOI strips DOI URL wrappers down to the bare identifier, e.g.
// "https://doi.org/10.1000/xyz123" -> "10.1000/xyz123".
func ExtractDOI(raw string) string {
	s := strings.TrimSpace(raw)
	// The host is case-insensitive, like Classify treats it; slice the
	// original string so the DOI keeps its own casing.
	if i := strings.Index(strings.ToLower(s), "doi.org/"); i >= 0 {
		return s[i+len("doi.org/"):]
	}
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	return s
}

// ExtractISBN strips hyphens and whitespace, leaving the bare 10 or 13 digit
// identifier. Validity is the classifier's concern.
func ExtractISBN(raw string) string {
	s := strings.ReplaceAll(strings.TrimSpace(raw), "-", "")
	return strings.Join(strings.Fields(s), "")
}

func isISBN(s string) bool {
	digits := ExtractISBN(s)
	if len(digits) != 10 && len(digits) != 13 {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
