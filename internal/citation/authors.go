package citation

import "strings"

// splitName splits a display name into family name and given names. Names
// already in "Family, Given" form keep their family name; otherwise the final
// whitespace token is the family name. A single token is all family.
func splitName(name string) (family, given string) {
	name = strings.TrimSpace(name)
	if i := strings.Index(name, ","); i >= 0 {
		return strings.TrimSpace(name[:i]), strings.TrimSpace(name[i+1:])
	}
	parts := strings.Fields(name)
	if len(parts) <= 1 {
		return name, ""
	}
	return parts[len(parts)-1], strings.Join(parts[:len(parts)-1], " ")
}

// initials reduces given names to spaced initials: "Jane Mary" -> "J. M.".
func initials(given string) string {
	var out []string
	for _, w := range strings.Fields(given) {
		r := []rune(w)
		out = append(out, strings.ToUpper(string(r[0]))+".")
	}
	return strings.Join(out, " ")
}

// invertAPA renders one name as "Family, I. I.". Single-token names pass
// through unchanged.
func invertAPA(name string) string {
	family, given := splitName(name)
	if given == "" {
		return family
	}
	return family + ", " + initials(given)
}

// FormatAuthorsAPA renders an author list in APA style: each name inverted
// with initials, comma-separated, with ", & " before the final author when
// there are two or more. An empty list renders as "Unknown".
func FormatAuthorsAPA(authors []string) string {
	if len(authors) == 0 {
		return UnknownAuthor
	}
	formatted := make([]string, len(authors))
	for i, a := range authors {
		formatted[i] = invertAPA(a)
	}
	if len(formatted) == 1 {
		return formatted[0]
	}
	return strings.Join(formatted[:len(formatted)-1], ", ") + ", & " + formatted[len(formatted)-1]
}

// FormatAuthorsMLA renders an author list in MLA style: the first author is
// inverted to "Family, Given"; two authors render as "Family, Given, and
// Second Author"; three or more render as "Family, Given, et al.". An empty
// list renders as "Unknown".
func FormatAuthorsMLA(authors []string) string {
	if len(authors) == 0 {
		return UnknownAuthor
	}
	family, given := splitName(authors[0])
	first := family
	if given != "" {
		first = family + ", " + given
	}
	switch {
	case len(authors) == 1:
		return first
	case len(authors) == 2:
		return first + ", and " + authors[1]
	default:
		return first + ", et al."
	}
}
