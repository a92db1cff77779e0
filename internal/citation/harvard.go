package citation

// FormatHarvard renders a record as a Harvard-style citation.
//
// Like APA, Harvard puts the site name in the author position for author-less
// websites. URLs render as "Available at:" with a parenthesized access date.
func FormatHarvard(r *Record) string {
	switch r.Type {
	case TypeEncyclopedia:
		return joinParts(
			"'"+r.Title+"'",
			"("+yearOr(r)+")",
			endSentence(emph(r.SiteName)),
			availableAt(r),
		)
	case TypeBook:
		return joinParts(
			FormatAuthorsAPA(r.Authors),
			"("+yearOr(r)+")",
			endSentence(emph(r.Title)),
			endSentence(publisherOr(r)),
		)
	case TypeArticle:
		return joinParts(
			FormatAuthorsAPA(r.Authors),
			"("+yearOr(r)+")",
			"'"+r.Title+"',",
			endSentence(emph(r.SiteName)),
			availableAt(r),
		)
	case TypeVideo:
		return joinParts(
			FormatAuthorsAPA(r.Authors),
			"("+yearOr(r)+")",
			endSentence(emph(r.Title)),
			endSentence(r.SiteName),
			availableAt(r),
		)
	default: // website
		author := FormatAuthorsAPA(r.Authors)
		if len(r.Authors) == 0 {
			author = r.SiteName
		}
		return joinParts(
			author,
			"("+yearOr(r)+")",
			endSentence(emph(r.Title)),
			availableAt(r),
		)
	}
}

func availableAt(r *Record) string {
	if r.AccessDate == "" {
		return endSentence("Available at: " + r.URL)
	}
	return "Available at: " + r.URL + " (Accessed: " + r.AccessDate + ")."
}
