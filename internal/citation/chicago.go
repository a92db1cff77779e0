package citation

// FormatChicago renders a record as a Chicago-style bibliography citation.
//
// Chicago shares MLA's title-first convention for author-less sources and its
// quoting of article and website titles, but orders dates month-day-year.
func FormatChicago(r *Record) string {
	switch r.Type {
	case TypeEncyclopedia:
		return joinParts(
			quoteTitle(r.Title),
			endSentence(emph(r.SiteName)),
			accessedChicago(r),
			endSentence(r.URL),
		)
	case TypeBook:
		return joinParts(
			endSentence(FormatAuthorsMLA(r.Authors)),
			endSentence(emph(r.Title)),
			publisherOr(r)+",",
			endSentence(yearOr(r)),
		)
	case TypeArticle:
		return joinParts(
			endSentence(FormatAuthorsMLA(r.Authors)),
			quoteTitle(r.Title),
			emph(r.SiteName)+",",
			endSentence(dateChicago(r)),
			endSentence(r.URL),
		)
	case TypeVideo:
		return joinParts(
			endSentence(FormatAuthorsMLA(r.Authors)),
			endSentence(emph(r.Title)),
			"Video.",
			emph(r.SiteName)+",",
			endSentence(dateChicago(r)),
			endSentence(r.URL),
		)
	default: // website
		author := ""
		if len(r.Authors) > 0 {
			author = endSentence(FormatAuthorsMLA(r.Authors))
		}
		return joinParts(
			author,
			quoteTitle(r.Title),
			endSentence(emph(r.SiteName)),
			accessedChicago(r),
			endSentence(r.URL),
		)
	}
}

func accessedChicago(r *Record) string {
	if r.AccessDate == "" {
		return ""
	}
	return "Accessed " + r.AccessDate + "."
}
