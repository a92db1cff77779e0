package citation

// FormatMLA9 renders a record as an MLA 9th edition citation.
//
// When no author exists, MLA leads with the title instead of a synthetic
// author. Article, website and encyclopedia titles are quoted; book and
// video titles are emphasized. Websites and encyclopedia entries carry the
// access date.
func FormatMLA9(r *Record) string {
	switch r.Type {
	case TypeEncyclopedia:
		publisher := ""
		if r.Publisher != "" {
			publisher = r.Publisher + ","
		}
		return joinParts(
			quoteTitle(r.Title),
			emph(r.SiteName)+",",
			publisher,
			endSentence(r.URL),
			accessedMLA(r),
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
			dateMLA(r)+",",
			endSentence(r.URL),
		)
	case TypeVideo:
		return joinParts(
			endSentence(FormatAuthorsMLA(r.Authors)),
			endSentence(emph(r.Title)),
			emph(r.SiteName)+",",
			dateMLA(r)+",",
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
			emph(r.SiteName)+",",
			dateMLA(r)+",",
			endSentence(r.URL),
			accessedMLA(r),
		)
	}
}

func accessedMLA(r *Record) string {
	if r.AccessDate == "" {
		return ""
	}
	return "Accessed " + r.AccessDate + "."
}
