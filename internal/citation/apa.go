package citation

// FormatAPA7 renders a record as an APA 7th edition citation.
//
// Author-less websites are cited with the site name in the author position,
// and the then-redundant site segment is omitted. Encyclopedia entries are
// cited by title with no byline.
func FormatAPA7(r *Record) string {
	switch r.Type {
	case TypeEncyclopedia:
		return joinParts(
			endSentence(r.Title),
			"("+dateAPA(r)+").",
			"In "+emph(r.SiteName)+".",
			r.URL,
		)
	case TypeBook:
		return joinParts(
			FormatAuthorsAPA(r.Authors),
			"("+yearOr(r)+").",
			endSentence(emph(r.Title)),
			endSentence(publisherOr(r)),
			r.URL,
		)
	case TypeArticle:
		return joinParts(
			FormatAuthorsAPA(r.Authors),
			"("+dateAPA(r)+").",
			endSentence(r.Title),
			endSentence(emph(r.SiteName)),
			r.URL,
		)
	case TypeVideo:
		return joinParts(
			FormatAuthorsAPA(r.Authors),
			"("+dateAPA(r)+").",
			emph(r.Title)+" [Video].",
			endSentence(r.SiteName),
			r.URL,
		)
	default: // website
		author := FormatAuthorsAPA(r.Authors)
		site := endSentence(r.SiteName)
		if len(r.Authors) == 0 {
			author = r.SiteName
			site = ""
		}
		return joinParts(
			author,
			"("+dateAPA(r)+").",
			endSentence(emph(r.Title)),
			site,
			r.URL,
		)
	}
}
