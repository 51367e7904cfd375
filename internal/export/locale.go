package export

import "golang.org/x/text/language"

// Short-date layouts per locale, first entry is the fallback.
var dateLayouts = []struct {
	tag    language.Tag
	layout string
}{
	{language.AmericanEnglish, "1/2/2006"},
	{language.BritishEnglish, "02/01/2006"},
	{language.MustParse("en-IN"), "2/1/2006"},
	{language.German, "2.1.2006"},
	{language.French, "02/01/2006"},
	{language.Japanese, "2006/1/2"},
}

var dateMatcher = func() language.Matcher {
	tags := make([]language.Tag, 0, len(dateLayouts))
	for _, l := range dateLayouts {
		tags = append(tags, l.tag)
	}
	return language.NewMatcher(tags)
}()

// DateLayout returns the short-date layout closest to tag.
func DateLayout(tag language.Tag) string {
	_, idx, conf := dateMatcher.Match(tag)
	if conf == language.No {
		return dateLayouts[0].layout
	}
	return dateLayouts[idx].layout
}

// LocaleFromHeader picks the viewer locale from an Accept-Language value,
// falling back to fallback when the header is empty or unparsable.
func LocaleFromHeader(header string, fallback language.Tag) language.Tag {
	if header == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	return tags[0]
}
