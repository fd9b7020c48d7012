package scenario

import (
	"golang.org/x/text/language"
)

// MatchLocale maps a requested locale (e.g. "sv-SE", "en_US.UTF-8") to one
// of the scenario's locale tokens. Unparseable or unsupported requests get
// the default locale.
func (s *Scenario) MatchLocale(requested string) string {
	locales := s.Locales()
	tags := make([]language.Tag, 0, len(locales))
	for _, loc := range locales {
		tags = append(tags, language.Make(loc))
	}

	want, err := language.Parse(normalizeLocale(requested))
	if err != nil {
		return s.DefaultLocale
	}

	matcher := language.NewMatcher(tags)
	_, idx, conf := matcher.Match(want)
	if conf == language.No {
		return s.DefaultLocale
	}
	return locales[idx]
}

// normalizeLocale strips POSIX decorations such as "en_US.UTF-8@euro".
func normalizeLocale(loc string) string {
	for i, r := range loc {
		if r == '.' || r == '@' {
			loc = loc[:i]
			break
		}
	}
	out := []rune(loc)
	for i, r := range out {
		if r == '_' {
			out[i] = '-'
		}
	}
	return string(out)
}
