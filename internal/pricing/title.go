package pricing

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const maxTitleLen = 120

var (
	bracketPattern = regexp.MustCompile(`【[^】]*】|\[[^\]]*\]|\{[^}]*\}`)
	promoPattern   = regexp.MustCompile(`(?i)\b(?:free\s+shipping|hot\s+sale|new\s+arrivals?|best\s+sellers?|limited\s+time(?:\s+offer)?|flash\s+sale|dropshipping|(?:20\d\d\s*/\s*)?20\d\d\s+new(?:est)?|new\s+20\d\d)\b`)
	emptyParens    = regexp.MustCompile(`\(\s*[-,|/]*\s*\)`)
	separatorRun   = regexp.MustCompile(`\s*([-|/,+])(?:\s*[-|/,+])+\s*`)
	spaceRun       = regexp.MustCompile(`\s+`)
	spaceComma     = regexp.MustCompile(`\s+,`)
)

// ImproveTitle cleans a scraped product title: promo phrases and bracketed
// fragments are removed, separators and whitespace collapsed, adjacent
// duplicate words dropped, shouting or all-lowercase titles title-cased,
// and the result limited to 120 characters at a word boundary.
func ImproveTitle(s string) string {
	return truncateWords(cleanTitle(s), maxTitleLen)
}

// cleanTitle is ImproveTitle without the length limit. It falls back to
// the whitespace-collapsed input when cleaning leaves nothing.
func cleanTitle(s string) string {
	original := strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))

	t := bracketPattern.ReplaceAllString(s, " ")
	t = promoPattern.ReplaceAllString(t, " ")
	t = emptyParens.ReplaceAllString(t, " ")
	t = separatorRun.ReplaceAllString(t, " $1 ")
	t = spaceComma.ReplaceAllString(t, ",")
	t = spaceRun.ReplaceAllString(t, " ")
	t = trimSeparators(t)
	t = dropAdjacentDuplicates(t)

	if isUniformCase(t) {
		// Casers are stateful and must not be shared between goroutines.
		t = cases.Title(language.English).String(strings.ToLower(t))
	}

	if t == "" {
		return original
	}
	return t
}

func trimSeparators(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune("-|/,+:;", r)
	})
}

func dropAdjacentDuplicates(s string) string {
	words := strings.Fields(s)
	out := words[:0]
	for _, w := range words {
		if len(out) > 0 && strings.EqualFold(out[len(out)-1], w) && hasLetter(w) {
			continue
		}
		out = append(out, w)
	}
	return strings.Join(out, " ")
}

// isUniformCase reports whether every letter in s has the same case.
// Very short titles are left alone.
func isUniformCase(s string) bool {
	var upper, lower int
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper++
		case unicode.IsLower(r):
			lower++
		}
	}
	if upper+lower < 4 {
		return false
	}
	return upper == 0 || lower == 0
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// truncateWords shortens s to at most limit runes, cutting at the last
// space when one exists in the second half.
func truncateWords(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	cut := string([]rune(s)[:limit])
	if i := strings.LastIndex(cut, " "); i > len(cut)/2 {
		cut = cut[:i]
	}
	return trimSeparators(cut)
}
