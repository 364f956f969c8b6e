package post

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// charMap holds letters that do not decompose under NFKD and the symbols
// that spell out as words. Replacements are inserted without surrounding
// spaces, so "A&B" becomes "aandb", as the widely used slugify charmap does.
var charMap = map[rune]string{
	'ß': "ss", 'æ': "ae", 'Æ': "AE", 'ø': "o", 'Ø': "O", 'œ': "oe", 'Œ': "OE",
	'đ': "d", 'Đ': "D", 'ł': "l", 'Ł': "L", 'þ': "th", 'Þ': "TH", 'ð': "d", 'Ð': "D",
	'$': "dollar", '%': "percent", '&': "and", '<': "less", '>': "greater", '|': "or",
	'¢': "cent", '£': "pound", '¤': "currency", '¥': "yen", '©': "c", '®': "r",
	'ª': "a", 'º': "o", '€': "euro", '₩': "won", '₹': "indian rupee", '₽': "russian ruble",
	'฿': "baht", '™': "tm", '℠': "sm", '∆': "delta", '∑': "sum", '∞': "infinity", '♥': "love",
	'元': "yuan", '円': "yen",
}

// Slugify maps a title to a lowercase ASCII identifier made of [a-z0-9] runs
// joined by single hyphens. Characters with no ASCII form are dropped, so the
// result may be empty.
func Slugify(title string) string {
	var mapped strings.Builder
	for _, r := range title {
		if s, ok := charMap[r]; ok {
			mapped.WriteString(s)
			continue
		}
		mapped.WriteRune(r)
	}
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, mapped.String())
	if err != nil {
		folded = mapped.String()
	}

	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			pendingSep = true
		}
	}
	return b.String()
}
