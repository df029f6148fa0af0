package targeting

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold lowercases and strips diacritics so "Émile" and "Emile" compare
// equal. Used for every user-facing ordering in this package.
func fold(s string) string {
	// Transformers are stateful, so build a fresh chain per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

// foldLess orders strings accent-insensitively, falling back to the raw
// strings so the order stays total.
func foldLess(a, b string) bool {
	fa, fb := fold(a), fold(b)
	if fa != fb {
		return fa < fb
	}
	return a < b
}
