// Package textnorm canonicalizes free-text identity strings (primarily
// Arabic personal names) so that differently-typed spellings of the same
// name compare equal.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Invisible marks that spreadsheets commonly smuggle into cells:
// zero-width space/joiners, directional marks and the BOM.
var invisibleReplacer = strings.NewReplacer(
	"\u200b", "", // zero width space
	"\u200c", "", // zero width non-joiner
	"\u200d", "", // zero width joiner
	"\u200e", "", // left-to-right mark
	"\u200f", "", // right-to-left mark
	"\ufeff", "", // byte order mark
)

// Arabic letter variants folded to a single canonical form: all alef
// forms to bare alef, teh marbuta to heh, alef maksura to yeh.
var arabicReplacer = strings.NewReplacer(
	"آ", "ا", // alef madda
	"أ", "ا", // alef hamza above
	"إ", "ا", // alef hamza below
	"ٱ", "ا", // alef wasla
	"ة", "ه", // teh marbuta -> heh
	"ى", "ي", // alef maksura -> yeh
)

const (
	abdSpaced = "عبد ال"
	abdJoined = "عبدال"
)

// Normalize canonicalizes s for identity comparison. It is pure and
// idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(s string) string {
	s = invisibleReplacer.Replace(s)
	s = stripCombiningMarks(s)
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = arabicReplacer.Replace(s)
	// The compound prefix occurs both joined and spaced in the wild;
	// collapse then re-expand so either spelling lands on the spaced form.
	s = strings.ReplaceAll(s, abdSpaced, abdJoined)
	s = strings.ReplaceAll(s, abdJoined, abdSpaced)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return s
}

// stripCombiningMarks removes nonspacing marks after NFD decomposition.
// For Arabic this drops the tashkeel and folds hamza-carrying alefs; for
// Latin it drops accents.
func stripCombiningMarks(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
