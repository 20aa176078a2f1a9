package helpers

import (
	"strings"
	"unicode"
)

// Slugify turns a game title into a lowercase file-name stem. Letters and
// digits in any script survive; runs of anything else collapse to one dash.
func Slugify(title string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
