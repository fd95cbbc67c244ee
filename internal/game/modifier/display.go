package modifier

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DisplayName converts a hyphenated identifier into a title-cased display
// name, e.g. "choice-band" -> "Choice Band".
func DisplayName(id string) string {
	// A Caser is stateful and must not be shared between goroutines.
	return cases.Title(language.English).String(strings.ReplaceAll(strings.TrimSpace(id), "-", " "))
}
