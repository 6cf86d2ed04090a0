package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var TitleCaser = cases.Title(language.English)
var LowerCaser = cases.Lower(language.English)

// NormalizeLabel brings free-form labels like "sUmMer " or "all season" to
// the canonical casing used across the wardrobe filters ("Summer",
// "All Season").
func NormalizeLabel(label string) string {
	return TitleCaser.String(strings.TrimSpace(label))
}
