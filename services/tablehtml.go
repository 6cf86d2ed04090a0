package services

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"stylaapi/models"
)

var boldMarkRe = regexp.MustCompile(`\*\*([^*]+)\*\*`)

// injectWardrobeLinks wraps every whole-word occurrence of an owned item's
// name with a link to its image. A single pass over the raw text with one
// alternation regex, longest name first, so "Shirt" can never rewrite the
// inside of an already injected "White Shirt" anchor. Runs before any table
// splitting; hrefs are kept pipe-free so they cannot corrupt cell splitting
// later.
func injectWardrobeLinks(text string, wardrobe []models.WardrobeItem) string {
	hrefs := map[string]string{}
	var names []string
	for _, item := range wardrobe {
		if item.Name == "" || item.ImageURL == nil || *item.ImageURL == "" {
			continue
		}
		key := strings.ToLower(item.Name)
		if _, seen := hrefs[key]; seen {
			continue
		}
		hrefs[key] = strings.ReplaceAll(*item.ImageURL, "|", "%7C")
		names = append(names, item.Name)
	}
	if len(names) == 0 {
		return text
	}
	sort.SliceStable(names, func(i, j int) bool {
		return len(names[i]) > len(names[j])
	})
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = regexp.QuoteMeta(name)
	}
	nameRe, err := regexp.Compile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
	if err != nil {
		return text
	}
	return nameRe.ReplaceAllStringFunc(text, func(match string) string {
		return fmt.Sprintf(`<a href="%s" target="_blank">%s</a>`, hrefs[strings.ToLower(match)], match)
	})
}

func splitTableRow(line string) []string {
	var cells []string
	for _, field := range strings.Split(line, "|") {
		field = strings.TrimSpace(field)
		if field != "" {
			cells = append(cells, field)
		}
	}
	return cells
}

// RenderPlanTableHTML turns a pipe-delimited outfit table into HTML with the
// customer's wardrobe items linked to their images. Text that already
// contains table markup is returned unchanged; text with no pipe rows falls
// back to line-break/bold markup. Never fails, worst case it returns the
// input lightly reformatted.
func RenderPlanTableHTML(text string, wardrobe []models.WardrobeItem) string {
	if strings.Contains(text, "<table") {
		return text
	}

	linked := injectWardrobeLinks(text, wardrobe)

	var tableLines []string
	for _, line := range strings.Split(linked, "\n") {
		if strings.Contains(line, "|") {
			tableLines = append(tableLines, line)
		}
	}
	if len(tableLines) == 0 {
		fallback := strings.ReplaceAll(linked, "\n", "<br>")
		return boldMarkRe.ReplaceAllString(fallback, "<strong>$1</strong>")
	}

	var sb strings.Builder
	sb.WriteString(`<table class="outfit-plan">` + "\n<thead>\n<tr>")
	for _, cell := range splitTableRow(tableLines[0]) {
		sb.WriteString("<th>" + cell + "</th>")
	}
	sb.WriteString("</tr>\n</thead>\n<tbody>\n")
	for _, line := range tableLines[1:] {
		cells := splitTableRow(line)
		if len(cells) == 0 {
			continue
		}
		sb.WriteString("<tr>")
		for _, cell := range cells {
			sb.WriteString("<td>" + cell + "</td>")
		}
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</tbody>\n</table>")
	return sb.String()
}
