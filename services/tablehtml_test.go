package services

import (
	"strings"
	"testing"

	"stylaapi/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linkedWardrobe() []models.WardrobeItem {
	return []models.WardrobeItem{
		{Name: "White Shirt", ImageURL: ptr("https://img.example.com/white-shirt.jpg")},
		{Name: "Top", ImageURL: ptr("https://img.example.com/top.jpg")},
		{Name: "Laptop Bag", ImageURL: ptr("https://img.example.com/laptop-bag.jpg")},
		{Name: "No Image", ImageURL: nil},
	}
}

func TestRenderPlanTableHTMLTable(t *testing.T) {
	text := "Day | Outfit | Notes\nDay 1 | White Shirt | Casual"

	html := RenderPlanTableHTML(text, linkedWardrobe())

	assert.Contains(t, html, `<table class="outfit-plan">`)
	assert.Contains(t, html, "<th>Day</th><th>Outfit</th><th>Notes</th>")
	assert.Contains(t, html, `<td><a href="https://img.example.com/white-shirt.jpg" target="_blank">White Shirt</a></td>`)
	assert.Contains(t, html, "<td>Casual</td>")
}

func TestRenderPlanTableHTMLIdempotent(t *testing.T) {
	text := "Day | Outfit | Notes\nDay 1 | White Shirt | Casual"
	once := RenderPlanTableHTML(text, linkedWardrobe())
	twice := RenderPlanTableHTML(once, linkedWardrobe())
	assert.Equal(t, once, twice)
}

func TestRenderPlanTableHTMLWholeWordLinking(t *testing.T) {
	text := "col1 | col2\nBring the Laptop Bag | wear a Top"

	html := RenderPlanTableHTML(text, linkedWardrobe())

	// "Top" inside "Laptop" must not be linked
	assert.Contains(t, html, `<a href="https://img.example.com/laptop-bag.jpg" target="_blank">Laptop Bag</a>`)
	assert.Contains(t, html, `<a href="https://img.example.com/top.jpg" target="_blank">Top</a>`)
	assert.Equal(t, 2, strings.Count(html, "<a href="))
}

func TestRenderPlanTableHTMLOverlappingNames(t *testing.T) {
	wardrobe := []models.WardrobeItem{
		{Name: "Shirt", ImageURL: ptr("https://img.example.com/shirt.jpg")},
		{Name: "White Shirt", ImageURL: ptr("https://img.example.com/white-shirt.jpg")},
	}
	text := "a | b\nWhite Shirt | plain Shirt"

	html := RenderPlanTableHTML(text, wardrobe)

	// the longer name wins its own occurrence, the shorter one still links
	// standalone, and no anchor ends up nested inside another anchor's href
	assert.Contains(t, html, `<a href="https://img.example.com/white-shirt.jpg" target="_blank">White Shirt</a>`)
	assert.Contains(t, html, `<a href="https://img.example.com/shirt.jpg" target="_blank">Shirt</a>`)
	assert.Equal(t, 2, strings.Count(html, "<a href="))
	assert.NotContains(t, html, `white-<a`)
}

func TestRenderPlanTableHTMLCaseInsensitiveLinking(t *testing.T) {
	text := "a | b\nwhite shirt | WHITE SHIRT"
	html := RenderPlanTableHTML(text, linkedWardrobe())
	assert.Contains(t, html, `>white shirt</a>`)
	assert.Contains(t, html, `>WHITE SHIRT</a>`)
}

func TestRenderPlanTableHTMLPipeInHref(t *testing.T) {
	wardrobe := []models.WardrobeItem{
		{Name: "Odd Item", ImageURL: ptr("https://img.example.com/a|b.jpg")},
	}
	text := "h1 | h2\nOdd Item | note"

	html := RenderPlanTableHTML(text, wardrobe)

	assert.Contains(t, html, "a%7Cb.jpg")
	// the escaped pipe must not have produced an extra cell
	row := html[strings.Index(html, "<tbody>"):]
	assert.Equal(t, 2, strings.Count(row, "<td>"))
}

func TestRenderPlanTableHTMLNoPipesFallback(t *testing.T) {
	text := "A plan preview.\nWear the **White Shirt** tomorrow."

	html := RenderPlanTableHTML(text, linkedWardrobe())

	assert.NotContains(t, html, "<table")
	assert.Contains(t, html, "<br>")
	require.Contains(t, html, "<strong>")
	assert.Contains(t, html, `<a href="https://img.example.com/white-shirt.jpg" target="_blank">White Shirt</a>`)
}

func TestRenderPlanTableHTMLSkipsBlankRows(t *testing.T) {
	text := "h1 | h2\n | \nDay 1 | rest"
	html := RenderPlanTableHTML(text, nil)
	assert.NotContains(t, html, "<tr></tr>")
	assert.Contains(t, html, "<td>Day 1</td>")
}
