package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"stylaapi/models"

	"github.com/getsentry/sentry-go"
)

type outfitSelectionReply struct {
	ItemIDs []uint `json:"item_ids"`
}

func cleanAIResponseText(text string) string {
	cleanContent := strings.ReplaceAll(text, "```json", "")
	cleanContent = strings.ReplaceAll(cleanContent, "```", "")
	return strings.TrimSpace(cleanContent)
}

// firstBalancedJSONObject returns the first balanced {...} block of text, or
// "" when there is none. Used as the second parsing stage for model replies
// that wrap the JSON in prose.
func firstBalancedJSONObject(text string) string {
	start := strings.Index(text, "{")
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

func parseSelectionReply(reply string) (*outfitSelectionReply, error) {
	clean := cleanAIResponseText(reply)
	var selection outfitSelectionReply
	if err := json.Unmarshal([]byte(clean), &selection); err == nil {
		return &selection, nil
	}
	block := firstBalancedJSONObject(clean)
	if block == "" {
		return nil, fmt.Errorf("no JSON object found in stylist reply")
	}
	if err := json.Unmarshal([]byte(block), &selection); err != nil {
		return nil, fmt.Errorf("error parsing stylist reply JSON: %v", err)
	}
	return &selection, nil
}

// resolveSelection maps the ids the model picked back onto the wardrobe,
// preserving wardrobe order of first occurrence and dropping duplicates and
// ids that do not belong to this wardrobe.
func resolveSelection(items []models.WardrobeItem, ids []uint) []models.WardrobeItem {
	wanted := map[uint]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	var resolved []models.WardrobeItem
	for _, item := range items {
		if wanted[item.ID] {
			resolved = append(resolved, item)
			wanted[item.ID] = false
		}
	}
	return resolved
}

// SuggestOutfit asks the stylist model for an outfit and falls back to the
// deterministic matcher on any failure. It never fails for "no result": the
// only error it can return is ErrNoSuitableItems passed through from the
// fallback, and the returned suggestion is always shape-identical whichever
// path produced it.
func SuggestOutfit(ctx context.Context, stylist LLMStylist, items []models.WardrobeItem, mood string, season string, occasion string, modelName LLMModelName) (*OutfitSuggestion, error) {
	llmResponse, err := stylist.ComposeOutfit(ctx, items, mood, season, occasion, modelName)
	if err != nil || llmResponse == nil || llmResponse.Response == "" {
		fmt.Printf("[Suggest] Stylist call failed, falling back to tag matcher: %v\n", err)
		if err != nil {
			sentry.CaptureException(fmt.Errorf("[Suggest] stylist call failed: %v", err))
		}
		return MatchOutfit(items, mood, season, occasion)
	}

	selection, err := parseSelectionReply(llmResponse.Response)
	if err != nil {
		fmt.Printf("[Suggest] Unparsable stylist reply %q, falling back to tag matcher: %v\n", llmResponse.Response, err)
		sentry.CaptureException(fmt.Errorf("[Suggest] unparsable stylist reply: %v", err))
		return MatchOutfit(items, mood, season, occasion)
	}

	resolved := resolveSelection(items, selection.ItemIDs)
	if len(resolved) == 0 {
		fmt.Printf("[Suggest] Stylist reply resolved to zero wardrobe items, falling back to tag matcher\n")
		return MatchOutfit(items, mood, season, occasion)
	}

	suggestion := &OutfitSuggestion{
		ItemNames: []string{},
		ImageURLs: []string{},
		Items:     resolved,
		Source:    SourceAI,
	}
	for _, item := range resolved {
		suggestion.ItemNames = append(suggestion.ItemNames, item.Name)
		imageURL := ""
		if item.ImageURL != nil {
			imageURL = *item.ImageURL
		}
		suggestion.ImageURLs = append(suggestion.ImageURLs, imageURL)
	}
	return suggestion, nil
}
