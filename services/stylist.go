package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"stylaapi/models"

	"google.golang.org/genai"
)

// LLMModelName is the GenAI model to use for a stylist call.
type LLMModelName int32

const (
	Pro25 LLMModelName = iota
	Flash25
	FlashLite25
	Flash20
)

func (t LLMModelName) String() string {
	switch t {
	case Pro25:
		return "gemini-2.5-pro"
	case Flash25:
		return "gemini-2.5-flash"
	case FlashLite25:
		return "gemini-2.5-flash-lite-preview-06-17"
	case Flash20:
		return "gemini-2.0-flash"
	default:
		return "gemini-2.0-flash"
	}
}

func floatPointer(f float32) *float32 {
	return &f
}

type LLMResponse struct {
	Response           string `json:"response"`
	Thoughts           string `json:"thoughts"`
	InputTokenCount    int32  `json:"input_token_count"`
	ThoughtsTokenCount int32  `json:"thoughts_token_count"`
	OutputTokenCount   int32  `json:"output_token_count"`
	TotalTokenCount    int32  `json:"total_token_count"`
}

// LLMStylist is the generative-model boundary. Replies are untrusted free
// text and are parsed defensively by the callers.
type LLMStylist interface {
	ComposeOutfit(ctx context.Context, items []models.WardrobeItem, mood string, season string, occasion string, modelName LLMModelName) (*LLMResponse, error)
	GeneratePlanNarrative(ctx context.Context, items []models.WardrobeItem, plan models.OutfitPlan, prefs models.StylePreferencesIn, modelName LLMModelName) (*LLMResponse, error)
}

type GoogleLLMStylist struct{}

type ResponseWithThoughts struct {
	Thoughts string `json:"thoughts"`
	Text     string `json:"text"`
}

func GetFirstCandidateTextWithThoughts(result *genai.GenerateContentResponse) (*ResponseWithThoughts, error) {
	var thinkingContent string
	for _, c := range result.Candidates {
		fmt.Println("Finish reason: ", c.FinishReason, " Finish message: ", c.FinishMessage)
		if len(c.SafetyRatings) > 0 {
			for _, rating := range c.SafetyRatings {
				fmt.Println("[Safety] rating:", rating.Category, "Score:", rating.Probability, " Blocked:", rating.Blocked)
				if rating.Blocked {
					return nil, fmt.Errorf("content violation: reply blocked because it contains %s", rating.Category)
				}
			}
		}
		for _, part := range c.Content.Parts {
			if part.Thought && part.Text != "" {
				thinkingContent = part.Text
				continue
			}
		}
	}
	return &ResponseWithThoughts{
		Thoughts: thinkingContent,
		Text:     result.Text(),
	}, nil
}

// wardrobeInventoryBlock renders the user's wardrobe as one line per item so
// the model can only pick from what actually exists.
func wardrobeInventoryBlock(items []models.WardrobeItem) string {
	var sb strings.Builder
	for _, item := range items {
		tags := strings.Join(item.StyleTags, ", ")
		sb.WriteString(fmt.Sprintf("- id=%d name=%q category=%q color=%q season=%q style_tags=[%s]\n",
			item.ID, item.Name, item.Category, item.Color, item.Season, tags))
	}
	return sb.String()
}

func generateText(ctx context.Context, systemInstruction string, prompt string, modelName LLMModelName) (*LLMResponse, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  os.Getenv("GOOGLE_API_KEY"),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating genai client: %v", err)
	}

	parts := []*genai.Part{{Text: prompt}}
	result, err := client.Models.GenerateContent(ctx, modelName.String(), []*genai.Content{{Parts: parts}}, &genai.GenerateContentConfig{
		MaxOutputTokens: 50000,
		Temperature:     floatPointer(0.7),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
	})
	if err != nil {
		fmt.Println("Error in GenerateContent:", err)
		return nil, fmt.Errorf("%v", err)
	}
	if result.PromptFeedback != nil {
		fmt.Println(result.PromptFeedback.BlockReason, result.PromptFeedback.BlockReasonMessage)
		return nil, fmt.Errorf("content violation: %s", result.PromptFeedback.BlockReasonMessage)
	}

	llmResponseText, err := GetFirstCandidateTextWithThoughts(result)
	if err != nil {
		fmt.Println("Error getting first candidate text: ", err)
		return nil, fmt.Errorf("error getting first candidate text: %v", err)
	}

	response := &LLMResponse{
		Response: llmResponseText.Text,
		Thoughts: llmResponseText.Thoughts,
	}
	if result.UsageMetadata != nil {
		response.InputTokenCount = result.UsageMetadata.PromptTokenCount
		response.ThoughtsTokenCount = result.UsageMetadata.ThoughtsTokenCount
		response.OutputTokenCount = result.UsageMetadata.CandidatesTokenCount
		response.TotalTokenCount = result.UsageMetadata.TotalTokenCount
		fmt.Println("Input token count:", response.InputTokenCount, "Output token count:", response.OutputTokenCount, "Total token count:", response.TotalTokenCount)
	}
	return response, nil
}

func (GoogleLLMStylist) ComposeOutfit(ctx context.Context, items []models.WardrobeItem, mood string, season string, occasion string, modelName LLMModelName) (*LLMResponse, error) {
	prompt := fmt.Sprintf(`Here is the customer's wardrobe inventory:
%s
Compose one cohesive outfit for mood %q, season %q, occasion %q.
Consider color coordination, style compatibility and appropriateness for the occasion.
Pick 4 to 6 items and reply STRICTLY with a JSON object of the shape {"item_ids": [1, 2, 3, 4]} using only ids from the inventory above. No extra text.`,
		wardrobeInventoryBlock(items), mood, season, occasion)

	return generateText(ctx,
		`You are a personal fashion stylist. You only ever recommend items that exist in the provided wardrobe inventory. Respond with JSON only.`,
		prompt, modelName)
}

func planNarrativePrompt(items []models.WardrobeItem, plan models.OutfitPlan, prefs models.StylePreferencesIn) string {
	// callers may pass a zero-value preferences struct
	prefs = prefs.WithDefaults()
	notes := ""
	if plan.ConversationNotes != nil {
		notes = *plan.ConversationNotes
	}
	return fmt.Sprintf(`Here is the customer's wardrobe inventory:
%s
Customer preferences: preferred fit %s, favorite colors [%s], colors to avoid [%s].
Plan type: %s. Context: %s. Notes from the customer: %s

Write a styling plan using ONLY items from the inventory. Use exactly this structure:
- one block per outfit starting with a line "Outfit <n>: <short name>"
- inside each outfit, one line per item formatted "- <item name> (<color>)"
- a "Color Coordination: <note>" line per outfit
- then the sections "Style Recommendations:", "Practical Considerations:", "Mix-and-Match Options:" and "Budget Considerations:", each followed by "-" bullet lines.
Also include a day-by-day summary table with pipe-separated columns Day | Outfit | Extra Notes.`,
		wardrobeInventoryBlock(items),
		*prefs.PreferredFit, strings.Join(prefs.FavoriteColors, ", "), strings.Join(prefs.AvoidColors, ", "),
		plan.PlanType, plan.Context, notes)
}

func (GoogleLLMStylist) GeneratePlanNarrative(ctx context.Context, items []models.WardrobeItem, plan models.OutfitPlan, prefs models.StylePreferencesIn, modelName LLMModelName) (*LLMResponse, error) {
	prompt := planNarrativePrompt(items, plan, prefs)

	return generateText(ctx,
		`You are a personal fashion stylist writing multi-day outfit plans. Never invent clothing the customer does not own.`,
		prompt, modelName)
}
