package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleNarrative = `Here is your 3-day plan!

**Outfit 1: Monday Classic**
- White Shirt (white)
- Blue Jeans (blue)
- Sneakers (white)
Color Coordination: Crisp white over blue keeps it clean.

Outfit 2: Tuesday Layers
- Linen Shirt (beige)
- Blue Jeans (blue)
Color Coordination: Neutral layering.

### Outfit 3: Wednesday Evening:
- Wool Coat (grey)
- Leather Belt (brown)
Color Coordination: Grey and brown, muted and warm.

Style Recommendations:
- Roll the shirt sleeves for a relaxed look.
Tuck in shirts on workdays.

Practical Considerations:
- Check the forecast before Wednesday.

Mix-and-Match Options:
- White Shirt + Wool Coat for cooler evenings
- Linen Shirt + Sneakers for errands
this continuation line is not a bullet and stays out

Budget Considerations:
- Everything comes from your current closet.
`

func TestParsePlanNarrativeOutfits(t *testing.T) {
	parsed := ParsePlanNarrative(sampleNarrative)

	require.Len(t, parsed.Outfits, 3)
	assert.Equal(t, "Outfit 1: Monday Classic", parsed.Outfits[0].Name)
	assert.Equal(t, "Outfit 2: Tuesday Layers", parsed.Outfits[1].Name)
	assert.Equal(t, "Outfit 3: Wednesday Evening", parsed.Outfits[2].Name)
	for i, outfit := range parsed.Outfits {
		assert.Equal(t, i, outfit.Position)
	}

	first := parsed.Outfits[0]
	require.Len(t, first.Items, 3)
	assert.Equal(t, "White Shirt", first.Items[0].Name)
	assert.Equal(t, "white", first.Items[0].Color)
	assert.Equal(t, PlanItemCategoryPlaceholder, first.Items[0].Category)
	assert.Equal(t, "Crisp white over blue keeps it clean.", first.ColorCoordination)

	assert.Equal(t, "Grey and brown, muted and warm.", parsed.Outfits[2].ColorCoordination)
}

func TestParsePlanNarrativeSections(t *testing.T) {
	parsed := ParsePlanNarrative(sampleNarrative)

	assert.Equal(t, "Roll the shirt sleeves for a relaxed look. Tuck in shirts on workdays.", parsed.StyleRecommendations)
	assert.Equal(t, "Check the forecast before Wednesday.", parsed.PracticalConsiderations)
	assert.Equal(t, []string{
		"White Shirt + Wool Coat for cooler evenings",
		"Linen Shirt + Sneakers for errands",
	}, parsed.MixAndMatchOptions)
	assert.Equal(t, "Everything comes from your current closet.", parsed.BudgetConsiderations)
}

func TestParsePlanNarrativeBudgetDefault(t *testing.T) {
	parsed := ParsePlanNarrative("Outfit 1: Only One\n- White Shirt (white)\n")
	assert.Equal(t, DefaultBudgetNote, parsed.BudgetConsiderations)
	assert.Equal(t, []string{}, parsed.MixAndMatchOptions)
}

func TestParsePlanNarrativeGarbageInput(t *testing.T) {
	parsed := ParsePlanNarrative("just some prose\nwith no structure at all\n\n- a stray bullet (grey)")
	assert.Empty(t, parsed.Outfits)
	assert.Empty(t, parsed.StyleRecommendations)
	assert.Empty(t, parsed.PracticalConsiderations)
	assert.Equal(t, []string{}, parsed.MixAndMatchOptions)
	assert.Equal(t, DefaultBudgetNote, parsed.BudgetConsiderations)
}

func TestParsePlanNarrativeEmpty(t *testing.T) {
	parsed := ParsePlanNarrative("")
	assert.Empty(t, parsed.Outfits)
	assert.Equal(t, []string{}, parsed.MixAndMatchOptions)
	assert.Equal(t, DefaultBudgetNote, parsed.BudgetConsiderations)
}

func TestParsePlanNarrativeItemBulletsOutsideOutfit(t *testing.T) {
	parsed := ParsePlanNarrative("- Orphan Item (red)\nOutfit 1: Real\n- White Shirt (white)")
	require.Len(t, parsed.Outfits, 1)
	require.Len(t, parsed.Outfits[0].Items, 1)
	assert.Equal(t, "White Shirt", parsed.Outfits[0].Items[0].Name)
}
