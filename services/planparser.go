package services

import (
	"regexp"
	"strings"

	"stylaapi/models"

	"github.com/lib/pq"
)

// DefaultBudgetNote is used when the narrative never provided a budget
// section.
const DefaultBudgetNote = "Work with your existing wardrobe before considering new purchases."

// PlanItemCategoryPlaceholder is assigned to parsed items; the narrative does
// not carry per-item categories.
const PlanItemCategoryPlaceholder = "clothing"

type parseState int

const (
	stateNone parseState = iota
	stateInOutfit
	stateStyle
	statePractical
	stateMixMatch
	stateBudget
)

var planItemBulletRe = regexp.MustCompile(`^-\s*(.+?)\s*\(([^)]+)\)\s*$`)

type planBuilder struct {
	state     parseState
	outfits   []models.PlanOutfit
	current   *models.PlanOutfit
	style     []string
	practical []string
	mixMatch  []string
	budget    []string
}

func (b *planBuilder) flushOutfit() {
	if b.current != nil {
		b.current.Position = len(b.outfits)
		b.outfits = append(b.outfits, *b.current)
		b.current = nil
	}
}

func (b *planBuilder) sectionAppend(line string, bullet bool) {
	content := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "-"))
	if content == "" {
		return
	}
	switch b.state {
	case stateStyle:
		b.style = append(b.style, content)
	case statePractical:
		b.practical = append(b.practical, content)
	case stateMixMatch:
		// mix-and-match stays a discrete list; plain continuations never
		// reach it
		if bullet {
			b.mixMatch = append(b.mixMatch, content)
		}
	case stateBudget:
		b.budget = append(b.budget, content)
	}
}

// transition is one row of the parser's transition table: when match accepts
// a line, apply mutates the builder (including its state).
type transition struct {
	name  string
	match func(b *planBuilder, line string) bool
	apply func(b *planBuilder, line string)
}

func headerMatch(label string) func(b *planBuilder, line string) bool {
	return func(b *planBuilder, line string) bool {
		return strings.HasPrefix(strings.TrimSpace(line), label)
	}
}

var planTransitions = []transition{
	{
		name: "outfit-start",
		match: func(b *planBuilder, line string) bool {
			return strings.Contains(line, "Outfit") && strings.Contains(line, ":")
		},
		apply: func(b *planBuilder, line string) {
			b.flushOutfit()
			name := strings.Trim(strings.TrimSpace(line), "#* ")
			name = strings.TrimSpace(strings.TrimSuffix(name, ":"))
			b.current = &models.PlanOutfit{Name: name}
			b.state = stateInOutfit
		},
	},
	{
		name: "color-coordination",
		match: func(b *planBuilder, line string) bool {
			return b.current != nil && strings.Contains(line, "Color Coordination:")
		},
		apply: func(b *planBuilder, line string) {
			idx := strings.Index(line, "Color Coordination:")
			b.current.ColorCoordination = strings.TrimSpace(line[idx+len("Color Coordination:"):])
		},
	},
	{
		name: "outfit-item",
		match: func(b *planBuilder, line string) bool {
			return b.current != nil && b.state == stateInOutfit && planItemBulletRe.MatchString(strings.TrimSpace(line))
		},
		apply: func(b *planBuilder, line string) {
			groups := planItemBulletRe.FindStringSubmatch(strings.TrimSpace(line))
			b.current.Items = append(b.current.Items, models.PlanOutfitItem{
				Name:      groups[1],
				Color:     groups[2],
				Category:  PlanItemCategoryPlaceholder,
				StyleTags: pq.StringArray{},
			})
		},
	},
	{
		name:  "style-header",
		match: headerMatch("Style Recommendations:"),
		apply: func(b *planBuilder, line string) { b.flushOutfit(); b.state = stateStyle },
	},
	{
		name:  "practical-header",
		match: headerMatch("Practical Considerations:"),
		apply: func(b *planBuilder, line string) { b.flushOutfit(); b.state = statePractical },
	},
	{
		name:  "mixmatch-header",
		match: headerMatch("Mix-and-Match Options:"),
		apply: func(b *planBuilder, line string) { b.flushOutfit(); b.state = stateMixMatch },
	},
	{
		name:  "budget-header",
		match: headerMatch("Budget Considerations:"),
		apply: func(b *planBuilder, line string) { b.flushOutfit(); b.state = stateBudget },
	},
	{
		name: "section-bullet",
		match: func(b *planBuilder, line string) bool {
			return b.state >= stateStyle && strings.HasPrefix(strings.TrimSpace(line), "-")
		},
		apply: func(b *planBuilder, line string) { b.sectionAppend(line, true) },
	},
	{
		name: "section-continuation",
		match: func(b *planBuilder, line string) bool {
			return b.state >= stateStyle && strings.TrimSpace(line) != ""
		},
		apply: func(b *planBuilder, line string) { b.sectionAppend(line, false) },
	},
}

// ParsedPlan is the structured, best-effort index over a plan narrative.
type ParsedPlan struct {
	Outfits                 []models.PlanOutfit
	StyleRecommendations    string
	PracticalConsiderations string
	MixAndMatchOptions      []string
	BudgetConsiderations    string
}

// ParsePlanNarrative structures a loosely formatted plan narrative. It is a
// heuristic line parser, not a grammar: malformed input degrades to a
// partial or empty ParsedPlan, it never fails.
func ParsePlanNarrative(narrative string) ParsedPlan {
	b := &planBuilder{state: stateNone}
	for _, line := range strings.Split(narrative, "\n") {
		for _, tr := range planTransitions {
			if tr.match(b, line) {
				tr.apply(b, line)
				break
			}
		}
	}
	b.flushOutfit()

	budget := strings.TrimSpace(strings.Join(b.budget, " "))
	if budget == "" {
		budget = DefaultBudgetNote
	}
	mixMatch := b.mixMatch
	if mixMatch == nil {
		mixMatch = []string{}
	}
	return ParsedPlan{
		Outfits:                 b.outfits,
		StyleRecommendations:    strings.TrimSpace(strings.Join(b.style, " ")),
		PracticalConsiderations: strings.TrimSpace(strings.Join(b.practical, " ")),
		MixAndMatchOptions:      mixMatch,
		BudgetConsiderations:    budget,
	}
}
