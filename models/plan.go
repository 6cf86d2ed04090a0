package models

import "github.com/lib/pq"

// OutfitPlan is a persisted multi-outfit styling document generated from a
// longer narrative. Preview always keeps the narrative verbatim; the
// structured fields are a best-effort index into it, never a replacement.
type OutfitPlan struct {
	JsonModel
	Owner   UserAccount `json:"-"`
	OwnerID uint        `json:"-"`
	// week, trip, occasion
	PlanType string `json:"plan_type"`
	// what triggered the plan, e.g. "5 day business trip to Oslo"
	Context           string  `gorm:"type:text" json:"context"`
	ConversationNotes *string `gorm:"type:text" json:"conversation_notes"`
	// validated StylePreferencesIn snapshot taken at plan creation
	PreferencesJSON *string `gorm:"type:text" json:"-"`
	// verbatim narrative text from the generator
	Preview string `gorm:"type:text" json:"preview"`

	Outfits                 []PlanOutfit   `json:"outfits"`
	StyleRecommendations    string         `gorm:"type:text" json:"style_recommendations"`
	PracticalConsiderations string         `gorm:"type:text" json:"practical_considerations"`
	MixAndMatchOptions      pq.StringArray `gorm:"type:text[]" json:"mix_and_match_options"`
	BudgetConsiderations    string         `gorm:"type:text" json:"budget_considerations"`

	Status                 string  `json:"status"` // pending, generated, failed
	GenerationErrorMessage *string `json:"generation_error_message"`
	GenerateRetryTimes     uint    `json:"-"`

	InputTokenCount    *int32  `json:"prompt_token_count"`
	ThoughtsTokenCount *int32  `json:"thoughts_token_count"`
	OutputTokenCount   *int32  `json:"output_token_count"`
	TotalTokenCount    *int32  `json:"total_token_count"`
	LLMModel           *string `json:"llm_model"`
}

type PlanOutfit struct {
	JsonModel
	OutfitPlanID      uint             `json:"-"`
	Name              string           `json:"name"`
	ColorCoordination string           `gorm:"type:text" json:"color_coordination"`
	Position          int              `json:"position"`
	Items             []PlanOutfitItem `json:"items"`
}

type PlanOutfitItem struct {
	JsonModel
	PlanOutfitID uint           `json:"-"`
	Name         string         `json:"name"`
	Category     string         `json:"category"`
	Color        string         `json:"color"`
	StyleTags    pq.StringArray `gorm:"type:text[]" json:"style_tags"`
}
