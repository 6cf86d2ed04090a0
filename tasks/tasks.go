package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"stylaapi/models"
	"stylaapi/services"
	"stylaapi/telegram"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

const TypePlanGeneration = "generate:plan"

type PlanGenerationPayload struct {
	PlanID uint `json:"plan_id"`
}

func NewPlanGenerationTask(planID uint) (*asynq.Task, error) {
	payload, err := json.Marshal(PlanGenerationPayload{PlanID: planID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePlanGeneration, payload), nil
}

func savePlanGenerationFail(db *gorm.DB, plan models.OutfitPlan, message string, shouldRetry bool) error {
	plan.GenerateRetryTimes = plan.GenerateRetryTimes + 1
	plan.GenerationErrorMessage = &message
	if !shouldRetry || plan.GenerateRetryTimes >= 3 {
		plan.Status = "failed"
	}
	tx := db.Save(&plan)
	if tx.Error != nil {
		sentry.CaptureException(fmt.Errorf("[Fail Plan %v] Error on saving plan for failed status", plan.ID))
		return tx.Error
	}
	return nil
}

// HandlePlanGenerationTask asks the stylist model for a plan narrative,
// stores the narrative verbatim as the plan preview and indexes it into
// structured outfit rows. A narrative that parses to nothing still becomes a
// generated plan, only sparser.
func HandlePlanGenerationTask(ctx context.Context, t *asynq.Task, db *gorm.DB, stylist services.LLMStylist, fbApp *firebase.App) error {
	var payload PlanGenerationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return err
	}
	fmt.Printf("[Plan: %v] Start narrative generation\n", payload.PlanID)

	var plan models.OutfitPlan
	res := db.First(&plan, payload.PlanID)
	if res.Error != nil {
		sentry.CaptureException(fmt.Errorf("[QUEUE] Error on retrieving plan for generation %v", payload.PlanID))
		return res.Error
	}
	if plan.Status == "generated" {
		fmt.Printf("[Plan: %v] Already generated\n", payload.PlanID)
		return nil
	}

	var wardrobe []models.WardrobeItem
	if err := db.Where("owner_id = ?", plan.OwnerID).Order("created_at desc").Find(&wardrobe).Error; err != nil {
		sentry.CaptureException(fmt.Errorf("[Plan: %v] Error on fetching wardrobe: %v", payload.PlanID, err))
		return err
	}
	if len(wardrobe) == 0 {
		savePlanGenerationFail(db, plan, "Your closet is empty, add some clothes first and try again", false)
		return nil
	}

	var prefs models.StylePreferencesIn
	if plan.PreferencesJSON != nil {
		if err := json.Unmarshal([]byte(*plan.PreferencesJSON), &prefs); err != nil {
			fmt.Printf("[Plan: %v] Unreadable preferences snapshot, using defaults: %v\n", payload.PlanID, err)
		}
	}

	model := services.Flash25
	modelString := model.String()
	fmt.Printf("[Plan: %v] Model: %s\n", payload.PlanID, modelString)

	llmResponse, err := stylist.GeneratePlanNarrative(ctx, wardrobe, plan, prefs.WithDefaults(), model)
	if err != nil {
		fmt.Printf("[Plan: %v] Error on generating narrative: %v\n", payload.PlanID, err)
		savePlanGenerationFail(db, plan, "Failed to generate your styling plan, please try again", true)
		sentry.CaptureException(fmt.Errorf("[Plan: %v] Error on generating narrative: %v", payload.PlanID, err))
		return err
	}
	if llmResponse == nil || llmResponse.Response == "" {
		savePlanGenerationFail(db, plan, "Failed to generate your styling plan, please try again", true)
		sentry.CaptureException(fmt.Errorf("[Plan: %v] Empty narrative but no error provided", payload.PlanID))
		return fmt.Errorf("[Plan: %v] Empty narrative but no error provided", payload.PlanID)
	}
	fmt.Printf("[Plan: %v] LLM Processed, IT: %d, OT: %d, TT: %d, TOT: %d\n", payload.PlanID,
		llmResponse.InputTokenCount, llmResponse.OutputTokenCount, llmResponse.ThoughtsTokenCount, llmResponse.TotalTokenCount)

	// the narrative is authoritative, keep it verbatim whatever the parser
	// manages to extract from it
	plan.Preview = llmResponse.Response

	parsed := services.ParsePlanNarrative(llmResponse.Response)
	if len(parsed.Outfits) == 0 {
		fmt.Printf("[Plan: %v] Narrative parsed to zero outfits, keeping preview only\n", payload.PlanID)
		sentry.CaptureException(fmt.Errorf("[Plan: %v] Narrative parsed to zero outfits", payload.PlanID))
	}

	// replace the structured index rows
	var oldOutfits []models.PlanOutfit
	db.Where("outfit_plan_id = ?", plan.ID).Find(&oldOutfits)
	for _, outfit := range oldOutfits {
		db.Where("plan_outfit_id = ?", outfit.ID).Delete(&models.PlanOutfitItem{})
	}
	db.Where("outfit_plan_id = ?", plan.ID).Delete(&models.PlanOutfit{})

	outfits := parsed.Outfits
	for i := range outfits {
		outfits[i].OutfitPlanID = plan.ID
	}
	if len(outfits) > 0 {
		db.CreateInBatches(outfits, 100)
	}

	plan.StyleRecommendations = parsed.StyleRecommendations
	plan.PracticalConsiderations = parsed.PracticalConsiderations
	plan.MixAndMatchOptions = parsed.MixAndMatchOptions
	plan.BudgetConsiderations = parsed.BudgetConsiderations
	plan.Status = "generated"
	plan.GenerationErrorMessage = nil
	plan.InputTokenCount = services.Int32Pointer(llmResponse.InputTokenCount)
	plan.ThoughtsTokenCount = services.Int32Pointer(llmResponse.ThoughtsTokenCount)
	plan.OutputTokenCount = services.Int32Pointer(llmResponse.OutputTokenCount)
	plan.TotalTokenCount = services.Int32Pointer(llmResponse.TotalTokenCount)
	plan.LLMModel = &modelString

	tx := db.Save(&plan)
	if tx.Error != nil {
		sentry.CaptureException(fmt.Errorf("[QUEUE] Error on saving plan %v", payload.PlanID))
		return tx.Error
	}
	fmt.Printf("[Plan: %v] Generation finished succesfully..\n", payload.PlanID)

	services.SendNotification(fbApp, db, plan.OwnerID, "Your styling plan is ready",
		fmt.Sprintf("Your %s plan has been generated", plan.PlanType),
		map[string]string{"plan_id": fmt.Sprintf("%d", plan.ID), "type": "plan_generated"})
	telegram.NotifyAdmins(fmt.Sprintf("Plan %d generated for user %d (%d outfits)", plan.ID, plan.OwnerID, len(parsed.Outfits)))

	return nil
}
