package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"stylaapi/models"
	"stylaapi/services"
	"stylaapi/tasks"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type CreatePlanIn struct {
	PlanType          string                     `json:"plan_type" validate:"required,oneof=week trip occasion"`
	Context           string                     `json:"context" validate:"required,max=500"`
	ConversationNotes *string                    `json:"conversation_notes" validate:"omitempty,max=2000"`
	Preferences       *models.StylePreferencesIn `json:"preferences"`
}

type PlansController struct {
	PDFRenderer services.PDFRenderServiceProvider
	URLCache    services.URLCacheServiceProvider
	FirebaseApp *firebase.App
}

func (controller *PlansController) PlanRoutes(g *echo.Group) {
	g.POST("/create", controller.CreatePlan)
	g.GET("/list", controller.ListPlans)
	g.GET("/:id", controller.GetPlan)
	g.GET("/:id/document", controller.ExportPlanDocument)
}

func (controller *PlansController) CreatePlan(c echo.Context) error {
	var req CreatePlanIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if req.Preferences != nil {
		if err := c.Validate(req.Preferences.WithDefaults()); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
	}

	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	plan := models.OutfitPlan{
		OwnerID:            user.ID,
		PlanType:           req.PlanType,
		Context:            req.Context,
		ConversationNotes:  req.ConversationNotes,
		Status:             "pending",
		MixAndMatchOptions: []string{},
	}
	if req.Preferences != nil {
		snapshot, err := json.Marshal(req.Preferences.WithDefaults())
		if err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid preferences"})
		}
		plan.PreferencesJSON = services.StrPointer(string(snapshot))
	}
	if err := db.Create(&plan).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create plan"})
	}

	asynqClient, ok := c.Get("__asynqclient").(*asynq.Client)
	if !ok {
		sentry.CaptureException(fmt.Errorf("[Plan: %v] Task queue unavailable on plan creation", plan.ID))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Task queue unavailable"})
	}
	task, err := tasks.NewPlanGenerationTask(plan.ID)
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to enqueue plan generation"})
	}
	info, err := asynqClient.Enqueue(task, asynq.MaxRetry(3), asynq.Queue("generate"))
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Plan: %v] Error on enqueueing generation: %v", plan.ID, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to enqueue plan generation"})
	}
	fmt.Printf("[Plan: %v] Enqueued generation task: id=%s queue=%s\n", plan.ID, info.ID, info.Queue)

	return c.JSON(http.StatusCreated, plan)
}

func (controller *PlansController) ListPlans(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	var plans []models.OutfitPlan
	if err := db.Where("owner_id = ?", user.ID).Order("created_at desc").Find(&plans).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch plans"})
	}
	return c.JSON(http.StatusOK, plans)
}

func (controller *PlansController) loadOwnedPlan(c echo.Context, db *gorm.DB, preload bool) (*models.OutfitPlan, error) {
	user := c.Get("currentUser").(models.UserAccount)
	var plan models.OutfitPlan
	query := db.Where("owner_id = ?", user.ID)
	if preload {
		query = query.Preload("Outfits.Items").Preload("Outfits")
	}
	if err := query.First(&plan, "id = ?", c.Param("id")).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (controller *PlansController) GetPlan(c echo.Context) error {
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}
	plan, err := controller.loadOwnedPlan(c, db, true)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Plan not found"})
	}
	return c.JSON(http.StatusOK, plan)
}

// ExportPlanDocument renders the plan narrative as a PDF. Wardrobe image
// links inside the document use presigned URLs so they stay clickable after
// export.
func (controller *PlansController) ExportPlanDocument(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}
	plan, err := controller.loadOwnedPlan(c, db, false)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Plan not found"})
	}
	if plan.Status != "generated" || plan.Preview == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Plan has no generated content to export yet"})
	}

	var wardrobe []models.WardrobeItem
	if err := db.Where("owner_id = ?", user.ID).Find(&wardrobe).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch wardrobe"})
	}
	// swap storage keys for presigned read URLs so injected links resolve
	for i := range wardrobe {
		if wardrobe[i].ImageURL == nil || *wardrobe[i].ImageURL == "" {
			continue
		}
		url, cacheErr := controller.URLCache.GetReadURL(c.Request().Context(), *wardrobe[i].ImageURL)
		if cacheErr != nil {
			fmt.Printf("[Plan: %v] Skipping link for item %v, presign failed: %v\n", plan.ID, wardrobe[i].ID, cacheErr)
			wardrobe[i].ImageURL = nil
			continue
		}
		wardrobe[i].ImageURL = &url
	}

	bodyHTML := services.RenderPlanTableHTML(plan.Preview, wardrobe)
	title := fmt.Sprintf("Styling Plan: %s", plan.Context)

	pdfBytes, err := controller.PDFRenderer.RenderDocument(c.Request().Context(), title, bodyHTML)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Plan: %v] Error on rendering document: %v", plan.ID, err))
		return c.JSON(http.StatusBadGateway, map[string]string{"error": fmt.Sprintf("Document rendering failed: %v", err)})
	}

	c.Response().Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="styling-plan-%d.pdf"`, plan.ID))
	return c.Blob(http.StatusOK, "application/pdf", pdfBytes)
}
