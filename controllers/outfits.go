package controllers

import (
	"errors"
	"net/http"

	"stylaapi/models"
	"stylaapi/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type SuggestOutfitIn struct {
	Mood     string `json:"mood" validate:"required,max=40"`
	Season   string `json:"season" validate:"required,max=40"`
	Occasion string `json:"occasion" validate:"omitempty,max=80"`
}

type SuggestOutfitResponse struct {
	Outcome   string   `json:"outcome"`
	Source    string   `json:"source,omitempty"`
	ItemNames []string `json:"item_names,omitempty"`
	ImageURLs []string `json:"image_urls,omitempty"`
	ItemIDs   []uint   `json:"item_ids,omitempty"`
	Message   string   `json:"message,omitempty"`
}

type StylingController struct {
	Stylist  services.LLMStylist
	URLCache services.URLCacheServiceProvider
}

func (controller *StylingController) StylingRoutes(g *echo.Group) {
	g.POST("/suggest", controller.SuggestOutfit)
}

func (controller *StylingController) SuggestOutfit(c echo.Context) error {
	var req SuggestOutfitIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	var items []models.WardrobeItem
	if err := db.Where("owner_id = ?", user.ID).Order("created_at asc").Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch wardrobe"})
	}
	if len(items) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Your wardrobe is empty, add some items first"})
	}

	suggestion, err := services.SuggestOutfit(c.Request().Context(), controller.Stylist, items, req.Mood, req.Season, req.Occasion, services.Flash25)
	if err != nil {
		if errors.Is(err, services.ErrNoSuitableItems) {
			return c.JSON(http.StatusOK, SuggestOutfitResponse{
				Outcome: "no_suitable_items",
				Message: "No suitable items found for this mood and season, try different filters",
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to compose an outfit"})
	}

	response := SuggestOutfitResponse{
		Outcome:   "suggested",
		Source:    suggestion.Source,
		ItemNames: suggestion.ItemNames,
		ImageURLs: make([]string, len(suggestion.Items)),
		ItemIDs:   make([]uint, len(suggestion.Items)),
	}
	for i, item := range suggestion.Items {
		response.ItemIDs[i] = item.ID
		if item.ImageURL == nil || *item.ImageURL == "" {
			continue
		}
		url, cacheErr := controller.URLCache.GetReadURL(c.Request().Context(), *item.ImageURL)
		if cacheErr == nil {
			response.ImageURLs[i] = url
		}
	}
	return c.JSON(http.StatusOK, response)
}
