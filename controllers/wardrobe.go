package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	"stylaapi/models"
	"stylaapi/services"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type CreateWardrobeItemIn struct {
	Name        string   `json:"name" validate:"required,max=100"`
	FileName    *string  `json:"file_name" validate:"required,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=500"`
	Category    string   `json:"category" validate:"required,max=60"` // e.g. T-Shirt, Jeans, Sneakers
	Color       string   `json:"color" validate:"required,max=40"`
	Season      string   `json:"season" validate:"required,max=40"` // Summer, Winter, Spring, Fall, All Season
	StyleTags   []string `json:"style_tags" validate:"omitempty,max=10,dive,max=30"`
}

type WardrobeItemResponse struct {
	ID        uint     `json:"id"`
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Color     string   `json:"color"`
	Season    string   `json:"season"`
	StyleTags []string `json:"style_tags"`
	Status    string   `json:"status"`
	Uri       *string  `json:"uri,omitempty"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

type WardrobeItemCreatedResponse struct {
	Item          WardrobeItemResponse `json:"item"`
	FileUploadUrl string               `json:"file_upload_url"`
}

type WardrobeListResponse struct {
	Tops        []WardrobeItemResponse `json:"tops"`
	Bottoms     []WardrobeItemResponse `json:"bottoms"`
	Shoes       []WardrobeItemResponse `json:"shoes"`
	Accessories []WardrobeItemResponse `json:"accessories"`
	Other       []WardrobeItemResponse `json:"other"`
}

type WardrobeController struct {
	AWSService services.AWSServiceProvider
	URLCache   services.URLCacheServiceProvider
}

func (controller *WardrobeController) WardrobeRoutes(g *echo.Group) {
	g.POST("/create", controller.CreateWardrobeItem)
	g.GET("/list", controller.ListWardrobe)
}

func (controller *WardrobeController) CreateWardrobeItem(c echo.Context) error {
	var req CreateWardrobeItemIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
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

	if req.FileName == nil || *req.FileName == "" {
		sentry.CaptureException(fmt.Errorf("Image was not provided when creating wardrobe item %s, user %v", req.Name, user.ID))
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Sorry, it seems image was not provided, please try again"})
	}

	item := models.WardrobeItem{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Color:       req.Color,
		Season:      req.Season,
		StyleTags:   pq.StringArray(req.StyleTags),
		OwnerID:     user.ID,
		Status:      "in_closet",
	}
	var bucketName = services.GetEnv("R2_BUCKET_NAME", "")
	safeFileName := fmt.Sprintf("wardrobe/%s", *req.FileName)

	uploadUrl, presignErr := controller.AWSService.PresignLink(context.Background(), bucketName, safeFileName)
	item.ImageURL = &safeFileName
	if presignErr != nil {
		log.Printf("Unable to presign upload for %s!, %s", item.Name, presignErr)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"message": "Error while creating wardrobe item with attachment",
		})
	}
	if err := db.Create(&item).Error; err != nil {
		sentry.CaptureException(err)
		return err
	}

	response := WardrobeItemCreatedResponse{
		Item: WardrobeItemResponse{
			ID:        item.ID,
			Name:      item.Name,
			Category:  item.Category,
			Color:     item.Color,
			Season:    item.Season,
			StyleTags: item.StyleTags,
			Status:    item.Status,
			CreatedAt: item.CreatedAt.Format("2006-01-02T15:04:05Z"),
			UpdatedAt: item.UpdatedAt.Format("2006-01-02T15:04:05Z"),
		},
		FileUploadUrl: uploadUrl,
	}
	return c.JSON(http.StatusCreated, response)
}

// populatePresignedItemImages enriches raw wardrobe items with presigned
// read URLs concurrently, going through the URL cache with a direct S3
// failsafe when the cache layer itself fails.
func (controller *WardrobeController) populatePresignedItemImages(ctx context.Context, items []models.WardrobeItem) []WardrobeItemResponse {
	if len(items) == 0 {
		return []WardrobeItemResponse{}
	}

	var wg sync.WaitGroup
	processedResponses := make([]WardrobeItemResponse, len(items))
	bucketName := services.GetEnv("R2_BUCKET_NAME", "")

	for i, wardrobeItem := range items {
		wg.Add(1)
		go func(index int, item models.WardrobeItem) {
			defer wg.Done()

			var imageUrl string
			if item.ImageURL != nil && *item.ImageURL != "" {
				objectKey := *item.ImageURL
				url, err := controller.URLCache.GetReadURL(ctx, objectKey)
				if err == nil {
					imageUrl = url
				} else {
					log.Printf("CACHE WARNING: Cache system failed for key '%s': %v. Triggering manual R2 fallback.", objectKey, err)
					sentry.WithScope(func(scope *sentry.Scope) {
						scope.SetTag("failure_type", "cache_system")
						scope.SetExtra("objectKey", objectKey)
						sentry.CaptureException(err)
					})
					fallbackUrl, fallbackErr := controller.AWSService.GetPresignedFileReadURL(ctx, bucketName, objectKey)
					if fallbackErr != nil {
						log.Printf("CRITICAL: Manual R2 fallback also failed for key '%s': %v", objectKey, fallbackErr)
						sentry.CaptureException(fallbackErr)
					} else {
						imageUrl = fallbackUrl
					}
				}
			}
			processedResponses[index] = WardrobeItemResponse{
				ID:        item.ID,
				Name:      item.Name,
				Category:  item.Category,
				Color:     item.Color,
				Season:    item.Season,
				StyleTags: item.StyleTags,
				Status:    item.Status,
				CreatedAt: item.CreatedAt.Format("2006-01-02T15:04:05Z"),
				UpdatedAt: item.UpdatedAt.Format("2006-01-02T15:04:05Z"),
				Uri:       &imageUrl,
			}
		}(i, wardrobeItem)
	}

	wg.Wait()
	return processedResponses
}

func (controller *WardrobeController) ListWardrobe(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	var items []models.WardrobeItem
	if err := db.Where("owner_id = ?", user.ID).Order("created_at desc").Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch wardrobe"})
	}

	processedResponses := controller.populatePresignedItemImages(c.Request().Context(), items)

	response := WardrobeListResponse{
		Tops:        []WardrobeItemResponse{},
		Bottoms:     []WardrobeItemResponse{},
		Shoes:       []WardrobeItemResponse{},
		Accessories: []WardrobeItemResponse{},
		Other:       []WardrobeItemResponse{},
	}
	for i, resp := range processedResponses {
		switch services.BucketForItem(items[i]) {
		case "tops":
			response.Tops = append(response.Tops, resp)
		case "bottoms":
			response.Bottoms = append(response.Bottoms, resp)
		case "shoes":
			response.Shoes = append(response.Shoes, resp)
		case "accessories":
			response.Accessories = append(response.Accessories, resp)
		default:
			response.Other = append(response.Other, resp)
		}
	}
	return c.JSON(http.StatusOK, response)
}
