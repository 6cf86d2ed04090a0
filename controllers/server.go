package controllers

import (
	"context"
	"log"
	"net/http"
	"os"

	"stylaapi/models"
	"stylaapi/services"

	firebase "firebase.google.com/go/v4"
	"github.com/go-playground/validator"
	"github.com/hibiken/asynq"
	echojwt "github.com/labstack/echo-jwt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func SetupServer(
	db *gorm.DB,
	stylist services.LLMStylist,
	awsService services.AWSServiceProvider,
	pdfRenderer services.PDFRenderServiceProvider,
	firebaseApp *firebase.App,
	asynqClient *asynq.Client,
	urlCache services.URLCacheServiceProvider,
) *echo.Echo {

	err := awsService.InitPresignClient(context.Background())
	if err != nil {
		log.Fatal("Failed to initialize AWS provider: S3")
	}

	e := echo.New()
	v := validator.New()
	v.RegisterValidation("platform", models.ValidatePlatform)
	e.Validator = &CustomValidator{validator: v}
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("__db", db)
			c.Set("__asynqclient", asynqClient)
			return next(c)
		}
	})

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	wardrobeController := WardrobeController{AWSService: awsService, URLCache: urlCache}
	wardrobeGroup := e.Group("/wardrobe", echojwt.JWT([]byte(os.Getenv("JWT_SECRET"))), UserMiddleware)
	wardrobeController.WardrobeRoutes(wardrobeGroup)

	stylingController := StylingController{Stylist: stylist, URLCache: urlCache}
	stylingGroup := e.Group("/styling", echojwt.JWT([]byte(os.Getenv("JWT_SECRET"))), UserMiddleware)
	stylingController.StylingRoutes(stylingGroup)

	plansController := PlansController{PDFRenderer: pdfRenderer, URLCache: urlCache, FirebaseApp: firebaseApp}
	plansGroup := e.Group("/plans", echojwt.JWT([]byte(os.Getenv("JWT_SECRET"))), UserMiddleware)
	plansController.PlanRoutes(plansGroup)

	profileController := ProfileController{}
	profileGroup := e.Group("/profile", echojwt.JWT([]byte(os.Getenv("JWT_SECRET"))), UserMiddleware)
	profileController.ProfileRoutes(profileGroup)

	return e
}
