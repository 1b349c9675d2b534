package emotionHandler

import (
	emotionService "EmotionGolang/internal/api/emotion/service"
	"EmotionGolang/internal/middleware"
	"EmotionGolang/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type EmotionHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	emotionService emotionService.IEmotionService
	utils          utils.IUtils
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	es emotionService.IEmotionService,
	utils utils.IUtils,
) *EmotionHandler {
	return &EmotionHandler{
		emotionService: es,
		log:            log,
		validator:      validator,
		middleware:     middleware,
		utils:          utils,
	}
}

func (h *EmotionHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	emotion := srv.Group("/emotion")
	emotion.Post("/predict", h.middleware.NewRateLimiter, h.Predict)
	emotion.Post("/predict-base64", h.middleware.NewRateLimiter, h.PredictBase64)
	emotion.Get("/history", h.History)
	emotion.Delete("/history", h.middleware.NewTokenMiddleware, h.ResetHistory)
	emotion.Get("/emotions", h.Emotions)

	emotion.Use("/ws", wsMiddleware)
	emotion.Get("/ws", websocket.New(h.handleWebSocket))
}
