package config

import (
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const defaultAllowOrigins = "http://localhost:3001"

func NewFiber(logger *logrus.Logger) *fiber.App {
	app := fiber.New(
		fiber.Config{
			AppName:           "Emotion Recognition API",
			BodyLimit:         15 * 1024 * 1024,
			DisableKeepalive:  false,
			StrictRouting:     false,
			CaseSensitive:     true,
			EnablePrintRoutes: os.Getenv("APP_ENV") == "development",
			JSONEncoder:       jsoniter.Marshal,
			JSONDecoder:       jsoniter.Unmarshal,
		})

	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			logger.WithFields(logrus.Fields{
				"path":  c.Path(),
				"panic": e,
			}).Error("Recovered from panic")
		},
	}))
	app.Use(cors.New(corsConfig()))

	return app
}

func corsConfig() cors.Config {
	origins := os.Getenv("CORS_ALLOW_ORIGINS")
	if origins == "" {
		origins = defaultAllowOrigins
	}

	return cors.Config{
		AllowOrigins:     strings.ReplaceAll(origins, " ", ""),
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders:    "X-Request-ID",
		AllowCredentials: origins != "*",
	}
}
