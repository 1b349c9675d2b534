package config

import (
	emotionHandler "EmotionGolang/internal/api/emotion/handler"
	emotionService "EmotionGolang/internal/api/emotion/service"
	"EmotionGolang/internal/middleware"
	"EmotionGolang/pkg/annotate"
	"EmotionGolang/pkg/classifier"
	"EmotionGolang/pkg/gemini"
	"EmotionGolang/pkg/history"
	"EmotionGolang/pkg/openai"
	"EmotionGolang/pkg/redis"
	"EmotionGolang/pkg/s3"
	"EmotionGolang/pkg/utils"
	websocketPkg "EmotionGolang/pkg/websocket"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	ImageStoreInline = "inline"
	ImageStoreS3     = "s3"

	shutdownTimeout = 10 * time.Second
)

type ServerOption func(*Server) error

type Server struct {
	engine         *fiber.App
	log            *logrus.Logger
	middleware     middleware.Middleware
	validator      *validator.Validate
	utils          utils.IUtils
	handlers       []handler
	modelWebsocket websocketPkg.IWebsocket
	geminiClient   gemini.IGemini
	classifier     classifier.IClassifier
	history        history.IHistory
	imageStore     annotate.IImageStore
	redisServer    redis.IRedis
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.modelWebsocket == nil {
		return nil, fmt.Errorf("face detector websocket is required")
	}
	if server.history == nil {
		server.history = history.New()
	}
	if server.imageStore == nil {
		server.imageStore = annotate.NewInlineStore()
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithModelWebSocket(webSocket websocketPkg.IWebsocket) ServerOption {
	return func(s *Server) error {
		s.modelWebsocket = webSocket
		return nil
	}
}

// WithClassifier picks the backend named by CLASSIFIER_BACKEND. The model
// websocket option must come first when the websocket backend is used.
func WithClassifier() ServerOption {
	return func(s *Server) error {
		backend := strings.ToLower(os.Getenv("CLASSIFIER_BACKEND"))
		if backend == "" {
			backend = classifier.BackendWebsocket
		}

		switch backend {
		case classifier.BackendWebsocket:
			if s.modelWebsocket == nil {
				return fmt.Errorf("model websocket must be initialized before the classifier")
			}
			s.classifier = classifier.NewModelServer(s.modelWebsocket)
		case classifier.BackendGemini:
			client, err := gemini.NewGeminiClient()
			if err != nil {
				if s.log != nil {
					s.log.Errorf("Failed to create Gemini client: %v", err)
				}
				return fmt.Errorf("failed to create Gemini client: %w", err)
			}
			s.geminiClient = client
			s.classifier = classifier.NewGemini(client)
		case classifier.BackendOpenAI:
			client, err := openai.NewVision()
			if err != nil {
				return fmt.Errorf("failed to create OpenAI client: %w", err)
			}
			s.classifier = classifier.NewOpenAI(client)
		default:
			return fmt.Errorf("unknown CLASSIFIER_BACKEND %q", backend)
		}

		if s.log != nil {
			s.log.WithField("backend", s.classifier.Name()).Info("Emotion classifier configured")
		}
		return nil
	}
}

func WithHistory(store history.IHistory) ServerOption {
	return func(s *Server) error {
		s.history = store
		return nil
	}
}

// WithImageStore selects where annotated faces go, from ANNOTATED_IMAGE_STORE.
func WithImageStore() ServerOption {
	return func(s *Server) error {
		switch strings.ToLower(os.Getenv("ANNOTATED_IMAGE_STORE")) {
		case "", ImageStoreInline:
			s.imageStore = annotate.NewInlineStore()
		case ImageStoreS3:
			client, err := s3.New()
			if err != nil {
				if s.log != nil {
					s.log.Errorf("Failed to initialize S3 client: %v", err)
				}
				return fmt.Errorf("failed to create S3 client: %w", err)
			}
			s.imageStore = client
		default:
			return fmt.Errorf("unknown ANNOTATED_IMAGE_STORE %q", os.Getenv("ANNOTATED_IMAGE_STORE"))
		}
		return nil
	}
}

// WithRedisPublisher is a no-op when REDIS_ADDRESS is unset.
func WithRedisPublisher() ServerOption {
	return func(s *Server) error {
		if os.Getenv("REDIS_ADDRESS") == "" {
			return nil
		}

		client, err := redis.New()
		if err != nil {
			return fmt.Errorf("failed to create redis publisher: %w", err)
		}
		s.redisServer = client
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	var opts []emotionService.Option
	if s.redisServer != nil {
		opts = append(opts, emotionService.WithPublisher(s.redisServer))
	}

	emotionServices := emotionService.NewEmotionService(s.log, s.modelWebsocket, s.classifier, s.history, s.imageStore, opts...)
	emotionHandlers := emotionHandler.New(s.log, s.validator, s.middleware, emotionServices, s.utils)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, emotionHandlers)
}

func (s *Server) Run() error {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())
	router := s.engine.Group("/api/v1")

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	if err := s.engine.Listen(fmt.Sprintf(":%s", port)); err != nil {
		s.closeClients()
		return err
	}

	return nil
}

func (s *Server) Shutdown() error {
	err := s.engine.ShutdownWithTimeout(shutdownTimeout)
	s.closeClients()
	return err
}

func (s *Server) closeClients() {
	if s.modelWebsocket != nil {
		s.modelWebsocket.CloseConnections()
	}
	if s.geminiClient != nil {
		s.geminiClient.Close()
	}
	if s.redisServer != nil {
		if err := s.redisServer.Close(); err != nil {
			s.log.Warnf("Failed to close redis client: %v", err)
		}
	}
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "API de reconnaissance d'émotions faciales",
			"version": "1.0",
		})
	})
}
