package config

import (
	"EmotionGolang/internal/entity"
	websocketPkg "EmotionGolang/pkg/websocket"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModelWebsocket struct{}

func (stubModelWebsocket) DetectFaces(context.Context, []byte) ([]entity.FaceBox, error) {
	return nil, nil
}

func (stubModelWebsocket) Classify(context.Context, entity.Tensor) (entity.ProbabilityVector, error) {
	return entity.ProbabilityVector{}, nil
}

func (stubModelWebsocket) IsConnected(websocketPkg.ServiceType) bool { return true }

func (stubModelWebsocket) Reconnect(websocketPkg.ServiceType) error { return nil }

func (stubModelWebsocket) CloseConnections() {}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestNewServerRequiresCoreOptions(t *testing.T) {
	_, err := NewServer(WithLogger(quietLogger()))
	assert.Error(t, err)

	_, err = NewServer(WithFiber(fiber.New()), WithLogger(quietLogger()))
	assert.Error(t, err)
}

func TestWithClassifierRejectsUnknownBackend(t *testing.T) {
	t.Setenv("CLASSIFIER_BACKEND", "tensorflow")

	_, err := NewServer(
		WithFiber(fiber.New()),
		WithLogger(quietLogger()),
		WithModelWebSocket(stubModelWebsocket{}),
		WithClassifier(),
	)

	assert.ErrorContains(t, err, "tensorflow")
}

func TestWithImageStoreRejectsUnknownSink(t *testing.T) {
	t.Setenv("ANNOTATED_IMAGE_STORE", "ftp")

	_, err := NewServer(
		WithFiber(fiber.New()),
		WithLogger(quietLogger()),
		WithModelWebSocket(stubModelWebsocket{}),
		WithImageStore(),
	)

	assert.Error(t, err)
}

func TestRegisterHandlerServesRoutes(t *testing.T) {
	t.Setenv("CLASSIFIER_BACKEND", "")
	t.Setenv("REDIS_ADDRESS", "")
	t.Setenv("ANNOTATED_IMAGE_STORE", "")

	app := NewFiber(quietLogger())
	server, err := NewServer(
		WithFiber(app),
		WithLogger(quietLogger()),
		WithValidator(NewValidator()),
		WithModelWebSocket(stubModelWebsocket{}),
		WithClassifier(),
		WithImageStore(),
		WithRedisPublisher(),
		WithMiddleware(),
		WithUtils(),
	)
	require.NoError(t, err)

	server.RegisterHandler()
	server.engine.Use(server.middleware.NewRequestIDMiddleware())
	router := server.engine.Group("/api/v1")
	for _, h := range server.handlers {
		h.Start(router)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	var health map[string]string
	require.NoError(t, jsoniter.Unmarshal(raw, &health))
	assert.Equal(t, "1.0", health["version"])
	assert.Equal(t, "API de reconnaissance d'émotions faciales", health["message"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/emotion/emotions", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestNewFiberDefaultCORSOrigin(t *testing.T) {
	t.Setenv("CORS_ALLOW_ORIGINS", "")
	app := NewFiber(quietLogger())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:3001")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3001", resp.Header.Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://untrusted.test")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}
