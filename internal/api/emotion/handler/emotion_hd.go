package emotionHandler

import (
	"EmotionGolang/internal/api/emotion"
	"EmotionGolang/internal/middleware"
	contextPkg "EmotionGolang/pkg/context"
	"EmotionGolang/pkg/handlerUtil"
	jwtPkg "EmotionGolang/pkg/jwt"
	"EmotionGolang/pkg/log"
	"EmotionGolang/pkg/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"
)

const (
	inferenceTimeout = 30 * time.Second
	wsReadTimeout    = 60 * time.Second
	wsWriteTimeout   = 10 * time.Second
)

// uploadFields are tried in order; "image" is accepted for older clients.
var uploadFields = []string{"file", "image"}

func predictionBody(result *emotion.PredictResult) interface{} {
	if result.NoFace {
		return emotion.NoFace()
	}
	return emotion.ToPredictionResponse(result.Record)
}

func (h *EmotionHandler) Predict(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), inferenceTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing emotion prediction request")

	var imageData []byte
	err := utils.ErrNoFile
	for _, field := range uploadFields {
		file, formErr := ctx.FormFile(field)
		if formErr != nil {
			continue
		}

		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"field":      field,
			"file_name":  file.Filename,
			"file_size":  file.Size,
		}).Debug("Processing file upload")

		if err = h.utils.ValidateImageFile(file); err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "validate_image_file")
		}

		fileContent, openErr := file.Open()
		if openErr != nil {
			return errHandler.Handle(ctx, requestID, openErr, ctx.Path(), "open_file")
		}
		defer fileContent.Close()

		imageData, err = h.utils.ReadFile(fileContent)
		if err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_file")
		}
		break
	}
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "form_file")
	}

	result, err := h.emotionService.Predict(c, imageData)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "predict")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, predictionBody(result))
	}
}

func (h *EmotionHandler) PredictBase64(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), inferenceTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req emotion.PredictBase64Request
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	result, err := h.emotionService.PredictBase64(c, req.Image)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "predict_base64")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, predictionBody(result))
	}
}

func (h *EmotionHandler) History(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	query := emotion.HistoryQuery{Limit: emotion.DefaultHistoryLimit}
	if err := ctx.QueryParser(&query); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(query); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, h.emotionService.History(query.Limit))
}

func (h *EmotionHandler) Emotions(ctx *fiber.Ctx) error {
	return handlerUtil.New(h.log).HandleSuccess(ctx, fiber.StatusOK, h.emotionService.Emotions())
}

func (h *EmotionHandler) ResetHistory(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	operator, err := jwtPkg.GetOperatorLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "operator token required")
	}

	h.emotionService.ResetHistory()

	h.log.WithFields(log.Fields{
		"request_id":  requestID,
		"operator_id": operator.ID,
	}).Info("History reset by operator")

	return errHandler.HandleSuccess(ctx, fiber.StatusNoContent, nil)
}

// handleWebSocket runs one prediction per frame. Binary frames carry the
// encoded image, text frames a base64 string or data URI.
func (h *EmotionHandler) handleWebSocket(c *websocket.Conn) {
	requestID, _ := c.Locals(middleware.RequestIDKey).(string)
	wsLog := h.log.WithField("request_id", requestID)

	wsLog.Info("Emotion WebSocket client connected")
	defer wsLog.Info("Emotion WebSocket client disconnected")

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			wsLog.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	for {
		if err := c.SetReadDeadline(time.Now().Add(wsReadTimeout)); err != nil {
			wsLog.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Errorf("Emotion WebSocket error: %v", err)
			}
			break
		}

		ctx, cancel := context.WithTimeout(contextPkg.WithRequestID(context.Background(), requestID), inferenceTimeout)
		var result *emotion.PredictResult
		switch messageType {
		case websocket.BinaryMessage:
			result, err = h.emotionService.Predict(ctx, message)
		case websocket.TextMessage:
			result, err = h.emotionService.PredictBase64(ctx, string(message))
		default:
			cancel()
			continue
		}
		cancel()

		var body interface{}
		if err != nil {
			wsLog.Warnf("Error processing frame: %v", err)
			body = fiber.Map{"error": err.Error()}
		} else {
			body = predictionBody(result)
		}

		if err := c.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
			wsLog.Errorf("Error setting write deadline: %v", err)
			break
		}

		if err := c.WriteJSON(body); err != nil {
			wsLog.Errorf("Error writing JSON response: %v", err)
			break
		}
	}
}
