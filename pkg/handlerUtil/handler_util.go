package handlerUtil

import (
	"EmotionGolang/internal/api/emotion"
	"EmotionGolang/pkg/log"
	"EmotionGolang/pkg/response"
	"EmotionGolang/pkg/utils"
	"errors"

	"github.com/gofiber/fiber/v2"
	fiberUtils "github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

type domainError struct {
	target  error
	code    string
	message string
}

// order matters: the first match wins
var emotionErrors = []domainError{
	{emotion.ErrDecodeImage, "DECODE_ERROR", "Unable to read the image"},
	{emotion.ErrDetectionFailure, "DETECTION_FAILURE", "Face detection failed"},
	{emotion.ErrInvalidCrop, "INVALID_CROP", "Detected face region is empty"},
	{emotion.ErrClassifierUnavailable, "CLASSIFIER_UNAVAILABLE", "Emotion classifier is not loaded"},
	{emotion.ErrClassificationFailure, "CLASSIFICATION_FAILURE", "Emotion classification failed"},
	{emotion.ErrRequestAbandoned, "REQUEST_TIMEOUT", "Request timed out"},
	{emotion.ErrBadRequest, "BAD_REQUEST", "Bad request"},
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	fields := log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}

	for _, de := range emotionErrors {
		if !errors.Is(err, de.target) {
			continue
		}

		status := fiber.StatusInternalServerError
		var respErr *response.Error
		if errors.As(de.target, &respErr) {
			status = respErr.Code
		}

		fields["code"] = de.code
		if status >= fiber.StatusInternalServerError {
			h.logger.WithFields(fields).Error(de.message)
		} else {
			h.logger.WithFields(fields).Warn(de.message)
		}

		return c.Status(status).JSON(ErrorResponse{
			Error:   de.message,
			Code:    de.code,
			Details: err.Error(),
		})
	}

	if errors.Is(err, utils.ErrNoFile) || errors.Is(err, utils.ErrNotAnImage) || errors.Is(err, utils.ErrFileTooLarge) {
		h.logger.WithFields(fields).Warn("Invalid upload")
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_FILE",
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
		h.logger.WithFields(fields).Warn("Request rejected")
		return c.Status(fiberErr.Code).JSON(ErrorResponse{
			Error: fiberErr.Message,
		})
	}

	var respErr *response.Error
	if errors.As(err, &respErr) {
		fields["code"] = respErr.Code
		h.logger.WithFields(fields).Warn("Operation failed with error response")
		return c.Status(respErr.Code).JSON(fiber.Map{"error": err.Error()})
	}

	traceID := log.ErrorWithTraceID(fields, "Unexpected error")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":    "An unexpected error occurred",
		"trace_id": traceID,
	})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Validation failed: " + err.Error(),
		"code":  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(fiberUtils.StatusMessage(fiber.StatusRequestTimeout))
}

func (h *ErrorHandler) HandleUnauthorized(c *fiber.Ctx, requestID string, message string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"path":       c.Path(),
		"message":    message,
	}).Warn("Unauthorized access")

	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": message,
		"code":  "UNAUTHORIZED",
	})
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
