package emotion

import (
	"EmotionGolang/pkg/response"
	"net/http"
)

var (
	ErrInternalServerError   = response.NewError(http.StatusInternalServerError, "internal server error")
	ErrBadRequest            = response.NewError(http.StatusBadRequest, "bad request")
	ErrDecodeImage           = response.NewError(http.StatusBadRequest, "unable to read the image")
	ErrDetectionFailure      = response.NewError(http.StatusInternalServerError, "face detection failed")
	ErrInvalidCrop           = response.NewError(http.StatusInternalServerError, "detected face region is empty")
	ErrClassifierUnavailable = response.NewError(http.StatusServiceUnavailable, "emotion classifier is not loaded")
	ErrClassificationFailure = response.NewError(http.StatusBadGateway, "emotion classification failed")
	ErrRequestAbandoned      = response.NewError(http.StatusRequestTimeout, "request cancelled before the result was recorded")
)
