package emotion

import "EmotionGolang/internal/entity"

const (
	NoFaceMessage       = "Aucun visage détecté"
	DefaultHistoryLimit = 10
)

type PredictBase64Request struct {
	Image string `json:"image" validate:"required"`
}

type HistoryQuery struct {
	Limit int `query:"limit" validate:"min=1"`
}

type PredictionResponse struct {
	Prediction     string             `json:"prediction"`
	Confidence     float64            `json:"confidence"`
	AllPredictions map[string]float64 `json:"all_predictions"`
	LabelFR        string             `json:"label_fr"`
	Description    string             `json:"description"`
	Tips           []string           `json:"tips"`
	FaceImage      string             `json:"face_image"`
	Timestamp      string             `json:"timestamp"`
}

// NoFaceResponse is deliberately smaller than PredictionResponse.
type NoFaceResponse struct {
	Prediction string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
}

type HistoryEntry struct {
	PredictionResponse
	TimestampFormatted string `json:"timestamp_formatted"`
}

type HistoryResponse struct {
	History         []HistoryEntry           `json:"history"`
	DominantEmotion string                   `json:"dominant_emotion"`
	Transition      *entity.TransitionResult `json:"transition,omitempty"`
}

type EmotionsResponse struct {
	Emotions []string `json:"emotions"`
	Count    int      `json:"count"`
}

// PredictResult is the outcome of one inference. NoFace is a success, not an error.
type PredictResult struct {
	NoFace bool
	Record entity.PredictionRecord
}
