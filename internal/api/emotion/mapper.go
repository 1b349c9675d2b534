package emotion

import (
	"EmotionGolang/internal/entity"
	emotionPkg "EmotionGolang/pkg/emotion"
	"time"
)

const (
	TimestampLayout = time.RFC3339Nano
	TimeOfDayLayout = "15:04:05"
)

func ToPredictionResponse(r entity.PredictionRecord) PredictionResponse {
	all := make(map[string]float64, len(r.AllProbabilities))
	for label, p := range r.AllProbabilities {
		all[string(label)] = p
	}

	tips := r.Tips
	if tips == nil {
		tips = []string{}
	}

	return PredictionResponse{
		Prediction:     string(r.Label),
		Confidence:     r.Confidence,
		AllPredictions: all,
		LabelFR:        r.LabelFR,
		Description:    r.Description,
		Tips:           tips,
		FaceImage:      r.FaceImage,
		Timestamp:      r.Timestamp.Format(TimestampLayout),
	}
}

// ToHistoryEntry re-localises the label from the current table.
func ToHistoryEntry(r entity.PredictionRecord) HistoryEntry {
	resp := ToPredictionResponse(r)
	resp.LabelFR = emotionPkg.LabelFR(r.Label)

	return HistoryEntry{
		PredictionResponse: resp,
		TimestampFormatted: r.Timestamp.Format(TimeOfDayLayout),
	}
}

func NoFace() NoFaceResponse {
	return NoFaceResponse{Prediction: NoFaceMessage, Confidence: 0.0}
}
