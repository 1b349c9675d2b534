package classifier

import (
	"EmotionGolang/internal/entity"
	"context"
)

// IClassifier maps a (1, 48, 48, 1) tensor to seven probabilities in canonical
// label order. Ready must be checked before Classify.
type IClassifier interface {
	Ready() bool
	Classify(ctx context.Context, tensor entity.Tensor) (entity.ProbabilityVector, error)
	Name() string
}

const (
	BackendWebsocket = "websocket"
	BackendGemini    = "gemini"
	BackendOpenAI    = "openai"
)
