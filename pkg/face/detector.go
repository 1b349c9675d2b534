package face

import (
	"EmotionGolang/internal/entity"
	"context"
)

// IDetector finds candidate face boxes in an encoded image.
type IDetector interface {
	DetectFaces(ctx context.Context, frame []byte) ([]entity.FaceBox, error)
}
