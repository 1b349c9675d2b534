package emotionService

import (
	"EmotionGolang/internal/api/emotion"
	"EmotionGolang/pkg/annotate"
	"EmotionGolang/pkg/classifier"
	"EmotionGolang/pkg/face"
	"EmotionGolang/pkg/history"
	"EmotionGolang/pkg/redis"
	"time"

	"golang.org/x/net/context"

	"github.com/sirupsen/logrus"
)

type IEmotionService interface {
	Predict(ctx context.Context, imageData []byte) (*emotion.PredictResult, error)
	PredictBase64(ctx context.Context, encoded string) (*emotion.PredictResult, error)
	History(limit int) emotion.HistoryResponse
	Emotions() emotion.EmotionsResponse
	ResetHistory()
}

type emotionService struct {
	log        *logrus.Logger
	detector   face.IDetector
	classifier classifier.IClassifier
	history    history.IHistory
	images     annotate.IImageStore
	publisher  redis.IRedis
	now        func() time.Time
}

type Option func(*emotionService)

// WithPublisher enables best-effort prediction events.
func WithPublisher(publisher redis.IRedis) Option {
	return func(s *emotionService) {
		s.publisher = publisher
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *emotionService) {
		s.now = now
	}
}

func NewEmotionService(
	log *logrus.Logger,
	detector face.IDetector,
	classifier classifier.IClassifier,
	history history.IHistory,
	images annotate.IImageStore,
	opts ...Option,
) IEmotionService {
	s := &emotionService{
		log:        log,
		detector:   detector,
		classifier: classifier,
		history:    history,
		images:     images,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.images == nil {
		s.images = annotate.NewInlineStore()
	}
	return s
}
