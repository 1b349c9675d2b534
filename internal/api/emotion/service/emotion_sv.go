package emotionService

import (
	"EmotionGolang/internal/api/emotion"
	"EmotionGolang/internal/entity"
	"EmotionGolang/pkg/annotate"
	contextPkg "EmotionGolang/pkg/context"
	emotionPkg "EmotionGolang/pkg/emotion"
	"EmotionGolang/pkg/face"
	"EmotionGolang/pkg/history"
	"EmotionGolang/pkg/preprocess"
	"EmotionGolang/pkg/utils"
	"bytes"
	"errors"
	"fmt"
	"image/jpeg"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const (
	detectorJPEGQuality = 95
	publishTimeout      = 2 * time.Second
)

func (s *emotionService) PredictBase64(ctx context.Context, encoded string) (*emotion.PredictResult, error) {
	if s.classifier == nil || !s.classifier.Ready() {
		return nil, emotion.ErrClassifierUnavailable
	}

	data, err := utils.DecodeBase64Image(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", emotion.ErrDecodeImage, err)
	}

	return s.predict(ctx, data)
}

func (s *emotionService) Predict(ctx context.Context, imageData []byte) (*emotion.PredictResult, error) {
	if s.classifier == nil || !s.classifier.Ready() {
		return nil, emotion.ErrClassifierUnavailable
	}

	return s.predict(ctx, imageData)
}

// predict runs the whole pipeline outside the history lock; only the final
// append is serialised. Any failure returns before the history is touched.
func (s *emotionService) predict(ctx context.Context, imageData []byte) (*emotion.PredictResult, error) {
	log := s.log.WithField("request_id", contextPkg.GetRequestID(ctx))

	img, err := preprocess.Decode(imageData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", emotion.ErrDecodeImage, err)
	}

	// the detector sees the same oriented pixels the crop is taken from
	var frame bytes.Buffer
	if err := jpeg.Encode(&frame, img, &jpeg.Options{Quality: detectorJPEGQuality}); err != nil {
		return nil, fmt.Errorf("%w: %v", emotion.ErrInternalServerError, err)
	}

	boxes, err := s.detector.DetectFaces(ctx, frame.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", emotion.ErrDetectionFailure, err)
	}

	box, ok := face.SelectFace(boxes)
	if !ok {
		log.Debug("No face detected")
		return &emotion.PredictResult{NoFace: true}, nil
	}

	tensor, err := preprocess.Preprocess(img, box)
	if err != nil {
		if errors.Is(err, preprocess.ErrInvalidCrop) {
			return nil, fmt.Errorf("%w: %v", emotion.ErrInvalidCrop, err)
		}
		return nil, fmt.Errorf("%w: %v", emotion.ErrInternalServerError, err)
	}

	probabilities, err := s.classifier.Classify(ctx, tensor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", emotion.ErrClassificationFailure, err)
	}

	record := emotionPkg.Enrich(probabilities)

	annotated, err := annotate.Annotate(img, box, annotate.Caption(record.LabelFR, record.Confidence))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", emotion.ErrInternalServerError, err)
	}

	faceImage, err := s.images.Store(ctx, annotated)
	if err != nil {
		return nil, fmt.Errorf("%w: storing annotated image: %v", emotion.ErrInternalServerError, err)
	}

	// an abandoned request must not leave a record behind
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", emotion.ErrRequestAbandoned, err)
	}

	record = record.WithCapture(s.now(), faceImage)
	s.history.Append(record)

	log.WithFields(logrus.Fields{
		"prediction": record.Label,
		"confidence": record.Confidence,
		"faces":      len(boxes),
		"classifier": s.classifier.Name(),
	}).Info("Emotion predicted")

	s.publish(record)

	return &emotion.PredictResult{Record: record}, nil
}

func (s *emotionService) publish(record entity.PredictionRecord) {
	if s.publisher == nil {
		return
	}

	payload, err := jsoniter.Marshal(emotion.ToPredictionResponse(record))
	if err != nil {
		s.log.Errorf("Failed to marshal prediction event: %v", err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := s.publisher.PublishPrediction(ctx, payload); err != nil {
			s.log.Warnf("Prediction event dropped: %v", err)
		}
	}()
}

func (s *emotionService) History(limit int) emotion.HistoryResponse {
	snap := s.history.Snapshot(limit, history.DefaultWindow)

	entries := make([]emotion.HistoryEntry, 0, len(snap.Records))
	for _, r := range snap.Records {
		entries = append(entries, emotion.ToHistoryEntry(r))
	}

	return emotion.HistoryResponse{
		History:         entries,
		DominantEmotion: string(snap.Dominant),
		Transition:      snap.Transition,
	}
}

func (s *emotionService) Emotions() emotion.EmotionsResponse {
	labels := entity.Labels()
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = string(l)
	}

	return emotion.EmotionsResponse{
		Emotions: names,
		Count:    len(names),
	}
}

func (s *emotionService) ResetHistory() {
	s.history.Reset()
	s.log.Info("Emotion history reset")
}
