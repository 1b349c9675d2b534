package emotionService

import (
	"EmotionGolang/internal/api/emotion"
	"EmotionGolang/internal/entity"
	"EmotionGolang/pkg/history"
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDetector struct {
	mock.Mock
}

func (m *mockDetector) DetectFaces(ctx context.Context, frame []byte) ([]entity.FaceBox, error) {
	args := m.Called(ctx, frame)
	boxes, _ := args.Get(0).([]entity.FaceBox)
	return boxes, args.Error(1)
}

type mockClassifier struct {
	mock.Mock
}

func (m *mockClassifier) Ready() bool {
	return m.Called().Bool(0)
}

func (m *mockClassifier) Classify(ctx context.Context, tensor entity.Tensor) (entity.ProbabilityVector, error) {
	args := m.Called(ctx, tensor)
	p, _ := args.Get(0).(entity.ProbabilityVector)
	return p, args.Error(1)
}

func (m *mockClassifier) Name() string {
	return "mock"
}

type recordingPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
	done     chan struct{}
}

func (p *recordingPublisher) PublishPrediction(_ context.Context, payload []byte) error {
	p.mu.Lock()
	p.payloads = append(p.payloads, payload)
	p.mu.Unlock()
	p.done <- struct{}{}
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

var fixedNow = time.Date(2026, 5, 4, 9, 30, 15, 0, time.UTC)

func testJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 120, 90))
	for y := 0; y < 90; y++ {
		for x := 0; x < 120; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x + y) % 256)})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func vector(label entity.EmotionLabel, confidence float64) entity.ProbabilityVector {
	var p entity.ProbabilityVector
	rest := (1 - confidence) / float64(entity.EmotionCount-1)
	for i := range p {
		p[i] = rest
	}
	p[label.Index()] = confidence
	return p
}

type fixture struct {
	detector   *mockDetector
	classifier *mockClassifier
	history    history.IHistory
	service    IEmotionService
}

func newFixture(opts ...Option) *fixture {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	f := &fixture{
		detector:   &mockDetector{},
		classifier: &mockClassifier{},
		history:    history.New(),
	}
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	f.service = NewEmotionService(logger, f.detector, f.classifier, f.history, nil, opts...)
	return f
}

func TestPredictSuccess(t *testing.T) {
	f := newFixture()
	f.classifier.On("Ready").Return(true)
	f.detector.On("DetectFaces", mock.Anything, mock.Anything).Return([]entity.FaceBox{
		{X: 10, Y: 10, Width: 40, Height: 40, Confidence: 0.4},
		{X: 50, Y: 20, Width: 60, Height: 60, Confidence: 0.95},
	}, nil)
	f.classifier.On("Classify", mock.Anything, mock.MatchedBy(func(tensor entity.Tensor) bool {
		return tensor.Shape == [4]int{1, entity.InputSize, entity.InputSize, entity.InputChannels}
	})).Return(vector(entity.Happy, 0.7), nil)

	result, err := f.service.Predict(context.Background(), testJPEG(t))

	require.NoError(t, err)
	require.False(t, result.NoFace)
	assert.Equal(t, entity.Happy, result.Record.Label)
	assert.InDelta(t, 0.7, result.Record.Confidence, 1e-9)
	assert.Len(t, result.Record.AllProbabilities, entity.EmotionCount)
	assert.NotEmpty(t, result.Record.LabelFR)
	assert.Len(t, result.Record.Tips, 3)
	assert.Equal(t, fixedNow, result.Record.Timestamp)
	assert.True(t, strings.HasPrefix(result.Record.FaceImage, "data:image/jpeg;base64,"))
	assert.Equal(t, 1, f.history.Len())
}

func TestPredictNoFaceLeavesHistoryUntouched(t *testing.T) {
	f := newFixture()
	f.classifier.On("Ready").Return(true)
	f.detector.On("DetectFaces", mock.Anything, mock.Anything).Return([]entity.FaceBox{}, nil)

	result, err := f.service.Predict(context.Background(), testJPEG(t))

	require.NoError(t, err)
	assert.True(t, result.NoFace)
	assert.Equal(t, 0, f.history.Len())
	f.classifier.AssertNotCalled(t, "Classify", mock.Anything, mock.Anything)
}

func TestPredictFailures(t *testing.T) {
	tests := []struct {
		name  string
		image func(t *testing.T) []byte
		setup func(f *fixture)
		want  error
	}{
		{
			name:  "classifier not ready",
			image: testJPEG,
			setup: func(f *fixture) {
				f.classifier.On("Ready").Return(false)
			},
			want: emotion.ErrClassifierUnavailable,
		},
		{
			name:  "undecodable image",
			image: func(*testing.T) []byte { return []byte("definitely not an image") },
			setup: func(f *fixture) {
				f.classifier.On("Ready").Return(true)
			},
			want: emotion.ErrDecodeImage,
		},
		{
			name:  "detector error",
			image: testJPEG,
			setup: func(f *fixture) {
				f.classifier.On("Ready").Return(true)
				f.detector.On("DetectFaces", mock.Anything, mock.Anything).Return(nil, errors.New("model server down"))
			},
			want: emotion.ErrDetectionFailure,
		},
		{
			name:  "box outside image",
			image: testJPEG,
			setup: func(f *fixture) {
				f.classifier.On("Ready").Return(true)
				f.detector.On("DetectFaces", mock.Anything, mock.Anything).Return([]entity.FaceBox{
					{X: 500, Y: 500, Width: 20, Height: 20, Confidence: 0.9},
				}, nil)
			},
			want: emotion.ErrInvalidCrop,
		},
		{
			name:  "classifier error",
			image: testJPEG,
			setup: func(f *fixture) {
				f.classifier.On("Ready").Return(true)
				f.detector.On("DetectFaces", mock.Anything, mock.Anything).Return([]entity.FaceBox{
					{X: 0, Y: 0, Width: 60, Height: 60, Confidence: 0.9},
				}, nil)
				f.classifier.On("Classify", mock.Anything, mock.Anything).Return(nil, errors.New("bad frame"))
			},
			want: emotion.ErrClassificationFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setup(f)

			result, err := f.service.Predict(context.Background(), tt.image(t))

			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 0, f.history.Len())
		})
	}
}

func TestPredictCancelledRequestLeavesHistoryUntouched(t *testing.T) {
	f := newFixture()
	f.classifier.On("Ready").Return(true)
	f.detector.On("DetectFaces", mock.Anything, mock.Anything).Return([]entity.FaceBox{
		{X: 0, Y: 0, Width: 60, Height: 60, Confidence: 0.9},
	}, nil)
	f.classifier.On("Classify", mock.Anything, mock.Anything).Return(vector(entity.Happy, 0.8), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := f.service.Predict(ctx, testJPEG(t))

	assert.Nil(t, result)
	assert.ErrorIs(t, err, emotion.ErrRequestAbandoned)
	assert.Equal(t, 0, f.history.Len())
}

func TestPredictBase64(t *testing.T) {
	f := newFixture()
	f.classifier.On("Ready").Return(true)
	f.detector.On("DetectFaces", mock.Anything, mock.Anything).Return([]entity.FaceBox{}, nil)

	encoded := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(testJPEG(t))
	result, err := f.service.PredictBase64(context.Background(), encoded)
	require.NoError(t, err)
	assert.True(t, result.NoFace)

	_, err = f.service.PredictBase64(context.Background(), "data:image/jpeg;base64,@@@")
	assert.ErrorIs(t, err, emotion.ErrDecodeImage)
}

func TestPredictPublishesEvent(t *testing.T) {
	publisher := &recordingPublisher{done: make(chan struct{}, 1)}
	f := newFixture(WithPublisher(publisher))
	f.classifier.On("Ready").Return(true)
	f.detector.On("DetectFaces", mock.Anything, mock.Anything).Return([]entity.FaceBox{
		{X: 0, Y: 0, Width: 60, Height: 60, Confidence: 0.9},
	}, nil)
	f.classifier.On("Classify", mock.Anything, mock.Anything).Return(vector(entity.Sad, 0.6), nil)

	_, err := f.service.Predict(context.Background(), testJPEG(t))
	require.NoError(t, err)

	select {
	case <-publisher.done:
	case <-time.After(2 * time.Second):
		t.Fatal("prediction event was not published")
	}

	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	require.Len(t, publisher.payloads, 1)
	assert.Contains(t, string(publisher.payloads[0]), `"prediction":"sad"`)
}

func TestHistoryResponse(t *testing.T) {
	f := newFixture()

	empty := f.service.History(emotion.DefaultHistoryLimit)
	assert.Empty(t, empty.History)
	assert.Equal(t, "neutral", empty.DominantEmotion)
	assert.Nil(t, empty.Transition)

	for i, label := range []entity.EmotionLabel{entity.Happy, entity.Happy, entity.Angry} {
		f.history.Append(entity.PredictionRecord{
			Label:     label,
			Timestamp: fixedNow.Add(time.Duration(i) * time.Second),
		})
	}

	resp := f.service.History(2)
	require.Len(t, resp.History, 2)
	assert.Equal(t, "happy", resp.History[0].Prediction)
	assert.Equal(t, "angry", resp.History[1].Prediction)
	assert.Equal(t, "09:30:17", resp.History[1].TimestampFormatted)
	assert.NotEmpty(t, resp.History[1].LabelFR)
	assert.Equal(t, "happy", resp.DominantEmotion)
	require.NotNil(t, resp.Transition)
	assert.Equal(t, entity.TransitionDeterioration, resp.Transition.Type)
}

func TestEmotionsAndReset(t *testing.T) {
	f := newFixture()
	f.history.Append(entity.PredictionRecord{Label: entity.Fear})

	emotions := f.service.Emotions()
	assert.Equal(t, []string{"angry", "disgust", "fear", "happy", "neutral", "sad", "surprise"}, emotions.Emotions)
	assert.Equal(t, 7, emotions.Count)

	f.service.ResetHistory()
	assert.Equal(t, 0, f.history.Len())
}
