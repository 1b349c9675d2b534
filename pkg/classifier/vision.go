package classifier

import (
	"EmotionGolang/internal/entity"
	"EmotionGolang/pkg/gemini"
	"EmotionGolang/pkg/openai"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

const visionPrompt = `
Classify the facial expression in this 48x48 grayscale face crop.
Answer with a JSON object holding a probability for each of these labels, summing to 1:
{"angry": 0.0, "disgust": 0.0, "fear": 0.0, "happy": 0.0, "neutral": 0.0, "sad": 0.0, "surprise": 0.0}
Return ONLY the JSON object, without any additional text.
`

// imageAnalyzer is the part of a hosted vision model the classifier needs.
type imageAnalyzer interface {
	AnalyzeImage(ctx context.Context, imgData []byte, mimeType string, prompt string) (string, error)
}

// visionClassifier asks a hosted multimodal model for the label scores.
type visionClassifier struct {
	client imageAnalyzer
	name   string
}

func NewGemini(client gemini.IGemini) IClassifier {
	return &visionClassifier{client: client, name: BackendGemini}
}

func NewOpenAI(client openai.IVision) IClassifier {
	return &visionClassifier{client: client, name: BackendOpenAI}
}

func (c *visionClassifier) Ready() bool {
	return c.client != nil
}

func (c *visionClassifier) Name() string {
	return c.name
}

func (c *visionClassifier) Classify(ctx context.Context, tensor entity.Tensor) (entity.ProbabilityVector, error) {
	img, err := TensorToImage(tensor)
	if err != nil {
		return entity.ProbabilityVector{}, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return entity.ProbabilityVector{}, fmt.Errorf("failed to encode face crop: %w", err)
	}

	response, err := c.client.AnalyzeImage(ctx, buf.Bytes(), "image/png", visionPrompt)
	if err != nil {
		return entity.ProbabilityVector{}, err
	}

	return parseScoreResponse(c.name, response)
}

// TensorToImage renders a single-item grayscale tensor back to pixels.
func TensorToImage(tensor entity.Tensor) (*image.Gray, error) {
	n, h, w, ch := tensor.Shape[0], tensor.Shape[1], tensor.Shape[2], tensor.Shape[3]
	if n != 1 || ch != 1 || h <= 0 || w <= 0 || len(tensor.Data) != h*w {
		return nil, fmt.Errorf("unsupported tensor shape %v with %d values", tensor.Shape, len(tensor.Data))
	}

	img := image.NewGray(image.Rect(0, 0, w, h))
	for i, v := range tensor.Data {
		img.Pix[i] = uint8(math.Round(float64(min(max(v, 0), 1)) * 255))
	}
	return img, nil
}

func parseScoreResponse(backend, response string) (entity.ProbabilityVector, error) {
	jsonStart := strings.Index(response, "{")
	jsonEnd := strings.LastIndex(response, "}")

	if jsonStart == -1 || jsonEnd == -1 || jsonEnd <= jsonStart {
		return entity.ProbabilityVector{}, errors.New("cannot find valid JSON in response")
	}

	var scores map[string]float64
	if err := jsoniter.Unmarshal([]byte(response[jsonStart:jsonEnd+1]), &scores); err != nil {
		return entity.ProbabilityVector{}, fmt.Errorf("failed to parse %s response: %w", backend, err)
	}

	values := make([]float64, entity.EmotionCount)
	var sum float64
	for i, label := range entity.Labels() {
		v, ok := scores[string(label)]
		if !ok {
			return entity.ProbabilityVector{}, fmt.Errorf("%s response is missing %q", backend, label)
		}
		if v < 0 {
			v = 0
		}
		values[i] = v
		sum += v
	}
	if sum == 0 {
		return entity.ProbabilityVector{}, fmt.Errorf("%s response has no probability mass", backend)
	}

	// model scores rarely sum exactly to one
	for i := range values {
		values[i] /= sum
	}

	return entity.NewProbabilityVector(values)
}
