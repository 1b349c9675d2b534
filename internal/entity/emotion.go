package entity

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"time"
)

type EmotionLabel string

const (
	Angry    EmotionLabel = "angry"
	Disgust  EmotionLabel = "disgust"
	Fear     EmotionLabel = "fear"
	Happy    EmotionLabel = "happy"
	Neutral  EmotionLabel = "neutral"
	Sad      EmotionLabel = "sad"
	Surprise EmotionLabel = "surprise"
)

// canonicalLabels is the alignment contract of every probability vector.
var canonicalLabels = [EmotionCount]EmotionLabel{Angry, Disgust, Fear, Happy, Neutral, Sad, Surprise}

const EmotionCount = 7

// Labels returns the labels in canonical order.
func Labels() []EmotionLabel {
	return slices.Clone(canonicalLabels[:])
}

func (l EmotionLabel) Index() int {
	for i, c := range canonicalLabels {
		if c == l {
			return i
		}
	}
	return -1
}

func (l EmotionLabel) Valid() bool {
	return l.Index() >= 0
}

func (l EmotionLabel) String() string {
	return string(l)
}

type ProbabilityVector [EmotionCount]float64

const probabilitySumTolerance = 1e-3

var ErrInvalidProbabilities = errors.New("invalid probability vector")

func NewProbabilityVector(values []float64) (ProbabilityVector, error) {
	var p ProbabilityVector
	if len(values) != EmotionCount {
		return p, fmt.Errorf("%w: expected %d values, got %d", ErrInvalidProbabilities, EmotionCount, len(values))
	}
	copy(p[:], values)
	if err := p.Validate(); err != nil {
		return ProbabilityVector{}, err
	}
	return p, nil
}

// Validate checks the softmax invariant: every value in [0,1] and a sum close to 1.
func (p ProbabilityVector) Validate() error {
	var sum float64
	for i, v := range p {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%w: %s=%v out of range", ErrInvalidProbabilities, canonicalLabels[i], v)
		}
		sum += v
	}
	if math.Abs(sum-1) > probabilitySumTolerance {
		return fmt.Errorf("%w: values sum to %.4f", ErrInvalidProbabilities, sum)
	}
	return nil
}

// ArgMax returns the canonical index of the highest probability, lowest index on ties.
func (p ProbabilityVector) ArgMax() int {
	best := 0
	for i := 1; i < len(p); i++ {
		if p[i] > p[best] {
			best = i
		}
	}
	return best
}

func (p ProbabilityVector) ByLabel() map[EmotionLabel]float64 {
	m := make(map[EmotionLabel]float64, EmotionCount)
	for i, v := range p {
		m[canonicalLabels[i]] = v
	}
	return m
}

// LabelAt panics on an index outside the canonical range.
func LabelAt(i int) EmotionLabel {
	return canonicalLabels[i]
}

type FaceBox struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Confidence float64 `json:"confidence"`
}

// PredictionRecord is built once per successful inference and not mutated afterwards.
type PredictionRecord struct {
	Label            EmotionLabel
	Confidence       float64
	AllProbabilities map[EmotionLabel]float64
	LabelFR          string
	Description      string
	Tips             []string
	Timestamp        time.Time
	FaceImage        string
}

// WithCapture returns a copy carrying the capture time and annotated image reference.
func (r PredictionRecord) WithCapture(ts time.Time, faceImage string) PredictionRecord {
	c := r.Clone()
	c.Timestamp = ts
	c.FaceImage = faceImage
	return c
}

func (r PredictionRecord) Clone() PredictionRecord {
	c := r
	c.AllProbabilities = maps.Clone(r.AllProbabilities)
	c.Tips = slices.Clone(r.Tips)
	return c
}

type TransitionType string

const (
	TransitionStable         TransitionType = "stable"
	TransitionImprovement    TransitionType = "improvement"
	TransitionDeterioration  TransitionType = "deterioration"
	TransitionNeutralization TransitionType = "neutralization"
	TransitionChange         TransitionType = "change"
)

type TransitionResult struct {
	Type    TransitionType `json:"type"`
	Message string         `json:"message"`
	From    EmotionLabel   `json:"from"`
	To      EmotionLabel   `json:"to"`
}

const (
	InputSize     = 48
	InputChannels = 1
)

// Tensor is a row-major NHWC batch, always shaped (1, 48, 48, 1) for the classifier.
type Tensor struct {
	Shape [4]int    `json:"shape"`
	Data  []float32 `json:"data"`
}

func (t Tensor) Len() int {
	return t.Shape[0] * t.Shape[1] * t.Shape[2] * t.Shape[3]
}
