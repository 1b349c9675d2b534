package emotion

import (
	"EmotionGolang/internal/entity"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oneHot(label entity.EmotionLabel) entity.ProbabilityVector {
	var p entity.ProbabilityVector
	p[label.Index()] = 1
	return p
}

func TestEnrich_EveryLabel(t *testing.T) {
	for _, label := range entity.Labels() {
		t.Run(string(label), func(t *testing.T) {
			first := Enrich(oneHot(label))
			second := Enrich(oneHot(label))

			assert.Equal(t, label, first.Label)
			assert.Equal(t, 1.0, first.Confidence)
			assert.NotEmpty(t, first.LabelFR)
			assert.NotEmpty(t, first.Description)
			assert.Len(t, first.Tips, 3)
			assert.Equal(t, first, second)
		})
	}
}

func TestEnrich_ArgMaxTieTakesLowestIndex(t *testing.T) {
	p := entity.ProbabilityVector{0, 0, 0.4, 0.2, 0, 0, 0.4}

	rec := Enrich(p)

	assert.Equal(t, entity.Fear, rec.Label)
	assert.Equal(t, 0.4, rec.Confidence)
	assert.Equal(t, "Peur", rec.LabelFR)
}

func TestEnrich_ExposesAllProbabilities(t *testing.T) {
	p := entity.ProbabilityVector{0.05, 0.05, 0.1, 0.5, 0.1, 0.1, 0.1}

	rec := Enrich(p)

	require.Len(t, rec.AllProbabilities, entity.EmotionCount)
	for i, label := range entity.Labels() {
		assert.Equal(t, p[i], rec.AllProbabilities[label])
	}
	assert.Equal(t, entity.Happy, rec.Label)
}

func TestEnrich_TipsAreNotShared(t *testing.T) {
	rec := Enrich(oneHot(entity.Sad))
	rec.Tips[0] = "changed"

	assert.NotEqual(t, "changed", Enrich(oneHot(entity.Sad)).Tips[0])
}

func TestLookupFallbacks(t *testing.T) {
	unknown := entity.EmotionLabel("contempt")

	assert.Equal(t, "contempt", LabelFR(unknown))
	assert.Equal(t, "", Description(unknown))
	assert.NotNil(t, Tips(unknown))
	assert.Empty(t, Tips(unknown))
}

func TestTransition(t *testing.T) {
	tests := []struct {
		current, previous entity.EmotionLabel
		want              entity.TransitionType
	}{
		{entity.Happy, entity.Angry, entity.TransitionImprovement},
		{entity.Surprise, entity.Sad, entity.TransitionImprovement},
		{entity.Angry, entity.Angry, entity.TransitionStable},
		{entity.Neutral, entity.Neutral, entity.TransitionStable},
		{entity.Fear, entity.Happy, entity.TransitionDeterioration},
		{entity.Neutral, entity.Sad, entity.TransitionNeutralization},
		{entity.Neutral, entity.Happy, entity.TransitionNeutralization},
		{entity.Sad, entity.Neutral, entity.TransitionChange},
		{entity.Happy, entity.Surprise, entity.TransitionChange},
		{entity.Angry, entity.Disgust, entity.TransitionChange},
	}

	for _, tt := range tests {
		t.Run(string(tt.previous)+"->"+string(tt.current), func(t *testing.T) {
			got := Transition(tt.current, tt.previous)

			assert.Equal(t, tt.want, got.Type)
			assert.Equal(t, tt.current, got.To)
			assert.Equal(t, tt.previous, got.From)
			assert.NotEmpty(t, got.Message)
		})
	}
}

func records(labels ...entity.EmotionLabel) []entity.PredictionRecord {
	out := make([]entity.PredictionRecord, len(labels))
	for i, l := range labels {
		out[i] = entity.PredictionRecord{Label: l}
	}
	return out
}

func TestDominantOf(t *testing.T) {
	tests := []struct {
		name   string
		window []entity.PredictionRecord
		want   entity.EmotionLabel
	}{
		{"empty", nil, entity.Neutral},
		{"majority", records(entity.Happy, entity.Happy, entity.Sad), entity.Happy},
		{"tie keeps first seen", records(entity.Happy, entity.Sad), entity.Happy},
		{"tie ignores canonical order", records(entity.Sad, entity.Angry), entity.Sad},
		{"late majority", records(entity.Sad, entity.Happy, entity.Happy), entity.Happy},
		{"tie with first occurrence earlier", records(entity.Sad, entity.Happy, entity.Happy, entity.Sad), entity.Sad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DominantOf(tt.window))
		})
	}
}
