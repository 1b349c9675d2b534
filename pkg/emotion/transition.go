package emotion

import "EmotionGolang/internal/entity"

type category int

const (
	categoryOther category = iota
	categoryPositive
	categoryNegative
	categoryNeutral
)

var categories = map[entity.EmotionLabel]category{
	entity.Happy:    categoryPositive,
	entity.Surprise: categoryPositive,
	entity.Angry:    categoryNegative,
	entity.Disgust:  categoryNegative,
	entity.Fear:     categoryNegative,
	entity.Sad:      categoryNegative,
	entity.Neutral:  categoryNeutral,
}

var transitionMessages = map[entity.TransitionType]string{
	entity.TransitionStable:         "Émotion stable",
	entity.TransitionImprovement:    "Amélioration de l'humeur",
	entity.TransitionDeterioration:  "Détérioration de l'humeur",
	entity.TransitionNeutralization: "Retour à un état neutre",
	entity.TransitionChange:         "Changement d'émotion",
}

// Transition categorises the move from previous to current. Rules are checked in
// order and the first match wins.
func Transition(current, previous entity.EmotionLabel) entity.TransitionResult {
	cur, prev := categories[current], categories[previous]

	var t entity.TransitionType
	switch {
	case current == previous:
		t = entity.TransitionStable
	case cur == categoryPositive && prev == categoryNegative:
		t = entity.TransitionImprovement
	case cur == categoryNegative && prev == categoryPositive:
		t = entity.TransitionDeterioration
	case cur == categoryNeutral && prev != categoryNeutral:
		t = entity.TransitionNeutralization
	default:
		t = entity.TransitionChange
	}

	return entity.TransitionResult{
		Type:    t,
		Message: transitionMessages[t],
		From:    previous,
		To:      current,
	}
}
