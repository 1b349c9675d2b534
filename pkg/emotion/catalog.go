package emotion

import (
	"EmotionGolang/internal/entity"
	"slices"
)

var labelsFR = map[entity.EmotionLabel]string{
	entity.Angry:    "Colère",
	entity.Disgust:  "Dégoût",
	entity.Fear:     "Peur",
	entity.Happy:    "Joie",
	entity.Neutral:  "Neutre",
	entity.Sad:      "Tristesse",
	entity.Surprise: "Surprise",
}

var descriptions = map[entity.EmotionLabel]string{
	entity.Angry:    "La colère est une émotion intense qui se manifeste face à une menace, une frustration ou une injustice.",
	entity.Disgust:  "Le dégoût est une émotion qui nous protège contre les substances ou situations potentiellement nocives.",
	entity.Fear:     "La peur est un mécanisme de survie qui nous alerte d'un danger potentiel.",
	entity.Happy:    "La joie est une émotion positive associée au plaisir, au contentement et au bonheur.",
	entity.Neutral:  "L'expression neutre ne montre pas d'émotion particulière.",
	entity.Sad:      "La tristesse est souvent liée à une perte ou à une déception.",
	entity.Surprise: "La surprise est une réaction brève à un événement inattendu.",
}

var tips = map[entity.EmotionLabel][]string{
	entity.Angry: {
		"Prenez quelques respirations profondes",
		"Essayez de vous distraire avec une activité apaisante",
		"Exprimez vos sentiments de façon constructive",
	},
	entity.Disgust: {
		"Éloignez-vous de la source du dégoût si possible",
		"Concentrez-vous sur des pensées ou des images positives",
		"Rappelez-vous que le dégoût est un mécanisme de protection",
	},
	entity.Fear: {
		"Pratiquez des exercices de respiration",
		"Identifiez ce qui vous fait peur et confrontez-le progressivement",
		"Parlez à quelqu'un de confiance de vos peurs",
	},
	entity.Happy: {
		"Savourez ce moment de bonheur",
		"Partagez votre joie avec d'autres personnes",
		"Notez ce moment dans un journal pour vous en souvenir",
	},
	entity.Neutral: {
		"C'est un bon moment pour la pleine conscience",
		"Réfléchissez à votre journée",
		"Prenez un moment pour vous recentrer",
	},
	entity.Sad: {
		"Permettez-vous de ressentir cette émotion",
		"Parlez à un ami ou à un professionnel",
		"Faites une activité que vous aimez pour vous remonter le moral",
	},
	entity.Surprise: {
		"Prenez un moment pour intégrer l'information inattendue",
		"Respirez profondément si nécessaire",
		"Utilisez cette énergie pour être créatif",
	},
}

// LabelFR falls back to the raw label when no translation exists.
func LabelFR(label entity.EmotionLabel) string {
	if fr, ok := labelsFR[label]; ok {
		return fr
	}
	return string(label)
}

func Description(label entity.EmotionLabel) string {
	return descriptions[label]
}

// Tips returns a fresh slice so callers cannot alter the table.
func Tips(label entity.EmotionLabel) []string {
	t, ok := tips[label]
	if !ok {
		return []string{}
	}
	return slices.Clone(t)
}
