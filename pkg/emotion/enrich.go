package emotion

import "EmotionGolang/internal/entity"

// Enrich builds the human-facing record for a classifier output. Timestamp and
// annotated image are attached by the caller.
func Enrich(p entity.ProbabilityVector) entity.PredictionRecord {
	idx := p.ArgMax()
	label := entity.LabelAt(idx)

	return entity.PredictionRecord{
		Label:            label,
		Confidence:       p[idx],
		AllProbabilities: p.ByLabel(),
		LabelFR:          LabelFR(label),
		Description:      Description(label),
		Tips:             Tips(label),
	}
}
