package emotion

import "EmotionGolang/internal/entity"

// DominantOf returns the most frequent label of records, given oldest first.
// An empty window yields neutral.
//
// Ties go to the label that appeared first in the window. This reproduces the
// tally order of the previous service and is kept for compatibility; see DESIGN.md.
func DominantOf(records []entity.PredictionRecord) entity.EmotionLabel {
	if len(records) == 0 {
		return entity.Neutral
	}

	order := make([]entity.EmotionLabel, 0, entity.EmotionCount)
	counts := make(map[entity.EmotionLabel]int, entity.EmotionCount)
	for _, r := range records {
		if _, seen := counts[r.Label]; !seen {
			order = append(order, r.Label)
		}
		counts[r.Label]++
	}

	dominant := order[0]
	for _, label := range order[1:] {
		if counts[label] > counts[dominant] {
			dominant = label
		}
	}
	return dominant
}
