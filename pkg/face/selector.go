package face

import "EmotionGolang/internal/entity"

// SelectFace picks the most confident candidate. The boolean is false when
// there are no candidates, which callers report as "no face detected".
// Equal confidences keep the earliest candidate.
func SelectFace(candidates []entity.FaceBox) (entity.FaceBox, bool) {
	if len(candidates) == 0 {
		return entity.FaceBox{}, false
	}

	bestIdx := 0
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Confidence > candidates[bestIdx].Confidence {
			bestIdx = i
		}
	}

	return candidates[bestIdx], true
}
