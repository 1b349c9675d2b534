package entity

// DetectedFace mirrors one entry of the detector service reply: box is [x, y, width, height].
type DetectedFace struct {
	Box        []int   `json:"box"`
	Confidence float64 `json:"confidence"`
}

type FaceDetectionResult struct {
	Faces []DetectedFace `json:"faces"`
	Error string         `json:"error,omitempty"`
}

// Boxes drops malformed entries instead of failing the whole detection.
func (r FaceDetectionResult) Boxes() []FaceBox {
	boxes := make([]FaceBox, 0, len(r.Faces))
	for _, f := range r.Faces {
		if len(f.Box) != 4 {
			continue
		}
		boxes = append(boxes, FaceBox{
			X:          f.Box[0],
			Y:          f.Box[1],
			Width:      f.Box[2],
			Height:     f.Box[3],
			Confidence: f.Confidence,
		})
	}
	return boxes
}

type ClassificationRequest struct {
	Shape [4]int    `json:"shape"`
	Data  []float32 `json:"data"`
}

type ClassificationResult struct {
	Predictions []float64 `json:"predictions"`
	Error       string    `json:"error,omitempty"`
}
