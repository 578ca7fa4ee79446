package detect

import (
	"context"
	"errors"
)

// ErrDetectionFailed means the detector call failed or returned
// malformed data. Zero detections is not a failure: it yields an empty
// batch and a nil error.
var ErrDetectionFailed = errors.New("object detection failed")

// Object is one labeled sub-image produced from a source image. Price,
// Description and Name are optional enrichments back-filled after
// detection. A batch is ordered detector-defined and addressed by
// position.
type Object struct {
	Label       string  `json:"label"`
	Confidence  float64 `json:"confidence"`
	ImageURL    string  `json:"image_url"`
	Name        string  `json:"name,omitempty"`
	Price       string  `json:"price,omitempty"`
	Description string  `json:"description,omitempty"`
}

// Detector is the external detection capability: one still image in,
// one batch of labeled crops out. Implementations must persist each
// crop to durable storage before handing it back, so returned URLs are
// stable references.
type Detector interface {
	Detect(ctx context.Context, imageData []byte) ([]Object, error)
}
