package diagnosis

import (
	"errors"
	"time"
)

// Prediction is one label/confidence pair as returned by the
// classification service, order preserved.
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Diagnosis is one classified submission. It is owned by exactly one
// user; every read path filters on UserID.
type Diagnosis struct {
	ID        string       `json:"id"`
	UserID    string       `json:"userId"`
	ImagePath string       `json:"imagePath"`
	Result    []Prediction `json:"diagnosis"`
	CreatedAt time.Time    `json:"createdAt"`
}

var (
	ErrNoImage           = errors.New("diagnosis: no image provided")
	ErrMisconfigured     = errors.New("diagnosis: inference credential missing")
	ErrProcessingFailed  = errors.New("diagnosis: image processing failed")
	ErrInferenceFailed   = errors.New("diagnosis: inference failed")
	ErrPersistenceFailed = errors.New("diagnosis: persistence failed")
)
