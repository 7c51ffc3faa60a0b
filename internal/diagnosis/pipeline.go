// Package diagnosis owns the submission pipeline: an authenticated image
// goes through preprocessing, one outbound classification call, and a
// best-effort history write. Nothing here retries; a failed submission
// is the caller's to resubmit.
package diagnosis

import (
	"context"
	"fmt"

	"leafcare.org/internal/obs"
)

// Classifier is the outbound inference collaborator.
type Classifier interface {
	// Configured reports whether a credential for the service is set.
	// Checked before any work so a misconfigured server fails fast.
	Configured() bool
	// Classify sends preprocessed image bytes and returns the ordered
	// label/score list. Any transport or non-success response surfaces
	// as a single uniform error.
	Classify(ctx context.Context, image []byte) ([]Prediction, error)
}

// Preprocessor transforms raw upload bytes into the payload the model
// expects (resize + re-encode).
type Preprocessor interface {
	Process(data []byte) ([]byte, error)
}

// BlobStore persists image bytes and returns their addressable path.
type BlobStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// Result is the outcome of one submission. Persisted is false when the
// classification succeeded but the history write did not; the
// predictions are still returned in that case.
type Result struct {
	Record    *Diagnosis
	Persisted bool
}

// Pipeline executes the upload -> inference -> persist sequence. Each
// request runs its own Submit call; the pipeline holds no per-request
// state and takes no locks around the blocking inference call.
type Pipeline struct {
	classifier Classifier
	preproc    Preprocessor
	blobs      BlobStore
	store      Store
}

func NewPipeline(classifier Classifier, preproc Preprocessor, blobs BlobStore, store Store) *Pipeline {
	return &Pipeline{
		classifier: classifier,
		preproc:    preproc,
		blobs:      blobs,
		store:      store,
	}
}

// Submit runs one image through the pipeline on behalf of userID.
//
// The contract is at-most-once inference with best-effort durability:
// the external call happens once or not at all, and a persistence
// failure after a successful classification is logged and reported via
// Result.Persisted rather than as an error.
func (p *Pipeline) Submit(ctx context.Context, userID, filename string, image []byte) (*Result, error) {
	if len(image) == 0 {
		return nil, ErrNoImage
	}
	if !p.classifier.Configured() {
		return nil, ErrMisconfigured
	}

	processed, err := p.preproc.Process(image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}

	predictions, err := p.classifier.Classify(ctx, processed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInferenceFailed, err)
	}

	record := &Diagnosis{
		UserID: userID,
		Result: predictions,
	}

	path, err := p.blobs.Save(ctx, filename, processed)
	if err != nil {
		p.logPersistenceFailure(ctx, userID, fmt.Errorf("%w: save image: %v", ErrPersistenceFailed, err))
		return &Result{Record: record}, nil
	}
	record.ImagePath = path

	if err := p.store.Create(ctx, record); err != nil {
		p.logPersistenceFailure(ctx, userID, fmt.Errorf("%w: write record: %v", ErrPersistenceFailed, err))
		return &Result{Record: record}, nil
	}

	obs.Event(ctx, "diagnosis.submitted", map[string]any{
		"diagnosis_id": record.ID,
		"image_path":   record.ImagePath,
		"labels":       len(record.Result),
	})
	return &Result{Record: record, Persisted: true}, nil
}

func (p *Pipeline) logPersistenceFailure(ctx context.Context, userID string, err error) {
	obs.Logger().WithError(err).WithFields(map[string]any{
		"user_id":    userID,
		"request_id": obs.RequestIDFromContext(ctx),
	}).Error("history write failed after successful classification")
}
