package httpapi

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"leafcare.org/internal/auth"
	"leafcare.org/internal/diagnosis"
)

// handleUpload is the public file drop: it stores the raw bytes under
// the upload root without preprocessing or classification.
func (a *API) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	name, data, err := readMultipartFile(r, "file")
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "file upload failed")
		return
	}

	path, err := a.uploads.Save(r.Context(), name, data)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "file upload failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "File uploaded successfully",
		"path":    path,
	})
}

// handleDiagnose runs the guarded upload -> inference -> persist flow.
func (a *API) handleDiagnose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	subject, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		// The guard attaches the subject before this handler runs;
		// its absence means the route was wired outside the guard.
		writeError(w, r, http.StatusUnauthorized, "missing identity")
		return
	}

	name, data, err := readMultipartFile(r, "image")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "no image file uploaded")
		return
	}

	res, err := a.pipeline.Submit(r.Context(), subject, name, data)
	if err != nil {
		handlePipelineError(w, r, err)
		return
	}

	payload := map[string]any{
		"diagnosis": res.Record.Result,
		"imagePath": res.Record.ImagePath,
	}
	if !res.Persisted {
		payload["warning"] = "diagnosis could not be saved to history"
	}
	writeJSON(w, http.StatusOK, payload)
}

func (a *API) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	subject, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "missing identity")
		return
	}

	list, err := a.history.ListByUser(r.Context(), subject)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "history lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func readMultipartFile(r *http.Request, field string) (string, []byte, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", nil, err
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, err
	}
	if len(data) == 0 {
		return "", nil, errors.New("empty file")
	}
	return header.Filename, data, nil
}

func handlePipelineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, diagnosis.ErrNoImage):
		writeError(w, r, http.StatusBadRequest, "no image file uploaded")
	case errors.Is(err, diagnosis.ErrMisconfigured):
		writeError(w, r, http.StatusInternalServerError, "missing inference API key")
	case errors.Is(err, diagnosis.ErrProcessingFailed):
		writeError(w, r, http.StatusInternalServerError, "error processing image")
	case errors.Is(err, diagnosis.ErrInferenceFailed):
		writeError(w, r, http.StatusInternalServerError, "error classifying image")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
