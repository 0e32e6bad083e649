package httpx

import (
	"net/http"

	"github.com/Alexander2005-rgb/portfolio/internal/storage"
)

func (r *Router) handlePresignUpload(w http.ResponseWriter, req *http.Request) {
	if r.uploader == nil {
		r.fail(w, req, storage.ErrDisabled, "Upload")
		return
	}
	var payload struct {
		Filename    string `json:"filename"`
		ContentType string `json:"contentType"`
	}
	if err := decodeJSON(w, req, &payload); err != nil {
		r.fail(w, req, err, "Upload")
		return
	}
	upload, err := r.uploader.PresignPut(req.Context(), payload.Filename, payload.ContentType)
	if err != nil {
		r.fail(w, req, err, "Upload")
		return
	}
	writeJSON(w, http.StatusCreated, upload)
}
