package handlers

import (
	"io"
	"net/http"
)

const maxImageUploadBytes = 20 << 20

// UploadImage stores a multipart image and returns its public URL.
func (a *App) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		a.error(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		a.error(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageUploadBytes))
	if err != nil {
		a.error(w, http.StatusInternalServerError, "failed to read upload")
		return
	}

	key, err := a.Uploads.SaveUpload(r.Context(), header.Filename, data)
	if err != nil {
		a.Logger.Error().Err(err).Msg("image upload failed")
		a.error(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	a.json(w, http.StatusOK, map[string]string{"url": a.PublicBaseURL + "/uploads/" + key})
}
