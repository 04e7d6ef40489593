package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"botworkshop/internal/pipeline"
)

const maxUploadBytes = 200 << 20 // direct video uploads can be large

type removeBGRequest struct {
	URL string `json:"url"`
}

// RemoveBackground strips the background from a rendered clip. Accepts either
// a JSON body with a video URL, or a multipart upload; uploaded files are
// staged under the public upload directory so the external service can fetch
// them, and removed again before the handler returns.
func (a *App) RemoveBackground(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")

	var videoURL string
	var cleanup func()

	if strings.HasPrefix(contentType, "multipart/") {
		url, done, err := a.stageUploadedVideo(w, r)
		if err != nil {
			return // response already written
		}
		videoURL = url
		cleanup = done
	} else {
		var req removeBGRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			a.error(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.URL) == "" {
			a.error(w, http.StatusBadRequest, "url is required")
			return
		}
		videoURL = req.URL
	}
	if cleanup != nil {
		defer cleanup()
	}

	jobID, err := a.Remover.Submit(r.Context(), videoURL)
	if err != nil {
		a.Logger.Error().Err(err).Msg("background removal submit failed")
		a.error(w, http.StatusInternalServerError, err.Error())
		return
	}

	job := &pipeline.Job{ID: jobID, Kind: pipeline.KindBackgroundRemove, Status: pipeline.StatusQueued}
	poller := pipeline.NewPoller(a.PollInterval, a.PollAttempts)
	err = poller.Wait(r.Context(), job, func(ctx context.Context) (pipeline.JobUpdate, error) {
		return a.Remover.Status(ctx, job.ID)
	}, nil)
	if err != nil {
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("background removal failed")
		a.error(w, http.StatusInternalServerError, err.Error())
		return
	}

	a.json(w, http.StatusOK, map[string]string{"transparentUrl": job.ResultURL})
}

// stageUploadedVideo saves the multipart file under the upload directory and
// returns its public URL plus a cleanup func. On error it writes the HTTP
// response itself and returns a non-nil error so the caller can bail out.
func (a *App) stageUploadedVideo(w http.ResponseWriter, r *http.Request) (string, func(), error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		a.error(w, http.StatusBadRequest, "invalid multipart body")
		return "", nil, err
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		a.error(w, http.StatusBadRequest, "file field is required")
		return "", nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		a.error(w, http.StatusInternalServerError, "failed to read upload")
		return "", nil, err
	}

	key, err := a.Uploads.SaveUpload(r.Context(), header.Filename, data)
	if err != nil {
		a.Logger.Error().Err(err).Msg("staging upload failed")
		a.error(w, http.StatusInternalServerError, "failed to store upload")
		return "", nil, err
	}

	cleanup := func() {
		if err := a.Uploads.Remove(key); err != nil {
			a.Logger.Warn().Err(err).Str("key", key).Msg("temp upload cleanup failed")
		}
	}
	return a.PublicBaseURL + "/uploads/" + key, cleanup, nil
}
