package api

import (
	"net/http"

	"ytbrief/errors"
	"ytbrief/models"
	"ytbrief/repository"
	"ytbrief/services/batch"
	"ytbrief/validation"

	"github.com/sirupsen/logrus"
)

const maxRequestBody = 1024 * 1024

type BatchHandler struct {
	service   batch.Service
	summaries repository.SummaryRepository
	validator *validation.Validator
	logger    *logrus.Logger
}

func NewBatchHandler(service batch.Service, summaries repository.SummaryRepository, validator *validation.Validator) *BatchHandler {
	return &BatchHandler{
		service:   service,
		summaries: summaries,
		validator: validator,
		logger:    logrus.StandardLogger(),
	}
}

// HandleCreateBatch handles POST /api/v1/batch
func (h *BatchHandler) HandleCreateBatch(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.WithContext(r.Context())

	if err := h.validator.ValidateRequest(r, validation.RequestValidationOpts{
		MaxContentLength: maxRequestBody,
		AllowedMethods:   []string{http.MethodPost},
		RequireJSON:      true,
	}); err != nil {
		respondError(w, r, err)
		return
	}

	var req models.BatchRequest
	if err := readJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	logger.WithFields(logrus.Fields{
		"user_id": req.UserID,
		"refs":    len(req.Refs),
		"force":   req.Force,
	}).Info("Received batch request")

	result, err := h.service.Run(r.Context(), req.UserID, req.Refs, req.Force)
	if err != nil {
		logger.WithError(err).Error("Batch run failed")
		respondError(w, r, err)
		return
	}

	logger.WithFields(logrus.Fields{
		"user_id":   req.UserID,
		"succeeded": result.Succeeded(),
		"failed":    result.Failed(),
		"cached":    result.ServedFromCache(),
	}).Info("Batch completed")

	respondJSON(w, r, http.StatusOK, models.NewBatchResponse(result))
}

// HandleCreatePlaylistBatch handles POST /api/v1/batch/playlist
func (h *BatchHandler) HandleCreatePlaylistBatch(w http.ResponseWriter, r *http.Request) {
	const op = "BatchHandler.HandleCreatePlaylistBatch"
	logger := h.logger.WithContext(r.Context())

	if err := h.validator.ValidateRequest(r, validation.RequestValidationOpts{
		MaxContentLength: maxRequestBody,
		AllowedMethods:   []string{http.MethodPost},
		RequireJSON:      true,
	}); err != nil {
		respondError(w, r, err)
		return
	}

	var req models.PlaylistRequest
	if err := readJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	if req.PlaylistURL == "" {
		respondError(w, r, errors.InvalidInput(op, nil, "A playlist URL is required"))
		return
	}

	logger.WithFields(logrus.Fields{
		"user_id":  req.UserID,
		"playlist": req.PlaylistURL,
	}).Info("Received playlist batch request")

	result, err := h.service.RunPlaylist(r.Context(), req.UserID, req.PlaylistURL)
	if err != nil {
		logger.WithError(err).Error("Playlist batch run failed")
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, models.NewBatchResponse(result))
}

// HandleGetSummary handles GET /api/v1/summaries
func (h *BatchHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	const op = "BatchHandler.HandleGetSummary"
	logger := h.logger.WithContext(r.Context())

	url := r.URL.Query().Get("url")
	if url == "" {
		respondError(w, r, errors.InvalidInput(op, nil, "URL parameter is required"))
		return
	}

	ref, err := h.validator.ParseVideoRef(url)
	if err != nil {
		respondError(w, r, err)
		return
	}

	record, err := h.summaries.Find(r.Context(), ref.ID)
	if err != nil {
		if !errors.IsNotFound(err) {
			logger.WithError(err).Error("Failed to look up summary")
		}
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, models.NewSummaryResponse(record))
}
