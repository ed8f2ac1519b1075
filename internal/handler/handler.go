package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Dan9191/profile-service/internal/models"
	"github.com/Dan9191/profile-service/internal/service"
	"github.com/Dan9191/profile-service/internal/validation"
	"github.com/sirupsen/logrus"
)

const (
	msgFetchFailed   = "プロフィールの取得に失敗しました"
	msgSaveFailed    = "プロフィールの保存に失敗しました"
	msgInvalidInput  = "入力内容に誤りがあります"
	msgRateMissing   = "参考金利を取得できません"
	maxBodyBytes     = 1 << 20
	healthStatusOK   = "ok"
	healthStatusDown = "unavailable"
)

// ProfileService is the subset of service.Service used by the handlers
type ProfileService interface {
	GetProfile(ctx context.Context) (*models.ProfileView, error)
	SaveProfile(ctx context.Context, input models.ProfileInput) (*models.ProfileView, error)
}

// RateSource provides the cached reference rate
type RateSource interface {
	Current(ctx context.Context) (*models.ReferenceRate, error)
}

// Pinger reports whether the database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	svc   ProfileService
	rates RateSource
	db    Pinger
	log   *logrus.Logger
}

func NewHandler(svc ProfileService, rates RateSource, db Pinger, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, rates: rates, db: db, log: log}
}

type profileResponse struct {
	Profile *models.ProfileView `json:"profile"`
}

type errorResponse struct {
	Error   string            `json:"error"`
	Details validation.Errors `json:"details,omitempty"`
}

// GetProfile returns the current profile or null
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.GetProfile(r.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to fetch profile")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgFetchFailed})
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Profile: profile})
}

// SaveProfile validates the body and stores it as the new current profile
func (h *Handler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	input, err := service.DecodeProfileInput(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			h.log.WithField("details", vErr.Details).Debug("Rejected profile input")
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidInput, Details: vErr.Details})
			return
		}
		h.log.WithError(err).Error("Failed to save profile")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgSaveFailed})
		return
	}

	profile, err := h.svc.SaveProfile(r.Context(), input)
	if err != nil {
		h.log.WithError(err).Error("Failed to save profile")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgSaveFailed})
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Profile: profile})
}

// GetReferenceRate returns the last fetched suggested interest rate
func (h *Handler) GetReferenceRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.rates.Current(r.Context())
	if err != nil {
		h.log.WithError(err).Warn("Reference rate unavailable")
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: msgRateMissing})
		return
	}
	writeJSON(w, http.StatusOK, rate)
}

// Health reports database reachability
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		h.log.WithError(err).Warn("Health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": healthStatusDown})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": healthStatusOK})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
