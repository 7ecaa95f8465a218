package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/ZYL1107/next-platform-starter/review-svc/internal/apperrors"
	"github.com/ZYL1107/next-platform-starter/review-svc/internal/metrics"
	"github.com/ZYL1107/next-platform-starter/review-svc/internal/service"
)

type Handler struct {
	Reviews    service.ReviewServiceInterface
	Stats      service.StatsServiceInterface
	ShareCodes service.ShareCodeGenerator
	Metrics    *metrics.Metrics
	Logger     zerolog.Logger
}

func NewHandler(reviews service.ReviewServiceInterface, stats service.StatsServiceInterface, shareCodes service.ShareCodeGenerator, m *metrics.Metrics, logger zerolog.Logger) *Handler {
	return &Handler{
		Reviews:    reviews,
		Stats:      stats,
		ShareCodes: shareCodes,
		Metrics:    m,
		Logger:     logger,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.health).Methods("GET")
	r.Handle("/metrics", h.Metrics.Handler()).Methods("GET")
	r.HandleFunc("/api/games/{gameId}/reviews", h.submitReview).Methods("POST")
	r.HandleFunc("/api/games/{gameId}/reviews", h.getGameReviews).Methods("GET")
	r.HandleFunc("/api/games/{gameId}/stats", h.getGameStats).Methods("GET")
	r.HandleFunc("/api/games/{gameId}/ratings/{userId}", h.hasUserRated).Methods("GET")
	r.HandleFunc("/api/games/{gameId}/share.png", h.getShareCode).Methods("GET")
}

// maxSubmitBodyBytes leaves room for a 500 code point comment with every
// character JSON-escaped.
const maxSubmitBodyBytes = 8 << 10

type submitReviewRequest struct {
	UserName string `json:"userName"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

type errorResponse struct {
	Error string         `json:"error"`
	Code  apperrors.Kind `json:"code,omitempty"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) submitReview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSubmitBodyBytes)

	var payload submitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request payload too large", Code: apperrors.KindValidation})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request payload", Code: apperrors.KindValidation})
		return
	}

	review, err := h.Reviews.SubmitReview(r.Context(), service.SubmitReviewInput{
		GameID:   mux.Vars(r)["gameId"],
		UserName: payload.UserName,
		Rating:   payload.Rating,
		Comment:  payload.Comment,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, review)
}

func (h *Handler) getGameReviews(w http.ResponseWriter, r *http.Request) {
	limit := service.DefaultReviewLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer", Code: apperrors.KindValidation})
			return
		}
		limit = parsed
	}

	writeJSON(w, http.StatusOK, h.Reviews.GetGameReviews(r.Context(), mux.Vars(r)["gameId"], limit))
}

func (h *Handler) getGameStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Stats.GetGameStats(r.Context(), mux.Vars(r)["gameId"]))
}

func (h *Handler) hasUserRated(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	writeJSON(w, http.StatusOK, map[string]bool{
		"rated": h.Reviews.HasUserRated(r.Context(), vars["gameId"], vars["userId"]),
	})
}

func (h *Handler) getShareCode(w http.ResponseWriter, r *http.Request) {
	png, err := h.ShareCodes.Generate(mux.Vars(r)["gameId"])
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.Logger.Error().Err(err).Int("status", status).Msg("request failed")
	}
	writeJSON(w, status, errorResponse{
		Error: apperrors.PublicMessage(err),
		Code:  apperrors.KindOf(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
