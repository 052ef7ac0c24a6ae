package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/KirkDiggler/foresight/internal/models"
	roundRepo "github.com/KirkDiggler/foresight/internal/repositories/round"
	"github.com/KirkDiggler/foresight/internal/services/round"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Config holds the dependencies of the reporting API
type Config struct {
	Rounds round.Service

	// Gatherer serves /metrics; nil leaves the route out
	Gatherer prometheus.Gatherer

	Logger *slog.Logger
}

// Handler serves read-only round data over HTTP
type Handler struct {
	rounds   round.Service
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// NewHandler creates a Handler
func NewHandler(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Rounds == nil {
		return nil, errors.New("round service cannot be nil")
	}

	h := &Handler{
		rounds:   cfg.Rounds,
		gatherer: cfg.Gatherer,
		logger:   cfg.Logger,
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h, nil
}

// Routes returns the router
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.Route("/rounds", func(r chi.Router) {
		r.Get("/", h.listRounds)
		r.Route("/{roundID}", func(r chi.Router) {
			r.Get("/", h.getRound)
			r.Get("/results", h.getResults)
			r.Get("/stats", h.getStats)
		})
	})
	r.Get("/leaderboard", h.getLeaderboard)

	if h.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (h *Handler) listRounds(w http.ResponseWriter, r *http.Request) {
	input := &round.ListRoundsInput{ActiveOnly: r.URL.Query().Get("active") == "true"}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.ParseInt(v, 10, 64)
		if err != nil || limit < 0 {
			h.writeError(w, r, http.StatusBadRequest, "invalid limit")
			return
		}
		input.Limit = limit
	}

	out, err := h.rounds.ListRounds(r.Context(), input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, out.Rounds)
}

func (h *Handler) getRound(w http.ResponseWriter, r *http.Request) {
	out, err := h.rounds.GetRound(r.Context(), &round.GetRoundInput{RoundID: chi.URLParam(r, "roundID")})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, out.Round)
}

// resultsResponse is the public outcome of a scored round
type resultsResponse struct {
	RoundID  string                  `json:"round_id"`
	Phase    models.Phase            `json:"phase"`
	Scoring  *models.ScoringInfo     `json:"scoring"`
	Results  []*models.ScoringResult `json:"results"`
	Excluded map[string]string       `json:"excluded,omitempty"`
}

func (h *Handler) getResults(w http.ResponseWriter, r *http.Request) {
	out, err := h.rounds.GetRound(r.Context(), &round.GetRoundInput{RoundID: chi.URLParam(r, "roundID")})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	rec := out.Round
	if !rec.Phase.HasResults() {
		h.writeError(w, r, http.StatusConflict, "round "+rec.ID+" has not been scored")
		return
	}

	resp := &resultsResponse{
		RoundID:  rec.ID,
		Phase:    rec.Phase,
		Scoring:  rec.Scoring,
		Results:  rec.Results,
		Excluded: make(map[string]string),
	}
	for _, p := range rec.Participants {
		if p.Exclusion != models.ExclusionNone {
			resp.Excluded[p.ID] = string(p.Exclusion)
		}
	}
	h.writeJSON(w, r, http.StatusOK, resp)
}

// statsResponse mirrors round.GetRoundStatsOutput with JSON names
type statsResponse struct {
	RoundID      string          `json:"round_id"`
	Phase        models.Phase    `json:"phase"`
	Participants int             `json:"participants"`
	Committed    int             `json:"committed"`
	Revealed     int             `json:"revealed"`
	Verified     int             `json:"verified"`
	Excluded     map[string]int  `json:"excluded"`
	PrizePool    decimal.Decimal `json:"prize_pool"`
	TotalPayout  decimal.Decimal `json:"total_payout"`
	PaidEntries  int             `json:"paid_entries"`
	Summary      string          `json:"summary"`
}

func (h *Handler) getStats(w http.ResponseWriter, r *http.Request) {
	out, err := h.rounds.GetRoundStats(r.Context(), &round.GetRoundStatsInput{RoundID: chi.URLParam(r, "roundID")})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	excluded := make(map[string]int, len(out.Excluded))
	for reason, n := range out.Excluded {
		excluded[string(reason)] = n
	}
	h.writeJSON(w, r, http.StatusOK, &statsResponse{
		RoundID:      out.RoundID,
		Phase:        out.Phase,
		Participants: out.Participants,
		Committed:    out.Committed,
		Revealed:     out.Revealed,
		Verified:     out.Verified,
		Excluded:     excluded,
		PrizePool:    out.PrizePool,
		TotalPayout:  out.TotalPayout,
		PaidEntries:  out.PaidEntries,
		Summary:      out.Summary,
	})
}

func (h *Handler) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	input := &round.GetLeaderboardInput{}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			h.writeError(w, r, http.StatusBadRequest, "invalid limit")
			return
		}
		input.Limit = limit
	}

	out, err := h.rounds.GetLeaderboard(r.Context(), input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, out.Players)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, roundRepo.ErrRoundNotFound) {
		h.writeError(w, r, http.StatusNotFound, "round not found")
		return
	}
	h.logger.ErrorContext(r.Context(), "request failed",
		"path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "error", err)
	h.writeError(w, r, http.StatusInternalServerError, "internal error")
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.writeJSON(w, r, status, map[string]string{"error": msg})
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.WarnContext(r.Context(), "failed to encode response", "path", r.URL.Path, "error", err)
	}
}
