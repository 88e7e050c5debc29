package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/alexanderramin/arecabot/internal/advisor"
	"github.com/alexanderramin/arecabot/internal/extract"
	"github.com/alexanderramin/arecabot/internal/logger"
	"github.com/alexanderramin/arecabot/internal/render"
	"github.com/alexanderramin/arecabot/internal/repository"
	"github.com/alexanderramin/arecabot/internal/service"
)

// MsgNoMessage is returned with 400 when a chat request has no message.
const MsgNoMessage = "Please provide a message."

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

type Handler struct {
	chat   service.ChatService
	advice service.AdviceService
	log    logger.Logger
	now    func() time.Time
}

func NewHandler(chat service.ChatService, advice service.AdviceService, log logger.Logger) *Handler {
	return &Handler{chat: chat, advice: advice, log: log, now: time.Now}
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Response  string         `json:"response"`
	SessionID string         `json:"session_id,omitempty"`
	Outcome   string         `json:"outcome,omitempty"`
	Intent    string         `json:"intent,omitempty"`
	Missing   []extract.Name `json:"missing,omitempty"`
}

// Chatbot handles POST /api/chatbot.
func (h *Handler) Chatbot(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decode(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, chatResponse{Response: MsgNoMessage})
		return
	}

	res, err := h.chat.Turn(r.Context(), req.SessionID, req.Message)
	if errors.Is(err, service.ErrEmptyMessage) {
		writeJSON(w, http.StatusBadRequest, chatResponse{Response: MsgNoMessage})
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response:  res.Reply.Text,
		SessionID: res.ConversationID,
		Outcome:   string(res.Reply.Outcome),
		Intent:    res.Reply.Intent,
		Missing:   res.Reply.Missing,
	})
}

// Pointer fields distinguish an absent reading, which takes the default,
// from a supplied zero.
type adviceRequest struct {
	Temperature   *float64 `json:"temperature"`
	Humidity      *float64 `json:"humidity"`
	Rainfall      *float64 `json:"rainfall"`
	WindSpeed     *float64 `json:"wind_speed"`
	PH            *float64 `json:"ph"`
	OrganicMatter *float64 `json:"organic_matter"`
	FruitMaturity *float64 `json:"fruit_maturity"`
	TreeAge       *float64 `json:"tree_age"`
	GrowthStage   *string  `json:"growth_stage"`
	Season        *string  `json:"season"`
}

func setReal(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

// readingBound is the accepted range for one supplied reading. Values far
// outside it overflow the advisor arithmetic (e.g. days to harvest).
type readingBound struct {
	field    string
	value    *float64
	min, max float64
	openMin  bool // min itself is rejected
}

// validate rejects readings outside physically plausible ranges.
func (req adviceRequest) validate() error {
	bounds := []readingBound{
		{field: "temperature", value: req.Temperature, min: -50, max: 60},
		{field: "humidity", value: req.Humidity, min: 0, max: 100},
		{field: "rainfall", value: req.Rainfall, min: 0, max: 5000},
		{field: "wind_speed", value: req.WindSpeed, min: 0, max: 200},
		{field: "ph", value: req.PH, min: 0, max: 14},
		{field: "organic_matter", value: req.OrganicMatter, min: 0, max: 100},
		{field: "fruit_maturity", value: req.FruitMaturity, min: 0, max: 100},
		{field: "tree_age", value: req.TreeAge, min: 0, max: 150, openMin: true},
	}
	for _, b := range bounds {
		if b.value == nil {
			continue
		}
		v := *b.value
		if v < b.min || v > b.max || (b.openMin && v == b.min) {
			if b.openMin {
				return fmt.Errorf("%s must be greater than %g and at most %g", b.field, b.min, b.max)
			}
			return fmt.Errorf("%s must be between %g and %g", b.field, b.min, b.max)
		}
	}
	return nil
}

func (req adviceRequest) pesticide() advisor.PesticideInput {
	in := advisor.DefaultPesticideInput()
	setReal(&in.Temperature, req.Temperature)
	setReal(&in.Humidity, req.Humidity)
	setReal(&in.Rainfall, req.Rainfall)
	setReal(&in.WindSpeed, req.WindSpeed)
	return in
}

func (req adviceRequest) fertilizer() (advisor.FertilizerInput, error) {
	in := advisor.DefaultFertilizerInput()
	setReal(&in.Temperature, req.Temperature)
	setReal(&in.Humidity, req.Humidity)
	setReal(&in.Rainfall, req.Rainfall)
	setReal(&in.PH, req.PH)
	setReal(&in.OrganicMatter, req.OrganicMatter)
	if req.GrowthStage != nil {
		if !slices.Contains(extract.Stages(), *req.GrowthStage) {
			return in, fmt.Errorf("growth_stage must be one of %v", extract.Stages())
		}
		in.GrowthStage = *req.GrowthStage
	}
	if req.Season != nil {
		if !slices.Contains(extract.Seasons(), *req.Season) {
			return in, fmt.Errorf("season must be one of %v", extract.Seasons())
		}
		in.Season = *req.Season
	}
	return in, nil
}

func (req adviceRequest) harvest() advisor.HarvestInput {
	in := advisor.DefaultHarvestInput()
	setReal(&in.FruitMaturity, req.FruitMaturity)
	setReal(&in.Temperature, req.Temperature)
	setReal(&in.Rainfall, req.Rainfall)
	setReal(&in.Humidity, req.Humidity)
	setReal(&in.TreeAge, req.TreeAge)
	return in
}

// Advice handles POST /api/advice/{kind}.
func (h *Handler) Advice(w http.ResponseWriter, r *http.Request) {
	var req adviceRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	switch kind := chi.URLParam(r, "kind"); kind {
	case "pesticide":
		a := h.advice.Pesticide(ctx, req.pesticide())
		writeJSON(w, http.StatusOK, map[string]any{
			"response":          a.Text,
			"status":            a.Result.Status(),
			"sprayability":      a.Result.Sprayability,
			"dosage_multiplier": a.Result.DosageMultiplier,
			"timing":            a.Result.Timing,
		})
	case "fertilizer":
		in, err := req.fertilizer()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		a := h.advice.Fertilizer(ctx, in)
		writeJSON(w, http.StatusOK, map[string]any{
			"response":         a.Text,
			"npk":              a.Result.NPK,
			"application_rate": a.Result.ApplicationRate,
			"timing":           a.Result.Timing,
		})
	case "harvest":
		a := h.advice.Harvest(ctx, req.harvest())
		writeJSON(w, http.StatusOK, map[string]any{
			"response":       a.Text,
			"estimated_days": a.Result.EstimatedDays,
			"confidence":     a.Result.Confidence,
			"quality_factor": a.Result.QualityFactor,
			"recommendation": a.Result.Recommendation,
		})
	default:
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown advice kind %q", kind))
	}
}

// Disease handles GET /api/diseases/{label}.
func (h *Handler) Disease(w http.ResponseWriter, r *http.Request) {
	a := h.advice.Diagnose(r.Context(), chi.URLParam(r, "label"))
	body := map[string]any{
		"response": a.Text,
		"label":    a.Result.Label.Key,
		"known":    a.Result.Known,
		"healthy":  a.Result.Label.Healthy,
	}
	if !a.Result.Known && !a.Result.Label.Healthy {
		body["suggestions"] = h.advice.SuggestDiseases(a.Result.Label.Key)
	}
	writeJSON(w, http.StatusOK, body)
}

type weatherRequest struct {
	advisor.WeatherReading
	Month int `json:"month"` // 1-12; 0 means the current month
}

// WeatherTips handles POST /api/weather/tips.
func (h *Handler) WeatherTips(w http.ResponseWriter, r *http.Request) {
	var req weatherRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	month := h.now().Month()
	if req.Month != 0 {
		if req.Month < 1 || req.Month > 12 {
			writeError(w, http.StatusBadRequest, "month must be between 1 and 12")
			return
		}
		month = time.Month(req.Month)
	}

	a := h.advice.WeatherTips(r.Context(), req.WeatherReading, month)
	writeJSON(w, http.StatusOK, map[string]any{"response": a.Text, "tips": a.Result})
}

// Schemes handles GET /api/schemes.
func (h *Handler) Schemes(w http.ResponseWriter, r *http.Request) {
	a := h.advice.Schemes(r.Context())
	keys := make([]string, 0, len(a.Result))
	for _, s := range a.Result {
		keys = append(keys, s.Key)
	}
	writeJSON(w, http.StatusOK, map[string]any{"response": a.Text, "schemes": keys})
}

// Scheme handles GET /api/schemes/{name}.
func (h *Handler) Scheme(w http.ResponseWriter, r *http.Request) {
	s, suggestions, ok := h.advice.Scheme(r.Context(), chi.URLParam(r, "name"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":       "scheme not found",
			"suggestions": suggestions,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"response": render.Scheme(s), "scheme": s.Key})
}

// History handles GET /api/conversations/{id}/turns?limit=N.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	turns, err := h.chat.History(r.Context(), chi.URLParam(r, "id"), limit)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	type turnJSON struct {
		Seq       int       `json:"seq"`
		User      string    `json:"user"`
		Bot       string    `json:"bot"`
		Outcome   string    `json:"outcome"`
		Intent    string    `json:"intent,omitempty"`
		Entity    string    `json:"entity,omitempty"`
		CreatedAt time.Time `json:"created_at"`
	}
	out := make([]turnJSON, 0, len(turns))
	for _, t := range turns {
		out = append(out, turnJSON{t.Seq, t.UserText, t.BotText, t.Outcome, t.Intent, t.Entity, t.CreatedAt})
	}
	writeJSON(w, http.StatusOK, map[string]any{"turns": out})
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"active_sessions": h.chat.ActiveSessions(),
	})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.log.WithError(err).Error("request failed", logger.Fields{"path": r.URL.Path})
	writeError(w, http.StatusInternalServerError, "internal error")
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
