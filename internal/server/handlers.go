package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/julianstephens/habitlit/internal/constants"
	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/mood"
	"github.com/julianstephens/habitlit/internal/predictor"
	"github.com/julianstephens/habitlit/internal/streak"
	"github.com/julianstephens/habitlit/internal/validation"
)

const maxBodyBytes = 1 << 20

// HabitView is a habit with its streak numbers as of today
type HabitView struct {
	models.Habit
	Active         bool        `json:"active"`
	Stats          streak.Data `json:"stats"`
	CompletedToday bool        `json:"completedToday"`
}

// HabitStats is the response for a single habit's statistics
type HabitStats struct {
	HabitID string `json:"habitId"`
	streak.Data
	CompletionRate float64 `json:"completionRate"`
	WindowDays     int     `json:"windowDays"`
	Today          string  `json:"today"`
}

type toggleRequest struct {
	Date string `json:"date"`
}

type toggleResponse struct {
	HabitID   string      `json:"habitId"`
	Date      string      `json:"date"`
	Completed bool        `json:"completed"`
	Stats     streak.Data `json:"stats"`
}

type moodRequest struct {
	Mood       string   `json:"mood"`
	Note       string   `json:"note"`
	Activities []string `json:"activities"`
	Date       string   `json:"date"`
}

type moodsResponse struct {
	Entries []models.MoodEntry `json:"entries"`
	Summary mood.Summary       `json:"summary"`
}

type chatRequest struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError maps storage errors onto HTTP statuses
func writeStoreError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperrors.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("request failed", "action", action, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "today": s.opts.Today()})
}

// listHabits handles GET /api/habits. ?archived=true includes archived habits.
func (s *Server) listHabits(w http.ResponseWriter, r *http.Request) {
	includeArchived, _ := strconv.ParseBool(r.URL.Query().Get("archived"))

	habits, err := s.store.GetAllHabits(includeArchived, false)
	if err != nil {
		writeStoreError(w, err, "load habits")
		return
	}

	today := s.opts.Today()
	views := make([]HabitView, 0, len(habits))
	for _, h := range habits {
		views = append(views, HabitView{
			Habit:          h,
			Active:         h.Active(),
			Stats:          streak.ForHabit(h, today),
			CompletedToday: h.CompletedOn(today),
		})
	}
	writeJSON(w, http.StatusOK, views)
}

// habitStats handles GET /api/habits/{id}/stats
func (s *Server) habitStats(w http.ResponseWriter, r *http.Request) {
	h, err := s.store.GetHabit(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "load habit")
		return
	}

	today := s.opts.Today()
	window := s.opts.CompletionWindowDays
	writeJSON(w, http.StatusOK, HabitStats{
		HabitID:        h.ID,
		Data:           streak.ForHabit(h, today),
		CompletionRate: streak.CompletionRate(h.CompletedDates, window, today),
		WindowDays:     window,
		Today:          today,
	})
}

// toggleHabit handles POST /api/habits/{id}/toggle. The body is optional;
// without a date the habit is toggled for today.
func (s *Server) toggleHabit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req toggleRequest
	if err := decodeBody(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	today := s.opts.Today()
	day := req.Date
	if day == "" {
		day = today
	}
	if err := validation.ValidateDay(day); err != nil {
		writeStoreError(w, err, "toggle habit")
		return
	}

	completed, err := s.store.ToggleCompletion(id, day)
	if err != nil {
		writeStoreError(w, err, "toggle habit")
		return
	}
	h, err := s.store.GetHabit(id)
	if err != nil {
		writeStoreError(w, err, "load habit")
		return
	}

	logger.Debug("toggled habit", "id", id, "day", day, "completed", completed)
	writeJSON(w, http.StatusOK, toggleResponse{
		HabitID:   id,
		Date:      day,
		Completed: completed,
		Stats:     streak.ForHabit(h, today),
	})
}

// listMoods handles GET /api/moods?days=N
func (s *Server) listMoods(w http.ResponseWriter, r *http.Request) {
	days, ok := parseDays(r, s.opts.MoodWindowDays)
	if !ok {
		writeError(w, http.StatusBadRequest, daysError)
		return
	}

	entries, err := s.store.GetAllMoods()
	if err != nil {
		writeStoreError(w, err, "load moods")
		return
	}

	today := s.opts.Today()
	writeJSON(w, http.StatusOK, moodsResponse{
		Entries: mood.Recent(entries, days, today),
		Summary: mood.Summarize(entries, days, today),
	})
}

// createMood handles POST /api/moods
func (s *Server) createMood(w http.ResponseWriter, r *http.Request) {
	var req moodRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	m, ok := models.ParseMoodType(req.Mood)
	if !ok {
		writeError(w, http.StatusBadRequest, "mood must be one of terrible, bad, neutral, good, excellent")
		return
	}

	entry := models.MoodEntry{
		ID:         uuid.New().String(),
		Date:       s.opts.Today(),
		Time:       s.opts.Now().Format(time.RFC3339),
		Mood:       m,
		Note:       strings.TrimSpace(req.Note),
		Activities: req.Activities,
	}
	if req.Date != "" {
		entry.Date = req.Date
	}
	if !strings.HasPrefix(entry.Time, entry.Date) {
		// Backfilled entries are stamped at noon UTC on their own date
		entry.Time = entry.Date + "T12:00:00Z"
	}

	if err := validation.ValidateMood(entry); err != nil {
		writeStoreError(w, err, "log mood")
		return
	}
	if err := s.store.AddMood(entry); err != nil {
		writeStoreError(w, err, "log mood")
		return
	}

	logger.Info("mood logged", "date", entry.Date, "mood", entry.Mood)
	writeJSON(w, http.StatusCreated, entry)
}

// predict handles GET /api/predict
func (s *Server) predict(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot()
	if err != nil {
		writeStoreError(w, err, "generate predictions")
		return
	}
	writeJSON(w, http.StatusOK, predictor.PredictRisks(snap.Habits, s.opts.Today()))
}

// insights handles GET /api/insights?days=N
func (s *Server) insights(w http.ResponseWriter, r *http.Request) {
	days, ok := parseDays(r, 0)
	if !ok {
		writeError(w, http.StatusBadRequest, daysError)
		return
	}

	snap, err := s.store.Snapshot()
	if err != nil {
		writeStoreError(w, err, "generate insights")
		return
	}
	writeJSON(w, http.StatusOK, predictor.BuildReport(snap, days, s.opts.Today(), s.opts.Now()))
}

// chat handles POST /api/chat. The coach never fails; upstream problems
// come back as a fallback reply.
func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	snap, err := s.store.Snapshot()
	if err != nil {
		writeStoreError(w, err, "load data for chat")
		return
	}
	writeJSON(w, http.StatusOK, s.coach.Reply(r.Context(), req.Message, snap, s.opts.Today()))
}

var daysError = fmt.Sprintf("days must be an integer between 1 and %d", constants.MaxWindowDays)

// parseDays reads ?days=N, returning def when it is absent
func parseDays(r *http.Request, def int) (int, bool) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || validation.ValidateWindow(n) != nil {
		return 0, false
	}
	return n, true
}
