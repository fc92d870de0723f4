package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/courtside/scheduler/internal/ics"
	"github.com/courtside/scheduler/internal/model"
	"github.com/courtside/scheduler/internal/schedule"
	"github.com/courtside/scheduler/internal/service"
)

const maxImportSize = 4 << 20 // 4 MiB of ICS text is plenty

type Handler struct {
	coaches   *service.CoachService
	schedules *service.ScheduleService
	auth      *service.AuthService
	logger    *zap.Logger
}

func NewHandler(coaches *service.CoachService, schedules *service.ScheduleService, auth *service.AuthService, logger *zap.Logger) *Handler {
	return &Handler{
		coaches:   coaches,
		schedules: schedules,
		auth:      auth,
		logger:    logger,
	}
}

// slotDTO decorates a slot with pre-rendered clock strings so clients do
// not repeat the decimal-hour conversion.
type slotDTO struct {
	model.Slot
	Start string `json:"start"`
	End   string `json:"end"`
}

func toDTO(slots []model.Slot) []slotDTO {
	out := make([]slotDTO, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotDTO{
			Slot:  s,
			Start: schedule.DecimalToClock(s.StartTime),
			End:   schedule.DecimalToClock(s.EndTime),
		})
	}
	return out
}

func (h *Handler) GetCoach(w http.ResponseWriter, r *http.Request) {
	coach, err := h.coaches.ResolveBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"slug":         coach.Slug,
		"display_name": coach.DisplayName,
		"public_note":  coach.PublicNote,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	coach, err := h.coaches.ResolveBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, model.ErrAuthFailed)
		return
	}

	session, err := h.auth.SignIn(r.Context(), coach, req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"token":      session.Token,
		"user_id":    session.UserID,
		"expires_at": session.ExpiresAt.Format(time.RFC3339),
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.SignOut(r.Context(), bearerToken(r)); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.auth.CurrentSession(r.Context(), bearerToken(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if session == nil {
		h.writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user_id":       session.UserID,
		"expires_at":    session.ExpiresAt.Format(time.RFC3339),
	})
}

// GetSchedule returns the merged schedule. Without a session owned by
// this coach the response is the public view: open availability only.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	coach, viewerID, err := h.resolve(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	slots, err := h.schedules.Refresh(r.Context(), coach, viewerID)
	if err != nil {
		h.writeRefreshError(w, err, viewerID == coach.UserID)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"slots": toDTO(slots)})
}

// GetCalendar returns the month grid: whole weeks of days, each day
// carrying its slots and whether it belongs to the requested month.
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	coach, viewerID, err := h.resolve(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	now := time.Now().In(schedule.DisplayZone)
	year, month := now.Year(), now.Month()
	if v := r.URL.Query().Get("year"); v != "" {
		if year, err = strconv.Atoi(v); err != nil {
			http.Error(w, "invalid year", http.StatusBadRequest)
			return
		}
	}
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			http.Error(w, "invalid month", http.StatusBadRequest)
			return
		}
		month = time.Month(m)
	}

	slots, err := h.schedules.Refresh(r.Context(), coach, viewerID)
	if err != nil {
		h.writeRefreshError(w, err, viewerID == coach.UserID)
		return
	}

	type dayDTO struct {
		Date         model.Date `json:"date"`
		CurrentMonth bool       `json:"current_month"`
		Slots        []slotDTO  `json:"slots"`
	}
	var weeks [][]dayDTO
	for _, week := range model.WeeksForMonth(year, month) {
		days := make([]dayDTO, 0, len(week))
		for _, d := range week {
			days = append(days, dayDTO{
				Date:         d,
				CurrentMonth: d.Month == month,
				Slots:        toDTO(schedule.OnDate(slots, d)),
			})
		}
		weeks = append(weeks, days)
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"year":  year,
		"month": int(month),
		"weeks": weeks,
	})
}

func (h *Handler) ExportICS(w http.ResponseWriter, r *http.Request) {
	coach, viewerID, err := h.resolve(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	slots, err := h.schedules.Refresh(r.Context(), coach, viewerID)
	if err != nil {
		h.writeRefreshError(w, err, viewerID == coach.UserID)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+coach.Slug+`-schedule.ics"`)
	if _, err := io.WriteString(w, ics.Export(coach, slots)); err != nil {
		h.logger.Warn("Failed to write ICS response", zap.Error(err))
	}
}

func (h *Handler) ImportICS(w http.ResponseWriter, r *http.Request) {
	coach, viewerID, err := h.resolve(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		http.Error(w, "unreadable body", http.StatusBadRequest)
		return
	}

	summary, err := h.schedules.ImportICS(r.Context(), coach, viewerID, string(body))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) RemoveDuplicates(w http.ResponseWriter, r *http.Request) {
	coach, viewerID, err := h.resolve(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	removed, err := h.schedules.RemoveDuplicates(r.Context(), coach, viewerID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	coach, viewerID, in, err := h.resolveInput(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	id, err := h.schedules.CreateAppointment(r.Context(), coach, viewerID, in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (h *Handler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	coach, viewerID, in, err := h.resolveInput(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.schedules.UpdateAppointment(r.Context(), coach, viewerID, chi.URLParam(r, "id"), in); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	coach, viewerID, err := h.resolve(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.schedules.DeleteAppointment(r.Context(), coach, viewerID, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateAvailability(w http.ResponseWriter, r *http.Request) {
	coach, viewerID, in, err := h.resolveInput(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	id, err := h.schedules.CreateAvailability(r.Context(), coach, viewerID, in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (h *Handler) UpdateAvailability(w http.ResponseWriter, r *http.Request) {
	coach, viewerID, in, err := h.resolveInput(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.schedules.UpdateAvailability(r.Context(), coach, viewerID, chi.URLParam(r, "id"), in); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteAvailability(w http.ResponseWriter, r *http.Request) {
	coach, viewerID, err := h.resolve(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.schedules.DeleteAvailability(r.Context(), coach, viewerID, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resolve loads the coach for the slug in the path and the viewer's user
// id, "" when unauthenticated.
func (h *Handler) resolve(r *http.Request) (*model.CoachProfile, string, error) {
	coach, err := h.coaches.ResolveBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		return nil, "", err
	}
	session, err := h.auth.CurrentSession(r.Context(), bearerToken(r))
	if err != nil {
		return nil, "", err
	}
	viewerID := ""
	if session != nil {
		viewerID = session.UserID
	}
	return coach, viewerID, nil
}

func (h *Handler) resolveInput(r *http.Request) (*model.CoachProfile, string, service.SlotInput, error) {
	coach, viewerID, err := h.resolve(r)
	if err != nil {
		return nil, "", service.SlotInput{}, err
	}
	var in service.SlotInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return nil, "", service.SlotInput{}, model.ErrInvalidInterval
	}
	return coach, viewerID, in, nil
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("Failed to encode response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrUnauthorized), errors.Is(err, model.ErrAuthFailed):
		status = http.StatusUnauthorized
	case errors.Is(err, model.ErrInvalidInterval):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.Error(err))
	}
	h.writeJSON(w, status, map[string]any{"error": err.Error()})
}

// writeRefreshError distinguishes "could not determine" from "no data":
// a failed refresh is 503, and the coach view also carries the last
// known good snapshot, explicitly marked stale.
func (h *Handler) writeRefreshError(w http.ResponseWriter, err error, isCoach bool) {
	var re *schedule.RefreshError
	if !errors.As(err, &re) {
		h.writeError(w, err)
		return
	}
	h.logger.Error("Schedule refresh failed", zap.Error(err))

	body := map[string]any{
		"error": "schedule refresh failed",
		"stale": true,
	}
	if isCoach {
		body["slots"] = toDTO(h.schedules.LastKnownGood())
	}
	h.writeJSON(w, http.StatusServiceUnavailable, body)
}

// logRequests is a small zap access-log middleware.
func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.logger.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)),
		)
	})
}
