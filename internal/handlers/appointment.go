package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/PaddyWebDev/safemax-backend/internal/metrics"
	"github.com/PaddyWebDev/safemax-backend/internal/model"
	"github.com/PaddyWebDev/safemax-backend/internal/schedule"
	"github.com/PaddyWebDev/safemax-backend/internal/storage"
)

// notifyTimeout bounds the detached email dispatch. The HTTP response does
// not wait on it; failures land in the log and the failure counter.
const notifyTimeout = 15 * time.Second

type appointmentStore interface {
	Create(ctx context.Context, appt model.Appointment) (model.Appointment, error)
	GetByID(ctx context.Context, id int64) (model.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status model.Status) error
	ListBetween(ctx context.Context, start, end time.Time) ([]model.Appointment, error)
	SlotBooked(ctx context.Context, at time.Time) (bool, error)
	DuplicateExists(ctx context.Context, email string, at time.Time) (bool, error)
}

type broadcaster interface {
	BroadcastNewAppointment(appt model.Appointment)
	BroadcastStatusChange(id int64, status model.Status)
}

type statusNotifier interface {
	Dispatch(ctx context.Context, appt model.Appointment, status model.Status) error
}

type AppointmentHandler struct {
	store     appointmentStore
	hub       broadcaster
	notifier  statusNotifier
	validator *validator.Validate
	logger    *slog.Logger
	now       func() time.Time
}

func NewAppointmentHandler(store appointmentStore, hub broadcaster, notifier statusNotifier, logger *slog.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		store:     store,
		hub:       hub,
		notifier:  notifier,
		validator: validator.New(),
		logger:    logger,
		now:       time.Now,
	}
}

type bookRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Time     string `json:"time" validate:"required"`
	Comments string `json:"comments"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// Week returns the current week's appointments grouped by calendar date.
func (h *AppointmentHandler) Week(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	start, end := schedule.WeekBounds(h.now())
	appts, err := h.store.ListBetween(r.Context(), start, end)
	if err != nil {
		h.logger.Error("failed to list week appointments", "err", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"slotsByDay": schedule.GroupByDay(appts),
	})
}

// Book validates the requested slot and creates a pending appointment.
// The pre-checks give the distinct conflict responses; the insert's unique
// constraints are authoritative when concurrent requests race past them.
func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Time = strings.TrimSpace(req.Time)
	req.Comments = strings.TrimSpace(req.Comments)

	if err := h.validator.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, "missing or invalid fields")
		return
	}

	at, err := time.Parse(time.RFC3339, req.Time)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid time")
		return
	}
	at = at.UTC()

	ctx := r.Context()
	booked, err := h.store.SlotBooked(ctx, at)
	if err != nil {
		h.logger.Error("slot check failed", "err", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if booked {
		metrics.BookingConflicts.WithLabelValues("slot_taken").Inc()
		writeMessage(w, http.StatusBadRequest, "Meeting already booked at this time")
		return
	}

	duplicate, err := h.store.DuplicateExists(ctx, req.Email, at)
	if err != nil {
		h.logger.Error("duplicate check failed", "err", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if duplicate {
		metrics.BookingConflicts.WithLabelValues("duplicate").Inc()
		writeMessage(w, http.StatusConflict, "Your appointment already exist")
		return
	}

	comments := req.Comments
	if comments == "" {
		comments = model.DefaultComments
	}

	appt, err := h.store.Create(ctx, model.Appointment{
		Name:        req.Name,
		Email:       req.Email,
		ScheduledAt: at,
		Status:      model.StatusPending,
		Comments:    comments,
	})
	switch {
	case errors.Is(err, storage.ErrSlotTaken):
		metrics.BookingConflicts.WithLabelValues("slot_taken").Inc()
		writeMessage(w, http.StatusBadRequest, "Meeting already booked at this time")
		return
	case errors.Is(err, storage.ErrDuplicate):
		metrics.BookingConflicts.WithLabelValues("duplicate").Inc()
		writeMessage(w, http.StatusConflict, "Your appointment already exist")
		return
	case err != nil:
		h.logger.Error("failed to create appointment", "err", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	metrics.AppointmentsBooked.Inc()
	h.hub.BroadcastNewAppointment(appt)
	writeMessage(w, http.StatusOK, "Appointment created successfully")
}

// UpdateStatus moves an appointment to a new status, announces the change,
// and (for Approved/Denied) dispatches the notification email without
// blocking the response.
func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeMessage(w, http.StatusBadRequest, "invalid appointment id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json body")
		return
	}
	status, err := model.ParseStatus(req.Status)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid status")
		return
	}

	ctx := r.Context()
	appt, err := h.store.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "Appointment Doesn't Exist")
		return
	}
	if err != nil {
		h.logger.Error("failed to load appointment", "id", id, "err", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if appt.Status == status {
		writeMessage(w, http.StatusConflict, "This appointment is already "+string(status))
		return
	}

	if err := h.store.UpdateStatus(ctx, id, status); err != nil {
		h.logger.Error("failed to update status", "id", id, "err", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.hub.BroadcastStatusChange(id, status)

	if status.Terminal() {
		go func() {
			dispatchCtx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()
			if err := h.notifier.Dispatch(dispatchCtx, appt, status); err != nil {
				h.logger.Error("status notification failed",
					"appointment_id", id,
					"status", status,
					"err", err,
				)
			}
		}()
	}

	writeMessage(w, http.StatusOK, "Appointment "+string(status))
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"message": msg})
}
