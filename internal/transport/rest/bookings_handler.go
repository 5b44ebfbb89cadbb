package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"seatbook/internal/availability"
	"seatbook/internal/domain"
	"seatbook/internal/metrics"
	"seatbook/internal/service/bookings"
	"seatbook/internal/store"
)

type bookingsService interface {
	List(ctx context.Context) ([]domain.Booking, error)
	Create(ctx context.Context, in bookings.CreateInput) (domain.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Availability(ctx context.Context, wd domain.Weekday, ts domain.TimeSlot) (domain.Availability, error)
	Reset(ctx context.Context) (int64, error)
}

type BookingsHandler struct {
	svc bookingsService
	log *slog.Logger
}

type createBookingRequest struct {
	Name     string `json:"name"`
	Weekday  string `json:"weekday"`
	TimeSlot string `json:"timeSlot"`
}

type availabilityResponse struct {
	Available      bool   `json:"available"`
	Reason         string `json:"reason"`
	Message        string `json:"message"`
	AvailableSpots int    `json:"availableSpots"`
	TotalSpots     int    `json:"totalSpots"`
}

func (h *BookingsHandler) List(c *gin.Context) {
	rows, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.log.Error("bookings list failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load bookings"})
		return
	}
	if rows == nil {
		rows = []domain.Booking{}
	}
	c.JSON(http.StatusOK, rows)
}

func (h *BookingsHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	b, err := h.svc.Create(c.Request.Context(), bookings.CreateInput{
		Name:     req.Name,
		Weekday:  req.Weekday,
		TimeSlot: req.TimeSlot,
	})
	if err != nil {
		var vErr *availability.ValidationError
		if errors.As(err, &vErr) {
			metrics.IncBookingRejected(string(vErr.Kind))
			h.log.Info("booking rejected",
				slog.String("reason", string(vErr.Kind)),
				slog.String("weekday", req.Weekday),
				slog.String("time_slot", req.TimeSlot),
			)
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error(), "code": string(vErr.Kind)})
			return
		}
		metrics.IncBookingCreated("error")
		h.log.Error("booking create failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create booking"})
		return
	}

	metrics.IncBookingCreated("ok")
	h.log.Info("booking created",
		slog.String("booking_id", b.ID.String()),
		slog.String("weekday", string(b.Weekday)),
		slog.String("time_slot", string(b.TimeSlot)),
	)
	c.JSON(http.StatusCreated, b)
}

func (h *BookingsHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return
		}
		h.log.Error("booking delete failed", slog.Any("err", err), slog.String("booking_id", id.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete booking"})
		return
	}

	metrics.IncBookingCancelled()
	h.log.Info("booking deleted", slog.String("booking_id", id.String()))
	c.JSON(http.StatusOK, gin.H{"message": "booking deleted"})
}

func (h *BookingsHandler) Availability(c *gin.Context) {
	wd, ok := domain.ParseWeekday(c.Param("weekday"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid weekday"})
		return
	}
	ts, ok := domain.ParseTimeSlot(c.Param("timeSlot"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time slot"})
		return
	}

	a, err := h.svc.Availability(c.Request.Context(), wd, ts)
	if err != nil {
		h.log.Error("availability check failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not check availability"})
		return
	}

	c.JSON(http.StatusOK, availabilityResponse{
		Available:      a.Bookable(),
		Reason:         string(a.Status),
		Message:        a.Message(),
		AvailableSpots: a.Remaining,
		TotalSpots:     a.Capacity,
	})
}

func (h *BookingsHandler) Reset(c *gin.Context) {
	n, err := h.svc.Reset(c.Request.Context())
	if err != nil {
		h.log.Error("bookings reset failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not reset bookings"})
		return
	}

	metrics.IncWeeklyReset("api")
	h.log.Info("bookings reset", slog.Int64("deleted", n))
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}
