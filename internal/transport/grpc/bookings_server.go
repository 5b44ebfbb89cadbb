package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"seatbook/internal/availability"
	"seatbook/internal/domain"
	"seatbook/internal/metrics"
	"seatbook/internal/service/bookings"
	"seatbook/internal/store"
)

type BookingsServer struct {
	svc bookingsService
	log *slog.Logger
}

type bookingsService interface {
	List(ctx context.Context) ([]domain.Booking, error)
	Create(ctx context.Context, in bookings.CreateInput) (domain.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Availability(ctx context.Context, wd domain.Weekday, ts domain.TimeSlot) (domain.Availability, error)
	Reset(ctx context.Context) (int64, error)
}

var _ BookingsServiceServer = (*BookingsServer)(nil)

func NewBookingsServer(svc bookingsService, log *slog.Logger) *BookingsServer {
	if log == nil {
		log = slog.Default()
	}
	return &BookingsServer{
		svc: svc,
		log: log.With(slog.String("component", "grpc.bookings")),
	}
}

func (s *BookingsServer) ListBookings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	log := s.log.With(slog.String("rpc", "ListBookings"))

	rows, err := s.svc.List(ctx)
	if err != nil {
		log.Error("bookings list failed", slog.Any("err", err))
		return nil, status.Error(codes.Internal, "internal error")
	}

	values := make([]*structpb.Value, 0, len(rows))
	for _, b := range rows {
		values = append(values, structpb.NewStructValue(toStruct(b)))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"bookings": structpb.NewListValue(&structpb.ListValue{Values: values}),
	}}, nil
}

func (s *BookingsServer) CreateBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	log := s.log.With(slog.String("rpc", "CreateBooking"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	b, err := s.svc.Create(ctx, bookings.CreateInput{
		Name:     stringField(req, "name"),
		Weekday:  stringField(req, "weekday"),
		TimeSlot: stringField(req, "time_slot"),
	})
	if err != nil {
		var vErr *availability.ValidationError
		if errors.As(err, &vErr) {
			metrics.IncBookingRejected(string(vErr.Kind))
			log.Info("booking rejected", slog.String("reason", string(vErr.Kind)))
			return nil, status.Error(codes.InvalidArgument, vErr.Error())
		}
		log.Error("booking create failed", slog.Any("err", err))
		return nil, status.Error(codes.Internal, "internal error")
	}

	metrics.IncBookingCreated("ok")
	log.Info("booking created", slog.String("booking_id", b.ID.String()))
	return toStruct(b), nil
}

func (s *BookingsServer) DeleteBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	log := s.log.With(slog.String("rpc", "DeleteBooking"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	id, err := uuid.Parse(stringField(req, "id"))
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_id"))
		return nil, status.Error(codes.InvalidArgument, "id must be a UUID")
	}

	if err := s.svc.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("booking not found", slog.String("booking_id", id.String()))
			return nil, status.Error(codes.NotFound, "booking not found")
		}
		log.Error("booking delete failed", slog.Any("err", err), slog.String("booking_id", id.String()))
		return nil, status.Error(codes.Internal, "internal error")
	}

	metrics.IncBookingCancelled()
	log.Info("booking deleted", slog.String("booking_id", id.String()))
	return &structpb.Struct{Fields: map[string]*structpb.Value{}}, nil
}

func (s *BookingsServer) GetAvailability(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	log := s.log.With(slog.String("rpc", "GetAvailability"))

	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	wd, ok := domain.ParseWeekday(stringField(req, "weekday"))
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "invalid weekday")
	}
	ts, ok := domain.ParseTimeSlot(stringField(req, "time_slot"))
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "invalid time slot")
	}

	a, err := s.svc.Availability(ctx, wd, ts)
	if err != nil {
		log.Error("availability check failed", slog.Any("err", err))
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"available":       structpb.NewBoolValue(a.Bookable()),
		"reason":          structpb.NewStringValue(string(a.Status)),
		"message":         structpb.NewStringValue(a.Message()),
		"available_spots": structpb.NewNumberValue(float64(a.Remaining)),
		"total_spots":     structpb.NewNumberValue(float64(a.Capacity)),
	}}, nil
}

func (s *BookingsServer) ResetBookings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	log := s.log.With(slog.String("rpc", "ResetBookings"))

	n, err := s.svc.Reset(ctx)
	if err != nil {
		log.Error("bookings reset failed", slog.Any("err", err))
		return nil, status.Error(codes.Internal, "internal error")
	}

	metrics.IncWeeklyReset("grpc")
	log.Info("bookings reset", slog.Int64("deleted", n))
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"deleted": structpb.NewNumberValue(float64(n)),
	}}, nil
}

func stringField(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

func toStruct(b domain.Booking) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"id":         structpb.NewStringValue(b.ID.String()),
		"name":       structpb.NewStringValue(b.Name),
		"weekday":    structpb.NewStringValue(string(b.Weekday)),
		"time_slot":  structpb.NewStringValue(string(b.TimeSlot)),
		"created_at": structpb.NewStringValue(b.CreatedAt.UTC().Format(time.RFC3339Nano)),
	}}
}
