package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// The maintenance API exchanges google.protobuf.Struct messages, so it needs
// no generated code and any gRPC client can call it with the well-known types.
const (
	ServiceName = "seatbook.v1.BookingsService"

	MethodListBookings    = "/" + ServiceName + "/ListBookings"
	MethodCreateBooking   = "/" + ServiceName + "/CreateBooking"
	MethodDeleteBooking   = "/" + ServiceName + "/DeleteBooking"
	MethodGetAvailability = "/" + ServiceName + "/GetAvailability"
	MethodResetBookings   = "/" + ServiceName + "/ResetBookings"
)

type BookingsServiceServer interface {
	ListBookings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	CreateBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	DeleteBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetAvailability(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ResetBookings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

func RegisterBookingsServiceServer(s grpc.ServiceRegistrar, srv BookingsServiceServer) {
	s.RegisterService(&bookingsServiceDesc, srv)
}

type structCall func(srv BookingsServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call structCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BookingsServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(BookingsServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var bookingsServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BookingsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListBookings",
			Handler:    unaryHandler(MethodListBookings, BookingsServiceServer.ListBookings),
		},
		{
			MethodName: "CreateBooking",
			Handler:    unaryHandler(MethodCreateBooking, BookingsServiceServer.CreateBooking),
		},
		{
			MethodName: "DeleteBooking",
			Handler:    unaryHandler(MethodDeleteBooking, BookingsServiceServer.DeleteBooking),
		},
		{
			MethodName: "GetAvailability",
			Handler:    unaryHandler(MethodGetAvailability, BookingsServiceServer.GetAvailability),
		},
		{
			MethodName: "ResetBookings",
			Handler:    unaryHandler(MethodResetBookings, BookingsServiceServer.ResetBookings),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "seatbook/v1/bookings.proto",
}
