package interceptors

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Logging logs every unary call with its method, duration and status code.
// Must run after MetadataServerInterceptor to pick up the request id.
func Logging(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()

		resp, err := handler(ctx, req)

		code := status.Code(err)
		level := slog.LevelDebug
		msg := "gRPC request"
		switch code {
		case codes.OK:
		case codes.Internal, codes.Unknown, codes.Unavailable:
			level = slog.LevelError
			msg = "gRPC request error"
		default:
			level = slog.LevelWarn
			msg = "gRPC request rejected"
		}

		logger.LogAttrs(ctx, level, msg,
			slog.String("method", info.FullMethod),
			slog.String("request_id", RequestID(ctx)),
			slog.Duration("duration", time.Since(start)),
			slog.String("code", code.String()),
		)
		return resp, err
	}
}
