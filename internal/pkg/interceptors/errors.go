package interceptors

import (
	"context"
	"log/slog"

	"google.golang.org/grpc"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/apperr"
)

// Errors converts handler errors into gRPC statuses. Internal causes are
// logged here and replaced by a generic message.
func Errors(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}
		if apperr.KindOf(err) == apperr.KindInternal {
			logger.ErrorContext(ctx, "internal failure", "method", info.FullMethod, "error", err)
		}
		return resp, apperr.ToStatus(err)
	}
}

// ServerOptions chains the interceptors in the order every backend uses.
func ServerOptions(logger *slog.Logger) []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			MetadataServerInterceptor(),
			Logging(logger),
			Recovery(logger),
			Errors(logger),
		),
	}
}
