package observability

import (
	"context"
	"strings"

	"github.com/signalsfoundry/aquila-performance/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// RequestIDUnaryServerInterceptor puts a request id on the context, taken
// from inbound x-request-id metadata when present, and attaches a logger
// annotated with the id and method.
func RequestIDUnaryServerInterceptor(base logging.Logger) grpc.UnaryServerInterceptor {
	if base == nil {
		base = logging.Noop()
	}
	key := strings.ToLower(logging.RequestIDHeader)
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if vals := md.Get(key); len(vals) > 0 && vals[0] != "" {
				ctx = logging.ContextWithRequestID(ctx, vals[0])
			}
		}

		fullMethod := ""
		if info != nil {
			fullMethod = info.FullMethod
		}
		ctx, reqLog := logging.WithRequestLogger(ctx, base.With(logging.String("method", fullMethod)))
		ctx = logging.ContextWithLogger(ctx, reqLog)

		resp, err := handler(ctx, req)
		if err != nil {
			reqLog.Warn(ctx, "rpc failed", logging.Err(err))
		}
		return resp, err
	}
}
