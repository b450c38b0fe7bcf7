package grpc

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/dmitrijs2005/localmart-users/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestLoggingInterceptor_PassesThroughAndLogs(t *testing.T) {
	var buf bytes.Buffer
	l := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	s := &GRPCServer{logger: l}

	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	h := func(ctx context.Context, req any) (any, error) {
		return "ok", nil
	}

	resp, err := s.loggingInterceptor(context.Background(), nil, info, h)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Contains(t, buf.String(), `"method":"/grpc.health.v1.Health/Check"`)
	assert.Contains(t, buf.String(), `"code":"OK"`)
}

func TestLoggingInterceptor_PropagatesError(t *testing.T) {
	s := &GRPCServer{logger: logging.Nop()}

	info := &grpc.UnaryServerInfo{FullMethod: "/pkg.Service/Method"}
	h := func(ctx context.Context, req any) (any, error) {
		return nil, status.Error(codes.NotFound, "unknown service")
	}

	_, err := s.loggingInterceptor(context.Background(), nil, info, h)
	assert.Equal(t, codes.NotFound, status.Code(err))
}
