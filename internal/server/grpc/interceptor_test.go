package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/scribe/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	s := NewGRPCServer("", logging.Nop{}, &fakePinger{}, &fakePinger{}, time.Second)

	info := &grpc.UnaryServerInfo{FullMethod: "/pkg.Service/Method"}
	called := false
	h := func(ctx context.Context, req any) (any, error) {
		called = true
		return "ok", nil
	}

	resp, err := s.loggingInterceptor(context.Background(), nil, info, h)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "ok", resp)
}

func TestLoggingInterceptor_ReturnsHandlerError(t *testing.T) {
	s := NewGRPCServer("", logging.Nop{}, &fakePinger{}, &fakePinger{}, time.Second)

	info := &grpc.UnaryServerInfo{FullMethod: "/pkg.Service/Method"}
	h := func(ctx context.Context, req any) (any, error) {
		return nil, status.Error(codes.NotFound, "missing")
	}

	resp, err := s.loggingInterceptor(context.Background(), nil, info, h)
	assert.Nil(t, resp)
	assert.Equal(t, codes.NotFound, status.Code(err))
}
