package handlers

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestServer_StartStop(t *testing.T) {
	logger := zaptest.NewLogger(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Fixed ports so we know what address to dial.
	s := NewServer(50071, 18071, mux, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()
	time.Sleep(200 * time.Millisecond)

	conn, err := grpc.NewClient("localhost:50071", grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()
	client := healthpb.NewHealthClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())

	s.SetServing(true)
	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	httpResp, err := http.Get("http://localhost:18071/ping")
	require.NoError(t, err)
	httpResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, httpResp.StatusCode)

	s.Stop()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for server to stop")
	}

	// The gRPC port is free again after shutdown.
	lis, err := net.Listen("tcp", s.grpcEndpoint)
	require.NoError(t, err)
	lis.Close()
}

func TestServer_StartFailsOnBusyPort(t *testing.T) {
	busy, err := net.Listen("tcp", ":50072")
	require.NoError(t, err)
	defer busy.Close()

	s := NewServer(50072, 18072, http.NewServeMux(), zaptest.NewLogger(t))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		assert.Error(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("expected Start to fail")
	}
	s.Stop()
}
