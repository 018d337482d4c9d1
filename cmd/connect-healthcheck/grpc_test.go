package main

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/BigKAA/connecthealth/connecthealth"
)

func newHealthClient(t *testing.T, eval evaluator) healthpb.HealthClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, &healthServer{
		eval: eval,
		tl:   &transitionLogger{logger: discardLogger()},
	})
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("grpc.NewClient: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return healthpb.NewHealthClient(conn)
}

func TestHealthServer_Check(t *testing.T) {
	tests := []struct {
		name    string
		up      bool
		service string
		want    healthpb.HealthCheckResponse_ServingStatus
	}{
		{"up, server", true, "", healthpb.HealthCheckResponse_SERVING},
		{"up, named service", true, "kafka-connect", healthpb.HealthCheckResponse_SERVING},
		{"down", false, "", healthpb.HealthCheckResponse_NOT_SERVING},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := &stubEvaluator{verdict: connecthealth.Verdict{Up: tt.up}}
			client := newHealthClient(t, eval)

			resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: tt.service})
			if err != nil {
				t.Fatalf("Check: %v", err)
			}
			if resp.GetStatus() != tt.want {
				t.Errorf("expected %v, got %v", tt.want, resp.GetStatus())
			}
			if eval.calls.Load() != 1 {
				t.Errorf("expected one evaluation, got %d", eval.calls.Load())
			}
		})
	}
}

func TestHealthServer_UnknownService(t *testing.T) {
	eval := &stubEvaluator{verdict: connecthealth.Verdict{Up: true}}
	client := newHealthClient(t, eval)

	_, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "other"})
	if status.Code(err) != codes.NotFound {
		t.Errorf("expected NotFound, got %v", err)
	}
	if eval.calls.Load() != 0 {
		t.Error("unknown service must not trigger an evaluation")
	}
}

func TestHealthServer_WatchUnimplemented(t *testing.T) {
	client := newHealthClient(t, &stubEvaluator{})

	stream, err := client.Watch(context.Background(), &healthpb.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if _, err := stream.Recv(); status.Code(err) != codes.Unimplemented {
		t.Errorf("expected Unimplemented, got %v", err)
	}
}
