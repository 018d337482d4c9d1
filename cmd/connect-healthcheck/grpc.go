package main

import (
	"context"

	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// grpcServiceName is the service name accepted besides the empty (server) name.
const grpcServiceName = "kafka-connect"

// healthServer answers grpc.health.v1.Health/Check with a fresh evaluation,
// so Kubernetes gRPC probes see the same verdict as /health/ready.
// Watch and List are not supported.
type healthServer struct {
	healthpb.UnimplementedHealthServer
	eval evaluator
	tl   *transitionLogger
}

// Check evaluates readiness for the empty service name or grpcServiceName.
func (s *healthServer) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if svc := req.GetService(); svc != "" && svc != grpcServiceName {
		return nil, status.Errorf(codes.NotFound, "unknown service %q", svc)
	}

	v := s.eval.Evaluate(ctx)
	s.tl.observe(ctx, v)

	st := healthpb.HealthCheckResponse_NOT_SERVING
	if v.Up {
		st = healthpb.HealthCheckResponse_SERVING
	}
	return &healthpb.HealthCheckResponse{Status: st}, nil
}
