package smoke

import (
	"context"
	"fmt"
	"time"

	"github.com/agentfree/sessionkit/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthProber asks addr for its overall serving status.
type HealthProber func(ctx context.Context, addr string) (healthpb.HealthCheckResponse_ServingStatus, error)

// GRPCHealthProbe calls grpc.health.v1.Health/Check with an empty service
// name over a plaintext connection.
func GRPCHealthProbe(ctx context.Context, addr string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}

const grpcCheckName = "gRPC Health"

func (r *Runner) runProbe(ctx context.Context, logger logging.Logger) Result {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	r.printf("Testing %s...\n", grpcCheckName)

	start := time.Now()
	status, err := r.probe(ctx, r.grpcAddr)
	res := Result{Check: Check{Name: grpcCheckName, Path: r.grpcAddr}, Elapsed: time.Since(start)}

	switch {
	case err != nil:
		res.Outcome, res.Err = OutcomeError, err
		r.printf("%s\n", r.red(fmt.Sprintf("❌ %s: ERROR - %s", grpcCheckName, err)))
	case status == healthpb.HealthCheckResponse_SERVING:
		res.Outcome = OutcomeSuccess
		r.printf("%s\n", r.green(fmt.Sprintf("✅ %s: SUCCESS (%s)", grpcCheckName, status)))
	default:
		res.Outcome = OutcomeFailed
		r.printf("%s\n", r.red(fmt.Sprintf("❌ %s: FAILED (%s)", grpcCheckName, status)))
	}

	logger.Debug(ctx, "grpc probe finished", "addr", r.grpcAddr, "outcome", res.Outcome, "elapsed", res.Elapsed)
	return res
}
