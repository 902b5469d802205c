//go:build protogen

package main

import (
	"context"
	"log/slog"
	"net"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"

	"github.com/md-rashed-zaman/openhours/libs/config"
	"github.com/md-rashed-zaman/openhours/libs/grpcx"
	"github.com/md-rashed-zaman/openhours/services/availability-service/internal/grpcserver"
	"github.com/md-rashed-zaman/openhours/services/availability-service/internal/schedule"
)

func startGrpcServer(ctx context.Context, logger *slog.Logger, svc *schedule.Service) error {
	port, err := config.Port("GRPC_PORT", "9096")
	if err != nil {
		return err
	}
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return err
	}

	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(grpcx.UnaryServerRequestIDInterceptor()),
	)
	grpcserver.Register(srv, svc)

	go func() {
		logger.Info("grpc server starting", "addr", lis.Addr().String())
		if err := srv.Serve(lis); err != nil {
			logger.Error("grpc server error", "err", err)
		}
	}()

	go func() {
		<-ctx.Done()
		srv.GracefulStop()
	}()

	return nil
}
