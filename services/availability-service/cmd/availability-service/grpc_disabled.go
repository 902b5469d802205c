//go:build !protogen

package main

import (
	"context"
	"log/slog"

	"github.com/md-rashed-zaman/openhours/services/availability-service/internal/schedule"
)

func startGrpcServer(_ context.Context, _ *slog.Logger, _ *schedule.Service) error {
	return nil
}
