//go:build protogen

package grpcserver

import (
	"context"
	"errors"
	"sort"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	availabilityv1 "github.com/md-rashed-zaman/openhours/protos/gen/availability/v1"
	"github.com/md-rashed-zaman/openhours/services/availability-service/internal/schedule"
)

const dateLayout = "2006-01-02"

type server struct {
	availabilityv1.UnimplementedAvailabilityServiceServer
	svc *schedule.Service
}

func Register(grpcServer *grpc.Server, svc *schedule.Service) {
	availabilityv1.RegisterAvailabilityServiceServer(grpcServer, &server{svc: svc})
}

func (s *server) GetWeekAvailability(ctx context.Context, req *availabilityv1.WeekAvailabilityRequest) (*availabilityv1.WeekAvailabilityResponse, error) {
	if req.GetProviderId() == "" {
		return nil, status.Error(codes.InvalidArgument, "provider_id required")
	}
	weekStart, err := schedule.ParseDate(req.GetWeekStart())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid week_start")
	}

	week, err := s.svc.GetWeekAvailability(ctx, req.GetProviderId(), weekStart, req.GetIncludeEmpty())
	if err != nil {
		if errors.Is(err, schedule.ErrValidation) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		return nil, status.Error(codes.Internal, "failed to load availability")
	}

	dates := make([]string, 0, len(week))
	for date := range week {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	resp := &availabilityv1.WeekAvailabilityResponse{
		ProviderId: req.GetProviderId(),
		WeekStart:  weekStart.Format(dateLayout),
	}
	for _, date := range dates {
		day := &availabilityv1.DayWindows{Date: date}
		for _, win := range week[date] {
			day.Windows = append(day.Windows, &availabilityv1.TimeWindow{
				StartTime: win.StartString(),
				EndTime:   win.EndString(),
			})
		}
		resp.Days = append(resp.Days, day)
	}
	return resp, nil
}
