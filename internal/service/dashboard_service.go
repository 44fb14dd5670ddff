package service

import (
	"context"
	"time"

	"commercial-hub-be/internal/dto"
	"commercial-hub-be/internal/entity"
	"commercial-hub-be/pkg/dashboard"
	"commercial-hub-be/pkg/querycache"
)

type IDashboardService interface {
	Summary(ctx context.Context) (*dto.DashboardSummaryResponse, error)
	Refresh(ctx context.Context) error
}

type dashboardService struct {
	cache *querycache.Cache
}

func NewDashboardService(cache *querycache.Cache) IDashboardService {
	return &dashboardService{cache: cache}
}

// Summary recomputes the KPI tiles and chart series from the cached project
// collection. Single O(n) pass per tile; deal counts stay small.
func (s *dashboardService) Summary(ctx context.Context) (*dto.DashboardSummaryResponse, error) {
	projects, err := querycache.GetAs[[]*entity.Project](ctx, s.cache, projectsQuery)
	if err != nil {
		return nil, err
	}

	summary := dashboard.Summarize(projects, time.Now())

	series := make([]dto.AgentValueResponse, 0, len(summary.ValueByAgent))
	for _, agent := range summary.ValueByAgent {
		series = append(series, dto.AgentValueResponse{AgentName: agent.AgentName, Total: agent.Total})
	}

	return &dto.DashboardSummaryResponse{
		PipelineValue: summary.PipelineValue,
		WonThisMonth:  summary.WonThisMonth,
		ActiveCount:   summary.ActiveCount,
		ValueByAgent:  series,
		Agents:        summary.Agents,
	}, nil
}

// Refresh forces both collections to refetch, bypassing staleness checks.
func (s *dashboardService) Refresh(ctx context.Context) error {
	if _, err := s.cache.Refresh(ctx, projectsQuery); err != nil {
		return err
	}
	_, err := s.cache.Refresh(ctx, profilesQuery)
	return err
}
