package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/storage/db"
	"github.com/yeisme/docvault/pkg/internal/types"
)

// StatsService 汇总各实体总量与文档总字节数.
type StatsService struct {
	dbClient *db.Client
}

// NewStatsService 创建统计服务.
func NewStatsService(dbClient *db.Client) *StatsService {
	return &StatsService{dbClient: dbClient}
}

// Summary 并发统计各表总量.空库返回全零，不是错误.
func (s *StatsService) Summary(ctx context.Context) (*types.StatsSummary, error) {
	summary := &types.StatsSummary{}

	g, gctx := errgroup.WithContext(ctx)

	count := func(m any, dst *int64) func() error {
		return func() error {
			if err := s.dbClient.GetDB().WithContext(gctx).Model(m).Count(dst).Error; err != nil {
				return fmt.Errorf("count %T: %w", m, err)
			}

			return nil
		}
	}

	g.Go(count(&model.User{}, &summary.Users))
	g.Go(count(&model.Document{}, &summary.Documents))
	g.Go(count(&model.Folder{}, &summary.Folders))
	g.Go(count(&model.ActivityLog{}, &summary.LogEntries))
	g.Go(func() error {
		// COALESCE 让空表得 0 而不是 NULL
		if err := s.dbClient.GetDB().WithContext(gctx).Model(&model.Document{}).
			Select("COALESCE(SUM(size), 0)").Scan(&summary.TotalBytes).Error; err != nil {
			return fmt.Errorf("sum document sizes: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summary, nil
}
