package service

import (
	"context"
	crand "crypto/rand"
	"time"

	"github.com/oklog/ulid"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/storage/db"
	"github.com/yeisme/docvault/pkg/internal/types"
	nlog "github.com/yeisme/docvault/pkg/log"
)

var activityEntropy = ulid.Monotonic(crand.Reader, 0)

// ActivityService 审计日志服务.写入尽力而为：失败记日志，从不向外抛错，
// 不允许审计失败中断主操作.
type ActivityService struct {
	dbClient *db.Client
}

// NewActivityService 创建审计日志服务.
func NewActivityService(dbClient *db.Client) *ActivityService {
	return &ActivityService{dbClient: dbClient}
}

// Record 追加一条审计记录.
func (s *ActivityService) Record(ctx context.Context, action, entityType string,
	entityID, actorID *uint, detail string,
) {
	entry := model.ActivityLog{
		ID:         ulid.MustNew(ulid.Timestamp(time.Now()), activityEntropy).String(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		ActorID:    actorID,
		Detail:     detail,
	}

	if err := s.dbClient.GetDB().WithContext(ctx).Create(&entry).Error; err != nil {
		nlog.Logger().Warn().Err(err).
			Str("action", action).
			Str("entity_type", entityType).
			Msg("failed to write activity log entry")
	}
}

// List 按过滤条件查询审计记录，按时间倒序.
func (s *ActivityService) List(ctx context.Context, req *types.ListActivityRequest) ([]model.ActivityLog, error) {
	dbx := s.dbClient.GetDB().WithContext(ctx).Model(&model.ActivityLog{})

	if req.Actor != "" {
		actor, err := resolveOwner(ctx, s.dbClient, req.Actor)
		if err != nil {
			return nil, err
		}

		dbx = dbx.Where("actor_id = ?", actor.ID)
	}

	if req.EntityType != "" {
		dbx = dbx.Where("entity_type = ?", req.EntityType)
	}

	if req.Action != "" {
		dbx = dbx.Where("action = ?", req.Action)
	}

	if req.Limit > 0 {
		dbx = dbx.Limit(req.Limit)
	}

	var entries []model.ActivityLog
	if err := dbx.Order("created_at DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}
