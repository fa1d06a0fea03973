package service

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/storage/db"
	"github.com/yeisme/docvault/pkg/internal/storage/s3"
	"github.com/yeisme/docvault/pkg/internal/types"
	nlog "github.com/yeisme/docvault/pkg/log"
)

// SyncService 同步对账服务：以内容哈希为 join key，把远程文件列表
// 对账到本地文档记录.文件名、远程引用都不参与匹配，同一字节内容
// 换名重传仍被识别为同一文档.
type SyncService struct {
	dbClient    *db.Client
	gw          Gateway
	credentials *CredentialService
	activity    *ActivityService
}

// NewSyncService 创建同步服务.
func NewSyncService(dbClient *db.Client, gw Gateway,
	credentials *CredentialService, activity *ActivityService,
) *SyncService {
	return &SyncService{
		dbClient:    dbClient,
		gw:          gw,
		credentials: credentials,
		activity:    activity,
	}
}

// docProjection 对账用的本地文档投影.
type docProjection struct {
	ID   uint
	Hash string
	Name string
	Tags string
}

// Sync 执行一次同步对账.
//
// 不变量：对每个与现有文档字节相同的远程文件，对账必须更新该文档，
// 绝不创建第二条记录.远程副本视为展示元数据（名称、类型、标签、大小、
// 引用）的权威来源.
//
// 空的远程列表产生零创建零更新，不是错误；单个文件下载失败已在网关层
// 跳过，部分同步是预期行为.
func (s *SyncService) Sync(ctx context.Context, req *types.SyncRequest) (*types.SyncResult, error) {
	owner, err := resolveOwner(ctx, s.dbClient, req.Owner)
	if err != nil {
		return nil, err
	}

	sess, err := connectGateway(ctx, s.gw, s.credentials, owner)
	if err != nil {
		return nil, err
	}

	files, err := s.gw.ListAllFiles(ctx, sess, req.FolderRef)
	if err != nil {
		return nil, fmt.Errorf("list remote files: %w", err)
	}

	byHash, err := s.loadProjection(ctx)
	if err != nil {
		return nil, err
	}

	result := &types.SyncResult{}

	for i := range files {
		file := &files[i]

		hash := fmt.Sprintf("%x", sha256.Sum256(file.Bytes))

		if known, ok := byHash[hash]; ok {
			doc, err := s.applyUpdate(ctx, known.ID, file, owner)
			if err != nil {
				nlog.Logger().Warn().Err(err).Str("ref", file.Ref).Msg("sync update failed, file skipped")

				result.Skipped++

				continue
			}

			result.Updated++
			result.UpdatedDocs = append(result.UpdatedDocs, *doc)

			continue
		}

		doc, err := s.createFromRemote(ctx, hash, file, owner)
		if err != nil {
			nlog.Logger().Warn().Err(err).Str("ref", file.Ref).Msg("sync create failed, file skipped")

			result.Skipped++

			continue
		}

		// 同一批次内字节相同的后续文件按更新处理
		byHash[hash] = docProjection{ID: doc.ID, Hash: hash, Name: doc.Name, Tags: doc.Tags}

		result.Created++
		result.CreatedDocs = append(result.CreatedDocs, *doc)
	}

	nlog.Logger().Info().
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Msg("sync complete")

	return result, nil
}

// loadProjection 加载全部本地文档的 {id, hash, name, tags} 投影并按哈希索引.
func (s *SyncService) loadProjection(ctx context.Context) (map[string]docProjection, error) {
	var docs []docProjection

	if err := s.dbClient.GetDB().WithContext(ctx).
		Model(&model.Document{}).
		Select("id", "hash", "name", "tags").
		Where("hash <> ''").
		Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("load local documents: %w", err)
	}

	byHash := make(map[string]docProjection, len(docs))
	for _, d := range docs {
		byHash[d.Hash] = d
	}

	return byHash, nil
}

// applyUpdate 哈希命中：远程副本作为展示元数据权威，更新名称、类型、
// 合并标签、大小与远程引用.
func (s *SyncService) applyUpdate(ctx context.Context, id uint,
	file *s3.RemoteFile, owner *model.User,
) (*model.Document, error) {
	var doc model.Document
	if err := s.dbClient.GetDB().WithContext(ctx).First(&doc, id).Error; err != nil {
		return nil, fmt.Errorf("load document %d: %w", id, err)
	}

	docType := DetectDocType(file.Name, file.ContentType)

	doc.Name = file.Name
	doc.Type = docType
	doc.Size = file.Size
	doc.RemoteRef = file.Ref
	doc.MergeTags([]string{typeTag(docType), "synced"})

	if err := s.dbClient.GetDB().WithContext(ctx).Save(&doc).Error; err != nil {
		return nil, fmt.Errorf("update document %d: %w", id, err)
	}

	s.activity.Record(ctx, model.ActionDocumentSync, model.EntityDocument,
		uintPtr(doc.ID), uintPtr(owner.ID),
		fmt.Sprintf("document %q updated from remote %s", doc.Name, file.Ref))

	return &doc, nil
}

// createFromRemote 哈希未命中：以默认属主创建新文档记录.
func (s *SyncService) createFromRemote(ctx context.Context, hash string,
	file *s3.RemoteFile, owner *model.User,
) (*model.Document, error) {
	docType := DetectDocType(file.Name, file.ContentType)

	doc := model.Document{
		Name:      file.Name,
		Type:      docType,
		Size:      file.Size,
		Hash:      hash,
		RemoteRef: file.Ref,
		OwnerID:   owner.ID,
	}
	doc.MergeTags([]string{typeTag(docType), "synced"})

	if err := s.dbClient.GetDB().WithContext(ctx).Create(&doc).Error; err != nil {
		return nil, fmt.Errorf("create document for %s: %w", file.Ref, err)
	}

	s.activity.Record(ctx, model.ActionDocumentSync, model.EntityDocument,
		uintPtr(doc.ID), uintPtr(owner.ID),
		fmt.Sprintf("document %q created from remote %s", doc.Name, file.Ref))

	return &doc, nil
}
