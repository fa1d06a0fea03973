package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"

	"gorm.io/gorm"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/storage/db"
	"github.com/yeisme/docvault/pkg/internal/types"
	nlog "github.com/yeisme/docvault/pkg/log"
)

// DocumentService 文档元数据服务：薄薄一层校验 + 持久化 + 审计，
// 文件字节交给远程存储网关.
type DocumentService struct {
	dbClient    *db.Client
	gw          Gateway
	credentials *CredentialService
	activity    *ActivityService
}

// NewDocumentService 创建文档服务.
func NewDocumentService(dbClient *db.Client, gw Gateway,
	credentials *CredentialService, activity *ActivityService,
) *DocumentService {
	return &DocumentService{
		dbClient:    dbClient,
		gw:          gw,
		credentials: credentials,
		activity:    activity,
	}
}

// Create 创建文档.payload 非 nil 时上传字节到远程存储并记录大小与哈希.
func (s *DocumentService) Create(ctx context.Context, req *types.CreateDocumentRequest,
	payload io.Reader,
) (*model.Document, error) {
	owner, err := resolveOwner(ctx, s.dbClient, req.Owner)
	if err != nil {
		return nil, err
	}

	doc := model.Document{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     owner.ID,
		FolderID:    req.FolderID,
		Type:        DetectDocType(req.Name, ""),
	}
	doc.MergeTags(req.Tags)

	if payload != nil {
		data, err := io.ReadAll(payload)
		if err != nil {
			return nil, fmt.Errorf("read payload: %w", err)
		}

		contentType := mime.TypeByExtension(path.Ext(req.Name))

		sess, err := connectGateway(ctx, s.gw, s.credentials, owner)
		if err != nil {
			return nil, err
		}

		ref, err := s.gw.Upload(ctx, sess, req.Name, contentType, bytes.NewReader(data), int64(len(data)), "")
		if err != nil {
			return nil, err
		}

		doc.RemoteRef = ref
		doc.Size = int64(len(data))
		doc.Hash = fmt.Sprintf("%x", sha256.Sum256(data))
		doc.Type = DetectDocType(req.Name, contentType)
	}

	if err := s.dbClient.GetDB().WithContext(ctx).Create(&doc).Error; err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	s.activity.Record(ctx, model.ActionDocumentCreate, model.EntityDocument,
		uintPtr(doc.ID), uintPtr(owner.ID),
		fmt.Sprintf("document %q", doc.Name))

	return &doc, nil
}

// Get 按 id 查询文档.
func (s *DocumentService) Get(ctx context.Context, id uint) (*model.Document, error) {
	var doc model.Document

	err := s.dbClient.GetDB().WithContext(ctx).First(&doc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: document %d", ErrNotFound, id)
	}

	if err != nil {
		return nil, err
	}

	return &doc, nil
}

// List 列出属主的文档.
func (s *DocumentService) List(ctx context.Context, req *types.ListDocumentsRequest) ([]model.Document, error) {
	owner, err := resolveOwner(ctx, s.dbClient, req.Owner)
	if err != nil {
		return nil, err
	}

	dbx := s.dbClient.GetDB().WithContext(ctx).
		Model(&model.Document{}).
		Where("owner_id = ?", owner.ID)

	if req.FolderID != nil {
		dbx = dbx.Where("folder_id = ?", *req.FolderID)
	}

	if req.FavoriteOnly {
		dbx = dbx.Where("favorite = ?", true)
	}

	if req.Limit > 0 {
		dbx = dbx.Limit(req.Limit)
	}

	var docs []model.Document
	if err := dbx.Order("id").Find(&docs).Error; err != nil {
		return nil, err
	}

	return docs, nil
}

// Update 更新文档元数据，零值字段不变.
func (s *DocumentService) Update(ctx context.Context, req *types.UpdateDocumentRequest) (*model.Document, error) {
	doc, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		doc.Name = req.Name
		doc.Type = DetectDocType(req.Name, "")
	}

	if req.Description != "" {
		doc.Description = req.Description
	}

	if len(req.Tags) > 0 {
		doc.MergeTags(req.Tags)
	}

	if req.FolderID != nil {
		doc.FolderID = req.FolderID
	}

	if err := s.dbClient.GetDB().WithContext(ctx).Save(doc).Error; err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}

	s.activity.Record(ctx, model.ActionDocumentUpdate, model.EntityDocument,
		uintPtr(doc.ID), uintPtr(doc.OwnerID),
		fmt.Sprintf("document %q", doc.Name))

	return doc, nil
}

// Delete 删除文档.审计先于物理删除写入；远程对象删除尽力而为，
// 失败降级为警告，本地记录总是删除（文档化的不一致：宁可远端残留，
// 不让孤儿元数据阻塞用户侧删除）.
func (s *DocumentService) Delete(ctx context.Context, req *types.DeleteDocumentRequest) error {
	doc, err := s.Get(ctx, req.ID)
	if err != nil {
		return err
	}

	s.activity.Record(ctx, model.ActionDocumentDelete, model.EntityDocument,
		uintPtr(doc.ID), uintPtr(doc.OwnerID),
		fmt.Sprintf("document %q", doc.Name))

	if doc.RemoteRef != "" {
		s.deleteRemote(ctx, doc, req.ScopeFolderRef)
	}

	if err := s.dbClient.GetDB().WithContext(ctx).Delete(&model.Document{}, doc.ID).Error; err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	return nil
}

// deleteRemote 尽力删除远程对象，任何失败只记警告.
func (s *DocumentService) deleteRemote(ctx context.Context, doc *model.Document, scopeFolderRef string) {
	var owner model.User
	if err := s.dbClient.GetDB().WithContext(ctx).First(&owner, doc.OwnerID).Error; err != nil {
		nlog.Logger().Warn().Err(err).Uint("document_id", doc.ID).Msg("remote delete skipped, owner lookup failed")

		return
	}

	sess, err := connectGateway(ctx, s.gw, s.credentials, &owner)
	if err != nil {
		nlog.Logger().Warn().Err(err).Uint("document_id", doc.ID).Msg("remote delete skipped, no session")

		return
	}

	if err := s.gw.Delete(ctx, sess, doc.RemoteRef, scopeFolderRef); err != nil {
		nlog.Logger().Warn().Err(err).
			Uint("document_id", doc.ID).
			Str("remote_ref", doc.RemoteRef).
			Msg("remote delete failed, metadata removed anyway")
	}
}

// ToggleFavorite 切换收藏标记，返回新状态.
func (s *DocumentService) ToggleFavorite(ctx context.Context, id uint) (bool, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}

	doc.Favorite = !doc.Favorite

	if err := s.dbClient.GetDB().WithContext(ctx).Save(doc).Error; err != nil {
		return false, fmt.Errorf("toggle favorite: %w", err)
	}

	s.activity.Record(ctx, model.ActionDocumentFavorite, model.EntityDocument,
		uintPtr(doc.ID), uintPtr(doc.OwnerID),
		fmt.Sprintf("document %q favorite=%t", doc.Name, doc.Favorite))

	return doc.Favorite, nil
}

// Download 下载文档内容（带校验和验证）.
func (s *DocumentService) Download(ctx context.Context, id uint) ([]byte, *model.Document, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if doc.RemoteRef == "" {
		return nil, nil, fmt.Errorf("%w: document %d has no remote file", ErrNotFound, id)
	}

	var owner model.User
	if err := s.dbClient.GetDB().WithContext(ctx).First(&owner, doc.OwnerID).Error; err != nil {
		return nil, nil, fmt.Errorf("%w: %d", ErrOwnerNotFound, doc.OwnerID)
	}

	sess, err := connectGateway(ctx, s.gw, s.credentials, &owner)
	if err != nil {
		return nil, nil, err
	}

	data, err := s.gw.Download(ctx, sess, doc.RemoteRef)
	if err != nil {
		return nil, nil, err
	}

	return data, doc, nil
}
