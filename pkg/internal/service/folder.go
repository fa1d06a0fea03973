package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/storage/db"
	"github.com/yeisme/docvault/pkg/internal/types"
	nlog "github.com/yeisme/docvault/pkg/log"
)

// FolderService 文件夹服务.树形结构，移动前做祖先检查防止成环.
type FolderService struct {
	dbClient    *db.Client
	gw          Gateway
	credentials *CredentialService
	activity    *ActivityService
}

// NewFolderService 创建文件夹服务.
func NewFolderService(dbClient *db.Client, gw Gateway,
	credentials *CredentialService, activity *ActivityService,
) *FolderService {
	return &FolderService{
		dbClient:    dbClient,
		gw:          gw,
		credentials: credentials,
		activity:    activity,
	}
}

// Create 创建文件夹；req.Remote 为 true 时同时创建远程标记对象（尽力而为）.
func (s *FolderService) Create(ctx context.Context, req *types.CreateFolderRequest) (*model.Folder, error) {
	owner, err := resolveOwner(ctx, s.dbClient, req.Owner)
	if err != nil {
		return nil, err
	}

	var parentRef string

	if req.ParentID != nil {
		parent, err := s.get(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}

		parentRef = parent.RemoteRef
	}

	folder := model.Folder{
		Name:     req.Name,
		OwnerID:  owner.ID,
		ParentID: req.ParentID,
	}

	if req.Remote {
		if sess, err := connectGateway(ctx, s.gw, s.credentials, owner); err != nil {
			nlog.Logger().Warn().Err(err).Str("folder", req.Name).Msg("remote folder skipped, no session")
		} else if ref, err := s.gw.CreateFolder(ctx, sess, req.Name, parentRef); err != nil {
			nlog.Logger().Warn().Err(err).Str("folder", req.Name).Msg("remote folder creation failed")
		} else {
			folder.RemoteRef = ref
		}
	}

	if err := s.dbClient.GetDB().WithContext(ctx).Create(&folder).Error; err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}

	s.activity.Record(ctx, model.ActionFolderCreate, model.EntityFolder,
		uintPtr(folder.ID), uintPtr(owner.ID),
		fmt.Sprintf("folder %q", folder.Name))

	return &folder, nil
}

// Get 按 id 查询文件夹.
func (s *FolderService) Get(ctx context.Context, id uint) (*model.Folder, error) {
	return s.get(ctx, id)
}

// List 列出属主的文件夹.
func (s *FolderService) List(ctx context.Context, req *types.ListFoldersRequest) ([]model.Folder, error) {
	owner, err := resolveOwner(ctx, s.dbClient, req.Owner)
	if err != nil {
		return nil, err
	}

	var folders []model.Folder
	if err := s.dbClient.GetDB().WithContext(ctx).
		Where("owner_id = ?", owner.ID).
		Order("id").
		Find(&folders).Error; err != nil {
		return nil, err
	}

	return folders, nil
}

// Rename 重命名文件夹.
func (s *FolderService) Rename(ctx context.Context, req *types.RenameFolderRequest) (*model.Folder, error) {
	folder, err := s.get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	old := folder.Name
	folder.Name = req.NewName

	if err := s.dbClient.GetDB().WithContext(ctx).Save(folder).Error; err != nil {
		return nil, fmt.Errorf("rename folder: %w", err)
	}

	s.activity.Record(ctx, model.ActionFolderUpdate, model.EntityFolder,
		uintPtr(folder.ID), uintPtr(folder.OwnerID),
		fmt.Sprintf("folder %q renamed to %q", old, folder.Name))

	return folder, nil
}

// Move 移动文件夹到新父节点.目标为子孙（或自身）时拒绝，防止成环.
func (s *FolderService) Move(ctx context.Context, req *types.MoveFolderRequest) (*model.Folder, error) {
	folder, err := s.get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.NewParentID != nil {
		if *req.NewParentID == folder.ID {
			return nil, ErrFolderCycle
		}

		parent, err := s.get(ctx, *req.NewParentID)
		if err != nil {
			return nil, err
		}

		// 祖先检查：沿父链向上走，撞到自己说明目标在子树里
		if err := s.checkAncestry(ctx, folder.ID, parent); err != nil {
			return nil, err
		}
	}

	folder.ParentID = req.NewParentID

	if err := s.dbClient.GetDB().WithContext(ctx).Save(folder).Error; err != nil {
		return nil, fmt.Errorf("move folder: %w", err)
	}

	s.activity.Record(ctx, model.ActionFolderUpdate, model.EntityFolder,
		uintPtr(folder.ID), uintPtr(folder.OwnerID),
		fmt.Sprintf("folder %q moved", folder.Name))

	return folder, nil
}

// Delete 删除文件夹；直接子文件夹提升为根，文档的 folder_id 置空.
func (s *FolderService) Delete(ctx context.Context, id uint) error {
	folder, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	s.activity.Record(ctx, model.ActionFolderDelete, model.EntityFolder,
		uintPtr(folder.ID), uintPtr(folder.OwnerID),
		fmt.Sprintf("folder %q", folder.Name))

	dbx := s.dbClient.GetDB().WithContext(ctx)

	if err := dbx.Model(&model.Folder{}).Where("parent_id = ?", folder.ID).Update("parent_id", nil).Error; err != nil {
		return fmt.Errorf("detach child folders: %w", err)
	}

	if err := dbx.Model(&model.Document{}).Where("folder_id = ?", folder.ID).Update("folder_id", nil).Error; err != nil {
		return fmt.Errorf("detach documents: %w", err)
	}

	if err := dbx.Delete(&model.Folder{}, folder.ID).Error; err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	return nil
}

// checkAncestry 检查 target 的祖先链上是否出现 folderID.
func (s *FolderService) checkAncestry(ctx context.Context, folderID uint, target *model.Folder) error {
	current := target

	for current.ParentID != nil {
		if *current.ParentID == folderID {
			return ErrFolderCycle
		}

		parent, err := s.get(ctx, *current.ParentID)
		if err != nil {
			return err
		}

		current = parent
	}

	return nil
}

func (s *FolderService) get(ctx context.Context, id uint) (*model.Folder, error) {
	var folder model.Folder

	err := s.dbClient.GetDB().WithContext(ctx).First(&folder, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: folder %d", ErrNotFound, id)
	}

	if err != nil {
		return nil, err
	}

	return &folder, nil
}
