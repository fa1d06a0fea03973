package service

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/storage/db"
	"github.com/yeisme/docvault/pkg/internal/types"
)

// ErrEmailTaken 邮箱已被占用.
var ErrEmailTaken = errors.New("email already registered")

// UserService 用户服务.
type UserService struct {
	dbClient *db.Client
	activity *ActivityService
}

// NewUserService 创建用户服务.
func NewUserService(dbClient *db.Client, activity *ActivityService) *UserService {
	return &UserService{dbClient: dbClient, activity: activity}
}

// Create 创建用户.
func (s *UserService) Create(ctx context.Context, req *types.CreateUserRequest) (*model.User, error) {
	dbx := s.dbClient.GetDB().WithContext(ctx)

	var count int64
	if err := dbx.Model(&model.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}

	if count > 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmailTaken, req.Email)
	}

	user := model.User{
		UID:          uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashPassword(req.Password),
	}

	if err := dbx.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.activity.Record(ctx, model.ActionUserCreate, model.EntityUser,
		uintPtr(user.ID), uintPtr(user.ID),
		fmt.Sprintf("user %q", user.Email))

	return &user, nil
}

// Get 按 id 或 email 查询用户.
func (s *UserService) Get(ctx context.Context, ownerRef string) (*model.User, error) {
	return resolveOwner(ctx, s.dbClient, ownerRef)
}

// List 列出全部用户.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.dbClient.GetDB().WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

// Update 更新用户，零值字段不变.
func (s *UserService) Update(ctx context.Context, req *types.UpdateUserRequest) (*model.User, error) {
	user, err := resolveOwner(ctx, s.dbClient, req.Owner)
	if err != nil {
		return nil, err
	}

	dbx := s.dbClient.GetDB().WithContext(ctx)

	if req.Email != "" && req.Email != user.Email {
		var count int64
		if err := dbx.Model(&model.User{}).Where("email = ? AND id <> ?", req.Email, user.ID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}

		if count > 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmailTaken, req.Email)
		}

		user.Email = req.Email
	}

	if req.Name != "" {
		user.Name = req.Name
	}

	if err := dbx.Save(user).Error; err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.activity.Record(ctx, model.ActionUserUpdate, model.EntityUser,
		uintPtr(user.ID), uintPtr(user.ID),
		fmt.Sprintf("user %q", user.Email))

	return user, nil
}

// Delete 删除用户.审计在物理删除前写入，避免级联外键失败时丢失痕迹；
// 名下文档、文件夹与凭据由外键级联删除.
func (s *UserService) Delete(ctx context.Context, ownerRef string) error {
	user, err := resolveOwner(ctx, s.dbClient, ownerRef)
	if err != nil {
		return err
	}

	s.activity.Record(ctx, model.ActionUserDelete, model.EntityUser,
		uintPtr(user.ID), uintPtr(user.ID),
		fmt.Sprintf("user %q", user.Email))

	dbx := s.dbClient.GetDB().WithContext(ctx)

	// SQLite 默认不执行级联，显式清理属主数据
	if err := dbx.Where("owner_id = ?", user.ID).Delete(&model.Document{}).Error; err != nil {
		return fmt.Errorf("delete user documents: %w", err)
	}

	if err := dbx.Where("owner_id = ?", user.ID).Delete(&model.Folder{}).Error; err != nil {
		return fmt.Errorf("delete user folders: %w", err)
	}

	if err := dbx.Where("user_id = ?", user.ID).Delete(&model.Credential{}).Error; err != nil {
		return fmt.Errorf("delete user credential: %w", err)
	}

	if err := dbx.Delete(&model.User{}, user.ID).Error; err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	return nil
}

// hashPassword 口令指纹（域前缀加盐 SHA-256）；仅存储，不做登录校验.
func hashPassword(password string) string {
	sum := sha256.Sum256([]byte("docvault:" + password))
	return fmt.Sprintf("%x", sum)
}
