package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/secret"
	"github.com/yeisme/docvault/pkg/internal/storage/db"
	"github.com/yeisme/docvault/pkg/internal/types"
	nlog "github.com/yeisme/docvault/pkg/log"
)

// ErrCryptoKeyMissing 未配置凭据加密密钥.
var ErrCryptoKeyMissing = errors.New("credential encryption key not configured")

// CredentialService 远程存储凭据服务.email/password 各自独立加密落库，
// 密码只写不读.
type CredentialService struct {
	dbClient *db.Client
	activity *ActivityService
	key      []byte
}

// NewCredentialService 创建凭据服务.
func NewCredentialService(dbClient *db.Client, activity *ActivityService, key []byte) *CredentialService {
	return &CredentialService{dbClient: dbClient, activity: activity, key: key}
}

// Upsert 写入或更新用户凭据，返回展示信息（仅明文 email）.
func (s *CredentialService) Upsert(ctx context.Context, req *types.UpsertCredentialRequest) (*types.CredentialInfo, error) {
	if len(s.key) == 0 {
		return nil, ErrCryptoKeyMissing
	}

	owner, err := resolveOwner(ctx, s.dbClient, req.Owner)
	if err != nil {
		return nil, err
	}

	emailCipher, err := secret.EncryptString(s.key, req.Email)
	if err != nil {
		return nil, fmt.Errorf("encrypt email: %w", err)
	}

	passwordCipher, err := secret.EncryptString(s.key, req.Password)
	if err != nil {
		return nil, fmt.Errorf("encrypt password: %w", err)
	}

	dbx := s.dbClient.GetDB().WithContext(ctx)

	var cred model.Credential

	err = dbx.Where("user_id = ?", owner.ID).First(&cred).Error

	switch {
	case err == nil:
		cred.EmailCipher = emailCipher
		cred.PasswordCipher = passwordCipher
		cred.Active = req.Active

		if err := dbx.Save(&cred).Error; err != nil {
			return nil, fmt.Errorf("update credential: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		cred = model.Credential{
			UserID:         owner.ID,
			EmailCipher:    emailCipher,
			PasswordCipher: passwordCipher,
			Active:         req.Active,
		}

		if err := dbx.Create(&cred).Error; err != nil {
			return nil, fmt.Errorf("create credential: %w", err)
		}
	default:
		return nil, fmt.Errorf("lookup credential: %w", err)
	}

	s.activity.Record(ctx, model.ActionCredentialUpsert, model.EntityCredential,
		uintPtr(cred.ID), uintPtr(owner.ID),
		fmt.Sprintf("credential for user %q", owner.Email))

	return &types.CredentialInfo{
		UserID:    owner.ID,
		Email:     req.Email,
		Active:    cred.Active,
		UpdatedAt: cred.UpdatedAt,
	}, nil
}

// Get 返回凭据展示信息；无记录时返回 nil, nil.
// 解密失败视为记录损坏：记日志并返回 nil，不让单条坏记录破坏列表流程.
func (s *CredentialService) Get(ctx context.Context, ownerRef string) (*types.CredentialInfo, error) {
	owner, err := resolveOwner(ctx, s.dbClient, ownerRef)
	if err != nil {
		return nil, err
	}

	cred, err := s.find(ctx, owner.ID)
	if err != nil || cred == nil {
		return nil, err
	}

	if len(s.key) == 0 {
		return nil, ErrCryptoKeyMissing
	}

	email, err := secret.DecryptString(s.key, cred.EmailCipher)
	if err != nil {
		nlog.Logger().Warn().Err(err).Uint("user_id", owner.ID).Msg("credential record undecryptable, treating as absent")

		return nil, nil
	}

	return &types.CredentialInfo{
		UserID:    owner.ID,
		Email:     email,
		Active:    cred.Active,
		UpdatedAt: cred.UpdatedAt,
	}, nil
}

// CredentialsForUse 网关内部使用：返回明文凭据；
// 无记录、未激活、密钥缺失或解密失败都返回 nil（调用方回退默认凭据）.
func (s *CredentialService) CredentialsForUse(ctx context.Context, userID uint) *types.PlainCredentials {
	if len(s.key) == 0 {
		return nil
	}

	cred, err := s.find(ctx, userID)
	if err != nil || cred == nil || !cred.Active {
		return nil
	}

	email, err := secret.DecryptString(s.key, cred.EmailCipher)
	if err != nil {
		nlog.Logger().Warn().Err(err).Uint("user_id", userID).Msg("credential email undecryptable")

		return nil
	}

	password, err := secret.DecryptString(s.key, cred.PasswordCipher)
	if err != nil {
		nlog.Logger().Warn().Err(err).Uint("user_id", userID).Msg("credential password undecryptable")

		return nil
	}

	return &types.PlainCredentials{Email: email, Password: password}
}

// ToggleActive 切换激活状态.
func (s *CredentialService) ToggleActive(ctx context.Context, ownerRef string) (bool, error) {
	owner, err := resolveOwner(ctx, s.dbClient, ownerRef)
	if err != nil {
		return false, err
	}

	cred, err := s.find(ctx, owner.ID)
	if err != nil {
		return false, err
	}

	if cred == nil {
		return false, fmt.Errorf("%w: credential for user %d", ErrNotFound, owner.ID)
	}

	cred.Active = !cred.Active

	if err := s.dbClient.GetDB().WithContext(ctx).Save(cred).Error; err != nil {
		return false, fmt.Errorf("toggle credential: %w", err)
	}

	s.activity.Record(ctx, model.ActionCredentialToggle, model.EntityCredential,
		uintPtr(cred.ID), uintPtr(owner.ID),
		fmt.Sprintf("credential for user %q active=%t", owner.Email, cred.Active))

	return cred.Active, nil
}

// Delete 删除凭据记录.
func (s *CredentialService) Delete(ctx context.Context, ownerRef string) error {
	owner, err := resolveOwner(ctx, s.dbClient, ownerRef)
	if err != nil {
		return err
	}

	cred, err := s.find(ctx, owner.ID)
	if err != nil {
		return err
	}

	if cred == nil {
		return fmt.Errorf("%w: credential for user %d", ErrNotFound, owner.ID)
	}

	s.activity.Record(ctx, model.ActionCredentialDelete, model.EntityCredential,
		uintPtr(cred.ID), uintPtr(owner.ID),
		fmt.Sprintf("credential for user %q", owner.Email))

	if err := s.dbClient.GetDB().WithContext(ctx).Delete(cred).Error; err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}

	return nil
}

// find 查询用户的凭据记录，无记录返回 nil, nil.
func (s *CredentialService) find(ctx context.Context, userID uint) (*model.Credential, error) {
	var cred model.Credential

	err := s.dbClient.GetDB().WithContext(ctx).Where("user_id = ?", userID).First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("lookup credential: %w", err)
	}

	return &cred, nil
}
