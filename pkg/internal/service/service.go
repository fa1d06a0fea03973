// Package service 实现业务逻辑：用户、文档、文件夹、凭据的 CRUD，
// 审计日志与基于内容哈希的远程同步对账.不处理 CLI 细节.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/storage/db"
	"github.com/yeisme/docvault/pkg/internal/storage/s3"
)

// 业务层错误分类.
var (
	// ErrOwnerNotFound 按 id 或 email 解析属主失败.
	ErrOwnerNotFound = errors.New("owner not found")
	// ErrNotFound 实体不存在.
	ErrNotFound = errors.New("entity not found")
	// ErrFolderCycle 文件夹移动会形成环.
	ErrFolderCycle = errors.New("folder move would create a cycle")
)

// Gateway 远程存储网关能力，service 层只依赖此接口，便于测试替换.
type Gateway interface {
	Connect(ctx context.Context, creds *s3.Credentials) (*s3.Session, error)
	DefaultCredentials() *s3.Credentials
	Upload(ctx context.Context, sess *s3.Session, name, contentType string,
		reader io.Reader, size int64, folderRef string) (string, error)
	Download(ctx context.Context, sess *s3.Session, ref string) ([]byte, error)
	Delete(ctx context.Context, sess *s3.Session, ref, scopeFolderRef string) error
	ListAllFiles(ctx context.Context, sess *s3.Session, folderRef string) ([]s3.RemoteFile, error)
	CreateFolder(ctx context.Context, sess *s3.Session, name, parentRef string) (string, error)
}

// Services 聚合全部业务服务，进程启动时装配一次，显式传递依赖.
type Services struct {
	Activity   *ActivityService
	Credential *CredentialService
	User       *UserService
	Document   *DocumentService
	Folder     *FolderService
	Sync       *SyncService
	Stats      *StatsService
}

// NewServices 装配业务服务.cryptoKey 是凭据存储的 AES 密钥，可为 nil
// （此时凭据存储不可用，网关只能走默认凭据）.
func NewServices(dbClient *db.Client, gw Gateway, cryptoKey []byte) *Services {
	activity := NewActivityService(dbClient)
	credential := NewCredentialService(dbClient, activity, cryptoKey)
	user := NewUserService(dbClient, activity)
	document := NewDocumentService(dbClient, gw, credential, activity)
	folder := NewFolderService(dbClient, gw, credential, activity)
	sync := NewSyncService(dbClient, gw, credential, activity)
	stats := NewStatsService(dbClient)

	return &Services{
		Activity:   activity,
		Credential: credential,
		User:       user,
		Document:   document,
		Folder:     folder,
		Sync:       sync,
		Stats:      stats,
	}
}

// resolveOwner 按 id 或 email 解析用户.
func resolveOwner(ctx context.Context, dbClient *db.Client, ref string) (*model.User, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: empty owner reference", ErrOwnerNotFound)
	}

	dbx := dbClient.GetDB().WithContext(ctx)

	var user model.User

	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		if err := dbx.First(&user, uint(id)).Error; err == nil {
			return &user, nil
		}
	}

	if err := dbx.Where("email = ?", ref).First(&user).Error; err != nil {
		return nil, fmt.Errorf("%w: %s", ErrOwnerNotFound, ref)
	}

	return &user, nil
}

// connectGateway 以属主身份建立远程存储会话：优先用户自己的凭据记录，
// 回退进程级默认凭据，两者皆无时由网关报 ErrCredentialsMissing.
func connectGateway(ctx context.Context, gw Gateway, credentials *CredentialService,
	owner *model.User,
) (*s3.Session, error) {
	var creds *s3.Credentials

	if plain := credentials.CredentialsForUse(ctx, owner.ID); plain != nil {
		creds = &s3.Credentials{UserID: owner.ID, Email: plain.Email, Password: plain.Password}
	} else {
		creds = gw.DefaultCredentials()
	}

	return gw.Connect(ctx, creds)
}

// uintPtr 返回 uint 的指针，审计条目的弱引用用.
func uintPtr(v uint) *uint {
	return &v
}
