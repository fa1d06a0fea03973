// Package s3 实现远程存储网关：按凭据建立并缓存会话，
// 提供上传、下载、删除、列举与文件夹操作.
package s3

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yeisme/docvault/pkg/configs"
	nlog "github.com/yeisme/docvault/pkg/log"
)

// Credentials 一组远程存储凭据；Email/Password 映射为 S3 的
// access key / secret key. UserID 为 0 表示进程级默认凭据.
type Credentials struct {
	UserID   uint
	Email    string
	Password string
}

// Session 一个已建立的远程存储会话.
type Session struct {
	cli    *minio.Client
	bucket string
}

// Gateway 远程存储网关，按凭据身份缓存会话.
// 缓存只为避免同一次 CLI 运行内重复建连，无跨进程语义.
type Gateway struct {
	cfg *configs.StorageConfig

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewGateway 创建网关实例.
func NewGateway(cfg *configs.StorageConfig) *Gateway {
	return &Gateway{
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// cacheKey 计算凭据身份的缓存键：有用户 id 用 id，
// 默认凭据用 endpoint+email 的 xxhash 避免把明文留在 map 键里.
func (g *Gateway) cacheKey(creds *Credentials) string {
	if creds.UserID != 0 {
		return "u" + strconv.FormatUint(uint64(creds.UserID), 10)
	}

	return "d" + strconv.FormatUint(xxhash.Sum64String(g.cfg.Endpoint+"|"+creds.Email), 16)
}

// DefaultCredentials 返回进程级默认凭据，未配置时返回 nil.
func (g *Gateway) DefaultCredentials() *Credentials {
	if !g.cfg.HasDefaultCredentials() {
		return nil
	}

	return &Credentials{
		Email:    g.cfg.DefaultEmail,
		Password: g.cfg.DefaultPassword,
	}
}

// Connect 建立（或复用缓存的）会话.同一身份的并发调用在锁内完成
// 查找与填充，第一个调用者建连，后来者复用.
func (g *Gateway) Connect(ctx context.Context, creds *Credentials) (*Session, error) {
	if creds == nil || creds.Email == "" || creds.Password == "" {
		return nil, ErrCredentialsMissing
	}

	key := g.cacheKey(creds)

	g.mu.Lock()
	defer g.mu.Unlock()

	if sess, ok := g.sessions[key]; ok {
		return sess, nil
	}

	sess, err := g.open(ctx, creds)
	if err != nil {
		return nil, err
	}

	g.sessions[key] = sess

	return sess, nil
}

// open 实际建立会话并确保 bucket 可用.
func (g *Gateway) open(ctx context.Context, creds *Credentials) (*Session, error) {
	endpoint := g.cfg.Endpoint
	useSSL := g.cfg.UseSSL

	// 允许配置完整 schema endpoint（http:// 或 https://）
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		if u.Scheme == "https" {
			useSSL = true
		}
	}

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(creds.Email, creds.Password, ""),
		Secure: useSSL,
		Region: g.cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create client: %v", ErrConnectionFailed, err)
	}

	cli.SetAppInfo("docvault", "")

	bucket := g.cfg.BucketName

	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("%w: check bucket %s: %v", ErrConnectionFailed, bucket, err)
	}

	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: g.cfg.Region}); err != nil {
			return nil, fmt.Errorf("%w: create bucket %s: %v", ErrConnectionFailed, bucket, err)
		}

		nlog.Logger().Info().Str("bucket", bucket).Msg("bucket created")
	}

	nlog.Logger().Debug().Str("endpoint", g.cfg.Endpoint).Str("bucket", bucket).Msg("storage session opened")

	return &Session{cli: cli, bucket: bucket}, nil
}

// Bucket 返回会话绑定的 bucket 名称.
func (s *Session) Bucket() string {
	return s.bucket
}
