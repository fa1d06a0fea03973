// Package storage 聚合存储资源：关系型元数据库与远程对象存储网关.
//
// Example:
//
// 初始化
//
//	 ctx := context.Background()
//	 mgr, err := storage.Init(ctx)
//
//		if err != nil {
//		    // 处理错误
//		}
//
// 获取存储客户端
//
//	gateway := mgr.GetGateway()
//	dbClient := mgr.GetDBClient()
package storage

import (
	"context"
	"sync"

	"github.com/yeisme/docvault/pkg/configs"
	dbc "github.com/yeisme/docvault/pkg/internal/storage/db"
	s3c "github.com/yeisme/docvault/pkg/internal/storage/s3"
	nlog "github.com/yeisme/docvault/pkg/log"
)

// Manager 聚合所有存储资源.
type Manager struct {
	S3 *s3c.Gateway
	DB *dbc.Client
}

var (
	mgr     *Manager
	mgrOnce sync.Once
)

// Init 初始化默认存储，使用全局配置.重复调用只返回已初始化实例.
// 网关此时只构造不建连，首次 Connect 才真正打开会话.
func Init(ctx context.Context) (*Manager, error) {
	var err error

	mgrOnce.Do(func() {
		cfg := configs.GetConfig()
		m := &Manager{}

		// DB
		if dbi, e := dbc.New(ctx, &cfg.DB); e != nil {
			err = e

			return
		} else {
			m.DB = dbi
		}

		// S3 gateway
		m.S3 = s3c.NewGateway(&cfg.Storage)

		mgr = m

		nlog.Logger().Debug().Msg("storage manager initialized")
	})

	return mgr, err
}

// GetGateway 获取远程存储网关.
func (m *Manager) GetGateway() *s3c.Gateway {
	return m.S3
}

// GetDBClient 获取 DB 客户端.
func (m *Manager) GetDBClient() *dbc.Client {
	return m.DB
}
