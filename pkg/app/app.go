// Package app 提供应用程序的初始化和装配.
package app

import (
	"context"
	"fmt"

	"github.com/yeisme/docvault/pkg/configs"
	"github.com/yeisme/docvault/pkg/internal/secret"
	"github.com/yeisme/docvault/pkg/internal/service"
	"github.com/yeisme/docvault/pkg/internal/storage"
	"github.com/yeisme/docvault/pkg/log"
)

// App CLI 运行时：配置、存储与装配好的业务服务.
type App struct {
	Services *service.Services
	Manager  *storage.Manager
	Config   *configs.AppConfig
}

// NewApp 初始化配置、日志与存储，装配业务服务.
// 凭据加密密钥从配置的口令派生，口令缺失时凭据存储不可用（网关回退默认凭据）.
func NewApp(ctx context.Context, configPath string) (*App, error) {
	if err := configs.InitConfig(configPath); err != nil {
		return nil, fmt.Errorf("init config: %w", err)
	}

	log.Init()

	manager, err := storage.Init(ctx)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	// 单机 CLI 每次启动保证 schema 就绪
	if err := manager.GetDBClient().Migrate(); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	cfg := configs.GetConfig()

	var cryptoKey []byte
	if cfg.Crypto.HasSecret() {
		cryptoKey = secret.DeriveKey(cfg.Crypto.SecretKey)
	}

	return &App{
		Services: service.NewServices(manager.GetDBClient(), manager.GetGateway(), cryptoKey),
		Manager:  manager,
		Config:   cfg,
	}, nil
}
