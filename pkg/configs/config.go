// Package configs 管理应用程序配置，包括数据库、对象存储、凭据加密和日志的配置信息.
// configs 包支持多种配置格式（YAML、JSON、TOML、dotenv）并启用热重载.
//
// Example:
//
//	import "path/to/configs"
//
//	err := configs.InitConfig("./")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	config := configs.GetConfig()
//	fmt.Println(config.DB.GetDSN())
//
// Example accessing Storage config:
//
//	config := configs.GetConfig()
//	storageConfig := config.Storage
//	endpoint := storageConfig.GetEndpointURL()
//	fmt.Println("Storage Endpoint:", endpoint)
package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type (
	// AppConfig 全局应用程序配置.
	AppConfig struct {
		DB      DBConfig      `mapstructure:"db"`      // DBConfig 数据库配置
		Storage StorageConfig `mapstructure:"storage"` // StorageConfig 对象存储配置
		Crypto  CryptoConfig  `mapstructure:"crypto"`  // CryptoConfig 凭据加密配置
		App     CLIConfig     `mapstructure:"app"`     // CLIConfig 其它应用配置，调试模式、热重载等
		Log     LogConfig     `mapstructure:"log"`     // LogConfig 日志相关配置
	}
)

var (
	// globalConfig 全局配置实例.
	globalConfig AppConfig
	// appViper 全局 Viper 实例.
	appViper *viper.Viper
)

// InitConfig 加载应用程序配置，支持多种格式(yaml、json、toml、dotenv)并启用热重载.
// 配置文件缺失不是错误：CLI 可以完全依靠默认值和环境变量运行.
func InitConfig(path string) error {
	appViper = viper.New()
	// 设置默认值
	setAllDefaults(appViper)

	if path == "" {
		path = "."
	}

	// 检查path是否是文件
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		// 是文件，使用SetConfigFile，Viper会自动检测类型
		appViper.SetConfigFile(path)
	} else {
		// 是目录，设置配置名和路径
		appViper.SetConfigName("config")
		appViper.AddConfigPath(path)
		appViper.AddConfigPath(path + "/configs")

		exts := []string{"yaml", "yml", "json", "toml", "env", "dotenv"}

		for _, ext := range exts {
			cfg := filepath.Join(path, "config."+ext)
			if _, err := os.Stat(cfg); err == nil {
				appViper.SetConfigFile(cfg)

				break
			}
		}
	}

	appViper.AutomaticEnv()
	appViper.SetEnvPrefix("DOCVAULT")

	// 远程存储默认凭据与加密密钥使用固定环境变量名
	bindEnvs(appViper)

	// 读取配置，文件不存在时继续使用默认值与环境变量
	if err := appViper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && appViper.ConfigFileUsed() != "" {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	// 解析到全局配置
	if err := appViper.Unmarshal(&globalConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	reloadConfigs(appViper, globalConfig.App.ReloadConfig)

	return nil
}

// setAllDefaults 设置所有配置的默认值.
func setAllDefaults(v *viper.Viper) {
	var appConfig CLIConfig

	var dbConfig DBConfig

	var storageConfig StorageConfig

	var cryptoConfig CryptoConfig

	var logConfig LogConfig

	appConfig.setDefaults(v)
	dbConfig.setDefaults(v)
	storageConfig.setDefaults(v)
	cryptoConfig.setDefaults(v)
	logConfig.setDefaults(v)
}

// bindEnvs 绑定不带 DOCVAULT 前缀的环境变量.
func bindEnvs(v *viper.Viper) {
	_ = v.BindEnv("storage.default_email", "STORAGE_EMAIL")
	_ = v.BindEnv("storage.default_password", "STORAGE_PASSWORD")
	_ = v.BindEnv("crypto.secret_key", "DOCVAULT_CRYPTO_SECRET")
}

func reloadConfigs(v *viper.Viper, isHotReload bool) {
	if !isHotReload {
		return
	}
	// 启用配置热重载
	v.OnConfigChange(func(e fsnotify.Event) {
		fmt.Println("Config file changed:", e.Name)
		fmt.Println("Reloading configuration...")

		if err := v.Unmarshal(&globalConfig); err != nil {
			fmt.Printf("Error reloading config: %v\n", err)
		}
	})
	v.WatchConfig()
}

// GetConfig 返回全局配置实例.
func GetConfig() *AppConfig {
	return &globalConfig
}

func GetViper() *viper.Viper {
	return appViper
}
