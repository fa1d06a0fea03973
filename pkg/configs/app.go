package configs

import (
	"github.com/spf13/viper"
)

const (
	DefaultReloadConfig = false // 是否启用配置热重载，短生命周期 CLI 默认关闭
	DefaultDebug        = false // 是否启用调试模式
)

type (
	// CLIConfig 应用级配置.
	CLIConfig struct {
		ReloadConfig bool `mapstructure:"reload_config"`
		Debug        bool `mapstructure:"debug"`
	}
)

// setDefaults 设置应用配置的默认值.
func (c *CLIConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("app.reload_config", DefaultReloadConfig)
	v.SetDefault("app.debug", DefaultDebug)
}
