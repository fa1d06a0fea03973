package configs

import (
	"github.com/spf13/viper"
)

// CryptoConfig 凭据存储的对称加密配置.
// SecretKey 来自 DOCVAULT_CRYPTO_SECRET 环境变量或配置文件，
// 任意长度的口令经 SHA-256 派生为 AES-256 密钥.
type CryptoConfig struct {
	SecretKey string `mapstructure:"secret_key" json:"-"`
}

// HasSecret 是否配置了加密密钥.
func (c *CryptoConfig) HasSecret() bool {
	return c.SecretKey != ""
}

// setDefaults 加密密钥没有缺省值，必须显式配置.
func (c *CryptoConfig) setDefaults(_ *viper.Viper) {}
