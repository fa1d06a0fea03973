package configs

import (
	"fmt"

	"github.com/spf13/viper"
)

// StorageConfig 远程对象存储（S3/MinIO）配置.
// DefaultEmail/DefaultPassword 是进程级默认凭据（映射到 S3 的 access key /
// secret key），当用户没有配置自己的凭据记录时网关回退使用它们.
type StorageConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	DefaultEmail    string `mapstructure:"default_email"`
	DefaultPassword string `mapstructure:"default_password" json:"-"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
	Region          string `mapstructure:"region"`
}

const (
	DefaultStorageEndpoint = "localhost:9000" // 默认S3端点
	DefaultStorageUseSSL   = false            // 默认是否使用SSL
	DefaultStorageBucket   = "docvault"       // 默认存储桶名称
	DefaultStorageRegion   = "us-east-1"      // 默认区域
)

// GetEndpointURL 获取完整的端点URL.
func (c *StorageConfig) GetEndpointURL() string {
	scheme := "http"
	if c.UseSSL {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s", scheme, c.Endpoint)
}

// HasDefaultCredentials 是否配置了进程级默认凭据.
func (c *StorageConfig) HasDefaultCredentials() bool {
	return c.DefaultEmail != "" && c.DefaultPassword != ""
}

// setDefaults 设置对象存储配置的默认值.
// 默认凭据没有缺省值：缺失时网关报 ErrCredentialsMissing.
func (c *StorageConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("storage.endpoint", DefaultStorageEndpoint)
	v.SetDefault("storage.use_ssl", DefaultStorageUseSSL)
	v.SetDefault("storage.bucket_name", DefaultStorageBucket)
	v.SetDefault("storage.region", DefaultStorageRegion)
}
