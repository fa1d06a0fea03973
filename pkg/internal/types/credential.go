package types

import "time"

// UpsertCredentialRequest 写入远程存储凭据请求.
type UpsertCredentialRequest struct {
	Owner    string `mapstructure:"owner"    rule:"required"       json:"owner"`
	Email    string `mapstructure:"email"    rule:"required"       json:"email"`
	Password string `mapstructure:"password" rule:"required"       json:"password"`
	Active   bool   `mapstructure:"active"   json:"active"`
}

// CredentialInfo 凭据展示信息；密码只写不读.
type CredentialInfo struct {
	UserID    uint      `json:"user_id"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlainCredentials 网关内部使用的明文凭据.
type PlainCredentials struct {
	Email    string `json:"-"`
	Password string `json:"-"`
}
