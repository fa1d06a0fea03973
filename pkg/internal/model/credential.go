package model

import (
	"time"
)

// Credential 远程存储凭据，每个用户至多一条；明文不落库，
// EmailCipher/PasswordCipher 各自独立 AES-GCM 加密（随机 nonce + 认证标签）.
type Credential struct {
	ID             uint   `gorm:"primaryKey"        json:"id"`
	UserID         uint   `gorm:"uniqueIndex"       json:"user_id"`
	EmailCipher    string `gorm:"type:text"         json:"-"`
	PasswordCipher string `gorm:"type:text"         json:"-"`
	Active         bool   `gorm:"index"             json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
