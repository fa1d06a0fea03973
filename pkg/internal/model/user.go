// Package model 定义数据库模型.
package model

import (
	"time"
)

// User 用户模型，文档、文件夹与凭据的属主.
type User struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// UID 对外暴露的稳定标识
	UID          string `gorm:"size:36;uniqueIndex"  json:"uid"`
	Name         string `gorm:"size:255"             json:"name"`
	Email        string `gorm:"size:255;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"size:255"             json:"-"`

	// 删除用户时级联删除其文档、文件夹与凭据
	Documents  []Document  `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"  json:"-"`
	Folders    []Folder    `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"  json:"-"`
	Credential *Credential `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"   json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
