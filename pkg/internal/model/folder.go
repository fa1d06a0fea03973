package model

import (
	"time"
)

// Folder 文件夹模型，树形结构，重新挂载前做祖先检查防止成环.
type Folder struct {
	ID      uint   `gorm:"primaryKey"     json:"id"`
	Name    string `gorm:"size:255;index" json:"name"`
	OwnerID uint   `gorm:"index"          json:"owner_id"`
	// ParentID 为空表示根文件夹
	ParentID *uint `gorm:"index" json:"parent_id,omitempty"`
	// RemoteRef 远程文件夹标记对象键，可为空
	RemoteRef string `gorm:"size:1024" json:"remote_ref,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
