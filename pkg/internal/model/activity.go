package model

import (
	"time"
)

// 审计动作常量.
const (
	ActionUserCreate       = "USER_CREATE"
	ActionUserUpdate       = "USER_UPDATE"
	ActionUserDelete       = "USER_DELETE"
	ActionDocumentCreate   = "DOCUMENT_CREATE"
	ActionDocumentUpdate   = "DOCUMENT_UPDATE"
	ActionDocumentDelete   = "DOCUMENT_DELETE"
	ActionDocumentFavorite = "DOCUMENT_FAVORITE"
	ActionDocumentSync     = "DOCUMENT_SYNC"
	ActionFolderCreate     = "FOLDER_CREATE"
	ActionFolderUpdate     = "FOLDER_UPDATE"
	ActionFolderDelete     = "FOLDER_DELETE"
	ActionCredentialUpsert = "CREDENTIAL_UPSERT"
	ActionCredentialToggle = "CREDENTIAL_TOGGLE"
	ActionCredentialDelete = "CREDENTIAL_DELETE"
)

// 审计实体类型常量.
const (
	EntityUser       = "user"
	EntityDocument   = "document"
	EntityFolder     = "folder"
	EntityCredential = "credential"
)

// ActivityLog 审计日志，只追加，从不更新.
// EntityID/ActorID 是弱引用：被引用实体删除后条目保留（悬挂引用），
// 具体名称写进 Detail 的自由文本里以保全审计历史.
type ActivityLog struct {
	ID         string `gorm:"primaryKey;size:26" json:"id"` // ULID
	Action     string `gorm:"size:64;index"      json:"action"`
	EntityType string `gorm:"size:32;index"      json:"entity_type"`
	EntityID   *uint  `gorm:"index"              json:"entity_id,omitempty"`
	ActorID    *uint  `gorm:"index"              json:"actor_id,omitempty"`
	Detail     string `gorm:"type:text"          json:"detail"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
