package types

import "github.com/yeisme/docvault/pkg/internal/model"

// SyncRequest 同步请求；FolderRef 为空表示整个账户范围.
type SyncRequest struct {
	Owner     string `mapstructure:"owner"      rule:"required" json:"owner"`
	FolderRef string `mapstructure:"folder_ref" json:"folder_ref,omitempty"`
}

// SyncResult 同步结果：按内容哈希对账后的新建/更新统计与记录.
type SyncResult struct {
	Created     int              `json:"created"`
	Updated     int              `json:"updated"`
	Skipped     int              `json:"skipped"`
	CreatedDocs []model.Document `json:"created_docs,omitempty"`
	UpdatedDocs []model.Document `json:"updated_docs,omitempty"`
}
