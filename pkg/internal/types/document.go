package types

// CreateDocumentRequest 创建文档请求；FilePath 非空时上传文件字节到远程存储.
type CreateDocumentRequest struct {
	Owner       string   `mapstructure:"owner"       rule:"required" json:"owner"` // id 或 email
	Name        string   `mapstructure:"name"        rule:"required" json:"name"`
	FilePath    string   `mapstructure:"file"        json:"file,omitempty"`
	Description string   `mapstructure:"description" json:"description,omitempty"`
	Tags        []string `mapstructure:"tags"        json:"tags,omitempty"`
	FolderID    *uint    `mapstructure:"folder_id"   json:"folder_id,omitempty"`
}

// UpdateDocumentRequest 更新文档请求，零值字段不修改.
type UpdateDocumentRequest struct {
	ID          uint     `mapstructure:"id"          rule:"required" json:"id"`
	Name        string   `mapstructure:"name"        json:"name,omitempty"`
	Description string   `mapstructure:"description" json:"description,omitempty"`
	Tags        []string `mapstructure:"tags"        json:"tags,omitempty"`
	FolderID    *uint    `mapstructure:"folder_id"   json:"folder_id,omitempty"`
}

// DeleteDocumentRequest 删除文档请求.
type DeleteDocumentRequest struct {
	ID uint `mapstructure:"id" rule:"required" json:"id"`
	// ScopeFolderRef 限定远程删除的搜索范围，测试用
	ScopeFolderRef string `mapstructure:"scope_folder_ref" json:"scope_folder_ref,omitempty"`
}

// ListDocumentsRequest 列出文档请求.
type ListDocumentsRequest struct {
	Owner        string `mapstructure:"owner"         rule:"required" json:"owner"`
	FolderID     *uint  `mapstructure:"folder_id"     json:"folder_id,omitempty"`
	FavoriteOnly bool   `mapstructure:"favorite_only" json:"favorite_only,omitempty"`
	Limit        int    `mapstructure:"limit"         rule:"min=0" json:"limit,omitempty"`
}

// ToggleFavoriteRequest 切换收藏标记请求.
type ToggleFavoriteRequest struct {
	ID uint `mapstructure:"id" rule:"required" json:"id"`
}
