package types

// CreateFolderRequest 创建文件夹请求.
type CreateFolderRequest struct {
	Owner    string `mapstructure:"owner"     rule:"required" json:"owner"`
	Name     string `mapstructure:"name"      rule:"required" json:"name"`
	ParentID *uint  `mapstructure:"parent_id" json:"parent_id,omitempty"`
	// Remote 为 true 时同时在远程存储创建文件夹标记对象
	Remote bool `mapstructure:"remote" json:"remote,omitempty"`
}

// RenameFolderRequest 重命名文件夹请求.
type RenameFolderRequest struct {
	ID      uint   `mapstructure:"id"       rule:"required" json:"id"`
	NewName string `mapstructure:"new_name" rule:"required" json:"new_name"`
}

// MoveFolderRequest 移动文件夹请求；NewParentID 为空表示移动到根.
type MoveFolderRequest struct {
	ID          uint  `mapstructure:"id"            rule:"required" json:"id"`
	NewParentID *uint `mapstructure:"new_parent_id" json:"new_parent_id,omitempty"`
}

// DeleteFolderRequest 删除文件夹请求.
type DeleteFolderRequest struct {
	ID uint `mapstructure:"id" rule:"required" json:"id"`
}

// ListFoldersRequest 列出文件夹请求.
type ListFoldersRequest struct {
	Owner string `mapstructure:"owner" rule:"required" json:"owner"`
}
