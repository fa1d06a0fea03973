// Package types 定义 CLI 与 service 层之间的请求/响应结构.
package types

// CreateUserRequest 创建用户请求.
type CreateUserRequest struct {
	Name     string `mapstructure:"name"     rule:"required"       json:"name"`
	Email    string `mapstructure:"email"    rule:"required,email" json:"email"`
	Password string `mapstructure:"password" rule:"required,min=6" json:"password"`
}

// UpdateUserRequest 更新用户请求，零值字段不修改.
type UpdateUserRequest struct {
	Owner string `mapstructure:"owner" rule:"required" json:"owner"` // id 或 email
	Name  string `mapstructure:"name"  json:"name,omitempty"`
	Email string `mapstructure:"email" rule:"omitempty,email" json:"email,omitempty"`
}

// DeleteUserRequest 删除用户请求.
type DeleteUserRequest struct {
	Owner string `mapstructure:"owner" rule:"required" json:"owner"`
}

// GetUserRequest 查询用户请求.
type GetUserRequest struct {
	Owner string `mapstructure:"owner" rule:"required" json:"owner"`
}
