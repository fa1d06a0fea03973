package types

// ListActivityRequest 查询审计日志请求，所有过滤条件可选.
type ListActivityRequest struct {
	Actor      string `mapstructure:"actor"       json:"actor,omitempty"` // id 或 email
	EntityType string `mapstructure:"entity_type" json:"entity_type,omitempty"`
	Action     string `mapstructure:"action"      json:"action,omitempty"`
	Limit      int    `mapstructure:"limit"       rule:"min=0" json:"limit,omitempty"`
}
