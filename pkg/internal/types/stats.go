package types

// StatsSummary 实体总量统计.
type StatsSummary struct {
	Users      int64 `json:"users"`
	Documents  int64 `json:"documents"`
	Folders    int64 `json:"folders"`
	LogEntries int64 `json:"log_entries"`
	// TotalBytes 所有文档占用的远程存储字节数
	TotalBytes int64 `json:"total_bytes"`
}
