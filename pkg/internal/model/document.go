package model

import (
	"sort"
	"strings"
	"time"
)

// Document 文档元数据模型，文件字节存放在远程对象存储.
type Document struct {
	ID   uint   `gorm:"primaryKey"     json:"id"`
	Name string `gorm:"size:512;index" json:"name"`
	// Type 检测出的文档类别（document / image / video 等）
	Type        string `gorm:"size:128;index" json:"type"`
	Size        int64  `gorm:"index"          json:"size"`
	Description string `gorm:"type:text"      json:"description"`
	// Tags 逗号连接的标签集合
	Tags string `gorm:"type:text" json:"tags"`
	// Hash 内容的 SHA-256，同步时的 join key；同一字节内容只允许一条记录
	Hash string `gorm:"size:64;index" json:"hash"`
	// RemoteRef 远程对象键；远程对象被删除后记录允许悬挂，不自动清理
	RemoteRef string `gorm:"size:1024" json:"remote_ref"`
	OwnerID   uint   `gorm:"index"     json:"owner_id"`
	// FolderID 为空表示位于根
	FolderID *uint `gorm:"index" json:"folder_id,omitempty"`
	Favorite bool  `json:"favorite"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TagList 解析逗号连接的标签为去重后的有序切片.
func (d *Document) TagList() []string {
	if d.Tags == "" {
		return nil
	}

	seen := make(map[string]struct{})
	tags := make([]string, 0, 4)

	for _, t := range strings.Split(d.Tags, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}

		if _, ok := seen[t]; ok {
			continue
		}

		seen[t] = struct{}{}
		tags = append(tags, t)
	}

	sort.Strings(tags)

	return tags
}

// MergeTags 合并新标签到现有集合，保持去重与有序.
func (d *Document) MergeTags(extra []string) {
	merged := d.TagList()
	seen := make(map[string]struct{}, len(merged))

	for _, t := range merged {
		seen[t] = struct{}{}
	}

	for _, t := range extra {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}

		if _, ok := seen[t]; ok {
			continue
		}

		seen[t] = struct{}{}
		merged = append(merged, t)
	}

	sort.Strings(merged)
	d.Tags = strings.Join(merged, ",")
}
