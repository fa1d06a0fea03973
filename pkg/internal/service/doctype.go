package service

import (
	"path"
	"strings"
)

// DefaultDocType 类型检测失败时的兜底类别.
const DefaultDocType = "document"

// extCategories 扩展名到类别的映射.
var extCategories = map[string]string{
	".pdf":  "document",
	".doc":  "document",
	".docx": "document",
	".odt":  "document",
	".txt":  "text",
	".md":   "text",
	".rtf":  "text",
	".csv":  "spreadsheet",
	".xls":  "spreadsheet",
	".xlsx": "spreadsheet",
	".ods":  "spreadsheet",
	".ppt":  "presentation",
	".pptx": "presentation",
	".odp":  "presentation",
	".jpg":  "image",
	".jpeg": "image",
	".png":  "image",
	".gif":  "image",
	".webp": "image",
	".svg":  "image",
	".mp3":  "audio",
	".wav":  "audio",
	".flac": "audio",
	".mp4":  "video",
	".mkv":  "video",
	".avi":  "video",
	".mov":  "video",
	".zip":  "archive",
	".tar":  "archive",
	".gz":   "archive",
	".7z":   "archive",
	".rar":  "archive",
}

// mimeCategories MIME 主类型到类别的映射.
var mimeCategories = map[string]string{
	"text":        "text",
	"image":       "image",
	"audio":       "audio",
	"video":       "video",
	"application": "document",
}

// DetectDocType 检测文档类别：先扩展名，再 MIME 主类型，最后兜底.
// 检测失败从不阻塞记录创建.
func DetectDocType(name, contentType string) string {
	if ext := strings.ToLower(path.Ext(name)); ext != "" {
		if category, ok := extCategories[ext]; ok {
			return category
		}
	}

	if contentType != "" {
		prefix, _, _ := strings.Cut(contentType, "/")
		if category, ok := mimeCategories[strings.ToLower(prefix)]; ok {
			return category
		}
	}

	return DefaultDocType
}

// typeTag 类别派生的标签，同步时作为种子标签之一.
func typeTag(docType string) string {
	return "type:" + docType
}
