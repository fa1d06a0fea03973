package s3

import "errors"

// 网关错误分类；调用方用 errors.Is 判断，网关自身不做重试.
var (
	// ErrCredentialsMissing 用户凭据与进程级默认凭据都未配置.
	ErrCredentialsMissing = errors.New("storage credentials missing")
	// ErrConnectionFailed 建立会话失败.
	ErrConnectionFailed = errors.New("storage connection failed")
	// ErrFileNotFound 在给定范围内找不到远程对象.
	ErrFileNotFound = errors.New("remote file not found")
	// ErrCorruptFile 下载内容未通过校验和验证.
	ErrCorruptFile = errors.New("remote file corrupt")
	// ErrFolderNotFound 远程文件夹不存在.
	ErrFolderNotFound = errors.New("remote folder not found")
)
