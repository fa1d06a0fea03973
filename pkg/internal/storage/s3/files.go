package s3

import (
	"bytes"
	"context"
	"crypto/md5"
	crand "crypto/rand"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	minio "github.com/minio/minio-go/v7"
	"github.com/oklog/ulid"

	nlog "github.com/yeisme/docvault/pkg/log"
)

// metaFileName 对象元数据里保存展示文件名的键，
// 对象键本身带 ULID 前缀保证唯一.
const metaFileName = "Filename"

var ulidEntropy = ulid.Monotonic(crand.Reader, 0)

// RemoteFile 列举结果中的一个远程文件，含完整字节.
type RemoteFile struct {
	Ref         string `json:"ref"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Bytes       []byte `json:"-"`
}

// buildObjectKey 构建对象键：<folder>/<YYYY/MM>/<ulid>_<name>.
// 日期目录只到月，避免目录过深；ULID 前缀保证同名上传不冲突.
func buildObjectKey(folderRef, name string) string {
	datePath := time.Now().UTC().Format("2006/01")
	id := ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy)

	key := fmt.Sprintf("%s/%s_%s", datePath, id.String(), name)
	if folderRef != "" {
		key = strings.TrimSuffix(folderRef, "/") + "/" + key
	}

	return key
}

// Upload 上传文件字节，返回远程对象键.
func (g *Gateway) Upload(ctx context.Context, sess *Session, name, contentType string,
	reader io.Reader, size int64, folderRef string,
) (string, error) {
	objectKey := buildObjectKey(folderRef, name)

	opts := minio.PutObjectOptions{
		UserMetadata: map[string]string{metaFileName: name},
	}
	if contentType != "" {
		opts.ContentType = contentType
	}

	if _, err := sess.cli.PutObject(ctx, sess.bucket, objectKey, reader, size, opts); err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}

	return objectKey, nil
}

// Download 下载完整内容并验证校验和.
// 单段对象的 ETag 即内容 MD5，不一致返回 ErrCorruptFile；
// 多段对象（ETag 含 '-'）无法用 MD5 验证，跳过.
func (g *Gateway) Download(ctx context.Context, sess *Session, ref string) ([]byte, error) {
	obj, err := sess.cli.GetObject(ctx, sess.bucket, ref, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", ref, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, ref)
		}

		return nil, fmt.Errorf("read object %s: %w", ref, err)
	}

	stat, err := obj.Stat()
	if err != nil {
		if isNoSuchKey(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, ref)
		}

		return nil, fmt.Errorf("stat object %s: %w", ref, err)
	}

	if err := verifyChecksum(data, stat.ETag); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCorruptFile, ref)
	}

	return data, nil
}

// verifyChecksum 校验内容 MD5 与 ETag 是否一致.
func verifyChecksum(data []byte, etag string) error {
	etag = strings.Trim(etag, "\"")
	if etag == "" || strings.Contains(etag, "-") {
		return nil
	}

	sum := fmt.Sprintf("%x", md5.Sum(data))
	if sum != etag {
		return fmt.Errorf("md5 %s does not match etag %s", sum, etag)
	}

	return nil
}

// Delete 删除远程对象.scopeFolderRef 非空时只在该文件夹的子项中查找
// （测试用，避免扫描整个账户），否则扫描整个 bucket.
// 找不到对象时返回 ErrFileNotFound，由调用方决定是否降级为警告.
func (g *Gateway) Delete(ctx context.Context, sess *Session, ref, scopeFolderRef string) error {
	opts := minio.ListObjectsOptions{Prefix: scopeFolderRef, Recursive: true}

	found := false

	for object := range sess.cli.ListObjects(ctx, sess.bucket, opts) {
		if object.Err != nil {
			return fmt.Errorf("list objects: %w", object.Err)
		}

		if object.Key == ref {
			found = true

			break
		}
	}

	if !found {
		return fmt.Errorf("%w: %s", ErrFileNotFound, ref)
	}

	if err := sess.cli.RemoveObject(ctx, sess.bucket, ref, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", ref, err)
	}

	return nil
}

// ListAllFiles 列举给定文件夹（空则整个账户）下的所有文件并下载完整内容.
// 缺名/标记对象跳过并记录；单个文件下载失败只跳过该文件，
// 不中断整次列举，返回尽力而为的部分结果.
func (g *Gateway) ListAllFiles(ctx context.Context, sess *Session, folderRef string) ([]RemoteFile, error) {
	prefix := folderRef
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	opts := minio.ListObjectsOptions{Prefix: prefix, Recursive: true, WithMetadata: true}

	files := make([]RemoteFile, 0, 16)
	skipped := 0

	for object := range sess.cli.ListObjects(ctx, sess.bucket, opts) {
		if object.Err != nil {
			return nil, fmt.Errorf("list objects: %w", object.Err)
		}

		// 文件夹标记对象
		if strings.HasSuffix(object.Key, "/") {
			continue
		}

		if object.Key == "" || path.Base(object.Key) == "" {
			nlog.Logger().Warn().Str("key", object.Key).Msg("skip entry without name")

			skipped++

			continue
		}

		data, err := g.Download(ctx, sess, object.Key)
		if err != nil {
			nlog.Logger().Warn().Err(err).Str("key", object.Key).Msg("skip file, download failed")

			skipped++

			continue
		}

		files = append(files, RemoteFile{
			Ref:         object.Key,
			Name:        displayName(object),
			ContentType: object.ContentType,
			Size:        int64(len(data)),
			Bytes:       data,
		})
	}

	nlog.Logger().Info().
		Int("files", len(files)).
		Int("skipped", skipped).
		Str("folder", folderRef).
		Msg("remote listing complete")

	return files, nil
}

// displayName 取展示文件名：优先对象元数据，退回剥掉 ULID 前缀的键名.
func displayName(object minio.ObjectInfo) string {
	for k, v := range object.UserMetadata {
		if strings.EqualFold(k, "X-Amz-Meta-"+metaFileName) || strings.EqualFold(k, metaFileName) {
			if v != "" {
				return v
			}
		}
	}

	base := path.Base(object.Key)
	if idx := strings.IndexByte(base, '_'); idx == ulidLen {
		if _, err := ulid.Parse(base[:idx]); err == nil {
			return base[idx+1:]
		}
	}

	return base
}

const ulidLen = 26

// CreateFolder 创建远程文件夹标记对象（以 / 结尾的空对象），返回文件夹引用.
// 父文件夹不存在时返回 ErrFolderNotFound.
func (g *Gateway) CreateFolder(ctx context.Context, sess *Session, name, parentRef string) (string, error) {
	key := strings.Trim(name, "/") + "/"

	if parentRef != "" {
		parent := strings.TrimSuffix(parentRef, "/") + "/"
		if _, err := sess.cli.StatObject(ctx, sess.bucket, parent, minio.StatObjectOptions{}); err != nil {
			return "", fmt.Errorf("%w: %s", ErrFolderNotFound, parentRef)
		}

		key = parent + key
	}

	if _, err := sess.cli.PutObject(ctx, sess.bucket, key, bytes.NewReader(nil), 0, minio.PutObjectOptions{}); err != nil {
		return "", fmt.Errorf("create folder %s: %w", key, err)
	}

	return key, nil
}

// isNoSuchKey 判断 MinIO 错误是否为对象不存在.
func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == 404
}
