package s3

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yeisme/docvault/pkg/configs"
)

// TestConnect_CredentialsMissing 测试缺失凭据时报 ErrCredentialsMissing.
func TestConnect_CredentialsMissing(t *testing.T) {
	g := NewGateway(&configs.StorageConfig{Endpoint: "localhost:9000", BucketName: "docvault"})

	if _, err := g.Connect(context.Background(), nil); !errors.Is(err, ErrCredentialsMissing) {
		t.Errorf("expected ErrCredentialsMissing for nil creds, got %v", err)
	}

	if _, err := g.Connect(context.Background(), &Credentials{Email: "a@b.c"}); !errors.Is(err, ErrCredentialsMissing) {
		t.Errorf("expected ErrCredentialsMissing for empty password, got %v", err)
	}
}

// TestDefaultCredentials 测试默认凭据的存在性判断.
func TestDefaultCredentials(t *testing.T) {
	g := NewGateway(&configs.StorageConfig{Endpoint: "localhost:9000"})
	if g.DefaultCredentials() != nil {
		t.Error("expected nil default credentials when unconfigured")
	}

	g = NewGateway(&configs.StorageConfig{
		Endpoint:        "localhost:9000",
		DefaultEmail:    "storage@example.com",
		DefaultPassword: "secret",
	})

	creds := g.DefaultCredentials()
	if creds == nil || creds.Email != "storage@example.com" {
		t.Errorf("unexpected default credentials: %+v", creds)
	}
}

// TestCacheKey 测试会话缓存键：用户隔离、默认凭据不带明文.
func TestCacheKey(t *testing.T) {
	g := NewGateway(&configs.StorageConfig{Endpoint: "localhost:9000"})

	k1 := g.cacheKey(&Credentials{UserID: 1, Email: "a@b.c", Password: "x"})
	k2 := g.cacheKey(&Credentials{UserID: 2, Email: "a@b.c", Password: "x"})

	if k1 == k2 {
		t.Error("expected different cache keys for different users")
	}

	d1 := g.cacheKey(&Credentials{Email: "default@example.com", Password: "x"})
	d2 := g.cacheKey(&Credentials{Email: "default@example.com", Password: "y"})

	if d1 != d2 {
		t.Error("expected same cache key for same default identity")
	}

	if strings.Contains(d1, "default@example.com") {
		t.Error("cache key must not contain plaintext email")
	}
}

// TestVerifyChecksum 测试下载完整性校验.
func TestVerifyChecksum(t *testing.T) {
	data := []byte("hello docvault")
	etag := fmt.Sprintf("%x", md5.Sum(data))

	if err := verifyChecksum(data, etag); err != nil {
		t.Errorf("expected valid checksum, got %v", err)
	}

	if err := verifyChecksum(data, "\""+etag+"\""); err != nil {
		t.Errorf("expected quoted etag accepted, got %v", err)
	}

	if err := verifyChecksum([]byte("tampered"), etag); err == nil {
		t.Error("expected checksum mismatch error")
	}

	// 多段对象的 ETag 含 '-'，跳过校验
	if err := verifyChecksum(data, "abc-2"); err != nil {
		t.Errorf("expected multipart etag skipped, got %v", err)
	}
}

// TestBuildObjectKey 测试对象键构建：文件夹前缀与唯一后缀.
func TestBuildObjectKey(t *testing.T) {
	k1 := buildObjectKey("", "report.pdf")
	k2 := buildObjectKey("", "report.pdf")

	if k1 == k2 {
		t.Error("expected unique keys for repeated uploads of same name")
	}

	if !strings.HasSuffix(k1, "_report.pdf") {
		t.Errorf("expected key to end with original name, got %s", k1)
	}

	k3 := buildObjectKey("projects/q3/", "report.pdf")
	if !strings.HasPrefix(k3, "projects/q3/") {
		t.Errorf("expected folder prefix, got %s", k3)
	}
}

// TestDisplayName 测试展示名解析：元数据优先，退回剥 ULID 前缀.
func TestDisplayName(t *testing.T) {
	withMeta := minio.ObjectInfo{
		Key:          "2026/08/01ARZ3NDEKTSV4RRFFQ69G5FAV_x.bin",
		UserMetadata: map[string]string{"X-Amz-Meta-Filename": "report.pdf"},
	}
	if got := displayName(withMeta); got != "report.pdf" {
		t.Errorf("expected metadata name, got %s", got)
	}

	noMeta := minio.ObjectInfo{Key: "2026/08/01ARZ3NDEKTSV4RRFFQ69G5FAV_report.pdf"}
	if got := displayName(noMeta); got != "report.pdf" {
		t.Errorf("expected ulid prefix stripped, got %s", got)
	}

	plain := minio.ObjectInfo{Key: "docs/readme.md"}
	if got := displayName(plain); got != "readme.md" {
		t.Errorf("expected base name, got %s", got)
	}
}

// fakeRemote 启动一个只读的 S3 兼容桩服务：提供对象列举与下载，
// objects 里没有的键一律返回 500，用于模拟个别对象不可下载.
func fakeRemote(t *testing.T, bucket string, keys []string, objects map[string]string) *Session {
	t.Helper()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("list-type") == "2" {
			var sb strings.Builder

			sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
			fmt.Fprintf(&sb, `<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">`)
			fmt.Fprintf(&sb, "<Name>%s</Name><Prefix></Prefix><KeyCount>%d</KeyCount><MaxKeys>1000</MaxKeys><IsTruncated>false</IsTruncated>", bucket, len(keys))

			for _, key := range keys {
				body := objects[key]
				fmt.Fprintf(&sb, "<Contents><Key>%s</Key><LastModified>2026-08-01T00:00:00.000Z</LastModified><ETag>&quot;%x&quot;</ETag><Size>%d</Size><StorageClass>STANDARD</StorageClass></Contents>",
					key, md5.Sum([]byte(body)), len(body))
			}

			sb.WriteString(`</ListBucketResult>`)

			w.Header().Set("Content-Type", "application/xml")
			_, _ = w.Write([]byte(sb.String()))

			return
		}

		key := strings.TrimPrefix(r.URL.Path, "/"+bucket+"/")

		body, ok := objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprintf(w, `<Error><Code>InternalError</Code><Message>backend unavailable</Message><Key>%s</Key><BucketName>%s</BucketName></Error>`, key, bucket)

			return
		}

		w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
		w.Header().Set("ETag", fmt.Sprintf("%q", fmt.Sprintf("%x", md5.Sum([]byte(body)))))
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		_, _ = w.Write([]byte(body))
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}

	cli, err := minio.New(u.Host, &minio.Options{
		Creds:  credentials.NewStaticV4("storage@example.com", "secret", ""),
		Secure: false,
		Region: "us-east-1",
	})
	if err != nil {
		t.Fatalf("minio client: %v", err)
	}

	return &Session{cli: cli, bucket: bucket}
}

// TestListAllFilesSkipsFailedDownloads 测试单个对象下载失败时只跳过该对象，
// 列举整体不报错，其余文件照常返回完整内容.
func TestListAllFilesSkipsFailedDownloads(t *testing.T) {
	objects := map[string]string{
		"notes/alpha.txt": "alpha bytes",
		"notes/beta.txt":  "beta bytes",
	}
	keys := []string{"docs/", "notes/alpha.txt", "notes/beta.txt", "notes/broken.txt"}

	sess := fakeRemote(t, "docvault", keys, objects)
	g := NewGateway(&configs.StorageConfig{Endpoint: "localhost:9000", BucketName: "docvault"})

	files, err := g.ListAllFiles(context.Background(), sess, "")
	if err != nil {
		t.Fatalf("expected partial result without error, got %v", err)
	}

	if len(files) != 2 {
		t.Fatalf("expected 2 files after skipping failed download, got %d", len(files))
	}

	got := make(map[string]string, len(files))
	for _, f := range files {
		got[f.Ref] = string(f.Bytes)

		if f.Size != int64(len(f.Bytes)) {
			t.Errorf("size mismatch for %s: %d vs %d bytes", f.Ref, f.Size, len(f.Bytes))
		}
	}

	for key, body := range objects {
		if got[key] != body {
			t.Errorf("expected %s content %q, got %q", key, body, got[key])
		}
	}

	if _, ok := got["notes/broken.txt"]; ok {
		t.Error("expected failing object to be skipped")
	}

	if _, ok := got["docs/"]; ok {
		t.Error("expected folder marker to be skipped")
	}
}
