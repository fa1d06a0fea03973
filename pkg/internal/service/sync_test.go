package service

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/storage/s3"
	"github.com/yeisme/docvault/pkg/internal/types"
)

func remoteFile(ref, name string, data []byte) s3.RemoteFile {
	return s3.RemoteFile{
		Ref:   ref,
		Name:  name,
		Size:  int64(len(data)),
		Bytes: data,
	}
}

func countDocuments(t *testing.T, svc *Services) int64 {
	t.Helper()

	var n int64
	if err := svc.Sync.dbClient.GetDB().Model(&model.Document{}).Count(&n).Error; err != nil {
		t.Fatalf("count documents: %v", err)
	}

	return n
}

func TestSyncCreatesNewDocuments(t *testing.T) {
	svc, gw := newTestServices(t)
	ctx := context.Background()

	seedUser(t, svc, "alice", "alice@example.com")

	gw.files = []s3.RemoteFile{
		remoteFile("docs/2026/08/a_report.pdf", "report.pdf", []byte("pdf-bytes")),
		remoteFile("docs/2026/08/b_notes.txt", "notes.txt", []byte("text-bytes")),
	}

	result, err := svc.Sync.Sync(ctx, &types.SyncRequest{Owner: "alice@example.com"})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	if result.Created != 2 || result.Updated != 0 || result.Skipped != 0 {
		t.Fatalf("result = %+v, want 2 created", result)
	}

	for _, doc := range result.CreatedDocs {
		wantHash := ""

		for _, f := range gw.files {
			if f.Name == doc.Name {
				wantHash = fmt.Sprintf("%x", sha256.Sum256(f.Bytes))
			}
		}

		if doc.Hash != wantHash {
			t.Errorf("doc %s hash = %s, want %s", doc.Name, doc.Hash, wantHash)
		}

		tags := doc.TagList()
		if !containsTag(tags, "synced") {
			t.Errorf("doc %s tags = %v, missing synced", doc.Name, tags)
		}

		if !hasTypeTag(tags) {
			t.Errorf("doc %s tags = %v, missing type tag", doc.Name, tags)
		}
	}

	entries, err := svc.Activity.List(ctx, &types.ListActivityRequest{Action: model.ActionDocumentSync})
	if err != nil {
		t.Fatalf("list activity: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("sync activity entries = %d, want 2", len(entries))
	}
}

func TestSyncIdempotent(t *testing.T) {
	svc, gw := newTestServices(t)
	ctx := context.Background()

	seedUser(t, svc, "alice", "alice@example.com")

	gw.files = []s3.RemoteFile{
		remoteFile("x/report.pdf", "report.pdf", []byte("same-bytes")),
		remoteFile("x/notes.md", "notes.md", []byte("other-bytes")),
	}

	req := &types.SyncRequest{Owner: "alice@example.com"}

	first, err := svc.Sync.Sync(ctx, req)
	if err != nil {
		t.Fatalf("first sync: %v", err)
	}

	second, err := svc.Sync.Sync(ctx, req)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}

	if first.Created != 2 {
		t.Fatalf("first sync created = %d, want 2", first.Created)
	}

	if second.Created != 0 || second.Updated != 2 {
		t.Fatalf("second sync = %+v, want 0 created 2 updated", second)
	}

	if n := countDocuments(t, svc); n != 2 {
		t.Fatalf("documents = %d after repeated sync, want 2", n)
	}
}

// 同一字节内容换名重传会更新原记录，不产生第二条.
func TestSyncRenameMatchesByHash(t *testing.T) {
	svc, gw := newTestServices(t)
	ctx := context.Background()

	seedUser(t, svc, "alice", "alice@example.com")

	content := []byte("%PDF-1.7 final report body")

	gw.files = []s3.RemoteFile{remoteFile("x/report.pdf", "report.pdf", content)}

	if _, err := svc.Sync.Sync(ctx, &types.SyncRequest{Owner: "alice@example.com"}); err != nil {
		t.Fatalf("initial sync: %v", err)
	}

	gw.files = []s3.RemoteFile{remoteFile("x/report-v2.pdf", "report-v2.pdf", content)}

	result, err := svc.Sync.Sync(ctx, &types.SyncRequest{Owner: "alice@example.com"})
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}

	if result.Created != 0 || result.Updated != 1 {
		t.Fatalf("result = %+v, want 1 updated", result)
	}

	if n := countDocuments(t, svc); n != 1 {
		t.Fatalf("documents = %d, want 1", n)
	}

	doc := result.UpdatedDocs[0]
	if doc.Name != "report-v2.pdf" {
		t.Errorf("name = %s, want report-v2.pdf", doc.Name)
	}

	if doc.RemoteRef != "x/report-v2.pdf" {
		t.Errorf("remote ref = %s, want x/report-v2.pdf", doc.RemoteRef)
	}
}

// 同一批次内字节相同的两个文件只建一条记录.
func TestSyncDuplicateBytesInBatch(t *testing.T) {
	svc, gw := newTestServices(t)
	ctx := context.Background()

	seedUser(t, svc, "alice", "alice@example.com")

	content := []byte("duplicated bytes")

	gw.files = []s3.RemoteFile{
		remoteFile("x/copy-a.txt", "copy-a.txt", content),
		remoteFile("x/copy-b.txt", "copy-b.txt", content),
	}

	result, err := svc.Sync.Sync(ctx, &types.SyncRequest{Owner: "alice@example.com"})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	if result.Created != 1 || result.Updated != 1 {
		t.Fatalf("result = %+v, want 1 created 1 updated", result)
	}

	if n := countDocuments(t, svc); n != 1 {
		t.Fatalf("documents = %d, want 1", n)
	}
}

// 对账合并标签：本地标签保留，同步种子标签追加.
func TestSyncMergesTags(t *testing.T) {
	svc, gw := newTestServices(t)
	ctx := context.Background()

	user := seedUser(t, svc, "alice", "alice@example.com")

	content := []byte("tagged document body")

	doc := model.Document{
		Name:    "draft.txt",
		Type:    "text",
		Hash:    fmt.Sprintf("%x", sha256.Sum256(content)),
		OwnerID: user.ID,
	}
	doc.MergeTags([]string{"draft", "q3"})

	if err := svc.Sync.dbClient.GetDB().Create(&doc).Error; err != nil {
		t.Fatalf("seed document: %v", err)
	}

	gw.files = []s3.RemoteFile{remoteFile("x/draft.txt", "draft.txt", content)}

	result, err := svc.Sync.Sync(ctx, &types.SyncRequest{Owner: "alice@example.com"})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	if result.Updated != 1 {
		t.Fatalf("result = %+v, want 1 updated", result)
	}

	tags := result.UpdatedDocs[0].TagList()
	for _, want := range []string{"draft", "q3", "synced", "type:text"} {
		if !containsTag(tags, want) {
			t.Errorf("tags = %v, missing %s", tags, want)
		}
	}
}

func TestSyncEmptyRemote(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	seedUser(t, svc, "alice", "alice@example.com")

	result, err := svc.Sync.Sync(ctx, &types.SyncRequest{Owner: "alice@example.com"})
	if err != nil {
		t.Fatalf("sync empty remote: %v", err)
	}

	if result.Created != 0 || result.Updated != 0 || result.Skipped != 0 {
		t.Fatalf("result = %+v, want all zero", result)
	}
}

func TestSyncUnknownOwner(t *testing.T) {
	svc, _ := newTestServices(t)

	_, err := svc.Sync.Sync(context.Background(), &types.SyncRequest{Owner: "nobody@example.com"})
	if !errors.Is(err, ErrOwnerNotFound) {
		t.Fatalf("want ErrOwnerNotFound, got %v", err)
	}
}

func TestSyncListFailure(t *testing.T) {
	svc, gw := newTestServices(t)

	seedUser(t, svc, "alice", "alice@example.com")

	gw.listErr = s3.ErrConnectionFailed

	_, err := svc.Sync.Sync(context.Background(), &types.SyncRequest{Owner: "alice@example.com"})
	if !errors.Is(err, s3.ErrConnectionFailed) {
		t.Fatalf("want ErrConnectionFailed, got %v", err)
	}
}

func containsTag(tags []string, want string) bool {
	for _, tag := range tags {
		if tag == want {
			return true
		}
	}

	return false
}

func hasTypeTag(tags []string) bool {
	for _, tag := range tags {
		if strings.HasPrefix(tag, "type:") {
			return true
		}
	}

	return false
}
