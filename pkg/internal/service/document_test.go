package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"testing"

	"github.com/yeisme/docvault/pkg/internal/storage/s3"
	"github.com/yeisme/docvault/pkg/internal/types"
)

func TestDocumentCreateWithPayload(t *testing.T) {
	svc, gw := newTestServices(t)
	ctx := context.Background()

	user := seedUser(t, svc, "alice", "alice@example.com")

	payload := []byte("quarterly report body")

	doc, err := svc.Document.Create(ctx, &types.CreateDocumentRequest{
		Owner: user.Email,
		Name:  "report.pdf",
		Tags:  []string{"finance"},
	}, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if doc.RemoteRef == "" {
		t.Fatal("document created without remote ref")
	}

	if doc.Size != int64(len(payload)) {
		t.Errorf("size = %d, want %d", doc.Size, len(payload))
	}

	if want := fmt.Sprintf("%x", sha256.Sum256(payload)); doc.Hash != want {
		t.Errorf("hash = %s, want %s", doc.Hash, want)
	}

	if doc.Type != "document" {
		t.Errorf("type = %s, want document", doc.Type)
	}

	if !containsTag(doc.TagList(), "finance") {
		t.Errorf("tags = %v, missing finance", doc.TagList())
	}

	if _, ok := gw.objects[doc.RemoteRef]; !ok {
		t.Errorf("remote object %s not stored", doc.RemoteRef)
	}
}

func TestDocumentCreateMetadataOnly(t *testing.T) {
	svc, gw := newTestServices(t)
	ctx := context.Background()

	user := seedUser(t, svc, "alice", "alice@example.com")

	doc, err := svc.Document.Create(ctx, &types.CreateDocumentRequest{
		Owner:       user.Email,
		Name:        "ideas.md",
		Description: "scratchpad",
	}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if doc.RemoteRef != "" || doc.Hash != "" {
		t.Fatalf("metadata-only document got remote fields: %+v", doc)
	}

	if gw.connects != 0 {
		t.Fatalf("gateway connected %d times for metadata-only create", gw.connects)
	}
}

func TestDocumentDownloadRoundTrip(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	user := seedUser(t, svc, "alice", "alice@example.com")

	payload := []byte("round trip body")

	doc, err := svc.Document.Create(ctx, &types.CreateDocumentRequest{
		Owner: user.Email,
		Name:  "notes.txt",
	}, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	data, got, err := svc.Document.Download(ctx, doc.ID)
	if err != nil {
		t.Fatalf("download: %v", err)
	}

	if !bytes.Equal(data, payload) {
		t.Fatalf("downloaded %q, want %q", data, payload)
	}

	if got.ID != doc.ID {
		t.Fatalf("download returned document %d, want %d", got.ID, doc.ID)
	}
}

// 远程删除失败不阻塞本地删除，远端残留优于孤儿元数据.
func TestDocumentDeleteSurvivesRemoteFailure(t *testing.T) {
	svc, gw := newTestServices(t)
	ctx := context.Background()

	user := seedUser(t, svc, "alice", "alice@example.com")

	doc, err := svc.Document.Create(ctx, &types.CreateDocumentRequest{
		Owner: user.Email,
		Name:  "doomed.txt",
	}, bytes.NewReader([]byte("bytes")))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	gw.deleteErr = s3.ErrConnectionFailed

	if err := svc.Document.Delete(ctx, &types.DeleteDocumentRequest{ID: doc.ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := svc.Document.Get(ctx, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("document still present after delete: %v", err)
	}
}

func TestDocumentListFilters(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	user := seedUser(t, svc, "alice", "alice@example.com")
	other := seedUser(t, svc, "bob", "bob@example.com")

	for i, owner := range []string{user.Email, user.Email, other.Email} {
		if _, err := svc.Document.Create(ctx, &types.CreateDocumentRequest{
			Owner: owner,
			Name:  fmt.Sprintf("doc-%d.txt", i),
		}, nil); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	docs, err := svc.Document.List(ctx, &types.ListDocumentsRequest{Owner: user.Email})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("alice documents = %d, want 2", len(docs))
	}

	if _, err := svc.Document.ToggleFavorite(ctx, docs[0].ID); err != nil {
		t.Fatalf("toggle favorite: %v", err)
	}

	favs, err := svc.Document.List(ctx, &types.ListDocumentsRequest{Owner: user.Email, FavoriteOnly: true})
	if err != nil {
		t.Fatalf("list favorites: %v", err)
	}

	if len(favs) != 1 || favs[0].ID != docs[0].ID {
		t.Fatalf("favorites = %v, want just %d", favs, docs[0].ID)
	}
}

func TestDocumentUpdateMergesTags(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	user := seedUser(t, svc, "alice", "alice@example.com")

	doc, err := svc.Document.Create(ctx, &types.CreateDocumentRequest{
		Owner: user.Email,
		Name:  "tagged.txt",
		Tags:  []string{"draft"},
	}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Document.Update(ctx, &types.UpdateDocumentRequest{
		ID:   doc.ID,
		Tags: []string{"reviewed", "draft"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	tags := updated.TagList()
	if !containsTag(tags, "draft") || !containsTag(tags, "reviewed") {
		t.Fatalf("tags = %v, want draft and reviewed", tags)
	}
}
