package service

import (
	"context"
	"testing"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/types"
)

func TestActivityListFilters(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	alice := seedUser(t, svc, "alice", "alice@example.com")
	seedUser(t, svc, "bob", "bob@example.com")

	if _, err := svc.Folder.Create(ctx, &types.CreateFolderRequest{Owner: alice.Email, Name: "docs"}); err != nil {
		t.Fatalf("create folder: %v", err)
	}

	byAction, err := svc.Activity.List(ctx, &types.ListActivityRequest{Action: model.ActionFolderCreate})
	if err != nil {
		t.Fatalf("list by action: %v", err)
	}

	if len(byAction) != 1 || byAction[0].EntityType != model.EntityFolder {
		t.Fatalf("by action = %+v, want one folder entry", byAction)
	}

	byActor, err := svc.Activity.List(ctx, &types.ListActivityRequest{Actor: alice.Email})
	if err != nil {
		t.Fatalf("list by actor: %v", err)
	}

	// alice 名下：建用户 + 建文件夹
	if len(byActor) != 2 {
		t.Fatalf("alice entries = %d, want 2", len(byActor))
	}

	limited, err := svc.Activity.List(ctx, &types.ListActivityRequest{Limit: 1})
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}

	if len(limited) != 1 {
		t.Fatalf("limited entries = %d, want 1", len(limited))
	}
}

func TestActivityEntriesHaveULIDs(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	seedUser(t, svc, "alice", "alice@example.com")

	entries, err := svc.Activity.List(ctx, &types.ListActivityRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	seen := make(map[string]bool)

	for _, e := range entries {
		if len(e.ID) != 26 {
			t.Errorf("entry id %q is not a ulid", e.ID)
		}

		if seen[e.ID] {
			t.Errorf("duplicate entry id %q", e.ID)
		}

		seen[e.ID] = true
	}
}
