package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"github.com/yeisme/docvault/pkg/configs"
	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/secret"
	"github.com/yeisme/docvault/pkg/internal/storage/db"
	"github.com/yeisme/docvault/pkg/internal/storage/s3"
	"github.com/yeisme/docvault/pkg/internal/types"
)

// newTestDB 在临时目录建一个迁移完成的 SQLite 库.
func newTestDB(t *testing.T) *db.Client {
	t.Helper()

	cfg := &configs.DBConfig{
		Type:         configs.SQLite,
		Database:     filepath.Join(t.TempDir(), "docvault_test"),
		MaxIdleConns: 1,
	}

	client, err := db.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if err := client.Migrate(); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return client
}

// mockGateway 内存网关.Upload 把字节存进 objects，Download 原样取回.
type mockGateway struct {
	files      []s3.RemoteFile
	objects    map[string][]byte
	deleted    []string
	connects   int
	connectErr error
	uploadErr  error
	deleteErr  error
	listErr    error
}

func newMockGateway() *mockGateway {
	return &mockGateway{objects: make(map[string][]byte)}
}

func (m *mockGateway) Connect(_ context.Context, creds *s3.Credentials) (*s3.Session, error) {
	if creds == nil || creds.Email == "" || creds.Password == "" {
		return nil, s3.ErrCredentialsMissing
	}

	m.connects++

	if m.connectErr != nil {
		return nil, m.connectErr
	}

	return &s3.Session{}, nil
}

func (m *mockGateway) DefaultCredentials() *s3.Credentials {
	return &s3.Credentials{Email: "default@store", Password: "default-secret"}
}

func (m *mockGateway) Upload(_ context.Context, _ *s3.Session, name, _ string,
	reader io.Reader, _ int64, folderRef string,
) (string, error) {
	if m.uploadErr != nil {
		return "", m.uploadErr
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}

	ref := fmt.Sprintf("%s%s#%d", folderRef, name, len(m.objects))
	m.objects[ref] = data

	return ref, nil
}

func (m *mockGateway) Download(_ context.Context, _ *s3.Session, ref string) ([]byte, error) {
	if data, ok := m.objects[ref]; ok {
		return data, nil
	}

	for _, f := range m.files {
		if f.Ref == ref {
			return f.Bytes, nil
		}
	}

	return nil, s3.ErrFileNotFound
}

func (m *mockGateway) Delete(_ context.Context, _ *s3.Session, ref, _ string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}

	delete(m.objects, ref)
	m.deleted = append(m.deleted, ref)

	return nil
}

func (m *mockGateway) ListAllFiles(_ context.Context, _ *s3.Session, folderRef string) ([]s3.RemoteFile, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}

	if folderRef == "" {
		return m.files, nil
	}

	var scoped []s3.RemoteFile

	for _, f := range m.files {
		if len(f.Ref) >= len(folderRef) && f.Ref[:len(folderRef)] == folderRef {
			scoped = append(scoped, f)
		}
	}

	return scoped, nil
}

func (m *mockGateway) CreateFolder(_ context.Context, _ *s3.Session, name, parentRef string) (string, error) {
	return parentRef + name + "/", nil
}

var _ Gateway = (*mockGateway)(nil)

// newTestServices 装配一套指向测试库与内存网关的服务.
func newTestServices(t *testing.T) (*Services, *mockGateway) {
	t.Helper()

	gw := newMockGateway()
	svc := NewServices(newTestDB(t), gw, secret.DeriveKey("test-passphrase"))

	return svc, gw
}

func seedUser(t *testing.T, svc *Services, name, email string) *model.User {
	t.Helper()

	user, err := svc.User.Create(context.Background(), &types.CreateUserRequest{
		Name:     name,
		Email:    email,
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}

	return user
}

func TestResolveOwnerByIDAndEmail(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	user := seedUser(t, svc, "alice", "alice@example.com")

	byID, err := resolveOwner(ctx, svc.User.dbClient, fmt.Sprintf("%d", user.ID))
	if err != nil {
		t.Fatalf("resolve by id: %v", err)
	}

	byEmail, err := resolveOwner(ctx, svc.User.dbClient, "alice@example.com")
	if err != nil {
		t.Fatalf("resolve by email: %v", err)
	}

	if byID.ID != user.ID || byEmail.ID != user.ID {
		t.Fatalf("resolved wrong user: id=%d email=%d want %d", byID.ID, byEmail.ID, user.ID)
	}

	if _, err := resolveOwner(ctx, svc.User.dbClient, "ghost@example.com"); !errors.Is(err, ErrOwnerNotFound) {
		t.Fatalf("want ErrOwnerNotFound, got %v", err)
	}
}

func TestConnectGatewayPrefersUserCredentials(t *testing.T) {
	svc, gw := newTestServices(t)
	ctx := context.Background()

	user := seedUser(t, svc, "bob", "bob@example.com")

	// 无凭据记录时回退默认凭据
	if _, err := connectGateway(ctx, gw, svc.Credential, user); err != nil {
		t.Fatalf("connect with default credentials: %v", err)
	}

	if _, err := svc.Credential.Upsert(ctx, &types.UpsertCredentialRequest{
		Owner:    user.Email,
		Email:    "bob@store",
		Password: "store-secret",
		Active:   true,
	}); err != nil {
		t.Fatalf("upsert credential: %v", err)
	}

	if _, err := connectGateway(ctx, gw, svc.Credential, user); err != nil {
		t.Fatalf("connect with user credentials: %v", err)
	}

	if gw.connects != 2 {
		t.Fatalf("connects = %d, want 2", gw.connects)
	}
}
