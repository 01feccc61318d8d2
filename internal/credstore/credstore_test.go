package credstore

import (
	"context"
	"errors"
	"os"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	f, err := os.CreateTemp("", "gistlens-cred-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	s, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSchemaCreation(t *testing.T) {
	s := testStore(t)
	var count int
	if err := s.conn.QueryRow(`SELECT count(*) FROM credentials`).Scan(&count); err != nil {
		t.Fatalf("credentials table missing: %v", err)
	}
}

func TestSetGetDelete(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, TokenKey); err != nil || ok {
		t.Fatalf("Get on empty store = ok:%v err:%v", ok, err)
	}
	if err := s.Set(ctx, TokenKey, "  ghp_one  "); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := s.Get(ctx, TokenKey)
	if err != nil || !ok || v != "ghp_one" {
		t.Fatalf("Get = %q, %v, %v", v, ok, err)
	}
	if err := s.Set(ctx, TokenKey, "ghp_two"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	if v, _, _ := s.Get(ctx, TokenKey); v != "ghp_two" {
		t.Errorf("after overwrite = %q", v)
	}
	if err := s.Delete(ctx, TokenKey); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, TokenKey); ok {
		t.Error("key should be gone after Delete")
	}
	if err := s.Delete(ctx, TokenKey); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestSetRejectsEmpty(t *testing.T) {
	s := testStore(t)
	if err := s.Set(context.Background(), TokenKey, "   "); !errors.Is(err, ErrEmptyValue) {
		t.Errorf("err = %v, want ErrEmptyValue", err)
	}
}

func TestToken_Precedence(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	t.Setenv("GH_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")

	if _, ok := s.Token(ctx); ok {
		t.Fatal("expected no token")
	}

	t.Setenv("GITHUB_TOKEN", "from_github_token")
	if tok, _ := s.Token(ctx); tok != "from_github_token" {
		t.Errorf("token = %q, want GITHUB_TOKEN value", tok)
	}

	t.Setenv("GH_TOKEN", "from_gh_token")
	if tok, _ := s.Token(ctx); tok != "from_gh_token" {
		t.Errorf("token = %q, want GH_TOKEN value", tok)
	}

	_ = s.Set(ctx, TokenKey, "stored")
	if tok, _ := s.Token(ctx); tok != "stored" {
		t.Errorf("token = %q, want stored value", tok)
	}
}
