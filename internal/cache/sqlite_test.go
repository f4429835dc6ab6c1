package cache

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestAvatarMissing(t *testing.T) {
	c := openTestCache(t)

	got, err := c.Avatar(context.Background(), 1)
	if err != nil {
		t.Fatalf("Avatar: %v", err)
	}
	if got != "" {
		t.Errorf("Avatar = %q, want empty for uncached user", got)
	}
}

func TestSetAndGetAvatar(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	uri := "data:image/png;base64,aGVsbG8="
	if err := c.SetAvatar(ctx, 7, uri); err != nil {
		t.Fatalf("SetAvatar: %v", err)
	}

	got, err := c.Avatar(ctx, 7)
	if err != nil {
		t.Fatalf("Avatar: %v", err)
	}
	if got != uri {
		t.Errorf("Avatar = %q, want %q", got, uri)
	}
}

func TestSetAvatarReplaces(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	if err := c.SetAvatar(ctx, 7, "data:image/png;base64,b2xk"); err != nil {
		t.Fatalf("SetAvatar: %v", err)
	}
	if err := c.SetAvatar(ctx, 7, "data:image/png;base64,bmV3"); err != nil {
		t.Fatalf("SetAvatar replace: %v", err)
	}

	got, err := c.Avatar(ctx, 7)
	if err != nil {
		t.Fatalf("Avatar: %v", err)
	}
	if got != "data:image/png;base64,bmV3" {
		t.Errorf("Avatar = %q, want replacement", got)
	}
}

func TestDeleteAvatar(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	if err := c.SetAvatar(ctx, 3, "data:image/png;base64,eA=="); err != nil {
		t.Fatalf("SetAvatar: %v", err)
	}
	if err := c.DeleteAvatar(ctx, 3); err != nil {
		t.Fatalf("DeleteAvatar: %v", err)
	}

	got, err := c.Avatar(ctx, 3)
	if err != nil {
		t.Fatalf("Avatar: %v", err)
	}
	if got != "" {
		t.Errorf("Avatar = %q, want empty after delete", got)
	}
}
