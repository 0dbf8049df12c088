package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache failed: %v", err)
	}
	defer c.Close()

	if _, ok, err := c.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok=%v err=%v, want miss", ok, err)
	}

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	data, ok, err := c.Get(ctx, "key")
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if string(data) != "value" {
		t.Errorf("Get = %q, want value", data)
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "key"); ok {
		t.Error("value survived Delete")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("deleting absent key failed: %v", err)
	}
}

func TestFileCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache failed: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, ok, err := c.Get(ctx, "short"); err != nil || ok {
		t.Errorf("expired entry returned: ok=%v err=%v", ok, err)
	}
}

func TestFileCacheCorruptEntryEvicted(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache failed: %v", err)
	}
	defer c.Close()

	fc := c.(*FileCache)
	path := fc.entryPath("key")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, ok, err := c.Get(ctx, "key"); err != nil || ok {
		t.Fatalf("corrupt entry returned: ok=%v err=%v", ok, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry not evicted")
	}
}

func TestNullCacheAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, ok, err := c.Get(ctx, "key"); err != nil || ok {
		t.Errorf("null cache stored a value: ok=%v err=%v", ok, err)
	}
}

func TestHash(t *testing.T) {
	h := Hash([]byte("hello"))
	if len(h) != 64 {
		t.Errorf("hash length = %d, want 64", len(h))
	}
	if h != Hash([]byte("hello")) {
		t.Error("hash not deterministic")
	}
	if h == Hash([]byte("world")) {
		t.Error("distinct inputs collided")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	opts := LayoutKeyOpts{Width: 800, Height: 600, Config: "default"}
	a := k.LayoutKey("treehash", opts)
	b := k.LayoutKey("treehash", opts)
	if a != b {
		t.Error("keyer not deterministic")
	}
	if a == k.LayoutKey("treehash", LayoutKeyOpts{Width: 801, Height: 600, Config: "default"}) {
		t.Error("viewport change did not change key")
	}
	if k.TreeKey("golang", "abc") == k.TreeKey("golang", "def") {
		t.Error("fingerprint change did not change key")
	}
	if got := k.ArtifactKey("lh", ArtifactKeyOpts{Format: "svg"}); got == k.ArtifactKey("lh", ArtifactKeyOpts{Format: "png"}) {
		t.Errorf("format change did not change key: %s", got)
	}
}

func TestScopedKeyer(t *testing.T) {
	base := NewDefaultKeyer()
	scoped := NewScopedKeyer(base, "user:42:")

	got := scoped.TreeKey("golang", "abc")
	want := "user:42:" + base.TreeKey("golang", "abc")
	if got != want {
		t.Errorf("scoped key = %s, want %s", got, want)
	}
}
