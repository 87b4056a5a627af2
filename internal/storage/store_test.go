package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStorePutDelete(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "artifacts"))
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	url, err := store.Put([]byte("zip bytes"), "application/zip")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if !strings.HasSuffix(url, ".zip") {
		t.Fatalf("url = %q, want .zip extension", url)
	}
	data, err := os.ReadFile(url)
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if string(data) != "zip bytes" {
		t.Fatalf("content mismatch: %q", data)
	}

	removed, err := store.Delete(url)
	if err != nil || !removed {
		t.Fatalf("Delete = (%v, %v), want (true, nil)", removed, err)
	}
	// 重复删除不报错，返回 false
	removed, err = store.Delete(url)
	if err != nil || removed {
		t.Fatalf("second Delete = (%v, %v), want (false, nil)", removed, err)
	}
}

func TestFileStoreUnknownContentType(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	url, err := store.Put([]byte("x"), "application/octet-stream")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if !strings.HasSuffix(url, ".bin") {
		t.Fatalf("url = %q, want .bin fallback", url)
	}
}
