package fs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/blob/core"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := New(root)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	info, err := s.Put(ctx, "s1/export.csv", strings.NewReader("x,y\n1,2\n"), core.PutOptions{ContentType: "text/csv", Metadata: map[string]string{"rows": "2"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != 8 || info.ETag == "" {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := os.Stat(filepath.Join(root, "s1", "export.csv"+metaSuffix)); err != nil {
		t.Fatalf("expected sidecar: %v", err)
	}
	if _, err := s.Put(ctx, "s1/export.csv", strings.NewReader(""), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	got, rc, err := s.Get(ctx, "s1/export.csv")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != "x,y\n1,2\n" || got.Metadata["rows"] != "2" || got.ContentType != "text/csv" {
		t.Fatalf("unexpected get result %+v %q", got, body)
	}
	list, err := s.List(ctx, "s1/")
	if err != nil || len(list) != 1 {
		t.Fatalf("unexpected list %+v %v", list, err)
	}
	if ok, err := s.Delete(ctx, "s1/export.csv"); !ok || err != nil {
		t.Fatalf("delete: %v %v", ok, err)
	}
	if _, err := s.Head(ctx, "s1/export.csv"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if ok, _ := s.Delete(ctx, "s1/export.csv"); ok {
		t.Fatalf("second delete should report false")
	}
}

func TestStoreRejectsUnsafeKeys(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for _, key := range []string{"", "/abs", "../up", "a/../../b", "x" + metaSuffix} {
		if _, err := s.Put(context.Background(), key, strings.NewReader("x"), core.PutOptions{}); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}
