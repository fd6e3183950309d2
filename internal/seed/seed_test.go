package seed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/infra/persistence/sqlite"
	"github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"
)

const yamlSeed = `
entities:
  - id: m1
    kind: member
    category: U18
    value: 12
    roles: [keeper]
    status: active
  - id: y1
    kind: period
    category: "2025"
    order: 1
    metrics:
      income: 100
      expense: 80
`

const jsonSeed = `[{"id":"t1","kind":"team","category":"U16","metrics":{"slots":2}}]`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestFileSourceFormats(t *testing.T) {
	cases := []struct {
		name  string
		file  string
		body  string
		first string
		count int
	}{
		{"yaml mapping", "seed.yaml", yamlSeed, "m1", 2},
		{"json list", "seed.json", jsonSeed, "t1", 1},
		{"empty", "empty.yaml", "", "", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewFileSource(writeFile(t, tc.file, tc.body)).Load(context.Background())
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if len(got) != tc.count {
				t.Fatalf("expected %d entities, got %d", tc.count, len(got))
			}
			if tc.count > 0 && got[0].ID != tc.first {
				t.Fatalf("expected %s first, got %s", tc.first, got[0].ID)
			}
		})
	}
}

func TestDecodeRejectsBadDocuments(t *testing.T) {
	for _, body := range []string{"just a string", "- id: x\n", "entities: {"} {
		if _, err := Decode(strings.NewReader(body)); err == nil {
			t.Fatalf("expected error for %q", body)
		}
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	if _, err := NewFileSource(filepath.Join(t.TempDir(), "missing.yaml")).Load(context.Background()); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()
	t.Setenv(EnvDriver, "")
	t.Setenv(EnvPath, "custom.yaml")
	src, err := Open(ctx)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if fs, ok := src.(*FileSource); !ok || fs.Path() != "custom.yaml" {
		t.Fatalf("expected file source, got %#v", src)
	}

	t.Setenv(EnvDriver, "SQLite")
	t.Setenv(EnvSQLitePath, filepath.Join(t.TempDir(), "seed.db"))
	src, err = Open(ctx)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if _, ok := src.(*sqlite.Store); !ok {
		t.Fatalf("expected sqlite store, got %T", src)
	}
	if err := Close(src); err != nil {
		t.Fatalf("close: %v", err)
	}

	t.Setenv(EnvDriver, "oracle")
	if _, err := Open(ctx); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}

func TestCopyFileIntoSQLite(t *testing.T) {
	ctx := context.Background()
	dst, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "seed.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = dst.Close() }()

	n, err := Copy(ctx, dst, NewFileSource(writeFile(t, "seed.yaml", yamlSeed)))
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 copied, got %d", n)
	}
	got, err := dst.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || got[0].Kind != domain.KindMember || got[0].Metric(domain.FieldValue) != 12 {
		t.Fatalf("unexpected copied seed %+v", got)
	}
}
