package scanner

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"testing/fstest"
)

func writeFileOfSize(t *testing.T, path string, size int64) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := f.Truncate(size); err != nil {
		t.Fatalf("truncate %s: %v", path, err)
	}
}

func tree(files ...string) fstest.MapFS {
	m := fstest.MapFS{}
	for _, f := range files {
		m[f] = &fstest.MapFile{Data: []byte("x")}
	}
	return m
}

func find(t *testing.T, fsys fstest.MapFS) []string {
	t.Helper()
	got, err := NewFinder(nil).Find(context.Background(), fsys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return got
}

func TestFind_NothingFound(t *testing.T) {
	got := find(t, tree("a/index.js", "b/c/readme.md"))
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
}

func TestFind_Single(t *testing.T) {
	got := Collapse(find(t, tree("pkg/node_modules/left-pad/index.js", "pkg/package.json")))
	want := []string{"pkg/node_modules"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestFind_NestedCollapsed(t *testing.T) {
	fsys := tree(
		"pkg/node_modules/a/index.js",
		"pkg/node_modules/sub/node_modules/b/index.js",
	)
	raw := find(t, fsys)
	wantRaw := []string{"pkg/node_modules", "pkg/node_modules/sub/node_modules"}
	if !reflect.DeepEqual(raw, wantRaw) {
		t.Fatalf("raw matches: got %v want %v", raw, wantRaw)
	}
	got := Collapse(raw)
	if !reflect.DeepEqual(got, []string{"pkg/node_modules"}) {
		t.Fatalf("collapsed: got %v", got)
	}
}

func TestFind_UnrelatedMatchBreaksCollapse(t *testing.T) {
	// bb sorts between ab and c, and c/ab/node_modules does not contain it.
	fsys := tree(
		"ab/node_modules/x.js",
		"bb/node_modules/y.js",
		"c/ab/node_modules/z.js",
	)
	raw := find(t, fsys)
	want := []string{"ab/node_modules", "bb/node_modules", "c/ab/node_modules"}
	if !reflect.DeepEqual(raw, want) {
		t.Fatalf("raw matches: got %v want %v", raw, want)
	}
	got := Collapse(raw)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}

	// Without the match in between, substring containment suppresses the later path.
	delete(fsys, "bb/node_modules/y.js")
	got = Collapse(find(t, fsys))
	if !reflect.DeepEqual(got, []string{"ab/node_modules"}) {
		t.Fatalf("got %v", got)
	}
}

func TestFind_Exclusions(t *testing.T) {
	fsys := tree(
		".cache/pkg/node_modules/a.js",
		".git/node_modules/a.js",
		"Library/Caches/node_modules/a.js",
		"node_modules/a.js",
		"Libraryish/node_modules/a.js",
		"app/.hidden/node_modules/a.js",
	)
	got := find(t, fsys)
	// Only top-level entries are excluded; nested dot directories are searched.
	want := []string{"Libraryish/node_modules", "app/.hidden/node_modules"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestFind_IgnoresFiles(t *testing.T) {
	got := find(t, tree("pkg/node_modules"))
	if len(got) != 0 {
		t.Fatalf("a regular file must not match, got %v", got)
	}
}

func TestFind_BadPattern(t *testing.T) {
	f := &Finder{Pattern: "[unclosed"}
	_, err := f.Find(context.Background(), tree("a/node_modules/x"))
	if !errors.Is(err, ErrBadPattern) {
		t.Fatalf("expected ErrBadPattern, got %v", err)
	}
}

func TestFind_OnDisk(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{
		filepath.Join(root, "web", "node_modules", "react"),
		filepath.Join(root, "api", "node_modules"),
		filepath.Join(root, ".config", "node_modules"),
	} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	got, err := NewFinder(nil).Find(context.Background(), os.DirFS(root))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"api/node_modules", "web/node_modules"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestCollapse(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{"empty", nil, nil},
		{"distinct", []string{"a/node_modules", "b/node_modules"}, []string{"a/node_modules", "b/node_modules"}},
		{"nested run", []string{"a/node_modules", "a/node_modules/x/node_modules", "a/node_modules/y/node_modules"}, []string{"a/node_modules"}},
		{"adjacency only", []string{"a/node_modules", "b/node_modules", "a/node_modules/x/node_modules"}, []string{"a/node_modules", "b/node_modules", "a/node_modules/x/node_modules"}},
	}
	for _, c := range cases {
		got := Collapse(c.in)
		if !reflect.DeepEqual(got, c.want) {
			t.Fatalf("%s: got %v want %v", c.name, got, c.want)
		}
	}
}

func TestDirSize(t *testing.T) {
	root := t.TempDir()
	nm := filepath.Join(root, "node_modules")
	if err := os.MkdirAll(filepath.Join(nm, "deep", "er"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFileOfSize(t, filepath.Join(nm, "x.bin"), 1024)
	writeFileOfSize(t, filepath.Join(nm, "deep", "y.bin"), 2048)
	writeFileOfSize(t, filepath.Join(nm, "deep", "er", "z.bin"), 3072)

	got, err := DirSize(context.Background(), nm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := int64(1024 + 2048 + 3072); got != want {
		t.Fatalf("size mismatch: got %d want %d", got, want)
	}
}

func TestDirSize_Missing(t *testing.T) {
	_, err := DirSize(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

// brokenDirFS fails ReadDir for one directory and serves the rest from a MapFS.
type brokenDirFS struct {
	fstest.MapFS
	broken string
}

var errUnreadable = errors.New("unreadable directory")

func (b brokenDirFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if name == b.broken {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: errUnreadable}
	}
	return b.MapFS.ReadDir(name)
}

func TestFind_SkipsUnreadableDirectory(t *testing.T) {
	fsys := brokenDirFS{
		MapFS: tree(
			"a/node_modules/x.js",
			"mid/node_modules/y.js",
			"z/node_modules/z.js",
		),
		broken: "mid",
	}
	got, err := NewFinder(nil).Find(context.Background(), fsys)
	if err != nil {
		t.Fatalf("an unreadable entry must not fail discovery: %v", err)
	}
	want := []string{"a/node_modules", "z/node_modules"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestSizeFS_ContinuesPastErrors(t *testing.T) {
	fsys := brokenDirFS{
		MapFS: fstest.MapFS{
			"a.bin":        {Data: make([]byte, 100)},
			"bad/hidden":   {Data: make([]byte, 1000)},
			"bad2/c.bin":   {Data: make([]byte, 5)},
			"good/b.bin":   {Data: make([]byte, 20)},
			"good/d/e.bin": {Data: make([]byte, 3)},
		},
		broken: "bad",
	}
	got, err := SizeFS(context.Background(), fsys)
	if !errors.Is(err, errUnreadable) {
		t.Fatalf("expected the readdir error, got %v", err)
	}
	if want := int64(100 + 5 + 20 + 3); got != want {
		t.Fatalf("size mismatch: got %d want %d", got, want)
	}
}
