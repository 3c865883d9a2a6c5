package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dendrascience/zipsort/archive"
	"github.com/dendrascience/zipsort/bucket"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--quiet"}, args...))
	err := root.Execute()
	return out.String(), err
}

func writeTestArchive(t *testing.T, path string, entries ...archive.Entry) {
	t.Helper()
	var buf bytes.Buffer
	if err := archive.Encode(&buf, archive.FormatFromName(path), entries); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func sampleArchive(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "sample.zip")
	writeTestArchive(t, p,
		archive.FileEntry("a.txt", []byte("A")),
		archive.FileEntry("dir/b.txt", []byte("B")),
		archive.FileEntry("dir/c.png", []byte("C")),
		archive.FileEntry("dir/README", []byte("R")),
	)
	return p
}

func TestPathsOverlap(t *testing.T) {
	tests := []struct {
		name     string
		path1    string
		path2    string
		expected bool
	}{
		{name: "identical paths", path1: "/tmp/storage", path2: "/tmp/storage", expected: true},
		{name: "archive below mountpoint", path1: "/tmp/storage/a.zip", path2: "/tmp/storage", expected: true},
		{name: "mountpoint below archive dir", path1: "/tmp/storage", path2: "/tmp/storage/mount", expected: true},
		{name: "completely separate paths", path1: "/tmp/storage/a.zip", path2: "/mnt/mount", expected: false},
		{name: "sibling entries", path1: "/tmp/a.zip", path2: "/tmp/mount", expected: false},
		{name: "shared name prefix", path1: "/tmp/mount.zip", path2: "/tmp/mount", expected: false},
		{name: "relative paths - overlapping", path1: "storage/a.zip", path2: "storage", expected: true},
		{name: "relative paths - separate", path1: "a.zip", path2: "mount", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := pathsOverlap(tt.path1, tt.path2)
			if result != tt.expected {
				t.Errorf("pathsOverlap(%q, %q) = %v, expected %v", tt.path1, tt.path2, result, tt.expected)
			}
		})
	}
}

func TestTreeCmd(t *testing.T) {
	p := sampleArchive(t)

	out, err := execute(t, "tree", p)
	if err != nil {
		t.Fatalf("tree failed: %v", err)
	}
	want := "📂 Root\n  a.txt\n  📁 dir\n"
	if out != want {
		t.Errorf("tree output = %q, want %q", out, want)
	}

	out, err = execute(t, "tree", "--all", p)
	if err != nil {
		t.Fatalf("tree --all failed: %v", err)
	}
	want = "📂 Root\n  a.txt\n  📂 dir\n    README\n    b.txt\n    c.png\n"
	if out != want {
		t.Errorf("tree --all output = %q, want %q", out, want)
	}
}

func TestTreeCmd_JSON(t *testing.T) {
	out, err := execute(t, "tree", "--json", sampleArchive(t))
	if err != nil {
		t.Fatalf("tree --json failed: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if doc["type"] != "directory" {
		t.Errorf("root type = %v, want directory", doc["type"])
	}
}

func TestTreeCmd_InvalidArchive(t *testing.T) {
	p := filepath.Join(t.TempDir(), "broken.zip")
	os.WriteFile(p, []byte("not an archive"), 0644)

	_, err := execute(t, "tree", p)
	if err == nil {
		t.Fatal("expected an error for an invalid archive")
	}
	if !strings.HasPrefix(err.Error(), "Failed to extract ZIP file.") {
		t.Errorf("error = %q, want the extract failure message first", err)
	}
}

func TestExtractCmd(t *testing.T) {
	p := sampleArchive(t)
	dest := filepath.Join(t.TempDir(), "out")

	if _, err := execute(t, "extract", "-o", dest, p); err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	for name, content := range map[string]string{"a.txt": "A", "dir/b.txt": "B", "dir/README": "R"} {
		data, err := os.ReadFile(filepath.Join(dest, filepath.FromSlash(name)))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if string(data) != content {
			t.Errorf("%s = %q, want %q", name, data, content)
		}
	}
}

func TestExtractCmd_SingleFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "one")

	if _, err := execute(t, "extract", "-o", dest, "--file", "dir/c.png", sampleArchive(t)); err != nil {
		t.Fatalf("extract --file failed: %v", err)
	}
	entries, err := os.ReadDir(dest)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "c.png" {
		t.Errorf("expected only c.png in %s, got %v", dest, entries)
	}
}

func TestExtractCmd_FailureLeavesNoOutput(t *testing.T) {
	broken := filepath.Join(t.TempDir(), "broken.zip")
	os.WriteFile(broken, []byte("not an archive"), 0644)
	dest := filepath.Join(t.TempDir(), "out")

	if _, err := execute(t, "extract", "-o", dest, broken); err == nil {
		t.Fatal("expected an error for an invalid archive")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Errorf("failed extraction left %s behind (stat err %v)", dest, err)
	}

	if _, err := execute(t, "extract", "-o", dest, "--file", "dir/missing.txt", sampleArchive(t)); err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Errorf("missing file left %s behind (stat err %v)", dest, err)
	}
}

func TestCommands_HonorConfig(t *testing.T) {
	p := sampleArchive(t)
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	for _, args := range [][]string{
		{"tree", "--config", missing, p},
		{"extract", "--config", missing, "-o", filepath.Join(t.TempDir(), "out"), p},
		{"count", "--config", missing, p},
	} {
		if _, err := execute(t, args...); err == nil {
			t.Errorf("%s accepted a missing config file", args[0])
		}
	}
	for _, cmd := range []string{"tree", "count"} {
		if _, err := execute(t, cmd, "--log-level", "chatty", p); err == nil || !strings.Contains(err.Error(), "unknown log level") {
			t.Errorf("%s --log-level chatty: err = %v", cmd, err)
		}
	}

	cfgPath := filepath.Join(t.TempDir(), "zipsort.yaml")
	os.WriteFile(cfgPath, []byte("strip_prefix: dir\n"), 0644)
	out, err := execute(t, "count", "--config", cfgPath, "--log-level", "debug", p)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if !strings.Contains(out, "Total files: 4") {
		t.Errorf("unexpected count output: %q", out)
	}
}

func TestOrganizeCmd(t *testing.T) {
	p := filepath.Join(t.TempDir(), "course.zip")
	writeTestArchive(t, p,
		archive.FileEntry(bucket.DefaultStripPrefix+"/task1/main.c", []byte("int main;")),
		archive.FileEntry(bucket.DefaultStripPrefix+"/task2/main.c", []byte("int main2;")),
		archive.FileEntry(bucket.DefaultStripPrefix+"/notes.txt", []byte("notes")),
	)
	dest := filepath.Join(t.TempDir(), "organized")

	out, err := execute(t, "organize", "-o", dest, p)
	if err != nil {
		t.Fatalf("organize failed: %v", err)
	}
	if !strings.Contains(out, "Wrote 3 objects") {
		t.Errorf("unexpected output: %q", out)
	}
	for _, name := range []string{"c.zip", "txt.zip", "manifest.json"} {
		if !strings.Contains(out, "  "+name+"\n") {
			t.Errorf("listing misses %s: %q", name, out)
		}
	}

	data, err := os.ReadFile(filepath.Join(dest, "c.zip"))
	if err != nil {
		t.Fatalf("c.zip missing: %v", err)
	}
	a, err := archive.Open(data, archive.FormatZip)
	if err != nil {
		t.Fatal(err)
	}
	var paths []string
	for e := range a.Iterate {
		paths = append(paths, e.Path)
	}
	if strings.Join(paths, ",") != "task1/main.c,task2/main.c" {
		t.Errorf("c.zip paths = %v", paths)
	}

	var m bucket.Manifest
	raw, err := os.ReadFile(filepath.Join(dest, "manifest.json"))
	if err != nil {
		t.Fatalf("manifest missing: %v", err)
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatal(err)
	}
	if m.Source != "course.zip" || len(m.Buckets) != 2 {
		t.Errorf("manifest = %+v", m)
	}
}

func TestOrganizeCmd_StripDisabled(t *testing.T) {
	p := filepath.Join(t.TempDir(), "course.zip")
	writeTestArchive(t, p, archive.FileEntry(bucket.DefaultStripPrefix+"/notes.txt", []byte("notes")))
	dest := filepath.Join(t.TempDir(), "organized")

	if _, err := execute(t, "organize", "--strip", "", "--format", "tar", "-o", dest, p); err != nil {
		t.Fatalf("organize failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dest, "txt.tar"))
	if err != nil {
		t.Fatalf("txt.tar missing: %v", err)
	}
	a, err := archive.Open(data, archive.FormatTar)
	if err != nil {
		t.Fatal(err)
	}
	if got := a.Entries()[0].Path; got != bucket.DefaultStripPrefix+"/notes.txt" {
		t.Errorf("stored path = %q, want the wrapper folder kept", got)
	}
}

func TestCompressCmd(t *testing.T) {
	dir := t.TempDir()
	sel := filepath.Join(dir, "site")
	os.MkdirAll(filepath.Join(sel, "css"), 0755)
	os.WriteFile(filepath.Join(sel, "index.html"), []byte("<html>"), 0644)
	os.WriteFile(filepath.Join(sel, "css", "main.css"), []byte("body{}"), 0644)
	loose := filepath.Join(dir, "notes.md")
	os.WriteFile(loose, []byte("# notes"), 0644)
	dest := filepath.Join(dir, "out.tar.gz")

	if _, err := execute(t, "compress", "-o", dest, sel, loose); err != nil {
		t.Fatalf("compress failed: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	a, err := archive.Load(dest, data)
	if err != nil {
		t.Fatalf("output is not an archive: %v", err)
	}
	if a.Format != archive.FormatTarGz {
		t.Errorf("format = %s, want tar.gz from the output name", a.Format)
	}
	got := make(map[string]bool)
	for e := range a.Iterate {
		got[e.Path] = true
	}
	for _, want := range []string{"site/index.html", "site/css/main.css", "notes.md"} {
		if !got[want] {
			t.Errorf("missing %s in %v", want, got)
		}
	}
}

func TestCompressCmd_NothingSelected(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "empty.zip")
	empty := filepath.Join(dir, "empty")
	os.Mkdir(empty, 0755)

	if _, err := execute(t, "compress", "-o", dest, empty); err == nil {
		t.Fatal("expected an error for an empty selection")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Errorf("no archive should be written, stat error = %v", err)
	}
}

func TestCountCmd(t *testing.T) {
	out, err := execute(t, "count", sampleArchive(t))
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if !strings.Contains(out, "Total files: 4") {
		t.Errorf("missing total in %q", out)
	}
	if strings.Count(out, "\n") != 4 {
		t.Errorf("expected 3 bucket lines and a total, got %q", out)
	}
}

func TestSeedCmd_ThenOrganize(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "seed.zip")

	if _, err := execute(t, "seed", "--zip", "--wrap", "-c", "25", "-o", p); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	a, err := archive.Open(data, archive.FormatZip)
	if err != nil {
		t.Fatal(err)
	}
	if a.FileCount() != 25 {
		t.Errorf("seeded %d files, want 25", a.FileCount())
	}
	for e := range a.Iterate {
		if !strings.HasPrefix(e.Path, bucket.DefaultStripPrefix+"/") {
			t.Errorf("entry %q is not wrapped", e.Path)
		}
	}

	if _, err := execute(t, "organize", "-o", filepath.Join(dir, "organized"), p); err != nil {
		t.Fatalf("organize of seeded archive failed: %v", err)
	}
}

func TestSeedName(t *testing.T) {
	tests := map[string]string{
		"main.c":     "main-7.c",
		"README":     "README",
		".gitignore": ".gitignore",
		"a.tar.gz":   "a.tar-7.gz",
	}
	for in, want := range tests {
		if got := seedName(in, 7); got != want {
			t.Errorf("seedName(%q) = %q, want %q", in, got, want)
		}
	}
}
