package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func sampleEntries() []Entry {
	return []Entry{
		FileEntry("a.txt", []byte("hello")),
		DirEntry("dir/"),
		FileEntry("dir/b.png", []byte{1, 2, 3}),
		FileEntry("dir/nested/README", []byte("read me")),
	}
}

func TestRoundTrip_AllFormats(t *testing.T) {
	for _, f := range Formats() {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, f, sampleEntries()); err != nil {
				t.Fatalf("Encode(%s) failed: %v", f, err)
			}

			a, err := Open(buf.Bytes(), f)
			if err != nil {
				t.Fatalf("Open(%s) failed: %v", f, err)
			}

			want := map[string]string{
				"a.txt":             "hello",
				"dir/b.png":         "\x01\x02\x03",
				"dir/nested/README": "read me",
			}
			got := make(map[string]string)
			dirs := 0
			for e := range a.Iterate {
				if e.IsDir {
					dirs++
					continue
				}
				data, err := e.ReadAll()
				if err != nil {
					t.Fatalf("ReadAll(%s) failed: %v", e.Path, err)
				}
				got[e.Path] = string(data)
			}

			if len(got) != len(want) {
				t.Fatalf("expected %d files, got %d: %v", len(want), len(got), got)
			}
			for p, content := range want {
				if got[p] != content {
					t.Errorf("file %q = %q, want %q", p, got[p], content)
				}
			}
			if dirs != 1 {
				t.Errorf("expected 1 directory entry, got %d", dirs)
			}
			if a.Len() != 4 || a.FileCount() != 3 {
				t.Errorf("Len() = %d, FileCount() = %d, want 4 and 3", a.Len(), a.FileCount())
			}
		})
	}
}

func TestLoad_DetectsFormat(t *testing.T) {
	for _, f := range Formats() {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, f, sampleEntries()); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			// the name is deliberately misleading, magic bytes must win
			a, err := Load("upload.bin", buf.Bytes())
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if a.Format != f {
				t.Errorf("detected %s, want %s", a.Format, f)
			}
		})
	}
}

func TestOpen_InvalidArchive(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		format Format
	}{
		{name: "text as zip", data: []byte("definitely not a zip"), format: FormatZip},
		{name: "empty as zip", data: nil, format: FormatZip},
		{name: "text as tar.gz", data: []byte("plain text"), format: FormatTarGz},
		{name: "short tar", data: []byte("hello"), format: FormatTar},
		{name: "garbage tar block", data: bytes.Repeat([]byte{0x42}, 1024), format: FormatTar},
		{name: "empty as tar", data: nil, format: FormatTar},
		{name: "empty as tar.lz4", data: nil, format: FormatTarLz4},
		{name: "short zero tar", data: make([]byte, 100), format: FormatTar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.data, tt.format)
			if !errors.Is(err, ErrInvalidArchive) {
				t.Errorf("Open(%q) error = %v, want ErrInvalidArchive", tt.name, err)
			}
		})
	}
}

func TestOpen_EmptyTarArchive(t *testing.T) {
	for _, f := range []Format{FormatTar, FormatTarGz, FormatTarLz4} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, f, nil); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			a, err := Open(buf.Bytes(), f)
			if err != nil {
				t.Fatalf("empty %s rejected: %v", f, err)
			}
			if a.Len() != 0 {
				t.Errorf("Len() = %d, want 0", a.Len())
			}
		})
	}
}

func TestOpen_UnsupportedFormat(t *testing.T) {
	_, err := Open([]byte("x"), Format("rar"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatZip},
		{in: "ZIP", want: FormatZip},
		{in: "tgz", want: FormatTarGz},
		{in: "tar.lz4", want: FormatTarLz4},
		{in: "7z", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatFromName(t *testing.T) {
	tests := map[string]Format{
		"a.zip":         FormatZip,
		"a.tar":         FormatTar,
		"a.TAR.GZ":      FormatTarGz,
		"a.tgz":         FormatTarGz,
		"a.tar.lz4":     FormatTarLz4,
		"no-extension":  FormatZip,
		"photos.backup": FormatZip,
	}
	for name, want := range tests {
		if got := FormatFromName(name); got != want {
			t.Errorf("FormatFromName(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestIsArchiveNameAndStem(t *testing.T) {
	tests := []struct {
		name    string
		archive bool
		stem    string
	}{
		{name: "a.zip", archive: true, stem: "a"},
		{name: "backup.TAR.GZ", archive: true, stem: "backup"},
		{name: "x.tgz", archive: true, stem: "x"},
		{name: "x.tar.lz4", archive: true, stem: "x"},
		{name: "notes.txt", archive: false, stem: "notes.txt"},
	}
	for _, tt := range tests {
		if got := IsArchiveName(tt.name); got != tt.archive {
			t.Errorf("IsArchiveName(%q) = %v, want %v", tt.name, got, tt.archive)
		}
		if got := Stem(tt.name); got != tt.stem {
			t.Errorf("Stem(%q) = %q, want %q", tt.name, got, tt.stem)
		}
	}
}

func TestEntry_Name(t *testing.T) {
	tests := map[string]string{
		"a.txt":         "a.txt",
		"dir/b.png":     "b.png",
		"dir/":          "dir",
		"dir/sub/":      "sub",
		"deep/er/x.tar": "x.tar",
	}
	for p, want := range tests {
		if got := (Entry{Path: p}).Name(); got != want {
			t.Errorf("Entry{%q}.Name() = %q, want %q", p, got, want)
		}
	}
}

func TestEntry_OpenDirectory(t *testing.T) {
	if _, err := DirEntry("d/").Open(); !errors.Is(err, ErrIsDirectory) {
		t.Errorf("expected ErrIsDirectory, got %v", err)
	}
}

func TestZipDecode_KeepsDirectoryMarkers(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if _, err := zw.Create("empty/"); err != nil {
		t.Fatal(err)
	}
	w, err := zw.Create("root.txt")
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte("root"))
	zw.Close()

	a, err := Open(buf.Bytes(), FormatZip)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	entries := a.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if !entries[0].IsDir || entries[0].Path != "empty/" {
		t.Errorf("first entry = %+v, want directory empty/", entries[0])
	}
	if entries[1].IsDir || entries[1].Path != "root.txt" {
		t.Errorf("second entry = %+v, want file root.txt", entries[1])
	}
}

func TestWriter_AddAfterClose(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, FormatZip)
	if err != nil {
		t.Fatal(err)
	}
	w.Close()
	if err := w.Add(FileEntry("late.txt", nil)); !errors.Is(err, ErrWriterClosed) {
		t.Errorf("expected ErrWriterClosed, got %v", err)
	}
}

func TestWriter_EmptyPath(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, FormatZip, []Entry{FileEntry("/", []byte("x"))})
	if !errors.Is(err, ErrEmptyPath) {
		t.Errorf("expected ErrEmptyPath, got %v", err)
	}
}

func TestArchivePath(t *testing.T) {
	tests := []struct {
		name         string
		relativePath string
		fileName     string
		want         string
	}{
		{name: "flat selection", relativePath: "", fileName: "a.txt", want: "a.txt"},
		{name: "top of folder", relativePath: "photos/a.jpg", fileName: "a.jpg", want: "photos/a.jpg"},
		{name: "nested folder", relativePath: "photos/2024/a.jpg", fileName: "a.jpg", want: "photos/2024/a.jpg"},
		{name: "no folder part", relativePath: "a.jpg", fileName: "a.jpg", want: "a.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ArchivePath(tt.relativePath, tt.fileName); got != tt.want {
				t.Errorf("ArchivePath(%q, %q) = %q, want %q", tt.relativePath, tt.fileName, got, tt.want)
			}
		})
	}
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	sel := filepath.Join(dir, "project")
	os.MkdirAll(filepath.Join(sel, "src", "deep"), 0755)
	os.WriteFile(filepath.Join(sel, "main.c"), []byte("int main;"), 0644)
	os.WriteFile(filepath.Join(sel, "src", "deep", "util.h"), []byte("#pragma once"), 0644)
	loose := filepath.Join(dir, "notes.md")
	os.WriteFile(loose, []byte("# notes"), 0644)

	entries, err := Collect([]string{sel, loose})
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	got := make(map[string]string)
	for _, e := range entries {
		data, err := e.ReadAll()
		if err != nil {
			t.Fatalf("ReadAll(%s) failed: %v", e.Path, err)
		}
		got[e.Path] = string(data)
	}

	want := map[string]string{
		"project/main.c":          "int main;",
		"project/src/deep/util.h": "#pragma once",
		"notes.md":                "# notes",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %v", len(want), got)
	}
	for p, content := range want {
		if got[p] != content {
			t.Errorf("entry %q = %q, want %q", p, got[p], content)
		}
	}
}

func TestCollect_NothingSelected(t *testing.T) {
	_, err := Collect([]string{t.TempDir()})
	if !errors.Is(err, ErrNothingSelected) {
		t.Errorf("expected ErrNothingSelected, got %v", err)
	}
}

func TestCompressThenExtract_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	sel := filepath.Join(dir, "site")
	os.MkdirAll(filepath.Join(sel, "img"), 0755)
	files := map[string][]byte{
		"index.html":  []byte("<html></html>"),
		"img/a.png":   {0x89, 'P', 'N', 'G', 0, 1, 2},
		"img/empty.x": {},
	}
	for name, content := range files {
		os.WriteFile(filepath.Join(sel, filepath.FromSlash(name)), content, 0644)
	}

	entries, err := Collect([]string{sel})
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, FormatZip, entries); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	a, err := Open(buf.Bytes(), FormatZip)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	seen := 0
	for e := range a.Iterate {
		if e.IsDir {
			continue
		}
		seen++
		rel := e.Path[len("site/"):]
		want, ok := files[rel]
		if !ok {
			t.Errorf("unexpected entry %q", e.Path)
			continue
		}
		data, err := e.ReadAll()
		if err != nil {
			t.Fatalf("ReadAll failed: %v", err)
		}
		if !bytes.Equal(data, want) {
			t.Errorf("content of %q = %v, want %v", e.Path, data, want)
		}
	}
	if seen != len(files) {
		t.Errorf("expected %d files after round trip, got %d", len(files), seen)
	}
}
