package tree

import (
	"context"
	"strings"
	"testing"

	"github.com/dendrascience/zipsort/archive"
)

func sampleTree(t *testing.T) *Node {
	t.Helper()
	root, err := Build(context.Background(), []archive.Entry{
		archive.FileEntry("a.txt", []byte("A")),
		archive.FileEntry("dir/b.png", []byte("B")),
		archive.FileEntry("dir/sub/c.go", []byte("C")),
	})
	if err != nil {
		t.Fatal(err)
	}
	return root
}

func render(t *testing.T, v *View) string {
	t.Helper()
	var sb strings.Builder
	if err := v.Render(&sb); err != nil {
		t.Fatal(err)
	}
	return sb.String()
}

func TestView_StartsCollapsed(t *testing.T) {
	v := NewView(sampleTree(t))
	if got := render(t, v); got != "📁 Root\n" {
		t.Errorf("collapsed render = %q", got)
	}
}

func TestView_Toggle(t *testing.T) {
	v := NewView(sampleTree(t))
	if !v.Toggle("") {
		t.Fatal("toggling root should expand it")
	}
	want := "📂 Root\n  a.txt\n  📁 dir\n"
	if got := render(t, v); got != want {
		t.Errorf("render = %q, want %q", got, want)
	}

	v.Toggle("dir")
	if !v.IsExpanded("dir/") {
		t.Error("dir should be expanded")
	}
	if v.Toggle("a.txt") {
		t.Error("files cannot be expanded")
	}
	v.Toggle("dir")
	if v.IsExpanded("dir") {
		t.Error("second toggle should collapse dir")
	}
}

func TestView_ExpandAll(t *testing.T) {
	v := NewView(sampleTree(t))
	v.ExpandAll()
	want := strings.Join([]string{
		"📂 Root",
		"  a.txt",
		"  📂 dir",
		"    b.png",
		"    📂 sub",
		"      c.go",
	}, "\n") + "\n"
	if got := render(t, v); got != want {
		t.Errorf("render =\n%s\nwant\n%s", got, want)
	}
}

func TestView_ExpandOpensAncestors(t *testing.T) {
	v := NewView(sampleTree(t))
	v.Expand("dir/sub")
	for _, p := range []string{"", "dir", "dir/sub"} {
		if !v.IsExpanded(p) {
			t.Errorf("%q should be expanded", p)
		}
	}
	v.Collapse("dir")
	if strings.Contains(render(t, v), "c.go") {
		t.Error("collapsed parent still shows grandchildren")
	}
}

func TestView_FileSuffix(t *testing.T) {
	v := NewView(sampleTree(t))
	v.Expand("")
	v.FileSuffix = func(path string, n *Node) string {
		return " [" + path + "]"
	}
	if got := render(t, v); !strings.Contains(got, "  a.txt [a.txt]\n") {
		t.Errorf("suffix missing in %q", got)
	}
}
