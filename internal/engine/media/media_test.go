package media

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestIsImage(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"photo.jpg", true},
		{"photo.JPEG", true},
		{"scan.png", true},
		{"notes.txt", false},
		{"archive.tar.gz", false},
		{"noext", false},
	}
	for _, c := range cases {
		if got := IsImage(c.path); got != c.want {
			t.Errorf("IsImage(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.png")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	ref, err := FromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if ref.Path != path {
		t.Errorf("path %q, want %q", ref.Path, path)
	}
	if ref.MimeType != "image/png" {
		t.Errorf("mime %q, want image/png", ref.MimeType)
	}
	if ref.Filename != "photo.png" {
		t.Errorf("filename %q, want photo.png", ref.Filename)
	}
}

func TestFromFileMissing(t *testing.T) {
	if _, err := FromFile(filepath.Join(t.TempDir(), "gone.jpg")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestFromFileDirectory(t *testing.T) {
	if _, err := FromFile(t.TempDir()); err == nil {
		t.Error("directory accepted as a photo")
	}
}

func TestCaptureNoCommand(t *testing.T) {
	c := Camera{}
	if _, err := c.Capture(context.Background()); err == nil {
		t.Error("capture without a configured command accepted")
	}
}

func TestCaptureRunsCommand(t *testing.T) {
	// "touch" stands in for a real camera tool: it creates the output file
	// passed as the last argument.
	c := Camera{Command: "touch", OutDir: t.TempDir()}
	ref, err := c.Capture(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(ref.Path); err != nil {
		t.Errorf("captured file missing: %v", err)
	}
	if filepath.Ext(ref.Path) != ".jpg" {
		t.Errorf("capture path %q does not end in .jpg", ref.Path)
	}
}

func TestCaptureQuotedCommand(t *testing.T) {
	// The quoted $0 must survive as one argument; the shell then expands it
	// to the appended output path and creates the file.
	c := Camera{Command: `sh -c 'touch "$0"'`, OutDir: t.TempDir()}
	ref, err := c.Capture(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(ref.Path); err != nil {
		t.Errorf("captured file missing: %v", err)
	}
}

func TestSplitCommand(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"touch", []string{"touch"}},
		{"fswebcam -r 1280x720", []string{"fswebcam", "-r", "1280x720"}},
		{`fswebcam -t "front door"`, []string{"fswebcam", "-t", "front door"}},
		{`sh -c 'touch "$0"'`, []string{"sh", "-c", `touch "$0"`}},
		{"  spaced   out  ", []string{"spaced", "out"}},
		{`""`, []string{""}},
		{"", nil},
	}
	for _, c := range cases {
		if got := splitCommand(c.in); !reflect.DeepEqual(got, c.want) {
			t.Errorf("splitCommand(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
