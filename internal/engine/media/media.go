package media

import (
	"context"
	"fmt"
	"mime"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/nbilal/homepin/internal/model"
)

// imageExts are the file types the library picker offers.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// IsImage reports whether the path looks like a pickable photo.
func IsImage(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}

// FromFile builds a media handle for a photo on disk. The file must exist;
// pixel data is never read.
func FromFile(path string) (model.MediaRef, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.MediaRef{}, fmt.Errorf("reading photo: %w", err)
	}
	if info.IsDir() {
		return model.MediaRef{}, fmt.Errorf("reading photo: %s is a directory", path)
	}

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return model.MediaRef{
		Path:     path,
		MimeType: mimeType,
		Filename: filepath.Base(path),
	}, nil
}

// Camera captures a photo by running an external command (e.g. fswebcam,
// imagesnap) with the output path appended as the last argument.
type Camera struct {
	Command string
	OutDir  string
}

// Capture runs the configured command and returns a handle to the new photo.
func (c Camera) Capture(ctx context.Context) (model.MediaRef, error) {
	if strings.TrimSpace(c.Command) == "" {
		return model.MediaRef{}, fmt.Errorf("no camera capture command configured")
	}

	outDir := c.OutDir
	if outDir == "" {
		outDir = os.TempDir()
	}
	outPath := filepath.Join(outDir, fmt.Sprintf("capture_%s.jpg", time.Now().Format("20060102_150405")))

	parts := splitCommand(c.Command)
	if len(parts) == 0 {
		return model.MediaRef{}, fmt.Errorf("no camera capture command configured")
	}
	args := append(parts[1:], outPath)
	cmd := exec.CommandContext(ctx, parts[0], args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return model.MediaRef{}, fmt.Errorf("camera capture failed: %v: %s", err, strings.TrimSpace(string(out)))
	}

	return FromFile(outPath)
}

// splitCommand splits a configured command line into argv. Single- and
// double-quoted segments stay one argument, so commands like
// `fswebcam -t "front door"` survive intact.
func splitCommand(s string) []string {
	var args []string
	var cur strings.Builder
	var quote rune
	inArg := false
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inArg = true
		case r == ' ' || r == '\t':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(r)
			inArg = true
		}
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args
}
