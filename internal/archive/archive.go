// Package archive bundles generated files into a single zip blob.
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
)

// ContentType is the media type of archives produced by Create.
const ContentType = "application/zip"

var (
	// ErrDuplicatePath is returned when two files share a path.
	ErrDuplicatePath = errors.New("duplicate archive path")
	// ErrInvalidPath is returned for empty, absolute or non-canonical paths.
	ErrInvalidPath = errors.New("invalid archive path")
)

// modTime is stamped on every entry so identical input yields identical bytes.
var modTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// File is one archive entry. Content is stored byte for byte.
type File struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Create writes files, in order, into a zip archive. Paths must be relative,
// slash-separated and canonical. Each directory of a nested path gets its own
// "dir/" entry, written once, just before the first file inside it.
func Create(files []File) ([]byte, error) {
	seen := make(map[string]struct{}, len(files))
	dirs := make(map[string]struct{})
	for _, f := range files {
		if err := checkPath(f.Path); err != nil {
			return nil, err
		}
		if _, ok := seen[f.Path]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePath, f.Path)
		}
		seen[f.Path] = struct{}{}
		for _, d := range parentDirs(f.Path) {
			dirs[d] = struct{}{}
		}
	}
	for _, f := range files {
		if _, ok := dirs[f.Path]; ok {
			return nil, fmt.Errorf("%w: %s is both a file and a directory", ErrInvalidPath, f.Path)
		}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	written := make(map[string]struct{}, len(dirs))
	for _, f := range files {
		for _, d := range parentDirs(f.Path) {
			if _, ok := written[d]; ok {
				continue
			}
			written[d] = struct{}{}
			if err := writeDir(zw, d); err != nil {
				_ = zw.Close()
				return nil, err
			}
		}
		hdr := &zip.FileHeader{
			Name:     f.Path,
			Method:   zip.Deflate,
			Modified: modTime,
		}
		hdr.SetMode(0o644)
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			_ = zw.Close()
			return nil, fmt.Errorf("create entry %s: %w", f.Path, err)
		}
		if _, err := io.WriteString(w, f.Content); err != nil {
			_ = zw.Close()
			return nil, fmt.Errorf("write entry %s: %w", f.Path, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}

func writeDir(zw *zip.Writer, dir string) error {
	hdr := &zip.FileHeader{
		Name:     dir + "/",
		Method:   zip.Store,
		Modified: modTime,
	}
	hdr.SetMode(fs.ModeDir | 0o755)
	if _, err := zw.CreateHeader(hdr); err != nil {
		return fmt.Errorf("create dir entry %s: %w", dir, err)
	}
	return nil
}

// parentDirs lists the directories of p from the outermost in: "a/b/c.md"
// yields "a" and "a/b".
func parentDirs(p string) []string {
	var dirs []string
	for i := 0; i < len(p); i++ {
		if p[i] == '/' {
			dirs = append(dirs, p[:i])
		}
	}
	return dirs
}

// Extract reads every file entry of a zip blob in archive order.
func Extract(data []byte) ([]File, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	files := make([]File, 0, len(zr.File))
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return nil, fmt.Errorf("open entry %s: %w", zf.Name, err)
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read entry %s: %w", zf.Name, err)
		}
		files = append(files, File{Path: zf.Name, Content: string(content)})
	}
	return files, nil
}

func checkPath(p string) error {
	switch {
	case p == "":
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	case strings.HasPrefix(p, "/"), strings.Contains(p, `\`):
		return fmt.Errorf("%w: %s", ErrInvalidPath, p)
	case path.Clean(p) != p:
		return fmt.Errorf("%w: %s is not canonical", ErrInvalidPath, p)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return fmt.Errorf("%w: %s escapes the archive root", ErrInvalidPath, p)
		}
	}
	return nil
}
