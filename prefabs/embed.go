package prefabs

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Tuning specs and input scripts ship embedded. A file with the same relative
// path under Dir on disk takes precedence, so edits apply without a rebuild.

//go:embed *.yaml scripts/*.tengo
var files embed.FS

// Dir is where on-disk overrides of the embedded files are looked up.
var Dir = "prefabs"

const scriptExt = ".tengo"

// Load returns a tuning file such as "movement.yaml".
func Load(name string) ([]byte, error) {
	return read(cleanPrefabPath(name))
}

// LoadScript returns an input script by basename; the extension is optional.
func LoadScript(name string) ([]byte, error) {
	return read(cleanScriptPath(name))
}

// ModTime reports when the on-disk override of name last changed. ok is
// false when only the embedded copy exists.
func ModTime(name string) (t time.Time, ok bool) {
	info, err := os.Stat(diskPath(cleanPrefabPath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func read(rel string) ([]byte, error) {
	if rel == "" {
		return nil, fs.ErrNotExist
	}
	data, err := os.ReadFile(diskPath(rel))
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return files.ReadFile(rel)
}

func diskPath(rel string) string {
	return filepath.Join(Dir, filepath.FromSlash(rel))
}

// cleanPrefabPath strips a leading "prefabs/" so callers may pass either
// form.
func cleanPrefabPath(p string) string {
	if p == "" {
		return ""
	}
	return strings.TrimPrefix(filepath.ToSlash(p), "prefabs/")
}

// cleanScriptPath maps "idle", "idle.tengo", "scripts/idle.tengo" and
// "prefabs/scripts/idle.tengo" to "scripts/idle.tengo".
func cleanScriptPath(p string) string {
	if p == "" {
		return ""
	}
	s := strings.TrimPrefix(cleanPrefabPath(p), "scripts/")
	if path.Ext(s) != scriptExt {
		s += scriptExt
	}
	return path.Join("scripts", s)
}
