package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

const (
	CollisionSolid    = "solid"
	CollisionPlatform = "platform"
)

// Level is a row-major tile map. Row 0 is the top row.
type Level struct {
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	// Spawn in tile coordinates.
	SpawnX int `json:"spawn_x"`
	SpawnY int `json:"spawn_y"`
}

type LayerMeta struct {
	Physics bool `json:"physics"`
	// Collision is "solid" (blocks every probe) or "platform" (lands from
	// above only). Empty means solid.
	Collision string `json:"collision,omitempty"`
	Color     string `json:"color,omitempty"`
}

// Meta returns the metadata of layer i, defaulting to a solid physics layer.
func (l *Level) Meta(i int) LayerMeta {
	meta := LayerMeta{Physics: true, Collision: CollisionSolid}
	if l == nil || i < 0 || i >= len(l.LayerMeta) {
		return meta
	}
	meta = l.LayerMeta[i]
	if meta.Collision == "" {
		meta.Collision = CollisionSolid
	}
	return meta
}

func (l *Level) Tile(layer, x, y int) int {
	if l == nil || layer < 0 || layer >= len(l.Layers) || x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return 0
	}
	return l.Layers[layer][y*l.Width+x]
}

func (l *Level) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("invalid level dimensions: %dx%d", l.Width, l.Height)
	}
	for i, layer := range l.Layers {
		if len(layer) != l.Width*l.Height {
			return fmt.Errorf("layer %d has %d tiles, want %d", i, len(layer), l.Width*l.Height)
		}
	}
	for i, meta := range l.LayerMeta {
		switch meta.Collision {
		case "", CollisionSolid, CollisionPlatform:
		default:
			return fmt.Errorf("layer %d: unknown collision %q", i, meta.Collision)
		}
	}
	if l.SpawnX < 0 || l.SpawnX >= l.Width || l.SpawnY < 0 || l.SpawnY >= l.Height {
		return fmt.Errorf("spawn (%d,%d) outside level", l.SpawnX, l.SpawnY)
	}
	return nil
}

func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

// Load reads a level from disk.
func Load(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	lvl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("levels: %s: %w", path, err)
	}
	return lvl, nil
}

// LoadFromFS reads an embedded level; the .json extension is optional.
func LoadFromFS(name string) (*Level, error) {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	lvl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("levels: %s: %w", name, err)
	}
	return lvl, nil
}

// Resolve loads name from disk when such a file exists, else from the
// embedded levels.
func Resolve(name string) (*Level, error) {
	if name == "" {
		name = "demo"
	}
	if _, err := os.Stat(name); err == nil {
		return Load(name)
	}
	return LoadFromFS(name)
}
