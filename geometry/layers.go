package geometry

import (
	"fmt"
	"sort"

	"github.com/milk9111/platformer/movement"
)

const (
	LayerSolid movement.LayerMask = 1 << iota
	LayerPlatform
)

var layerNames = map[string]movement.LayerMask{
	"solid":    LayerSolid,
	"platform": LayerPlatform,
}

// MaskOf combines named layers into a mask.
func MaskOf(names ...string) (movement.LayerMask, error) {
	var mask movement.LayerMask
	for _, name := range names {
		layer, ok := layerNames[name]
		if !ok {
			return 0, fmt.Errorf("geometry: unknown layer %q (known: %v)", name, LayerNames())
		}
		mask |= layer
	}
	return mask, nil
}

func LayerNames() []string {
	names := make([]string, 0, len(layerNames))
	for name := range layerNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
