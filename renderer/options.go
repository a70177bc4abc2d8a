package renderer

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ResizePolicy decides what happens to the off-screen target when the
// surface changes size.
type ResizePolicy int

const (
	// ResizeFixed keeps the target at its initial size and stretches it
	// over the surface.
	ResizeFixed ResizePolicy = iota
	// ResizeReallocate rebuilds the target at the new surface size.
	ResizeReallocate
)

func (p ResizePolicy) String() string {
	if p == ResizeReallocate {
		return "reallocate"
	}
	return "fixed"
}

func ParseResizePolicy(s string) (ResizePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fixed":
		return ResizeFixed, nil
	case "reallocate", "realloc":
		return ResizeReallocate, nil
	}
	return ResizeFixed, fmt.Errorf("unknown resize policy %q", s)
}

type RendererOptions struct {
	Width      int
	Height     int
	Resize     ResizePolicy
	Background mgl32.Vec4
}

// DefaultBackground is the clear colour of the first pass and the colour
// shown around letterboxed photos during a crossfade.
var DefaultBackground = mgl32.Vec4{0.1, 0.1, 0.1, 1}
