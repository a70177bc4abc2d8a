//go:build !linux

package headless

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/richinsley/photoframe/graphics"
)

func NewHeadless(width, height int, logger *log.Logger) (graphics.Context, error) {
	return nil, fmt.Errorf("egl headless rendering is not supported on this platform")
}
