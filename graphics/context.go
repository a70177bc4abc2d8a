package graphics

// Key is a logical key the photo frame reacts to. Platform key codes are
// translated by the Context implementation.
type Key int

const (
	KeyHome Key = iota
	KeyExit
	KeyNext
	KeyPrevious
)

func (k Key) String() string {
	switch k {
	case KeyHome:
		return "home"
	case KeyExit:
		return "exit"
	case KeyNext:
		return "next"
	case KeyPrevious:
		return "previous"
	}
	return "unknown"
}

// Context defines the interface for an OpenGL context and the surface it
// presents to.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	// EndFrame presents the back buffer and pumps pending platform events.
	EndFrame()
	GetFramebufferSize() (int, int)
	Time() float64
	IsGLES() bool
	// OnKey registers the function called for every key press or release.
	OnKey(func(key Key, pressed bool))
	// OnResize registers the function called when the framebuffer changes size.
	OnResize(func(width, height int))
}
