package glfwcontext

import (
	"runtime"

	"github.com/charmbracelet/log"
	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/photoframe/graphics"
	"github.com/richinsley/photoframe/options"
)

const windowTitle = "photoframe"

// Context is a GLFW window implementing graphics.Context.
type Context struct {
	window *glfw.Window
	gles   bool
	logger *log.Logger

	onKey    func(key graphics.Key, pressed bool)
	onResize func(width, height int)
}

// keys maps GLFW keys to the frame's logical keys.
var keys = map[glfw.Key]graphics.Key{
	glfw.KeyEscape: graphics.KeyExit,
	glfw.KeyLeft:   graphics.KeyPrevious,
	glfw.KeyRight:  graphics.KeyNext,
	glfw.KeyHome:   graphics.KeyHome,
}

// New creates the window and makes its context current. Fullscreen uses the
// primary monitor's current video mode instead of the configured size.
func New(opts *options.Options, visible bool, logger *log.Logger) (*Context, error) {
	if opts.GLES {
		glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLESAPI)
		glfw.WindowHint(glfw.ContextVersionMajor, 3)
		glfw.WindowHint(glfw.ContextVersionMinor, 0)
	} else {
		glfw.WindowHint(glfw.ContextVersionMajor, 4)
		glfw.WindowHint(glfw.ContextVersionMinor, 1)
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	}
	glfw.WindowHint(glfw.DepthBits, 24)

	if visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	width, height := opts.Width, opts.Height
	var monitor *glfw.Monitor
	if opts.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
		if mode := monitor.GetVideoMode(); mode != nil {
			width, height = mode.Width, mode.Height
		}
	}

	win, err := glfw.CreateWindow(width, height, windowTitle, monitor, nil)
	if err != nil {
		return nil, err
	}
	win.MakeContextCurrent()
	glfw.SwapInterval(1)
	if opts.Fullscreen {
		win.SetInputMode(glfw.CursorMode, glfw.CursorHidden)
	}

	c := &Context{
		window: win,
		gles:   opts.GLES,
		logger: logger,
	}
	win.SetKeyCallback(c.glfwKeyCallback)
	win.SetFramebufferSizeCallback(c.glfwFramebufferSizeCallback)

	fbw, fbh := win.GetFramebufferSize()
	logger.Info("window created", "width", fbw, "height", fbh, "fullscreen", opts.Fullscreen, "gles", opts.GLES)
	return c, nil
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action == glfw.Repeat || c.onKey == nil {
		return
	}
	if k, ok := keys[key]; ok {
		c.onKey(k, action == glfw.Press)
	}
}

func (c *Context) glfwFramebufferSizeCallback(w *glfw.Window, width, height int) {
	if c.onResize != nil {
		c.onResize(width, height)
	}
}

func (c *Context) OnKey(f func(key graphics.Key, pressed bool)) {
	c.onKey = f
}

func (c *Context) OnResize(f func(width, height int)) {
	c.onResize = f
}

func (c *Context) IsGLES() bool {
	return c.gles
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

// Shutdown only destroys the window; TerminateGraphics ends GLFW.
func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

// InitGraphics initializes GLFW. Must be called from the main thread.
func InitGraphics(logger *log.Logger) error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	logger.Debug("GLFW initialized")
	return nil
}

// TerminateGraphics shuts GLFW down. Must be called from the main thread.
func TerminateGraphics(logger *log.Logger) {
	glfw.Terminate()
	logger.Debug("GLFW terminated")
}
