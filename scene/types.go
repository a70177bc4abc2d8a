// Package scene turns scene state into layouts and layouts into draw lists.
package scene

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/photoframe/catalogue"
	"github.com/richinsley/photoframe/locale"
)

// Handle refers to resources owned by the Layouter. Either id may be unset;
// the scene that loaded a handle must free it.
type Handle struct {
	MaterialID  *int
	MeshID      *int
	AspectRatio float32
}

func (h Handle) IsEmpty() bool {
	return h.MaterialID == nil && h.MeshID == nil
}

// Rect is a placement inside the unit canvas, origin at the bottom left.
type Rect struct {
	Pos  mgl32.Vec2
	Size mgl32.Vec2
}

// UnitRect covers the whole canvas or texture.
var UnitRect = Rect{Size: mgl32.Vec2{1, 1}}

// Transform maps the unit quad onto the rectangle.
func (r Rect) Transform() mgl32.Mat4 {
	return mgl32.Translate3D(r.Pos.X(), r.Pos.Y(), 0).Mul4(mgl32.Scale3D(r.Size.X(), r.Size.Y(), 1))
}

type LayoutID uint32

// Element is one of Picture, Thumbnail, Icon, Text or TransitionElement.
type Element interface {
	isElement()
}

type Picture struct {
	Dst     Rect
	Src     Rect
	Opacity float32
	Handle  Handle
}

type Thumbnail struct {
	Picture
}

type Icon struct {
	Dst     Rect
	Opacity float32
	Color   mgl32.Vec4
	Handle  Handle
}

type Text struct {
	Dst     Rect
	Opacity float32
	Color   mgl32.Vec4
	Handle  Handle
}

// TransitionElement crossfades From into To.
type TransitionElement struct {
	FromDst  Rect
	FromSrc  Rect
	ToDst    Rect
	ToSrc    Rect
	From     Handle
	To       Handle
	Progress float32
}

func (Picture) isElement()           {}
func (Thumbnail) isElement()         {}
func (Icon) isElement()              {}
func (Text) isElement()              {}
func (TransitionElement) isElement() {}

type LayoutItem struct {
	ID      LayoutID
	Element Element
	// seconds; zero means no animation
	AnimationTime float32
}

// Layout is replaced as a whole on every scene update.
type Layout struct {
	Items []LayoutItem
}

type EventKind int

const (
	EventEnter EventKind = iota
	EventExit
	EventTimeTick
	EventUser
	EventSystem
)

type UserEvent int

const (
	UserHome UserEvent = iota
	UserExit
	UserNext
	UserPrevious
)

type SystemEvent int

const (
	SystemWeatherUpdate SystemEvent = iota
	SystemAlarm
)

// Event is delivered to the active scene. User and System are only
// meaningful for their kinds.
type Event struct {
	Kind   EventKind
	User   UserEvent
	System SystemEvent
}

var (
	EnterEvent = Event{Kind: EventEnter}
	ExitEvent  = Event{Kind: EventExit}
	TickEvent  = Event{Kind: EventTimeTick}
)

func UserInput(u UserEvent) Event {
	return Event{Kind: EventUser, User: u}
}

func SystemNotice(s SystemEvent) Event {
	return Event{Kind: EventSystem, System: s}
}

type Weather struct {
	Temperature   float32
	ConditionIcon string
}

// Context is the read-only world a scene sees while handling an event.
type Context struct {
	Photos  []catalogue.Photo
	Now     time.Time
	Weather *Weather
	Locale  *locale.Locale
}

func (c *Context) FindPhoto(id int) (catalogue.Photo, bool) {
	if id < 0 || id >= len(c.Photos) {
		return catalogue.Photo{}, false
	}
	return c.Photos[id], true
}
