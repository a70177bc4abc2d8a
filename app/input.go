package app

import "github.com/richinsley/photoframe/graphics"

type InputKind int

const (
	KeyDown InputKind = iota
	KeyUp
)

type InputEvent struct {
	Kind InputKind
	Key  graphics.Key
}

// Input queues events from platform callbacks until the next update takes
// them. Callbacks and updates run on the same thread.
type Input struct {
	events []InputEvent
}

func (in *Input) Add(ev InputEvent) {
	in.events = append(in.events, ev)
}

// OnKey adapts Input to graphics.Context.OnKey.
func (in *Input) OnKey(key graphics.Key, pressed bool) {
	kind := KeyUp
	if pressed {
		kind = KeyDown
	}
	in.Add(InputEvent{Kind: kind, Key: key})
}

// Take returns the queued events and empties the queue.
func (in *Input) Take() []InputEvent {
	events := in.events
	in.events = nil
	return events
}
