package nav

// Frame is one entry of the navigation stack. Frames own their cursor, so
// popping back to a parent restores its selection for free.
type Frame struct {
	Route  Route
	Cursor int
}

type Stack struct {
	frames []Frame
}

func New() Stack {
	return Stack{frames: []Frame{{Route: HomeRoute{}}}}
}

func (s *Stack) Depth() int {
	return len(s.frames)
}

func (s *Stack) Top() Frame {
	if len(s.frames) == 0 {
		return Frame{Route: HomeRoute{}}
	}
	return s.frames[len(s.frames)-1]
}

func (s *Stack) Push(r Route) {
	s.frames = append(s.frames, Frame{Route: r})
}

// Pop removes the top frame and reports whether anything was removed. At the
// root it is a no-op: the stack never goes empty.
func (s *Stack) Pop() bool {
	if len(s.frames) <= 1 {
		return false
	}
	s.frames = s.frames[:len(s.frames)-1]
	return true
}

// ReplaceAll resets the stack to home plus the given route, used when an
// activity hijacks navigation (shuffle-all jumping straight to now playing).
func (s *Stack) ReplaceAll(r Route) {
	s.frames = s.frames[:0]
	s.frames = append(s.frames, Frame{Route: HomeRoute{}})
	if _, ok := r.(HomeRoute); !ok {
		s.frames = append(s.frames, Frame{Route: r})
	}
}

// SetCursor patches the top frame's cursor in place.
func (s *Stack) SetCursor(cursor int) {
	if len(s.frames) == 0 || cursor < 0 {
		return
	}
	s.frames[len(s.frames)-1].Cursor = cursor
}

// Frames returns a copy, bottom first. Render code uses it for breadcrumbs.
func (s *Stack) Frames() []Frame {
	out := make([]Frame, len(s.frames))
	copy(out, s.frames)
	return out
}
