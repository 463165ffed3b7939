// Package stroke turns one continuous single-finger gesture into engine
// stroke calls and decides when a preview is due.
package stroke

import (
	"time"

	"coloring-canvas/internal/tool"
	"coloring-canvas/internal/vision"
	"coloring-canvas/pkg/geometry"
)

// DefaultFPS is the maximum preview refresh rate.
const DefaultFPS = 30

// Finish is called once when a gesture ends and should be committed. For
// continuous tools the engine still holds the stroke when Finish runs.
type Finish func(k tool.Kind, last geometry.Point2D)

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithFPS sets the preview rate. Values <= 0 keep the default.
func WithFPS(fps float64) Option {
	return func(s *Session) {
		if fps > 0 {
			s.interval = time.Duration(float64(time.Second) / fps)
		}
	}
}

// Session holds the state of at most one gesture. It is not safe for
// concurrent use; the canvas controller serializes access.
type Session struct {
	engine   vision.Engine
	now      func() time.Time
	interval time.Duration

	active    bool
	abandoned bool
	moved     bool
	kind      tool.Kind

	last    geometry.Point2D
	hasLast bool

	lastPreview time.Time
	previewed   bool
}

// New creates an idle session forwarding to engine.
func New(engine vision.Engine, opts ...Option) *Session {
	s := &Session{
		engine:   engine,
		now:      time.Now,
		interval: time.Second / DefaultFPS,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Interval returns the minimum time between previews.
func (s *Session) Interval() time.Duration { return s.interval }

// Active reports whether a gesture is in progress.
func (s *Session) Active() bool { return s.active }

// Abandoned reports whether the current gesture was joined by a second
// contact.
func (s *Session) Abandoned() bool { return s.abandoned }

// Moved reports whether the current gesture has been extended.
func (s *Session) Moved() bool { return s.moved }

// Tool returns the tool the current gesture was started with.
func (s *Session) Tool() tool.Kind { return s.kind }

// LastPoint returns the most recent point of the gesture.
func (s *Session) LastPoint() (geometry.Point2D, bool) { return s.last, s.hasLast }

// Begin starts a gesture at p. It refuses, returning false, unless exactly
// one contact is down. A gesture already in progress is ended without
// commit first. Continuous tools seed the engine stroke at p.
func (s *Session) Begin(k tool.Kind, p geometry.Point2D, touches int) bool {
	if touches != 1 || !k.Valid() {
		return false
	}
	if s.active {
		s.Abort()
	}
	s.active = true
	s.kind = k
	s.moved = false
	s.previewed = false
	s.last, s.hasLast = p, true
	if k.Continuous() {
		s.engine.SeedStroke(p)
	}
	return true
}

// Extend forwards points, in order, to the engine and reports whether the
// caller should refresh the preview. The first extension after Begin always
// previews; later ones only once the preview interval has elapsed. A second
// contact abandons the gesture. Fill gestures ignore extensions.
func (s *Session) Extend(points []geometry.Point2D, touches int) bool {
	if !s.active || s.abandoned {
		return false
	}
	if touches != 1 {
		s.abandoned = true
		return false
	}
	if !s.kind.Continuous() || len(points) == 0 {
		return false
	}
	for _, p := range points {
		s.engine.ExtendStroke(p)
	}
	s.last, s.hasLast = points[len(points)-1], true
	s.moved = true

	now := s.now()
	if s.previewed && now.Sub(s.lastPreview) < s.interval {
		return false
	}
	s.previewed = true
	s.lastPreview = now
	return true
}

// End finishes the gesture. The last point is forwarded once more and
// finish is called when a continuous stroke moved, or always for a fill.
// Abandoned gestures never finish. The engine stroke is released on every
// path. End reports whether finish was called.
func (s *Session) End(finish Finish) bool {
	if !s.active {
		return false
	}
	defer s.release()

	if s.abandoned || !s.hasLast {
		return false
	}
	if !s.kind.Continuous() {
		finish(s.kind, s.last)
		return true
	}
	if !s.moved {
		return false
	}
	s.engine.ExtendStroke(s.last)
	finish(s.kind, s.last)
	return true
}

// Cancel ends the gesture like End for continuous tools, so a stroke that
// moved is still committed. A cancelled fill is released without filling.
func (s *Session) Cancel(finish Finish) bool {
	if s.active && !s.kind.Continuous() {
		s.release()
		return false
	}
	return s.End(finish)
}

// Abort ends the gesture without committing anything.
func (s *Session) Abort() {
	if !s.active {
		return
	}
	s.release()
}

func (s *Session) release() {
	s.engine.EndStroke()
	s.active = false
	s.abandoned = false
	s.moved = false
	s.hasLast = false
	s.last = geometry.Point2D{}
	s.previewed = false
}
