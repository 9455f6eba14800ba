package nav

import "testing"

func TestNewStackStartsAtHome(t *testing.T) {
	s := New()
	if s.Depth() != 1 {
		t.Fatalf("depth = %d, want 1", s.Depth())
	}
	if _, ok := s.Top().Route.(HomeRoute); !ok {
		t.Fatalf("top route = %T, want HomeRoute", s.Top().Route)
	}
}

func TestPopAtRootIsNoOp(t *testing.T) {
	s := New()
	for i := 0; i < 5; i++ {
		if s.Pop() {
			t.Fatal("pop at root should report false")
		}
		if s.Depth() != 1 {
			t.Fatalf("depth = %d after pop at root, want 1", s.Depth())
		}
	}
}

func TestPushPopRestoresCursor(t *testing.T) {
	s := New()
	s.SetCursor(3)
	s.Push(MusicRoute{})
	s.SetCursor(1)
	s.Push(SongsRoute{})

	if s.Depth() != 3 {
		t.Fatalf("depth = %d, want 3", s.Depth())
	}
	if !s.Pop() {
		t.Fatal("expected pop to succeed")
	}
	top := s.Top()
	if _, ok := top.Route.(MusicRoute); !ok {
		t.Fatalf("top route = %T, want MusicRoute", top.Route)
	}
	if top.Cursor != 1 {
		t.Fatalf("cursor = %d, want 1 restored", top.Cursor)
	}
	s.Pop()
	if got := s.Top().Cursor; got != 3 {
		t.Fatalf("home cursor = %d, want 3 restored", got)
	}
}

func TestPushResetsCursorOfNewFrame(t *testing.T) {
	s := New()
	s.SetCursor(4)
	s.Push(ExtrasRoute{})
	if got := s.Top().Cursor; got != 0 {
		t.Fatalf("new frame cursor = %d, want 0", got)
	}
}

func TestReplaceAll(t *testing.T) {
	s := New()
	s.Push(MusicRoute{})
	s.Push(SongsRoute{})
	s.ReplaceAll(NowPlayingRoute{})
	if s.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", s.Depth())
	}
	if _, ok := s.Top().Route.(NowPlayingRoute); !ok {
		t.Fatalf("top route = %T, want NowPlayingRoute", s.Top().Route)
	}
	s.Pop()
	if _, ok := s.Top().Route.(HomeRoute); !ok {
		t.Fatalf("bottom route = %T, want HomeRoute", s.Top().Route)
	}

	s.ReplaceAll(HomeRoute{})
	if s.Depth() != 1 {
		t.Fatalf("depth after ReplaceAll(home) = %d, want 1", s.Depth())
	}
}

func TestRouteParamsTravelWithFrame(t *testing.T) {
	s := New()
	s.Push(PlaylistTracksRoute{PlaylistID: "pl-9"})
	r, ok := s.Top().Route.(PlaylistTracksRoute)
	if !ok {
		t.Fatalf("top route = %T, want PlaylistTracksRoute", s.Top().Route)
	}
	if r.PlaylistID != "pl-9" {
		t.Fatalf("playlist id = %q, want pl-9", r.PlaylistID)
	}
}
