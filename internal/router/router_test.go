package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/certquiz/internal/screen"
)

type stubScreen struct {
	name    string
	inits   int
	updates int
}

func (s *stubScreen) Init() tea.Cmd                            { s.inits++; return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { s.updates++; return s, nil }
func (s *stubScreen) View(int, int) string                     { return s.name }
func (s *stubScreen) Title() string                            { return s.name }

func names(r *Router) []string {
	out := make([]string, len(r.stack))
	for i, s := range r.stack {
		out[i] = s.Title()
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNavigation(t *testing.T) {
	s := func(n string) *stubScreen { return &stubScreen{name: n} }

	tests := []struct {
		name string
		msgs []tea.Msg
		want []string
	}{
		{"push", []tea.Msg{PushScreenMsg{s("quiz")}}, []string{"setup", "quiz"}},
		{"pop", []tea.Msg{PushScreenMsg{s("quiz")}, PopScreenMsg{}}, []string{"setup"}},
		{"pop keeps root", []tea.Msg{PopScreenMsg{}, PopScreenMsg{}}, []string{"setup"}},
		{"replace top", []tea.Msg{PushScreenMsg{s("quiz")}, ReplaceScreenMsg{s("results")}}, []string{"setup", "results"}},
		{"replace root", []tea.Msg{ReplaceScreenMsg{s("other")}}, []string{"other"}},
		{"reset", []tea.Msg{PushScreenMsg{s("a")}, PushScreenMsg{s("b")}, ResetMsg{s("fresh")}}, []string{"fresh"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(s("setup"))
			for _, m := range tt.msgs {
				r.Update(m)
			}
			if got := names(r); !equal(got, tt.want) {
				t.Errorf("stack = %v, want %v", got, tt.want)
			}
			if r.Depth() != len(tt.want) || r.Active().Title() != tt.want[len(tt.want)-1] {
				t.Errorf("Depth/Active disagree with stack %v", names(r))
			}
		})
	}
}

func TestNewScreensAreInitialised(t *testing.T) {
	r := New(&stubScreen{name: "root"})
	pushed, replaced, reset := &stubScreen{name: "p"}, &stubScreen{name: "r"}, &stubScreen{name: "z"}

	r.Update(PushScreenMsg{pushed})
	r.Update(ReplaceScreenMsg{replaced})
	r.Update(ResetMsg{reset})

	for _, s := range []*stubScreen{pushed, replaced, reset} {
		if s.inits != 1 {
			t.Errorf("%s: Init ran %d times, want 1", s.name, s.inits)
		}
	}
}

func TestUpdateForwardsToActiveOnly(t *testing.T) {
	root, top := &stubScreen{name: "root"}, &stubScreen{name: "top"}
	r := New(root)
	r.Push(top)

	r.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})

	if top.updates != 1 || root.updates != 0 {
		t.Errorf("updates root=%d top=%d, want 0 and 1", root.updates, top.updates)
	}
	if r.View(80, 24) != "top" {
		t.Errorf("View = %q", r.View(80, 24))
	}
}

func TestCommands(t *testing.T) {
	s := &stubScreen{name: "next"}
	if msg, ok := PushCmd(s)().(PushScreenMsg); !ok || msg.Screen != s {
		t.Errorf("PushCmd produced %#v", msg)
	}
	if msg, ok := ReplaceCmd(s)().(ReplaceScreenMsg); !ok || msg.Screen != s {
		t.Errorf("ReplaceCmd produced %#v", msg)
	}
}
