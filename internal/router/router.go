// Package router keeps the stack of screens. The bottom screen is never
// popped; navigation is requested by returning one of the messages below
// from a screen's Update.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/certquiz/internal/screen"
)

type (
	// PushScreenMsg opens Screen on top of the current one.
	PushScreenMsg struct{ Screen screen.Screen }

	// PopScreenMsg closes the current screen.
	PopScreenMsg struct{}

	// ReplaceScreenMsg swaps the current screen for Screen, e.g. quiz for
	// results, so that popping returns to whatever was below.
	ReplaceScreenMsg struct{ Screen screen.Screen }

	// ResetMsg discards the stack and starts over from Screen.
	ResetMsg struct{ Screen screen.Screen }
)

type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

func (r *Router) top() int { return len(r.stack) - 1 }

// Active returns the screen receiving input.
func (r *Router) Active() screen.Screen { return r.stack[r.top()] }

func (r *Router) Depth() int { return len(r.stack) }

// Push opens s and returns its Init command.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop closes the active screen unless it is the root.
func (r *Router) Pop() tea.Cmd {
	if r.top() > 0 {
		r.stack[r.top()] = nil
		r.stack = r.stack[:r.top()]
	}
	return nil
}

func (r *Router) Replace(s screen.Screen) tea.Cmd {
	r.stack[r.top()] = s
	return s.Init()
}

func (r *Router) Reset(s screen.Screen) tea.Cmd {
	clear(r.stack)
	r.stack = append(r.stack[:0], s)
	return s.Init()
}

// Update applies navigation messages and forwards everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	case ResetMsg:
		return r.Reset(msg.Screen)
	}
	next, cmd := r.Active().Update(msg)
	r.stack[r.top()] = next
	return cmd
}

func (r *Router) View(width, height int) string {
	return r.Active().View(width, height)
}

func PushCmd(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return PushScreenMsg{Screen: s} }
}

func ReplaceCmd(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return ReplaceScreenMsg{Screen: s} }
}

// PopWithNotice closes the active screen, then hands the revealed screen a
// NoticeMsg so it can refresh and show text.
func PopWithNotice(text string, isErr bool) tea.Cmd {
	return tea.Sequence(
		func() tea.Msg { return PopScreenMsg{} },
		func() tea.Msg { return screen.NoticeMsg{Text: text, Err: isErr} },
	)
}
