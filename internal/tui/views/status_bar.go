package views

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"github.com/ananyak/chatterm/internal/auth"
	"github.com/ananyak/chatterm/internal/chat"
	"github.com/ananyak/chatterm/internal/tui/ui"
)

// StatusBar is the single-line bar at the bottom of the screen showing the
// session name, auth state, transcript phase, key hints and flash messages.
type StatusBar struct {
	*tview.TextView
	theme   *ui.Theme
	flash   *ui.FlashModel
	session string
	state   auth.State
	phase   chat.Phase
	hints   []string
}

// NewStatusBar creates the status bar.
func NewStatusBar(theme *ui.Theme, flash *ui.FlashModel, session string) *StatusBar {
	tv := tview.NewTextView()
	tv.SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	return &StatusBar{
		TextView: tv,
		theme:    theme,
		flash:    flash,
		session:  session,
		state:    auth.StateUnknown,
	}
}

// SetAuthState updates the displayed auth state.
func (s *StatusBar) SetAuthState(state auth.State) { s.state = state }

// SetPhase updates the displayed transcript phase.
func (s *StatusBar) SetPhase(phase chat.Phase) { s.phase = phase }

// SetHints sets the key hints for the active view.
func (s *StatusBar) SetHints(hints []string) { s.hints = hints }

// Render redraws the bar. A live flash message takes over the hint area.
func (s *StatusBar) Render() {
	var b strings.Builder
	fmt.Fprintf(&b, " [aqua]%s[-] | %s", tview.Escape(s.session), s.state)
	if s.phase == chat.PhaseLoading || s.phase == chat.PhaseSending {
		fmt.Fprintf(&b, " | %s", strings.ToLower(string(s.phase)))
	}
	if msg := s.flash.Get(); msg != nil {
		color := "navajowhite"
		if msg.Level == ui.FlashErr {
			color = "orangered"
		}
		fmt.Fprintf(&b, " | [%s]%s[-]", color, tview.Escape(msg.Text))
	} else if len(s.hints) > 0 {
		fmt.Fprintf(&b, " | [gray]%s[-]", tview.Escape(strings.Join(s.hints, "  ")))
	}
	s.SetText(b.String())
}
