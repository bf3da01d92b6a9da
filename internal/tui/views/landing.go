package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/ananyak/chatterm/internal/tui/ui"
)

// Landing is the dashboard's right-hand panel shown while no conversation
// is open.
type Landing struct {
	*tview.TextView
}

// NewLanding creates the dashboard landing panel.
func NewLanding(theme *ui.Theme) *Landing {
	tv := tview.NewTextView()
	tv.SetDynamicColors(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTitle(" Welcome ")
	tv.SetTitleColor(theme.TitleColor)

	_, _ = fmt.Fprint(tv, `
  Welcome to chatterm.

  Select a chat on the left and press Enter to open it,
  or press 'n' to start a new conversation.

  [gray]enter:open  n:new chat  r:rename  d:delete  x:sign out  q:quit[-]`)

	return &Landing{TextView: tv}
}
