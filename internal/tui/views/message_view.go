package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/ananyak/chatterm/internal/api"
	"github.com/ananyak/chatterm/internal/chat"
	"github.com/ananyak/chatterm/internal/tui/ui"
)

// MessageView displays the transcript of the open conversation.
type MessageView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewMessageView creates the transcript widget.
func NewMessageView(theme *ui.Theme) *MessageView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTitle(" Messages ")
	tv.SetTitleColor(theme.TitleColor)

	return &MessageView{TextView: tv, theme: theme}
}

// SetChatTitle updates the view title. A missing title (failed history
// fetch) falls back to a neutral heading.
func (mv *MessageView) SetChatTitle(title string, missing bool) {
	if missing || title == "" {
		mv.SetTitle(" Select a Chat ")
		return
	}
	mv.SetTitle(fmt.Sprintf(" %s ", title))
}

// Update re-renders the transcript for the given phase.
func (mv *MessageView) Update(entries []chat.Entry, phase chat.Phase) {
	mv.Clear()

	switch {
	case phase == chat.PhaseLoading:
		_, _ = fmt.Fprint(mv, "\n  [::d]Loading messages...[-:-:-]")
		return
	case len(entries) == 0 && phase != chat.PhaseSending:
		_, _ = fmt.Fprint(mv, "\n  [::d]No messages yet. Start chatting![-:-:-]")
		return
	}

	for _, e := range entries {
		sender := "Assistant"
		if e.Message.Role == api.RoleUser {
			sender = "You"
		}
		marker := ""
		switch e.Status {
		case chat.Pending:
			marker = " [::d](sending...)[-:-:-]"
		case chat.Failed:
			marker = " [red]✗ not delivered[-]"
		}
		_, _ = fmt.Fprintf(mv, "[::b]%s[-:-:-]%s\n%s\n\n", sender, marker, tview.Escape(e.Message.Text))
	}

	if phase == chat.PhaseSending {
		_, _ = fmt.Fprint(mv, "[::d]Assistant is typing...[-:-:-]\n")
	}

	mv.ScrollToEnd()
}
