package views

import (
	"github.com/rivo/tview"

	"github.com/ananyak/chatterm/internal/tui/ui"
)

// NewChatForm collects a title and a first message for a new conversation.
type NewChatForm struct {
	*tview.Form
	theme    *ui.Theme
	onCreate func(title, firstMessage string)
	onCancel func()
}

// NewNewChatForm creates the new-chat page.
func NewNewChatForm(theme *ui.Theme) *NewChatForm {
	form := tview.NewForm()
	form.SetBorder(true)
	form.SetTitle(" New Chat ")
	form.SetTitleColor(theme.TitleColor)
	form.SetBorderColor(theme.BorderColor)
	form.SetBackgroundColor(theme.BgColor)

	nf := &NewChatForm{Form: form, theme: theme}

	form.AddInputField("Chat Title", "", 40, nil, nil)
	form.AddInputField("First Message", "", 40, nil, nil)
	form.AddButton("Create", func() {
		if nf.onCreate != nil {
			nf.onCreate(nf.title(), nf.firstMessage())
		}
	})
	form.AddButton("Cancel", func() {
		if nf.onCancel != nil {
			nf.onCancel()
		}
	})

	return nf
}

// SetOnCreate sets the create callback.
func (nf *NewChatForm) SetOnCreate(fn func(title, firstMessage string)) { nf.onCreate = fn }

// SetOnCancel sets the cancel callback.
func (nf *NewChatForm) SetOnCancel(fn func()) { nf.onCancel = fn }

// Reset clears both fields.
func (nf *NewChatForm) Reset() {
	nf.GetFormItem(0).(*tview.InputField).SetText("")
	nf.GetFormItem(1).(*tview.InputField).SetText("")
}

func (nf *NewChatForm) title() string {
	return nf.GetFormItem(0).(*tview.InputField).GetText()
}

func (nf *NewChatForm) firstMessage() string {
	return nf.GetFormItem(1).(*tview.InputField).GetText()
}
