package views

import (
	"github.com/rivo/tview"

	"github.com/ananyak/chatterm/internal/tui/ui"
)

// LoginForm is the login page: email, password, and an inline error line
// for rejected credentials.
type LoginForm struct {
	*tview.Form
	theme    *ui.Theme
	onSubmit func(email, password string)
	onSignup func()
}

// NewLoginForm creates the login page.
func NewLoginForm(theme *ui.Theme) *LoginForm {
	form := tview.NewForm()
	form.SetBorder(true)
	form.SetTitle(" Login ")
	form.SetTitleColor(theme.TitleColor)
	form.SetBorderColor(theme.BorderColor)
	form.SetBackgroundColor(theme.BgColor)

	lf := &LoginForm{Form: form, theme: theme}

	form.AddInputField("Email", "", 40, nil, nil)
	form.AddPasswordField("Password", "", 40, '*', nil)
	form.AddButton("Login", func() {
		if lf.onSubmit != nil {
			lf.onSubmit(lf.email(), lf.password())
		}
	})
	form.AddButton("Sign Up", func() {
		if lf.onSignup != nil {
			lf.onSignup()
		}
	})

	return lf
}

// SetOnSubmit sets the login callback.
func (lf *LoginForm) SetOnSubmit(fn func(email, password string)) { lf.onSubmit = fn }

// SetOnSignup sets the callback switching to the signup page.
func (lf *LoginForm) SetOnSignup(fn func()) { lf.onSignup = fn }

// ShowError renders an inline error message, e.g. "Login failed".
func (lf *LoginForm) ShowError(msg string) {
	lf.clearError()
	if msg != "" {
		lf.AddTextView("", "[red]"+tview.Escape(msg)+"[-]", 40, 1, true, false)
	}
}

// Reset clears the fields and any error line.
func (lf *LoginForm) Reset() {
	lf.setEmail("")
	lf.setPassword("")
	lf.clearError()
}

func (lf *LoginForm) email() string {
	return lf.GetFormItem(0).(*tview.InputField).GetText()
}

func (lf *LoginForm) password() string {
	return lf.GetFormItem(1).(*tview.InputField).GetText()
}

func (lf *LoginForm) setEmail(s string) {
	lf.GetFormItem(0).(*tview.InputField).SetText(s)
}

func (lf *LoginForm) setPassword(s string) {
	lf.GetFormItem(1).(*tview.InputField).SetText(s)
}

func (lf *LoginForm) clearError() {
	// The error text view, when present, is the third form item.
	for lf.GetFormItemCount() > 2 {
		lf.RemoveFormItem(2)
	}
}
