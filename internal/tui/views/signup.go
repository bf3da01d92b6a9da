package views

import (
	"github.com/rivo/tview"

	"github.com/ananyak/chatterm/internal/tui/ui"
)

// SignupForm is the account creation page. After a successful signup the
// user is sent back to the login page, mirroring the web flow.
type SignupForm struct {
	*tview.Form
	theme    *ui.Theme
	onSubmit func(email, password string)
	onLogin  func()
}

// NewSignupForm creates the signup page.
func NewSignupForm(theme *ui.Theme) *SignupForm {
	form := tview.NewForm()
	form.SetBorder(true)
	form.SetTitle(" Sign Up ")
	form.SetTitleColor(theme.TitleColor)
	form.SetBorderColor(theme.BorderColor)
	form.SetBackgroundColor(theme.BgColor)

	sf := &SignupForm{Form: form, theme: theme}

	form.AddInputField("Email", "", 40, nil, nil)
	form.AddPasswordField("Password", "", 40, '*', nil)
	form.AddButton("Sign Up", func() {
		if sf.onSubmit != nil {
			sf.onSubmit(sf.email(), sf.password())
		}
	})
	form.AddButton("Back to Login", func() {
		if sf.onLogin != nil {
			sf.onLogin()
		}
	})

	return sf
}

// SetOnSubmit sets the signup callback.
func (sf *SignupForm) SetOnSubmit(fn func(email, password string)) { sf.onSubmit = fn }

// SetOnLogin sets the callback switching back to the login page.
func (sf *SignupForm) SetOnLogin(fn func()) { sf.onLogin = fn }

// ShowError renders an inline error message, e.g. a {detail} from signup.
func (sf *SignupForm) ShowError(msg string) {
	sf.clearError()
	if msg != "" {
		sf.AddTextView("", "[red]"+tview.Escape(msg)+"[-]", 40, 1, true, false)
	}
}

// Reset clears the fields and any error line.
func (sf *SignupForm) Reset() {
	sf.GetFormItem(0).(*tview.InputField).SetText("")
	sf.GetFormItem(1).(*tview.InputField).SetText("")
	sf.clearError()
}

func (sf *SignupForm) email() string {
	return sf.GetFormItem(0).(*tview.InputField).GetText()
}

func (sf *SignupForm) password() string {
	return sf.GetFormItem(1).(*tview.InputField).GetText()
}

func (sf *SignupForm) clearError() {
	for sf.GetFormItemCount() > 2 {
		sf.RemoveFormItem(2)
	}
}
