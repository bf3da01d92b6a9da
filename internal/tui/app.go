package tui

import (
	"context"
	"errors"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"github.com/ananyak/chatterm/internal/api"
	"github.com/ananyak/chatterm/internal/auth"
	"github.com/ananyak/chatterm/internal/bus"
	"github.com/ananyak/chatterm/internal/chat"
	"github.com/ananyak/chatterm/internal/tui/keys"
	"github.com/ananyak/chatterm/internal/tui/ui"
	"github.com/ananyak/chatterm/internal/tui/views"
)

// App is the main TUI application shell. It owns the page stack, routes bus
// events onto the render thread, and manages the lifetime of the session
// controller for the open conversation.
type App struct {
	app      *tview.Application
	pages    *tview.Pages
	session  *chat.Session
	registry *keys.Registry
	theme    *ui.Theme
	flash    *ui.FlashModel
	logger   *zap.Logger

	statusBar *views.StatusBar
	sidebar   *views.Sidebar
	landing   *views.Landing
	msgView   *views.MessageView
	composer  *views.Composer
	loginV    *views.LoginForm
	signupV   *views.SignupForm
	newChatV  *views.NewChatForm

	// ctl is the controller for the open conversation, nil outside the chat
	// page. dashCtl has no bound conversation and serves create, rename and
	// delete from the dashboard.
	ctl     *chat.SessionController
	dashCtl *chat.SessionController

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI application.
func NewApp(session *chat.Session, sessionName string, logger *zap.Logger) *App {
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()
	flash := &ui.FlashModel{}

	a := &App{
		app:       tview.NewApplication(),
		pages:     tview.NewPages(),
		session:   session,
		registry:  keys.NewRegistry(),
		theme:     theme,
		flash:     flash,
		logger:    logger,
		statusBar: views.NewStatusBar(theme, flash, sessionName),
		sidebar:   views.NewSidebar(theme),
		landing:   views.NewLanding(theme),
		msgView:   views.NewMessageView(theme),
		composer:  views.NewComposer(),
		loginV:    views.NewLoginForm(theme),
		signupV:   views.NewSignupForm(theme),
		newChatV:  views.NewNewChatForm(theme),
		ctx:       ctx,
		cancel:    cancel,
	}

	a.dashCtl = session.Controller(ctx, "")

	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()

	return a
}

func (a *App) setupBindings() {
	a.registry.AddGlobal("quit", &keys.Action{
		Rune: 'q', Key: tcell.KeyRune,
		Description: "q:quit", Visible: true,
		Handler: func() { a.app.Stop() },
	})
	a.registry.AddView(chat.PageDashboard, "new", &keys.Action{
		Rune: 'n', Key: tcell.KeyRune,
		Description: "n:new chat", Visible: true,
		Handler: func() { a.showNewChat() },
	})
	a.registry.AddView(chat.PageDashboard, "rename", &keys.Action{
		Rune: 'r', Key: tcell.KeyRune,
		Description: "r:rename", Visible: true,
		Handler: func() { a.sidebar.StartRename() },
	})
	a.registry.AddView(chat.PageDashboard, "delete", &keys.Action{
		Rune: 'd', Key: tcell.KeyRune,
		Description: "d:delete", Visible: true,
		Handler: func() { a.sidebar.DeleteSelected() },
	})
	a.registry.AddView(chat.PageDashboard, "signout", &keys.Action{
		Rune: 'x', Key: tcell.KeyRune,
		Description: "x:sign out", Visible: true,
		Handler: func() { a.signOut() },
	})
}

func (a *App) setupCallbacks() {
	a.loginV.SetOnSubmit(func(email, password string) {
		go func() {
			err := a.session.Login(a.ctx, email, password)
			a.app.QueueUpdateDraw(func() {
				if err != nil {
					a.loginV.ShowError(errDetail(err))
					return
				}
				a.loginV.Reset()
				a.showDashboard()
			})
		}()
	})
	a.loginV.SetOnSignup(func() { a.showSignup() })

	a.signupV.SetOnSubmit(func(email, password string) {
		go func() {
			err := a.session.Signup(a.ctx, email, password)
			a.app.QueueUpdateDraw(func() {
				if err != nil {
					a.signupV.ShowError(errDetail(err))
					return
				}
				a.signupV.Reset()
				a.flash.Info("Account created. Log in to continue.")
				a.showLogin()
			})
		}()
	})
	a.signupV.SetOnLogin(func() { a.showLogin() })

	a.sidebar.SetOnOpen(func(id string) { a.openChat(id) })
	a.sidebar.SetOnFocus(func(p tview.Primitive) { a.app.SetFocus(p) })
	a.sidebar.SetOnRename(func(id, title string) {
		go func() {
			if err := a.dashCtl.Rename(id, title); err != nil {
				a.flash.Err(err)
			}
			a.app.QueueUpdateDraw(a.refreshStatus)
		}()
	})
	a.sidebar.SetOnDelete(func(id string) {
		go func() {
			if err := a.dashCtl.Delete(id); err != nil {
				a.flash.Err(err)
			}
			a.app.QueueUpdateDraw(a.refreshStatus)
		}()
	})

	a.composer.SetOnSend(func(text string) {
		ctl := a.ctl
		if ctl == nil {
			return
		}
		go func() {
			if err := ctl.Send(text); err != nil {
				if errors.Is(err, chat.ErrSendInFlight) {
					a.flash.Info("Still sending the previous message...")
				} else if !errors.Is(err, context.Canceled) {
					a.flash.Err(err)
				}
				a.app.QueueUpdateDraw(a.refreshStatus)
			}
		}()
	})

	a.newChatV.SetOnCreate(func(title, firstMessage string) {
		go func() {
			id, err := a.dashCtl.CreateChat(title, firstMessage)
			a.app.QueueUpdateDraw(func() {
				if err != nil {
					a.flash.Err(err)
					a.refreshStatus()
					return
				}
				a.newChatV.Reset()
				if id == "" {
					// Blank title or message; stay on the form.
					a.flash.Info("Both a title and a first message are required.")
					a.refreshStatus()
				}
				// Navigation to the new chat arrives over the bus.
			})
		}()
	})
	a.newChatV.SetOnCancel(func() { a.showDashboard() })
}

func (a *App) setupLayout() {
	chatFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.msgView, 0, 1, false).
		AddItem(a.composer, 1, 0, true)

	a.pages.AddPage(chat.PageLogin, center(a.loginV, 50, 11), true, true)
	a.pages.AddPage(chat.PageSignup, center(a.signupV, 50, 11), true, false)
	dashboard := tview.NewFlex().
		AddItem(a.sidebar, 40, 0, true).
		AddItem(a.landing, 0, 1, false)

	a.pages.AddPage(chat.PageDashboard, dashboard, true, false)
	a.pages.AddPage(chat.PageChat, chatFlex, true, false)
	a.pages.AddPage(chat.PageNewChat, center(a.newChatV, 50, 11), true, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(root, true)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		currentPage, _ := a.pages.GetFrontPage()

		if event.Key() == tcell.KeyEscape {
			switch currentPage {
			case chat.PageChat, chat.PageNewChat:
				a.showDashboard()
				return nil
			case chat.PageSignup:
				a.showLogin()
				return nil
			}
		}

		// Let text input widgets handle all keys normally.
		focused := a.app.GetFocus()
		if _, ok := focused.(*tview.InputField); ok {
			return event
		}

		if a.registry.HandleEvent(currentPage, event) {
			return nil
		}

		return event
	})
}

// center wraps a fixed-size primitive in padding so it floats mid-screen.
func center(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 0, true).
			AddItem(nil, 0, 1, false), width, 0, true).
		AddItem(nil, 0, 1, false)
}

func (a *App) showLogin() {
	a.closeController()
	a.loginV.Reset()
	a.pages.SwitchToPage(chat.PageLogin)
	a.app.SetFocus(a.loginV)
	a.refreshStatus()
}

func (a *App) showSignup() {
	a.signupV.Reset()
	a.pages.SwitchToPage(chat.PageSignup)
	a.app.SetFocus(a.signupV)
	a.refreshStatus()
}

func (a *App) showNewChat() {
	a.newChatV.Reset()
	a.pages.SwitchToPage(chat.PageNewChat)
	a.app.SetFocus(a.newChatV)
	a.refreshStatus()
}

// showDashboard switches to the conversation list and triggers the list
// fetch. The store fetches at most once per authenticated session, so
// returning here later does not refetch.
func (a *App) showDashboard() {
	a.closeController()
	a.pages.SwitchToPage(chat.PageDashboard)
	a.sidebar.Update(a.session.List.Chats(), a.session.List.Loading())
	a.app.SetFocus(a.sidebar.Table())
	a.refreshStatus()
	go a.session.List.Fetch(a.ctx)
}

// openChat replaces the active controller with one bound to the selected
// conversation and loads its history.
func (a *App) openChat(id string) {
	a.closeController()
	ctl := a.session.Controller(a.ctx, id)
	a.ctl = ctl

	a.msgView.SetChatTitle("", true)
	a.msgView.Update(nil, chat.PhaseLoading)
	a.pages.SwitchToPage(chat.PageChat)
	a.app.SetFocus(a.composer.InputField)
	a.refreshStatus()

	go func() {
		err := ctl.Open()
		if errors.Is(err, chat.ErrAuthRequired) {
			a.app.QueueUpdateDraw(a.showLogin)
		}
	}()
}

func (a *App) closeController() {
	if a.ctl != nil {
		a.ctl.Close()
		a.ctl = nil
	}
}

func (a *App) signOut() {
	go func() {
		if err := a.session.SignOut(a.ctx); err != nil {
			a.flash.Err(err)
		}
		a.app.QueueUpdateDraw(a.showLogin)
	}()
}

// handleEvent applies a bus event to the views. It runs on the render
// thread via QueueUpdateDraw.
func (a *App) handleEvent(evt bus.Event) {
	switch evt.Kind {
	case bus.KindChatListUpdated:
		a.sidebar.Update(a.session.List.Chats(), a.session.List.Loading())
	case bus.KindTranscriptUpdated, bus.KindPhaseChanged:
		if a.ctl != nil {
			title, missing := a.ctl.Title()
			a.msgView.SetChatTitle(title, missing)
			a.msgView.Update(a.ctl.Entries(), a.ctl.Phase())
		}
	case bus.KindAuthChanged:
	case bus.KindNavigate:
		if target, ok := evt.Payload.(chat.NavTarget); ok {
			switch target.Page {
			case chat.PageChat:
				a.openChat(target.ChatID)
			case chat.PageDashboard:
				a.showDashboard()
			case chat.PageLogin:
				a.showLogin()
			}
		}
	}
	a.refreshStatus()
}

func (a *App) refreshStatus() {
	page, _ := a.pages.GetFrontPage()
	a.statusBar.SetAuthState(a.session.Gate.Check())
	if a.ctl != nil {
		a.statusBar.SetPhase(a.ctl.Phase())
	} else {
		a.statusBar.SetPhase(chat.PhaseIdle)
	}
	a.statusBar.SetHints(a.registry.Hints(page))
	a.statusBar.Render()
}

// Run starts the event pump and the TUI. It blocks until the user quits.
func (a *App) Run() error {
	defer a.cancel()

	events, unsub := a.session.Bus.Subscribe("", 64)
	defer unsub()
	go func() {
		for {
			select {
			case evt, ok := <-events:
				if !ok {
					return
				}
				a.app.QueueUpdateDraw(func() { a.handleEvent(evt) })
			case <-a.ctx.Done():
				return
			}
		}
	}()

	if a.session.Gate.Check() == auth.StateAuthenticated {
		a.showDashboard()
	} else {
		a.showLogin()
	}

	return a.app.Run()
}

// errDetail prefers the backend's structured detail string over the raw
// transport error text.
func errDetail(err error) string {
	var he *api.HTTPError
	if errors.As(err, &he) {
		if d := he.Detail(); d != "" {
			return d
		}
	}
	return err.Error()
}
