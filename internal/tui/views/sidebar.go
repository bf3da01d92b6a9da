package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/ananyak/chatterm/internal/api"
	"github.com/ananyak/chatterm/internal/tui/ui"
)

// Sidebar is the shared conversation list: open on enter, rename with 'r',
// delete with 'd'.
type Sidebar struct {
	*tview.Flex
	table       *tview.Table
	renameInput *tview.InputField
	theme       *ui.Theme

	chats     []api.ChatSummary
	loading   bool
	editingID string

	onOpen   func(id string)
	onRename func(id, title string)
	onDelete func(id string)
	onFocus  func(p tview.Primitive)
}

// NewSidebar creates the conversation list widget.
func NewSidebar(theme *ui.Theme) *Sidebar {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	table.SetTitle(" Chats ")
	table.SetTitleColor(theme.TitleColor)

	renameInput := tview.NewInputField().
		SetLabel(" Rename: ").
		SetFieldWidth(0)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(table, 0, 1, true)

	sb := &Sidebar{
		Flex:        flex,
		table:       table,
		renameInput: renameInput,
		theme:       theme,
	}

	table.SetSelectedFunc(func(row, col int) {
		if id := sb.SelectedChat(); id != "" && sb.onOpen != nil {
			sb.onOpen(id)
		}
	})

	renameInput.SetDoneFunc(func(key tcell.Key) {
		id := sb.editingID
		text := renameInput.GetText()
		sb.stopRename()
		// Enter commits, escape reverts; a blank commit is a no-op upstream
		// so the prior title stays either way.
		if key == tcell.KeyEnter && id != "" && sb.onRename != nil {
			sb.onRename(id, text)
		}
	})

	return sb
}

// SetOnOpen sets the callback for opening a conversation.
func (sb *Sidebar) SetOnOpen(fn func(id string)) { sb.onOpen = fn }

// SetOnRename sets the callback for committing a rename.
func (sb *Sidebar) SetOnRename(fn func(id, title string)) { sb.onRename = fn }

// SetOnDelete sets the callback for deleting a conversation.
func (sb *Sidebar) SetOnDelete(fn func(id string)) { sb.onDelete = fn }

// SetOnFocus sets the callback used to move application focus.
func (sb *Sidebar) SetOnFocus(fn func(p tview.Primitive)) { sb.onFocus = fn }

// Table returns the inner table, the sidebar's focus target.
func (sb *Sidebar) Table() *tview.Table { return sb.table }

// Update refreshes the list from a chat list snapshot.
func (sb *Sidebar) Update(chats []api.ChatSummary, loading bool) {
	sb.chats = chats
	sb.loading = loading
	sb.render()
}

// SelectedChat returns the id of the currently selected conversation.
func (sb *Sidebar) SelectedChat() string {
	row, _ := sb.table.GetSelection()
	idx := row - 1 // account for header
	if idx >= 0 && idx < len(sb.chats) {
		return sb.chats[idx].ID
	}
	return ""
}

// DeleteSelected fires the delete callback for the selected conversation.
func (sb *Sidebar) DeleteSelected() {
	if id := sb.SelectedChat(); id != "" && sb.onDelete != nil {
		sb.onDelete(id)
	}
}

// StartRename opens the inline rename input for the selected conversation,
// prefilled with the current title.
func (sb *Sidebar) StartRename() {
	id := sb.SelectedChat()
	if id == "" {
		return
	}
	sb.editingID = id
	for _, c := range sb.chats {
		if c.ID == id {
			sb.renameInput.SetText(c.Title)
			break
		}
	}
	sb.Flex.AddItem(sb.renameInput, 1, 0, false)
	if sb.onFocus != nil {
		sb.onFocus(sb.renameInput)
	}
}

func (sb *Sidebar) stopRename() {
	sb.editingID = ""
	sb.renameInput.SetText("")
	sb.Flex.RemoveItem(sb.renameInput)
	if sb.onFocus != nil {
		sb.onFocus(sb.table)
	}
}

func (sb *Sidebar) render() {
	sb.table.Clear()

	header := tview.NewTableCell(" TITLE").
		SetSelectable(false).
		SetTextColor(sb.theme.TableHeaderFg).
		SetBackgroundColor(sb.theme.TableHeaderBg).
		SetAttributes(tcell.AttrBold).
		SetExpansion(1)
	sb.table.SetCell(0, 0, header)

	if sb.loading {
		sb.table.SetCell(1, 0, placeholderCell("Loading chats...", sb.theme))
		return
	}
	if len(sb.chats) == 0 {
		sb.table.SetCell(1, 0, placeholderCell("No chats available.", sb.theme))
		return
	}

	for i, chat := range sb.chats {
		cell := tview.NewTableCell(" " + truncateTitle(chat.Title, titleBudget)).
			SetExpansion(1)
		sb.table.SetCell(i+1, 0, cell)
	}
}

func placeholderCell(text string, theme *ui.Theme) *tview.TableCell {
	return tview.NewTableCell(" " + text).
		SetSelectable(false).
		SetTextColor(theme.PlaceholderColor)
}
