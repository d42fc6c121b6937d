// internal/tui/app.go
//
// The terminal face of the board. It uses bubbletea, which follows The
// Elm Architecture: the App model holds all state, Update reacts to
// messages, View renders to a string.
//
// Input maps onto the board's typed events: a mouse press on a card is
// DragStart, motion over a column is DragOver, release is Drop followed
// by DragEnd. The keyboard path mirrors the same gesture (space picks a
// card up, h/l choose the target column, enter drops, esc aborts).

package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"

	"tagup/internal/board"
	"tagup/internal/config"
	"tagup/internal/dispatch"
	"tagup/internal/render"
)

// screen represents which "page" we're on.
type screen int

const (
	screenBoard screen = iota // Three-column board with the intake row
	screenTagUp               // Daily tag-up form
)

// focusArea is where keystrokes go on the board screen.
type focusArea int

const (
	focusBoard focusArea = iota
	focusDesc
	focusAssignee
)

// boardTopRows is the chrome above the column boxes: the title line and
// one blank line. Mouse hit-testing subtracts it.
const boardTopRows = 2

// ReloadMsg asks the app to reload the repository from the store. The
// state watcher sends it when the files change on disk.
type ReloadMsg struct{}

// cosmeticTickMsg delivers deferred cosmetic work on the next tick.
type cosmeticTickMsg struct{}

// App is the main application model.
type App struct {
	cfg    *config.Config
	logger log.FieldLogger
	ctx    context.Context

	repo *board.Repository
	ctrl *dispatch.Controller

	// Rendered projection of the repository, rebuilt on every change.
	cols []render.Column

	screen screen
	focus  focusArea
	cursor render.Cursor

	descInput     textinput.Model
	assigneeInput textinput.Model

	form tagUpForm

	// Keyboard drag state: the column the payload currently hovers.
	kbDragging bool
	kbTarget   int

	mouseDragging bool

	pendingCosmetic []func()

	width  int
	height int
	notice string
	errMsg string
}

// NewApp wires the board screen to the repository and tag-up log. Tasks
// are loaded and projected here, before any input is handled, so the
// rendered cards exist by the time gestures arrive.
func NewApp(cfg *config.Config, repo *board.Repository, tagups *board.TagUpLog, logger log.FieldLogger) *App {
	a := &App{
		cfg:    cfg,
		logger: logger,
		ctx:    context.Background(),
		repo:   repo,
		screen: screenBoard,
		focus:  focusBoard,
		form:   newTagUpForm(),
	}

	a.descInput = textinput.New()
	a.descInput.Placeholder = "Task description"
	a.descInput.CharLimit = 200
	a.assigneeInput = textinput.New()
	a.assigneeInput.Placeholder = "Assignee"
	a.assigneeInput.CharLimit = 60

	a.ctrl = dispatch.NewController(repo, tagups, board.NewIDSource(), logger,
		dispatch.WithRenderHook(a.refresh),
		dispatch.WithNoticeHook(func(msg string) { a.notice = msg }),
		dispatch.WithErrorHook(func(err error) {
			a.errMsg = err.Error()
			logger.WithError(err).Error("tui: store write failed")
		}),
		dispatch.WithCosmeticScheduler(func(fn func()) {
			a.pendingCosmetic = append(a.pendingCosmetic, fn)
		}),
	)

	a.repo.Load(a.ctx)
	a.refresh()
	return a
}

// Controller exposes the event controller, mainly for tests.
func (a *App) Controller() *dispatch.Controller {
	return a.ctrl
}

// refresh rebuilds the column projection from repository state.
func (a *App) refresh() {
	a.cols = render.Snapshot(a.repo.Tasks(), a.ctrl.DraggingID())
	a.clampCursor()
}

func (a *App) clampCursor() {
	if a.cursor.Column < 0 {
		a.cursor.Column = 0
	}
	if a.cursor.Column > 2 {
		a.cursor.Column = 2
	}
	if len(a.cols) == 3 {
		n := len(a.cols[a.cursor.Column].Cards)
		if a.cursor.Card >= n {
			a.cursor.Card = n - 1
		}
	}
	if a.cursor.Card < 0 {
		a.cursor.Card = 0
	}
}

func (a *App) boardView() render.BoardView {
	hover, hoverSet := a.ctrl.Hover()
	return render.BoardView{
		Styles:   render.DefaultStyles(),
		Width:    max(a.width, 60),
		Hover:    hover,
		HoverSet: hoverSet,
		Cursor:   a.cursor,
		Focused:  a.focus == focusBoard && !a.kbDragging && !a.mouseDragging,
	}
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		inner := max(20, a.boardView().ColumnWidth()-4)
		a.descInput.Width = inner
		a.assigneeInput.Width = inner
		a.form.setWidth(max(30, msg.Width-20))
		return a, a.cosmeticCmd()

	case cosmeticTickMsg:
		a.runCosmetic()
		return a, a.cosmeticCmd()

	case ReloadMsg:
		a.repo.Load(a.ctx)
		a.refresh()
		return a, nil

	case tea.MouseMsg:
		if a.screen == screenBoard {
			a.handleMouse(msg)
		}
		return a, a.cosmeticCmd()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.screen == screenTagUp {
			cmd := a.updateTagUpScreen(msg)
			return a, tea.Batch(cmd, a.cosmeticCmd())
		}
		cmd := a.updateBoardScreen(msg)
		return a, tea.Batch(cmd, a.cosmeticCmd())
	}

	return a, nil
}

// runCosmetic executes work deferred to this tick (the dragging mark).
func (a *App) runCosmetic() {
	pending := a.pendingCosmetic
	a.pendingCosmetic = nil
	for _, fn := range pending {
		fn()
	}
}

// cosmeticCmd schedules a tick when cosmetic work is pending.
func (a *App) cosmeticCmd() tea.Cmd {
	if len(a.pendingCosmetic) == 0 {
		return nil
	}
	return func() tea.Msg { return cosmeticTickMsg{} }
}

func (a *App) handleMouse(msg tea.MouseMsg) {
	view := a.boardView()
	boardY := msg.Y - boardTopRows

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		col, card, ok := view.CardAt(a.cols, msg.X, boardY)
		if !ok {
			return
		}
		a.cursor = render.Cursor{Column: col, Card: card}
		a.focus = focusBoard
		a.mouseDragging = true
		a.ctrl.DragStart(board.FormatID(a.cols[col].Cards[card].ID))

	case tea.MouseActionMotion:
		if !a.mouseDragging {
			return
		}
		if col, ok := view.ColumnAt(msg.X); ok {
			a.ctrl.DragOver(a.cols[col].Status)
		}

	case tea.MouseActionRelease:
		if !a.mouseDragging {
			return
		}
		a.mouseDragging = false
		if col, ok := view.ColumnAt(msg.X); ok {
			_ = a.ctrl.Drop(a.ctx, a.cols[col].Status)
		}
		a.ctrl.DragEnd()
	}
}

func (a *App) updateBoardScreen(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	if a.kbDragging {
		switch key {
		case "left", "h":
			if a.kbTarget > 0 {
				a.kbTarget--
			}
			a.ctrl.DragOver(a.cols[a.kbTarget].Status)
		case "right", "l":
			if a.kbTarget < 2 {
				a.kbTarget++
			}
			a.ctrl.DragOver(a.cols[a.kbTarget].Status)
		case "enter", " ":
			a.kbDragging = false
			_ = a.ctrl.Drop(a.ctx, a.cols[a.kbTarget].Status)
			a.ctrl.DragEnd()
		case "esc":
			a.kbDragging = false
			a.ctrl.DragEnd()
		}
		return nil
	}

	if a.focus == focusDesc || a.focus == focusAssignee {
		return a.updateIntake(msg)
	}

	switch key {
	case "q":
		return tea.Quit
	case "tab":
		a.setFocus(focusDesc)
	case "t":
		a.openTagUpScreen()
	case "left", "h":
		if a.cursor.Column > 0 {
			a.cursor.Column--
			a.clampCursor()
		}
	case "right", "l":
		if a.cursor.Column < 2 {
			a.cursor.Column++
			a.clampCursor()
		}
	case "up", "k":
		if a.cursor.Card > 0 {
			a.cursor.Card--
		}
	case "down", "j":
		a.cursor.Card++
		a.clampCursor()
	case " ", "enter":
		a.beginKeyboardDrag()
	}
	return nil
}

func (a *App) beginKeyboardDrag() {
	if len(a.cols) != 3 {
		return
	}
	cards := a.cols[a.cursor.Column].Cards
	if a.cursor.Card >= len(cards) {
		return
	}
	a.kbDragging = true
	a.kbTarget = a.cursor.Column
	a.ctrl.DragStart(board.FormatID(cards[a.cursor.Card].ID))
	a.ctrl.DragOver(a.cols[a.kbTarget].Status)
}

func (a *App) updateIntake(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		a.setFocus(focusBoard)
		return nil
	case "tab":
		if a.focus == focusDesc {
			a.setFocus(focusAssignee)
		} else {
			a.setFocus(focusBoard)
		}
		return nil
	case "enter":
		a.submitIntake()
		return nil
	}

	var cmd tea.Cmd
	if a.focus == focusDesc {
		a.descInput, cmd = a.descInput.Update(msg)
	} else {
		a.assigneeInput, cmd = a.assigneeInput.Update(msg)
	}
	return cmd
}

// submitIntake is the "add task" trigger. The inputs are cleared only
// when the save succeeded; a failed save leaves them intact.
func (a *App) submitIntake() {
	_, created, err := a.ctrl.AddTask(a.ctx, a.descInput.Value(), a.assigneeInput.Value())
	if err != nil {
		return
	}
	if created {
		a.descInput.SetValue("")
		a.assigneeInput.SetValue("")
	}
}

func (a *App) setFocus(f focusArea) {
	a.focus = f
	a.descInput.Blur()
	a.assigneeInput.Blur()
	switch f {
	case focusDesc:
		a.descInput.Focus()
	case focusAssignee:
		a.assigneeInput.Focus()
	}
}

func (a *App) openTagUpScreen() {
	a.screen = screenTagUp
	a.notice = ""
	a.errMsg = ""
	a.form.focusField(0)
}

func (a *App) updateTagUpScreen(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		a.screen = screenBoard
		a.setFocus(focusBoard)
		return nil
	case "tab", "down":
		a.form.next()
		return nil
	case "shift+tab", "up":
		a.form.prev()
		return nil
	case "enter":
		if !a.form.onLastField() {
			a.form.next()
			return nil
		}
		a.submitTagUp()
		return nil
	case "ctrl+s":
		a.submitTagUp()
		return nil
	}
	return a.form.update(msg)
}

// submitTagUp appends the submission and resets the form. On a failed
// save the form keeps its contents and the error shows in the footer.
func (a *App) submitTagUp() {
	if _, err := a.ctrl.SubmitTagUp(a.ctx, a.form.values()); err != nil {
		return
	}
	a.form.reset()
	a.screen = screenBoard
	a.setFocus(focusBoard)
}

// View renders the current screen.
func (a *App) View() string {
	if a.screen == screenTagUp {
		return a.renderTagUpScreen()
	}
	return a.renderBoardScreen()
}

func (a *App) renderBoardScreen() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		Render("⬡ TAG-UP BOARD")

	boardStr := a.boardView().Render(a.cols)

	sections := []string{title, "", boardStr, a.renderIntake(), a.renderFooter()}
	return strings.Join(sections, "\n")
}

func (a *App) renderIntake() string {
	label := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render("Add task")
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		a.descInput.View(), "  ", a.assigneeInput.View())
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(label + "\n" + row)
}

func (a *App) renderFooter() string {
	help := "tab: add task · t: tag-up · space: pick up/drop · q: quit"
	if a.kbDragging || a.mouseDragging {
		help = "h/l: choose column · enter: drop · esc: cancel"
	}

	line := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render(help)
	switch {
	case a.errMsg != "":
		line = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Render("✗ "+a.errMsg) + "\n" + line
	case a.notice != "":
		line = lipgloss.NewStyle().Foreground(lipgloss.Color("#5BD75B")).Render("✓ "+a.notice) + "\n" + line
	}
	return line
}

func (a *App) renderTagUpScreen() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		Render("⬡ DAILY TAG-UP")
	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Render("enter/tab: next field · ctrl+s: submit · esc: back to board")
	body := a.form.view()
	footer := ""
	if a.errMsg != "" {
		footer = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Render("✗ " + a.errMsg)
	}
	return strings.Join([]string{title, "", body, help, footer}, "\n")
}

// Intake returns the current intake field contents, for tests.
func (a *App) Intake() (desc, assignee string) {
	return a.descInput.Value(), a.assigneeInput.Value()
}

// Columns returns the current projection, for tests.
func (a *App) Columns() []render.Column {
	return a.cols
}
