// Package ask provides the question-answering view for the TUI.
package ask

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/components/input"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/components/list"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/components/status"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/keymap"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/messages"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/styles"
	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
)

// Focus identifies which part of the view receives keyboard input.
type Focus int

const (
	// FocusFile is the document path input.
	FocusFile Focus = iota
	// FocusQuestion is the question input.
	FocusQuestion
	// FocusAnswer is the answer display with navigable sources.
	FocusAnswer
)

// ActionMenu represents a simple action selection overlay.
type ActionMenu struct {
	actions  []string
	selected int
	visible  bool
	answer   *domain.Answer
}

// View represents the ask view with file and question inputs, an answer
// panel with its retrieved sources, and a status bar.
type View struct {
	styles        *styles.Styles
	keymap        *keymap.KeyMap
	fileInput     *input.TextInput
	questionInput *input.TextInput
	sources       *list.SourceList
	statusbar     *status.Bar

	answerService driving.AnswerService
	actionService driving.ResultActionService
	ctx           context.Context

	answer     *domain.Answer
	width      int
	height     int
	ready      bool
	err        error
	focus      Focus
	actionMenu *ActionMenu
}

// NewView creates a new ask view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	answerService driving.AnswerService,
	actionService driving.ResultActionService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	fileInput := input.NewTextInput(s, "File", "Path to a PDF or text file...")
	questionInput := input.NewTextInput(s, "Question", "Ask something about the document...")

	return &View{
		styles:        s,
		keymap:        km,
		fileInput:     fileInput,
		questionInput: questionInput,
		sources:       list.NewSourceList(s),
		statusbar:     status.NewBar(s, km),
		answerService: answerService,
		actionService: actionService,
		ctx:           context.Background(),
		width:         80,
		height:        24,
		ready:         false,
		focus:         FocusFile,
		actionMenu:    nil,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.fileInput.Focus(), v.fileInput.Init())
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerCompleted:
		v.handleAnswerCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	// Forward to the focused input component
	switch v.focus {
	case FocusFile:
		var cmd tea.Cmd
		v.fileInput, cmd = v.fileInput.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	case FocusQuestion:
		var cmd tea.Cmd
		v.questionInput, cmd = v.questionInput.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	case FocusAnswer:
		var cmd tea.Cmd
		v.sources, cmd = v.sources.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	return v, tea.Batch(cmds...)
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	// If action menu is visible, handle its keys
	if v.actionMenu != nil && v.actionMenu.visible {
		return v.handleActionMenuKey(msg)
	}

	// Esc always signals to go back to menu
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	// Tab cycles between the two inputs
	if msg.Type == tea.KeyTab && v.focus != FocusAnswer {
		if v.focus == FocusFile {
			return v, v.focusQuestion()
		}
		return v, v.focusFile()
	}

	switch v.focus {
	case FocusFile:
		if msg.Type == tea.KeyEnter {
			if v.fileInput.Value() == "" {
				return v, nil
			}
			return v, v.focusQuestion()
		}
		v.fileInput, _ = v.fileInput.Update(msg)
		return v, nil

	case FocusQuestion:
		if msg.Type == tea.KeyEnter {
			file := v.fileInput.Value()
			question := v.questionInput.Value()
			if file == "" || question == "" {
				return v, nil
			}
			v.statusbar.SetState(status.StateAsking)
			v.focus = FocusAnswer
			v.questionInput.Blur()
			return v, v.performAsk(file, question)
		}
		v.questionInput, _ = v.questionInput.Update(msg)
		return v, nil

	case FocusAnswer:
		return v.handleAnswerKey(msg)
	}

	return v, nil
}

// handleAnswerKey processes keyboard input in answer mode.
func (v *View) handleAnswerKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	// Enter opens the action menu on the answer
	if msg.Type == tea.KeyEnter {
		if v.answer != nil {
			v.actionMenu = &ActionMenu{
				actions:  []string{"Copy answer", "Open document", "Cancel"},
				selected: 0,
				visible:  true,
				answer:   v.answer,
			}
		}
		return v, nil
	}

	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyUp:
		v.sources.MoveUp()
		return v, nil
	case tea.KeyDown:
		v.sources.MoveDown()
		return v, nil
	}

	switch msg.String() {
	case "k":
		v.sources.MoveUp()
		return v, nil
	case "j":
		v.sources.MoveDown()
		return v, nil
	case "n":
		// New question against the same file
		v.focus = FocusQuestion
		v.questionInput.SetValue("")
		return v, v.questionInput.Focus()
	case "f":
		// Change file: clear both inputs
		return v, v.focusFile()
	}

	return v, nil
}

// handleActionMenuKey processes keyboard input when action menu is visible.
func (v *View) handleActionMenuKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyUp:
		if v.actionMenu.selected > 0 {
			v.actionMenu.selected--
		}
		return v, nil
	case tea.KeyDown:
		if v.actionMenu.selected < len(v.actionMenu.actions)-1 {
			v.actionMenu.selected++
		}
		return v, nil
	case tea.KeyEnter:
		action := v.actionMenu.actions[v.actionMenu.selected]
		answer := v.actionMenu.answer
		v.actionMenu = nil // Close menu
		return v.executeAction(action, answer)
	case tea.KeyEsc:
		v.actionMenu = nil // Close menu
		return v, nil
	default:
		// Handle other keys
	}

	// Handle vim-style navigation in action menu
	switch msg.String() {
	case "k":
		if v.actionMenu.selected > 0 {
			v.actionMenu.selected--
		}
		return v, nil
	case "j":
		if v.actionMenu.selected < len(v.actionMenu.actions)-1 {
			v.actionMenu.selected++
		}
		return v, nil
	}

	return v, nil
}

// executeAction performs the selected action on an answer.
func (v *View) executeAction(action string, answer *domain.Answer) (*View, tea.Cmd) {
	if answer == nil {
		return v, nil
	}

	switch action {
	case "Copy answer":
		if v.actionService != nil {
			err := v.actionService.CopyToClipboard(v.ctx, answer)
			if err != nil {
				v.statusbar.SetMessage("Copy: " + err.Error())
			} else {
				v.statusbar.SetMessage("Copied to clipboard")
			}
		} else {
			v.statusbar.SetMessage("Copy not available")
		}
	case "Open document":
		if v.actionService != nil {
			err := v.actionService.OpenFile(v.ctx, v.fileInput.Value())
			if err != nil {
				v.statusbar.SetMessage("Open: " + err.Error())
			} else {
				v.statusbar.SetMessage("Opening document...")
			}
		} else {
			v.statusbar.SetMessage("Open not available")
		}
	case "Cancel":
		// Do nothing, menu is already closed
	}

	return v, nil
}

// performAsk answers the question and returns the result.
func (v *View) performAsk(file, question string) tea.Cmd {
	return func() tea.Msg {
		if v.answerService == nil {
			return messages.ErrorOccurred{Err: ErrNoAnswerService}
		}

		answer, err := v.answerService.Ask(v.ctx, file, question, domain.AskOptions{})
		if err != nil {
			return messages.AnswerCompleted{Answer: nil, Err: err}
		}
		return messages.AnswerCompleted{Answer: answer, Err: nil}
	}
}

// handleAnswerCompleted processes an answer result.
func (v *View) handleAnswerCompleted(msg messages.AnswerCompleted) {
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		// Let the user retry the question
		v.focus = FocusQuestion
		v.questionInput.Focus()
		return
	}

	v.err = nil
	v.answer = msg.Answer
	v.sources.SetSources(msg.Answer.Sources)
	v.statusbar.SetState(status.StateAnswered)
	v.statusbar.SetSourceCount(len(msg.Answer.Sources))

	// Switch to answer mode after a successful ask
	v.focus = FocusAnswer
	v.questionInput.Blur()
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 12)

	// Header
	header := v.styles.Title.Render("DocChat")
	sections = append(sections, header, "")

	// Inputs
	sections = append(sections, v.fileInput.View(), v.questionInput.View(), "")

	// Error display
	if v.err != nil {
		errView := v.styles.Error.Render("Error: " + v.err.Error())
		sections = append(sections, errView, "")
	}

	// Answer panel
	if v.answer != nil {
		mode := v.styles.Muted.Render("[" + v.answer.Mode.String() + "]")
		sections = append(sections, v.styles.Subtitle.Render("Answer ")+mode)
		sections = append(sections, v.styles.Normal.Render(v.answer.Text), "")
	}

	// Retrieved sources
	sections = append(sections, v.sources.View())

	// Action menu overlay (if visible)
	if v.actionMenu != nil && v.actionMenu.visible {
		sections = append(sections, "", v.renderActionMenu())
	}

	// Status bar at bottom
	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderActionMenu renders the action menu overlay.
func (v *View) renderActionMenu() string {
	if v.actionMenu == nil {
		return ""
	}

	lines := make([]string, 0, len(v.actionMenu.actions))
	for i, action := range v.actionMenu.actions {
		indicator := "  "
		if i == v.actionMenu.selected {
			indicator = "> "
		}

		var line string
		if i == v.actionMenu.selected {
			line = v.styles.Selected.Render(indicator + action)
		} else {
			line = v.styles.Normal.Render(indicator + action)
		}
		lines = append(lines, line)
	}

	content := strings.Join(lines, "\n")

	// Wrap in a bordered box
	menuStyle := v.styles.Border.
		Padding(0, 1)

	return menuStyle.Render(content)
}

// focusFile moves focus to the file input.
func (v *View) focusFile() tea.Cmd {
	v.focus = FocusFile
	v.questionInput.Blur()
	return v.fileInput.Focus()
}

// focusQuestion moves focus to the question input.
func (v *View) focusQuestion() tea.Cmd {
	v.focus = FocusQuestion
	v.fileInput.Blur()
	return v.questionInput.Focus()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	// Allocate space to components
	v.fileInput.SetWidth(width)
	v.questionInput.SetWidth(width)
	v.sources.SetDimensions(width, height-14) // Reserve space for header, inputs, answer, status
	v.statusbar.SetWidth(width)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// File returns the current file path input.
func (v *View) File() string {
	return v.fileInput.Value()
}

// SetFile sets the file path input.
func (v *View) SetFile(file string) {
	v.fileInput.SetValue(file)
}

// Question returns the current question input.
func (v *View) Question() string {
	return v.questionInput.Value()
}

// SetQuestion sets the question input.
func (v *View) SetQuestion(question string) {
	v.questionInput.SetValue(question)
}

// Answer returns the current answer, if any.
func (v *View) Answer() *domain.Answer {
	return v.answer
}

// Sources returns the retrieved sources for the current answer.
func (v *View) Sources() []domain.RetrievedChunk {
	return v.sources.Sources()
}

// SelectedIndex returns the index of the selected source.
func (v *View) SelectedIndex() int {
	return v.sources.Selected()
}

// SelectedSource returns the currently selected source.
func (v *View) SelectedSource() *domain.RetrievedChunk {
	return v.sources.SelectedSource()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// ClearError clears the current error.
func (v *View) ClearError() {
	v.err = nil
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("")
}

// Reset resets the view to initial input mode.
func (v *View) Reset() {
	v.focus = FocusFile
	v.fileInput.Focus()
	v.questionInput.Blur()
	v.questionInput.SetValue("")
	v.answer = nil
	v.sources.SetSources(nil)
	v.err = nil
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("")
	v.statusbar.SetSourceCount(0)
}

// CurrentFocus returns which part of the view has focus.
func (v *View) CurrentFocus() Focus {
	return v.focus
}
