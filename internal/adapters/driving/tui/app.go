package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/messages"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/styles"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/views/ask"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/views/doccontent"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/views/docdetails"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/views/documents"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/views/menu"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/views/settings"
	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// menuView is the main navigation menu.
	menuView *menu.View

	// askView is the question-answering view component.
	askView *ask.View

	// documentsView is the documents list view component.
	documentsView *documents.View

	// docContentView is the document content view component.
	docContentView *doccontent.View

	// docDetailsView is the document details view component.
	docDetailsView *docdetails.View

	// settingsView is the settings configuration view component.
	settingsView *settings.View

	// selectedDocument tracks the currently selected document for navigation.
	selectedDocument *domain.DocumentInfo

	// currentView tracks which view is active.
	currentView messages.ViewType

	// question is the current question (kept for accessor compatibility).
	question string

	// answer holds the current answer (kept for accessor compatibility).
	answer *domain.Answer

	// selectedIndex is the currently selected source (kept for accessor compatibility).
	selectedIndex int

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	menuView := menu.NewView(s)
	askView := ask.NewView(s, nil, ports.Answer, ports.ResultAction)
	documentsView := documents.NewView(s, ports.Document)
	docContentView := doccontent.NewView(s, ports.Document)
	docDetailsView := docdetails.NewView(s)
	settingsView := settings.NewView(s, ports.Settings)

	return &App{
		ports:          ports,
		ctx:            context.Background(),
		styles:         s,
		menuView:       menuView,
		askView:        askView,
		documentsView:  documentsView,
		docContentView: docContentView,
		docDetailsView: docDetailsView,
		settingsView:   settingsView,
		currentView:    messages.ViewMenu, // Start with menu
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.askView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("docchat - Document Q&A"),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		// Forward to all views for proper sizing
		a.menuView.SetDimensions(msg.Width, msg.Height)
		a.askView.SetDimensions(msg.Width, msg.Height)
		a.documentsView.SetDimensions(msg.Width, msg.Height)
		a.docContentView.SetDimensions(msg.Width, msg.Height)
		a.docDetailsView.SetDimensions(msg.Width, msg.Height)
		a.settingsView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Forward key messages to active view
		switch a.currentView {
		case messages.ViewMenu:
			a.menuView, cmd = a.menuView.Update(msg)
			return a, cmd

		case messages.ViewAsk:
			a.askView, cmd = a.askView.Update(msg)
			// Sync state from askView for accessor compatibility
			a.question = a.askView.Question()
			a.answer = a.askView.Answer()
			a.selectedIndex = a.askView.SelectedIndex()
			a.err = a.askView.Err()
			return a, cmd

		case messages.ViewDocuments:
			a.documentsView, cmd = a.documentsView.Update(msg)
			return a, cmd

		case messages.ViewDocContent:
			a.docContentView, cmd = a.docContentView.Update(msg)
			return a, cmd

		case messages.ViewDocDetails:
			a.docDetailsView, cmd = a.docDetailsView.Update(msg)
			return a, cmd

		case messages.ViewHelp:
			// Esc from help goes to menu
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
				return a, nil
			}
			return a, nil

		case messages.ViewSettings:
			a.settingsView, cmd = a.settingsView.Update(msg)
			return a, cmd
		}
		return a, nil

	case messages.AnswerCompleted:
		// Forward to askView
		a.askView, cmd = a.askView.Update(msg)
		// Sync state
		a.answer = a.askView.Answer()
		a.err = a.askView.Err()
		a.selectedIndex = 0
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		// Initialise views when switching to them
		switch msg.View {
		case messages.ViewAsk:
			a.askView.Reset()
			return a, a.askView.Init()
		case messages.ViewDocuments:
			return a, a.documentsView.Init()
		case messages.ViewSettings:
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewMenu, messages.ViewHelp,
			messages.ViewDocContent, messages.ViewDocDetails:
			// Other views don't need special initialisation
		}
		return a, nil

	case messages.DocumentsLoaded:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.DocumentSelected:
		// Navigate to document content
		a.selectedDocument = &msg.Document
		a.currentView = messages.ViewDocContent
		return a, a.docContentView.SetDocument(&msg.Document)

	case messages.DocumentContentLoaded:
		a.docContentView, cmd = a.docContentView.Update(msg)
		return a, cmd

	case messages.DocumentDetailsLoaded:
		if msg.Err != nil {
			a.err = msg.Err
		} else if details, ok := msg.Details.(*driving.DocumentDetails); ok {
			a.docDetailsView.SetDetails(details)
			a.currentView = messages.ViewDocDetails
		}
		return a, nil

	case messages.DocumentRemoved:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		// Forward to current view
		switch a.currentView {
		case messages.ViewAsk:
			a.askView, cmd = a.askView.Update(msg)
		case messages.ViewDocuments:
			a.documentsView, cmd = a.documentsView.Update(msg)
		case messages.ViewDocContent:
			a.docContentView, cmd = a.docContentView.Update(msg)
		case messages.ViewDocDetails:
			a.docDetailsView, cmd = a.docDetailsView.Update(msg)
		case messages.ViewMenu, messages.ViewHelp, messages.ViewSettings:
			// Other views don't handle error messages
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit

	case messages.SettingsLoaded, messages.SettingsSaved:
		// Forward to settings view
		if a.currentView == messages.ViewSettings {
			a.settingsView, cmd = a.settingsView.Update(msg)
			return a, cmd
		}
	}

	// Forward other messages to active view
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewAsk:
		a.askView, cmd = a.askView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewDocContent:
		a.docContentView, cmd = a.docContentView.Update(msg)
	case messages.ViewDocDetails:
		a.docDetailsView, cmd = a.docDetailsView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}

	return a, cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewAsk:
		return a.askView.View()
	case messages.ViewDocuments:
		return a.documentsView.View()
	case messages.ViewDocContent:
		return a.docContentView.View()
	case messages.ViewDocDetails:
		return a.docDetailsView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back to Menu
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Ask:
  (type)      Enter file path, then question
  tab         Switch between file and question
  enter       Submit
  esc         Back to Menu

Answer:
  j/k, ↑/↓    Navigate sources
  enter       Answer actions
  n           New question
  f           Change file
  esc         Back to Menu

Documents:
  j/k, ↑/↓    Navigate documents
  enter       Document actions
  r           Reload
  esc         Back to Menu

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Question returns the current question.
func (a *App) Question() string {
	return a.question
}

// Answer returns the current answer.
func (a *App) Answer() *domain.Answer {
	return a.answer
}

// SelectedIndex returns the currently selected source index.
func (a *App) SelectedIndex() int {
	return a.selectedIndex
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	// Also set askView dimensions so it renders properly
	a.askView.SetDimensions(width, height)
}
