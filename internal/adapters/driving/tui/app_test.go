package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/messages"
	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
)

func newTestPorts() *Ports {
	return &Ports{
		Answer:   &MockAnswerService{},
		Document: &MockDocumentService{},
		Settings: &MockSettingsService{},
	}
}

func testAnswer() *domain.Answer {
	return &domain.Answer{
		Text: "Photosynthesis converts light into chemical energy.",
		Mode: domain.AnswerModeExtractive,
		Sources: []domain.RetrievedChunk{
			{Chunk: domain.Chunk{Position: 0, Content: "chunk one"}, Similarity: 0.91},
			{Chunk: domain.Chunk{Position: 1, Content: "chunk two"}, Similarity: 0.72},
		},
	}
}

// goToAskView navigates the app from menu to the ask view for testing.
func goToAskView(app *App) {
	app.SetDimensions(80, 24)
	// Send ViewChanged to go to the ask view (simulates selecting Ask from menu)
	app.Update(messages.ViewChanged{View: messages.ViewAsk})
}

func TestNewApp_Success(t *testing.T) {
	ports := newTestPorts()

	app, err := NewApp(ports)

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewMenu, app.CurrentView()) // Starts at menu
}

func TestNewApp_InvalidPorts(t *testing.T) {
	ports := &Ports{
		Answer:   nil,
		Document: &MockDocumentService{},
		Settings: &MockSettingsService{},
	}

	app, err := NewApp(ports)

	assert.Error(t, err)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")
	result := app.WithContext(ctx)

	assert.Equal(t, app, result)
}

func TestApp_Init(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	cmd := app.Init()

	// Init returns a batch command
	assert.NotNil(t, cmd)
}

func TestApp_Update_WindowSize(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	msg := tea.WindowSizeMsg{Width: 80, Height: 24}
	model, cmd := app.Update(msg)

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
}

func TestApp_Update_TypedQuestion(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	goToAskView(app)

	// Fill the file input and submit it to move focus to the question
	for _, r := range "doc.txt" {
		app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	// Type the question; it is synced from askView after key input
	for _, r := range "why" {
		app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	assert.Equal(t, "why", app.Question())
}

func TestApp_Update_AnswerCompleted(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	msg := messages.AnswerCompleted{Answer: testAnswer(), Err: nil}
	model, cmd := app.Update(msg)

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	require.NotNil(t, app.Answer())
	assert.Equal(t, domain.AnswerModeExtractive, app.Answer().Mode)
	assert.Equal(t, 0, app.SelectedIndex())
}

func TestApp_Update_AnswerCompleted_WithError(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	err := errors.New("ask failed")
	msg := messages.AnswerCompleted{Answer: nil, Err: err}
	model, cmd := app.Update(msg)

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.Error(t, app.Err())
}

func TestApp_Update_SourceNavigation(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	goToAskView(app)

	// An answer switches the ask view into source navigation mode
	app.Update(messages.AnswerCompleted{Answer: testAnswer()})

	msg := tea.KeyMsg{Type: tea.KeyDown}
	model, cmd := app.Update(msg)

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.Equal(t, 1, app.SelectedIndex())
}

func TestApp_Update_SourceNavigation_Vim(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	goToAskView(app)

	app.Update(messages.AnswerCompleted{Answer: testAnswer()})

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 1, app.SelectedIndex())

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 0, app.SelectedIndex())
}

func TestApp_Update_SourceNavigation_AtBoundary(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	goToAskView(app)

	app.Update(messages.AnswerCompleted{Answer: testAnswer()})

	// Already at index 0
	app.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, app.SelectedIndex())

	// Two sources: down twice stays at the last index
	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, app.SelectedIndex())
}

func TestApp_Update_ViewChanged(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	msg := messages.ViewChanged{View: messages.ViewHelp}
	model, cmd := app.Update(msg)

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
}

func TestApp_Update_ViewChanged_Documents(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	msg := messages.ViewChanged{View: messages.ViewDocuments}
	model, cmd := app.Update(msg)

	assert.Equal(t, app, model)
	// Documents view returns a load command on entry
	assert.NotNil(t, cmd)
	assert.Equal(t, messages.ViewDocuments, app.CurrentView())
}

func TestApp_Update_DocumentSelected(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)

	doc := domain.DocumentInfo{Filename: "report.pdf", Fingerprint: "abc123"}
	model, cmd := app.Update(messages.DocumentSelected{Document: doc})

	assert.Equal(t, app, model)
	// Selecting a document triggers a content load
	assert.NotNil(t, cmd)
	assert.Equal(t, messages.ViewDocContent, app.CurrentView())
}

func TestApp_Update_DocumentDetailsLoaded(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)

	details := &driving.DocumentDetails{
		Filename:    "report.pdf",
		Fingerprint: "abc123",
		ChunkCount:  3,
	}
	app.Update(messages.DocumentDetailsLoaded{Filename: "report.pdf", Details: details})

	assert.Equal(t, messages.ViewDocDetails, app.CurrentView())
}

func TestApp_Update_DocumentDetailsLoaded_Error(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	app.Update(messages.DocumentDetailsLoaded{Filename: "report.pdf", Err: errors.New("not found")})

	assert.Error(t, app.Err())
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_Update_ErrorOccurred(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	err := errors.New("something went wrong")
	msg := messages.ErrorOccurred{Err: err}
	model, cmd := app.Update(msg)

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.Error(t, app.Err())
}

func TestApp_Update_KeyMsg_Quit(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)

	// Test quit from menu view - 'q' should quit
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
	model, cmd := app.Update(msg)

	assert.Equal(t, app, model)
	// Quit returns tea.Quit
	assert.NotNil(t, cmd)
}

func TestApp_Update_KeyMsg_CtrlC(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	msg := tea.KeyMsg{Type: tea.KeyCtrlC}
	model, cmd := app.Update(msg)

	assert.Equal(t, app, model)
	assert.NotNil(t, cmd)
}

func TestApp_Update_KeyMsg_Escape(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)

	// Go to help view first
	app.Update(messages.ViewChanged{View: messages.ViewHelp})
	assert.Equal(t, messages.ViewHelp, app.CurrentView())

	// Press escape to go back to menu
	msg := tea.KeyMsg{Type: tea.KeyEsc}
	app.Update(msg)

	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_View_NotReady(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	view := app.View()

	assert.Contains(t, view, "Initialising")
}

func TestApp_View_AskView(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	goToAskView(app)

	view := app.View()

	assert.Contains(t, view, "File:")
	assert.Contains(t, view, "Question:")
}

func TestApp_View_HelpView(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)
	app.Update(messages.ViewChanged{View: messages.ViewHelp})

	view := app.View()

	assert.Contains(t, view, "Help")
	assert.Contains(t, view, "Navigation")
}

func TestApp_View_DocumentsView(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)
	app.Update(messages.ViewChanged{View: messages.ViewDocuments})

	view := app.View()

	assert.Contains(t, view, "Documents")
}

func TestApp_View_AnswerWithSources(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	goToAskView(app)

	app.Update(messages.AnswerCompleted{Answer: testAnswer()})

	view := app.View()

	assert.Contains(t, view, "Photosynthesis")
	assert.Contains(t, view, "Sources (2)")
}

func TestApp_SetDimensions(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	assert.False(t, app.Ready())

	app.SetDimensions(100, 50)

	assert.True(t, app.Ready())
}

func TestApp_Update_Quit_Message(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	model, cmd := app.Update(messages.Quit{})

	assert.Equal(t, app, model)
	assert.NotNil(t, cmd)
}
