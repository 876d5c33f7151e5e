package doccontent

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/messages"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/styles"
	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
)

// MockDocumentService implements driving.DocumentService for testing.
type MockDocumentService struct {
	ListFunc       func(ctx context.Context) ([]domain.DocumentInfo, error)
	GetFunc        func(ctx context.Context, filename string) (*domain.Document, error)
	GetContentFunc func(ctx context.Context, filename string) (string, error)
	GetDetailsFunc func(ctx context.Context, filename string) (*driving.DocumentDetails, error)
	RemoveFunc     func(ctx context.Context, filename string) error
	OpenFunc       func(ctx context.Context, filename string) error
}

func (m *MockDocumentService) List(ctx context.Context) ([]domain.DocumentInfo, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []domain.DocumentInfo{}, nil
}

func (m *MockDocumentService) Get(ctx context.Context, filename string) (*domain.Document, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, filename)
	}
	return nil, nil
}

func (m *MockDocumentService) GetContent(ctx context.Context, filename string) (string, error) {
	if m.GetContentFunc != nil {
		return m.GetContentFunc(ctx, filename)
	}
	return "", nil
}

func (m *MockDocumentService) GetDetails(ctx context.Context, filename string) (*driving.DocumentDetails, error) {
	if m.GetDetailsFunc != nil {
		return m.GetDetailsFunc(ctx, filename)
	}
	return &driving.DocumentDetails{Filename: filename}, nil
}

func (m *MockDocumentService) Remove(ctx context.Context, filename string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, filename)
	}
	return nil
}

func (m *MockDocumentService) Open(ctx context.Context, filename string) error {
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, filename)
	}
	return nil
}

func testDocument() *domain.DocumentInfo {
	return &domain.DocumentInfo{
		ID:          1,
		Filename:    "/docs/report.pdf",
		Fingerprint: "aabbccddeeff00112233",
		ChunkCount:  12,
	}
}

func TestNewView(t *testing.T) {
	s := styles.DefaultStyles()
	mock := &MockDocumentService{}

	view := NewView(s, mock)

	require.NotNil(t, view)
	assert.Nil(t, view.Document())
	assert.Equal(t, "", view.Content())
}

func TestView_Init(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)

	cmd := view.Init()

	assert.Nil(t, cmd)
}

func TestView_SetDocument_LoadsContent(t *testing.T) {
	contentCalled := false
	mock := &MockDocumentService{
		GetContentFunc: func(ctx context.Context, filename string) (string, error) {
			contentCalled = true
			assert.Equal(t, "/docs/report.pdf", filename)
			return "extracted text", nil
		},
	}
	view := NewView(styles.DefaultStyles(), mock)

	cmd := view.SetDocument(testDocument())

	require.NotNil(t, cmd)
	result := cmd()
	msg, ok := result.(messages.DocumentContentLoaded)
	require.True(t, ok)
	assert.True(t, contentCalled)
	assert.Equal(t, "/docs/report.pdf", msg.Filename)
	assert.Equal(t, "extracted text", msg.Content)
	assert.NoError(t, msg.Err)
}

func TestView_SetDocument_ResetsState(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)
	view.content = "old content"
	view.scrollOffset = 5
	view.err = errors.New("old error")

	view.SetDocument(testDocument())

	assert.Equal(t, "", view.Content())
	assert.Equal(t, 0, view.scrollOffset)
	assert.Nil(t, view.Err())
}

func TestView_SetDocument_NoService(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)

	cmd := view.SetDocument(testDocument())

	require.NotNil(t, cmd)
	result := cmd()
	msg, ok := result.(messages.DocumentContentLoaded)
	require.True(t, ok)
	assert.Error(t, msg.Err)
}

func TestView_Update_WindowSize(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)

	msg := tea.WindowSizeMsg{Width: 100, Height: 50}
	updated, cmd := view.Update(msg)

	assert.Equal(t, view, updated)
	assert.Nil(t, cmd)
	assert.Equal(t, 100, view.width)
	assert.Equal(t, 50, view.height)
	assert.True(t, view.ready)
}

func TestView_Update_ContentLoaded(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)
	view.SetDimensions(80, 24)
	view.document = testDocument()

	msg := messages.DocumentContentLoaded{
		Filename: "/docs/report.pdf",
		Content:  "line one\nline two\nline three",
	}
	updated, cmd := view.Update(msg)

	assert.Equal(t, view, updated)
	assert.Nil(t, cmd)
	assert.Equal(t, "line one\nline two\nline three", view.Content())
	assert.Len(t, view.lines, 3)
	assert.NoError(t, view.Err())
}

func TestView_Update_ContentLoaded_WithError(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)
	view.SetDimensions(80, 24)

	err := errors.New("content not found")
	msg := messages.DocumentContentLoaded{Filename: "/docs/report.pdf", Err: err}
	view.Update(msg)

	assert.Error(t, view.Err())
}

func TestView_Update_ErrorOccurred(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)

	err := errors.New("something went wrong")
	view.Update(messages.ErrorOccurred{Err: err})

	assert.Error(t, view.Err())
}

func TestView_Update_KeyEsc_BackToDocuments(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)

	msg := tea.KeyMsg{Type: tea.KeyEsc}
	_, cmd := view.Update(msg)

	require.NotNil(t, cmd)
	result := cmd()
	changed, ok := result.(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewDocuments, changed.View)
}

func loadLongContent(v *View, lines int) {
	parts := make([]string, lines)
	for i := range parts {
		parts[i] = "content line"
	}
	v.Update(messages.DocumentContentLoaded{
		Filename: "/docs/report.pdf",
		Content:  strings.Join(parts, "\n"),
	})
}

func TestView_Scrolling_Down(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)
	view.SetDimensions(80, 16) // 10 visible lines
	loadLongContent(view, 30)

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 1, view.scrollOffset)

	view.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, view.scrollOffset)
}

func TestView_Scrolling_Up(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)
	view.SetDimensions(80, 16)
	loadLongContent(view, 30)
	view.scrollOffset = 5

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 4, view.scrollOffset)

	view.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 3, view.scrollOffset)
}

func TestView_Scrolling_Up_AtTop(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)
	view.SetDimensions(80, 16)
	loadLongContent(view, 30)

	view.Update(tea.KeyMsg{Type: tea.KeyUp})

	assert.Equal(t, 0, view.scrollOffset)
}

func TestView_Scrolling_Down_AtBottom(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)
	view.SetDimensions(80, 16)
	loadLongContent(view, 30)
	view.scrollOffset = view.maxScrollOffset()

	view.Update(tea.KeyMsg{Type: tea.KeyDown})

	assert.Equal(t, view.maxScrollOffset(), view.scrollOffset)
}

func TestView_Scrolling_PageDown(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)
	view.SetDimensions(80, 16)
	loadLongContent(view, 50)

	view.Update(tea.KeyMsg{Type: tea.KeyCtrlD})

	assert.Equal(t, view.visibleLines(), view.scrollOffset)
}

func TestView_Scrolling_PageUp(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)
	view.SetDimensions(80, 16)
	loadLongContent(view, 50)
	view.scrollOffset = 20

	view.Update(tea.KeyMsg{Type: tea.KeyCtrlU})

	assert.Equal(t, 20-view.visibleLines(), view.scrollOffset)
}

func TestView_Scrolling_Home(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)
	view.SetDimensions(80, 16)
	loadLongContent(view, 50)
	view.scrollOffset = 20

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})

	assert.Equal(t, 0, view.scrollOffset)
}

func TestView_Scrolling_End(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)
	view.SetDimensions(80, 16)
	loadLongContent(view, 50)

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})

	assert.Equal(t, view.maxScrollOffset(), view.scrollOffset)
}

func TestView_WrapContent_LongLines(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)
	view.SetDimensions(44, 24) // Content width 40

	longLine := strings.Repeat("x", 100)
	view.Update(messages.DocumentContentLoaded{Filename: "/docs/report.pdf", Content: longLine})

	// 100 chars wrapped at 40 produces 3 lines
	assert.Len(t, view.lines, 3)
}

func TestView_WrapContent_Empty(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)
	view.SetDimensions(80, 24)

	view.Update(messages.DocumentContentLoaded{Filename: "/docs/report.pdf", Content: ""})

	assert.Empty(t, view.lines)
}

func TestView_View_Title(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)
	view.SetDimensions(80, 24)
	view.document = testDocument()

	output := view.View()

	assert.Contains(t, output, "/docs/report.pdf")
}

func TestView_View_NoDocument(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)
	view.SetDimensions(80, 24)

	output := view.View()

	assert.Contains(t, output, "Document Content")
	assert.Contains(t, output, "(No content)")
}

func TestView_View_Loading(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)
	view.SetDimensions(80, 24)
	view.loading = true

	output := view.View()

	assert.Contains(t, output, "Loading content")
}

func TestView_View_WithError(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)
	view.SetDimensions(80, 24)
	view.err = errors.New("content not found")

	output := view.View()

	assert.Contains(t, output, "Error")
	assert.Contains(t, output, "content not found")
}

func TestView_View_WithContent(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)
	view.SetDimensions(80, 24)
	view.document = testDocument()
	view.Update(messages.DocumentContentLoaded{
		Filename: "/docs/report.pdf",
		Content:  "Photosynthesis is the process used by plants.",
	})

	output := view.View()

	assert.Contains(t, output, "Photosynthesis")
}

func TestView_View_ScrollIndicator(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)
	view.SetDimensions(80, 16)
	loadLongContent(view, 50)

	output := view.View()

	assert.Contains(t, output, "Line 1-")
	assert.Contains(t, output, "of 50")
}

func TestView_SetDimensions_Rewraps(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)
	view.SetDimensions(44, 24)
	longLine := strings.Repeat("x", 100)
	view.Update(messages.DocumentContentLoaded{Filename: "/docs/report.pdf", Content: longLine})
	assert.Len(t, view.lines, 3)

	// Wider terminal means fewer wrapped lines
	view.SetDimensions(104, 24)

	assert.Len(t, view.lines, 1)
}

func TestView_Document(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)
	doc := testDocument()
	view.SetDocument(doc)

	assert.Equal(t, doc, view.Document())
}
