// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

// QuestionChanged is sent when the question input changes.
type QuestionChanged struct {
	Question string
}

// AskRequested is a command to answer a question against a document.
type AskRequested struct {
	File     string
	Question string
	Options  domain.AskOptions
}

// AnswerCompleted carries an answer back to the model.
type AnswerCompleted struct {
	Answer *domain.Answer
	Err    error
}

// SourceSelected is sent when a source chunk is selected.
type SourceSelected struct {
	Index int
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewAsk is the question input and answer view.
	ViewAsk
	// ViewDocuments lists stored documents.
	ViewDocuments
	// ViewHelp is the help/keybindings view.
	ViewHelp
	// ViewDocContent shows document content.
	ViewDocContent
	// ViewDocDetails shows document metadata.
	ViewDocDetails
	// ViewSettings is the settings configuration view.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewAsk:
		return "ask"
	case ViewDocuments:
		return "documents"
	case ViewHelp:
		return "help"
	case ViewDocContent:
		return "doc_content"
	case ViewDocDetails:
		return "doc_details"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// DocumentsLoaded carries the list of stored documents.
type DocumentsLoaded struct {
	Documents []domain.DocumentInfo
	Err       error
}

// DocumentSelected signals a document was selected.
type DocumentSelected struct {
	Document domain.DocumentInfo
}

// DocumentContentLoaded carries the content of a document.
type DocumentContentLoaded struct {
	Filename string
	Content  string
	Err      error
}

// DocumentDetailsLoaded carries the metadata of a document.
type DocumentDetailsLoaded struct {
	Filename string
	Details  interface{} // *driving.DocumentDetails
	Err      error
}

// DocumentRemoved signals a document was removed from the store.
type DocumentRemoved struct {
	Filename string
	Err      error
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}
