package tui

import "errors"

// ErrMissingAnswerService is returned when the answer service is not provided.
var ErrMissingAnswerService = errors.New("tui: answer service is required")

// ErrMissingDocumentService is returned when the document service is not provided.
var ErrMissingDocumentService = errors.New("tui: document service is required")

// ErrMissingSettingsService is returned when the settings service is not provided.
var ErrMissingSettingsService = errors.New("tui: settings service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
