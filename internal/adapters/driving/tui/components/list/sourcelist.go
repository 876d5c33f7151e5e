// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docchat-labs/docchat-cli/internal/adapters/driving/tui/styles"
	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

// SourceList displays retrieved source chunks in a navigable list.
type SourceList struct {
	sources  []domain.RetrievedChunk
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewSourceList creates a new source list component.
func NewSourceList(s *styles.Styles) *SourceList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &SourceList{
		sources:  nil,
		selected: 0,
		styles:   s,
		width:    80,
		height:   10,
	}
}

// Init initialises the source list.
func (r *SourceList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *SourceList) Update(msg tea.Msg) (*SourceList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			r.MoveUp()
		case tea.KeyDown:
			r.MoveDown()
		default:
			// Handle other keys
		}
		switch msg.String() {
		case "k":
			r.MoveUp()
		case "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the source list.
func (r *SourceList) View() string {
	if len(r.sources) == 0 {
		return r.styles.Muted.Render("No sources")
	}

	lines := make([]string, 0, len(r.sources)*2+2)

	// Header
	header := r.styles.Subtitle.Render(fmt.Sprintf("Sources (%d)", len(r.sources)))
	lines = append(lines, header, "")

	// Calculate visible range based on height.
	// Each source takes 2 lines (header + preview), so divide by 2.
	visibleCount := (r.height - 4) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.sources) {
		end = len(r.sources)
	}

	for i := start; i < end; i++ {
		line := r.renderSource(i, &r.sources[i])
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// renderSource formats a single retrieved chunk with preview text.
func (r *SourceList) renderSource(index int, source *domain.RetrievedChunk) string {
	// Indicator for selected item
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	label := fmt.Sprintf("Chunk %d", source.Chunk.Position+1)
	similarity := fmt.Sprintf("%.2f", source.Similarity)

	var headerLine string
	if index == r.selected {
		headerLine = r.styles.Selected.Render(fmt.Sprintf("%s%-12s  %s", indicator, label, similarity))
	} else {
		headerLine = r.styles.Normal.Render(fmt.Sprintf("%s%-12s  ", indicator, label)) +
			r.styles.Muted.Render(similarity)
	}

	// Truncate preview to fit width
	preview := source.Chunk.Content
	maxPreviewLen := r.width - 6
	if maxPreviewLen < 20 {
		maxPreviewLen = 20
	}
	if len(preview) > maxPreviewLen {
		preview = preview[:maxPreviewLen-3] + "..."
	}

	previewLine := r.styles.Muted.Render("    " + preview)

	return headerLine + "\n" + previewLine
}

// SetSources updates the source list.
func (r *SourceList) SetSources(sources []domain.RetrievedChunk) {
	r.sources = sources
	r.selected = 0
}

// Sources returns the current sources.
func (r *SourceList) Sources() []domain.RetrievedChunk {
	return r.sources
}

// Selected returns the index of the selected source.
func (r *SourceList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *SourceList) SetSelected(index int) {
	if index >= 0 && index < len(r.sources) {
		r.selected = index
	}
}

// SelectedSource returns the currently selected source, or nil if none.
func (r *SourceList) SelectedSource() *domain.RetrievedChunk {
	if len(r.sources) == 0 || r.selected < 0 || r.selected >= len(r.sources) {
		return nil
	}
	return &r.sources[r.selected]
}

// MoveUp moves selection up.
func (r *SourceList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *SourceList) MoveDown() {
	if r.selected < len(r.sources)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *SourceList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *SourceList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *SourceList) Height() int {
	return r.height
}

// Count returns the number of sources.
func (r *SourceList) Count() int {
	return len(r.sources)
}

// IsEmpty returns whether the list is empty.
func (r *SourceList) IsEmpty() bool {
	return len(r.sources) == 0
}
