package review

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lakshaymaurya-felt/sweeper/internal/clean"
	"github.com/lakshaymaurya-felt/sweeper/internal/rules"
)

// Run shows the review screen until the user quits. It returns the report
// of the deletion batch, or nil if the user deleted nothing.
func Run(ctx context.Context, cs []rules.Candidate, opts Options) (*clean.Report, error) {
	p := tea.NewProgram(New(cs, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("review: %w", err)
	}
	m, ok := final.(Model)
	if !ok {
		return nil, nil
	}
	return m.Report(), nil
}
