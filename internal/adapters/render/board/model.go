package board

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/foodfast-cli/internal/domain"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	orders        []domain.Order
	announcements []domain.Announcement
	opts          RenderOptions
	styles        styles
	output        string
}

func newModel(orders []domain.Order, announcements []domain.Announcement, opts RenderOptions) model {
	return model{
		orders:        orders,
		announcements: announcements,
		opts:          opts,
		styles:        newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = renderView(m.orders, m.announcements, m.opts, m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

// Render produces the one-shot order board for the current terminal.
func Render(orders []domain.Order, announcements []domain.Announcement, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newModel(orders, announcements, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
