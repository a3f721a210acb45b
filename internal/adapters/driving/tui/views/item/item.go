// Package item provides the view showing one item as JSON.
package item

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/gfacade/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/gfacade/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/gfacade/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/gfacade/internal/core/domain"
	"github.com/custodia-labs/gfacade/internal/core/ports/driving"
)

// View shows an item's JSON in a scrollable viewport.
type View struct {
	ctx    context.Context
	styles *styles.Styles
	keys   *keymap.KeyMap
	facade driving.FacadeService

	ref      domain.ResourceRef
	id       string
	content  string
	viewport viewport.Model
	loading  bool
	err      error
}

// NewView creates an item view.
func NewView(ctx context.Context, s *styles.Styles, keys *keymap.KeyMap, facade driving.FacadeService) *View {
	return &View{ctx: ctx, styles: s, keys: keys, facade: facade, viewport: viewport.New(80, 20)}
}

// Open loads the item id of ref.
func (v *View) Open(ref domain.ResourceRef, id string) tea.Cmd {
	v.ref, v.id = ref, id
	v.content = ""
	v.err = nil
	v.loading = true
	v.viewport.SetContent("")
	v.viewport.GotoTop()
	return func() tea.Msg {
		if v.facade == nil {
			return messages.ItemLoaded{ID: id, Err: errors.New("facade service not available")}
		}
		raw, err := v.facade.Get(v.ctx, ref, id)
		return messages.ItemLoaded{ID: id, JSON: raw, Err: err}
	}
}

// Update handles messages for the item view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.ItemLoaded:
		if msg.ID != v.id {
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.content = indent(msg.JSON)
		v.viewport.SetContent(v.content)
		return v, nil

	case tea.KeyMsg:
		k := msg.String()
		switch {
		case keymap.Matches(k, v.keys.Back):
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewItems} }
		case keymap.Matches(k, v.keys.Top):
			v.viewport.GotoTop()
			return v, nil
		case keymap.Matches(k, v.keys.Bottom):
			v.viewport.GotoBottom()
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

func indent(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// View renders the item view.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render(fmt.Sprintf("%s / %s", v.ref.String(), v.id)))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n")
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading..."))
		b.WriteString("\n")
	default:
		b.WriteString(v.viewport.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Status.Render(fmt.Sprintf("%3.f%%", v.viewport.ScrollPercent()*100)))
		b.WriteString("\n")
	}

	b.WriteString(v.styles.Help.Render(keymap.HelpLine(v.keys.Up, v.keys.Down, v.keys.Top, v.keys.Bottom, v.keys.Back)))
	return b.String()
}

// SetDimensions sizes the viewport, leaving room for the title and footer.
func (v *View) SetDimensions(width, height int) {
	v.viewport.Width = width
	v.viewport.Height = max(height-6, 1)
}

// ID returns the open item id.
func (v *View) ID() string {
	return v.id
}

// Content returns the indented JSON.
func (v *View) Content() string {
	return v.content
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
