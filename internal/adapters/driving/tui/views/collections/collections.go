// Package collections provides the view listing registered resource
// collections.
package collections

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/gfacade/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/gfacade/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/gfacade/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/gfacade/internal/core/domain"
	"github.com/custodia-labs/gfacade/internal/core/ports/driving"
)

// View lists every collection the facade serves. Collections that need a
// parent prompt for it before opening.
type View struct {
	styles *styles.Styles
	keys   *keymap.KeyMap
	facade driving.FacadeService

	infos     []domain.ResourceInfo
	selected  int
	prompting bool
	parent    textinput.Model
	width     int
	height    int
}

// NewView creates a collections view.
func NewView(s *styles.Styles, keys *keymap.KeyMap, facade driving.FacadeService) *View {
	in := textinput.New()
	in.Prompt = "parent: "
	in.CharLimit = 512
	return &View{styles: s, keys: keys, facade: facade, parent: in}
}

// Init loads the registry.
func (v *View) Init() tea.Cmd {
	if v.facade != nil {
		v.infos = v.facade.Resources()
	}
	return nil
}

// Update handles messages for the collections view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		if v.prompting {
			return v.handlePrompt(msg)
		}
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keys.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(k, v.keys.Down):
		if v.selected < len(v.infos)-1 {
			v.selected++
		}
	case keymap.Matches(k, v.keys.Select):
		if v.selected >= len(v.infos) {
			return v, nil
		}
		info := v.infos[v.selected]
		if info.RequiresParent {
			v.prompting = true
			v.parent.SetValue("")
			return v, v.parent.Focus()
		}
		return v, selected(info.Ref)
	}
	return v, nil
}

func (v *View) handlePrompt(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.prompting = false
		v.parent.Blur()
		return v, nil
	case tea.KeyEnter:
		parent := strings.TrimSpace(v.parent.Value())
		if parent == "" {
			return v, nil
		}
		v.prompting = false
		v.parent.Blur()
		ref := v.infos[v.selected].Ref
		ref.Parent = parent
		return v, selected(ref)
	}
	var cmd tea.Cmd
	v.parent, cmd = v.parent.Update(msg)
	return v, cmd
}

func selected(ref domain.ResourceRef) tea.Cmd {
	return func() tea.Msg {
		return messages.CollectionSelected{Ref: ref}
	}
}

// View renders the collections view.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Collections"))
	b.WriteString("\n\n")

	if len(v.infos) == 0 {
		b.WriteString(v.styles.Muted.Render("No collections registered."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	for i, info := range v.infos {
		b.WriteString(v.renderInfo(i, info))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if v.prompting {
		b.WriteString(v.styles.Input.Render(v.parent.View()))
		b.WriteString("\n")
		b.WriteString(v.styles.Help.Render("[enter] open  [esc] cancel"))
		return b.String()
	}
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderInfo(index int, info domain.ResourceInfo) string {
	key := info.Ref.Key()
	if info.RequiresParent {
		key += " *"
	}
	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("> %-28s %s", key, info.Description))
	}
	return "  " + v.styles.Key.Render(fmt.Sprintf("%-28s ", key)) + v.styles.Muted.Render(info.Description)
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render(keymap.HelpLine(v.keys.Select, v.keys.Quit) + "  (* needs a parent)")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Collections returns the listed collections.
func (v *View) Collections() []domain.ResourceInfo {
	return v.infos
}

// SelectedIndex returns the highlighted row.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Prompting reports whether the parent prompt is open.
func (v *View) Prompting() bool {
	return v.prompting
}
