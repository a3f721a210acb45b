// Package items provides the view paging through one collection.
package items

import (
	"context"
	"encoding/json"
	"errors"
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

// PageSize is the number of items fetched per page.
const PageSize = 25

// Row is the summary of one listed item.
type Row struct {
	ID    string
	Label string
}

// View lists the items of one collection, a page at a time.
type View struct {
	ctx    context.Context
	styles *styles.Styles
	keys   *keymap.KeyMap
	facade driving.FacadeService

	ref       domain.ResourceRef
	rows      []Row
	next      string
	filter    string
	filtering bool
	input     textinput.Model
	selected  int
	loading   bool
	err       error
	width     int
	height    int
}

// NewView creates an items view.
func NewView(ctx context.Context, s *styles.Styles, keys *keymap.KeyMap, facade driving.FacadeService) *View {
	in := textinput.New()
	in.Prompt = "/"
	in.CharLimit = 256
	return &View{ctx: ctx, styles: s, keys: keys, facade: facade, input: in}
}

// Open switches the view to ref and loads its first page.
func (v *View) Open(ref domain.ResourceRef) tea.Cmd {
	v.ref = ref
	v.filter = ""
	v.filtering = false
	return v.reload()
}

func (v *View) reload() tea.Cmd {
	v.rows = nil
	v.next = ""
	v.selected = 0
	v.err = nil
	v.loading = true
	return v.load("", false)
}

func (v *View) load(token string, appendPage bool) tea.Cmd {
	ref, filter := v.ref, v.filter
	return func() tea.Msg {
		if v.facade == nil {
			return messages.ItemsLoaded{Ref: ref, Err: errors.New("facade service not available")}
		}
		page, err := v.facade.List(v.ctx, ref, domain.ListOptions{
			PageSize:  PageSize,
			PageToken: token,
			Filter:    filter,
		})
		return messages.ItemsLoaded{Ref: ref, Page: page, Append: appendPage, Err: err}
	}
}

// Update handles messages for the items view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case tea.KeyMsg:
		if v.filtering {
			return v.handleFilter(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.ItemsLoaded:
		if msg.Ref != v.ref {
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		if !msg.Append {
			v.rows = nil
			v.selected = 0
		}
		if msg.Page != nil {
			for _, raw := range msg.Page.Items {
				v.rows = append(v.rows, Summarize(raw))
			}
			v.next = msg.Page.NextPageToken
		}

	case messages.ItemDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		return v, v.reload()
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
		if v.selected < len(v.rows)-1 {
			v.selected++
		}
	case keymap.Matches(k, v.keys.Top):
		v.selected = 0
	case keymap.Matches(k, v.keys.Bottom):
		v.selected = max(len(v.rows)-1, 0)
	case keymap.Matches(k, v.keys.Reload):
		return v, v.reload()
	case keymap.Matches(k, v.keys.NextPage):
		if v.next != "" && !v.loading {
			v.loading = true
			return v, v.load(v.next, true)
		}
	case keymap.Matches(k, v.keys.Filter):
		v.filtering = true
		v.input.SetValue(v.filter)
		return v, v.input.Focus()
	case keymap.Matches(k, v.keys.Select):
		if row, ok := v.current(); ok && row.ID != "" {
			ref := v.ref
			return v, func() tea.Msg { return messages.ItemSelected{Ref: ref, ID: row.ID} }
		}
	case keymap.Matches(k, v.keys.Delete):
		if row, ok := v.current(); ok && row.ID != "" {
			return v, v.delete(row.ID)
		}
	case keymap.Matches(k, v.keys.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewCollections} }
	}
	return v, nil
}

func (v *View) handleFilter(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.filtering = false
		v.input.Blur()
		return v, nil
	case tea.KeyEnter:
		v.filtering = false
		v.input.Blur()
		v.filter = strings.TrimSpace(v.input.Value())
		return v, v.reload()
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) delete(id string) tea.Cmd {
	ref := v.ref
	return func() tea.Msg {
		if v.facade == nil {
			return messages.ItemDeleted{ID: id, Err: errors.New("facade service not available")}
		}
		return messages.ItemDeleted{ID: id, Err: v.facade.Delete(v.ctx, ref, id)}
	}
}

func (v *View) current() (Row, bool) {
	if v.selected < 0 || v.selected >= len(v.rows) {
		return Row{}, false
	}
	return v.rows[v.selected], true
}

// View renders the items view.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render(v.ref.String()))
	if v.filter != "" {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  filter: %q", v.filter)))
	}
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n")
	case v.loading && len(v.rows) == 0:
		b.WriteString(v.styles.Muted.Render("Loading..."))
		b.WriteString("\n")
	case len(v.rows) == 0:
		b.WriteString(v.styles.Muted.Render("No items."))
		b.WriteString("\n")
	}

	for i, row := range v.visible() {
		b.WriteString(v.renderRow(i+v.offset(), row))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if v.filtering {
		b.WriteString(v.styles.Input.Render(v.input.View()))
		b.WriteString("\n")
		return b.String()
	}

	status := fmt.Sprintf("%d item(s)", len(v.rows))
	if v.next != "" {
		status += ", more available"
	}
	b.WriteString(v.styles.Status.Render(status))
	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render(keymap.HelpLine(
		v.keys.Select, v.keys.NextPage, v.keys.Filter, v.keys.Delete, v.keys.Reload, v.keys.Back,
	)))
	return b.String()
}

// listHeight is the number of rows that fit between the title and footer.
func (v *View) listHeight() int {
	if v.height <= 0 {
		return len(v.rows)
	}
	return max(v.height-7, 1)
}

func (v *View) offset() int {
	h := v.listHeight()
	if v.selected < h {
		return 0
	}
	return v.selected - h + 1
}

func (v *View) visible() []Row {
	start := v.offset()
	end := min(start+v.listHeight(), len(v.rows))
	if start >= end {
		return nil
	}
	return v.rows[start:end]
}

func (v *View) renderRow(index int, row Row) string {
	id := row.ID
	if id == "" {
		id = "(no id)"
	}
	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("> %-36s %s", id, row.Label))
	}
	return "  " + v.styles.Key.Render(fmt.Sprintf("%-36s ", id)) + v.styles.Normal.Render(row.Label)
}

// Summarize picks an id and a human label out of an item's JSON.
func Summarize(raw json.RawMessage) Row {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Row{Label: string(raw)}
	}
	return Row{
		ID:    firstString(fields, "id", "range"),
		Label: firstString(fields, "name", "title", "display_name", "email", "source"),
	}
}

func firstString(fields map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := fields[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Ref returns the open collection.
func (v *View) Ref() domain.ResourceRef {
	return v.ref
}

// Rows returns the loaded rows.
func (v *View) Rows() []Row {
	return v.rows
}

// NextPageToken returns the token of the next page, if any.
func (v *View) NextPageToken() string {
	return v.next
}

// Filter returns the active filter.
func (v *View) Filter() string {
	return v.filter
}

// SelectedIndex returns the highlighted row.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Filtering reports whether the filter input is open.
func (v *View) Filtering() bool {
	return v.filtering
}
