package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/gfacade/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/gfacade/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/gfacade/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/gfacade/internal/adapters/driving/tui/views/collections"
	"github.com/custodia-labs/gfacade/internal/adapters/driving/tui/views/item"
	"github.com/custodia-labs/gfacade/internal/adapters/driving/tui/views/items"
)

// App is the resource browser following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	styles *styles.Styles
	keys   *keymap.KeyMap

	collectionsView *collections.View
	itemsView       *items.View
	itemView        *item.View

	currentView messages.ViewType
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a browser over ports. ctx bounds every facade call.
func NewApp(ctx context.Context, ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	keys := keymap.DefaultKeyMap()
	return &App{
		ports:           ports,
		styles:          s,
		keys:            keys,
		collectionsView: collections.NewView(s, keys, ports.Facade),
		itemsView:       items.NewView(ctx, s, keys, ports.Facade),
		itemView:        item.NewView(ctx, s, keys, ports.Facade),
		currentView:     messages.ViewCollections,
	}, nil
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.collectionsView.Init()
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		if !a.typing() && keymap.Matches(msg.String(), a.keys.Quit) {
			return a, tea.Quit
		}

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.CollectionSelected:
		a.currentView = messages.ViewItems
		return a, a.itemsView.Open(msg.Ref)

	case messages.ItemSelected:
		a.currentView = messages.ViewItem
		return a, a.itemView.Open(msg.Ref, msg.ID)

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.ItemsLoaded, messages.ItemDeleted:
		var cmd tea.Cmd
		a.itemsView, cmd = a.itemsView.Update(msg)
		return a, cmd

	case messages.ItemLoaded:
		var cmd tea.Cmd
		a.itemView, cmd = a.itemView.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewCollections:
		a.collectionsView, cmd = a.collectionsView.Update(msg)
	case messages.ViewItems:
		a.itemsView, cmd = a.itemsView.Update(msg)
	case messages.ViewItem:
		a.itemView, cmd = a.itemView.Update(msg)
	}
	return a, cmd
}

// typing reports whether a text input owns the keyboard.
func (a *App) typing() bool {
	switch a.currentView {
	case messages.ViewCollections:
		return a.collectionsView.Prompting()
	case messages.ViewItems:
		return a.itemsView.Filtering()
	default:
		return false
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewItems:
		body = a.itemsView.View()
	case messages.ViewItem:
		body = a.itemView.View()
	default:
		body = a.collectionsView.View()
	}
	if a.err != nil {
		body += "\n" + a.styles.Error.Render(a.err.Error())
	}
	return body
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last reported error.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the terminal size is known.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.collectionsView.SetDimensions(width, height)
	a.itemsView.SetDimensions(width, height)
	a.itemView.SetDimensions(width, height)
}
