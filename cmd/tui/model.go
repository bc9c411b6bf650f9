package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Laisky/gitpress/internal/cms/model"
	"github.com/Laisky/gitpress/internal/cms/service"
)

// ViewState represents the current view of the admin console
type ViewState int

const (
	// ViewLoading posts are being fetched from the content repository
	ViewLoading ViewState = iota
	// ViewList the posts browser
	ViewList
	// ViewDetail one post with its rendered content
	ViewDetail
	// ViewConfirmDelete delete confirmation prompt
	ViewConfirmDelete
	// ViewError a failed operation
	ViewError
)

// PostItem adapts a post record to the list widget
type PostItem struct {
	post model.Post
}

// Title returns the list entry title (implements list.Item)
func (p PostItem) Title() string { return p.post.Title }

// Description returns the list entry description (implements list.Item)
func (p PostItem) Description() string {
	return fmt.Sprintf("%s · %s · %d views", p.post.Date, p.post.Category, p.post.Views)
}

// FilterValue returns the filter value (implements list.Item)
func (p PostItem) FilterValue() string { return p.post.Title }

type postsLoadedMsg struct {
	posts []model.Post
}

type opFailedMsg struct {
	err error
}

type postDeletedMsg struct {
	slug string
}

// Model is the admin console model following the Bubble Tea architecture
type Model struct {
	state ViewState

	posts *service.Posts

	postList list.Model
	spinner  spinner.Model

	// post shown in the detail / confirm views
	selected *model.Post

	err    error
	status string

	width  int
	height int

	quitting bool
}

type keyMap struct {
	Enter   key.Binding
	Back    key.Binding
	Delete  key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// NewModel create the admin console over the posts mutator.
func NewModel(posts *service.Posts) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(primaryColor).
		BorderForeground(primaryColor)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(accentColor)

	postList := list.New(nil, delegate, 0, 0)
	postList.Title = "gitpress posts"
	postList.SetShowStatusBar(false)
	postList.Styles.Title = titleStyle

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = labelStyle

	return Model{
		state:    ViewLoading,
		posts:    posts,
		postList: postList,
		spinner:  sp,
	}
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadPosts())
}

func (m Model) loadPosts() tea.Cmd {
	return func() tea.Msg {
		posts, err := m.posts.List(context.Background())
		if err != nil {
			return opFailedMsg{err: err}
		}

		return postsLoadedMsg{posts: posts}
	}
}

func (m Model) deletePost(slug string) tea.Cmd {
	return func() tea.Msg {
		if err := m.posts.Delete(context.Background(), slug); err != nil {
			return opFailedMsg{err: err}
		}

		return postDeletedMsg{slug: slug}
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.postList.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case ViewList:
			return m.handleListKeys(msg)
		case ViewDetail:
			return m.handleDetailKeys(msg)
		case ViewConfirmDelete:
			return m.handleConfirmKeys(msg)
		case ViewError:
			if key.Matches(msg, keys.Quit) {
				m.quitting = true
				return m, tea.Quit
			}
			m.state = ViewList
			m.err = nil
			return m, nil
		case ViewLoading:
			if key.Matches(msg, keys.Quit) {
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}

	case spinner.TickMsg:
		if m.state == ViewLoading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case postsLoadedMsg:
		items := make([]list.Item, 0, len(msg.posts))
		for _, p := range msg.posts {
			items = append(items, PostItem{post: p})
		}
		m.postList.SetItems(items)
		m.state = ViewList
		return m, nil

	case postDeletedMsg:
		m.status = fmt.Sprintf("deleted %s", msg.slug)
		m.selected = nil
		m.state = ViewLoading
		return m, tea.Batch(m.spinner.Tick, m.loadPosts())

	case opFailedMsg:
		m.err = msg.err
		m.state = ViewError
		return m, nil
	}

	if m.state == ViewList {
		m.postList, cmd = m.postList.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// let the list own the keys while its filter input is active
	if m.postList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.postList, cmd = m.postList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Enter):
		if item, ok := m.postList.SelectedItem().(PostItem); ok {
			post := item.post
			m.selected = &post
			m.state = ViewDetail
		}
		return m, nil

	case key.Matches(msg, keys.Delete):
		if item, ok := m.postList.SelectedItem().(PostItem); ok {
			post := item.post
			m.selected = &post
			m.state = ViewConfirmDelete
		}
		return m, nil

	case key.Matches(msg, keys.Refresh):
		m.posts.InvalidateCache()
		m.status = ""
		m.state = ViewLoading
		return m, tea.Batch(m.spinner.Tick, m.loadPosts())
	}

	var cmd tea.Cmd
	m.postList, cmd = m.postList.Update(msg)
	return m, cmd
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, keys.Back):
		m.selected = nil
		m.state = ViewList
	case key.Matches(msg, keys.Delete):
		m.state = ViewConfirmDelete
	}

	return m, nil
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if m.selected != nil {
			m.state = ViewLoading
			return m, tea.Batch(m.spinner.Tick, m.deletePost(m.selected.Slug))
		}
		m.state = ViewList
	case "n", "N", "esc":
		m.state = ViewList
		m.selected = nil
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case ViewLoading:
		return fmt.Sprintf("\n  %s loading posts...\n", m.spinner.View())

	case ViewList:
		view := m.postList.View()
		if m.status != "" {
			view += "\n" + successStyle.Render(m.status)
		}
		return view + "\n" + helpStyle.Render(
			"enter open · d delete · r refresh · / filter · q quit")

	case ViewDetail:
		return m.detailView()

	case ViewConfirmDelete:
		slug := ""
		if m.selected != nil {
			slug = m.selected.Slug
		}
		return m.detailView() + "\n" + confirmStyle.Render(
			fmt.Sprintf("delete %q? (y/n)", slug))

	case ViewError:
		return errorStyle.Render(fmt.Sprintf("\n  error: %v\n", m.err)) +
			helpStyle.Render("\npress any key to go back, q to quit")
	}

	return ""
}

func (m Model) detailView() string {
	if m.selected == nil {
		return ""
	}

	p := m.selected
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Title) + "\n")

	rows := [][2]string{
		{"slug", p.Slug},
		{"id", p.ID},
		{"date", p.Date},
		{"category", p.Category},
		{"author", p.Author},
		{"views", fmt.Sprintf("%d", p.Views)},
		{"featured", fmt.Sprintf("%t", p.Featured)},
		{"tags", strings.Join(p.Tags, ", ")},
	}
	for _, row := range rows {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%10s  ", row[0])))
		b.WriteString(valueStyle.Render(row[1]) + "\n")
	}

	excerpt := p.Excerpt
	if excerpt == "" {
		excerpt = service.Excerpt(p.Content, 300)
	}
	b.WriteString("\n" + valueStyle.Render(excerpt) + "\n")

	box := detailBoxStyle
	if m.width > 4 {
		box = box.Width(min(m.width-4, 100))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		box.Render(b.String()),
		helpStyle.Render("esc back · d delete · q quit"))
}
