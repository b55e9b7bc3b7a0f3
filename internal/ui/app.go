package ui

import (
	"context"
	"fmt"
	"log"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/murmurchat/murmur/internal/api"
	"github.com/murmurchat/murmur/internal/prefs"
	"github.com/murmurchat/murmur/internal/store"
)

// Options configures the chat UI.
type Options struct {
	Context   context.Context
	Client    *api.Client
	Store     *store.Store
	PrefsPath string
}

type focusArea int

const (
	focusChannels focusArea = iota
	focusCompose
)

const reactionEmoji = "👍"

// channelEntry is one sidebar row: a section heading when section is
// non-empty, a selectable channel otherwise.
type channelEntry struct {
	section string
	id      string
	name    string
}

type model struct {
	ctx       context.Context
	client    *api.Client
	store     *store.Store
	prefsPath string
	theme     Theme

	width  int
	height int
	ready  bool
	focus  focusArea

	server           *store.Server
	channelList      []channelEntry
	selectable       []string
	cursor           int
	currentChannelID string
	loaded           map[string]bool

	messages  []*store.ResolvedMessage
	roster    []*store.MemberView
	lastError error

	viewport viewport.Model
	input    textinput.Model
}

func newModel(opts Options) *model {
	p := prefs.Load(opts.PrefsPath)

	input := textinput.New()
	input.Placeholder = "Message"
	input.CharLimit = 4000
	input.Focus()

	m := &model{
		ctx:       opts.Context,
		client:    opts.Client,
		store:     opts.Store,
		prefsPath: opts.PrefsPath,
		theme:     GetTheme(p.Theme),
		focus:     focusCompose,
		loaded:    make(map[string]bool),
		input:     input,
	}
	m.refresh()
	return m
}

// Run starts the chat UI and blocks until the user quits or opts.Context
// is cancelled.
func Run(opts Options) error {
	return run(opts, tea.WithAltScreen())
}

func run(opts Options, programOpts ...tea.ProgramOption) error {
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	program := tea.NewProgram(newModel(opts), programOpts...)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, waitForChange(m.store)}
	if m.currentChannelID != "" && !m.loaded[m.currentChannelID] {
		m.loaded[m.currentChannelID] = true
		cmds = append(cmds, loadChannelMessages(m.ctx, m.client, m.store, m.currentChannelID))
	}
	return tea.Batch(cmds...)
}

// refresh re-reads every selector the view depends on. Selector results
// are memoized, so calling this on every change notification is cheap.
func (m *model) refresh() {
	servers := m.store.SelectServers()
	if m.server == nil && len(servers) > 0 {
		m.server = servers[0]
	}
	if m.server == nil {
		return
	}

	m.channelList = m.channelList[:0]
	m.selectable = m.selectable[:0]
	for _, section := range m.store.SelectServerChannelSections(m.server.ID) {
		m.channelList = append(m.channelList, channelEntry{section: section.Name})
		for _, id := range section.ChannelIDs {
			channel := m.store.SelectChannel(id)
			if channel == nil {
				continue
			}
			m.channelList = append(m.channelList, channelEntry{id: channel.ID, name: channel.Name})
			m.selectable = append(m.selectable, channel.ID)
		}
	}
	if m.currentChannelID == "" && len(m.selectable) > 0 {
		m.currentChannelID = m.selectable[0]
	}
	if m.cursor >= len(m.selectable) {
		m.cursor = max(0, len(m.selectable)-1)
	}

	if m.currentChannelID != "" {
		messages, err := m.store.SelectChannelMessages(m.currentChannelID)
		if err != nil {
			m.lastError = err
		} else {
			m.messages = messages
			m.lastError = nil
		}
		if channel := m.store.SelectChannel(m.currentChannelID); channel != nil && channel.Kind != "server" {
			m.roster = m.store.SelectChannelMembers(m.currentChannelID)
		} else {
			m.roster = m.store.SelectServerMembers(m.server.ID)
		}
	}
}

func (m *model) selectChannel(id string) tea.Cmd {
	m.currentChannelID = id
	m.refresh()
	m.syncViewport()
	if m.loaded[id] {
		return nil
	}
	m.loaded[id] = true
	return loadChannelMessages(m.ctx, m.client, m.store, id)
}

func (m *model) syncViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages(m.viewport.Width))
	m.viewport.GotoBottom()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		mainWidth := m.width - sidebarWidth - rosterWidth - 6
		mainHeight := m.height - 6
		if !m.ready {
			m.viewport = viewport.New(mainWidth, mainHeight)
			m.ready = true
		} else {
			m.viewport.Width = mainWidth
			m.viewport.Height = mainHeight
		}
		m.input.Width = mainWidth - 4
		m.syncViewport()
		return m, nil

	case storeChangedMsg:
		m.refresh()
		m.syncViewport()
		return m, waitForChange(m.store)

	case channelLoadedMsg:
		if msg.err != nil {
			m.lastError = fmt.Errorf("load channel: %w", msg.err)
		}
		return m, nil

	case sendDoneMsg:
		if msg.err != nil {
			m.lastError = fmt.Errorf("send message: %w", msg.err)
		}
		return m, nil

	case reactionDoneMsg:
		if msg.err != nil {
			m.lastError = fmt.Errorf("toggle reaction: %w", msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "tab":
		if m.focus == focusChannels {
			m.focus = focusCompose
			m.input.Focus()
		} else {
			m.focus = focusChannels
			m.input.Blur()
		}
		return m, nil

	case "ctrl+y":
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name}); err != nil {
			log.Printf("save prefs: %v", err)
		}
		m.syncViewport()
		return m, nil

	case "ctrl+t":
		user := m.store.LoggedInUser()
		if user == nil || len(m.messages) == 0 {
			return m, nil
		}
		last := m.messages[len(m.messages)-1]
		if last.Deleted || last.IsOptimistic {
			return m, nil
		}
		return m, toggleReaction(m.ctx, m.client, m.store, last, reactionEmoji, user.ID)
	}

	if m.focus == focusChannels {
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "j":
			if m.cursor < len(m.selectable)-1 {
				m.cursor++
			}
			return m, nil
		case "enter":
			if m.cursor < len(m.selectable) {
				return m, m.selectChannel(m.selectable[m.cursor])
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if msg.String() == "enter" {
		content := m.input.Value()
		if content == "" || m.currentChannelID == "" {
			return m, nil
		}
		user := m.store.LoggedInUser()
		channel := m.store.SelectChannel(m.currentChannelID)
		if user == nil || channel == nil {
			return m, nil
		}
		m.input.Reset()
		cmd := sendMessage(m.ctx, m.client, m.store, channel, user.ID, content)
		m.refresh()
		m.syncViewport()
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

const (
	sidebarWidth = 24
	rosterWidth  = 22
)

func (m *model) View() string {
	if !m.ready {
		return "loading..."
	}

	paneHeight := m.height - 4
	sidebar := m.renderSidebar(sidebarWidth, paneHeight)
	roster := m.renderRoster(rosterWidth, paneHeight)

	composer := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Accent).
		Width(m.viewport.Width).
		Render(m.input.View())

	main := lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), composer)
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main, roster)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatus(m.width))
}
