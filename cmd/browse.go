package cmd

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"modpack-launcher/events"
	"modpack-launcher/launcher"
	"modpack-launcher/logger"
	"modpack-launcher/modrinth"
	"modpack-launcher/session"
	"modpack-launcher/ui"
)

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactively search and install modpacks or mods",
	Long: `Launch an interactive browser over the Modrinth registry.
Type to search, navigate pages, and install entries into local instances.`,
	Run: func(cmd *cobra.Command, _ []string) {
		kind, _ := cmd.Flags().GetString("type")
		gameVersion, _ := cmd.Flags().GetString("game-version")
		runBrowse(kind, gameVersion)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().StringP("type", "t", "modpack", "Project type to browse: modpack or mod")
	browseCmd.Flags().StringP("game-version", "g", "", "Filter results to a Minecraft version")
}

// Message types delivered through the session callbacks
type searchResultMsg struct {
	page session.SearchPage
	err  error
}

type installStatusMsg struct {
	projectID string
	status    session.Status
}

type installProgressMsg struct {
	ev events.InstallProgress
}

type instancesRefreshMsg struct{}

type installDoneMsg struct {
	title    string
	instance string
	err      error
}

type favoritesLoadedMsg struct {
	ids map[string]bool
}

type galleryMsg struct {
	title string
	card  string
	count int
	err   error
}

type versionOptionsMsg []string

// browseModel is the state of the browse TUI.
type browseModel struct {
	sess   *launcherSession
	svc    *launcher.Service
	client *modrinth.Client

	input textinput.Model
	spin  spinner.Model

	kind           string
	page           session.SearchPage
	statuses       map[string]session.Status
	favorites      map[string]bool
	versionOptions []string
	progress       *events.InstallProgress
	searching      bool
	searchErr      string
	message        string
	selectedIndex  int
	instanceCount  int
	width          int
	height         int
}

// launcherSession bundles the orchestration session with the message channel
// its callbacks feed into.
type launcherSession struct {
	*session.Session
	msgs chan tea.Msg
}

func newLauncherSession(kind string, svc *launcher.Service, client session.Searcher, versions session.VersionSource, projects session.ProjectSource) *launcherSession {
	msgs := make(chan tea.Msg, 100) // Buffer slightly to avoid blocking
	ls := &launcherSession{msgs: msgs}

	ls.Session = session.New(session.Config{
		ProjectType: kind,
		Searcher:    client,
		Versions:    versions,
		Projects:    projects,
		Installer:   packInstaller{svc: svc},
		Downloader:  svc,
		Favorites:   launcher.FavoritesStore{},
		Bus:         svc.Bus(),
		Log:         logger.Log,
		OnSearch: func(page session.SearchPage, err error) {
			msgs <- searchResultMsg{page: page, err: err}
		},
		OnStatus: func(projectID string, status session.Status) {
			msgs <- installStatusMsg{projectID: projectID, status: status}
		},
		OnRefresh: func() {
			msgs <- instancesRefreshMsg{}
		},
		OnProgress: func(ev events.InstallProgress) {
			msgs <- installProgressMsg{ev: ev}
		},
	})
	return ls
}

func (m browseModel) waitForActivity() tea.Cmd {
	return func() tea.Msg {
		return <-m.sess.msgs
	}
}

func (m browseModel) loadFavorites() tea.Cmd {
	return func() tea.Msg {
		ids := make(map[string]bool)
		favorites, err := m.sess.Favorites.List()
		if err != nil {
			logger.Log.Warnw("Failed to load favorites", zap.Error(err))
			return favoritesLoadedMsg{ids: ids}
		}
		for _, fav := range favorites {
			ids[fav.ProjectID] = true
		}
		return favoritesLoadedMsg{ids: ids}
	}
}

func (m browseModel) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		textinput.Blink,
		m.waitForActivity(),
		m.loadFavorites(),
		m.countInstances(),
		m.loadVersionOptions(),
	)
}

// maxVersionOptions caps how many release versions the filter cycles through.
const maxVersionOptions = 15

func (m browseModel) loadVersionOptions() tea.Cmd {
	return func() tea.Msg {
		versions, err := m.client.SupportedGameVersions()
		if err != nil {
			logger.Log.Warnw("Failed to fetch supported game versions", zap.Error(err))
			return nil
		}
		if len(versions) > maxVersionOptions {
			versions = versions[:maxVersionOptions]
		}
		return versionOptionsMsg(versions)
	}
}

// nextVersionFilter cycles the game-version filter through the supported
// releases: unfiltered, then each version newest-first, then back to
// unfiltered.
func nextVersionFilter(current string, versions []string) string {
	for i, v := range versions {
		if v == current {
			if i+1 < len(versions) {
				return versions[i+1]
			}
			return ""
		}
	}
	if len(versions) > 0 {
		return versions[0]
	}
	return ""
}

func (m browseModel) countInstances() tea.Cmd {
	return func() tea.Msg {
		instances, err := m.svc.Instances()
		if err != nil {
			logger.Log.Warnw("Failed to list instances", zap.Error(err))
			return nil
		}
		return instanceCountMsg(len(instances))
	}
}

type instanceCountMsg int

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case searchResultMsg:
		m.searching = false
		if msg.err != nil {
			// Keep the last page visible, but say the refresh failed
			m.searchErr = fmt.Sprintf("Search failed: %v", msg.err)
		} else {
			m.searchErr = ""
			m.page = msg.page
			if m.selectedIndex >= len(m.page.Hits) {
				m.selectedIndex = 0
			}
		}
		return m, m.waitForActivity()

	case installStatusMsg:
		if msg.status == session.StatusIdle {
			delete(m.statuses, msg.projectID)
		} else {
			m.statuses[msg.projectID] = msg.status
		}
		return m, m.waitForActivity()

	case installProgressMsg:
		ev := msg.ev
		m.progress = &ev
		if ev.Progress >= 100 {
			m.progress = nil
			m.sess.Progress.Forget(ev.OpID)
		}
		return m, m.waitForActivity()

	case instancesRefreshMsg:
		return m, tea.Batch(m.countInstances(), m.waitForActivity())

	case instanceCountMsg:
		m.instanceCount = int(msg)

	case installDoneMsg:
		if msg.err != nil {
			m.message = ui.ErrorStyle.Render(fmt.Sprintf("Failed to install %s: %v", msg.title, msg.err))
		} else if msg.instance != "" {
			m.message = ui.SuccessStyle.Render(fmt.Sprintf("Installed %s as instance %q", msg.title, msg.instance))
		}

	case favoritesLoadedMsg:
		m.favorites = msg.ids

	case versionOptionsMsg:
		m.versionOptions = msg

	case galleryMsg:
		if msg.err != nil {
			m.message = ui.ErrorStyle.Render(fmt.Sprintf("Failed to load images for %s: %v", msg.title, msg.err))
		} else if msg.card == "" {
			m.message = fmt.Sprintf("%s has no images", msg.title)
		} else {
			m.message = fmt.Sprintf("%s: %d images, card %s", msg.title, msg.count, msg.card)
		}
	}
	return m, nil
}

func (m browseModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.sess.Close()
		return m, tea.Quit
	case "up":
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
		return m, nil
	case "down":
		if m.selectedIndex < len(m.page.Hits)-1 {
			m.selectedIndex++
		}
		return m, nil
	case "left", "pgup":
		if m.page.ShowPagination() && m.page.Page > 1 {
			m.selectedIndex = 0 // scroll resets before the new page loads
			m.searching = true
			m.sess.Search.SetPage(m.page.Page - 1)
		}
		return m, nil
	case "right", "pgdown":
		if m.page.ShowPagination() && m.page.Page < m.page.TotalPages() {
			m.selectedIndex = 0
			m.searching = true
			m.sess.Search.SetPage(m.page.Page + 1)
		}
		return m, nil
	case "enter":
		return m, m.installSelected()
	case "ctrl+f":
		return m, m.toggleFavorite()
	case "ctrl+g":
		return m, m.showGallery()
	case "ctrl+v":
		if len(m.versionOptions) > 0 {
			m.searching = true
			m.sess.Search.SetVersionFilter(nextVersionFilter(m.page.VersionFilter, m.versionOptions))
		}
		return m, nil
	}

	// Everything else edits the query
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.searching = true
	m.sess.Search.SetQuery(m.input.Value())
	return m, cmd
}

func (m browseModel) installSelected() tea.Cmd {
	if m.selectedIndex >= len(m.page.Hits) {
		return nil
	}
	hit := m.page.Hits[m.selectedIndex]
	if m.sess.Installs.Active(hit.ProjectID()) {
		return nil // already in flight
	}
	gameVersion := m.page.VersionFilter
	return func() tea.Msg {
		outcome, err := m.sess.Installs.InstallPack(hit, "", hit.Title, gameVersion)
		if err != nil {
			return installDoneMsg{title: hit.Title, err: err}
		}
		if outcome == nil {
			return nil // no-op: an install was already running
		}
		return installDoneMsg{title: hit.Title, instance: outcome.InstanceName}
	}
}

// showGallery resolves the selected project's gallery (cached after the first
// view) and surfaces its card image in the message line.
func (m browseModel) showGallery() tea.Cmd {
	if m.selectedIndex >= len(m.page.Hits) {
		return nil
	}
	hit := m.page.Hits[m.selectedIndex]
	return func() tea.Msg {
		gallery, err := m.sess.Gallery.Resolve(hit.ProjectID())
		if err != nil {
			return galleryMsg{title: hit.Title, err: err}
		}
		return galleryMsg{
			title: hit.Title,
			card:  session.CardImage(gallery, hit.IconURL),
			count: len(gallery),
		}
	}
}

func (m browseModel) toggleFavorite() tea.Cmd {
	if m.selectedIndex >= len(m.page.Hits) {
		return nil
	}
	hit := m.page.Hits[m.selectedIndex]
	return func() tea.Msg {
		err := m.sess.Favorites.Toggle(session.Favorite{
			ProjectID: hit.ProjectID(),
			Title:     hit.Title,
			IconURL:   hit.IconURL,
		})
		if err != nil {
			logger.Log.Warnw("Failed to toggle favorite", zap.String("title", hit.Title), zap.Error(err))
		}
		return m.loadFavorites()()
	}
}

func runBrowse(kind, gameVersion string) {
	if kind != "modpack" && kind != "mod" {
		fmt.Printf("Unknown project type %q (expected modpack or mod)\n", kind)
		return
	}

	cfg, client, svc, release := bootstrap(".")
	defer release()

	if gameVersion == "" {
		gameVersion = cfg.DefaultGameVersion
	}

	sess := newLauncherSession(kind, svc, client, client, client)
	if gameVersion != "" {
		sess.Search.SetVersionFilter(gameVersion)
	}
	sess.Search.Refresh() // initial page: empty query, most downloaded first

	input := textinput.New()
	input.Placeholder = "Search " + kind + "s..."
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := browseModel{
		sess:      sess,
		svc:       svc,
		client:    client,
		input:     input,
		spin:      spin,
		kind:      kind,
		statuses:  make(map[string]session.Status),
		favorites: make(map[string]bool),
		searching: true,
		width:     80,
		height:    24,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Log.Fatalw("Failed to run browser", zap.Error(err))
	}
}
