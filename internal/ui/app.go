package ui

import (
	"errors"
	"strconv"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"havencli/internal/api"
	"havencli/internal/common"
	"havencli/internal/models"
)

// route identifies the active screen.
type route int

const (
	routeHome route = iota
	routeFeed
	routeCompose
	routeComments
	routeNotifications
)

// feedPageSize is how many posts one feed request asks for.
const feedPageSize = 20

// socketOpenedMsg delivers the notification stream once dialed, or the
// dial failure.
type socketOpenedMsg struct {
	socket *api.NotificationSocket
	err    error
}

// App is the root model. It owns routing, the auth dialog overlay, and
// the notification socket lifecycle; the per-screen models own the rest.
type App struct {
	deps  *Deps
	theme Theme

	route         route
	home          HomeView
	feedView      FeedView
	compose       *PostForm
	comments      CommentsView
	notifications NotificationsView
	auth          AuthDialog

	socket   *api.NotificationSocket
	baseURL  string
	signedIn bool

	availableTags []models.Tag
	width, height int
}

// NewApp assembles the root model.
func NewApp(deps *Deps, baseURL string) *App {
	theme := DefaultTheme
	app := &App{
		deps:     deps,
		theme:    theme,
		home:     NewHomeView(theme),
		feedView: NewFeedView(deps, theme, feedPageSize),
		auth:     NewAuthDialog(deps, theme),
		baseURL:  baseURL,
	}
	app.comments = NewCommentsView(deps, theme, app.feedView.State())
	app.notifications = NewNotificationsView(deps, theme)
	return app
}

// Init restores any persisted session before the first paint.
func (a *App) Init() tea.Cmd {
	return a.deps.hydrateCmd()
}

// Update is the single message dispatcher.
func (a *App) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.feedView.SetSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case hydrateDoneMsg:
		if msg.restored {
			return a, a.enterSignedIn()
		}
		return a, nil

	case authDoneMsg:
		if a.auth.HandleAuthResult(msg) {
			return a, a.afterSignIn()
		}
		// Registration authenticates before its dialog finishes; start
		// the signed-in plumbing early so the feed is warm.
		if msg.mode == authRegister && msg.err == nil {
			return a, a.enterSignedIn()
		}
		return a, nil

	case feedPageMsg:
		a.feedView.HandlePage(msg)
		if a.sessionExpired(msg.err) {
			return a, nil
		}
		return a, nil

	case postCreatedMsg:
		if a.compose != nil {
			if post, ok := a.compose.HandleResult(msg); ok {
				a.feedView.State().Prepend(post)
				a.compose = nil
				a.route = routeFeed
			}
		}
		a.sessionExpired(msg.err)
		return a, nil

	case voteDoneMsg:
		a.feedView.HandleVoteDone(msg)
		a.sessionExpired(msg.err)
		return a, nil

	case saveDoneMsg:
		a.feedView.HandleSaveDone(msg)
		a.sessionExpired(msg.err)
		return a, nil

	case reportDoneMsg:
		a.feedView.HandleReportDone(msg)
		a.sessionExpired(msg.err)
		return a, nil

	case urgencyDoneMsg:
		if msg.err == nil {
			a.feedView.State().ReplacePost(msg.post)
		}
		a.sessionExpired(msg.err)
		return a, nil

	case commentsLoadedMsg:
		a.comments.HandleLoaded(msg)
		a.sessionExpired(msg.err)
		return a, nil

	case commentCreatedMsg:
		a.comments.HandleCreated(msg)
		a.sessionExpired(msg.err)
		return a, nil

	case commentLikeDoneMsg:
		a.comments.HandleLikeDone(msg)
		a.sessionExpired(msg.err)
		return a, nil

	case popularTagsLoadedMsg:
		if msg.err == nil {
			a.feedView.SetPopularTags(msg.tags)
		}
		return a, nil

	case tagsLoadedMsg:
		if msg.err == nil {
			a.availableTags = msg.tags
			if a.compose != nil {
				a.compose.SetAvailableTags(msg.tags)
			}
		}
		return a, nil

	case tagCreatedMsg:
		if a.compose != nil {
			a.compose.HandleTagCreated(msg)
		}
		a.sessionExpired(msg.err)
		return a, nil

	case notificationsLoadedMsg:
		a.notifications.HandleLoaded(msg)
		a.sessionExpired(msg.err)
		return a, nil

	case notificationReadMsg:
		cmd := a.notifications.HandleReadDone(msg)
		a.sessionExpired(msg.err)
		return a, cmd

	case socketOpenedMsg:
		if msg.err != nil {
			// Live updates are an enhancement; the panel still works
			// through explicit loads.
			a.deps.Log.Warn(a.deps.ctx, "notification stream unavailable", "err", msg.err.Error())
			return a, nil
		}
		a.socket = msg.socket
		return a, a.listenSocket()

	case socketEventMsg:
		a.notifications.HandleSocketEvent(msg)
		return a, a.listenSocket()

	case socketClosedMsg:
		a.socket = nil
		if msg.err != nil {
			a.deps.Log.Warn(a.deps.ctx, "notification stream closed", "err", msg.err.Error())
		}
		return a, nil

	case spinner.TickMsg:
		return a, a.feedView.HandleSpinner(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}

	if a.auth.Visible() {
		cmd, _ := a.auth.Update(msg)
		if a.auth.RegistrationFinished() {
			a.auth.Hide()
			return a, a.afterSignIn()
		}
		return a, cmd
	}

	switch a.route {
	case routeHome:
		switch msg.String() {
		case "q":
			return a, tea.Quit
		case "enter":
			a.auth.Show("")
			return a, nil
		case "f":
			return a, a.gotoFeed()
		}
		return a, nil

	case routeFeed:
		switch msg.String() {
		case "esc":
			a.route = routeHome
			return a, nil
		case "N":
			a.route = routeNotifications
			return a, a.notifications.Load()
		case "Q":
			return a, a.logout()
		}
		cmd, action, postID := a.feedView.Update(msg)
		switch action {
		case feedActionCompose:
			form := NewPostForm(a.deps, a.theme, a.availableTags)
			a.compose = &form
			a.route = routeCompose
			return a, a.deps.loadTagsCmd()
		case feedActionOpenComments:
			if post, ok := a.feedView.State().Post(postID); ok {
				a.route = routeComments
				return a, a.comments.Open(post)
			}
		}
		return a, cmd

	case routeCompose:
		if msg.Type == tea.KeyEsc && a.compose != nil && !a.compose.Submitting() {
			a.compose = nil
			a.route = routeFeed
			return a, nil
		}
		if a.compose != nil {
			return a, a.compose.Update(msg)
		}
		a.route = routeFeed
		return a, nil

	case routeComments:
		cmd, closed := a.comments.Update(msg)
		if closed {
			a.route = routeFeed
		}
		return a, cmd

	case routeNotifications:
		cmd, closed := a.notifications.Update(msg)
		if closed {
			a.route = routeFeed
		}
		return a, cmd
	}
	return a, nil
}

// gotoFeed enters the feed, or raises the auth dialog when the session is
// anonymous. The feed is never shown signed out.
func (a *App) gotoFeed() tea.Cmd {
	if !a.deps.Session.IsAuthenticated() {
		a.auth.Show("")
		return nil
	}
	a.route = routeFeed
	if len(a.feedView.State().Posts()) == 0 {
		return a.feedView.Load()
	}
	return nil
}

// afterSignIn routes into the feed once the auth dialog closes signed in.
func (a *App) afterSignIn() tea.Cmd {
	a.route = routeFeed
	return tea.Batch(a.feedView.Reload(), a.enterSignedIn())
}

// enterSignedIn starts the background plumbing a live session needs.
// Idempotent: registration authenticates before its dialog closes, so this
// can be reached twice for one sign-in.
func (a *App) enterSignedIn() tea.Cmd {
	if a.signedIn {
		return nil
	}
	a.signedIn = true
	return tea.Batch(
		a.deps.loadTagsCmd(),
		a.deps.loadPopularTagsCmd(10),
		a.notifications.Load(),
		a.dialSocket(),
	)
}

func (a *App) logout() tea.Cmd {
	a.signedIn = false
	if a.socket != nil {
		a.socket.Close()
		a.socket = nil
	}
	a.notifications.Clear()
	a.feedView.State().Reset()
	a.route = routeHome
	return a.deps.logoutCmd()
}

// sessionExpired recognizes a 401 surfacing from any call after login: the
// session is torn down once and the auth dialog explains why. Returns true
// when it fired.
func (a *App) sessionExpired(err error) bool {
	if err == nil || !errors.Is(err, common.ErrUnauthorized) {
		return false
	}
	if !a.deps.Session.Invalidate() {
		return false
	}
	a.signedIn = false
	if a.socket != nil {
		a.socket.Close()
		a.socket = nil
	}
	a.notifications.Clear()
	a.route = routeHome
	a.auth.Show(errSessionExpired)
	return true
}

func (a *App) dialSocket() tea.Cmd {
	return func() tea.Msg {
		socket, err := api.DialNotifications(a.deps.ctx, a.baseURL, a.deps.Session)
		return socketOpenedMsg{socket: socket, err: err}
	}
}

// listenSocket waits for the next stream event. Re-armed after every
// delivery so the channel read never blocks the update loop.
func (a *App) listenSocket() tea.Cmd {
	socket := a.socket
	if socket == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-socket.Events()
		if !ok {
			return socketClosedMsg{err: socket.Err()}
		}
		return socketEventMsg{event: event}
	}
}

// View renders the active screen with the auth dialog overlaid when open.
func (a *App) View() string {
	var screen string
	switch a.route {
	case routeHome:
		screen = a.home.View(a.width)
	case routeFeed:
		screen = a.feedView.View()
	case routeCompose:
		if a.compose != nil {
			screen = a.compose.View()
		}
	case routeComments:
		screen = a.comments.View()
	case routeNotifications:
		screen = a.notifications.View()
	}

	if a.auth.Visible() {
		return lipgloss.JoinVertical(lipgloss.Left, screen, a.auth.View())
	}

	if a.route == routeFeed {
		if unread := a.notifications.Unread(); unread > 0 {
			badge := lipgloss.NewStyle().Foreground(a.theme.UnreadBadge).
				Render("N notifications: " + strconv.Itoa(unread))
			return lipgloss.JoinVertical(lipgloss.Left, badge, screen)
		}
	}
	return screen
}
