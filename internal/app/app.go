// Package app wires the views, the API client, the background
// refresher, and persisted credentials into the root Bubble Tea model.
package app

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"taskmaster-tui/internal/api"
	"taskmaster-tui/internal/cache"
	"taskmaster-tui/internal/credential"
	"taskmaster-tui/internal/geo"
	"taskmaster-tui/internal/keys"
	"taskmaster-tui/internal/model"
	appsync "taskmaster-tui/internal/sync"
	"taskmaster-tui/internal/ui"
	"taskmaster-tui/internal/ui/categorymgr"
	"taskmaster-tui/internal/ui/helpview"
	"taskmaster-tui/internal/ui/locationmgr"
	"taskmaster-tui/internal/ui/login"
	"taskmaster-tui/internal/ui/profile"
	"taskmaster-tui/internal/ui/taskform"
	"taskmaster-tui/internal/ui/tasklist"
)

// ViewState identifies which view owns the content area.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewTasks
	ViewTaskForm
	ViewCategories
	ViewLocations
	ViewProfile
	ViewHelp
)

// App is the root Bubble Tea model.
type App struct {
	cfg       *model.AppConfig
	client    *api.Client
	creds     *credential.Store
	cache     *cache.Cache
	provider  geo.Provider
	refresher *appsync.Refresher
	keys      *keys.KeyMap
	layout    ui.Layout

	state ViewState
	user  *model.User

	tasks      []model.Task
	categories []model.Category
	locations  []model.Location

	// filterLocate is true while the active category filter came from a
	// location match; only then do watch updates re-run the lookup.
	filterLocate bool

	loginView    login.Model
	taskList     tasklist.Model
	taskForm     taskform.Model
	categoryView categorymgr.Model
	locationView locationmgr.Model
	profileView  profile.Model
	helpView     helpview.Model
}

// New assembles the application. cacheStore may be nil when the local
// cache could not be opened; avatar caching is then disabled.
func New(
	cfg *model.AppConfig,
	client *api.Client,
	creds *credential.Store,
	cacheStore *cache.Cache,
	provider geo.Provider,
	refresher *appsync.Refresher,
) App {
	k := keys.DefaultKeyMap()
	layout := ui.NewLayout(80, 24)
	w, h := layout.ContentWidth(), layout.ContentHeight()

	state := ViewLogin
	if creds != nil {
		if token := creds.Token(); token != "" {
			client.SetToken(token)
			state = ViewTasks
		}
	}

	rememberedUser, rememberedPass := "", ""
	if creds != nil {
		if u, p, ok := creds.RememberedLogin(); ok {
			rememberedUser, rememberedPass = u, p
		}
	}

	return App{
		cfg:       cfg,
		client:    client,
		creds:     creds,
		cache:     cacheStore,
		provider:  provider,
		refresher: refresher,
		keys:      k,
		layout:    layout,
		state:     state,

		loginView:    login.New(rememberedUser, rememberedPass, w, h),
		taskList:     tasklist.New(k, w, h),
		taskForm:     taskform.New(w, h),
		categoryView: categorymgr.New(client, k, w, h),
		locationView: locationmgr.New(client, k, w, h),
		profileView:  profile.New(client, k, w, h),
		helpView:     helpview.New(k, w, h),
	}
}

// Init starts the session: the background refresher when a stored token
// exists, otherwise the login form.
func (a App) Init() tea.Cmd {
	if a.state == ViewTasks {
		return tea.Batch(a.refresher.Start(), a.loadUserCmd())
	}
	return a.loginView.Init()
}

// Update is the root message dispatcher.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.refresher.Stop()
			return a, tea.Quit
		}
		return a.routeKey(msg)

	case appsync.RefreshMsg:
		return a.handleRefresh(msg)

	case appsync.PositionMsg:
		return a.handlePosition(msg)

	case loginResultMsg:
		return a.handleLoginResult(msg)

	case registerResultMsg:
		return a.handleRegisterResult(msg)

	case userLoadedMsg:
		return a.handleUserLoaded(msg)

	case taskMutatedMsg:
		return a.handleTaskMutated(msg)

	case locateResultMsg:
		return a.handleLocateResult(msg)

	case avatarCheckedMsg:
		a.profileView.SetAvatarCached(msg.cached)
		return a, nil

	case login.SubmitMsg:
		return a, a.loginCmd(msg.Username, msg.Password, msg.Remember)

	case login.RegisterMsg:
		return a, a.registerCmd(msg.Username, msg.Password)

	case tasklist.NewTaskMsg:
		a.state = ViewTaskForm
		a.taskForm.SetCategories(a.categories)
		return a, a.taskForm.StartCreate()

	case tasklist.EditTaskMsg:
		a.state = ViewTaskForm
		a.taskForm.SetCategories(a.categories)
		return a, a.taskForm.StartEdit(msg.Task)

	case tasklist.ToggleTaskMsg:
		return a, a.toggleTaskCmd(msg.TaskID, msg.Completed)

	case tasklist.DeleteTaskMsg:
		return a, a.deleteTaskCmd(msg.TaskID)

	case tasklist.SortChangedMsg:
		a.refresher.SetTaskSort(msg.SortBy, msg.SortOrder)
		return a, a.refresher.Refresh(appsync.ResourceTasks)

	case tasklist.LocateMsg:
		return a, a.locateCmd()

	case tasklist.ClearFilterMsg:
		a.filterLocate = false
		return a, a.taskList.SetFilter(nil, "")

	case taskform.SubmitMsg:
		a.state = ViewTasks
		return a, a.taskFormSubmit(msg)

	case taskform.CancelMsg:
		a.state = ViewTasks
		return a, nil

	case categorymgr.CloseMsg:
		a.state = ViewTasks
		return a, nil

	case categorymgr.ChangedMsg:
		return a, a.refresher.Refresh(appsync.ResourceCategories)

	case locationmgr.CloseMsg:
		a.state = ViewTasks
		return a, nil

	case locationmgr.ChangedMsg:
		return a, a.refresher.Refresh(appsync.ResourceLocations)

	case profile.CloseMsg:
		a.state = ViewTasks
		return a, nil

	case profile.SavedMsg:
		// Let the view show its status line, then refresh the local
		// avatar copy from the new profile.
		var cmd tea.Cmd
		a.profileView, cmd = a.profileView.Update(msg)
		if msg.Err == nil && msg.User != nil {
			a.user = msg.User
			return a, tea.Batch(cmd, a.cacheAvatarCmd(msg.User))
		}
		return a, cmd

	case profile.LogoutMsg:
		return a.handleLogout()

	case helpview.CloseMsg:
		a.state = ViewTasks
		return a, nil
	}

	return a.routeMsg(msg)
}

// routeKey forwards a key press to the active view, handling the
// global view-switching keys first.
func (a App) routeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.state == ViewTasks {
		switch {
		case key.Matches(msg, a.keys.Quit):
			a.refresher.Stop()
			return a, tea.Quit

		case key.Matches(msg, a.keys.Refresh):
			return a, a.refresher.RefreshAll()

		case key.Matches(msg, a.keys.Help):
			a.state = ViewHelp
			return a, nil

		case key.Matches(msg, a.keys.Categories):
			a.state = ViewCategories
			a.categoryView.SetCategories(a.categories)
			return a, nil

		case key.Matches(msg, a.keys.Locations):
			a.state = ViewLocations
			a.locationView.SetLocations(a.locations)
			a.locationView.SetCategories(a.categories)
			return a, nil

		case key.Matches(msg, a.keys.Profile):
			a.state = ViewProfile
			a.profileView.SetUser(a.user)
			if a.user != nil {
				return a, a.checkAvatarCmd(a.user.ID)
			}
			return a, nil
		}
	}
	return a.routeMsg(msg)
}

// routeMsg forwards a message to the view that owns the content area.
func (a App) routeMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.state {
	case ViewLogin:
		a.loginView, cmd = a.loginView.Update(msg)
	case ViewTasks:
		a.taskList, cmd = a.taskList.Update(msg)
	case ViewTaskForm:
		a.taskForm, cmd = a.taskForm.Update(msg)
	case ViewCategories:
		a.categoryView, cmd = a.categoryView.Update(msg)
	case ViewLocations:
		a.locationView, cmd = a.locationView.Update(msg)
	case ViewProfile:
		a.profileView, cmd = a.profileView.Update(msg)
	case ViewHelp:
		a.helpView, cmd = a.helpView.Update(msg)
	}
	return a, cmd
}

func (a App) handleRefresh(msg appsync.RefreshMsg) (tea.Model, tea.Cmd) {
	resubscribe := a.refresher.WaitForNextResult()

	if msg.Err != nil {
		if api.IsAuthError(msg.Err) {
			return a.handleAuthExpiry()
		}
		a.taskList.SetError(fmt.Sprintf("Sync failed: %v", msg.Err))
		return a, resubscribe
	}

	a.taskList.SetError("")

	var cmd tea.Cmd
	switch msg.Resource {
	case appsync.ResourceTasks:
		a.tasks = msg.Tasks
		cmd = a.taskList.SetTasks(msg.Tasks)
	case appsync.ResourceCategories:
		a.categories = msg.Categories
		cmd = a.taskList.SetCategories(msg.Categories)
		a.categoryView.SetCategories(msg.Categories)
		a.locationView.SetCategories(msg.Categories)
		a.taskForm.SetCategories(msg.Categories)
	case appsync.ResourceLocations:
		a.locations = msg.Locations
		a.locationView.SetLocations(msg.Locations)
	}

	return a, tea.Batch(cmd, resubscribe)
}

func (a App) handlePosition(msg appsync.PositionMsg) (tea.Model, tea.Cmd) {
	resubscribe := a.refresher.WaitForNextResult()

	if msg.Err != nil {
		a.taskList.SetError(geo.FailureMessage(msg.Err))
		return a, resubscribe
	}

	pos := msg.Position
	a.locationView.SetPosition(&pos)

	// Keep a location-derived filter tracking the moving position.
	if a.filterLocate {
		return a, tea.Batch(a.relocateCmd(pos), resubscribe)
	}
	return a, resubscribe
}

func (a App) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.loginView.SetError(loginErrorMessage(msg.err))
		return a, a.loginView.Init()
	}

	if a.creds != nil {
		// Persist best-effort; a keyring failure should not block the
		// session that just authenticated.
		_ = a.creds.SetToken(a.client.Token())
		if msg.remember {
			_ = a.creds.SetRememberedLogin(msg.username, msg.password)
		} else {
			_ = a.creds.ClearRememberedLogin()
		}
	}

	a.state = ViewTasks
	return a, tea.Batch(a.refresher.Start(), a.loadUserCmd())
}

func (a App) handleRegisterResult(msg registerResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.loginView.SetError(loginErrorMessage(msg.err))
		return a, a.loginView.Init()
	}
	// Account created; sign in with the same credentials.
	return a, a.loginCmd(msg.username, msg.password, false)
}

func (a App) handleUserLoaded(msg userLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if api.IsAuthError(msg.err) {
			return a.handleAuthExpiry()
		}
		a.taskList.SetError(fmt.Sprintf("Failed to load profile: %v", msg.err))
		return a, nil
	}

	a.user = msg.user
	a.profileView.SetUser(msg.user)
	return a, a.cacheAvatarCmd(msg.user)
}

func (a App) handleTaskMutated(msg taskMutatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if api.IsAuthError(msg.err) {
			return a.handleAuthExpiry()
		}
		a.taskList.SetError(fmt.Sprintf("Request failed: %v", msg.err))
		return a, nil
	}
	a.taskList.SetError("")
	return a, a.refresher.Refresh(appsync.ResourceTasks)
}

func (a App) handleLocateResult(msg locateResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		var apiErr *api.APIError
		if errors.As(msg.err, &apiErr) {
			a.taskList.SetError(fmt.Sprintf("Location lookup failed: %v", msg.err))
		} else if api.IsAuthError(msg.err) {
			return a.handleAuthExpiry()
		} else {
			a.taskList.SetError(geo.FailureMessage(msg.err))
		}
		return a, nil
	}

	a.taskList.SetError("")

	if msg.nearby == nil {
		a.filterLocate = false
		a.taskList.SetError("You are not near any registered location")
		return a, a.taskList.SetFilter(nil, "")
	}

	if msg.nearby.CategoryID == nil {
		a.filterLocate = false
		a.taskList.SetError(fmt.Sprintf("%q has no category bound to it", msg.nearby.Name))
		return a, a.taskList.SetFilter(nil, "")
	}

	a.filterLocate = true
	return a, a.taskList.SetFilter(msg.nearby.CategoryID, msg.nearby.Name)
}

// handleAuthExpiry tears down the session after the server rejected the
// token: credentials are cleared and the user lands on the login form.
func (a App) handleAuthExpiry() (tea.Model, tea.Cmd) {
	a.refresher.Stop()
	a.client.ClearToken()
	if a.creds != nil {
		_ = a.creds.ClearAll()
	}

	a.user = nil
	a.state = ViewLogin
	w, h := a.layout.ContentWidth(), a.layout.ContentHeight()
	a.loginView = login.New("", "", w, h)
	a.loginView.SetError("Your session expired. Please sign in again.")
	return a, a.loginView.Init()
}

func (a App) handleLogout() (tea.Model, tea.Cmd) {
	a.refresher.Stop()
	a.client.ClearToken()
	if a.creds != nil {
		_ = a.creds.ClearAll()
	}

	a.user = nil
	a.state = ViewLogin
	w, h := a.layout.ContentWidth(), a.layout.ContentHeight()
	a.loginView = login.New("", "", w, h)
	return a, a.loginView.Init()
}

func (a App) taskFormSubmit(msg taskform.SubmitMsg) tea.Cmd {
	if msg.TaskID == 0 {
		return a.createTaskCmd(api.TaskCreate{
			Title:       msg.Title,
			Description: msg.Description,
			Priority:    msg.Priority,
			Deadline:    msg.Deadline,
			CategoryID:  msg.CategoryID,
		})
	}

	return a.updateTaskCmd(msg.TaskID, api.TaskUpdate{
		Title:       &msg.Title,
		Description: &msg.Description,
		Priority:    &msg.Priority,
		Deadline:    msg.Deadline,
		CategoryID:  msg.CategoryID,
	})
}

func (a *App) resize(width, height int) {
	a.layout = ui.NewLayout(width, height)
	w, h := a.layout.ContentWidth(), a.layout.ContentHeight()

	a.loginView.SetSize(w, h)
	a.taskList.SetSize(w, h)
	a.taskForm.SetSize(w, h)
	a.categoryView.SetSize(w, h)
	a.locationView.SetSize(w, h)
	a.profileView.SetSize(w, h)
	a.helpView.SetSize(w, h)
}

// View renders the header, the active view, and the status bar.
func (a App) View() string {
	right := ""
	if a.user != nil {
		name := a.user.DisplayName
		if name == "" {
			name = a.user.Username
		}
		right = name
	}

	header := a.layout.RenderHeader("TaskMaster", right)
	statusBar := a.layout.RenderStatusBar(a.statusHints())

	var content string
	switch a.state {
	case ViewLogin:
		content = a.loginView.View()
	case ViewTasks:
		content = a.taskList.View()
	case ViewTaskForm:
		content = a.taskForm.View()
	case ViewCategories:
		content = a.categoryView.View()
	case ViewLocations:
		content = a.locationView.View()
	case ViewProfile:
		content = a.profileView.View()
	case ViewHelp:
		content = a.helpView.View()
	}

	return a.layout.RenderFrame(header, content, statusBar)
}

func (a App) statusHints() string {
	switch a.state {
	case ViewLogin:
		return "enter submit | ctrl+r switch mode | ctrl+c quit"
	case ViewTasks:
		return "n new | e edit | x done | d del | tab sort | g locate | c cats | l locs | p profile | ? help | q quit"
	case ViewTaskForm:
		return "enter next | esc cancel"
	case ViewHelp:
		return "esc back"
	default:
		return "esc back | ctrl+c quit"
	}
}

// loginErrorMessage maps auth failures to a short inline message. The
// login endpoint reports bad credentials as a plain 401 rather than
// through the bearer-token path.
func loginErrorMessage(err error) string {
	if api.IsAuthError(err) {
		return "Invalid username or password"
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == 401 {
			return "Invalid username or password"
		}
		return apiErr.Detail
	}
	return fmt.Sprintf("Could not reach the server: %v", err)
}
