package app

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskmaster-tui/internal/api"
	"taskmaster-tui/internal/geo"
	"taskmaster-tui/internal/model"
)

type loginResultMsg struct {
	username string
	password string
	remember bool
	err      error
}

type registerResultMsg struct {
	username string
	password string
	err      error
}

type userLoadedMsg struct {
	user *model.User
	err  error
}

type taskMutatedMsg struct {
	err error
}

type locateResultMsg struct {
	nearby *model.NearbyLocation
	err    error
}

type avatarCheckedMsg struct {
	cached bool
}

// mutateTimeout bounds a single user-initiated API call.
const mutateTimeout = 30 * time.Second

func (a App) loginCmd(username, password string, remember bool) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutateTimeout)
		defer cancel()

		_, err := client.Login(ctx, username, password)
		return loginResultMsg{
			username: username,
			password: password,
			remember: remember,
			err:      err,
		}
	}
}

func (a App) registerCmd(username, password string) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutateTimeout)
		defer cancel()

		_, err := client.Register(ctx, username, password)
		return registerResultMsg{username: username, password: password, err: err}
	}
}

func (a App) loadUserCmd() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutateTimeout)
		defer cancel()

		user, err := client.CurrentUser(ctx)
		return userLoadedMsg{user: user, err: err}
	}
}

func (a App) createTaskCmd(create api.TaskCreate) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutateTimeout)
		defer cancel()

		_, err := client.CreateTask(ctx, create)
		return taskMutatedMsg{err: err}
	}
}

func (a App) updateTaskCmd(taskID int, update api.TaskUpdate) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutateTimeout)
		defer cancel()

		_, err := client.UpdateTask(ctx, taskID, update)
		return taskMutatedMsg{err: err}
	}
}

func (a App) toggleTaskCmd(taskID int, completed bool) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutateTimeout)
		defer cancel()

		_, err := client.ToggleTask(ctx, taskID, completed)
		return taskMutatedMsg{err: err}
	}
}

func (a App) deleteTaskCmd(taskID int) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutateTimeout)
		defer cancel()

		err := client.DeleteTask(ctx, taskID)
		return taskMutatedMsg{err: err}
	}
}

// locateCmd reads the current position and asks the server which
// registered location, if any, contains it. A one-shot read is bounded
// by the configured position timeout.
func (a App) locateCmd() tea.Cmd {
	client := a.client
	provider := a.provider
	timeout := time.Duration(a.cfg.Geo.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return func() tea.Msg {
		if provider == nil {
			return locateResultMsg{err: geo.ErrUnsupported}
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		pos, err := provider.Current(ctx)
		if err != nil {
			return locateResultMsg{err: err}
		}

		nearby, err := client.NearbyLocation(ctx, pos.Latitude, pos.Longitude)
		return locateResultMsg{nearby: nearby, err: err}
	}
}

// relocateCmd re-runs the server lookup for a known position. Used by
// the watch stream to keep an active location filter current.
func (a App) relocateCmd(pos geo.Position) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutateTimeout)
		defer cancel()

		nearby, err := client.NearbyLocation(ctx, pos.Latitude, pos.Longitude)
		return locateResultMsg{nearby: nearby, err: err}
	}
}

// checkAvatarCmd reports whether a local avatar copy exists for the user.
func (a App) checkAvatarCmd(userID int) tea.Cmd {
	store := a.cache
	return func() tea.Msg {
		if store == nil {
			return avatarCheckedMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		dataURI, err := store.Avatar(ctx, userID)
		return avatarCheckedMsg{cached: err == nil && dataURI != ""}
	}
}

// maxAvatarBytes caps a downloaded avatar; anything larger is skipped.
const maxAvatarBytes = 1 << 20

// cacheAvatarCmd downloads the user's avatar and stores it locally as a
// data URI. Failures are silent; the cache is best-effort.
func (a App) cacheAvatarCmd(user *model.User) tea.Cmd {
	store := a.cache
	return func() tea.Msg {
		if store == nil || user == nil {
			return avatarCheckedMsg{}
		}

		ctx, cancel := context.WithTimeout(context.Background(), mutateTimeout)
		defer cancel()

		if user.AvatarURL == "" {
			_ = store.DeleteAvatar(ctx, user.ID)
			return avatarCheckedMsg{cached: false}
		}

		dataURI, err := fetchAvatarDataURI(ctx, user.AvatarURL)
		if err != nil {
			return avatarCheckedMsg{cached: false}
		}
		if err := store.SetAvatar(ctx, user.ID, dataURI); err != nil {
			return avatarCheckedMsg{cached: false}
		}
		return avatarCheckedMsg{cached: true}
	}
}

func fetchAvatarDataURI(ctx context.Context, avatarURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, avatarURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("avatar fetch: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAvatarBytes+1))
	if err != nil {
		return "", err
	}
	if len(data) > maxAvatarBytes {
		return "", fmt.Errorf("avatar fetch: image too large")
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
