package sync

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskmaster-tui/internal/api"
)

func newRefresherAgainst(t *testing.T, handler http.HandlerFunc) (*Refresher, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	client := api.NewClient(srv.URL, 5*time.Second)
	r := New(client, nil, time.Hour, false)
	return r, srv
}

func TestRefresherDeliversInitialFetches(t *testing.T) {
	r, srv := newRefresherAgainst(t, func(w http.ResponseWriter, req *http.Request) {
		switch req.URL.Path {
		case "/api/v1/tasks/":
			w.Write([]byte(`[{"id": 1, "title": "a", "priority": 2}]`))
		case "/api/v1/categories/":
			w.Write([]byte(`[{"id": 1, "name": "work", "color": "#fff"}]`))
		case "/api/v1/locations/":
			w.Write([]byte(`[]`))
		default:
			t.Errorf("unexpected path %q", req.URL.Path)
		}
	})
	defer srv.Close()

	cmd := r.Start()
	defer r.Stop()

	seen := map[Resource]bool{}
	for i := 0; i < 3; i++ {
		msg := cmd()
		refresh, ok := msg.(RefreshMsg)
		if !ok {
			t.Fatalf("msg %d: %T, want RefreshMsg", i, msg)
		}
		if refresh.Err != nil {
			t.Fatalf("resource %s: %v", refresh.Resource, refresh.Err)
		}
		seen[refresh.Resource] = true
		cmd = r.WaitForNextResult()
	}

	for _, res := range []Resource{ResourceTasks, ResourceCategories, ResourceLocations} {
		if !seen[res] {
			t.Errorf("no result delivered for %s", res)
		}
	}
}

func TestRefresherReportsFetchErrors(t *testing.T) {
	r, srv := newRefresherAgainst(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail": "boom"}`))
	})
	defer srv.Close()

	cmd := r.Start()
	defer r.Stop()

	msg := cmd()
	refresh, ok := msg.(RefreshMsg)
	if !ok {
		t.Fatalf("got %T, want RefreshMsg", msg)
	}
	if refresh.Err == nil {
		t.Error("Err = nil, want server error")
	}
}

func TestRefresherSortParamsApplied(t *testing.T) {
	sortParams := make(chan [2]string, 8)
	r, srv := newRefresherAgainst(t, func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/api/v1/tasks/" {
			q := req.URL.Query()
			sortParams <- [2]string{q.Get("sort_by"), q.Get("sort_order")}
		}
		w.Write([]byte(`[]`))
	})
	defer srv.Close()

	r.SetTaskSort("priority", "desc")

	cmd := r.Start()
	defer r.Stop()
	for i := 0; i < 3; i++ {
		_ = cmd()
		cmd = r.WaitForNextResult()
	}

	select {
	case got := <-sortParams:
		if got != [2]string{"priority", "desc"} {
			t.Errorf("sort params = %v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("task fetch never reached the server")
	}
}

func TestRefresherDropsSupersededTaskResult(t *testing.T) {
	var taskCalls int32
	firstArrived := make(chan struct{})
	firstGate := make(chan struct{})

	r, srv := newRefresherAgainst(t, func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/api/v1/tasks/" {
			w.Write([]byte(`[]`))
			return
		}
		switch atomic.AddInt32(&taskCalls, 1) {
		case 1:
			// Hold the first fetch open until the second has been
			// answered, so its response arrives out of order.
			close(firstArrived)
			<-firstGate
			w.Write([]byte(`[{"id": 1, "title": "superseded", "priority": 2}]`))
		default:
			w.Write([]byte(`[{"id": 2, "title": "current", "priority": 2}]`))
		}
	})
	defer srv.Close()

	cmd := r.Start()
	defer r.Stop()

	select {
	case <-firstArrived:
	case <-time.After(2 * time.Second):
		t.Fatal("initial task fetch never reached the server")
	}

	// A newer fetch for the same resource supersedes the in-flight one.
	r.Refresh(ResourceTasks)

	var tasksID int
	for i := 0; i < 4 && tasksID == 0; i++ {
		msg := cmd()
		cmd = r.WaitForNextResult()

		refresh, ok := msg.(RefreshMsg)
		if !ok {
			t.Fatalf("msg %d: %T, want RefreshMsg", i, msg)
		}
		if refresh.Err != nil {
			t.Fatalf("resource %s: %v", refresh.Resource, refresh.Err)
		}
		if refresh.Resource == ResourceTasks {
			if len(refresh.Tasks) != 1 {
				t.Fatalf("tasks = %+v", refresh.Tasks)
			}
			tasksID = refresh.Tasks[0].ID
		}
	}
	if tasksID != 2 {
		t.Fatalf("delivered task %d, want 2 (latest fetch wins)", tasksID)
	}

	// Release the older fetch; its result must be dropped, not delivered.
	close(firstGate)

	late := make(chan tea.Msg, 1)
	go func() { late <- cmd() }()

	select {
	case msg := <-late:
		if refresh, ok := msg.(RefreshMsg); ok && refresh.Resource == ResourceTasks {
			t.Fatalf("superseded task result was delivered: %+v", refresh.Tasks)
		}
	case <-time.After(500 * time.Millisecond):
		// Nothing delivered: the stale result was dropped.
	}
}

func TestRefresherStopFromAnotherGoroutine(t *testing.T) {
	r, srv := newRefresherAgainst(t, func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`[]`))
	})
	defer srv.Close()

	cmd := r.Start()
	_ = cmd()

	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestRefresherRestartsAfterStop(t *testing.T) {
	r, srv := newRefresherAgainst(t, func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`[]`))
	})
	defer srv.Close()

	cmd := r.Start()
	_ = cmd()
	r.Stop()

	// A second Start (new login after logout) must poll again.
	cmd = r.Start()
	defer r.Stop()

	msg := cmd()
	if _, ok := msg.(RefreshMsg); !ok {
		t.Fatalf("got %T after restart, want RefreshMsg", msg)
	}
}
