package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taskmaster-tui/internal/model"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, 5*time.Second), srv
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("[]"))
	})
	defer srv.Close()

	client.SetToken("secret-token")
	if _, err := client.ListTasks(context.Background(), "", ""); err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
}

func TestNoTokenNoHeader(t *testing.T) {
	var gotAuth string
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("[]"))
	})
	defer srv.Close()

	if _, err := client.ListCategories(context.Background()); err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}
}

func TestUnauthorizedBecomesAuthError(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Not authenticated"}`))
	})
	defer srv.Close()

	_, err := client.ListTasks(context.Background(), "", "")
	if !IsAuthError(err) {
		t.Fatalf("err = %v, want AuthError", err)
	}
}

func TestErrorDetailString(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "Task not found"}`))
	})
	defer srv.Close()

	err := client.DeleteTask(context.Background(), 42)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.StatusCode != 404 || apiErr.Detail != "Task not found" {
		t.Errorf("got %d %q", apiErr.StatusCode, apiErr.Detail)
	}
}

func TestErrorDetailValidationArray(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail": [{"msg": "title is required"}, {"message": "priority out of range"}]}`))
	})
	defer srv.Close()

	_, err := client.CreateTask(context.Background(), TaskCreate{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	want := "title is required, priority out of range"
	if apiErr.Detail != want {
		t.Errorf("Detail = %q, want %q", apiErr.Detail, want)
	}
}

func TestErrorDetailMalformedBody(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("not json"))
	})
	defer srv.Close()

	err := client.DeleteTask(context.Background(), 1)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if !strings.Contains(apiErr.Detail, "500") {
		t.Errorf("Detail = %q, want status fallback", apiErr.Detail)
	}
}

func TestLoginSendsFormAndStoresToken(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/users/login/" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		if r.PostForm.Get("username") != "alice" || r.PostForm.Get("password") != "hunter22" {
			t.Errorf("form = %v", r.PostForm)
		}
		json.NewEncoder(w).Encode(TokenResponse{AccessToken: "tok123", TokenType: "bearer"})
	})
	defer srv.Close()

	resp, err := client.Login(context.Background(), "alice", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.AccessToken != "tok123" {
		t.Errorf("AccessToken = %q", resp.AccessToken)
	}
	if client.Token() != "tok123" {
		t.Errorf("client token = %q, want tok123", client.Token())
	}
}

func TestLoginFailure(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Incorrect username or password"}`))
	})
	defer srv.Close()

	_, err := client.Login(context.Background(), "alice", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.StatusCode != 401 {
		t.Errorf("StatusCode = %d, want 401", apiErr.StatusCode)
	}
	if client.HasToken() {
		t.Error("failed login must not set a token")
	}
}

func TestListTasksSortParamsAndNumericPriority(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("sort_by") != "deadline" || q.Get("sort_order") != "asc" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte(`[
			{"id": 1, "title": "a", "priority": 3},
			{"id": 2, "title": "b", "priority": 1},
			{"id": 3, "title": "c"}
		]`))
	})
	defer srv.Close()

	tasks, err := client.ListTasks(context.Background(), "deadline", "asc")
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("len = %d", len(tasks))
	}
	if tasks[0].Priority != model.PriorityHigh {
		t.Errorf("tasks[0].Priority = %q, want high", tasks[0].Priority)
	}
	if tasks[1].Priority != model.PriorityLow {
		t.Errorf("tasks[1].Priority = %q, want low", tasks[1].Priority)
	}
	// Missing priority on the wire defaults to medium.
	if tasks[2].Priority != model.PriorityMedium {
		t.Errorf("tasks[2].Priority = %q, want medium", tasks[2].Priority)
	}
}

func TestCreateTaskSendsNumericPriority(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if string(payload["priority"]) != "3" {
			t.Errorf("priority on the wire = %s, want 3", payload["priority"])
		}
		w.Write([]byte(`{"id": 9, "title": "x", "priority": 3}`))
	})
	defer srv.Close()

	task, err := client.CreateTask(context.Background(), TaskCreate{
		Title:    "x",
		Priority: model.PriorityHigh,
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.Priority != model.PriorityHigh {
		t.Errorf("Priority = %q, want high", task.Priority)
	}
}

func TestToggleTaskSendsCompletionOnly(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if string(payload["is_completed"]) != "true" {
			t.Errorf("is_completed = %s", payload["is_completed"])
		}
		if _, ok := payload["title"]; ok {
			t.Error("toggle must not send a title")
		}
		w.Write([]byte(`{"id": 5, "title": "t", "is_completed": true, "priority": 2}`))
	})
	defer srv.Close()

	task, err := client.ToggleTask(context.Background(), 5, true)
	if err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if !task.IsCompleted {
		t.Error("IsCompleted = false, want true")
	}
}

func TestNearbyLocationFound(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("latitude") == "" || q.Get("longitude") == "" {
			t.Errorf("missing coordinates: %v", q)
		}
		w.Write([]byte(`{"id": 1, "name": "office", "latitude": 35.6, "longitude": 139.7, "radius": 500, "category_id": 2, "distance": 120.5}`))
	})
	defer srv.Close()

	nearby, err := client.NearbyLocation(context.Background(), 35.6, 139.7)
	if err != nil {
		t.Fatalf("NearbyLocation: %v", err)
	}
	if nearby == nil || nearby.Name != "office" {
		t.Fatalf("nearby = %+v", nearby)
	}
	if nearby.CategoryID == nil || *nearby.CategoryID != 2 {
		t.Errorf("CategoryID = %v, want 2", nearby.CategoryID)
	}
	if nearby.Distance != 120.5 {
		t.Errorf("Distance = %v, want 120.5", nearby.Distance)
	}
}

func TestNearbyLocationOutsideAllFences(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("null"))
	})
	defer srv.Close()

	nearby, err := client.NearbyLocation(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("NearbyLocation: %v", err)
	}
	if nearby != nil {
		t.Errorf("nearby = %+v, want nil", nearby)
	}
}

func TestDeleteNoContent(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	defer srv.Close()

	if err := client.DeleteCategory(context.Background(), 3); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
}
