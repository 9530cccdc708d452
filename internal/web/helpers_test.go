package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"tasknest/internal/model"
	"tasknest/internal/store/storetest"
	"tasknest/internal/sync"
)

// testEnv wires a Server over in-memory fakes.
type testEnv struct {
	tasks *storetest.FakeTaskStore
	users *storetest.FakeUserStore
	srv   *Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tasks := storetest.NewFakeTaskStore()
	users := storetest.NewFakeUserStore()
	srv := NewServer(tasks, users, sync.New(tasks, users), nil)

	return &testEnv{tasks: tasks, users: users, srv: srv}
}

// do performs a request against the server; body is marshaled as JSON when
// non-nil.
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(w, req)
	return w
}

// envelope mirrors the {message, data} response body.
type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body: %s)", err, w.Body.String())
	}
	return env
}

func decodeData(t *testing.T, env envelope, out any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data: %v (data: %s)", err, string(env.Data))
	}
}

func futureDeadline() time.Time {
	return time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
}

func taskBody(name string, deadline time.Time) map[string]any {
	return map[string]any{"name": name, "deadline": deadline}
}

func seedAssigned(t *testing.T, e *testEnv, userName string) (model.User, model.Task) {
	t.Helper()
	u := e.users.Add(model.User{Name: userName, Email: userName + "@example.com"})
	task := e.tasks.Add(model.Task{
		Name:             "owned by " + userName,
		Deadline:         futureDeadline(),
		AssignedUser:     u.ID.Hex(),
		AssignedUserName: userName,
	})
	u.PendingTasks = []string{task.ID.Hex()}
	u = e.users.Add(u)
	return u, task
}
