package web

import (
	"net/http"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tasknest/internal/model"
)

func userBody(name, email string) map[string]any {
	return map[string]any{"name": name, "email": email}
}

func TestCreateUser(t *testing.T) {
	t.Run("Given name and email When created Then 201 with an empty pending list", func(t *testing.T) {
		e := newTestEnv(t)

		w := e.do(t, http.MethodPost, "/users", userBody("Bob", "bob@x.com"))

		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want %d (body: %s)", w.Code, http.StatusCreated, w.Body.String())
		}
		var got model.User
		decodeData(t, decodeEnvelope(t, w), &got)
		if got.PendingTasks == nil || len(got.PendingTasks) != 0 {
			t.Errorf("pendingTasks = %v, want []", got.PendingTasks)
		}
		if got.DateCreated.IsZero() {
			t.Errorf("dateCreated not set")
		}
	})

	t.Run("Given a duplicate email When created Then 400 and no record stored", func(t *testing.T) {
		e := newTestEnv(t)
		e.users.Add(model.User{Name: "Bob", Email: "bob@x.com"})

		w := e.do(t, http.MethodPost, "/users", userBody("Robert", "BOB@X.COM"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
		if n, _ := e.users.Count(nil, nil); n != 1 {
			t.Errorf("stored users = %d, want 1", n)
		}
	})

	t.Run("Given a missing email When created Then 400", func(t *testing.T) {
		e := newTestEnv(t)
		w := e.do(t, http.MethodPost, "/users", map[string]any{"name": "Bob"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestGetUser(t *testing.T) {
	t.Run("Given a malformed id When fetched Then 404", func(t *testing.T) {
		e := newTestEnv(t)
		w := e.do(t, http.MethodGet, "/users/zzz", nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})

	t.Run("Given an assigned task When its owner is fetched Then pendingTasks lists it", func(t *testing.T) {
		e := newTestEnv(t)
		bob, task := seedAssigned(t, e, "Bob")

		w := e.do(t, http.MethodGet, "/users/"+bob.ID.Hex(), nil)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
		var got model.User
		decodeData(t, decodeEnvelope(t, w), &got)
		want := []string{task.ID.Hex()}
		if !reflect.DeepEqual(got.PendingTasks, want) {
			t.Errorf("pendingTasks = %v, want %v", got.PendingTasks, want)
		}
	})
}

func TestReplaceUser(t *testing.T) {
	t.Run("Given an emptied pending list When replaced Then owned tasks are unassigned", func(t *testing.T) {
		e := newTestEnv(t)
		bob, task := seedAssigned(t, e, "Bob")

		body := userBody(bob.Name, bob.Email)
		body["pendingTasks"] = []string{}
		w := e.do(t, http.MethodPut, "/users/"+bob.ID.Hex(), body)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
		}
		got := e.tasks.MustGet(task.ID)
		if got.AssignedUser != "" || got.AssignedUserName != model.Unassigned {
			t.Errorf("task = %q/%q, want unassigned", got.AssignedUser, got.AssignedUserName)
		}
	})

	t.Run("Given a task re-added in the same request When replaced Then it stays assigned", func(t *testing.T) {
		e := newTestEnv(t)
		bob, task := seedAssigned(t, e, "Bob")

		body := userBody(bob.Name, bob.Email)
		body["pendingTasks"] = []string{task.ID.Hex()}
		w := e.do(t, http.MethodPut, "/users/"+bob.ID.Hex(), body)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
		got := e.tasks.MustGet(task.ID)
		if got.AssignedUser != bob.ID.Hex() {
			t.Errorf("assignedUser = %q, want %q", got.AssignedUser, bob.ID.Hex())
		}
	})

	t.Run("Given the user's own email When replaced Then uniqueness excludes self", func(t *testing.T) {
		e := newTestEnv(t)
		bob := e.users.Add(model.User{Name: "Bob", Email: "bob@x.com"})

		w := e.do(t, http.MethodPut, "/users/"+bob.ID.Hex(), userBody("Bobby", "bob@x.com"))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
		}
		if got := e.users.MustGet(bob.ID); got.Name != "Bobby" {
			t.Errorf("name = %q, want %q", got.Name, "Bobby")
		}
	})

	t.Run("Given another user's email When replaced Then 400", func(t *testing.T) {
		e := newTestEnv(t)
		e.users.Add(model.User{Name: "Alice", Email: "alice@x.com"})
		bob := e.users.Add(model.User{Name: "Bob", Email: "bob@x.com"})

		w := e.do(t, http.MethodPut, "/users/"+bob.ID.Hex(), userBody("Bob", "Alice@X.com"))
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("Given an unknown id When replaced Then 404", func(t *testing.T) {
		e := newTestEnv(t)
		w := e.do(t, http.MethodPut, "/users/"+primitive.NewObjectID().Hex(), userBody("X", "x@x.com"))
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("Given owned pending tasks When the user is deleted Then 204 and tasks survive unassigned", func(t *testing.T) {
		e := newTestEnv(t)
		bob, task := seedAssigned(t, e, "Bob")

		w := e.do(t, http.MethodDelete, "/users/"+bob.ID.Hex(), nil)

		if w.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
		}
		if w.Body.Len() != 0 {
			t.Errorf("body = %q, want empty", w.Body.String())
		}
		if _, err := e.users.Get(nil, bob.ID, nil); err == nil {
			t.Errorf("user still present after delete")
		}
		got := e.tasks.MustGet(task.ID)
		if got.AssignedUser != "" || got.AssignedUserName != model.Unassigned {
			t.Errorf("task = %q/%q, want unassigned", got.AssignedUser, got.AssignedUserName)
		}
	})

	t.Run("Given an unknown id When deleted Then 404", func(t *testing.T) {
		e := newTestEnv(t)
		w := e.do(t, http.MethodDelete, "/users/"+primitive.NewObjectID().Hex(), nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}

func TestListUsers(t *testing.T) {
	t.Run("Given no parameters When listed Then no cap or order is imposed", func(t *testing.T) {
		e := newTestEnv(t)
		e.users.Add(model.User{Name: "Bob", Email: "bob@x.com"})

		w := e.do(t, http.MethodGet, "/users", nil)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
		q := e.users.LastQuery
		if q.Limit != 0 {
			t.Errorf("limit = %d, want 0 (unbounded)", q.Limit)
		}
		if len(q.Sort) != 0 {
			t.Errorf("sort = %v, want none", q.Sort)
		}
	})

	t.Run("Given count=true When listed Then data is a cardinality", func(t *testing.T) {
		e := newTestEnv(t)
		e.users.Add(model.User{Name: "Bob", Email: "bob@x.com"})

		w := e.do(t, http.MethodGet, "/users?count=true", nil)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
		var n int64
		decodeData(t, decodeEnvelope(t, w), &n)
		if n != 1 {
			t.Errorf("count = %d, want 1", n)
		}
	})

	t.Run("Given a malformed sort When listed Then 400", func(t *testing.T) {
		e := newTestEnv(t)
		w := e.do(t, http.MethodGet, "/users?sort=[broken", nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}
