// Package storetest provides in-memory TaskStore/UserStore fakes with error
// injection for synchronizer and handler tests.
package storetest

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tasknest/internal/model"
	"tasknest/internal/store"
)

var (
	_ store.TaskStore = (*FakeTaskStore)(nil)
	_ store.UserStore = (*FakeUserStore)(nil)
)

// FakeTaskStore is an in-memory store.TaskStore. Documents keep insertion
// order. List and Count ignore the filter and record it for assertions.
type FakeTaskStore struct {
	mu    sync.RWMutex
	tasks map[string]*model.Task
	order []string

	LastQuery       store.Query
	LastCountFilter bson.M

	// Error injection
	ListErr         error
	CountErr        error
	GetErr          error
	InsertErr       error
	ReplaceErr      error
	DeleteErr       error
	FindAssignedErr error
	AssignManyErr   error
	UnassignManyErr error
}

// NewFakeTaskStore creates an empty fake task store.
func NewFakeTaskStore() *FakeTaskStore {
	return &FakeTaskStore{tasks: make(map[string]*model.Task)}
}

// Add seeds a task, assigning an id and creation time if unset.
func (f *FakeTaskStore) Add(t model.Task) model.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	if t.DateCreated.IsZero() {
		t.DateCreated = time.Now().UTC()
	}
	model.NormalizeTask(&t)
	f.put(t)
	return t
}

func (f *FakeTaskStore) put(t model.Task) {
	key := t.ID.Hex()
	if _, ok := f.tasks[key]; !ok {
		f.order = append(f.order, key)
	}
	cp := t
	f.tasks[key] = &cp
}

// MustGet returns the stored task or panics; seeding/assertion helper.
func (f *FakeTaskStore) MustGet(id primitive.ObjectID) model.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	t, ok := f.tasks[id.Hex()]
	if !ok {
		panic("storetest: task not found: " + id.Hex())
	}
	return *t
}

func (f *FakeTaskStore) List(ctx context.Context, q store.Query) ([]model.Task, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastQuery = q
	out := []model.Task{}
	for _, key := range f.order {
		out = append(out, *f.tasks[key])
	}
	return out, nil
}

func (f *FakeTaskStore) Count(ctx context.Context, filter bson.M) (int64, error) {
	if f.CountErr != nil {
		return 0, f.CountErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastCountFilter = filter
	return int64(len(f.tasks)), nil
}

func (f *FakeTaskStore) Get(ctx context.Context, id primitive.ObjectID, projection bson.M) (*model.Task, error) {
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	t, ok := f.tasks[id.Hex()]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *FakeTaskStore) Insert(ctx context.Context, t *model.Task) error {
	if f.InsertErr != nil {
		return f.InsertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	if t.DateCreated.IsZero() {
		t.DateCreated = time.Now().UTC()
	}
	model.NormalizeTask(t)
	f.put(*t)
	return nil
}

func (f *FakeTaskStore) Replace(ctx context.Context, t *model.Task) error {
	if f.ReplaceErr != nil {
		return f.ReplaceErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[t.ID.Hex()]; !ok {
		return store.ErrNotFound
	}
	model.NormalizeTask(t)
	f.put(*t)
	return nil
}

func (f *FakeTaskStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := id.Hex()
	if _, ok := f.tasks[key]; !ok {
		return store.ErrNotFound
	}
	delete(f.tasks, key)
	for i, k := range f.order {
		if k == key {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *FakeTaskStore) FindAssignedPending(ctx context.Context, userID string) ([]model.Task, error) {
	if f.FindAssignedErr != nil {
		return nil, f.FindAssignedErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := []model.Task{}
	for _, key := range f.order {
		t := f.tasks[key]
		if t.AssignedUser == userID && !t.Completed {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *FakeTaskStore) AssignMany(ctx context.Context, taskIDs []primitive.ObjectID, userID, userName string) error {
	if f.AssignManyErr != nil {
		return f.AssignManyErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range taskIDs {
		t, ok := f.tasks[id.Hex()]
		if !ok || t.Completed {
			continue
		}
		t.AssignedUser = userID
		t.AssignedUserName = userName
	}
	return nil
}

func (f *FakeTaskStore) UnassignMany(ctx context.Context, taskIDs []primitive.ObjectID) error {
	if f.UnassignManyErr != nil {
		return f.UnassignManyErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range taskIDs {
		t, ok := f.tasks[id.Hex()]
		if !ok {
			continue
		}
		t.AssignedUser = ""
		t.AssignedUserName = model.Unassigned
	}
	return nil
}

// FakeUserStore is an in-memory store.UserStore. It enforces the unique
// case-insensitive email constraint the Mongo index provides.
type FakeUserStore struct {
	mu    sync.RWMutex
	users map[string]*model.User
	order []string

	LastQuery       store.Query
	LastCountFilter bson.M

	// Error injection
	ListErr          error
	CountErr         error
	GetErr           error
	InsertErr        error
	ReplaceErr       error
	DeleteErr        error
	FindByEmailErr   error
	AddPendingErr    error
	RemovePendingErr error
}

// NewFakeUserStore creates an empty fake user store.
func NewFakeUserStore() *FakeUserStore {
	return &FakeUserStore{users: make(map[string]*model.User)}
}

// Add seeds a user, assigning an id and creation time if unset.
func (f *FakeUserStore) Add(u model.User) model.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.DateCreated.IsZero() {
		u.DateCreated = time.Now().UTC()
	}
	model.NormalizeUser(&u)
	f.put(u)
	return u
}

func (f *FakeUserStore) put(u model.User) {
	key := u.ID.Hex()
	if _, ok := f.users[key]; !ok {
		f.order = append(f.order, key)
	}
	cp := u
	f.users[key] = &cp
}

// MustGet returns the stored user or panics; seeding/assertion helper.
func (f *FakeUserStore) MustGet(id primitive.ObjectID) model.User {
	f.mu.RLock()
	defer f.mu.RUnlock()
	u, ok := f.users[id.Hex()]
	if !ok {
		panic("storetest: user not found: " + id.Hex())
	}
	return *u
}

func (f *FakeUserStore) List(ctx context.Context, q store.Query) ([]model.User, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastQuery = q
	out := []model.User{}
	for _, key := range f.order {
		out = append(out, *f.users[key])
	}
	return out, nil
}

func (f *FakeUserStore) Count(ctx context.Context, filter bson.M) (int64, error) {
	if f.CountErr != nil {
		return 0, f.CountErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastCountFilter = filter
	return int64(len(f.users)), nil
}

func (f *FakeUserStore) Get(ctx context.Context, id primitive.ObjectID, projection bson.M) (*model.User, error) {
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	u, ok := f.users[id.Hex()]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *FakeUserStore) Insert(ctx context.Context, u *model.User) error {
	if f.InsertErr != nil {
		return f.InsertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.emailTaken(u.Email, u.ID) {
		return store.ErrDuplicateEmail
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.DateCreated.IsZero() {
		u.DateCreated = time.Now().UTC()
	}
	model.NormalizeUser(u)
	f.put(*u)
	return nil
}

func (f *FakeUserStore) Replace(ctx context.Context, u *model.User) error {
	if f.ReplaceErr != nil {
		return f.ReplaceErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID.Hex()]; !ok {
		return store.ErrNotFound
	}
	if f.emailTaken(u.Email, u.ID) {
		return store.ErrDuplicateEmail
	}
	model.NormalizeUser(u)
	f.put(*u)
	return nil
}

func (f *FakeUserStore) emailTaken(email string, self primitive.ObjectID) bool {
	for _, other := range f.users {
		if other.ID != self && strings.EqualFold(other.Email, email) {
			return true
		}
	}
	return false
}

func (f *FakeUserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := id.Hex()
	if _, ok := f.users[key]; !ok {
		return store.ErrNotFound
	}
	delete(f.users, key)
	for i, k := range f.order {
		if k == key {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *FakeUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if f.FindByEmailErr != nil {
		return nil, f.FindByEmailErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, key := range f.order {
		u := f.users[key]
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *FakeUserStore) AddPendingTask(ctx context.Context, userID primitive.ObjectID, taskID string) error {
	if f.AddPendingErr != nil {
		return f.AddPendingErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID.Hex()]
	if !ok {
		return nil // update matched nothing
	}
	for _, id := range u.PendingTasks {
		if id == taskID {
			return nil
		}
	}
	u.PendingTasks = append(u.PendingTasks, taskID)
	return nil
}

func (f *FakeUserStore) RemovePendingTask(ctx context.Context, userID primitive.ObjectID, taskID string) error {
	if f.RemovePendingErr != nil {
		return f.RemovePendingErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID.Hex()]
	if !ok {
		return nil
	}
	kept := u.PendingTasks[:0]
	for _, id := range u.PendingTasks {
		if id != taskID {
			kept = append(kept, id)
		}
	}
	u.PendingTasks = kept
	return nil
}
