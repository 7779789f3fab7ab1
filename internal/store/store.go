package store

import (
	"context"
	"errors"
	"sync"

	"github.com/Tomlord1122/task-tracker/internal/client"
)

// ErrInFlight is returned by CompleteTask when the same task is already being completed.
var ErrInFlight = errors.New("completion already in progress")

// API is the subset of the task API the store needs.
type API interface {
	GetRecentTasks(ctx context.Context) ([]client.Task, error)
	CreateTask(ctx context.Context, input client.CreateTaskInput) (*client.Task, error)
	CompleteTask(ctx context.Context, id string) (*client.Task, error)
}

// Store holds the current State. Network calls run outside the lock.
type Store struct {
	api API

	mu          sync.Mutex
	state       State
	subscribers map[int]func(State)
	nextSubID   int
}

func New(api API) *Store {
	return &Store{
		api:         api,
		state:       State{Tasks: []client.Task{}, Pending: map[string]bool{}},
		subscribers: make(map[int]func(State)),
	}
}

// State returns a snapshot that callers may keep.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn to receive every new state. The returned func removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// Dispatch applies action and notifies subscribers.
func (s *Store) Dispatch(action Action) {
	s.dispatchIf(action, nil)
}

// dispatchIf applies action only when guard (evaluated under the lock) allows it.
func (s *Store) dispatchIf(action Action, guard func(State) bool) bool {
	s.mu.Lock()
	if guard != nil && !guard(s.state) {
		s.mu.Unlock()
		return false
	}
	s.state = Reduce(s.state, action)
	snapshot := s.state.clone()
	subs := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
	return true
}

// FetchTasks replaces the task list with the API's recent list.
func (s *Store) FetchTasks(ctx context.Context) error {
	s.Dispatch(FetchStarted{})
	tasks, err := s.api.GetRecentTasks(ctx)
	if err != nil {
		s.Dispatch(FetchFailed{})
		return err
	}
	s.Dispatch(FetchSucceeded{Tasks: tasks})
	return nil
}

// CreateTask creates a task and then refetches the list. A failed refetch is
// reported through State().Error only, since the task itself was created.
func (s *Store) CreateTask(ctx context.Context, input client.CreateTaskInput) error {
	s.Dispatch(CreateStarted{})
	if _, err := s.api.CreateTask(ctx, input); err != nil {
		s.Dispatch(CreateFailed{})
		return err
	}
	_ = s.FetchTasks(ctx)
	return nil
}

// CompleteTask completes the task with id and then refetches the list. It
// returns ErrInFlight without calling the API when id is already pending.
func (s *Store) CompleteTask(ctx context.Context, id string) error {
	started := s.dispatchIf(CompleteStarted{ID: id}, func(st State) bool {
		return !st.IsPending(id)
	})
	if !started {
		return ErrInFlight
	}

	if _, err := s.api.CompleteTask(ctx, id); err != nil {
		s.Dispatch(CompleteFailed{ID: id})
		return err
	}
	s.Dispatch(CompleteSucceeded{ID: id})
	_ = s.FetchTasks(ctx)
	return nil
}

func (s *Store) ClearError() {
	s.Dispatch(ErrorCleared{})
}
