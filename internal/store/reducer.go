// Package store is the frontend state container: a pure reducer over
// message-style actions, and a Store that runs the network calls.
package store

import "github.com/Tomlord1122/task-tracker/internal/client"

// Fixed, user-facing failure messages.
const (
	MsgFetchFailed    = "Failed to fetch tasks"
	MsgCreateFailed   = "Failed to create task"
	MsgCompleteFailed = "Failed to complete task"
)

// State is what the views render. Error is empty when there is no error.
// Pending holds the ids whose completion request is in flight.
type State struct {
	Tasks   []client.Task
	Loading bool
	Error   string
	Pending map[string]bool
}

// IsPending reports whether a completion for id is in flight.
func (s State) IsPending(id string) bool {
	return s.Pending[id]
}

func (s State) clone() State {
	out := s
	if s.Tasks != nil {
		out.Tasks = append([]client.Task(nil), s.Tasks...)
	}
	out.Pending = make(map[string]bool, len(s.Pending))
	for id := range s.Pending {
		out.Pending[id] = true
	}
	return out
}

type Action interface {
	isAction()
}

type (
	FetchStarted      struct{}
	FetchSucceeded    struct{ Tasks []client.Task }
	FetchFailed       struct{}
	CreateStarted     struct{}
	CreateFailed      struct{}
	CompleteStarted   struct{ ID string }
	CompleteSucceeded struct{ ID string }
	CompleteFailed    struct{ ID string }
	ErrorCleared      struct{}
)

func (FetchStarted) isAction()      {}
func (FetchSucceeded) isAction()    {}
func (FetchFailed) isAction()       {}
func (CreateStarted) isAction()     {}
func (CreateFailed) isAction()      {}
func (CompleteStarted) isAction()   {}
func (CompleteSucceeded) isAction() {}
func (CompleteFailed) isAction()    {}
func (ErrorCleared) isAction()      {}

// Reduce returns the state that follows prev after action. prev is not modified.
func Reduce(prev State, action Action) State {
	next := prev.clone()

	switch a := action.(type) {
	case FetchStarted, CreateStarted:
		next.Loading = true
		next.Error = ""
	case FetchSucceeded:
		next.Tasks = append([]client.Task{}, a.Tasks...)
		next.Loading = false
	case FetchFailed:
		next.Error = MsgFetchFailed
		next.Loading = false
	case CreateFailed:
		next.Error = MsgCreateFailed
		next.Loading = false
	case CompleteStarted:
		next.Loading = true
		next.Error = ""
		next.Pending[a.ID] = true
	case CompleteSucceeded:
		delete(next.Pending, a.ID)
	case CompleteFailed:
		delete(next.Pending, a.ID)
		next.Error = MsgCompleteFailed
		next.Loading = false
	case ErrorCleared:
		next.Error = ""
	}

	return next
}
