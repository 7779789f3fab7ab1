package web

import (
	"github.com/Tomlord1122/task-tracker/internal/client"
	"github.com/Tomlord1122/task-tracker/internal/store"
)

type listMode int

const (
	listLoading listMode = iota
	listError
	listEmpty
	listPopulated
)

type flashKind string

const (
	flashSuccess flashKind = "success"
	flashError   flashKind = "error"
	flashInfo    flashKind = "info"
)

type flash struct {
	Kind    flashKind
	Message string
}

type formView struct {
	Title       string
	Description string
	Errors      map[string]string
	Busy        bool
}

type itemView struct {
	ID          string
	Title       string
	Description string
	Created     string
	Disabled    bool
}

type listView struct {
	Mode  listMode
	Error string
	Items []itemView
}

func (l listView) Loading() bool   { return l.Mode == listLoading }
func (l listView) Failed() bool    { return l.Mode == listError }
func (l listView) Empty() bool     { return l.Mode == listEmpty }
func (l listView) Populated() bool { return l.Mode == listPopulated }

type pageView struct {
	Form   formView
	List   listView
	Flash  *flash
	Notice string
}

// listModeFor picks exactly one of the list states. Only fetch failures take
// over the list; create and complete failures are shown as a notice instead.
func listModeFor(st store.State) listMode {
	switch {
	case st.Loading && len(st.Tasks) == 0:
		return listLoading
	case st.Error == store.MsgFetchFailed:
		return listError
	case len(st.Tasks) == 0:
		return listEmpty
	default:
		return listPopulated
	}
}

func newListView(st store.State) listView {
	view := listView{Mode: listModeFor(st), Error: st.Error}
	if view.Mode != listPopulated {
		return view
	}
	view.Items = make([]itemView, 0, len(st.Tasks))
	for _, task := range st.Tasks {
		view.Items = append(view.Items, newItemView(task, st.IsPending(task.ID)))
	}
	return view
}

func newItemView(task client.Task, pending bool) itemView {
	created := task.CreatedAt
	if t := task.Created(); !t.IsZero() {
		created = t.Local().Format("2006-01-02")
	}
	return itemView{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Created:     created,
		Disabled:    pending,
	}
}

func newPageView(st store.State, form formView, f *flash) pageView {
	page := pageView{Form: form, List: newListView(st), Flash: f}
	if st.Error != "" && st.Error != store.MsgFetchFailed {
		page.Notice = st.Error
	}
	return page
}
