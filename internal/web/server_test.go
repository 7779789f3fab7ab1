package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/task-tracker/internal/client"
	"github.com/Tomlord1122/task-tracker/internal/store"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) GetRecentTasks(ctx context.Context) ([]client.Task, error) {
	args := m.Called(ctx)
	tasks, _ := args.Get(0).([]client.Task)
	return tasks, args.Error(1)
}

func (m *MockAPI) CreateTask(ctx context.Context, input client.CreateTaskInput) (*client.Task, error) {
	args := m.Called(ctx, input)
	task, _ := args.Get(0).(*client.Task)
	return task, args.Error(1)
}

func (m *MockAPI) CompleteTask(ctx context.Context, id string) (*client.Task, error) {
	args := m.Called(ctx, id)
	task, _ := args.Get(0).(*client.Task)
	return task, args.Error(1)
}

var sampleTasks = []client.Task{
	{ID: "0190a6e0-0000-7000-8000-000000000002", Title: "Buy books", Description: "For the semester", CreatedAt: "2024-01-02T10:00:00Z"},
	{ID: "0190a6e0-0000-7000-8000-000000000001", Title: "Clean home", Description: "Before guests", CreatedAt: "2024-01-01T10:00:00Z"},
}

func setupWebServer(t *testing.T) (*MockAPI, http.Handler) {
	t.Helper()
	api := new(MockAPI)
	return api, newServer(api).RegisterRoutes()
}

// visitor is a browser that keeps the cookies the frontend sets.
type visitor struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

func newVisitor(t *testing.T, handler http.Handler) *visitor {
	return &visitor{t: t, handler: handler}
}

func (v *visitor) do(method, path string, form url.Values) (int, string) {
	v.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range v.cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	v.handler.ServeHTTP(rr, req)
	if set := rr.Result().Cookies(); len(set) > 0 {
		v.cookies = set
	}
	return rr.Code, rr.Body.String()
}

func TestIndex_Populated(t *testing.T) {
	api, handler := setupWebServer(t)
	user := newVisitor(t, handler)
	api.On("GetRecentTasks", mock.Anything).Return(sampleTasks, nil)

	code, body := user.do(http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Recent Tasks")
	assert.Contains(t, body, "Buy books")
	assert.Contains(t, body, "Clean home")
	assert.Contains(t, body, "/tasks/"+sampleTasks[0].ID+"/complete")
	assert.Less(t, strings.Index(body, "Buy books"), strings.Index(body, "Clean home"))
	assert.NotContains(t, body, "No tasks yet")
}

func TestIndex_Empty(t *testing.T) {
	api, handler := setupWebServer(t)
	user := newVisitor(t, handler)
	api.On("GetRecentTasks", mock.Anything).Return([]client.Task{}, nil)

	code, body := user.do(http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "No tasks yet")
	assert.Contains(t, body, "Create your first task to get started!")
}

func TestIndex_FetchFailureOffersRetry(t *testing.T) {
	api, handler := setupWebServer(t)
	user := newVisitor(t, handler)
	api.On("GetRecentTasks", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	_, body := user.do(http.MethodGet, "/", nil)
	assert.Contains(t, body, store.MsgFetchFailed)
	assert.Contains(t, body, `action="/retry"`)

	api.On("GetRecentTasks", mock.Anything).Return(sampleTasks, nil).Once()
	_, body = user.do(http.MethodPost, "/retry", url.Values{})
	assert.NotContains(t, body, store.MsgFetchFailed)
	assert.Contains(t, body, "Buy books")
	assert.Contains(t, body, msgRetrying)
}

func TestCreateTask_ValidationKeepsInput(t *testing.T) {
	api, handler := setupWebServer(t)
	user := newVisitor(t, handler)

	code, body := user.do(http.MethodPost, "/tasks", url.Values{
		"title":       {"Draft title"},
		"description": {""},
	})

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body, "Description is required")
	assert.Contains(t, body, `value="Draft title"`)
	api.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything)
}

func TestCreateTask_TooLong(t *testing.T) {
	_, handler := setupWebServer(t)
	user := newVisitor(t, handler)

	_, body := user.do(http.MethodPost, "/tasks", url.Values{
		"title":       {strings.Repeat("a", 201)},
		"description": {"ok"},
	})

	assert.Contains(t, body, "Title too long")
}

func TestCreateTask_SuccessClearsForm(t *testing.T) {
	api, handler := setupWebServer(t)
	user := newVisitor(t, handler)
	input := client.CreateTaskInput{Title: "Buy books", Description: "For the semester"}
	api.On("CreateTask", mock.Anything, input).Return(&sampleTasks[0], nil)
	api.On("GetRecentTasks", mock.Anything).Return(sampleTasks[:1], nil)

	code, body := user.do(http.MethodPost, "/tasks", url.Values{
		"title":       {input.Title},
		"description": {input.Description},
	})

	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, msgCreated)
	assert.Contains(t, body, `value=""`)
	assert.Contains(t, body, "Buy books")
	api.AssertExpectations(t)
}

func TestCreateTask_FailureKeepsInput(t *testing.T) {
	api, handler := setupWebServer(t)
	user := newVisitor(t, handler)
	api.On("CreateTask", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	_, body := user.do(http.MethodPost, "/tasks", url.Values{
		"title":       {"Keep me"},
		"description": {"Around"},
	})

	assert.Contains(t, body, msgCreateFailed)
	assert.Contains(t, body, `value="Keep me"`)
	assert.Contains(t, body, `action="/dismiss"`)
}

func TestCompleteTask(t *testing.T) {
	api, handler := setupWebServer(t)
	user := newVisitor(t, handler)
	api.On("GetRecentTasks", mock.Anything).Return(sampleTasks, nil).Once()
	_, body := user.do(http.MethodGet, "/", nil)
	require.Contains(t, body, "Buy books")

	id := sampleTasks[0].ID
	api.On("CompleteTask", mock.Anything, id).Return(&sampleTasks[0], nil)
	api.On("GetRecentTasks", mock.Anything).Return(sampleTasks[1:], nil).Once()

	code, body := user.do(http.MethodPost, "/tasks/"+id+"/complete", url.Values{})

	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, msgCompleted)
	assert.NotContains(t, body, "Buy books")
	assert.Contains(t, body, "Clean home")
}

func TestCompleteTask_Failure(t *testing.T) {
	api, handler := setupWebServer(t)
	user := newVisitor(t, handler)
	api.On("CompleteTask", mock.Anything, "missing").Return(nil, &client.APIError{StatusCode: http.StatusNotFound, Message: "Task not found"})

	_, body := user.do(http.MethodPost, "/tasks/missing/complete", url.Values{})

	assert.Contains(t, body, msgCompleteFailed)
	assert.Contains(t, body, store.MsgCompleteFailed)
}

func TestDismissClearsNotice(t *testing.T) {
	api, handler := setupWebServer(t)
	user := newVisitor(t, handler)
	api.On("CreateTask", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	_, body := user.do(http.MethodPost, "/tasks", url.Values{"title": {"a"}, "description": {"b"}})
	require.Contains(t, body, store.MsgCreateFailed)

	_, body = user.do(http.MethodPost, "/dismiss", url.Values{})
	assert.NotContains(t, body, store.MsgCreateFailed)
}

func TestSessions_VisitorsDoNotShareState(t *testing.T) {
	api, handler := setupWebServer(t)
	alice := newVisitor(t, handler)
	bob := newVisitor(t, handler)
	api.On("CreateTask", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	_, body := alice.do(http.MethodPost, "/tasks", url.Values{"title": {"a"}, "description": {"b"}})
	require.Contains(t, body, `class="notice"`)
	require.Len(t, alice.cookies, 1)

	code, body := bob.do(http.MethodPost, "/tasks", url.Values{"title": {""}, "description": {""}})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotContains(t, body, `class="notice"`)
	assert.NotContains(t, body, store.MsgCreateFailed)
	require.Len(t, bob.cookies, 1)
	assert.NotEqual(t, alice.cookies[0].Value, bob.cookies[0].Value)

	_, body = alice.do(http.MethodPost, "/tasks", url.Values{"title": {""}, "description": {""}})
	assert.Contains(t, body, store.MsgCreateFailed)
}

func TestSessions_UnknownCookieStartsNewSession(t *testing.T) {
	_, handler := setupWebServer(t)
	user := newVisitor(t, handler)
	user.cookies = []*http.Cookie{{Name: sessionCookieName, Value: "forged"}}

	user.do(http.MethodPost, "/dismiss", url.Values{})

	require.Len(t, user.cookies, 1)
	assert.NotEqual(t, "forged", user.cookies[0].Value)
	assert.True(t, user.cookies[0].HttpOnly)
}

func TestSessions_ExpiredSessionsArePruned(t *testing.T) {
	ss := newSessions(new(MockAPI))
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	ss.now = func() time.Time { return now }

	first := httptest.NewRecorder()
	ss.storeFor(first, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, 1, ss.len())

	now = now.Add(sessionTTL)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(first.Result().Cookies()[0])
	second := httptest.NewRecorder()
	ss.storeFor(second, req)

	assert.Equal(t, 1, ss.len())
	require.Len(t, second.Result().Cookies(), 1)
	assert.NotEqual(t, first.Result().Cookies()[0].Value, second.Result().Cookies()[0].Value)
}

func TestListModeFor(t *testing.T) {
	tests := []struct {
		name  string
		state store.State
		want  listMode
	}{
		{"first load", store.State{Loading: true}, listLoading},
		{"refresh keeps tasks visible", store.State{Loading: true, Tasks: sampleTasks}, listPopulated},
		{"fetch failed", store.State{Error: store.MsgFetchFailed, Tasks: sampleTasks}, listError},
		{"create failed is not a list error", store.State{Error: store.MsgCreateFailed}, listEmpty},
		{"empty", store.State{}, listEmpty},
		{"populated", store.State{Tasks: sampleTasks}, listPopulated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, listModeFor(tt.state))
		})
	}
}

func TestNewListView_DisablesPendingItem(t *testing.T) {
	st := store.Reduce(store.State{Tasks: sampleTasks}, store.CompleteStarted{ID: sampleTasks[1].ID})

	view := newListView(st)

	require.Len(t, view.Items, 2)
	assert.False(t, view.Items[0].Disabled)
	assert.True(t, view.Items[1].Disabled)
	assert.Equal(t, "Buy books", view.Items[0].Title)
}
