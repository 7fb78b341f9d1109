package progressclient

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Powerhouse0784/Coaching-sub000/core/progress"
)

type call struct {
	method, path, auth string
	body               []byte
}

type recorder struct {
	mu    sync.Mutex
	calls []call
}

func (r *recorder) all() []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]call(nil), r.calls...)
}

func newTestServer(t *testing.T, code int) (*httptest.Server, *recorder) {
	calls := new(recorder)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := ioutil.ReadAll(r.Body)
		require.NoError(t, err)
		calls.mu.Lock()
		calls.calls = append(calls.calls, call{method: r.Method, path: r.URL.Path, auth: r.Header.Get("Authorization"), body: body})
		calls.mu.Unlock()
		w.WriteHeader(code)
		_, _ = w.Write([]byte(`{"error": "boom"}`))
	}))
	t.Cleanup(srv.Close)
	return srv, calls
}

func TestClient(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK)
	c := New(srv.URL+"/", "tok", time.Second)

	require.NoError(t, c.Sync(context.Background(), "f1-v1", progress.Update{WatchedPercentage: 25, WatchedSeconds: 30}))
	require.NoError(t, c.RecordView(context.Background(), "f1-v1"))

	got := calls.all()
	require.Len(t, got, 2)
	syncCall := got[0]
	assert.Equal(t, http.MethodPut, syncCall.method)
	assert.Equal(t, "/v1/videos/f1-v1/progress", syncCall.path)
	assert.Equal(t, "Bearer tok", syncCall.auth)
	var upd progress.Update
	require.NoError(t, json.Unmarshal(syncCall.body, &upd))
	assert.Equal(t, progress.Update{WatchedPercentage: 25, WatchedSeconds: 30}, upd)

	view := got[1]
	assert.Equal(t, http.MethodPost, view.method)
	assert.Equal(t, "/v1/videos/f1-v1/views", view.path)
}

func TestClient_ErrorStatus(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusNotFound)
	c := New(srv.URL, "tok", time.Second)

	err := c.Sync(context.Background(), "nope", progress.Update{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	_, withStack := err.(interface{ StackTrace() errors.StackTrace })
	assert.True(t, withStack)
}
