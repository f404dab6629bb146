package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/l1jgo/gameserver/internal/config"
	"github.com/l1jgo/gameserver/internal/core/event"
	"github.com/l1jgo/gameserver/internal/core/ioc"
	"github.com/l1jgo/gameserver/internal/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testToken = "secret"

type fixture struct {
	server *Server
	hub    *Hub
	http   *httptest.Server
}

func newFixture(t *testing.T, opts Options) fixture {
	t.Helper()
	log := zap.NewNop()
	c, err := system.NewContainer(system.Options{}, log)
	require.NoError(t, err)

	auth, err := NewAuth(config.AuthConfig{AppToken: testToken})
	require.NoError(t, err)
	hub := NewHub(log)
	hub.Attach(ioc.MustResolve[*event.Bus](c))

	s := NewServer(ioc.MustResolve[*system.Games](c), auth, hub, opts, log)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		hub.Close()
		ts.Close()
	})
	return fixture{server: s, hub: hub, http: ts}
}

func (f fixture) do(t *testing.T, method, path string, query url.Values) *http.Response {
	t.Helper()
	if query == nil {
		query = url.Values{}
	}
	if !query.Has(AppTokenParam) {
		query.Set(AppTokenParam, testToken)
	}
	req, err := http.NewRequest(method, f.http.URL+path+"?"+query.Encode(), nil)
	require.NoError(t, err)
	resp, err := f.http.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestCreateGetRemove(t *testing.T) {
	f := newFixture(t, Options{})

	resp := f.do(t, http.MethodPost, "/api/create", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	created := decode[GameDTO](t, resp)
	require.NotEmpty(t, created.GameToken)
	require.Len(t, created.PlayerTokens, 2)
	assert.NotEqual(t, created.PlayerTokens[0], created.PlayerTokens[1])

	resp = f.do(t, http.MethodGet, "/api/get", url.Values{"token": {created.GameToken}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created, decode[GameDTO](t, resp))

	resp = f.do(t, http.MethodPost, "/api/remove", url.Values{"token": {created.GameToken}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/get", url.Values{"token": {created.GameToken}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = f.do(t, http.MethodPost, "/api/remove", url.Values{"token": {created.GameToken}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = f.do(t, http.MethodGet, "/api/get", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListGames(t *testing.T) {
	f := newFixture(t, Options{PlayersPerGame: 3})

	resp := f.do(t, http.MethodGet, "/api/list", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[listResponse](t, resp).Games.GameTokens)

	a := decode[GameDTO](t, f.do(t, http.MethodPost, "/api/create", nil))
	b := decode[GameDTO](t, f.do(t, http.MethodPost, "/api/create", nil))
	assert.Len(t, a.PlayerTokens, 3)

	resp = f.do(t, http.MethodGet, "/api/list", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []GameDTO{a, b}, decode[listResponse](t, resp).Games.GameTokens)
}

func TestListWireShape(t *testing.T) {
	f := newFixture(t, Options{})
	f.do(t, http.MethodPost, "/api/create", nil)

	raw := decode[map[string]map[string][]map[string]any](t, f.do(t, http.MethodGet, "/api/list", nil))
	games := raw["games"]["gameTokens"]
	require.Len(t, games, 1)
	assert.Contains(t, games[0], "gameToken")
	assert.Contains(t, games[0], "playerTokens")
}

func TestAppTokenRequired(t *testing.T) {
	f := newFixture(t, Options{})

	for _, token := range []string{"", "wrong"} {
		resp := f.do(t, http.MethodGet, "/api/list", url.Values{AppTokenParam: {token}})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		body := decode[errorResponse](t, resp)
		assert.Equal(t, unauthorizedMessage, body.Error)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	f := newFixture(t, Options{})
	resp := f.do(t, http.MethodGet, "/api/create", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	var down atomic.Bool
	f := newFixture(t, Options{Ready: func(context.Context) error {
		if down.Load() {
			return errors.New("db gone")
		}
		return nil
	}})

	for _, path := range []string{"/health", "/health/ready"} {
		resp, err := f.http.Client().Get(f.http.URL + path)
		require.NoError(t, err)
		body := new(strings.Builder)
		_, _ = body.ReadFrom(resp.Body)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "Healthy", body.String(), path)
	}

	down.Store(true)
	resp, err := f.http.Client().Get(f.http.URL + "/health/ready")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestEventFeed(t *testing.T) {
	f := newFixture(t, Options{})

	u := "ws" + strings.TrimPrefix(f.http.URL, "http") + "/api/events"
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	require.Error(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	conn, _, err := websocket.DefaultDialer.Dial(u+"?"+AppTokenParam+"="+testToken, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return f.hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	game := decode[GameDTO](t, f.do(t, http.MethodPost, "/api/create", nil))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got []system.Activity
	for i := 0; i < 3; i++ {
		var a system.Activity
		require.NoError(t, conn.ReadJSON(&a))
		got = append(got, a)
	}
	assert.Equal(t, system.ActivityGameCreated, got[0].Kind)
	assert.Equal(t, game.GameToken, got[0].Game)
	assert.Equal(t, system.ActivityPlayerJoined, got[1].Kind)
	assert.Equal(t, game.PlayerTokens[0], got[1].Player)
	assert.Equal(t, game.PlayerTokens[1], got[2].Player)

	f.hub.Close()
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}
