package snowcord_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snowcord"
	"snowcord/model"
	"snowcord/rest"
)

func TestProcessToken(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"abc123", "Bot abc123"},
		{"Bot abc123", "Bot abc123"},
		{"bot abc123", "Bot abc123"},
		{"BOT abc123", "Bot abc123"},
		{"Bearer abc123", "Bearer abc123"},
		{"bearer abc123", "Bearer abc123"},
		{"  abc123  ", "Bot abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, snowcord.ProcessToken(tt.input))
		})
	}
}

func TestNew_RequiresToken(t *testing.T) {
	_, err := snowcord.New("")
	assert.ErrorIs(t, err, snowcord.ErrMissingToken)

	_, err = snowcord.New("   ")
	assert.ErrorIs(t, err, snowcord.ErrMissingToken)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *snowcord.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := snowcord.New("abc123", snowcord.WithBaseURL(srv.URL))
	require.NoError(t, err)

	return c
}

func TestClient_FetchUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/users/80351110224678912", req.URL.Path)
		assert.Equal(t, "Bot abc123", req.Header.Get("Authorization"))

		w.Write([]byte(`{"id":"80351110224678912","username":"Nelly","discriminator":"1337"}`))
	})

	u, err := c.FetchUser(context.Background(), 80351110224678912)
	require.NoError(t, err)
	assert.Equal(t, "Nelly#1337", u.Tag())

	cached, ok := c.CachedUser(80351110224678912)
	require.True(t, ok)
	assert.Same(t, u, cached)
}

func TestClient_FetchCurrentUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/users/@me", req.URL.Path)

		w.Write([]byte(`{"id":"1","username":"snowbot","bot":true,"verified":true}`))
	})

	bot, err := c.FetchCurrentUser(context.Background())
	require.NoError(t, err)
	assert.True(t, bot.IsBot)
	assert.True(t, bot.IsVerified)

	// the bot account is visible through the user cache too
	cached, ok := c.CachedUser(1)
	require.True(t, ok)
	assert.Equal(t, "snowbot", cached.Username)
}

func TestClient_FetchUserNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":10013,"message":"Unknown User"}`))
	})

	_, err := c.FetchUser(context.Background(), 1)
	assert.ErrorIs(t, err, rest.ErrNotFound)
}

func TestClient_FetchGuildRoles(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/guilds/41771983423143937/roles", req.URL.Path)

		w.Write([]byte(`[
			{"id":"1","name":"everyone","permissions":"1024"},
			{"id":"2","name":"mods","permissions":"8"}
		]`))
	})

	roles, err := c.FetchGuildRoles(context.Background(), 41771983423143937)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "everyone", roles[0].Name)
	assert.True(t, roles[1].Permissions.Has(model.PermAdministrator))
}

func TestClient_ImplementsSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{}`))
	})

	var _ model.Session = c

	assert.NotNil(t, c.Requester())
	assert.NotEmpty(t, c.CDN().AvatarURL("1", "x", rest.ImagePNG, 0))
}
