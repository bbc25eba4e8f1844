package rest

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/sjson"
)

// Endpoint is one callable API route: a method, a path relative to the API
// base, and an optional JSON body.
type Endpoint struct {
	Method string
	Path   string
	Body   []byte
}

func route(method string, parts ...string) Endpoint {
	return Endpoint{Method: method, Path: "/" + strings.Join(parts, "/")}
}

// GetCurrentUser fetches the user belonging to the active token.
func GetCurrentUser() Endpoint {
	return route(http.MethodGet, "users", "@me")
}

// GetUser fetches a user by id.
func GetUser(userID string) Endpoint {
	return route(http.MethodGet, "users", userID)
}

// PatchCurrentUser modifies the current user. Only non-nil fields are sent;
// a nil avatar leaves it untouched while a pointer to "" clears it.
func PatchCurrentUser(username *string, avatarData *string) (Endpoint, error) {
	ep := route(http.MethodPatch, "users", "@me")

	body := []byte(`{}`)

	var err error

	if username != nil {
		body, err = sjson.SetBytes(body, "username", *username)
		if err != nil {
			return Endpoint{}, fmt.Errorf("rest: building user patch body: %w", err)
		}
	}

	if avatarData != nil {
		if *avatarData == "" {
			body, err = sjson.SetBytes(body, "avatar", nil)
		} else {
			body, err = sjson.SetBytes(body, "avatar", *avatarData)
		}

		if err != nil {
			return Endpoint{}, fmt.Errorf("rest: building user patch body: %w", err)
		}
	}

	ep.Body = body

	return ep, nil
}

// GetChannel fetches a channel by id.
func GetChannel(channelID string) Endpoint {
	return route(http.MethodGet, "channels", channelID)
}

// GetGuildMember fetches a guild member by guild and user id.
func GetGuildMember(guildID, userID string) Endpoint {
	return route(http.MethodGet, "guilds", guildID, "members", userID)
}

// GetGuildRoles fetches all roles of a guild.
func GetGuildRoles(guildID string) Endpoint {
	return route(http.MethodGet, "guilds", guildID, "roles")
}
