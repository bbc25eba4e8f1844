package model

import (
	"reflect"
	"time"

	"snowcord/hydrate"
	"snowcord/internal/common"
)

// GuildMember is a user's membership in one guild. The nested user payload is
// absent on some gateway events, so User may be nil.
type GuildMember struct {
	session Session

	User            *User
	Nickname        string
	GuildAvatarHash string
	RoleIDs         []Snowflake
	JoinedAt        time.Time
	PremiumSince    time.Time
	IsDeaf          bool
	IsMuted         bool
	IsPending       bool
	Permissions     PermissionFlags
	TimedOutUntil   time.Time
}

// MemberSchema hydrates "GuildMember" payloads into *GuildMember.
var MemberSchema = hydrate.Register(&hydrate.Schema{
	Name:   "GuildMember",
	GoType: reflect.TypeOf((*GuildMember)(nil)),
	Rename: map[string]string{
		"nick":                         "nickname",
		"avatar":                       "guild_avatar_hash",
		"roles":                        "role_ids",
		"deaf":                         "is_deaf",
		"mute":                         "is_muted",
		"pending":                      "is_pending",
		"communication_disabled_until": "timed_out_until",
	},
	Converters: map[string]hydrate.Converter{
		"role_ids":    AsSnowflakeList,
		"permissions": AsPermissions,
	},
	Fields: []hydrate.Field{
		{Name: "client", Kind: hydrate.ParamPositionalOrKeyword, Type: hydrate.Deferred("Client")},
		{Name: "user", Type: hydrate.Optional(hydrate.Model("User"))},
		{Name: "nickname", Type: hydrate.Optional(hydrate.String())},
		{Name: "guild_avatar_hash", Type: hydrate.Optional(hydrate.String())},
		{Name: "role_ids", Type: hydrate.Go[[]Snowflake]()},
		{Name: "joined_at", Type: hydrate.Time()},
		{Name: "premium_since", Type: hydrate.Optional(hydrate.Time())},
		{Name: "is_deaf", Type: hydrate.Optional(hydrate.Bool())},
		{Name: "is_muted", Type: hydrate.Optional(hydrate.Bool())},
		{Name: "is_pending", Type: hydrate.Optional(hydrate.Bool())},
		{Name: "permissions", Type: hydrate.Optional(hydrate.Go[PermissionFlags]())},
		{Name: "timed_out_until", Type: hydrate.Optional(hydrate.Time())},
	},
	New: func(args *hydrate.BoundArgs) (any, error) {
		sess, _ := hydrate.Pos[Session](args, 0)

		return &GuildMember{
			session:         sess,
			User:            hydrate.ArgOr[*User](args, "user", nil),
			Nickname:        hydrate.ArgOr(args, "nickname", ""),
			GuildAvatarHash: hydrate.ArgOr(args, "guild_avatar_hash", ""),
			RoleIDs:         hydrate.ArgOr[[]Snowflake](args, "role_ids", nil),
			JoinedAt:        hydrate.ArgOr(args, "joined_at", time.Time{}),
			PremiumSince:    hydrate.ArgOr(args, "premium_since", time.Time{}),
			IsDeaf:          hydrate.ArgOr(args, "is_deaf", false),
			IsMuted:         hydrate.ArgOr(args, "is_muted", false),
			IsPending:       hydrate.ArgOr(args, "is_pending", false),
			Permissions:     hydrate.ArgOr(args, "permissions", PermissionFlags(0)),
			TimedOutUntil:   hydrate.ArgOr(args, "timed_out_until", time.Time{}),
		}, nil
	},
})

// DisplayName returns the name shown in the guild: nickname first, then the
// account username.
func (m *GuildMember) DisplayName() string {
	if m.Nickname != "" {
		return m.Nickname
	}

	if m.User != nil {
		return m.User.Username
	}

	return ""
}

// RoleMentions returns the chat markup pinging each of the member's roles,
// in role order.
func (m *GuildMember) RoleMentions() []string {
	return common.Map(m.RoleIDs, func(id Snowflake) string {
		return "<@&" + id.String() + ">"
	})
}

// HasRole reports whether the member carries the role id.
func (m *GuildMember) HasRole(id Snowflake) bool {
	for _, r := range m.RoleIDs {
		if r == id {
			return true
		}
	}

	return false
}

// IsTimedOut reports whether a communication timeout is currently active.
func (m *GuildMember) IsTimedOut() bool {
	return !m.TimedOutUntil.IsZero() && m.TimedOutUntil.After(time.Now())
}
