package model

import (
	"errors"
	"reflect"
	"time"

	"snowcord/hydrate"
)

// Channel is any text, voice, category or DM channel. The Type field
// discriminates which of the optional fields are meaningful.
type Channel struct {
	session Session

	ID                   Snowflake
	Type                 ChannelType
	GuildID              Snowflake
	Position             int
	PermissionOverwrites []*PermissionOverwrite
	Name                 string
	Topic                string
	IsNSFW               bool
	LastMessageID        Snowflake
	RateLimitPerUser     int
	Recipients           []*User
	OwnerID              Snowflake
	ParentID             Snowflake
	LastPinAt            time.Time
}

// ChannelSchema hydrates "Channel" payloads into *Channel.
var ChannelSchema = hydrate.Register(&hydrate.Schema{
	Name:   "Channel",
	GoType: reflect.TypeOf((*Channel)(nil)),
	Rename: map[string]string{
		"id":                 "channel_id",
		"type":               "channel_type",
		"nsfw":               "is_nsfw",
		"last_pin_timestamp": "last_pin_at",
	},
	Converters: map[string]hydrate.Converter{
		"channel_id":      AsSnowflake,
		"channel_type":    AsChannelType,
		"guild_id":        AsSnowflake,
		"last_message_id": AsSnowflake,
		"owner_id":        AsSnowflake,
		"parent_id":       AsSnowflake,
	},
	Fields: []hydrate.Field{
		{Name: "client", Kind: hydrate.ParamPositionalOrKeyword, Type: hydrate.Deferred("Client")},
		{Name: "channel_id", Kind: hydrate.ParamPositionalOrKeyword, Type: hydrate.Go[Snowflake]()},
		{Name: "channel_type", Type: hydrate.Go[ChannelType]()},
		{Name: "guild_id", Type: hydrate.Optional(hydrate.Go[Snowflake]())},
		{Name: "position", Type: hydrate.Optional(hydrate.Int())},
		{Name: "permission_overwrites", Type: hydrate.List(hydrate.Model("PermissionOverwrite"))},
		{Name: "name", Type: hydrate.Optional(hydrate.String())},
		{Name: "topic", Type: hydrate.Optional(hydrate.String())},
		{Name: "is_nsfw", Type: hydrate.Optional(hydrate.Bool())},
		{Name: "last_message_id", Type: hydrate.Optional(hydrate.Go[Snowflake]())},
		{Name: "rate_limit_per_user", Type: hydrate.Optional(hydrate.Int())},
		{Name: "recipients", Type: hydrate.List(hydrate.Model("User"))},
		{Name: "owner_id", Type: hydrate.Optional(hydrate.Go[Snowflake]())},
		{Name: "parent_id", Type: hydrate.Optional(hydrate.Go[Snowflake]())},
		{Name: "last_pin_at", Type: hydrate.Optional(hydrate.Time())},
	},
	New: func(args *hydrate.BoundArgs) (any, error) {
		sess, _ := hydrate.Pos[Session](args, 0)

		id, ok := hydrate.Pos[Snowflake](args, 1)
		if !ok {
			return nil, errors.New("channel payloads require an id")
		}

		overwrites, ok := hydrate.ArgSlice[*PermissionOverwrite](args, "permission_overwrites")
		if !ok {
			return nil, errors.New("permission_overwrites must hydrate to overwrite models")
		}

		recipients, ok := hydrate.ArgSlice[*User](args, "recipients")
		if !ok {
			return nil, errors.New("recipients must hydrate to user models")
		}

		return &Channel{
			session:              sess,
			ID:                   id,
			Type:                 hydrate.ArgOr(args, "channel_type", ChannelGuildText),
			GuildID:              hydrate.ArgOr(args, "guild_id", Snowflake(0)),
			Position:             int(hydrate.ArgOr(args, "position", 0.0)),
			PermissionOverwrites: overwrites,
			Name:                 hydrate.ArgOr(args, "name", ""),
			Topic:                hydrate.ArgOr(args, "topic", ""),
			IsNSFW:               hydrate.ArgOr(args, "is_nsfw", false),
			LastMessageID:        hydrate.ArgOr(args, "last_message_id", Snowflake(0)),
			RateLimitPerUser:     int(hydrate.ArgOr(args, "rate_limit_per_user", 0.0)),
			Recipients:           recipients,
			OwnerID:              hydrate.ArgOr(args, "owner_id", Snowflake(0)),
			ParentID:             hydrate.ArgOr(args, "parent_id", Snowflake(0)),
			LastPinAt:            hydrate.ArgOr(args, "last_pin_at", time.Time{}),
		}, nil
	},
})

// IsGuildChannel reports whether the channel lives inside a guild.
func (c *Channel) IsGuildChannel() bool {
	switch c.Type {
	case ChannelGuildText, ChannelGuildVoice, ChannelGuildCategory, ChannelGuildNews:
		return true
	default:
		return false
	}
}

// Mention returns the chat markup that links the channel.
func (c *Channel) Mention() string {
	return "<#" + c.ID.String() + ">"
}

// PermissionsFor folds the channel's overwrites into a member's base
// permission set: the everyone overwrite first, then role overwrites, then
// the member's own.
func (c *Channel) PermissionsFor(base PermissionFlags, member *GuildMember) PermissionFlags {
	if base.Has(PermAdministrator) {
		return base
	}

	perms := base

	for _, ov := range c.PermissionOverwrites {
		if ov.Type == OverwriteRole && ov.TargetID == c.GuildID {
			perms = ov.Apply(perms)
		}
	}

	if member == nil {
		return perms
	}

	var allow, deny PermissionFlags

	for _, ov := range c.PermissionOverwrites {
		if ov.Type == OverwriteRole && member.HasRole(ov.TargetID) {
			allow |= ov.Allow
			deny |= ov.Deny
		}
	}

	perms = (perms &^ deny) | allow

	if member.User != nil {
		for _, ov := range c.PermissionOverwrites {
			if ov.Type == OverwriteMember && ov.TargetID == member.User.ID {
				perms = ov.Apply(perms)
			}
		}
	}

	return perms
}
