package model

import (
	"errors"
	"reflect"

	"snowcord/hydrate"
)

// PermissionOverwrite grants and revokes permission bits for one role or
// member on a channel.
type PermissionOverwrite struct {
	TargetID Snowflake
	Type     OverwriteType
	Allow    PermissionFlags
	Deny     PermissionFlags
}

// OverwriteSchema hydrates "PermissionOverwrite" payloads. Overwrites carry
// their bits as strings, so the schema checks every converted field strictly.
var OverwriteSchema = hydrate.Register(&hydrate.Schema{
	Name:   "PermissionOverwrite",
	GoType: reflect.TypeOf((*PermissionOverwrite)(nil)),
	Check:  hydrate.CheckAll,
	Rename: map[string]string{
		"id":   "target_id",
		"type": "overwrite_type",
	},
	Converters: map[string]hydrate.Converter{
		"target_id":      AsSnowflake,
		"overwrite_type": AsOverwriteType,
		"allow":          AsPermissions,
		"deny":           AsPermissions,
	},
	Fields: []hydrate.Field{
		{Name: "target_id", Type: hydrate.Go[Snowflake]()},
		{Name: "overwrite_type", Type: hydrate.Go[OverwriteType]()},
		{Name: "allow", Type: hydrate.Go[PermissionFlags]()},
		{Name: "deny", Type: hydrate.Go[PermissionFlags]()},
	},
	New: func(args *hydrate.BoundArgs) (any, error) {
		id, ok := hydrate.Arg[Snowflake](args, "target_id")
		if !ok {
			return nil, errors.New("permission overwrites require a target id")
		}

		return &PermissionOverwrite{
			TargetID: id,
			Type:     hydrate.ArgOr(args, "overwrite_type", OverwriteRole),
			Allow:    hydrate.ArgOr(args, "allow", PermissionFlags(0)),
			Deny:     hydrate.ArgOr(args, "deny", PermissionFlags(0)),
		}, nil
	},
})

// Apply folds the overwrite into a base permission set: denies clear first,
// then allows set.
func (o *PermissionOverwrite) Apply(base PermissionFlags) PermissionFlags {
	return (base &^ o.Deny) | o.Allow
}

// Role is a guild role.
type Role struct {
	session Session

	ID            Snowflake
	Name          string
	Color         int
	IsHoisted     bool
	Position      int
	Permissions   PermissionFlags
	IsManaged     bool
	IsMentionable bool
}

// RoleSchema hydrates "Role" payloads into *Role.
var RoleSchema = hydrate.Register(&hydrate.Schema{
	Name:   "Role",
	GoType: reflect.TypeOf((*Role)(nil)),
	Rename: map[string]string{
		"id":          "role_id",
		"color":       "color_int",
		"hoist":       "is_hoisted",
		"managed":     "is_managed",
		"mentionable": "is_mentionable",
	},
	Converters: map[string]hydrate.Converter{
		"role_id":     AsSnowflake,
		"permissions": AsPermissions,
	},
	Fields: []hydrate.Field{
		{Name: "client", Kind: hydrate.ParamPositionalOrKeyword, Type: hydrate.Deferred("Client")},
		{Name: "role_id", Kind: hydrate.ParamPositionalOrKeyword, Type: hydrate.Go[Snowflake]()},
		{Name: "name", Type: hydrate.String()},
		{Name: "color_int", Type: hydrate.Optional(hydrate.Int())},
		{Name: "is_hoisted", Type: hydrate.Optional(hydrate.Bool())},
		{Name: "position", Type: hydrate.Optional(hydrate.Int())},
		{Name: "permissions", Type: hydrate.Optional(hydrate.Go[PermissionFlags]())},
		{Name: "is_managed", Type: hydrate.Optional(hydrate.Bool())},
		{Name: "is_mentionable", Type: hydrate.Optional(hydrate.Bool())},
	},
	New: func(args *hydrate.BoundArgs) (any, error) {
		sess, _ := hydrate.Pos[Session](args, 0)

		id, ok := hydrate.Pos[Snowflake](args, 1)
		if !ok {
			return nil, errors.New("role payloads require an id")
		}

		return &Role{
			session:       sess,
			ID:            id,
			Name:          hydrate.ArgOr(args, "name", ""),
			Color:         int(hydrate.ArgOr(args, "color_int", 0.0)),
			IsHoisted:     hydrate.ArgOr(args, "is_hoisted", false),
			Position:      int(hydrate.ArgOr(args, "position", 0.0)),
			Permissions:   hydrate.ArgOr(args, "permissions", PermissionFlags(0)),
			IsManaged:     hydrate.ArgOr(args, "is_managed", false),
			IsMentionable: hydrate.ArgOr(args, "is_mentionable", false),
		}, nil
	},
})

// Mention returns the chat markup that pings the role.
func (r *Role) Mention() string {
	return "<@&" + r.ID.String() + ">"
}

func (r *Role) String() string { return r.Name }
