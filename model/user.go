package model

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"time"

	"snowcord/hydrate"
	"snowcord/rest"
)

// User is a platform account as other clients see it. Email, verification and
// MFA state only arrive on payloads about the token's own account.
type User struct {
	session Session

	ID            Snowflake
	Username      string
	Discriminator string
	AvatarHash    string
	IsBot         bool
	IsSystem      bool
	IsMFAEnabled  bool
	BannerHash    string
	AccentColor   int
	Locale        Locale
	IsVerified    bool
	Email         string
	Flags         UserFlags
	PremiumType   PremiumType
	PublicFlags   UserFlags
}

// BotUser is the account behind the active token, with the self-modification
// surface bots are allowed.
type BotUser struct {
	User
}

var userRename = map[string]string{
	"id":           "user_id",
	"avatar":       "avatar_hash",
	"bot":          "is_bot",
	"system":       "is_system",
	"mfa_enabled":  "is_mfa_enabled",
	"banner":       "banner_hash",
	"accent_color": "accent_color_int",
	"verified":     "is_verified",
	"flags":        "flags_int",
	"public_flags": "public_flags_int",
}

var userFields = []hydrate.Field{
	{Name: "client", Kind: hydrate.ParamPositionalOrKeyword, Type: hydrate.Deferred("Client")},
	{Name: "user_id", Kind: hydrate.ParamPositionalOrKeyword, Type: hydrate.Go[Snowflake]()},
	{Name: "username", Type: hydrate.String()},
	{Name: "discriminator", Type: hydrate.String()},
	{Name: "avatar_hash", Type: hydrate.Optional(hydrate.String())},
	{Name: "is_bot", Type: hydrate.Optional(hydrate.Bool())},
	{Name: "is_system", Type: hydrate.Optional(hydrate.Bool())},
	{Name: "is_mfa_enabled", Type: hydrate.Optional(hydrate.Bool())},
	{Name: "banner_hash", Type: hydrate.Optional(hydrate.String())},
	{Name: "accent_color_int", Type: hydrate.Optional(hydrate.Int())},
	{Name: "locale", Type: hydrate.Optional(hydrate.Go[Locale]())},
	{Name: "is_verified", Type: hydrate.Optional(hydrate.Bool())},
	{Name: "email", Type: hydrate.Optional(hydrate.String())},
	{Name: "flags_int", Type: hydrate.Optional(hydrate.Go[UserFlags]())},
	{Name: "premium_type", Type: hydrate.Optional(hydrate.Go[PremiumType]())},
	{Name: "public_flags_int", Type: hydrate.Optional(hydrate.Go[UserFlags]())},
}

var userConverters = map[string]hydrate.Converter{
	"user_id":          AsSnowflake,
	"locale":           AsLocale,
	"flags_int":        AsUserFlags,
	"premium_type":     AsPremiumType,
	"public_flags_int": AsUserFlags,
}

// UserSchema hydrates "User" payloads into *User.
var UserSchema = hydrate.Register(&hydrate.Schema{
	Name:       "User",
	GoType:     reflect.TypeOf((*User)(nil)),
	Rename:     userRename,
	Converters: userConverters,
	Fields:     userFields,
	New: func(args *hydrate.BoundArgs) (any, error) {
		u, err := newUser(args)
		if err != nil {
			return nil, err
		}

		return u, nil
	},
})

// BotUserSchema hydrates the token's own account into *BotUser.
var BotUserSchema = hydrate.Register(&hydrate.Schema{
	Name:       "BotUser",
	GoType:     reflect.TypeOf((*BotUser)(nil)),
	Rename:     userRename,
	Converters: userConverters,
	Fields:     userFields,
	New: func(args *hydrate.BoundArgs) (any, error) {
		u, err := newUser(args)
		if err != nil {
			return nil, err
		}

		return &BotUser{User: *u}, nil
	},
})

func newUser(args *hydrate.BoundArgs) (*User, error) {
	sess, _ := hydrate.Pos[Session](args, 0)

	id, ok := hydrate.Pos[Snowflake](args, 1)
	if !ok {
		return nil, errors.New("user payloads require an id")
	}

	return &User{
		session:       sess,
		ID:            id,
		Username:      hydrate.ArgOr(args, "username", ""),
		Discriminator: hydrate.ArgOr(args, "discriminator", ""),
		AvatarHash:    hydrate.ArgOr(args, "avatar_hash", ""),
		IsBot:         hydrate.ArgOr(args, "is_bot", false),
		IsSystem:      hydrate.ArgOr(args, "is_system", false),
		IsMFAEnabled:  hydrate.ArgOr(args, "is_mfa_enabled", false),
		BannerHash:    hydrate.ArgOr(args, "banner_hash", ""),
		AccentColor:   int(hydrate.ArgOr(args, "accent_color_int", 0.0)),
		Locale:        hydrate.ArgOr(args, "locale", Locale("")),
		IsVerified:    hydrate.ArgOr(args, "is_verified", false),
		Email:         hydrate.ArgOr(args, "email", ""),
		Flags:         hydrate.ArgOr(args, "flags_int", UserFlags(0)),
		PremiumType:   hydrate.ArgOr(args, "premium_type", PremiumNone),
		PublicFlags:   hydrate.ArgOr(args, "public_flags_int", UserFlags(0)),
	}, nil
}

// Tag returns the classic username#discriminator handle.
func (u *User) Tag() string {
	return u.Username + "#" + u.Discriminator
}

// Mention returns the chat markup that pings the user.
func (u *User) Mention() string {
	return "<@" + u.ID.String() + ">"
}

// CreatedAt returns when the account was created, derived from its id.
func (u *User) CreatedAt() time.Time {
	return u.ID.Time()
}

// AvatarURL returns the user's avatar asset, or the default avatar when none
// is set. Animated avatars are served as GIF regardless of the requested
// format. Size 0 leaves the CDN default.
func (u *User) AvatarURL(format rest.ImageFormat, size int) string {
	cdn := u.cdn()

	if u.AvatarHash == "" {
		disc, _ := strconv.Atoi(u.Discriminator)

		return cdn.DefaultAvatarURL(disc)
	}

	if rest.IsAnimated(u.AvatarHash) {
		format = rest.ImageGIF
	}

	return cdn.AvatarURL(u.ID.String(), u.AvatarHash, format, size)
}

// BannerURL returns the profile banner asset, or "" when none is set.
func (u *User) BannerURL(format rest.ImageFormat, size int) string {
	if u.BannerHash == "" {
		return ""
	}

	return u.cdn().BannerURL(u.ID.String(), u.BannerHash, format, size)
}

func (u *User) String() string { return u.Tag() }

func (u *User) cdn() rest.CDN {
	if u.session != nil {
		return u.session.CDN()
	}

	return rest.NewCDN("https://cdn.snowcord.dev")
}

// Modify updates the bot's own username and avatar, returning the refreshed
// account. Nil arguments leave the field untouched; an avatar pointer to ""
// clears it.
func (b *BotUser) Modify(ctx context.Context, username *string, avatarData *string) (*BotUser, error) {
	if b.session == nil {
		return nil, errors.New("model: bot user is not attached to a session")
	}

	ep, err := rest.PatchCurrentUser(username, avatarData)
	if err != nil {
		return nil, err
	}

	body, err := b.session.Requester().Do(ctx, ep)
	if err != nil {
		return nil, err
	}

	payload, err := rest.DecodeObject(body)
	if err != nil {
		return nil, err
	}

	return hydrate.As[*BotUser](BotUserSchema, b.session, payload)
}
