package model

import "fmt"

// Locale is an IETF language tag the platform localizes into. Unknown tags
// are preserved as-is; IsKnown distinguishes them.
type Locale string

const (
	LocaleDanish     Locale = "da"
	LocaleGerman     Locale = "de"
	LocaleEnglishGB  Locale = "en-GB"
	LocaleEnglishUS  Locale = "en-US"
	LocaleSpanish    Locale = "es-ES"
	LocaleFrench     Locale = "fr"
	LocaleItalian    Locale = "it"
	LocaleDutch      Locale = "nl"
	LocalePolish     Locale = "pl"
	LocalePortuguese Locale = "pt-BR"
	LocaleRussian    Locale = "ru"
	LocaleTurkish    Locale = "tr"
	LocaleJapanese   Locale = "ja"
	LocaleKorean     Locale = "ko"
	LocaleChineseCN  Locale = "zh-CN"
	LocaleChineseTW  Locale = "zh-TW"
)

var knownLocales = map[Locale]struct{}{
	LocaleDanish: {}, LocaleGerman: {}, LocaleEnglishGB: {}, LocaleEnglishUS: {},
	LocaleSpanish: {}, LocaleFrench: {}, LocaleItalian: {}, LocaleDutch: {},
	LocalePolish: {}, LocalePortuguese: {}, LocaleRussian: {}, LocaleTurkish: {},
	LocaleJapanese: {}, LocaleKorean: {}, LocaleChineseCN: {}, LocaleChineseTW: {},
}

// IsKnown reports whether the tag is one the platform documents.
func (l Locale) IsKnown() bool {
	_, ok := knownLocales[l]

	return ok
}

// AsLocale converts a wire locale tag. Nil passes through.
func AsLocale(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return Locale(v), nil
	case Locale:
		return v, nil
	default:
		return nil, fmt.Errorf("model: cannot read %T as a locale", raw)
	}
}

// UserFlags are the badge bits on a user account.
type UserFlags int64

const (
	FlagStaff               UserFlags = 1 << 0
	FlagPartner             UserFlags = 1 << 1
	FlagHypeSquadEvents     UserFlags = 1 << 2
	FlagBugHunterLevel1     UserFlags = 1 << 3
	FlagHouseBravery        UserFlags = 1 << 6
	FlagHouseBrilliance     UserFlags = 1 << 7
	FlagHouseBalance        UserFlags = 1 << 8
	FlagEarlySupporter      UserFlags = 1 << 9
	FlagTeamUser            UserFlags = 1 << 10
	FlagBugHunterLevel2     UserFlags = 1 << 14
	FlagVerifiedBot         UserFlags = 1 << 16
	FlagEarlyVerifiedBotDev UserFlags = 1 << 17
	FlagCertifiedModerator  UserFlags = 1 << 18
	FlagBotHTTPInteractions UserFlags = 1 << 19
)

// Has reports whether every bit of flag is set.
func (f UserFlags) Has(flag UserFlags) bool { return f&flag == flag }

// AsUserFlags converts a wire flag integer. Nil passes through.
func AsUserFlags(raw any) (any, error) {
	n, err := asInt64(raw, "user flags")
	if err != nil || n == nil {
		return nil, err
	}

	return UserFlags(*n), nil
}

// PremiumType is the subscription tier on a user account.
type PremiumType int

const (
	PremiumNone PremiumType = iota
	PremiumClassic
	PremiumFull
)

func (p PremiumType) String() string {
	switch p {
	case PremiumNone:
		return "none"
	case PremiumClassic:
		return "classic"
	case PremiumFull:
		return "full"
	default:
		return "unknown"
	}
}

// AsPremiumType converts a wire premium tier. Nil passes through.
func AsPremiumType(raw any) (any, error) {
	n, err := asInt64(raw, "premium type")
	if err != nil || n == nil {
		return nil, err
	}

	return PremiumType(*n), nil
}

// PermissionFlags are the guild and channel permission bits.
type PermissionFlags int64

const (
	PermCreateInstantInvite PermissionFlags = 1 << 0
	PermKickMembers         PermissionFlags = 1 << 1
	PermBanMembers          PermissionFlags = 1 << 2
	PermAdministrator       PermissionFlags = 1 << 3
	PermManageChannels      PermissionFlags = 1 << 4
	PermManageGuild         PermissionFlags = 1 << 5
	PermAddReactions        PermissionFlags = 1 << 6
	PermViewAuditLog        PermissionFlags = 1 << 7
	PermViewChannel         PermissionFlags = 1 << 10
	PermSendMessages        PermissionFlags = 1 << 11
	PermManageMessages      PermissionFlags = 1 << 13
	PermEmbedLinks          PermissionFlags = 1 << 14
	PermAttachFiles         PermissionFlags = 1 << 15
	PermReadMessageHistory  PermissionFlags = 1 << 16
	PermMentionEveryone     PermissionFlags = 1 << 17
	PermConnect             PermissionFlags = 1 << 20
	PermSpeak               PermissionFlags = 1 << 21
	PermMuteMembers         PermissionFlags = 1 << 22
	PermDeafenMembers       PermissionFlags = 1 << 23
	PermMoveMembers         PermissionFlags = 1 << 24
	PermManageRoles         PermissionFlags = 1 << 28
	PermManageWebhooks      PermissionFlags = 1 << 29
	PermModerateMembers     PermissionFlags = 1 << 40
)

// Has reports whether every bit of flag is set. Administrator does not
// short-circuit here; effective-permission logic belongs to the caller.
func (p PermissionFlags) Has(flag PermissionFlags) bool { return p&flag == flag }

// AsPermissions converts a wire permission set. Permission bits travel as
// decimal strings to survive JSON number precision, so strings and numbers
// are both accepted. Nil passes through.
func AsPermissions(raw any) (any, error) {
	if s, ok := raw.(string); ok {
		id, err := ParseSnowflake(s)
		if err != nil {
			return nil, fmt.Errorf("model: cannot read %q as permission flags", s)
		}

		return PermissionFlags(id), nil
	}

	n, err := asInt64(raw, "permission flags")
	if err != nil || n == nil {
		return nil, err
	}

	return PermissionFlags(*n), nil
}

// OverwriteType distinguishes the target of a permission overwrite.
type OverwriteType int

const (
	OverwriteRole OverwriteType = iota
	OverwriteMember
)

func (o OverwriteType) String() string {
	switch o {
	case OverwriteRole:
		return "role"
	case OverwriteMember:
		return "member"
	default:
		return "unknown"
	}
}

// AsOverwriteType converts a wire overwrite target kind.
func AsOverwriteType(raw any) (any, error) {
	n, err := asInt64(raw, "overwrite type")
	if err != nil || n == nil {
		return nil, err
	}

	return OverwriteType(*n), nil
}

// ChannelType discriminates the concrete channel shape inside channel
// payloads.
type ChannelType int

const (
	ChannelGuildText ChannelType = iota
	ChannelDM
	ChannelGuildVoice
	ChannelGroupDM
	ChannelGuildCategory
	ChannelGuildNews
)

func (c ChannelType) String() string {
	switch c {
	case ChannelGuildText:
		return "guild-text"
	case ChannelDM:
		return "dm"
	case ChannelGuildVoice:
		return "guild-voice"
	case ChannelGroupDM:
		return "group-dm"
	case ChannelGuildCategory:
		return "guild-category"
	case ChannelGuildNews:
		return "guild-news"
	default:
		return "unknown"
	}
}

// AsChannelType converts a wire channel kind.
func AsChannelType(raw any) (any, error) {
	n, err := asInt64(raw, "channel type")
	if err != nil || n == nil {
		return nil, err
	}

	return ChannelType(*n), nil
}

// asInt64 reads a wire integer, tolerating the float64 form decoded JSON
// numbers arrive in. Nil yields nil so optional enum fields pass through.
func asInt64(raw any, what string) (*int64, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case float64:
		n := int64(v)

		return &n, nil
	case int64:
		return &v, nil
	case int:
		n := int64(v)

		return &n, nil
	default:
		return nil, fmt.Errorf("model: cannot read %T as %s", raw, what)
	}
}
