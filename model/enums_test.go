package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snowcord/model"
)

func TestLocale(t *testing.T) {
	got, err := model.AsLocale("pt-BR")
	require.NoError(t, err)
	assert.Equal(t, model.LocalePortuguese, got)
	assert.True(t, model.LocalePortuguese.IsKnown())

	// undocumented tags survive conversion but are not known
	got, err = model.AsLocale("xx-YY")
	require.NoError(t, err)
	assert.False(t, got.(model.Locale).IsKnown())

	_, err = model.AsLocale(5.0)
	assert.Error(t, err)
}

func TestUserFlags_Has(t *testing.T) {
	f := model.FlagStaff | model.FlagVerifiedBot

	assert.True(t, f.Has(model.FlagStaff))
	assert.True(t, f.Has(model.FlagVerifiedBot))
	assert.False(t, f.Has(model.FlagPartner))
	assert.True(t, f.Has(model.FlagStaff|model.FlagVerifiedBot))
}

func TestAsPermissions(t *testing.T) {
	got, err := model.AsPermissions("2112")
	require.NoError(t, err)

	perms := got.(model.PermissionFlags)
	assert.True(t, perms.Has(model.PermSendMessages))
	assert.True(t, perms.Has(model.PermAddReactions))
	assert.False(t, perms.Has(model.PermAdministrator))

	// numeric form is accepted too
	got, err = model.AsPermissions(8.0)
	require.NoError(t, err)
	assert.True(t, got.(model.PermissionFlags).Has(model.PermAdministrator))

	_, err = model.AsPermissions("eight")
	assert.Error(t, err)

	_, err = model.AsPermissions(true)
	assert.Error(t, err)
}

func TestOverwrite_Apply(t *testing.T) {
	ov := model.PermissionOverwrite{
		Allow: model.PermSendMessages,
		Deny:  model.PermAddReactions,
	}

	base := model.PermViewChannel | model.PermAddReactions

	got := ov.Apply(base)
	assert.True(t, got.Has(model.PermViewChannel))
	assert.True(t, got.Has(model.PermSendMessages))
	assert.False(t, got.Has(model.PermAddReactions))
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "classic", model.PremiumClassic.String())
	assert.Equal(t, "member", model.OverwriteMember.String())
	assert.Equal(t, "dm", model.ChannelDM.String())
	assert.Equal(t, "guild-category", model.ChannelGuildCategory.String())
}
