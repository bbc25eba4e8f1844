package rest

import (
	"fmt"
	"strings"
)

// ImageFormat selects the encoding of a CDN-served image.
type ImageFormat int

const (
	_ ImageFormat = iota

	ImageJPEG
	ImagePNG
	ImageWebP
	ImageGIF
	ImageLottie

	// ImageFormatTotal is a constant that represents the total number of formats defined
	ImageFormatTotal = int(iota)
)

// Ext returns the file extension the CDN expects for the format.
func (f ImageFormat) Ext() string {
	switch f {
	case ImageJPEG:
		return "jpg"
	case ImagePNG:
		return "png"
	case ImageWebP:
		return "webp"
	case ImageGIF:
		return "gif"
	case ImageLottie:
		return "json"
	default:
		return "png"
	}
}

func (f ImageFormat) String() string {
	switch f {
	case ImageJPEG:
		return "jpeg"
	case ImagePNG:
		return "png"
	case ImageWebP:
		return "webp"
	case ImageGIF:
		return "gif"
	case ImageLottie:
		return "lottie"
	default:
		return "unknown"
	}
}

// CDN builds asset URLs off the configured CDN base.
type CDN struct {
	base string
}

// NewCDN trims any trailing slash from the base URL.
func NewCDN(base string) CDN {
	return CDN{base: strings.TrimRight(base, "/")}
}

// AvatarURL returns a user avatar asset URL. Animated avatars carry an "a_"
// hash prefix and are only servable as GIF; requesting another format for an
// animated hash still works but yields the still frame.
func (c CDN) AvatarURL(userID, avatarHash string, format ImageFormat, size int) string {
	return c.asset(fmt.Sprintf("avatars/%s/%s", userID, avatarHash), format, size)
}

// DefaultAvatarURL returns the fallback avatar for users without one; only
// PNG is served.
func (c CDN) DefaultAvatarURL(discriminator int) string {
	return fmt.Sprintf("%s/embed/avatars/%d.png", c.base, discriminator%5)
}

// BannerURL returns a profile banner asset URL.
func (c CDN) BannerURL(userID, bannerHash string, format ImageFormat, size int) string {
	return c.asset(fmt.Sprintf("banners/%s/%s", userID, bannerHash), format, size)
}

// GuildIconURL returns a guild icon asset URL.
func (c CDN) GuildIconURL(guildID, iconHash string, format ImageFormat, size int) string {
	return c.asset(fmt.Sprintf("icons/%s/%s", guildID, iconHash), format, size)
}

// IsAnimated reports whether an asset hash refers to an animated image.
func IsAnimated(hash string) bool { return strings.HasPrefix(hash, "a_") }

func (c CDN) asset(path string, format ImageFormat, size int) string {
	url := fmt.Sprintf("%s/%s.%s", c.base, path, format.Ext())
	if size > 0 {
		url += fmt.Sprintf("?size=%d", size)
	}

	return url
}
