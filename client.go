// Package snowcord is a client library for the snowcord chat platform API.
// A Client owns the authenticated transport and hydrates API payloads into
// the model types.
package snowcord

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"snowcord/hydrate"
	"snowcord/model"
	"snowcord/rest"
)

// ErrMissingToken is returned when a client is built without a token.
var ErrMissingToken = errors.New("snowcord: missing token")

// Client is the top-level API client. It implements model.Session, so every
// model hydrated through it can reach the API from its own methods.
type Client struct {
	cfg       rest.Config
	requester *rest.Requester
	cdn       rest.CDN
	log       *zap.Logger

	users    *model.Cache[*model.User]
	channels *model.Cache[*model.Channel]
}

// ClientOption customizes a Client at construction.
type ClientOption func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	log        *zap.Logger
	baseURL    string
	timeout    time.Duration
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(o *clientOptions) { o.httpClient = c }
}

// WithLogger attaches a structured logger. The default is a no-op logger.
func WithLogger(log *zap.Logger) ClientOption {
	return func(o *clientOptions) { o.log = log }
}

// WithBaseURL points the client at a different API base, mainly for tests.
func WithBaseURL(url string) ClientOption {
	return func(o *clientOptions) { o.baseURL = url }
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) { o.timeout = d }
}

// New builds a Client for the given token. Bare tokens are sent with the Bot
// prefix; tokens already carrying a Bot or Bearer prefix are normalized and
// kept.
func New(token string, opts ...ClientOption) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}

	cfg := rest.Config{Token: ProcessToken(token)}

	return newClient(cfg, opts...)
}

// NewFromEnv builds a Client configured entirely from SNOWCORD_* environment
// variables, including the token.
func NewFromEnv(opts ...ClientOption) (*Client, error) {
	cfg, err := rest.ConfigFromEnv()
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Token) == "" {
		return nil, ErrMissingToken
	}

	cfg.Token = ProcessToken(cfg.Token)

	return newClient(cfg, opts...)
}

func newClient(cfg rest.Config, opts ...ClientOption) (*Client, error) {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}

	if o.timeout != 0 {
		cfg.Timeout = o.timeout
	}

	log := o.log
	if log == nil {
		log = zap.NewNop()
	}

	var reqOpts []rest.RequesterOption

	reqOpts = append(reqOpts, rest.WithLogger(log.Named("rest")))

	if o.httpClient != nil {
		reqOpts = append(reqOpts, rest.WithHTTPClient(o.httpClient))
	}

	requester := rest.NewRequester(cfg, reqOpts...)

	return &Client{
		cfg:       requester.Config(),
		requester: requester,
		cdn:       rest.NewCDN(requester.Config().CDNBaseURL),
		log:       log,
		users:     model.NewCache[*model.User](),
		channels:  model.NewCache[*model.Channel](),
	}, nil
}

// ProcessToken normalizes an auth token for the Authorization header. A
// recognized Bot or Bearer prefix is case-fixed and kept; anything else gets
// the Bot prefix.
func ProcessToken(token string) string {
	token = strings.TrimSpace(token)

	for _, prefix := range []string{"Bot ", "Bearer "} {
		if len(token) >= len(prefix) && strings.EqualFold(token[:len(prefix)], prefix) {
			return prefix + strings.TrimSpace(token[len(prefix):])
		}
	}

	return "Bot " + token
}

// Requester returns the authenticated transport. Part of model.Session.
func (c *Client) Requester() *rest.Requester { return c.requester }

// CDN returns the asset URL builder. Part of model.Session.
func (c *Client) CDN() rest.CDN { return c.cdn }

// FetchCurrentUser fetches the account behind the token.
func (c *Client) FetchCurrentUser(ctx context.Context) (*model.BotUser, error) {
	payload, err := c.fetch(ctx, rest.GetCurrentUser())
	if err != nil {
		return nil, err
	}

	bot, err := hydrate.As[*model.BotUser](model.BotUserSchema, c, payload)
	if err != nil {
		return nil, err
	}

	c.users.Put(bot.ID, &bot.User)

	return bot, nil
}

// FetchUser fetches a user by id and caches it.
func (c *Client) FetchUser(ctx context.Context, id model.Snowflake) (*model.User, error) {
	payload, err := c.fetch(ctx, rest.GetUser(id.String()))
	if err != nil {
		return nil, err
	}

	user, err := hydrate.As[*model.User](model.UserSchema, c, payload)
	if err != nil {
		return nil, err
	}

	c.users.Put(user.ID, user)

	return user, nil
}

// CachedUser returns a previously fetched user without touching the API.
func (c *Client) CachedUser(id model.Snowflake) (*model.User, bool) {
	return c.users.Get(id)
}

// FetchChannel fetches a channel by id and caches it.
func (c *Client) FetchChannel(ctx context.Context, id model.Snowflake) (*model.Channel, error) {
	payload, err := c.fetch(ctx, rest.GetChannel(id.String()))
	if err != nil {
		return nil, err
	}

	ch, err := hydrate.As[*model.Channel](model.ChannelSchema, c, payload)
	if err != nil {
		return nil, err
	}

	c.channels.Put(ch.ID, ch)

	return ch, nil
}

// CachedChannel returns a previously fetched channel without touching the API.
func (c *Client) CachedChannel(id model.Snowflake) (*model.Channel, bool) {
	return c.channels.Get(id)
}

// FetchGuildMember fetches one member of a guild.
func (c *Client) FetchGuildMember(ctx context.Context, guildID, userID model.Snowflake) (*model.GuildMember, error) {
	payload, err := c.fetch(ctx, rest.GetGuildMember(guildID.String(), userID.String()))
	if err != nil {
		return nil, err
	}

	return hydrate.As[*model.GuildMember](model.MemberSchema, c, payload)
}

// FetchGuildRoles fetches all roles of a guild.
func (c *Client) FetchGuildRoles(ctx context.Context, guildID model.Snowflake) ([]*model.Role, error) {
	body, err := c.requester.Do(ctx, rest.GetGuildRoles(guildID.String()))
	if err != nil {
		return nil, err
	}

	entries, err := rest.DecodeArray(body)
	if err != nil {
		return nil, err
	}

	roles := make([]*model.Role, len(entries))

	for i, entry := range entries {
		role, err := hydrate.As[*model.Role](model.RoleSchema, c, entry)
		if err != nil {
			return nil, err
		}

		roles[i] = role
	}

	return roles, nil
}

func (c *Client) fetch(ctx context.Context, ep rest.Endpoint) (map[string]any, error) {
	body, err := c.requester.Do(ctx, ep)
	if err != nil {
		return nil, err
	}

	return rest.DecodeObject(body)
}
