package ethsig

import (
	"crypto/rand"
	"io"
)

// Context carries the injected capabilities used for signing and key
// generation: the HMAC-SHA256 primitive behind RFC 6979 and the random source.
// A Context is safe for concurrent use once created.
type Context struct {
	hmac   HMAC
	random io.Reader
	cfg    Config
}

// Option configures a Context
type Option func(*Context)

// WithHMAC injects an HMAC-SHA256 implementation. It takes precedence over
// the provider named in the configuration.
func WithHMAC(h HMAC) Option {
	return func(c *Context) {
		c.hmac = h
	}
}

// WithRandom injects the random source used by GeneratePrivateKey
func WithRandom(r io.Reader) Option {
	return func(c *Context) {
		c.random = r
	}
}

// WithConfig replaces the default configuration
func WithConfig(cfg Config) Option {
	return func(c *Context) {
		c.cfg = cfg
	}
}

// NewContext creates a new context. The HMAC provider is resolved once here;
// an unknown provider fails with ErrHMACUnavailable.
func NewContext(opts ...Option) (*Context, error) {
	c := &Context{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}
	if c.hmac == nil {
		h, err := LookupHMAC(c.cfg.HMAC)
		if err != nil {
			return nil, err
		}
		c.hmac = h
		log.Debugw("selected HMAC provider", "provider", c.cfg.HMAC)
	}
	if c.random == nil {
		c.random = rand.Reader
	}
	if c.cfg.WarmBase {
		if t := ensureBaseTable(c.cfg.BaseWindow); t.window != c.cfg.BaseWindow {
			log.Warnw("generator table already built with another window",
				"requested", c.cfg.BaseWindow, "window", t.window)
			c.cfg.BaseWindow = t.window
		}
	}
	return c, nil
}

// Config returns the configuration of the context. With WarmBase set,
// BaseWindow reports the window of the generator table actually in use.
func (c *Context) Config() Config {
	return c.cfg
}
