package via

import (
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/rs/zerolog"
)

func ptr(l zerolog.Level) *zerolog.Level { return &l }

var (
	LogLevelDebug = ptr(zerolog.DebugLevel)
	LogLevelInfo  = ptr(zerolog.InfoLevel)
	LogLevelWarn  = ptr(zerolog.WarnLevel)
	LogLevelError = ptr(zerolog.ErrorLevel)
)

// DatastarCDN is the Datastar client script used when no DatastarContent is configured.
const DatastarCDN = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

// Plugin is a func that can mutate the given *via.V app runtime. It is useful to integrate popular JS/CSS UI libraries or tools.
type Plugin func(v *V)

// Options defines configuration options for the via application
type Options struct {
	// The development mode flag. If true, logs are written with a human readable console writer.
	DevMode bool

	// The http server address. e.g. ':3000'
	ServerAddress string

	// LogLevel sets the minimum log level. nil keeps the default (Info).
	LogLevel *zerolog.Level

	// Logger overrides the default logger entirely. When set, LogLevel and
	// DevMode have no effect on logging.
	Logger *zerolog.Logger

	// The default title of the HTML document. Pages can override it with
	// Context.SetTitle.
	DocumentTitle string

	// Plugins to extend the capabilities of the `Via` application.
	Plugins []Plugin

	// SessionManager replaces the default in-memory scs session manager.
	// Configure the session manager before passing it (lifetime, cookie
	// settings, store, etc). See NewSQLiteSessionManager.
	SessionManager *scs.SessionManager

	// DatastarContent is the Datastar.js script content. If set, it is
	// served at DatastarPath. If nil, pages load DatastarCDN.
	DatastarContent []byte

	// DatastarPath is the URL path where DatastarContent is served.
	// Defaults to "/_datastar.js" if empty.
	DatastarPath string

	// PubSub enables publish/subscribe messaging. Use vianats.New() for an
	// embedded NATS backend, or supply any PubSub implementation.
	PubSub PubSub

	// ContextTTL is how long a page context may live without an SSE
	// connection before it is reaped. Zero means 30s, negative disables
	// reaping.
	ContextTTL time.Duration

	// ActionRateLimit is the default token bucket applied to every page
	// context. Rate -1 disables it.
	ActionRateLimit RateLimitConfig
}
