package srvsentry

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

const (
	releaseTag     = "odoo"
	startupMessage = "Starting Odoo Server"
)

// ClientFactory constructs the reporting client from the merged options.
type ClientFactory func(sentry.ClientOptions) (*sentry.Client, error)

// Reporter bundles the reporting client with the logging hook installed for it.
type Reporter struct {
	client  *sentry.Client
	hub     *sentry.Hub
	hook    *LogHook
	logger  *logrus.Logger
	options Options
}

type initConfig struct {
	newClient      ClientFactory
	available      bool
	logger         *logrus.Logger
	server         *http.Server
	packageVersion string
	registry       []Option
}

// InitOption customizes Init.
type InitOption func(*initConfig)

// WithClientFactory replaces sentry.NewClient.
func WithClientFactory(f ClientFactory) InitOption {
	return func(c *initConfig) { c.newClient = f }
}

// WithClientAvailable sets whether the reporting client can be used at all.
// When false Init does nothing.
func WithClientAvailable(available bool) InitOption {
	return func(c *initConfig) { c.available = available }
}

// WithLogger installs the hook into l instead of the logrus standard logger.
func WithLogger(l *logrus.Logger) InitOption {
	return func(c *initConfig) { c.logger = l }
}

// WithServer makes Init wrap the server's handler in the reporting middleware.
func WithServer(s *http.Server) InitOption {
	return func(c *initConfig) { c.server = s }
}

// WithPackageVersion overrides the version read from the build info.
func WithPackageVersion(v string) InitOption {
	return func(c *initConfig) { c.packageVersion = v }
}

// WithRegistry replaces the recognized option registry.
func WithRegistry(registry []Option) InitOption {
	return func(c *initConfig) { c.registry = registry }
}

// Init sets up error reporting from src.
//
// It returns a nil Reporter and no error when reporting is disabled or the
// client is unavailable; nothing is installed in that case.
func Init(src Source, opts ...InitOption) (*Reporter, error) {
	cfg := &initConfig{
		newClient: sentry.NewClient,
		available: true,
		logger:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if !cfg.available {
		cfg.logger.Debug("sentry client unavailable, error reporting disabled")
		return nil, nil
	}
	enabled, err := lookupBool(src, KeyEnabled, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyEnabled, err)
	}
	if !enabled {
		return nil, nil
	}

	options, err := resolveOptions(src, cfg)
	if err != nil {
		return nil, err
	}

	includeContext, err := lookupBool(src, KeyIncludeContext, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyIncludeContext, err)
	}
	level := ResolveLevel(lookupString(src, KeyLoggingLevel, DefaultLogLevel))
	excludeLoggers := splitMultiple(lookupString(src, KeyExcludeLoggers, ""))

	clientOptions, err := options.ClientOptions()
	if err != nil {
		return nil, err
	}
	client, err := cfg.newClient(clientOptions)
	if err != nil {
		return nil, fmt.Errorf("create sentry client: %w", err)
	}

	scope := sentry.NewScope()
	scope.SetTags(options.Tags())
	hub := sentry.NewHub(client, scope)

	hook := NewLogHook(hub, level, includeContext)
	if len(excludeLoggers) > 0 {
		hook.SetFilter(NewLoggerNameFilter(excludeLoggers))
	}
	cfg.logger.AddHook(hook)

	r := &Reporter{
		client:  client,
		hub:     hub,
		hook:    hook,
		logger:  cfg.logger,
		options: options,
	}

	flushOnExit(cfg.logger, r)

	if cfg.server != nil {
		cfg.server.Handler = r.Wrap(cfg.server.Handler)
	}

	hub.CaptureMessage(startupMessage)

	return r, nil
}

// resolveOptions merges the options file (or the computed release), then the registry.
func resolveOptions(src Source, cfg *initConfig) (Options, error) {
	release := resolveRelease(lookupString(src, KeyOdooDir, ""), cfg)

	var options Options
	if path := lookupString(src, KeyOptionsFile, ""); path != "" {
		var err error
		if options, err = ReadOptionsFile(path); err != nil {
			return nil, err
		}
	} else {
		options = Options{
			"release": release,
			"tags":    map[string]string{},
		}
	}

	tags := options.Tags()
	tags[releaseTag] = release
	options["tags"] = tags

	registry := cfg.registry
	if registry == nil {
		registry = Registry()
	}
	if err := resolveRegistry(src, registry, options); err != nil {
		return nil, err
	}
	return options, nil
}

// flushOnExit makes the logger deliver pending events, such as the one for
// a Fatal entry, before it exits the process.
func flushOnExit(logger *logrus.Logger, r *Reporter) {
	exit := logger.ExitFunc
	if exit == nil {
		exit = os.Exit
	}
	logger.ExitFunc = func(code int) {
		r.Flush(deliveryTimeout)
		exit(code)
	}
}

func resolveRelease(dir string, cfg *initConfig) string {
	if dir == "" {
		if cfg.packageVersion != "" {
			return cfg.packageVersion
		}
		return PackageVersion()
	}

	sha, err := GitRevision(dir)
	if errors.Is(err, ErrInvalidGitRepository) {
		cfg.logger.WithField("dir", dir).Debug("directory is not a valid git repository")
		return ""
	}
	return sha
}

// Client returns the reporting client.
func (r *Reporter) Client() *sentry.Client {
	return r.client
}

// Hub returns the base hub carrying the configured tags.
func (r *Reporter) Hub() *sentry.Hub {
	return r.hub
}

// Hook returns the installed logging hook.
func (r *Reporter) Hook() *LogHook {
	return r.hook
}

// Options returns the merged options the client was built from.
func (r *Reporter) Options() Options {
	return r.options
}

// NewLogger returns a named Logger on the logger the hook was installed into.
// A nil Reporter issues loggers on the logrus standard logger.
func (r *Reporter) NewLogger(name string) *Logger {
	if r == nil {
		return newLogger(logrus.StandardLogger(), []string{name})
	}
	return newLogger(r.logger, []string{name})
}

// Flush waits until buffered events are sent or the timeout expires.
func (r *Reporter) Flush(timeout time.Duration) bool {
	if r == nil {
		return true
	}
	return r.hub.Flush(timeout)
}
