package ledgerseal

import (
	"io"

	"github.com/sirupsen/logrus"
)

// HandlerLocator selects, in fixed priority order, the one handler capable of
// processing a given file. The hybrid PQC handler is registered before the
// legacy GPG handler by policy: PQC wins when both could plausibly apply.
type HandlerLocator struct {
	handlers []Handler
	log      logrus.FieldLogger
}

// LocatorOption configures a HandlerLocator.
type LocatorOption func(*HandlerLocator)

// WithLogger sets the logger used for handler-selection diagnostics.
func WithLogger(log logrus.FieldLogger) LocatorOption {
	return func(l *HandlerLocator) {
		l.log = log
	}
}

// WithHandlers replaces the default handler set. Order is priority order.
func WithHandlers(handlers ...Handler) LocatorOption {
	return func(l *HandlerLocator) {
		l.handlers = handlers
	}
}

// NewHandlerLocator builds a locator with the default handler set: the hybrid
// PQC handler first, then the legacy GPG handler.
func NewHandlerLocator(opts ...LocatorOption) *HandlerLocator {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	l := &HandlerLocator{
		handlers: []Handler{NewHybridPQCHandler(), NewGPGHandler()},
		log:      logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Handlers returns the registered handlers in priority order.
func (l *HandlerLocator) Handlers() []Handler {
	out := make([]Handler, len(l.handlers))
	copy(out, l.handlers)
	return out
}

// HandlerForFile probes the registered handlers in priority order and returns
// the first that claims the file, short-circuiting the rest. It returns nil
// when no handler matches; callers treat that as "not our format", not as an
// error.
func (l *HandlerLocator) HandlerForFile(path string, peek []byte, cfg *Config) Handler {
	for _, h := range l.handlers {
		if h.CanHandle(path, peek, cfg) {
			l.log.WithFields(logrus.Fields{
				"handler": h.Name(),
				"path":    path,
			}).Debug("handler claimed file")
			return h
		}
	}
	l.log.WithField("path", path).Debug("no handler claimed file")
	return nil
}

// PQCEncryptHandler returns the active PQC encrypting handler, or nil when
// cfg.PQCDataAtRestEnabled is false regardless of handler availability. This
// is the single gate that disables PQC encryption system-wide.
func (l *HandlerLocator) PQCEncryptHandler(suite SuiteConfig, cfg *Config) EncryptingHandler {
	if cfg == nil || !cfg.PQCDataAtRestEnabled {
		return nil
	}
	for _, h := range l.handlers {
		if enc, ok := h.(EncryptingHandler); ok {
			l.log.WithFields(logrus.Fields{
				"handler": h.Name(),
				"suite":   suite.ID,
			}).Debug("selected encrypt handler")
			return enc
		}
	}
	return nil
}
