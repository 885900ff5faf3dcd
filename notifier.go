package trackview

import "log/slog"

// Notifier receives user-facing messages such as rejected renames or failed
// node creation. Rejections are reported here instead of being returned as
// errors.
type Notifier interface {
	LogUserNotification(msg string)
}

// NotifierFunc adapts a function to a Notifier.
type NotifierFunc func(msg string)

// LogUserNotification calls f(msg).
func (f NotifierFunc) LogUserNotification(msg string) { f(msg) }

type slogNotifier struct {
	logger *slog.Logger
}

// NewSlogNotifier returns a Notifier that logs messages at warn level.
// A nil logger uses slog.Default().
func NewSlogNotifier(logger *slog.Logger) Notifier {
	return slogNotifier{logger: logger}
}

func (n slogNotifier) LogUserNotification(msg string) {
	logger := n.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn(msg, "component", "trackview")
}

var defaultNotifier = NewSlogNotifier(nil)
