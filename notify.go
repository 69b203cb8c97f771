package bahi

import "github.com/phuslu/log"

// ChangeEvent describes a committed mutation, intended for an external
// audit-log sink. The kernel emits these; it never persists them.
type ChangeEvent struct {
	Entity string // "account", "journal", "rate", "lot"
	ID     string
	Action string // "create", "reverse", "upsert", "consume"
	Old    string // empty when the entity did not exist before
	New    string
}

// Notifier receives a ChangeEvent for every committed mutation.
// Notify is called after the mutation is committed, on the caller's
// goroutine; implementations must not block.
type Notifier interface {
	Notify(ChangeEvent)
}

// NopNotifier discards all change events.
type NopNotifier struct{}

func (NopNotifier) Notify(ChangeEvent) {}

// LogNotifier writes change events to a structured logger, one line per
// committed mutation.
type LogNotifier struct {
	Logger *log.Logger
}

// NewLogNotifier returns a LogNotifier writing to stderr at the given level.
func NewLogNotifier(level string) *LogNotifier {
	return &LogNotifier{Logger: &log.Logger{
		Level:  log.ParseLevel(level),
		Writer: &log.ConsoleWriter{},
	}}
}

func (n *LogNotifier) Notify(ev ChangeEvent) {
	n.Logger.Info().
		Str("entity", ev.Entity).
		Str("id", ev.ID).
		Str("action", ev.Action).
		Str("old", ev.Old).
		Str("new", ev.New).
		Msg("ledger change")
}
