package macho

// Logger receives diagnostics from a lookup. Debug carries classification
// detail, Info a located identifier, and Error per-member failures and
// unrecognized magic values. A nil Logger turns logging off entirely.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}
