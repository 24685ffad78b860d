package wordlist

// builtin is the default vocabulary used when no word list file is configured.
var builtin = []string{
	"focus", "speed", "keyboard", "terminal", "function", "react", "syntax", "minimal",
	"animate", "code", "developer", "practice", "accuracy", "discipline", "session", "momentum",
	"stream", "router", "context", "layout", "precision", "timing", "effort", "tejas",
	"rapid", "stable", "modular", "premium", "neon", "flow", "commit", "branch",
	"rhythm", "steady", "cursor", "buffer", "signal", "packet", "channel", "socket",
	"compile", "deploy", "module", "vector", "window", "thread", "memory", "pointer",
	"binary", "kernel", "shell", "prompt", "editor", "render", "frame", "pixel",
	"lambda", "record", "query", "index", "schema", "merge", "rebase", "patch",
}

// Builtin returns a copy of the default vocabulary.
func Builtin() []string {
	return append([]string(nil), builtin...)
}
