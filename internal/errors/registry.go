package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (R001-R099)
	// ============================================

	"R001": {
		Category:   CategoryRuntime,
		Message:    "Handle used after dispose",
		Detail:     "A signal, memo or effect was used after it was disposed, either directly or because the scope that owned it was torn down.",
		Suggestion: "Create the value in a scope that outlives every reader, or stop reading it when its component unmounts.",
	},
	"R002": {
		Category:   CategoryRuntime,
		Message:    "Cyclic dependency detected",
		Detail:     "Evaluating a memo required the value of a memo that was already being evaluated. The propagation pass was aborted and the writes that started it were rolled back.",
		Suggestion: "Break the cycle by reading one of the values with Peek or Untracked.",
	},
	"R003": {
		Category:   CategoryRuntime,
		Message:    "Propagation did not settle",
		Detail:     "Effects kept writing signals that caused more effects to run until the pass limit was reached.",
		Suggestion: "Check for effects that write a signal they also read, or raise runtime.max_passes.",
	},
	"R004": {
		Category:   CategoryRuntime,
		Message:    "Missing context provider",
		Detail:     "A component consumed a context value that no ancestor scope provided.",
		Suggestion: "Provide the value in a parent component before mounting the child.",
	},

	// ============================================
	// Config Errors (C001-C099)
	// ============================================

	"C001": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration",
		Detail:     "The configuration file or environment contains a value that failed validation.",
		Suggestion: "Fix the reported field in signals.yaml or the matching SIGNALS_ environment variable.",
	},
	"C002": {
		Category: CategoryConfig,
		Message:  "Configuration file could not be read",
		Detail:   "The configuration file passed with --config does not exist or is not valid YAML or JSON.",
	},

	// ============================================
	// Fetch Errors (F001-F099)
	// ============================================

	"F001": {
		Category:   CategoryFetch,
		Message:    "Resource fetch failed",
		Detail:     "The resource fetcher returned an error after all retries.",
		Suggestion: "Check fetch.url and network access, or raise fetch.retries.",
	},
	"F002": {
		Category: CategoryFetch,
		Message:  "Unexpected response",
		Detail:   "The server answered with a non-success status or a body that could not be decoded.",
	},

	// ============================================
	// CLI Errors (X001-X099)
	// ============================================

	"X001": {
		Category:   CategoryCLI,
		Message:    "Unknown tour page",
		Suggestion: "Run 'signals tour --help' to list the pages.",
	},
	"X002": {
		Category: CategoryCLI,
		Message:  "Command failed",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
