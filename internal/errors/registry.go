package errors

import "fmt"

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
	// Reconciliation Errors (E100-E199)
	// ============================================

	"E101": {
		Category:   CategoryRender,
		Message:    "Previous node has no host handle",
		Detail:     "A node was patched or replaced before it was ever mounted.",
		Suggestion: "Render the tree through a Container so the first pass mounts it.",
	},
	"E102": {
		Category:   CategoryInput,
		Message:    "Duplicate key among siblings",
		Detail:     "Two sibling nodes in the same child list carry the same key. The match result is undefined.",
		Suggestion: "Derive keys from a stable unique identifier such as a database ID.",
	},
	"E103": {
		Category: CategoryHost,
		Message:  "Host operation failed",
		Detail:   "The host adapter rejected a mutation. The host tree may be partially updated.",
	},
	"E104": {
		Category:   CategoryRender,
		Message:    "Node already bound to a different host handle",
		Detail:     "Virtual nodes are single-use: each instance maps to exactly one host node.",
		Suggestion: "Build a fresh tree for every render instead of reusing node instances across containers.",
	},
	"E105": {
		Category:   CategoryRender,
		Message:    "Container is in a failed state",
		Detail:     "A previous render aborted on a host failure, so the host tree no longer matches any known tree.",
		Suggestion: "Call Reset on the container and render again from scratch.",
	},
	"E106": {
		Category: CategoryRender,
		Message:  "Maximum tree depth exceeded",
	},
	"E107": {
		Category: CategoryInput,
		Message:  "Node is not normalized",
		Detail:   "A node's cardinality does not match its children.",
	},

	// ============================================
	// Configuration Errors (E200-E299)
	// ============================================

	"E201": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},
	"E202": {
		Category:   CategoryConfig,
		Message:    "Unsupported configuration file format",
		Suggestion: "Use a .json, .toml, .yaml or .yml file.",
	},

	// ============================================
	// Scenario Errors (E300-E399)
	// ============================================

	"E301": {
		Category: CategoryScenario,
		Message:  "Malformed scenario document",
	},
	"E302": {
		Category: CategoryScenario,
		Message:  "Snapshot write failed",
	},

	// ============================================
	// Mirror Errors (E400-E499)
	// ============================================

	"E401": {
		Category: CategoryMirror,
		Message:  "Malformed operation frame",
	},
	"E402": {
		Category: CategoryMirror,
		Message:  "Unknown node id in operation",
		Detail:   "The replica received an operation for a node it has never seen.",
	},
}

// New creates a new Error from a registered error code.
func New(code string) *Error {
	tmpl, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:       code,
		Category:   tmpl.Category,
		Message:    tmpl.Message,
		Detail:     tmpl.Detail,
		Suggestion: tmpl.Suggestion,
	}
}

// Newf creates an uncoded error with a formatted message.
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	tmpl, ok := registry[code]
	return tmpl, ok
}
