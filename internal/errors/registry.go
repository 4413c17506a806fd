package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Reconcile Errors (E001-E019)
	// ============================================

	"E001": {
		Category:   CategoryReconcile,
		Message:    "Reconciliation stack overflow",
		Suggestion: "Reduce Panel nesting or raise session.maxDepth",
	},
	"E002": {
		Category:   CategoryReconcile,
		Message:    "Unbalanced Pop",
		Suggestion: "Match every Panel call with exactly one Pop",
	},
	"E003": {
		Category:   CategoryReconcile,
		Message:    "Render did not return to depth zero",
		Suggestion: "Every Panel opened during a render must be closed with Pop before the render function returns",
	},
	"E004": {
		Category:   CategoryReconcile,
		Message:    "Re-entrant render trigger",
		Suggestion: "Only arm the trigger from external input, never from effects of a render",
	},
	"E005": {
		Category:   CategoryReconcile,
		Message:    "Duplicate widget ID",
		Suggestion: "Give every sibling a distinct ID, or use the warn duplicate policy",
	},
	"E006": {
		Category:   CategoryReconcile,
		Message:    "Widget declared outside a render pass",
		Suggestion: "Call widget functions only from inside the session's render function",
	},

	// ============================================
	// Config Errors (E120-E139)
	// ============================================

	"E120": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration file",
		Suggestion: "Check that the file is valid JSON or YAML",
	},
	"E122": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration value",
		Suggestion: "Run 'imui config' to print the resolved configuration",
	},
	"E130": {
		Category:   CategoryScript,
		Message:    "Invalid event script",
		Suggestion: "Check that the script is valid YAML with a top-level steps list",
	},
	"E131": {
		Category:   CategoryScript,
		Message:    "Script step failed",
		Suggestion: "Run with --verbose to print the tree after every step",
	},
	"E132": {
		Category:   CategoryScript,
		Message:    "Action failed",
		Suggestion: "Check the action's ID path against GET /tree",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E141": {
		Category:   CategoryCLI,
		Message:    "Configuration not found",
		Suggestion: "Run 'imui config --init' to write a default imui.json",
	},
	"E142": {
		Category:   CategoryCLI,
		Message:    "Unknown demo",
		Suggestion: "Run 'imui demos' to list the available demos",
	},
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
