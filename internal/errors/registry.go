package errors

// Template defines a registered error type.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Reconciliation Errors (E101-E199)
	// ============================================

	"E101": {
		Category: CategoryReconcile,
		Message:  "Region sentinel missing",
		Detail:   "A sentinel comment of a managed region is no longer a child of the region's parent. Something outside the reconciler removed or moved it; the pass was skipped.",
	},
	"E102": {
		Category: CategoryReconcile,
		Message:  "Region sentinels out of order",
		Detail:   "The end sentinel of a managed region precedes its start sentinel. Managed regions must not be mutated by code other than their reconciler; the pass was skipped.",
	},
	"E103": {
		Category: CategoryReconcile,
		Message:  "Region diff failed",
		Detail:   "The host tree rejected an insert, move or remove issued while reconciling a managed region.",
	},
	"E104": {
		Category: CategoryBinding,
		Message:  "Receive listener rejected",
		Detail:   "The host tree refused the per-node receive listener, so the node's events callback will never fire.",
	},

	// ============================================
	// Configuration Errors (E201-E299)
	// ============================================

	"E201": {
		Category: CategoryConfig,
		Message:  "Configuration file could not be read",
		Detail:   "The configuration file exists but reading it failed.",
	},
	"E202": {
		Category: CategoryConfig,
		Message:  "Configuration file could not be parsed",
		Detail:   "The configuration file is not valid JSON or YAML for its extension.",
	},
	"E203": {
		Category: CategoryConfig,
		Message:  "Configuration is invalid",
		Detail:   "A configuration value is out of range or malformed.",
	},

	// ============================================
	// Inspector Errors (E301-E399)
	// ============================================

	"E301": {
		Category: CategoryInspect,
		Message:  "Inspector could not listen",
		Detail:   "The inspector HTTP server failed to bind its address.",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
