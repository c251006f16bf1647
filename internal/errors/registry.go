package errors

import "sort"

// Template defines a registered error code.
type Template struct {
	Category   Category
	Message    string
	Suggestion string
}

var registry = map[string]Template{
	// Configuration (E100-E199)

	"E100": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration file",
		Suggestion: "Check estudos.json for a JSON syntax error",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},
	"E102": {
		Category:   CategoryConfig,
		Message:    "Invalid environment override",
		Suggestion: "ESTUDOS_* variables override estudos.json; check their values",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Cannot read configuration file",
	},

	// Route table (E200-E299)

	"E200": {
		Category: CategoryRoute,
		Message:  "Invalid route table",
	},
	"E201": {
		Category:   CategoryRoute,
		Message:    "No route matches",
		Suggestion: "Run 'estudos routes' to list the declared paths and names",
	},
	"E202": {
		Category:   CategoryRoute,
		Message:    "Route view failed to load",
		Suggestion: "The load is retried on the next navigation",
	},
	"E203": {
		Category: CategoryRoute,
		Message:  "Route views cannot be composed",
	},

	// Module sources (E300-E399)

	"E300": {
		Category:   CategoryModule,
		Message:    "Unknown module source",
		Suggestion: `Set modules.source to "embed", "dir" or "s3"`,
	},
	"E301": {
		Category: CategoryModule,
		Message:  "Module not found",
	},
	"E302": {
		Category: CategoryModule,
		Message:  "Module source unavailable",
	},

	// Command line (E400-E499)

	"E400": {
		Category: CategoryCLI,
		Message:  "Unknown output format",
	},
	"E401": {
		Category: CategoryCLI,
		Message:  "Invalid arguments",
	},
	"E402": {
		Category: CategoryServer,
		Message:  "Server failed",
	},
}

// Register adds or replaces a code.
func Register(code string, template Template) {
	registry[code] = template
}

// Lookup returns the template for a code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns the registered codes, sorted.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
