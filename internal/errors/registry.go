package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Configuration (E100-E109)
	"E100": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "The starter looks for starter.json in the project directory.",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "starter.json could not be read or is not valid JSON.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid port",
		Detail:   "Ports must be between 0 and 65535.",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Invalid base path",
		Detail:   "The base path is the URL prefix the app is deployed under, such as /app.",
	},
	"E104": {
		Category: CategoryConfig,
		Message:  "Invalid public origin",
		Detail:   "The public origin must be an absolute http or https URL without a path.",
	},

	// Routing (E110-E119)
	"E110": {
		Category: CategoryRouting,
		Message:  "Invalid route pattern",
		Detail:   "Patterns start with / and may use :name parameters and a trailing *wildcard.",
	},

	// Session protocol (E120-E129)
	"E120": {
		Category: CategoryProtocol,
		Message:  "Malformed client message",
		Detail:   "A WebSocket message from the client could not be decoded.",
	},
	"E121": {
		Category: CategoryProtocol,
		Message:  "Unknown client action",
	},

	// Deployment (E130-E139)
	"E130": {
		Category: CategoryDeploy,
		Message:  "Deployment not configured",
		Detail:   "Uploading static assets needs a bucket and a region.",
	},
	"E131": {
		Category: CategoryDeploy,
		Message:  "Asset upload failed",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
