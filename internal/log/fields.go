package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldBackend   = "backend"
	FieldPath      = "path"
	FieldUsername  = "username"
	FieldCount     = "record_count"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentBackend = "backend"
	ComponentSession = "session"
)
