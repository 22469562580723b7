package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Registration errors
const (
	// ErrCodeInvalidType indicates a registration was attempted with an unusable type.
	ErrCodeInvalidType ErrorCode = "INVALID_TYPE"
	// ErrCodeNotRegistered indicates a named client or typed client is unknown.
	ErrCodeNotRegistered ErrorCode = "NOT_REGISTERED"
)

// Construction errors
const (
	// ErrCodeSettingsResolution indicates the settings factory failed.
	ErrCodeSettingsResolution ErrorCode = "SETTINGS_RESOLUTION"
	// ErrCodeHandlerConstruction indicates building the handler chain failed.
	ErrCodeHandlerConstruction ErrorCode = "HANDLER_CONSTRUCTION"
	// ErrCodeInvalidProxy indicates the proxy generator returned an unusable instance.
	ErrCodeInvalidProxy ErrorCode = "INVALID_PROXY"
)

// Configuration errors
const (
	// ErrCodeInvalidConfig indicates a configuration struct failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// Request-path errors
const (
	// ErrCodeTokenAcquisition indicates a token getter failed for an outgoing request.
	ErrCodeTokenAcquisition ErrorCode = "TOKEN_ACQUISITION"
)
