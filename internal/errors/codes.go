package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrNotImplemented  ErrorCode = "not_implemented"
	ErrUnavailable     ErrorCode = "service_unavailable"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrMissingConfig   ErrorCode = "missing_configuration"
	ErrBindFlags       ErrorCode = "bind_flags_failed"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrInvalidInterval ErrorCode = "invalid_interval"
	ErrInvalidAddress  ErrorCode = "invalid_address"
	ErrInvalidToken    ErrorCode = "invalid_token"
	ErrInvalidOutput   ErrorCode = "invalid_output_format"

	// Logging errors
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Initialization errors
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"
	ErrAlreadyRunning ErrorCode = "already_running"

	// Device errors
	ErrDeviceUnreachable ErrorCode = "device_unreachable"
	ErrInvalidColorInput ErrorCode = "invalid_color_input"
	ErrInvalidCommand    ErrorCode = "invalid_command"

	// Application errors
	ErrMainLoop     ErrorCode = "main_loop_failed"
	ErrGetState     ErrorCode = "get_state_failed"
	ErrSetState     ErrorCode = "set_state_failed"
	ErrWriteOutput  ErrorCode = "write_output_failed"
	ErrUnknownUsage ErrorCode = "unknown_command"

	// Operation errors
	ErrOperationFailed  ErrorCode = "operation_failed"
	ErrTimeout          ErrorCode = "operation_timeout"
	ErrInvalidOperation ErrorCode = "invalid_operation"

	// Metrics errors
	ErrInitMetrics    ErrorCode = "init_metrics_failed"
	ErrCollectMetrics ErrorCode = "collect_metrics_failed"
	ErrCloseMetrics   ErrorCode = "close_metrics_failed"

	// Publisher errors
	ErrInitPublisher ErrorCode = "init_publisher_failed"
	ErrPublish       ErrorCode = "publish_failed"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:          "Internal error occurred",
	ErrInvalidArgument:   "Invalid argument provided",
	ErrNotImplemented:    "Operation not implemented",
	ErrUnavailable:       "Service unavailable",
	ErrInvalidConfig:     "Invalid configuration",
	ErrMissingConfig:     "Missing configuration",
	ErrBindFlags:         "Failed to bind flags",
	ErrReadConfig:        "Failed to read config file",
	ErrInvalidInterval:   "Invalid interval value",
	ErrInvalidAddress:    "Invalid device address",
	ErrInvalidToken:      "Invalid device token",
	ErrInvalidOutput:     "Invalid output format",
	ErrInvalidLogLevel:   "Invalid log level",
	ErrInitFailed:        "Initialization failed",
	ErrShutdownFailed:    "Shutdown failed",
	ErrAlreadyRunning:    "Another instance is already running",
	ErrDeviceUnreachable: "Device unreachable",
	ErrInvalidColorInput: "Invalid color input",
	ErrInvalidCommand:    "Invalid device command",
	ErrMainLoop:          "Error in main loop",
	ErrGetState:          "Failed to get bulb state",
	ErrSetState:          "Failed to set bulb state",
	ErrWriteOutput:       "Failed to write output",
	ErrUnknownUsage:      "Unknown command",
	ErrOperationFailed:   "Operation failed",
	ErrTimeout:           "Operation timed out",
	ErrInvalidOperation:  "Invalid operation",
	ErrInitMetrics:       "Failed to initialize metrics",
	ErrCollectMetrics:    "Failed to collect metrics data",
	ErrCloseMetrics:      "Failed to close metrics connection",
	ErrInitPublisher:     "Failed to initialize state publisher",
	ErrPublish:           "Failed to publish state",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
