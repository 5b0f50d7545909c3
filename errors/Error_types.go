package errors

// ERR is the machine-readable error code carried by every *Error.
type ERR int32

const (
	ERR_UNKNOWN               ERR = 0
	ERR_INVALID_ARGUMENT      ERR = 1
	ERR_NOT_FOUND             ERR = 2
	ERR_PROCESSING            ERR = 3
	ERR_CONFIGURATION         ERR = 4
	ERR_CONTEXT_CANCELED      ERR = 5
	ERR_SERVICE_UNAVAILABLE   ERR = 6
	ERR_SERVICE_NOT_STARTED   ERR = 7
	ERR_SERVICE_ERROR         ERR = 8
	ERR_TIMER_DRIVER_MISSING  ERR = 9
	ERR_TIMER_DRIVER_CONFLICT ERR = 10
	ERR_REGISTRATION_REJECTED ERR = 11
)

var ERR_name = map[int32]string{
	0:  "ERR_UNKNOWN",
	1:  "ERR_INVALID_ARGUMENT",
	2:  "ERR_NOT_FOUND",
	3:  "ERR_PROCESSING",
	4:  "ERR_CONFIGURATION",
	5:  "ERR_CONTEXT_CANCELED",
	6:  "ERR_SERVICE_UNAVAILABLE",
	7:  "ERR_SERVICE_NOT_STARTED",
	8:  "ERR_SERVICE_ERROR",
	9:  "ERR_TIMER_DRIVER_MISSING",
	10: "ERR_TIMER_DRIVER_CONFLICT",
	11: "ERR_REGISTRATION_REJECTED",
}

func (e ERR) String() string {
	if name, ok := ERR_name[int32(e)]; ok {
		return name
	}

	return ERR_name[int32(ERR_UNKNOWN)]
}

var (
	ErrUnknown             = New(ERR_UNKNOWN, "unknown error")
	ErrInvalidArgument     = New(ERR_INVALID_ARGUMENT, "invalid argument")
	ErrNotFound            = New(ERR_NOT_FOUND, "not found")
	ErrProcessing          = New(ERR_PROCESSING, "error processing")
	ErrConfiguration       = New(ERR_CONFIGURATION, "configuration error")
	ErrContextCanceled     = New(ERR_CONTEXT_CANCELED, "context canceled")
	ErrServiceUnavailable  = New(ERR_SERVICE_UNAVAILABLE, "service unavailable")
	ErrServiceNotStarted   = New(ERR_SERVICE_NOT_STARTED, "service not started")
	ErrServiceError        = New(ERR_SERVICE_ERROR, "service error")
	ErrTimerDriverMissing  = New(ERR_TIMER_DRIVER_MISSING, "no timer driver registered")
	ErrTimerDriverConflict = New(ERR_TIMER_DRIVER_CONFLICT, "timer driver already registered")
	ErrRegistrationRejected = New(ERR_REGISTRATION_REJECTED, "registration rejected")
)

// errors initialization functions

func NewUnknownError(message string, params ...interface{}) *Error {
	return New(ERR_UNKNOWN, message, params...)
}

func NewInvalidArgumentError(message string, params ...interface{}) *Error {
	return New(ERR_INVALID_ARGUMENT, message, params...)
}

func NewNotFoundError(message string, params ...interface{}) *Error {
	return New(ERR_NOT_FOUND, message, params...)
}

func NewProcessingError(message string, params ...interface{}) *Error {
	return New(ERR_PROCESSING, message, params...)
}

func NewConfigurationError(message string, params ...interface{}) *Error {
	return New(ERR_CONFIGURATION, message, params...)
}

func NewContextCanceledError(message string, params ...interface{}) *Error {
	return New(ERR_CONTEXT_CANCELED, message, params...)
}

func NewServiceUnavailableError(message string, params ...interface{}) *Error {
	return New(ERR_SERVICE_UNAVAILABLE, message, params...)
}

func NewServiceNotStartedError(message string, params ...interface{}) *Error {
	return New(ERR_SERVICE_NOT_STARTED, message, params...)
}

func NewServiceError(message string, params ...interface{}) *Error {
	return New(ERR_SERVICE_ERROR, message, params...)
}

func NewTimerDriverMissingError(message string, params ...interface{}) *Error {
	return New(ERR_TIMER_DRIVER_MISSING, message, params...)
}

func NewTimerDriverConflictError(message string, params ...interface{}) *Error {
	return New(ERR_TIMER_DRIVER_CONFLICT, message, params...)
}

func NewRegistrationRejectedError(message string, params ...interface{}) *Error {
	return New(ERR_REGISTRATION_REJECTED, message, params...)
}
