package utils

var (
	ErrNotFound = New(NotFoundErrorCode, "not found")

	ErrEmptyBuffer = New(EmptyBufferErrorCode, "write buffer is empty")

	ErrInvalidConfig = New(InvalidConfigErrorCode, "invalid writer config")

	ErrShortKey = New(ShortKeyErrorCode, "physical key shorter than interval suffix")
)

const (
	UnknownErrorCode       = -1
	NotFoundErrorCode      = 1000
	EmptyBufferErrorCode   = 1001
	InvalidConfigErrorCode = 1002
	ShortKeyErrorCode      = 1003
)

func New(code int, text string) error {
	return &ErrorCode{code, text}
}

type ErrorCode struct {
	code int
	s    string
}

func (e *ErrorCode) Error() string {
	return e.s
}

func (e *ErrorCode) Code() int {
	return e.code
}

func ErrorToErrorCode(err error) *ErrorCode {
	if err == nil {
		return nil
	}

	errorCode, ok := err.(*ErrorCode)
	if ok {
		return errorCode
	}

	return New(UnknownErrorCode, err.Error()).(*ErrorCode)
}
