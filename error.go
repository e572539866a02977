package stripe

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorType is the category of error returned by the Stripe API.
type ErrorType string

// The error types the API currently reports. The set is open, a value
// outside of it decodes fine and is carried through as is.
const (
	ErrorTypeAPI            ErrorType = "api_error"
	ErrorTypeCard           ErrorType = "card_error"
	ErrorTypeIdempotency    ErrorType = "idempotency_error"
	ErrorTypeInvalidRequest ErrorType = "invalid_request_error"
)

// ErrorCode is the machine readable code a failure is reported with, such as
// "card_declined".
type ErrorCode string

const (
	ErrorCodeAmountTooLarge      ErrorCode = "amount_too_large"
	ErrorCodeAmountTooSmall      ErrorCode = "amount_too_small"
	ErrorCodeBalanceInsufficient ErrorCode = "balance_insufficient"
	ErrorCodeCardDeclined        ErrorCode = "card_declined"
	ErrorCodeExpiredCard         ErrorCode = "expired_card"
	ErrorCodeIncorrectCVC        ErrorCode = "incorrect_cvc"
	ErrorCodeIncorrectNumber     ErrorCode = "incorrect_number"
	ErrorCodeMissing             ErrorCode = "missing"
	ErrorCodeParameterMissing    ErrorCode = "parameter_missing"
	ErrorCodeParameterUnknown    ErrorCode = "parameter_unknown"
	ErrorCodeProcessingError     ErrorCode = "processing_error"
	ErrorCodeRateLimit           ErrorCode = "rate_limit"
	ErrorCodeResourceMissing     ErrorCode = "resource_missing"
	ErrorCodeTestmodeCharges     ErrorCode = "testmode_charges_only"
)

// Error is an error returned by the Stripe API itself, decoded from the
// error object of a non-2xx response.
type Error struct {
	Type        ErrorType `json:"type"`
	Code        ErrorCode `json:"code"`
	Msg         string    `json:"message"`
	Param       string    `json:"param"`
	DocURL      string    `json:"doc_url"`
	DeclineCode string    `json:"decline_code"`
	ChargeID    string    `json:"charge"`

	// Status is the status line of the response the error arrived in, and
	// StatusCode its code.
	Status     string `json:"-"`
	StatusCode int    `json:"-"`

	// RequestID identifies the request at Stripe's end, from the Request-Id
	// header of the response.
	RequestID string `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("stripe api error %s: %s", e.Status, e.Msg)
}

// TransportError is returned when a request never made it to the API, or the
// response never made it back, for a reason other than a timeout, such as a
// refused connection or a failed DNS lookup.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request %s %s failed: %s", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// TimeoutError is returned when a request was abandoned because the
// configured timeout, or the deadline of the request's context, expired
// before a response arrived.
type TimeoutError struct {
	Method string
	Path   string
	Err    error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request %s %s timed out: %s", e.Method, e.Path, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// Timeout implements the net.Error convention.
func (e *TimeoutError) Timeout() bool { return true }

// DecodeError is returned when a response could not be decoded, either a 2xx
// response that does not hold the expected resource, or an error response
// with no parseable error object. Body holds the payload exactly as it was
// received.
type DecodeError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode response with status %d: %s", e.StatusCode, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsTimeout reports whether the given error, anywhere in its chain, is a
// request timeout.
func IsTimeout(err error) bool {
	var t *TimeoutError
	return errors.As(err, &t)
}

// AsError returns the *Error anywhere in the given error's chain, or nil when
// there is none. Use this to get at the code and message of an API failure
// without an errors.As dance at every call site.
func AsError(err error) *Error {
	var e *Error

	if errors.As(err, &e) {
		return e
	}
	return nil
}

// AsTransportError returns the *TransportError anywhere in the given error's
// chain, or nil when there is none.
func AsTransportError(err error) *TransportError {
	var e *TransportError

	if errors.As(err, &e) {
		return e
	}
	return nil
}

// AsDecodeError returns the *DecodeError anywhere in the given error's chain,
// or nil when there is none.
func AsDecodeError(err error) *DecodeError {
	var e *DecodeError

	if errors.As(err, &e) {
		return e
	}
	return nil
}

// apiError decodes the error object of a non-2xx response. Responses that do
// not carry one are reported as a DecodeError with the payload retained.
func apiError(resp *RawResponse) error {
	var v struct {
		Err *Error `json:"error"`
	}

	if err := json.Unmarshal(resp.Body, &v); err != nil {
		return &DecodeError{
			StatusCode: resp.StatusCode,
			Body:       resp.Body,
			Err:        err,
		}
	}

	if v.Err == nil {
		v.Err = &Error{}
	}

	v.Err.Status = resp.Status
	v.Err.StatusCode = resp.StatusCode
	v.Err.RequestID = resp.RequestID
	return v.Err
}
