package protocol

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the category of a protocol error.
type ErrorType int

const (
	// ErrTypeEncoding indicates a request could not be encoded
	ErrTypeEncoding ErrorType = iota
	// ErrTypeMalformed indicates a response could not be decoded
	ErrTypeMalformed
	// ErrTypeTimeout indicates no matching response arrived in time
	ErrTypeTimeout
	// ErrTypeDevice indicates the device answered with a non-zero error code
	ErrTypeDevice
	// ErrTypeUnsupported indicates the device does not advertise the command
	ErrTypeUnsupported
	// ErrTypeTransport indicates the port failed to send
	ErrTypeTransport
)

func (et ErrorType) String() string {
	switch et {
	case ErrTypeEncoding:
		return "Encoding Error"
	case ErrTypeMalformed:
		return "Malformed Response"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeDevice:
		return "Device Error"
	case ErrTypeUnsupported:
		return "Unsupported Command"
	case ErrTypeTransport:
		return "Transport Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", int(et))
	}
}

// Error is returned for failures above the codec level. Command, TxID and
// Request carry diagnostics for the request that failed.
type Error struct {
	Type     ErrorType
	Message  string
	Command  string // human readable command or message name
	TxID     int
	Request  []byte // raw outgoing frame
	Code     int    // device error code (ErrTypeDevice)
	CodeName string // symbolic name of Code
	Err      error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Type.String())
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Command != "" {
		fmt.Fprintf(&sb, " [command=%s txid=%d]", e.Command, e.TxID)
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, " (caused by: %v)", e.Err)
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewTimeoutError reports that no response matched txid within the deadline.
func NewTimeoutError(command string, txid int, request []byte) *Error {
	return &Error{
		Type:    ErrTypeTimeout,
		Message: "no response from device",
		Command: command,
		TxID:    txid,
		Request: append([]byte(nil), request...),
	}
}

// NewDeviceError reports an error code returned in an ACK frame.
func NewDeviceError(command string, txid int, code int, codeName string) *Error {
	return &Error{
		Type:     ErrTypeDevice,
		Message:  fmt.Sprintf("device returned error %d (%s)", code, codeName),
		Command:  command,
		TxID:     txid,
		Code:     code,
		CodeName: codeName,
	}
}

// NewUnsupportedError reports a command missing from the device's command
// list.
func NewUnsupportedError(command string) *Error {
	return &Error{
		Type:    ErrTypeUnsupported,
		Message: fmt.Sprintf("device does not support command %s", command),
		Command: command,
	}
}

// NewMalformedError reports a response that could not be decoded.
func NewMalformedError(command string, message string, err error) *Error {
	return &Error{
		Type:    ErrTypeMalformed,
		Message: message,
		Command: command,
		Err:     err,
	}
}

// NewEncodingError reports a request that could not be built.
func NewEncodingError(command string, err error) *Error {
	return &Error{
		Type:    ErrTypeEncoding,
		Message: "failed to encode request",
		Command: command,
		Err:     err,
	}
}

// NewTransportError reports a send failure.
func NewTransportError(command string, txid int, err error) *Error {
	return &Error{
		Type:    ErrTypeTransport,
		Message: "failed to send frame",
		Command: command,
		TxID:    txid,
		Err:     err,
	}
}

func isType(err error, t ErrorType) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Type == t
}

// IsTimeout checks if err is a timeout error
func IsTimeout(err error) bool { return isType(err, ErrTypeTimeout) }

// IsDeviceError checks if err carries a device error code
func IsDeviceError(err error) bool { return isType(err, ErrTypeDevice) }

// IsUnsupported checks if err is a capability error
func IsUnsupported(err error) bool { return isType(err, ErrTypeUnsupported) }

// IsMalformed checks if err is a decode error
func IsMalformed(err error) bool { return isType(err, ErrTypeMalformed) }

// GetTroubleshootingHint returns user-facing advice for an error.
func GetTroubleshootingHint(err error) string {
	var pe *Error
	if !errors.As(err, &pe) {
		return "An unexpected error occurred. Please try again."
	}

	switch pe.Type {
	case ErrTypeTimeout:
		return strings.Join([]string{
			"The device did not respond in time.",
			"Troubleshooting:",
			"  • Check that the MIDI input and output ports belong to the same device",
			"  • Verify the protocol scheme (command vs message) matches the device",
			"  • Try increasing the timeout with --timeout",
		}, "\n")
	case ErrTypeUnsupported:
		return "The device's command list does not include this command. Check the firmware version."
	case ErrTypeDevice:
		return fmt.Sprintf("The device rejected the request with %s.", pe.CodeName)
	case ErrTypeMalformed:
		return strings.Join([]string{
			"Failed to decode the device's response.",
			"Troubleshooting:",
			"  • Re-run with ICONN_LOG_LEVEL=debug to capture the raw frames",
			"  • The firmware may use a different layout for this command",
		}, "\n")
	case ErrTypeTransport:
		return "Sending to the MIDI port failed. Check that the port is still connected."
	default:
		return "Check the request parameters."
	}
}
