package control

import "fmt"

// ErrorKind classifies control failures so the HTTP boundary can decide what to expose.
type ErrorKind int

const (
	// KindStore covers connection, query and insert failures.
	KindStore ErrorKind = iota + 1
	// KindDecode is a malformed submission payload or a missing required field.
	KindDecode
	// KindUnknownDataType is a submission classification other than channelDetails.
	KindUnknownDataType
)

func (k ErrorKind) String() string {
	switch k {
	case KindStore:
		return "store"
	case KindDecode:
		return "decode"
	case KindUnknownDataType:
		return "unknown_data_type"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is the failure result of a control operation.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + ": " + e.Kind.String()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
