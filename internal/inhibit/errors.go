package inhibit

import "fmt"

// ConnectionError indicates the session or system message bus could not be
// reached. Lease acquisition against that bus is left unfulfilled.
type ConnectionError struct {
	Bus string // "session" or "system"
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s bus: %v", e.Bus, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// CallError indicates a remote inhibit call returned an error or an
// unusable reply.
type CallError struct {
	Call string // e.g. "ScreenSaver.Inhibit"
	Err  error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Call, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// ProtocolError indicates a reply arrived but was malformed: missing
// arguments or an argument of an unexpected type.
type ProtocolError struct {
	Call   string
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Call, e.Reason)
}
