package deviceflow

// State is the coordinator's position in the setup flow. The flow is
// terminal on StateExchanged or StateAborted.
type State int

const (
	// StateStart means setup has not begun.
	StateStart State = iota

	// StateCodeRequested means a device/user code pair was obtained.
	StateCodeRequested

	// StateAwaitingUser means the verification URL was presented and the
	// flow is blocked on the user completing the browser login.
	StateAwaitingUser

	// StateExchanged means the code was exchanged for a token record. The
	// exchange is terminal on its own: persisting the record may still
	// fail, and Setup reports that as an error without leaving this state.
	StateExchanged

	// StateAborted means the flow failed; re-running it is the recovery.
	StateAborted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateCodeRequested:
		return "code_requested"
	case StateAwaitingUser:
		return "awaiting_user"
	case StateExchanged:
		return "exchanged"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}
