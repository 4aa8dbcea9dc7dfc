package deviceflow

import "errors"

// ErrSetup indicates a fatal failure acquiring or confirming a device code.
// The whole flow must be re-run; nothing is retried automatically.
var ErrSetup = errors.New("device setup failed")
