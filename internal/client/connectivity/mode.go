// Package connectivity holds the process-wide Connectivity Mode read by every
// routing decision, the switch that changes it, the persisted user
// preference, and the watcher that probes the remote service.
package connectivity

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects the data path of routed operations.
type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
	ModeUnknown Mode = "unknown"
)

// Modes lists every mode.
var Modes = []Mode{ModeOnline, ModeOffline, ModeUnknown}

var ErrInvalidMode = errors.New("invalid connectivity mode")

// ParseMode accepts a mode name or the numeric user status used by older
// clients ("0" online, "1" offline).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "online", "0":
		return ModeOnline, nil
	case "offline", "1":
		return ModeOffline, nil
	case "unknown", "":
		return ModeUnknown, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

func (m Mode) String() string { return string(m) }

// Source gives a snapshot of the current mode. Implementations must not block.
type Source interface {
	CurrentMode() Mode
}

// Fixed is a Source that always reports the same mode.
type Fixed Mode

func (f Fixed) CurrentMode() Mode { return Mode(f) }
