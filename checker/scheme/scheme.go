// Package scheme provides the application schemes: scheduling policies that
// decide how many operations of each circuit to fold into the canonical
// representation before the next comparison point.
package scheme

import "github.com/pkg/errors"

// Names of the available schemes, as used in configuration files.
const (
	NameOneToOne     = "onetoone"
	NameProportional = "proportional"
	NameLookahead    = "lookahead"
	NameGateCost     = "gatecost"
)

// Names lists all recognized scheme names.
func Names() []string {
	return []string{NameOneToOne, NameProportional, NameLookahead, NameGateCost}
}

var (
	// ErrUnknownScheme is returned when a configuration names a scheme that
	// does not exist.
	ErrUnknownScheme = errors.New("scheme: unknown application scheme")

	// ErrLookaheadKind is returned when the lookahead scheme is requested
	// for a vector-typed checker. It schedules by comparing candidate
	// operator sizes and is only meaningful for matrices.
	ErrLookaheadKind = errors.New("scheme: lookahead application scheme can only be used for matrices")

	// ErrLookaheadUnbound is returned when the lookahead scheme is applied
	// before a shared representation has been attached to it.
	ErrLookaheadUnbound = errors.New("scheme: lookahead application scheme is not bound to a representation")

	// ErrNoCostSource is returned when the gate cost scheme is constructed
	// without a cost function or a profile.
	ErrNoCostSource = errors.New("scheme: gate cost scheme requires a cost function or a profile")
)

// ApplicationScheme decides, each time it is invoked, how many operations
// the two tasks should advance by before the next comparison point. Schemes
// that perform the application themselves (lookahead) return (0, 0) and move
// the task cursors directly.
type ApplicationScheme interface {
	Apply() (int, int, error)
}
