// Package id generates opaque instance identifiers used only to correlate
// log lines for a given executor or adapter.
//
// It replaces the draw-without-replacement small-integer generator used
// elsewhere in this lineage for debug labelling: a log correlation id only
// needs to be comparable and effectively unique, not drawn from a small
// dense range, so a UUID is the simpler and more standard choice.
package id

import "github.com/google/uuid"

// New returns a new random identifier, suitable for a log field.
func New() string {
	return uuid.NewString()
}
