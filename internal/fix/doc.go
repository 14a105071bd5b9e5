// Package fix models proposed remediations.
//
// An Autocorrection is a proposal, never an action: commands attached to it
// are data for a human or tool to run. Confidence is clamped to [0,1] at
// construction. Details is nil for advisory proposals.
package fix
