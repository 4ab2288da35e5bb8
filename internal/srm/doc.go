// Package srm holds the shared numerical types and the error taxonomy used
// across the solver: the [State] vector advanced by an [Integrator], and the
// fatal error classes ([ErrConfig], [ErrUnstable]) that every component maps
// its failures onto.
//
// Non-fatal physical infeasibilities (clamped thrust coefficient, recovery
// that never triggered) are not errors; they are recorded in the event log of
// the run that produced them.
package srm
