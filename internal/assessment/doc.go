// Package assessment implements the session state machine of a self-assessment.
//
// A Session moves through three phases:
//
//	Selecting ──StartAnswering──▶ Answering ──Submit──▶ Reviewing
//	    ▲                            │                      │
//	    └────────Back / Restart──────┴────────Restart───────┘
//
// The selection can only change while Selecting, answers can only be
// recorded while Answering, and both are read-only while Reviewing. Back and
// Restart clear the selection and all answers.
//
// Operations that are not valid in the current phase return a
// *TransitionError wrapping one of the sentinel errors, so callers can use
// errors.Is to tell them apart. These are contract violations the caller is
// expected to prevent, not user-recoverable conditions.
package assessment
