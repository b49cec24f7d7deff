package distributor

import "errors"

var (
	// ErrQuoteInvariantViolated is returned when the fee claim yields a
	// nonzero base-side amount, meaning the position is no longer
	// accruing exclusively in the quote token.
	ErrQuoteInvariantViolated = errors.New("quote invariant violated: nonzero base fee claimed")

	// ErrCycleNotYetElapsed is returned when a new cycle is requested
	// before 24 hours have passed since the previous cycle start.
	ErrCycleNotYetElapsed = errors.New("cycle not yet elapsed")

	// ErrNoFeesToDistribute is returned when a rollover claim yields
	// zero quote fees.
	ErrNoFeesToDistribute = errors.New("no quote fees to distribute")

	// ErrPageOutOfOrder is returned when the supplied page index does
	// not match the progress cursor.
	ErrPageOutOfOrder = errors.New("page index out of order")

	// ErrMalformedPage is returned when a page entry is missing its
	// schedule or destination key.
	ErrMalformedPage = errors.New("malformed page entries")

	// ErrPolicyExists is returned when initializing a policy for a
	// vault that already has one. Policies are immutable after init.
	ErrPolicyExists = errors.New("policy already initialized")

	// ErrNotFound is returned by stores for missing records.
	ErrNotFound = errors.New("record not found")
)
