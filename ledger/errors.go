// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import "errors"

// Error classes shared by every contract. Packages wrap these with their own
// context so callers can classify a failure with errors.Is.
var (
	// ErrUnauthorized is returned when the caller lacks the owner, operator,
	// pending-owner or depositor role an operation requires.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidState is returned when an operation is not valid in the
	// current lifecycle state.
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidParameter is returned for out-of-range values, forbidden zero
	// addresses and duplicate registrations.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrInsufficientBalance is returned when a transfer or burn exceeds the
	// available balance or allowance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	ErrContractExists  = errors.New("contract already deployed")
	ErrUnknownContract = errors.New("unknown contract")
)
