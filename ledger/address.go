// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"crypto/sha256"

	"github.com/luxfi/ids"
)

// Address derives a deterministic contract address from a deployment label.
func Address(label string) ids.ShortID {
	digest := sha256.Sum256([]byte(label))
	var addr ids.ShortID
	copy(addr[:], digest[:])
	return addr
}
