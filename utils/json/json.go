// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package json provides JSON encodings for numeric types that do not
// survive a round trip through a float64.
package json

import (
	"strconv"

	"github.com/holiman/uint256"
)

const Null = "null"

func unquote(b []byte) string {
	str := string(b)
	if len(str) >= 2 {
		if lastIndex := len(str) - 1; str[0] == '"' && str[lastIndex] == '"' {
			str = str[1:lastIndex]
		}
	}
	return str
}

func quote(s string) []byte {
	return []byte(`"` + s + `"`)
}

// Uint32 is a uint32 that can be JSON marshaled as a string.
type Uint32 uint32

func (u Uint32) MarshalJSON() ([]byte, error) {
	return quote(strconv.FormatUint(uint64(u), 10)), nil
}

func (u *Uint32) UnmarshalJSON(b []byte) error {
	if string(b) == Null {
		return nil
	}
	val, err := strconv.ParseUint(unquote(b), 10, 32)
	*u = Uint32(val)
	return err
}

// Uint64 is a uint64 that can be JSON marshaled as a string.
type Uint64 uint64

func (u Uint64) MarshalJSON() ([]byte, error) {
	return quote(strconv.FormatUint(uint64(u), 10)), nil
}

func (u *Uint64) UnmarshalJSON(b []byte) error {
	if string(b) == Null {
		return nil
	}
	val, err := strconv.ParseUint(unquote(b), 10, 64)
	*u = Uint64(val)
	return err
}

// Uint256 is a token amount marshaled as a decimal string.
type Uint256 uint256.Int

func NewUint256(v *uint256.Int) Uint256 {
	return Uint256(*v)
}

func (u *Uint256) Int() *uint256.Int {
	return (*uint256.Int)(u)
}

func (u Uint256) MarshalJSON() ([]byte, error) {
	return quote(u.Int().Dec()), nil
}

func (u *Uint256) UnmarshalJSON(b []byte) error {
	if string(b) == Null {
		return nil
	}
	val, err := uint256.FromDecimal(unquote(b))
	if err != nil {
		return err
	}
	*u = Uint256(*val)
	return nil
}
