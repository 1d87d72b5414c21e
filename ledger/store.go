// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"encoding/binary"
	"errors"

	"github.com/holiman/uint256"
	"github.com/luxfi/database"
	"github.com/luxfi/ids"
)

// Store is a contract's key/value namespace. Missing keys read as zero values.
type Store struct {
	db database.Database
}

// Key joins key segments.
func Key(parts ...[]byte) []byte {
	size := 0
	for _, part := range parts {
		size += len(part)
	}
	key := make([]byte, 0, size)
	for _, part := range parts {
		key = append(key, part...)
	}
	return key
}

func (s *Store) get(key []byte) ([]byte, error) {
	value, err := s.db.Get(key)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	return value, err
}

func (s *Store) Delete(key []byte) error {
	return s.db.Delete(key)
}

// Get decodes the record at key into v. It reports false if no record exists.
func (s *Store) Get(key []byte, v any) (bool, error) {
	value, err := s.get(key)
	if err != nil || value == nil {
		return false, err
	}
	if _, err := Codec.Unmarshal(value, v); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Put(key []byte, v any) error {
	value, err := Codec.Marshal(CodecVersion, v)
	if err != nil {
		return err
	}
	return s.db.Put(key, value)
}

func (s *Store) Uint256(key []byte) (*uint256.Int, error) {
	value, err := s.get(key)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes(value), nil
}

// PutUint256 stores v, deleting the key when v is zero.
func (s *Store) PutUint256(key []byte, v *uint256.Int) error {
	if v.IsZero() {
		return s.db.Delete(key)
	}
	word := v.Bytes32()
	return s.db.Put(key, word[:])
}

func (s *Store) Uint64(key []byte) (uint64, error) {
	value, err := s.get(key)
	if err != nil || value == nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(value), nil
}

func (s *Store) PutUint64(key []byte, v uint64) error {
	return s.db.Put(key, binary.BigEndian.AppendUint64(nil, v))
}

func (s *Store) Address(key []byte) (ids.ShortID, error) {
	value, err := s.get(key)
	if err != nil || value == nil {
		return ids.ShortEmpty, err
	}
	return ids.ToShortID(value)
}

func (s *Store) PutAddress(key []byte, addr ids.ShortID) error {
	if addr == ids.ShortEmpty {
		return s.db.Delete(key)
	}
	return s.db.Put(key, addr[:])
}

func (s *Store) Bool(key []byte) (bool, error) {
	value, err := s.get(key)
	return len(value) == 1 && value[0] == 1, err
}

func (s *Store) PutBool(key []byte, v bool) error {
	if !v {
		return s.db.Delete(key)
	}
	return s.db.Put(key, []byte{1})
}
