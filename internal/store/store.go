// Package store holds the shared value stores produced by lexing:
// интернированные идентификаторы и строки плюс числовые значения.
// Every value is addressed by a small typed handle; handles stay valid
// for the lifetime of the store and stores never shrink during a
// compilation.
package store

import (
	"fmt"
	"math/big"

	"fortio.org/safecast"
)

// Real is an exact real number value: mantissa times base raised to
// exponent, where base is 10 for decimal literals and 2 otherwise.
type Real struct {
	Mantissa  *big.Int
	Exponent  *big.Int
	IsDecimal bool
}

func (r Real) String() string {
	base := "2"
	if r.IsDecimal {
		base = "10"
	}
	return fmt.Sprintf("%s*%s^%s", r.Mantissa.String(), base, r.Exponent.String())
}

// Store is an append-only value store indexed by a typed int32 handle.
// Add is total; Get panics on an invalid handle.
type Store[ID ~int32, V any] struct {
	values []V
}

// Add appends value and returns its new handle.
func (s *Store[ID, V]) Add(value V) ID {
	id, err := safecast.Conv[int32](len(s.values))
	if err != nil {
		panic(fmt.Errorf("value store overflow: %w", err))
	}
	s.values = append(s.values, value)
	return ID(id)
}

// Get returns the value for id. Invalid handles are a programming
// error.
func (s *Store[ID, V]) Get(id ID) V {
	if id < 0 || int(id) >= len(s.values) {
		panic(fmt.Sprintf("invalid handle %d (store size %d)", id, len(s.values)))
	}
	return s.values[id]
}

func (s *Store[ID, V]) Len() int { return len(s.values) }

func (s *Store[ID, V]) Reserve(n int) {
	if cap(s.values)-len(s.values) < n {
		grown := make([]V, len(s.values), len(s.values)+n)
		copy(grown, s.values)
		s.values = grown
	}
}

func (s *Store[ID, V]) Clear() { s.values = s.values[:0] }

// StringStore is an interning store: повторная вставка тех же байтов
// возвращает существующий handle.
type StringStore struct {
	values []string
	index  map[string]StringID
}

func NewStringStore() *StringStore {
	return &StringStore{index: make(map[string]StringID)}
}

// Add interns value and returns its handle. Duplicate inserts return
// the existing handle.
func (s *StringStore) Add(value string) StringID {
	if id, ok := s.index[value]; ok {
		return id
	}
	raw, err := safecast.Conv[int32](len(s.values))
	if err != nil {
		panic(fmt.Errorf("string store overflow: %w", err))
	}
	id := StringID(raw)
	// Own a copy so the store never aliases a caller's scratch buffer.
	owned := string([]byte(value))
	s.values = append(s.values, owned)
	s.index[owned] = id
	return id
}

// AddBytes interns the byte slice.
func (s *StringStore) AddBytes(value []byte) StringID {
	return s.Add(string(value))
}

func (s *StringStore) Get(id StringID) string {
	if !id.IsValid() || int(id) >= len(s.values) {
		panic(fmt.Sprintf("invalid handle %s (store size %d)", id, len(s.values)))
	}
	return s.values[id]
}

// Find returns the handle for value, or InvalidStringID if it was
// never interned.
func (s *StringStore) Find(value string) StringID {
	if id, ok := s.index[value]; ok {
		return id
	}
	return InvalidStringID
}

func (s *StringStore) Len() int { return len(s.values) }

func (s *StringStore) Clear() {
	s.values = s.values[:0]
	s.index = make(map[string]StringID)
}

// IdentView and LiteralView are the two named views over one
// StringStore; interning the same bytes through either yields the same
// numeric handle.

type IdentView struct{ store *StringStore }

func (v IdentView) Add(value string) IdentifierID      { return IdentifierID(v.store.Add(value)) }
func (v IdentView) AddBytes(value []byte) IdentifierID { return IdentifierID(v.store.AddBytes(value)) }
func (v IdentView) Get(id IdentifierID) string         { return v.store.Get(StringID(id)) }
func (v IdentView) Find(value string) IdentifierID     { return IdentifierID(v.store.Find(value)) }
func (v IdentView) Len() int                           { return v.store.Len() }

type LiteralView struct{ store *StringStore }

func (v LiteralView) Add(value string) StringLiteralID { return StringLiteralID(v.store.Add(value)) }
func (v LiteralView) AddBytes(value []byte) StringLiteralID {
	return StringLiteralID(v.store.AddBytes(value))
}
func (v LiteralView) Get(id StringLiteralID) string { return v.store.Get(StringID(id)) }
func (v LiteralView) Len() int                      { return v.store.Len() }

// SharedValueStores aggregates every store a token buffer references.
// One instance is shared by all buffers of a compilation unit and
// outlives them.
type SharedValueStores struct {
	ints    Store[IntID, *big.Int]
	reals   Store[RealID, Real]
	floats  Store[FloatID, *big.Float]
	strings *StringStore
}

func NewSharedValueStores() *SharedValueStores {
	return &SharedValueStores{strings: NewStringStore()}
}

func (s *SharedValueStores) Ints() *Store[IntID, *big.Int]       { return &s.ints }
func (s *SharedValueStores) Reals() *Store[RealID, Real]         { return &s.reals }
func (s *SharedValueStores) Floats() *Store[FloatID, *big.Float] { return &s.floats }
func (s *SharedValueStores) Strings() *StringStore               { return s.strings }
func (s *SharedValueStores) Identifiers() IdentView              { return IdentView{store: s.strings} }
func (s *SharedValueStores) StringLiterals() LiteralView         { return LiteralView{store: s.strings} }
