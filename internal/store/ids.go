package store

import "fmt"

// Handle kinds are distinct named int32 types so they cannot be mixed
// up across stores. -1 is the shared invalid sentinel.

type (
	// IntID indexes the integer value store.
	IntID int32
	// RealID indexes the real value store.
	RealID int32
	// FloatID indexes the float value store.
	FloatID int32
	// StringID indexes the raw string store.
	StringID int32
	// IdentifierID is a view over the string store for identifiers.
	IdentifierID int32
	// StringLiteralID is a view over the string store for computed
	// string literal values.
	StringLiteralID int32
)

const (
	InvalidIntID           IntID           = -1
	InvalidRealID          RealID          = -1
	InvalidFloatID         FloatID         = -1
	InvalidStringID        StringID        = -1
	InvalidIdentifierID    IdentifierID    = -1
	InvalidStringLiteralID StringLiteralID = -1
)

func (id IntID) IsValid() bool           { return id >= 0 }
func (id RealID) IsValid() bool          { return id >= 0 }
func (id FloatID) IsValid() bool         { return id >= 0 }
func (id StringID) IsValid() bool        { return id >= 0 }
func (id IdentifierID) IsValid() bool    { return id >= 0 }
func (id StringLiteralID) IsValid() bool { return id >= 0 }

func (id IntID) String() string           { return fmt.Sprintf("int%d", int32(id)) }
func (id RealID) String() string          { return fmt.Sprintf("real%d", int32(id)) }
func (id FloatID) String() string         { return fmt.Sprintf("float%d", int32(id)) }
func (id StringID) String() string        { return fmt.Sprintf("string%d", int32(id)) }
func (id IdentifierID) String() string    { return fmt.Sprintf("identifier%d", int32(id)) }
func (id StringLiteralID) String() string { return fmt.Sprintf("string_literal%d", int32(id)) }
