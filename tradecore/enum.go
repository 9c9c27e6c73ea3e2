// This file contains the base enum type shared by the well-known control
// byte table and the other small ID-to-name lookups in the package.

package tradecore

import "fmt"

// Enum is the base / common part of the package's enum-like types.
type Enum struct {
	// Name of the entity
	Name string
}

// String returns the string representation of the enum (the name).
// Defined with value receiver so this gets called even if a non-pointer is used.
func (e Enum) String() string {
	return e.Name
}

// UnknownEnum constructs a new Enum for an unrecognized byte value, with a
// name of the form "Unknown 0xID".
func UnknownEnum(id byte) Enum {
	return Enum{fmt.Sprintf("Unknown 0x%02x", id)}
}
