package oid

import (
	"strings"
)

// OID identifies an object generated during a conversion run (placeholder tokens, anonymous notes, ...).
type OID string

// Upper returns the OID in upper case, suitable for tokens that must survive case-sensitive tools.
func (o OID) Upper() string {
	return strings.ToUpper(string(o))
}

// String returns the OID as a string.
func (o OID) String() string {
	return string(o)
}

/* Constructors */

func New() OID {
	return currentGenerator().New()
}
func NewFromBytes(b []byte) OID {
	return currentGenerator().NewFromBytes(b)
}

/* Parser */

// MustParse parses an OID or panic if the OID format is not valid.
func MustParse(s string) OID {
	if len(s) != 40 {
		panic("Invalid OID")
	}
	return OID(s)
}
