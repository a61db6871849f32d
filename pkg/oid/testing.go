package oid

import "testing"

// UseSequence makes OIDs predictable until the end of the test.
func UseSequence(t testing.TB) {
	Use(NewSequenceGenerator())
	t.Cleanup(Reset)
}

// UseFixed returns always the same OID until the end of the test.
func UseFixed(t testing.TB, value OID) {
	Use(NewFixedGenerator(value))
	t.Cleanup(Reset)
}

// UseNext returns the given OIDs in order until the end of the test.
func UseNext(t testing.TB, nextOIDs ...string) {
	Use(NewSuiteGenerator(nextOIDs...))
	t.Cleanup(Reset)
}
