package oid

import (
	"crypto/sha1"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	generatorMu sync.RWMutex
	generator   Generator = &UniqueGenerator{}
)

/* Generator */

type Generator interface {
	New() OID
	NewFromBytes(b []byte) OID
}

func currentGenerator() Generator {
	generatorMu.RLock()
	defer generatorMu.RUnlock()
	return generator
}

// Use overrides the default generator.
func Use(g Generator) {
	generatorMu.Lock()
	defer generatorMu.Unlock()
	generator = g
}

// Reset restores the original unique OID generator.
// Useful in tests with a defer after overriding the default generator.
func Reset() {
	Use(&UniqueGenerator{})
}

/*
 * UniqueGenerator
 */

// UniqueGenerator is a production-grade Generator returning unique, random OIDs.
type UniqueGenerator struct{}

func NewUniqueGenerator() *UniqueGenerator {
	return &UniqueGenerator{}
}

// New generates an OID.
// Every call generates a new unique OID.
func (g *UniqueGenerator) New() OID {
	// 40 hexadecimal characters taken from two UUIDv4 without the dashes.
	oid := strings.ReplaceAll(uuid.New().String()+uuid.New().String(), "-", "")[0:40]
	return OID(oid)
}

// NewFromBytes generates an OID based on bytes.
// The same bytes will generate the same OID.
func (g *UniqueGenerator) NewFromBytes(b []byte) OID {
	h := sha1.New()
	h.Write(b)
	return OID(fmt.Sprintf("%x", h.Sum(nil)))
}

/*
 * SuiteGenerator
 */

// SuiteGenerator returns a predefined suite of OIDs.
// This generator is useful for tests when OIDs are relevant for the test case.
type SuiteGenerator struct {
	mu       sync.Mutex
	nextOIDs []string
}

func NewSuiteGenerator(nextOIDs ...string) *SuiteGenerator {
	return &SuiteGenerator{nextOIDs: nextOIDs}
}

func (g *SuiteGenerator) New() OID {
	return g.nextOID()
}

func (g *SuiteGenerator) NewFromBytes(b []byte) OID {
	return g.nextOID()
}

func (g *SuiteGenerator) nextOID() OID {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.nextOIDs) > 0 {
		oid, nextOIDs := g.nextOIDs[0], g.nextOIDs[1:]
		g.nextOIDs = nextOIDs
		return OID(oid)
	}
	panic("No more OIDs")
}

/*
 * FixedGenerator
 */

// FixedGenerator returns always the same OID.
type FixedGenerator struct {
	oid OID
}

func NewFixedGenerator(oid OID) *FixedGenerator {
	return &FixedGenerator{oid: oid}
}

func (g *FixedGenerator) New() OID {
	return g.oid
}

func (g *FixedGenerator) NewFromBytes(b []byte) OID {
	return g.oid
}

/*
 * SequenceGenerator
 */

// SequenceGenerator returns numbered OIDs in a predictable format.
// This generator is useful for tests when checking different objects.
type SequenceGenerator struct {
	mu    sync.Mutex
	count int
}

func NewSequenceGenerator() *SequenceGenerator {
	return &SequenceGenerator{count: 0}
}

func (g *SequenceGenerator) New() OID {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.count++
	return OID(fmt.Sprintf("%040d", g.count))
}

func (g *SequenceGenerator) NewFromBytes(b []byte) OID {
	return g.New()
}
