// Package placeholder keeps opaque tokens inside a text stream while it goes through a transformation
// that must not see the real content, then substitutes the tokens with their final value.
package placeholder

import (
	"fmt"
	"strings"
	"sync"

	"github.com/julien-sobczak/nimbus2md/pkg/oid"
)

// Prefix starts every token. Tokens only contain letters and digits to survive Markdown converters.
const Prefix = "NIMBUSPH"

// Registry generates tokens and stores the values they stand for.
type Registry struct {
	mu     sync.Mutex
	seed   string
	count  int
	values map[string]string
	tokens []string
}

// New creates a registry. The seed (ex: a note identifier) makes tokens unique across registries.
func New(seed string) *Registry {
	return &Registry{
		seed:   seed,
		values: make(map[string]string),
	}
}

// Reserve returns a new token without value yet.
func (r *Registry) Reserve(kind string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.newToken(kind)
}

func (r *Registry) newToken(kind string) string {
	r.count++
	id := oid.NewFromBytes([]byte(fmt.Sprintf("%s/%s/%d", r.seed, kind, r.count)))
	token := Prefix + strings.ToUpper(onlyAlnum(kind)) + id.Upper()
	r.tokens = append(r.tokens, token)
	return token
}

// Put registers a value and returns the token to insert in place of it.
func (r *Registry) Put(kind, value string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	token := r.newToken(kind)
	r.values[token] = value
	return token
}

// Set defines the value of a reserved token.
func (r *Registry) Set(token, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[token] = value
}

// Lookup returns the value of a token.
func (r *Registry) Lookup(token string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	value, ok := r.values[token]
	return value, ok
}

// Tokens returns the tokens in generation order.
func (r *Registry) Tokens() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]string, len(r.tokens))
	copy(result, r.tokens)
	return result
}

// Len returns the number of generated tokens.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}

// Apply replaces every token having a value. Tokens without value are left untouched.
func (r *Registry) Apply(text string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		return text
	}
	var oldnew []string
	for _, token := range r.tokens {
		value, ok := r.values[token]
		if !ok {
			continue
		}
		oldnew = append(oldnew, token, value)
	}
	return strings.NewReplacer(oldnew...).Replace(text)
}

// Pending returns the tokens of this registry still present in the text.
func (r *Registry) Pending(text string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []string
	for _, token := range r.tokens {
		if strings.Contains(text, token) {
			result = append(result, token)
		}
	}
	return result
}

func onlyAlnum(s string) string {
	var sb strings.Builder
	for _, c := range s {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}
