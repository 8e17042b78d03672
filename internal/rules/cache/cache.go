// Package cache holds parsed rule sets keyed by the fingerprint of their
// source document, so inline documents repeated across requests are parsed
// once.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/admitware/scholarship-advisor/internal/rules"
)

type InMemory struct {
	mu    sync.RWMutex
	max   int
	items map[string]*rules.RuleSet
}

func NewInMemory(max int) *InMemory {
	return &InMemory{
		max:   max,
		items: make(map[string]*rules.RuleSet, max),
	}
}

// GetOrCompute returns the cached rule set for the document, parsing it with
// fn on a miss. Errors and panics from fn are never cached; the cache stops
// admitting new entries once full.
func (c *InMemory) GetOrCompute(doc string, fn func() (*rules.RuleSet, error)) (*rules.RuleSet, error) {
	key := Fingerprint(doc)

	c.mu.RLock()
	if v, ok := c.items[key]; ok {
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.items[key]; ok {
		return v, nil
	}

	rs, err := compute(fn)
	if err != nil {
		return nil, err
	}

	if len(c.items) < c.max {
		c.items[key] = rs
	}

	return rs, nil
}

func compute(fn func() (*rules.RuleSet, error)) (rs *rules.RuleSet, err error) {
	defer func() {
		if r := recover(); r != nil {
			rs = nil
			err = fmt.Errorf("rule set computation panicked: %v", r)
		}
	}()
	return fn()
}

// Fingerprint is the cache key for a document, also exposed as the rule set
// hash in API responses.
func Fingerprint(doc string) string {
	sum := sha256.Sum256([]byte(doc))
	return hex.EncodeToString(sum[:])
}
