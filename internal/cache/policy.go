package cache

import "time"

// FreshnessRule marks every key under Prefix fresh for Window after a
// fetch. A key without a matching rule stays fresh until invalidated.
type FreshnessRule struct {
	Prefix Key
	Window time.Duration
}

// InvalidationRule maps a mutation key to the key prefixes it stales.
// Keeping the mapping declarative means the invalidation policy is data,
// not logic repeated at each call site.
type InvalidationRule struct {
	Mutation Key
	Targets  []Key
}

type Policy struct {
	Freshness    []FreshnessRule
	Invalidation []InvalidationRule
}

// windowFor returns the freshness window for key, preferring the longest
// matching prefix. Zero means fresh until invalidated.
func (p Policy) windowFor(key Key) time.Duration {
	var window time.Duration
	bestLen := -1
	for _, rule := range p.Freshness {
		if key.HasPrefix(rule.Prefix) && len(rule.Prefix) > bestLen {
			window = rule.Window
			bestLen = len(rule.Prefix)
		}
	}
	return window
}

func (p Policy) targetsFor(mutation Key) []Key {
	var targets []Key
	for _, rule := range p.Invalidation {
		if mutation.HasPrefix(rule.Mutation) {
			targets = append(targets, rule.Targets...)
		}
	}
	return targets
}
