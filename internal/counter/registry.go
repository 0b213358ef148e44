package counter

import (
	"fmt"
	"sort"
)

// Beverage is one independently tracked drink, bound to one trigger line.
// Immutable after configuration.
type Beverage struct {
	ID   string
	Name string
}

// Snapshot is the remote view of counts, captured once at startup.
type Snapshot map[string]int

// Entry is one registry row.
type Entry struct {
	Beverage Beverage
	Count    int
}

// Reader is the read-only view handed to sinks.
type Reader interface {
	Get(id string) int
	Entries() []Entry
	Total() int
}

// Registry maps configured beverage ids to their current count.
// The key set is fixed at construction. No locking: a single goroutine
// owns all writes.
type Registry struct {
	order  []Beverage
	counts map[string]int
}

// NewRegistry seeds every configured beverage from the snapshot, or 0.
// Snapshot ids that are not configured are ignored.
func NewRegistry(beverages []Beverage, snap Snapshot) *Registry {
	r := &Registry{
		order:  make([]Beverage, 0, len(beverages)),
		counts: make(map[string]int, len(beverages)),
	}

	for _, b := range beverages {
		if _, dup := r.counts[b.ID]; dup {
			continue
		}
		r.order = append(r.order, b)
		r.counts[b.ID] = snap[b.ID]
	}

	return r
}

// Has reports whether id is a configured beverage.
func (r *Registry) Has(id string) bool {
	_, ok := r.counts[id]
	return ok
}

// Get returns the current count for id. Unconfigured ids read as 0.
func (r *Registry) Get(id string) int {
	return r.counts[id]
}

// Set overwrites the count for a configured id.
// Setting an unconfigured id panics: the key set never changes.
func (r *Registry) Set(id string, value int) {
	if _, ok := r.counts[id]; !ok {
		panic(fmt.Sprintf("counter: set on unconfigured beverage %q", id))
	}
	r.counts[id] = value
}

// Entries returns all rows in configuration order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.order))
	for _, b := range r.order {
		out = append(out, Entry{Beverage: b, Count: r.counts[b.ID]})
	}
	return out
}

// Total sums all counts.
func (r *Registry) Total() int {
	n := 0
	for _, v := range r.counts {
		n += v
	}
	return n
}

// Unknown lists snapshot ids with no configured beverage, sorted.
func Unknown(snap Snapshot, beverages []Beverage) []string {
	known := make(map[string]struct{}, len(beverages))
	for _, b := range beverages {
		known[b.ID] = struct{}{}
	}

	var out []string
	for id := range snap {
		if _, ok := known[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
