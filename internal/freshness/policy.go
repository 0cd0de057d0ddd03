// Package freshness decides which cached articles may be served.
package freshness

import (
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"newstyping/internal/article/model"
)

// DefaultRetention is how long an ingested article stays servable.
const DefaultRetention = 24 * time.Hour

// Chooser returns an index in [0, n). It must be safe for concurrent use.
type Chooser func(n int) int

// Exclusion is the caller-supplied set of article ids already viewed.
type Exclusion map[string]struct{}

// ParseExclusion reads the comma-separated viewed parameter.
func ParseExclusion(viewed string) Exclusion {
	ex := Exclusion{}
	for _, id := range strings.Split(viewed, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ex[id] = struct{}{}
		}
	}
	return ex
}

func (e Exclusion) Contains(id string) bool {
	_, ok := e[id]
	return ok
}

// IDs returns the excluded ids in sorted order.
func (e Exclusion) IDs() []string {
	ids := make([]string, 0, len(e))
	for id := range e {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Eligible reports whether a record may be served: not expired at now and not excluded.
func Eligible(a model.Article, now time.Time, excluded Exclusion) bool {
	return !a.ExpiresAt.Before(now) && !excluded.Contains(a.ID)
}

// Expired is the cleanup predicate. It is strict, so a record expiring
// exactly at now survives cleanup and is still servable by Eligible.
func Expired(a model.Article, now time.Time) bool {
	return a.ExpiresAt.Before(now)
}

// ExpiresAt stamps the write-once expiry for a record created at created.
func ExpiresAt(created time.Time, window time.Duration) time.Time {
	return created.Add(window)
}

// Policy selects one servable article uniformly at random.
type Policy struct {
	choose Chooser
}

// New returns a Policy; a nil chooser falls back to math/rand/v2.
func New(choose Chooser) *Policy {
	if choose == nil {
		choose = rand.IntN
	}
	return &Policy{choose: choose}
}

// Select returns a uniformly random eligible candidate. The boolean is false
// on a cache miss, when no candidate is eligible.
func (p *Policy) Select(candidates []model.Article, now time.Time, excluded Exclusion) (model.Article, bool) {
	eligible := make([]model.Article, 0, len(candidates))
	for _, c := range candidates {
		if Eligible(c, now, excluded) {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return model.Article{}, false
	}

	i := p.choose(len(eligible))
	if i < 0 || i >= len(eligible) {
		i = 0
	}
	return eligible[i], true
}
