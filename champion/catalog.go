// Package champion resolves free-text captain input to canonical champion
// identifiers. The catalog is rebuilt wholesale from an external source on a
// TTL; readers always see either the old or the new alias table in full.
package champion

import (
	"context"
	"log/slog"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oogwaybot/oogway"
)

const (
	// DefaultTTL is how long a fetched catalog stays fresh.
	DefaultTTL = 24 * time.Hour

	// resolveCutoff is the minimum similarity for Resolve to accept a
	// fuzzy match. suggestCutoff is the relaxed threshold used for
	// "did you mean" feedback.
	resolveCutoff = 0.8
	suggestCutoff = 0.6
)

// manualAliases are community shorthands that the generated aliases miss.
var manualAliases = map[string]string{
	"lb": "Leblanc", "mf": "MissFortune", "tf": "TwistedFate",
	"j4": "JarvanIV", "ww": "Warwick", "gp": "Gangplank",
	"wu": "MonkeyKing", "wk": "MonkeyKing", "wukong": "MonkeyKing",
	"mk": "MonkeyKing", "monkey": "MonkeyKing",
	"belv": "Belveth", "ks": "KSante", "cho": "Chogath",
}

// Similarity scores how close two normalized strings are, in [0, 1].
// The catalog treats it as a pluggable capability.
type Similarity func(a, b string) float64

// Catalog maps free-text input to canonical champion ids.
type Catalog struct {
	TTL        time.Duration
	Similarity Similarity
	Logger     *slog.Logger

	source oogway.ChampionSource

	// Serializes refreshes so concurrent callers collapse into one fetch.
	refreshMu sync.Mutex

	mu        sync.RWMutex
	ids       []string
	names     map[string]string
	aliases   map[string]string
	fetchedAt time.Time
}

func NewCatalog(source oogway.ChampionSource) *Catalog {
	return &Catalog{
		TTL:        DefaultTTL,
		Similarity: LevenshteinSimilarity,
		Logger:     slog.Default(),
		source:     source,
	}
}

// Refresh rebuilds the alias table from the source. Without force it is a
// no-op while the cache is fresh. A failed fetch keeps serving the stale
// cache and only logs; it returns an error solely when no catalog was ever
// loaded.
func (c *Catalog) Refresh(ctx context.Context, force bool) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	c.mu.RLock()
	fresh := len(c.ids) > 0 && time.Since(c.fetchedAt) < c.TTL
	cached := len(c.ids) > 0
	c.mu.RUnlock()

	if fresh && !force {
		return nil
	}

	champions, err := c.source.FetchChampions(ctx)
	if err != nil || len(champions) == 0 {
		if cached {
			c.Logger.Warn("champion catalog refresh failed, keeping stale cache", "error", err)
			return nil
		}
		if err != nil {
			return oogway.Errorf(oogway.EUNAVAILABLE, "Champion catalog unavailable: %v.", err)
		}
		return oogway.Errorf(oogway.EUNAVAILABLE, "Champion catalog unavailable: empty champion list.")
	}

	ids := make([]string, 0, len(champions))
	names := make(map[string]string, len(champions))
	aliases := make(map[string]string, len(champions)*2+len(manualAliases))

	for _, champ := range champions {
		ids = append(ids, champ.ID)
		names[champ.ID] = champ.Name

		slug := Normalize(champ.ID)
		aliases[slug] = champ.ID

		if len(slug) >= 3 {
			if abbr := slug[:3]; aliases[abbr] == "" {
				aliases[abbr] = champ.ID
			}
		}
	}
	for alias, id := range manualAliases {
		aliases[alias] = id
	}

	c.mu.Lock()
	c.ids = ids
	c.names = names
	c.aliases = aliases
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	c.Logger.Info("champion catalog rebuilt", "champions", len(ids), "aliases", len(aliases))
	return nil
}

// Resolve returns the canonical id for free-text input. Exact alias match
// wins; otherwise the nearest alias with similarity of at least the strict
// cutoff is used.
func (c *Catalog) Resolve(text string) (string, bool) {
	key := Normalize(text)
	if key == "" {
		return "", false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if id, ok := c.aliases[key]; ok {
		return id, true
	}

	best, score := "", 0.0
	for alias, id := range c.aliases {
		if s := c.Similarity(key, alias); s > score {
			best, score = id, s
		}
	}
	if score >= resolveCutoff {
		return best, true
	}
	return "", false
}

// Suggest returns up to limit distinct near-matches for user feedback,
// using the relaxed cutoff.
func (c *Catalog) Suggest(text string, limit int) []string {
	key := Normalize(text)
	if key == "" || limit <= 0 {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	type scored struct {
		id    string
		score float64
	}
	matches := make([]scored, 0)
	for alias, id := range c.aliases {
		if s := c.Similarity(key, alias); s >= suggestCutoff {
			matches = append(matches, scored{id: id, score: s})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].id < matches[j].id
	})

	out := make([]string, 0, limit)
	seen := make(map[string]struct{})
	for _, m := range matches {
		if _, ok := seen[m.id]; ok {
			continue
		}
		seen[m.id] = struct{}{}
		out = append(out, m.id)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Random picks a champion uniformly among those not rejected by exclude.
// It returns false when every champion is excluded.
func (c *Catalog) Random(exclude func(id string) bool) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	pool := make([]string, 0, len(c.ids))
	for _, id := range c.ids {
		if exclude == nil || !exclude(id) {
			pool = append(pool, id)
		}
	}
	if len(pool) == 0 {
		return "", false
	}
	return pool[rand.Intn(len(pool))], true
}

// Champions returns a snapshot of all canonical ids.
func (c *Catalog) Champions() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, len(c.ids))
	copy(out, c.ids)
	return out
}

// DisplayName returns the human name for a canonical id, falling back to
// the id itself.
func (c *Catalog) DisplayName(id string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if name, ok := c.names[id]; ok {
		return name
	}
	return id
}

// Normalize lowercases input and strips spaces, the form all aliases are
// stored in.
func Normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "")
}
