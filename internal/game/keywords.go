package game

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"
)

// KeywordEntry is one secret keyword and the category hint shared with the
// liar.
type KeywordEntry struct {
	Category string `json:"category"`
	Keyword  string `json:"keyword"`
}

// KeywordPool picks the round keyword. Civilians receive the keyword and
// category; the liar receives the category only.
type KeywordPool struct {
	entries []KeywordEntry
	rng     *rand.Rand
}

// defaultKeywords backs the pool when no asset file is configured.
var defaultKeywords = []KeywordEntry{
	{Category: "food", Keyword: "pizza"},
	{Category: "food", Keyword: "sushi"},
	{Category: "animal", Keyword: "penguin"},
	{Category: "animal", Keyword: "giraffe"},
	{Category: "place", Keyword: "library"},
	{Category: "place", Keyword: "airport"},
	{Category: "job", Keyword: "firefighter"},
	{Category: "job", Keyword: "magician"},
	{Category: "sport", Keyword: "bowling"},
	{Category: "sport", Keyword: "fencing"},
}

// NewKeywordPool builds a pool from the given entries, or the built-in set
// when entries is empty. A nil rng gets a time-seeded one.
func NewKeywordPool(entries []KeywordEntry, rng *rand.Rand) *KeywordPool {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if len(entries) == 0 {
		entries = defaultKeywords
	}
	return &KeywordPool{entries: entries, rng: rng}
}

// LoadKeywordPool reads category/keyword pairs from a JSON asset file.
func LoadKeywordPool(path string, rng *rand.Rand) (*KeywordPool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keyword pool: %w", err)
	}
	var entries []KeywordEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal keyword pool: %w", err)
	}
	return NewKeywordPool(entries, rng), nil
}

// Pick returns a random entry from the pool.
func (p *KeywordPool) Pick() KeywordEntry {
	return p.entries[p.rng.Intn(len(p.entries))]
}

// Size returns how many entries the pool holds.
func (p *KeywordPool) Size() int { return len(p.entries) }
