package catalog

import (
	"math/rand/v2"
	"strconv"
	"strings"
)

// Draw bounds
const (
	MinDraw = 5
	MaxDraw = 12
)

// Item codes are nine digits.
const (
	minItemCode  = 100000000
	itemCodeSpan = 900000000
)

const transactionDigits = 20

// Sampler draws random item sets from a catalog.
// A Sampler is not safe for concurrent use.
type Sampler struct {
	rng *rand.Rand
	min int
	max int
}

// NewSampler creates a sampler with the default draw bounds. A nil rng is
// replaced with a randomly seeded PCG source.
func NewSampler(rng *rand.Rand) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Sampler{rng: rng, min: MinDraw, max: MaxDraw}
}

// Count picks the number of items to draw, uniformly in [min, max].
func (s *Sampler) Count() int {
	return s.min + s.rng.IntN(s.max-s.min+1)
}

// Draw selects Count() distinct entries without replacement. When the pool
// is smaller than the chosen count the whole pool is returned, shuffled.
// Each pick is given a fresh item code.
func (s *Sampler) Draw(c *Catalog) ([]Pick, error) {
	pool := c.Flatten()
	if len(pool) == 0 {
		return nil, ErrEmptyCatalog
	}

	n := min(s.Count(), len(pool))

	// rand.Shuffle is a Fisher-Yates shuffle.
	s.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	picks := pool[:n:n]
	for i := range picks {
		picks[i].Code = s.ItemCode()
	}
	return picks, nil
}

// ItemCode returns a random nine-digit item code.
func (s *Sampler) ItemCode() string {
	return strconv.Itoa(minItemCode + s.rng.IntN(itemCodeSpan))
}

// TransactionID returns twenty random digits for a receipt transaction
// number.
func (s *Sampler) TransactionID() string {
	var b strings.Builder
	b.Grow(transactionDigits)
	for range transactionDigits {
		b.WriteByte(byte('0' + s.rng.IntN(10)))
	}
	return b.String()
}
