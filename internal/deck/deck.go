// internal/deck/deck.go
package deck

import (
	"errors"
	"fmt"
	"math/rand"

	"lyricbingo/internal/models"
)

// minMainPool is how many distinct main-pool phrases a card needs besides the center.
const minMainPool = models.CardSize - 1

var (
	// ErrCenterPoolEmpty means no phrase is available for the center cell.
	ErrCenterPoolEmpty = errors.New("deck: center pool is empty")
	// ErrMainPoolTooSmall means the main pool cannot fill the 24 non-center cells.
	ErrMainPoolTooSmall = fmt.Errorf("deck: main pool needs at least %d phrases", minMainPool)
	// ErrPoolOverlap means a phrase id appears in both pools.
	ErrPoolOverlap = errors.New("deck: main and center pools share a phrase id")
)

// Deck holds the two phrase pools cards are dealt from. The center pool is
// reserved for the fixed center cell and must be disjoint from the main pool.
// Pool sizes are validated once at construction; MakeCard never fails.
type Deck struct {
	main           []string
	center         []string
	autoMarkCenter bool
}

// Option configures a Deck.
type Option func(*Deck)

// WithAutoMarkCenter deals every card with the center cell already marked.
func WithAutoMarkCenter() Option {
	return func(d *Deck) { d.autoMarkCenter = true }
}

// New validates the pools and builds a Deck. Pool problems are configuration
// errors surfaced at startup, not per-call failures.
func New(main, center []string, opts ...Option) (*Deck, error) {
	if len(center) == 0 {
		return nil, ErrCenterPoolEmpty
	}
	if len(main) < minMainPool {
		return nil, ErrMainPoolTooSmall
	}
	seen := make(map[string]struct{}, len(main))
	for _, id := range main {
		seen[id] = struct{}{}
	}
	for _, id := range center {
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: %q", ErrPoolOverlap, id)
		}
	}
	d := &Deck{
		main:   append([]string(nil), main...),
		center: append([]string(nil), center...),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Default returns a deck built from the stock carol phrase pools.
func Default(opts ...Option) *Deck {
	d, err := New(defaultMainPool, defaultCenterPool, opts...)
	if err != nil {
		// The stock pools are compile-time constants; this cannot happen.
		panic(err)
	}
	return d
}

// MakeCard deals a fresh card: one uniformly random center-pool phrase at the
// center cell and 24 distinct main-pool phrases, drawn without replacement,
// at the remaining positions. All marks start false unless the deck was
// built with WithAutoMarkCenter.
func (d *Deck) MakeCard() *models.Card {
	centerID := d.center[rand.Intn(len(d.center))]

	picks := append([]string(nil), d.main...)
	rand.Shuffle(len(picks), func(i, j int) {
		picks[i], picks[j] = picks[j], picks[i]
	})

	grid := make([]string, models.CardSize)
	marks := make([]bool, models.CardSize)
	p := 0
	for i := 0; i < models.CardSize; i++ {
		if i == models.CenterIndex {
			grid[i] = centerID
			continue
		}
		grid[i] = picks[p]
		p++
	}
	if d.autoMarkCenter {
		marks[models.CenterIndex] = true
	}
	return &models.Card{Grid: grid, Marks: marks}
}

// MainPoolSize reports how many phrases the main pool holds.
func (d *Deck) MainPoolSize() int { return len(d.main) }

// CenterPoolSize reports how many phrases the center pool holds.
func (d *Deck) CenterPoolSize() int { return len(d.center) }
