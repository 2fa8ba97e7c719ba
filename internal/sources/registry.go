// internal/sources/registry.go
package sources

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/cardshop/internal/config"
)

var (
	ErrEmptyName      = errors.New("card name is required")
	ErrInvalidCeiling = errors.New("max price must be positive")

	// ErrProviderUnavailable wraps a failed provider call returned by Lookup.
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// Adapter searches one provider.
type Adapter interface {
	Name() string
	Search(ctx context.Context, name string, ceiling decimal.Decimal) ([]NormalizedCard, error)
}

// Searcher resolves a game identifier and searches its provider.
type Searcher interface {
	Search(ctx context.Context, name string, ceiling decimal.Decimal, game string) ([]NormalizedCard, error)
}

// Registry maps games to adapters. Search logs provider failures and reports
// them as an empty result; Lookup returns them wrapped in ErrProviderUnavailable.
type Registry struct {
	mu       sync.RWMutex
	adapters map[Game]Adapter
	fallback Game
	scryfall *ScryfallAdapter
}

func NewRegistry(cfg config.SourcesConfig) *Registry {
	client := newHTTPClient(cfg)
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	scryfall := &ScryfallAdapter{client: client, baseURL: strings.TrimRight(cfg.ScryfallURL, "/"), maxResults: maxResults}
	r := &Registry{
		adapters: make(map[Game]Adapter),
		fallback: GameMTG,
		scryfall: scryfall,
	}

	r.Register(GameMTG, scryfall)
	r.Register(GameYuGiOh, &YGOProDeckAdapter{client: client, baseURL: strings.TrimRight(cfg.YGOProDeckURL, "/"), maxResults: maxResults})
	r.Register(GamePokemon, &PokemonTCGAdapter{
		client:     client,
		baseURL:    strings.TrimRight(cfg.PokemonTCGURL, "/"),
		apiKey:     cfg.PokemonTCGAPIKey,
		maxResults: maxResults,
	})

	for _, g := range []Game{
		GameLorcana, GameOnePiece, GameDigimon, GameStarWars, GameFleshAndBlood,
		GameVanguard, GameWeissSchwarz, GameShadowverse, GameGodzilla,
	} {
		r.Register(g, unavailableAdapter{game: g})
	}

	return r
}

func (r *Registry) Register(g Game, a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[g] = a
}

// Scryfall exposes the MTG provider for the bulk sync.
func (r *Registry) Scryfall() *ScryfallAdapter {
	return r.scryfall
}

// Resolve returns the adapter for game, falling back to the default provider.
func (r *Registry) Resolve(game string) (Game, Adapter) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if g, ok := ParseGame(game); ok {
		if a, ok := r.adapters[g]; ok {
			return g, a
		}
	}
	logrus.WithFields(logrus.Fields{
		"component": "sources",
		"game":      game,
	}).Info("Unknown game, using default provider")
	return r.fallback, r.adapters[r.fallback]
}

func (r *Registry) Search(ctx context.Context, name string, ceiling decimal.Decimal, game string) ([]NormalizedCard, error) {
	cards, err := r.Lookup(ctx, name, ceiling, game)
	if errors.Is(err, ErrProviderUnavailable) {
		return []NormalizedCard{}, nil
	}
	return cards, err
}

func (r *Registry) Lookup(ctx context.Context, name string, ceiling decimal.Decimal, game string) ([]NormalizedCard, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if !ceiling.IsPositive() {
		return nil, ErrInvalidCeiling
	}

	g, adapter := r.Resolve(game)
	log := logrus.WithFields(logrus.Fields{
		"component": "sources",
		"game":      g,
		"provider":  adapter.Name(),
		"query":     name,
	})

	cards, err := adapter.Search(ctx, name, ceiling)
	if err != nil {
		log.WithError(err).Warn("Provider search failed")
		return nil, fmt.Errorf("%w: %s: %v", ErrProviderUnavailable, adapter.Name(), err)
	}
	log.WithField("results", len(cards)).Debug("Provider search completed")
	return cards, nil
}

type unavailableAdapter struct {
	game Game
}

func (u unavailableAdapter) Name() string { return string(u.game) }

func (u unavailableAdapter) Search(ctx context.Context, name string, ceiling decimal.Decimal) ([]NormalizedCard, error) {
	logrus.WithFields(logrus.Fields{
		"component": "sources",
		"game":      u.game,
	}).Info("No data source integrated for game")
	return []NormalizedCard{}, nil
}
