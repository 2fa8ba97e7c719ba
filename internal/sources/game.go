// internal/sources/game.go
package sources

import "strings"

// Game identifies a trading-card game.
type Game string

const (
	GameMTG           Game = "mtg"
	GameYuGiOh        Game = "yugioh"
	GamePokemon       Game = "pokemon"
	GameLorcana       Game = "lorcana"
	GameOnePiece      Game = "onepiece"
	GameDigimon       Game = "digimon"
	GameStarWars      Game = "starwars"
	GameFleshAndBlood Game = "fab"
	GameVanguard      Game = "vanguard"
	GameWeissSchwarz  Game = "weiss-schwarz"
	GameShadowverse   Game = "shadowverse"
	GameGodzilla      Game = "godzilla"
)

var gameAliases = map[string]Game{
	"mtg":                GameMTG,
	"magic":              GameMTG,
	"yugioh":             GameYuGiOh,
	"yu-gi-oh":           GameYuGiOh,
	"pokemon":            GamePokemon,
	"pokémon":            GamePokemon,
	"lorcana":            GameLorcana,
	"disney-lorcana":     GameLorcana,
	"onepiece":           GameOnePiece,
	"one-piece":          GameOnePiece,
	"digimon":            GameDigimon,
	"starwars":           GameStarWars,
	"star-wars":          GameStarWars,
	"fab":                GameFleshAndBlood,
	"flesh-and-blood":    GameFleshAndBlood,
	"vanguard":           GameVanguard,
	"cardfight-vanguard": GameVanguard,
	"weiss-schwarz":      GameWeissSchwarz,
	"weiss":              GameWeissSchwarz,
	"shadowverse":        GameShadowverse,
	"godzilla":           GameGodzilla,
}

// ParseGame resolves a case-insensitive game identifier or alias.
func ParseGame(s string) (Game, bool) {
	g, ok := gameAliases[strings.ToLower(strings.TrimSpace(s))]
	return g, ok
}
