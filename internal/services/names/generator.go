package names

import (
	"strings"

	"github.com/mcoot/sprig-core/internal/dependencies/random"
)

// Generator produces default names for new games
type Generator interface {
	Generate() string
}

var adjectives = []string{
	"bouncy", "brave", "bright", "busy", "calm", "clever", "cosmic", "crispy",
	"curious", "dizzy", "eager", "fancy", "fuzzy", "gentle", "giant", "glowing",
	"happy", "hidden", "jolly", "lucky", "mighty", "misty", "nimble", "noisy",
	"pixel", "quick", "quiet", "rapid", "shiny", "silly", "sleepy", "sneaky",
	"speedy", "spicy", "sunny", "swift", "tiny", "wild", "witty", "zany",
}

var nouns = []string{
	"badger", "balloon", "beetle", "cactus", "castle", "comet", "cookie", "dragon",
	"falcon", "ferret", "forest", "gadget", "garden", "goblin", "island", "jelly",
	"lantern", "meadow", "monkey", "nebula", "otter", "panda", "pebble", "penguin",
	"pickle", "planet", "puzzle", "rabbit", "robot", "rocket", "sprout", "sparrow",
	"tiger", "tulip", "turtle", "walrus", "wizard", "wombat", "yeti", "zebra",
}

// WordGenerator builds adjective-noun names from fixed word lists
type WordGenerator struct {
	random random.Random
}

// Ensure WordGenerator implements Generator
var _ Generator = (*WordGenerator)(nil)

// NewWordGenerator creates a WordGenerator drawing from the given randomness
func NewWordGenerator(random random.Random) *WordGenerator {
	return &WordGenerator{random: random}
}

// Generate returns a name such as "sneaky-otter"
func (g *WordGenerator) Generate() string {
	adjective := adjectives[g.random.Intn(len(adjectives))]
	noun := nouns[g.random.Intn(len(nouns))]
	return strings.Join([]string{adjective, noun}, "-")
}
