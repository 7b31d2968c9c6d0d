// internal/deck/pools.go
package deck

// Stock phrase pools for the carol bingo deck. Ids are slugs of lyric
// snippets; the presentation layer maps them to display text and artwork.
// The center pool must stay disjoint from the main pool.

var defaultMainPool = []string{
	"jingle-all-the-way",
	"silent-night",
	"holy-night",
	"deck-the-halls",
	"boughs-of-holly",
	"fa-la-la",
	"joy-to-the-world",
	"let-it-snow",
	"winter-wonderland",
	"sleigh-bells-ring",
	"chestnuts-roasting",
	"jack-frost",
	"figgy-pudding",
	"twelve-drummers",
	"partridge-pear-tree",
	"five-gold-rings",
	"red-nosed-reindeer",
	"santa-claus-is-coming",
	"naughty-or-nice",
	"mistletoe",
	"feliz-navidad",
	"o-come-all-ye-faithful",
	"hark-the-herald",
	"angels-we-have-heard",
	"little-drummer-boy",
	"pa-rum-pum-pum",
	"frosty-the-snowman",
	"silver-bells",
	"white-christmas",
	"good-king-wenceslas",
	"auld-lang-syne",
	"carol-of-the-bells",
}

var defaultCenterPool = []string{
	"all-i-want-for-christmas",
	"last-christmas",
	"wonderful-christmastime",
	"rockin-around-the-tree",
}
