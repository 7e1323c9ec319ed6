package transliteration

import "regexp"

const (
	number = `\d+(?:[.,]\d+)*`

	// A unit that only counts when a number or a second unit is attached:
	// on its own it would swallow one-letter Serbian words such as "s" or "A".
	unitAttached = `[zafpnμmcdhkKMGTPEY]?(?:[BVWJFSHCΩATNhlmg]|m[²³]?|s²?|cd|Pa|Wb|Hz)`

	// Units that are recognisable alone. Hecto is left out for metres so
	// "hm", an interjection, is still transliterated.
	unitStandalone = `°[FC]|[kMGTPZY](?:B|Hz)|[pnμmcdk]m[²³]?|m[²³]|[mcdh][lg]|kg|km`
)

var measurementRe = regexp.MustCompile(
	`^(?:` +
		number + `(?:` + unitAttached + `)` +
		`|` +
		`(?:` + number + `)?(?:` + unitStandalone + `|(?:` + unitAttached + `)/(?:` + unitAttached + `))` +
		`)$`,
)

// LooksLikeMeasurement reports whether word, already trimmed of surrounding
// punctuation, is a number with a unit ("5kg", "3.5m²", "10°C"), a standalone
// unit ("kg") or a unit ratio ("km/h"). Case matters: "MB" and "mb" differ.
func LooksLikeMeasurement(word string) bool {
	return measurementRe.MatchString(word)
}
