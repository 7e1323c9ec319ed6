// Package data embeds the default word lists used by the transliteration engine.
package data

import "embed"

// Lists holds the six list files at the root of the FS.
//
//go:embed *.txt
var Lists embed.FS
