// Package assets embeds the star system layouts shipped with the game.
package assets

import "embed"

// Systems holds systems/*.json.
//
//go:embed systems/*.json
var Systems embed.FS
