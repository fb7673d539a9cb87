// Package auction embeds the bid archive schema.
package auction

import "embed"

// FS holds the goose migrations for the auction_bids archive.
//
//go:embed *.sql
var FS embed.FS
