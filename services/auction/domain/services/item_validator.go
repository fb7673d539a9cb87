// Package services contains stateless domain services for the auction bounded context.
// Domain services enforce business rules that operate purely on domain types
// and have zero external dependencies beyond stdlib and the domain layer.
package services

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/ghuser/livebid/services/auction/domain/models"
)

const maxTitleLength = 255

// ValidateTitle enforces business rules for item titles.
//
// Business rules:
//   - 1 to 255 bytes
//   - No leading or trailing whitespace
//   - No control characters (Unicode category Cc)
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title must not be empty")
	}
	if len(title) > maxTitleLength {
		return fmt.Errorf("title must not exceed %d characters", maxTitleLength)
	}
	if title != strings.TrimSpace(title) {
		return fmt.Errorf("title must not have leading or trailing whitespace")
	}
	for _, r := range title {
		if unicode.IsControl(r) {
			return fmt.Errorf("title must not contain control characters")
		}
	}
	return nil
}

// ValidateItemForSeeding checks an Item before it enters the store.
func ValidateItemForSeeding(item *models.Item) error {
	if item == nil {
		return fmt.Errorf("item cannot be nil")
	}

	if strings.TrimSpace(item.ID) == "" {
		return fmt.Errorf("id must be set")
	}

	if err := ValidateTitle(item.Title); err != nil {
		return fmt.Errorf("invalid title: %w", err)
	}

	if math.IsNaN(item.StartingPrice) || math.IsInf(item.StartingPrice, 0) || item.StartingPrice <= 0 {
		return fmt.Errorf("starting price must be a positive finite number (got %v)", item.StartingPrice)
	}

	if item.CurrentBid != item.StartingPrice || item.HasBidder() {
		return fmt.Errorf("item must be seeded without bids")
	}

	if item.AuctionEndTime.IsZero() {
		return fmt.Errorf("auction end time must be set")
	}

	return nil
}
