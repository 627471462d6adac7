// Package delivery resolves the delivery fee for a checkout from the
// admin-curated zone list.
package delivery

import (
	"strings"

	"github.com/sabordecasa/api/internal/database"
)

const (
	// Orders above this subtotal get free delivery when the
	// neighborhood has no zone match.
	FreeDeliveryThresholdCents int64 = 5000

	// Flat fallback fee for unmatched neighborhoods below the
	// threshold.
	FallbackFeeCents int64 = 700
)

// MatchZone finds the active zone whose name equals the trimmed,
// case-folded neighborhood text. Empty or whitespace-only text never
// matches.
func MatchZone(zones []database.DeliveryFee, neighborhood string) (database.DeliveryFee, bool) {
	needle := strings.ToLower(strings.TrimSpace(neighborhood))
	if needle == "" {
		return database.DeliveryFee{}, false
	}
	for _, z := range zones {
		if !z.IsActive {
			continue
		}
		if strings.ToLower(strings.TrimSpace(z.Neighborhood)) == needle {
			return z, true
		}
	}
	return database.DeliveryFee{}, false
}

// ResolveFee returns the delivery fee in cents. Scheduled pickups are
// always free; otherwise a zone match wins, and unmatched neighborhoods
// fall back to free delivery above the threshold or the flat fee below
// it.
func ResolveFee(zones []database.DeliveryFee, neighborhood string, pickup bool, subtotalCents int64) int64 {
	if pickup {
		return 0
	}
	if z, ok := MatchZone(zones, neighborhood); ok {
		return z.FeeCents
	}
	if subtotalCents > FreeDeliveryThresholdCents {
		return 0
	}
	return FallbackFeeCents
}
