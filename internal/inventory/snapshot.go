package inventory

import (
	"time"

	"storefront-service/internal/catalog"
)

// Snapshot is one capture of the normalized catalog: the full product
// list, the storefront category list, and when it was taken. Exactly one
// snapshot is live at a time; a newer capture replaces it wholesale.
type Snapshot struct {
	Products   []catalog.Product  `json:"products"`
	Categories []catalog.Category `json:"categories"`
	CapturedAt time.Time          `json:"captured_at"`
}

// FreshAt reports whether the snapshot is inside its freshness window at
// the given instant. Freshness is evaluated lazily at read time; nothing
// expires snapshots in the background.
func (s *Snapshot) FreshAt(now time.Time, ttl time.Duration) bool {
	if s == nil {
		return false
	}
	return now.Sub(s.CapturedAt) < ttl
}
