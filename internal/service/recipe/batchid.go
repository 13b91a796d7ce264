package recipe

import (
	"fmt"
	"time"
)

// GenerateBatchID derives a sortable batch code from the wall clock and the
// dish identifier: BATCH-YYYYMMDD-HHMMSS-<dishID>. Two sessions for the same
// dish started within the same second would collide; that precision limit is
// accepted and not deduplicated.
func GenerateBatchID(dishID string, now time.Time) string {
	return fmt.Sprintf("BATCH-%s-%s-%s", now.Format("20060102"), now.Format("150405"), dishID)
}
