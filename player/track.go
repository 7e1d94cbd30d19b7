package player

import "time"

// Track is one queued item. Title and Duration are display hints; SourceRef
// is the locator handed back to the resolver when the track actually plays.
type Track struct {
	Title       string        // Display title shown in queue listings
	SourceRef   string        // Opaque locator, resolved lazily at play time
	RequestedBy string        // Username of who requested the track
	Duration    time.Duration // Length of the track, zero if unknown
}
