package domain

import "time"

// RebalanceEvent is a single point in time at which the driver should
// re-evaluate target weights. PreMarket distinguishes an open-of-day
// evaluation from a post-close one.
type RebalanceEvent struct {
	At        time.Time
	PreMarket bool
}
