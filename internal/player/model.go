package player

import "time"

// Player is a balance-holding account in the virtual economy. Balance is in
// minor currency units and never goes negative through a committed operation.
type Player struct {
	ID        string
	Username  string
	Balance   int64
	CreatedAt time.Time
}
