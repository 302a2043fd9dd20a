package classify

import (
	"time"

	"github.com/brandsignal/brandsignal/internal/database"
)

// Age thresholds for priority escalation.
const (
	escalateUrgentAfter = 24 * time.Hour
	escalateHighAfter   = 12 * time.Hour
	escalateMediumAfter = 6 * time.Hour
)

// ShouldEscalate returns the priority an open query should have given its
// age, current priority, and status. URGENT queries and terminal statuses
// are fixed points. The rules are evaluated in a fixed order with the first
// match winning; they are not mutually exclusive age ranges.
func ShouldEscalate(receivedAt time.Time, currentPriority database.QueryPriority, status database.QueryStatus) database.QueryPriority {
	if currentPriority == database.PriorityUrgent || status.IsTerminal() {
		return currentPriority
	}

	age := time.Since(receivedAt)

	if age > escalateUrgentAfter && status == database.StatusNew {
		return database.PriorityUrgent
	}

	if age > escalateHighAfter && (status == database.StatusNew || status == database.StatusAssigned) {
		if currentPriority == database.PriorityLow || currentPriority == database.PriorityMedium {
			return database.PriorityHigh
		}
	}

	if age > escalateMediumAfter && currentPriority == database.PriorityLow {
		return database.PriorityMedium
	}

	return currentPriority
}
