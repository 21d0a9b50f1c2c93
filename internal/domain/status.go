package domain

type Status string

const (
	StatusPending   Status = "pending"
	StatusCooking   Status = "cooking"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
)

// IsItemStatus reports whether s is a status an individual item may hold.
// StatusCompleted is order-level only.
func IsItemStatus(s Status) bool {
	switch s {
	case StatusPending, StatusCooking, StatusReady:
		return true
	}
	return false
}

// NextItemStatus returns the status immediately following s in the
// preparation flow. ok is false when s is ready (nothing follows) or is
// not an item status at all.
func NextItemStatus(s Status) (next Status, ok bool) {
	switch s {
	case StatusPending:
		return StatusCooking, true
	case StatusCooking:
		return StatusReady, true
	default:
		return "", false
	}
}

// DeriveOverallStatus computes the order-level status from the item
// statuses: ready when every item is ready, pending when every item is
// still pending, cooking in every other case.
func DeriveOverallStatus(items []OrderItem) Status {
	ready := 0
	started := 0
	for _, item := range items {
		switch item.Status {
		case StatusReady:
			ready++
			started++
		case StatusCooking:
			started++
		}
	}

	if len(items) > 0 && ready == len(items) {
		return StatusReady
	}
	if started > 0 {
		return StatusCooking
	}
	return StatusPending
}
