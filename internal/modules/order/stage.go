package order

import "strings"

// Stage is the canonical lifecycle bucket derived from the two raw status
// columns.
type Stage string

const (
	StagePending   Stage = "pending"
	StageAccepted  Stage = "accepted"
	StageRejected  Stage = "rejected"
	StageDelivered Stage = "delivered"
)

// Raw vocabulary shared by the legacy status column and order_status.
const (
	statusPending   = "pending"
	statusConfirmed = "confirmed"
	statusAccepted  = "accepted"
	statusPickedUp  = "picked_up"
	statusInTransit = "in_transit"
	statusDelivered = "delivered"
	statusCompleted = "completed"
	statusCancelled = "cancelled"
	statusRejected  = "rejected"
)

func eitherIs(o *Order, v string) bool {
	return o.Status == v || o.OrderStatus == v
}

// InPendingBucket reports whether the order counts as awaiting action.
// Confirmed counts only through order_status; a legacy-only pending row still
// counts through status. The three buckets are not mutually exclusive.
func InPendingBucket(o *Order) bool {
	return o.OrderStatus == statusPending ||
		o.OrderStatus == statusConfirmed ||
		o.Status == statusPending
}

// InAcceptedBucket reports whether either column shows the order in progress
// or already delivered.
func InAcceptedBucket(o *Order) bool {
	return eitherIs(o, statusPickedUp) ||
		eitherIs(o, statusInTransit) ||
		eitherIs(o, statusDelivered)
}

// InRejectedBucket reports whether either column shows the order cancelled.
func InRejectedBucket(o *Order) bool {
	return eitherIs(o, statusCancelled)
}

// CanonicalStage collapses both columns into one lifecycle value. Terminal
// values win over in-progress ones so a half-migrated row never regresses.
func CanonicalStage(o *Order) Stage {
	if eitherIs(o, statusCancelled) || eitherIs(o, statusRejected) {
		return StageRejected
	}
	if eitherIs(o, statusDelivered) || eitherIs(o, statusCompleted) {
		return StageDelivered
	}
	if eitherIs(o, statusAccepted) || eitherIs(o, statusPickedUp) || eitherIs(o, statusInTransit) {
		return StageAccepted
	}
	return StagePending
}

// legalTargets mirrors the actions the console exposes: accept or reject a
// fresh order, mark an in-progress one delivered. Terminal stages have no
// entry, so every transition out of them is illegal.
var legalTargets = map[Stage][]Stage{
	StagePending:  {StageAccepted, StageRejected},
	StageAccepted: {StageDelivered},
}

// IsLegalTransition reports whether the order may move to the requested
// stage. Total over any input: unknown stages are simply never legal.
func IsLegalTransition(o *Order, requested Stage) bool {
	for _, t := range legalTargets[CanonicalStage(o)] {
		if t == requested {
			return true
		}
	}
	return false
}

// StorageValue is the raw order_status written when an admin moves an order
// into this stage. Reject writes the cancelled vocabulary value, which is
// the value the rejected bucket counts.
func (s Stage) StorageValue() string {
	if s == StageRejected {
		return statusCancelled
	}
	return string(s)
}

// ParseStage normalises a caller-supplied status string to a Stage.
// "cancelled" is accepted as an alias for the reject action.
func ParseStage(v string) (Stage, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case string(StagePending):
		return StagePending, true
	case string(StageAccepted):
		return StageAccepted, true
	case string(StageRejected), statusCancelled:
		return StageRejected, true
	case string(StageDelivered):
		return StageDelivered, true
	}
	return "", false
}
