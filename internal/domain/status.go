package domain

import "strings"

// AlertStatus is the lifecycle state of a StockCashAlert. Supervisors resolve,
// reject, and reactivate alerts by hand; the engine only ever creates them active.
type AlertStatus string

const (
	AlertActive   AlertStatus = "active"
	AlertResolved AlertStatus = "resolved"
	AlertRejected AlertStatus = "rejected"
)

// alertTransitions enumerates the permitted status moves. Resolved and
// rejected are advisory only: reactivation is always possible.
var alertTransitions = map[AlertStatus][]AlertStatus{
	AlertActive:   {AlertResolved, AlertRejected},
	AlertResolved: {AlertActive},
	AlertRejected: {AlertActive},
}

// CanTransition reports whether moving an alert from one status to another is allowed.
func CanTransition(from, to AlertStatus) bool {
	for _, allowed := range alertTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ParseAlertStatus returns the status for a given label (case-insensitive).
func ParseAlertStatus(label string) (AlertStatus, bool) {
	switch AlertStatus(strings.ToLower(strings.TrimSpace(label))) {
	case AlertActive:
		return AlertActive, true
	case AlertResolved:
		return AlertResolved, true
	case AlertRejected:
		return AlertRejected, true
	}

	return "", false
}
