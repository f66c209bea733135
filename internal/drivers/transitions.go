package drivers

// Action is an admin operation that may move a driver between statuses.
type Action string

const (
	ActionApprove        Action = "approve"
	ActionReject         Action = "reject"
	ActionSuspend        Action = "suspend"
	ActionReactivate     Action = "reactivate"
	ActionDelete         Action = "delete"
	ActionGrantIncentive Action = "grant_incentive"
)

// transitions is the closed {from-status -> action -> to-status} table.
// Anything not listed here is refused at the engine boundary with a
// state-conflict error, not just hidden in the UI. "deleted" is a terminal
// marker: the row stays in the store but accepts no further actions.
var transitions = map[Status]map[Action]Status{
	StatusSubmitted: {
		ActionDelete: StatusDeleted,
	},
	StatusOnReview: {
		ActionApprove: StatusApproved,
		ActionReject:  StatusRejected,
		ActionDelete:  StatusDeleted,
	},
	StatusPending: {
		ActionReject: StatusRejected,
		ActionDelete: StatusDeleted,
	},
	StatusApproved: {
		ActionSuspend:        StatusSuspended,
		ActionGrantIncentive: StatusApproved,
		ActionDelete:         StatusDeleted,
	},
	StatusRejected: {
		ActionDelete: StatusDeleted,
	},
	StatusPendingPayment: {
		ActionDelete: StatusDeleted,
	},
	StatusSuspended: {
		ActionReactivate: StatusApproved,
		ActionDelete:     StatusDeleted,
	},
	StatusDeleted: {},
}

// NextStatus returns the status an action leads to from the given status,
// and whether the transition is allowed at all.
func NextStatus(from Status, action Action) (Status, bool) {
	allowed, ok := transitions[from]
	if !ok {
		return "", false
	}
	to, ok := allowed[action]
	return to, ok
}

// SourceStatuses returns every status from which the action is allowed.
func SourceStatuses(action Action) []Status {
	var from []Status
	for _, status := range AllStatuses {
		if _, ok := transitions[status][action]; ok {
			from = append(from, status)
		}
	}
	return from
}
