package service

import "shutterhub_backend/internals/features/booking/model"

// legalTransitions is the whole booking state machine. No state is
// re-enterable and terminal states have no outgoing edges.
var legalTransitions = map[string]map[string]bool{
	model.BookingStatusConfirmed: {
		model.BookingStatusInProgress: true,
		model.BookingStatusCancelled:  true,
	},
	model.BookingStatusInProgress: {
		model.BookingStatusCompleted: true,
	},
	model.BookingStatusCompleted: {
		model.BookingStatusRefunded: true,
	},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to string) bool {
	return legalTransitions[from][to]
}
