package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shutterhub_backend/internals/features/booking/model"
)

func TestCanTransition(t *testing.T) {
	statuses := []string{
		model.BookingStatusConfirmed,
		model.BookingStatusInProgress,
		model.BookingStatusCompleted,
		model.BookingStatusCancelled,
		model.BookingStatusRefunded,
	}

	legal := map[[2]string]bool{
		{model.BookingStatusConfirmed, model.BookingStatusInProgress}: true,
		{model.BookingStatusConfirmed, model.BookingStatusCancelled}:  true,
		{model.BookingStatusInProgress, model.BookingStatusCompleted}: true,
		{model.BookingStatusCompleted, model.BookingStatusRefunded}:   true,
	}

	// exhaustive: every edge of the full matrix, self-loops included
	for _, from := range statuses {
		for _, to := range statuses {
			want := legal[[2]string{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransitionUnknownStates(t *testing.T) {
	assert.False(t, CanTransition("", model.BookingStatusConfirmed))
	assert.False(t, CanTransition(model.BookingStatusConfirmed, ""))
	assert.False(t, CanTransition("draft", "done"))
}
