package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindAndStatus_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("booking: %w", ErrSlotConflict("That time was just booked."))

	assert.Equal(t, KindSlotConflict, KindOf(err))
	assert.Equal(t, http.StatusConflict, StatusCode(err))
	assert.Equal(t, "That time was just booked.", PublicMessage(err, "x"))
}

func TestUnclassifiedErrorsAreTransient(t *testing.T) {
	err := fmt.Errorf("dial tcp: refused")

	assert.Equal(t, KindTransient, KindOf(err))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	assert.Equal(t, "try again", PublicMessage(err, "try again"))
}

func TestTransientKeepsCause(t *testing.T) {
	cause := fmt.Errorf("store down")
	err := ErrTransient("Booking failed. Try again.", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Booking failed. Try again.", PublicMessage(err, ""))
	assert.Contains(t, err.Error(), "store down")
}
