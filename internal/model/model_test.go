package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuestCountUnmarshal(t *testing.T) {
	t.Run("json number", func(t *testing.T) {
		var req ReservationRequest
		require.NoError(t, json.Unmarshal([]byte(`{"guests": 4}`), &req))
		assert.Equal(t, "4", req.Guests.String())
	})

	t.Run("numeric string", func(t *testing.T) {
		var req ReservationRequest
		require.NoError(t, json.Unmarshal([]byte(`{"guests": "12"}`), &req))
		assert.Equal(t, "12", req.Guests.String())
	})

	t.Run("non-numeric literal", func(t *testing.T) {
		var req ReservationRequest
		err := json.Unmarshal([]byte(`{"guests": true}`), &req)
		assert.Error(t, err)
	})
}

func TestNotesOrNone(t *testing.T) {
	req := ReservationRequest{}
	assert.Equal(t, "None", req.NotesOrNone())

	req.Notes = "window seat"
	assert.Equal(t, "window seat", req.NotesOrNone())
}

func TestDispatchResultDelivered(t *testing.T) {
	cases := []struct {
		name  string
		email bool
		sms   bool
		want  bool
	}{
		{"both succeeded", true, true, true},
		{"email only", true, false, true},
		{"sms only", false, true, true},
		{"both failed", false, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := DispatchResult{
				Email: ChannelResult{Success: tc.email},
				SMS:   ChannelResult{Success: tc.sms},
			}
			assert.Equal(t, tc.want, d.Delivered())
		})
	}
}
