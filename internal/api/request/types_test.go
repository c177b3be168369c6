package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/bowlscore/internal/model"
)

func TestThrowRequestToInput(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		pins    int
		version int64
		wantErr error
	}{
		{name: "integer", body: `{"player_id":"p1","pins":7,"version":3}`, pins: 7, version: 3},
		{name: "zero", body: `{"player_id":"p1","pins":0,"version":1}`, pins: 0, version: 1},
		{name: "negative passes through", body: `{"player_id":"p1","pins":-1,"version":1}`, pins: -1, version: 1},
		{name: "fractional", body: `{"player_id":"p1","pins":7.5,"version":1}`, wantErr: model.ErrInvalidPinCount},
		{name: "exponent", body: `{"player_id":"p1","pins":1e1,"version":1}`, wantErr: model.ErrInvalidPinCount},
		{name: "missing", body: `{"player_id":"p1","version":1}`, wantErr: model.ErrInvalidPinCount},
		{name: "missing version", body: `{"player_id":"p1","pins":7}`, wantErr: model.ErrVersionRequired},
		{name: "fractional version", body: `{"player_id":"p1","pins":7,"version":2.5}`, wantErr: model.ErrVersionRequired},
		{name: "zero version passes through", body: `{"player_id":"p1","pins":7,"version":0}`, pins: 7, version: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req ThrowRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))

			input, err := req.ToInput()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, model.PlayerID("p1"), input.PlayerID)
			assert.Equal(t, tt.pins, input.Pins)
			assert.Equal(t, tt.version, input.Version)
		})
	}
}

func TestThrowRequestRejectsStringPins(t *testing.T) {
	var req ThrowRequest
	err := json.Unmarshal([]byte(`{"player_id":"p1","pins":"seven"}`), &req)
	assert.Error(t, err)
}
