package request

import (
	"encoding/json"
	"strconv"

	"github.com/mcoot/bowlscore/internal/model"
)

// OpenSessionRequest is the request body for opening a lane session
type OpenSessionRequest struct {
	ReservationID string `json:"reservation_id"`
}

// AddPlayerRequest is the request body for adding a player to a match
type AddPlayerRequest struct {
	Name string `json:"name"`
}

// ThrowRequest is the request body for recording a throw. Version is the
// match version the scorer read; the throw is rejected if the match moved on.
type ThrowRequest struct {
	PlayerID string      `json:"player_id"`
	Pins     json.Number `json:"pins"`
	Version  json.Number `json:"version"`
}

// ToInput converts the request into engine input. Pin counts that are not
// whole numbers are rejected as invalid pin counts, and a missing or
// non-integer version as a missing version.
func (r ThrowRequest) ToInput() (model.ThrowInput, error) {
	pins, err := strconv.Atoi(r.Pins.String())
	if err != nil {
		return model.ThrowInput{}, model.ErrInvalidPinCount
	}
	version, err := strconv.ParseInt(r.Version.String(), 10, 64)
	if err != nil {
		return model.ThrowInput{}, model.ErrVersionRequired
	}
	return model.ThrowInput{
		PlayerID: model.PlayerID(r.PlayerID),
		Pins:     pins,
		Version:  version,
	}, nil
}
