// Package status models the server list ping payload: version, player
// counts and a chat component description, exchanged as JSON during the
// status state.
package status

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/blockwire/mcproto/chat"
	"github.com/blockwire/mcproto/coder"
	"github.com/blockwire/mcproto/xerr"
)

type ServerStatus struct {
	Version     ServerVersion `json:"version"`
	Players     OnlinePlayers `json:"players"`
	Description chat.Message  `json:"description"`
	Favicon     string        `json:"favicon,omitempty"`
}

type ServerVersion struct {
	Name     string `json:"name"`
	Protocol uint32 `json:"protocol"`
}

type OnlinePlayers struct {
	Max    uint32         `json:"max"`
	Online uint32         `json:"online"`
	Sample []OnlinePlayer `json:"sample"`
}

type OnlinePlayer struct {
	Name string    `json:"name"`
	ID   uuid.UUID `json:"id"`
}

// WriteTo encodes the status as a length-bounded JSON string.
func (s *ServerStatus) WriteTo(e coder.Encoder) error {
	data, err := json.Marshal(s)
	if err != nil {
		return &xerr.JSONError{Err: err}
	}
	return e.WriteString(string(data), coder.StringMaxLength)
}

func (s *ServerStatus) ReadFrom(d coder.Decoder) error {
	raw, err := d.ReadString(coder.StringMaxLength)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), s); err != nil {
		return &xerr.JSONError{Err: err}
	}
	return nil
}
