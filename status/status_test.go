package status

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/blockwire/mcproto/chat"
	"github.com/blockwire/mcproto/coder"
)

func sample() ServerStatus {
	return ServerStatus{
		Version: ServerVersion{Name: "1.15.1", Protocol: 575},
		Players: OnlinePlayers{
			Max:    20,
			Online: 1,
			Sample: []OnlinePlayer{{
				Name: "Username",
				ID:   uuid.MustParse("2a1e1912-7103-4add-80fc-91ebc346cbce"),
			}},
		},
		Description: chat.New(chat.Text("A Minecraft Server")),
	}
}

// TestRoundTrip tests the wire form of the server list payload.
func TestRoundTrip(t *testing.T) {
	s := sample()
	data, err := coder.Marshal(&s)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded ServerStatus
	if err := coder.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(decoded, s) {
		t.Errorf("round trip mismatch: expected %+v, got %+v", s, decoded)
	}
	if decoded.Players.Sample[0].ID.String() != "2a1e1912-7103-4add-80fc-91ebc346cbce" {
		t.Errorf("sample id: got %s", decoded.Players.Sample[0].ID)
	}
}

// TestParse tests reading a payload as a vanilla server sends it.
func TestParse(t *testing.T) {
	raw := `{
		"version": {"name": "1.15.1", "protocol": 575},
		"players": {"max": 20, "online": 1, "sample": [
			{"name": "Username", "id": "2a1e1912-7103-4add-80fc-91ebc346cbce"}
		]},
		"description": {"text": "A Minecraft Server"},
		"favicon": "data:image/png;base64,AAAA"
	}`
	var buf bytes.Buffer
	if err := coder.NewEncoder(&buf).WriteString(raw, coder.StringMaxLength); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	var s ServerStatus
	if err := coder.Unmarshal(buf.Bytes(), &s); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if s.Version.Protocol != 575 || s.Version.Name != "1.15.1" {
		t.Errorf("version: got %+v", s.Version)
	}
	if s.Players.Max != 20 || s.Players.Online != 1 || len(s.Players.Sample) != 1 {
		t.Errorf("players: got %+v", s.Players)
	}
	if s.Players.Sample[0].Name != "Username" {
		t.Errorf("sample name: got %q", s.Players.Sample[0].Name)
	}
	if s.Description.Text != "A Minecraft Server" {
		t.Errorf("description: got %+v", s.Description)
	}
	if s.Favicon == "" {
		t.Error("favicon: expected non-empty")
	}
}
