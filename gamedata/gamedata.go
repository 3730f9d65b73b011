// Package gamedata holds data types shared across play-state packets.
package gamedata

import (
	"github.com/blockwire/mcproto/codec"
	"github.com/blockwire/mcproto/tag"
)

// GameMode is the player game mode. Hardcore is survival with the hardcore
// flag bit set.
type GameMode uint8

const (
	Survival  GameMode = 0
	Creative  GameMode = 1
	Adventure GameMode = 2
	Spectator GameMode = 3
	Hardcore  GameMode = 8
)

func (m GameMode) String() string {
	switch m {
	case Survival:
		return "survival"
	case Creative:
		return "creative"
	case Adventure:
		return "adventure"
	case Spectator:
		return "spectator"
	case Hardcore:
		return "hardcore"
	default:
		return "unknown"
	}
}

// MessagePosition selects where the client displays a chat message.
type MessagePosition uint8

const (
	Chat MessagePosition = iota
	System
	HotBar
)

func (p MessagePosition) String() string {
	switch p {
	case Chat:
		return "chat"
	case System:
		return "system"
	case HotBar:
		return "hot bar"
	default:
		return "unknown"
	}
}

// Position is a block position packed into one long: x and z as 26-bit
// signed values, y as a 12-bit unsigned one.
type Position struct {
	X int32  `mc:"bitfield=26"`
	Z int32  `mc:"bitfield=26"`
	Y uint16 `mc:"bitfield=12"`
}

// Slot is one inventory stack: item id, count and the item's NBT.
type Slot struct {
	ID     int32 `mc:"with=var_int"`
	Amount uint8
	Tag    tag.Tag
}

func init() {
	codec.RegisterEnum(codec.UnsignedByte, Survival, Creative, Adventure, Spectator, Hardcore)
	codec.RegisterEnum(codec.UnsignedByte, Chat, System, HotBar)
}
