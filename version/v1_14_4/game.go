package v1_14_4

import (
	"github.com/google/uuid"

	mcproto "github.com/blockwire/mcproto"
	"github.com/blockwire/mcproto/chat"
	"github.com/blockwire/mcproto/codec"
	"github.com/blockwire/mcproto/coder"
	"github.com/blockwire/mcproto/gamedata"
	"github.com/blockwire/mcproto/tag"
	"github.com/blockwire/mcproto/xerr"
)

// GameServerBound is the closed set of serverbound play packets this
// catalog covers.
type GameServerBound interface {
	mcproto.Packet
	gameServerBound()
}

// GameClientBound is the closed set of clientbound play packets this
// catalog covers.
type GameClientBound interface {
	mcproto.Packet
	gameClientBound()
}

// ServerBoundChatMessage is a chat line typed by the player.
type ServerBoundChatMessage struct {
	Message string `mc:"max_length=256"`
}

// ServerBoundKeepAlive echoes a clientbound keep alive id.
type ServerBoundKeepAlive struct {
	ID uint64
}

// ServerBoundAbilities reports the player's current ability flags. The top
// four bits of the flag byte are unused.
type ServerBoundAbilities struct {
	_            uint8 `mc:"bitfield=4"`
	CreativeMode bool  `mc:"bitfield=1"`
	AllowFlying  bool  `mc:"bitfield=1"`
	Flying       bool  `mc:"bitfield=1"`
	Invulnerable bool  `mc:"bitfield=1"`
	FlySpeed     float32
	WalkSpeed    float32
}

// ClientBoundChatMessage displays a chat component at a screen position.
type ClientBoundChatMessage struct {
	Message  chat.Message
	Position gamedata.MessagePosition
}

// JoinGame puts the client into the play state.
type JoinGame struct {
	EntityID         uint32
	GameMode         gamedata.GameMode
	Dimension        int32
	MaxPlayers       uint8
	LevelType        string `mc:"max_length=16"`
	ViewDistance     int32  `mc:"with=var_int"`
	ReducedDebugInfo bool
}

// ClientBoundKeepAlive must be echoed by the client to keep the connection
// open.
type ClientBoundKeepAlive struct {
	ID uint64
}

// ChunkData carries one chunk column: height map NBT, packed section data
// and tile entity tags.
type ChunkData struct {
	X           int32
	Z           int32
	Full        bool
	PrimaryMask int32 `mc:"with=var_int"`
	Heights     tag.Tag
	Data        []byte
	Tiles       []tag.Tag
}

// GameDisconnect kicks the player with a chat component reason.
type GameDisconnect struct {
	Reason chat.Message
}

// BossBar updates one boss bar identified by its UUID.
type BossBar struct {
	ID     uuid.UUID
	Action BossBarAction
}

// BossBarAction is the closed set of boss bar updates.
type BossBarAction interface {
	isBossBarAction()
}

type BossBarAdd struct {
	Title    chat.Message
	Health   float32
	Color    BossBarColor
	Division BossBarDivision
	Flags    uint8
}

type BossBarRemove struct{}

type BossBarUpdateHealth struct {
	Health float32
}

type BossBarUpdateTitle struct {
	Title chat.Message
}

type BossBarUpdateStyle struct {
	Color    BossBarColor
	Division BossBarDivision
}

type BossBarUpdateFlags struct {
	Flags uint8
}

func (BossBarAdd) isBossBarAction()          {}
func (BossBarRemove) isBossBarAction()       {}
func (BossBarUpdateHealth) isBossBarAction() {}
func (BossBarUpdateTitle) isBossBarAction()  {}
func (BossBarUpdateStyle) isBossBarAction()  {}
func (BossBarUpdateFlags) isBossBarAction()  {}

type BossBarColor uint8

const (
	BossBarColorPink BossBarColor = iota
	BossBarColorBlue
	BossBarColorRed
	BossBarColorGreen
	BossBarColorYellow
	BossBarColorPurple
	BossBarColorWhite
)

type BossBarDivision uint8

const (
	BossBarDivisionNone BossBarDivision = iota
	BossBarDivisionNotches6
	BossBarDivisionNotches10
	BossBarDivisionNotches12
	BossBarDivisionNotches20
)

// EntityAction tells the client an entity started or stopped an activity.
type EntityAction struct {
	EntityID  int32 `mc:"with=var_int"`
	ActionID  EntityActionID
	JumpBoost int32 `mc:"with=var_int"`
}

type EntityActionID int32

const (
	StartSneaking EntityActionID = iota
	StopSneaking
	LeaveBed
	StartSprinting
	StopSprinting
	StartJumpWithHorse
	StopJumpWithHorse
	OpenHorseInventory
	StartFlyingWithElytra
)

func (*ServerBoundChatMessage) PacketID() int32  { return 0x03 }
func (*ServerBoundChatMessage) gameServerBound() {}
func (*ServerBoundKeepAlive) PacketID() int32    { return 0x0F }
func (*ServerBoundKeepAlive) gameServerBound()   {}
func (*ServerBoundAbilities) PacketID() int32    { return 0x19 }
func (*ServerBoundAbilities) gameServerBound()   {}

func (*BossBar) PacketID() int32                 { return 0x0D }
func (*BossBar) gameClientBound()                {}
func (*ClientBoundChatMessage) PacketID() int32  { return 0x0E }
func (*ClientBoundChatMessage) gameClientBound() {}
func (*GameDisconnect) PacketID() int32          { return 0x1A }
func (*GameDisconnect) gameClientBound()         {}
func (*EntityAction) PacketID() int32            { return 0x1B }
func (*EntityAction) gameClientBound()           {}
func (*ClientBoundKeepAlive) PacketID() int32    { return 0x20 }
func (*ClientBoundKeepAlive) gameClientBound()   {}
func (*ChunkData) PacketID() int32               { return 0x21 }
func (*ChunkData) gameClientBound()              {}
func (*JoinGame) PacketID() int32                { return 0x25 }
func (*JoinGame) gameClientBound()               {}

func init() {
	codec.RegisterEnum(codec.UnsignedByte,
		BossBarColorPink, BossBarColorBlue, BossBarColorRed, BossBarColorGreen,
		BossBarColorYellow, BossBarColorPurple, BossBarColorWhite)
	codec.RegisterEnum(codec.UnsignedByte,
		BossBarDivisionNone, BossBarDivisionNotches6, BossBarDivisionNotches10,
		BossBarDivisionNotches12, BossBarDivisionNotches20)
	codec.RegisterEnum(codec.VarInt,
		StartSneaking, StopSneaking, LeaveBed, StartSprinting, StopSprinting,
		StartJumpWithHorse, StopJumpWithHorse, OpenHorseInventory, StartFlyingWithElytra)
	codec.RegisterUnion[BossBarAction](codec.UnsignedByte, codec.Ordinals(
		BossBarAdd{}, BossBarRemove{}, BossBarUpdateHealth{}, BossBarUpdateTitle{},
		BossBarUpdateStyle{}, BossBarUpdateFlags{})...)
}

// DecodeGameServerBound decodes the serverbound play packet with the given
// type id.
func DecodeGameServerBound(id int32, d coder.Decoder) (GameServerBound, error) {
	switch id {
	case 0x03:
		p, err := codec.Decode[ServerBoundChatMessage](d)
		if err != nil {
			return nil, err
		}
		return p, nil
	case 0x0F:
		p, err := codec.Decode[ServerBoundKeepAlive](d)
		if err != nil {
			return nil, err
		}
		return p, nil
	case 0x19:
		p, err := codec.Decode[ServerBoundAbilities](d)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, &xerr.UnknownPacketTypeError{TypeID: id}
	}
}

// DecodeGameClientBound decodes the clientbound play packet with the given
// type id.
func DecodeGameClientBound(id int32, d coder.Decoder) (GameClientBound, error) {
	switch id {
	case 0x0D:
		p, err := codec.Decode[BossBar](d)
		if err != nil {
			return nil, err
		}
		return p, nil
	case 0x0E:
		p, err := codec.Decode[ClientBoundChatMessage](d)
		if err != nil {
			return nil, err
		}
		return p, nil
	case 0x1A:
		p, err := codec.Decode[GameDisconnect](d)
		if err != nil {
			return nil, err
		}
		return p, nil
	case 0x1B:
		p, err := codec.Decode[EntityAction](d)
		if err != nil {
			return nil, err
		}
		return p, nil
	case 0x20:
		p, err := codec.Decode[ClientBoundKeepAlive](d)
		if err != nil {
			return nil, err
		}
		return p, nil
	case 0x21:
		p, err := codec.Decode[ChunkData](d)
		if err != nil {
			return nil, err
		}
		return p, nil
	case 0x25:
		p, err := codec.Decode[JoinGame](d)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, &xerr.UnknownPacketTypeError{TypeID: id}
	}
}
