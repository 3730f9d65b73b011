// Package chat models chat components, the JSON text format carried by
// disconnect reasons, chat messages, boss bar titles and server status
// descriptions. The format is described at https://wiki.vg/Chat.
package chat

import (
	"encoding/json"

	"github.com/blockwire/mcproto/coder"
	"github.com/blockwire/mcproto/xerr"
)

// Color is a named chat color, or a "#rrggbb" hex string on 1.16+.
type Color string

const (
	Black       Color = "black"
	DarkBlue    Color = "dark_blue"
	DarkGreen   Color = "dark_green"
	DarkAqua    Color = "dark_aqua"
	DarkRed     Color = "dark_red"
	DarkPurple  Color = "dark_purple"
	Gold        Color = "gold"
	Gray        Color = "gray"
	DarkGray    Color = "dark_gray"
	Blue        Color = "blue"
	Green       Color = "green"
	Aqua        Color = "aqua"
	Red         Color = "red"
	LightPurple Color = "light_purple"
	Yellow      Color = "yellow"
	White       Color = "white"
)

// ClickAction names what a click on a component does.
type ClickAction string

const (
	OpenURL        ClickAction = "open_url"
	RunCommand     ClickAction = "run_command"
	SuggestCommand ClickAction = "suggest_command"
	ChangePage     ClickAction = "change_page"
)

type ClickEvent struct {
	Action ClickAction `json:"action"`
	Value  string      `json:"value"`
}

// HoverAction names what hovering over a component shows.
type HoverAction string

const (
	ShowText   HoverAction = "show_text"
	ShowItem   HoverAction = "show_item"
	ShowEntity HoverAction = "show_entity"
)

type HoverEvent struct {
	Action HoverAction `json:"action"`
	Value  string      `json:"value"`
}

// Payload is the content of a component: plain text, a translation with
// substitutions, a keybind, a scoreboard value or an entity selector.
// Exactly one group of fields should be set.
type Payload struct {
	Text      string    `json:"text,omitempty"`
	Translate string    `json:"translate,omitempty"`
	With      []Message `json:"with,omitempty"`
	Keybind   string    `json:"keybind,omitempty"`
	Name      string    `json:"name,omitempty"`
	Objective string    `json:"objective,omitempty"`
	Value     string    `json:"value,omitempty"`
	Selector  string    `json:"selector,omitempty"`
}

func Text(text string) Payload {
	return Payload{Text: text}
}

func Translation(translate string, with []Message) Payload {
	return Payload{Translate: translate, With: with}
}

func Keybind(keybind string) Payload {
	return Payload{Keybind: keybind}
}

func Score(name, objective, value string) Payload {
	return Payload{Name: name, Objective: objective, Value: value}
}

func Selector(selector string) Payload {
	return Payload{Selector: selector}
}

// Message is one chat component with styling and nested siblings.
type Message struct {
	Bold          *bool       `json:"bold,omitempty"`
	Italic        *bool       `json:"italic,omitempty"`
	Underlined    *bool       `json:"underlined,omitempty"`
	Strikethrough *bool       `json:"strikethrough,omitempty"`
	Obfuscated    *bool       `json:"obfuscated,omitempty"`
	Color         Color       `json:"color,omitempty"`
	Insertion     string      `json:"insertion,omitempty"`
	ClickEvent    *ClickEvent `json:"clickEvent,omitempty"`
	HoverEvent    *HoverEvent `json:"hoverEvent,omitempty"`
	Payload
	Extra []Message `json:"extra,omitempty"`
}

func New(payload Payload) Message {
	return Message{Payload: payload}
}

func FromJSON(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, &xerr.JSONError{Err: err}
	}
	return m, nil
}

func (m *Message) ToJSON() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, &xerr.JSONError{Err: err}
	}
	return data, nil
}

// WriteTo encodes the component as a length-bounded JSON string.
func (m *Message) WriteTo(e coder.Encoder) error {
	data, err := m.ToJSON()
	if err != nil {
		return err
	}
	return e.WriteString(string(data), coder.StringMaxLength)
}

func (m *Message) ReadFrom(d coder.Decoder) error {
	s, err := d.ReadString(coder.StringMaxLength)
	if err != nil {
		return err
	}
	parsed, err := FromJSON([]byte(s))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MessageBuilder assembles a root component and its extra siblings. Style
// calls apply to the component started by the latest Then.
type MessageBuilder struct {
	current Message
	root    *Message
}

func Builder(payload Payload) *MessageBuilder {
	return &MessageBuilder{current: New(payload)}
}

func (b *MessageBuilder) Bold(v bool) *MessageBuilder {
	b.current.Bold = &v
	return b
}

func (b *MessageBuilder) Italic(v bool) *MessageBuilder {
	b.current.Italic = &v
	return b
}

func (b *MessageBuilder) Underlined(v bool) *MessageBuilder {
	b.current.Underlined = &v
	return b
}

func (b *MessageBuilder) Strikethrough(v bool) *MessageBuilder {
	b.current.Strikethrough = &v
	return b
}

func (b *MessageBuilder) Obfuscated(v bool) *MessageBuilder {
	b.current.Obfuscated = &v
	return b
}

func (b *MessageBuilder) Color(c Color) *MessageBuilder {
	b.current.Color = c
	return b
}

func (b *MessageBuilder) Insertion(s string) *MessageBuilder {
	b.current.Insertion = s
	return b
}

func (b *MessageBuilder) ClickOpenURL(url string) *MessageBuilder {
	b.current.ClickEvent = &ClickEvent{Action: OpenURL, Value: url}
	return b
}

func (b *MessageBuilder) ClickRunCommand(cmd string) *MessageBuilder {
	b.current.ClickEvent = &ClickEvent{Action: RunCommand, Value: cmd}
	return b
}

func (b *MessageBuilder) ClickSuggestCommand(cmd string) *MessageBuilder {
	b.current.ClickEvent = &ClickEvent{Action: SuggestCommand, Value: cmd}
	return b
}

func (b *MessageBuilder) ClickChangePage(page string) *MessageBuilder {
	b.current.ClickEvent = &ClickEvent{Action: ChangePage, Value: page}
	return b
}

func (b *MessageBuilder) HoverShowText(text string) *MessageBuilder {
	b.current.HoverEvent = &HoverEvent{Action: ShowText, Value: text}
	return b
}

func (b *MessageBuilder) HoverShowItem(item string) *MessageBuilder {
	b.current.HoverEvent = &HoverEvent{Action: ShowItem, Value: item}
	return b
}

func (b *MessageBuilder) HoverShowEntity(entity string) *MessageBuilder {
	b.current.HoverEvent = &HoverEvent{Action: ShowEntity, Value: entity}
	return b
}

// Then finishes the current component and starts a new one that will be
// appended to the root's extra list.
func (b *MessageBuilder) Then(payload Payload) *MessageBuilder {
	if b.root == nil {
		root := b.current
		b.root = &root
	} else {
		b.root.Extra = append(b.root.Extra, b.current)
	}
	b.current = New(payload)
	return b
}

func (b *MessageBuilder) Build() Message {
	if b.root == nil {
		return b.current
	}
	root := *b.root
	root.Extra = append(root.Extra, b.current)
	return root
}
