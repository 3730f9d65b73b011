// Package protogen generates version catalog files from minecraft-data
// protocol.json definitions (https://github.com/PrismarineJS/minecraft-data)
// and a YAML mappings file that fixes up names and field types the upstream
// data gets wrong or leaves too loose.
package protogen

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/blockwire/mcproto/xlog"
)

// Protocol is the generator's input-independent model of one protocol
// state: the typed packets for both directions.
type Protocol struct {
	Package     string
	State       string
	ServerBound []Packet
	ClientBound []Packet
}

type Packet struct {
	Name   string
	ID     int32
	Fields []Field
}

type Field struct {
	Name string
	Type string
	Tag  string
}

// Mappings adjusts what the upstream data yields: packet renames per
// direction and per-field type corrections, keyed by the upstream snake
// name and by "Packet.field" respectively.
type Mappings struct {
	Renames map[string]Rename        `yaml:"renames"`
	Fields  map[string]FieldOverride `yaml:"fields"`
}

type Rename struct {
	Server string `yaml:"server"`
	Client string `yaml:"client"`
}

type FieldOverride struct {
	Type      string `yaml:"type"`
	With      string `yaml:"with"`
	MaxLength uint16 `yaml:"max_length"`
}

// LoadMappings reads a YAML mappings file. A missing path yields empty
// mappings.
func LoadMappings(path string) (*Mappings, error) {
	if path == "" {
		return &Mappings{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Mappings
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("protogen: parse mappings: %w", err)
	}
	return &m, nil
}

type protocolFile struct {
	Handshaking stateJSON `json:"handshaking"`
	Status      stateJSON `json:"status"`
	Login       stateJSON `json:"login"`
	Play        stateJSON `json:"play"`
}

type stateJSON struct {
	ToClient dataJSON `json:"toClient"`
	ToServer dataJSON `json:"toServer"`
}

type dataJSON struct {
	Types map[string]json.RawMessage `json:"types"`
}

// stateNames maps the CLI state argument to the generated identifiers.
var stateNames = map[string]string{
	"handshaking": "Handshake",
	"status":      "Status",
	"login":       "Login",
	"play":        "Game",
}

// Parse reads a protocol.json and builds the catalog model for one state.
// Packets using protodef constructs the wire schema cannot express are
// skipped with a warning.
func Parse(data []byte, state, pkg string, m *Mappings) (*Protocol, error) {
	stateName, ok := stateNames[state]
	if !ok {
		return nil, fmt.Errorf("protogen: unknown state %q", state)
	}
	var file protocolFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("protogen: parse protocol.json: %w", err)
	}
	var sj stateJSON
	switch state {
	case "handshaking":
		sj = file.Handshaking
	case "status":
		sj = file.Status
	case "login":
		sj = file.Login
	case "play":
		sj = file.Play
	}

	server, err := parseBound(sj.ToServer, "server", m)
	if err != nil {
		return nil, err
	}
	client, err := parseBound(sj.ToClient, "client", m)
	if err != nil {
		return nil, err
	}
	disambiguate(server, client)

	return &Protocol{
		Package:     pkg,
		State:       stateName,
		ServerBound: server,
		ClientBound: client,
	}, nil
}

func parseBound(d dataJSON, bound string, m *Mappings) ([]Packet, error) {
	raw, ok := d.Types["packet"]
	if !ok {
		return nil, nil
	}
	ids, bodies, err := packetIndex(raw)
	if err != nil {
		return nil, err
	}
	var packets []Packet
	for _, snake := range sortedKeys(ids) {
		body, ok := bodies[snake]
		if !ok {
			xlog.Warn("packet has no body type", xlog.Packet(snake), xlog.TypeID(ids[snake]))
			continue
		}
		fields, err := parseContainer(d, body)
		if err != nil {
			xlog.Warn("skipping packet", xlog.Packet(snake), xlog.TypeID(ids[snake]))
			xlog.Debug("skip reason", xlog.Packet(snake), xlog.Err(err))
			continue
		}
		name := renamed(snake, bound, m)
		for i := range fields {
			applyOverride(name, &fields[i], m)
		}
		packets = append(packets, Packet{Name: name, ID: ids[snake], Fields: fields})
	}
	sort.Slice(packets, func(i, j int) bool { return packets[i].ID < packets[j].ID })
	return packets, nil
}

// packetIndex walks the synthetic "packet" container: its mapper assigns
// type ids to snake names, its switch binds each name to a body type.
func packetIndex(raw json.RawMessage) (map[string]int32, map[string]string, error) {
	kind, payload, err := nodeKind(raw)
	if err != nil {
		return nil, nil, err
	}
	if kind != "container" {
		return nil, nil, fmt.Errorf("packet type is %q, want container", kind)
	}
	var children []struct {
		Name string          `json:"name"`
		Type json.RawMessage `json:"type"`
	}
	if err := json.Unmarshal(payload, &children); err != nil {
		return nil, nil, err
	}
	ids := make(map[string]int32)
	bodies := make(map[string]string)
	for _, c := range children {
		kind, payload, err := nodeKind(c.Type)
		if err != nil {
			return nil, nil, err
		}
		switch kind {
		case "mapper":
			var mp struct {
				Mappings map[string]string `json:"mappings"`
			}
			if err := json.Unmarshal(payload, &mp); err != nil {
				return nil, nil, err
			}
			for hex, snake := range mp.Mappings {
				id, err := strconv.ParseInt(strings.TrimPrefix(hex, "0x"), 16, 32)
				if err != nil {
					return nil, nil, fmt.Errorf("packet id %q: %w", hex, err)
				}
				ids[snake] = int32(id)
			}
		case "switch":
			var sw struct {
				Fields map[string]json.RawMessage `json:"fields"`
			}
			if err := json.Unmarshal(payload, &sw); err != nil {
				return nil, nil, err
			}
			for snake, target := range sw.Fields {
				var body string
				if err := json.Unmarshal(target, &body); err != nil {
					return nil, nil, fmt.Errorf("packet %q: switch target is not a type name", snake)
				}
				bodies[snake] = body
			}
		}
	}
	return ids, bodies, nil
}

func parseContainer(d dataJSON, typeName string) ([]Field, error) {
	raw, ok := d.Types[typeName]
	if !ok {
		return nil, fmt.Errorf("type %q not defined", typeName)
	}
	kind, payload, err := nodeKind(raw)
	if err != nil {
		return nil, err
	}
	if kind != "container" {
		return nil, fmt.Errorf("type %q is %q, want container", typeName, kind)
	}
	var children []struct {
		Name string          `json:"name"`
		Type json.RawMessage `json:"type"`
	}
	if err := json.Unmarshal(payload, &children); err != nil {
		return nil, err
	}
	fields := make([]Field, 0, len(children))
	for _, c := range children {
		if c.Name == "" {
			return nil, fmt.Errorf("anonymous field in %q", typeName)
		}
		f, err := parseField(c.Name, c.Type)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func parseField(name string, raw json.RawMessage) (Field, error) {
	kind, _, err := nodeKind(raw)
	if err != nil {
		return Field{}, err
	}
	f := Field{Name: goName(name)}
	switch kind {
	case "bool":
		f.Type = "bool"
	case "i8":
		f.Type = "int8"
	case "u8":
		f.Type = "uint8"
	case "i16":
		f.Type = "int16"
	case "u16":
		f.Type = "uint16"
	case "i32":
		f.Type = "int32"
	case "u32":
		f.Type = "uint32"
	case "i64":
		f.Type = "int64"
	case "u64":
		f.Type = "uint64"
	case "f32":
		f.Type = "float32"
	case "f64":
		f.Type = "float64"
	case "varint":
		f.Type, f.Tag = "int32", "with=var_int"
	case "varlong":
		f.Type, f.Tag = "int64", "with=var_long"
	case "string", "pstring":
		f.Type = "string"
	case "UUID":
		f.Type = "uuid.UUID"
	case "buffer":
		f.Type = "[]byte"
	case "restBuffer":
		f.Type, f.Tag = "[]byte", "with=rest"
	case "nbt":
		f.Type = "tag.Tag"
	default:
		return Field{}, fmt.Errorf("field %q has unsupported type %q", name, kind)
	}
	return f, nil
}

// nodeKind splits a protodef type expression into its kind and payload. A
// bare string is a kind with no payload.
func nodeKind(raw json.RawMessage) (string, json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", nil, err
		}
		return s, nil, nil
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		return "", nil, fmt.Errorf("protogen: malformed type node %s", trimmed)
	}
	if len(arr) != 2 {
		return "", nil, fmt.Errorf("protogen: type node has %d elements, want 2", len(arr))
	}
	var kind string
	if err := json.Unmarshal(arr[0], &kind); err != nil {
		return "", nil, err
	}
	return kind, arr[1], nil
}

func renamed(snake, bound string, m *Mappings) string {
	if r, ok := m.Renames[snake]; ok {
		if bound == "server" && r.Server != "" {
			return r.Server
		}
		if bound == "client" && r.Client != "" {
			return r.Client
		}
	}
	return goName(snake)
}

// disambiguate prefixes packets whose name appears in both directions,
// mirroring how ServerBoundChatMessage and ClientBoundChatMessage split.
func disambiguate(server, client []Packet) {
	clientNames := make(map[string]bool, len(client))
	for _, p := range client {
		clientNames[p.Name] = true
	}
	serverNames := make(map[string]bool, len(server))
	for _, p := range server {
		serverNames[p.Name] = true
	}
	for i := range server {
		if clientNames[server[i].Name] {
			server[i].Name = "ServerBound" + server[i].Name
		}
	}
	for i := range client {
		if serverNames[client[i].Name] {
			client[i].Name = "ClientBound" + client[i].Name
		}
	}
}

func applyOverride(packetName string, f *Field, m *Mappings) {
	o, ok := m.Fields[packetName+"."+f.Name]
	if !ok {
		return
	}
	if o.Type != "" {
		f.Type = o.Type
	}
	switch {
	case o.With != "":
		f.Tag = "with=" + o.With
	case o.MaxLength != 0:
		f.Tag = fmt.Sprintf("max_length=%d", o.MaxLength)
	}
}

// goName converts snake_case or camelCase to an exported Go name.
func goName(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			b.WriteString(strings.ToUpper(string(r)))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	name := b.String()
	if strings.HasSuffix(name, "Uuid") {
		return strings.TrimSuffix(name, "Uuid") + "UUID"
	}
	if strings.HasSuffix(name, "Id") {
		return strings.TrimSuffix(name, "Id") + "ID"
	}
	return name
}

func sortedKeys(m map[string]int32) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
