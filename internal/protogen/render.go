package protogen

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"strings"
	"text/template"
)

// Generate renders the catalog source for p and runs it through gofmt.
func Generate(p *Protocol) ([]byte, error) {
	data := struct {
		*Protocol
		Imports   []string
		Marker    string
		NeedCodec bool
	}{
		Protocol:  p,
		Imports:   imports(p),
		Marker:    strings.ToLower(p.State[:1]) + p.State[1:],
		NeedCodec: needCodec(p),
	}
	var buf bytes.Buffer
	if err := catalogTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("protogen: render: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("protogen: format generated source: %w", err)
	}
	return src, nil
}

func needCodec(p *Protocol) bool {
	for _, pk := range p.ServerBound {
		if len(pk.Fields) > 0 {
			return true
		}
	}
	for _, pk := range p.ClientBound {
		if len(pk.Fields) > 0 {
			return true
		}
	}
	return false
}

// imports collects the single sorted import block the generated file needs,
// derived from the field types in use.
func imports(p *Protocol) []string {
	set := map[string]string{
		"github.com/blockwire/mcproto":       `mcproto "github.com/blockwire/mcproto"`,
		"github.com/blockwire/mcproto/coder": `"github.com/blockwire/mcproto/coder"`,
		"github.com/blockwire/mcproto/xerr":  `"github.com/blockwire/mcproto/xerr"`,
	}
	if needCodec(p) {
		set["github.com/blockwire/mcproto/codec"] = `"github.com/blockwire/mcproto/codec"`
	}
	scan := func(packets []Packet) {
		for _, pk := range packets {
			for _, f := range pk.Fields {
				switch prefix(f.Type) {
				case "uuid":
					set["github.com/google/uuid"] = `"github.com/google/uuid"`
				case "tag":
					set["github.com/blockwire/mcproto/tag"] = `"github.com/blockwire/mcproto/tag"`
				case "chat":
					set["github.com/blockwire/mcproto/chat"] = `"github.com/blockwire/mcproto/chat"`
				case "status":
					set["github.com/blockwire/mcproto/status"] = `"github.com/blockwire/mcproto/status"`
				case "gamedata":
					set["github.com/blockwire/mcproto/gamedata"] = `"github.com/blockwire/mcproto/gamedata"`
				}
			}
		}
	}
	scan(p.ServerBound)
	scan(p.ClientBound)

	paths := make([]string, 0, len(set))
	for path := range set {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	lines := make([]string, len(paths))
	for i, path := range paths {
		lines[i] = set[path]
	}
	return lines
}

func prefix(goType string) string {
	i := strings.IndexByte(goType, '.')
	if i < 0 {
		return ""
	}
	return strings.TrimLeft(goType[:i], "[]*")
}

func fieldTag(tag string) string {
	if tag == "" {
		return ""
	}
	return " `mc:\"" + tag + "\"`"
}

var catalogTmpl = template.Must(template.New("catalog").Funcs(template.FuncMap{
	"tag":   fieldTag,
	"lower": strings.ToLower,
}).Parse(`// Code generated by protogen. DO NOT EDIT.

package {{.Package}}

import (
{{- range .Imports}}
	{{.}}
{{- end}}
)

// {{.State}}ServerBound is the closed set of serverbound {{lower .State}} packets.
type {{.State}}ServerBound interface {
	mcproto.Packet
	{{.Marker}}ServerBound()
}

// {{.State}}ClientBound is the closed set of clientbound {{lower .State}} packets.
type {{.State}}ClientBound interface {
	mcproto.Packet
	{{.Marker}}ClientBound()
}
{{range .ServerBound}}
type {{.Name}} struct{{if .Fields}} {
{{- range .Fields}}
	{{.Name}} {{.Type}}{{tag .Tag}}
{{- end}}
}{{else}}{}{{end}}
{{- end}}
{{range .ClientBound}}
type {{.Name}} struct{{if .Fields}} {
{{- range .Fields}}
	{{.Name}} {{.Type}}{{tag .Tag}}
{{- end}}
}{{else}}{}{{end}}
{{- end}}

{{range .ServerBound -}}
func (*{{.Name}}) PacketID() int32 { return {{printf "0x%02X" .ID}} }
func (*{{.Name}}) {{$.Marker}}ServerBound() {}
{{end -}}
{{range .ClientBound -}}
func (*{{.Name}}) PacketID() int32 { return {{printf "0x%02X" .ID}} }
func (*{{.Name}}) {{$.Marker}}ClientBound() {}
{{end}}
// Decode{{.State}}ServerBound decodes the serverbound {{lower .State}} packet with the
// given type id.
func Decode{{.State}}ServerBound(id int32, d coder.Decoder) ({{.State}}ServerBound, error) {
	switch id {
{{- range .ServerBound}}
	case {{printf "0x%02X" .ID}}:
{{- if .Fields}}
		p, err := codec.Decode[{{.Name}}](d)
		if err != nil {
			return nil, err
		}
		return p, nil
{{- else}}
		return &{{.Name}}{}, nil
{{- end}}
{{- end}}
	default:
		return nil, &xerr.UnknownPacketTypeError{TypeID: id}
	}
}

// Decode{{.State}}ClientBound decodes the clientbound {{lower .State}} packet with the
// given type id.
func Decode{{.State}}ClientBound(id int32, d coder.Decoder) ({{.State}}ClientBound, error) {
	switch id {
{{- range .ClientBound}}
	case {{printf "0x%02X" .ID}}:
{{- if .Fields}}
		p, err := codec.Decode[{{.Name}}](d)
		if err != nil {
			return nil, err
		}
		return p, nil
{{- else}}
		return &{{.Name}}{}, nil
{{- end}}
{{- end}}
	default:
		return nil, &xerr.UnknownPacketTypeError{TypeID: id}
	}
}
`))
