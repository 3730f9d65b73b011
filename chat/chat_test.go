package chat

import (
	"errors"
	"reflect"
	"testing"

	"github.com/blockwire/mcproto/coder"
	"github.com/blockwire/mcproto/xerr"
)

// TestBuilder tests the builder against the canonical three-component
// message and its JSON form.
func TestBuilder(t *testing.T) {
	msg := Builder(Text("Hello")).
		Color(Yellow).
		Bold(true).
		Then(Text("world")).
		Color(Green).
		Bold(true).
		Italic(true).
		Then(Text("!")).
		Color(Blue).
		Build()

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	want := `{"bold":true,"color":"yellow","text":"Hello","extra":[{"bold":true,"italic":true,"color":"green","text":"world"},{"color":"blue","text":"!"}]}`
	if string(data) != want {
		t.Fatalf("JSON mismatch:\nexpected %s\ngot      %s", want, data)
	}

	parsed, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}
	if !reflect.DeepEqual(parsed, msg) {
		t.Errorf("parse mismatch: expected %+v, got %+v", msg, parsed)
	}
}

// TestBuilderSingle tests that a builder without Then yields just the root
// component.
func TestBuilderSingle(t *testing.T) {
	msg := Builder(Text("lonely")).Color(Red).Build()
	if msg.Text != "lonely" || msg.Color != Red || len(msg.Extra) != 0 {
		t.Errorf("unexpected message: %+v", msg)
	}
}

// TestExplicitFalse tests that a style flag set to false still serializes,
// unlike an unset one.
func TestExplicitFalse(t *testing.T) {
	msg := Builder(Text("plain")).Bold(false).Build()
	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if string(data) != `{"bold":false,"text":"plain"}` {
		t.Errorf("expected explicit false, got %s", data)
	}

	unset := New(Text("plain"))
	data, err = unset.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if string(data) != `{"text":"plain"}` {
		t.Errorf("expected no flags, got %s", data)
	}
}

// TestPayloads tests the non-text payload kinds.
func TestPayloads(t *testing.T) {
	t.Run("Translation", func(t *testing.T) {
		msg := New(Translation("chat.type.text", []Message{New(Text("Alice")), New(Text("hi"))}))
		data, err := msg.ToJSON()
		if err != nil {
			t.Fatalf("ToJSON failed: %v", err)
		}
		want := `{"translate":"chat.type.text","with":[{"text":"Alice"},{"text":"hi"}]}`
		if string(data) != want {
			t.Errorf("expected %s, got %s", want, data)
		}
	})

	t.Run("Keybind", func(t *testing.T) {
		msg := New(Keybind("key.jump"))
		data, _ := msg.ToJSON()
		if string(data) != `{"keybind":"key.jump"}` {
			t.Errorf("unexpected JSON: %s", data)
		}
	})

	t.Run("Score", func(t *testing.T) {
		msg := New(Score("Alice", "deaths", "3"))
		data, _ := msg.ToJSON()
		if string(data) != `{"name":"Alice","objective":"deaths","value":"3"}` {
			t.Errorf("unexpected JSON: %s", data)
		}
	})

	t.Run("Selector", func(t *testing.T) {
		msg := New(Selector("@e"))
		data, _ := msg.ToJSON()
		if string(data) != `{"selector":"@e"}` {
			t.Errorf("unexpected JSON: %s", data)
		}
	})
}

// TestEvents tests click and hover event serialization.
func TestEvents(t *testing.T) {
	msg := Builder(Text("visit")).
		ClickOpenURL("https://example.com").
		HoverShowText("takes you away").
		Build()
	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	want := `{"clickEvent":{"action":"open_url","value":"https://example.com"},` +
		`"hoverEvent":{"action":"show_text","value":"takes you away"},"text":"visit"}`
	if string(data) != want {
		t.Errorf("JSON mismatch:\nexpected %s\ngot      %s", want, data)
	}
}

// TestWireForm tests the length-bounded JSON string encoding.
func TestWireForm(t *testing.T) {
	original := Builder(Text("Hello")).Color(Yellow).Then(Text("!")).Build()
	data, err := coder.Marshal(&original)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded Message
	if err := coder.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(decoded, original) {
		t.Errorf("round trip mismatch: expected %+v, got %+v", original, decoded)
	}
}

// TestFromJSONError tests that malformed JSON surfaces as a JSONError.
func TestFromJSONError(t *testing.T) {
	_, err := FromJSON([]byte(`{"text":`))
	var jsonErr *xerr.JSONError
	if !errors.As(err, &jsonErr) {
		t.Errorf("expected JSONError, got %v", err)
	}
}
