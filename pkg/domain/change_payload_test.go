package domain

import (
	"encoding/json"
	"testing"
)

func TestChangePayloadDefinedAndEmpty(t *testing.T) {
	undefined := UndefinedChangePayload()
	if undefined.Defined() || !undefined.IsEmpty() || undefined.Raw() != nil {
		t.Fatal("undefined payload misbehaved")
	}

	empty := NewChangePayload(nil)
	if !empty.Defined() || !empty.IsEmpty() || empty.Raw() != nil {
		t.Fatal("empty payload misbehaved")
	}

	payload := NewChangePayload(json.RawMessage(`{"id":"p1"}`))
	if !payload.Defined() || payload.IsEmpty() {
		t.Fatal("populated payload misbehaved")
	}
}

func TestChangePayloadClonesBytes(t *testing.T) {
	raw := json.RawMessage(`{"id":"p1"}`)
	payload := NewChangePayload(raw)
	raw[2] = 'x'

	got := payload.Raw()
	if string(got) != `{"id":"p1"}` {
		t.Fatalf("payload mutated through source slice: %s", got)
	}
	got[2] = 'y'
	if string(payload.Raw()) != `{"id":"p1"}` {
		t.Fatal("payload mutated through returned slice")
	}
}

func TestChangePayloadFromValue(t *testing.T) {
	payload, err := NewChangePayloadFromValue(Property{Base: Base{ID: "p1"}, Address: "12 Birch Lane"})
	if err != nil {
		t.Fatalf("from value: %v", err)
	}
	var decoded Property
	if err := json.Unmarshal(payload.Raw(), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.ID != "p1" || decoded.Address != "12 Birch Lane" {
		t.Fatalf("decoded = %+v", decoded)
	}
}
