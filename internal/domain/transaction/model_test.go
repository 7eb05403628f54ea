package transaction

import (
	"testing"

	sonic "github.com/bytedance/sonic"
)

func TestEntityRef_Decode(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"id": "m-1",
		"date": 1759276800000,
		"messageTypeId": 244,
		"targetId": 3900,
		"to": 4,
		"from": -1,
		"for": "commissioner note"
	}`)

	var msg Message
	if err := sonic.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("decode message: %v", err)
	}

	if !msg.TargetID.Present() || msg.TargetID.ID != 3900 {
		t.Fatalf("unexpected targetId: %+v", msg.TargetID)
	}
	if !msg.To.Resolvable() || msg.To.ID != 4 {
		t.Fatalf("unexpected to: %+v", msg.To)
	}
	if msg.From.Resolvable() {
		t.Fatalf("from=-1 should not resolve: %+v", msg.From)
	}
	if !msg.From.Present() {
		t.Fatalf("from=-1 is still a numeric field: %+v", msg.From)
	}
	if msg.For.Present() {
		t.Fatalf("string for should not be numeric: %+v", msg.For)
	}
}

func TestEntityRef_DecodeAbsentAndZero(t *testing.T) {
	t.Parallel()

	var msg Message
	if err := sonic.Unmarshal([]byte(`{"messageTypeId":178,"to":0}`), &msg); err != nil {
		t.Fatalf("decode message: %v", err)
	}

	if msg.From.Present() {
		t.Fatalf("absent field should not be present: %+v", msg.From)
	}
	if msg.To.Present() {
		t.Fatalf("zero id should not be present: %+v", msg.To)
	}
}

func TestEntityRef_DecodeFractional(t *testing.T) {
	t.Parallel()

	var ref EntityRef
	if err := sonic.Unmarshal([]byte(`12.0`), &ref); err != nil {
		t.Fatalf("decode ref: %v", err)
	}
	if !ref.Present() || ref.ID != 12 {
		t.Fatalf("expected id=12, got %+v", ref)
	}

	if err := sonic.Unmarshal([]byte(`12.5`), &ref); err != nil {
		t.Fatalf("decode ref: %v", err)
	}
	if ref.Present() {
		t.Fatalf("non-integral number should not be present: %+v", ref)
	}
}
