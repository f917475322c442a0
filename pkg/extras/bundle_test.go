package extras

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/go-drift/keyed/pkg/bridge"
	kerrors "github.com/go-drift/keyed/pkg/errors"
	"github.com/go-drift/keyed/pkg/keyed"
)

func TestNullVsMissing(t *testing.T) {
	b := New()

	if b.Has("x") || b.IsNull("x") {
		t.Fatal("fresh bundle reports entry present")
	}

	if err := b.WriteNull("x"); err != nil {
		t.Fatal(err)
	}
	if !b.Has("x") {
		t.Error("Has = false for null entry")
	}
	if !b.IsNull("x") {
		t.Error("IsNull = false for null entry")
	}

	// A null entry reads as zero through every accessor.
	if v, err := b.ReadString("x"); err != nil || v != "" {
		t.Errorf("ReadString on null = (%q, %v)", v, err)
	}
	if v, err := b.ReadInt32("x"); err != nil || v != 0 {
		t.Errorf("ReadInt32 on null = (%d, %v)", v, err)
	}

	if err := b.WriteString("x", "v"); err != nil {
		t.Fatal(err)
	}
	if b.IsNull("x") {
		t.Error("IsNull = true after value write")
	}
}

func TestTypeMismatchRead(t *testing.T) {
	b := New()
	if err := b.WriteString("x", "not a number"); err != nil {
		t.Fatal(err)
	}

	_, err := b.ReadInt32("x")
	var ite *kerrors.InvalidTypeError
	if !errors.As(err, &ite) {
		t.Fatalf("ReadInt32 on string slot: got %v, want InvalidTypeError", err)
	}
	if ite.Key != "x" {
		t.Errorf("InvalidTypeError.Key = %q", ite.Key)
	}
}

func TestRemove(t *testing.T) {
	b := New()
	_ = b.WriteString("x", "v")
	if err := b.Remove("x"); err != nil {
		t.Fatal(err)
	}
	if b.Has("x") {
		t.Error("entry survives Remove")
	}
	if err := b.Remove("x"); err != nil {
		t.Error("removing an absent entry errored:", err)
	}
}

func TestFromMap(t *testing.T) {
	b, err := FromMap(map[string]any{
		"flag":  true,
		"count": int64(9),
		"name":  "kermit",
		"tags":  []any{"a", "b"},
		"none":  nil,
	})
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	if b.Size() != 5 {
		t.Errorf("Size = %d, want 5", b.Size())
	}
	if v, _ := b.ReadBool("flag"); !v {
		t.Error("flag lost")
	}
	if v, _ := b.ReadStringSlice("tags"); !reflect.DeepEqual(v, []string{"a", "b"}) {
		t.Errorf("tags = %v", v)
	}
	if !b.IsNull("none") {
		t.Error("nil value did not become a null entry")
	}

	if _, err := FromMap(map[string]any{"bad": []any{}}); err == nil {
		t.Error("FromMap accepted an empty untyped list")
	}
}

func TestNames(t *testing.T) {
	b := New()
	_ = b.WriteString("b", "")
	_ = b.WriteString("a", "")
	_ = b.WriteNull("c")
	if got := b.Names(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Names = %v", got)
	}
}

func TestMerge(t *testing.T) {
	a := New()
	_ = a.WriteString("k", "old")
	_ = a.WriteInt32("only-a", 1)

	b := New()
	_ = b.WriteString("k", "new")

	a.Merge(b)
	if v, _ := a.ReadString("k"); v != "new" {
		t.Errorf("collision kept %q, want overwrite", v)
	}
	if v, _ := a.ReadInt32("only-a"); v != 1 {
		t.Error("Merge dropped existing entry")
	}
}

// Wire round-trip through the real codec: typed widths, blobs, and JSON
// slots must survive an encode/decode cycle.
func TestWireRoundTrip(t *testing.T) {
	b := New()
	_ = b.WriteBool("b", true)
	_ = b.WriteByte("by", 0xfe)
	_ = b.WriteInt16("i16", -2)
	_ = b.WriteInt32("i32", 3)
	_ = b.WriteInt64("i64", 1<<40)
	_ = b.WriteFloat32("f32", 1.5)
	_ = b.WriteFloat64("f64", 2.5)
	_ = b.WriteString("s", "hello")
	_ = b.WriteBytes("blob", []byte{0, 1, 255})
	_ = b.WriteStringSlice("ss", []string{"x", "y"})
	_ = b.WriteInt64Slice("is", []int64{7, 8})
	_ = b.WriteFloat64Slice("fs", []float64{0.25})
	_ = b.WriteRaw("js", keyed.TypeJSON, json.RawMessage(`{"n":1}`))
	_ = b.WriteNull("none")

	encoded, err := bridge.DefaultCodec.Encode(b.MarshalWire())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := bridge.DefaultCodec.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, err := UnmarshalWire(decoded.(map[string]any))
	if err != nil {
		t.Fatalf("UnmarshalWire: %v", err)
	}

	if got.Size() != b.Size() {
		t.Fatalf("Size = %d, want %d", got.Size(), b.Size())
	}
	if v, _ := got.ReadByte("by"); v != 0xfe {
		t.Errorf("byte = %d", v)
	}
	if v, _ := got.ReadInt16("i16"); v != -2 {
		t.Errorf("int16 = %d", v)
	}
	if v, _ := got.ReadInt64("i64"); v != 1<<40 {
		t.Errorf("int64 = %d", v)
	}
	if v, _ := got.ReadFloat32("f32"); v != 1.5 {
		t.Errorf("float32 = %v", v)
	}
	if v, _ := got.ReadBytes("blob"); !reflect.DeepEqual(v, []byte{0, 1, 255}) {
		t.Errorf("bytes = %v", v)
	}
	if v, _ := got.ReadStringSlice("ss"); !reflect.DeepEqual(v, []string{"x", "y"}) {
		t.Errorf("strings = %v", v)
	}
	if v, _ := got.ReadInt64Slice("is"); !reflect.DeepEqual(v, []int64{7, 8}) {
		t.Errorf("int64s = %v", v)
	}
	if !got.IsNull("none") {
		t.Error("null entry lost")
	}

	// The JSON slot is still readable through a JSON key.
	type payload struct {
		N int `json:"n"`
	}
	v, err := keyed.Get(got, keyed.JSONKey[payload]("js"))
	if err != nil {
		t.Fatalf("Get json slot: %v", err)
	}
	if v.N != 1 {
		t.Errorf("json payload = %+v", v)
	}
}

func TestUnmarshalWireEntryRejectsGarbage(t *testing.T) {
	b := New()
	if err := b.UnmarshalWireEntry("x", "not an entry"); err == nil {
		t.Error("accepted a non-map entry")
	}
	if err := b.UnmarshalWireEntry("x", map[string]any{"t": "i32", "v": "NaN"}); err == nil {
		t.Error("accepted a mistyped value")
	}

	// String-array entries validate every element; nothing is coerced.
	err := b.UnmarshalWireEntry("x", map[string]any{"t": "strs", "v": []any{"ok", 2}})
	var ite *kerrors.InvalidTypeError
	if !errors.As(err, &ite) {
		t.Errorf("accepted a mixed string array: %v", err)
	}
	if b.Has("x") {
		t.Error("failed entry was written anyway")
	}
}
