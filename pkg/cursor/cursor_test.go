package cursor

import (
	"encoding/base64"
	"errors"
	"reflect"
	"testing"

	"github.com/go-drift/keyed/pkg/bridge"
	kerrors "github.com/go-drift/keyed/pkg/errors"
	"github.com/go-drift/keyed/pkg/keyed"
)

func scriptedCursor(t *testing.T, result map[string]any) *Cursor {
	t.Helper()
	tb := bridge.SetupTestBridge(t.Cleanup)
	tb.OnInvoke = func(channel, method string, args any) (any, error) {
		if channel != "keyed/query" || method != "query" {
			t.Errorf("unexpected call %s/%s", channel, method)
		}
		return result, nil
	}
	c, err := Exec(Query{SQL: "select * from t"})
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	return c
}

func TestExecAndIterate(t *testing.T) {
	c := scriptedCursor(t, map[string]any{
		"columns": []any{"id", "name"},
		"rows": []any{
			[]any{1, "a"},
			[]any{2, "b"},
		},
	})

	if got := c.Columns(); !reflect.DeepEqual(got, []string{"id", "name"}) {
		t.Errorf("Columns = %v", got)
	}
	if c.Count() != 2 {
		t.Errorf("Count = %d", c.Count())
	}
	if c.Position() != -1 {
		t.Errorf("initial Position = %d", c.Position())
	}

	var names []string
	for c.Next() {
		v, err := keyed.Get(c, keyed.StringKey("name"))
		if err != nil {
			t.Fatal(err)
		}
		names = append(names, v)
	}
	if !reflect.DeepEqual(names, []string{"a", "b"}) {
		t.Errorf("names = %v", names)
	}
	if c.Next() {
		t.Error("Next past the end reported a row")
	}

	if !c.MoveTo(0) {
		t.Fatal("MoveTo(0) failed")
	}
	if v, _ := keyed.Get(c, keyed.Int64Key("id", 0)); v != 1 {
		t.Errorf("id at row 0 = %d", v)
	}
	if c.MoveTo(2) || c.MoveTo(-1) {
		t.Error("MoveTo out of range succeeded")
	}
}

func TestReadBeforeFirstRow(t *testing.T) {
	c := scriptedCursor(t, map[string]any{
		"columns": []any{"id"},
		"rows":    []any{[]any{1}},
	})

	_, err := c.ReadInt64("id")
	if !errors.Is(err, ErrNoRow) {
		t.Fatalf("read before Next: %v, want ErrNoRow", err)
	}
}

func TestColumnResolution(t *testing.T) {
	c := scriptedCursor(t, map[string]any{
		"columns": []any{"id", "id"},
		"rows":    []any{[]any{10, 20}},
	})

	// First occurrence wins for duplicates.
	i, err := c.ColumnIndex("id")
	if err != nil || i != 0 {
		t.Errorf("ColumnIndex = (%d, %v), want 0", i, err)
	}
	c.Next()
	if v, _ := c.ReadInt64("id"); v != 10 {
		t.Errorf("duplicate column read = %d, want first occurrence", v)
	}

	_, err = c.ColumnIndex("missing")
	var nf *kerrors.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("ColumnIndex on unknown name: %v, want NotFoundError", err)
	}

	// The typed path reports the same failure.
	if _, err := keyed.Require(c, keyed.Int64Key("missing", 0)); !errors.As(err, &nf) {
		t.Fatalf("Require on unknown column: %v", err)
	}
}

func TestNumericWidthConversion(t *testing.T) {
	c := scriptedCursor(t, map[string]any{
		"columns": []any{"n", "f"},
		"rows":    []any{[]any{42, 1.5}},
	})
	c.Next()

	if v, err := c.ReadByte("n"); err != nil || v != 42 {
		t.Errorf("ReadByte = (%d, %v)", v, err)
	}
	if v, err := c.ReadInt16("n"); err != nil || v != 42 {
		t.Errorf("ReadInt16 = (%d, %v)", v, err)
	}
	if v, err := c.ReadInt32("n"); err != nil || v != 42 {
		t.Errorf("ReadInt32 = (%d, %v)", v, err)
	}
	if v, err := c.ReadFloat64("n"); err != nil || v != 42 {
		t.Errorf("ReadFloat64 on integer column = (%v, %v)", v, err)
	}
	if v, err := c.ReadFloat32("f"); err != nil || v != 1.5 {
		t.Errorf("ReadFloat32 = (%v, %v)", v, err)
	}

	// Non-numeric mismatch still fails.
	var ite *kerrors.InvalidTypeError
	if _, err := c.ReadString("n"); !errors.As(err, &ite) {
		t.Errorf("ReadString on numeric column: %v", err)
	}
}

func TestNullColumns(t *testing.T) {
	c := scriptedCursor(t, map[string]any{
		"columns": []any{"v"},
		"rows":    []any{[]any{nil}},
	})
	c.Next()

	if !c.IsNull("v") {
		t.Error("IsNull = false for SQL NULL")
	}
	if v, err := c.ReadString("v"); err != nil || v != "" {
		t.Errorf("ReadString on NULL = (%q, %v)", v, err)
	}
	if v, err := c.ReadInt64("v"); err != nil || v != 0 {
		t.Errorf("ReadInt64 on NULL = (%d, %v)", v, err)
	}

	// Through a typed key, NULL is treated as absent by Lookup.
	_, ok, err := keyed.Lookup(c, keyed.StringKey("v"))
	if err != nil || ok {
		t.Errorf("Lookup on NULL = (ok=%v, %v)", ok, err)
	}
}

func TestBlobColumn(t *testing.T) {
	blob := []byte{1, 2, 3}
	c := scriptedCursor(t, map[string]any{
		"columns": []any{"data"},
		"rows":    []any{[]any{base64.StdEncoding.EncodeToString(blob)}},
	})
	c.Next()

	v, err := c.ReadBytes("data")
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if !reflect.DeepEqual(v, blob) {
		t.Errorf("blob = %v", v)
	}
}

func TestCursorIsReadOnly(t *testing.T) {
	c := scriptedCursor(t, map[string]any{
		"columns": []any{"id"},
		"rows":    []any{[]any{1}},
	})
	c.Next()

	if err := keyed.Put(c, keyed.Int64Key("id", 0), 5); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Put = %v, want ErrReadOnly", err)
	}
	if err := keyed.Delete(c, keyed.Int64Key("id", 0)); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Delete = %v, want ErrReadOnly", err)
	}
	if err := c.WriteNull("id"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("WriteNull = %v, want ErrReadOnly", err)
	}
}

func TestExecRejectsMalformedResult(t *testing.T) {
	tb := bridge.SetupTestBridge(t.Cleanup)
	tb.OnInvoke = func(channel, method string, args any) (any, error) {
		return "garbage", nil
	}
	if _, err := Exec(Query{SQL: "select 1"}); err == nil {
		t.Error("Exec accepted a non-map result")
	}

	tb.OnInvoke = func(channel, method string, args any) (any, error) {
		return map[string]any{"columns": []any{"a"}, "rows": []any{"not a row"}}, nil
	}
	if _, err := Exec(Query{SQL: "select 1"}); err == nil {
		t.Error("Exec accepted a malformed row")
	}
}
