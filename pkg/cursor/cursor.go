// Package cursor provides row-at-a-time access to native query results.
//
// A Cursor materializes the full result set returned by the native side and
// exposes the current row through the keyed locator protocol, so typed
// column keys read it directly. Column names resolve to positions once, at
// cursor construction. Rows are read-only; every write accessor fails with
// ErrReadOnly.
//
// Column values are dynamically typed on the native side, so the numeric
// read accessors convert across widths the way platform cursors do; only
// non-numeric mismatches fail.
package cursor

import (
	"encoding/base64"
	stderrors "errors"

	"github.com/go-drift/keyed/pkg/bridge"
	"github.com/go-drift/keyed/pkg/errors"
	"github.com/go-drift/keyed/pkg/keyed"
)

var channel = bridge.NewMethodChannel("keyed/query")

var (
	// ErrReadOnly is returned by every write accessor on a cursor row.
	ErrReadOnly = stderrors.New("cursor: result rows are read-only")

	// ErrNoRow is returned when reading before the first Next or after the
	// last row.
	ErrNoRow = stderrors.New("cursor: no current row")
)

// Query describes a native database query.
type Query struct {
	SQL  string
	Args []any
}

// Cursor is an iterator over a materialized query result.
type Cursor struct {
	columns []string
	index   map[string]int
	rows    [][]any
	pos     int
}

// Exec runs the query on the native side and returns a cursor positioned
// before the first row.
func Exec(q Query) (*Cursor, error) {
	result, err := channel.Invoke("query", map[string]any{
		"sql":  q.SQL,
		"args": q.Args,
	})
	if err != nil {
		return nil, err
	}
	m := bridge.Map(result)
	if m == nil {
		return nil, &errors.Error{
			Op:      "cursor.Exec",
			Kind:    errors.KindParsing,
			Channel: channel.Name(),
			Err:     &errors.InvalidTypeError{Want: "query result", Got: result},
		}
	}

	columns := bridge.StringSlice(m["columns"])
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		// First occurrence wins for duplicate column names.
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}

	var rows [][]any
	for _, r := range bridge.Slice(m["rows"]) {
		row := bridge.Slice(r)
		if row == nil {
			return nil, &errors.Error{
				Op:      "cursor.Exec",
				Kind:    errors.KindParsing,
				Channel: channel.Name(),
				Err:     &errors.InvalidTypeError{Want: "result row", Got: r},
			}
		}
		rows = append(rows, row)
	}

	return &Cursor{
		columns: columns,
		index:   index,
		rows:    rows,
		pos:     -1,
	}, nil
}

// Columns returns the result's column names in query order.
func (c *Cursor) Columns() []string {
	out := make([]string, len(c.columns))
	copy(out, c.columns)
	return out
}

// Count returns the number of rows.
func (c *Cursor) Count() int {
	return len(c.rows)
}

// Position returns the current row position, -1 before the first Next.
func (c *Cursor) Position() int {
	return c.pos
}

// Next advances to the next row, reporting false past the end.
func (c *Cursor) Next() bool {
	if c.pos+1 >= len(c.rows) {
		c.pos = len(c.rows)
		return false
	}
	c.pos++
	return true
}

// MoveTo positions the cursor at an absolute row, reporting whether the
// position holds a row.
func (c *Cursor) MoveTo(pos int) bool {
	if pos < 0 || pos >= len(c.rows) {
		return false
	}
	c.pos = pos
	return true
}

// ColumnIndex resolves a column name to its position, failing with
// NotFoundError for unknown names.
func (c *Cursor) ColumnIndex(name string) (int, error) {
	i, ok := c.index[name]
	if !ok {
		return 0, &errors.NotFoundError{Key: name}
	}
	return i, nil
}

func (c *Cursor) value(name string) (any, error) {
	i, ok := c.index[name]
	if !ok {
		return nil, &errors.NotFoundError{Key: name}
	}
	if c.pos < 0 || c.pos >= len(c.rows) {
		return nil, ErrNoRow
	}
	row := c.rows[c.pos]
	if i >= len(row) {
		return nil, nil
	}
	return row[i], nil
}

// Has reports whether the result has a column with the given name.
func (c *Cursor) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// IsNull reports whether the named column of the current row holds SQL NULL.
func (c *Cursor) IsNull(name string) bool {
	v, err := c.value(name)
	return err == nil && v == nil
}

// Remove fails: cursor rows are read-only.
func (c *Cursor) Remove(string) error { return ErrReadOnly }

// WriteNull fails: cursor rows are read-only.
func (c *Cursor) WriteNull(string) error { return ErrReadOnly }

func (c *Cursor) ReadBool(name string) (bool, error) {
	v, err := c.value(name)
	if err != nil || v == nil {
		return false, err
	}
	if b, ok := v.(bool); ok {
		return b, nil
	}
	if n, ok := bridge.Int64(v); ok {
		return n != 0, nil
	}
	return false, &errors.InvalidTypeError{Key: name, Want: "bool", Got: v}
}

func (c *Cursor) ReadByte(name string) (byte, error) {
	n, err := c.readInt(name, "byte")
	return byte(n), err
}

func (c *Cursor) ReadInt16(name string) (int16, error) {
	n, err := c.readInt(name, "int16")
	return int16(n), err
}

func (c *Cursor) ReadInt32(name string) (int32, error) {
	n, err := c.readInt(name, "int32")
	return int32(n), err
}

func (c *Cursor) ReadInt64(name string) (int64, error) {
	return c.readInt(name, "int64")
}

func (c *Cursor) readInt(name, want string) (int64, error) {
	v, err := c.value(name)
	if err != nil || v == nil {
		return 0, err
	}
	if n, ok := bridge.Int64(v); ok {
		return n, nil
	}
	return 0, &errors.InvalidTypeError{Key: name, Want: want, Got: v}
}

func (c *Cursor) ReadFloat32(name string) (float32, error) {
	f, err := c.readFloat(name, "float32")
	return float32(f), err
}

func (c *Cursor) ReadFloat64(name string) (float64, error) {
	return c.readFloat(name, "float64")
}

func (c *Cursor) readFloat(name, want string) (float64, error) {
	v, err := c.value(name)
	if err != nil || v == nil {
		return 0, err
	}
	if f, ok := bridge.Float64(v); ok {
		return f, nil
	}
	return 0, &errors.InvalidTypeError{Key: name, Want: want, Got: v}
}

func (c *Cursor) ReadString(name string) (string, error) {
	v, err := c.value(name)
	if err != nil || v == nil {
		return "", err
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", &errors.InvalidTypeError{Key: name, Want: "string", Got: v}
}

// ReadBytes decodes a blob column. Blobs travel base64-encoded through the
// channel codec.
func (c *Cursor) ReadBytes(name string) ([]byte, error) {
	v, err := c.value(name)
	if err != nil || v == nil {
		return nil, err
	}
	switch d := v.(type) {
	case []byte:
		return d, nil
	case string:
		decoded, err := base64.StdEncoding.DecodeString(d)
		if err != nil {
			return nil, &errors.Error{Op: "cursor.ReadBytes", Kind: errors.KindParsing, Key: name, Err: err}
		}
		return decoded, nil
	}
	return nil, &errors.InvalidTypeError{Key: name, Want: "[]byte", Got: v}
}

func (c *Cursor) ReadStringSlice(name string) ([]string, error) {
	v, err := c.value(name)
	if err != nil || v == nil {
		return nil, err
	}
	switch v.(type) {
	case []string, []any:
		return bridge.StringSlice(v), nil
	}
	return nil, &errors.InvalidTypeError{Key: name, Want: "[]string", Got: v}
}

func (c *Cursor) ReadInt64Slice(name string) ([]int64, error) {
	v, err := c.value(name)
	if err != nil || v == nil {
		return nil, err
	}
	xs := bridge.Slice(v)
	if xs == nil {
		return nil, &errors.InvalidTypeError{Key: name, Want: "[]int64", Got: v}
	}
	out := make([]int64, len(xs))
	for i, e := range xs {
		n, ok := bridge.Int64(e)
		if !ok {
			return nil, &errors.InvalidTypeError{Key: name, Want: "[]int64", Got: e}
		}
		out[i] = n
	}
	return out, nil
}

func (c *Cursor) ReadFloat64Slice(name string) ([]float64, error) {
	v, err := c.value(name)
	if err != nil || v == nil {
		return nil, err
	}
	xs := bridge.Slice(v)
	if xs == nil {
		return nil, &errors.InvalidTypeError{Key: name, Want: "[]float64", Got: v}
	}
	out := make([]float64, len(xs))
	for i, e := range xs {
		f, ok := bridge.Float64(e)
		if !ok {
			return nil, &errors.InvalidTypeError{Key: name, Want: "[]float64", Got: e}
		}
		out[i] = f
	}
	return out, nil
}

// ReadRaw returns the column value as delivered, for packed and JSON keys.
func (c *Cursor) ReadRaw(name string) (any, error) {
	return c.value(name)
}

func (c *Cursor) WriteBool(string, bool) error              { return ErrReadOnly }
func (c *Cursor) WriteByte(string, byte) error              { return ErrReadOnly }
func (c *Cursor) WriteInt16(string, int16) error            { return ErrReadOnly }
func (c *Cursor) WriteInt32(string, int32) error            { return ErrReadOnly }
func (c *Cursor) WriteInt64(string, int64) error            { return ErrReadOnly }
func (c *Cursor) WriteFloat32(string, float32) error        { return ErrReadOnly }
func (c *Cursor) WriteFloat64(string, float64) error        { return ErrReadOnly }
func (c *Cursor) WriteString(string, string) error          { return ErrReadOnly }
func (c *Cursor) WriteBytes(string, []byte) error           { return ErrReadOnly }
func (c *Cursor) WriteStringSlice(string, []string) error   { return ErrReadOnly }
func (c *Cursor) WriteInt64Slice(string, []int64) error     { return ErrReadOnly }
func (c *Cursor) WriteFloat64Slice(string, []float64) error { return ErrReadOnly }
func (c *Cursor) WriteRaw(string, keyed.Type, any) error    { return ErrReadOnly }

var _ keyed.Container = (*Cursor)(nil)
