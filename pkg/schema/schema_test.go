package schema

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	kerrors "github.com/go-drift/keyed/pkg/errors"
	"github.com/go-drift/keyed/pkg/extras"
	"github.com/go-drift/keyed/pkg/keyed"
)

const manifest = `
keys:
  - name: age
    type: i32
    default: 7
  - name: ratio
    type: f64
    default: 0.5
  - name: enabled
    type: bool
    default: true
  - name: nickname
    type: str
  - name: tags
    type: strs
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(manifest))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(s.Keys) != 5 {
		t.Fatalf("parsed %d keys", len(s.Keys))
	}

	age := s.Keys[0]
	if age.Name != "age" || age.KeyType() != keyed.TypeInt32 || !age.HasDefault() {
		t.Errorf("age = %+v", age)
	}
	nickname := s.Keys[3]
	if nickname.KeyType() != keyed.TypeString || nickname.HasDefault() {
		t.Errorf("nickname = %+v", nickname)
	}
}

func TestLoad(t *testing.T) {
	s, err := Load(strings.NewReader(manifest))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.Keys) != 5 {
		t.Errorf("parsed %d keys", len(s.Keys))
	}
}

func TestParseRejections(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty name", "keys:\n  - name: \"\"\n    type: i32\n"},
		{"duplicate", "keys:\n  - name: a\n    type: i32\n  - name: a\n    type: str\n"},
		{"unknown type", "keys:\n  - name: a\n    type: quaternion\n"},
		{"default on ref type", "keys:\n  - name: a\n    type: str\n    default: x\n"},
		{"not yaml", ":::"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			if err == nil {
				t.Fatal("Parse accepted the manifest")
			}
			var serr *kerrors.Error
			if !errors.As(err, &serr) || serr.Kind != kerrors.KindSchema {
				t.Errorf("err = %v, want KindSchema", err)
			}
		})
	}
}

func TestDefaultValue(t *testing.T) {
	s, err := Parse([]byte(manifest))
	if err != nil {
		t.Fatal(err)
	}

	v, err := s.Keys[0].DefaultValue()
	if err != nil {
		t.Fatal(err)
	}
	if v != int32(7) {
		t.Errorf("age default = %v (%T)", v, v)
	}

	v, err = s.Keys[1].DefaultValue()
	if err != nil {
		t.Fatal(err)
	}
	if v != 0.5 {
		t.Errorf("ratio default = %v", v)
	}

	v, err = s.Keys[2].DefaultValue()
	if err != nil {
		t.Fatal(err)
	}
	if v != true {
		t.Errorf("enabled default = %v", v)
	}

	if _, err := s.Keys[3].DefaultValue(); err == nil {
		t.Error("DefaultValue on defaultless key succeeded")
	}
}

func TestSeedDefaults(t *testing.T) {
	s, err := Parse([]byte(manifest))
	if err != nil {
		t.Fatal(err)
	}

	b := extras.New()
	// A pre-existing value must not be overwritten.
	if err := b.WriteInt32("age", 99); err != nil {
		t.Fatal(err)
	}

	if err := s.SeedDefaults(b); err != nil {
		t.Fatalf("SeedDefaults: %v", err)
	}

	if v, _ := b.ReadInt32("age"); v != 99 {
		t.Errorf("age overwritten: %d", v)
	}
	if v, _ := b.ReadFloat64("ratio"); v != 0.5 {
		t.Errorf("ratio = %v", v)
	}
	if v, _ := b.ReadBool("enabled"); !v {
		t.Error("enabled not seeded")
	}
	// Defaultless declarations are not materialized.
	if b.Has("nickname") || b.Has("tags") {
		t.Error("defaultless key seeded")
	}
}

func TestMissing(t *testing.T) {
	s, err := Parse([]byte(manifest))
	if err != nil {
		t.Fatal(err)
	}

	b := extras.New()
	_ = b.WriteInt32("age", 1)
	_ = b.WriteString("nickname", "x")

	got := s.Missing(b)
	want := []string{"ratio", "enabled", "tags"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Missing = %v, want %v", got, want)
	}
}
