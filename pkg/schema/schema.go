// Package schema loads YAML key manifests.
//
// A manifest declares the typed keys an app uses, by name, wire type tag,
// and optional default:
//
//	keys:
//	  - name: age
//	    type: i32
//	    default: 0
//	  - name: tags
//	    type: strs
//
// Manifests drive the keyedgen generator and can seed a container with the
// declared defaults at runtime.
package schema

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/keyed/pkg/errors"
	"github.com/go-drift/keyed/pkg/keyed"
)

// Declaration describes one key in a manifest.
type Declaration struct {
	Name    string     `yaml:"name"`
	Type    string     `yaml:"type"`
	Default *yaml.Node `yaml:"default,omitempty"`
}

// KeyType resolves the declaration's wire tag, TypeInvalid for unknown tags.
func (d Declaration) KeyType() keyed.Type {
	return keyed.TypeFromCode(d.Type)
}

// HasDefault reports whether the declaration carries a default value.
func (d Declaration) HasDefault() bool {
	return d.Default != nil
}

// Schema is a parsed key manifest.
type Schema struct {
	Keys []Declaration `yaml:"keys"`
}

// Load parses a manifest from r.
func Load(r io.Reader) (*Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &errors.Error{Op: "schema.Load", Kind: errors.KindSchema, Err: err}
	}
	return Parse(data)
}

// Parse parses and validates a manifest.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, &errors.Error{Op: "schema.Parse", Kind: errors.KindSchema, Err: err}
	}

	seen := make(map[string]bool, len(s.Keys))
	for _, d := range s.Keys {
		if d.Name == "" {
			return nil, &errors.Error{
				Op:   "schema.Parse",
				Kind: errors.KindSchema,
				Err:  fmt.Errorf("declaration with empty name"),
			}
		}
		if seen[d.Name] {
			return nil, &errors.Error{
				Op:   "schema.Parse",
				Kind: errors.KindSchema,
				Key:  d.Name,
				Err:  fmt.Errorf("duplicate declaration"),
			}
		}
		seen[d.Name] = true

		t := d.KeyType()
		if !t.Valid() {
			return nil, &errors.Error{
				Op:   "schema.Parse",
				Kind: errors.KindSchema,
				Key:  d.Name,
				Err:  &errors.UnsupportedTypeError{Type: d.Type},
			}
		}
		if d.HasDefault() && !isValueType(t) {
			return nil, &errors.Error{
				Op:   "schema.Parse",
				Kind: errors.KindSchema,
				Key:  d.Name,
				Err:  fmt.Errorf("default declared for reference type %s", t),
			}
		}
	}
	return &s, nil
}

// isValueType reports whether t carries a default policy.
func isValueType(t keyed.Type) bool {
	return t >= keyed.TypeBool && t <= keyed.TypeFloat64
}

// DefaultValue decodes the declaration's default into the concrete Go value
// for its type.
func (d Declaration) DefaultValue() (any, error) {
	if !d.HasDefault() {
		return nil, fmt.Errorf("schema: %q has no default", d.Name)
	}
	decodeErr := func(err error) error {
		return &errors.Error{Op: "schema.DefaultValue", Kind: errors.KindSchema, Key: d.Name, Err: err}
	}
	switch d.KeyType() {
	case keyed.TypeBool:
		var v bool
		if err := d.Default.Decode(&v); err != nil {
			return nil, decodeErr(err)
		}
		return v, nil
	case keyed.TypeByte:
		var v uint8
		if err := d.Default.Decode(&v); err != nil {
			return nil, decodeErr(err)
		}
		return v, nil
	case keyed.TypeInt16:
		var v int16
		if err := d.Default.Decode(&v); err != nil {
			return nil, decodeErr(err)
		}
		return v, nil
	case keyed.TypeInt32:
		var v int32
		if err := d.Default.Decode(&v); err != nil {
			return nil, decodeErr(err)
		}
		return v, nil
	case keyed.TypeInt64:
		var v int64
		if err := d.Default.Decode(&v); err != nil {
			return nil, decodeErr(err)
		}
		return v, nil
	case keyed.TypeFloat32:
		var v float32
		if err := d.Default.Decode(&v); err != nil {
			return nil, decodeErr(err)
		}
		return v, nil
	case keyed.TypeFloat64:
		var v float64
		if err := d.Default.Decode(&v); err != nil {
			return nil, decodeErr(err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("schema: %q is not a value type", d.Name)
	}
}

// SeedDefaults writes every declared default into c through the bulk
// dispatch path, skipping names the container already holds.
func (s *Schema) SeedDefaults(c keyed.Container) error {
	values := make(map[string]any)
	for _, d := range s.Keys {
		if !d.HasDefault() || c.Has(d.Name) {
			continue
		}
		v, err := d.DefaultValue()
		if err != nil {
			return err
		}
		values[d.Name] = v
	}
	return keyed.PutAll(c, values)
}

// Missing returns the declared names absent from c, in declaration order.
func (s *Schema) Missing(c keyed.Container) []string {
	var missing []string
	for _, d := range s.Keys {
		if !c.Has(d.Name) {
			missing = append(missing, d.Name)
		}
	}
	return missing
}
