// Command keyedgen generates Go typed-key declarations from a YAML key
// manifest.
//
//	keyedgen -schema keys.yaml -package app -out keys_gen.go
//
// Packed keys cannot be generated because they need a value factory;
// declare those in code.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"os"
	"strings"
	"text/template"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/go-drift/keyed/pkg/keyed"
	"github.com/go-drift/keyed/pkg/schema"
)

var fileTemplate = template.Must(template.New("keys").Parse(`// Code generated by keyedgen from {{.Source}}; DO NOT EDIT.

package {{.Package}}

import "github.com/go-drift/keyed/pkg/keyed"

var (
{{- range .Keys}}
	// {{.VarName}} is the {{.TypeName}} entry {{printf "%q" .Name}}.
	{{.VarName}} = {{.Constructor}}
{{- end}}
)
`))

type keyModel struct {
	Name        string
	VarName     string
	TypeName    string
	Constructor string
}

type fileModel struct {
	Source  string
	Package string
	Keys    []keyModel
}

func main() {
	schemaPath := flag.String("schema", "keys.yaml", "path to the key manifest")
	pkgName := flag.String("package", "keys", "package name for the generated file")
	outPath := flag.String("out", "keys_gen.go", "output file path")
	flag.Parse()

	if err := run(*schemaPath, *pkgName, *outPath); err != nil {
		log.Fatal("generation failed", "err", err)
	}
}

func run(schemaPath, pkgName, outPath string) error {
	data, err := os.ReadFile(schemaPath)
	if err != nil {
		return err
	}
	s, err := schema.Parse(data)
	if err != nil {
		return err
	}

	model := fileModel{Source: schemaPath, Package: pkgName}
	for _, d := range s.Keys {
		ctor, err := constructor(d)
		if err != nil {
			return err
		}
		model.Keys = append(model.Keys, keyModel{
			Name:        d.Name,
			VarName:     varName(d.Name),
			TypeName:    d.KeyType().String(),
			Constructor: ctor,
		})
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, model); err != nil {
		return err
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("formatting generated source: %w", err)
	}
	if err := os.WriteFile(outPath, src, 0o644); err != nil {
		return err
	}
	log.Info("generated", "keys", len(model.Keys), "out", outPath)
	return nil
}

func constructor(d schema.Declaration) (string, error) {
	def := "0"
	if d.HasDefault() {
		v, err := d.DefaultValue()
		if err != nil {
			return "", err
		}
		def = fmt.Sprintf("%v", v)
	}
	switch d.KeyType() {
	case keyed.TypeBool:
		if !d.HasDefault() {
			def = "false"
		}
		return fmt.Sprintf("keyed.BoolKey(%q, %s)", d.Name, def), nil
	case keyed.TypeByte:
		return fmt.Sprintf("keyed.ByteKey(%q, %s)", d.Name, def), nil
	case keyed.TypeInt16:
		return fmt.Sprintf("keyed.Int16Key(%q, %s)", d.Name, def), nil
	case keyed.TypeInt32:
		return fmt.Sprintf("keyed.Int32Key(%q, %s)", d.Name, def), nil
	case keyed.TypeInt64:
		return fmt.Sprintf("keyed.Int64Key(%q, %s)", d.Name, def), nil
	case keyed.TypeFloat32:
		return fmt.Sprintf("keyed.Float32Key(%q, %s)", d.Name, def), nil
	case keyed.TypeFloat64:
		return fmt.Sprintf("keyed.Float64Key(%q, %s)", d.Name, def), nil
	case keyed.TypeString:
		return fmt.Sprintf("keyed.StringKey(%q)", d.Name), nil
	case keyed.TypeBytes:
		return fmt.Sprintf("keyed.BytesKey(%q)", d.Name), nil
	case keyed.TypeStringSlice:
		return fmt.Sprintf("keyed.StringSliceKey(%q)", d.Name), nil
	case keyed.TypeInt64Slice:
		return fmt.Sprintf("keyed.Int64SliceKey(%q)", d.Name), nil
	case keyed.TypeFloat64Slice:
		return fmt.Sprintf("keyed.Float64SliceKey(%q)", d.Name), nil
	case keyed.TypeJSON:
		return fmt.Sprintf("keyed.JSONKey[any](%q)", d.Name), nil
	case keyed.TypePacked:
		return "", fmt.Errorf("keyedgen: packed key %q needs a value factory; declare it in code", d.Name)
	default:
		return "", fmt.Errorf("keyedgen: key %q has unsupported type %q", d.Name, d.Type)
	}
}

// varName converts an entry name like "user_age" or "user.age" to KeyUserAge.
func varName(name string) string {
	var sb strings.Builder
	sb.WriteString("Key")
	upper := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			sb.WriteRune(unicode.ToUpper(r))
			upper = false
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
