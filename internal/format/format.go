// Package format renders a decoded cdns.File in human-readable form:
// unset optional fields are elided, extras are printed after declared
// fields in ascending key order under their negative-integer label, and
// a couple of fields get special-cased rendering (ClassType's OPT
// pseudo-RR encoding, TransportFlags' packed bits). This is advisory
// tooling, not part of the wire contract.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
	"unicode"

	"github.com/jroosing/cdns/internal/cbor"
	"github.com/jroosing/cdns/internal/cdns"
)

var extrasType = reflect.TypeOf(cbor.Extras{})

// Text writes a human-readable rendering of v (typically a *cdns.File
// or one of its nested record types) to w.
func Text(w io.Writer, v any) error {
	tw := &textWriter{w: w}
	tw.write(label(reflect.TypeOf(v)), reflect.ValueOf(v), 0)
	return tw.err
}

// JSON renders v as the same elided-optional-fields view, as JSON.
func JSON(v any) ([]byte, error) {
	return json.MarshalIndent(toJSON(reflect.ValueOf(v)), "", "  ")
}

type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) printf(indent int, format string, args ...any) {
	if t.err != nil {
		return
	}
	prefix := strings.Repeat("  ", indent)
	_, t.err = fmt.Fprintf(t.w, "%s"+format+"\n", append([]any{prefix}, args...)...)
}

func (t *textWriter) write(fieldLabel string, v reflect.Value, indent int) {
	if t.err != nil || !v.IsValid() {
		return
	}
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}

	if s, ok := specialCase(v); ok {
		t.printf(indent, "%s: %s", fieldLabel, s)
		return
	}

	switch v.Kind() {
	case reflect.Struct:
		t.writeStruct(fieldLabel, v, indent)
	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return
		}
		t.printf(indent, "%s: (%d items)", fieldLabel, v.Len())
		for i := 0; i < v.Len(); i++ {
			t.write(fmt.Sprintf("[%d]", i), v.Index(i), indent+1)
		}
	default:
		t.printf(indent, "%s: %v", fieldLabel, v.Interface())
	}
}

func (t *textWriter) writeStruct(fieldLabel string, v reflect.Value, indent int) {
	if fieldLabel != "" {
		t.printf(indent, "%s:", fieldLabel)
		indent++
	}
	typ := v.Type()
	var extras *cbor.Extras
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		fv := v.Field(i)
		if f.Type == extrasType {
			e := fv.Interface().(cbor.Extras)
			extras = &e
			continue
		}
		if isAbsent(fv) {
			continue
		}
		t.write(snakeCase(f.Name), fv, indent)
	}
	if extras != nil {
		t.writeExtras(extras, indent)
	}
}

func (t *textWriter) writeExtras(e *cbor.Extras, indent int) {
	for _, k := range e.Keys() {
		val, _ := e.Get(k)
		goVal, err := val.Interface()
		if err != nil {
			continue
		}
		t.printf(indent, "%d: %v", k, goVal)
	}
}

// toJSON mirrors the text walk but builds a plain Go value suitable for
// json.Marshal, instead of writing lines.
func toJSON(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if s, ok := specialCase(v); ok {
		return s
	}
	switch v.Kind() {
	case reflect.Struct:
		out := map[string]any{}
		typ := v.Type()
		for i := 0; i < typ.NumField(); i++ {
			f := typ.Field(i)
			if !f.IsExported() {
				continue
			}
			fv := v.Field(i)
			if f.Type == extrasType {
				e := fv.Interface().(cbor.Extras)
				for _, k := range e.Keys() {
					val, _ := e.Get(k)
					goVal, err := val.Interface()
					if err == nil {
						out[fmt.Sprintf("%d", k)] = goVal
					}
				}
				continue
			}
			if isAbsent(fv) {
				continue
			}
			out[snakeCase(f.Name)] = toJSON(fv)
		}
		return out
	case reflect.Slice, reflect.Array:
		out := make([]any, v.Len())
		for i := range out {
			out[i] = toJSON(v.Index(i))
		}
		return out
	default:
		return v.Interface()
	}
}

func isAbsent(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

// specialCase renders the formatter's documented special cases:
// ClassType's OPT pseudo-RR encoding and any other Stringer (e.g.
// TransportFlags, which already implements the exact layout the
// formatter wants).
func specialCase(v reflect.Value) (string, bool) {
	if v.Type() == reflect.TypeOf(cdns.ClassType{}) {
		ct := v.Interface().(cdns.ClassType)
		if ct.Type == cdns.OptPseudoRRType {
			return fmt.Sprintf("OPT (UDP Size: %d)", ct.Class), true
		}
		return fmt.Sprintf("type=%d class=%d", ct.Type, ct.Class), true
	}
	if v.CanInterface() {
		if s, ok := v.Interface().(fmt.Stringer); ok {
			return s.String(), true
		}
	}
	return "", false
}

func label(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return snakeCase(t.Name())
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
