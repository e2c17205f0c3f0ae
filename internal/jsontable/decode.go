package jsontable

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Decode parses a single JSON document into a Value, keeping object key order
// and number literals as written.
func Decode(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, fmt.Errorf("decode json: %w", io.ErrUnexpectedEOF)
		}
		return Value{}, fmt.Errorf("decode json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, fmt.Errorf("decode json: trailing data after top-level value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return Value{}, fmt.Errorf("unexpected delimiter %q", t)
	case string:
		return String(t), nil
	case json.Number:
		return Number(t.String()), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

func decodeObject(dec *json.Decoder) (Value, error) {
	obj := NewObject()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("object key %v is not a string", tok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		obj.set(key, v)
	}
	// closing '}'
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return ObjectValue(obj), nil
}

func decodeArray(dec *json.Decoder) (Value, error) {
	var elems []Value
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, v)
	}
	// closing ']'
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return Value{kind: KindArray, elems: elems}, nil
}

// DecodeYAML parses a YAML document into a Value. Mapping order is kept and
// aliases are resolved; scalars follow their resolved YAML tags.
func DecodeYAML(data []byte) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Value{}, fmt.Errorf("decode yaml: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return Value{}, fmt.Errorf("decode yaml: empty document")
	}
	v, err := fromYAML(doc.Content[0])
	if err != nil {
		return Value{}, fmt.Errorf("decode yaml: %w", err)
	}
	return v, nil
}

func fromYAML(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return fromYAML(n.Alias)
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return fromYAML(n.Content[0])
	case yaml.SequenceNode:
		elems := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromYAML(c)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, v)
		}
		return Value{kind: KindArray, elems: elems}, nil
	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			v, err := fromYAML(n.Content[i+1])
			if err != nil {
				return Value{}, err
			}
			obj.set(key, v)
		}
		return ObjectValue(obj), nil
	case yaml.ScalarNode:
		return scalarFromYAML(n)
	}
	return Value{}, fmt.Errorf("line %d: unsupported yaml node kind %d", n.Line, n.Kind)
}

func scalarFromYAML(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			// out of int64 range, keep the literal as a number
			return Number(n.Value), nil
		}
		return Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, err
		}
		return Float(f), nil
	}
	return String(n.Value), nil
}

// DecodeObjects turns a document into table items. A top-level array must
// hold only objects; a single top-level object becomes one item. JSON is
// tried first and YAML second when allowYAML is set.
func DecodeObjects(data []byte, allowYAML bool) ([]*Object, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, nil
	}
	v, err := Decode(data)
	if err != nil {
		if !allowYAML {
			return nil, err
		}
		var yamlErr error
		v, yamlErr = DecodeYAML(data)
		if yamlErr != nil {
			return nil, fmt.Errorf("input is neither json (%v) nor yaml (%v)", err, yamlErr)
		}
	}
	return ObjectsOf(v)
}

// ObjectsOf extracts table items from an already decoded value.
func ObjectsOf(v Value) ([]*Object, error) {
	switch v.Kind() {
	case KindObject:
		return []*Object{v.Object()}, nil
	case KindArray:
		items := make([]*Object, 0, len(v.elems))
		for i, e := range v.elems {
			if e.Kind() != KindObject {
				return nil, fmt.Errorf("element %d is %s, want object", i, e.Kind())
			}
			items = append(items, e.Object())
		}
		return items, nil
	case KindNull:
		return nil, nil
	}
	return nil, fmt.Errorf("top-level %s cannot be shown as a table", v.Kind())
}
