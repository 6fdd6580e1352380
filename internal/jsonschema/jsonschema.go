package jsonschema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Schema is the subset of JSON Schema used to describe the answer shape a
// model is asked to produce.
type Schema struct {
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Required    []string `json:"required,omitempty"`
	// Properties of an object, keyed by JSON member name
	Properties map[string]*Schema `json:"properties,omitempty"`
	// Items is the element schema of an array
	Items *Schema `json:"items,omitempty"`
	// AdditionalProperties is the value schema of a map
	AdditionalProperties *Schema `json:"additionalProperties,omitempty"`
	Enum                 []any   `json:"enum,omitempty"`
	// Ref points into Defs for types that contain themselves
	Ref  string             `json:"$ref,omitempty"`
	Defs map[string]*Schema `json:"$defs,omitempty"`
}

// GenerateJSONSchema derives a schema from T.
//
// Field names follow the json tag; "-" skips a field. A field is required
// unless it is a pointer or tagged omitempty, or when its jsonschema tag says
// "required". The jsonschema tag also takes enum values and a description:
//
//	Kind string `json:"kind" jsonschema:"enum=unit,enum=integration,description=Test level, unit or integration"`
//
// description must come last and may contain commas. An enum value that does
// not parse as the field's type is an error.
func GenerateJSONSchema[T any]() (*Schema, error) {
	b := &builder{
		names:     make(map[reflect.Type]string),
		recursive: make(map[reflect.Type]bool),
		defs:      make(map[string]*Schema),
	}

	schema, err := b.schemaFor(reflect.TypeFor[T](), true)
	if err != nil {
		return nil, err
	}
	if len(b.defs) > 0 {
		schema.Defs = b.defs
	}
	return schema, nil
}

// builder tracks struct types under construction so self-references become
// $ref pointers instead of infinite descent.
type builder struct {
	names     map[reflect.Type]string // structs currently being built
	recursive map[reflect.Type]bool
	defs      map[string]*Schema
}

func (b *builder) schemaFor(t reflect.Type, root bool) (*Schema, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return &Schema{Type: "string"}, nil
	case reflect.Bool:
		return &Schema{Type: "boolean"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}, nil
	case reflect.Interface:
		// any value is accepted
		return &Schema{}, nil
	case reflect.Slice, reflect.Array:
		items, err := b.schemaFor(t.Elem(), false)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "array", Items: items}, nil
	case reflect.Map:
		values, err := b.schemaFor(t.Elem(), false)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "object", AdditionalProperties: values}, nil
	case reflect.Struct:
		return b.structSchema(t, root)
	default:
		return nil, fmt.Errorf("jsonschema: unsupported type %v", t)
	}
}

func (b *builder) structSchema(t reflect.Type, root bool) (*Schema, error) {
	if name, building := b.names[t]; building {
		b.recursive[t] = true
		return &Schema{Ref: "#/$defs/" + name}, nil
	}

	name := defName(t)
	b.names[t] = name
	defer delete(b.names, t)

	schema := &Schema{Type: "object", Properties: make(map[string]*Schema)}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		fieldName, omitEmpty, skip := jsonName(field)
		if skip {
			continue
		}

		fieldSchema, err := b.schemaFor(field.Type, false)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		requiredByTag, err := applyTag(field, fieldSchema)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}

		schema.Properties[fieldName] = fieldSchema
		if requiredByTag || (field.Type.Kind() != reflect.Pointer && !omitEmpty) {
			schema.Required = append(schema.Required, fieldName)
		}
	}

	switch {
	case !b.recursive[t]:
		return schema, nil
	case root:
		// The root keeps its body inline; $defs gets a copy so the encoded
		// document holds no cycle.
		def := *schema
		b.defs[name] = &def
		return schema, nil
	default:
		b.defs[name] = schema
		return &Schema{Ref: "#/$defs/" + name}, nil
	}
}

func defName(t reflect.Type) string {
	if t.Name() == "" {
		return "anonymous"
	}
	return strings.ToLower(t.Name())
}

// jsonName returns the member name encoding/json would use for field.
func jsonName(field reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = field.Name
	}
	for _, opt := range strings.Split(opts, ",") {
		if opt == "omitempty" || opt == "omitzero" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

// applyTag copies the jsonschema tag of field into schema and reports whether
// the tag marks the field required.
func applyTag(field reflect.StructField, schema *Schema) (required bool, err error) {
	tag := field.Tag.Get("jsonschema")
	for tag != "" {
		if desc, ok := strings.CutPrefix(tag, "description="); ok {
			schema.Description = desc
			break
		}

		var item string
		item, tag, _ = strings.Cut(tag, ",")
		key, value, hasValue := strings.Cut(item, "=")
		switch {
		case key == "required" && !hasValue:
			required = true
		case key == "enum" && hasValue:
			v, err := enumValue(field.Type, value)
			if err != nil {
				return false, err
			}
			schema.Enum = append(schema.Enum, v)
		}
	}
	return required, nil
}

func enumValue(t reflect.Type, value string) (any, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return value, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("enum value %q is not an integer: %w", value, err)
		}
		return v, nil
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("enum value %q is not a number: %w", value, err)
		}
		return v, nil
	case reflect.Bool:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("enum value %q is not a boolean: %w", value, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("enum unsupported for %v", t)
	}
}

// JsonString encodes s, indented with two spaces when indent is true.
func (s *Schema) JsonString(indent ...bool) (string, error) {
	var data []byte
	var err error
	if len(indent) > 0 && indent[0] {
		data, err = json.MarshalIndent(s, "", "  ")
	} else {
		data, err = json.Marshal(s)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema to JSON: %w", err)
	}
	return string(data), nil
}

// String returns the compact JSON encoding of s.
func (s *Schema) String() string {
	str, err := s.JsonString()
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return str
}
