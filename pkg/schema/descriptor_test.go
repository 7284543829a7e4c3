package schema

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_RejectsInvalidDescriptors(t *testing.T) {
	tests := []struct {
		name   string
		fields []Field
		errSub string
	}{
		{"duplicate name", []Field{Required("id", String(), ""), Optional("id", String(), "")}, "duplicate field"},
		{"empty name", []Field{Required("", String(), "")}, "empty name"},
		{"required default", []Field{Required("id", String(), "").WithDefault("x")}, "cannot have a default"},
		{"zero type", []Field{{Name: "id"}}, "unknown type"},
		{"nested duplicate", []Field{Required("conf", Object(Optional("a", String(), ""), Optional("a", Number(), "")), "")}, `"conf.a"`},
		{"empty enum", []Field{Required("method", Enum(), "")}, "no values"},
		{"default of wrong type", []Field{Optional("limit", Number(), "").WithDefault("abc")}, `default of field "limit"`},
		{"default outside enum", []Field{Optional("mode", Enum("append", "replace"), "").WithDefault("merge")}, "must be one of"},
		{"nested default", []Field{Required("conf", Object(Optional("closed", Boolean(), "").WithDefault("no")), "")}, `"conf.closed"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.fields...)
			if err == nil {
				t.Fatal("schema:descriptor_test - expected error")
			}
			if !strings.Contains(err.Error(), tt.errSub) {
				t.Errorf("schema:descriptor_test - error %q should contain %q", err, tt.errSub)
			}
		})
	}
}

func TestNew_AcceptsTypedDefaults(t *testing.T) {
	_, err := New(
		Optional("limit", Number(), "").WithDefault(32),
		Optional("ratio", Number(), "").WithDefault(0.5),
		Optional("mode", Enum("append", "replace"), "").WithDefault("append"),
		Optional("ids", Array(String()), "").WithDefault([]string{"a"}),
		Optional("attrs", Record(String()), "").WithDefault(map[string]any{"k": "v"}),
	)
	if err != nil {
		t.Errorf("schema:descriptor_test - unexpected error: %v", err)
	}
}

func TestMustNew_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("schema:descriptor_test - MustNew should panic on invalid fields")
		}
	}()
	MustNew(Required("a", String(), ""), Required("a", String(), ""))
}

func TestDescriptor_FieldsAreCopies(t *testing.T) {
	d := MustNew(Required("a", String(), "A"), Optional("b", Number(), "B"))

	fields := d.Fields()
	fields[0].Name = "mutated"

	if f, ok := d.Field("a"); !ok || f.Description != "A" {
		t.Error("schema:descriptor_test - mutating Fields() result changed the descriptor")
	}
	if names := d.RequiredNames(); len(names) != 1 || names[0] != "a" {
		t.Errorf("schema:descriptor_test - RequiredNames = %v", names)
	}
}

func TestType_Label(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{String(), "string"},
		{Number(), "number"},
		{Any(), "any"},
		{Array(String()), "array<string>"},
		{Array(Any()), "array"},
		{Record(String()), "record<string>"},
		{Object(), "object"},
		{Enum("GET", "POST"), "enum(GET|POST)"},
	}
	for _, tt := range tests {
		if got := tt.typ.Label(); got != tt.want {
			t.Errorf("schema:descriptor_test - Label() = %q, want %q", got, tt.want)
		}
	}
}

func TestJSONSchema(t *testing.T) {
	d := MustNew(
		Required("url", String(), "Target URL"),
		Required("method", Enum("GET", "POST"), "HTTP method"),
		Optional("headers", Record(String()), "Request headers"),
		Optional("paths", Array(String()), "Paths"),
		Optional("timeout", Number(), "Timeout").WithDefault(7000),
	)

	s := d.JSONSchema()
	if s.Type != "object" {
		t.Errorf("schema:jsonschema_test - Type = %q", s.Type)
	}
	if len(s.Required) != 2 || s.Required[0] != "url" || s.Required[1] != "method" {
		t.Errorf("schema:jsonschema_test - Required = %v", s.Required)
	}
	if m := s.Properties["method"]; m == nil || len(m.Enum) != 2 || m.Enum[0] != "GET" {
		t.Errorf("schema:jsonschema_test - method enum = %+v", m)
	}
	if h := s.Properties["headers"]; h == nil || h.AdditionalProperties == nil || h.AdditionalProperties.Type != "string" {
		t.Errorf("schema:jsonschema_test - headers = %+v", h)
	}
	if p := s.Properties["paths"]; p == nil || p.Items == nil || p.Items.Type != "string" {
		t.Errorf("schema:jsonschema_test - paths = %+v", p)
	}
	if to := s.Properties["timeout"]; to == nil || !strings.Contains(to.Description, "default 7000") {
		t.Errorf("schema:jsonschema_test - timeout = %+v", to)
	}

	if _, err := json.Marshal(s); err != nil {
		t.Errorf("schema:jsonschema_test - schema should marshal: %v", err)
	}
}
