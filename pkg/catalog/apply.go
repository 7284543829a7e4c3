package catalog

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/morezero/siyuan-bridge/pkg/registry"
	"github.com/morezero/siyuan-bridge/pkg/schema"
	"github.com/morezero/siyuan-bridge/pkg/siyuan"
)

// Apply registers every valid entry of file on reg as a forwarding operation.
// Invalid entries are reported in the result and skipped; Apply never stops
// at the first problem.
func Apply(reg *registry.Registry, c *siyuan.Client, file *File) *Result {
	res := &Result{Registered: []string{}}
	if file == nil {
		return res
	}

	for i, entry := range file.Operations {
		key := entry.Namespace + "." + entry.Name
		kind, def, err := entry.definition(c)
		if err == nil {
			_, err = reg.Register(kind, def)
		}
		if err != nil {
			slog.Warn(fmt.Sprintf("%s - skipping catalog entry %d (%s): %v", logPrefix, i, key, err))
			res.Issues = append(res.Issues, Issue{Index: i, Key: key, Message: err.Error()})
			continue
		}
		res.Registered = append(res.Registered, key)
	}
	return res
}

func (e Entry) definition(c *siyuan.Client) (registry.Kind, registry.Definition, error) {
	kind, err := registry.ParseKind(e.Kind)
	if err != nil {
		return 0, registry.Definition{}, err
	}
	if !strings.HasPrefix(e.Path, "/api/") {
		return 0, registry.Definition{}, fmt.Errorf("path %q must start with /api/", e.Path)
	}

	fields := make([]schema.Field, 0, len(e.Params))
	for _, p := range e.Params {
		f, err := p.field()
		if err != nil {
			return 0, registry.Definition{}, err
		}
		fields = append(fields, f)
	}
	d, err := schema.New(fields...)
	if err != nil {
		return 0, registry.Definition{}, err
	}

	return kind, registry.Definition{
		Namespace:     e.Namespace,
		Name:          e.Name,
		Description:   e.Description,
		Schema:        d,
		Handler:       siyuan.Forward(c, e.Path),
		Documentation: e.Documentation.toRegistry(),
	}, nil
}

func (p Param) field() (schema.Field, error) {
	t, err := p.schemaType()
	if err != nil {
		return schema.Field{}, err
	}
	if p.Required {
		f := schema.Required(p.Name, t, p.Description)
		f.Default = p.Default
		return f, nil
	}
	return schema.Optional(p.Name, t, p.Description).WithDefault(p.Default), nil
}

func (p Param) schemaType() (schema.Type, error) {
	switch p.Type {
	case "string":
		if len(p.Enum) > 0 {
			return schema.Enum(p.Enum...), nil
		}
		return schema.String(), nil
	case "enum":
		return schema.Enum(p.Enum...), nil
	case "number", "integer":
		return schema.Number(), nil
	case "boolean":
		return schema.Boolean(), nil
	case "any":
		return schema.Any(), nil
	case "array":
		if p.Items == nil {
			return schema.Type{}, fmt.Errorf("param %s: array needs items", p.Name)
		}
		elem, err := p.Items.schemaType()
		if err != nil {
			return schema.Type{}, fmt.Errorf("param %s: %w", p.Name, err)
		}
		return schema.Array(elem), nil
	case "record":
		if p.Values == nil {
			return schema.Type{}, fmt.Errorf("param %s: record needs values", p.Name)
		}
		values, err := p.Values.schemaType()
		if err != nil {
			return schema.Type{}, fmt.Errorf("param %s: %w", p.Name, err)
		}
		return schema.Record(values), nil
	case "object":
		fields := make([]schema.Field, 0, len(p.Fields))
		for _, child := range p.Fields {
			f, err := child.field()
			if err != nil {
				return schema.Type{}, fmt.Errorf("param %s: %w", p.Name, err)
			}
			fields = append(fields, f)
		}
		return schema.Object(fields...), nil
	case "":
		return schema.Type{}, fmt.Errorf("param %s has no type", p.Name)
	}
	return schema.Type{}, fmt.Errorf("param %s: unknown type %q", p.Name, p.Type)
}

func (d *EntryDoc) toRegistry() *registry.Documentation {
	if d == nil {
		return nil
	}
	doc := &registry.Documentation{Description: d.Description, APILink: d.APILink}
	if d.Returns != nil {
		ret := &registry.ReturnDoc{Type: d.Returns.Type, Description: d.Returns.Description}
		for _, p := range d.Returns.Properties {
			ret.Properties = append(ret.Properties, registry.Property{Name: p.Name, Type: p.Type, Description: p.Description})
		}
		doc.Returns = ret
	}
	for _, ex := range d.Examples {
		doc.Examples = append(doc.Examples, registry.Example{Description: ex.Description, Params: ex.Params, Response: ex.Response})
	}
	return doc
}
