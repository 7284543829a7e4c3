package registry

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/morezero/siyuan-bridge/pkg/opkey"
	"github.com/morezero/siyuan-bridge/pkg/schema"
)

func noopHandler(_ context.Context, _ schema.Values) (any, error) { return nil, nil }

func testDefinition(ns, name, desc string) Definition {
	return Definition{
		Namespace:   ns,
		Name:        name,
		Description: desc,
		Schema:      schema.MustNew(schema.Required("id", schema.String(), "Block ID")),
		Handler:     noopHandler,
	}
}

func newTestRegistry(buf *bytes.Buffer) *Registry {
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewRegistry(NewRegistryParams{Logger: logger})
}

func TestRegisterCommand_KeyMatchesNamespaceAndName(t *testing.T) {
	reg := NewRegistry(NewRegistryParams{})

	if _, err := reg.RegisterCommand(testDefinition("notebook", "create", "Create a notebook")); err != nil {
		t.Fatalf("registry:registry_test - RegisterCommand failed: %v", err)
	}

	def, ok := reg.GetCommand(opkey.Must("notebook", "create"))
	if !ok {
		t.Fatal("registry:registry_test - command not found after registration")
	}
	if def.Key().String() != "notebook.create" {
		t.Errorf("registry:registry_test - key = %q, want %q", def.Key(), "notebook.create")
	}
	if def.Kind != KindCommand {
		t.Errorf("registry:registry_test - Kind = %v, want command", def.Kind)
	}
	if _, ok := reg.GetQuery(opkey.Must("notebook", "create")); ok {
		t.Error("registry:registry_test - command must not be visible as query")
	}
}

func TestRegister_OverwriteWarnsAndCountsOnce(t *testing.T) {
	var buf bytes.Buffer
	reg := newTestRegistry(&buf)

	first, err := reg.RegisterQuery(testDefinition("sql", "query", "first"))
	if err != nil || first {
		t.Fatalf("registry:registry_test - first registration: overwritten=%v err=%v", first, err)
	}
	reg.RegisterQuery(testDefinition("sql", "other", "other"))
	second, err := reg.RegisterQuery(testDefinition("sql", "query", "second"))
	if err != nil || !second {
		t.Fatalf("registry:registry_test - second registration: overwritten=%v err=%v", second, err)
	}

	all := reg.AllQueries()
	if len(all) != 2 {
		t.Fatalf("registry:registry_test - AllQueries len = %d, want 2", len(all))
	}
	if all[0].Key().String() != "sql.query" || all[0].Description != "second" {
		t.Errorf("registry:registry_test - overwrite should keep position and replace definition, got %+v", all[0])
	}
	if !strings.Contains(buf.String(), "level=WARN") || !strings.Contains(buf.String(), "sql.query already registered") {
		t.Errorf("registry:registry_test - expected overwrite warning, log = %s", buf.String())
	}
}

func TestRegister_SameKeyBothKinds(t *testing.T) {
	reg := NewRegistry(NewRegistryParams{})
	reg.RegisterCommand(testDefinition("blocks", "fold", "cmd"))
	reg.RegisterQuery(testDefinition("blocks", "fold", "qry"))

	cmd, okCmd := reg.GetCommand(opkey.Must("blocks", "fold"))
	qry, okQry := reg.GetQuery(opkey.Must("blocks", "fold"))
	if !okCmd || !okQry {
		t.Fatal("registry:registry_test - key should exist in both collections")
	}
	if cmd.Description != "cmd" || qry.Description != "qry" {
		t.Errorf("registry:registry_test - collections are not independent: %q %q", cmd.Description, qry.Description)
	}
}

func TestRegister_RejectsInvalidDefinitions(t *testing.T) {
	reg := NewRegistry(NewRegistryParams{})

	noSchema := testDefinition("a", "b", "c")
	noSchema.Schema = nil
	noHandler := testDefinition("a", "b", "c")
	noHandler.Handler = nil

	tests := []struct {
		name string
		def  Definition
	}{
		{"bad namespace", testDefinition("a.b", "c", "d")},
		{"empty name", testDefinition("a", "", "d")},
		{"empty description", testDefinition("a", "b", "")},
		{"nil schema", noSchema},
		{"nil handler", noHandler},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.RegisterCommand(tt.def)
			regErr, ok := err.(*RegistryError)
			if !ok || regErr.Code != "INVALID_DEFINITION" {
				t.Errorf("registry:registry_test - expected INVALID_DEFINITION, got %v", err)
			}
		})
	}
	if reg.Len(KindCommand) != 0 {
		t.Errorf("registry:registry_test - invalid definitions must not be stored")
	}
}

func TestGet_UnknownKeyIsNotAnError(t *testing.T) {
	reg := NewRegistry(NewRegistryParams{})
	if _, ok := reg.GetCommand(opkey.Must("nope", "nope")); ok {
		t.Error("registry:registry_test - unknown key should report not found")
	}
	if _, ok := reg.Get(Kind(7), opkey.Must("nope", "nope")); ok {
		t.Error("registry:registry_test - unknown kind should report not found")
	}
}

func TestAll_RegistrationOrderAndDefensiveCopy(t *testing.T) {
	reg := NewRegistry(NewRegistryParams{})
	for _, name := range []string{"c", "a", "b"} {
		reg.RegisterCommand(testDefinition("ns", name, name))
	}

	all := reg.AllCommands()
	var got []string
	for _, d := range all {
		got = append(got, d.Name)
	}
	if strings.Join(got, ",") != "c,a,b" {
		t.Errorf("registry:registry_test - order = %v, want c,a,b", got)
	}

	all[0].Description = "mutated"
	all[1] = Definition{}
	again := reg.AllCommands()
	if len(again) != 3 || again[0].Description != "c" {
		t.Errorf("registry:registry_test - mutating snapshot affected registry: %+v", again)
	}
}

func TestReset(t *testing.T) {
	reg := NewRegistry(NewRegistryParams{})
	reg.RegisterCommand(testDefinition("ns", "a", "A"))
	reg.RegisterQuery(testDefinition("ns", "b", "B"))

	reg.Reset()

	if reg.Len(KindCommand) != 0 || reg.Len(KindQuery) != 0 {
		t.Errorf("registry:registry_test - Reset left %d commands and %d queries", reg.Len(KindCommand), reg.Len(KindQuery))
	}
	if _, err := reg.RegisterCommand(testDefinition("ns", "a", "A")); err != nil {
		t.Errorf("registry:registry_test - registry unusable after Reset: %v", err)
	}
}

func TestRegister_DropsUndeclaredParamDocs(t *testing.T) {
	var buf bytes.Buffer
	reg := newTestRegistry(&buf)

	def := testDefinition("blocks", "delete", "Delete a block")
	def.Documentation = &Documentation{
		Description: "Delete a block",
		Params: map[string]ParamDoc{
			"id":     {Description: "The block to delete"},
			"ghost":  {Type: "string", Description: "not in schema"},
			"shadow": {Type: "string", Description: "not in schema"},
		},
	}
	reg.RegisterCommand(def)

	stored, _ := reg.GetCommand(def.Key())
	if _, ok := stored.Documentation.Params["ghost"]; ok {
		t.Error("registry:registry_test - undeclared param doc should be dropped")
	}
	if stored.Documentation.Params["id"].Description != "The block to delete" {
		t.Error("registry:registry_test - declared param doc should be kept")
	}
	if def.Documentation.Params["ghost"].Description == "" {
		t.Error("registry:registry_test - caller documentation must not be mutated")
	}
	if !strings.Contains(buf.String(), "[ghost shadow]") {
		t.Errorf("registry:registry_test - expected warning naming dropped params, log = %s", buf.String())
	}
}

func TestRegistry_ConcurrentReadsAndWrites(t *testing.T) {
	reg := NewRegistry(NewRegistryParams{Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			reg.RegisterCommand(testDefinition("ns", fmt.Sprintf("op%d", i), "desc"))
		}(i)
		go func() {
			defer wg.Done()
			_ = reg.AllCommands()
			reg.GetCommand(opkey.Must("ns", "op0"))
		}()
	}
	wg.Wait()

	if reg.Len(KindCommand) != 50 {
		t.Errorf("registry:registry_test - Len = %d, want 50", reg.Len(KindCommand))
	}
}
