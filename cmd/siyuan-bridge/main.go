// Package main is the entrypoint for siyuan-bridge.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/morezero/siyuan-bridge/internal/config"
	"github.com/morezero/siyuan-bridge/internal/server"
	"github.com/morezero/siyuan-bridge/pkg/introspect"
	"github.com/morezero/siyuan-bridge/pkg/registry"
	"github.com/morezero/siyuan-bridge/pkg/siyuan"
)

const usage = `Usage: siyuan-bridge [command]
       siyuan-bridge serve                               Start the bridge (MCP stdio, NATS, HTTP docs).
       siyuan-bridge list                                List every command and query.
       siyuan-bridge man <key>                           Show the documentation page of an operation.
       siyuan-bridge exec <command|query> <key> [json]   Run one operation and print the envelope.
       siyuan-bridge check                               Check that the SiYuan kernel is reachable and compatible.

Commands:
  serve           (default) Start the bridge. MCP runs on stdio unless MCP_TRANSPORT=none.
  list            Print the catalog of commands and queries.
  man <key>       Print the markdown documentation of a command or query, e.g. man notebook.create.
  exec            Dispatch one operation; params are a JSON object, e.g. exec command notebook.create '{"name":"Work"}'.
                  Exits 1 when the envelope reports a failure.
  check           Call /api/system/version and compare it with SIYUAN_MIN_VERSION.

Environment: SIYUAN_API_URL (default http://localhost:6806), SIYUAN_TOKEN, SIYUAN_MIN_VERSION, CATALOG_FILE,
MCP_TRANSPORT, COMMS_URL (empty disables NATS), BRIDGE_HTTP_ADDR (empty disables HTTP), LOG_LEVEL.
`

func main() {
	args := os.Args[1:]
	cmd := ""
	if len(args) > 0 && args[0] != "" {
		cmd = args[0]
	}

	switch cmd {
	case "list":
		if err := withCore(func(_ context.Context, core *server.Core, _ *config.Config) error {
			return runList(os.Stdout, core.Renderer)
		}); err != nil {
			log.Fatalf("siyuan-bridge list: %v", err)
		}
		return
	case "man":
		if len(args) < 2 {
			log.Fatalf("siyuan-bridge man: require an operation key (e.g. notebook.create)")
		}
		if err := withCore(func(_ context.Context, core *server.Core, _ *config.Config) error {
			return runMan(os.Stdout, core.Renderer, args[1])
		}); err != nil {
			log.Fatalf("siyuan-bridge man: %v", err)
		}
		return
	case "exec":
		if len(args) < 3 {
			log.Fatalf("siyuan-bridge exec: require a kind (command or query) and a key")
		}
		raw := ""
		if len(args) > 3 {
			raw = args[3]
		}
		ok := false
		if err := withCore(func(ctx context.Context, core *server.Core, _ *config.Config) error {
			var err error
			ok, err = runExec(ctx, os.Stdout, core, args[1], args[2], raw)
			return err
		}); err != nil {
			log.Fatalf("siyuan-bridge exec: %v", err)
		}
		if !ok {
			os.Exit(1)
		}
		return
	case "check":
		ok := false
		if err := withCore(func(ctx context.Context, core *server.Core, cfg *config.Config) error {
			ok = runCheck(ctx, os.Stdout, core.Client, cfg.SiYuanMinVersion)
			return nil
		}); err != nil {
			log.Fatalf("siyuan-bridge check: %v", err)
		}
		if !ok {
			os.Exit(1)
		}
		return
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	case "serve", "":
		// serve (explicit or default)
		break
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q.\n%s", cmd, usage)
		os.Exit(1)
	}

	if err := server.Run(); err != nil {
		log.Fatalf("siyuan-bridge: %v", err)
	}
}

// withCore loads the config and builds the core for one-shot commands. The
// context is bounded by the SiYuan request timeout.
func withCore(fn func(ctx context.Context, core *server.Core, cfg *config.Config) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	server.SetupLogging(cfg)
	if err := cfg.ValidateForClient(); err != nil {
		return err
	}
	core, err := server.NewCore(server.NewCoreParams{Config: cfg})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.SiYuanRequestTimeout+5*time.Second)
	defer cancel()
	return fn(ctx, core, cfg)
}

func runList(w io.Writer, r *introspect.Renderer) error {
	catalog := r.ListAll()

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"KIND", "KEY", "DESCRIPTION"})
	for _, e := range catalog.Commands {
		t.AppendRow(table.Row{registry.KindCommand.String(), e.Key, e.Description})
	}
	t.AppendSeparator()
	for _, e := range catalog.Queries {
		t.AppendRow(table.Row{registry.KindQuery.String(), e.Key, e.Description})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d commands, %d queries", len(catalog.Commands), len(catalog.Queries)), ""})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func runMan(w io.Writer, r *introspect.Renderer, key string) error {
	page, err := r.Render(key)
	if errors.Is(err, introspect.ErrNotFound) {
		return fmt.Errorf("no command or query named %s (see siyuan-bridge list)", key)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, page)
	return err
}

// runExec dispatches one operation and prints the envelope. The bool is the
// envelope's success flag.
func runExec(ctx context.Context, w io.Writer, core *server.Core, kind, key, raw string) (bool, error) {
	k, err := registry.ParseKind(kind)
	if err != nil {
		return false, err
	}

	var params map[string]interface{}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &params); err != nil {
			return false, fmt.Errorf("params must be a JSON object: %w", err)
		}
	}

	execute := core.Dispatcher.ExecuteCommand
	if k == registry.KindQuery {
		execute = core.Dispatcher.ExecuteQuery
	}
	result := execute(ctx, key, params)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return false, fmt.Errorf("encode envelope: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return false, err
	}
	return result.Success, nil
}

// runCheck prints the kernel health and reports whether it is healthy.
func runCheck(ctx context.Context, w io.Writer, c *siyuan.Client, constraint string) bool {
	h := c.Health(ctx, constraint)
	fmt.Fprintf(w, "kernel:     %s\n", h.BaseURL)
	fmt.Fprintf(w, "status:     %s\n", h.Status)
	if h.Version != "" {
		fmt.Fprintf(w, "version:    %s\n", h.Version)
	}
	if h.Constraint != "" {
		fmt.Fprintf(w, "constraint: %s\n", h.Constraint)
	}
	if h.Error != "" {
		fmt.Fprintf(w, "error:      %s\n", h.Error)
	}
	return h.Status == "healthy"
}
