package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/morezero/siyuan-bridge/internal/config"
	"github.com/morezero/siyuan-bridge/pkg/catalog"
	"github.com/morezero/siyuan-bridge/pkg/dispatcher"
	"github.com/morezero/siyuan-bridge/pkg/events"
	"github.com/morezero/siyuan-bridge/pkg/introspect"
	"github.com/morezero/siyuan-bridge/pkg/operations"
	"github.com/morezero/siyuan-bridge/pkg/registry"
	"github.com/morezero/siyuan-bridge/pkg/siyuan"
)

// Core holds the components shared by serve and the one-shot CLI commands.
type Core struct {
	Client     *siyuan.Client
	Registry   *registry.Registry
	Dispatcher *dispatcher.Dispatcher
	Renderer   *introspect.Renderer
	// Catalog is the outcome of applying the catalog file, nil when none was found.
	Catalog *catalog.Result
}

// NewCoreParams holds parameters for NewCore.
type NewCoreParams struct {
	Config *config.Config
	// Publisher receives an event after each successful command. Defaults to a no-op.
	Publisher events.EventPublisher
	// HTTPClient overrides the SiYuan transport (tests).
	HTTPClient *http.Client
}

// NewCore builds the kernel client, registers the built-in operations and
// the catalog file, and wires the dispatcher and renderer over the registry.
func NewCore(params NewCoreParams) (*Core, error) {
	cfg := params.Config

	client, err := siyuan.NewClient(siyuan.NewClientParams{
		BaseURL:    cfg.SiYuanURL,
		Token:      cfg.SiYuanToken,
		Timeout:    cfg.SiYuanRequestTimeout,
		HTTPClient: params.HTTPClient,
	})
	if err != nil {
		return nil, fmt.Errorf("%s - failed to create SiYuan client: %w", logPrefix, err)
	}

	reg := registry.NewRegistry(registry.NewRegistryParams{})
	if err := operations.Register(reg, client); err != nil {
		return nil, fmt.Errorf("%s - failed to register operations: %w", logPrefix, err)
	}

	core := &Core{
		Client:   client,
		Registry: reg,
		Dispatcher: dispatcher.NewDispatcher(dispatcher.NewDispatcherParams{
			Registry:  reg,
			Publisher: params.Publisher,
		}),
		Renderer: introspect.NewRenderer(reg),
	}

	file, path, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to load catalog: %w", logPrefix, err)
	}
	if file != nil {
		core.Catalog = catalog.Apply(reg, client, file)
		slog.Info(fmt.Sprintf("%s - Catalog %s: %d operations registered, %d skipped",
			logPrefix, path, len(core.Catalog.Registered), len(core.Catalog.Issues)))
	}

	slog.Info(fmt.Sprintf("%s - Registry ready: %d commands, %d queries",
		logPrefix, reg.Len(registry.KindCommand), reg.Len(registry.KindQuery)))
	return core, nil
}

// SetupLogging installs the default slog handler. Logs go to stderr because
// stdout carries the MCP stdio stream.
func SetupLogging(cfg *config.Config) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
}
