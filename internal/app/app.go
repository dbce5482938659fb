package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/botgrid/internal/config"
	"github.com/specialistvlad/botgrid/internal/ctxlog"
	"github.com/specialistvlad/botgrid/internal/dispatch"
	"github.com/specialistvlad/botgrid/internal/executor"
	"github.com/specialistvlad/botgrid/internal/graph"
	"github.com/specialistvlad/botgrid/internal/inmemorystore"
	"github.com/specialistvlad/botgrid/internal/inmemorytopology"
	"github.com/specialistvlad/botgrid/internal/localexecutor"
	"github.com/specialistvlad/botgrid/internal/localsession"
	"github.com/specialistvlad/botgrid/internal/nodestore"
	"github.com/specialistvlad/botgrid/internal/redisstore"
	"github.com/specialistvlad/botgrid/internal/registry"
	"github.com/specialistvlad/botgrid/internal/topologystore"
	"github.com/specialistvlad/botgrid/modules/flow"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	env        *Env
	flow       *config.Flow
	topology   topologystore.Store
	states     nodestore.Store
	live       *graph.Manager
	registry   *registry.Registry
	executor   executor.Executor
	httpServer *http.Server
	closers    []func() error
}

// Option customizes an App before its dependencies are built.
type Option func(*options)

type options struct {
	env         *Env
	dispatchers *dispatch.Set
	states      nodestore.Store
	modules     []registry.Module
}

// WithEnv supplies the environment instead of reading it from the process.
func WithEnv(env *Env) Option {
	return func(o *options) { o.env = env }
}

// WithDispatchers replaces the dispatchers selected by Config.Dispatch.
func WithDispatchers(set dispatch.Set) Option {
	return func(o *options) { o.dispatchers = &set }
}

// WithNodeStore replaces the node state store selected by Config.StatusStore.
func WithNodeStore(s nodestore.Store) Option {
	return func(o *options) { o.states = s }
}

// WithModules registers extra modules after the flow module. A module may
// not register a kind twice.
func WithModules(mods ...registry.Module) Option {
	return func(o *options) { o.modules = append(o.modules, mods...) }
}

// NewApp is the constructor for the main application. It loads the flow,
// wires the stores and dispatchers, and validates the action registry.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	a := &App{ctx: ctx, outW: outW, logger: logger, config: appConfig, env: o.env}
	if a.env == nil {
		env, err := LoadEnv()
		if err != nil {
			return nil, err
		}
		a.env = env
	}

	flw, err := loader.Load(ctx, appConfig.FlowPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load flow: %w", err)
	}
	a.flow = flw
	if flw.Name == "" {
		flw.Name = "default"
	}
	logger.Debug("Flow loaded.", "flow", flw.Name, "nodes", len(flw.Nodes), "connectors", len(flw.Connectors))

	a.topology = inmemorytopology.New()
	if err := flw.Populate(ctx, a.topology); err != nil {
		return nil, err
	}

	a.states = o.states
	if a.states == nil {
		if a.states, err = a.newNodeStore(ctx); err != nil {
			return nil, err
		}
	}
	if err := a.resetNodeStates(ctx); err != nil {
		a.closeAll()
		return nil, err
	}
	a.live = graph.New(a.topology, a.states)

	var set dispatch.Set
	if o.dispatchers != nil {
		set = *o.dispatchers
	} else if set, err = a.newDispatchers(ctx, outW); err != nil {
		a.closeAll()
		return nil, fmt.Errorf("failed to configure dispatchers: %w", err)
	}
	if err := set.Validate(); err != nil {
		a.closeAll()
		return nil, err
	}

	a.registry = registry.New()
	flow.New(set).Register(a.registry)
	for _, mod := range o.modules {
		mod.Register(a.registry)
	}
	if err := a.registry.Validate(ctx); err != nil {
		a.closeAll()
		return nil, err
	}
	logger.Debug("Registry validation passed.", "kinds", a.registry.Len())

	a.executor = localexecutor.New(localsession.NewFactory(a.topology, a.states), a.registry)
	return a, nil
}

// resetNodeStates clears state left behind by an earlier process, such as a
// busy flag from a run that crashed mid-action.
func (a *App) resetNodeStates(ctx context.Context) error {
	for _, spec := range a.flow.Nodes {
		if err := a.states.Reset(ctx, spec.ID); err != nil {
			return fmt.Errorf("failed to reset node state: %w", err)
		}
	}
	return nil
}

func (a *App) newNodeStore(ctx context.Context) (nodestore.Store, error) {
	if a.config.StatusStore != StoreRedis {
		return inmemorystore.New(), nil
	}
	store, err := redisstore.Connect(ctx, a.env.RedisURL, a.flow.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to connect status store: %w", err)
	}
	a.closers = append(a.closers, store.Close)
	ctxlog.FromContext(ctx).Info("Node status is published to redis.", "flow", a.flow.Name)
	return store.WithTTL(a.env.RedisTTL), nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Graph returns the live graph, which hosts may edit between and during runs.
func (a *App) Graph() *graph.Manager {
	return a.live
}

// Flow returns the loaded flow definition.
func (a *App) Flow() *config.Flow {
	return a.flow
}

// Close releases connections held by the app.
func (a *App) Close() error {
	var errs []error
	if err := a.closeHealthCheckServer(); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, a.closeAll())
	return errors.Join(errs...)
}

func (a *App) closeAll() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
