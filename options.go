package xlbudget

import "log/slog"

// Options holds engine configuration.
type Options struct {
	table             *MappingTable
	overviews         []OverviewSpec
	logger            *slog.Logger
	dryRun            bool
	rollbackOnFailure bool
}

func defaultOptions() *Options {
	return &Options{logger: slog.Default()}
}

// Option configures the Engine.
type Option func(*Options)

// WithMappingTable sets the static cell mapping table.
func WithMappingTable(table *MappingTable) Option {
	return func(o *Options) { o.table = table }
}

// WithOverview registers an overview sheet spec. Call once per overview
// sheet; each sheet carries its own row placement constant.
func WithOverview(spec OverviewSpec) Option {
	return func(o *Options) { o.overviews = append(o.overviews, spec) }
}

// WithConfig applies a loaded configuration file: its mapping table and all
// of its overview specs.
func WithConfig(cfg *Config) Option {
	return func(o *Options) {
		if table, err := NewMappingTable(cfg.Mappings); err == nil {
			o.table = table
		}
		o.overviews = append(o.overviews, cfg.Overviews...)
	}
}

// WithLogger sets the structured logger (default: slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDryRun runs the full pipeline, audit included, without mutating the
// document.
func WithDryRun(dry bool) Option {
	return func(o *Options) { o.dryRun = dry }
}

// WithRollbackOnFailure restores all applied cells when any cell in the
// batch fails to write.
func WithRollbackOnFailure(rollback bool) Option {
	return func(o *Options) { o.rollbackOnFailure = rollback }
}
