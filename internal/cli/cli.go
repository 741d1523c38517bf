// Package cli implements the storyloom command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/storyloom/internal/config"
	"github.com/matzehuels/storyloom/pkg/buildinfo"
	"github.com/matzehuels/storyloom/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "storyloom"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	cfg    *config.Config
	cfgErr error
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "storyloom",
		Short:        "Storyloom edits and plays branching stories",
		Long:         `Storyloom is a CLI tool for building choose-your-own-adventure stories as scene graphs: add and rewire scenes, inspect the branching structure, play a story in the terminal, and export it for sharing.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.newCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.addCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.rmCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration & Store Factory
// =============================================================================

// Config loads the TOML configuration once and caches the result.
func (c *CLI) Config() (config.Config, error) {
	if c.cfg == nil && c.cfgErr == nil {
		path, err := config.Path()
		if err != nil {
			c.cfgErr = err
		} else {
			cfg, err := config.Load(path)
			if err != nil {
				c.cfgErr = err
			} else {
				c.cfg = &cfg
			}
		}
	}
	if c.cfgErr != nil {
		return config.Config{}, c.cfgErr
	}
	return *c.cfg, nil
}

// openStore creates the story store selected by the configuration.
// Callers own the returned store and must Close it.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	cfg, err := c.Config()
	if err != nil {
		return nil, err
	}

	switch cfg.Store {
	case "", "file":
		return store.NewFileStore(cfg.StoryDir)
	case "memory":
		return store.NewMemoryStore(), nil
	case "redis":
		return store.NewRedisStore(ctx, store.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	case "mongo":
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}
}
