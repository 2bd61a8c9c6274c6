package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/patentsim/internal/config"
	logpkg "github.com/kailas-cloud/patentsim/internal/logger"
	"github.com/kailas-cloud/patentsim/internal/metrics"
	"github.com/kailas-cloud/patentsim/internal/version"
)

const stateKey = "patentsim.state"

// appState is built once in the Before hook and shared by every command.
type appState struct {
	env    string
	cfg    config.Config
	logger *zap.Logger
}

func main() {
	// .env is optional; it must be loaded before flags read $ENV.
	_ = godotenv.Load(".env")

	if err := newApp(os.Stdin, os.Stdout).Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp(in io.Reader, out io.Writer) *cli.App {
	return &cli.App{
		Name:    "patentsim",
		Usage:   "Scrape patents and rank them by abstract similarity",
		Version: version.Version,
		Reader:  in,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env",
				Usage:   "Environment name, selects config/{env}.yaml and the log format",
				EnvVars: []string{"ENV"},
				Value:   "local",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Explicit path to a YAML config file",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
			},
		},
		Before: setup,
		After:  teardown,
		Commands: []*cli.Command{
			serveCmd(),
			ingestCmd(),
			queryCmd(),
			{
				Name:  "version",
				Usage: "Print build information",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprintf(c.App.Writer, "patentsim %s (commit %s, built %s)\n",
						version.Version, version.Commit, version.Date)
					return err
				},
			},
		},
	}
}

func setup(c *cli.Context) error {
	env := c.String("env")

	cfg, err := loadConfig(c.String("config"), env)
	if err != nil {
		return err
	}

	level := c.String("log-level")
	if level == "" {
		level = cfg.Logging.Level
	}
	log, err := logpkg.New(logpkg.Config{Env: env, Level: level})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	metrics.RegisterEncoderMetrics()
	metrics.RegisterCorpusMetrics()
	metrics.RegisterHTTPMetrics()

	if c.App.Metadata == nil {
		c.App.Metadata = map[string]any{}
	}
	c.App.Metadata[stateKey] = &appState{env: env, cfg: cfg, logger: log}
	return nil
}

func teardown(c *cli.Context) error {
	if st := stateFrom(c); st != nil {
		_ = st.logger.Sync()
	}
	return nil
}

func stateFrom(c *cli.Context) *appState {
	st, _ := c.App.Metadata[stateKey].(*appState)
	return st
}

// loadConfig reads an explicit path when given. Otherwise it reads
// config/{env}.yaml and falls back to built-in defaults when that file is absent.
func loadConfig(path, env string) (config.Config, error) {
	if path != "" {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}

	cfg, err := config.Load(env)
	if errors.Is(err, fs.ErrNotExist) {
		var def config.Config
		def.ApplyDefaults()
		return def, nil
	}
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
