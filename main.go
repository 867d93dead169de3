package main

import (
	"Inkwell/backend/editor"
	"Inkwell/backend/editor/impl"
	"Inkwell/backend/script"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"
)

func main() {
	log := newLogger(os.Stderr, zerolog.InfoLevel)

	app := &cli.App{
		Name:  "inkwell",
		Usage: "replay scripted editing sessions on a rich text editor core",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "TOML configuration file",
				EnvVars: []string{editor.EnvPrefix + "CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "run a TOML or YAML editing script and print the resulting document",
				ArgsUsage: "<script>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "dump", Usage: "dump the exported document tree"},
					&cli.BoolFlag{Name: "watch", Aliases: []string{"w"}, Usage: "run again every time the script changes"},
				},
				Action: runAction,
			},
			{
				Name:   "config",
				Usage:  "print the effective configuration",
				Action: configAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("inkwell failed")
	}
}

func loadConfiguration(c *cli.Context) (editor.Configuration, error) {
	conf, err := editor.LoadConfiguration(c.String("config"))
	if err != nil {
		return conf, xerrors.Errorf("failed to load configuration: %w", err)
	}
	conf.LogOutput = c.App.ErrWriter
	return conf, nil
}

func runAction(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return xerrors.Errorf("missing script path")
	}

	conf, err := loadConfiguration(c)
	if err != nil {
		return err
	}
	log := newLogger(c.App.ErrWriter, conf.LogLevel)
	runner := script.NewRunner(conf, log)

	run := func() error {
		s, err := script.Load(path)
		if err != nil {
			return err
		}
		res, err := runner.Run(s)
		if err != nil {
			return err
		}
		printResult(c.App.Writer, res, c.Bool("dump"))
		if c.Bool("metrics") {
			fmt.Fprintln(c.App.Writer, strings.Repeat("-", 40))
			return impl.WriteMetrics(c.App.Writer, prometheus.DefaultGatherer)
		}
		return nil
	}

	if !c.Bool("watch") {
		return run()
	}

	if err := run(); err != nil {
		log.Error().Err(err).Msg("run failed")
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	return script.Watch(ctx, path, log, func() {
		if err := run(); err != nil {
			log.Error().Err(err).Msg("run failed")
		}
	})
}

func configAction(c *cli.Context) error {
	conf, err := loadConfiguration(c)
	if err != nil {
		return err
	}
	data, err := conf.Export()
	if err != nil {
		return xerrors.Errorf("failed to export configuration: %v", err)
	}
	_, err = c.App.Writer.Write(data)
	return err
}

func printResult(w io.Writer, res script.Result, dump bool) {
	fmt.Fprintf(w, "leaves: %q\n", res.Leaves)
	fmt.Fprintf(w, "undo: %d redo: %d handled: %d\n", res.UndoDepth, res.RedoDepth, res.Handled)
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintln(w, res.Text)
	if dump {
		spew.Fdump(w, res.Document)
	}
}

// Helper functions

func newLogger(out io.Writer, level zerolog.Level) zerolog.Logger {
	logIO := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(logIO).With().Timestamp().Logger().Level(level)
}
