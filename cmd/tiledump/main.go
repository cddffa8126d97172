package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/milk9111/tiledjson/collision"
	"github.com/milk9111/tiledjson/config"
	"github.com/milk9111/tiledjson/levels"
	"github.com/milk9111/tiledjson/tiled"
	"github.com/milk9111/tiledjson/watch"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	levelName := flag.String("level", "", "embedded level name in levels/ (basename, .json optional)")
	watchMode := flag.Bool("watch", false, "keep running and reprint maps as they change")
	withCollision := flag.Bool("collision", false, "build collision geometry and report the shape count")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}
	if *debug {
		cfg.Log.Level = "debug"
	}
	cfg.Maps = append(cfg.Maps, flag.Args()...)

	logger := newLogger(cfg.Log)
	app := &dumper{out: os.Stdout, cfg: cfg, collision: *withCollision, logger: logger}

	failed := false
	if *levelName != "" {
		m, err := levels.LoadMap(*levelName)
		failed = app.report(*levelName, m, err) || failed
	}
	for _, path := range cfg.Maps {
		m, err := tiled.DecodeFile(path)
		failed = app.report(path, m, err) || failed
	}

	if !*watchMode {
		if failed {
			os.Exit(1)
		}
		return
	}
	if err := app.watch(); err != nil {
		logger.Fatal().Err(err).Msg("watch failed")
	}
}

func newLogger(cfg config.LogConfig) zerolog.Logger {
	var out io.Writer = os.Stderr
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	}
	// already validated by config.Load; unknown names fall back to info
	lvl, err := cfg.ParseLevel()
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

type dumper struct {
	out       io.Writer
	cfg       config.Config
	collision bool
	logger    zerolog.Logger
}

// report prints the summary for one decoded map and returns true on failure.
func (d *dumper) report(name string, m *tiled.Map, err error) bool {
	if err != nil {
		ev := d.logger.Error().Err(err).Str("map", name)
		if kind, ok := tiled.KindOf(err); ok {
			ev = ev.Stringer("kind", kind)
		}
		ev.Msg("decode failed")
		return true
	}

	var world *collision.World
	if d.collision {
		world, err = collision.NewWorld(m, collision.Options{
			TileLayers:   d.cfg.Collision.TileLayers,
			ObjectGroups: d.cfg.Collision.ObjectGroups,
			TileSize:     d.cfg.Collision.TileSize,
			Logger:       &d.logger,
		})
		if err != nil {
			d.logger.Error().Err(err).Str("map", name).Msg("collision failed")
			return true
		}
	}
	writeSummary(d.out, name, m, world)
	return false
}

func (d *dumper) watch() error {
	dirs := d.cfg.Watch.Dirs
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	w, err := watch.NewWatcher(watch.Options{
		Extensions: lowered(d.cfg.Watch.Extensions),
		Debounce:   d.cfg.Watch.Debounce,
		Logger:     &d.logger,
	}, dirs...)
	if err != nil {
		return err
	}
	defer w.Close()

	d.logger.Info().Strs("dirs", dirs).Msg("watching for map changes")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	defer signal.Stop(stop)

	for {
		select {
		case r, ok := <-w.Events:
			if !ok {
				return nil
			}
			d.report(r.Path, r.Map, r.Err)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			d.logger.Warn().Err(err).Msg("watcher error")
		case <-stop:
			return nil
		}
	}
}

func lowered(exts []string) []string {
	return lo.Map(exts, func(e string, _ int) string { return strings.ToLower(e) })
}
