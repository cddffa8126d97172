package watch

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/milk9111/tiledjson/tiled"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const DefaultDebounce = 100 * time.Millisecond

var DefaultExtensions = []string{".json", ".tmj"}

// Reload is published after a watched map changes. Err is set when the new
// contents failed to decode; Map is nil in that case.
type Reload struct {
	Path string
	Map  *tiled.Map
	Err  error
}

type Options struct {
	Extensions []string
	Debounce   time.Duration
	Logger     *zerolog.Logger
}

// Watcher decodes Tiled maps again whenever they change on disk.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan Reload
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once

	extensions []string
	debounce   time.Duration
	logger     zerolog.Logger
}

func NewWatcher(opts Options, dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "watch: new watcher")
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, errors.Wrapf(err, "watch: add %s", dir)
		}
	}

	watcher := &Watcher{
		watcher:    w,
		Events:     make(chan Reload, 16),
		Errors:     make(chan error, 1),
		closeCh:    make(chan struct{}),
		extensions: opts.Extensions,
		debounce:   opts.Debounce,
		logger:     zerolog.Nop(),
	}
	if len(watcher.extensions) == 0 {
		watcher.extensions = DefaultExtensions
	}
	if watcher.debounce <= 0 {
		watcher.debounce = DefaultDebounce
	}
	if opts.Logger != nil {
		watcher.logger = opts.Logger.With().Str("component", "watch").Logger()
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)

	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !w.isMapFile(event.Name) {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < w.debounce {
				continue
			}
			last[event.Name] = now
			if !w.publish(w.reload(event.Name)) {
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			case <-w.closeCh:
				return
			}
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) reload(path string) Reload {
	m, err := tiled.DecodeFile(path)
	if err != nil {
		ev := w.logger.Warn().Err(err).Str("path", path)
		if kind, ok := tiled.KindOf(err); ok {
			ev = ev.Stringer("kind", kind)
		}
		ev.Msg("map reload failed")
		return Reload{Path: path, Err: err}
	}
	w.logger.Info().Str("path", path).Int("layers", len(m.Layers)).Msg("map reloaded")
	return Reload{Path: path, Map: m}
}

func (w *Watcher) publish(r Reload) bool {
	select {
	case w.Events <- r:
		return true
	case <-w.closeCh:
		return false
	}
}

func (w *Watcher) isMapFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(w.extensions, ext)
}
