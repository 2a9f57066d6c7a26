package joborders

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"jobdesk/internal/bootstrap/logging"
	"jobdesk/internal/errs"
)

// WatchPresets reloads the presets file whenever it changes on disk, until ctx
// is done. The parent directory is watched so editors that replace the file
// are picked up. A file that fails to parse keeps the previous presets.
func (s *Service) WatchPresets(ctx context.Context, path string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("presets path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return errs.Wrapf(err, "resolve presets path %s", path)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errs.Wrap(err, "create presets watcher")
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return errs.Wrapf(err, "watch %s", filepath.Dir(abs))
	}

	ctx = logging.WithAttrs(s.scope(ctx), slog.String("path", path))
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				s.reloadPresets(ctx, abs)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logging.Warn(ctx, "presets watcher error", slog.Any("err", errs.Loggable(err)))
			}
		}
	}()
	return nil
}

func (s *Service) reloadPresets(ctx context.Context, path string) {
	presets, err := LoadPresets(path)
	if err != nil {
		logging.Warn(ctx, "presets reload rejected", slog.Any("err", errs.Loggable(err)))
		return
	}
	s.WithPresets(presets)
	logging.Info(ctx, "presets reloaded", slog.Int("count", len(presets)))
}
