package sheet

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/okian/pvsa/pkg/logger"
)

const defaultDebounce = 250 * time.Millisecond

// FileOption applies a configuration option to the FileSource.
type FileOption func(*FileSource)

// WithDebounce sets how long Watch waits for writes to settle.
func WithDebounce(d time.Duration) FileOption {
	return func(f *FileSource) {
		if d > 0 {
			f.debounce = d
		}
	}
}

// WithFileLogger sets a custom logger.
func WithFileLogger(l logger.Logger) FileOption {
	return func(f *FileSource) {
		if l != nil {
			f.logger = l
		}
	}
}

// FileSource reads a local export.
type FileSource struct {
	path     string
	debounce time.Duration
	logger   logger.Logger
}

// NewFileSource creates a source for path.
func NewFileSource(path string, opts ...FileOption) *FileSource {
	f := &FileSource{
		path:     filepath.Clean(path),
		debounce: defaultDebounce,
		logger:   logger.Get().Named("sheet-file"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name implements Source.
func (f *FileSource) Name() string { return "file" }

// Fetch reads the whole file.
func (f *FileSource) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return string(b), nil
}

// Watch signals after the file is written or replaced. Bursts of events
// within the debounce window produce one signal. The parent directory is
// watched so editors that save by rename are still seen.
func (f *FileSource) Watch(ctx context.Context) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWatch, err)
	}
	if err := w.Add(filepath.Dir(f.path)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("%w: %w", ErrWatch, err)
	}

	out := make(chan struct{}, 1)
	go f.watch(ctx, w, out)
	return out, nil
}

func (f *FileSource) watch(ctx context.Context, w *fsnotify.Watcher, out chan<- struct{}) {
	defer close(out)
	defer func() { _ = w.Close() }()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != f.path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(f.debounce)
			} else {
				timer.Reset(f.debounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			f.logger.Warn(ctx, "file watch error", logger.String("path", f.path), logger.Error(err))
		case <-fire:
			fire = nil
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}
}
