package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/go-drift/charts/pkg/errors"
	"github.com/go-drift/charts/pkg/logging"
)

type watchOptions struct {
	render   renderOptions
	debounce time.Duration
}

func newWatchCommand() *cobra.Command {
	opts := &watchOptions{}
	c := &cobra.Command{
		Use:   "watch <document>",
		Short: "Re-render a chart document whenever it changes",
		Long: `Watch a chart document and render it to PNG on every change.

Bursts of writes (editors often save in several steps) are collapsed into
a single render after the debounce window. Stop with Ctrl+C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := args[0]
			dst := opts.render.output
			if dst == "" {
				dst = defaultOutput(src, ".png")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer w.Close()
			// Watch the directory: editors replace files on save, which drops
			// a watch held on the file itself.
			if err := w.Add(filepath.Dir(src)); err != nil {
				return fmt.Errorf("watch %s: %w", filepath.Dir(src), err)
			}

			rerender := func() {
				if err := renderFile(src, dst, &opts.render); err != nil {
					logging.Logger().Error("render failed", slog.String("document", src), slog.Any("error", err))
					return
				}
				fmt.Fprintln(cmd.OutOrStdout(), dst)
			}
			rerender()
			return watchLoop(ctx, w, src, opts.debounce, rerender)
		},
	}
	c.Flags().StringVarP(&opts.render.output, "output", "o", "", "output PNG path (default: document name with .png)")
	c.Flags().StringVar(&opts.render.background, "background", "white", "image background color")
	c.Flags().DurationVar(&opts.debounce, "debounce", 200*time.Millisecond, "quiet period before re-rendering")
	return c
}

// watchLoop calls onChange once per burst of write or create events on
// target. It returns nil when ctx is done.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, target string, debounce time.Duration, onChange func()) error {
	target = filepath.Clean(target)

	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			logging.Logger().Debug("document changed", slog.String("path", event.Name), slog.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
			} else {
				timer.Reset(debounce)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logging.Logger().Warn("watcher error", slog.Any("error", err))

		case <-timerC:
			timer = nil
			timerC = nil
			runGuarded(onChange)
		}
	}
}

func runGuarded(fn func()) {
	defer errors.Recover("chartctl.watch")
	fn()
}
