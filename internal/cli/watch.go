package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stepflow/pkg/pipeline"
)

// watchDebounce collapses the burst of events editors emit on save.
const watchDebounce = 100 * time.Millisecond

// watchCommand creates the watch command, which re-renders a record every
// time it changes on disk.
func (c *CLI) watchCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Re-render a process record whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			return c.runWatch(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s), comma-separated (default svg)")
	cmd.Flags().StringVar(&opts.background, "background", "", "SVG background colour, or \"none\" for transparent")
	cmd.Flags().BoolVar(&opts.hideLabels, "hide-labels", false, "omit edge labels")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include node metadata in Graphviz labels")

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, input string, opts renderOpts) error {
	render := func() {
		if err := c.runRender(ctx, input, opts); err != nil {
			printError("%s: %v", input, err)
		}
	}

	render()
	printInfo("Watching %s (ctrl+c to stop)", input)

	err := watchFile(ctx, input, watchDebounce, func() {
		c.Logger.Debug("file changed", "file", input)
		render()
	}, c.Logger.Error)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// watchFile calls onChange, at most once per debounce window, after path
// is written or recreated. It watches the parent directory so editors that
// save by rename are followed. onChange runs on the calling goroutine. It
// returns nil when ctx is cancelled.
func watchFile(ctx context.Context, path string, debounce time.Duration, onChange func(), onError func(msg any, keyvals ...any)) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	changed := make(chan struct{}, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if name, err := filepath.Abs(event.Name); err != nil || name != target {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounce, func() {
				select {
				case changed <- struct{}{}:
				default:
				}
			})

		case <-changed:
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onError("watcher error", "error", err)
		}
	}
}
