package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastui/internal/adapter/input"
	"github.com/jmylchreest/toastui/internal/adapter/output"
	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/desktop"
	"github.com/jmylchreest/toastui/internal/dom"
	"github.com/jmylchreest/toastui/internal/eventloop"
	"github.com/jmylchreest/toastui/internal/layout"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
)

var notifyOpts struct {
	kind       string
	format     string
	template   string
	bodyMaxLen int
	stdin      bool
	desktop    bool
}

var notifyCmd = &cobra.Command{
	Use:   "notify [MESSAGE...]",
	Short: "Run toasts headlessly and print their lifecycle",
	Long: `Raise toasts without a page and print every lifecycle step.

Each toast runs with the configured timings and exits once all of them are
removed. Interrupting closes the remaining toasts first.

Requests can be read from stdin as a JSON array, one JSON object per line,
or plain "kind: message" lines.

Examples:
  # A single success toast
  toastui notify --kind success "Profile saved"

  # JSON lines, also shown on the desktop
  toastui notify -o json --desktop "Build finished"

  # Batch from stdin
  printf 'error: disk full\nwarning: low battery\n' | toastui notify --stdin

  # Custom template
  toastui notify -o text --template '{{.State}} {{.Message}}' "hello"`,
	RunE: runNotify,
}

func init() {
	rootCmd.AddCommand(notifyCmd)

	notifyCmd.Flags().StringVarP(&notifyOpts.kind, "kind", "k", string(model.KindInfo),
		"Toast kind (success, error, warning, info)")
	notifyCmd.Flags().StringVarP(&notifyOpts.format, "output", "o", string(output.FormatText),
		"Output format (text, json, yaml, ids)")
	notifyCmd.Flags().StringVar(&notifyOpts.template, "template", "",
		"Go template for text output")
	notifyCmd.Flags().IntVar(&notifyOpts.bodyMaxLen, "body-max-len", 0,
		"Truncate messages in text output (0=unlimited)")
	notifyCmd.Flags().BoolVar(&notifyOpts.stdin, "stdin", false,
		"Read requests from stdin")
	notifyCmd.Flags().BoolVar(&notifyOpts.desktop, "desktop", false,
		"Mirror toasts to the desktop notification daemon")
}

func runNotify(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var requests []input.Request
	if notifyOpts.stdin {
		var err error
		requests, err = input.NewStdinAdapter().Import(ctx)
		if err != nil {
			return err
		}
	}
	if msg := strings.TrimSpace(strings.Join(args, " ")); msg != "" {
		requests = append(requests, input.Request{Kind: model.ParseKind(notifyOpts.kind), Message: msg})
	}
	if len(requests) == 0 {
		return fmt.Errorf("nothing to show: pass a message or --stdin")
	}

	formatter, err := output.NewFormatter(output.FormatType(notifyOpts.format), output.FormatterOptions{
		Template:   notifyOpts.template,
		BodyMaxLen: notifyOpts.bodyMaxLen,
	})
	if err != nil {
		return err
	}

	lay, err := layout.NewLoader(config.LayoutsDir(), logger).Load(cfg.Toast.Layout)
	if err != nil {
		logger.Warn("falling back to default layout", "layout", cfg.Toast.Layout, "error", err)
		lay = nil
	}

	params := headlessParams{
		requests:  requests,
		options:   toast.OptionsFromConfig(cfg, lay),
		formatter: formatter,
		out:       cmd.OutOrStdout(),
		appName:   cfg.Desktop.AppName,
		logger:    logger,
	}

	if notifyOpts.desktop || cfg.Desktop.Mirror {
		bus, err := desktop.ConnectSession()
		if err != nil {
			logger.Warn("desktop mirroring disabled", "error", err)
		} else {
			defer func() { _ = bus.Close() }()
			params.bus = bus
		}
	}

	return runHeadless(ctx, params)
}

type headlessParams struct {
	requests  []input.Request
	options   toast.Options
	formatter output.Formatter
	out       io.Writer
	bus       desktop.Bus
	appName   string
	logger    *slog.Logger
}

// runHeadless drives the requested toasts on an event loop until every one
// has been removed. Cancelling ctx closes whatever is still on screen.
func runHeadless(ctx context.Context, p headlessParams) error {
	if p.logger == nil {
		p.logger = slog.Default()
	}

	loop := eventloop.NewLoop(p.logger)
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = loop.Run(context.Background())
	}()
	defer func() {
		loop.Stop()
		<-loopDone
	}()

	// Everything below the Post runs on the loop goroutine.
	var (
		mgr      *toast.Manager
		mirror   *desktop.Mirror
		writeErr error
	)
	remaining := len(p.requests)
	finished := make(chan struct{})

	emit := func(t *toast.Toast, ev string) {
		if err := p.formatter.Format(p.out, output.NewRecord(t, ev, loop.Now())); err != nil && writeErr == nil {
			writeErr = err
		}
	}

	loop.Post(func() {
		mgr = toast.NewManager(dom.NewDocument(), loop, p.options, p.logger)
		mgr.AddObserver(toast.ObserverFuncs{
			Shown: func(t *toast.Toast) { emit(t, "") },
			Transitioned: func(t *toast.Toast, _, _ model.State, ev toast.Event) {
				emit(t, ev.String())
			},
			Removed: func(*toast.Toast, toast.CloseReason) {
				remaining--
				if remaining == 0 {
					close(finished)
				}
			},
		})
		if p.bus != nil {
			mirror = desktop.NewMirror(p.bus, loop, mgr, p.appName, p.options.AutoDismiss, p.logger)
			mirror.Start(ctx)
			mgr.AddObserver(mirror)
		}
		for _, r := range p.requests {
			mgr.Notify(string(r.Kind), r.Message)
		}
	})

	select {
	case <-finished:
	case <-ctx.Done():
		loop.Post(func() {
			for _, t := range mgr.Active() {
				mgr.Close(t.ID(), toast.CloseReasonClosed)
			}
		})
		select {
		case <-finished:
		case <-time.After(p.options.ExitAnimation + time.Second):
			p.logger.Warn("toasts did not finish closing")
		}
	}

	type result struct {
		err    error
		mirror *desktop.Mirror
	}
	resCh := make(chan result, 1)
	if !loop.Post(func() { resCh <- result{err: writeErr, mirror: mirror} }) {
		return nil
	}
	res := <-resCh
	if res.mirror != nil {
		drainCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := res.mirror.Wait(drainCtx); err != nil {
			p.logger.Warn("desktop notifications still pending at exit", "error", err)
		}
	}
	return res.err
}
