package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/vango-dev/livetree/internal/config"
	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/element"
	"github.com/vango-dev/livetree/pkg/reactive"
)

func demoCmd(opts *options) *cobra.Command {
	var comments bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the scripted todo list",
		Long: `Build a todo list bound to signals, play a fixed sequence of changes
against it and print every lifecycle and native event the watched root
reported, followed by the final HTML.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			d := newDemo(cfg, cfg.Logger(cmd.ErrOrStderr()))
			d.Mount()
			for _, s := range script {
				d.Play(s)
			}

			printDemoEvents(w, d.events)
			fmt.Fprintln(w)
			if err := dom.RenderHTML(w, d.app.root, dom.RenderOptions{Comments: comments}); err != nil {
				return err
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w)

			stats := d.rt.Stats()
			success(w, "%d steps played", len(script))
			info(w, "effects created %d, runs %d, disposed %d", stats.EffectsCreated, stats.EffectRuns, stats.EffectsDisposed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&comments, "comments", false, "Include region sentinels in the HTML")

	return cmd
}

// demoEvent is one event reported while a step ran.
type demoEvent struct {
	Step   string
	Kind   string
	Type   string
	Target string
}

// demo is a todo app mounted on a watched document body.
type demo struct {
	doc *dom.Document
	rt  *reactive.Runtime
	g   *element.Group
	app *todoApp

	current string
	keep    bool
	events  []demoEvent
	watch   []func(element.Event)
}

func newDemo(cfg *config.Config, logger *slog.Logger, opts ...element.Option) *demo {
	d := &demo{
		doc:  dom.NewDocument(),
		rt:   reactive.NewRuntime(),
		keep: true,
	}
	opts = append(cfg.GroupOptions(), append(opts, element.WithLogger(logger))...)
	d.g = element.NewGroup(d.doc, d.rt, opts...)
	d.g.WatchRoot(d.doc.Body(), d.observe)

	d.app = newTodoApp(d.g)
	return d
}

// Mount attaches the app to the body.
func (d *demo) Mount() {
	d.current = "mount"
	_ = d.doc.Body().AppendChild(d.app.root)
	d.doc.Flush()
}

// Play runs s and delivers the mutations it caused.
func (d *demo) Play(s step) {
	d.current = s.name
	s.run(d.app)
	d.doc.Flush()
}

func (d *demo) observe(ev element.Event) {
	if d.keep {
		kind := "native"
		if _, ok := ev.(element.LifecycleEvent); ok {
			kind = "lifecycle"
		}
		d.events = append(d.events, demoEvent{
			Step:   d.current,
			Kind:   kind,
			Type:   ev.Type(),
			Target: dom.Describe(ev.Target()),
		})
	}
	for _, fn := range d.watch {
		fn(ev)
	}
}

func printDemoEvents(w io.Writer, events []demoEvent) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("STEP"),
		text.FgHiCyan.Sprint("KIND"),
		text.FgHiCyan.Sprint("EVENT"),
		text.FgHiCyan.Sprint("TARGET"),
	})
	for _, ev := range events {
		typ := ev.Type
		switch ev.Type {
		case "add":
			typ = text.FgGreen.Sprint(typ)
		case "remove":
			typ = text.FgRed.Sprint(typ)
		}
		t.AppendRow(table.Row{ev.Step, ev.Kind, typ, ev.Target})
	}
	t.AppendFooter(table.Row{"", "", "total", len(events)})
	t.Render()
}
