package main

import (
	"context"
	"fmt"
	"iter"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"famedia/internal/config"
	"famedia/internal/domain"
	appErrors "famedia/internal/errors"
	"famedia/internal/metadata"
	"famedia/internal/presentation"
	"famedia/internal/presets"
	"famedia/internal/tui"
)

type processOptions struct {
	dir       string
	recursive bool
	move      bool
	geotag    bool
	override  bool
	preset    string
	input     metadata.GeotagInput
	plain     bool
}

func newProcessCmd(cfg *config.Config) *cobra.Command {
	opts := &processOptions{}

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Process one directory of media files",
		Long: `Process renames extensions, writes title, date, tags and author metadata
parsed from each file name ("YYYY-MM-DDThh.mm.ss - Title [tag;Parent.Child]"),
sets the file times and optionally moves everything into the archive.
The first error stops the batch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd.Context(), *cfg, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.dir, "dir", "d", "", "Directory to process, as shown to users (defaults to the media root)")
	f.BoolVarP(&opts.recursive, "recursive", "r", false, "Include all subdirectories")
	f.BoolVarP(&opts.move, "move", "m", false, "Move processed files into the archive (requires --enable-move)")
	f.BoolVarP(&opts.geotag, "geotag", "g", false, "Write a location into every file")
	f.BoolVar(&opts.override, "override", false, "Replace positions already present in files")
	f.StringVarP(&opts.preset, "preset", "p", "", "Geotag preset name from the geotag data file")
	f.StringVar(&opts.input.Coordinates, "coordinates", "", `Geotag coordinates as "lat, lon"`)
	f.StringVar(&opts.input.Location, "location", "", "Geotag location name")
	f.StringVar(&opts.input.City, "city", "", "Geotag city")
	f.StringVar(&opts.input.State, "state", "", "Geotag state or region")
	f.StringVar(&opts.input.Country, "country", "", `Geotag country as "Name - CODE"`)
	f.BoolVar(&opts.plain, "plain", false, "Print plain progress lines instead of the interactive view")

	return cmd
}

func (o *processOptions) batch(cfg config.Config) (domain.Batch, error) {
	dir := o.dir
	if dir == "" {
		dir = cfg.ExternalMediaDir
	}
	b := domain.Batch{
		SelectedDirectory: dir,
		Recursive:         o.recursive,
		MoveSelected:      o.move,
		GeotagEnabled:     o.geotag,
	}
	if !o.geotag {
		return b, nil
	}

	in := o.input
	if o.preset != "" {
		catalog, err := presets.Load(cfg.GeotagDataFile)
		if err != nil {
			return domain.Batch{}, fmt.Errorf("loading geotag data: %w", err)
		}
		p, err := catalog.Find(o.preset)
		if err != nil {
			return domain.Batch{}, err
		}
		in = mergeInput(in, p.GeotagInput)
	}

	geo, err := metadata.ParseGeotagInput(in, o.override)
	if err != nil {
		return domain.Batch{}, err
	}
	b.Geotag = &geo
	return b, nil
}

// mergeInput keeps every field set on the command line and takes the rest from the preset.
func mergeInput(flags, preset metadata.GeotagInput) metadata.GeotagInput {
	pick := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	}
	return metadata.GeotagInput{
		Coordinates: pick(flags.Coordinates, preset.Coordinates),
		Location:    pick(flags.Location, preset.Location),
		City:        pick(flags.City, preset.City),
		State:       pick(flags.State, preset.State),
		Country:     pick(flags.Country, preset.Country),
	}
}

func runProcess(ctx context.Context, cfg config.Config, opts *processOptions) error {
	batch, err := opts.batch(cfg)
	if err != nil {
		return appErrors.Wrap(appErrors.InvalidConfig, "process", "", err)
	}
	if batch.MoveSelected && !cfg.EnableMoveFiles {
		fmt.Fprintln(os.Stderr, "Warning: --move is ignored because moving files is not enabled (--enable-move / ENABLE_MOVE_FILES).")
	}

	svc := wire(cfg)
	defer svc.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := svc.pipeline.Run(ctx, batch)

	var summary presentation.Summary
	if opts.plain || !isatty.IsTerminal(os.Stdout.Fd()) {
		printer := presentation.Printer{Writer: os.Stdout, Verbose: cfg.Verbose}
		summary, err = printer.Stream(events)
		if err != nil {
			return appErrors.Wrap(appErrors.IOFailure, "write", "stdout", err)
		}
		printer.PrintSummary(summary)
	} else {
		summary, err = runInteractive(ctx, cancel, cfg, batch, events)
		if err != nil {
			return appErrors.Wrap(appErrors.Internal, "tui", "", err)
		}
		presentation.Printer{Writer: os.Stdout, Verbose: cfg.Verbose}.PrintSummary(summary)
	}

	if summary.Aborted || summary.Final == "" {
		return errEndedEarly
	}
	return nil
}

// runInteractive drains events on a goroutine and renders them with the
// terminal UI. Quitting the UI cancels the batch.
func runInteractive(ctx context.Context, cancel context.CancelFunc, cfg config.Config, batch domain.Batch, events iter.Seq[domain.Event]) (presentation.Summary, error) {
	ch := make(chan domain.Event)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer close(ch)
		for ev := range events {
			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	model := tui.NewModel(tui.Config{
		AppName:   cfg.AppName,
		SourceDir: batch.SelectedDirectory,
		TargetDir: cfg.ExternalMoveToDir,
		Move:      cfg.EnableMoveFiles && batch.MoveSelected,
		Verbose:   cfg.Verbose,
		Events:    ch,
	})

	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	cancel()
	<-done
	if err != nil {
		return presentation.Summary{}, err
	}
	return final.(tui.Model).Summary, nil
}
