package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"famedia/internal/config"
	appErrors "famedia/internal/errors"
	"famedia/internal/presets"
	"famedia/internal/server"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the processing API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := wire(*cfg)
			defer svc.Close()

			srv := server.New(*cfg, svc.pipeline, svc.fs, svc.logger)
			if err := srv.ListenAndServe(cmd.Context()); err != nil {
				return appErrors.Wrap(appErrors.IOFailure, "listen", cfg.ListenAddr, err)
			}
			return nil
		},
	}
}

func newPresetsCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the geotag presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := presets.Load(cfg.GeotagDataFile)
			if err != nil {
				return appErrors.Wrap(appErrors.IOFailure, "load presets", cfg.GeotagDataFile, err)
			}
			if len(catalog.Presets) == 0 {
				fmt.Fprintf(os.Stdout, "No presets in %s\n", cfg.GeotagDataFile)
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCOORDINATES\tPLACE")
			for _, p := range catalog.Presets {
				place := strings.Join(nonEmpty(p.Location, p.City, p.State, p.Country), ", ")
				fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, p.Coordinates, place)
			}
			return w.Flush()
		},
	}
}

func nonEmpty(values ...string) []string {
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
