package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mariiatuzovska/floatmem/internal/config"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		verbose    bool
		flags      = config.Default()
	)

	cmd := &cobra.Command{
		Use:   "floatmem [flags] <file>",
		Short: "Sum the memory left by a masked initialization program",
		Long: `floatmem replays a program of "mask = ..." and "mem[a] = v" lines and
prints the sum of every value left in memory.

Decoder v1 masks written values. Decoder v2 masks addresses, where each X
in the mask floats that address bit over both values.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				var err error
				if cfg, err = config.Load(configPath); err != nil {
					return err
				}
			}
			fs := cmd.Flags()
			if fs.Changed("width") {
				cfg.Width = flags.Width
			}
			if fs.Changed("decoder") {
				cfg.Decoders = flags.Decoders
			}
			if fs.Changed("chunk") {
				cfg.ChunkSize = flags.ChunkSize
			}
			if fs.Changed("overlap") {
				cfg.Overlap = flags.Overlap
			}
			if fs.Changed("workers") {
				cfg.Workers = flags.Workers
			}
			if err := cfg.Validate(os.Getpagesize()); err != nil {
				return err
			}

			log := newLogger(cmd.ErrOrStderr(), verbose)
			log.Debug("reading file", "path", args[0], "config", cfg)

			f, size, err := openFile(args[0])
			if err != nil {
				return fmt.Errorf("cannot open file: %w", err)
			}
			defer f.Close()
			log.Debug("opened file", "MB", size/config.MB)

			app := &app{cfg: cfg, log: log}
			results, err := app.run(cmd.Context(), f, size)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(results) == 1 {
				fmt.Fprintln(out, results[0].sum)
				return nil
			}
			for _, r := range results {
				fmt.Fprintf(out, "%s: %d\n", r.decoder, r.sum)
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&configPath, "config", "c", "", "YAML config file")
	fs.BoolVarP(&verbose, "verbose", "v", false, "verbose mode")
	fs.IntVarP(&flags.Width, "width", "w", flags.Width, "bit width of masks, addresses and values")
	fs.StringSliceVarP(&flags.Decoders, "decoder", "d", flags.Decoders, "decoders to run (v1, v2)")
	fs.Int64Var(&flags.ChunkSize, "chunk", flags.ChunkSize, "number of bytes to be read into memory by worker")
	fs.Int64Var(&flags.Overlap, "overlap", flags.Overlap, "number of bytes to be added to the chunk per read for completing lines")
	fs.IntVarP(&flags.Workers, "workers", "n", flags.Workers, "number of parallel workers")
	return cmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
