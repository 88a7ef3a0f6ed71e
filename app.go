package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/mariiatuzovska/floatmem/internal/config"
	"github.com/mariiatuzovska/floatmem/internal/program"
)

type app struct {
	cfg config.Config
	log *slog.Logger
}

// result is the memory sum reported by one decoder.
type result struct {
	decoder string
	sum     uint64
}

func (app *app) run(ctx context.Context, f *os.File, size int64) ([]result, error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ops, err := app.parse(ctx, f, size)
	if err != nil {
		return nil, err
	}
	app.log.Debug("parsed program", "ops", len(ops))

	decoders := make([]program.Decoder, len(app.cfg.Decoders))
	for i, name := range app.cfg.Decoders {
		if decoders[i], err = program.NewDecoder(name); err != nil {
			return nil, err
		}
	}

	// replay is strictly sequential: later writes override earlier ones
	program.Replay(ops, decoders...)

	results := make([]result, len(decoders))
	for i, d := range decoders {
		results[i] = result{decoder: app.cfg.Decoders[i], sum: d.Sum()}
		if ad, ok := d.(*program.AddressDecoder); ok {
			app.log.Debug("ledger", "terms", ad.Terms())
		}
	}
	return results, nil
}

// parse maps the file chunk by chunk on a bounded pool of workers and returns
// the ops of every chunk in file order.
func (app *app) parse(ctx context.Context, f *os.File, size int64) ([]program.Op, error) {
	chunk := app.cfg.ChunkSize
	parser := program.NewParser(app.cfg.Width)

	// number of chunks, rounding up
	nchunks := (size + chunk - 1) / chunk
	parts := make([][]program.Op, nchunks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(app.cfg.Workers)
	for i := range nchunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			mm := memoryMap{
				f:       f,
				size:    size,
				chunk:   chunk,
				overlap: app.cfg.Overlap,
			}
			if err := mm.mmap(i); err != nil {
				return fmt.Errorf("map chunk %d: %w", i, err)
			}
			defer func() {
				if err := mm.munmap(); err != nil {
					app.log.Warn("unmap chunk", "chunk", i, "error", err)
				}
			}()
			app.log.Debug("worker: chunk", "chunk", i, "bytes", len(mm.b))

			ops, err := parseChunk(gctx, parser, mm.b, i, chunk, mm.atEOF(i))
			if err != nil {
				return fmt.Errorf("chunk %d: %w", i, err)
			}
			parts[i] = ops
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var n int
	for _, part := range parts {
		n += len(part)
	}
	ops := make([]program.Op, 0, n)
	for _, part := range parts {
		ops = append(ops, part...)
	}
	return ops, nil
}
