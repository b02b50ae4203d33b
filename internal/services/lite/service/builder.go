// Package service builds lite data files
package service

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/mguthriem/sxl4snap/internal/adapters/nexus"
	"github.com/mguthriem/sxl4snap/internal/core/geometry"
	"github.com/mguthriem/sxl4snap/internal/core/superpixel"
	perr "github.com/mguthriem/sxl4snap/internal/platform/errors"
	"github.com/mguthriem/sxl4snap/internal/platform/logger"
	"github.com/mguthriem/sxl4snap/internal/platform/metrics"
	"github.com/mguthriem/sxl4snap/internal/services/lite/domain"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Config for the builder
type Config struct {
	Factor  superpixel.Factor
	Workers int
}

// Builder implements domain.BuilderPort
type Builder struct {
	opener  nexus.Opener
	factor  superpixel.Factor
	mapping superpixel.Mapping
	workers int
	log     *logger.Logger
}

// NewBuilder validates cfg once; a zero Workers means one
func NewBuilder(op nexus.Opener, cfg Config) (*Builder, error) {
	if op == nil {
		return nil, perr.InvalidArgf("lite builder: opener is required")
	}
	m, err := superpixel.NewMapping(cfg.Factor)
	if err != nil {
		return nil, err
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Builder{
		opener:  op,
		factor:  cfg.Factor,
		mapping: m,
		workers: cfg.Workers,
		log:     logger.Named("lite"),
	}, nil
}

// Build writes the lite copy of src to dst. An existing dst is left untouched
// and reported as skipped. dst only ever appears complete: work happens on a
// temporary sibling that is renamed into place last and removed on failure
func (b *Builder) Build(ctx context.Context, src, dst string) (res domain.Result, err error) {
	start := time.Now()
	res.Path = dst

	if _, serr := os.Stat(dst); serr == nil {
		metrics.LiteBuilds.WithLabelValues(string(domain.StatusSkipped)).Inc()
		logger.C(ctx, b.log).Info().Str("dst", dst).Msg("lite file exists, skipping")
		return domain.Result{Status: domain.StatusSkipped, Path: dst}, nil
	} else if !os.IsNotExist(serr) {
		return res, perr.IOf(serr, "stat %s", dst)
	}

	res.BuildID = uuid.NewString()
	ctx = logger.WithBuild(ctx, res.BuildID)
	log := logger.C(ctx, b.log)

	defer func() {
		if err != nil {
			metrics.LiteBuilds.WithLabelValues(string(domain.StatusFailed)).Inc()
			log.Debug().Err(err).Str("src", src).Msg("lite build failed")
			return
		}
		res.Duration = time.Since(start)
		metrics.LiteBuilds.WithLabelValues(string(domain.StatusBuilt)).Inc()
		metrics.LiteBuildDuration.Observe(res.Duration.Seconds())
	}()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return res, perr.IOf(err, "create %s", filepath.Dir(dst))
	}

	tmp := filepath.Join(filepath.Dir(dst), "."+filepath.Base(dst)+"."+res.BuildID+".tmp")
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	n, err := copyFile(ctx, src, tmp)
	if err != nil {
		return res, err
	}
	res.Bytes = n
	log.Info().Str("src", src).Str("size", humanize.Bytes(uint64(n))).Msg("copied raw file")

	events, err := b.mutate(ctx, tmp)
	if err != nil {
		return res, err
	}
	res.Panels = len(superpixel.Panels())
	res.Events = events

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if err := os.Rename(tmp, dst); err != nil {
		return res, perr.IOf(err, "rename %s", dst)
	}
	res.Status = domain.StatusBuilt

	log.Info().
		Str("dst", dst).
		Str("events", humanize.Comma(events)).
		Dur("elapsed", time.Since(start)).
		Msg("lite file built")
	return res, nil
}

// mutate remaps every panel and rewrites the geometry text of the copy at path
func (b *Builder) mutate(ctx context.Context, path string) (events int64, err error) {
	c, err := b.opener.Open(path, nexus.ReadWrite)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	var total atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for _, panel := range superpixel.Panels() {
		if gctx.Err() != nil {
			break
		}
		panel := panel
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p := superpixel.EventIDPath(panel)
			ids, err := c.ReadUint32s(p)
			if err != nil {
				return perr.WithOp(err, "lite.remap")
			}
			b.mapping.Remap(ids)
			if err := c.WriteUint32s(p, ids); err != nil {
				return perr.WithOp(err, "lite.remap")
			}
			total.Add(int64(len(ids)))
			metrics.PanelEvents.WithLabelValues(panel).Add(float64(len(ids)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	text, err := c.ReadString(geometry.DataPath)
	if err != nil {
		return 0, err
	}
	text, err = geometry.Rewrite(text, b.factor)
	if err != nil {
		return 0, err
	}
	if err := c.WriteString(geometry.DataPath, text); err != nil {
		return 0, err
	}
	return total.Load(), nil
}

// copyFile byte-copies src to a new file dst and syncs it
func copyFile(ctx context.Context, src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, perr.Wrapf(err, perr.ErrorCodeDataFileNotFound, "source %s", src)
		}
		return 0, perr.IOf(err, "open %s", src)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, perr.IOf(err, "create %s", dst)
	}
	n, err := io.Copy(out, ctxReader{ctx: ctx, r: in})
	if err == nil {
		err = out.Sync()
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if ctx.Err() != nil {
			return n, ctx.Err()
		}
		return n, perr.IOf(err, "copy %s", src)
	}
	return n, nil
}

// ctxReader stops a copy between reads once ctx is done
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
