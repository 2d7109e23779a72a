// Package batch runs a per-image transform over a list of input files.
package batch

import (
	"context"
	"fmt"
	"image"

	"github.com/bagtoad/papersynth/internal/logger"
	"github.com/bagtoad/papersynth/internal/writer"
)

// Transform produces the output image for one input file, plus a short
// description of the random parameters it chose.
type Transform func(ctx context.Context, path string) (image.Image, string, error)

// Options controls a run.
type Options struct {
	// KeepGoing logs and records a failing file instead of stopping the run.
	KeepGoing bool
	// Ext overrides the output extension; empty keeps the input's.
	Ext string
	// Progress, if set, is called before each file.
	Progress func(current, total int)
}

// Result records what happened to a single file.
type Result struct {
	Path       string
	OutputPath string
	Params     string
	Failed     bool
	Err        error
}

// Run applies fn to every path in order and writes each output through w.
// Without KeepGoing the first failure stops the run and is returned along
// with the results so far. A cancelled context stops the run between files.
func Run(ctx context.Context, log *logger.Logger, paths []string, w *writer.Writer, opts Options, fn Transform) ([]Result, error) {
	results := make([]Result, 0, len(paths))

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if opts.Progress != nil {
			opts.Progress(i+1, len(paths))
		}

		res, err := runOne(ctx, path, w, opts.Ext, fn)
		if err != nil {
			if !opts.KeepGoing {
				return results, fmt.Errorf("%s: %w", path, err)
			}
			log.Warnw("skipping image", "path", path, "error", err)
			results = append(results, Result{Path: path, Failed: true, Err: err})
			continue
		}

		log.Debugw("processed image", "path", path, "output", res.OutputPath, "params", res.Params)
		results = append(results, res)
	}

	return results, nil
}

func runOne(ctx context.Context, path string, w *writer.Writer, ext string, fn Transform) (Result, error) {
	img, params, err := fn(ctx, path)
	if err != nil {
		return Result{}, err
	}
	dest, err := w.Write(img, path, ext)
	if err != nil {
		return Result{}, err
	}
	return Result{Path: path, OutputPath: dest, Params: params}, nil
}

// Failed returns the results that did not produce an output.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Failed {
			failed = append(failed, r)
		}
	}
	return failed
}
