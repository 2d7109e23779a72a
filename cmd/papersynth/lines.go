package main

import (
	"context"
	"fmt"
	"image"

	"github.com/spf13/cobra"

	"github.com/bagtoad/papersynth/internal/imageio"
	"github.com/bagtoad/papersynth/internal/lines"
	"github.com/bagtoad/papersynth/internal/palette"
)

type linesOptions struct {
	inputDir  string
	outputDir string
	colors    []string
	width     float64
}

func newLinesCmd(a *app) *cobra.Command {
	var opts linesOptions

	cmd := &cobra.Command{
		Use:   "lines",
		Short: "Draw ruled or graph paper lines over handwriting images",
		Long: `lines draws horizontal lines over every image in --input-dir, the way a
sheet of ruled paper would sit under the writing. Colour, width, line count
and slant are chosen at random per image; half the images also get vertical
lines and look like graph paper.

Line colours come from --line-color, then ~/.papersynth/colors.txt (one name
or hex value per line). Without either, each image gets red, blue or black at
random; pass --line-color k for black lines only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.width < 0 {
				return fmt.Errorf("--line-width must not be negative, got %g", opts.width)
			}
			return runLines(cmd, a, opts)
		},
	}

	cmd.Flags().StringVar(&opts.inputDir, "input-dir", "", "Directory of handwriting images")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "Directory the lined images are written to")
	cmd.Flags().StringSliceVar(&opts.colors, "line-color", nil, "Line colour: r, b, k, a name or #RRGGBB (repeatable)")
	cmd.Flags().Float64Var(&opts.width, "line-width", 0, "Fixed line width in pixels; 0 picks one per image")
	_ = cmd.MarkFlagRequired("input-dir")
	_ = cmd.MarkFlagRequired("output-dir")

	return cmd
}

func runLines(cmd *cobra.Command, a *app, opts linesOptions) error {
	colors, err := palette.Resolve(opts.colors)
	if err != nil {
		return fmt.Errorf("cannot resolve line colours: %w", err)
	}
	a.log.Debugw("line colours", "colors", colors)

	in, err := a.scan(opts.inputDir, nil)
	if err != nil {
		return err
	}

	src := a.newSource()
	overlay := lines.Options{Colors: colors, Width: opts.width}

	return a.process(cmd.Context(), cmd.OutOrStdout(), in, opts.outputDir, "",
		func(_ context.Context, path string) (image.Image, string, error) {
			img, err := imageio.Open(path)
			if err != nil {
				return nil, "", err
			}
			out, p := lines.Overlay(img, src, overlay)
			return out, p.String(), nil
		},
	)
}
