package main

import (
	"context"
	"fmt"
	"image"

	"github.com/spf13/cobra"

	"github.com/bagtoad/papersynth/internal/composite"
	"github.com/bagtoad/papersynth/internal/imageio"
	"github.com/bagtoad/papersynth/internal/scanner"
)

type backgroundsOptions struct {
	handwritingDir string
	backgroundsDir string
	outputDir      string
	recolor        bool
	border         int
}

func newBackgroundsCmd(a *app) *cobra.Command {
	var opts backgroundsOptions

	cmd := &cobra.Command{
		Use:   "backgrounds",
		Short: "Paste handwriting onto photographs of real paper",
		Long: `backgrounds pastes every transparent PNG in --handwriting-dir onto a
randomly chosen photograph from --backgrounds-dir and writes the result as JPEG.

Most backgrounds are first trimmed by --border pixels on the top and left to
cut away notebook margins. With --add-handwriting-colors the ink is also
recoloured to red, blue or pencil grey, or left black.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.border < 0 {
				return fmt.Errorf("--border must not be negative, got %d", opts.border)
			}
			return runBackgrounds(cmd, a, opts)
		},
	}

	cmd.Flags().StringVar(&opts.handwritingDir, "handwriting-dir", "", "Directory of transparent handwriting PNGs")
	cmd.Flags().StringVar(&opts.backgroundsDir, "backgrounds-dir", "", "Directory of paper photographs (JPEG)")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "Directory the composites are written to")
	cmd.Flags().BoolVar(&opts.recolor, "add-handwriting-colors", false, "Recolour the ink with a random pen colour")
	cmd.Flags().IntVar(&opts.border, "border", composite.DefaultBorder, "Pixels trimmed from the top and left of most backgrounds")
	_ = cmd.MarkFlagRequired("handwriting-dir")
	_ = cmd.MarkFlagRequired("backgrounds-dir")
	_ = cmd.MarkFlagRequired("output-dir")

	return cmd
}

func runBackgrounds(cmd *cobra.Command, a *app, opts backgroundsOptions) error {
	bgs, err := scanner.Scan(opts.backgroundsDir, scanner.JPEGOnly)
	if err != nil {
		return fmt.Errorf("cannot read backgrounds: %w", err)
	}
	a.log.Infow("backgrounds found", "dir", opts.backgroundsDir, "count", len(bgs.ImagePaths))

	in, err := a.scan(opts.handwritingDir, scanner.PNGOnly)
	if err != nil {
		return err
	}

	cache := imageio.NewCache()
	comp, err := composite.New(a.newSource(), cache, bgs.ImagePaths, composite.Options{
		Recolor: opts.recolor,
		Border:  opts.border,
	})
	if err != nil {
		return err
	}

	err = a.process(cmd.Context(), cmd.OutOrStdout(), in, opts.outputDir, ".jpg",
		func(_ context.Context, path string) (image.Image, string, error) {
			glyph, err := imageio.Open(path)
			if err != nil {
				return nil, "", err
			}
			out, p, err := comp.Compose(glyph)
			if err != nil {
				return nil, "", err
			}
			return out, p.String(), nil
		},
	)
	a.log.Debugw("background cache", "decoded", cache.Len())
	return err
}
