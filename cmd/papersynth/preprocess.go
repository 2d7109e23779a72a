package main

import (
	"context"
	"fmt"
	"image"

	"github.com/spf13/cobra"

	"github.com/bagtoad/papersynth/internal/cleanup"
	"github.com/bagtoad/papersynth/internal/imageio"
)

type preprocessOptions struct {
	inputDir       string
	outputDir      string
	thresholdType  string
	thresholdValue int
	shadowKernel   int
	medianSize     int
}

func newPreprocessCmd(a *app) *cobra.Command {
	var opts preprocessOptions

	cmd := &cobra.Command{
		Use:   "preprocess",
		Short: "Denoise, remove shadows from and binarize scanned handwriting",
		Long: `preprocess cleans every image in --input-dir: a bilateral filter removes
noise, a dilation and median blur estimate the paper's shading so it can be
subtracted, and a threshold turns the page black and white.

--threshold-type simple cuts at --threshold-value; otsu picks the cut from
each image's histogram.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clean, err := opts.cleanupOptions()
			if err != nil {
				return err
			}
			return runPreprocess(cmd, a, opts, clean)
		},
	}

	d := cleanup.DefaultOptions()
	cmd.Flags().StringVar(&opts.inputDir, "input-dir", "", "Directory of scanned handwriting")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "Directory the cleaned images are written to")
	cmd.Flags().StringVar(&opts.thresholdType, "threshold-type", string(d.Type), "Threshold method: simple or otsu")
	cmd.Flags().IntVar(&opts.thresholdValue, "threshold-value", int(d.Value), "Cut for simple thresholding (0-255)")
	cmd.Flags().IntVar(&opts.shadowKernel, "shadow-kernel", d.ShadowKernel, "Side of the dilation window used to estimate shadows")
	cmd.Flags().IntVar(&opts.medianSize, "median-size", d.MedianSize, "Side of the median blur window used to estimate shadows")
	_ = cmd.MarkFlagRequired("input-dir")
	_ = cmd.MarkFlagRequired("output-dir")

	return cmd
}

func (o preprocessOptions) cleanupOptions() (cleanup.Options, error) {
	t, err := cleanup.ParseThresholdType(o.thresholdType)
	if err != nil {
		return cleanup.Options{}, err
	}
	if o.thresholdValue < 0 || o.thresholdValue > 255 {
		return cleanup.Options{}, fmt.Errorf("--threshold-value must be between 0 and 255, got %d", o.thresholdValue)
	}
	opts := cleanup.Options{
		Type:         t,
		Value:        uint8(o.thresholdValue),
		ShadowKernel: o.shadowKernel,
		MedianSize:   o.medianSize,
	}
	return opts, opts.Validate()
}

func runPreprocess(cmd *cobra.Command, a *app, opts preprocessOptions, clean cleanup.Options) error {
	in, err := a.scan(opts.inputDir, nil)
	if err != nil {
		return err
	}
	a.log.Infow("cleanup settings", "settings", clean.String())

	return a.process(cmd.Context(), cmd.OutOrStdout(), in, opts.outputDir, "",
		func(_ context.Context, path string) (image.Image, string, error) {
			img, err := imageio.Open(path)
			if err != nil {
				return nil, "", err
			}
			out, err := cleanup.Clean(img, clean)
			if err != nil {
				return nil, "", err
			}
			return out, clean.String(), nil
		},
	)
}
