package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bagtoad/papersynth/internal/batch"
	"github.com/bagtoad/papersynth/internal/config"
	"github.com/bagtoad/papersynth/internal/logger"
	"github.com/bagtoad/papersynth/internal/random"
	"github.com/bagtoad/papersynth/internal/report"
	"github.com/bagtoad/papersynth/internal/scanner"
	"github.com/bagtoad/papersynth/internal/writer"
)

// Version is set by ldflags during release builds.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(config.Load()).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app carries what every subcommand shares.
type app struct {
	cfg  *config.Config
	log  *logger.Logger
	opts sharedOptions
}

type sharedOptions struct {
	seed      int64
	quickTest bool
	sample    int
	keepGoing bool
	dryRun    bool
	noClobber bool
	quality   int
	logLevel  string
	logFormat string
}

func (o *sharedOptions) bind(fs *pflag.FlagSet, cfg *config.Config) {
	fs.Int64Var(&o.seed, "seed", cfg.Seed, "Random seed; 0 picks one from the clock")
	fs.BoolVar(&o.quickTest, "quick-test", true, "Only process the first --sample images")
	fs.IntVar(&o.sample, "sample", 1, "Number of images processed in quick-test mode")
	fs.BoolVar(&o.keepGoing, "keep-going", false, "Log and skip images that fail instead of stopping")
	fs.BoolVar(&o.dryRun, "dry-run", false, "Run the transforms without writing any files")
	fs.BoolVar(&o.noClobber, "no-clobber", false, "Add a numeric suffix instead of overwriting existing outputs")
	fs.IntVar(&o.quality, "jpeg-quality", cfg.JPEGQuality, "Quality of JPEG outputs (1-100)")
	fs.StringVar(&o.logLevel, "log-level", cfg.Log.Level, "Log level: debug, info, warn or error")
	fs.StringVar(&o.logFormat, "log-format", cfg.Log.Format, "Log format: console or json")
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	a := &app{cfg: cfg}

	rootCmd := &cobra.Command{
		Use:   "papersynth",
		Short: "Generate synthetic handwriting-on-paper training images",
		Long: `papersynth prepares training images for handwriting recognition.

  lines        draw ruled or graph paper lines over handwriting images
  backgrounds  paste handwriting onto photographs of real paper
  preprocess   denoise, remove shadows and binarize scanned handwriting

Every subcommand reads a directory of images and writes one output image per
input. By default only the first image is processed (--quick-test) so the
result can be checked before running the whole set.`,
		Version:       Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.opts.quality < 1 || a.opts.quality > 100 {
				return fmt.Errorf("--jpeg-quality must be between 1 and 100, got %d", a.opts.quality)
			}
			log, err := logger.New(a.opts.logLevel, a.opts.logFormat)
			if err != nil {
				return fmt.Errorf("cannot create logger: %w", err)
			}
			a.log = log.Named(cmd.Name())
			return nil
		},
	}
	a.opts.bind(rootCmd.PersistentFlags(), cfg)

	rootCmd.AddCommand(newLinesCmd(a), newBackgroundsCmd(a), newPreprocessCmd(a), newVersionCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the papersynth version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "papersynth %s\n", Version)
			return nil
		},
	}
}

// input is one scanned, quick-test-limited directory.
type input struct {
	paths   []string
	skipped int
}

func (a *app) scan(dir string, exts []string) (*input, error) {
	res, err := scanner.Scan(dir, exts)
	if err != nil {
		return nil, err
	}
	paths := scanner.Limit(res.ImagePaths, a.opts.quickTest, a.opts.sample)
	a.log.Infow("scanned input", "dir", dir, "found", len(res.ImagePaths), "selected", len(paths), "skipped", res.SkippedCount)
	return &input{paths: paths, skipped: res.SkippedCount}, nil
}

func (a *app) newSource() *random.Source {
	src := random.New(a.opts.seed)
	// Every later log line carries the seed.
	a.log = a.log.With("seed", src.Seed())
	a.log.Infow("random source ready")
	return src
}

// process runs fn over in, writes the outputs to outputDir with extension
// ext (empty keeps the input's), and prints the report to out.
func (a *app) process(ctx context.Context, out io.Writer, in *input, outputDir, ext string, fn batch.Transform) error {
	w, err := writer.New(outputDir, a.opts.dryRun, a.opts.noClobber, a.opts.quality)
	if err != nil {
		return err
	}
	if a.opts.dryRun {
		fmt.Fprintln(out, "Dry run mode: no files will be written")
	}

	results, err := batch.Run(ctx, a.log, in.paths, w, batch.Options{
		KeepGoing: a.opts.keepGoing,
		Ext:       ext,
		Progress: func(current, total int) {
			fmt.Fprintf(out, "\rProcessing image %d/%d...", current, total)
		},
	}, fn)
	fmt.Fprintln(out) // newline after progress
	if err != nil {
		return err
	}

	report.Print(out, results, in.skipped, a.opts.dryRun)
	return nil
}
