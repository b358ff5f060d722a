// Command officeconv converts DOCX, XLSX and PPTX files to PDF and works
// with the resulting PDFs.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/tsawler/officeconv"
	"github.com/tsawler/officeconv/format"
	"github.com/tsawler/officeconv/internal/config"
	"github.com/tsawler/officeconv/internal/logging"
	"github.com/tsawler/officeconv/internal/server"
	"github.com/tsawler/officeconv/pdfops"
	"github.com/tsawler/officeconv/typst"
)

const version = "0.1.0"

// CLI defines the command-line interface.
type CLI struct {
	Config    string `name:"config" short:"c" help:"YAML configuration file" type:"path"`
	LogLevel  string `name:"log-level" help:"Override log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" help:"Override log format (json, text)"`
	Typst     string `name:"typst" help:"Path to the typst binary"`

	Convert ConvertCmd `cmd:"" help:"Convert an office file to PDF"`
	Markup  MarkupCmd  `cmd:"" help:"Write the Typst markup and images for an office file"`
	Merge   MergeCmd   `cmd:"" help:"Merge PDFs (office inputs are converted first)"`
	Split   SplitCmd   `cmd:"" help:"Split a PDF into page ranges"`
	Pages   PagesCmd   `cmd:"" help:"Print the page count of a PDF or office file"`
	Serve   ServeCmd   `cmd:"" help:"Start the HTTP conversion server"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// env is bound into every command's Run method.
type env struct {
	cfg    *config.Config
	log    *slog.Logger
	stdout io.Writer
}

func (e *env) backend() officeconv.Backend {
	return officeconv.TypstCLI{Binary: e.cfg.TypstBinary, WorkDir: e.cfg.WorkDir}
}

// ConversionFlags are shared by commands that convert office files. Set
// flags override the configuration file.
type ConversionFlags struct {
	Paper       string   `name:"paper" help:"Force paper size (a4, letter, legal, a3, a5)"`
	Orientation string   `name:"orientation" help:"Force orientation (landscape or portrait)"`
	Sheet       []string `name:"sheet" sep:"none" help:"Convert only the named sheets (repeatable)"`
	Slides      string   `name:"slides" help:"Convert only a slide range, e.g. 2-5"`
	PDFA        bool     `name:"pdfa" help:"Produce PDF/A-2b"`
	FontPath    []string `name:"font-path" help:"Extra font directories" type:"path"`
}

func (f ConversionFlags) options(e *env) (officeconv.ConvertOptions, error) {
	opts := officeconv.ConvertOptions{
		SheetNames: f.Sheet,
		PaperSize:  e.cfg.Paper(),
		Landscape:  e.cfg.Landscape,
		FontPaths:  append(append([]string(nil), e.cfg.FontPaths...), f.FontPath...),
		Logger:     e.log,
	}
	if f.Paper != "" {
		p, ok := typst.ParsePaperSize(f.Paper)
		if !ok {
			return opts, fmt.Errorf("unsupported paper size %q", f.Paper)
		}
		opts.PaperSize = &p
	}
	switch strings.ToLower(f.Orientation) {
	case "":
	case "landscape", "portrait":
		l := strings.EqualFold(f.Orientation, "landscape")
		opts.Landscape = &l
	default:
		return opts, fmt.Errorf("unsupported orientation %q", f.Orientation)
	}
	if f.Slides != "" {
		sr, err := officeconv.ParseSlideRange(f.Slides)
		if err != nil {
			return opts, err
		}
		opts.SlideRange = &sr
	}
	if e.cfg.PDFStandard != "" {
		std := officeconv.PDFStandard(e.cfg.PDFStandard)
		opts.PDFStandard = &std
	}
	if f.PDFA {
		std := officeconv.PDFA2B
		opts.PDFStandard = &std
	}
	return opts, nil
}

// ConvertCmd converts one office file to PDF.
type ConvertCmd struct {
	Input string `arg:"" help:"Input DOCX, XLSX or PPTX file" type:"existingfile"`
	Out   string `short:"o" help:"Output PDF path (default: input with .pdf)" type:"path"`
	ConversionFlags
}

func (c *ConvertCmd) Run(e *env) error {
	opts, err := c.options(e)
	if err != nil {
		return err
	}
	res, err := officeconv.Open(c.Input).WithOptions(opts).PDF(context.Background(), e.backend())
	if err != nil {
		return err
	}

	out := c.Out
	if out == "" {
		out = strings.TrimSuffix(c.Input, filepath.Ext(c.Input)) + ".pdf"
	}
	if err := os.WriteFile(out, res.PDF, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Fprintf(e.stdout, "%s: %d pages, %d warnings\n", out, res.PageCount, len(res.Warnings))
	return nil
}

// MarkupCmd writes main.typ and the image assets into a directory.
type MarkupCmd struct {
	Input  string `arg:"" help:"Input DOCX, XLSX or PPTX file" type:"existingfile"`
	OutDir string `name:"out-dir" short:"o" help:"Output directory" default:"." type:"path"`
	ConversionFlags
}

func (c *MarkupCmd) Run(e *env) error {
	opts, err := c.options(e)
	if err != nil {
		return err
	}
	markup, images, warnings, err := officeconv.Open(c.Input).WithOptions(opts).Markup()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		e.log.Warn("conversion warning", "element", w.Element, "reason", w.Reason)
	}

	if err := os.MkdirAll(c.OutDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", c.OutDir, err)
	}
	if err := os.WriteFile(filepath.Join(c.OutDir, "main.typ"), []byte(markup), 0o644); err != nil {
		return fmt.Errorf("writing markup: %w", err)
	}
	for _, img := range images {
		if err := os.WriteFile(filepath.Join(c.OutDir, img.Path), img.Data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", img.Path, err)
		}
	}
	fmt.Fprintf(e.stdout, "%s: main.typ and %d images\n", c.OutDir, len(images))
	return nil
}

// MergeCmd concatenates PDFs.
type MergeCmd struct {
	Out    string   `arg:"" help:"Output PDF path" type:"path"`
	Inputs []string `arg:"" help:"PDF or office files, in order" type:"existingfile"`
	ConversionFlags
}

func (c *MergeCmd) Run(e *env) error {
	opts, err := c.options(e)
	if err != nil {
		return err
	}
	pdfs := make([][]byte, 0, len(c.Inputs))
	for _, in := range c.Inputs {
		pdf, err := loadPDF(e, in, opts)
		if err != nil {
			return err
		}
		pdfs = append(pdfs, pdf)
	}
	merged, err := pdfops.Merge(pdfs)
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.Out, merged, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", c.Out, err)
	}
	fmt.Fprintf(e.stdout, "%s: merged %d files\n", c.Out, len(pdfs))
	return nil
}

// loadPDF reads a PDF, converting office files on the way.
func loadPDF(e *env, path string, opts officeconv.ConvertOptions) ([]byte, error) {
	if format.Detect(path) == format.Unknown {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &officeconv.IOError{Path: path, Err: err}
		}
		return data, nil
	}
	res, err := officeconv.Open(path).WithOptions(opts).PDF(context.Background(), e.backend())
	if err != nil {
		return nil, err
	}
	return res.PDF, nil
}

// SplitCmd writes page ranges of a PDF to separate files.
type SplitCmd struct {
	Input  string   `arg:"" help:"Input PDF" type:"existingfile"`
	Every  int      `name:"every" help:"Split into chunks of N pages"`
	Pages  []string `name:"pages" help:"Page ranges such as 1-3,4,5-9"`
	OutDir string   `name:"out-dir" short:"o" help:"Output directory (default: next to the input)" type:"path"`
}

func (c *SplitCmd) Run(e *env) error {
	if (c.Every > 0) == (len(c.Pages) > 0) {
		return errors.New("exactly one of --every or --pages is required")
	}
	pdf, err := os.ReadFile(c.Input)
	if err != nil {
		return &officeconv.IOError{Path: c.Input, Err: err}
	}

	var parts [][]byte
	if c.Every > 0 {
		parts, err = pdfops.SplitEvery(pdf, c.Every)
	} else {
		var ranges []pdfops.PageRange
		if ranges, err = parsePageRanges(c.Pages); err != nil {
			return err
		}
		parts, err = pdfops.Split(pdf, ranges)
	}
	if err != nil {
		return err
	}

	dir := c.OutDir
	if dir == "" {
		dir = filepath.Dir(c.Input)
	}
	base := strings.TrimSuffix(filepath.Base(c.Input), filepath.Ext(c.Input))
	for i, part := range parts {
		out := filepath.Join(dir, fmt.Sprintf("%s-%d.pdf", base, i+1))
		if err := os.WriteFile(out, part, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		fmt.Fprintln(e.stdout, out)
	}
	return nil
}

// parsePageRanges parses "3" and "2-5" entries.
func parsePageRanges(specs []string) ([]pdfops.PageRange, error) {
	ranges := make([]pdfops.PageRange, 0, len(specs))
	for _, s := range specs {
		from, to, found := strings.Cut(strings.TrimSpace(s), "-")
		a, err := strconv.Atoi(strings.TrimSpace(from))
		if err != nil {
			return nil, fmt.Errorf("invalid page range %q", s)
		}
		b := a
		if found {
			if b, err = strconv.Atoi(strings.TrimSpace(to)); err != nil {
				return nil, fmt.Errorf("invalid page range %q", s)
			}
		}
		ranges = append(ranges, pdfops.PageRange{From: a, To: b})
	}
	return ranges, nil
}

// PagesCmd prints a page count.
type PagesCmd struct {
	Input string `arg:"" help:"PDF, DOCX, XLSX or PPTX file" type:"existingfile"`
}

func (c *PagesCmd) Run(e *env) error {
	var n int
	var err error
	if format.Detect(c.Input) == format.Unknown {
		var pdf []byte
		if pdf, err = os.ReadFile(c.Input); err != nil {
			return &officeconv.IOError{Path: c.Input, Err: err}
		}
		n, err = pdfops.PageCount(pdf)
	} else {
		n, err = officeconv.Open(c.Input).WithLogger(e.log).PageCount()
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, n)
	return nil
}

// ServeCmd runs the HTTP server until interrupted.
type ServeCmd struct {
	Listen string `name:"listen" help:"Listen address (overrides config)"`
}

func (c *ServeCmd) Run(e *env) error {
	if c.Listen != "" {
		e.cfg.Listen = c.Listen
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.New(e.cfg, e.log, nil).ListenAndServe(ctx)
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run(e *env) error {
	fmt.Fprintf(e.stdout, "officeconv %s\n", version)
	return nil
}

// run parses args and executes the selected command.
func run(args []string, stdout, stderr io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("officeconv"),
		kong.Description("Convert office documents to PDF via Typst"),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	if err != nil {
		return err
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if cli.Config != "" {
		if cfg, err = config.Load(cli.Config); err != nil {
			return err
		}
	}
	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}
	if cli.LogFormat != "" {
		cfg.LogFormat = cli.LogFormat
	}
	if cli.Typst != "" {
		cfg.TypstBinary = cli.Typst
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, stderr)
	if err != nil {
		return err
	}

	return ctx.Run(&env{cfg: cfg, log: log, stdout: stdout})
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "officeconv:", err)
		os.Exit(1)
	}
}
