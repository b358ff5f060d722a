package officeconv

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// RenderOptions are the conversion options a backend consumes.
type RenderOptions struct {
	FontPaths   []string
	PDFStandard *PDFStandard
}

// Backend compiles generated markup and its images into PDF bytes.
type Backend interface {
	Render(ctx context.Context, markup string, images []ImageAsset, opts RenderOptions) ([]byte, error)
}

// TypstCLI renders with the typst command-line compiler.
type TypstCLI struct {
	// Binary is the compiler executable; empty means "typst" on PATH.
	Binary string
	// WorkDir is where per-render directories are created; empty means
	// the system temporary directory.
	WorkDir string
}

const (
	mainFile   = "main.typ"
	outputFile = "output.pdf"
)

func (t TypstCLI) binary() string {
	if t.Binary != "" {
		return t.Binary
	}
	return "typst"
}

// args builds the compile command line, relative to the render directory.
func (t TypstCLI) args(opts RenderOptions) []string {
	args := []string{"compile"}
	for _, dir := range opts.FontPaths {
		args = append(args, "--font-path", dir)
	}
	if opts.PDFStandard != nil {
		args = append(args, "--pdf-standard", string(*opts.PDFStandard))
	}
	return append(args, mainFile, outputFile)
}

// Render writes main.typ and the images into a fresh directory, runs
// typst compile there and returns the PDF. The directory is removed
// afterwards.
func (t TypstCLI) Render(ctx context.Context, markup string, images []ImageAsset, opts RenderOptions) ([]byte, error) {
	fail := func(err error) ([]byte, error) {
		return nil, &RenderError{Stage: "typst", Err: err}
	}

	root := t.WorkDir
	if root == "" {
		root = os.TempDir()
	}
	dir := filepath.Join(root, "officeconv-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fail(fmt.Errorf("creating work directory: %w", err))
	}
	defer os.RemoveAll(dir)

	if err := os.WriteFile(filepath.Join(dir, mainFile), []byte(markup), 0o600); err != nil {
		return fail(fmt.Errorf("writing markup: %w", err))
	}
	for _, img := range images {
		if img.Path == "" || filepath.Base(img.Path) != img.Path || img.Path == mainFile || img.Path == outputFile {
			return fail(fmt.Errorf("invalid asset path %q", img.Path))
		}
		if err := os.WriteFile(filepath.Join(dir, img.Path), img.Data, 0o600); err != nil {
			return fail(fmt.Errorf("writing %s: %w", img.Path, err))
		}
	}

	cmd := exec.CommandContext(ctx, t.binary(), t.args(opts)...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fail(ctx.Err())
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fail(fmt.Errorf("%w: %s", err, msg))
		}
		return fail(err)
	}

	pdf, err := os.ReadFile(filepath.Join(dir, outputFile))
	if err != nil {
		return fail(fmt.Errorf("reading output: %w", err))
	}
	return pdf, nil
}
