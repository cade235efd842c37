// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

/*
Package rasterize converts an issue PDF into lossless page rasters by
invoking poppler's pdftoppm as a subprocess.

The boundary is intentionally synchronous: the calling flow suspends until
the subprocess exits, and no partial page results are observable before full
completion. A non-zero exit code or a zero-page output directory is a fatal
conversion failure.
*/
package rasterize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// pageFilePattern matches the sequentially numbered files pdftoppm emits
// for the "page" output prefix, with or without zero padding.
var pageFilePattern = regexp.MustCompile(`^page-(\d+)\.png$`)

// Result is the outcome of one rasterization run.
type Result struct {
	// Pages holds the lossless PNG bytes, index 0 = page 1.
	Pages [][]byte

	// Truncated reports that the page cap may have cut the document short.
	// It is set whenever a nonzero cap was hit, so an incomplete issue is
	// always flagged rather than silently shipped.
	Truncated bool
}

// Rasterizer shells out to pdftoppm to rasterize issue PDFs.
type Rasterizer struct {
	binary   string
	dpi      int
	maxPages int
	logger   *slog.Logger
}

// Options configures a [Rasterizer].
type Options struct {
	// Binary is the pdftoppm executable (name or absolute path).
	Binary string
	// DPI is the rasterization resolution.
	DPI int
	// MaxPages caps the emitted page count. Zero means no cap.
	MaxPages int
}

// New constructs a [Rasterizer] from explicit options.
//
// All tunables arrive through [Options] rather than ambient environment
// reads, so tests inject deterministic values.
func New(opts Options, logger *slog.Logger) *Rasterizer {
	binary := opts.Binary
	if binary == "" {
		binary = "pdftoppm"
	}
	dpi := opts.DPI
	if dpi <= 0 {
		dpi = 150
	}

	return &Rasterizer{
		binary:   binary,
		dpi:      dpi,
		maxPages: opts.MaxPages,
		logger:   logger,
	}
}

/*
Rasterize converts PDF bytes into one lossless PNG per page, in page order.

Description: Writes the PDF to a scratch directory, runs pdftoppm against
it, then collects every emitted page file in numeric order. The scratch
directory is removed before returning.

Parameters:
  - context: context.Context (cancels the subprocess on expiry)
  - pdf: []byte (the issue PDF)

Returns:
  - *Result: Ordered page rasters plus the truncation flag
  - error: Fatal subprocess or zero-page failures
*/
func (rasterizer *Rasterizer) Rasterize(context context.Context, pdf []byte) (*Result, error) {

	// Scratch workspace for input and emitted pages
	workDir, err := os.MkdirTemp("", "patrika-raster-*")
	if err != nil {
		return nil, fmt.Errorf("rasterize: failed to create scratch dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	inputFile := filepath.Join(workDir, "input.pdf")
	if err := os.WriteFile(inputFile, pdf, 0o600); err != nil {
		return nil, fmt.Errorf("rasterize: failed to write input: %w", err)
	}

	// Subprocess invocation: {dpi, maxPages?, inputFile, outputPrefix}
	outputPrefix := filepath.Join(workDir, "page")
	args := []string{
		"-png",
		"-r", strconv.Itoa(rasterizer.dpi),
	}
	if rasterizer.maxPages > 0 {
		args = append(args, "-l", strconv.Itoa(rasterizer.maxPages))
	}
	args = append(args, inputFile, outputPrefix)

	startTime := time.Now()
	cmd := exec.CommandContext(context, rasterizer.binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		if isBinaryMissing(err) {
			return nil, fmt.Errorf("rasterize: %s not found (install poppler-utils): %w", rasterizer.binary, err)
		}
		return nil, fmt.Errorf("rasterize: %s failed: %w: %s", rasterizer.binary, err, strings.TrimSpace(string(output)))
	}

	pages, err := collectPages(workDir)
	if err != nil {
		return nil, err
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("rasterize: %s emitted no pages (corrupt or empty PDF?)", rasterizer.binary)
	}

	rasterizer.logger.Info("pdf_rasterized",
		slog.Int("pages", len(pages)),
		slog.Int("dpi", rasterizer.dpi),
		slog.Int64("duration_ms", time.Since(startTime).Milliseconds()),
	)

	return &Result{
		Pages:     pages,
		Truncated: rasterizer.maxPages > 0 && len(pages) >= rasterizer.maxPages,
	}, nil
}

// collectPages reads every page-<n>.png in dir, ordered by page number.
func collectPages(dir string) ([][]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("rasterize: failed to read output dir: %w", err)
	}

	type pageFile struct {
		number int
		name   string
	}

	var found []pageFile
	for _, entry := range entries {
		match := pageFilePattern.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		number, err := strconv.Atoi(match[1])
		if err != nil || number < 1 {
			continue
		}
		found = append(found, pageFile{number: number, name: entry.Name()})
	}

	// pdftoppm numbering is 1-based and sequential; sort numerically since
	// lexical order breaks past page 9 without zero padding.
	sort.Slice(found, func(i, j int) bool { return found[i].number < found[j].number })

	pages := make([][]byte, 0, len(found))
	for _, file := range found {
		data, err := os.ReadFile(filepath.Join(dir, file.name))
		if err != nil {
			return nil, fmt.Errorf("rasterize: failed to read %s: %w", file.name, err)
		}
		pages = append(pages, data)
	}

	return pages, nil
}

// isBinaryMissing reports whether err indicates the executable was not found.
func isBinaryMissing(err error) bool {
	var execErr *exec.Error
	return errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound)
}
