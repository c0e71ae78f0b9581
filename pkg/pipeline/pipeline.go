// Package pipeline runs the styling engine end to end for the CLI and the
// HTTP server.
//
// A run takes source document bytes and a brand identifier through four
// stages:
//
//  1. Decode: parse the .docx into a fresh document tree
//  2. Style: apply the brand theme and format tables
//  3. Validate: produce a quality report for the styled tree
//  4. Encode: serialize the styled tree to .docx bytes
//
// Every run decodes the source afresh, so runs share no mutable state and a
// batch can execute brands in parallel. Results are cached by source hash,
// brand, theme hash and validator configuration.
//
// # Usage
//
//	runner := pipeline.NewRunner(registry, cache, nil, logger)
//	batch, err := runner.Execute(ctx, pipeline.Options{
//	    Source:     data,
//	    SourcePath: "report.docx",
//	    Brands:     []string{"stripe", "ibm"},
//	    Output:     "out/report",
//	})
//	for _, r := range batch.Results {
//	    fmt.Println(r.Brand, r.OutputPath, r.Err)
//	}
package pipeline

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/polisher/pkg/errors"
	"github.com/matzehuels/polisher/pkg/quality"
)

const (
	// DefaultParallel is the number of brands styled concurrently.
	DefaultParallel = 4

	// DefaultCacheTTL is how long a styled document stays cached.
	DefaultCacheTTL = 7 * 24 * time.Hour

	docxExt = ".docx"
)

// Options configures a batch run.
type Options struct {
	// Source is the input .docx content.
	Source []byte `json:"-"`

	// SourcePath is the input file; outputs may never resolve to it.
	SourcePath string `json:"source_path,omitempty"`

	// Brands lists the brand identifiers to apply, in order.
	Brands []string `json:"brands"`

	// Output is the output path for a single brand or the filename prefix
	// for several. Empty keeps results in memory only.
	Output string `json:"output,omitempty"`

	// Overwrite allows replacing existing output files.
	Overwrite bool `json:"overwrite,omitempty"`

	// Parallel bounds concurrent runs.
	Parallel int `json:"parallel,omitempty"`

	// Refresh skips cache reads; fresh results are still stored.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Source) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "source document is empty")
	}
	if len(o.Brands) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no brands selected")
	}
	if o.Parallel <= 0 {
		o.Parallel = DefaultParallel
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Multi reports whether the batch names more than one brand.
func (o *Options) Multi() bool {
	return len(o.Brands) > 1
}

// OutputPaths returns the destination of every brand, keyed by brand.
// It is empty when Output is unset.
func (o *Options) OutputPaths() map[string]string {
	if o.Output == "" {
		return nil
	}
	out := make(map[string]string, len(o.Brands))
	for _, b := range o.Brands {
		out[b] = OutputPath(o.Output, b, o.Multi())
	}
	return out
}

// OutputPath names the file a brand is written to. A single brand uses
// output as given. Several brands derive "<prefix>_<brand>.docx" from it; a
// prefix that already ends in .docx gets the brand inserted before the
// extension.
func OutputPath(output, brandID string, multi bool) string {
	if !multi {
		return output
	}
	if strings.EqualFold(filepath.Ext(output), docxExt) {
		stem := strings.TrimSuffix(output, filepath.Ext(output))
		return stem + "_" + brandID + filepath.Ext(output)
	}
	return output + "_" + brandID + docxExt
}

// Result is the outcome of styling one brand.
type Result struct {
	// RunID uniquely identifies this run.
	RunID string

	Brand string

	// Data is the styled .docx.
	Data []byte

	Report *quality.Report

	// OutputPath is where Data was written, if anywhere.
	OutputPath string

	Stats Stats

	// CacheHit reports whether Data and Report came from the cache.
	CacheHit bool

	// Err is set when the run failed; no other field except Brand and
	// RunID is meaningful then.
	Err error
}

// Stats contains run timings.
type Stats struct {
	StyleTime    time.Duration
	ValidateTime time.Duration
	EncodeTime   time.Duration
	Total        time.Duration
}

// Batch collects the results of a multi-brand run in brand order.
type Batch struct {
	Results []*Result
}

// Failed returns the results that carry an error.
func (b *Batch) Failed() []*Result {
	var out []*Result
	for _, r := range b.Results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// OK reports whether every brand succeeded.
func (b *Batch) OK() bool {
	return len(b.Failed()) == 0
}
