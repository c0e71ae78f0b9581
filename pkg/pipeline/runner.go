package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/polisher/pkg/brand"
	"github.com/matzehuels/polisher/pkg/cache"
	"github.com/matzehuels/polisher/pkg/document"
	"github.com/matzehuels/polisher/pkg/docx"
	"github.com/matzehuels/polisher/pkg/errors"
	"github.com/matzehuels/polisher/pkg/observability"
	"github.com/matzehuels/polisher/pkg/quality"
	"github.com/matzehuels/polisher/pkg/style"
)

// Runner executes styling runs with caching.
//
// A Runner holds no per-run state; multiple goroutines may share one.
type Runner struct {
	Registry  *brand.Registry
	Applier   *style.Applier
	Validator *quality.Validator
	Cache     cache.Cache
	Keyer     cache.Keyer
	Logger    *log.Logger
}

// NewRunner creates a runner over reg. A nil cache disables caching, a nil
// keyer uses cache.DefaultKeyer, and a nil logger uses log.Default().
func NewRunner(reg *brand.Registry, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.Disabled()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Registry:  reg,
		Applier:   style.New(reg),
		Validator: quality.New(),
		Cache:     c,
		Keyer:     keyer,
		Logger:    logger,
	}
}

// envelope is the cached form of a run.
type envelope struct {
	Docx   []byte          `json:"docx"`
	Report *quality.Report `json:"report"`
}

// Run styles src with one brand. An unknown brand fails before the source is
// decoded. Run never writes files.
func (r *Runner) Run(ctx context.Context, src []byte, brandID string, refresh bool) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: uuid.NewString(), Brand: brandID}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	theme, err := r.Registry.Lookup(brandID)
	if err != nil {
		return nil, err
	}
	res.Brand = theme.ID

	themeHash, err := r.Registry.Hash(theme.ID)
	if err != nil {
		return nil, err
	}
	key := r.Keyer.RunKey(cache.Hash(src), theme.ID, cache.RunKeyOpts{
		ThemeHash: themeHash,
		Policy:    r.Validator.Fingerprint(),
	})

	if !refresh {
		if env, ok := r.cached(ctx, key); ok {
			res.Data, res.Report, res.CacheHit = env.Docx, env.Report, true
			res.Stats.Total = time.Since(start)
			r.Logger.Debug("cache hit", "brand", theme.ID)
			return res, nil
		}
	}

	doc, err := docx.Decode(src)
	if err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	t := time.Now()
	hooks.OnStyleStart(ctx, theme.ID)
	styled, err := r.Applier.ApplyTheme(doc, theme)
	res.Stats.StyleTime = time.Since(t)
	hooks.OnStyleComplete(ctx, theme.ID, res.Stats.StyleTime, err)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t = time.Now()
	res.Report = r.Validator.Validate(styled)
	res.Stats.ValidateTime = time.Since(t)
	hooks.OnValidateComplete(ctx, theme.ID, res.Report.Level().String(), len(res.Report.Issues()), res.Stats.ValidateTime)

	t = time.Now()
	res.Data, err = docx.Encode(styled)
	res.Stats.EncodeTime = time.Since(t)
	hooks.OnEncodeComplete(ctx, theme.ID, len(res.Data), res.Stats.EncodeTime, err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode %s", theme.ID)
	}

	r.store(ctx, key, envelope{Docx: res.Data, Report: res.Report})
	res.Stats.Total = time.Since(start)

	r.Logger.Info("styled document",
		"brand", theme.ID,
		"level", res.Report.Level(),
		"issues", len(res.Report.Issues()),
		"duration", res.Stats.Total)
	return res, nil
}

// Validate decodes src and reports on it without styling.
func (r *Runner) Validate(ctx context.Context, src []byte) (*quality.Report, *document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	doc, err := docx.Decode(src)
	if err != nil {
		return nil, nil, err
	}
	t := time.Now()
	rep := r.Validator.Validate(doc)
	observability.Pipeline().OnValidateComplete(ctx, "", rep.Level().String(), len(rep.Issues()), time.Since(t))
	return rep, doc, nil
}

// Execute styles opts.Source with every brand in opts.Brands, at most
// opts.Parallel at a time. A failing brand records its error in its Result
// and does not stop the others. Outputs are written only for brands that
// succeeded. The returned error is non-nil only for invalid options.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Batch, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	paths := opts.OutputPaths()

	batch := &Batch{Results: make([]*Result, len(opts.Brands))}
	var g errgroup.Group
	g.SetLimit(opts.Parallel)

	for i, id := range opts.Brands {
		g.Go(func() error {
			batch.Results[i] = r.runOne(ctx, opts, id, paths[id])
			return nil
		})
	}
	_ = g.Wait()

	failed := len(batch.Failed())
	opts.Logger.Info("batch complete", "brands", len(opts.Brands), "failed", failed)
	return batch, nil
}

func (r *Runner) runOne(ctx context.Context, opts Options, id, out string) *Result {
	if out != "" {
		if err := checkOutput(out, opts.SourcePath, opts.Overwrite); err != nil {
			return &Result{RunID: uuid.NewString(), Brand: id, Err: err}
		}
	}

	res, err := r.Run(ctx, opts.Source, id, opts.Refresh)
	if err != nil {
		opts.Logger.Warn("brand failed", "brand", id, "error", errors.UserMessage(err))
		return &Result{RunID: uuid.NewString(), Brand: id, Err: err}
	}
	if out == "" {
		return res
	}
	if err := ctx.Err(); err != nil {
		return &Result{RunID: res.RunID, Brand: res.Brand, Err: err}
	}
	if err := writeOutput(out, res.Data); err != nil {
		return &Result{RunID: res.RunID, Brand: res.Brand, Err: err}
	}
	res.OutputPath = out
	return res
}

func checkOutput(out, input string, overwrite bool) error {
	if input != "" {
		if err := errors.ValidateOutputPath(out, input); err != nil {
			return err
		}
	} else if err := errors.ValidateDocxPath(out); err != nil {
		return err
	}
	if overwrite {
		return nil
	}
	if _, err := os.Stat(out); err == nil {
		return errors.New(errors.ErrCodeInvalidPath, "output exists: %s (use --force to overwrite)", out)
	}
	return nil
}

// writeOutput writes via a temporary file so a failed write never leaves a
// truncated document behind.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}

func (r *Runner) cached(ctx context.Context, key string) (envelope, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		if err != nil {
			r.Logger.Warn("cache read failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, "run")
		return envelope{}, false
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Report == nil || len(env.Docx) == 0 {
		observability.Cache().OnCacheMiss(ctx, "run")
		return envelope{}, false
	}
	observability.Cache().OnCacheHit(ctx, "run")
	return env, true
}

func (r *Runner) store(ctx context.Context, key string, env envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, DefaultCacheTTL); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "run", len(data))
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
