// Package loader reads the raw survey export into a submission table. A
// missing export is not an error: the loader hands back an empty table with a
// user-facing message and every downstream stage renders its defined empty
// state. Loaded tables are immutable and may be cached; the cache is keyed on
// the source's revision token (file size and mtime, HTTP validators), so
// replacing the export invalidates the entry without restarting the process.
package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/singleflight"

	"pitchboard/internal/datasource"
	"pitchboard/internal/datasource/file"
	"pitchboard/internal/datasource/httpds"
	"pitchboard/internal/metrics"
	"pitchboard/internal/parser"
	pcsv "pitchboard/internal/parser/csv"
	"pitchboard/internal/table"
)

// Result is the outcome of a load.
type Result struct {
	// Table is never nil; it is empty when the export is missing.
	Table *table.Table
	// Message is a user-facing description of a recovered problem, empty on
	// a clean load.
	Message string
	// Skipped counts rows dropped by the parser's soft-fail handling.
	Skipped int
}

// Cache memoizes loaded tables. It is an explicit object owned by the caller
// rather than process-global state; a nil *Cache disables memoization.
type Cache struct {
	mu sync.RWMutex
	m  map[uint64]Result
}

// NewCache returns an empty cache.
func NewCache() *Cache { return &Cache{m: make(map[uint64]Result)} }

func (c *Cache) get(key uint64) (Result, bool) {
	if c == nil {
		return Result{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	res, ok := c.m[key]
	return res, ok
}

func (c *Cache) put(key uint64, res Result) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = res
}

// SourceFactory builds the datasource for one dataset reference: a local
// file path or an http(s) URL.
type SourceFactory func(ref string) datasource.Source

// defaultSource dispatches on the reference shape: URLs are fetched over
// HTTP, everything else is read from local disk.
func defaultSource(ref string) datasource.Source {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return httpds.New(ref, nil)
	}
	return file.NewLocal(ref)
}

// Loader parses survey exports with a fixed parser configuration.
type Loader struct {
	parser parser.Parser
	source SourceFactory
	cache  *Cache
	group  singleflight.Group
}

// New returns a Loader using the default source dispatch. cache may be nil
// to re-read the export on every load.
func New(opt pcsv.Options, cache *Cache) *Loader {
	return NewWithSource(opt, cache, defaultSource)
}

// NewWithSource returns a Loader reading through a custom source factory.
func NewWithSource(opt pcsv.Options, cache *Cache, sf SourceFactory) *Loader {
	return &Loader{parser: pcsv.NewParser(opt), source: sf, cache: cache}
}

// Load reads the export at ref, a file path or URL. The missing-export case
// is recovered locally: the result carries an empty table and a descriptive
// message. Any other failure (permission, malformed header, HTTP 5xx) is a
// real error.
//
// Concurrent loads of the same revision are collapsed into one read; all
// callers receive the same immutable table.
func (l *Loader) Load(ctx context.Context, ref string) (Result, error) {
	start := time.Now()
	res, err := l.load(ctx, ref)
	metrics.RecordStep("load", err, time.Since(start))
	return res, err
}

func (l *Loader) load(ctx context.Context, ref string) (Result, error) {
	src := l.source(ref)

	var key uint64
	keyed := false
	if v, ok := src.(datasource.Versioned); ok {
		ver, err := v.Version(ctx)
		if err != nil {
			if notFound(err) {
				return missingResult(ref), nil
			}
			return Result{}, err
		}
		if ver != "" {
			key = cacheKey(ref, ver)
			keyed = true
			if res, ok := l.cache.get(key); ok {
				return res, nil
			}
		}
	}

	flightKey := ref
	if keyed {
		flightKey = fmt.Sprintf("%s|%x", ref, key)
	}
	v, err, _ := l.group.Do(flightKey, func() (any, error) {
		if keyed {
			if res, ok := l.cache.get(key); ok {
				return res, nil
			}
		}
		rc, err := src.Open(ctx)
		if err != nil {
			if notFound(err) {
				return missingResult(ref), nil
			}
			return Result{}, err
		}
		defer rc.Close()

		tbl, skipped, err := l.parser.Parse(rc)
		if err != nil {
			return Result{}, fmt.Errorf("parse %s: %w", ref, err)
		}
		metrics.RecordRows("parsed", int64(tbl.Len()))
		metrics.RecordRows("skipped", int64(skipped))

		res := Result{Table: tbl, Skipped: skipped}
		if skipped > 0 {
			res.Message = fmt.Sprintf("%d malformed rows in %q were skipped", skipped, ref)
		}
		if keyed {
			l.cache.put(key, res)
		}
		return res, nil
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

// notFound matches both spellings of "the export is not there": the local
// stat sentinel and the datasource-level one the HTTP source reports.
func notFound(err error) bool {
	return errors.Is(err, os.ErrNotExist) || errors.Is(err, datasource.ErrNotFound)
}

func missingResult(ref string) Result {
	return Result{
		Table:   table.Empty(),
		Message: fmt.Sprintf("data file %q was not found; the dashboard has nothing to show", ref),
	}
}

// cacheKey hashes the reference and its revision token into one key. A
// changed revision produces a new key; stale entries are simply never hit
// again.
func cacheKey(ref, version string) uint64 {
	h := xxh3.New()
	_, _ = h.WriteString(ref)
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(version)
	return h.Sum64()
}
