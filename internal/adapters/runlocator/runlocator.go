// Package runlocator maps a run number to the proposal (IPTS) directory that holds its data
//
// The archive is laid out as <root>/<INST>/IPTS-<n>/ with raw files under nexus/
// (current naming) or data/ (legacy naming). Directories are returned with a
// trailing slash so callers can append relative paths directly.
package runlocator

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	perr "github.com/mguthriem/sxl4snap/internal/platform/errors"
)

// Locator resolves the IPTS directory of a run
type Locator interface {
	Locate(ctx context.Context, run int, instrument string) (string, error)
}

// LocatorFunc adapts a function to Locator
type LocatorFunc func(ctx context.Context, run int, instrument string) (string, error)

// Locate implements Locator
func (f LocatorFunc) Locate(ctx context.Context, run int, instrument string) (string, error) {
	return f(ctx, run, instrument)
}

// Candidates lists paths relative to an IPTS directory that mark a run as present
type Candidates func(instrument string, run int) []string

// DefaultCandidates covers the current and legacy raw file names
func DefaultCandidates(instrument string, run int) []string {
	r := strconv.Itoa(run)
	return []string{
		"nexus/" + instrument + "_" + r + ".nxs.h5",
		"data/" + instrument + "_" + r + "_event.nxs",
	}
}

const defaultCacheSize = 4096

// Archive scans an archive root for runs
type Archive struct {
	root       string
	candidates Candidates
	cacheSize  int

	mu    sync.Mutex
	cache map[cacheKey]string
}

type cacheKey struct {
	inst string
	run  int
}

// Option configures an Archive
type Option func(*Archive)

// WithCandidates replaces the file names checked in each IPTS directory
func WithCandidates(c Candidates) Option { return func(a *Archive) { a.candidates = c } }

// WithCacheSize bounds the number of remembered runs, 0 disables caching
func WithCacheSize(n int) Option { return func(a *Archive) { a.cacheSize = n } }

// NewArchive builds a locator rooted at root, e.g. /SNS
func NewArchive(root string, opts ...Option) *Archive {
	a := &Archive{
		root:       root,
		candidates: DefaultCandidates,
		cacheSize:  defaultCacheSize,
		cache:      map[cacheKey]string{},
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Locate implements Locator. Newer proposals are searched first
func (a *Archive) Locate(ctx context.Context, run int, instrument string) (string, error) {
	if run <= 0 {
		return "", perr.WithField(perr.InvalidArgf("run number %d must be positive", run), "run")
	}
	inst := strings.ToUpper(strings.TrimSpace(instrument))
	if inst == "" {
		return "", perr.WithField(perr.InvalidArgf("instrument is required"), "instrument")
	}
	key := cacheKey{inst: inst, run: run}
	if dir, ok := a.cached(key); ok {
		return dir, nil
	}

	dirs, err := a.proposals(inst)
	if err != nil {
		return "", err
	}
	for _, d := range dirs {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		for _, rel := range a.candidates(inst, run) {
			if _, err := os.Stat(filepath.Join(d, filepath.FromSlash(rel))); err == nil {
				dir := d + string(filepath.Separator)
				a.remember(key, dir)
				return dir, nil
			}
		}
	}
	return "", perr.NotFoundf("run %d not found under %s", run, filepath.Join(a.root, inst))
}

// proposals lists <root>/<inst>/IPTS-* directories, highest number first
func (a *Archive) proposals(inst string) ([]string, error) {
	base := filepath.Join(a.root, inst)
	entries, err := os.ReadDir(base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perr.NotFoundf("no archive for instrument %s under %s", inst, a.root)
		}
		return nil, perr.IOf(err, "list %s", base)
	}
	type prop struct {
		n   int
		dir string
	}
	var ps []prop
	for _, e := range entries {
		num, ok := strings.CutPrefix(e.Name(), "IPTS-")
		if !ok || !e.IsDir() {
			continue
		}
		n, err := strconv.Atoi(num)
		if err != nil {
			continue
		}
		ps = append(ps, prop{n: n, dir: filepath.Join(base, e.Name())})
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].n > ps[j].n })
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.dir
	}
	return out, nil
}

func (a *Archive) cached(k cacheKey) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	d, ok := a.cache[k]
	return d, ok
}

func (a *Archive) remember(k cacheKey, dir string) {
	if a.cacheSize <= 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.cache) >= a.cacheSize {
		clear(a.cache)
	}
	a.cache[k] = dir
}
