// Package loader reads XML component descriptions.
//
// Loading never stops at the first problem. Each issue is recorded with the
// XML line and column it came from, the offending element is dropped and
// the rest of the description is still built. Only a document that is not
// well-formed XML, or is not a component at all, fails outright.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/minio/highwayhash"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/description"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/diag"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/registry"
)

// Extension is the file extension LoadDir picks up.
const Extension = ".xml"

var hashKey = []byte("OpenTraceSchem component sources")

// Result is the outcome of loading one description.
type Result struct {
	Source      string
	Description *description.ComponentDescription
	Issues      diag.Issues
}

// Loader parses descriptions and caches them by content, so identical
// sources are parsed once. It is safe for concurrent use.
type Loader struct {
	logger *slog.Logger
	fs     afs.Service

	mu    sync.Mutex
	cache map[uint64]*Result
}

// New creates a Loader. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger: logger,
		fs:     afs.New(),
		cache:  make(map[uint64]*Result),
	}
}

func fingerprint(data []byte) (uint64, error) {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		return 0, err
	}
	if _, err := h.Write(data); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

// Load reads a description from r. source names it in issues and logs.
func (l *Loader) Load(r io.Reader, source string) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", source, err)
	}
	return l.LoadBytes(data, source)
}

// LoadBytes parses data. The returned error is non-nil only when no
// description could be built; otherwise problems are in Result.Issues.
func (l *Loader) LoadBytes(data []byte, source string) (*Result, error) {
	key, err := fingerprint(data)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	l.mu.Lock()
	cached, ok := l.cache[key]
	l.mu.Unlock()
	if ok {
		l.logger.Debug("description cache hit", "source", source, "name", cached.Description.Name)
		return &Result{Source: source, Description: cached.Description, Issues: cached.Issues}, nil
	}

	root, err := readTree(bytes.NewReader(data))
	if err != nil {
		return nil, &diag.LoadError{
			Source: source,
			Issues: diag.Issues{{Severity: diag.Error, Message: err.Error()}},
		}
	}
	desc, issues := parseComponent(root)
	l.log(source, issues)
	if desc == nil {
		return nil, &diag.LoadError{Source: source, Issues: issues.Errors()}
	}

	res := &Result{Source: source, Description: desc, Issues: issues}
	l.mu.Lock()
	l.cache[key] = res
	l.mu.Unlock()
	l.logger.Debug("loaded description", "source", source, "name", desc.Name, "issues", len(issues))
	return res, nil
}

// LoadFile loads a description from a path or afs URL.
func (l *Loader) LoadFile(ctx context.Context, URL string) (*Result, error) {
	data, err := l.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	return l.LoadBytes(data, URL)
}

// LoadDir loads every description under URL, recursively, and adds them
// to reg. Files that fail to load or register are skipped and reported in
// the returned error; the rest are still added.
func (l *Loader) LoadDir(ctx context.Context, URL string, reg *registry.Registry) (int, error) {
	var files []string
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			return true, nil
		}
		if strings.EqualFold(path.Ext(info.Name()), Extension) {
			files = append(files, url.Join(baseURL, path.Join(parent, info.Name())))
		}
		return true, nil
	}
	if err := l.fs.Walk(ctx, URL, visitor); err != nil {
		return 0, fmt.Errorf("loader: scan %s: %w", URL, err)
	}
	sort.Strings(files)

	var errs []error
	loaded := 0
	for _, file := range files {
		res, err := l.LoadFile(ctx, file)
		if err != nil {
			l.logger.Error("skipping description", "source", file, "err", err)
			errs = append(errs, err)
			continue
		}
		if err := reg.Add(res.Description); err != nil {
			l.logger.Error("cannot register description", "source", file, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", file, err))
			continue
		}
		loaded++
	}
	l.logger.Info("loaded descriptions", "dir", URL, "count", loaded, "failed", len(errs))
	return loaded, errors.Join(errs...)
}

func (l *Loader) log(source string, issues diag.Issues) {
	for _, i := range issues {
		level := slog.LevelWarn
		if i.Severity == diag.Error {
			level = slog.LevelError
		}
		l.logger.Log(context.Background(), level, i.Message, "source", source, "pos", i.Pos.String())
	}
}
