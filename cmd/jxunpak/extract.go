package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"badc0de.net/pkg/go-jx/pak"
)

// stats counts extraction outcomes. Missing and failed entries are
// reported and skipped; they do not stop the run.
type stats struct {
	Written int
	Missing int
	Failed  int
	Raw     int // Written undecoded; compression not supported.
}

type extractor struct {
	set     *pak.Set
	outDir  string
	workers int
	digest  bool
	out     io.Writer

	mu sync.Mutex
	st stats
}

// outputPath maps an archive path to a file below dir. Paths that would
// leave dir are rejected.
func outputPath(dir, p string) (string, error) {
	rel := strings.Trim(strings.ReplaceAll(p, `\`, "/"), "/")
	if rel == "" {
		return "", errors.Errorf("empty path %q", p)
	}
	for _, seg := range strings.Split(rel, "/") {
		if seg == ".." {
			return "", errors.Errorf("path %q leaves the output directory", p)
		}
	}
	return filepath.Join(dir, filepath.FromSlash(rel)), nil
}

func (x *extractor) count(f func(*stats)) {
	x.mu.Lock()
	f(&x.st)
	x.mu.Unlock()
}

// run extracts every path in want. Only errors writing to disk abort the
// run; everything else is logged and counted.
func (x *extractor) run(want []string) (stats, error) {
	var g errgroup.Group
	if x.workers > 0 {
		g.SetLimit(x.workers)
	}
	for _, p := range want {
		p := p
		g.Go(func() error {
			return x.extract(p)
		})
	}
	err := g.Wait()
	return x.st, err
}

func (x *extractor) extract(p string) error {
	a, e, ok := x.set.Find(p)
	if !ok {
		glog.Warningf("%s (%08X): not found", p, pak.Hash(p))
		x.count(func(s *stats) { s.Missing++ })
		return nil
	}

	b, err := a.Read(e)
	raw := false
	switch {
	case errors.Is(err, pak.ErrUnsupportedCompression):
		glog.Warningf("%s: %v; writing stored bytes", p, err)
		raw = true
	case err != nil:
		glog.Errorf("%s: %v", p, err)
		x.count(func(s *stats) { s.Failed++ })
		return nil
	}

	dst, err := outputPath(x.outDir, p)
	if err != nil {
		glog.Errorf("%s: %v", p, err)
		x.count(func(s *stats) { s.Failed++ })
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", dst)
	}
	if err := os.WriteFile(dst, b, 0644); err != nil {
		return errors.Wrapf(err, "writing %s", dst)
	}
	glog.V(1).Infof("%s: %v from %s -> %s", p, e, a.Name(), dst)

	x.count(func(s *stats) {
		s.Written++
		if raw {
			s.Raw++
		}
	})
	if x.digest {
		x.mu.Lock()
		fmt.Fprintf(x.out, "%016x  %s\n", xxhash.Sum64(b), p)
		x.mu.Unlock()
	}
	return nil
}

// list prints every entry of every archive in set.
func list(w io.Writer, set *pak.Set) {
	for _, a := range set.Archives() {
		fmt.Fprintf(w, "# %s: %d entries\n", a.Name(), a.Len())
		for _, e := range a.Entries() {
			fmt.Fprintf(w, "%08X\t%10d\t%10d\t%10d\t%v\n", e.ID, e.Offset, e.StoredSize(), e.OriginalSize, e.Compression())
		}
	}
}
