package pak

import (
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Set is an ordered list of archives searched as one. The client ships its
// assets split over several .pak files and a path may live in any of them.
type Set struct {
	archives []*Archive
}

// OpenSet opens every archive in paths. Archives are opened concurrently,
// each with its own file handle, but keep the order of paths for lookups. If
// any archive fails to open, the others are closed and the first error is
// returned.
func OpenSet(paths []string, opts ...Option) (*Set, error) {
	archives := make([]*Archive, len(paths))
	var g errgroup.Group
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			a, err := Open(p, opts...)
			if err != nil {
				return err
			}
			archives[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, a := range archives {
			if a != nil {
				a.Close()
			}
		}
		return nil, err
	}
	return &Set{archives: archives}, nil
}

// NewSet groups already opened archives. Closing the set closes them.
func NewSet(archives ...*Archive) *Set {
	return &Set{archives: archives}
}

// Archives returns the archives in lookup order.
func (s *Set) Archives() []*Archive {
	return s.archives
}

// Candidates returns the spellings of path tried by Set.Find, in order.
//
// Resource tables in the client refer to sprites both with and without the
// leading "\spr" directory, so a path starting with it is also tried
// without it.
func Candidates(path string) []string {
	p := NormalizePath(path)
	out := []string{p}
	if len(p) > len(`\spr\`) && strings.EqualFold(p[:len(`\spr\`)], `\spr\`) {
		out = append(out, p[len(`\spr`):])
	}
	return out
}

// Find returns the first archive holding an entry for path, trying each
// archive in order with every spelling from Candidates.
func (s *Set) Find(path string) (*Archive, Entry, bool) {
	cands := Candidates(path)
	for _, a := range s.archives {
		for _, c := range cands {
			if e, ok := a.Find(c); ok {
				glog.V(2).Infof("pak: %q found in %s as %q", path, a.Name(), c)
				return a, e, true
			}
		}
	}
	return nil, Entry{}, false
}

// ReadFile finds path in the set and returns its decoded payload. A miss
// returns an error wrapping ErrNotFound.
func (s *Set) ReadFile(path string) ([]byte, error) {
	a, e, ok := s.Find(path)
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%q in %d archives", path, len(s.archives))
	}
	return a.Read(e)
}

// Close closes every archive in the set and returns the first error.
func (s *Set) Close() error {
	var first error
	for _, a := range s.archives {
		if err := a.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
