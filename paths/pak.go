package paths

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// ExpandPaks turns a comma separated list of archives and directories into
// a list of archive paths. Directories contribute every *.pak file directly
// inside them, sorted by name. Entries are kept in the order given.
func ExpandPaks(list string) ([]string, error) {
	var out []string
	for _, p := range strings.Split(list, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		st, err := os.Stat(p)
		if err != nil {
			return nil, errors.Wrapf(err, "paths: archive %q", p)
		}
		if !st.IsDir() {
			out = append(out, p)
			continue
		}
		ents, err := os.ReadDir(p)
		if err != nil {
			return nil, errors.Wrapf(err, "paths: listing %q", p)
		}
		var found []string
		for _, e := range ents {
			if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pak") {
				continue
			}
			found = append(found, filepath.Join(p, e.Name()))
		}
		sort.Strings(found)
		glog.V(1).Infof("paths: %d archives in %s", len(found), p)
		out = append(out, found...)
	}
	return out, nil
}

// DefaultPaks returns a comma separated list naming the first directory
// from Dirs holding any .pak file, or an empty string.
func DefaultPaks() string {
	for _, dir := range Dirs() {
		m, _ := filepath.Glob(filepath.Join(dir, "*.pak"))
		if len(m) > 0 {
			return dir
		}
	}
	return ""
}
