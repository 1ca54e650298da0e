// Package paths locates client data files: .pak archives and loose files
// extracted from them.
//
// Files are searched for in the directories listed in the JX_DATA
// environment variable, then in the working directory and its data and
// data/pak subdirectories, then next to the running binary.
package paths

import (
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// EnvVar names the environment variable holding extra data directories,
// separated as in PATH.
const EnvVar = "JX_DATA"

// Dirs returns the directories searched by Find, in order.
func Dirs() []string {
	var dirs []string
	for _, d := range filepath.SplitList(os.Getenv(EnvVar)) {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	dirs = append(dirs, ".", "data", filepath.Join("data", "pak"))
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	return dirs
}

// Find locates the passed data file shortname and returns an absolute or
// relative path to find it at, or an empty string.
//
// For example, for "update.pak" it may return "data/pak/update.pak".
func Find(fileName string) string {
	if filepath.IsAbs(fileName) {
		if _, err := os.Stat(fileName); err == nil {
			return fileName
		}
		return ""
	}
	for _, dir := range Dirs() {
		path := filepath.Join(dir, fileName)
		if st, err := os.Stat(path); err == nil && !st.IsDir() {
			glog.V(1).Infof("paths.Find(%q)=%s", fileName, path)
			return path
		}
	}
	return ""
}

// Open locates the passed file in the same locations that Find would look,
// and opens it. If Find returns an empty string, an error wrapping
// os.ErrNotExist is returned.
func Open(fileName string) (*os.File, error) {
	path := Find(fileName)
	if path == "" {
		return nil, errors.Wrapf(os.ErrNotExist, "paths.Open(%q): not found in %v", fileName, Dirs())
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "paths.Open(%q)", fileName)
	}
	return f, nil
}
