// Command jxunpak hashes paths and extracts files from .pak archives.
//
// Print the key a path is stored under:
//
//	jxunpak -hash '\settings\serverlist.ini'
//
// Extract files by path from every archive in data/pak:
//
//	jxunpak -pak data/pak -out extracted '\settings\serverlist.ini' '\spr\npcres\man\body01.spr'
//
// Paths may also be listed one per line in a file passed with -list.
// Archives store no names, so -ls lists entries by hash only.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/common-nighthawk/go-figure"
	"github.com/golang/glog"

	"badc0de.net/pkg/go-jx/pak"
	"badc0de.net/pkg/go-jx/paths"
)

var (
	hashPath = flag.String("hash", "", "print the hash of this path and exit")
	outDir   = flag.String("out", ".", "directory to extract into")
	workers  = flag.Int("workers", 4, "number of entries decoded in parallel")
	digest   = flag.Bool("digest", false, "print an xxhash64 digest of every extracted payload")
	ls       = flag.Bool("ls", false, "list the entries of every archive")

	pakList  string
	listPath string
)

// readList reads paths from a list file. Blank lines and lines starting
// with '#' or ';' are skipped.
func readList(name string) ([]string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		l := strings.TrimSpace(sc.Text())
		if l == "" || strings.HasPrefix(l, "#") || strings.HasPrefix(l, ";") {
			continue
		}
		out = append(out, l)
	}
	return out, sc.Err()
}

func usage() {
	figure.Write(flag.CommandLine.Output(), figure.NewFigure("jxunpak", "", true))
	fmt.Fprintf(flag.CommandLine.Output(), "\nusage: %s [flags] [path ...]\n\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	paths.SetupPakFlag("pak", &pakList)
	paths.SetupFilePathFlag("unpak.txt", "list", &listPath)
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	if *hashPath != "" {
		fmt.Printf("%s\t%08X\n", pak.NormalizePath(*hashPath), pak.Hash(*hashPath))
		return
	}

	archives, err := paths.ExpandPaks(pakList)
	if err != nil {
		glog.Exitf("locating archives: %v", err)
	}
	if len(archives) == 0 {
		glog.Exitf("no archives given; use -pak or set %s", paths.EnvVar)
	}

	set, err := pak.OpenSet(archives)
	if err != nil {
		glog.Exitf("opening archives: %v", err)
	}
	defer set.Close()

	if *ls {
		list(os.Stdout, set)
		return
	}

	want := flag.Args()
	if listPath != "" {
		l, err := readList(listPath)
		if err != nil {
			glog.Exitf("reading list %q: %v", listPath, err)
		}
		want = append(want, l...)
	}
	if len(want) == 0 {
		glog.Exitf("nothing to extract; pass paths or -list")
	}

	x := &extractor{set: set, outDir: *outDir, workers: *workers, digest: *digest, out: os.Stdout}
	st, err := x.run(want)
	if err != nil {
		glog.Exitf("extracting: %v", err)
	}
	glog.Infof("extracted %d of %d files (%d missing, %d failed, %d undecoded)", st.Written, len(want), st.Missing, st.Failed, st.Raw)
}
