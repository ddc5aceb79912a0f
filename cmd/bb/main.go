package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/docopt/docopt-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	bb "github.com/t7a/bundlebase"
	"github.com/t7a/bundlebase/bundle"
	"github.com/t7a/bundlebase/config"
	"github.com/t7a/bundlebase/disk"
	"github.com/t7a/bundlebase/kv"
	"github.com/t7a/bundlebase/kv/bdgr"
	"github.com/t7a/bundlebase/kv/filestore"
	"github.com/t7a/bundlebase/ledger"
)

func init() {
	logrus.SetReportCaller(true)
	formatter := &logrus.TextFormatter{
		CallerPrettyfier: caller(),
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyFile: "caller",
		},
	}
	formatter.TimestampFormat = "15:04:05.999999999"
	logrus.SetFormatter(formatter)
}

// caller returns string presentation of log caller which is formatted as
// `/path/to/file.go:line_number`. e.g. `/internal/app/api.go:25`
func caller() func(*runtime.Frame) (function string, file string) {
	return func(f *runtime.Frame) (function string, file string) {
		p, _ := os.Getwd()
		return "", fmt.Sprintf("%s:%d", strings.TrimPrefix(f.File, p), f.Line)
	}
}

type Opts struct {
	Init       bool
	Ls         bool
	Tree       bool
	Cat        bool
	Put        bool
	TagCmd     bool `docopt:"tag"`
	Migrations bool
	Mark       bool
	Reset      bool
	Recursive  bool   `docopt:"-r"`
	Type       string `docopt:"--type"`
	Path       string `docopt:"<path>"`
	Bundle     string `docopt:"<bundle>"`
	Name       string `docopt:"<name>"`
	Tag        string `docopt:"<tag>"`
}

const usage = `bundlebase

Usage:
  bb init
  bb ls [-r] [--type=<type>] [<path>]
  bb tree <bundle>
  bb cat <bundle> <name>
  bb put <bundle> <name>
  bb tag <bundle> [<tag>]
  bb migrations
  bb mark <name>
  bb reset [<name>]

Options:
  -h --help        Show this screen.
  --version        Show version.
  -r               Search untagged folders below <path> too.
  --type=<type>    Only list bundles with this type tag.

Paths are relative to the documents root, BUNDLEBASE_DOCUMENTS.
`

func main() {
	// see https://github.com/google/go-cmdtest
	os.Exit(run())
}

func run() (rc int) {
	parser := &docopt.Parser{OptionsFirst: false}
	o, _ := parser.ParseArgs(usage, os.Args[1:], "0.0")
	var opts Opts
	err := o.Bind(&opts)
	if err != nil {
		log.Error(err)
		return 22
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error(err)
		return 22
	}
	log.SetLevel(cfg.Level())
	if os.Getenv("DEBUG") == "1" {
		log.SetLevel(log.DebugLevel)
	}
	log.Debug(opts)

	d := disk.FromConfig(cfg)

	switch true {
	case opts.Init:
		err = initRoots(d)
		if err != nil {
			log.Error(err)
			return 42
		}
		fmt.Println("ok")
	case opts.Ls:
		lines, err := ls(d, opts.Path, opts.Type, opts.Recursive)
		if err != nil {
			log.Error(err)
			return 42
		}
		for _, line := range lines {
			fmt.Println(line)
		}
	case opts.Tree:
		err = tree(os.Stdout, d, opts.Bundle)
		if err != nil {
			log.Error(err)
			return 42
		}
	case opts.Cat:
		buf, err := cat(d, opts.Bundle, opts.Name)
		if err != nil {
			log.Error(err)
			return 42
		}
		_, err = os.Stdout.Write(buf)
		if err != nil {
			log.Error(err)
			return 25
		}
	case opts.Put:
		buf, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Error(err)
			return 5
		}
		err = put(d, opts.Bundle, opts.Name, buf)
		if err != nil {
			log.Error(err)
			return 42
		}
	case opts.TagCmd:
		tag, err := setOrGetTag(d, opts.Bundle, opts.Tag)
		if err != nil {
			log.Error(err)
			return 42
		}
		fmt.Println(tag)
	case opts.Migrations, opts.Mark, opts.Reset:
		err = migrations(cfg, opts)
		if err != nil {
			log.Error(err)
			return 42
		}
	}
	return 0
}

func initRoots(d *disk.Disk) error {
	return d.Create()
}

// bundlePath resolves a bundle named relative to the documents root.
func bundlePath(d *disk.Disk, rel string) (string, error) {
	p, err := d.Resolve(disk.Documents, rel, "")
	if err != nil {
		return "", err
	}
	if p.Rel == "" {
		return "", errors.Errorf("%q is the documents root, not a bundle", rel)
	}
	return p.Abs, nil
}

func ls(d *disk.Disk, rel, tag string, recursive bool) (lines []string, err error) {
	base, err := d.Resolve(disk.Documents, rel, "")
	if err != nil {
		return
	}
	trees, err := bundle.Enumerate(d.Fs, base.Abs, tag, recursive)
	if err != nil {
		return
	}
	for _, t := range trees {
		name, err := filepath.Rel(d.Documents, t.Source)
		if err != nil {
			return nil, err
		}
		line := name
		if t.TypeTag != "" {
			line += " [" + t.TypeTag + "]"
		}
		lines = append(lines, line)
	}
	return
}

func tree(w io.Writer, d *disk.Disk, rel string) error {
	path, err := bundlePath(d, rel)
	if err != nil {
		return err
	}
	t, err := bundle.Read(d.Fs, path)
	if err != nil {
		return err
	}
	printTree(w, t, "")
	return nil
}

func printTree(w io.Writer, t *bb.Tree, indent string) {
	for _, b := range t.Blobs() {
		fmt.Fprintf(w, "%s%s %d %s\n", indent, b.Name, b.Size(), b.MediaType())
	}
	for _, c := range t.Children() {
		line := indent + c.Name + "/"
		if c.TypeTag != "" {
			line += " [" + c.TypeTag + "]"
		}
		fmt.Fprintln(w, line)
		printTree(w, c, indent+"  ")
	}
}

// cat returns the blob at name, which may name a blob inside a child
// tree, e.g. "sub/codable.json".
func cat(d *disk.Disk, rel, name string) ([]byte, error) {
	path, err := bundlePath(d, rel)
	if err != nil {
		return nil, err
	}
	t, err := bundle.Read(d.Fs, path)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(filepath.ToSlash(filepath.Clean(name)), "/")
	for _, part := range parts[:len(parts)-1] {
		t, err = t.Child(part)
		if err != nil {
			return nil, err
		}
	}
	return t.Data(parts[len(parts)-1])
}

// put adds or replaces one blob, rewriting the bundle atomically.
func put(d *disk.Disk, rel, name string, data []byte) error {
	path, err := bundlePath(d, rel)
	if err != nil {
		return err
	}
	previous := ""
	t := bb.NewTree(filepath.Base(path))
	if ok, _ := afero.DirExists(d.Fs, path); ok {
		t, err = bundle.Read(d.Fs, path)
		if err != nil {
			return err
		}
		previous = path
	}
	t.AddData(name, data)
	return bundle.Write(d.Fs, t, path, previous)
}

func setOrGetTag(d *disk.Disk, rel, tag string) (string, error) {
	path, err := bundlePath(d, rel)
	if err != nil {
		return "", err
	}
	if ok, _ := afero.DirExists(d.Fs, path); !ok {
		return "", errors.Wrapf(bb.ErrNotAFolder, "%s", rel)
	}
	if tag != "" {
		err = bundle.SetTag(d.Fs, path, tag)
		if err != nil {
			return "", err
		}
	}
	return bundle.Tag(d.Fs, path)
}

func openStore(cfg *config.Config) (kv.Store, error) {
	switch cfg.Ledger {
	case config.LedgerBadger:
		return bdgr.Open(cfg.LedgerDir)
	default:
		return filestore.Open(cfg.LedgerDir)
	}
}

func migrations(cfg *config.Config, opts Opts) (err error) {
	store, err := openStore(cfg)
	if err != nil {
		return
	}
	defer func() {
		cerr := store.Close()
		if err == nil {
			err = cerr
		}
	}()
	l, err := ledger.New(store)
	if err != nil {
		return
	}
	switch {
	case opts.Mark:
		err = l.MarkCompleted(opts.Name)
	case opts.Reset && opts.Name != "":
		err = l.ResetOne(opts.Name)
	case opts.Reset:
		err = l.Reset()
	}
	if err != nil {
		return
	}
	for _, name := range l.Names() {
		fmt.Println(name)
	}
	return
}
