package main

import (
	"fmt"
	"io"
	"os"

	"github.com/signadot/rjson/jtree"

	"github.com/scott-cotton/cli"
)

// readDoc reads one document from path, or from stdin if path is "-".
func readDoc(cfg *MainConfig, cc *cli.Context, path string) (*jtree.Node, error) {
	var r io.Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		r = cc.In
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", path, err)
	}
	c := cfg.inCodec()
	theLog.Debug("read", "path", path, "bytes", len(d), "format", c.Name())
	if c.Name() == "json" {
		return jtree.Parse(d, cfg.parseOpts()...)
	}
	return c.Unmarshal(d)
}

// writeDoc writes node in the output format. JSON output honors the
// encoding options; other formats are written as their codec renders them.
func writeDoc(cfg *MainConfig, w io.Writer, node *jtree.Node) error {
	c := cfg.outCodec()
	if c.Name() == "json" {
		return jtree.Encode(node, w, cfg.encOpts(w)...)
	}
	d, err := c.Marshal(node)
	if err != nil {
		return err
	}
	_, err = w.Write(d)
	return err
}

// eachDoc calls f on the document of every file in files, or of stdin
// when there are none.
func eachDoc(cfg *MainConfig, cc *cli.Context, files []string, f func(*jtree.Node) error) error {
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, file := range files {
		node, err := readDoc(cfg, cc, file)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", file, err)
		}
		if err := f(node); err != nil {
			return fmt.Errorf("error processing %s: %w", file, err)
		}
	}
	return nil
}
