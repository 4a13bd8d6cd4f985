package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/signadot/rjson/jtree"
	"github.com/signadot/rjson/jtree/codec"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color   bool   `cli:"name=color desc='encode with color'"`
	WireOut bool   `cli:"name=wire desc='output in compact format'"`
	Indent  string `cli:"name=indent desc='indentation of non compact output'"`
	Strict  bool   `cli:"name=strict desc='reject comments and trailing commas in JSON input'"`
	Verbose bool   `cli:"name=v desc='log debug messages'"`
	Agent   bool   `cli:"name=agent desc='run a gops diagnostics agent'"`

	InCodec, OutCodec codec.Codec

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) codecFunc(cp *codec.Codec) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		c, err := codec.Lookup(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		*cp = c
		return c.Name(), nil
	})
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

func (cfg *MainConfig) parseOpts() []jtree.ParseOption {
	if cfg.Strict {
		return nil
	}
	return []jtree.ParseOption{jtree.Lenient()}
}

// inCodec returns the codec documents are read with, JSON by default.
func (cfg *MainConfig) inCodec() codec.Codec {
	if cfg.InCodec != nil {
		return cfg.InCodec
	}
	return codec.JSON()
}

func (cfg *MainConfig) outCodec() codec.Codec {
	if cfg.OutCodec != nil {
		return cfg.OutCodec
	}
	return codec.JSON()
}

func (cfg *MainConfig) logLevel() slog.Level {
	if cfg.Verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func (cfg *MainConfig) encOpts(w io.Writer) []jtree.EncodeOption {
	res := []jtree.EncodeOption{
		jtree.EncodeWire(cfg.WireOut),
	}
	if cfg.Indent != "" {
		res = append(res, jtree.EncodeIndent(cfg.Indent))
	}
	if cfg.Color {
		res = append(res, jtree.EncodeColors(jtree.NewColors()))
		return res
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return res
	}
	f, ok := w.(*os.File)
	if !ok {
		return res
	}
	if isatty.IsTerminal(f.Fd()) {
		res = append(res, jtree.EncodeColors(jtree.NewColors()))
	}
	return res
}

type FmtConfig struct {
	*MainConfig

	Fmt *cli.Command
}

type ConvertConfig struct {
	*MainConfig

	Convert *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Reverse bool `cli:"name=r desc='reverse the diff'"`
	Merge   bool `cli:"name=m desc='print a JSON Merge Patch instead of a line diff'"`

	Diff *cli.Command
}

type PatchConfig struct {
	*MainConfig
	Merge bool `cli:"name=m desc='the patch is a JSON Merge Patch'"`

	Patch *cli.Command
}
