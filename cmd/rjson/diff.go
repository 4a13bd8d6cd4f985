package main

import (
	"fmt"

	"github.com/signadot/rjson/jtree"

	"github.com/scott-cotton/cli"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	y1, err := readDoc(cfg.MainConfig, cc, args[0])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[0], err)
	}
	y2, err := readDoc(cfg.MainConfig, cc, args[1])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[1], err)
	}
	if cfg.Reverse {
		y1, y2 = y2, y1
	}
	if jtree.Equal(y1, y2) {
		return nil
	}
	if cfg.Merge {
		mp, err := jtree.CreateMergePatch(y1, y2)
		if err != nil {
			return err
		}
		if err := writeDoc(cfg.MainConfig, cc.Out, mp); err != nil {
			return err
		}
		return cli.ExitCodeErr(1)
	}
	d, err := jtree.Diff(y1, y2, cfg.encOpts(cc.Out)...)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprint(cc.Out, d); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}
