package main

import (
	"fmt"

	"github.com/signadot/rjson/jtree"

	"github.com/scott-cotton/cli"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: no patch specified", cli.ErrUsage)
	}
	p, err := readDoc(cfg.MainConfig, cc, args[0])
	if err != nil {
		return fmt.Errorf("error decoding patch %s: %w", args[0], err)
	}
	apply := jtree.ApplyPatch
	if cfg.Merge {
		apply = jtree.MergePatch
	}
	return eachDoc(cfg.MainConfig, cc, args[1:], func(doc *jtree.Node) error {
		res, err := apply(doc, p)
		if err != nil {
			return err
		}
		theLog.Debug("patched", "merge", cfg.Merge)
		return writeDoc(cfg.MainConfig, cc.Out, res)
	})
}
