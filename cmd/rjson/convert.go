package main

import (
	"fmt"

	"github.com/signadot/rjson/jtree"

	"github.com/scott-cotton/cli"
)

func convert(cfg *ConvertConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Convert.Parse(cc, args)
	if err != nil {
		return err
	}
	mCfg := cfg.MainConfig
	in, out := mCfg.inCodec(), mCfg.outCodec()
	if in.Name() == out.Name() && in.Name() != "json" {
		return fmt.Errorf("%w: input and output are both %s", cli.ErrUsage, in.Name())
	}
	theLog.Debug("convert", "from", in.Name(), "to", out.Name())
	return eachDoc(mCfg, cc, args, func(node *jtree.Node) error {
		return writeDoc(mCfg, cc.Out, node)
	})
}
