package main

import (
	"github.com/signadot/rjson/jtree"

	"github.com/scott-cotton/cli"
)

func format(cfg *FmtConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Fmt.Parse(cc, args)
	if err != nil {
		return err
	}
	mCfg := cfg.MainConfig
	return eachDoc(mCfg, cc, args, func(node *jtree.Node) error {
		return jtree.Encode(node, cc.Out, mCfg.encOpts(cc.Out)...)
	})
}
