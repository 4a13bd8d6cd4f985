package jtree

import "errors"

var (
	ErrParse     = errors.New("parse error")
	ErrNotNumber = errors.New("not a number")
	ErrPatch     = errors.New("patch error")
)
