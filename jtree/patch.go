package jtree

import (
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
)

// ApplyPatch applies an RFC 6902 JSON Patch document to doc and returns
// the patched tree. doc is not modified.
func ApplyPatch(doc, patch *Node) (*Node, error) {
	p, err := MarshalJSON(patch)
	if err != nil {
		return nil, err
	}
	ops, err := jsonpatch.DecodePatch(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPatch, err)
	}
	d, err := MarshalJSON(doc)
	if err != nil {
		return nil, err
	}
	out, err := ops.Apply(d)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPatch, err)
	}
	return Parse(out)
}

// MergePatch applies an RFC 7386 JSON Merge Patch to doc.
func MergePatch(doc, patch *Node) (*Node, error) {
	d, err := MarshalJSON(doc)
	if err != nil {
		return nil, err
	}
	p, err := MarshalJSON(patch)
	if err != nil {
		return nil, err
	}
	out, err := jsonpatch.MergePatch(d, p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPatch, err)
	}
	return Parse(out)
}

// CreateMergePatch returns the merge patch that turns from into to.
func CreateMergePatch(from, to *Node) (*Node, error) {
	f, err := MarshalJSON(from)
	if err != nil {
		return nil, err
	}
	t, err := MarshalJSON(to)
	if err != nil {
		return nil, err
	}
	out, err := jsonpatch.CreateMergePatch(f, t)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPatch, err)
	}
	return Parse(out)
}
