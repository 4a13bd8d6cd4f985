// Package jtree provides the JSON document tree used by the bind package.
//
// # Overview
//
// A Node is a tagged union: the Type field says which of the other fields
// hold the value.
//
//   - NullType: null
//   - BoolType: Bool
//   - NumberType: Number, the literal text of the number
//   - StringType: String
//   - ArrayType: Values, in order
//   - ObjectType: Fields and Values, parallel slices in member order
//
// Object member order is preserved from parsing and construction, so a tree
// built from a struct keeps the struct's field order when encoded.
//
// # Creating Nodes
//
//	obj := jtree.FromKeyVals([]jtree.KeyVal{
//	    {Key: "name", Val: jtree.FromString("x")},
//	    {Key: "n", Val: jtree.FromInt(3)},
//	})
//	arr := jtree.FromSlice([]*jtree.Node{jtree.FromBool(true), jtree.Null()})
//
// # Text
//
// Parse reads JSON text into a tree and Encode writes a tree as JSON text.
// The Lenient parse option accepts comments and trailing commas. Encoding
// can be compact (Wire) or indented, and optionally colored.
//
// # Related Packages
//
//   - github.com/signadot/rjson/bind - Go value binding
//   - github.com/signadot/rjson/jtree/codec - other wire formats
package jtree
