// Package bind converts between Go values and jtree documents, driven by
// the static type of the value.
//
// # Usage
//
//	type Base struct {
//	    Age int `rjson:"field=age"`
//	}
//	type Person struct {
//	    Base
//	    Alive bool `rjson:"field=alive"`
//	}
//
//	reg := bind.NewRegistry()
//	bind.MustRegister[Base](reg)
//	bind.MustRegister[Person](reg)
//	eng, err := bind.NewEngine(reg)
//
//	node, err := eng.ToJSON(Person{Base{3}, true}) // {"age": 3, "alive": true}
//	p, err := bind.Decode[Person](eng, node)
//
// # Types
//
// Every type is walked by a Strategy chosen once from its static type:
// registered overrides and types with tree or text methods first, then
// booleans, numbers and strings, then pointers, slices and arrays, maps,
// and finally registered struct types. Defined integer types such as
// `type Color int` are enumerations and are carried as their integer
// value. Interface types and unregistered structs are not supported and
// are reported when the registry is frozen.
//
// Embedded registered structs act as base types: their fields come first,
// in embedding order, and a base reached twice contributes only once.
//
// # Errors
//
// Binding fails with a *DeserializationError naming the path of the
// offending node, such as testObjects[0].number. Missing object members
// keep their defaults and unknown members are ignored.
//
// # Related Packages
//
//   - github.com/signadot/rjson/jtree - document trees
//   - github.com/signadot/rjson/jtree/codec - other wire formats
package bind
