package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Resolve bool
	To      bool
	From    bool
}

var d *debug

func init() {
	d = &debug{}
	d.Resolve = boolEnv("RJSON_DEBUG_RESOLVE")
	d.To = boolEnv("RJSON_DEBUG_TO")
	d.From = boolEnv("RJSON_DEBUG_FROM")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

// Resolve reports whether strategy resolution is traced.
func Resolve() bool {
	return d.Resolve
}

// To reports whether serialization results are traced.
func To() bool {
	return d.To
}

// From reports whether deserialization inputs and failures are traced.
func From() bool {
	return d.From
}
