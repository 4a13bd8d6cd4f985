package debug

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/signadot/rjson/jtree"
)

var out io.Writer = os.Stderr

type Tree struct{ *jtree.Node }

func (y Tree) String() string {
	buf := bytes.NewBuffer(nil)
	if err := jtree.Encode(y.Node, buf); err != nil {
		return fmt.Sprintf("[raw *jtree.Node] %v", y.Node)
	}
	return buf.String()
}

// Logf writes a formatted debug line to stderr. Tree nodes among args are
// rendered as indented JSON and reflect types by their full name.
func Logf(msg string, args ...any) {
	for i := range args {
		switch x := args[i].(type) {
		case *jtree.Node:
			args[i] = Tree{x}.String()
		case reflect.Type:
			args[i] = x.String()
		}
	}
	fmt.Fprintf(out, msg, args...)
}
