package bind

import (
	"fmt"
	"strings"
)

const tagKey = "rjson"

// fieldTag is the parsed form of an rjson struct tag.
type fieldTag struct {
	Name  string
	Omit  bool
	Const bool
}

// ParseStructTag parses an rjson struct tag into key/value pairs. Flags map
// to the empty string. Values may be quoted to hold commas or spaces:
//
//	`rjson:"field=name,const"`
//	`rjson:"field='first name'"`
func ParseStructTag(tag string) (map[string]string, error) {
	res := map[string]string{}
	var (
		parts []string
		cur   strings.Builder
		quote byte
	)
	flush := func() {
		if part := strings.TrimSpace(cur.String()); part != "" {
			parts = append(parts, part)
		}
		cur.Reset()
	}
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			cur.WriteByte(c)
		case c == '\'' || c == '"':
			quote = c
			cur.WriteByte(c)
		case c == ',' || c == ' ':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("invalid tag %q: unterminated quote", tag)
	}
	flush()
	for _, part := range parts {
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			res[part] = ""
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid tag: empty key in %q", part)
		}
		res[key] = unquote(strings.TrimSpace(val))
	}
	return res, nil
}

func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '\'' || v[0] == '"') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}

func parseFieldTag(goName, tag string) (*fieldTag, error) {
	ft := &fieldTag{Name: goName}
	if tag == "" {
		return ft, nil
	}
	parsed, err := ParseStructTag(tag)
	if err != nil {
		return nil, err
	}
	for k, v := range parsed {
		switch k {
		case "-", "omit":
			ft.Omit = true
		case "const":
			ft.Const = true
		case "field":
			if v == "" {
				return nil, fmt.Errorf("invalid tag %q: empty field name", tag)
			}
			ft.Name = v
		default:
			return nil, fmt.Errorf("invalid tag %q: unknown key %q", tag, k)
		}
	}
	return ft, nil
}
