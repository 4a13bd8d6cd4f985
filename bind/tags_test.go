package bind

import (
	"reflect"
	"testing"
)

func TestParseStructTag(t *testing.T) {
	tests := []struct {
		tag     string
		want    map[string]string
		wantErr bool
	}{
		{tag: "", want: map[string]string{}},
		{tag: "field=name", want: map[string]string{"field": "name"}},
		{tag: "field=name,const", want: map[string]string{"field": "name", "const": ""}},
		{tag: "-", want: map[string]string{"-": ""}},
		{tag: "field='first name' const", want: map[string]string{"field": "first name", "const": ""}},
		{tag: `field="a,b"`, want: map[string]string{"field": "a,b"}},
		{tag: "field='open", wantErr: true},
		{tag: "=x", wantErr: true},
	}
	for _, tc := range tests {
		got, err := ParseStructTag(tc.tag)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%q: expected an error", tc.tag)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", tc.tag, err)
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%q: got %v, want %v", tc.tag, got, tc.want)
		}
	}
}

func TestParseFieldTag(t *testing.T) {
	tests := []struct {
		tag     string
		want    fieldTag
		wantErr bool
	}{
		{tag: "", want: fieldTag{Name: "Go"}},
		{tag: "field=go", want: fieldTag{Name: "go"}},
		{tag: "const", want: fieldTag{Name: "Go", Const: true}},
		{tag: "omit", want: fieldTag{Name: "Go", Omit: true}},
		{tag: "field=", wantErr: true},
		{tag: "required", wantErr: true},
	}
	for _, tc := range tests {
		got, err := parseFieldTag("Go", tc.tag)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%q: expected an error", tc.tag)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", tc.tag, err)
			continue
		}
		if *got != tc.want {
			t.Errorf("%q: got %+v, want %+v", tc.tag, *got, tc.want)
		}
	}
}
