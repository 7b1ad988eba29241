package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectNoteLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"notes"},
			want: []string{"notes"},
		},
		{
			name: "note id first token",
			in:   []string{"notes", "note-abc123"},
			want: []string{"notes", "show", "note-abc123"},
		},
		{
			name: "note id after value flag",
			in:   []string{"notes", "--server", "http://127.0.0.1:9000", "note-abc123"},
			want: []string{"notes", "--server", "http://127.0.0.1:9000", "show", "note-abc123"},
		},
		{
			name: "note id after equals flag",
			in:   []string{"notes", "--format=yaml", "note-abc123"},
			want: []string{"notes", "--format=yaml", "show", "note-abc123"},
		},
		{
			name: "note id after bool flag",
			in:   []string{"notes", "--pretty", "note-abc123"},
			want: []string{"notes", "--pretty", "show", "note-abc123"},
		},
		{
			name: "note id after double dash",
			in:   []string{"notes", "--config", "c.toml", "--", "note-abc123"},
			want: []string{"notes", "--config", "c.toml", "--", "show", "note-abc123"},
		},
		{
			name: "bare prefix not rewritten",
			in:   []string{"notes", "note-"},
			want: []string{"notes", "note-"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"notes", "show", "note-abc123"},
			want: []string{"notes", "show", "note-abc123"},
		},
		{
			name: "unknown command not rewritten",
			in:   []string{"notes", "wat"},
			want: []string{"notes", "wat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectNoteLookupArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectNoteLookupArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
