package main

// Notes:
// - parseRootFlags: interspersed parsing is off, so the key property is that
//   flags after a command name survive untouched for the subcommand.

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"
)

// ---------------------------------------------------------------------------
// TestParseRootFlags - Global flag parsing and pass-through
// ---------------------------------------------------------------------------

func TestParseRootFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		want     rootFlags
		wantRest []string
	}{
		{
			name:     "no arguments",
			args:     nil,
			want:     rootFlags{},
			wantRest: []string{},
		},
		{
			name:     "quiet short flag",
			args:     []string{"-q"},
			want:     rootFlags{quiet: true},
			wantRest: []string{},
		},
		{
			name:     "verbose before command",
			args:     []string{"--verbose", "install", "--runtime"},
			want:     rootFlags{verbose: true},
			wantRest: []string{"install", "--runtime"},
		},
		{
			name:     "flags after command pass through",
			args:     []string{"install", "-q"},
			want:     rootFlags{},
			wantRest: []string{"install", "-q"},
		},
		{
			name:     "version flag",
			args:     []string{"--version"},
			want:     rootFlags{version: true},
			wantRest: []string{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stderr bytes.Buffer
			flags, rest, err := parseRootFlags(tt.args, &stderr)
			if err != nil {
				t.Fatalf("parseRootFlags(%v) error: %v", tt.args, err)
			}
			if *flags != tt.want {
				t.Errorf("flags = %+v, want %+v", *flags, tt.want)
			}
			if !reflect.DeepEqual(rest, tt.wantRest) {
				t.Errorf("remaining args = %v, want %v", rest, tt.wantRest)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParseRootFlags_UnknownFlag - Errors surface with usage on stderr
// ---------------------------------------------------------------------------

func TestParseRootFlags_UnknownFlag(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	_, _, err := parseRootFlags([]string{"--no-such-flag"}, &stderr)
	if err == nil {
		t.Fatal("expected an error for an unknown flag")
	}
	if stderr.Len() == 0 {
		t.Error("stderr should carry the error and usage text")
	}
}

// ---------------------------------------------------------------------------
// TestNewLogger - Verbosity flags map to log levels; quiet wins
// ---------------------------------------------------------------------------

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		flags rootFlags
		want  log.Level
	}{
		{"default", rootFlags{}, log.InfoLevel},
		{"verbose", rootFlags{verbose: true}, log.DebugLevel},
		{"quiet", rootFlags{quiet: true}, log.ErrorLevel},
		{"quiet beats verbose", rootFlags{quiet: true, verbose: true}, log.ErrorLevel},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := newLogger(&buf, &tt.flags)
			if got := logger.GetLevel(); got != tt.want {
				t.Errorf("level = %v, want %v", got, tt.want)
			}
			if logger.GetPrefix() != "mdbook-diagrams" {
				t.Errorf("prefix = %q, want mdbook-diagrams", logger.GetPrefix())
			}
		})
	}
}
