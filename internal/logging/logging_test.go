// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{"defaults", "", "", false},
		{"debug text", "debug", "text", false},
		{"json", "warn", "json", false},
		{"logfmt upper case", "error", "LOGFMT", false},
		{"bad level", "loud", "", true},
		{"bad format", "info", "xml", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(&bytes.Buffer{}, tt.level, tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewInvalidFormatSentinel(t *testing.T) {
	t.Parallel()

	_, err := New(&bytes.Buffer{}, "", "yaml")
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l, err := New(&buf, "warn", "logfmt")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	l.Info("hidden")
	l.Warn("shown", "module", "./index.js")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line leaked at warn level:\n%s", out)
	}
	for _, want := range []string{"shown", "module=./index.js", "prefix=" + Prefix} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l, err := New(&buf, "info", "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := WithLogger(context.Background(), l)
	if got := FromContext(ctx); got != l {
		t.Error("FromContext() did not return the stored logger")
	}

	FromContext(context.Background()).Error("dropped")
	if buf.Len() != 0 {
		t.Errorf("fallback logger wrote to the stored writer: %q", buf.String())
	}
}
