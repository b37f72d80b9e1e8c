package formatting_test

import (
	"errors"
	"testing"

	"github.com/castlereach/dealdesk/pkg/formatting"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"bare number", "1024", 1024, false},
		{"megabytes", "50MB", 50 * 1024 * 1024, false},
		{"lowercase unit", "2kb", 2048, false},
		{"space allowed", "1 GB", 1024 * 1024 * 1024, false},
		{"fractional", "1.5KB", 1536, false},
		{"empty string", "", 0, true},
		{"unknown unit", "5XB", 0, true},
		{"garbage", "lots", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBytes(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name      string
		n         int64
		precision int
		want      string
	}{
		{"zero", 0, 0, "0 B"},
		{"bytes", 512, 0, "512 B"},
		{"kilobytes", 2048, 0, "2 KB"},
		{"megabytes with precision", 1572864, 1, "1.5 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatting.FormatBytes(tt.n, tt.precision); got != tt.want {
				t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.precision, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("direct json", func(t *testing.T) {
		got, err := formatting.Parse[payload](`{"name": "acme"}`)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if got.Name != "acme" {
			t.Errorf("Name = %q, want acme", got.Name)
		}
	})

	t.Run("fenced json", func(t *testing.T) {
		content := "Here you go:\n```json\n{\"name\": \"acme\"}\n```\nAnything else?"
		got, err := formatting.Parse[payload](content)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if got.Name != "acme" {
			t.Errorf("Name = %q, want acme", got.Name)
		}
	})

	t.Run("fence without language tag", func(t *testing.T) {
		content := "```\n{\"name\": \"acme\"}\n```"
		got, err := formatting.Parse[payload](content)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if got.Name != "acme" {
			t.Errorf("Name = %q, want acme", got.Name)
		}
	})

	t.Run("unparseable content", func(t *testing.T) {
		_, err := formatting.Parse[payload]("no json here")
		if !errors.Is(err, formatting.ErrParseFailed) {
			t.Errorf("error = %v, want ErrParseFailed", err)
		}
	})
}
