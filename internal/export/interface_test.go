package export

import (
	"testing"
)

func TestNewExporter(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{format: "json", wantErr: false},
		{format: "jsonl", wantErr: false},
		{format: "md", wantErr: false},
		{format: "markdown", wantErr: false},
		{format: "yaml", wantErr: false},
		{format: "xml", wantErr: true},
		{format: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			exporter, err := NewExporter(tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewExporter(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
				return
			}
			if !tt.wantErr && exporter == nil {
				t.Errorf("NewExporter(%q) returned nil exporter", tt.format)
			}
		})
	}
}

func TestExporterExtensions(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{format: "json", want: "json"},
		{format: "jsonl", want: "jsonl"},
		{format: "md", want: "md"},
		{format: "yaml", want: "yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			exporter, err := NewExporter(tt.format)
			if err != nil {
				t.Fatalf("NewExporter(%q) error = %v", tt.format, err)
			}
			if got := exporter.Extension(); got != tt.want {
				t.Errorf("Extension() = %q, want %q", got, tt.want)
			}
		})
	}
}
