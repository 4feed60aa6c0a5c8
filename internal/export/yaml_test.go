package export

import (
	"bytes"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/chatloom/chatloom/internal"
)

func TestYAMLExporter_Export(t *testing.T) {
	conv := internal.CreateTestConversation("test1")

	var buf bytes.Buffer
	exporter := &YAMLExporter{}
	if err := exporter.Export(conv, &buf); err != nil {
		t.Fatalf("YAMLExporter.Export() error = %v", err)
	}

	var got map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if got["id"] != "test1" {
		t.Errorf("round-trip id = %v, want test1", got["id"])
	}
	messages, ok := got["messages"].([]interface{})
	if !ok || len(messages) != len(conv.Messages) {
		t.Errorf("round-trip messages = %v, want %d entries", got["messages"], len(conv.Messages))
	}
}
