package server

import (
	"reflect"
	"testing"

	"github.com/ironsheep/dalle-image-mcp/internal/generate"
)

func TestTools_SingleDescriptor(t *testing.T) {
	s := New(&fakeGenerator{}, Options{})

	tools := s.Tools()
	if len(tools) != 1 {
		t.Fatalf("got %d tools, want 1", len(tools))
	}

	tool := tools[0]
	if tool.Name != "generate_image" {
		t.Errorf("Name: got %s, want generate_image", tool.Name)
	}
	if tool.Description == "" {
		t.Error("Description should not be empty")
	}
	if tool.InputSchema.Type != "object" {
		t.Errorf("InputSchema.Type: got %s, want object", tool.InputSchema.Type)
	}
	if !reflect.DeepEqual(tool.InputSchema.Required, []string{"prompt"}) {
		t.Errorf("Required: got %v, want [prompt]", tool.InputSchema.Required)
	}
}

func TestTools_Schema(t *testing.T) {
	tool := New(&fakeGenerator{}, Options{}).Tools()[0]

	prompt, ok := tool.InputSchema.Properties["prompt"].(map[string]interface{})
	if !ok {
		t.Fatalf("prompt property missing or wrong type: %T", tool.InputSchema.Properties["prompt"])
	}
	if prompt["type"] != "string" {
		t.Errorf("prompt type: got %v", prompt["type"])
	}

	size, ok := tool.InputSchema.Properties["size"].(map[string]interface{})
	if !ok {
		t.Fatalf("size property missing or wrong type: %T", tool.InputSchema.Properties["size"])
	}
	if size["type"] != "string" {
		t.Errorf("size type: got %v", size["type"])
	}
	if !reflect.DeepEqual(size["enum"], []string{"256x256", "512x512", "1024x1024"}) {
		t.Errorf("size enum: got %v", size["enum"])
	}
	if size["description"] != "Size of the image (256x256, 512x512, or 1024x1024)" {
		t.Errorf("size description: got %v", size["description"])
	}
}

func TestTools_UnaffectedByCalls(t *testing.T) {
	gen := &fakeGenerator{img: &generate.Image{URL: "https://example/img.png"}}
	s := New(gen, Options{})
	before := s.Tools()

	before[0].Name = "mutated"
	_, _ = s.Invoke(testContext(t), ToolName, []byte(`{"prompt":"x"}`))
	_, _ = s.Invoke(testContext(t), "generate_video", []byte(`{"prompt":"x"}`))

	after := s.Tools()
	if len(after) != 1 || after[0].Name != ToolName {
		t.Errorf("descriptors changed: %+v", after)
	}
}
