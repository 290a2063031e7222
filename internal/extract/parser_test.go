/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package extract

import (
	"fmt"
	"strings"
	"testing"
)

func annotatedSource(instanceSegment, jsonBody string) string {
	return fmt.Sprintf(
		"#[gts_well_known_instance(\n"+
			"    dir_path = \"instances\",\n"+
			"    schema_id = \"gts.x.core.events.topic.v1~\",\n"+
			"    instance_segment = \"%s\"\n"+
			")]\n"+
			"const FOO: &str = %s;\n",
		instanceSegment, jsonBody,
	)
}

func TestExtractInstancesFromSource_RegularString(t *testing.T) {
	content := annotatedSource("x.commerce._.orders.v1.0", `"{\"name\": \"orders\"}"`)
	result, err := ExtractInstancesFromSource(content, "t.rs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected 1 instance, got %d", len(result))
	}
	if result[0].Attrs.SchemaID != "gts.x.core.events.topic.v1~" {
		t.Errorf("got schema_id %q", result[0].Attrs.SchemaID)
	}
	if result[0].Attrs.InstanceSegment != "x.commerce._.orders.v1.0" {
		t.Errorf("got instance_segment %q", result[0].Attrs.InstanceSegment)
	}
}

func TestExtractInstancesFromSource_NoAnnotationReturnsEmpty(t *testing.T) {
	content := `const FOO: &str = "hello";`
	result, err := ExtractInstancesFromSource(content, "t.rs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 0 {
		t.Fatalf("expected no instances, got %d", len(result))
	}
}

func TestExtractInstancesFromSource_RejectsIDInBody(t *testing.T) {
	content := annotatedSource("x.commerce._.orders.v1.0", `"{\"id\": \"bad\", \"name\": \"x\"}"`)
	_, err := ExtractInstancesFromSource(content, "t.rs")
	if err == nil || !strings.Contains(err.Error(), `"id" field`) {
		t.Fatalf("expected an 'id field' error, got %v", err)
	}
}

func TestExtractInstancesFromSource_RejectsNonObjectJSON(t *testing.T) {
	content := annotatedSource("x.commerce._.orders.v1.0", `"[1, 2, 3]"`)
	_, err := ExtractInstancesFromSource(content, "t.rs")
	if err == nil || !strings.Contains(err.Error(), "JSON object") {
		t.Fatalf("expected a 'JSON object' error, got %v", err)
	}
}

func TestExtractInstancesFromSource_RejectsMalformedJSON(t *testing.T) {
	content := annotatedSource("x.commerce._.orders.v1.0", `"{not valid json}"`)
	_, err := ExtractInstancesFromSource(content, "t.rs")
	if err == nil || !strings.Contains(err.Error(), "malformed JSON") {
		t.Fatalf("expected a malformed-JSON error, got %v", err)
	}
}

func TestExtractInstancesFromSource_RejectsStaticItem(t *testing.T) {
	content := "#[gts_well_known_instance(\n" +
		"    dir_path = \"instances\",\n" +
		"    schema_id = \"gts.x.foo.v1~\",\n" +
		"    instance_segment = \"x.bar.v1.0\"\n" +
		")]\n" +
		"static FOO: &str = \"{}\";\n"
	_, err := ExtractInstancesFromSource(content, "t.rs")
	if err == nil || !strings.Contains(err.Error(), "static") {
		t.Fatalf("expected a static-item error, got %v", err)
	}
}

func TestExtractInstancesFromSource_RejectsConcatMacro(t *testing.T) {
	content := "#[gts_well_known_instance(\n" +
		"    dir_path = \"instances\",\n" +
		"    schema_id = \"gts.x.foo.v1~\",\n" +
		"    instance_segment = \"x.bar.v1.0\"\n" +
		")]\n" +
		"const FOO: &str = concat!(\"{\", \"}\");\n"
	_, err := ExtractInstancesFromSource(content, "t.rs")
	if err == nil || !strings.Contains(err.Error(), "concat!()") {
		t.Fatalf("expected a concat!() error, got %v", err)
	}
}

func TestExtractInstancesFromSource_MultipleAnnotationsInOneFile(t *testing.T) {
	content := "#[gts_well_known_instance(\n" +
		"    dir_path = \"instances\",\n" +
		"    schema_id = \"gts.x.core.events.topic.v1~\",\n" +
		"    instance_segment = \"x.commerce._.orders.v1.0\"\n" +
		")]\n" +
		"const A: &str = \"{\\\"name\\\": \\\"orders\\\"}\";\n" +
		"#[gts_well_known_instance(\n" +
		"    dir_path = \"instances\",\n" +
		"    schema_id = \"gts.x.core.events.topic.v1~\",\n" +
		"    instance_segment = \"x.commerce._.payments.v1.0\"\n" +
		")]\n" +
		"const B: &str = \"{\\\"name\\\": \\\"payments\\\"}\";\n"
	result, err := ExtractInstancesFromSource(content, "t.rs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 instances, got %d", len(result))
	}
}

func TestExtractInstancesFromSource_PubVisibilityAccepted(t *testing.T) {
	content := "#[gts_well_known_instance(\n" +
		"    dir_path = \"instances\",\n" +
		"    schema_id = \"gts.x.core.events.topic.v1~\",\n" +
		"    instance_segment = \"x.commerce._.orders.v1.0\"\n" +
		")]\n" +
		"pub const FOO: &str = \"{\\\"name\\\": \\\"orders\\\"}\";\n"
	result, err := ExtractInstancesFromSource(content, "t.rs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected 1 instance, got %d", len(result))
	}
}

func TestExtractInstancesFromSource_LineNumberReported(t *testing.T) {
	content := "// line 1\n" +
		"// line 2\n" +
		"#[gts_well_known_instance(\n" + // line 3
		"    dir_path = \"instances\",\n" +
		"    schema_id = \"gts.x.foo.v1~\",\n" +
		"    instance_segment = \"x.bar.v1.0\"\n" +
		")]\n" +
		"const FOO: &str = \"{\\\"id\\\": \\\"bad\\\"}\";\n"
	_, err := ExtractInstancesFromSource(content, "events.rs")
	if err == nil {
		t.Fatal("expected an error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "events.rs") || !strings.Contains(msg, ":3:") {
		t.Fatalf("expected file and line 3 in error, got: %s", msg)
	}
}
