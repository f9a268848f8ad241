package integrations

import (
	"encoding/json"
	"testing"
)

func TestDescriptors_EveryTypeContributes(t *testing.T) {
	for _, typ := range TypeOrder {
		descs := Descriptors(typ)
		if len(descs) == 0 {
			t.Errorf("type %s contributes no tools", typ)
		}
	}
}

func TestDescriptors_ValidParameterSchemas(t *testing.T) {
	for _, typ := range TypeOrder {
		for _, d := range Descriptors(typ) {
			var parsed map[string]any
			if err := json.Unmarshal(d.Parameters, &parsed); err != nil {
				t.Errorf("%s/%s: parameters are not valid JSON: %v", typ, d.Name, err)
				continue
			}
			if parsed["type"] != "object" {
				t.Errorf("%s/%s: expected object schema, got %v", typ, d.Name, parsed["type"])
			}
			if d.Description == "" {
				t.Errorf("%s/%s: missing description", typ, d.Name)
			}
		}
	}
}

func TestOwnerOf(t *testing.T) {
	for _, typ := range TypeOrder {
		for _, d := range Descriptors(typ) {
			owner, ok := OwnerOf(d.Name)
			if !ok {
				t.Errorf("%s has no owner", d.Name)
				continue
			}
			if owner != typ {
				t.Errorf("%s: expected owner %s, got %s", d.Name, typ, owner)
			}
		}
	}

	if _, ok := OwnerOf("no_such_tool"); ok {
		t.Error("unknown tool must have no owner")
	}
}

func TestToolNames_GloballyUnique(t *testing.T) {
	seen := map[string]Type{}
	for _, typ := range TypeOrder {
		for _, d := range Descriptors(typ) {
			if prev, dup := seen[d.Name]; dup {
				t.Errorf("tool name %s claimed by both %s and %s", d.Name, prev, typ)
			}
			seen[d.Name] = typ
		}
	}
}
