package webhook

import (
	"encoding/json"
	"math/big"
	"strings"
	"testing"
)

func TestMarshalSafeCutsCycles(t *testing.T) {
	m := map[string]interface{}{"name": "cart"}
	m["self"] = m

	data, err := MarshalSafe(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["self"] != "[Circular]" {
		t.Fatalf("expected circular marker, got %v", decoded["self"])
	}
	if decoded["name"] != "cart" {
		t.Fatalf("sibling value lost: %v", decoded)
	}
}

func TestMarshalSafeSharedReferenceIsNotACycle(t *testing.T) {
	shared := map[string]interface{}{"id": "x"}
	root := map[string]interface{}{"a": shared, "b": shared}

	data, err := MarshalSafe(root)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "[Circular]") {
		t.Fatalf("shared sibling flagged as cycle: %s", data)
	}
}

func TestMarshalSafeStructCycle(t *testing.T) {
	type node struct {
		Name string `json:"name"`
		Next *node  `json:"next,omitempty"`
	}
	a := &node{Name: "a"}
	b := &node{Name: "b", Next: a}
	a.Next = b

	data, err := MarshalSafe(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), "[Circular]") {
		t.Fatalf("expected circular marker in %s", data)
	}
}

func TestMarshalSafeBigIntAsString(t *testing.T) {
	n := new(big.Int)
	n.SetString("90071992547409919007199254740991", 10)

	data, err := MarshalSafe(map[string]interface{}{"total_units": n})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `"total_units":"90071992547409919007199254740991"`
	if !strings.Contains(string(data), want) {
		t.Fatalf("big int not stringified: %s", data)
	}
}

func TestMarshalSafeHonorsJSONTags(t *testing.T) {
	type sample struct {
		Kept    string `json:"kept"`
		Skipped string `json:"-"`
		Empty   string `json:"empty,omitempty"`
		hidden  string
	}
	_ = sample{hidden: "x"}

	data, err := MarshalSafe(sample{Kept: "v", Skipped: "s"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"kept":"v"`) {
		t.Fatalf("tagged field missing: %s", s)
	}
	if strings.Contains(s, "Skipped") || strings.Contains(s, `"s"`) {
		t.Fatalf("dash-tagged field leaked: %s", s)
	}
	if strings.Contains(s, "empty") {
		t.Fatalf("omitempty zero field leaked: %s", s)
	}
}

func TestSanitizeNil(t *testing.T) {
	data, err := MarshalSafe(nil)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "null" {
		t.Fatalf("expected null, got %s", data)
	}
}
