package idhash

import "testing"

func TestComputeEventID_Deterministic(t *testing.T) {
	results := make([]string, 10)
	for i := 0; i < 10; i++ {
		results[i] = ComputeEventID("run-1", 42, 100, 250)
	}
	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Errorf("determinism failed: results[%d]=%s != results[0]=%s", i, results[i], results[0])
		}
	}
	if results[0] == "" {
		t.Error("event id must not be empty")
	}
}

func TestComputeEventID_DifferentInputs(t *testing.T) {
	base := ComputeEventID("run-1", 1, 100, 200)

	if base == ComputeEventID("run-2", 1, 100, 200) {
		t.Error("different run should produce different id")
	}
	if base == ComputeEventID("run-1", 2, 100, 200) {
		t.Error("different channel should produce different id")
	}
	if base == ComputeEventID("run-1", 1, 101, 200) {
		t.Error("different start index should produce different id")
	}
	if base == ComputeEventID("run-1", 1, 100, 201) {
		t.Error("different end index should produce different id")
	}
}
