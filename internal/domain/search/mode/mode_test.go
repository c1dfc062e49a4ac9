package mode

import "testing"

func TestIsValid(t *testing.T) {
	valid := []Mode{Naive, Assisted}
	for _, m := range valid {
		if !m.IsValid() {
			t.Errorf("%q.IsValid() = false, want true", m)
		}
	}

	invalid := []Mode{"", "llm", "NAIVE", "hybrid"}
	for _, m := range invalid {
		if m.IsValid() {
			t.Errorf("%q.IsValid() = true, want false", m)
		}
	}
}

func TestFromFlag(t *testing.T) {
	if got := FromFlag(true); got != Assisted {
		t.Errorf("FromFlag(true) = %q, want %q", got, Assisted)
	}
	if got := FromFlag(false); got != Naive {
		t.Errorf("FromFlag(false) = %q, want %q", got, Naive)
	}
}
