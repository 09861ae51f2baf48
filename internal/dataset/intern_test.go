package dataset

import (
	"testing"
)

func TestStringIntern(t *testing.T) {
	si := NewStringIntern()

	s1 := si.Intern("hello")
	s2 := si.Intern("hello")
	if s1 != s2 {
		t.Error("Expected same string for interned values")
	}

	si.Intern("world")
	if si.Len() != 2 {
		t.Errorf("Expected pool size 2, got %d", si.Len())
	}
}
