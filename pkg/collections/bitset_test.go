package collections

import "testing"

func TestBitset_Basic(t *testing.T) {
	b := NewBitset(100)

	b.Set(0)
	b.Set(50)
	b.Set(99)

	if !b.Test(0) {
		t.Error("Expected bit 0 to be set")
	}
	if !b.Test(50) {
		t.Error("Expected bit 50 to be set")
	}
	if !b.Test(99) {
		t.Error("Expected bit 99 to be set")
	}
	if b.Test(1) {
		t.Error("Expected bit 1 to be clear")
	}

	if b.Count() != 3 {
		t.Errorf("Expected count 3, got %d", b.Count())
	}
}

func TestBitset_Grow(t *testing.T) {
	b := NewBitset(64)

	b.Set(200)
	if !b.Test(200) {
		t.Error("Expected bit 200 to be set after grow")
	}
	if b.Count() != 1 {
		t.Errorf("Expected count 1, got %d", b.Count())
	}
}

func TestBitset_NegativeIndexIgnored(t *testing.T) {
	b := NewBitset(10)
	b.Set(-1)
	if b.Test(-1) {
		t.Error("Expected negative index to never test as set")
	}
	if b.Count() != 0 {
		t.Errorf("Expected count 0, got %d", b.Count())
	}
}

func BenchmarkBitset_Set(b *testing.B) {
	bs := NewBitset(1000000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bs.Set(i % 1000000)
	}
}
