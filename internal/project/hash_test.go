package project

import "testing"

func TestDigest(t *testing.T) {
	a := Sum([]byte("hello"))
	b := Sum([]byte("hello"))
	c := Sum([]byte("hello!"))
	if a != b {
		t.Fatal("equal content must hash equally")
	}
	if a == c {
		t.Fatal("different content hashed equally")
	}
	if len(a.Hex()) != 64 {
		t.Fatalf("hex length %d", len(a.Hex()))
	}
	back, err := ParseDigest(a.Hex())
	if err != nil || back != a {
		t.Fatalf("ParseDigest(%q) = %v, %v", a.Hex(), back, err)
	}
	if _, err := ParseDigest("abc"); err == nil {
		t.Fatal("short digest accepted")
	}
	if Combine(a, c) == Combine(c, a) {
		t.Fatal("Combine must depend on order")
	}
	if !(Digest{}).IsZero() || a.IsZero() {
		t.Fatal("IsZero")
	}
}
