package utils

import (
	"testing"
	"time"
)

func TestCooldownAllowsAfterWindow(t *testing.T) {
	cd := NewCooldown(3 * time.Second)
	now := time.Unix(0, 0)

	if !cd.Allow("g1:u1", now) {
		t.Fatalf("first call should be allowed")
	}
	if cd.Allow("g1:u1", now.Add(time.Second)) {
		t.Fatalf("call inside window should be denied")
	}
	if !cd.Allow("g1:u1", now.Add(4*time.Second)) {
		t.Fatalf("call after window should be allowed")
	}
}

func TestCooldownIsPerKey(t *testing.T) {
	cd := NewCooldown(3 * time.Second)
	now := time.Unix(0, 0)

	if !cd.Allow("g1:u1", now) {
		t.Fatalf("first key should be allowed")
	}
	if !cd.Allow("g1:u2", now) {
		t.Fatalf("second key should be allowed")
	}
}

func TestCooldownZeroWindowAlwaysAllows(t *testing.T) {
	cd := NewCooldown(0)
	now := time.Unix(0, 0)
	for i := 0; i < 3; i++ {
		if !cd.Allow("g1:u1", now) {
			t.Fatalf("zero window should always allow")
		}
	}
}
