package ratelimit

import (
	"net"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestAllowBurstThenReject(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := New(Config{PerSecond: 1, Burst: 3, IdleTTL: time.Minute}, clock)

	for i := range 3 {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d within burst should be allowed", i)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("request past burst should be rejected")
	}

	// Other clients have their own bucket
	if !l.Allow("10.0.0.2") {
		t.Error("different IP should not be limited")
	}

	// Tokens refill with time
	clock.Advance(time.Second)
	if !l.Allow("10.0.0.1") {
		t.Error("token should refill after one second")
	}

	allowed, rejected := l.Stats()
	if allowed != 5 || rejected != 1 {
		t.Errorf("Stats() = %d/%d, expected 5/1", allowed, rejected)
	}
}

func TestAllowAddr(t *testing.T) {
	l := New(Config{PerSecond: 0, Burst: 1}, clockwork.NewFakeClock())

	a := &net.TCPAddr{IP: net.ParseIP("192.168.1.5"), Port: 50000}
	b := &net.TCPAddr{IP: net.ParseIP("192.168.1.5"), Port: 50001}

	if !l.AllowAddr(a) {
		t.Fatal("first connection should be allowed")
	}
	if l.AllowAddr(b) {
		t.Error("ports of the same host should share a bucket")
	}
}

func TestCleanup(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := New(Config{PerSecond: 1, Burst: 1, IdleTTL: time.Minute}, clock)

	l.Allow("a")
	clock.Advance(30 * time.Second)
	l.Allow("b")
	clock.Advance(31 * time.Second)

	if removed := l.Cleanup(); removed != 1 {
		t.Errorf("Cleanup() removed %d, expected 1", removed)
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d, expected 1", l.Len())
	}
}

func TestHostOf(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"127.0.0.1:2222", "127.0.0.1"},
		{"[::1]:22", "::1"},
		{"localhost", "localhost"},
	}
	for _, tc := range tests {
		if got := HostOf(tc.in); got != tc.want {
			t.Errorf("HostOf(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}
