package channel

import "testing"

func TestIsAllowed(t *testing.T) {
	if !IsAllowed("123", nil) {
		t.Error("empty allow list should allow everyone")
	}
	if !IsAllowed("123", []string{"999", "123"}) {
		t.Error("listed sender should be allowed")
	}
	if IsAllowed("123", []string{"999"}) {
		t.Error("unlisted sender should be blocked")
	}
}
