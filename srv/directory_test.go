package srv

import (
	"testing"
	"time"
)

func newTestDirectory(t *testing.T, idleTimeout time.Duration) *Directory {
	t.Helper()
	d := NewDirectory(testPrompts, idleTimeout, nil)
	t.Cleanup(d.Close)
	return d
}

func TestCreateGameAllocatesAlphanumericID(t *testing.T) {
	d := newTestDirectory(t, time.Minute)
	id := d.CreateGame()
	if len(id) != roomIDLength {
		t.Fatalf("expected id of length %d, got %q", roomIDLength, id)
	}
	for _, c := range id {
		isDigit := c >= '0' && c <= '9'
		isUpper := c >= 'A' && c <= 'Z'
		isLower := c >= 'a' && c <= 'z'
		if !isDigit && !isUpper && !isLower {
			t.Fatalf("id %q contains non-alphanumeric character %q", id, c)
		}
	}
}

func TestCreateGameIDsAreUnique(t *testing.T) {
	d := newTestDirectory(t, time.Minute)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := d.CreateGame()
		if seen[id] {
			t.Fatalf("id %q allocated twice", id)
		}
		seen[id] = true
	}
}

func TestGetGameRoomReturnsLiveRoom(t *testing.T) {
	d := newTestDirectory(t, time.Minute)
	id := d.CreateGame()
	room, err := d.GetGameRoom(id)
	if err != nil {
		t.Fatalf("GetGameRoom failed: %v", err)
	}
	if room.ID() != id {
		t.Fatalf("expected room %q, got %q", id, room.ID())
	}
}

func TestGetGameRoomUnknownID(t *testing.T) {
	d := newTestDirectory(t, time.Minute)
	_, err := d.GetGameRoom("nope1")
	if err == nil || err.Type != ErrGameDoesNotExist {
		t.Fatalf("expected GAME_DOES_NOT_EXIST, got %v", err)
	}
}

func TestRemoveGameIsIdempotent(t *testing.T) {
	d := newTestDirectory(t, time.Minute)
	id := d.CreateGame()
	d.RemoveGame(id)
	d.RemoveGame(id) // missing id is not an error
	if _, err := d.GetGameRoom(id); err == nil {
		t.Fatal("expected removed room to be gone")
	}
}
