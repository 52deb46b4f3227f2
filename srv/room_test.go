package srv

import (
	"testing"
	"time"
)

// waitForState drains the subscription until a snapshot in the wanted state
// arrives, failing the test on timeout.
func waitForState(t *testing.T, sub *subscriber, want GameState) GameSnapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-sub.Events():
			if state, ok := ev.(gameStateEvent); ok && state.Snapshot.State == want {
				return state.Snapshot
			}
		case <-deadline:
			t.Fatalf("timed out waiting for state %s", want)
		}
	}
}

func joinRoom(t *testing.T, room *GameRoom, nickname string) *subscriber {
	t.Helper()
	sub, err := room.AddPlayer(nickname)
	if err != nil {
		t.Fatalf("AddPlayer(%q) failed: %v", nickname, err)
	}
	return sub
}

func TestRoomJoinBroadcastsSnapshot(t *testing.T) {
	d := newTestDirectory(t, time.Minute)
	room, _ := d.GetGameRoom(d.CreateGame())

	sub := joinRoom(t, room, "p1")
	snap := waitForState(t, sub, StateLobby)
	if len(snap.Players) != 1 || snap.Players[0].Nickname != "p1" || !snap.Players[0].IsHost {
		t.Fatalf("expected p1 as sole host, got %+v", snap.Players)
	}
}

func TestRoomRejectsDuplicateNickname(t *testing.T) {
	d := newTestDirectory(t, time.Minute)
	room, _ := d.GetGameRoom(d.CreateGame())

	joinRoom(t, room, "p1")
	_, err := room.AddPlayer("p1")
	if err == nil || err.Type != ErrPlayerAlreadyExists {
		t.Fatalf("expected PLAYER_ALREADY_EXISTS, got %v", err)
	}
}

func TestRoomStartGameFlow(t *testing.T) {
	d := newTestDirectory(t, time.Minute)
	room, _ := d.GetGameRoom(d.CreateGame())

	subs := make(map[string]*subscriber)
	for _, n := range []string{"p1", "p2", "p3"} {
		subs[n] = joinRoom(t, room, n)
	}
	if err := room.StartGame("p1", 2); err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}
	for n, sub := range subs {
		snap := waitForState(t, sub, StatePlayersSubmittingWords)
		if len(snap.Rounds) != 1 {
			t.Fatalf("%s: expected 1 round, got %d", n, len(snap.Rounds))
		}
	}
}

func TestRoomStartGameRejectsNonHost(t *testing.T) {
	d := newTestDirectory(t, time.Minute)
	room, _ := d.GetGameRoom(d.CreateGame())

	for _, n := range []string{"p1", "p2", "p3"} {
		joinRoom(t, room, n)
	}
	err := room.StartGame("p2", 2)
	if err == nil || err.Type != ErrNonHostCannotStartGame {
		t.Fatalf("expected NON_HOST_PLAYER_CANNOT_START_GAME, got %v", err)
	}
}

func TestRoomChatBroadcast(t *testing.T) {
	d := newTestDirectory(t, time.Minute)
	room, _ := d.GetGameRoom(d.CreateGame())

	joinRoom(t, room, "p1")
	sub2 := joinRoom(t, room, "p2")
	room.ChatMessage("p1", "hello")

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-sub2.Events():
			if chat, ok := ev.(chatMessageEvent); ok {
				if chat.Sender != "p1" || chat.Content != "hello" {
					t.Fatalf("unexpected chat event %+v", chat)
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for chat message")
		}
	}
}

func TestRoomIdleShutdownDeregisters(t *testing.T) {
	d := newTestDirectory(t, 50*time.Millisecond)
	id := d.CreateGame()
	room, _ := d.GetGameRoom(id)

	joinRoom(t, room, "p1")
	room.DisconnectPlayer("p1")

	deadline := time.After(2 * time.Second)
	for {
		if _, err := d.GetGameRoom(id); err != nil {
			if err.Type != ErrGameDoesNotExist {
				t.Fatalf("expected GAME_DOES_NOT_EXIST, got %v", err)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("room was not reaped after idle timeout")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestRoomStaysAliveWhilePlayersConnected(t *testing.T) {
	d := newTestDirectory(t, 50*time.Millisecond)
	id := d.CreateGame()
	room, _ := d.GetGameRoom(id)

	joinRoom(t, room, "p1")
	time.Sleep(200 * time.Millisecond)
	if _, err := d.GetGameRoom(id); err != nil {
		t.Fatalf("room with a connected player must not be reaped: %v", err)
	}
}

func TestRoomJoinAfterShutdownFails(t *testing.T) {
	d := newTestDirectory(t, 20*time.Millisecond)
	id := d.CreateGame()
	room, _ := d.GetGameRoom(id)

	time.Sleep(150 * time.Millisecond)
	_, err := room.AddPlayer("p1")
	if err == nil || err.Type != ErrGameDoesNotExist {
		t.Fatalf("expected GAME_DOES_NOT_EXIST from a stopped room, got %v", err)
	}
}

func TestSubscriberDropsOldestWhenFull(t *testing.T) {
	sub := &subscriber{ch: make(chan roomEvent, 2)}
	sub.push(chatMessageEvent{Content: "1"})
	sub.push(chatMessageEvent{Content: "2"})
	sub.push(chatMessageEvent{Content: "3"})

	first := (<-sub.Events()).(chatMessageEvent)
	second := (<-sub.Events()).(chatMessageEvent)
	if first.Content != "2" || second.Content != "3" {
		t.Fatalf("expected oldest event dropped, got %q then %q", first.Content, second.Content)
	}
}
