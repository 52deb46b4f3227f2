package srv

import (
	"encoding/json"
	"testing"
)

func TestGameStateFrameWireShape(t *testing.T) {
	g := newStartedGame(t, 3)
	submitAll(t, g, "cat")

	data, err := json.Marshal(newGameStateFrame(g.Snapshot()))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var frame map[string]any
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if frame["kind"] != "gameState" {
		t.Fatalf("expected kind gameState, got %v", frame["kind"])
	}
	if frame["state"] != "PlayersSubmittingVotingWord" {
		t.Fatalf("unexpected state %v", frame["state"])
	}
	if frame["amountOfRounds"] != float64(3) {
		t.Fatalf("expected amountOfRounds=3, got %v", frame["amountOfRounds"])
	}

	players := frame["players"].([]any)
	p1 := players[0].(map[string]any)
	for _, key := range []string{"nickname", "isHost", "isConnected"} {
		if _, ok := p1[key]; !ok {
			t.Fatalf("player view missing key %q: %v", key, p1)
		}
	}

	round := frame["rounds"].([]any)[0].(map[string]any)
	for _, key := range []string{"word", "playerWords", "playerVotingWords", "votingItem"} {
		if _, ok := round[key]; !ok {
			t.Fatalf("round view missing key %q: %v", key, round)
		}
	}
	word := round["playerWords"].(map[string]any)["p1"].([]any)[0].(map[string]any)
	for _, key := range []string{"word", "isUsed", "score"} {
		if _, ok := word[key]; !ok {
			t.Fatalf("word view missing key %q: %v", key, word)
		}
	}
	item := round["votingItem"].(map[string]any)
	if item["playerNickname"] != "p1" || item["word"] != "cat" {
		t.Fatalf("unexpected voting item %v", item)
	}
}

func TestGameStateFrameNullsInLobby(t *testing.T) {
	g := NewGame("test", testPrompts)
	addPlayers(t, g, "p1")

	data, err := json.Marshal(newGameStateFrame(g.Snapshot()))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var frame map[string]any
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if frame["amountOfRounds"] != nil {
		t.Fatalf("expected null amountOfRounds in lobby, got %v", frame["amountOfRounds"])
	}
	if frame["state"] != "Lobby" {
		t.Fatalf("expected Lobby, got %v", frame["state"])
	}
}

func TestErrorFrameCarriesTypeCode(t *testing.T) {
	data, err := json.Marshal(newErrorFrame(domainError(ErrNotEnoughPlayers, "need more")))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var frame map[string]any
	json.Unmarshal(data, &frame)
	if frame["kind"] != "error" || frame["type"] != "NOT_ENOUGH_PLAYERS" || frame["detail"] != "need more" {
		t.Fatalf("unexpected error frame %v", frame)
	}
}

func TestInboundFrameDecoding(t *testing.T) {
	var frame inboundFrame
	if err := json.Unmarshal([]byte(`{"kind":"playerVotingWord","word":null}`), &frame); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if frame.Kind != kindPlayerVotingWord || frame.Word != nil {
		t.Fatalf("expected null word ballot, got %+v", frame)
	}

	if err := json.Unmarshal([]byte(`{"kind":"startGame","amountOfRounds":5}`), &frame); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if frame.Kind != kindStartGame || frame.AmountOfRounds != 5 {
		t.Fatalf("unexpected frame %+v", frame)
	}
}
