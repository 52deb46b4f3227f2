package srv

import (
	"fmt"
	"math/rand/v2"
)

// minPlayersToStart is the minimum number of connected players for StartGame.
const minPlayersToStart = 3

// Player is a member of a game. Players are never removed once created;
// leaving only flips IsConnected.
type Player struct {
	Nickname    string
	IsHost      bool
	IsConnected bool
}

// promptWord is an entry in the game's prompt pool.
type promptWord struct {
	text string
	used bool
}

// Game holds all state for one room: roster, prompt pool, rounds, and the
// state machine. It has no internal locking; all access is confined to the
// owning GameRoom goroutine.
type Game struct {
	ID             string
	state          GameState
	players        []*Player
	rounds         []*Round
	amountOfRounds *int
	prompts        []promptWord
	rng            *rand.Rand
}

// NewGame creates a game in Lobby with its own shuffled copy of the prompt
// pool. Each game gets an independently seeded RNG so concurrent games see
// unrelated prompt sequences.
func NewGame(id string, prompts []string) *Game {
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	pool := make([]promptWord, len(prompts))
	for i, p := range prompts {
		pool[i] = promptWord{text: p}
	}
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	return &Game{
		ID:      id,
		state:   StateLobby,
		prompts: pool,
		rng:     rng,
	}
}

// State returns the current state machine state.
func (g *Game) State() GameState {
	return g.state
}

// AddPlayer joins a new player in Lobby, or reconnects an existing one in
// any state. The nickname is the identity.
func (g *Game) AddPlayer(nickname string) *GameError {
	if p := g.findPlayer(nickname); p != nil {
		if p.IsConnected {
			return domainError(ErrPlayerAlreadyExists, fmt.Sprintf("player %q is already connected", nickname))
		}
		p.IsConnected = true
	} else {
		if g.state != StateLobby {
			return domainError(ErrGameAlreadyInProgress, "new players can only join in the lobby")
		}
		g.players = append(g.players, &Player{Nickname: nickname, IsConnected: true})
	}
	g.electHost()
	return nil
}

// DisconnectPlayer marks the player disconnected and re-elects the host.
// Disconnecting an already-disconnected player is a no-op. If the round was
// only waiting on disconnected players, it advances.
func (g *Game) DisconnectPlayer(nickname string) *GameError {
	p := g.findPlayer(nickname)
	if p == nil {
		return internalError("cannot disconnect unknown player %q", nickname)
	}
	if !p.IsConnected {
		return nil
	}
	p.IsConnected = false
	p.IsHost = false
	g.electHost()
	if g.state == StatePlayersSubmittingWords {
		return g.advanceIfAllSubmitted()
	}
	return nil
}

// StartGame begins a game of amountOfRounds rounds. Host only; requires at
// least minPlayersToStart connected players.
func (g *Game) StartGame(nickname string, amountOfRounds int) *GameError {
	if err := g.requireHost(nickname, ErrNonHostCannotStartGame); err != nil {
		return err
	}
	if amountOfRounds < 1 {
		return domainError(ErrNotEnoughRounds, "a game needs at least one round")
	}
	if g.connectedCount() < minPlayersToStart {
		return domainError(ErrNotEnoughPlayers, fmt.Sprintf("a game needs at least %d connected players", minPlayersToStart))
	}
	rounds := amountOfRounds
	g.amountOfRounds = &rounds
	return g.applyEvent(eventStartGame)
}

// AddPlayerWords stores the player's submissions for the current round and
// advances once every connected player has submitted.
func (g *Game) AddPlayerWords(nickname string, words []string) *GameError {
	if g.state != StatePlayersSubmittingWords {
		return domainError(ErrInvalidStateForWordsSubmission, fmt.Sprintf("cannot submit words in state %s", g.state))
	}
	if err := g.currentRound().addWords(nickname, words); err != nil {
		return err
	}
	return g.advanceIfAllSubmitted()
}

// SetVotingWord records the player's ballot for the open voting item.
func (g *Game) SetVotingWord(nickname string, word *string) *GameError {
	if g.state != StatePlayersSubmittingVotingWord {
		return domainError(ErrInvalidStateForVotingWordSubmission, fmt.Sprintf("cannot submit a voting word in state %s", g.state))
	}
	return g.currentRound().setVotingWord(nickname, word)
}

// AcceptPlayersVotingWords closes the open voting item, scores the matched
// words, and moves on to the next item. Host only.
func (g *Game) AcceptPlayersVotingWords(nickname string) *GameError {
	if err := g.requireHost(nickname, ErrNonHostCannotContinueToNextVotingItem); err != nil {
		return err
	}
	if g.state != StatePlayersSubmittingVotingWord {
		return internalError("cannot accept voting words in state %s", g.state)
	}
	g.currentRound().acceptVotingWords()
	return g.applyEvent(eventAcceptPlayersVotingWords)
}

// ContinueToNextRound moves from the end-of-round screen into the next
// round. Host only.
func (g *Game) ContinueToNextRound(nickname string) *GameError {
	if err := g.requireHost(nickname, ErrNonHostCannotContinueToNextRound); err != nil {
		return err
	}
	return g.applyEvent(eventContinueToNextRound)
}

// PlayAgain returns a finished game to the lobby, clearing rounds and the
// round count. Prompt-pool used flags are deliberately kept; the pool
// reshuffles only on natural exhaustion.
func (g *Game) PlayAgain(nickname string) *GameError {
	if err := g.requireHost(nickname, ErrNonHostCannotStartGame); err != nil {
		return err
	}
	if err := g.applyEvent(eventPlayAgain); err != nil {
		return err
	}
	g.rounds = nil
	g.amountOfRounds = nil
	return nil
}

// AllPlayersDisconnected reports whether no player is connected. An empty
// roster counts as true.
func (g *Game) AllPlayersDisconnected() bool {
	for _, p := range g.players {
		if p.IsConnected {
			return false
		}
	}
	return true
}

// applyEvent feeds one event to the state machine, then runs the entry logic
// of transient states, which self-consume a follow-up event.
func (g *Game) applyEvent(ev gameEvent) *GameError {
	next, ok := transitions[g.state][ev]
	if !ok {
		return internalError("event %s is not allowed in state %s", ev, g.state)
	}
	g.state = next
	switch next {
	case StateCreatingNewRound:
		return g.enterCreatingNewRound()
	case StateChooseNextVotingItem:
		return g.enterChooseNextVotingItem()
	}
	return nil
}

// enterCreatingNewRound either starts the next round with a fresh prompt or
// ends the game when the configured number of rounds has been played.
func (g *Game) enterCreatingNewRound() *GameError {
	if g.amountOfRounds == nil {
		return internalError("no round count set when creating a round")
	}
	if len(g.rounds) >= *g.amountOfRounds {
		return g.applyEvent(eventNoMoreRounds)
	}
	participants := make([]string, len(g.players))
	for i, p := range g.players {
		participants[i] = p.Nickname
	}
	g.rounds = append(g.rounds, newRound(g.nextPrompt(), participants))
	return g.applyEvent(eventStartRound)
}

// enterChooseNextVotingItem opens the next voting item, or ends the round
// when every submitted word has been voted on.
func (g *Game) enterChooseNextVotingItem() *GameError {
	if g.currentRound().nextVotingItem() != nil {
		return g.applyEvent(eventNextVotingItem)
	}
	return g.applyEvent(eventNoMoreVotingItems)
}

// advanceIfAllSubmitted completes the submission phase once every connected
// player has a word list, filling in empty lists for disconnected players.
// A round with no connected players left never advances; the room's idle
// timeout reaps it instead.
func (g *Game) advanceIfAllSubmitted() *GameError {
	round := g.currentRound()
	connected := 0
	for _, p := range g.players {
		if !p.IsConnected {
			continue
		}
		connected++
		if !round.hasSubmitted(p.Nickname) {
			return nil
		}
	}
	if connected == 0 {
		return nil
	}
	round.fillMissingSubmissions()
	return g.applyEvent(eventAllPlayersSubmittedWords)
}

// nextPrompt consumes the first unused prompt. On exhaustion the whole pool
// is reshuffled with used flags cleared and the pick retried.
func (g *Game) nextPrompt() string {
	for i := range g.prompts {
		if !g.prompts[i].used {
			g.prompts[i].used = true
			return g.prompts[i].text
		}
	}
	for i := range g.prompts {
		g.prompts[i].used = false
	}
	g.rng.Shuffle(len(g.prompts), func(i, j int) {
		g.prompts[i], g.prompts[j] = g.prompts[j], g.prompts[i]
	})
	g.prompts[0].used = true
	return g.prompts[0].text
}

// electHost makes the first connected player host if no host remains.
func (g *Game) electHost() {
	for _, p := range g.players {
		if p.IsHost {
			return
		}
	}
	for _, p := range g.players {
		if p.IsConnected {
			p.IsHost = true
			return
		}
	}
}

// requireHost fails with the given error type unless nickname is the host.
func (g *Game) requireHost(nickname string, t ErrorType) *GameError {
	p := g.findPlayer(nickname)
	if p == nil {
		return internalError("unknown player %q", nickname)
	}
	if !p.IsHost {
		return domainError(t, fmt.Sprintf("player %q is not the host", nickname))
	}
	return nil
}

func (g *Game) connectedCount() int {
	n := 0
	for _, p := range g.players {
		if p.IsConnected {
			n++
		}
	}
	return n
}

func (g *Game) findPlayer(nickname string) *Player {
	for _, p := range g.players {
		if p.Nickname == nickname {
			return p
		}
	}
	return nil
}

// currentRound returns the round in progress. Only valid in states where a
// round exists.
func (g *Game) currentRound() *Round {
	return g.rounds[len(g.rounds)-1]
}

// GameSnapshot is a deep copy of the observable game state, safe to hand to
// other goroutines.
type GameSnapshot struct {
	State          GameState
	Players        []Player
	Rounds         []RoundSnapshot
	AmountOfRounds *int
}

// RoundSnapshot is a deep copy of one round.
type RoundSnapshot struct {
	Word              string
	PlayerWords       map[string][]Word
	PlayerVotingWords map[string]*string
	VotingItem        *VotingItem
}

// Snapshot copies the full observable state. The snapshot is the only way
// the outside world sees a game.
func (g *Game) Snapshot() GameSnapshot {
	snap := GameSnapshot{
		State:   g.state,
		Players: make([]Player, len(g.players)),
		Rounds:  make([]RoundSnapshot, len(g.rounds)),
	}
	for i, p := range g.players {
		snap.Players[i] = *p
	}
	for i, r := range g.rounds {
		rs := RoundSnapshot{
			Word:              r.Word,
			PlayerWords:       make(map[string][]Word, len(r.PlayerWords)),
			PlayerVotingWords: make(map[string]*string, len(r.PlayerVotingWords)),
		}
		for nickname, words := range r.PlayerWords {
			copied := make([]Word, len(words))
			copy(copied, words)
			rs.PlayerWords[nickname] = copied
		}
		for nickname, ballot := range r.PlayerVotingWords {
			if ballot == nil {
				rs.PlayerVotingWords[nickname] = nil
			} else {
				b := *ballot
				rs.PlayerVotingWords[nickname] = &b
			}
		}
		if r.VotingItem != nil {
			item := *r.VotingItem
			rs.VotingItem = &item
		}
		snap.Rounds[i] = rs
	}
	if g.amountOfRounds != nil {
		rounds := *g.amountOfRounds
		snap.AmountOfRounds = &rounds
	}
	return snap
}
