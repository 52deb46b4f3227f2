package srv

import (
	"log/slog"
	"time"
)

const (
	// roomInboxSize bounds the command queue to one room; senders block
	// when it is full.
	roomInboxSize = 128
	// subscriberBufferSize bounds each session's event buffer; a slow
	// session loses the oldest buffered event, never blocking the room.
	subscriberBufferSize = 32
	// replyTimeout is how long the room waits for a requester to pick up
	// an AddPlayer or StartGame reply before treating it as a disconnect.
	replyTimeout = 5 * time.Second
)

// roomEvent is a message fanned out to every subscribed session.
type roomEvent interface{ isRoomEvent() }

// gameStateEvent carries a full state snapshot after a mutation.
type gameStateEvent struct {
	Snapshot GameSnapshot
}

// chatMessageEvent carries a relayed chat message. It never touches the Game.
type chatMessageEvent struct {
	Sender  string
	Content string
}

func (gameStateEvent) isRoomEvent()   {}
func (chatMessageEvent) isRoomEvent() {}

// subscriber is one session's subscription to a room's broadcasts.
type subscriber struct {
	ch chan roomEvent
}

// Events returns the channel the session reads broadcasts from.
func (s *subscriber) Events() <-chan roomEvent {
	return s.ch
}

// push delivers an event, dropping the oldest buffered event when the
// subscriber is full. The session recovers from the next full snapshot.
func (s *subscriber) push(ev roomEvent) {
	for {
		select {
		case s.ch <- ev:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

// roomCommand is a message processed by a GameRoom's loop.
type roomCommand interface{ isRoomCommand() }

type addPlayerCmd struct {
	nickname string
	reply    chan addPlayerReply
}

type addPlayerReply struct {
	sub *subscriber
	err *GameError
}

type disconnectPlayerCmd struct{ nickname string }

type startGameCmd struct {
	nickname       string
	amountOfRounds int
	reply          chan *GameError
}

type addPlayerWordsCmd struct {
	nickname string
	words    []string
}

type setVotingWordCmd struct {
	nickname string
	word     *string
}

type acceptVotingWordsCmd struct{ nickname string }

type continueToNextRoundCmd struct{ nickname string }

type playAgainCmd struct{ nickname string }

type chatMessageCmd struct {
	sender  string
	content string
}

func (addPlayerCmd) isRoomCommand()           {}
func (disconnectPlayerCmd) isRoomCommand()    {}
func (startGameCmd) isRoomCommand()           {}
func (addPlayerWordsCmd) isRoomCommand()      {}
func (setVotingWordCmd) isRoomCommand()       {}
func (acceptVotingWordsCmd) isRoomCommand()   {}
func (continueToNextRoundCmd) isRoomCommand() {}
func (playAgainCmd) isRoomCommand()           {}
func (chatMessageCmd) isRoomCommand()         {}

// GameRoom owns one Game and processes commands one at a time. It removes
// itself from the Directory when its loop exits.
type GameRoom struct {
	id          string
	game        *Game
	inbox       chan roomCommand
	done        chan struct{}
	directory   *Directory
	idleTimeout time.Duration
	subscribers map[string]*subscriber

	// onGameFinished receives the final snapshot when a game reaches
	// EndOfGame. Optional; used for the results archive.
	onGameFinished func(gameID string, snap GameSnapshot)
}

func newGameRoom(id string, prompts []string, directory *Directory, idleTimeout time.Duration, onGameFinished func(string, GameSnapshot)) *GameRoom {
	return &GameRoom{
		id:             id,
		game:           NewGame(id, prompts),
		inbox:          make(chan roomCommand, roomInboxSize),
		done:           make(chan struct{}),
		directory:      directory,
		idleTimeout:    idleTimeout,
		subscribers:    make(map[string]*subscriber),
		onGameFinished: onGameFinished,
	}
}

// ID returns the room's short identifier.
func (gr *GameRoom) ID() string {
	return gr.id
}

// run is the room's command loop. Any received command re-arms the idle
// timer; when the timer fires with every player disconnected, the room
// shuts down and deregisters itself.
func (gr *GameRoom) run() {
	activeGames.Inc()
	defer func() {
		close(gr.done)
		if gr.directory != nil {
			gr.directory.RemoveGame(gr.id)
		}
		activeGames.Dec()
		slog.Info("room stopped", "gameId", gr.id)
	}()

	timer := time.NewTimer(gr.idleTimeout)
	defer timer.Stop()
	for {
		select {
		case cmd, ok := <-gr.inbox:
			if !ok {
				return
			}
			gr.handle(cmd)
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(gr.idleTimeout)
		case <-timer.C:
			if gr.game.AllPlayersDisconnected() {
				slog.Info("room idle with no connected players, shutting down", "gameId", gr.id)
				return
			}
			timer.Reset(gr.idleTimeout)
		}
	}
}

func (gr *GameRoom) handle(cmd roomCommand) {
	before := gr.game.State()
	switch c := cmd.(type) {
	case addPlayerCmd:
		gr.handleAddPlayer(c)
	case disconnectPlayerCmd:
		delete(gr.subscribers, c.nickname)
		if err := gr.game.DisconnectPlayer(c.nickname); err != nil {
			gr.logCommandError("disconnectPlayer", c.nickname, err)
		} else {
			gr.broadcastState()
		}
	case startGameCmd:
		err := gr.game.StartGame(c.nickname, c.amountOfRounds)
		if !gr.reply(c.reply, err) && err == nil {
			// Requester gave up after the game started on its behalf;
			// undo the intent by disconnecting it.
			slog.Warn("start game reply dropped, disconnecting requester", "gameId", gr.id, "nickname", c.nickname)
			if derr := gr.game.DisconnectPlayer(c.nickname); derr != nil {
				gr.logCommandError("disconnectPlayer", c.nickname, derr)
			}
			delete(gr.subscribers, c.nickname)
		}
		if err == nil {
			gr.broadcastState()
		}
	case addPlayerWordsCmd:
		gr.mutate("addPlayerWords", c.nickname, func() *GameError {
			return gr.game.AddPlayerWords(c.nickname, c.words)
		})
	case setVotingWordCmd:
		gr.mutate("setVotingWord", c.nickname, func() *GameError {
			return gr.game.SetVotingWord(c.nickname, c.word)
		})
	case acceptVotingWordsCmd:
		gr.mutate("acceptPlayersVotingWords", c.nickname, func() *GameError {
			return gr.game.AcceptPlayersVotingWords(c.nickname)
		})
	case continueToNextRoundCmd:
		gr.mutate("continueToNextRound", c.nickname, func() *GameError {
			return gr.game.ContinueToNextRound(c.nickname)
		})
	case playAgainCmd:
		gr.mutate("playAgain", c.nickname, func() *GameError {
			return gr.game.PlayAgain(c.nickname)
		})
	case chatMessageCmd:
		gr.broadcast(chatMessageEvent{Sender: c.sender, Content: c.content})
	}
	if before != StateEndOfGame && gr.game.State() == StateEndOfGame && gr.onGameFinished != nil {
		gr.onGameFinished(gr.id, gr.game.Snapshot())
	}
}

func (gr *GameRoom) handleAddPlayer(c addPlayerCmd) {
	if err := gr.game.AddPlayer(c.nickname); err != nil {
		gr.replyAddPlayer(c.reply, addPlayerReply{err: err})
		return
	}
	sub := &subscriber{ch: make(chan roomEvent, subscriberBufferSize)}
	gr.subscribers[c.nickname] = sub
	if !gr.replyAddPlayer(c.reply, addPlayerReply{sub: sub}) {
		slog.Warn("add player reply dropped, disconnecting requester", "gameId", gr.id, "nickname", c.nickname)
		delete(gr.subscribers, c.nickname)
		if derr := gr.game.DisconnectPlayer(c.nickname); derr != nil {
			gr.logCommandError("disconnectPlayer", c.nickname, derr)
		}
	}
	gr.broadcastState()
}

// mutate runs a fire-and-forget game mutation, broadcasting on success and
// logging on failure.
func (gr *GameRoom) mutate(op, nickname string, fn func() *GameError) {
	if err := fn(); err != nil {
		gr.logCommandError(op, nickname, err)
		return
	}
	gr.broadcastState()
}

func (gr *GameRoom) logCommandError(op, nickname string, err *GameError) {
	if err.IsInternal() {
		slog.Error("room command failed", "gameId", gr.id, "op", op, "nickname", nickname, "error", err)
	} else {
		slog.Warn("room command rejected", "gameId", gr.id, "op", op, "nickname", nickname, "error", err)
	}
}

func (gr *GameRoom) reply(ch chan *GameError, err *GameError) bool {
	select {
	case ch <- err:
		return true
	case <-time.After(replyTimeout):
		return false
	}
}

func (gr *GameRoom) replyAddPlayer(ch chan addPlayerReply, r addPlayerReply) bool {
	select {
	case ch <- r:
		return true
	case <-time.After(replyTimeout):
		return false
	}
}

func (gr *GameRoom) broadcastState() {
	gr.broadcast(gameStateEvent{Snapshot: gr.game.Snapshot()})
}

func (gr *GameRoom) broadcast(ev roomEvent) {
	for _, sub := range gr.subscribers {
		sub.push(ev)
	}
}

// send enqueues a command unless the room has already stopped.
func (gr *GameRoom) send(cmd roomCommand) bool {
	select {
	case gr.inbox <- cmd:
		return true
	case <-gr.done:
		return false
	}
}

// AddPlayer joins (or reconnects) a player and returns its broadcast
// subscription. Called from session goroutines.
func (gr *GameRoom) AddPlayer(nickname string) (*subscriber, *GameError) {
	reply := make(chan addPlayerReply)
	if !gr.send(addPlayerCmd{nickname: nickname, reply: reply}) {
		return nil, domainError(ErrGameDoesNotExist, "the game no longer exists")
	}
	select {
	case r := <-reply:
		return r.sub, r.err
	case <-gr.done:
		return nil, domainError(ErrGameDoesNotExist, "the game no longer exists")
	}
}

// StartGame asks the room to start the game and waits for the outcome.
func (gr *GameRoom) StartGame(nickname string, amountOfRounds int) *GameError {
	reply := make(chan *GameError)
	if !gr.send(startGameCmd{nickname: nickname, amountOfRounds: amountOfRounds, reply: reply}) {
		return domainError(ErrGameDoesNotExist, "the game no longer exists")
	}
	select {
	case err := <-reply:
		return err
	case <-gr.done:
		return domainError(ErrGameDoesNotExist, "the game no longer exists")
	}
}

// DisconnectPlayer is fire-and-forget; it is best-effort on shutdown races.
func (gr *GameRoom) DisconnectPlayer(nickname string) {
	gr.send(disconnectPlayerCmd{nickname: nickname})
}

// AddPlayerWords submits a player's words for the current round.
func (gr *GameRoom) AddPlayerWords(nickname string, words []string) {
	gr.send(addPlayerWordsCmd{nickname: nickname, words: words})
}

// SetVotingWord submits a player's ballot for the open voting item.
func (gr *GameRoom) SetVotingWord(nickname string, word *string) {
	gr.send(setVotingWordCmd{nickname: nickname, word: word})
}

// AcceptPlayersVotingWords closes the open voting item (host only).
func (gr *GameRoom) AcceptPlayersVotingWords(nickname string) {
	gr.send(acceptVotingWordsCmd{nickname: nickname})
}

// ContinueToNextRound advances past the end-of-round screen (host only).
func (gr *GameRoom) ContinueToNextRound(nickname string) {
	gr.send(continueToNextRoundCmd{nickname: nickname})
}

// PlayAgain returns a finished game to the lobby (host only).
func (gr *GameRoom) PlayAgain(nickname string) {
	gr.send(playAgainCmd{nickname: nickname})
}

// ChatMessage relays a chat message to everyone in the room.
func (gr *GameRoom) ChatMessage(sender, content string) {
	gr.send(chatMessageCmd{sender: sender, content: content})
}
