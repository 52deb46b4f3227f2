package srv

import (
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"
)

const (
	// directoryInboxSize bounds the directory's command queue.
	directoryInboxSize = 512
	// roomIDLength is the length of allocated room ids.
	roomIDLength = 5
)

const roomIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// roomIDReplacer substitutes characters that are easy to misread when a
// room id is shared verbally or on a screen.
var roomIDReplacer = strings.NewReplacer("O", "P", "0", "1", "I", "J", "l", "m")

type directoryCommand interface{ isDirectoryCommand() }

type createGameCmd struct {
	reply chan string
}

type getGameCmd struct {
	id    string
	reply chan *GameRoom
}

type removeGameCmd struct{ id string }

func (createGameCmd) isDirectoryCommand() {}
func (getGameCmd) isDirectoryCommand()    {}
func (removeGameCmd) isDirectoryCommand() {}

// Directory is the process-wide registry of live rooms. It owns the
// id → room mapping behind a single command loop; rooms deregister
// themselves through RemoveGame at shutdown.
type Directory struct {
	inbox       chan directoryCommand
	done        chan struct{}
	rooms       map[string]*GameRoom
	prompts     []string
	idleTimeout time.Duration

	// onGameFinished is passed through to every spawned room.
	onGameFinished func(gameID string, snap GameSnapshot)
}

// NewDirectory creates the directory and starts its command loop.
func NewDirectory(prompts []string, idleTimeout time.Duration, onGameFinished func(string, GameSnapshot)) *Directory {
	d := &Directory{
		inbox:          make(chan directoryCommand, directoryInboxSize),
		done:           make(chan struct{}),
		rooms:          make(map[string]*GameRoom),
		prompts:        prompts,
		idleTimeout:    idleTimeout,
		onGameFinished: onGameFinished,
	}
	go d.run()
	return d
}

// Close stops the directory loop. Rooms already running exit on their own
// idle timeouts; their deregistrations become no-ops.
func (d *Directory) Close() {
	close(d.done)
}

func (d *Directory) run() {
	for {
		select {
		case <-d.done:
			return
		case cmd := <-d.inbox:
			switch c := cmd.(type) {
			case createGameCmd:
				id := d.newRoomID()
				room := newGameRoom(id, d.prompts, d, d.idleTimeout, d.onGameFinished)
				d.rooms[id] = room
				go room.run()
				gamesCreatedTotal.Inc()
				slog.Info("room created", "gameId", id)
				c.reply <- id
			case getGameCmd:
				c.reply <- d.rooms[c.id]
			case removeGameCmd:
				delete(d.rooms, c.id)
			}
		}
	}
}

// CreateGame allocates a room id, spawns its room, and returns the id.
func (d *Directory) CreateGame() string {
	reply := make(chan string, 1)
	select {
	case d.inbox <- createGameCmd{reply: reply}:
	case <-d.done:
		return ""
	}
	select {
	case id := <-reply:
		return id
	case <-d.done:
		return ""
	}
}

// GetGameRoom looks up a room by id.
func (d *Directory) GetGameRoom(id string) (*GameRoom, *GameError) {
	reply := make(chan *GameRoom, 1)
	select {
	case d.inbox <- getGameCmd{id: id, reply: reply}:
	case <-d.done:
		return nil, domainError(ErrGameDoesNotExist, "game "+id+" does not exist")
	}
	select {
	case room := <-reply:
		if room == nil {
			return nil, domainError(ErrGameDoesNotExist, "game "+id+" does not exist")
		}
		return room, nil
	case <-d.done:
		return nil, domainError(ErrGameDoesNotExist, "game "+id+" does not exist")
	}
}

// RemoveGame drops a room from the registry. A missing id is not an error.
func (d *Directory) RemoveGame(id string) {
	select {
	case d.inbox <- removeGameCmd{id: id}:
	case <-d.done:
	}
}

// newRoomID samples alphanumeric ids, substitutes ambiguous characters, and
// retries on the rare collision with a live room.
func (d *Directory) newRoomID() string {
	for {
		b := make([]byte, roomIDLength)
		for i := range b {
			b[i] = roomIDAlphabet[rand.IntN(len(roomIDAlphabet))]
		}
		id := roomIDReplacer.Replace(string(b))
		if _, exists := d.rooms[id]; !exists {
			return id
		}
	}
}
