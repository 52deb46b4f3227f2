package srv

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// readTimeout is the read-side heartbeat deadline. Clients must send
// "ping" or other traffic at least this often or the session closes.
const readTimeout = 2500 * time.Millisecond

// HandleWS upgrades the player's connection and runs its session. A room
// lookup failure still upgrades so the client receives a single typed
// error frame before the close.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("game_id")
	nickname := r.PathValue("nickname")

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade", "gameId", gameID, "error", err)
		return
	}

	room, gerr := s.Directory.GetGameRoom(gameID)
	if gerr != nil {
		writeErrorFrame(conn, gerr)
		conn.Close()
		return
	}

	runPlayerSession(conn, room, nickname)
}

// readResult is one inbound frame (or read failure) from the reader
// goroutine.
type readResult struct {
	messageType int
	data        []byte
	err         error
}

// runPlayerSession bridges one websocket to a room: it joins the player,
// forwards broadcasts outward and decoded commands inward, and disconnects
// the player when the socket goes away.
func runPlayerSession(conn *websocket.Conn, room *GameRoom, nickname string) {
	defer conn.Close()

	sub, gerr := room.AddPlayer(nickname)
	if gerr != nil {
		if gerr.IsInternal() {
			slog.Error("join failed", "gameId", room.ID(), "nickname", nickname, "error", gerr)
		} else {
			writeErrorFrame(conn, gerr)
		}
		return
	}

	connectedPlayers.Inc()
	defer connectedPlayers.Dec()
	defer room.DisconnectPlayer(nickname)
	slog.Info("player session started", "gameId", room.ID(), "nickname", nickname)

	done := make(chan struct{})
	defer close(done)
	inbound := make(chan readResult)
	go readPump(conn, inbound, done)

	for {
		select {
		case ev := <-sub.Events():
			if err := writeEvent(conn, ev); err != nil {
				slog.Warn("websocket write", "gameId", room.ID(), "nickname", nickname, "error", err)
				return
			}
		case res := <-inbound:
			if res.err != nil {
				logSessionEnd(room.ID(), nickname, res.err)
				return
			}
			if res.messageType != websocket.TextMessage {
				writeErrorFrame(conn, domainError(ErrUnprocessableWebsocketMessage, "only text messages are supported"))
				continue
			}
			if string(res.data) == pingMessage {
				if err := conn.WriteMessage(websocket.TextMessage, []byte(pongMessage)); err != nil {
					return
				}
				continue
			}
			dispatchFrame(conn, room, nickname, res.data)
		}
	}
}

// readPump reads frames under the heartbeat deadline and hands them to the
// session loop. It exits when the read fails or the session is gone.
func readPump(conn *websocket.Conn, inbound chan<- readResult, done <-chan struct{}) {
	for {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		messageType, data, err := conn.ReadMessage()
		res := readResult{messageType: messageType, data: data, err: err}
		select {
		case inbound <- res:
		case <-done:
			return
		}
		if err != nil {
			return
		}
	}
}

// dispatchFrame decodes one inbound JSON frame and relays it to the room.
// Unparseable frames get an error frame but do not end the session.
func dispatchFrame(conn *websocket.Conn, room *GameRoom, nickname string, data []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		writeErrorFrame(conn, domainError(ErrUnprocessableWebsocketMessage, "message is not valid JSON"))
		return
	}

	switch frame.Kind {
	case kindStartGame:
		if err := room.StartGame(nickname, frame.AmountOfRounds); err != nil {
			if err.IsInternal() {
				slog.Error("start game failed", "gameId", room.ID(), "nickname", nickname, "error", err)
			} else {
				writeErrorFrame(conn, err)
			}
		}
	case kindChatMessage:
		room.ChatMessage(nickname, frame.Content)
	case kindPlayerWords:
		room.AddPlayerWords(nickname, frame.Words)
	case kindPlayerVotingWord:
		room.SetVotingWord(nickname, frame.Word)
	case kindAcceptPlayersVotingWords:
		room.AcceptPlayersVotingWords(nickname)
	case kindContinueToNextRound:
		room.ContinueToNextRound(nickname)
	case kindPlayAgain:
		room.PlayAgain(nickname)
	default:
		writeErrorFrame(conn, domainError(ErrUnprocessableWebsocketMessage, "unknown message kind: "+frame.Kind))
	}
}

func writeEvent(conn *websocket.Conn, ev roomEvent) error {
	switch e := ev.(type) {
	case gameStateEvent:
		return conn.WriteJSON(newGameStateFrame(e.Snapshot))
	case chatMessageEvent:
		return conn.WriteJSON(newChatMessageFrame(e))
	}
	return nil
}

func writeErrorFrame(conn *websocket.Conn, gerr *GameError) {
	if err := conn.WriteJSON(newErrorFrame(gerr)); err != nil {
		slog.Warn("websocket write error frame", "error", err)
	}
}

// logSessionEnd records why the read side ended: a clean close, a heartbeat
// timeout, or an unexpected failure.
func logSessionEnd(gameID, nickname string, err error) {
	switch {
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
		slog.Info("player session closed", "gameId", gameID, "nickname", nickname, "reason", ErrWebsocketClosed)
	case websocket.IsUnexpectedCloseError(err):
		slog.Warn("player session closed unexpectedly", "gameId", gameID, "nickname", nickname, "reason", ErrWebsocketClosed, "error", err)
	default:
		slog.Info("player session read timed out or failed", "gameId", gameID, "nickname", nickname, "error", err)
	}
}
