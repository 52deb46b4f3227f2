package srv

// Wire frames exchanged with clients as JSON text messages. The kind
// discriminators and field names are the external contract and must be
// preserved bit-for-bit.

// Outbound frame kinds.
const (
	frameKindGameState   = "gameState"
	frameKindChatMessage = "chatMessage"
	frameKindError       = "error"
)

// Inbound frame kinds.
const (
	kindStartGame                = "startGame"
	kindChatMessage              = "chatMessage"
	kindPlayerWords              = "playerWords"
	kindPlayerVotingWord         = "playerVotingWord"
	kindAcceptPlayersVotingWords = "acceptPlayersVotingWords"
	kindContinueToNextRound      = "continueToNextRound"
	kindPlayAgain                = "playAgain"
)

// pingMessage and pongMessage live outside the JSON scheme: a literal
// "ping" text frame is answered with a literal "pong".
const (
	pingMessage = "ping"
	pongMessage = "pong"
)

type playerView struct {
	Nickname    string `json:"nickname"`
	IsHost      bool   `json:"isHost"`
	IsConnected bool   `json:"isConnected"`
}

type wordView struct {
	Word   string `json:"word"`
	IsUsed bool   `json:"isUsed"`
	Score  int    `json:"score"`
}

type votingItemView struct {
	PlayerNickname string `json:"playerNickname"`
	Word           string `json:"word"`
}

type roundView struct {
	Word              string                `json:"word"`
	PlayerWords       map[string][]wordView `json:"playerWords"`
	PlayerVotingWords map[string]*string    `json:"playerVotingWords"`
	VotingItem        *votingItemView       `json:"votingItem"`
}

type gameStateFrame struct {
	Kind           string       `json:"kind"`
	State          string       `json:"state"`
	Players        []playerView `json:"players"`
	Rounds         []roundView  `json:"rounds"`
	AmountOfRounds *int         `json:"amountOfRounds"`
}

type chatMessageFrame struct {
	Kind    string `json:"kind"`
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

type errorFrame struct {
	Kind   string `json:"kind"`
	Type   string `json:"type"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// inboundFrame is the union of all client command payloads, discriminated
// by Kind.
type inboundFrame struct {
	Kind           string   `json:"kind"`
	AmountOfRounds int      `json:"amountOfRounds,omitempty"`
	Content        string   `json:"content,omitempty"`
	Words          []string `json:"words,omitempty"`
	Word           *string  `json:"word,omitempty"`
}

func newGameStateFrame(snap GameSnapshot) gameStateFrame {
	frame := gameStateFrame{
		Kind:           frameKindGameState,
		State:          string(snap.State),
		Players:        make([]playerView, len(snap.Players)),
		Rounds:         make([]roundView, len(snap.Rounds)),
		AmountOfRounds: snap.AmountOfRounds,
	}
	for i, p := range snap.Players {
		frame.Players[i] = playerView{
			Nickname:    p.Nickname,
			IsHost:      p.IsHost,
			IsConnected: p.IsConnected,
		}
	}
	for i, r := range snap.Rounds {
		rv := roundView{
			Word:              r.Word,
			PlayerWords:       make(map[string][]wordView, len(r.PlayerWords)),
			PlayerVotingWords: r.PlayerVotingWords,
		}
		for nickname, words := range r.PlayerWords {
			views := make([]wordView, len(words))
			for j, w := range words {
				views[j] = wordView{Word: w.Text, IsUsed: w.Used, Score: w.Score}
			}
			rv.PlayerWords[nickname] = views
		}
		if r.VotingItem != nil {
			rv.VotingItem = &votingItemView{
				PlayerNickname: r.VotingItem.PlayerNickname,
				Word:           r.VotingItem.Word,
			}
		}
		frame.Rounds[i] = rv
	}
	return frame
}

func newChatMessageFrame(ev chatMessageEvent) chatMessageFrame {
	return chatMessageFrame{
		Kind:    frameKindChatMessage,
		Sender:  ev.Sender,
		Content: ev.Content,
	}
}

func newErrorFrame(err *GameError) errorFrame {
	return errorFrame{
		Kind:   frameKindError,
		Type:   string(err.Type),
		Title:  err.Title,
		Detail: err.Detail,
	}
}
