package srv

// GameState names a state of the game state machine. The strings are sent
// verbatim in gameState frames and must not change.
type GameState string

const (
	StateLobby                       GameState = "Lobby"
	StateCreatingNewRound            GameState = "CreatingNewRound"
	StatePlayersSubmittingWords      GameState = "PlayersSubmittingWords"
	StateChooseNextVotingItem        GameState = "ChooseNextVotingItem"
	StatePlayersSubmittingVotingWord GameState = "PlayersSubmittingVotingWord"
	StateEndOfRound                  GameState = "EndOfRound"
	StateEndOfGame                   GameState = "EndOfGame"
)

// gameEvent is an internal event fed to the state machine.
type gameEvent string

const (
	eventStartGame                gameEvent = "StartGame"
	eventStartRound               gameEvent = "StartRound"
	eventNoMoreRounds             gameEvent = "NoMoreRounds"
	eventAllPlayersSubmittedWords gameEvent = "AllPlayersSubmittedWords"
	eventNextVotingItem           gameEvent = "NextVotingItem"
	eventNoMoreVotingItems        gameEvent = "NoMoreVotingItems"
	eventAcceptPlayersVotingWords gameEvent = "AcceptPlayersVotingWords"
	eventContinueToNextRound      gameEvent = "ContinueToNextRound"
	eventPlayAgain                gameEvent = "PlayAgain"
)

// transitions is the full state machine as data: state × event → next state.
// CreatingNewRound and ChooseNextVotingItem are transient; on entry the Game
// self-consumes a follow-up event (see Game.applyEvent).
var transitions = map[GameState]map[gameEvent]GameState{
	StateLobby: {
		eventStartGame: StateCreatingNewRound,
	},
	StateCreatingNewRound: {
		eventStartRound:   StatePlayersSubmittingWords,
		eventNoMoreRounds: StateEndOfGame,
	},
	StatePlayersSubmittingWords: {
		eventAllPlayersSubmittedWords: StateChooseNextVotingItem,
	},
	StateChooseNextVotingItem: {
		eventNextVotingItem:    StatePlayersSubmittingVotingWord,
		eventNoMoreVotingItems: StateEndOfRound,
	},
	StatePlayersSubmittingVotingWord: {
		eventAcceptPlayersVotingWords: StateChooseNextVotingItem,
	},
	StateEndOfRound: {
		eventContinueToNextRound: StateCreatingNewRound,
	},
	StateEndOfGame: {
		eventPlayAgain: StateLobby,
	},
}
