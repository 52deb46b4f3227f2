package srv

import "fmt"

// ErrorType is the stable error code sent to clients in error frames.
// These strings are part of the wire contract and must not change.
type ErrorType string

const (
	ErrGameAlreadyInProgress                      ErrorType = "GAME_ALREADY_IN_PROGRESS"
	ErrGameDoesNotExist                           ErrorType = "GAME_DOES_NOT_EXIST"
	ErrInvalidStateForWordsSubmission             ErrorType = "INVALID_STATE_FOR_WORDS_SUBMISSION"
	ErrInvalidStateForVotingWordSubmission        ErrorType = "INVALID_STATE_FOR_VOTING_WORD_SUBMISSION"
	ErrNotEnoughPlayers                           ErrorType = "NOT_ENOUGH_PLAYERS"
	ErrNotEnoughRounds                            ErrorType = "NOT_ENOUGH_ROUNDS"
	ErrNonHostCannotContinueToNextRound           ErrorType = "NON_HOST_PLAYER_CANNOT_CONTINUE_TO_NEXT_ROUND"
	ErrNonHostCannotContinueToNextVotingItem      ErrorType = "NON_HOST_PLAYER_CANNOT_CONTINUE_TO_NEXT_VOTING_ITEM"
	ErrNonHostCannotStartGame                     ErrorType = "NON_HOST_PLAYER_CANNOT_START_GAME"
	ErrPlayerAlreadyExists                        ErrorType = "PLAYER_ALREADY_EXISTS"
	ErrCannotSubmitVotingWordWhenVotingItemIsNone ErrorType = "PLAYER_CANNOT_SUBMIT_VOTING_WORD_WHEN_VOTING_ITEM_IS_NONE"
	ErrCannotSubmitNonExistingOrUsedWord          ErrorType = "PLAYER_CANNOT_SUBMIT_NON_EXISTING_OR_USED_WORD"
	ErrRepeatedWords                              ErrorType = "REPEATED_WORDS"
	ErrVotingItemPlayerCannotSubmitVotingWord     ErrorType = "VOTING_ITEM_PLAYER_CANNOT_SUBMIT_VOTING_WORD"
	ErrUnprocessableWebsocketMessage              ErrorType = "UNPROCESSABLE_WEBSOCKET_MESSAGE"
	ErrWebsocketClosed                            ErrorType = "WEBSOCKET_CLOSED"
	ErrInternalServer                             ErrorType = "INTERNAL_SERVER"
)

// GameError is an error with a wire-stable type code. Domain and external
// errors are sent to clients as error frames; internal errors are only logged.
type GameError struct {
	Type   ErrorType
	Title  string
	Detail string
}

func (e *GameError) Error() string {
	if e.Detail == "" {
		return string(e.Type)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Detail)
}

// IsInternal reports whether the error must be suppressed from clients.
func (e *GameError) IsInternal() bool {
	return e.Type == ErrInternalServer
}

// domainError creates a client-visible rule-violation error.
func domainError(t ErrorType, detail string) *GameError {
	return &GameError{Type: t, Title: string(t), Detail: detail}
}

// internalError creates an error that is logged but never sent to clients.
func internalError(format string, args ...any) *GameError {
	return &GameError{
		Type:   ErrInternalServer,
		Title:  string(ErrInternalServer),
		Detail: fmt.Sprintf(format, args...),
	}
}
