package srv

import "strings"

// Word is a single word a player submitted in a round.
type Word struct {
	Text  string
	Used  bool
	Score int
}

// VotingItem is the (player, word) pair currently open for voting.
type VotingItem struct {
	PlayerNickname string
	Word           string
}

// Round holds the state of one round: the prompt, every player's submitted
// words, and the ballots for the currently open voting item.
type Round struct {
	Word string
	// Players is the roster order at round start; the voting iterator and
	// all per-player maps follow this order.
	Players           []string
	PlayerWords       map[string][]Word
	PlayerVotingWords map[string]*string
	VotingItem        *VotingItem
}

func newRound(word string, players []string) *Round {
	return &Round{
		Word:              word,
		Players:           players,
		PlayerWords:       make(map[string][]Word),
		PlayerVotingWords: make(map[string]*string),
	}
}

// addWords stores a player's submissions. Words are trimmed, empty entries
// dropped; duplicates after normalization fail with REPEATED_WORDS.
func (r *Round) addWords(nickname string, words []string) *GameError {
	normalized := make([]Word, 0, len(words))
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if seen[w] {
			return domainError(ErrRepeatedWords, "submitted words contain duplicates")
		}
		seen[w] = true
		normalized = append(normalized, Word{Text: w})
	}
	r.PlayerWords[nickname] = normalized
	return nil
}

// hasSubmitted reports whether the player has a stored word list.
func (r *Round) hasSubmitted(nickname string) bool {
	_, ok := r.PlayerWords[nickname]
	return ok
}

// fillMissingSubmissions stores an empty word list for every participant
// without one. Used when disconnected players hold up the round.
func (r *Round) fillMissingSubmissions() {
	for _, nickname := range r.Players {
		if !r.hasSubmitted(nickname) {
			r.PlayerWords[nickname] = []Word{}
		}
	}
}

// nextVotingItem advances the voting iterator to the next unused word,
// visiting players in roster order and each player's words in submission
// order. The chosen word is marked used and the owner's ballot is seeded
// with it. Returns nil when no unused word remains.
func (r *Round) nextVotingItem() *VotingItem {
	r.PlayerVotingWords = make(map[string]*string)
	for _, nickname := range r.Players {
		words := r.PlayerWords[nickname]
		for i := range words {
			if words[i].Used {
				continue
			}
			words[i].Used = true
			item := &VotingItem{PlayerNickname: nickname, Word: words[i].Text}
			r.VotingItem = item
			ballot := words[i].Text
			r.PlayerVotingWords[nickname] = &ballot
			return item
		}
	}
	r.VotingItem = nil
	return nil
}

// setVotingWord records a player's ballot for the open voting item. A nil
// word always means "I don't have this word" and is accepted.
func (r *Round) setVotingWord(nickname string, word *string) *GameError {
	if r.VotingItem == nil {
		return domainError(ErrCannotSubmitVotingWordWhenVotingItemIsNone, "no voting item is open")
	}
	if nickname == r.VotingItem.PlayerNickname {
		return domainError(ErrVotingItemPlayerCannotSubmitVotingWord, "the voting item owner cannot vote")
	}
	if word != nil {
		if w := r.findWord(nickname, *word); w == nil || w.Used {
			return domainError(ErrCannotSubmitNonExistingOrUsedWord, "word is not in your list or already used")
		}
	}
	r.PlayerVotingWords[nickname] = word
	return nil
}

// acceptVotingWords closes the open voting item: the score is the number of
// non-nil ballots, and every matched word gets that score and is marked used.
func (r *Round) acceptVotingWords() {
	score := 0
	for _, ballot := range r.PlayerVotingWords {
		if ballot != nil {
			score++
		}
	}
	for nickname, ballot := range r.PlayerVotingWords {
		if ballot == nil {
			continue
		}
		if w := r.findWord(nickname, *ballot); w != nil {
			w.Score = score
			w.Used = true
		}
	}
	r.PlayerVotingWords = make(map[string]*string)
}

// findWord returns a pointer into the player's word list, or nil. Word texts
// are unique per player because submissions are deduplicated.
func (r *Round) findWord(nickname, text string) *Word {
	words := r.PlayerWords[nickname]
	for i := range words {
		if words[i].Text == text {
			return &words[i]
		}
	}
	return nil
}
