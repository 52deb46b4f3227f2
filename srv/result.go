package srv

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// GameResult is the archived outcome of a finished game.
type GameResult struct {
	ID          string         `json:"id"`
	GameID      string         `json:"gameId"`
	Scores      map[string]int `json:"scores"`
	Rounds      []roundView    `json:"rounds"`
	PlayerCount int            `json:"playerCount"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// saveResult archives a finished game. Called from room goroutines through
// the directory's onGameFinished hook; *sql.DB is safe for concurrent use.
func (s *Server) saveResult(gameID string, snap GameSnapshot) {
	scores := make(map[string]int, len(snap.Players))
	for _, p := range snap.Players {
		scores[p.Nickname] = 0
	}
	for _, r := range snap.Rounds {
		for nickname, words := range r.PlayerWords {
			for _, w := range words {
				scores[nickname] += w.Score
			}
		}
	}

	frame := newGameStateFrame(snap)
	scoresJSON, _ := json.Marshal(scores)
	roundsJSON, _ := json.Marshal(frame.Rounds)

	id := uuid.NewString()
	_, err := s.DB.Exec(
		`INSERT INTO game_results (id, game_id, scores_json, rounds_json, player_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, gameID, string(scoresJSON), string(roundsJSON), len(snap.Players), time.Now().UTC(),
	)
	if err != nil {
		slog.Error("save result", "gameId", gameID, "error", err)
		return
	}
	slog.Info("game result saved", "gameId", gameID, "resultId", id)
}

// loadResult loads an archived game result from the database.
func (s *Server) loadResult(id string) (*GameResult, error) {
	var (
		result    GameResult
		scoresStr string
		roundsStr string
	)
	err := s.DB.QueryRow(
		`SELECT id, game_id, scores_json, rounds_json, player_count, created_at
		 FROM game_results WHERE id = ?`, id,
	).Scan(&result.ID, &result.GameID, &scoresStr, &roundsStr, &result.PlayerCount, &result.CreatedAt)
	if err != nil {
		return nil, err
	}
	json.Unmarshal([]byte(scoresStr), &result.Scores)
	json.Unmarshal([]byte(roundsStr), &result.Rounds)
	return &result, nil
}

// HandleViewResult returns an archived game result as JSON.
func (s *Server) HandleViewResult(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.NotFound(w, r)
		return
	}
	result, err := s.loadResult(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
