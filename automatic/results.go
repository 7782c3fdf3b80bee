package automatic

import (
	"bytes"
	"database/sql"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/twai/twai/equity"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	weights     TEXT NOT NULL,
	games       INTEGER NOT NULL,
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS games (
	run_id      TEXT NOT NULL,
	game_id     TEXT NOT NULL,
	seed        TEXT NOT NULL,
	lines       INTEGER NOT NULL,
	pieces      INTEGER NOT NULL,
	singles     INTEGER NOT NULL,
	doubles     INTEGER NOT NULL,
	triples     INTEGER NOT NULL,
	tetrises    INTEGER NOT NULL,
	topped_out  INTEGER NOT NULL,
	PRIMARY KEY (run_id, game_id),
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);
`

// ResultStore keeps autoplay results in SQLite, one row per run and one
// per game.
type ResultStore struct {
	db *sql.DB
}

// RunInfo describes a stored run.
type RunInfo struct {
	RunID     string
	Weights   equity.Weights
	Games     int
	CreatedAt time.Time
}

// OpenResultStore opens (creating if needed) the database at path.
// ":memory:" gives a throwaway store.
func OpenResultStore(path string) (*ResultStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Writers serialize anyway, and an in-memory database exists only
	// on the connection that made it.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &ResultStore{db: db}, nil
}

func (s *ResultStore) Close() error {
	return s.db.Close()
}

// StartRun records a new run and returns its id.
func (s *ResultStore) StartRun(w equity.Weights, games int) (string, error) {
	var buf bytes.Buffer
	if err := w.WriteYAML(&buf); err != nil {
		return "", fmt.Errorf("marshal weights: %w", err)
	}
	id := uuid.New().String()
	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, weights, games, created_at) VALUES (?, ?, ?, ?)`,
		id, buf.String(), games, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// SaveGame stores one finished game of a run.
func (s *ResultStore) SaveGame(runID string, res GameResult) error {
	_, err := s.db.Exec(
		`INSERT INTO games (run_id, game_id, seed, lines, pieces, singles, doubles, triples, tetrises, topped_out)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		fmt.Sprintf("%016x", res.GameID),
		base64.RawURLEncoding.EncodeToString(res.Seed[:]),
		res.Lines, res.Pieces,
		res.Clears[1], res.Clears[2], res.Clears[3], res.Clears[4],
		res.ToppedOut,
	)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

// Run returns the stored description of a run.
func (s *ResultStore) Run(runID string) (RunInfo, error) {
	var (
		info      RunInfo
		weights   string
		createdAt string
	)
	err := s.db.QueryRow(
		`SELECT run_id, weights, games, created_at FROM runs WHERE run_id = ?`, runID,
	).Scan(&info.RunID, &weights, &info.Games, &createdAt)
	if err != nil {
		return RunInfo{}, fmt.Errorf("query run: %w", err)
	}
	info.Weights, err = equity.ReadWeights(strings.NewReader(weights))
	if err != nil {
		return RunInfo{}, err
	}
	info.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return RunInfo{}, fmt.Errorf("parse created_at: %w", err)
	}
	return info, nil
}

// Games returns the games of a run, ordered by game id.
func (s *ResultStore) Games(runID string) ([]GameResult, error) {
	rows, err := s.db.Query(
		`SELECT game_id, seed, lines, pieces, singles, doubles, triples, tetrises, topped_out
		 FROM games WHERE run_id = ? ORDER BY game_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var results []GameResult
	for rows.Next() {
		var (
			res    GameResult
			gameID string
			seed   string
		)
		err := rows.Scan(&gameID, &seed, &res.Lines, &res.Pieces,
			&res.Clears[1], &res.Clears[2], &res.Clears[3], &res.Clears[4], &res.ToppedOut)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		res.GameID, err = strconv.ParseUint(gameID, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("parse game id: %w", err)
		}
		decoded, err := base64.RawURLEncoding.DecodeString(seed)
		if err != nil || len(decoded) != 32 {
			return nil, fmt.Errorf("bad seed for game %s", gameID)
		}
		copy(res.Seed[:], decoded)
		res.Clears[0] = res.Pieces - res.Clears[1] - res.Clears[2] - res.Clears[3] - res.Clears[4]
		results = append(results, res)
	}
	return results, rows.Err()
}
