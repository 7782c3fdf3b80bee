package automatic

import (
	"encoding/base64"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ReadLog parses a game log written by Run.
func ReadLog(r io.Reader) ([]GameResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 9

	var results []GameResult
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if record[0] == "gameID" {
			continue
		}
		res, err := parseLogRecord(record)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func parseLogRecord(record []string) (GameResult, error) {
	var res GameResult
	var err error
	res.GameID, err = strconv.ParseUint(record[0], 16, 64)
	if err != nil {
		return res, err
	}
	seed, err := base64.RawURLEncoding.DecodeString(record[1])
	if err != nil {
		return res, err
	}
	if len(seed) != 32 {
		return res, fmt.Errorf("seed has %d bytes", len(seed))
	}
	copy(res.Seed[:], seed)

	ints := []*int{&res.Lines, &res.Pieces, &res.Clears[1], &res.Clears[2], &res.Clears[3], &res.Clears[4]}
	for i, p := range ints {
		*p, err = strconv.Atoi(record[2+i])
		if err != nil {
			return res, err
		}
	}
	res.Clears[0] = res.Pieces - res.Clears[1] - res.Clears[2] - res.Clears[3] - res.Clears[4]
	res.ToppedOut, err = strconv.ParseBool(record[8])
	return res, err
}

// AnalyzeLogFile summarizes the games in a CSV log file.
func AnalyzeLogFile(filepath string) (string, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer f.Close()
	results, err := ReadLog(f)
	if err != nil {
		return "", err
	}
	return Summarize(results).String(), nil
}
