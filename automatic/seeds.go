package automatic

import (
	"bufio"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"lukechampine.com/frand"
)

// GenerateSeeds creates n random 32-byte seeds, one per game.
func GenerateSeeds(n int) [][32]byte {
	seeds := make([][32]byte, n)
	for i := range seeds {
		frand.Read(seeds[i][:])
	}
	return seeds
}

// WriteSeeds writes one base64 (URL-safe, unpadded) seed per line after a
// comment header.
func WriteSeeds(w io.Writer, seeds [][32]byte) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("# game seeds, base64 URL-safe, 32 bytes each\n"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, seed := range seeds {
		if _, err := bw.WriteString(base64.RawURLEncoding.EncodeToString(seed[:]) + "\n"); err != nil {
			return fmt.Errorf("failed to write seed %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// SaveSeeds writes seeds to path, replacing any existing file.
func SaveSeeds(seeds [][32]byte, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create seed file: %w", err)
	}
	if err := WriteSeeds(f, seeds); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadSeeds parses what WriteSeeds writes. Blank lines and lines starting
// with # are skipped.
func ReadSeeds(r io.Reader) ([][32]byte, error) {
	var seeds [][32]byte
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		decoded, err := base64.RawURLEncoding.DecodeString(line)
		if err != nil {
			return nil, fmt.Errorf("failed to decode seed at line %d: %w", lineNum, err)
		}
		if len(decoded) != 32 {
			return nil, fmt.Errorf("invalid seed length at line %d: got %d bytes, expected 32", lineNum, len(decoded))
		}
		var seed [32]byte
		copy(seed[:], decoded)
		seeds = append(seeds, seed)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading seed file: %w", err)
	}
	return seeds, nil
}

// LoadSeeds reads seeds from a file written by SaveSeeds.
func LoadSeeds(path string) ([][32]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()
	return ReadSeeds(f)
}

// seedsFor returns n seeds. With no path they are fresh. Otherwise the
// file is read, or created if it does not exist yet, so a later run with
// the same file plays the same games.
func seedsFor(path string, n int) ([][32]byte, error) {
	if path == "" {
		return GenerateSeeds(n), nil
	}
	seeds, err := LoadSeeds(path)
	if errors.Is(err, os.ErrNotExist) {
		seeds = GenerateSeeds(n)
		if err := SaveSeeds(seeds, path); err != nil {
			return nil, err
		}
		return seeds, nil
	}
	if err != nil {
		return nil, err
	}
	if len(seeds) < n {
		return nil, fmt.Errorf("seed file %s has %d seeds, need %d", path, len(seeds), n)
	}
	return seeds[:n], nil
}
