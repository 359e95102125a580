// Package policylog reads policy snapshot logs.
//
// The writer appends one comma-separated 7-value line per snapshot with a
// trailing comma, and can die mid-line, so the file may end in a truncated
// record. Reading tolerates exactly those two defects and nothing else:
// the trailing empty field is stripped per line, and the final line is
// dropped only when it fails to parse. Any other malformed line is an
// error naming its line number.
package policylog

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"c4policy/game"
)

// Entry is one retained policy snapshot. Line is the 1-based position in
// the source file, kept for error reporting downstream.
type Entry struct {
	Line   int
	Policy game.Policy
}

// Read parses the whole log. An empty result (empty file, or a single
// truncated line) is a degenerate-input error rather than an empty slice.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open policy log: %w", err)
	}
	defer f.Close()

	entries := make([]Entry, 0, 1024)
	var pendingErr error

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		// A parse failure is only forgivable on the final line; defer the
		// decision until we know whether more lines follow.
		if pendingErr != nil {
			return nil, pendingErr
		}

		policy, err := parseLine(line)
		if err != nil {
			pendingErr = fmt.Errorf("line %d: %w", lineNum, err)
			continue
		}
		entries = append(entries, Entry{Line: lineNum, Policy: policy})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read policy log: %w", err)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("policy log %s contains no usable entries", path)
	}
	return entries, nil
}

func parseLine(line string) (game.Policy, error) {
	fields := strings.Split(line, ",")
	// The writer terminates every record with a comma, which shows up here
	// as one empty trailing field.
	if len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	if len(fields) != game.ActionSpace {
		return game.Policy{}, fmt.Errorf("has %d values, want %d", len(fields), game.ActionSpace)
	}

	vals := make([]float32, len(fields))
	for i, s := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
		if err != nil {
			return game.Policy{}, fmt.Errorf("value %d %q is not a number", i, s)
		}
		vals[i] = float32(v)
	}
	return game.PolicyFromSlice(vals)
}
