/*
Package book implements a read-only opening book: a text file of
alternating "pos <fingerprint>" header lines and "<move> <frequency>"
entries, loaded into an in-memory weighted lookup. It mirrors
original_source/src/book.rs's on-disk format exactly, but is consulted
by the engine-interface front end before it ever calls search.Search —
the book is an optional pre-search shortcut, not a search component.
*/
package book

import (
	"bufio"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/op/go-logging"
)

// Entry is one candidate move for a position, in long algebraic notation,
// with its observed frequency in the source game database.
type Entry struct {
	Move      string
	Frequency uint32
}

// Book is an immutable fingerprint -> weighted move-list lookup table.
type Book struct {
	positions map[string][]Entry
}

// Empty returns a book with no entries, the fallback spec §6 requires
// when no book file is configured or present.
func Empty() *Book {
	return &Book{positions: make(map[string][]Entry)}
}

// Load parses a book file at path. A missing file is not an error — it
// yields an empty book, matching spec §6's "Absent file → empty book."
// Malformed lines are logged and skipped rather than treated as fatal,
// per this repo's §7 classification of bad input as a diagnosable, not a
// crashing, condition.
func Load(path string, logger *logging.Logger) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Empty(), nil
		}
		return nil, err
	}
	defer f.Close()

	b := Empty()
	var currentPos string
	var currentMoves []Entry

	flush := func() {
		if currentPos != "" {
			b.positions[currentPos] = currentMoves
		}
	}

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "pos ") {
			flush()
			currentPos = strings.TrimSpace(line[len("pos "):])
			currentMoves = nil
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			logf(logger, "book: %s:%d: malformed entry %q, skipping", path, lineNo, line)
			continue
		}
		freq, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			logf(logger, "book: %s:%d: bad frequency %q, skipping", path, lineNo, fields[1])
			continue
		}
		if currentPos == "" {
			logf(logger, "book: %s:%d: move entry before any \"pos\" header, skipping", path, lineNo)
			continue
		}
		currentMoves = append(currentMoves, Entry{Move: fields[0], Frequency: uint32(freq)})
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return b, nil
}

func logf(logger *logging.Logger, format string, args ...interface{}) {
	if logger != nil {
		logger.Warningf(format, args...)
	}
}

// Lookup returns a move sampled with probability proportional to its
// frequency for the position identified by fingerprint (spec §6's
// reduced-FEN key, see position.Position.Fingerprint). ok is false when
// the book has no entries for that position.
func (b *Book) Lookup(fingerprint string) (uci string, ok bool) {
	entries := b.positions[fingerprint]
	if len(entries) == 0 {
		return "", false
	}

	var total uint64
	for _, e := range entries {
		total += uint64(e.Frequency)
	}
	if total == 0 {
		return entries[0].Move, true
	}

	pick := uint64(rand.Int63n(int64(total)))
	var cumulative uint64
	for _, e := range entries {
		cumulative += uint64(e.Frequency)
		if pick < cumulative {
			return e.Move, true
		}
	}
	return entries[len(entries)-1].Move, true
}
