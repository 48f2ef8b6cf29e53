/*
Command engine is a reference front end for the negamax core: a
line-based stdin/stdout protocol (spec §6) that accepts
uci/isready/ucinewgame/position/go/stop/quit and reports search progress
and the chosen move. It calls only the exported entry points of the
position, movegen, tt, book and search packages — never into search's
internals — the way original_source's
main.rs only drives gamestate and search from the outside.
*/
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/op/go-logging"

	"github.com/belikovartem/negamax/book"
	"github.com/belikovartem/negamax/magic"
	"github.com/belikovartem/negamax/move"
	"github.com/belikovartem/negamax/movegen"
	"github.com/belikovartem/negamax/position"
	"github.com/belikovartem/negamax/search"
	"github.com/belikovartem/negamax/tt"
	"github.com/belikovartem/negamax/zobrist"
)

const (
	engineName   = "negamax"
	engineAuthor = "belikovartem"
)

var log = logging.MustGetLogger("engine")

func main() {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	logging.SetBackend(backend)

	magic.Init()
	zobrist.Init()

	cfg := LoadConfig("engine.toml")
	bk, err := book.Load("book.txt", log)
	if err != nil {
		log.Warningf("book: failed to load book.txt: %v", err)
		bk = book.Empty()
	}

	e := &engine{
		pos:    position.ParseFEN(position.StartFEN),
		table:  tt.New(cfg.HashMB),
		cfg:    cfg,
		book:   bk,
		logger: log,
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !e.handle(line) {
			break
		}
	}
}

// engine holds the single mutable game position the protocol loop reads
// and writes between commands, plus everything a search needs across
// multiple "go" commands (the TT and book persist for the process's
// lifetime; "ucinewgame" resets the position and clears the TT).
type engine struct {
	pos    *position.Position
	table  *tt.Table
	cfg    Config
	book   *book.Book
	logger *logging.Logger

	stop      atomic.Bool
	searching atomic.Bool
	done      chan struct{}
}

// handle processes one protocol line, returning false when the loop
// should exit ("quit").
func (e *engine) handle(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}

	switch fields[0] {
	case "uci":
		fmt.Printf("id name %s\n", engineName)
		fmt.Printf("id author %s\n", engineAuthor)
		fmt.Println("uciok")
	case "isready":
		fmt.Println("readyok")
	case "ucinewgame":
		e.pos = position.ParseFEN(position.StartFEN)
		e.table.Clear()
	case "position":
		e.handlePosition(fields[1:])
	case "go":
		e.handleGo(fields[1:])
	case "stop":
		e.stop.Store(true)
		e.waitForSearch()
	case "quit":
		e.stop.Store(true)
		e.waitForSearch()
		return false
	default:
		e.logger.Warningf("uci: unrecognized command %q", line)
	}
	return true
}

func (e *engine) waitForSearch() {
	if e.done != nil {
		<-e.done
		e.done = nil
	}
}

func (e *engine) handlePosition(args []string) {
	if len(args) == 0 {
		e.logger.Warningf("uci: empty position command")
		return
	}

	idx := 0
	switch args[0] {
	case "startpos":
		e.pos = position.ParseFEN(position.StartFEN)
		idx = 1
	case "fen":
		if len(args) < 7 {
			e.logger.Warningf("uci: malformed fen in position command")
			return
		}
		e.pos = position.ParseFEN(strings.Join(args[1:7], " "))
		idx = 7
	default:
		e.logger.Warningf("uci: unrecognized position subcommand %q", args[0])
		return
	}

	if idx < len(args) && args[idx] == "moves" {
		for _, token := range args[idx+1:] {
			m, ok := findMove(e.pos, token)
			if !ok {
				e.logger.Warningf("uci: illegal move %q, ignoring remaining moves", token)
				break
			}
			e.pos.MakeMove(m)
		}
	}
}

// findMove resolves a long-algebraic move string against pos's legal
// moves, since book entries and "position ... moves" tokens are both
// plain UCI text with no structure of their own to decode.
func findMove(pos *position.Position, uci string) (move.Move, bool) {
	list := movegen.Generate(pos)
	for i := 0; i < list.Len; i++ {
		if list.Moves[i].UCI() == uci {
			return list.Moves[i], true
		}
	}
	return 0, false
}

func (e *engine) handleGo(args []string) {
	if e.searching.Load() {
		e.logger.Warningf("uci: \"go\" received while already searching, ignoring")
		return
	}

	var movetime, wtime, btime, winc, binc time.Duration
	haveClock := false
	infinite := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "infinite":
			infinite = true
		case "movetime":
			i++
			movetime = parseMillis(e.logger, args, i)
		case "wtime":
			i++
			wtime = parseMillis(e.logger, args, i)
			haveClock = true
		case "btime":
			i++
			btime = parseMillis(e.logger, args, i)
			haveClock = true
		case "winc":
			i++
			winc = parseMillis(e.logger, args, i)
		case "binc":
			i++
			binc = parseMillis(e.logger, args, i)
		}
	}

	if uci, ok := e.tryBook(); ok {
		fmt.Printf("bestmove %s\n", uci)
		return
	}

	var budget time.Duration
	switch {
	case infinite:
		budget = 0
	case movetime > 0:
		budget = movetime
	case haveClock:
		remaining, inc := wtime, winc
		if e.pos.Side == move.Black {
			remaining, inc = btime, binc
		}
		overhead := time.Duration(e.cfg.MoveOverhead) * time.Millisecond
		budget = search.AllocateTime(remaining-overhead, inc)
	default:
		budget = 0
	}

	e.stop.Store(false)
	e.searching.Store(true)
	e.done = make(chan struct{})
	go func() {
		defer close(e.done)
		defer e.searching.Store(false)
		result := search.Search(e.pos, e.table, e.cfg.Threads, budget, &e.stop, e.logger)
		fmt.Printf("bestmove %s\n", result.BestMove.UCI())
	}()
}

// tryBook consults the opening book before committing to a search, per
// spec §12: the book is an external collaborator the front end consults,
// never something search itself reaches for.
func (e *engine) tryBook() (string, bool) {
	return e.book.Lookup(e.pos.Fingerprint())
}

func parseMillis(logger *logging.Logger, args []string, i int) time.Duration {
	if i >= len(args) {
		return 0
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		logger.Warningf("uci: malformed numeric argument %q, treating as 0", args[i])
		return 0
	}
	return time.Duration(n) * time.Millisecond
}
