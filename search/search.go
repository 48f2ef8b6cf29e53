/*
Package search implements the Lazy-SMP negamax/alpha-beta search: a fleet
of independent worker goroutines, coordinated by golang.org/x/sync/errgroup,
sharing nothing but a transposition table and an atomic stop flag. Each
worker iteratively deepens on its own clone of the root position, using
killer and history tables private to itself, and the main thread (index 0)
is the only one that reports progress and assembles the final result.
*/
package search

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/op/go-logging"

	"github.com/belikovartem/negamax/eval"
	"github.com/belikovartem/negamax/move"
	"github.com/belikovartem/negamax/movegen"
	"github.com/belikovartem/negamax/position"
	"github.com/belikovartem/negamax/tt"
)

// MaxDepth bounds iterative deepening; no realistic time budget reaches it,
// it exists so the loop has a hard stop.
const MaxDepth = 30

// qMaxDepth bounds quiescence search's capture-only recursion.
const qMaxDepth = 10

// maxExtensions caps how many times a single search branch can be extended
// by the in-check rule, so a long forcing sequence can't inflate the
// effective depth without bound.
const maxExtensions = 8

// Result is what a completed (or time/stop-aborted) search reports.
type Result struct {
	BestMove move.Move
	Score    int
	Depth    int
	Nodes    uint64
}

// shared is the state every worker in a fleet reads or writes; none of it
// is per-worker.
type shared struct {
	stop     *atomic.Bool
	canStop  atomic.Bool
	deadline time.Time
}

func (s *shared) timeUp() bool {
	if !s.canStop.Load() || s.deadline.IsZero() {
		return false
	}
	return time.Now().After(s.deadline)
}

// Search runs a Lazy-SMP search from root using threads workers sharing
// table, for up to budget (zero means search until externally stopped).
// stop is the caller's cancellation flag: the "stop" protocol command sets
// it to interrupt the search early. Only
// worker 0's progress is logged.
func Search(root *position.Position, table *tt.Table, threads int, budget time.Duration, stop *atomic.Bool, logger *logging.Logger) Result {
	if threads < 1 {
		threads = 1
	}
	root.SearchPly = 0

	sh := &shared{stop: stop}
	start := time.Now()
	if budget > 0 {
		sh.deadline = start.Add(budget)
	}

	results := make([]Result, threads)
	var totalNodes atomic.Uint64

	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < threads; i++ {
		id := i
		g.Go(func() error {
			w := newWorker(id, root.Clone(), table, sh, logger, start)
			w.run()
			totalNodes.Add(w.nodes)
			results[id] = Result{BestMove: w.bestMove, Score: w.lastScore, Depth: w.lastDepth, Nodes: w.nodes}
			return nil
		})
	}
	_ = g.Wait()

	table.AdvanceAge()

	main := results[0]
	main.Nodes = totalNodes.Load()
	if main.BestMove.IsNull() {
		list := movegen.Generate(root)
		if list.Len > 0 {
			main.BestMove = list.Moves[0]
		}
	}
	return main
}

// worker is one Lazy-SMP search thread: its own position clone, its own
// killer/history tables, its own node counter. It shares only table and
// shared with its siblings.
type worker struct {
	id       int
	isMain   bool
	pos      *position.Position
	table    *tt.Table
	shared   *shared
	logger   *logging.Logger
	start    time.Time
	budget   time.Duration
	nodes    uint64
	killers  killerTable
	history  historyTable
	bestMove move.Move
	lastScore int
	lastDepth int
}

func newWorker(id int, pos *position.Position, table *tt.Table, sh *shared, logger *logging.Logger, start time.Time) *worker {
	budget := time.Duration(0)
	if !sh.deadline.IsZero() {
		budget = sh.deadline.Sub(start)
	}
	return &worker{
		id:     id,
		isMain: id == 0,
		pos:    pos,
		table:  table,
		shared: sh,
		logger: logger,
		start:  start,
		budget: budget,
	}
}

func (w *worker) shouldStop() bool {
	if w.shared.stop.Load() {
		return true
	}
	if w.shared.timeUp() {
		w.shared.stop.Store(true)
		return true
	}
	return false
}

// run is the worker's iterative-deepening loop. Threads are staggered by
// index parity (spec §4.9/§5) so they don't all explore the same depth at
// the same moment.
func (w *worker) run() {
	startDepth := 1 + w.id%2
	for d := startDepth; d <= MaxDepth; d++ {
		if w.shouldStop() {
			return
		}
		score := w.negamax(d, -tt.Infinity, tt.Infinity, true, 0, 0)
		if w.shared.stop.Load() {
			return
		}

		w.lastDepth = d
		w.lastScore = score

		if w.isMain {
			pv := extractPV(w.pos, w.table)
			if len(pv) > 0 {
				w.bestMove = pv[0]
			}
			w.report(d, score, pv)

			if d >= 3 {
				w.shared.canStop.Store(true)
			}
			if isMateScore(score) || w.shared.timeUp() {
				w.shared.stop.Store(true)
				return
			}
		}
	}
}

func isMateScore(score int) bool {
	return score >= tt.IsMate || score <= -tt.IsMate
}

func (w *worker) report(depth, score int, pv []move.Move) {
	if w.logger == nil {
		return
	}
	elapsed := time.Since(w.start)
	nps := uint64(0)
	if elapsed > 0 {
		nps = w.nodes * uint64(time.Second) / uint64(elapsed)
	}
	uciMoves := make([]string, len(pv))
	for i, m := range pv {
		uciMoves[i] = m.UCI()
	}
	w.logger.Infof("info depth %d score %s nodes %d nps %d pv %s",
		depth, scoreString(score), w.nodes, nps, strings.Join(uciMoves, " "))
}

func scoreString(score int) string {
	switch {
	case score >= tt.IsMate:
		return fmt.Sprintf("mate %d", (tt.Infinity-score+1)/2)
	case score <= -tt.IsMate:
		return fmt.Sprintf("mate -%d", (tt.Infinity+score+1)/2)
	default:
		return fmt.Sprintf("cp %d", score)
	}
}

// negamax is the alpha-beta search core. ply is the node's distance from
// the search root (position.Position.SearchPly mirrors it on the shared
// position, but is threaded explicitly here since it indexes the
// killer table and the table's mate-distance adjustment); ext counts the
// in-check extensions granted so far on this branch.
func (w *worker) negamax(depth, alpha, beta int, allowNull bool, ply, ext int) int {
	if w.shouldStop() {
		return alpha
	}
	w.nodes++

	if ply > 0 {
		if w.pos.HalfmoveClock >= 100 || w.pos.HasRepetition() {
			return 0
		}
	}
	if depth <= 0 {
		return w.quiescence(alpha, beta, qMaxDepth, ply)
	}

	us := w.pos.Side
	inCheck := w.pos.InCheck(us)
	if inCheck && ext < maxExtensions {
		depth++
		ext++
	}

	originalAlpha := alpha
	var ttMove move.Move
	if score, ttDepth, bound, best, found := w.table.Probe(w.pos.Hash, ply); found {
		ttMove = best
		if ttDepth >= depth {
			switch bound {
			case tt.Exact:
				return score
			case tt.Lower:
				if score >= beta {
					return score
				}
			case tt.Upper:
				if score <= alpha {
					return score
				}
			}
		}
	}

	phase := w.pos.TaperPhase()
	if allowNull && !inCheck && ply > 0 && depth >= 4 && phase <= 220 && beta < tt.IsMate {
		w.pos.MakeNull()
		score := -w.negamax(depth-4, -beta, -beta+1, false, ply+1, ext)
		w.pos.UnmakeNull()
		if w.shared.stop.Load() {
			return alpha
		}
		if score >= beta && !isMateScore(score) {
			return beta
		}
	}

	list := movegen.Generate(w.pos)
	killers := w.killers.At(ply)
	orderMoves(&list, ttMove, killers, &w.history, us)

	bestScore := -tt.Infinity
	var bestMove move.Move
	legal := 0

	for i := 0; i < list.Len; i++ {
		m := list.Selected(i)
		w.pos.MakeMove(m)
		legal++

		var score int
		reduced := false
		if depth > 3 && legal > 3 && m.IsQuiet() && !inCheck && m != killers[0] && m != killers[1] {
			reduction := 1
			if legal > 6 {
				reduction = 2
			}
			reducedDepth := depth - 1 - reduction
			if reducedDepth < 1 {
				reducedDepth = 1
			}
			score = -w.negamax(reducedDepth, -alpha-1, -alpha, true, ply+1, ext)
			reduced = true
		}
		if !reduced || score > alpha {
			score = -w.negamax(depth-1, -beta, -alpha, true, ply+1, ext)
		}

		w.pos.UnmakeMove()

		if w.shared.stop.Load() {
			return alpha
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
			if score > alpha {
				alpha = score
				if m.IsQuiet() {
					w.history.Add(us, m.From(), m.To(), depth)
				}
			}
			if score >= beta {
				if m.IsQuiet() {
					w.killers.Add(ply, m)
				}
				w.table.Store(w.pos.Hash, beta, depth, tt.Lower, m, ply)
				return beta
			}
		}
	}

	if legal == 0 {
		if inCheck {
			return -tt.Infinity + ply
		}
		return 0
	}

	bound := tt.Upper
	if alpha > originalAlpha {
		bound = tt.Exact
	}
	w.table.Store(w.pos.Hash, alpha, depth, bound, bestMove, ply)
	return alpha
}

// quiescence resolves captures until the position is quiet, per spec
// §4.9: a stand-pat cutoff plus MVV-LVA-ordered captures only, bounded to
// qMaxDepth plies so a position with endless recaptures still terminates.
func (w *worker) quiescence(alpha, beta, depth, ply int) int {
	if w.shouldStop() {
		return alpha
	}
	w.nodes++

	standPat := eval.Evaluate(w.pos)
	if depth <= 0 {
		return standPat
	}
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	list := movegen.GenerateCaptures(w.pos)
	orderCaptures(&list)

	for i := 0; i < list.Len; i++ {
		m := list.Selected(i)
		w.pos.MakeMove(m)
		score := -w.quiescence(-beta, -alpha, depth-1, ply+1)
		w.pos.UnmakeMove()

		if w.shared.stop.Load() {
			return alpha
		}
		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}
