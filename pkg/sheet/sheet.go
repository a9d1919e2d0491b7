// Package sheet implements a small reactive spreadsheet on top of the
// fluorine core. Each cell's formula is held in a reactive value cell and
// evaluated through a memoized function node, so editing one cell
// re-evaluates only the cells whose results actually depend on it.
package sheet

import (
	"fmt"
	"strconv"

	"github.com/fluorine-dev/fluorine/pkg/expr"
	"github.com/fluorine-dev/fluorine/pkg/rx"
)

// Result is a cell's evaluated value. Valid is false for empty cells,
// parse failures, dangling references, and cycles.
type Result struct {
	Num   float64
	Valid bool
}

// CellState is the rendered state of one cell, as handed to UIs.
type CellState struct {
	Index int    `json:"index"`
	Src   string `json:"src"`
	Value string `json:"value"`
	Valid bool   `json:"valid"`
}

// Edit is one entry of the sheet's change log.
type Edit struct {
	Cell int
	Src  string
}

// cell pairs a formula source with its reactive machinery: the parsed
// expression in a value cell and a memoized evaluator over it.
type cell struct {
	src  string
	expr *rx.Value[expr.Expr]
	eval *rx.Func[struct{}, Result]
}

// Sheet is a fixed-size grid of formula cells sharing one dependency
// graph. It is single-goroutine, like the runtime underneath it.
type Sheet struct {
	dep   *rx.Dependent
	cells []*cell
	log   *rx.Seq[Edit]
}

// New creates a sheet with size empty cells.
func New(size int) *Sheet {
	cells := make([]*cell, size)
	for i := range cells {
		cells[i] = &cell{
			expr: rx.NewValue[expr.Expr](nil),
			eval: rx.NewFunc[struct{}, Result](),
		}
	}
	return &Sheet{
		dep:   rx.Toplevel(),
		cells: cells,
		log:   rx.NewSeq[Edit](),
	}
}

// Size returns the number of cells.
func (s *Sheet) Size() int {
	return len(s.cells)
}

// Dep returns the sheet's toplevel dependent, for callers that drive
// their own consumers (such as per-session render effects).
func (s *Sheet) Dep() *rx.Dependent {
	return s.dep
}

// Source returns the raw formula text of cell i.
func (s *Sheet) Source(i int) string {
	return s.cells[i].src
}

// SetSource replaces the formula of cell i and reparses it. An empty
// source clears the cell. On a parse failure the cell holds no
// expression and evaluates to no value; the error is returned for
// display. Every edit, valid or not, dirties the cell's consumers and is
// recorded in the change log.
func (s *Sheet) SetSource(i int, src string) error {
	if i < 0 || i >= len(s.cells) {
		return fmt.Errorf("sheet: cell %d out of range", i)
	}
	c := s.cells[i]
	c.src = src
	s.log.Append(Edit{Cell: i, Src: src})

	if src == "" {
		*c.expr.Mutate() = nil
		return nil
	}

	parsed, err := expr.Parse(src)
	*c.expr.Mutate() = parsed // nil on error
	if err != nil {
		return fmt.Errorf("sheet: cell %d: %w", i, err)
	}
	return nil
}

// Eval evaluates cell i against the sheet's own toplevel dependent.
func (s *Sheet) Eval(i int) Result {
	return s.EvalCell(s.dep.Ctx(), i)
}

// EvalCell evaluates cell i through its memoized node, tracking the
// caller. References to other cells recurse through their memoized
// nodes, so the dependency graph mirrors the reference graph. A cell
// that references itself, directly or through other cells, evaluates to
// no value at the point of re-entry; the participants stay registered
// with each other, so an edit that breaks the cycle still re-evaluates
// all of them.
func (s *Sheet) EvalCell(ctx *rx.Ctx, i int) Result {
	if i < 0 || i >= len(s.cells) {
		return Result{}
	}
	c := s.cells[i]

	res, ok := c.eval.Call(ctx, struct{}{}, func(ctx *rx.Ctx, _ struct{}) Result {
		e := c.expr.Read(ctx)
		if e == nil {
			return Result{}
		}
		num, valid := expr.Eval(e, func(name string) (float64, bool) {
			j, err := strconv.Atoi(name)
			if err != nil {
				return 0, false
			}
			r := s.EvalCell(ctx, j)
			return r.Num, r.Valid
		})
		return Result{Num: num, Valid: valid}
	})
	if !ok {
		return Result{}
	}
	return res
}

// Snapshot evaluates every cell through ctx and returns its rendered
// state. UIs that render from an effect pass the effect's context so the
// snapshot's reads are what re-trigger the effect.
func (s *Sheet) Snapshot(ctx *rx.Ctx) []CellState {
	states := make([]CellState, len(s.cells))
	for i := range s.cells {
		res := s.EvalCell(ctx, i)
		state := CellState{Index: i, Src: s.cells[i].src, Valid: res.Valid}
		if res.Valid {
			state.Value = strconv.FormatFloat(res.Num, 'g', -1, 64)
		} else if s.cells[i].src != "" {
			state.Value = "error"
		}
		states[i] = state
	}
	return states
}

// Edits returns the change log entries recorded so far, tracking the
// caller. Entry identifiers are stable, so callers can key per-edit
// bookkeeping on them.
func (s *Sheet) Edits(ctx *rx.Ctx) []rx.Entry[Edit] {
	return s.log.Slice(ctx)
}

// EditCount returns the number of recorded edits without tracking.
func (s *Sheet) EditCount() int {
	return s.log.Len()
}
