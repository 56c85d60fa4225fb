// Package optimize implements the IR-level optimizer of spec §4.3: an
// inliner that clones callee instruction graphs into their call sites,
// detects infinite-inline cycles, rewires returns into PHIs or single
// values, and preserves tail-call semantics. Grounded on
// original_source/src/codegen/opt/inline.c, restructured around this
// module's own ir.Block/ir.Function API (Split/Extend/InsertBlockAfter)
// instead of the source's hand-rolled doubly-linked instruction lists.
package optimize

import (
	"emberc/ir"
	"emberc/report"
)

// RootEntry is the history-index sentinel marking a call that was
// already present in a function rather than introduced by a prior
// inlining (spec §4.3 "a sentinel 'root' value for calls originally
// present in the function").
const RootEntry = -1

// RootInlineOnly is the spec's t = -1 "inline only the specifically
// requested call" threshold. Since this implementation has no separate
// "requested call" handle, that mode degenerates to inlining only
// forceinline callees; a caller wanting must-succeed semantics for one
// particular call marks that call's callee forceinline and passes this
// threshold (spec §8 scenario 5).
const RootInlineOnly = -1

// historyEntry is one inlining decision: which call, which callee it
// named, and the history index of the inlining that introduced the call
// in the first place (spec §4.3 "Cycle detection").
type historyEntry struct {
	Call        *ir.Instruction
	Callee      *ir.Function
	ParentEntry int
}

// Inliner carries the inlining threshold and accumulated state across
// every function of a module (spec §9 "Inliner state": a flat history
// vector with integer parent indices, plus a not-inlinable set keyed by
// instruction).
type Inliner struct {
	Threshold int
	MayFail   bool

	history      []historyEntry
	notInlinable map[*ir.Instruction]struct{}
	diag         *report.CompilationContext
}

// NewInliner builds an inliner for the given threshold (spec §4.3
// "Inputs"): t = 0 inlines every call; t = -1 inlines only calls
// explicitly forced via forceinline; positive t inlines callees with at
// most t instructions (excluding parameters). mayFail selects between
// the optimizer's silent skip-and-blacklist mode and its user-visible
// must-succeed mode (spec §7 "Propagation").
func NewInliner(threshold int, mayFail bool, diag *report.CompilationContext) *Inliner {
	return &Inliner{
		Threshold:    threshold,
		MayFail:      mayFail,
		notInlinable: make(map[*ir.Instruction]struct{}),
		diag:         diag,
	}
}

// Result reports whether a Run made any change and whether any call
// could not be inlined despite being requested.
type Result struct {
	Changed bool
	Failed  bool
}

// Run inlines calls across every function of ctx, restarting a
// function's scan from its entry block after each successful inlining
// (spec §4.3 "Termination").
func (inl *Inliner) Run(ctx *ir.Context) Result {
	var total Result
	for _, fn := range ctx.Functions {
		r := inl.runFunc(ctx, fn)
		if r.Changed {
			total.Changed = true
		}
		if r.Failed {
			total.Failed = true
		}
	}
	return total
}

func (inl *Inliner) runFunc(ctx *ir.Context, fn *ir.Function) Result {
	var res Result
	inl.history = inl.history[:0]

again:
	for _, block := range fn.Blocks {
		for _, inst := range block.Instructions() {
			if inst.Op != ir.OpCall || inst.Func == nil {
				// Not a call, or an indirect call (spec §4.3 only ever
				// names direct calls; indirect callees are unknown
				// statically and can never be inlined).
				continue
			}
			callee := inst.Func
			if callee.Extern {
				continue
			}
			if _, skip := inl.notInlinable[inst]; skip {
				continue
			}

			// t = -1 (RootInlineOnly) never satisfies the t >= 0 count
			// check below, so with that threshold only forceinline
			// callees are ever inlined (spec §4.3 "-1 inlines only the
			// specifically requested call" — modeled here as "only
			// calls to functions the caller explicitly marked
			// forceinline").
			mustInline := callee.ForceInline || inl.Threshold == 0
			wantInline := mustInline || (inl.Threshold >= 0 && inl.Threshold >= callee.InstructionCount())
			if !wantInline {
				continue
			}

			if fn == callee && !inst.IsTail {
				// Self-recursion: only a tail call may be inlined (spec
				// §4.3 "Self-recursion"); a forced non-tail self-call is
				// refused outright rather than attempting a tail-call
				// conversion this module does not implement.
				if mustInline {
					if !inl.MayFail {
						report.NewError(inl.diag, nil,
							"could not inline non-tail-recursive call").Emit()
					}
					res.Failed = true
					inl.notInlinable[inst] = struct{}{}
				}
				continue
			}
			// A tail self-call (fn == callee && inst.IsTail) falls through
			// to the same expansion path as any other call: inlineOne
			// clones fn's own current body into the call site, unrolling
			// one level of recursion. Repeated unrolling terminates
			// because wouldCycle walks the history chain and refuses once
			// callee (fn itself) reappears among its own ancestors.

			if inl.inlineOne(ctx, fn, inst) {
				res.Changed = true
			} else {
				res.Failed = true
				inl.notInlinable[inst] = struct{}{}
			}
			goto again
		}
	}

	return res
}

// historyIndexOf returns the history index recording call, adding a root
// entry for it if this is the first time the inliner has seen it (spec
// §4.3 "If the call does not yet exist in the history, add it").
func (inl *Inliner) historyIndexOf(call *ir.Instruction, callee *ir.Function) int {
	for i, e := range inl.history {
		if e.Call == call {
			return i
		}
	}
	idx := len(inl.history)
	inl.history = append(inl.history, historyEntry{Call: call, Callee: callee, ParentEntry: RootEntry})
	return idx
}

// wouldCycle walks the ancestry chain of a call already present in the
// history and reports whether any ancestor's callee equals callee (spec
// §4.3 "Cycle detection").
func (inl *Inliner) wouldCycle(historyIdx int, callee *ir.Function) bool {
	e := inl.history[historyIdx]
	if e.ParentEntry == RootEntry {
		return false
	}
	for {
		e = inl.history[e.ParentEntry]
		if e.Callee == callee {
			return true
		}
		if e.ParentEntry == RootEntry {
			return false
		}
	}
}

// inlineOne expands a single call (spec §4.3 "Expansion algorithm").
func (inl *Inliner) inlineOne(ctx *ir.Context, fn *ir.Function, call *ir.Instruction) bool {
	callee := call.Func
	historyIdx := inl.historyIndexOf(call, callee)
	if inl.wouldCycle(historyIdx, callee) {
		if !inl.MayFail {
			report.NewError(inl.diag, nil,
				"failed to inline function %s into %s: infinite loop detected",
				callee.Name, fn.Name).Emit()
		}
		return false
	}

	if callee.InstructionCount() == 0 {
		// Degenerate empty callee: nothing to copy in, and it cannot
		// have produced a value (spec: "Handle the degenerate case of
		// the callee being empty").
		removeCall(ctx, call)
		return true
	}

	callBlock := call.Block
	args := make([]*ir.Instruction, len(call.Operands))
	copy(args, call.Operands)
	isTailCall := call.IsTail

	pos := callBlock.IndexOf(call)
	tail := callBlock.Split(pos) // [call, ...everything after it]
	callNext := tail[1:]

	sk := newSkeleton(fn, callee, call, callBlock, args)
	cloneInstructions(inl, sk, historyIdx)
	finishBlocks(sk)

	if sk.returnValue != nil {
		ir.ReplaceAllUses(call, sk.returnValue)
	}

	lastBlock := sk.blocks[len(sk.blocks)-1]
	if !isTailCall {
		lastBlock.Extend(callNext)
	}
	// A tail call drops everything after it (spec step 8); those
	// instructions are simply discarded along with the call.

	if len(sk.blocks) > 1 {
		fn.InsertBlockAfter(callBlock, sk.blocks[1:])
	}

	ctx.MarkRemoved(call)
	for _, inst := range sk.unattached {
		ctx.MarkRemoved(inst)
	}

	return true
}

// removeCall drops a call to a callee with no instructions at all: it
// cannot have produced a used value (spec: "ASSERT(call->users.size == 0,
// ...)"), so it is simply spliced out of its block.
func removeCall(ctx *ir.Context, call *ir.Instruction) {
	b := call.Block
	pos := b.IndexOf(call)
	rest := b.Split(pos)
	b.Extend(rest[1:])
	ctx.MarkRemoved(call)
}
