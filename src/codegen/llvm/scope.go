package llvm

import "tinygo.org/x/go-llvm"

// pushDeferScope opens a new, empty deferred-call list for the block about
// to be entered.
func (e *Emitter) pushDeferScope() {
	list := make([]deferredCall, 0)
	e.deferStack = append(e.deferStack, &list)
}

// popDeferScope closes the innermost defer scope. Unless the block already
// terminated in a Return (terminated == true, in which case expandDefers
// already ran for every live scope), the scope's deferred calls are
// expanded here, in LIFO order, before the scope is discarded.
func (e *Emitter) popDeferScope(terminated bool) {
	top := e.deferStack[len(e.deferStack)-1]
	e.deferStack = e.deferStack[:len(e.deferStack)-1]
	if terminated {
		return
	}
	e.expandDeferList(*top)
}

// expandDeferList emits the calls of one scope's list in reverse
// insertion order, so deferred calls run LIFO like a stack unwind.
func (e *Emitter) expandDeferList(list []deferredCall) {
	for i := len(list) - 1; i >= 0; i-- {
		d := list[i]
		e.b.CreateCall(d.callee, d.args, "")
	}
}

// expandAllDefers expands every live defer scope, innermost first, as
// Return requires.
func (e *Emitter) expandAllDefers() {
	for i := len(e.deferStack) - 1; i >= 0; i-- {
		e.expandDeferList(*e.deferStack[i])
	}
}

func (e *Emitter) pushLoopTargets(continueTarget, breakTarget llvm.BasicBlock) {
	e.continueTargets = append(e.continueTargets, continueTarget)
	e.breakTargets = append(e.breakTargets, breakTarget)
}

func (e *Emitter) popLoopTargets() {
	e.continueTargets = e.continueTargets[:len(e.continueTargets)-1]
	e.breakTargets = e.breakTargets[:len(e.breakTargets)-1]
}

// breakTarget returns the basic block N levels up the loop nesting. N is 1-indexed, matching tree.Break.Times.
func (e *Emitter) breakTarget(n int) llvm.BasicBlock {
	return e.breakTargets[len(e.breakTargets)-n]
}

func (e *Emitter) continueTarget(n int) llvm.BasicBlock {
	return e.continueTargets[len(e.continueTargets)-n]
}
