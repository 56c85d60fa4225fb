package common

// Conversion scores returned by the semantic analyzer's TryConvert ladder
// (spec §4.1.2). Lower is better; overload resolution sums these across a
// call's arguments. Centralized here (rather than as magic numbers
// scattered through sema) because overload resolution and the conversion
// ladder both need to agree on what "no-op" and "illegal" mean, grounded on the
// teacher's operator.go habit of naming small enumerated integers instead
// of inlining them.
const (
	ScoreErrored     = -2 // operand already errored; treated as success to avoid cascades
	ScoreIllegal     = -1 // no legal conversion exists
	ScoreIdentity    = 0  // structurally identical, or a literal that fits exactly
	ScoreLValueToRValue = 1
	ScoreReferenceBind  = 1
	ScoreFuncToFuncPtr  = 1
	ScoreArrayDecay     = 2
)

// BinOp intrinsic category: whether a binary operator's IR opcode choice
// depends on the operand type's signedness (div/mod/comparisons do;
// add/sub/mul/bitwise don't). No package in this module refers to it.
type ArithClass int

const (
	ArithSignAgnostic ArithClass = iota // add, sub, mul, and, or, xor, eq, ne
	ArithSignSensitive                  // div, mod, lt, le, gt, ge
)
