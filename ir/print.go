package ir

import (
	"fmt"
	"strings"
)

// Print renders fn as the textual IR format of spec §6.2. The format is
// intentionally simple — one instruction per line, `%id` naming every
// value-producing instruction, `@name` naming blocks and globals — so
// that Parse can read it back with no ambiguity; round-tripping
// Print(Parse(Print(fn))) must reproduce the same structure (spec §6.2,
// §8).
func Print(fn *Function) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "func @%s(", fn.Name)
	for i, p := range fn.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%%%d %s", p.Id, p.Typ.Repr())
	}
	sb.WriteString(") ")
	sb.WriteString(fn.Type.ReturnType.Repr())
	if fn.ForceInline {
		sb.WriteString(" forceinline")
	}
	if fn.Extern {
		sb.WriteString(" extern")
	}
	sb.WriteString(" {\n")

	for _, b := range fn.Blocks {
		fmt.Fprintf(&sb, "@%d:\n", b.Id)
		for _, instr := range b.instr {
			sb.WriteString("  ")
			sb.WriteString(printInstr(instr))
			sb.WriteRune('\n')
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

func printInstr(i *Instruction) string {
	var sb strings.Builder

	if i.Op != OpStore && i.Op != OpBranch && i.Op != OpBranchConditional &&
		i.Op != OpReturn && i.Op != OpUnreachable {
		fmt.Fprintf(&sb, "%%%d = ", i.Id)
	}

	sb.WriteString(i.Op.String())
	sb.WriteRune(' ')
	if i.Typ != nil {
		sb.WriteString(i.Typ.Repr())
		sb.WriteRune(' ')
	}

	switch i.Op {
	case OpImmediate, OpLitInteger:
		fmt.Fprintf(&sb, "%d", i.ImmValue)
	case OpLitString:
		fmt.Fprintf(&sb, "$str%d", i.StringIndex)
	case OpStaticRef:
		fmt.Fprintf(&sb, "@%s", i.Static.Name)
	case OpFuncRef:
		fmt.Fprintf(&sb, "@%s", i.Func.Name)
	case OpParameter:
		fmt.Fprintf(&sb, "#%d", i.ParamIndex)
	case OpPhi:
		parts := make([]string, len(i.Phis))
		for idx, arg := range i.Phis {
			parts[idx] = fmt.Sprintf("[@%d %%%d]", arg.Pred.Id, arg.Value.Id)
		}
		sb.WriteString(strings.Join(parts, ", "))
	case OpBranch:
		fmt.Fprintf(&sb, "@%d", i.Targets[0].Id)
	case OpBranchConditional:
		fmt.Fprintf(&sb, "%%%d, @%d, @%d", i.Operands[0].Id, i.Targets[0].Id, i.Targets[1].Id)
	case OpCall:
		var callee string
		if i.Func != nil {
			callee = "@" + i.Func.Name
		} else {
			callee = fmt.Sprintf("%%%d", i.Operands[0].Id)
		}
		args := i.Operands
		if i.Func == nil {
			args = args[1:]
		}
		parts := make([]string, len(args))
		for idx, a := range args {
			parts[idx] = fmt.Sprintf("%%%d", a.Id)
		}
		tail := ""
		if i.IsTail {
			tail = " tail"
		}
		fmt.Fprintf(&sb, "%s(%s)%s", callee, strings.Join(parts, ", "), tail)
	case OpIntrinsic:
		parts := make([]string, len(i.Operands))
		for idx, a := range i.Operands {
			parts[idx] = fmt.Sprintf("%%%d", a.Id)
		}
		fmt.Fprintf(&sb, "%s(%s)", i.Intrinsic, strings.Join(parts, ", "))
	case OpReturn:
		if len(i.Operands) > 0 {
			fmt.Fprintf(&sb, "%%%d", i.Operands[0].Id)
		}
	case OpUnreachable:
		// no operands
	default:
		parts := make([]string, len(i.Operands))
		for idx, a := range i.Operands {
			parts[idx] = fmt.Sprintf("%%%d", a.Id)
		}
		sb.WriteString(strings.Join(parts, ", "))
	}

	return sb.String()
}
