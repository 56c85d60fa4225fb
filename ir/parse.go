package ir

import (
	"fmt"
	"strconv"
	"strings"

	"emberc/types"
)

// Parse reads the textual IR format written by Print back into a
// Function graph (spec §6.2 "an ir_parse collaborator reads it back").
// It runs in two passes: the first discovers every block and
// instruction id so that forward references (a branch to a block not
// yet printed, a PHI argument from a not-yet-parsed predecessor) can be
// resolved; the second fills in each instruction's operands and payload.
func Parse(text string) (*Function, error) {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 {
		return nil, fmt.Errorf("ir: empty input")
	}

	header := strings.TrimSpace(lines[0])
	if !strings.HasPrefix(header, "func @") {
		return nil, fmt.Errorf("ir: expected function header, got %q", header)
	}

	name, paramTypes, paramIDs, retType, flags, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	sig := &types.FunctionType{ReturnType: retType}
	for i, pt := range paramTypes {
		sig.Params = append(sig.Params, types.FuncParam{Name: fmt.Sprintf("p%d", i), Type: pt})
	}

	fn := &Function{Name: name, Type: sig, Extern: flags["extern"], ForceInline: flags["forceinline"]}
	for i, pt := range paramTypes {
		p := NewInstruction(OpParameter, pt)
		p.ParamIndex = i
		p.Id = paramIDs[i]
		fn.Params = append(fn.Params, p)
	}

	blocksByID := make(map[int]*Block)
	instrByID := make(map[int]*Instruction)
	for _, p := range fn.Params {
		instrByID[p.Id] = p
	}

	// Pass 1: discover blocks and instruction ids in textual order.
	var order []int // block ids in textual order
	curBlock := -1
	for ln := 1; ln < len(lines); ln++ {
		line := strings.TrimSpace(lines[ln])
		if line == "" || line == "{" || line == "}" {
			continue
		}
		if strings.HasPrefix(line, "@") && strings.HasSuffix(line, ":") {
			id, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(line, "@"), ":"))
			if err != nil {
				return nil, fmt.Errorf("ir: bad block label %q: %w", line, err)
			}
			b := &Block{Func: fn, Id: id}
			blocksByID[id] = b
			order = append(order, id)
			curBlock = id
			continue
		}

		if curBlock < 0 {
			return nil, fmt.Errorf("ir: instruction outside any block: %q", line)
		}
		if strings.HasPrefix(line, "%") {
			idStr := line[1:strings.Index(line, " ")]
			idStr = strings.TrimSuffix(idStr, "=")
			idStr = strings.TrimSpace(idStr)
			id, err := strconv.Atoi(idStr)
			if err != nil {
				return nil, fmt.Errorf("ir: bad instruction id in %q: %w", line, err)
			}
			instrByID[id] = &Instruction{Id: id, Users: make(map[*Instruction]struct{})}
		}
	}

	for _, id := range order {
		fn.Blocks = append(fn.Blocks, blocksByID[id])
	}

	// Pass 2: fill in each instruction/line.
	curBlock = -1
	for ln := 1; ln < len(lines); ln++ {
		line := strings.TrimSpace(lines[ln])
		if line == "" || line == "{" || line == "}" {
			continue
		}
		if strings.HasPrefix(line, "@") && strings.HasSuffix(line, ":") {
			id, _ := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(line, "@"), ":"))
			curBlock = id
			continue
		}

		instr, err := parseInstrLine(line, instrByID, blocksByID)
		if err != nil {
			return nil, err
		}
		b := blocksByID[curBlock]
		instr.Block = b
		b.instr = append(b.instr, instr)
	}

	return fn, nil
}

func parseHeader(header string) (name string, params []types.Type, paramIDs []int, ret types.Type, flags map[string]bool, err error) {
	flags = make(map[string]bool)

	rest := strings.TrimPrefix(header, "func @")
	parenIdx := strings.Index(rest, "(")
	name = rest[:parenIdx]
	rest = rest[parenIdx+1:]

	closeIdx := strings.Index(rest, ")")
	paramList := rest[:closeIdx]
	rest = strings.TrimSpace(rest[closeIdx+1:])
	rest = strings.TrimSuffix(rest, "{")
	rest = strings.TrimSpace(rest)

	if paramList != "" {
		for _, p := range strings.Split(paramList, ",") {
			p = strings.TrimSpace(p)
			fields := strings.SplitN(p, " ", 2)
			id, perr := strconv.Atoi(strings.TrimPrefix(fields[0], "%"))
			if perr != nil {
				return "", nil, nil, nil, nil, fmt.Errorf("ir: bad parameter %q: %w", p, perr)
			}
			typ, _, ok := types.Parse(fields[1])
			if !ok {
				return "", nil, nil, nil, nil, fmt.Errorf("ir: unparseable parameter type %q", fields[1])
			}
			paramIDs = append(paramIDs, id)
			params = append(params, typ)
		}
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", nil, nil, nil, nil, fmt.Errorf("ir: missing return type in header %q", header)
	}
	ret, _, ok := types.Parse(fields[0])
	if !ok {
		return "", nil, nil, nil, nil, fmt.Errorf("ir: unparseable return type %q", fields[0])
	}
	for _, f := range fields[1:] {
		flags[f] = true
	}

	return name, params, paramIDs, ret, flags, nil
}

func refInstr(tok string, instrByID map[int]*Instruction) (*Instruction, error) {
	tok = strings.TrimSpace(tok)
	id, err := strconv.Atoi(strings.TrimPrefix(tok, "%"))
	if err != nil {
		return nil, fmt.Errorf("ir: bad instruction reference %q: %w", tok, err)
	}
	i, ok := instrByID[id]
	if !ok {
		return nil, fmt.Errorf("ir: reference to unknown instruction %%%d", id)
	}
	return i, nil
}

func refBlock(tok string, blocksByID map[int]*Block) (*Block, error) {
	tok = strings.TrimSpace(tok)
	id, err := strconv.Atoi(strings.TrimPrefix(tok, "@"))
	if err != nil {
		return nil, fmt.Errorf("ir: bad block reference %q: %w", tok, err)
	}
	b, ok := blocksByID[id]
	if !ok {
		return nil, fmt.Errorf("ir: reference to unknown block @%d", id)
	}
	return b, nil
}

func parseInstrLine(line string, instrByID map[int]*Instruction, blocksByID map[int]*Block) (*Instruction, error) {
	var id int
	rest := line
	if strings.HasPrefix(line, "%") {
		eq := strings.Index(line, "=")
		idStr := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line[:eq], "%"), " "))
		var err error
		id, err = strconv.Atoi(strings.TrimSpace(idStr))
		if err != nil {
			return nil, fmt.Errorf("ir: bad instruction id in %q: %w", line, err)
		}
		rest = strings.TrimSpace(line[eq+1:])
	}

	fields := strings.SplitN(rest, " ", 2)
	opName := fields[0]
	op, ok := lookupOp(opName)
	if !ok {
		return nil, fmt.Errorf("ir: unknown opcode %q", opName)
	}

	var instr *Instruction
	if existing, ok := instrByID[id]; ok && strings.HasPrefix(line, "%") {
		instr = existing
	} else {
		instr = &Instruction{Users: make(map[*Instruction]struct{})}
	}
	instr.Op = op
	instr.Id = id

	operandText := ""
	if len(fields) > 1 {
		operandText = fields[1]
	}

	// Print writes a type after every opcode, terminators included.
	typeTok, remainder, ok := splitTypeToken(operandText)
	if ok {
		typ, _, pok := types.Parse(typeTok)
		if pok {
			instr.Typ = typ
			operandText = remainder
		}
	}

	if err := fillPayload(instr, op, operandText, instrByID, blocksByID); err != nil {
		return nil, err
	}

	return instr, nil
}

// splitTypeToken splits the leading type token (eg. "int" in "int 14")
// from the rest, returning ok=false if operandText has no leading type
// token (eg. a payload that starts with "%" or "@").
func splitTypeToken(s string) (string, string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "%") || strings.HasPrefix(s, "@") {
		return "", s, false
	}
	idx := strings.IndexByte(s, ' ')
	if idx < 0 {
		return s, "", true
	}
	return s[:idx], strings.TrimSpace(s[idx+1:]), true
}

func fillPayload(instr *Instruction, op Op, text string, instrByID map[int]*Instruction, blocksByID map[int]*Block) error {
	switch op {
	case OpImmediate, OpLitInteger:
		v, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return fmt.Errorf("ir: bad immediate %q: %w", text, err)
		}
		instr.ImmValue = v
	case OpReturn:
		text = strings.TrimSpace(text)
		if text != "" {
			v, err := refInstr(text, instrByID)
			if err != nil {
				return err
			}
			Use(instr, v)
		}
	case OpBranch:
		b, err := refBlock(text, blocksByID)
		if err != nil {
			return err
		}
		instr.Targets = []*Block{b}
	case OpBranchConditional:
		parts := strings.Split(text, ",")
		if len(parts) != 3 {
			return fmt.Errorf("ir: malformed branch_cond operands %q", text)
		}
		cond, err := refInstr(parts[0], instrByID)
		if err != nil {
			return err
		}
		thenB, err := refBlock(parts[1], blocksByID)
		if err != nil {
			return err
		}
		elseB, err := refBlock(parts[2], blocksByID)
		if err != nil {
			return err
		}
		Use(instr, cond)
		instr.Targets = []*Block{thenB, elseB}
	case OpPhi:
		for _, part := range strings.Split(text, "], [") {
			part = strings.Trim(part, "[] ")
			if part == "" {
				continue
			}
			pieces := strings.Fields(part)
			b, err := refBlock(pieces[0], blocksByID)
			if err != nil {
				return err
			}
			v, err := refInstr(pieces[1], instrByID)
			if err != nil {
				return err
			}
			AddPhiArg(instr, b, v)
		}
	case OpUnreachable:
		// no payload
	case OpCall:
		text = strings.TrimSpace(text)
		isTail := strings.HasSuffix(text, " tail")
		text = strings.TrimSuffix(text, " tail")
		instr.IsTail = isTail

		open := strings.IndexByte(text, '(')
		callee := text[:open]
		argText := strings.TrimSuffix(text[open+1:], ")")

		if strings.HasPrefix(callee, "@") {
			return fmt.Errorf("ir: direct call target %q cannot be resolved: Parse has no function table", callee)
		}
		calleeInstr, err := refInstr(callee, instrByID)
		if err != nil {
			return err
		}
		Use(instr, calleeInstr)

		for _, tok := range strings.Split(argText, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			v, err := refInstr(tok, instrByID)
			if err != nil {
				return err
			}
			Use(instr, v)
		}
	case OpIntrinsic:
		open := strings.IndexByte(text, '(')
		instr.Intrinsic = text[:open]
		argText := strings.TrimSuffix(text[open+1:], ")")
		for _, tok := range strings.Split(argText, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			v, err := refInstr(tok, instrByID)
			if err != nil {
				return err
			}
			Use(instr, v)
		}
	default:
		text = strings.TrimSpace(text)
		text = strings.TrimPrefix(text, "(")
		text = strings.TrimSuffix(text, ")")
		if text == "" {
			return nil
		}
		for _, tok := range strings.Split(text, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			v, err := refInstr(tok, instrByID)
			if err != nil {
				return err
			}
			Use(instr, v)
		}
	}
	return nil
}

func lookupOp(name string) (Op, bool) {
	for op, n := range opNames {
		if n == name {
			return Op(op), true
		}
	}
	return 0, false
}
