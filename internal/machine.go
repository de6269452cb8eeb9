package internal

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/sirupsen/logrus"
)

// operand is one entry of the machine's operand stack: either an
// integer value or an identifier name. Assignment and indexed input
// must pop a name, not a value, so the distinction is carried through
// every opcode.
type operand struct {
	num  int
	name string
	ref  bool
}

// machine executes the postfix stream. Scalars and array elements are
// zero-initialized from the symbol table before the first step.
type machine struct {
	state *runState

	labels  map[string]int
	scalars map[string]int
	arrays  map[string][]int
	stack   []operand
	pc      int

	in     *bufio.Reader
	out    io.Writer
	prompt io.Writer
}

func newMachine(state *runState, in io.Reader, out, prompt io.Writer) *machine {
	m := &machine{
		state:   state,
		labels:  make(map[string]int),
		scalars: make(map[string]int),
		arrays:  make(map[string][]int),
		in:      bufio.NewReader(in),
		out:     out,
		prompt:  prompt,
	}
	for name, sym := range state.symbols.syms {
		if sym.class == classArray {
			m.arrays[name] = make([]int, sym.size)
		} else {
			m.scalars[name] = 0
		}
	}
	return m
}

// prescan resolves every label to its instruction index before the
// first step, so jumps are position-independent in the listing.
func (m *machine) prescan() {
	for i, inst := range m.state.code {
		if inst.op != opLabel {
			continue
		}
		if _, ok := m.labels[inst.value]; ok {
			m.state.fatalError(fmt.Errorf("%w: %s", errDuplicateLabel, inst.value), inst.line)
		}
		m.labels[inst.value] = i
	}
}

func (m *machine) run() {
	m.prescan()
	m.pc = 0
	for m.pc < len(m.state.code) {
		inst := m.state.code[m.pc]
		trace.WithFields(logrus.Fields{
			"pc":    m.pc,
			"op":    inst.op.String(),
			"value": inst.value,
			"depth": len(m.stack),
		}).Debug("step")

		next := m.pc + 1
		switch inst.op {
		case opPushVar, opPushArrayBase:
			m.push(operand{name: inst.value, ref: true})
		case opPushConst:
			n, err := strconv.Atoi(inst.value)
			if err != nil {
				m.fault(fmt.Errorf("%w: %q", errBadConstant, inst.value), inst)
			}
			m.push(operand{num: n})
		case opOperation:
			m.operate(inst)
		case opLabel:
		case opJump:
			next = m.target(inst)
		case opJumpFalse:
			if m.popInt(inst) == 0 {
				next = m.target(inst)
			}
		case opIndex:
			index := m.popInt(inst)
			name, elems := m.popArray(inst)
			m.checkBounds(name, index, len(elems), inst)
			m.push(operand{num: elems[index]})
		case opRead:
			m.read(inst)
		case opWrite:
			fmt.Fprintln(m.out, m.popInt(inst))
		case opCallSin:
			m.push(operand{num: int(math.Sin(float64(m.popInt(inst))))})
		case opCallCos:
			m.push(operand{num: int(math.Cos(float64(m.popInt(inst))))})
		case opCallTan:
			m.push(operand{num: int(math.Tan(float64(m.popInt(inst))))})
		case opCallCot:
			t := math.Tan(float64(m.popInt(inst)))
			if t == 0 {
				m.fault(errCotangent, inst)
			}
			m.push(operand{num: int(1 / t)})
		default:
			m.fault(fmt.Errorf("%w: %s", errUnknownOpcode, inst.op), inst)
		}
		m.pc = next
	}
}

func (m *machine) operate(inst instruction) {
	switch op := inst.value; op {
	case "=":
		value := m.popInt(inst)
		name := m.popName(inst)
		if _, ok := m.scalars[name]; !ok {
			if _, isArray := m.arrays[name]; isArray {
				m.fault(fmt.Errorf("%w: %q", errAssignWholeArray, name), inst)
			}
			m.fault(fmt.Errorf("%w: %q", errUnknownName, name), inst)
		}
		m.scalars[name] = value
	case "[]=":
		value := m.popInt(inst)
		index := m.popInt(inst)
		name, elems := m.popArray(inst)
		m.checkBounds(name, index, len(elems), inst)
		elems[index] = value
	case "+", "-", "*", "/":
		b := m.popInt(inst)
		a := m.popInt(inst)
		var result int
		switch op {
		case "+":
			result = a + b
		case "-":
			result = a - b
		case "*":
			result = a * b
		case "/":
			if b == 0 {
				m.fault(errDivisionByZero, inst)
			}
			result = a / b
		}
		m.push(operand{num: result})
	case "~", ">", "<", "!":
		b := m.popInt(inst)
		a := m.popInt(inst)
		holds := false
		switch op {
		case "~":
			holds = a == b
		case ">":
			holds = a > b
		case "<":
			holds = a < b
		case "!":
			holds = a != b
		}
		if holds {
			m.push(operand{num: 1})
		} else {
			m.push(operand{num: 0})
		}
	default:
		m.fault(fmt.Errorf("%w: %q", errUnknownOperator, op), inst)
	}
}

// read consumes one integer from the input stream before popping the
// destination, so a malformed input faults with the stack intact.
func (m *machine) read(inst instruction) {
	fmt.Fprint(m.prompt, "Input (integer): ")
	var value int
	if _, err := fmt.Fscan(m.in, &value); err != nil {
		m.fault(errBadInput, inst)
	}

	switch inst.value {
	case "IN":
		name := m.popName(inst)
		if _, ok := m.scalars[name]; !ok {
			if _, isArray := m.arrays[name]; isArray {
				m.fault(fmt.Errorf("%w: %q", errReadWholeArray, name), inst)
			}
			m.fault(fmt.Errorf("%w: %q", errUnknownName, name), inst)
		}
		m.scalars[name] = value
	case "IN[]":
		index := m.popInt(inst)
		name, elems := m.popArray(inst)
		m.checkBounds(name, index, len(elems), inst)
		elems[index] = value
	default:
		m.fault(fmt.Errorf("%w: %q", errUnknownReadMode, inst.value), inst)
	}
}

func (m *machine) target(inst instruction) int {
	index, ok := m.labels[inst.value]
	if !ok {
		m.fault(fmt.Errorf("%w: %s", errUnknownLabel, inst.value), inst)
	}
	return index
}

func (m *machine) push(it operand) {
	m.stack = append(m.stack, it)
}

func (m *machine) pop(inst instruction) operand {
	if len(m.stack) == 0 {
		m.fault(errStackUnderflow, inst)
	}
	it := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return it
}

// popInt pops and resolves to an integer: a value item as-is, a name
// item through the scalar store.
func (m *machine) popInt(inst instruction) int {
	it := m.pop(inst)
	if !it.ref {
		return it.num
	}
	if value, ok := m.scalars[it.name]; ok {
		return value
	}
	if _, ok := m.arrays[it.name]; ok {
		m.fault(fmt.Errorf("%w: %q", errArrayAsValue, it.name), inst)
	}
	m.fault(fmt.Errorf("%w: %q", errUnknownName, it.name), inst)
	return 0
}

func (m *machine) popName(inst instruction) string {
	it := m.pop(inst)
	if !it.ref {
		m.fault(fmt.Errorf("%w, found %d", errExpectedName, it.num), inst)
	}
	return it.name
}

func (m *machine) popArray(inst instruction) (string, []int) {
	name := m.popName(inst)
	elems, ok := m.arrays[name]
	if !ok {
		m.fault(fmt.Errorf("%w: %q", errNotArray, name), inst)
	}
	return name, elems
}

func (m *machine) checkBounds(name string, index, size int, inst instruction) {
	if index < 0 || index >= size {
		m.fault(fmt.Errorf("%w: index %d, array %q has size %d", errIndexBounds, index, name, size), inst)
	}
}

func (m *machine) fault(err error, inst instruction) {
	m.state.fatalError(err, inst.line)
}
