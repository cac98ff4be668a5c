package circuit

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrQASM wraps all parse failures.
var ErrQASM = errors.New("circuit: invalid qasm")

var qasmGates = map[string]Gate{
	"id": I, "x": X, "y": Y, "z": Z, "h": H,
	"s": S, "sdg": Sdg, "t": T, "tdg": Tdg,
	"sx": SX, "sxdg": SXdg,
	"rx": RX, "ry": RY, "rz": RZ, "p": Phase, "u1": Phase,
	"swap": SWAP,
}

// controlled gate names and how many leading arguments are controls
var qasmControlled = map[string]struct {
	gate     Gate
	controls int
}{
	"cx":  {X, 1},
	"cy":  {Y, 1},
	"cz":  {Z, 1},
	"ch":  {H, 1},
	"crz": {RZ, 1},
	"cp":  {Phase, 1},
	"ccx": {X, 2},
}

// ParseQASM parses the subset of OpenQASM 2.0 that the checker's gate set
// covers: qreg/creg declarations, the gates listed above, measure and
// barrier statements, and line comments.
func ParseQASM(src string) (*Circuit, error) {
	regs := make(map[string]int) // register name -> qubit offset
	nqubits := 0
	var ops []Operation

	for _, line := range strings.Split(src, "\n") {
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		for _, stmt := range strings.Split(line, ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			head := stmt
			if i := strings.IndexAny(stmt, " \t("); i >= 0 {
				head = stmt[:i]
			}
			switch head {
			case "OPENQASM", "include", "creg", "barrier":
				continue
			case "qreg":
				name, size, err := parseDecl(stmt)
				if err != nil {
					return nil, err
				}
				regs[name] = nqubits
				nqubits += size
			case "measure":
				rest := strings.TrimSpace(strings.TrimPrefix(stmt, "measure"))
				if i := strings.Index(rest, "->"); i >= 0 {
					rest = strings.TrimSpace(rest[:i])
				}
				q, err := parseQubit(rest, regs)
				if err != nil {
					return nil, err
				}
				ops = append(ops, Operation{Gate: Measure, Targets: []int{q}})
			default:
				op, err := parseGate(stmt, head, regs)
				if err != nil {
					return nil, err
				}
				ops = append(ops, op)
			}
		}
	}

	if nqubits == 0 {
		return nil, errors.Wrap(ErrQASM, "no qreg declared")
	}
	c := New(nqubits)
	for _, op := range ops {
		if err := c.Apply(op); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func parseDecl(stmt string) (string, int, error) {
	rest := strings.TrimSpace(stmt[strings.IndexAny(stmt, " \t"):])
	open := strings.Index(rest, "[")
	close := strings.Index(rest, "]")
	if open < 0 || close < open {
		return "", 0, errors.Wrapf(ErrQASM, "malformed register declaration %q", stmt)
	}
	size, err := strconv.Atoi(rest[open+1 : close])
	if err != nil || size <= 0 {
		return "", 0, errors.Wrapf(ErrQASM, "malformed register size in %q", stmt)
	}
	return strings.TrimSpace(rest[:open]), size, nil
}

func parseQubit(ref string, regs map[string]int) (int, error) {
	open := strings.Index(ref, "[")
	close := strings.Index(ref, "]")
	if open < 0 || close < open {
		return 0, errors.Wrapf(ErrQASM, "malformed qubit reference %q", ref)
	}
	base, ok := regs[strings.TrimSpace(ref[:open])]
	if !ok {
		return 0, errors.Wrapf(ErrQASM, "unknown register in %q", ref)
	}
	idx, err := strconv.Atoi(ref[open+1 : close])
	if err != nil || idx < 0 {
		return 0, errors.Wrapf(ErrQASM, "malformed qubit index in %q", ref)
	}
	return base + idx, nil
}

func parseGate(stmt, head string, regs map[string]int) (Operation, error) {
	var params []float64
	rest := strings.TrimSpace(stmt[len(head):])
	if strings.HasPrefix(rest, "(") {
		close := strings.Index(rest, ")")
		if close < 0 {
			return Operation{}, errors.Wrapf(ErrQASM, "unterminated parameter list in %q", stmt)
		}
		for _, expr := range strings.Split(rest[1:close], ",") {
			v, err := evalParam(expr)
			if err != nil {
				return Operation{}, errors.Wrapf(err, "in %q", stmt)
			}
			params = append(params, v)
		}
		rest = strings.TrimSpace(rest[close+1:])
	}

	var qubits []int
	for _, ref := range strings.Split(rest, ",") {
		q, err := parseQubit(strings.TrimSpace(ref), regs)
		if err != nil {
			return Operation{}, err
		}
		qubits = append(qubits, q)
	}

	if g, ok := qasmGates[head]; ok {
		want := 1
		if g == SWAP {
			want = 2
		}
		if len(qubits) != want {
			return Operation{}, errors.Wrapf(ErrQASM, "%s expects %d qubits, got %d", head, want, len(qubits))
		}
		return Operation{Gate: g, Targets: qubits, Params: params}, nil
	}
	if cg, ok := qasmControlled[head]; ok {
		if len(qubits) != cg.controls+1 {
			return Operation{}, errors.Wrapf(ErrQASM, "%s expects %d qubits, got %d", head, cg.controls+1, len(qubits))
		}
		return Operation{
			Gate:     cg.gate,
			Targets:  qubits[cg.controls:],
			Controls: qubits[:cg.controls],
			Params:   params,
		}, nil
	}
	return Operation{}, errors.Wrapf(ErrQASM, "unsupported gate %q", head)
}

// evalParam evaluates the parameter expressions that occur in practice:
// decimal literals and products/quotients involving pi, e.g. "pi/2", "-pi",
// "3*pi/4".
func evalParam(expr string) (float64, error) {
	expr = strings.ReplaceAll(expr, " ", "")
	if expr == "" {
		return 0, errors.Wrap(ErrQASM, "empty parameter")
	}
	sign := 1.0
	for strings.HasPrefix(expr, "-") || strings.HasPrefix(expr, "+") {
		if expr[0] == '-' {
			sign = -sign
		}
		expr = expr[1:]
	}
	parts := strings.Split(expr, "/")
	v, err := evalProduct(parts[0])
	if err != nil {
		return 0, err
	}
	for _, d := range parts[1:] {
		dv, err := evalProduct(d)
		if err != nil {
			return 0, err
		}
		if dv == 0 {
			return 0, errors.Wrap(ErrQASM, "division by zero in parameter")
		}
		v /= dv
	}
	return sign * v, nil
}

func evalProduct(expr string) (float64, error) {
	v := 1.0
	for _, f := range strings.Split(expr, "*") {
		if f == "pi" {
			v *= math.Pi
			continue
		}
		fv, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return 0, errors.Wrapf(ErrQASM, "malformed parameter %q", expr)
		}
		v *= fv
	}
	return v, nil
}
