package solver

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/ntgraph/pkg/errors"
)

// parsePlain reads Graphviz "plain" output:
//
//	graph scale width height
//	node name x y width height label style shape color fillcolor
//	edge tail head n x1 y1 ... style color
//	stop
//
// Only node lines are used; y and height are taken as the placement. Names
// are translated back through ids; unknown names are kept verbatim so the
// caller can report them.
func parsePlain(r io.Reader, ids map[string]string) (Solution, error) {
	sol := make(Solution)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || fields[0] != "node" {
			continue
		}
		if len(fields) < 6 {
			return nil, errors.New(errors.ErrCodeSolverFailed, "plain output line %d: truncated node line", line)
		}
		y, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeSolverFailed, err, "plain output line %d: node y", line)
		}
		h, err := strconv.ParseFloat(fields[5], 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeSolverFailed, err, "plain output line %d: node height", line)
		}

		name := strings.Trim(fields[1], `"`)
		id, ok := ids[name]
		if !ok {
			id = name
		}
		sol[id] = Placement{Y: y, Extent: h}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSolverFailed, err, "read plain output")
	}
	return sol, nil
}
