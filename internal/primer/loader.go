package primer

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Read parses whitespace-separated primer lines (id forward reverse [min max])
// from r; name prefixes error messages.
func Read(r io.Reader, name string) ([]Pair, error) {
	var list []Pair
	sc := bufio.NewScanner(r)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		f := strings.Fields(line)
		if len(f) < 3 || len(f) == 4 || len(f) > 5 {
			return nil, fmt.Errorf("%s:%d bad field count", name, ln)
		}
		p := Pair{
			ID:      f[0],
			Forward: strings.ToUpper(f[1]),
			Reverse: strings.ToUpper(f[2]),
		}
		if len(f) == 5 {
			var err error
			if p.MinProduct, err = strconv.Atoi(f[3]); err != nil {
				return nil, fmt.Errorf("%s:%d bad min product %q", name, ln, f[3])
			}
			if p.MaxProduct, err = strconv.Atoi(f[4]); err != nil {
				return nil, fmt.Errorf("%s:%d bad max product %q", name, ln, f[4])
			}
		}
		list = append(list, p)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// WriteTSV writes one tab-separated line per pair, readable by Read.
func WriteTSV(w io.Writer, list []Pair) error {
	bw := bufio.NewWriter(w)
	for _, p := range list {
		if _, err := fmt.Fprintf(bw, "%s\t%s\t%s\t%d\t%d\n", p.ID, p.Forward, p.Reverse, p.MinProduct, p.MaxProduct); err != nil {
			return err
		}
	}
	return bw.Flush()
}
