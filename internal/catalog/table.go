package catalog

import (
	"bufio"
	"io"
	"strings"
)

// Required columns per input table.
var (
	MappingColumns  = []string{"Primer", "Reference", "Genotype", "Start", "End"}
	MetadataColumns = []string{"Primer", "Sequence", "Tm_min", "Tm_max"}
)

// Optional columns.
const (
	colOrientation = "Orientation"
	colGC          = "GC_Content"
	colHomopolymer = "Max_Homopolymer"
)

type row struct {
	line  int
	cells []string
}

// table is a parsed tab-separated file with a header line.
type table struct {
	name   string
	header map[string]int // lower-cased column name -> index
	rows   []row
}

// normHeader also drops a UTF-8 byte order mark left by spreadsheet exports.
func normHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, "\ufeff")))
}

// readTable reads a TSV with a header. Blank lines and '#' comments are skipped.
func readTable(r io.Reader, name string, required []string) (*table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), 4<<20)

	t := &table{name: name}
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cells := strings.Split(line, "\t")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		if t.header == nil {
			t.header = make(map[string]int, len(cells))
			for i, h := range cells {
				k := normHeader(h)
				if _, dup := t.header[k]; !dup {
					t.header[k] = i
				}
			}
			continue
		}
		t.rows = append(t.rows, row{line: ln, cells: cells})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	for _, c := range required {
		if _, ok := t.header[normHeader(c)]; !ok {
			return nil, &MissingFieldError{Table: name, Field: c}
		}
	}
	return t, nil
}

// col returns the index of a column, or -1.
func (t *table) col(name string) int {
	if i, ok := t.header[normHeader(name)]; ok {
		return i
	}
	return -1
}

// get returns the cell at column idx, and false when the row is too short.
func (r row) get(idx int) (string, bool) {
	if idx < 0 || idx >= len(r.cells) {
		return "", false
	}
	return r.cells[idx], true
}
