package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

type csvLoader struct{}

func (csvLoader) CanLoad(filename string) bool {
	return hasExt(filename, ".csv", ".tsv", ".txt")
}

func (csvLoader) Load(path string, opt LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	br := bufio.NewReader(f)
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path, br)
	}
	header, body, total, err := ReadDelimited(br, delim, opt.MaxRows)
	if err != nil {
		return nil, err
	}
	return fromRecords(header, body, total, opt)
}

// ReadDelimited reads the header and up to maxRows data records (0 keeps all).
// total counts every non-blank data record in the source.
func ReadDelimited(r io.Reader, delim rune, maxRows int) (header []string, body [][]string, total int, err error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	for {
		rec, rerr := cr.Read()
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, nil, 0, fmt.Errorf("read csv: %w", rerr)
		}
		if header == nil {
			header = rec
			continue
		}
		if isBlankRecord(rec) {
			continue
		}
		total++
		if maxRows <= 0 || len(body) < maxRows {
			body = append(body, rec)
		}
	}
	return header, body, total, nil
}

// sniffDelimiter uses the extension first, then the most frequent candidate in
// the header line.
func sniffDelimiter(path string, br *bufio.Reader) rune {
	if hasExt(path, ".tsv") {
		return '\t'
	}
	line, _ := br.Peek(4096)
	head := string(line)
	if i := strings.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	best, bestN := ',', 0
	for _, c := range []rune{',', ';', '\t', '|'} {
		if n := strings.Count(head, string(c)); n > bestN {
			best, bestN = c, n
		}
	}
	return best
}
