// Package image reads and writes program images: comma separated lists of
// base-10 signed integers, optionally spread over multiple lines.
package image

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Parse reads a program image from r.
//
// Whitespace around fields is ignored, as are empty fields at the end of a
// line, so both "1,2,3" and "1, 2,\n3,\n" produce the same image.
func Parse(r io.Reader) ([]int64, error) {
	var out []int64

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	for line := 1; scanner.Scan(); line++ {
		fields := strings.Split(scanner.Text(), ",")

		for i, field := range fields {
			field = strings.TrimSpace(field)
			if len(field) == 0 {
				if i == len(fields)-1 {
					continue
				}
				return nil, errors.Errorf("line %d: field %d: empty value", line, i+1)
			}

			v, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: field %d", line, i+1)
			}

			out = append(out, v)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read image")
	}

	return out, nil
}

// ParseString is Parse for in-memory images.
func ParseString(s string) ([]int64, error) {
	return Parse(strings.NewReader(s))
}

// Load reads the program image stored in the given file.
func Load(file string) ([]int64, error) {
	fd, err := os.Open(file)
	if err != nil {
		return nil, err
	}

	defer fd.Close()

	prog, err := Parse(fd)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", file)
	}
	return prog, nil
}

// Format writes prog to w as a single comma separated line.
func Format(w io.Writer, prog []int64) error {
	bw := bufio.NewWriter(w)

	for i, v := range prog {
		if i > 0 {
			bw.WriteByte(',')
		}
		bw.WriteString(strconv.FormatInt(v, 10))
	}

	bw.WriteByte('\n')
	return bw.Flush()
}
