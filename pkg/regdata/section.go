// Package regdata parses the build-time registry data file format
// described in spec.md §4.2/§6.3: a line-oriented text file whose
// sections are introduced by `;<name>;<repr>;<hex-size>` headers, body
// lines holding hex values (optionally space-separated, or run-length
// shorthand `~<hex-count>:<hex-value>`), consumed in a fixed section
// order with fatal-on-mismatch semantics.
//
// Grounded on the teacher's pkg/world generator data tables (flat,
// index-addressed arrays built once at startup) generalized to a real
// text-format parser, since the teacher has no build-time compiler of
// its own to imitate directly.
package regdata

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// ReprString marks a section whose body lines are literal text entries
// (registry/tag names) rather than hex-encoded numeric values.
const ReprString = "str"

// Section is one parsed `;name;repr;hex-size` block together with its
// fully-expanded body.
type Section struct {
	Name  string
	Repr  string
	Count uint64

	// Values holds the expanded numeric body when Repr != ReprString.
	Values []uint64
	// Strs holds the body lines verbatim when Repr == ReprString.
	Strs []string
}

// Parse reads sections off r in the exact order names given by order.
// A header naming anything else, a body whose expanded length does not
// equal the declared hex-size, or non-blank content left over after the
// last expected section is fatal, matching spec.md §4.2's "any
// section-header mismatch, size mismatch, or trailing garbage is fatal"
// contract.
func Parse(r io.Reader, order []string) ([]Section, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	sections := make([]Section, 0, len(order))
	line, ok, err := nextNonBlank(sc)
	if err != nil {
		return nil, err
	}

	for _, want := range order {
		if !ok {
			return nil, errors.Newf("regdata: missing section %q", want)
		}
		sec, nextLine, nextOK, err := parseOneSection(sc, line, want)
		if err != nil {
			return nil, err
		}
		sections = append(sections, sec)
		line, ok = nextLine, nextOK
	}

	if ok {
		return nil, errors.Newf("regdata: trailing garbage after last section: %q", line)
	}
	return sections, nil
}

func nextNonBlank(sc *bufio.Scanner) (string, bool, error) {
	for sc.Scan() {
		l := strings.TrimSpace(sc.Text())
		if l == "" {
			continue
		}
		return l, true, nil
	}
	if err := sc.Err(); err != nil {
		return "", false, errors.Wrap(err, "regdata: scan")
	}
	return "", false, nil
}

// parseOneSection consumes the header at headerLine plus exactly enough
// body lines to satisfy the declared count, returning the first
// unconsumed non-blank line (the next header, or "" at EOF).
func parseOneSection(sc *bufio.Scanner, headerLine, want string) (Section, string, bool, error) {
	name, repr, count, err := parseHeader(headerLine)
	if err != nil {
		return Section{}, "", false, err
	}
	if name != want {
		return Section{}, "", false, errors.Newf("regdata: expected section %q, got %q", want, name)
	}

	sec := Section{Name: name, Repr: repr, Count: count}

	for uint64(len(sec.Values))+uint64(len(sec.Strs)) < count {
		line, ok, err := nextNonBlank(sc)
		if err != nil {
			return Section{}, "", false, err
		}
		if !ok {
			return Section{}, "", false, errors.Newf("regdata: section %q truncated: want %d entries, got %d", name, count, len(sec.Values)+len(sec.Strs))
		}
		if strings.HasPrefix(line, ";") {
			return Section{}, "", false, errors.Newf("regdata: section %q truncated before next header: want %d entries, got %d", name, count, len(sec.Values)+len(sec.Strs))
		}
		if repr == ReprString {
			sec.Strs = append(sec.Strs, line)
			continue
		}
		vals, err := parseBodyLine(line)
		if err != nil {
			return Section{}, "", false, errors.Wrapf(err, "regdata: section %q", name)
		}
		sec.Values = append(sec.Values, vals...)
	}

	got := uint64(len(sec.Values)) + uint64(len(sec.Strs))
	if got != count {
		return Section{}, "", false, errors.Newf("regdata: section %q overflowed: want %d entries, got %d", name, count, got)
	}

	next, ok, err := nextNonBlank(sc)
	if err != nil {
		return Section{}, "", false, err
	}
	return sec, next, ok, nil
}

func parseHeader(line string) (name, repr string, count uint64, err error) {
	if !strings.HasPrefix(line, ";") {
		return "", "", 0, errors.Newf("regdata: expected section header, got %q", line)
	}
	fields := strings.Split(line, ";")
	if len(fields) != 4 || fields[0] != "" {
		return "", "", 0, errors.Newf("regdata: malformed section header %q", line)
	}
	name, repr, hexSize := fields[1], fields[2], fields[3]
	count, err = strconv.ParseUint(hexSize, 16, 64)
	if err != nil {
		return "", "", 0, errors.Wrapf(err, "regdata: malformed hex-size in header %q", line)
	}
	return name, repr, count, nil
}

// parseBodyLine expands one body line into its constituent values: a
// run-length line `~<hex-count>:<hex-value>` repeats one value count
// times; otherwise every whitespace-separated token is one hex value.
func parseBodyLine(line string) ([]uint64, error) {
	if strings.HasPrefix(line, "~") {
		parts := strings.SplitN(line[1:], ":", 2)
		if len(parts) != 2 {
			return nil, errors.Newf("regdata: malformed run-length line %q", line)
		}
		count, err := strconv.ParseUint(parts[0], 16, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "regdata: malformed run-length count in %q", line)
		}
		value, err := strconv.ParseUint(parts[1], 16, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "regdata: malformed run-length value in %q", line)
		}
		out := make([]uint64, count)
		for i := range out {
			out[i] = value
		}
		return out, nil
	}

	tokens := strings.Fields(line)
	out := make([]uint64, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.ParseUint(tok, 16, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "regdata: malformed hex value %q", tok)
		}
		out[i] = v
	}
	return out, nil
}

// Encode writes sections in the exact grammar Parse reads, one value
// (or string) per body line, in order. It is Parse's inverse and backs
// cmd/regdata-gen: the one supported way to regenerate the embedded
// data file from a source dataset.
func Encode(w io.Writer, sections []Section) error {
	bw := bufio.NewWriter(w)
	for _, sec := range sections {
		count := sec.Count
		if count == 0 {
			count = uint64(len(sec.Values)) + uint64(len(sec.Strs))
		}
		if _, err := fmt.Fprintf(bw, ";%s;%s;%x\n", sec.Name, sec.Repr, count); err != nil {
			return errors.Wrapf(err, "regdata: write header %q", sec.Name)
		}
		if sec.Repr == ReprString {
			for _, s := range sec.Strs {
				if _, err := fmt.Fprintln(bw, s); err != nil {
					return errors.Wrapf(err, "regdata: write section %q", sec.Name)
				}
			}
			continue
		}
		for _, v := range sec.Values {
			if _, err := fmt.Fprintf(bw, "%x\n", v); err != nil {
				return errors.Wrapf(err, "regdata: write section %q", sec.Name)
			}
		}
	}
	return bw.Flush()
}
