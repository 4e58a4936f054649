package nbt

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/StoreStation/blockwright/pkg/protoerr"
	"github.com/cockroachdb/errors"
)

// ParseSNBT parses a stringified-NBT document into a Tag using the
// default depth cap.
func ParseSNBT(s string) (Tag, error) {
	return ParseSNBTDepth(s, DefaultMaxDepth)
}

// ParseSNBTDepth is ParseSNBT with an explicit recursion depth cap.
// Recursion is used (rather than an explicit stack) per spec.md §9's
// allowance, since the cap is enforced at every compound/list descent.
func ParseSNBTDepth(s string, maxDepth int) (Tag, error) {
	p := &snbtParser{s: s, max: maxDepth}
	p.skipWS()
	t, err := p.parseValue()
	if err != nil {
		return Tag{}, err
	}
	p.skipWS()
	if p.pos != len(p.s) {
		return Tag{}, errors.Wrapf(protoerr.Malformed, "nbt: trailing garbage at byte %d", p.pos)
	}
	return t, nil
}

type snbtParser struct {
	s     string
	pos   int
	depth int
	max   int
}

func (p *snbtParser) skipWS() {
	for p.pos < len(p.s) {
		switch p.s[p.pos] {
		case ' ', '\t', '\r', '\n':
			p.pos++
		default:
			return
		}
	}
}

func (p *snbtParser) peek() (byte, bool) {
	if p.pos >= len(p.s) {
		return 0, false
	}
	return p.s[p.pos], true
}

func (p *snbtParser) parseValue() (Tag, error) {
	b, ok := p.peek()
	if !ok {
		return Tag{}, errors.Wrap(protoerr.Malformed, "nbt: unexpected end of input")
	}
	switch b {
	case '{':
		return p.parseCompound()
	case '[':
		return p.parseList()
	case '"', '\'':
		s, err := p.parseQuotedString(b)
		if err != nil {
			return Tag{}, err
		}
		return String(s), nil
	default:
		return p.parseBare()
	}
}

func (p *snbtParser) enter() error {
	p.depth++
	if p.depth > p.max {
		return protoerr.DepthExceeded
	}
	return nil
}

func (p *snbtParser) leave() { p.depth-- }

func (p *snbtParser) parseCompound() (Tag, error) {
	if err := p.enter(); err != nil {
		return Tag{}, err
	}
	defer p.leave()

	p.pos++ // '{'
	var entries []Entry
	p.skipWS()
	if b, ok := p.peek(); ok && b == '}' {
		p.pos++
		return NewCompound(entries...), nil
	}
	for {
		p.skipWS()
		key, err := p.parseKey()
		if err != nil {
			return Tag{}, err
		}
		p.skipWS()
		if b, ok := p.peek(); !ok || b != ':' {
			return Tag{}, errors.Wrap(protoerr.Malformed, "nbt: expected ':' after compound key")
		}
		p.pos++
		p.skipWS()
		val, err := p.parseValue()
		if err != nil {
			return Tag{}, err
		}
		entries = append(entries, Entry{Name: key, Tag: val})
		p.skipWS()
		b, ok := p.peek()
		if !ok {
			return Tag{}, errors.Wrap(protoerr.Malformed, "nbt: unterminated compound")
		}
		if b == ',' {
			p.pos++
			continue
		}
		if b == '}' {
			p.pos++
			break
		}
		return Tag{}, errors.Wrapf(protoerr.Malformed, "nbt: unexpected byte %q in compound", b)
	}
	return NewCompound(entries...), nil
}

func (p *snbtParser) parseKey() (string, error) {
	b, ok := p.peek()
	if !ok {
		return "", errors.Wrap(protoerr.Malformed, "nbt: expected key")
	}
	if b == '"' || b == '\'' {
		return p.parseQuotedString(b)
	}
	start := p.pos
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		if c == ':' || c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			break
		}
		p.pos++
	}
	if p.pos == start {
		return "", errors.Wrap(protoerr.Malformed, "nbt: empty key")
	}
	return p.s[start:p.pos], nil
}

func (p *snbtParser) parseList() (Tag, error) {
	if err := p.enter(); err != nil {
		return Tag{}, err
	}
	defer p.leave()

	p.pos++ // '['
	if typed, kind, ok := p.peekTypedArrayPrefix(); ok {
		p.pos += len(typed)
		return p.parseTypedArray(kind)
	}
	p.skipWS()
	var elems []Tag
	var listKind Kind = KindEnd
	if b, ok := p.peek(); ok && b == ']' {
		p.pos++
		return Tag{Kind: KindList, ListKind: KindEnd}, nil
	}
	for {
		p.skipWS()
		v, err := p.parseValue()
		if err != nil {
			return Tag{}, err
		}
		if len(elems) == 0 {
			listKind = v.Kind
		}
		elems = append(elems, v)
		p.skipWS()
		b, ok := p.peek()
		if !ok {
			return Tag{}, errors.Wrap(protoerr.Malformed, "nbt: unterminated list")
		}
		if b == ',' {
			p.pos++
			continue
		}
		if b == ']' {
			p.pos++
			break
		}
		return Tag{}, errors.Wrapf(protoerr.Malformed, "nbt: unexpected byte %q in list", b)
	}
	return Tag{Kind: KindList, ListKind: listKind, List: elems}, nil
}

// peekTypedArrayPrefix recognizes "B;", "I;", "L;" immediately following
// the already-consumed '['.
func (p *snbtParser) peekTypedArrayPrefix() (prefix string, kind Kind, ok bool) {
	if p.pos+1 >= len(p.s) || p.s[p.pos+1] != ';' {
		return "", 0, false
	}
	switch p.s[p.pos] {
	case 'B':
		return "B;", KindByteArray, true
	case 'I':
		return "I;", KindIntArray, true
	case 'L':
		return "L;", KindLongArray, true
	}
	return "", 0, false
}

func (p *snbtParser) parseTypedArray(kind Kind) (Tag, error) {
	p.skipWS()
	var bytes8 []int8
	var ints32 []int32
	var longs64 []int64
	if b, ok := p.peek(); ok && b == ']' {
		p.pos++
		switch kind {
		case KindByteArray:
			return ByteArray(nil), nil
		case KindIntArray:
			return IntArray(nil), nil
		default:
			return LongArray(nil), nil
		}
	}
	for {
		p.skipWS()
		n, _, _, err := p.parseNumberLiteral()
		if err != nil {
			return Tag{}, err
		}
		switch kind {
		case KindByteArray:
			bytes8 = append(bytes8, int8(n))
		case KindIntArray:
			ints32 = append(ints32, int32(n))
		default:
			longs64 = append(longs64, n)
		}
		p.skipWS()
		b, ok := p.peek()
		if !ok {
			return Tag{}, errors.Wrap(protoerr.Malformed, "nbt: unterminated typed array")
		}
		if b == ',' {
			p.pos++
			continue
		}
		if b == ']' {
			p.pos++
			break
		}
		return Tag{}, errors.Wrapf(protoerr.Malformed, "nbt: unexpected byte %q in typed array", b)
	}
	switch kind {
	case KindByteArray:
		return ByteArray(bytes8), nil
	case KindIntArray:
		return IntArray(ints32), nil
	default:
		return LongArray(longs64), nil
	}
}

func (p *snbtParser) parseQuotedString(quote byte) (string, error) {
	p.pos++ // opening quote
	var sb strings.Builder
	for {
		if p.pos >= len(p.s) {
			return "", errors.Wrap(protoerr.Malformed, "nbt: unterminated string")
		}
		c := p.s[p.pos]
		if c == quote {
			p.pos++
			return sb.String(), nil
		}
		if c == '\\' {
			p.pos++
			if p.pos >= len(p.s) {
				return "", errors.Wrap(protoerr.Malformed, "nbt: dangling escape")
			}
			r, err := p.parseEscape()
			if err != nil {
				return "", err
			}
			sb.WriteRune(r)
			continue
		}
		sb.WriteByte(c)
		p.pos++
	}
}

func (p *snbtParser) parseEscape() (rune, error) {
	c := p.s[p.pos]
	p.pos++
	switch c {
	case '\\':
		return '\\', nil
	case '\'':
		return '\'', nil
	case '"':
		return '"', nil
	case 'b':
		return '\b', nil
	case 't':
		return '\t', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 'f':
		return '\f', nil
	case 'x':
		return p.parseHexEscape(2)
	case 'u':
		return p.parseHexEscape(4)
	case 'U':
		return p.parseHexEscape(8)
	case 'N':
		return p.parseNamedEscape()
	default:
		return 0, errors.Wrapf(protoerr.Malformed, "nbt: unknown escape \\%c", c)
	}
}

func (p *snbtParser) parseHexEscape(digits int) (rune, error) {
	if p.pos+digits > len(p.s) {
		return 0, errors.Wrap(protoerr.Malformed, "nbt: truncated hex escape")
	}
	hex := p.s[p.pos : p.pos+digits]
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, errors.Wrap(protoerr.Malformed, "nbt: invalid hex escape")
	}
	p.pos += digits
	return rune(v), nil
}

// namedEscapes covers the common Unicode names used in practice; the
// full Unicode name database is not embedded (documented in DESIGN.md).
var namedEscapes = map[string]rune{
	"LATIN SMALL LETTER A": 'a',
	"DEGREE SIGN":          '°',
	"SECTION SIGN":         '§',
	"BULLET":               '•',
	"EM DASH":              '—',
	"EN DASH":              '–',
	"HEAVY BLACK HEART":    '❤',
}

func (p *snbtParser) parseNamedEscape() (rune, error) {
	if p.pos >= len(p.s) || p.s[p.pos] != '{' {
		return 0, errors.Wrap(protoerr.Malformed, "nbt: expected '{' after \\N")
	}
	p.pos++
	start := p.pos
	for p.pos < len(p.s) && p.s[p.pos] != '}' {
		p.pos++
	}
	if p.pos >= len(p.s) {
		return 0, errors.Wrap(protoerr.Malformed, "nbt: unterminated \\N{...}")
	}
	name := p.s[start:p.pos]
	p.pos++ // '}'
	if r, ok := namedEscapes[strings.ToUpper(name)]; ok {
		return r, nil
	}
	return 0, errors.Wrapf(protoerr.Malformed, "nbt: unknown unicode name %q", name)
}

// parseBare parses an unquoted token: a boolean literal or a number with
// an optional type suffix. Scanning stops at whitespace or a structural
// delimiter.
func (p *snbtParser) parseBare() (Tag, error) {
	start := p.pos
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		if c == ',' || c == ']' || c == '}' || c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			break
		}
		p.pos++
	}
	tok := p.s[start:p.pos]
	if tok == "" {
		return Tag{}, errors.Wrap(protoerr.Malformed, "nbt: empty value")
	}
	if strings.EqualFold(tok, "true") {
		return Bool(true), nil
	}
	if strings.EqualFold(tok, "false") {
		return Bool(false), nil
	}
	return parseNumberToken(tok)
}

// parseNumberLiteral scans a bare numeric literal starting at the
// current position (used inside typed arrays, where bools aren't valid)
// and returns its integer value plus whether it had a fractional/exponent
// part (always false here; typed arrays are integer-only per spec).
func (p *snbtParser) parseNumberLiteral() (value int64, isFloat bool, suffix byte, err error) {
	start := p.pos
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		if c == ',' || c == ']' || c == '}' || unicode.IsSpace(rune(c)) {
			break
		}
		p.pos++
	}
	tok := p.s[start:p.pos]
	t, err := parseNumberToken(tok)
	if err != nil {
		return 0, false, 0, err
	}
	switch t.Kind {
	case KindByte:
		return int64(t.Byte), false, 0, nil
	case KindShort:
		return int64(t.Short), false, 0, nil
	case KindInt:
		return int64(t.Int), false, 0, nil
	case KindLong:
		return t.Long, false, 0, nil
	default:
		return 0, false, 0, errors.Wrapf(protoerr.Malformed, "nbt: expected integer literal, got %q", tok)
	}
}

// parseNumberToken classifies and parses a bare numeric token per
// spec.md §4.3: optional sign, digits, optional .fraction, optional
// eE<signed-exponent>, optional type suffix (b/s/i/l/f/d, case
// insensitive, optionally prefixed by u/s which is accepted and
// discarded — NBT has no distinct unsigned tag kinds), and 0x/0b radix
// prefixes for pure integer literals.
func parseNumberToken(tok string) (Tag, error) {
	if tok == "" {
		return Tag{}, errors.Wrap(protoerr.Malformed, "nbt: empty numeric token")
	}
	body := tok
	var suffix byte
	last := body[len(body)-1]
	switch last {
	case 'b', 'B', 's', 'S', 'i', 'I', 'l', 'L', 'f', 'F', 'd', 'D':
		// Don't treat a trailing hex digit (b/B/d/D/f/F appear in hex
		// literals) as a suffix when the token uses a 0x prefix.
		if !strings.HasPrefix(strings.ToLower(body), "0x") {
			suffix = lowerSuffix(last)
			body = body[:len(body)-1]
			if len(body) > 0 {
				switch body[len(body)-1] {
				case 'u', 'U', 's', 'S':
					body = body[:len(body)-1]
				}
			}
		}
	}
	if body == "" {
		return Tag{}, errors.Wrapf(protoerr.Malformed, "nbt: numeric token %q has no digits", tok)
	}

	lower := strings.ToLower(body)
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "-0x") {
		v, err := strconv.ParseInt(strings.Replace(lower, "0x", "", 1), 16, 64)
		if err != nil {
			return Tag{}, errors.Wrapf(protoerr.Malformed, "nbt: invalid hex literal %q", tok)
		}
		return applySuffix(v, suffix, true)
	}
	if strings.HasPrefix(lower, "0b") || strings.HasPrefix(lower, "-0b") {
		neg := strings.HasPrefix(lower, "-")
		digits := strings.TrimPrefix(strings.TrimPrefix(lower, "-"), "0b")
		v, err := strconv.ParseInt(digits, 2, 64)
		if err != nil {
			return Tag{}, errors.Wrapf(protoerr.Malformed, "nbt: invalid binary literal %q", tok)
		}
		if neg {
			v = -v
		}
		return applySuffix(v, suffix, true)
	}

	isFloat := strings.ContainsAny(body, ".eE")
	if isFloat {
		f, err := strconv.ParseFloat(body, 64)
		if err != nil {
			return Tag{}, errors.Wrapf(protoerr.Malformed, "nbt: invalid numeric literal %q", tok)
		}
		switch suffix {
		case 'f':
			return Float(float32(f)), nil
		case 'd', 0:
			return Double(f), nil
		default:
			return Double(f), nil
		}
	}

	v, err := strconv.ParseInt(body, 10, 64)
	if err != nil {
		return Tag{}, errors.Wrapf(protoerr.Malformed, "nbt: invalid numeric literal %q", tok)
	}
	return applySuffix(v, suffix, true)
}

func lowerSuffix(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func applySuffix(v int64, suffix byte, bareIsInt bool) (Tag, error) {
	switch suffix {
	case 'b':
		return Byte(int8(v)), nil
	case 's':
		return Short(int16(v)), nil
	case 'i':
		return Int(int32(v)), nil
	case 'l':
		return Long(v), nil
	case 'f':
		return Float(float32(v)), nil
	case 'd':
		return Double(float64(v)), nil
	case 0:
		if bareIsInt {
			return Int(int32(v)), nil
		}
		return Double(float64(v)), nil
	default:
		return Tag{}, errors.Wrapf(protoerr.Malformed, "nbt: unknown numeric suffix %q", suffix)
	}
}

// EncodeSNBT pretty-prints t with 4-space indent for compounds and
// ", " list separators, per spec.md §4.3.
func EncodeSNBT(t Tag) string {
	var sb strings.Builder
	writeSNBT(&sb, t, 0)
	return sb.String()
}

func writeSNBT(sb *strings.Builder, t Tag, indent int) {
	switch t.Kind {
	case KindByte:
		fmt.Fprintf(sb, "%db", t.Byte)
	case KindShort:
		fmt.Fprintf(sb, "%ds", t.Short)
	case KindInt:
		fmt.Fprintf(sb, "%d", t.Int)
	case KindLong:
		fmt.Fprintf(sb, "%dl", t.Long)
	case KindFloat:
		fmt.Fprintf(sb, "%gf", t.Float)
	case KindDouble:
		fmt.Fprintf(sb, "%gd", t.Double)
	case KindString:
		writeQuotedSNBT(sb, t.Str)
	case KindByteArray:
		sb.WriteString("[B;")
		for i, v := range t.ByteArray {
			if i > 0 {
				sb.WriteString(", ")
			} else {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(sb, "%db", v)
		}
		sb.WriteByte(']')
	case KindIntArray:
		sb.WriteString("[I;")
		for i, v := range t.IntArray {
			if i > 0 {
				sb.WriteString(", ")
			} else {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(sb, "%d", v)
		}
		sb.WriteByte(']')
	case KindLongArray:
		sb.WriteString("[L;")
		for i, v := range t.LongArray {
			if i > 0 {
				sb.WriteString(", ")
			} else {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(sb, "%dl", v)
		}
		sb.WriteByte(']')
	case KindList:
		sb.WriteByte('[')
		for i, elem := range t.List {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeSNBT(sb, elem, indent)
		}
		sb.WriteByte(']')
	case KindCompound:
		if len(t.Compound) == 0 {
			sb.WriteString("{}")
			return
		}
		sb.WriteString("{\n")
		inner := indent + 1
		for i, e := range t.Compound {
			sb.WriteString(strings.Repeat("    ", inner))
			writeCompoundKey(sb, e.Name)
			sb.WriteString(": ")
			writeSNBT(sb, e.Tag, inner)
			if i < len(t.Compound)-1 {
				sb.WriteByte(',')
			}
			sb.WriteByte('\n')
		}
		sb.WriteString(strings.Repeat("    ", indent))
		sb.WriteByte('}')
	}
}

func writeCompoundKey(sb *strings.Builder, key string) {
	if isBareKey(key) {
		sb.WriteString(key)
		return
	}
	writeQuotedSNBT(sb, key)
}

func isBareKey(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		if r == ':' || unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func writeQuotedSNBT(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
}
