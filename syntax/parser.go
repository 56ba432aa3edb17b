// Package syntax implements the pattern lexer and recursive-descent parser,
// turning pattern text into an hir.Hir tree.
package syntax

import (
	"errors"
	"math"

	"github.com/ctre-go/ctre/charset"
	"github.com/ctre-go/ctre/hir"
	"github.com/ctre-go/ctre/rangeset"
	"github.com/ctre-go/ctre/utf8range"
)

// ErrMaxRecursionDepth is returned when nested groups exceed
// Config.MaxRecursionDepth.
var ErrMaxRecursionDepth = errors.New("syntax: pattern nesting exceeds the configured maximum recursion depth")

// Config tunes parsing limits and the pipeline's open-question behaviors.
type Config struct {
	// MaxRecursionDepth bounds nested group depth. Zero means unlimited.
	MaxRecursionDepth int
	// ZeroRepetitionIsError makes "{0,0}" applied to a non-empty atom a
	// parse error instead of silently collapsing to an empty match.
	ZeroRepetitionIsError bool
}

// Parser parses pattern text into an HIR tree, encoding literal runs and
// class ranges through the given Encoder.
type Parser struct {
	encoder utf8range.Encoder
	cfg     Config
}

// NewParser returns a Parser that encodes through encoder according to cfg.
func NewParser(encoder utf8range.Encoder, cfg Config) *Parser {
	return &Parser{encoder: encoder, cfg: cfg}
}

// Parse parses pattern into an HIR tree, or an *Error describing the first
// failure encountered.
func (p *Parser) Parse(pattern string) (hir.Hir, error) {
	impl := &parserImpl{lexer: NewLexer(pattern), encoder: p.encoder, cfg: p.cfg}
	h, err := impl.parseDisjunct()
	if err != nil {
		return nil, err
	}
	if tok := impl.lexer.Peek(); tok.Kind != TokEOF {
		return nil, unexpected(impl.lexer.Slice(tok.Start, tok.End), tok.Start, tok.End, "end of input")
	}
	return h, nil
}

type parserImpl struct {
	lexer   *Lexer
	encoder utf8range.Encoder
	cfg     Config
	depth   int
}

func (p *parserImpl) enterGroup() error {
	p.depth++
	if p.cfg.MaxRecursionDepth > 0 && p.depth > p.cfg.MaxRecursionDepth {
		return ErrMaxRecursionDepth
	}
	return nil
}

func (p *parserImpl) exitGroup() {
	p.depth--
}

// parseDisjunct parses: disjunct = concat ("|" concat)*
func (p *parserImpl) parseDisjunct() (hir.Hir, error) {
	var alts []hir.Hir
	h, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	alts = append(alts, h)
	for {
		tok := p.lexer.Peek()
		if tok.Kind != TokPipe {
			break
		}
		p.lexer.ConsumePeeked()
		h, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		alts = append(alts, h)
	}
	if len(alts) == 1 {
		return alts[0], nil
	}
	return hir.NewDisjunct(alts), nil
}

// parseConcat parses: concat = item*
func (p *parserImpl) parseConcat() (hir.Hir, error) {
	var items []hir.Hir
	for {
		h, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		if h == nil {
			break
		}
		items = append(items, h)
	}
	concat := hir.NewConcat(items)
	if len(concat.Items) == 1 {
		return concat.Items[0], nil
	}
	return concat, nil
}

// parseItem parses: item = atom postfix?
// atom = group | named_group | class | term
//
// A bare term is parsed one codepoint at a time rather than as a greedy
// run: the grammar's atom production is exactly one term, so a postfix
// quantifier binds to that single codepoint alone (e.g. "ab*" quantifies
// only "b"). hir.NewConcat coalesces adjacent single-codepoint literals
// back into one Literal node, which is where the byte-by-byte
// accumulation the HIR model describes actually happens.
func (p *parserImpl) parseItem() (hir.Hir, error) {
	tok := p.lexer.Peek()
	var h hir.Hir
	var err error
	switch tok.Kind {
	case TokLParen:
		h, err = p.parseGroup()
	case TokLParenQuestion:
		h, err = p.parseGroupQuestion()
	case TokDot, TokLSquare, TokLSquareCaret:
		h, err = p.parseClass()
	default:
		cp, start, end, ok, termErr := p.parseTerm()
		if termErr != nil {
			return nil, termErr
		}
		if !ok {
			return nil, nil
		}
		bytes, encErr := p.encoder.EncodeCodepoint(cp)
		if encErr != nil {
			return nil, encoderError(encErr, start, end)
		}
		h = hir.NewLiteral(bytes)
	}
	if err != nil {
		return nil, err
	}

	min, max, hasMax, present, spanStart, spanEnd, postErr := p.parsePostfix()
	if postErr != nil {
		return nil, postErr
	}
	if !present {
		return h, nil
	}
	if min == 0 && hasMax && max == 0 && p.cfg.ZeroRepetitionIsError {
		return nil, zeroRepetition(spanStart, spanEnd)
	}
	return hir.NewRepeat(h, min, max, hasMax), nil
}

// parsePostfix parses: postfix = "*" | "+" | "?" | "{" decimal ("," decimal?)? "}"
func (p *parserImpl) parsePostfix() (min, max int, hasMax, present bool, spanStart, spanEnd int, err error) {
	tok := p.lexer.Peek()
	switch tok.Kind {
	case TokStar:
		p.lexer.ConsumePeeked()
		return 0, 0, false, true, tok.Start, tok.End, nil
	case TokPlus:
		p.lexer.ConsumePeeked()
		return 1, 0, false, true, tok.Start, tok.End, nil
	case TokQuestion:
		p.lexer.ConsumePeeked()
		return 0, 1, true, true, tok.Start, tok.End, nil
	case TokLBrace:
		p.lexer.ConsumePeeked()
		return p.parseBraceRepetition(tok.Start)
	default:
		return 0, 0, false, false, 0, 0, nil
	}
}

func (p *parserImpl) parseBraceRepetition(braceStart int) (min, max int, hasMax, present bool, spanStart, spanEnd int, err error) {
	n, found, nErr := p.parseDecimal()
	if nErr != nil {
		return 0, 0, false, false, 0, 0, nErr
	}
	if !found {
		t := p.lexer.Peek()
		return 0, 0, false, false, 0, 0, unexpected(p.lexer.Slice(t.Start, t.End), t.Start, t.End, "decimal")
	}

	tok := p.lexer.Peek()
	if tok.IsChar(',') {
		p.lexer.ConsumePeeked()
		m, hasM, mErr := p.parseDecimal()
		if mErr != nil {
			return 0, 0, false, false, 0, 0, mErr
		}
		closeTok, cErr := p.lexer.Expect(TokRBrace)
		if cErr != nil {
			return 0, 0, false, false, 0, 0, cErr
		}
		if hasM {
			if n > m {
				return 0, 0, false, false, 0, 0, invalidRepetition(p.lexer.Slice(braceStart, closeTok.End), braceStart, closeTok.End)
			}
			return int(n), int(m), true, true, braceStart, closeTok.End, nil
		}
		return int(n), 0, false, true, braceStart, closeTok.End, nil
	}

	closeTok, cErr := p.lexer.Expect(TokRBrace)
	if cErr != nil {
		return 0, 0, false, false, 0, 0, cErr
	}
	return int(n), int(n), true, true, braceStart, closeTok.End, nil
}

// parseGroup parses: group = "(" disjunct ")"
func (p *parserImpl) parseGroup() (hir.Hir, error) {
	if _, err := p.lexer.Expect(TokLParen); err != nil {
		return nil, err
	}
	if err := p.enterGroup(); err != nil {
		return nil, err
	}
	defer p.exitGroup()

	inner, err := p.parseDisjunct()
	if err != nil {
		return nil, err
	}
	if _, err := p.lexer.Expect(TokRParen); err != nil {
		return nil, err
	}
	return inner, nil
}

// parseGroupQuestion parses the two "(?" forms this grammar recognizes:
// named = "(?" "<" decimal ">" disjunct ")"
// non-capturing group (supplemented): "(?:" disjunct ")"
func (p *parserImpl) parseGroupQuestion() (hir.Hir, error) {
	if _, err := p.lexer.Expect(TokLParenQuestion); err != nil {
		return nil, err
	}
	if err := p.enterGroup(); err != nil {
		return nil, err
	}
	defer p.exitGroup()

	tok := p.lexer.Peek()
	switch {
	case tok.IsChar(':'):
		p.lexer.ConsumePeeked()
		inner, err := p.parseDisjunct()
		if err != nil {
			return nil, err
		}
		if _, err := p.lexer.Expect(TokRParen); err != nil {
			return nil, err
		}
		return inner, nil
	case tok.IsChar('<'):
		p.lexer.ConsumePeeked()
		num, found, err := p.parseDecimal()
		if err != nil {
			return nil, err
		}
		if !found {
			t := p.lexer.Peek()
			return nil, unexpected(p.lexer.Slice(t.Start, t.End), t.Start, t.End, "decimal")
		}
		if _, err := p.lexer.ExpectChar('>'); err != nil {
			return nil, err
		}
		inner, err := p.parseDisjunct()
		if err != nil {
			return nil, err
		}
		if _, err := p.lexer.Expect(TokRParen); err != nil {
			return nil, err
		}
		return hir.NewGroup(int(num), inner), nil
	default:
		return nil, unexpected(p.lexer.Slice(tok.Start, tok.End), tok.Start, tok.End, "`:` or `<`")
	}
}

// parseClass parses: class = "." | "[" element+ "]" | "[^" element+ "]"
func (p *parserImpl) parseClass() (hir.Hir, error) {
	tok := p.lexer.Lex()
	switch tok.Kind {
	case TokDot:
		set := charset.FromRange(0x00, 0xFF)
		set.Remove('\n')
		return hir.NewClass(set), nil

	case TokLSquare, TokLSquareCaret:
		elems := &rangeset.List[uint32]{}
		for {
			peek := p.lexer.Peek()
			if peek.Kind == TokRSquare {
				break
			}
			if peek.Kind == TokEOF {
				return nil, unexpected("", peek.Start, peek.End, "`]`")
			}
			if err := p.parseClassElement(elems); err != nil {
				return nil, err
			}
		}
		closeTok, err := p.lexer.Expect(TokRSquare)
		if err != nil {
			return nil, err
		}
		if elems.IsEmpty() {
			return nil, unexpected(p.lexer.Slice(tok.Start, closeTok.End), tok.Start, closeTok.End, "an element")
		}

		ranges := elems
		if tok.Kind == TokLSquareCaret {
			complement := p.domainRanges()
			for _, r := range elems.Ranges() {
				complement.Exclude(r)
			}
			if complement.IsEmpty() {
				return nil, unexpected(p.lexer.Slice(tok.Start, closeTok.End), tok.Start, closeTok.End, "a non-empty class")
			}
			ranges = complement
		}
		return p.classHirFromCodepointRanges(ranges.Ranges(), tok.Start, closeTok.End)

	default:
		return nil, unexpected(p.lexer.Slice(tok.Start, tok.End), tok.Start, tok.End, "`.` or `[`")
	}
}

// domainRanges returns the encoder's full codepoint domain, excluding the
// surrogate hole, as the universe a negated class ("[^...]") complements
// against.
func (p *parserImpl) domainRanges() *rangeset.List[uint32] {
	l := &rangeset.List[uint32]{}
	l.Merge(rangeset.New(p.encoder.MinCodePoint(), p.encoder.MaxCodePoint()))
	if p.encoder.MaxCodePoint() > 0x7F {
		l.Exclude(rangeset.New[uint32](0xD800, 0xDFFF))
	}
	return l
}

// parseClassElement parses: element = term | term "-" term
func (p *parserImpl) parseClassElement(set *rangeset.List[uint32]) error {
	startCP, startPos, _, ok, err := p.parseTerm()
	if err != nil {
		return err
	}
	if !ok {
		t := p.lexer.Peek()
		return unexpected(p.lexer.Slice(t.Start, t.End), t.Start, t.End, "a class element")
	}

	if p.lexer.Peek().Kind != TokMinus {
		set.Merge(rangeset.Single(startCP))
		return nil
	}
	p.lexer.ConsumePeeked()

	endCP, _, endPos, ok2, err2 := p.parseTerm()
	if err2 != nil {
		return err2
	}
	if !ok2 {
		t := p.lexer.Peek()
		return unexpected(p.lexer.Slice(t.Start, t.End), t.Start, t.End, "a class element")
	}
	if startCP > endCP {
		return invalidRange(p.lexer.Slice(startPos, endPos), startPos, endPos)
	}
	set.Merge(rangeset.New(startCP, endCP))
	return nil
}

// classHirFromCodepointRanges converts a canonical codepoint range list
// into HIR: every byte-range sequence the encoder reports for a range
// becomes a Concat of per-position Class nodes (or a bare Class when the
// sequence is one byte long), and the sequences across every range are
// joined as a Disjunct — collapsed to the single node when there is
// only one, so a plain ASCII class like "[a-z]" stays a bare Class.
func (p *parserImpl) classHirFromCodepointRanges(ranges []rangeset.Range[uint32], spanStart, spanEnd int) (hir.Hir, error) {
	var alts []hir.Hir
	for _, r := range ranges {
		err := p.encoder.EncodeRange(r.Start(), r.Last(), func(seq []rangeset.Range[byte]) {
			if len(seq) == 1 {
				alts = append(alts, hir.NewClass(charset.FromRange(seq[0].Start(), seq[0].Last())))
				return
			}
			items := make([]hir.Hir, len(seq))
			for i, br := range seq {
				items[i] = hir.NewClass(charset.FromRange(br.Start(), br.Last()))
			}
			alts = append(alts, hir.NewConcat(items))
		})
		if err != nil {
			return nil, encoderError(err, spanStart, spanEnd)
		}
	}
	if len(alts) == 1 {
		return alts[0], nil
	}
	return hir.NewDisjunct(alts), nil
}

// parseTerm parses: term = char | escape
// escape = "\" (meta | "0" | "n" | "r" | "t" | "x" oct hex | "u{" hex{1,6} "}")
//
// It peeks before consuming so a token that is not a term (end of input,
// "|", ")", a class's closing "]") is left for the caller's own loop to
// see, rather than being silently swallowed.
func (p *parserImpl) parseTerm() (cp uint32, start, end int, ok bool, err error) {
	tok := p.lexer.Peek()
	switch tok.Kind {
	case TokChar:
		p.lexer.ConsumePeeked()
		return uint32(tok.Char), tok.Start, tok.End, true, nil

	case TokEscapeChar:
		p.lexer.ConsumePeeked()
		switch tok.Char {
		case '\\', '.', '*', '+', '-', '?', '|', '(', ')', '[', ']', '{', '}':
			return uint32(tok.Char), tok.Start, tok.End, true, nil
		case '0':
			return 0, tok.Start, tok.End, true, nil
		case 'n':
			return uint32('\n'), tok.Start, tok.End, true, nil
		case 'r':
			return uint32('\r'), tok.Start, tok.End, true, nil
		case 't':
			return uint32('\t'), tok.Start, tok.End, true, nil
		case 'x':
			v, hexErr := p.parseHexEscape(tok.Start)
			if hexErr != nil {
				return 0, 0, 0, false, hexErr
			}
			return v, tok.Start, p.lexer.EndPos(), true, nil
		case 'u':
			v, uErr := p.parseUnicodeEscape(tok.Start)
			if uErr != nil {
				return 0, 0, 0, false, uErr
			}
			return v, tok.Start, p.lexer.EndPos(), true, nil
		default:
			return 0, 0, 0, false, unsupportedEscape(p.lexer.Slice(tok.Start, tok.End), tok.Start, tok.End)
		}

	case TokEscape:
		p.lexer.ConsumePeeked()
		return 0, 0, 0, false, emptyEscape(tok.Start, tok.End)

	default:
		return 0, 0, 0, false, nil
	}
}

// parseHexEscape parses "x" oct hex, the two digits following an already
// consumed "\x". escStart is the span start of the "\x" token itself, so
// the reported error span covers the whole "\xHH" sequence.
func (p *parserImpl) parseHexEscape(escStart int) (uint32, error) {
	first := p.lexer.Lex()
	if first.Kind != TokChar {
		return 0, unexpected(p.lexer.Slice(first.Start, first.End), first.Start, first.End, "a hexadecimal digit")
	}
	second := p.lexer.Lex()
	if second.Kind != TokChar {
		return 0, unexpected(p.lexer.Slice(second.Start, second.End), second.Start, second.End, "a hexadecimal digit")
	}
	firstVal, firstOk := hexDigitValue(first.Char)
	secondVal, secondOk := hexDigitValue(second.Char)
	if !firstOk || !secondOk {
		return 0, unexpected(p.lexer.Slice(first.Start, second.End), first.Start, second.End, "two hexadecimal digits")
	}
	if first.Char > '7' {
		return 0, outOfRange(p.lexer.Slice(escStart, second.End), escStart, second.End, "ASCII range")
	}
	return firstVal<<4 | secondVal, nil
}

// parseUnicodeEscape parses "{" hex{1,6} "}", the span following an
// already consumed "\u".
func (p *parserImpl) parseUnicodeEscape(escStart int) (uint32, error) {
	if _, err := p.lexer.Expect(TokLBrace); err != nil {
		return 0, err
	}
	var val uint32
	digits := 0
	for digits < 6 {
		t := p.lexer.Peek()
		if t.Kind != TokChar {
			break
		}
		v, ok := hexDigitValue(t.Char)
		if !ok {
			break
		}
		p.lexer.ConsumePeeked()
		val = val<<4 | v
		digits++
	}
	if digits == 0 {
		t := p.lexer.Peek()
		return 0, unexpected(p.lexer.Slice(t.Start, t.End), t.Start, t.End, "a hexadecimal digit")
	}
	closeTok, err := p.lexer.Expect(TokRBrace)
	if err != nil {
		return 0, err
	}
	if val > 0x10FFFF || (val >= 0xD800 && val <= 0xDFFF) {
		return 0, outOfRange(p.lexer.Slice(escStart, closeTok.End), escStart, closeTok.End, "a Unicode scalar value")
	}
	return val, nil
}

// parseDecimal parses: decimal = dec dec*; dec = '0'..'9'
// found is false only when no digit was present at all; a decimal that
// overflows uint32 is reported as err, with found still true.
func (p *parserImpl) parseDecimal() (value uint32, found bool, err error) {
	tok := p.lexer.Peek()
	if tok.Kind != TokChar || !isASCIIDigit(tok.Char) {
		return 0, false, nil
	}
	start := tok.Start
	end := tok.Start
	var num uint32
	overflow := false
	for {
		t := p.lexer.Peek()
		if t.Kind != TokChar || !isASCIIDigit(t.Char) {
			break
		}
		p.lexer.ConsumePeeked()
		end = t.End
		digit := uint32(t.Char - '0')
		if !overflow {
			if num > (math.MaxUint32-digit)/10 {
				overflow = true
			} else {
				num = num*10 + digit
			}
		}
	}
	if overflow {
		return 0, true, outOfRange(p.lexer.Slice(start, end), start, end, "`uint32` range")
	}
	return num, true, nil
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func hexDigitValue(c rune) (uint32, bool) {
	switch {
	case c >= '0' && c <= '9':
		return uint32(c - '0'), true
	case c >= 'a' && c <= 'f':
		return uint32(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return uint32(c-'A') + 10, true
	default:
		return 0, false
	}
}
