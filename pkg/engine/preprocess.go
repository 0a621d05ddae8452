package engine

import (
	"bytes"
	"strings"
)

// kwPrefix marks string literals that were keywords in the source.
const kwPrefix = "__kw_"

// rewriter adapts brush source to what the zygomys reader accepts. String
// literals pass through unchanged. Outside them:
//
//	; comment      becomes  // comment
//	:material      becomes  "__kw_material"
//	wall-height    becomes  wall_height
//
// zygomys reads a hyphen inside a symbol as subtraction, and registering
// keywords as globals would shadow user definitions of the same name.
type rewriter struct {
	src []byte
	pos int
	out strings.Builder
}

func preprocessSource(source string) string {
	r := &rewriter{src: []byte(source)}
	r.out.Grow(len(source) + len(source)/4)
	for r.pos < len(r.src) {
		r.step()
	}
	return r.out.String()
}

// at returns the byte off positions from the cursor, or 0 outside the
// source.
func (r *rewriter) at(off int) byte {
	i := r.pos + off
	if i < 0 || i >= len(r.src) {
		return 0
	}
	return r.src[i]
}

// copy emits the next n source bytes unchanged.
func (r *rewriter) copy(n int) {
	end := min(r.pos+n, len(r.src))
	r.out.Write(r.src[r.pos:end])
	r.pos = end
}

func (r *rewriter) step() {
	switch c := r.at(0); {
	case c == '"':
		r.literal('"', true)
	case c == '`':
		r.literal('`', false)
	case c == ';':
		r.comment()
	case c == ':' && r.at(1) == '=':
		r.copy(2)
	case c == ':' && isLetter(r.at(1)):
		r.keyword()
	case c == '-' && isIdentChar(r.at(-1)) && isLetter(r.at(1)):
		// A hyphen between identifier characters joins a kebab-case name;
		// "(- a b)" and "-1" are left alone.
		r.out.WriteByte('_')
		r.pos++
	default:
		r.copy(1)
	}
}

// literal copies a string literal delimited by quote, honoring backslash
// escapes when escapes is set.
func (r *rewriter) literal(quote byte, escapes bool) {
	r.copy(1)
	for r.pos < len(r.src) && r.at(0) != quote {
		if escapes && r.at(0) == '\\' {
			r.copy(2)
			continue
		}
		r.copy(1)
	}
	r.copy(1)
}

// comment rewrites a run of semicolons as "//" and copies the rest of the
// line.
func (r *rewriter) comment() {
	for r.at(0) == ';' {
		r.pos++
	}
	r.out.WriteString("//")
	end := len(r.src)
	if nl := bytes.IndexByte(r.src[r.pos:], '\n'); nl >= 0 {
		end = r.pos + nl
	}
	r.copy(end - r.pos)
}

func (r *rewriter) keyword() {
	end := r.pos + 1
	for end < len(r.src) && isKeywordChar(r.src[end]) {
		end++
	}
	r.out.WriteByte('"')
	r.out.WriteString(kwPrefix)
	r.out.Write(r.src[r.pos+1 : end])
	r.out.WriteByte('"')
	r.pos = end
}

func isLetter(c byte) bool { return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' }
func isDigit(c byte) bool  { return '0' <= c && c <= '9' }

func isIdentChar(c byte) bool   { return isLetter(c) || isDigit(c) || c == '_' }
func isKeywordChar(c byte) bool { return isIdentChar(c) || c == '-' }
