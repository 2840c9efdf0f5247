package ast

import "strings"

// expandVariables substitutes `$NAME`, `${NAME}`, `${NAME:-word}` and
// `${NAME:+word}` references whose variable has a known in-file value
// (an earlier ARG default or ENV assignment). References to unknown
// variables are left untouched: their value depends on build arguments
// the file alone cannot see.
func expandVariables(s string, vars map[string]string) string {
	if len(vars) == 0 || !strings.ContainsRune(s, '$') {
		return s
	}
	var b strings.Builder
	i := 0
	for i < len(s) {
		if s[i] != '$' {
			b.WriteByte(s[i])
			i++
			continue
		}
		if i+1 < len(s) && s[i+1] == '{' {
			end := strings.IndexByte(s[i+2:], '}')
			if end < 0 {
				b.WriteString(s[i:])
				break
			}
			b.WriteString(expandBraced(s[i+2:i+2+end], s[i:i+3+end], vars))
			i += 3 + end
			continue
		}
		j := i + 1
		for j < len(s) && isVarNameByte(s[j]) {
			j++
		}
		if j == i+1 {
			b.WriteByte(s[i])
			i++
			continue
		}
		if val, known := vars[s[i+1:j]]; known {
			b.WriteString(val)
		} else {
			b.WriteString(s[i:j])
		}
		i = j
	}
	return b.String()
}

// expandBraced resolves the body of one `${...}` reference; full is the
// reference verbatim, returned whenever resolution is not unambiguous.
func expandBraced(body, full string, vars map[string]string) string {
	name, modifier := body, ""
	if colon := strings.IndexByte(body, ':'); colon >= 0 {
		name, modifier = body[:colon], body[colon+1:]
	}
	val, known := vars[name]
	switch {
	case modifier == "":
		if known {
			return val
		}
	case strings.HasPrefix(modifier, "-"):
		if known {
			if val != "" {
				return val
			}
			return modifier[1:]
		}
	case strings.HasPrefix(modifier, "+"):
		if known {
			if val != "" {
				return modifier[1:]
			}
			return ""
		}
	}
	return full
}

func isVarNameByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// recordVariables harvests `key=value` assignments from an ARG or ENV
// instruction into vars, expanding each value against what is already
// known so chained assignments (ENV A=$B) resolve. ARG declarations
// without a default stay unrecorded: their value is a build-time input.
func recordVariables(inst *Instruction, vars map[string]string) {
	for _, w := range inst.Words {
		eq := unquotedEqualsIndex(w.Value)
		if eq <= 0 {
			continue
		}
		key := w.Value[:eq]
		value := stripQuotes(w.Value[eq+1:])
		vars[key] = expandVariables(value, vars)
	}
}

func unquotedEqualsIndex(s string) int {
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '=':
			return i
		}
	}
	return -1
}

func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
