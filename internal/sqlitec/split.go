package sqlitec

import "strings"

// SplitStatements splits sql into the individual statements SQLite would
// prepare one after the other, without their terminating semicolons.
//
// A semicolon ends a statement unless it is inside a string literal, a quoted
// identifier or a comment. Inside CREATE TRIGGER the statement only ends on
// the token sequence "; END ;", so an END closing a CASE expression does not
// end the trigger. Fragments holding nothing but whitespace and comments are
// dropped.
//
// https://www.sqlite.org/c3ref/complete.html
func SplitStatements(sql string) []string {
	var (
		stmts      []string
		start      int
		hasContent bool
		words      []string
		// afterSemi is set when the previous token inside a trigger was ";".
		afterSemi bool
		// endAfterSemi is set when the previous tokens were "; END".
		endAfterSemi bool
	)

	otherToken := func() {
		afterSemi = false
		endAfterSemi = false
	}

	emit := func(end int) {
		if hasContent {
			stmts = append(stmts, strings.TrimSpace(sql[start:end]))
		}
		hasContent = false
		words = words[:0]
		otherToken()
	}

	n := len(sql)
	i := 0
	for i < n {
		c := sql[i]

		switch {
		case c == '\'' || c == '"' || c == '`':
			i = skipQuoted(sql, i, c)
			hasContent = true
			otherToken()

		case c == '[':
			if j := strings.IndexByte(sql[i+1:], ']'); j >= 0 {
				i += j + 2
			} else {
				i = n
			}
			hasContent = true
			otherToken()

		case c == '-' && i+1 < n && sql[i+1] == '-':
			if j := strings.IndexByte(sql[i:], '\n'); j >= 0 {
				i += j + 1
			} else {
				i = n
			}

		case c == '/' && i+1 < n && sql[i+1] == '*':
			if j := strings.Index(sql[i+2:], "*/"); j >= 0 {
				i += j + 4
			} else {
				i = n
			}

		case c == ';':
			if isTrigger(words) && !endAfterSemi {
				afterSemi = true
				endAfterSemi = false
				i++
				continue
			}
			emit(i)
			i++
			start = i

		case isWordByte(c):
			j := i
			for j < n && isWordByte(sql[j]) {
				j++
			}
			word := strings.ToUpper(sql[i:j])
			if len(words) < 4 {
				words = append(words, word)
			}
			endAfterSemi = afterSemi && word == "END"
			afterSemi = false
			hasContent = true
			i = j

		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			i++

		default:
			hasContent = true
			otherToken()
			i++
		}
	}
	emit(n)

	return stmts
}

// skipQuoted returns the index just past the quoted token starting at i.
// A doubled quote character is an escaped quote. An unterminated token runs
// to the end of the input.
func skipQuoted(sql string, i int, quote byte) int {
	n := len(sql)
	for j := i + 1; j < n; j++ {
		if sql[j] != quote {
			continue
		}
		if j+1 < n && sql[j+1] == quote {
			j++
			continue
		}
		return j + 1
	}
	return n
}

// isTrigger reports whether the leading keywords start a CREATE TRIGGER,
// optionally prefixed by EXPLAIN.
func isTrigger(words []string) bool {
	if len(words) > 0 && words[0] == "EXPLAIN" {
		words = words[1:]
	}
	if len(words) < 2 || words[0] != "CREATE" {
		return false
	}
	if words[1] == "TRIGGER" {
		return true
	}
	return len(words) >= 3 &&
		(words[1] == "TEMP" || words[1] == "TEMPORARY") &&
		words[2] == "TRIGGER"
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// QuoteLiteral returns s as an SQL string literal, doubling any single quote.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
