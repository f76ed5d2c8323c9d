/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package db

import (
	"strings"
	"unicode"
)

// splitSQLStatements breaks a migration file into statements on top level
// semicolons. Comments are dropped; quoted strings and dollar quoted bodies
// are kept intact.
func splitSQLStatements(content string) []string {
	s := &sqlSplitter{src: content}
	s.run()

	return s.statements
}

type sqlSplitter struct {
	src        string
	pos        int
	current    strings.Builder
	statements []string

	quote     byte // ' or " while inside a quoted literal or identifier
	dollarTag string
}

func (s *sqlSplitter) run() {
	for s.pos < len(s.src) {
		switch {
		case s.dollarTag != "":
			s.inDollarBody()
		case s.quote != 0:
			s.inQuote()
		default:
			s.topLevel()
		}
	}

	s.flush()
}

func (s *sqlSplitter) topLevel() {
	rest := s.src[s.pos:]
	ch := rest[0]

	switch {
	case strings.HasPrefix(rest, "--"):
		end := strings.IndexByte(rest, '\n')
		if end < 0 {
			s.pos = len(s.src)

			return
		}

		s.pos += end
	case strings.HasPrefix(rest, "/*"):
		end := strings.Index(rest[2:], "*/")
		if end < 0 {
			s.pos = len(s.src)

			return
		}

		s.pos += end + 4
	case ch == '$':
		if tag := dollarTag(rest); tag != "" {
			s.dollarTag = tag
			s.current.WriteString(tag)
			s.pos += len(tag)

			return
		}

		s.emit(ch)
	case ch == '\'' || ch == '"':
		s.quote = ch
		s.emit(ch)
	case ch == ';':
		s.flush()
		s.pos++
	default:
		s.emit(ch)
	}
}

func (s *sqlSplitter) inQuote() {
	ch := s.src[s.pos]
	if ch == s.quote {
		s.quote = 0
	}

	s.emit(ch)
}

func (s *sqlSplitter) inDollarBody() {
	if strings.HasPrefix(s.src[s.pos:], s.dollarTag) {
		s.current.WriteString(s.dollarTag)
		s.pos += len(s.dollarTag)
		s.dollarTag = ""

		return
	}

	s.emit(s.src[s.pos])
}

func (s *sqlSplitter) emit(ch byte) {
	s.current.WriteByte(ch)
	s.pos++
}

func (s *sqlSplitter) flush() {
	if stmt := strings.TrimSpace(s.current.String()); stmt != "" {
		s.statements = append(s.statements, stmt)
	}

	s.current.Reset()
}

// dollarTag returns the $tag$ opening rest, or "" when rest does not start
// with one.
func dollarTag(rest string) string {
	for i := 1; i < len(rest); i++ {
		ch := rest[i]
		if ch == '$' {
			return rest[:i+1]
		}

		if ch != '_' && !unicode.IsLetter(rune(ch)) && !unicode.IsDigit(rune(ch)) {
			return ""
		}
	}

	return ""
}

// extractVersion returns the numeric prefix of a migration file name.
func extractVersion(filename string) string {
	version, _, _ := strings.Cut(filename, "_")

	return version
}
