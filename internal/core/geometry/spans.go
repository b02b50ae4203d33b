package geometry

import "strings"

// spans is a line split on double quotes; quoted value k sits at parts[2k+1]
type spans struct{ parts []string }

func splitSpans(line string) spans { return spans{parts: strings.Split(line, `"`)} }

// values reports how many quoted values the line holds
func (s spans) values() int { return len(s.parts) / 2 }

func (s spans) value(k int) string { return s.parts[2*k+1] }

func (s spans) set(k int, v string) { s.parts[2*k+1] = v }

func (s spans) String() string { return strings.Join(s.parts, `"`) }
