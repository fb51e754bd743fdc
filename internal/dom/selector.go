package dom

import "strings"

// selector is a compound simple selector: optional tag, optional id, any number of classes.
type selector struct {
	tag     string
	id      string
	classes []string
}

func parseSelector(s string) (selector, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " >+~[]:,") {
		return selector{}, false
	}

	var sel selector
	kind := byte(0) // 0 = tag, '.' = class, '#' = id
	start := 0
	flush := func(end int) bool {
		part := s[start:end]
		switch kind {
		case 0:
			sel.tag = strings.ToLower(part)
		case '.':
			if part == "" {
				return false
			}
			sel.classes = append(sel.classes, part)
		case '#':
			if part == "" || sel.id != "" {
				return false
			}
			sel.id = part
		}
		return true
	}

	for i := 0; i < len(s); i++ {
		if s[i] == '.' || s[i] == '#' {
			if !flush(i) {
				return selector{}, false
			}
			kind = s[i]
			start = i + 1
		}
	}
	if !flush(len(s)) {
		return selector{}, false
	}
	return sel, true
}

func (s selector) match(e *Element) bool {
	if s.tag != "" && s.tag != "*" && s.tag != e.tag {
		return false
	}
	if s.id != "" && s.id != e.id {
		return false
	}
	for _, c := range s.classes {
		if !e.HasClass(c) {
			return false
		}
	}
	return true
}
