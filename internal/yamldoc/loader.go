package yamldoc

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Index maps a structural path (in its dotted string form) to the description
// text extracted from the comment run preceding that node. Built once per
// load; when malformed input yields several descriptions for one path, the
// last one wins.
type Index map[string]string

// Lookup returns the description attached to p, if any.
func (ix Index) Lookup(p Path) (string, bool) {
	text, ok := ix[p.String()]
	return text, ok
}

// UnboundComment is a description comment that could not be attached to any
// node: indentation dropped below its level before a sibling appeared, it was
// the last content in the file, or its computed path is unreachable in the
// decoded tree.
type UnboundComment struct {
	Text string
	Line int
}

// Document is the result of one load: the decoded tree plus the description
// index extracted from the same text. The index is a pure side channel; the
// tree is exactly what a plain yaml.v3 decode produces.
type Document struct {
	Root    *yaml.Node
	Index   Index
	Unbound []UnboundComment
}

// Body returns the top-level mapping of the document, or nil for an empty
// document.
func (d *Document) Body() *yaml.Node {
	return documentBody(d.Root)
}

// Describe returns the description attached to the node at p, if any.
func (d *Document) Describe(p Path) (string, bool) {
	return d.Index.Lookup(p)
}

// ParseError reports structurally invalid YAML with the offending line when
// the underlying decoder exposes one.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("yaml parse error at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("yaml parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var yamlLineRe = regexp.MustCompile(`line (\d+)`)

func yamlErrorLine(err error) int {
	m := yamlLineRe.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// Load decodes raw YAML text into a node tree and extracts the description
// index in a second, line-oriented pass. Comment extraction never fails;
// malformed structural syntax returns a *ParseError.
func Load(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &ParseError{Line: yamlErrorLine(err), Err: err}
	}

	doc := &Document{Root: &root, Index: Index{}}
	entries, unbound := scanDescriptions(data)
	for _, e := range entries {
		// Every indexed path must be reachable in the decoded tree; a
		// description the decoder cannot place is unbound, not fatal.
		if resolvePath(&root, e.path) == nil {
			unbound = append(unbound, UnboundComment{Text: e.text, Line: e.line})
			continue
		}
		doc.Index[e.path.String()] = e.text
	}
	doc.Unbound = unbound
	return doc, nil
}

// LoadFile reads and loads one document from disk.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data)
}

var descRe = regexp.MustCompile(`^#\s*@(?:desc|description):\s*(.+)$`)

// keyRe matches "key:" and "key: value" lines; the colon must be followed by
// whitespace or end the line so plain scalars containing colons do not match.
var keyRe = regexp.MustCompile(`^(.+?)\s*:(?:\s.*)?$`)

type indexEntry struct {
	path Path
	text string
	line int
}

// frame is one open level of the structural stack maintained while scanning
// physical lines. Key frames mirror mapping keys, item frames mirror sequence
// items; the distinction drives the pop rules, since a dash at the column of
// the previous dash is a sibling item while a key at the column of the
// previous key is a sibling key.
type frame struct {
	indent int
	isItem bool
}

type pendingDesc struct {
	text   string
	indent int
	line   int
	open   bool
}

// scanDescriptions walks the document line by line, mirroring the decoder's
// structural nesting with an indentation stack, and binds each description
// comment run to the path of the next node at or below the comment's
// indentation. A run whose following content is less indented than the
// comment cannot be bound to any descendant and is reported unbound.
func scanDescriptions(data []byte) ([]indexEntry, []UnboundComment) {
	var (
		entries []indexEntry
		unbound []UnboundComment
		path    Path
		frames  []frame
		pend    *pendingDesc
		nextIdx = map[string]int{}
	)

	bind := func(p Path, indent int) {
		if pend == nil {
			return
		}
		if indent < pend.indent {
			unbound = append(unbound, UnboundComment{Text: pend.text, Line: pend.line})
		} else {
			cp := make(Path, len(p))
			copy(cp, p)
			entries = append(entries, indexEntry{path: cp, text: pend.text, line: pend.line})
		}
		pend = nil
	}

	// pop unwinds the stack to the level governing a new line at indent.
	// forItem marks a dash line, whose siblings sit at the same column as
	// the item frame being popped; leaving a sequence for good resets its
	// index counter.
	pop := func(indent int, forItem bool) {
		for len(frames) > 0 {
			top := frames[len(frames)-1]
			var drop bool
			if top.isItem {
				drop = top.indent >= indent
			} else {
				drop = top.indent > indent
			}
			if !drop {
				break
			}
			frames = frames[:len(frames)-1]
			path = path[:len(path)-1]
			if top.isItem && !(forItem && top.indent == indent) {
				delete(nextIdx, path.String())
			}
		}
	}

	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			// A blank line closes the comment run but keeps it pending
			// for the next content line.
			if pend != nil {
				pend.open = false
			}
			continue
		}

		if strings.HasPrefix(trimmed, "#") {
			m := descRe.FindStringSubmatch(trimmed)
			if m == nil {
				// Not every # line is a description.
				continue
			}
			text := strings.TrimSpace(m[1])
			indent := len(line) - len(strings.TrimLeft(line, " "))
			if pend != nil && pend.open {
				pend.text += " " + text
			} else {
				pend = &pendingDesc{text: text, indent: indent, line: lineNo, open: true}
			}
			continue
		}

		if strings.HasPrefix(trimmed, "---") || strings.HasPrefix(trimmed, "...") {
			continue
		}

		indent := len(line) - len(strings.TrimLeft(line, " "))

		if trimmed == "-" || strings.HasPrefix(trimmed, "- ") {
			pop(indent, true)
			parent := path.String()
			idx := nextIdx[parent]
			nextIdx[parent] = idx + 1
			path = append(path, IndexStep(idx))
			frames = append(frames, frame{indent: indent, isItem: true})

			// A comment immediately preceding a dash binds to that
			// specific item, not to any key inlined on the dash line.
			bind(path, indent)

			afterDash := trimmed[1:]
			rest := strings.TrimLeft(afterDash, " ")
			if rest != "" {
				if m := keyRe.FindStringSubmatch(rest); m != nil {
					inner := indent + 1 + (len(afterDash) - len(rest))
					path = append(path, KeyStep(unquoteKey(m[1])))
					frames = append(frames, frame{indent: inner})
				}
			}
			continue
		}

		if m := keyRe.FindStringSubmatch(trimmed); m != nil {
			key := unquoteKey(m[1])
			pop(indent, false)
			if n := len(frames); n > 0 && !frames[n-1].isItem && frames[n-1].indent == indent {
				path[len(path)-1] = KeyStep(key)
			} else {
				path = append(path, KeyStep(key))
				frames = append(frames, frame{indent: indent})
			}
			bind(path, indent)
			continue
		}

		// Content that is not a node (block scalar continuation and the
		// like) closes the buffer without a binding target.
		if pend != nil {
			unbound = append(unbound, UnboundComment{Text: pend.text, Line: pend.line})
			pend = nil
		}
	}

	if pend != nil {
		unbound = append(unbound, UnboundComment{Text: pend.text, Line: pend.line})
	}
	return entries, unbound
}

func unquoteKey(key string) string {
	if len(key) >= 2 {
		if (key[0] == '"' && key[len(key)-1] == '"') || (key[0] == '\'' && key[len(key)-1] == '\'') {
			return key[1 : len(key)-1]
		}
	}
	return key
}
