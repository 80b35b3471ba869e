// Package yamldoc loads a YAML document into both a decoded node tree and a
// parallel description index extracted from @description/@desc comments.
//
// YAML's grammar discards comments, so descriptions are recovered in a second
// line-oriented pass that mirrors the decoder's structural nesting and binds
// each comment run to the path of the node that follows it, including
// individual sequence items. Extraction never alters the decoded tree; the
// index is a pure side channel keyed by structural path.
package yamldoc
