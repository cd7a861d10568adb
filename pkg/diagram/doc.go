// Package diagram defines the sequence diagram model shared by the parser,
// the layout engine and every renderer.
//
// # Overview
//
// A [Diagram] is an ordered list of [Participant] columns, an ordered list of
// [Message] rows, and a title. It is produced in one pass by
// [github.com/matzehuels/seqdraw/pkg/dsl.Parse] and never mutated afterwards:
// a new parse produces a new Diagram.
//
// # Ordering
//
// Participant order is first-seen order in the source text, whether the id
// first appeared in a declaration or as a message endpoint. Message order is
// source order; [Message.Index] is the 1-based, dense sequence index and the
// only ordering key. [Message.Step] is an optional user-supplied numeral that
// changes what is displayed, never where it is drawn.
//
// # Colors
//
// Each participant receives a color from [Palette] by first-seen position,
// cycling when there are more participants than palette entries. Renderers
// color a message after its sender, so a message's visual identity is always
// the one of its source participant.
package diagram
