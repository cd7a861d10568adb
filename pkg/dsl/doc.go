// Package dsl parses the sequence diagram text language into a
// [diagram.Diagram].
//
// # Grammar
//
// The language is line oriented. Each trimmed line is classified by an
// ordered list of independent rules ([Classify]):
//
//	title: Checkout flow              Title
//	participant U as User [CLI]       ParticipantDecl (label "User (CLI)")
//	actor DB                          ParticipantDecl
//	U->>API: 1. POST /orders          Message (solid, display step 1)
//	API-->>U: created<br/>201         Message (dashed, text "created 201")
//	%% comment, ``` fences,           Skip
//	sequenceDiagram, autonumber
//
// Arrow tokens are ->>, -->>, -> and -->. Only the dash prefix is
// meaningful: a token starting with "--" is dashed, anything else solid.
//
// # Building
//
// [Parse] folds classified lines into a diagram through an explicit
// accumulator. Participants are registered on first sight (declaration or
// message endpoint), which fixes their column and palette color. Messages
// receive a dense 1-based sequence index in source order.
//
// The parser is permissive: it never fails on a line. Lines no rule
// recognizes are dropped.
//
// # Formatting
//
// [Format] writes a diagram back to the language. For inputs that only use
// the documented grammar, Parse(Format(Parse(src))) equals Parse(src).
package dsl
