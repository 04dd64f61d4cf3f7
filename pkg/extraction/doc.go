// Package extraction turns free-text lacrosse analysis into structured
// signals: classified plays, player identifiers, skill ratings and
// per-event detail fields.
//
// Everything here is pure and deterministic. Rules are ordered tables of
// compiled patterns evaluated by a small first-match / all-match engine, so
// each rule can be tested on its own and the tables stay data, not control flow.
package extraction
