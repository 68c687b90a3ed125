// Package setgame implements the attribute-set card game engine.
//
// Every card carries a shape, a color, a shading and a symbol count. Three
// cards form a set when, for each attribute, the values are all the same or
// all different.
//
// # Card lifecycle
//
//	undealt ──deal──▶ on board (unselected ⇄ selected)
//	                    │ three selected
//	                    ▼
//	             matched │ mismatched
//	                 │        └─ next selection ─▶ unselected
//	                 └─ next selection or deal ─▶ discarded
//
// Board positions order the display. Dealing onto a matched set reuses the
// matched cards' positions; otherwise new cards go after the last position.
// No two cards on the board ever share a position.
package setgame
