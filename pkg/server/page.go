package server

import _ "embed"

// indexPage is the single-page spreadsheet client. It speaks the
// edit/patch JSON protocol over /ws.
//
//go:embed index.html
var indexPage []byte
