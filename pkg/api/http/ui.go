package http

import _ "embed"

//go:embed ui.html
var uiPage []byte
