package mapty

import "embed"

// WebFS holds the browser front-end served at /.
//
//go:embed web
var WebFS embed.FS
