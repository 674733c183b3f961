package static

import "embed"

// FS exposes the signup page assets for HTTP serving.
//
//go:embed index.html app.js styles.css
var FS embed.FS
