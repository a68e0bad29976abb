// Package file provides the file-based application configuration store.
//
// Configuration lives in config.toml inside the shoplist config directory
// (~/.shoplist by default):
//
//	data_dir = "~/.shoplist/files"
//	verbose = false
//
//	[mqtt]
//	port = 1883
//	client_id = ""
//	connect_timeout = 5
//	qos = 0
//
//	[list]
//	sort_reverse = false
//
// Missing keys take their defaults. User settings (language, theme, broker
// address and credentials) are not part of this file; they live in the
// settings.json document next to the shopping list.
package file
