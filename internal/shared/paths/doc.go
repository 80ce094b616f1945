// Package paths resolves the file paths the host is configured with.
//
// Rules files and arrangement stores may be given as:
//
//	layout.yaml             bare name, lives in ~/.vwhost/
//	~/layouts/desk.toml     home-relative
//	$XDG_STATE_HOME/a.json  environment-expanded
//	./arrangement.json      relative to the working directory
//
// Every form resolves to an absolute path.
package paths
