package main

import "github.com/trovelib/trovectl/internal/app"

// version is injected at build time via -ldflags.
var version = "dev"

func main() {
	app.SetVersion(version)
	app.Execute()
}
