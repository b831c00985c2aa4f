package main

import "github.com/blackwell-systems/bookgrid/internal/app"

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	app.SetVersion(version)
	app.Execute()
}
