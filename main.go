package main

import "github.com/openSUSE/venvjail/cmd"

// version is set at build time
var version = "develop"

func main() {
	cmd.Execute(version)
}
