// Command swipe-tool inspects touch recordings and the game database.
package main

import (
	"os"

	"github.com/banshee-data/inky2048/cmd/tools/swipe-tool/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
