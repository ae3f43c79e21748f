// Command licensor runs the license authority: activation, status and
// update-feed endpoints plus the optional admin API.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/aussiebroadwan/licensor/internal/licensing/app"
)

func main() {
	version := flag.Bool("version", false, "print the build version and exit")
	flag.Parse()

	if *version {
		fmt.Println(app.BuildVersion)
		return
	}

	a, err := app.New(app.LoadConfig())
	if err != nil {
		log.Fatalf("licensor: init: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("licensor: %v", err)
	}
}
