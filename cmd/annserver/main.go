// Command annserver serves networks over HTTP.
package main

import (
	"flag"
	"log"

	"github.com/gnegnu/gnegnu/internal/server"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	if err := server.New().Run(*addr); err != nil {
		log.Fatal(err)
	}
}
