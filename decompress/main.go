package main

import (
	"flag"
	"log"
	"os"

	rangecoder "github.com/hiroki-kojima/CarryLessRangeCoder"
)

func main() {
	flag.Parse()
	if err := rangecoder.Decompress(os.Stdout, os.Stdin); err != nil {
		log.Fatalf("%+v", err)
	}
}
