// Command emfen inspects emFEN strings: it validates the text, prints the
// emotion counts, and re-encodes the canonical form.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/Oshin159/chess-multiplayer/game"
)

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		log.Fatal("usage: emfen <emfen-string>")
	}
	input := strings.Join(flag.Args(), " ")

	if err := game.ValidateEmFEN(input); err != nil {
		log.Fatalf("invalid emFEN:\n%s", err)
	}

	sum := game.SummaryOfEmFEN(input)
	fmt.Printf("love pairs: %d\nangry: %d\nsad: %d\n", sum.LovePairs, sum.Angry, sum.Sad)

	eng, err := game.NewEngineFEN(input)
	if err != nil {
		log.Fatalf("decode: %s", err)
	}
	fmt.Printf("canonical: %s\n", eng.EmFEN())
}
