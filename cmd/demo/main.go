// Command demo walks through a scripted Emotional Chess game and prints the
// board, emotional events, evaluation and emFEN after every move.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/Oshin159/chess-multiplayer/game"
)

var (
	moveList = flag.String("moves", "e3,e6,Nf3,Nc6,Bc4,Bb4", "comma separated moves (SAN or coordinate)")
	showEval = flag.Bool("eval", true, "print evaluation after each move")
)

func main() {
	flag.Parse()

	rules := game.NewChessRules()
	eng := game.NewEngineWith(rules)
	eng.SetObserver(func(ev game.Event) {
		log.Printf("emotion: %s", ev)
	})

	fmt.Printf("Starting position: %s\n", rules.FEN())
	fmt.Printf("Initial emotions: %+v\n\n", eng.Summary())

	colors := [2]string{"White", "Black"}
	for i, notation := range strings.Split(*moveList, ",") {
		notation = strings.TrimSpace(notation)
		fmt.Printf("%s plays %s\n", colors[i%2], notation)

		res, err := eng.SubmitMove(notation)
		if err != nil {
			log.Fatalf("move %q rejected: %s", notation, err)
		}

		fmt.Println(rules.Position().Board().Draw())
		fmt.Printf("  emotions: %+v\n", res.Summary)
		fmt.Printf("  emFEN: %s\n", eng.EmFEN())
		if *showEval {
			b := game.NewEvaluator(eng).Breakdown()
			fmt.Printf("  eval: %d (material %d, love %d, anger %d, sad %d)\n",
				b.Total, b.Material, b.LoveBonus, b.AngerBonus, b.SadPenalty)
		}
		fmt.Println()
	}

	fmt.Printf("Final legal moves: %d\n", len(eng.LegalMoves()))
}
