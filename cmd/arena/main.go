package main

import (
	"context"
	"flag"
	"log"
)

var (
	flgLevelA      int
	flgLevelB      int
	flgGames       int
	flgConcurrency int
	flgMaxPlies    int
)

func main() {
	flag.IntVar(&flgLevelA, "a", 5, "difficulty level of engine A")
	flag.IntVar(&flgLevelB, "b", 3, "difficulty level of engine B")
	flag.IntVar(&flgGames, "games", 20, "number of games to play")
	flag.IntVar(&flgConcurrency, "concurrency", 1, "games played in parallel")
	flag.IntVar(&flgMaxPlies, "maxplies", 300, "adjudicate a draw after this many plies")
	flag.Parse()

	var err = run(context.Background(), flgLevelA, flgLevelB,
		flgGames, flgConcurrency, flgMaxPlies)
	if err != nil {
		log.Fatal(err)
	}
}
