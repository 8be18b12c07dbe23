package main

import "log"

func main() {
	game := NewGame()
	if err := game.Run(); err != nil {
		log.Fatal(err)
	}
}
