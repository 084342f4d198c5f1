package main

import (
	"os"

	"interactions-relay/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		os.Exit(1)
	}
}
