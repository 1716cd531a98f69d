package main

import (
	"os"

	"github.com/fitcircle/fitcircle/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
