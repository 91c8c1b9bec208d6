package main

import (
	"os"

	"github.com/folio-cms/folio/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
