package main

import (
	"os"

	quotescmder "github.com/UladRH/quotes-assignment-task/cmd/quotes"
)

func main() {
	cmd := quotescmder.NewQuotesCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
