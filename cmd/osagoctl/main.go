package main

import (
	"os"

	"github.com/m04kA/SMC-OsagoQuoteService/cmd/osagoctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
