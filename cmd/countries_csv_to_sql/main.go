package main

import (
	"os"

	"sndcds/uranus-tools/internal/cli"
)

func main() {
	os.Exit(cli.Execute(cli.NewCountriesCommand()))
}
