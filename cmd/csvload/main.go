package main

import (
	"github.com/rs/zerolog"

	"github.com/csvload/csvload/cmd/csvload/commands"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	commands.Execute()
}
