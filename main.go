package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/theirongolddev/presu/cmd"
)

func main() {
	cmd.Execute()
}
