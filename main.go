package main

import (
	"github.com/joho/godotenv"

	"nlterm/cmd"
)

func main() {
	// Optional .env for resolver credentials; missing file is fine.
	_ = godotenv.Load()

	cmd.Execute()
}
