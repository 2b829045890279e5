package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/piyushdaiya/seed-checker/internal/app"
)

func main() {
	// .env is optional; variables may come straight from the environment.
	_ = godotenv.Load()

	os.Exit(app.Run(context.Background(), os.Args[1:], os.Getenv, os.Stdout, os.Stderr))
}
