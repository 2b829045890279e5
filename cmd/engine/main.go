package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/piyushdaiya/seed-checker/internal/ledger"
)

func main() {
	_ = godotenv.Load()

	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.Println("🔹 [ENGINE] Starting Ledger Engine...")

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.Getenv("LEDGER_DB")
	}
	if dbPath == "" {
		dbPath = "./ledger.db"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := ledger.Open(ctx, dbPath)
	cancel()
	if err != nil {
		log.Fatal("❌ [ENGINE] DB Error:", err)
	}
	defer store.Close()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           newMux(store),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("✅ [ENGINE] Ledger %s available & listening on :%s", dbPath, port)
	log.Fatal(srv.ListenAndServe())
}
