// import-save loads a browser local-storage export of the game into the server's save slot.
//
// Usage: go run ./cmd/import-save -db=<path> -file=<export.json> [-key=pokemarket_state] [-execute]
//
// The tool:
// 1. Reads the JSON blob the browser client stored under its save key
// 2. Converts camelCase fields, localized rarity labels and millisecond timestamps
// 3. Prints a summary and, with -execute, overwrites the save slot
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/gorm/logger"

	"github.com/codyseavey/pokemarket/internal/database"
)

func main() {
	dbPath := flag.String("db", "", "Path to SQLite database (required)")
	file := flag.String("file", "", "Path to the exported save blob (required)")
	key := flag.String("key", "pokemarket_state", "Save slot key")
	execute := flag.Bool("execute", false, "Write the converted save (default is a dry run)")
	flag.Parse()

	if *dbPath == "" || *file == "" {
		flag.Usage()
		os.Exit(1)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *file, err)
	}

	st, warnings, err := convertLegacy(data, time.Now())
	if err != nil {
		log.Fatalf("Failed to convert save: %v", err)
	}

	fmt.Printf("Tokens:        %d\n", st.Tokens)
	fmt.Printf("Cards:         %d (value %d)\n", len(st.Collection), st.CollectionValue())
	fmt.Printf("Squad:         %d\n", len(st.Deck))
	fmt.Printf("Pokedex:       %d\n", len(st.Pokedex))
	fmt.Printf("Transactions:  %d\n", len(st.TransactionHistory))
	fmt.Printf("Achievements:  %d\n", len(st.UnlockedAchievements))
	for _, w := range warnings {
		fmt.Printf("WARNING: %s\n", w)
	}

	if !*execute {
		fmt.Println("\nDry run - pass -execute to overwrite the save slot")
		return
	}

	db, err := database.Open(*dbPath, logger.Silent)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	repo := database.NewSaveRepository(db, *key)
	if err := repo.Save(context.Background(), st); err != nil {
		log.Fatalf("Failed to write save slot: %v", err)
	}
	fmt.Printf("\nImported save into slot %q\n", *key)
}
