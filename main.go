package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/kestrelmoor/dungeon-guardian/internal/config"
	"github.com/kestrelmoor/dungeon-guardian/internal/tui"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := tui.Run(cfg, zap.NewNop()); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
