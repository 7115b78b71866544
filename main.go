package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"cry-classification/utils"

	"github.com/joho/godotenv"
	"github.com/mdobak/go-xerrors"
)

func main() {
	err := utils.CreateFolder("tmp")
	if err != nil {
		logger := utils.GetLogger()
		err := xerrors.New(err)
		ctx := context.Background()
		logger.ErrorContext(ctx, "Failed create tmp dir.", slog.Any("error", err))
	}

	if len(os.Args) < 2 {
		fmt.Println("Expected 'run' or 'history' subcommand")
		os.Exit(1)
	}
	_ = godotenv.Load()

	switch os.Args[1] {
	case "run":
		runCommand(os.Args[2:])
	case "history":
		historyCommand(os.Args[2:])
	default:
		fmt.Println("Expected 'run' or 'history' subcommand")
		os.Exit(1)
	}
}
