package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"golang.org/x/term"

	"github.com/imbecility/ytmp3dl/pkg/gateway"
	"github.com/imbecility/ytmp3dl/pkg/logger"
	"github.com/imbecility/ytmp3dl/pkg/platform"
)

func main() {
	logger.SetupGlobal(false, false)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	svc, err := gateway.New(gateway.Config{
		EchoPrompts: term.IsTerminal(int(os.Stdin.Fd())),
	})
	if err != nil {
		fmt.Printf("Initialization failed: %v\n", err)
		os.Exit(1)
	}

	if err := svc.Run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, platform.ErrTranscoderMissing) {
			fmt.Println("Ffmpeg not found. If using Linux, install it first and try again. This application is untested on MacOS.")
			fmt.Println(err)
			stop()
			os.Exit(1)
		}
		slog.Error("Run failed", "err", err)
		stop()
		os.Exit(1)
	}
}
