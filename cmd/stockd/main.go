package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Apurer/rocketshoes-cart/internal/app/stockd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := stockd.Run(ctx); err != nil {
		log.Fatalf("stockd exited: %v", err)
	}
}
