package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/devinci/portal/internal/app"
	"github.com/devinci/portal/internal/config"
)

// shutdownTimeout ограничивает время на завершение активных запросов
const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("Портал остановлен с ошибкой: %v", err)
	}
}

// run собирает приложение и держит сервер до SIGINT/SIGTERM
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("загрузка конфигурации: %w", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("создание приложения: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Initialize(ctx); err != nil {
		return fmt.Errorf("инициализация: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		fmt.Printf("Портал слушает порт %s, backend: %s\n", cfg.Server.Port, cfg.Backend.BaseURL())
		if err := application.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		fmt.Println("Остановка портала...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return application.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Println("Портал остановлен")
	return nil
}
