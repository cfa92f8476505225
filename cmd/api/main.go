package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aidar/courtmatch/internal/app"
	"github.com/aidar/courtmatch/internal/config"
)

func main() {
	// Загружаем конфигурацию из переменных окружения и .env
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Не удалось загрузить конфигурацию", "error", err)
		os.Exit(1)
	}

	application, err := app.New(cfg)
	if err != nil {
		slog.Error("Не удалось создать приложение", "error", err)
		os.Exit(1)
	}

	// Применяем миграции, подключаем БД и Redis, настраиваем роутинг
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Initialize(ctx); err != nil {
		slog.Error("Не удалось инициализировать приложение", "error", err)
		os.Exit(1)
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := application.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	slog.Info("Сервер запущен", "port", cfg.Server.Port)

	// Ожидаем сигнал прерывания или падение сервера
	exitCode := 0
	select {
	case <-ctx.Done():
		slog.Info("Остановка сервера")
	case err := <-serverErr:
		slog.Error("Ошибка сервера", "error", err)
		exitCode = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		slog.Error("Не удалось корректно остановить сервер", "error", err)
		exitCode = 1
	}

	if exitCode != 0 {
		cancel()
		os.Exit(exitCode)
	}
	slog.Info("Сервер остановлен")
}
