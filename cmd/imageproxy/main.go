package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/trsv-dev/imageproxy/internal/config"
	"github.com/trsv-dev/imageproxy/internal/di_containers"
	"github.com/trsv-dev/imageproxy/internal/logger"
	"github.com/trsv-dev/imageproxy/internal/server"
)

// version Версия для подвала листинга, задается при сборке через -ldflags "-X main.version=...".
var version = "dev"

// "Сборка" и запуск проекта.
func main() {
	// recover для логирования паник в main
	defer func() {
		if r := recover(); r != nil {
			log.Println("Паника в main:", fmt.Sprintf("%v", r))
		}
	}()

	// загружаем переменные окружения из .env для локальной разработки
	if errEnv := godotenv.Load(".env"); errEnv != nil {
		log.Println("Не удалось загрузить .env:", errEnv)
	}

	// инициализация конфигурации сервера
	srvConfig := config.InitConfig()

	// инициализация логгера с уровнем логирования из конфигурации
	logger.InitLogger(srvConfig.LogLevel, srvConfig.LogOutput)
	// отложенное закрытие ресурса (актуально если используется файл для логирования)
	defer logger.Log.(*logger.SlogAdapter).Close()

	settingsFiles := srvConfig.SettingsFiles(os.LookupEnv)
	if len(settingsFiles) == 0 {
		logger.Log.Warn("Файл сайтов не задан, все запросы будут отклонены",
			logger.String("env", config.SettingsEnv))
	}

	settings, err := config.LoadSettings(settingsFiles...)
	if err != nil {
		logger.Log.Error("Не удалось загрузить конфигурацию сайтов", logger.Err(err))
		return
	}

	logger.Log.Info("Воркеры ресайза", logger.Int("count", srvConfig.ResizeWorkers))

	for _, site := range settings.Sites {
		logger.Log.Info("Сайт",
			logger.String("host", site.Name),
			logger.String("prefix", site.Prefix),
			logger.String("root", site.Root),
		)
	}

	// контекст воркеров ресайза
	workersCtx, workersCtxCancel := context.WithCancel(context.Background())
	defer workersCtxCancel()

	// контейнер зависимостей хендлера, внутри запускается пул воркеров ресайза
	handlersContainer, err := di_containers.NewHandlersContainer(workersCtx, srvConfig, settings, version)
	if err != nil {
		logger.Log.Error("Не удалось собрать зависимости", logger.Err(err))
		return
	}

	// создаем сервер и запускаем его
	srv, serverErrorCh := server.RunServer(srvConfig.RunAddress, handlersContainer)

	// канал системных сигналов
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop) // гарантированно перестанем слушать сигнал при выходе

	// SIGHUP перечитывает файлы сайтов
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	defer signal.Stop(reload)

	// блокируемся тут в ожидании одного из вариантов завершения работы сервера
wait:
	for {
		select {
		case err, ok := <-serverErrorCh:
			if !ok {
				logger.Log.Info("Канал ошибок сервера закрыт")
				return
			}
			logger.Log.Error("Ошибка сервера", logger.Err(err))
			break wait
		case <-reload:
			newSettings, loadErr := config.LoadSettings(settingsFiles...)
			if loadErr != nil {
				// остаемся на старой конфигурации
				logger.Log.Error("Не удалось перечитать конфигурацию сайтов", logger.Err(loadErr))
				continue
			}
			handlersContainer.Reload(newSettings)
		case sig := <-stop:
			logger.Log.Info("Получен сигнал остановки приложения", logger.String("sig", sig.String()))
			break wait
		}
	}

	logger.Log.Info("Начало процедуры остановки приложения...")

	// контекст для завершения работы сервера
	serverShutdownCtx, serverShutdownCancel := context.WithTimeout(context.Background(), 7*time.Second)
	defer serverShutdownCancel()

	// остановка сервера
	if err = srv.Shutdown(serverShutdownCtx); err != nil {
		logger.Log.Error("Ошибка остановки сервера", logger.Err(err))
	} else {
		logger.Log.Info("Сервер остановлен")
	}

	// сервер больше не принимает запросы, останавливаем воркеры
	handlersContainer.Close()
	logger.Log.Info("Воркеры остановлены")

	logger.Log.Info("Приложение завершено")
}
