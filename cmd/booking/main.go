package main

import (
	"context"

	"github.com/joho/godotenv"

	"urbarber/internal/booking/handler"
	"urbarber/internal/booking/repository"
	"urbarber/internal/booking/service"
	"urbarber/internal/booking/validator"
	"urbarber/internal/notify"
	"urbarber/pkg/app"
	"urbarber/pkg/config"
	"urbarber/pkg/kafka"
)

const ServiceName = "booking"

func main() {
	godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.LogConfiguration()

	cfg.Log.Info("Starting booking service")
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)

	ensureIndexes(cfg)

	scheduler, producer := initScheduler(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
		handler.NewBookingHandler(scheduler, cfg.Timezone, cfg.Log),
	)
	serverApp.Run()

	if producer != nil {
		if err := producer.Close(); err != nil {
			cfg.Log.Warn("Failed to close Kafka producer", "error", err)
		}
	}
}

func initScheduler(cfg *config.Config) (service.BookingScheduler, *kafka.Producer) {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	calendarStore := repository.NewMongoCalendarStore(cfg)
	lockRepo := repository.NewMongoSlotLockRepository(cfg)

	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		var err error
		producer, err = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
		}
		cfg.Log.Info("Kafka producer initialized", "topic", cfg.KafkaTopic)
	}
	notifier := notify.NewService(cfg, producer)

	scheduler := service.NewBookingScheduler(
		calendarStore,
		lockRepo,
		bookingValidator,
		notifier,
		cfg,
	)

	cfg.Log.Info("Booking scheduler initialized",
		"database", cfg.MongoDatabaseName,
		"calendar_id", cfg.CalendarID,
	)
	return scheduler, producer
}

func ensureIndexes(cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
	defer cancel()

	if err := repository.EnsureEventIndexes(ctx, cfg); err != nil {
		cfg.Log.Fatal("Failed to ensure calendar event indexes", "error", err)
	}
	if err := repository.EnsureLockIndexes(ctx, cfg); err != nil {
		cfg.Log.Fatal("Failed to ensure slot lock indexes", "error", err)
	}
}
