package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"accommodations/internal/clients"
	"accommodations/internal/config"
	"accommodations/internal/discovery"
	"accommodations/internal/events"
	"accommodations/internal/http/handlers"
	applog "accommodations/internal/log"
	"accommodations/internal/repos"
	"accommodations/internal/services"
	"accommodations/internal/telemetry"
)

type store interface {
	services.AccommodationStore
	Close() error
}

func openStore(cfg config.Config) (store, error) {
	if cfg.StoreDriver == "mongo" {
		m, err := repos.OpenMongo(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	return repos.NewAccommodationRepo(db), nil
}

func openPublisher(cfg config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return events.Noop{}
	}
	pub, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, nil)
	if err != nil {
		log.Printf("[warn] kafka unavailable, events disabled: %v", err)
		return events.Noop{}
	}
	return pub
}

func openResolver(cfg config.Config) (discovery.PeerResolver, error) {
	if cfg.Discovery == "dns" {
		return discovery.NewDNSResolver(cfg.DNSDomain), nil
	}
	return discovery.NewStaticResolver(cfg.Peers)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := applog.Tee(cfg.LogFile)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
		}
	}

	st, err := openStore(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.SeedDemo {
		n, err := services.SeedIfEmpty(context.Background(), st)
		if err != nil {
			log.Fatal(err)
		}
		if n > 0 {
			log.Printf("[seed] inserted %d demo accommodations", n)
		}
	}

	resolver, err := openResolver(cfg)
	if err != nil {
		log.Fatal(err)
	}
	pub := openPublisher(cfg)
	reg := telemetry.NewRegistry()

	bookings := clients.NewBookingsClient(cfg.BookingsURL, cfg.OutboundTimeout)
	directory := clients.NewDirectoryClient(resolver, cfg.UsersService, cfg.NotificationsService, cfg.OutboundTimeout)

	deps := handlers.NewDeps(st, bookings, directory, pub, reg)
	app := handlers.NewApp(cfg, deps)

	go func() {
		log.Printf("[http] listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("[http] listener stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("[http] shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("[http] shutdown: %v", err)
	}
	if err := pub.Close(); err != nil {
		log.Printf("[events] close: %v", err)
	}
	if err := st.Close(); err != nil {
		log.Printf("[store] close: %v", err)
	}
}
