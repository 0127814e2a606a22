package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/sugarwhisk/cupcake-shop/internal/app/client"
	"github.com/sugarwhisk/cupcake-shop/internal/app/config"
	"github.com/sugarwhisk/cupcake-shop/internal/app/handlers"
	"github.com/sugarwhisk/cupcake-shop/internal/app/notify"
	"github.com/sugarwhisk/cupcake-shop/internal/app/storage"
)

func Serve(cfg *config.Config) error {
	db, err := storage.Open(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := storage.RunMigrations(db); err != nil {
		return err
	}
	log.WithFields(log.Fields{"host": cfg.DBHost, "db": cfg.DBName}).Info("database ready")

	repo := storage.NewOrderRepo(db)
	mailClient := client.NewClient(cfg.EmailUser, cfg.EmailPass, cfg.SMTPAddr(), cfg.EmailFrom)
	notifier := notify.NewOrderNotifier(repo, mailClient, cfg.EmailTo)
	mux := handlers.NewBaseHandler(repo, notifier, cfg.AdminKey)

	server := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{"addr": cfg.ServerAddress}).Info("listening")
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.WithFields(log.Fields{"signal": sig.String()}).Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	}
}
