package main

import (
	"github.com/sirupsen/logrus"

	"github.com/vancomm/crystal-levels/internal/config"
	"github.com/vancomm/crystal-levels/internal/database"
)

func main() {
	log, err := config.NewLogger()
	if err != nil {
		logrus.Fatal("unable to configure logging: ", err)
	}

	migrator, err := database.Migrate()
	if err != nil {
		log.Fatal("unable to migrate db: ", err)
	}
	defer migrator.Close()

	version, dirty, err := migrator.Version()
	if err != nil {
		log.WithError(err).Fatal("unable to check migration version")
	}
	log.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("migration successful")
}
