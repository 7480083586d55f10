// Command server runs a gin HTTP server with error reporting configured
// from the "options" section of an INI config file.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/gamenotifier/srvsentry"
)

func main() {
	configPath := pflag.StringP("config", "c", "./server.conf", "path to the server config file")
	addr := pflag.String("addr", ":8069", "address to listen on")
	section := pflag.String("section", "options", "config file section holding the sentry_* keys")
	pflag.Parse()

	src, err := srvsentry.NewViperSource(*configPath, *section)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           newRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	reporter, err := srvsentry.Init(src, srvsentry.WithServer(srv))
	if err != nil {
		logrus.WithError(err).Fatal("failed to init error reporting")
	}
	log := reporter.NewLogger("server")

	go func() {
		log.WithField("address", srv.Addr).Info("http server listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("failed to listen and serve http server")
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	<-sigint

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("failed to shutdown http server")
	}
	reporter.Flush(2 * time.Second)
	log.Info("server gracefully shutdown")
}

func newRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())

	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	router.GET("/panic", func(*gin.Context) {
		panic("requested panic")
	})

	return router
}
