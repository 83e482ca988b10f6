package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-oidc-authorize/authorize"
	fakeclientrepo "github.com/jrsteele09/go-oidc-authorize/clients/fakerepo"
	fakegrantrepo "github.com/jrsteele09/go-oidc-authorize/grants/repofakes"
	"github.com/jrsteele09/go-oidc-authorize/internal/config"
	fakeloginsessionrepo "github.com/jrsteele09/go-oidc-authorize/loginsessions/repofakes"
	"github.com/jrsteele09/go-oidc-authorize/server"
	fakesessiontokenrepo "github.com/jrsteele09/go-oidc-authorize/sessiontokens/repofake"
	faketenantrepo "github.com/jrsteele09/go-oidc-authorize/tenants/repofakes"
	fakeuserrepo "github.com/jrsteele09/go-oidc-authorize/users/repofake"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.New()
	if err != nil {
		return fmt.Errorf("config.New %w", err)
	}
	displayAppname(c.GetAppName())

	repos := authorize.Repos{
		Clients:       fakeclientrepo.NewFakeClientRepo(),
		Tenants:       faketenantrepo.NewFakeTenantRepo(),
		Grants:        fakegrantrepo.NewFakeGrantRepo(),
		LoginSessions: fakeloginsessionrepo.NewFakeLoginSessionRepo(),
		SessionTokens: fakesessiontokenrepo.NewFakeSessionTokenRepo(),
		Users:         fakeuserrepo.NewFakeUserRepo(),
	}

	srv, err := server.New(c, repos)
	if err != nil {
		return fmt.Errorf("server.New %w", err)
	}
	if _, err := srv.InitialiseSystem(); err != nil {
		return fmt.Errorf("server.InitialiseSystem %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
