package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"economy/internal/config"
	"economy/internal/plugin"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}

	logger, err := plugin.NewLogger(&cfg.Log)
	if err != nil {
		logrus.WithError(err).Fatal("build logger")
	}
	log := logrus.NewEntry(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p, err := plugin.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("start economy")
	}
	p.Start(ctx)

	var server *http.Server
	if p.Router != nil {
		server = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           p.Router,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.WithField("port", cfg.Server.Port).Info("admin api listening")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Fatal("admin api")
			}
		}()
	}

	go runConsole(ctx, p, os.Stdin, log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	cancel()

	if server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("admin api shutdown")
		}
	}

	if err := p.Close(); err != nil {
		log.WithError(err).Warn("economy close")
	}
	log.Info("bye")
}

// consoleSender is the server operator typing on stdin. It holds every
// permission and is never a player.
type consoleSender struct {
	out io.Writer
}

func (consoleSender) Name() string                { return "CONSOLE" }
func (consoleSender) PlayerID() (uuid.UUID, bool) { return uuid.Nil, false }
func (consoleSender) HasPermission(string) bool   { return true }
func (c consoleSender) SendMessage(msg string)    { fmt.Fprintln(c.out, msg) }

// runConsole reads lines such as "economy add Steve 10" or
// "join Steve <uuid>" until stdin closes.
func runConsole(ctx context.Context, p *plugin.Plugin, in io.Reader, log *logrus.Entry) {
	sender := consoleSender{out: os.Stdout}
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "economy", "/economy", "eco":
			p.Commands.Execute(ctx, sender, fields[1:])
		case "join":
			if len(fields) < 2 || len(fields) > 3 {
				sender.SendMessage("Usage: join <name> [uuid]")
				continue
			}
			id := uuid.New()
			if len(fields) == 3 {
				parsed, err := uuid.Parse(fields[2])
				if err != nil {
					sender.SendMessage("Invalid uuid")
					continue
				}
				id = parsed
			}
			if err := p.Listener.OnPlayerJoin(ctx, id, fields[1]); err != nil {
				log.WithError(err).Error("player join")
				continue
			}
			sender.SendMessage(fmt.Sprintf("%s joined as %s", fields[1], id))
		default:
			sender.SendMessage("Unknown command. Try: economy <subcommand> or join <name> [uuid]")
		}
	}
	if err := scanner.Err(); err != nil {
		log.WithError(err).Warn("console input")
	}
}
