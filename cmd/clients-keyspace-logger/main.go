package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"github.com/mohit83k/bngclients/internal/config"
	"github.com/mohit83k/bngclients/internal/logger"
	"github.com/mohit83k/bngclients/internal/redisclient"
)

// Redis must run with notify-keyspace-events including "Eghx" for these to fire.
var events = []string{
	"__keyevent@*__:hset",
	"__keyevent@*__:expired",
	"__keyevent@*__:del",
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()
	}()

	cfg := config.Load()
	log, err := logger.NewLogrusLogger(cfg.LogFilePath)
	if err != nil {
		panic("failed to init logger: " + err.Error())
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.RedisAddr,
		Password:        cfg.RedisPass,
		DB:              cfg.RedisDB,
		MaxRetries:      5,
		MinRetryBackoff: 100 * time.Millisecond,
		MaxRetryBackoff: 1 * time.Second,
	})
	defer rdb.Close()

	pubsub := rdb.PSubscribe(ctx, events...)
	log.Info("Started Redis subscriber for client key events")

	msgs := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			log.Info("Shutting down Redis subscriber")
			_ = pubsub.Close()
			return

		case msg, ok := <-msgs:
			if !ok {
				return
			}
			if !strings.HasPrefix(msg.Payload, redisclient.KeyPrefix) {
				continue
			}

			event := msg.Channel[strings.LastIndex(msg.Channel, ":")+1:]
			log.WithFields(map[string]any{
				"event": event,
				"mac":   strings.TrimPrefix(msg.Payload, redisclient.KeyPrefix),
				"key":   msg.Payload,
			}).Info("Client record event")
		}
	}
}
