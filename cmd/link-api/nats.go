// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain/models"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/infrastructure/store"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/logging"
)

const (
	natsConnTimeout     = 10 * time.Second
	natsReconnectWait   = 2 * time.Second
	natsMaxReconnects   = -1 // retry forever
	gracefulShutdownMax = 25 * time.Second
)

// setupNATS connects to the NATS server. The connection's closed handler
// participates in graceful shutdown: a connection that closes on its own
// terminates the process.
func setupNATS(ctx context.Context, env environment, gracefulCloseWG *sync.WaitGroup, done chan os.Signal) (*nats.Conn, error) {
	gracefulCloseWG.Add(1)

	natsConn, err := nats.Connect(
		env.NatsURL,
		nats.Name("connecthealth-links-api"),
		nats.Timeout(natsConnTimeout),
		nats.ReconnectWait(natsReconnectWait),
		nats.MaxReconnects(natsMaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.With(logging.ErrKey, err).Warn("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			slog.With("url", c.ConnectedUrl()).Info("NATS reconnected")
		}),
		nats.ClosedHandler(func(c *nats.Conn) {
			gracefulCloseWG.Done()
			if ctx.Err() == nil {
				// The connection closed outside of a shutdown; bail out.
				slog.Error("NATS connection closed unexpectedly")
				done <- os.Interrupt
			}
		}),
	)
	if err != nil {
		gracefulCloseWG.Done()
		return nil, err
	}

	slog.With("url", natsConn.ConnectedUrl()).Debug("connected to NATS")
	return natsConn, nil
}

// repositories holds the service's key-value backed repositories.
type repositories struct {
	Link   *store.NatsLinkRepository
	Report *store.NatsReportRepository
}

// getKeyValueStores binds the JetStream key-value buckets, creating any that
// don't exist yet.
func getKeyValueStores(ctx context.Context, natsConn *nats.Conn) (*repositories, error) {
	js, err := jetstream.New(natsConn)
	if err != nil {
		return nil, err
	}

	buckets := map[string]jetstream.KeyValue{}
	for _, name := range []string{store.KVStoreNameLinks, store.KVStoreNameReports} {
		kv, err := js.KeyValue(ctx, name)
		if errors.Is(err, jetstream.ErrBucketNotFound) {
			kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{Bucket: name})
		}
		if err != nil {
			return nil, err
		}
		buckets[name] = kv
	}

	return &repositories{
		Link:   store.NewNatsLinkRepository(buckets[store.KVStoreNameLinks]),
		Report: store.NewNatsReportRepository(buckets[store.KVStoreNameReports]),
	}, nil
}

// natsMessage adapts a *nats.Msg to the domain.Message interface.
type natsMessage struct {
	msg *nats.Msg
}

func (m *natsMessage) Subject() string           { return m.msg.Subject }
func (m *natsMessage) Data() []byte              { return m.msg.Data }
func (m *natsMessage) Respond(data []byte) error { return m.msg.Respond(data) }
func (m *natsMessage) HasReply() bool            { return m.msg.Reply != "" }

// createNatsSubscriptions subscribes the message handler to the service's
// request subjects using a queue group so replicas share the load.
func createNatsSubscriptions(ctx context.Context, handler domain.MessageHandler, natsConn *nats.Conn) error {
	subjects := []string{
		models.LinkSanitizeSubject,
		models.LinkClassifySubject,
		models.LinkGetTitleSubject,
	}

	for _, subject := range subjects {
		_, err := natsConn.QueueSubscribe(subject, models.LinksAPIQueue, func(msg *nats.Msg) {
			handler.HandleMessage(ctx, &natsMessage{msg: msg})
		})
		if err != nil {
			return err
		}
		slog.With("subject", subject, "queue", models.LinksAPIQueue).Debug("subscribed to NATS subject")
	}

	return nil
}

// gracefulShutdown drains the HTTP server and the NATS connection, waiting for
// both to confirm before returning.
func gracefulShutdown(httpServer *http.Server, natsConn *nats.Conn, gracefulCloseWG *sync.WaitGroup, cancel context.CancelFunc) {
	slog.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownMax)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.With(logging.ErrKey, err).Error("error shutting down http server")
	}
	gracefulCloseWG.Done()

	if natsConn != nil && !natsConn.IsClosed() {
		// Drain unsubscribes, flushes pending messages, then closes the
		// connection, which fires the closed handler.
		if err := natsConn.Drain(); err != nil {
			slog.With(logging.ErrKey, err).Error("error draining NATS connection")
			natsConn.Close()
		}
	}

	waitDone := make(chan struct{})
	go func() {
		gracefulCloseWG.Wait()
		close(waitDone)
	}()

	select {
	case <-waitDone:
		slog.Info("shutdown complete")
	case <-shutdownCtx.Done():
		slog.Warn("shutdown timed out")
	}
}
