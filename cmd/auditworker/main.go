// The audit worker drains admin action events from the platform bus into
// the audit trail. It exists so consoles can stay fire-and-forget about
// auditing: a console crash never loses events that already reached Kafka.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/kafka-go"

	"github.com/tripmate/console/internal/audit"
)

var (
	msgsConsumed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auditworker_messages_consumed_total",
		Help: "Total admin action events consumed",
	})
	msgsInvalid = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auditworker_messages_invalid_total",
		Help: "Total invalid events received",
	})
	storeAppends = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auditworker_store_appends_total",
		Help: "Total successful audit store appends",
	})
	storeErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auditworker_store_errors_total",
		Help: "Total audit store errors",
	})
)

func init() {
	prometheus.MustRegister(msgsConsumed, msgsInvalid, storeAppends, storeErrors)
}

func main() {
	var metricsAddr string
	flag.StringVar(&metricsAddr, "metrics-addr", ":2112", "address to serve prometheus metrics on")
	flag.Parse()

	brokersEnv := os.Getenv("KAFKA_BROKERS")
	brokers := []string{"localhost:9092"}
	if brokersEnv != "" {
		brokers = brokers[:0]
		for _, b := range strings.Split(brokersEnv, ",") {
			if s := strings.TrimSpace(b); s != "" {
				brokers = append(brokers, s)
			}
		}
	}

	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		topic = "admin-actions"
	}
	group := os.Getenv("KAFKA_GROUP")
	if group == "" {
		group = "console-audit"
	}

	var store audit.Store
	if dsn := os.Getenv("PG_DSN"); dsn != "" {
		ps, err := audit.NewPostgresStore(dsn)
		if err != nil {
			log.Fatalf("audit store: %v", err)
		}
		store = ps
	} else {
		log.Printf("PG_DSN not set, using in-memory store (audit trail lost on exit)")
		store = audit.NewMemoryStore()
	}

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
		log.Printf("metrics/health listening on %s", metricsAddr)
		if err := http.ListenAndServe(metricsAddr, mux); err != nil {
			log.Printf("metrics server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := kafka.NewReader(kafka.ReaderConfig{Brokers: brokers, Topic: topic, GroupID: group, MinBytes: 10e3, MaxBytes: 10e6})
	defer r.Close()

	log.Printf("auditworker listening topic=%s brokers=%v group=%s", topic, brokers, group)

	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Printf("shutting down")
				return
			}
			log.Printf("read error: %v (retrying in %s)", err, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return
			}
			if backoff < maxBackoff {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second
		msgsConsumed.Inc()

		var e audit.Entry
		if err := json.Unmarshal(m.Value, &e); err != nil || e.Action == "" {
			msgsInvalid.Inc()
			continue
		}
		if err := store.Append(e); err != nil {
			storeErrors.Inc()
			log.Printf("append error: %v", err)
			continue
		}
		storeAppends.Inc()
	}
}
