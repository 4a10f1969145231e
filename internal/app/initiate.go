package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/segmentio/kafka-go"
	"github.com/shandysiswandi/safemeet/internal/pkg/clock"
	"github.com/shandysiswandi/safemeet/internal/pkg/config"
	"github.com/shandysiswandi/safemeet/internal/pkg/goroutine"
	"github.com/shandysiswandi/safemeet/internal/pkg/hash"
	"github.com/shandysiswandi/safemeet/internal/pkg/idempotency"
	"github.com/shandysiswandi/safemeet/internal/pkg/instrument"
	"github.com/shandysiswandi/safemeet/internal/pkg/jwt"
	"github.com/shandysiswandi/safemeet/internal/pkg/mail"
	"github.com/shandysiswandi/safemeet/internal/pkg/messaging"
	"github.com/shandysiswandi/safemeet/internal/pkg/otp"
	"github.com/shandysiswandi/safemeet/internal/pkg/push"
	"github.com/shandysiswandi/safemeet/internal/pkg/router"
	"github.com/shandysiswandi/safemeet/internal/pkg/uid"
	"github.com/shandysiswandi/safemeet/internal/pkg/validator"
	"github.com/shandysiswandi/safemeet/internal/shared/credential"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

const (
	otpDigits        = 6
	minBcryptCost    = 10
	startupPingLimit = 5 * time.Second

	scopeFirebaseMessaging = "https://www.googleapis.com/auth/firebase.messaging"
	scopePubSub            = "https://www.googleapis.com/auth/pubsub"
)

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	if tz := cfg.GetString("app.tz"); tz != "" {
		//nolint:errcheck,gosec // ignore error
		os.Setenv("TZ", tz)
	}

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(context.Background(), &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
		LogLevel:         a.config.GetString("instrument.log_level"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))
	a.hmac = hash.NewHMACSHA256(a.config.GetString("hash.hmac.secret"))
	a.otp = otp.NewNumeric(otpDigits)

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator

	snow, err := uid.NewSnowflake()
	if err != nil {
		slog.Error("failed to init uid number snowflake", "error", err)
		os.Exit(1)
	}
	a.uid = snow

	cost := a.config.GetInt("hash.bcrypt.cost")
	if cost < minBcryptCost {
		cost = minBcryptCost
	}
	password, err := hash.NewPassword(hash.PasswordOptions{
		Algorithm:    a.config.GetString("hash.password"),
		BcryptCost:   cost,
		BcryptPepper: a.config.GetString("hash.bcrypt.pepper"),
		ArgonPepper:  a.config.GetString("hash.argon2id.pepper"),
	})
	if err != nil {
		slog.Error("failed to init password hash", "error", err)
		os.Exit(1)
	}
	a.password = password
}

func (a *App) initJWT() {
	defaultJWT, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(a.config.GetString("jwt.secret")),
		Issuer:    a.config.GetString("jwt.issuer"),
		Audiences: a.config.GetArray("jwt.audiences"),
		TTL:       a.config.GetMinute("jwt.ttl_minutes"),
		Clock:     a.clock,
		UUID:      a.uuid,
	})
	if err != nil {
		slog.Error("failed to init jwt token", "error", err)
		os.Exit(1)
	}
	a.jwt = defaultJWT
}

func (a *App) initDatabase() {
	driver := a.config.GetString("database.driver")
	store, err := credential.Open(a.ctx, credential.Config{
		Driver:   driver,
		URL:      a.config.GetString("database.url"),
		Database: a.config.GetString("database.name"),
		MaxConns: a.config.GetInt32("database.pool.max_conns"),
	}, credential.Deps{
		Clock:      a.clock,
		ID:         a.uid,
		Instrument: a.ins,
	})
	if err != nil {
		slog.Error("failed to open database", "driver", driver, "error", err)
		os.Exit(1)
	}

	pingCtx, cancel := context.WithTimeout(a.ctx, startupPingLimit)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		slog.Error("failed to ping DB", "driver", driver, "error", err)
		os.Exit(1)
	}

	a.store = store
}

func (a *App) initCache() {
	opt, err := redis.ParseURL(a.config.GetString("redis.url"))
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(a.ctx, startupPingLimit)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
	a.idemp = idempotency.New(a.cacheConn)
}

func (a *App) initMail() {
	driver := a.config.GetString("mail.driver")
	client, err := mail.New(driver, mail.SMTPConfig{
		Host:     a.config.GetString("mail.host"),
		Port:     a.config.GetInt("mail.port"),
		Username: a.config.GetString("mail.username"),
		Password: a.config.GetString("mail.password"),
		From:     a.config.GetString("mail.from"),
	})
	if err != nil {
		slog.Error("failed to init mail", "driver", driver, "error", err)
		os.Exit(1)
	}

	a.mail = client
}

func (a *App) initPush() {
	driver := strings.TrimSpace(a.config.GetString("push.driver"))

	var opts []option.ClientOption
	if driver == push.DriverFCM {
		opts = a.googleClientOptions("push.fcm", scopeFirebaseMessaging)
	}

	client, err := push.NewFromDriver(a.ctx, driver, push.FCMConfig{
		ProjectID:     a.config.GetString("push.fcm.project_id"),
		ClientOptions: opts,
	}, a.uuid)
	if err != nil {
		slog.Error("failed to init push", "driver", driver, "error", err)
		os.Exit(1)
	}

	if !client.Enabled() {
		slog.Warn("push provider is disabled, notifications will answer 503", "driver", driver)
	}

	a.push = client
}

// googleClientOptions reads credentials_file, credentials_json, endpoint and
// without_auth under prefix.
func (a *App) googleClientOptions(prefix string, scope string) []option.ClientOption {
	opts := []option.ClientOption{}

	if a.config.GetBool(prefix + ".without_auth") {
		opts = append(opts, option.WithoutAuthentication())
	}
	if v := strings.TrimSpace(a.config.GetString(prefix + ".credentials_file")); v != "" {
		// #nosec G304 -- path is from trusted config file.
		credsJSON, err := os.ReadFile(v)
		if err != nil {
			slog.Error("failed to read google credentials file", "prefix", prefix, "error", err)
			os.Exit(1)
		}
		creds, err := google.CredentialsFromJSON(a.ctx, credsJSON, scope)
		if err != nil {
			slog.Error("failed to parse google credentials file", "prefix", prefix, "error", err)
			os.Exit(1)
		}
		opts = append(opts, option.WithCredentials(creds))
	}
	if v := a.config.GetBinary(prefix + ".credentials_json"); len(v) > 0 {
		creds, err := google.CredentialsFromJSON(a.ctx, v, scope)
		if err != nil {
			slog.Error("failed to parse google credentials json", "prefix", prefix, "error", err)
			os.Exit(1)
		}
		opts = append(opts, option.WithCredentials(creds))
	}
	if v := strings.TrimSpace(a.config.GetString(prefix + ".endpoint")); v != "" {
		opts = append(opts, option.WithEndpoint(v))
	}

	return opts
}

func (a *App) initMessaging() {
	driver := strings.TrimSpace(a.config.GetString("messaging.driver"))

	var pubsubOpts []option.ClientOption
	if driver == messaging.DriverGooglePubSub {
		pubsubOpts = a.googleClientOptions("messaging.pubsub", scopePubSub)
	}

	client, err := messaging.NewFromDriver(a.ctx, driver, messaging.FactoryOptions{
		NSQ: messaging.NSQConfig{
			ProducerAddr:         a.config.GetString("messaging.nsq.producer_addr"),
			ConsumerNSQDAddrs:    a.config.GetArray("messaging.nsq.consumer_nsqd_addrs"),
			ConsumerLookupdAddrs: a.config.GetArray("messaging.nsq.consumer_lookupd_addrs"),
		},
		NATS: messaging.NATSConfig{
			URL: a.config.GetString("messaging.nats.url"),
			Options: []nats.Option{
				nats.Name(a.config.GetString("messaging.nats.name")),
				nats.MaxReconnects(a.config.GetInt("messaging.nats.max_reconnects")),
				nats.Timeout(a.config.GetSecond("messaging.nats.timeout_seconds")),
				nats.ReconnectWait(a.config.GetSecond("messaging.nats.reconnect_wait_seconds")),
				nats.RetryOnFailedConnect(a.config.GetBool("messaging.nats.retry_on_failed_connect")),
			},
		},
		Kafka: messaging.KafkaConfig{
			Brokers: a.config.GetArray("messaging.kafka.brokers"),
			Dialer: &kafka.Dialer{
				ClientID:  a.config.GetString("messaging.kafka.client_id"),
				Timeout:   a.config.GetSecond("messaging.kafka.dial_timeout_seconds"),
				DualStack: true,
			},
		},
		PubSub: messaging.PubSubConfig{
			ProjectID:     a.config.GetString("messaging.pubsub.project_id"),
			ClientOptions: pubsubOpts,
		},
	})
	if err != nil {
		slog.Error("failed to init messaging", "error", err, "driver", driver)
		os.Exit(1)
	}

	a.messaging = client
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		JWT:        a.jwt,
		Instrument: a.ins,
		Public:     publicRoutes(),
	})

	origins := a.config.GetArray("app.server.cors")
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Messaging",
			fn: func(context.Context) error {
				return a.messaging.Close()
			},
		},
		{
			name: "Push",
			fn: func(context.Context) error {
				return a.push.Close()
			},
		},
		{
			name: "Mail",
			fn: func(context.Context) error {
				return a.mail.Close()
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				return a.cacheConn.Close()
			},
		},
		{
			name: "Database",
			fn: func(context.Context) error {
				return a.store.Close()
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
