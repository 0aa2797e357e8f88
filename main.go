package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beka-birhanu/snake-duel/api"
	"github.com/beka-birhanu/snake-duel/api/auth"
	gameapi "github.com/beka-birhanu/snake-duel/api/game"
	api_i "github.com/beka-birhanu/snake-duel/api/i"
	sessionapi "github.com/beka-birhanu/snake-duel/api/session"
	settingsapi "github.com/beka-birhanu/snake-duel/api/settings"
	"github.com/beka-birhanu/snake-duel/config"
	"github.com/beka-birhanu/snake-duel/game"
	logger "github.com/beka-birhanu/snake-duel/infrastruture/log"
	"github.com/beka-birhanu/snake-duel/infrastruture/rendezvous"
	"github.com/beka-birhanu/snake-duel/infrastruture/replay"
	"github.com/beka-birhanu/snake-duel/infrastruture/repo"
	pb "github.com/beka-birhanu/snake-duel/protocol/pb_encoder"
	"github.com/beka-birhanu/snake-duel/service"
	"github.com/beka-birhanu/snake-duel/service/i"
	"github.com/beka-birhanu/snake-duel/udp"
	udppb "github.com/beka-birhanu/snake-duel/udp/pb_encoder"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Global variables for dependencies
var (
	envs        config.Config
	appLogger   *logger.Logger
	redisClient *redis.Client
	mongoClient *mongo.Client
	directory   i.Rendezvous
	transport   i.Transport
	resultRepo  i.ResultRepo
	recorder    i.Recorder
	configStore *service.ConfigStore
	session     *service.Session
	coordinator *service.Coordinator
	driver      *service.Driver
	controllers []api_i.Controller
	router      *api.Router
)

func newLogger(prefix, color string) *logger.Logger {
	l, err := logger.New(prefix, color, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating %s logger: %v", prefix, err))
		os.Exit(1)
	}
	return l
}

func initRendezvous(ctx context.Context) {
	if envs.RedisAddr == "" {
		directory = rendezvous.NewMemory(time.Duration(envs.RendezvousTTL) * time.Second)
		appLogger.Warning("REDIS_ADDR not set, peers are only found within this process")
		return
	}

	redisClient = redis.NewClient(&redis.Options{
		Addr:     envs.RedisAddr,
		Password: envs.RedisPassword,
		DB:       envs.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Error(fmt.Sprintf("Redis ping failed: %v", err))
		os.Exit(1)
	}

	var err error
	directory, err = rendezvous.NewRedis(redisClient, envs.RendezvousPrefix, envs.RendezvousTTL)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating redis rendezvous: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to Redis rendezvous")
}

func initTransport() {
	listenAddr := &net.UDPAddr{IP: net.ParseIP(envs.HostIP), Port: envs.UDPPort}
	var err error
	transport, err = udp.NewTransport(udp.Config{
		ListenAddr:    listenAddr,
		AdvertiseAddr: net.JoinHostPort(envs.AdvertiseIP, fmt.Sprint(envs.UDPPort)),
		Rendezvous:    directory,
		Encoder:       &udppb.Protobuf{},
	},
		udp.TransportWithLogger(newLogger("UDP", config.ColorBlue).Std()),
	)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating udp transport: %v", err))
		os.Exit(1)
	}
	appLogger.Info("UDP transport initialized")
}

func initMongo(ctx context.Context) {
	if envs.MongoURI == "" {
		resultRepo = repo.NewMemoryResultRepo()
		appLogger.Warning("MONGO_URI not set, match results are kept in memory")
		return
	}

	clientOptions := options.Client().ApplyURI(envs.MongoURI)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Failed to connect to MongoDB: %v", err))
		os.Exit(1)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Error(fmt.Sprintf("MongoDB ping failed: %v", err))
		os.Exit(1)
	}
	resultRepo = repo.NewResultRepo(mongoClient, envs.DBName, "results")
	appLogger.Info("Connected to MongoDB")
}

func initRecorder() {
	if envs.ReplayDir == "" {
		return
	}
	fr, err := replay.NewFileRecorder(envs.ReplayDir, replay.WithLogger(newLogger("REPLAY", config.ColorYellow).Std()))
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating replay recorder: %v", err))
		os.Exit(1)
	}
	recorder = fr
	appLogger.Info(fmt.Sprintf("Recording replays to %s", envs.ReplayDir))
}

func initConfigStore() {
	configStore = service.NewConfigStore(game.DefaultConfig())
	path := envs.GameConfigFile
	if path == "" {
		return
	}

	err := configStore.LoadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		appLogger.Info(fmt.Sprintf("Game config %s not found, using defaults", path))
	case err != nil:
		appLogger.Error(fmt.Sprintf("Loading game config: %v", err))
		os.Exit(1)
	}

	configStore.OnChange(func(game.Config) {
		if err := configStore.SaveFile(path); err != nil {
			appLogger.Error(fmt.Sprintf("Saving game config: %v", err))
		}
	})
}

func initCoordinator() {
	id := uuid.New()
	if envs.PeerID != "" {
		var err error
		if id, err = uuid.Parse(envs.PeerID); err != nil {
			appLogger.Error(fmt.Sprintf("PEER_ID is not a uuid: %v", err))
			os.Exit(1)
		}
	}

	sessionLogger := newLogger("SESSION", config.ColorCyan)
	session = service.NewSession(service.SessionConfig{ID: id, Transport: transport, Logger: sessionLogger})

	var err error
	coordinator, err = service.NewCoordinator(&service.CoordinatorConfig{
		Session:  session,
		Store:    configStore,
		Encoder:  &pb.Protobuf{},
		Recorder: recorder,
		Logger:   newLogger("DUEL", config.ColorMagenta),
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating coordinator: %v", err))
		os.Exit(1)
	}

	driver = service.NewDriver(coordinator,
		service.WithResultRepo(resultRepo),
		service.WithDriverLogger(newLogger("DRIVER", config.ColorPurple)),
	)
	appLogger.Info(fmt.Sprintf("Peer %s ready", id))
}

func initRouter() {
	gin.SetMode(envs.GinMode)
	controllers = []api_i.Controller{
		sessionapi.NewSessionController(driver),
		gameapi.NewGameController(driver, resultRepo),
		settingsapi.NewSettingsController(driver),
	}
	router = api.NewRouter(api.Config{
		Addr:                    net.JoinHostPort(envs.HostIP, fmt.Sprint(envs.RESTPort)),
		BaseURL:                 "/api",
		Controllers:             controllers,
		AuthorizationMiddleware: auth.RequireToken(envs.ControlToken),
	})
	if envs.ControlToken == "" {
		appLogger.Warning("CONTROL_TOKEN not set, control routes are open")
	}
	appLogger.Info("Router initialized")
}

func main() {
	initCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel() // Ensure the context is always canceled

	// Initialize dependencies
	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stdout)
	envs = config.Load()

	initRendezvous(initCtx)
	initTransport()
	initMongo(initCtx)
	initRecorder()
	initConfigStore()
	initCoordinator()
	initRouter()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go driver.Run(ctx)

	// Run HTTP server
	go func() {
		if err := router.Run(); err != nil {
			appLogger.Error(fmt.Sprintf("Starting server: %v", err))
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down")
	driver.Stop()
	<-driver.Done()

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCancel()
	if mongoClient != nil {
		_ = mongoClient.Disconnect(closeCtx)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
}
