package main

import (
	"fmt"
	"log"
	"math/rand/v2"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beka-birhanu/snake-duel/config"
	"github.com/beka-birhanu/snake-duel/game"
	"github.com/beka-birhanu/snake-duel/infrastruture/rendezvous"
	msgpb "github.com/beka-birhanu/snake-duel/protocol/pb_encoder"
	"github.com/beka-birhanu/snake-duel/service"
	"github.com/beka-birhanu/snake-duel/udp"
	udppb "github.com/beka-birhanu/snake-duel/udp/pb_encoder"
	"github.com/google/uuid"

	logger "github.com/beka-birhanu/snake-duel/infrastruture/log"
)

// Two peers in one process duel over loopback UDP. Both steer at random.
func main() {
	dir := rendezvous.NewMemory(time.Minute)
	transport, err := udp.NewTransport(udp.Config{
		ListenAddr: &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)},
		Rendezvous: dir,
		Encoder:    &udppb.Protobuf{},
	},
		udp.TransportWithLogger(log.New(os.Stdout, "\n@Transport@------@", 1)),
		udp.TransportWithHeartbeatExpiration(2*time.Second),
	)
	if err != nil {
		fmt.Printf("error while creating transport: %s", err)
		return
	}

	host, err := newPeer("Host", config.ColorCyan, transport)
	if err != nil {
		fmt.Printf("error while creating host: %s", err)
		return
	}
	client, err := newPeer("Client", config.ColorPurple, transport)
	if err != nil {
		fmt.Printf("error while creating client: %s", err)
		return
	}

	if _, err := host.Host(); err != nil {
		fmt.Printf("error while hosting: %s", err)
		return
	}
	if _, err := client.Connect(host.Session().ID()); err != nil {
		fmt.Printf("error while connecting: %s", err)
		return
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	ticker := time.NewTicker(host.ActiveConfig().TickDuration())
	defer ticker.Stop()
	for {
		select {
		case <-quit:
			client.Disconnect()
			host.Disconnect()
			return
		case <-ticker.C:
			step(host)
			step(client)
		}
	}
}

func newPeer(name, color string, transport *udp.Transport) (*service.Coordinator, error) {
	l, err := logger.New(fmt.Sprintf("[%s] ", name), color, os.Stdout)
	if err != nil {
		return nil, err
	}
	cfg := game.DefaultConfig()
	cfg.TickDurationMs = 50
	cfg.StartDelay = 20

	return service.NewCoordinator(&service.CoordinatorConfig{
		Session: service.NewSession(service.SessionConfig{ID: uuid.New(), Transport: transport, Logger: l}),
		Store:   service.NewConfigStore(cfg),
		Encoder: &msgpb.Protobuf{},
		Logger:  l,
	})
}

func step(c *service.Coordinator) {
	dir := game.DirNone
	if rand.IntN(8) == 0 {
		dir = game.Direction(1 + rand.IntN(4))
	}

	snap := c.Tick(dir)
	for _, ev := range c.Events() {
		if ev.Kind == service.EventGameOver {
			fmt.Printf("\n%s round %d over at tick %d, scores %d:%d",
				c.Session().Role(), ev.Round, ev.Snapshot.Tick, ev.Snapshot.Snakes[game.SlotA].Score, scoreB(ev.Snapshot))
			if err := c.Rematch(); err != nil && c.Session().Role() == service.RoleHost {
				fmt.Printf("\nerror while starting rematch: %s", err)
			}
		}
	}
	if snap.Tick%100 == 0 && snap.Tick > 0 {
		fmt.Printf("\n%s phase %s tick %d checksum %016x", c.Session().Role(), c.Phase(), snap.Tick, snap.Checksum)
	}
}

func scoreB(s game.Snapshot) int {
	if len(s.Snakes) < 2 {
		return 0
	}
	return s.Snakes[game.SlotB].Score
}
