// Command simulate plays one full round locally: a host, a handful of bot
// players, a discussion pass, a vote and ledger settlement against SQLite.
// Useful for exercising the engine without a Nakama runtime.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"liargame/internal/app"
	"liargame/internal/bot"
	"liargame/internal/config"
	"liargame/internal/domain"
	"liargame/internal/logging"
	"liargame/internal/ports/sqlledger"
)

func main() {
	players := flag.Int("players", 4, "number of players in the simulated room")
	dbPath := flag.String("db", ":memory:", "sqlite database path for the score ledger")
	debug := flag.Bool("debug", true, "verbose logging")
	flag.Parse()

	if err := run(*players, *dbPath, *debug); err != nil {
		fmt.Fprintf(os.Stderr, "simulate: %v\n", err)
		os.Exit(1)
	}
}

func run(players int, dbPath string, debug bool) error {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if players < cfg.MinPlayers {
		players = cfg.MinPlayers
	}

	log, err := logging.New(debug)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	ledger := sqlledger.New(db)
	if err := ledger.EnsureSchema(ctx); err != nil {
		return err
	}

	svc := app.NewService(cfg, ledger, nil, log, nil)
	roomID := uuid.NewString()
	if err := svc.CreateSession(roomID, "SIM"); err != nil {
		return err
	}

	agents := make(map[string]*bot.Agent, players)
	ids := make([]string, 0, players)
	for i := 0; i < players; i++ {
		id := fmt.Sprintf("sim-%d", i+1)
		ids = append(ids, id)
		agents[id] = bot.NewAgent(id, id, nil)
		if err := ledger.EnsurePlayer(ctx, id); err != nil {
			return err
		}
		if _, err := svc.PlayerJoined(roomID, id, id, true); err != nil {
			return err
		}
	}

	host := ids[0]
	events, err := svc.StartGame(roomID, host)
	if err != nil {
		return fmt.Errorf("start game: %w", err)
	}
	logEvents(log, events)

	// Discussion: every speaker takes one scripted turn.
	for {
		snap, err := svc.Snapshot(roomID)
		if err != nil {
			return err
		}
		if snap.Room.Phase != domain.PhaseDiscussion {
			break
		}
		agent := agents[snap.CurrentPlayer]
		view, err := svc.BotView(roomID, snap.CurrentPlayer)
		if err != nil {
			return err
		}
		events, err := svc.SubmitSpeech(roomID, snap.CurrentPlayer, agent.Speech(view.Category, view.KnowsKeyword))
		if err != nil {
			return err
		}
		logEvents(log, events)
	}

	// Voting: each player picks a random target.
	for _, id := range ids {
		view, err := svc.BotView(roomID, id)
		if err != nil {
			return err
		}
		if view.HasVoted {
			continue
		}
		events, err := svc.CastVote(ctx, roomID, id, agents[id].Vote(view.Candidates))
		if err != nil {
			return fmt.Errorf("vote by %s: %w", id, err)
		}
		logEvents(log, events)
	}

	for _, id := range ids {
		score, err := ledger.Score(ctx, id)
		if err != nil {
			return err
		}
		log.Info("final score: %s = %d", id, score)
	}
	return nil
}

func logEvents(log *logging.ZapLogger, events []app.Event) {
	for _, ev := range events {
		log.Info("event %s: %+v", ev.Kind, ev.Payload)
	}
}
