package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"victorygoals/internal/adapter/eventbus/inprocess"
	memrepo "victorygoals/internal/adapter/repo/memory"
	luascript "victorygoals/internal/adapter/script/lua"
	worldmemory "victorygoals/internal/adapter/world/memory"
	"victorygoals/internal/app/tracker"
	"victorygoals/internal/domain/civ"
	"victorygoals/internal/domain/victory"
	"victorygoals/internal/platform/config"
)

func TestBuildStore_WithoutDSNUsesMemory(t *testing.T) {
	repo, tx, err := buildStore(context.Background(), config.Server{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("buildStore: %v", err)
	}
	if _, ok := repo.(memrepo.TransitionRepo); !ok {
		t.Fatalf("repo=%T want memory.TransitionRepo", repo)
	}
	if _, ok := tx.(memrepo.TxManager); !ok {
		t.Fatalf("tx=%T want memory.TxManager", tx)
	}
}

func TestRegisterGoals(t *testing.T) {
	w := worldmemory.NewWorld()
	w.AddPlayer(0, 0, true)
	w.AddPlayer(1, 1, true)

	regs, err := luascript.Loader{World: w}.LoadString("goals.lua", `
goals.add(0, Count.gold(100), 20, "Rich")
goals.add(1, Track.razes(2))
`)
	if err != nil {
		t.Fatalf("load goals: %v", err)
	}
	tr, err := tracker.New(tracker.Deps{World: w, Events: inprocess.NewBus()})
	if err != nil {
		t.Fatalf("tracker: %v", err)
	}
	defer tr.Close()

	if err := registerGoals(context.Background(), tr, regs); err != nil {
		t.Fatalf("registerGoals: %v", err)
	}
	status, err := tr.Status(context.Background(), tracker.StatusRequest{AllPlayers: true})
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if len(status.Goals) != 2 {
		t.Fatalf("goals=%d want 2", len(status.Goals))
	}
	if status.Goals[0].Name != "Rich" || status.Goals[0].Deadline != 20 {
		t.Fatalf("first goal=%+v", status.Goals[0])
	}
}

type refusingRegistrar struct{}

func (refusingRegistrar) Register(context.Context, tracker.RegisterRequest) (tracker.RegisterResponse, error) {
	return tracker.RegisterResponse{}, tracker.ErrInvalidRequest
}

func TestRegisterGoals_ReportsFailingGoal(t *testing.T) {
	g, err := victory.Count.Gold(10)
	if err != nil {
		t.Fatalf("goal: %v", err)
	}
	err = registerGoals(context.Background(), refusingRegistrar{}, []luascript.Registration{{Player: civ.PlayerID(1), Goal: g}})
	if !errors.Is(err, tracker.ErrInvalidRequest) {
		t.Fatalf("err=%v want ErrInvalidRequest", err)
	}
}
