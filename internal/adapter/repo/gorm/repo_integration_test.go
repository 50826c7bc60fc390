package gormrepo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	migrations "victorygoals/db"
	"victorygoals/internal/app/ports"
	"victorygoals/internal/domain/victory"
)

var _ ports.TransitionRepository = TransitionRepo{}
var _ ports.TxManager = TxManager{}

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("VICTORY_DB_DSN")
	if dsn == "" {
		t.Skip("VICTORY_DB_DSN is required for integration test")
	}
	return dsn
}

func TestTransitionRepo_AppendAndList(t *testing.T) {
	dsn := requireDSN(t)
	ctx := context.Background()
	db, err := OpenPostgres(ctx, dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if _, err := ApplyMigrations(ctx, db, migrations.Migrations()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	const player = 9001
	_ = db.Exec("DELETE FROM goal_transitions WHERE player_id = ?", player).Error

	repo := NewTransitionRepo(db)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	err = NewTxManager(db).RunInTx(ctx, func(txCtx context.Context) error {
		return repo.Append(txCtx, []ports.TransitionRecord{
			{GoalID: "it-a", Goal: "Count.gold", Player: player, From: victory.StatePossible, To: victory.StateSuccess, Turn: 10, At: base},
			{GoalID: "it-b", Goal: "Track.razes", Player: player, From: victory.StatePossible, To: victory.StateFailure, Turn: 20, At: base.Add(time.Minute)},
		})
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := repo.ListByPlayer(ctx, player, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].GoalID != "it-b" || got[0].To != victory.StateFailure || got[0].Turn != 20 {
		t.Fatalf("unexpected newest record: %+v", got[0])
	}

	limited, err := repo.ListByPlayer(ctx, player, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("expected one limited record, got %d err=%v", len(limited), err)
	}

	err = repo.Append(ctx, []ports.TransitionRecord{
		{GoalID: "it-a", Goal: "Count.gold", Player: player, From: victory.StatePossible, To: victory.StateSuccess, Turn: 10, At: base},
	})
	if !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict for repeated transition, got %v", err)
	}
}

func TestApplyMigrations_IsIdempotent(t *testing.T) {
	dsn := requireDSN(t)
	ctx := context.Background()
	db, err := OpenPostgres(ctx, dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if _, err := ApplyMigrations(ctx, db, migrations.Migrations()); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	applied, err := ApplyMigrations(ctx, db, migrations.Migrations())
	if err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if len(applied) != 0 {
		t.Fatalf("expected nothing to apply, got %v", applied)
	}
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	dsn := requireDSN(t)
	ctx := context.Background()
	db, err := OpenPostgres(ctx, dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if _, err := ApplyMigrations(ctx, db, migrations.Migrations()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	const player = 9002
	_ = db.Exec("DELETE FROM goal_transitions WHERE player_id = ?", player).Error

	repo := NewTransitionRepo(db)
	boom := errors.New("boom")
	err = NewTxManager(db).RunInTx(ctx, func(txCtx context.Context) error {
		if err := repo.Append(txCtx, []ports.TransitionRecord{
			{GoalID: "it-rollback", Goal: "Count.gold", Player: player, To: victory.StateSuccess, At: time.Now()},
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	got, err := repo.ListByPlayer(ctx, player, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected rollback, got %d records", len(got))
	}
}
