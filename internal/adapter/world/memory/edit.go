package memory

import (
	"errors"
	"fmt"

	"victorygoals/internal/app/ports"
	"victorygoals/internal/domain/civ"
)

var _ ports.WorldEditor = (*World)(nil)

func notFound(err error) error {
	if errors.Is(err, ErrUnknownPlayer) || errors.Is(err, ErrUnknownTeam) || errors.Is(err, ErrNoCity) {
		return fmt.Errorf("%w: %w", ports.ErrNotFound, err)
	}
	return err
}

func (w *World) EditPlayer(id civ.PlayerID, edit ports.PlayerEdit) error {
	err := w.UpdatePlayer(id, func(u *PlayerUpdate) {
		u.ChangeGold(edit.GoldDelta)
		if edit.GoldenAgeTurns != nil {
			u.SetGoldenAgeTurns(*edit.GoldenAgeTurns)
		}
		if edit.AnarchyTurns != nil {
			u.SetAnarchyTurns(*edit.AnarchyTurns)
		}
		if edit.TradeGold != nil {
			u.SetTradeGold(*edit.TradeGold)
		}
		for bonus, n := range edit.Bonuses {
			u.SetAvailableBonuses(bonus, n)
		}
	})
	return notFound(err)
}

func (w *World) EditCity(edit ports.CityEdit) (civ.City, error) {
	city, ok := w.CityAt(edit.At)
	switch {
	case !ok && edit.Owner == nil:
		return nil, notFound(fmt.Errorf("%w: %s", ErrNoCity, edit.At))
	case !ok:
		if _, err := w.FoundCity(*edit.Owner, edit.At); err != nil {
			return nil, notFound(err)
		}
	case edit.Owner != nil && city.Owner() != *edit.Owner:
		if _, err := w.AcquireCity(edit.At, *edit.Owner); err != nil {
			return nil, notFound(err)
		}
	}
	err := w.UpdateCity(edit.At, func(u *CityUpdate) {
		if edit.Culture != nil {
			u.SetCulture(*edit.Culture)
		}
		if edit.Population != nil {
			u.SetPopulation(*edit.Population)
		}
		for b, has := range edit.Buildings {
			u.SetBuilding(b, has)
		}
	})
	if err != nil {
		return nil, notFound(err)
	}
	city, _ = w.CityAt(edit.At)
	return city, nil
}
