package memory

import (
	"context"
	"errors"
	"testing"

	diagram "sld-service/internal/diagram/domain"
)

func TestBoardRepositoryStoresCopies(t *testing.T) {
	repo := NewBoardRepository()
	ctx := context.Background()
	board := &diagram.Board{
		ID:       "board-1",
		TenantID: "tenant-a",
		Name:     "Garage",
		Circuits: []diagram.CircuitData{{CircuitNumber: 1, Name: "Sockets", RCDProtected: true, RCDRating: diagram.RCDmA(30)}},
	}
	if err := repo.Save(ctx, board); err != nil {
		t.Fatalf("save: %v", err)
	}
	board.Circuits[0].Name = "changed"
	*board.Circuits[0].RCDRating = 100

	loaded, err := repo.Get(ctx, "board-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded == nil || loaded.Circuits[0].Name != "Sockets" || *loaded.Circuits[0].RCDRating != 30 {
		t.Fatalf("repository did not keep an independent copy: %+v", loaded)
	}

	missing, err := repo.Get(ctx, "nope")
	if err != nil || missing != nil {
		t.Fatalf("expected nil board for missing id, got %+v, %v", missing, err)
	}
}

func TestBoardRepositoryListFiltersByTenant(t *testing.T) {
	repo := NewBoardRepository()
	ctx := context.Background()
	for _, b := range []diagram.Board{
		{ID: "b2", TenantID: "tenant-a", Name: "Kitchen"},
		{ID: "b1", TenantID: "tenant-a", Name: "Garage"},
		{ID: "b3", TenantID: "tenant-b", Name: "Office"},
	} {
		b := b
		if err := repo.Save(ctx, &b); err != nil {
			t.Fatalf("save %s: %v", b.ID, err)
		}
	}
	list, err := repo.List(ctx, "tenant-a")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "b1" || list[1].ID != "b2" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestBoardRepositoryRejectsInvalidBoards(t *testing.T) {
	repo := NewBoardRepository()
	if err := repo.Save(context.Background(), nil); !errors.Is(err, diagram.ErrNilBoard) {
		t.Fatalf("expected ErrNilBoard, got %v", err)
	}
	if err := repo.Save(context.Background(), &diagram.Board{ID: "x"}); !errors.Is(err, diagram.ErrInvalidBoard) {
		t.Fatalf("expected ErrInvalidBoard, got %v", err)
	}
}
