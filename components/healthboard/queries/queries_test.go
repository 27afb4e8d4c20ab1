package queries

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/gregt1993/Health-Bridge/components/healthboard"
	"github.com/gregt1993/Health-Bridge/pkg/states"
)

type stubRenderer struct{}

func (stubRenderer) Render(name string, data any, _ ...io.Writer) (string, error) {
	return fmt.Sprintf("%s:%v", name, data), nil
}

func newBoardFixture(t *testing.T) (*healthboard.MetricsCard, *states.Registry) {
	t.Helper()
	registry := states.NewRegistry()
	registry.Set(states.EntityState{
		EntityID: "sensor.steps_alice",
		State:    "1200",
		Attributes: map[string]any{
			states.AttrFriendlyName: "Steps (alice)",
			states.AttrUnit:         "steps",
		},
	})
	card := healthboard.NewMetricsCard(healthboard.CardOptions{Renderer: stubRenderer{}})
	card.Configure(map[string]any{})
	return card, registry
}

func TestBoardQueryRefreshBuildsBoard(t *testing.T) {
	card, registry := newBoardFixture(t)
	query := NewBoardQuery(card, registry)

	board, err := query.Query(context.Background(), BoardInput{Refresh: true})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(board.Groups) != 1 || board.Groups[0].Key != "alice" {
		t.Fatalf("unexpected groups: %+v", board.Groups)
	}
}

func TestBoardQueryWithoutRefreshReturnsLastBoard(t *testing.T) {
	card, registry := newBoardFixture(t)
	query := NewBoardQuery(card, registry)

	board, err := query.Query(context.Background(), BoardInput{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(board.Groups) != 0 {
		t.Fatalf("expected empty board before any update, got %+v", board.Groups)
	}

	card.OnSnapshotUpdate(context.Background(), registry.Snapshot())
	board, err = query.Query(context.Background(), BoardInput{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(board.Groups) != 1 {
		t.Fatalf("expected board after update, got %+v", board.Groups)
	}
}

func TestBoardQueryRequiresCard(t *testing.T) {
	query := NewBoardQuery(nil, nil)
	if _, err := query.Query(context.Background(), BoardInput{}); err == nil {
		t.Fatal("expected error without card")
	}
}

func TestUserGroupQuery(t *testing.T) {
	card, registry := newBoardFixture(t)
	card.OnSnapshotUpdate(context.Background(), registry.Snapshot())
	query := NewUserGroupQuery(card)

	group, err := query.Query(context.Background(), UserGroupInput{Key: "alice"})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(group.Cards) != 1 || group.Cards[0].Name != "Steps" {
		t.Fatalf("unexpected group: %+v", group)
	}

	if _, err := query.Query(context.Background(), UserGroupInput{Key: "nobody"}); err == nil {
		t.Fatal("expected error for unknown user")
	}
}
