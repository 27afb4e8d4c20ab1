package queries

import (
	"context"
	"fmt"

	gocommand "github.com/goliatone/go-command"

	"github.com/gregt1993/Health-Bridge/components/healthboard"
	"github.com/gregt1993/Health-Bridge/pkg/states"
)

// SnapshotSource hands out the current entity-state table.
type SnapshotSource interface {
	Snapshot() states.Snapshot
}

type boardCard interface {
	Board() healthboard.Board
	OnSnapshotUpdate(ctx context.Context, snapshot states.Snapshot)
}

// BoardInput requests the resolved dashboard. Refresh forces a rebuild from
// a fresh snapshot instead of returning the last rendered board.
type BoardInput struct {
	Refresh bool
}

// BoardQuery resolves the grouped dashboard payload for transports.
type BoardQuery struct {
	card   boardCard
	source SnapshotSource
}

// NewBoardQuery builds the query.
func NewBoardQuery(card boardCard, source SnapshotSource) *BoardQuery {
	return &BoardQuery{card: card, source: source}
}

var _ gocommand.Querier[BoardInput, healthboard.Board] = (*BoardQuery)(nil)

// Query returns the card's board, optionally rebuilding it first.
func (q *BoardQuery) Query(ctx context.Context, input BoardInput) (healthboard.Board, error) {
	if q.card == nil {
		return healthboard.Board{}, fmt.Errorf("healthboard: board query requires a card")
	}
	if input.Refresh && q.source != nil {
		q.card.OnSnapshotUpdate(ctx, q.source.Snapshot())
	}
	return q.card.Board(), nil
}

// UserGroupInput identifies one user's group of metric cards.
type UserGroupInput struct {
	Key string
}

// UserGroupQuery fetches the metric cards of a single user.
type UserGroupQuery struct {
	card boardCard
}

// NewUserGroupQuery builds the query.
func NewUserGroupQuery(card boardCard) *UserGroupQuery {
	return &UserGroupQuery{card: card}
}

var _ gocommand.Querier[UserGroupInput, healthboard.UserGroup] = (*UserGroupQuery)(nil)

// Query resolves the group for the given key from the last rendered board.
func (q *UserGroupQuery) Query(_ context.Context, input UserGroupInput) (healthboard.UserGroup, error) {
	if q.card == nil {
		return healthboard.UserGroup{}, fmt.Errorf("healthboard: user group query requires a card")
	}
	for _, group := range q.card.Board().Groups {
		if group.Key == input.Key {
			return group, nil
		}
	}
	return healthboard.UserGroup{}, fmt.Errorf("healthboard: no metrics recorded for user %q", input.Key)
}
