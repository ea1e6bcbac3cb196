package service

import (
	"context"
	"testing"

	"gemarcade/games/blackjack"
	"gemarcade/models"
	"gemarcade/rng"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func card(rank int) blackjack.Card {
	return blackjack.Card{Rank: rank, Suit: blackjack.Spades}
}

// scriptedSession deals the given hands; the last deck card is drawn first
func scriptedSession(player, dealer, deck []blackjack.Card, bet int64) *models.BlackjackSession {
	return &models.BlackjackSession{
		ID:        "hand-1",
		AccountID: "acc-1",
		Bet:       bet,
		State: blackjack.Hand{
			Deck:          deck,
			Player:        player,
			Dealer:        dealer,
			Status:        blackjack.StatusActive,
			DealerStandOn: blackjack.DefaultDealerStandOn,
		},
	}
}

func newBlackjackTest(session *models.BlackjackSession, balance int64) (*testUoW, *models.Account) {
	u := newTestUoW()
	account := testAccount("acc-1", balance)
	u.withAccount(account)
	u.repos.BlackjackSessions.On("GetByIDForUpdate", mock.Anything, session.ID).Return(session, nil)
	u.repos.BlackjackSessions.On("Update", mock.Anything, session).Return(nil).Maybe()
	return u, account
}

func TestBlackjackService_Start(t *testing.T) {
	ctx := context.Background()
	u := newTestUoW()
	u.expectCommit()
	u.withConfig(models.GameBlackjack, `{}`)
	u.withAccount(testAccount("acc-1", 500))
	u.repos.BlackjackSessions.On("Create", ctx, mock.AnythingOfType("*models.BlackjackSession")).Return(nil)

	expected, err := blackjack.Deal(rng.NewSeeded("deal"), blackjack.DefaultDealerStandOn)
	require.NoError(t, err)

	svc := NewBlackjackService(u.factory, newFakeRandom(rng.NewSeeded("deal")))
	view, err := svc.Start(ctx, "acc-1", 100)

	require.NoError(t, err)
	assert.Equal(t, expected.Status, view.View.Status)
	assert.Equal(t, expected.Player, view.View.Player)
	if expected.Status == blackjack.StatusActive {
		assert.True(t, view.View.HoleHidden)
		assert.Len(t, view.View.Dealer, 1)
		assert.Len(t, u.entries, 1)
		assert.Equal(t, int64(400), view.Balance)
	} else {
		assert.Len(t, u.entries, 2)
		assert.Equal(t, int64(650), view.Balance)
	}
}

func TestBlackjackService_StandWins(t *testing.T) {
	ctx := context.Background()
	session := scriptedSession(
		[]blackjack.Card{card(10), card(9)},
		[]blackjack.Card{card(10), card(7)},
		[]blackjack.Card{card(2), card(3)},
		100,
	)
	u, _ := newBlackjackTest(session, 400)
	u.expectCommit()

	svc := NewBlackjackService(u.factory, newFakeRandom(rng.NewSeeded("unused")))
	view, err := svc.Stand(ctx, "acc-1", "hand-1")

	require.NoError(t, err)
	assert.Equal(t, blackjack.StatusPlayerWin, view.View.Status)
	assert.False(t, view.View.HoleHidden)
	assert.Equal(t, int64(200), *view.Payout)
	assert.Equal(t, int64(600), view.Balance)
	require.Len(t, u.entries, 1)
	assert.Equal(t, models.TransactionTypeBlackjackPayout, u.entries[0].Type)
}

func TestBlackjackService_HitBusts(t *testing.T) {
	ctx := context.Background()
	session := scriptedSession(
		[]blackjack.Card{card(10), card(9)},
		[]blackjack.Card{card(10), card(7)},
		[]blackjack.Card{card(2), card(5)},
		100,
	)
	u, _ := newBlackjackTest(session, 400)
	u.expectCommit()

	svc := NewBlackjackService(u.factory, newFakeRandom(rng.NewSeeded("unused")))
	view, err := svc.Hit(ctx, "acc-1", "hand-1")

	require.NoError(t, err)
	assert.Equal(t, blackjack.StatusPlayerBust, view.View.Status)
	assert.Equal(t, int64(0), *view.Payout)
	assert.Empty(t, u.entries)

	_, err = svc.Stand(ctx, "acc-1", "hand-1")
	assert.ErrorIs(t, err, ErrRoundFinished)
}

func TestBlackjackService_Double(t *testing.T) {
	ctx := context.Background()
	session := scriptedSession(
		[]blackjack.Card{card(5), card(6)},
		[]blackjack.Card{card(10), card(7)},
		[]blackjack.Card{card(2), card(10)},
		100,
	)
	u, _ := newBlackjackTest(session, 500)
	u.expectCommit()

	svc := NewBlackjackService(u.factory, newFakeRandom(rng.NewSeeded("unused")))
	view, err := svc.Double(ctx, "acc-1", "hand-1")

	require.NoError(t, err)
	assert.True(t, view.View.Doubled)
	assert.Equal(t, int64(200), view.Bet)
	assert.Equal(t, blackjack.StatusPlayerWin, view.View.Status)
	assert.Equal(t, int64(400), *view.Payout)
	assert.Equal(t, int64(800), view.Balance)
	require.Len(t, u.entries, 2)
	assert.Equal(t, int64(-100), u.entries[0].Amount)
	assert.Equal(t, "double", u.entries[0].Metadata["action"])
	assert.Equal(t, int64(400), u.entries[1].Amount)
}

func TestBlackjackService_DoubleNeedsFunds(t *testing.T) {
	ctx := context.Background()
	session := scriptedSession(
		[]blackjack.Card{card(5), card(6)},
		[]blackjack.Card{card(10), card(7)},
		[]blackjack.Card{card(10)},
		100,
	)
	u, _ := newBlackjackTest(session, 50)

	svc := NewBlackjackService(u.factory, newFakeRandom(rng.NewSeeded("unused")))
	_, err := svc.Double(ctx, "acc-1", "hand-1")

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	u.uow.AssertNotCalled(t, "Commit")
}

func TestBlackjackService_DoubleAfterHit(t *testing.T) {
	ctx := context.Background()
	session := scriptedSession(
		[]blackjack.Card{card(2), card(3), card(4)},
		[]blackjack.Card{card(10), card(7)},
		[]blackjack.Card{card(10)},
		100,
	)
	u, _ := newBlackjackTest(session, 500)

	svc := NewBlackjackService(u.factory, newFakeRandom(rng.NewSeeded("unused")))
	_, err := svc.Double(ctx, "acc-1", "hand-1")

	assert.ErrorIs(t, err, ErrInvalidAction)
	assert.Empty(t, u.entries)
}
