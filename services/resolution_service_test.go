package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palpitebox/bolao-system/engine"
	"github.com/palpitebox/bolao-system/live"
	"github.com/palpitebox/bolao-system/models"
	"github.com/palpitebox/bolao-system/repositories"
)

func intPtr(i int) *int { return &i }

type resolutionFixture struct {
	svc         ResolutionService
	tx          *fakeTxBeginner
	matches     repositories.MatchRepository
	predictions *fakePredictionRepo
	tickets     *fakeTicketRepo
	rounds      *fakeRoundRepo
	groups      *fakeGroupRepo
	jackpots    *fakeJackpotRepo
	standings   *fakeStandingRepo
	quiz        *fakeQuizRepo
}

func newResolutionFixture(t *testing.T, matches repositories.MatchRepository, rounds *fakeRoundRepo, jackpots *fakeJackpotRepo) *resolutionFixture {
	t.Helper()
	resolver, err := engine.NewResolver(engine.DefaultRules())
	require.NoError(t, err)

	f := &resolutionFixture{
		tx:          &fakeTxBeginner{},
		matches:     matches,
		predictions: newFakePredictionRepo(),
		tickets:     newFakeTicketRepo(10, 11),
		rounds:      rounds,
		groups:      newFakeGroupRepo(),
		jackpots:    jackpots,
		standings:   newFakeStandingRepo(),
		quiz:        newFakeQuizRepo(),
	}
	f.svc = NewResolutionService(
		f.tx,
		resolver,
		f.matches,
		f.predictions,
		f.tickets,
		f.rounds,
		f.groups,
		f.jackpots,
		f.standings,
		f.quiz,
		live.NewHub(discardLogger()),
		discardLogger(),
	)
	return f
}

func seedGroupMatch(t *testing.T, f *resolutionFixture) *models.MatchOutcome {
	t.Helper()
	f.groups.groups[1] = []int{100, 200, 300, 400}
	match := &models.MatchOutcome{
		CompetitionID: 1,
		RoundID:       intPtr(1),
		GroupID:       intPtr(1),
		HomeTeamID:    100,
		AwayTeamID:    200,
	}
	require.NoError(t, f.matches.Create(context.Background(), nil, match))
	return match
}

func TestSubmitMatchResult(t *testing.T) {
	ctx := context.Background()
	f := newResolutionFixture(t, newFakeMatchRepo(), newFakeRoundRepo(), newFakeJackpotRepo())
	match := seedGroupMatch(t, f)

	// Ticket 10 already holds 5 points from an earlier match.
	earlier := &models.Prediction{MatchID: 99, TicketID: 10, PredictedHome: 1, PredictedAway: 0}
	require.NoError(t, f.predictions.Create(ctx, nil, earlier))
	require.NoError(t, f.predictions.SetPointsOnce(ctx, nil, earlier.ID, 5))

	exact := &models.Prediction{MatchID: match.ID, TicketID: 10, PredictedHome: 2, PredictedAway: 1}
	miss := &models.Prediction{MatchID: match.ID, TicketID: 11, PredictedHome: 0, PredictedAway: 0}
	require.NoError(t, f.predictions.Create(ctx, nil, exact))
	require.NoError(t, f.predictions.Create(ctx, nil, miss))

	changeSet, err := f.svc.SubmitMatchResult(ctx, match.ID, 2, 1)
	require.NoError(t, err)

	require.Len(t, changeSet.PointDeltas, 2)
	assert.Equal(t, 5, changeSet.PointDeltas[0].Points)
	assert.Equal(t, 0, changeSet.PointDeltas[1].Points)

	// Totals are full resums: prior history plus this match.
	require.Len(t, changeSet.TicketTotals, 2)
	assert.Equal(t, 10, changeSet.TicketTotals[0].TotalPoints)
	assert.Equal(t, 0, changeSet.TicketTotals[1].TotalPoints)

	// Every registered team has a standings row after one match.
	require.NotNil(t, changeSet.Standings)
	assert.Len(t, changeSet.Standings, 4)

	// The change-set landed: match finished, points set, caches refreshed,
	// snapshot written, transaction committed.
	stored, err := f.matches.GetByID(ctx, match.ID)
	require.NoError(t, err)
	assert.True(t, stored.Finished)
	assert.True(t, f.predictions.predictions[exact.ID].Scored())
	assert.Equal(t, 10, f.tickets.tickets[10].TotalPoints)
	assert.Len(t, f.standings.byGroup[1], 4)
	require.NotNil(t, f.tx.last)
	assert.True(t, f.tx.last.committed)

	// Resubmission is rejected outright.
	_, err = f.svc.SubmitMatchResult(ctx, match.ID, 2, 1)
	assert.ErrorIs(t, err, ErrResultAlreadyEntered)
}

// losingMatchRepo simulates losing the finish race: the pre-read sees an
// open match but the conditional update finds it already finished.
type losingMatchRepo struct {
	*fakeMatchRepo
}

func (r losingMatchRepo) FinishOnce(context.Context, repositories.SQLExecutor, int, int, int) error {
	return repositories.ErrMatchAlreadyScored
}

func TestSubmitMatchResultLosesFinishRace(t *testing.T) {
	ctx := context.Background()
	f := newResolutionFixture(t, losingMatchRepo{newFakeMatchRepo()}, newFakeRoundRepo(), newFakeJackpotRepo())
	match := seedGroupMatch(t, f)

	pred := &models.Prediction{MatchID: match.ID, TicketID: 10, PredictedHome: 2, PredictedAway: 1}
	require.NoError(t, f.predictions.Create(ctx, nil, pred))

	_, err := f.svc.SubmitMatchResult(ctx, match.ID, 2, 1)
	assert.ErrorIs(t, err, ErrResultAlreadyEntered)

	// Nothing else from the change-set may land.
	assert.False(t, f.predictions.predictions[pred.ID].Scored())
	assert.Zero(t, f.tickets.tickets[10].TotalPoints)
	assert.Empty(t, f.standings.byGroup[1])
	require.NotNil(t, f.tx.last)
	assert.True(t, f.tx.last.rolledBack)
	assert.False(t, f.tx.last.committed)
}

func TestSubmitMatchResultValidation(t *testing.T) {
	ctx := context.Background()
	f := newResolutionFixture(t, newFakeMatchRepo(), newFakeRoundRepo(), newFakeJackpotRepo())
	match := seedGroupMatch(t, f)

	_, err := f.svc.SubmitMatchResult(ctx, match.ID, -1, 0)
	assert.ErrorIs(t, err, ErrInvalidScoreline)

	_, err = f.svc.SubmitMatchResult(ctx, 999, 1, 0)
	assert.ErrorIs(t, err, ErrMatchNotFound)

	// A prediction that already carries points means the match was
	// resolved before; the engine error maps to the conflict sentinel.
	scored := &models.Prediction{MatchID: match.ID, TicketID: 10, PredictedHome: 1, PredictedAway: 1}
	require.NoError(t, f.predictions.Create(ctx, nil, scored))
	require.NoError(t, f.predictions.SetPointsOnce(ctx, nil, scored.ID, 3))
	_, err = f.svc.SubmitMatchResult(ctx, match.ID, 1, 1)
	assert.ErrorIs(t, err, ErrResultAlreadyEntered)
}

func TestSubmitMatchResultDecisiveJackpot(t *testing.T) {
	ctx := context.Background()
	match := &models.MatchOutcome{CompetitionID: 1, RoundID: intPtr(3), HomeTeamID: 100, AwayTeamID: 200}
	matchRepo := newFakeMatchRepo()
	require.NoError(t, matchRepo.Create(ctx, nil, match))

	rounds := newFakeRoundRepo(&models.Round{
		ID:              3,
		CompetitionID:   1,
		Number:          3,
		Format:          models.RoundFormatSingleDecisive,
		Status:          models.RoundStatusOpen,
		DecisiveMatchID: intPtr(match.ID),
		FavoredTeamID:   intPtr(100),
	})
	jackpots := newFakeJackpotRepo(&models.JackpotState{CompetitionID: 1, RoundNumber: 3, Accumulated: 50_00, PreviousAccumulated: 120_00})
	f := newResolutionFixture(t, matchRepo, rounds, jackpots)

	exact := &models.Prediction{MatchID: match.ID, TicketID: 10, PredictedHome: 2, PredictedAway: 1}
	require.NoError(t, f.predictions.Create(ctx, nil, exact))

	changeSet, err := f.svc.SubmitMatchResult(ctx, match.ID, 2, 1)
	require.NoError(t, err)

	require.NotNil(t, changeSet.Jackpot)
	assert.Equal(t, []int{10}, changeSet.Jackpot.Winners)

	resolved, err := f.jackpots.GetByRound(ctx, 1, 3)
	require.NoError(t, err)
	assert.True(t, resolved.Resolved)

	// The next round's pool opened clean in the same transaction.
	next, err := f.jackpots.GetByRound(ctx, 1, 4)
	require.NoError(t, err)
	assert.False(t, next.Resolved)
	assert.Zero(t, next.PreviousAccumulated)
}

func newQuizFixture(t *testing.T, jackpots *fakeJackpotRepo) *resolutionFixture {
	t.Helper()
	rounds := newFakeRoundRepo(
		&models.Round{ID: 7, CompetitionID: 1, Number: 2, Format: models.RoundFormatThresholdQuiz, Status: models.RoundStatusOpen},
		&models.Round{ID: 8, CompetitionID: 1, Number: 1, Format: models.RoundFormatGroupStage, Status: models.RoundStatusOpen},
	)
	return newResolutionFixture(t, newFakeMatchRepo(), rounds, jackpots)
}

func TestFinalizeQuizRound(t *testing.T) {
	ctx := context.Background()
	jackpots := newFakeJackpotRepo(&models.JackpotState{CompetitionID: 1, RoundNumber: 2, Accumulated: 20_00, PreviousAccumulated: 15_00})
	f := newQuizFixture(t, jackpots)

	f.tickets.tickets[10].QuizPoints = 9
	f.tickets.tickets[11].QuizPoints = 3
	f.quiz.counts[7] = map[int]int{10: 2, 11: 4} // 10 crosses the threshold

	changeSet, err := f.svc.FinalizeQuizRound(ctx, 7)
	require.NoError(t, err)

	assert.Equal(t, []int{10}, changeSet.Jackpot.Winners)
	assert.Equal(t, 11, changeSet.QuizTotals[10])
	assert.Equal(t, 7, changeSet.QuizTotals[11])

	// Running totals persisted, round flipped, pool resolved.
	assert.Equal(t, 11, f.tickets.tickets[10].QuizPoints)
	assert.Equal(t, 7, f.tickets.tickets[11].QuizPoints)
	resolved, err := f.jackpots.GetByRound(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, resolved.Resolved)
	require.NotNil(t, f.tx.last)
	assert.True(t, f.tx.last.committed)

	_, err = f.svc.FinalizeQuizRound(ctx, 7)
	assert.ErrorIs(t, err, ErrRoundAlreadyFinalized)
}

func TestFinalizeQuizRoundPreconditions(t *testing.T) {
	ctx := context.Background()
	jackpots := newFakeJackpotRepo(&models.JackpotState{CompetitionID: 1, RoundNumber: 2})
	f := newQuizFixture(t, jackpots)

	_, err := f.svc.FinalizeQuizRound(ctx, 999)
	assert.ErrorIs(t, err, ErrRoundNotFound)

	_, err = f.svc.FinalizeQuizRound(ctx, 8)
	assert.ErrorIs(t, err, ErrRoundNotQuiz)

	f.quiz.pending[7] = 1
	_, err = f.svc.FinalizeQuizRound(ctx, 7)
	assert.ErrorIs(t, err, ErrRoundNotComplete)

	// An unanswered question blocks finalization before any write.
	round, err := f.rounds.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, models.RoundStatusOpen, round.Status)
}

func TestFinalizeQuizRoundCarryToleratesOpenNextRound(t *testing.T) {
	ctx := context.Background()
	jackpots := newFakeJackpotRepo(
		&models.JackpotState{CompetitionID: 1, RoundNumber: 2, Accumulated: 20_00, PreviousAccumulated: 15_00},
		&models.JackpotState{CompetitionID: 1, RoundNumber: 3, Accumulated: 5_00},
	)
	f := newQuizFixture(t, jackpots)

	f.quiz.counts[7] = map[int]int{10: 1} // nobody crosses

	changeSet, err := f.svc.FinalizeQuizRound(ctx, 7)
	require.NoError(t, err)
	assert.True(t, changeSet.Jackpot.CarriedOver)

	// The carried total landed on the finalized round; the already-open
	// next round row is left untouched rather than failing the commit.
	current, err := f.jackpots.GetByRound(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(35_00), current.Accumulated)
	assert.Zero(t, current.PreviousAccumulated)

	next, err := f.jackpots.GetByRound(ctx, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5_00), next.Accumulated)
	require.NotNil(t, f.tx.last)
	assert.True(t, f.tx.last.committed)
}
