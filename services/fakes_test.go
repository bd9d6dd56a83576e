package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"

	"github.com/palpitebox/bolao-system/models"
	"github.com/palpitebox/bolao-system/repositories"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTx satisfies repositories.Tx without a database. The fake repos
// ignore their executor argument, so the executor methods are never hit.
type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback() error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeTxBeginner struct {
	last *fakeTx
}

func (b *fakeTxBeginner) BeginTx(context.Context, *sql.TxOptions) (repositories.Tx, error) {
	b.last = &fakeTx{}
	return b.last, nil
}

type fakeMatchRepo struct {
	matches map[int]*models.MatchOutcome
	nextID  int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[int]*models.MatchOutcome), nextID: 1}
}

func (f *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, match *models.MatchOutcome) error {
	match.ID = f.nextID
	f.nextID++
	stored := *match
	f.matches[match.ID] = &stored
	return nil
}

func (f *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.MatchOutcome, error) {
	match, ok := f.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *match
	return &copied, nil
}

func (f *fakeMatchRepo) ListFinishedByGroup(_ context.Context, groupID int) ([]models.MatchOutcome, error) {
	out := make([]models.MatchOutcome, 0)
	for id := 1; id < f.nextID; id++ {
		m, ok := f.matches[id]
		if ok && m.Finished && m.GroupID != nil && *m.GroupID == groupID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMatchRepo) ListByRound(_ context.Context, roundID int) ([]models.MatchOutcome, error) {
	out := make([]models.MatchOutcome, 0)
	for id := 1; id < f.nextID; id++ {
		m, ok := f.matches[id]
		if ok && m.RoundID != nil && *m.RoundID == roundID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMatchRepo) FinishOnce(_ context.Context, _ repositories.SQLExecutor, id, homeScore, awayScore int) error {
	match, ok := f.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	if match.Finished {
		return repositories.ErrMatchAlreadyScored
	}
	match.HomeScore = homeScore
	match.AwayScore = awayScore
	match.Finished = true
	return nil
}

type fakePredictionRepo struct {
	predictions map[int]*models.Prediction
	nextID      int
}

func newFakePredictionRepo() *fakePredictionRepo {
	return &fakePredictionRepo{predictions: make(map[int]*models.Prediction), nextID: 1}
}

func (f *fakePredictionRepo) Create(_ context.Context, _ repositories.SQLExecutor, p *models.Prediction) error {
	for _, existing := range f.predictions {
		if existing.MatchID == p.MatchID && existing.TicketID == p.TicketID {
			return repositories.ErrPredictionDuplicate
		}
	}
	p.ID = f.nextID
	f.nextID++
	stored := *p
	f.predictions[p.ID] = &stored
	return nil
}

func (f *fakePredictionRepo) ListByMatch(_ context.Context, matchID int) ([]models.Prediction, error) {
	out := make([]models.Prediction, 0)
	for id := 1; id < f.nextID; id++ {
		p, ok := f.predictions[id]
		if ok && p.MatchID == matchID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePredictionRepo) ListScoredByTickets(_ context.Context, ticketIDs []int, excludeMatchID int) (map[int][]models.Prediction, error) {
	history := make(map[int][]models.Prediction)
	wanted := make(map[int]bool, len(ticketIDs))
	for _, id := range ticketIDs {
		wanted[id] = true
	}
	for id := 1; id < f.nextID; id++ {
		p, ok := f.predictions[id]
		if ok && wanted[p.TicketID] && p.MatchID != excludeMatchID && p.Scored() {
			history[p.TicketID] = append(history[p.TicketID], *p)
		}
	}
	return history, nil
}

func (f *fakePredictionRepo) SetPointsOnce(_ context.Context, _ repositories.SQLExecutor, predictionID, points int) error {
	p, ok := f.predictions[predictionID]
	if !ok {
		return repositories.ErrPredictionNotFound
	}
	if p.Scored() {
		return repositories.ErrPredictionNotFound
	}
	p.PointsEarned = &points
	return nil
}

type fakeTicketRepo struct {
	tickets map[int]*models.ParticipantTicket
}

func newFakeTicketRepo(ids ...int) *fakeTicketRepo {
	repo := &fakeTicketRepo{tickets: make(map[int]*models.ParticipantTicket)}
	for _, id := range ids {
		repo.tickets[id] = &models.ParticipantTicket{ID: id}
	}
	return repo
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id int) (*models.ParticipantTicket, error) {
	t, ok := f.tickets[id]
	if !ok {
		return nil, repositories.ErrTicketNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTicketRepo) ListByCompetition(_ context.Context, _ int) ([]models.ParticipantTicket, error) {
	out := make([]models.ParticipantTicket, 0, len(f.tickets))
	for _, t := range f.tickets {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTicketRepo) UpdateTotalPoints(_ context.Context, _ repositories.SQLExecutor, ticketID, totalPoints int) error {
	t, ok := f.tickets[ticketID]
	if !ok {
		return repositories.ErrTicketNotFound
	}
	t.TotalPoints = totalPoints
	return nil
}

func (f *fakeTicketRepo) UpdateQuizPoints(_ context.Context, _ repositories.SQLExecutor, ticketID, quizPoints int) error {
	t, ok := f.tickets[ticketID]
	if !ok {
		return repositories.ErrTicketNotFound
	}
	t.QuizPoints = quizPoints
	return nil
}

func (f *fakeTicketRepo) QuizTotalsByCompetition(_ context.Context, _ int) (map[int]int, error) {
	totals := make(map[int]int, len(f.tickets))
	for id, t := range f.tickets {
		totals[id] = t.QuizPoints
	}
	return totals, nil
}

type fakeRoundRepo struct {
	rounds map[int]*models.Round
}

func newFakeRoundRepo(rounds ...*models.Round) *fakeRoundRepo {
	repo := &fakeRoundRepo{rounds: make(map[int]*models.Round)}
	for _, r := range rounds {
		repo.rounds[r.ID] = r
	}
	return repo
}

func (f *fakeRoundRepo) GetByID(_ context.Context, id int) (*models.Round, error) {
	r, ok := f.rounds[id]
	if !ok {
		return nil, repositories.ErrRoundNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRoundRepo) GetByDecisiveMatch(_ context.Context, matchID int) (*models.Round, error) {
	for _, r := range f.rounds {
		if r.DecisiveMatchID != nil && *r.DecisiveMatchID == matchID {
			copied := *r
			return &copied, nil
		}
	}
	return nil, repositories.ErrRoundNotFound
}

func (f *fakeRoundRepo) ListByCompetition(_ context.Context, competitionID int) ([]models.Round, error) {
	out := make([]models.Round, 0)
	for _, r := range f.rounds {
		if r.CompetitionID == competitionID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRoundRepo) FinalizeOnce(_ context.Context, _ repositories.SQLExecutor, id int) error {
	r, ok := f.rounds[id]
	if !ok {
		return repositories.ErrRoundNotFound
	}
	if r.Status == models.RoundStatusFinalized {
		return repositories.ErrRoundAlreadyFinalized
	}
	r.Status = models.RoundStatusFinalized
	return nil
}

type fakeGroupRepo struct {
	groups map[int][]int
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: make(map[int][]int)}
}

func (f *fakeGroupRepo) GetByID(_ context.Context, id int) (*models.Group, error) {
	if _, ok := f.groups[id]; !ok {
		return nil, repositories.ErrGroupNotFound
	}
	return &models.Group{ID: id}, nil
}

func (f *fakeGroupRepo) ListTeamIDs(_ context.Context, groupID int) ([]int, error) {
	return append([]int{}, f.groups[groupID]...), nil
}

type fakeJackpotRepo struct {
	states map[int]*models.JackpotState
	nextID int
}

func newFakeJackpotRepo(states ...*models.JackpotState) *fakeJackpotRepo {
	repo := &fakeJackpotRepo{states: make(map[int]*models.JackpotState), nextID: 1}
	for _, s := range states {
		stored := *s
		stored.ID = repo.nextID
		repo.nextID++
		repo.states[stored.ID] = &stored
	}
	return repo
}

func (f *fakeJackpotRepo) byRound(competitionID, roundNumber int) *models.JackpotState {
	for _, s := range f.states {
		if s.CompetitionID == competitionID && s.RoundNumber == roundNumber {
			return s
		}
	}
	return nil
}

func (f *fakeJackpotRepo) Create(_ context.Context, _ repositories.SQLExecutor, state *models.JackpotState) error {
	if f.byRound(state.CompetitionID, state.RoundNumber) != nil {
		return repositories.ErrJackpotStateDuplicate
	}
	state.ID = f.nextID
	f.nextID++
	stored := *state
	f.states[state.ID] = &stored
	return nil
}

func (f *fakeJackpotRepo) GetByRound(_ context.Context, competitionID, roundNumber int) (*models.JackpotState, error) {
	s := f.byRound(competitionID, roundNumber)
	if s == nil {
		return nil, repositories.ErrJackpotStateNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeJackpotRepo) GetCurrent(_ context.Context, competitionID int) (*models.JackpotState, error) {
	var current *models.JackpotState
	for _, s := range f.states {
		if s.CompetitionID != competitionID || s.Resolved {
			continue
		}
		if current == nil || s.RoundNumber > current.RoundNumber {
			current = s
		}
	}
	if current == nil {
		return nil, repositories.ErrJackpotStateNotFound
	}
	copied := *current
	return &copied, nil
}

func (f *fakeJackpotRepo) Update(_ context.Context, _ repositories.SQLExecutor, state *models.JackpotState) error {
	stored, ok := f.states[state.ID]
	if !ok {
		return repositories.ErrJackpotStateNotFound
	}
	*stored = *state
	return nil
}

func (f *fakeJackpotRepo) AddStake(_ context.Context, _ repositories.SQLExecutor, id int, amount int64) error {
	stored, ok := f.states[id]
	if !ok || stored.Resolved {
		return repositories.ErrJackpotStateNotFound
	}
	stored.Accumulated += amount
	return nil
}

type fakeQuizRepo struct {
	counts  map[int]map[int]int
	pending map[int]int
}

func newFakeQuizRepo() *fakeQuizRepo {
	return &fakeQuizRepo{counts: make(map[int]map[int]int), pending: make(map[int]int)}
}

func (f *fakeQuizRepo) CorrectCountsByRound(_ context.Context, roundID int) (map[int]int, error) {
	counts := make(map[int]int, len(f.counts[roundID]))
	for ticketID, n := range f.counts[roundID] {
		counts[ticketID] = n
	}
	return counts, nil
}

func (f *fakeQuizRepo) PendingQuestions(_ context.Context, roundID int) (int, error) {
	return f.pending[roundID], nil
}

type fakeStandingRepo struct {
	byGroup map[int][]models.GroupStanding
}

func newFakeStandingRepo() *fakeStandingRepo {
	return &fakeStandingRepo{byGroup: make(map[int][]models.GroupStanding)}
}

func (f *fakeStandingRepo) ReplaceForGroup(_ context.Context, _ repositories.SQLExecutor, groupID int, standings []models.GroupStanding) error {
	f.byGroup[groupID] = append([]models.GroupStanding{}, standings...)
	return nil
}

func (f *fakeStandingRepo) ListByGroup(_ context.Context, groupID int) ([]models.GroupStanding, error) {
	return append([]models.GroupStanding{}, f.byGroup[groupID]...), nil
}
