package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"expert-marketplace/internal/data/entity"
	"expert-marketplace/internal/data/repository"
	"expert-marketplace/internal/domain/lifecycle"
	"expert-marketplace/pkg/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// memStore is an in-memory stand-in for the Postgres tables. Repositories
// hand out copies so callers cannot mutate stored rows behind its back.
type memStore struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	users    map[uuid.UUID]entity.User
	experts  map[uuid.UUID]entity.Expert
	bookings map[uuid.UUID]entity.Booking

	// failures maps "Repo.Method" to the error that call returns.
	failures map[string]error

	commits   int
	rollbacks int
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[uuid.UUID]entity.User{},
		experts:  map[uuid.UUID]entity.Expert{},
		bookings: map[uuid.UUID]entity.Booking{},
		failures: map[string]error{},
	}
}

func (s *memStore) failOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = err
}

func (s *memStore) fail(method string) error {
	return s.failures[method]
}

func (s *memStore) repository() *repository.Repository {
	return &repository.Repository{
		User:    &memUserRepo{s},
		Expert:  &memExpertRepo{s},
		Booking: &memBookingRepo{s},
	}
}

type memSnapshot struct {
	users    map[uuid.UUID]entity.User
	experts  map[uuid.UUID]entity.Expert
	bookings map[uuid.UUID]entity.Booking
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memSnapshot{
		users:    cloneMap(s.users),
		experts:  cloneMap(s.experts),
		bookings: cloneMap(s.bookings),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.experts = snap.experts
	s.bookings = snap.bookings
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// memTransactor runs transactions one at a time and restores the snapshot
// taken at the start when fn fails.
type memTransactor struct {
	store *memStore
}

func (t *memTransactor) WithinTx(ctx context.Context, fn func(tx *repository.Repository) error) error {
	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()

	snap := t.store.snapshot()
	if err := fn(t.store.repository()); err != nil {
		t.store.restore(snap)
		t.store.mu.Lock()
		t.store.rollbacks++
		t.store.mu.Unlock()
		return err
	}

	t.store.mu.Lock()
	t.store.commits++
	t.store.mu.Unlock()
	return nil
}

// ---- users ----

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("User.Create"); err != nil {
		return err
	}
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("create user %s: %w", user.Email, repository.ErrUniqueViolation)
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("User.FindByID"); err != nil {
		return nil, err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("User.FindByEmail"); err != nil {
		return nil, err
	}
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("User.Update"); err != nil {
		return err
	}
	cur, ok := r.s.users[user.ID]
	if !ok {
		return fmt.Errorf("user %s not found", user.ID)
	}
	cur.FullName = user.FullName
	cur.Bio = user.Bio
	cur.ProfilePictureURL = user.ProfilePictureURL
	r.s.users[user.ID] = cur
	return nil
}

func (r *memUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("User.UpdatePassword"); err != nil {
		return err
	}
	cur, ok := r.s.users[id]
	if !ok {
		return fmt.Errorf("user %s not found", id)
	}
	cur.PasswordHash = passwordHash
	r.s.users[id] = cur
	return nil
}

// ---- experts ----

type memExpertRepo struct{ s *memStore }

func (r *memExpertRepo) Create(ctx context.Context, expert *entity.Expert) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Expert.Create"); err != nil {
		return err
	}
	r.s.experts[expert.ID] = *expert
	return nil
}

func (r *memExpertRepo) find(method string, match func(entity.Expert) bool) (*entity.Expert, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(method); err != nil {
		return nil, err
	}
	for _, e := range r.s.experts {
		if match(e) {
			return &e, nil
		}
	}
	return nil, nil
}

func (r *memExpertRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Expert, error) {
	return r.find("Expert.FindByID", func(e entity.Expert) bool { return e.ID == id })
}

func (r *memExpertRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Expert, error) {
	return r.find("Expert.FindByIDForUpdate", func(e entity.Expert) bool { return e.ID == id })
}

func (r *memExpertRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Expert, error) {
	return r.find("Expert.FindByUserID", func(e entity.Expert) bool { return e.UserID == userID })
}

func (r *memExpertRepo) Update(ctx context.Context, expert *entity.Expert) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Expert.Update"); err != nil {
		return err
	}
	cur, ok := r.s.experts[expert.ID]
	if !ok {
		return fmt.Errorf("expert %s not found", expert.ID)
	}
	cur.Category = expert.Category
	cur.HourlyFee = expert.HourlyFee
	cur.Bio = expert.Bio
	cur.Requirements = expert.Requirements
	cur.IsPublic = expert.IsPublic
	r.s.experts[expert.ID] = cur
	return nil
}

func (r *memExpertRepo) withUser(e entity.Expert) *entity.ExpertWithUser {
	u := r.s.users[e.UserID]
	return &entity.ExpertWithUser{
		Expert:            e,
		FullName:          u.FullName,
		ProfilePictureURL: u.ProfilePictureURL,
		UserBio:           u.Bio,
	}
}

func (r *memExpertRepo) List(ctx context.Context, filter repository.ExpertFilter) ([]*entity.ExpertWithUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Expert.List"); err != nil {
		return nil, err
	}
	out := []*entity.ExpertWithUser{}
	for _, e := range r.s.experts {
		if !e.IsPublic {
			continue
		}
		if len(filter.Categories) > 0 && !slices.Contains(filter.Categories, e.Category) {
			continue
		}
		if filter.MinPrice != nil && !(e.HourlyFee > *filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && !(e.HourlyFee < *filter.MaxPrice) {
			continue
		}
		out = append(out, r.withUser(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (r *memExpertRepo) Categories(ctx context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := map[string]bool{}
	out := []string{}
	for _, e := range r.s.experts {
		if e.Category != "" && !seen[e.Category] {
			seen[e.Category] = true
			out = append(out, e.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *memExpertRepo) FindDetail(ctx context.Context, id uuid.UUID) (*entity.ExpertWithUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.experts[id]
	if !ok {
		return nil, nil
	}
	return r.withUser(e), nil
}

func (r *memExpertRepo) IncrementJobsTaken(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Expert.IncrementJobsTaken"); err != nil {
		return err
	}
	e, ok := r.s.experts[id]
	if !ok {
		return fmt.Errorf("expert %s not found", id)
	}
	e.JobsTaken++
	r.s.experts[id] = e
	return nil
}

func (r *memExpertRepo) UpdateAverageRating(ctx context.Context, id uuid.UUID, average float64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Expert.UpdateAverageRating"); err != nil {
		return err
	}
	e, ok := r.s.experts[id]
	if !ok {
		return fmt.Errorf("expert %s not found", id)
	}
	e.AverageRating = average
	r.s.experts[id] = e
	return nil
}

// ---- bookings ----

type memBookingRepo struct{ s *memStore }

func (r *memBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Booking.Create"); err != nil {
		return err
	}
	for _, b := range r.s.bookings {
		if b.ClientID == booking.ClientID && b.ExpertID == booking.ExpertID && lifecycle.IsActive(b.Status) {
			return fmt.Errorf("create booking %s: %w", booking.ID, repository.ErrUniqueViolation)
		}
	}
	r.s.bookings[booking.ID] = *booking
	return nil
}

func (r *memBookingRepo) get(method string, id uuid.UUID) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(method); err != nil {
		return nil, err
	}
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *memBookingRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.get("Booking.FindByIDForUpdate", id)
}

func (r *memBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Booking.UpdateStatus"); err != nil {
		return err
	}
	b, ok := r.s.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s not found", id)
	}
	b.Status = status
	r.s.bookings[id] = b
	return nil
}

func (r *memBookingRepo) SetReview(ctx context.Context, id uuid.UUID, rating int, comment string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Booking.SetReview"); err != nil {
		return err
	}
	b, ok := r.s.bookings[id]
	if !ok || b.Rating != nil {
		return fmt.Errorf("booking %s not found or already reviewed", id)
	}
	b.Rating = &rating
	b.ReviewComment = &comment
	r.s.bookings[id] = b
	return nil
}

func (r *memBookingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Booking.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.bookings[id]; !ok {
		return fmt.Errorf("booking %s not found", id)
	}
	delete(r.s.bookings, id)
	return nil
}

func (r *memBookingRepo) FindActive(ctx context.Context, clientID, expertID uuid.UUID) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Booking.FindActive"); err != nil {
		return nil, err
	}
	for _, b := range r.s.bookings {
		if b.ClientID == clientID && b.ExpertID == expertID && lifecycle.IsActive(b.Status) {
			return &b, nil
		}
	}
	return nil, nil
}

func (r *memBookingRepo) ListForParticipant(ctx context.Context, clientID uuid.UUID, expertID *uuid.UUID) ([]*entity.BookingParticipantView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Booking.ListForParticipant"); err != nil {
		return nil, err
	}
	out := []*entity.BookingParticipantView{}
	for _, b := range r.s.bookings {
		if b.ClientID != clientID && (expertID == nil || b.ExpertID != *expertID) {
			continue
		}
		e := r.s.experts[b.ExpertID]
		eu := r.s.users[e.UserID]
		cu := r.s.users[b.ClientID]
		out = append(out, &entity.BookingParticipantView{
			Booking:      b,
			ExpertUserID: e.UserID,
			ExpertName:   eu.FullName,
			ExpertBio:    eu.Bio,
			ClientName:   cu.FullName,
			ClientBio:    cu.Bio,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestedAt.After(out[j].RequestedAt) })
	return out, nil
}

func (r *memBookingRepo) RatingsByExpert(ctx context.Context, expertID uuid.UUID) ([]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Booking.RatingsByExpert"); err != nil {
		return nil, err
	}
	out := []int{}
	for _, b := range r.s.bookings {
		if b.ExpertID == expertID && b.Rating != nil {
			out = append(out, *b.Rating)
		}
	}
	return out, nil
}

func (r *memBookingRepo) ReviewsByExpert(ctx context.Context, expertID uuid.UUID) ([]*entity.ExpertReview, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.ExpertReview{}
	for _, b := range r.s.bookings {
		if b.ExpertID != expertID || b.Rating == nil {
			continue
		}
		review := &entity.ExpertReview{
			BookingID:     b.ID,
			ClientID:      b.ClientID,
			Rating:        *b.Rating,
			ReviewComment: b.ReviewComment,
			RequestedAt:   b.RequestedAt,
		}
		if u, ok := r.s.users[b.ClientID]; ok {
			name := u.FullName
			review.ClientName = &name
		}
		out = append(out, review)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestedAt.After(out[j].RequestedAt) })
	return out, nil
}

// ---- events ----

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.BookingEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, evt events.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// ---- fixtures ----

var errStorage = errors.New("connection reset by peer")

type fixture struct {
	store     *memStore
	tx        *memTransactor
	publisher *recordingPublisher
	svc       *Service
	clock     time.Time
}

func newFixture() *fixture {
	store := newMemStore()
	tx := &memTransactor{store: store}
	publisher := &recordingPublisher{}
	log := zap.NewNop()

	f := &fixture{
		store:     store,
		tx:        tx,
		publisher: publisher,
		clock:     time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	booking := NewBookingService(store.repository(), tx, publisher, log).(*bookingService)
	booking.now = f.now

	f.svc = &Service{
		User:    NewUserService(store.repository(), tx, log),
		Expert:  NewExpertService(store.repository(), log),
		Booking: booking,
		Review:  NewReviewService(store.repository(), tx, NewRatingAggregator(log), publisher, log),
	}
	return f
}

// now advances one minute per call so bookings get distinct timestamps.
func (f *fixture) now() time.Time {
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}

func (f *fixture) addUser(name string, role entity.UserRole) entity.User {
	u := entity.User{
		Base:              entity.Base{ID: uuid.New(), CreatedAt: f.clock},
		FullName:          name,
		Email:             strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		Role:              role,
		ProfilePictureURL: entity.DefaultProfilePictureURL,
	}
	f.store.users[u.ID] = u
	return u
}

func (f *fixture) addExpert(name, category string, fee float64) (entity.User, entity.Expert) {
	u := f.addUser(name, entity.RoleExpert)
	e := entity.Expert{
		ID:        uuid.New(),
		UserID:    u.ID,
		Category:  category,
		HourlyFee: fee,
		IsPublic:  true,
	}
	f.store.experts[e.ID] = e
	return u, e
}

func (f *fixture) addBooking(clientID, expertID uuid.UUID, status entity.BookingStatus, rating *int) entity.Booking {
	b := entity.Booking{
		ID:          uuid.New(),
		ClientID:    clientID,
		ExpertID:    expertID,
		Status:      status,
		RequestedAt: f.now(),
		Rating:      rating,
	}
	if rating != nil {
		empty := ""
		b.ReviewComment = &empty
	}
	f.store.bookings[b.ID] = b
	return b
}

func (f *fixture) booking(id uuid.UUID) (entity.Booking, bool) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	b, ok := f.store.bookings[id]
	return b, ok
}

func (f *fixture) expert(id uuid.UUID) entity.Expert {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.experts[id]
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
