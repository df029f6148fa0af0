package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aipress24/aipress24-sub001/internal/directory"
	"github.com/aipress24/aipress24-sub001/internal/events"
	"github.com/aipress24/aipress24-sub001/internal/newsroom/domain"
	"github.com/aipress24/aipress24-sub001/platform/apperr"
	"github.com/aipress24/aipress24-sub001/platform/logger"

	"github.com/google/uuid"
)

// fakeContactStore keeps contacts in memory and counts writes. Inserts
// for experts listed in failFor return the configured error.
type fakeContactStore struct {
	mu       sync.Mutex
	contacts map[uuid.UUID]*domain.Contact
	writes   int
	failFor  map[uuid.UUID]error
}

func newFakeContactStore() *fakeContactStore {
	return &fakeContactStore{contacts: make(map[uuid.UUID]*domain.Contact)}
}

func (f *fakeContactStore) put(c *domain.Contact) {
	clone := *c
	f.contacts[c.ID] = &clone
}

func (f *fakeContactStore) CreateContact(_ context.Context, c *domain.Contact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[c.ExpertID]; ok {
		return err
	}
	f.put(c)
	f.writes++
	return nil
}

func (f *fakeContactStore) GetContact(_ context.Context, id uuid.UUID) (*domain.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contacts[id]
	if !ok {
		return nil, apperr.NotFound("contact not found: " + id.String())
	}
	clone := *c
	return &clone, nil
}

func (f *fakeContactStore) ListContacts(_ context.Context, noticeID uuid.UUID) ([]domain.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Contact
	for _, c := range f.contacts {
		if c.NoticeID == noticeID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeContactStore) ListActiveContacts(ctx context.Context, noticeID uuid.UUID) ([]domain.Contact, error) {
	all, _ := f.ListContacts(ctx, noticeID)
	out := all[:0]
	for _, c := range all {
		if c.ResponseStatus == domain.ResponseAccepted {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeContactStore) ContactedExpertIDs(_ context.Context, noticeID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uuid.UUID
	for _, c := range f.contacts {
		if c.NoticeID == noticeID {
			ids = append(ids, c.ExpertID)
		}
	}
	return ids, nil
}

func (f *fakeContactStore) UpdateResponse(_ context.Context, c *domain.Contact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.contacts[c.ID]; !ok {
		return apperr.NotFound("contact not found: " + c.ID.String())
	}
	f.put(c)
	f.writes++
	return nil
}

func (f *fakeContactStore) UpdateNegotiation(_ context.Context, c *domain.Contact, from domain.RDVStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.contacts[c.ID]
	if !ok {
		return apperr.NotFound("contact not found: " + c.ID.String())
	}
	if stored.RDVStatus != from {
		return apperr.Conflict("negotiation state changed, reload and retry")
	}
	f.put(c)
	f.writes++
	return nil
}

// fakeBus records published events synchronously.
type fakeBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (f *fakeBus) Publish(_ context.Context, e events.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
}

func (f *fakeBus) PublishSync(ctx context.Context, e events.Event) error {
	f.Publish(ctx, e)
	return nil
}

func (f *fakeBus) Subscribe(string, events.Handler) {}

func (f *fakeBus) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.EventName()
	}
	return out
}

// fakeScheduler records reminder calls.
type fakeScheduler struct {
	scheduled []uuid.UUID
	cancelled []uuid.UUID
}

func (f *fakeScheduler) ScheduleRDVReminder(_ context.Context, contactID uuid.UUID, _ time.Time) error {
	f.scheduled = append(f.scheduled, contactID)
	return nil
}

func (f *fakeScheduler) CancelRDVReminder(_ context.Context, contactID uuid.UUID) error {
	f.cancelled = append(f.cancelled, contactID)
	return nil
}

func testSlot() time.Time {
	return time.Date(2026, 9, 10, 15, 0, 0, 0, time.UTC)
}

func setupNegotiation() (*Negotiation, *fakeContactStore, *fakeBus, *fakeScheduler, *domain.Contact) {
	store := newFakeContactStore()
	bus := &fakeBus{}
	sched := &fakeScheduler{}
	svc := NewNegotiation(store, bus, sched, logger.New("development"))

	contact := domain.NewContact(uuid.New(), uuid.New(), uuid.New())
	contact.ResponseStatus = domain.ResponseAccepted
	store.put(contact)

	return svc, store, bus, sched, contact
}

func TestProposePersistsThenNotifies(t *testing.T) {
	svc, store, bus, _, contact := setupNegotiation()
	ctx := context.Background()

	p := domain.Proposal{Type: domain.RDVPhone, Slots: []time.Time{testSlot()}, Phone: "06 12 34 56 78"}
	got, err := svc.Propose(ctx, contact.ID, contact.JournalistID, p)
	if err != nil {
		t.Fatal(err)
	}

	if got.RDVStatus != domain.RDVProposed {
		t.Errorf("RDVStatus = %s, want %s", got.RDVStatus, domain.RDVProposed)
	}
	if got.Phone != "+33612345678" {
		t.Errorf("phone not normalized: %q", got.Phone)
	}

	stored, _ := store.GetContact(ctx, contact.ID)
	if stored.RDVStatus != domain.RDVProposed {
		t.Error("proposal was not persisted")
	}
	if names := bus.names(); len(names) != 1 || names[0] != "newsroom.rdv.proposed" {
		t.Errorf("events = %v, want [newsroom.rdv.proposed]", names)
	}
}

func TestProposeRejectsInvalidPhone(t *testing.T) {
	svc, store, bus, _, contact := setupNegotiation()
	ctx := context.Background()

	p := domain.Proposal{Type: domain.RDVPhone, Slots: []time.Time{testSlot()}, Phone: "not a number"}
	_, err := svc.Propose(ctx, contact.ID, contact.JournalistID, p)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("error = %v, want validation", err)
	}

	stored, _ := store.GetContact(ctx, contact.ID)
	if stored.RDVStatus != domain.RDVNone {
		t.Error("failed proposal must not persist")
	}
	if len(bus.names()) != 0 {
		t.Errorf("failed proposal must not notify, got %v", bus.names())
	}
}

func TestProposeActorGuard(t *testing.T) {
	svc, _, bus, _, contact := setupNegotiation()

	p := domain.Proposal{Type: domain.RDVVideo, Slots: []time.Time{testSlot()}, VideoLink: "https://meet.example/a"}
	_, err := svc.Propose(context.Background(), contact.ID, uuid.New(), p)
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("error = %v, want forbidden", err)
	}
	if len(bus.names()) != 0 {
		t.Error("forbidden proposal must not notify")
	}
}

func TestGuardFailureWritesNothing(t *testing.T) {
	svc, store, bus, _, contact := setupNegotiation()
	ctx := context.Background()
	writesBefore := store.writes

	// No proposal pending, so accept must fail.
	_, err := svc.Accept(ctx, contact.ID, contact.ExpertID, domain.ChooseSlot(testSlot()))
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("error = %v, want conflict", err)
	}
	if store.writes != writesBefore {
		t.Error("guard failure must not write")
	}
	if len(bus.names()) != 0 {
		t.Error("guard failure must not notify")
	}
}

func TestAcceptDeclineAndConfirmFlow(t *testing.T) {
	svc, store, bus, sched, contact := setupNegotiation()
	ctx := context.Background()

	p := domain.Proposal{Type: domain.RDVVideo, Slots: []time.Time{testSlot()}, VideoLink: "https://meet.example/a"}
	if _, err := svc.Propose(ctx, contact.ID, contact.JournalistID, p); err != nil {
		t.Fatal(err)
	}

	// Decline drops back to NO_RDV.
	got, err := svc.Accept(ctx, contact.ID, contact.ExpertID, domain.DeclineSlots())
	if err != nil {
		t.Fatal(err)
	}
	if got.RDVStatus != domain.RDVNone {
		t.Fatalf("after decline RDVStatus = %s, want %s", got.RDVStatus, domain.RDVNone)
	}

	// Re-propose, accept, confirm.
	if _, err := svc.Propose(ctx, contact.ID, contact.JournalistID, p); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Accept(ctx, contact.ID, contact.ExpertID, domain.ChooseSlot(testSlot())); err != nil {
		t.Fatal(err)
	}
	got, err = svc.Confirm(ctx, contact.ID, contact.JournalistID)
	if err != nil {
		t.Fatal(err)
	}
	if got.RDVStatus != domain.RDVConfirmed {
		t.Errorf("RDVStatus = %s, want %s", got.RDVStatus, domain.RDVConfirmed)
	}
	if got.RDVAt == nil || !got.RDVAt.Equal(testSlot()) {
		t.Errorf("RDVAt = %v, want %v", got.RDVAt, testSlot())
	}

	if len(sched.scheduled) != 1 {
		t.Errorf("reminders scheduled = %d, want 1", len(sched.scheduled))
	}

	want := []string{
		"newsroom.rdv.proposed",
		"newsroom.rdv.declined",
		"newsroom.rdv.proposed",
		"newsroom.rdv.accepted",
		"newsroom.rdv.confirmed",
	}
	names := bus.names()
	if len(names) != len(want) {
		t.Fatalf("events = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("event[%d] = %s, want %s", i, names[i], want[i])
		}
	}

	stored, _ := store.GetContact(ctx, contact.ID)
	if stored.RDVStatus != domain.RDVConfirmed {
		t.Error("confirmation was not persisted")
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	svc, store, bus, sched, contact := setupNegotiation()
	ctx := context.Background()

	p := domain.Proposal{Type: domain.RDVInPerson, Slots: []time.Time{testSlot()}, Address: "12 rue de la Paix, Paris"}
	if _, err := svc.Propose(ctx, contact.ID, contact.JournalistID, p); err != nil {
		t.Fatal(err)
	}

	// The expert can cancel too.
	got, err := svc.Cancel(ctx, contact.ID, contact.ExpertID)
	if err != nil {
		t.Fatal(err)
	}
	if got.RDVStatus != domain.RDVNone {
		t.Fatalf("RDVStatus = %s, want %s", got.RDVStatus, domain.RDVNone)
	}
	if len(sched.cancelled) != 1 {
		t.Errorf("reminder cancellations = %d, want 1", len(sched.cancelled))
	}

	writesBefore := store.writes
	eventsBefore := len(bus.names())

	// Second cancel succeeds without writing or notifying.
	if _, err := svc.Cancel(ctx, contact.ID, contact.JournalistID); err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if store.writes != writesBefore {
		t.Error("idempotent cancel must not write")
	}
	if len(bus.names()) != eventsBefore {
		t.Error("idempotent cancel must not notify")
	}
}

func TestRespondGuardsActor(t *testing.T) {
	store := newFakeContactStore()
	bus := &fakeBus{}
	svc := NewNegotiation(store, bus, nil, logger.New("development"))

	contact := domain.NewContact(uuid.New(), uuid.New(), uuid.New())
	store.put(contact)
	ctx := context.Background()

	if _, err := svc.Respond(ctx, contact.ID, uuid.New(), true, ""); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("error = %v, want forbidden", err)
	}

	got, err := svc.Respond(ctx, contact.ID, contact.ExpertID, true, "<b>Disponible</b> en septembre")
	if err != nil {
		t.Fatal(err)
	}
	if got.ResponseStatus != domain.ResponseAccepted {
		t.Errorf("ResponseStatus = %s, want %s", got.ResponseStatus, domain.ResponseAccepted)
	}
	if got.ExpertNotes != "Disponible en septembre" {
		t.Errorf("notes not sanitized: %q", got.ExpertNotes)
	}
	if names := bus.names(); len(names) != 1 || names[0] != "newsroom.contact.responded" {
		t.Errorf("events = %v", names)
	}
}

func TestGetContactScopedToParties(t *testing.T) {
	svc, _, _, _, contact := setupNegotiation()
	ctx := context.Background()

	for _, party := range []uuid.UUID{contact.JournalistID, contact.ExpertID} {
		if _, err := svc.GetContact(ctx, contact.ID, party); err != nil {
			t.Errorf("party %s: %v", party, err)
		}
	}

	// A third party gets a not-found, never a hint that the contact exists.
	_, err := svc.GetContact(ctx, contact.ID, uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("stranger: error = %v, want not found", err)
	}
}

// fakeSelection serves a fixed shortlist.
type fakeSelection struct {
	selection []directory.Candidate
	cleared   bool
}

func (f *fakeSelection) Selection(context.Context, uuid.UUID) ([]directory.Candidate, error) {
	return f.selection, nil
}

func (f *fakeSelection) Clear(context.Context, uuid.UUID) error {
	f.cleared = true
	return nil
}

// fakeNoticeStore holds a single notice.
type fakeNoticeStore struct {
	notice *domain.Notice
}

func (f *fakeNoticeStore) CreateNotice(_ context.Context, n *domain.Notice) error {
	f.notice = n
	return nil
}

func (f *fakeNoticeStore) GetNotice(_ context.Context, id uuid.UUID) (*domain.Notice, error) {
	if f.notice == nil || f.notice.ID != id {
		return nil, apperr.NotFound("notice not found: " + id.String())
	}
	clone := *f.notice
	return &clone, nil
}

func (f *fakeNoticeStore) ListNoticesByOwner(context.Context, uuid.UUID) ([]domain.Notice, error) {
	if f.notice == nil {
		return nil, nil
	}
	return []domain.Notice{*f.notice}, nil
}

func (f *fakeNoticeStore) UpdateNotice(_ context.Context, n *domain.Notice) error {
	clone := *n
	f.notice = &clone
	return nil
}

func expert(name string) directory.Candidate {
	return directory.Candidate{ID: uuid.New(), FirstName: name, LastName: "Test"}
}

func TestOutreachSkipsKnownExperts(t *testing.T) {
	owner := uuid.New()
	notice := &domain.Notice{ID: uuid.New(), OwnerID: owner, Title: "Enquête IA", Published: true}
	notices := &fakeNoticeStore{notice: notice}

	known := expert("Alice")
	fresh := expert("Bruno")

	contacts := newFakeContactStore()
	existing := domain.NewContact(notice.ID, known.ID, owner)
	contacts.put(existing)

	sel := &fakeSelection{selection: []directory.Candidate{known, fresh}}
	bus := &fakeBus{}
	outreach := NewOutreach(notices, contacts, sel, bus, logger.New("development"))

	created, err := outreach.Run(context.Background(), notice.ID, owner)
	if err != nil {
		t.Fatal(err)
	}

	if len(created) != 1 {
		t.Fatalf("created %d contacts, want 1", len(created))
	}
	if created[0].ExpertID != fresh.ID {
		t.Errorf("contacted expert = %s, want %s", created[0].ExpertID, fresh.ID)
	}
	if created[0].ResponseStatus != domain.ResponsePending {
		t.Errorf("ResponseStatus = %s, want %s", created[0].ResponseStatus, domain.ResponsePending)
	}
	if created[0].JournalistID != owner {
		t.Errorf("JournalistID = %s, want the notice owner %s", created[0].JournalistID, owner)
	}

	if names := bus.names(); len(names) != 1 || names[0] != "newsroom.expert.contacted" {
		t.Errorf("events = %v, want one newsroom.expert.contacted", names)
	}
	if !sel.cleared {
		t.Error("targeting session was not cleared after outreach")
	}
}

func TestOutreachContinuesPastFailedInsert(t *testing.T) {
	owner := uuid.New()
	notice := &domain.Notice{ID: uuid.New(), OwnerID: owner, Title: "Enquête santé", Published: true}
	notices := &fakeNoticeStore{notice: notice}

	broken := expert("Alice")
	first := expert("Bruno")
	second := expert("Chloé")

	contacts := newFakeContactStore()
	contacts.failFor = map[uuid.UUID]error{broken.ID: errors.New("insert failed")}

	sel := &fakeSelection{selection: []directory.Candidate{broken, first, second}}
	bus := &fakeBus{}
	outreach := NewOutreach(notices, contacts, sel, bus, logger.New("development"))

	created, err := outreach.Run(context.Background(), notice.ID, owner)
	if err != nil {
		t.Fatal(err)
	}

	// One insert failing must not keep the other experts uncontacted.
	if len(created) != 2 {
		t.Fatalf("created %d contacts, want 2", len(created))
	}
	for _, c := range created {
		if c.ExpertID == broken.ID {
			t.Error("failed insert reported as created")
		}
	}

	// Every stored contact gets its event; the failed one gets none.
	if names := bus.names(); len(names) != 2 {
		t.Errorf("events = %v, want two newsroom.expert.contacted", names)
	}
}

func TestOutreachSkipsDuplicateQuietly(t *testing.T) {
	owner := uuid.New()
	notice := &domain.Notice{ID: uuid.New(), OwnerID: owner, Title: "Enquête climat", Published: true}
	notices := &fakeNoticeStore{notice: notice}

	// A concurrent run already inserted this expert's contact, so the
	// store answers with a conflict.
	racing := expert("Alice")
	fresh := expert("Bruno")

	contacts := newFakeContactStore()
	contacts.failFor = map[uuid.UUID]error{racing.ID: apperr.Conflict("contact already exists")}

	sel := &fakeSelection{selection: []directory.Candidate{racing, fresh}}
	bus := &fakeBus{}
	outreach := NewOutreach(notices, contacts, sel, bus, logger.New("development"))

	created, err := outreach.Run(context.Background(), notice.ID, owner)
	if err != nil {
		t.Fatal(err)
	}
	if len(created) != 1 || created[0].ExpertID != fresh.ID {
		t.Fatalf("created = %v, want only the fresh expert", created)
	}
	if names := bus.names(); len(names) != 1 {
		t.Errorf("events = %v, want one", names)
	}
}

func TestOutreachGuards(t *testing.T) {
	owner := uuid.New()
	notice := &domain.Notice{ID: uuid.New(), OwnerID: owner, Title: "Enquête", Published: false}
	notices := &fakeNoticeStore{notice: notice}
	contacts := newFakeContactStore()
	sel := &fakeSelection{selection: []directory.Candidate{expert("Chloé")}}
	outreach := NewOutreach(notices, contacts, sel, &fakeBus{}, logger.New("development"))

	if _, err := outreach.Run(context.Background(), notice.ID, uuid.New()); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("foreign actor: error = %v, want forbidden", err)
	}
	if _, err := outreach.Run(context.Background(), notice.ID, owner); !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("unpublished notice: error = %v, want conflict", err)
	}
}
