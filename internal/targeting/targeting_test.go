package targeting

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aipress24/aipress24-sub001/internal/directory"
	"github.com/aipress24/aipress24-sub001/platform/apperr"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// fakeDirectory serves a fixed pool.
type fakeDirectory struct {
	pool []directory.Candidate
}

func (f *fakeDirectory) ListExperts(context.Context) ([]directory.Candidate, error) {
	return f.pool, nil
}

func (f *fakeDirectory) GetExpert(_ context.Context, id uuid.UUID) (*directory.Candidate, error) {
	for _, c := range f.pool {
		if c.ID == id {
			clone := c
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("expert not found: " + id.String())
}

// fakeContacted serves a fixed contacted list.
type fakeContacted struct {
	ids []uuid.UUID
}

func (f *fakeContacted) ContactedExpertIDs(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	return f.ids, nil
}

func candidate(first, last, country, dept, city string, sectors ...string) directory.Candidate {
	return directory.Candidate{
		ID:             uuid.New(),
		FirstName:      first,
		LastName:       last,
		Email:          first + "@example.org",
		Sectors:        sectors,
		CountryCode:    country,
		DepartmentCode: dept,
		City:           city,
	}
}

func testPool() []directory.Candidate {
	return []directory.Candidate{
		candidate("Émile", "Zola", "FR", "75", "Paris", "Presse"),
		candidate("Alice", "Durand", "FR", "75", "Paris", "Cybersécurité"),
		candidate("Bruno", "Écuyer", "FR", "69", "Lyon", "Cybersécurité", "Presse"),
		candidate("Carla", "Rossi", "IT", "RM", "Roma", "Presse"),
	}
}

func TestSectorFilterOrWithin(t *testing.T) {
	pool := testPool()
	reg := NewRegistry()
	sel, _ := reg.Get(FacetSector)

	got := sel.Apply(pool, []string{"Cybersécurité"})
	if len(got) != 2 {
		t.Fatalf("filtered %d candidates, want 2", len(got))
	}

	// OR within the facet: both values together match three people.
	got = sel.Apply(pool, []string{"Cybersécurité", "Presse"})
	if len(got) != 4 {
		t.Fatalf("filtered %d candidates, want 4", len(got))
	}
}

func TestCascadeOptions(t *testing.T) {
	pool := testPool()
	reg := NewRegistry()
	dept, _ := reg.Get(FacetDepartment)
	city, _ := reg.Get(FacetCity)

	// No country selected: department offers nothing.
	if opts := dept.Options(pool, State{}); len(opts) != 0 {
		t.Errorf("department options without country = %v, want none", opts)
	}

	state := State{FacetCountry: {"FR"}}
	opts := dept.Options(pool, state)
	if len(opts) != 2 {
		t.Fatalf("department options under FR = %v, want 2", opts)
	}

	// City needs a department as well.
	if opts := city.Options(pool, state); len(opts) != 0 {
		t.Errorf("city options without department = %v, want none", opts)
	}
	state[FacetDepartment] = []string{"69"}
	opts = city.Options(pool, state)
	if len(opts) != 1 || opts[0].Value != "Lyon" {
		t.Errorf("city options under 69 = %v, want [Lyon]", opts)
	}
}

func TestCountryLabels(t *testing.T) {
	pool := testPool()
	reg := NewRegistry()
	country, _ := reg.Get(FacetCountry)

	opts := country.Options(pool, State{})
	byValue := make(map[string]string)
	for _, o := range opts {
		byValue[o.Value] = o.Label
	}
	if byValue["FR"] != "France" || byValue["IT"] != "Italie" {
		t.Errorf("country labels = %v", byValue)
	}
}

func TestApplyUpdateFullReplacementAndCascade(t *testing.T) {
	pool := testPool()
	reg := NewRegistry()
	s := NewSession(uuid.New())

	s.ApplyUpdate(reg, pool, map[string][]string{
		FacetCountry:    {"FR"},
		FacetDepartment: {"75"},
		FacetCity:       {"Paris"},
	})
	if got := s.Facets[FacetCity]; len(got) != 1 || got[0] != "Paris" {
		t.Fatalf("city selection = %v, want [Paris]", got)
	}

	// Switching country while resending the old department invalidates it
	// and everything below.
	s.ApplyUpdate(reg, pool, map[string][]string{
		FacetCountry:    {"IT"},
		FacetDepartment: {"75"},
		FacetCity:       {"Paris"},
	})
	if got := s.Facets[FacetDepartment]; len(got) != 0 {
		t.Errorf("department after country switch = %v, want cleared", got)
	}
	if got := s.Facets[FacetCity]; len(got) != 0 {
		t.Errorf("city after country switch = %v, want cleared", got)
	}

	// A facet absent from the update is cleared.
	s.ApplyUpdate(reg, pool, map[string][]string{FacetSector: {"Presse"}})
	if got := s.Facets[FacetCountry]; len(got) != 0 {
		t.Errorf("country after omission = %v, want cleared", got)
	}

	// Unknown facet IDs and unknown values are dropped silently.
	s.ApplyUpdate(reg, pool, map[string][]string{
		"astrology": {"gemini"},
		FacetSector: {"Presse", "Nonexistent"},
	})
	if _, ok := s.Facets["astrology"]; ok {
		t.Error("unknown facet stored")
	}
	if got := s.Facets[FacetSector]; len(got) != 1 || got[0] != "Presse" {
		t.Errorf("sector selection = %v, want [Presse]", got)
	}
}

func TestApplyUpdateAcceptsValuesPastOptionCap(t *testing.T) {
	// More distinct sectors than a facet displays at once. "Ztech" sorts
	// last, past the display cap, but must still be selectable.
	pool := make([]directory.Candidate, 0, MaxOptions+1)
	for i := 0; i < MaxOptions; i++ {
		pool = append(pool, candidate("P", fmt.Sprintf("Nom%03d", i), "FR", "75", "Paris", fmt.Sprintf("Secteur%03d", i)))
	}
	pool = append(pool, candidate("Zo", "Tard", "FR", "75", "Paris", "Ztech"))

	reg := NewRegistry()
	sel, _ := reg.Get(FacetSector)
	if opts := sel.Options(pool, State{}); len(opts) != MaxOptions {
		t.Fatalf("options = %d, want the %d displayed", len(opts), MaxOptions)
	}

	s := NewSession(uuid.New())
	s.ApplyUpdate(reg, pool, map[string][]string{FacetSector: {"Ztech"}})
	if got := s.Facets[FacetSector]; len(got) != 1 || got[0] != "Ztech" {
		t.Errorf("sector selection = %v, want [Ztech]", got)
	}
}

func TestSelectionCap(t *testing.T) {
	s := NewSession(uuid.New())

	ids := make([]uuid.UUID, MaxSelectable)
	for i := range ids {
		ids[i] = uuid.New()
	}
	if err := s.Select(ids...); err != nil {
		t.Fatal(err)
	}

	// Re-selecting the same experts is a no-op, not an overflow.
	if err := s.Select(ids[0], ids[1]); err != nil {
		t.Fatalf("re-select: %v", err)
	}

	err := s.Select(uuid.New())
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("error = %v, want validation", err)
	}
	if len(s.Selected) != MaxSelectable {
		t.Errorf("failed select changed the shortlist: %d", len(s.Selected))
	}
}

func TestCandidateOrderingAndExclusion(t *testing.T) {
	pool := testPool()
	dir := &fakeDirectory{pool: pool}
	contacted := &fakeContacted{ids: []uuid.UUID{pool[3].ID}} // Rossi already contacted
	svc := NewService(dir, NewMemoryStore(), contacted)
	ctx := context.Background()
	noticeID := uuid.New()

	view, err := svc.View(ctx, noticeID)
	if err != nil {
		t.Fatal(err)
	}

	// Rossi is excluded; accent-insensitive order by (last, first):
	// Durand, Écuyer, Zola.
	wantLast := []string{"Durand", "Écuyer", "Zola"}
	if len(view.Candidates) != len(wantLast) {
		t.Fatalf("got %d candidates, want %d", len(view.Candidates), len(wantLast))
	}
	for i, want := range wantLast {
		if view.Candidates[i].LastName != want {
			t.Errorf("candidate[%d] = %s, want %s", i, view.Candidates[i].LastName, want)
		}
	}

	// Shortlisting removes the expert from the listing.
	if _, err := svc.Select(ctx, noticeID, []uuid.UUID{pool[1].ID}); err != nil {
		t.Fatal(err)
	}
	view, err = svc.View(ctx, noticeID)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range view.Candidates {
		if c.ID == pool[1].ID {
			t.Error("shortlisted expert still listed")
		}
	}
	if len(view.Selected) != 1 || view.Selected[0].ID != pool[1].ID {
		t.Errorf("selected = %v", view.Selected)
	}
}

func TestCandidateListingCap(t *testing.T) {
	pool := make([]directory.Candidate, 0, MaxSelectable+20)
	for i := 0; i < MaxSelectable+20; i++ {
		pool = append(pool, candidate("P", fmt.Sprintf("Nom%03d", i), "FR", "75", "Paris"))
	}

	svc := NewService(&fakeDirectory{pool: pool}, NewMemoryStore(), &fakeContacted{})
	view, err := svc.View(context.Background(), uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Candidates) != MaxSelectable {
		t.Errorf("listing = %d candidates, want %d", len(view.Candidates), MaxSelectable)
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, time.Hour)
	ctx := context.Background()
	noticeID := uuid.New()

	// Absent session comes back empty, not as an error.
	session, err := store.Get(ctx, noticeID)
	if err != nil {
		t.Fatal(err)
	}
	if len(session.Facets) != 0 || len(session.Selected) != 0 {
		t.Error("fresh session not empty")
	}

	session.Facets[FacetCountry] = []string{"FR"}
	expertID := uuid.New()
	if err := session.Select(expertID); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, session); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.Get(ctx, noticeID)
	if err != nil {
		t.Fatal(err)
	}
	if got := loaded.Facets[FacetCountry]; len(got) != 1 || got[0] != "FR" {
		t.Errorf("facets after reload = %v", loaded.Facets)
	}
	if !loaded.IsSelected(expertID) {
		t.Error("selection lost on reload")
	}

	// Sessions expire with the TTL.
	mr.FastForward(2 * time.Hour)
	expired, err := store.Get(ctx, noticeID)
	if err != nil {
		t.Fatal(err)
	}
	if len(expired.Facets) != 0 {
		t.Error("session survived its TTL")
	}

	if err := store.Delete(ctx, noticeID); err != nil {
		t.Fatal(err)
	}
}

func TestFold(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Émile", "emile"},
		{"Écuyer", "ecuyer"},
		{"Zoë", "zoe"},
		{"plain", "plain"},
	}
	for _, tc := range cases {
		if got := fold(tc.in); got != tc.want {
			t.Errorf("fold(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
