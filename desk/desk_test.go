package desk_test

import (
	"context"
	"testing"
	"time"

	clientdesk "github.com/bansur/clientdesk-go"
	"github.com/bansur/clientdesk-go/desk"
	"github.com/bansur/clientdesk-go/fake"
	"github.com/bansur/clientdesk-go/storage"
	"github.com/bansur/clientdesk-go/view"
	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func testConfig() clientdesk.Config {
	return clientdesk.Config{
		PageSize:         10,
		CatalogTTL:       5 * time.Minute,
		AgentScopedRoles: []int{3},
	}
}

func seedOptions(token string) []fake.Option {
	return []fake.Option{
		fake.WithCatalog(
			clientdesk.CatalogEntry{ID: 1, Label: "New"},
			clientdesk.CatalogEntry{ID: 5, Label: "Approved"},
		),
		fake.WithAgents(clientdesk.AgentRef{ID: 42, Name: "Carla", Surname: "Mena"}),
		fake.WithRecords(
			clientdesk.ClientRecord{
				ID: 1, Name: "Ana", Surname: "Rojas",
				State: &clientdesk.StateRef{ID: 1, Label: "New"},
				Agent: &clientdesk.AgentRef{ID: 42, Name: "Carla", Surname: "Mena"},
			},
			clientdesk.ClientRecord{
				ID: 2, Name: "Juan", Surname: "Diaz",
				State: &clientdesk.StateRef{ID: 1, Label: "New"},
				Agent: &clientdesk.AgentRef{ID: 99, Name: "Otro", Surname: "Agente"},
			},
			clientdesk.ClientRecord{ID: 3, Name: "Bruno", Surname: "Mena"},
		),
		fake.WithCredential("carla@example.com", "secret",
			clientdesk.User{ID: 42, Name: "Carla", Surname: "Mena", Email: "carla@example.com", Role: 3},
			token),
	}
}

func TestNew_RequiresCoreBackends(t *testing.T) {
	if _, err := desk.New(testConfig()); err == nil {
		t.Fatal("expected error without backends")
	}
}

func TestLoginRefreshRender(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	d, _, _, err := fake.NewDesk(testConfig(), seedOptions(token)...)
	if err != nil {
		t.Fatalf("NewDesk returned error: %v", err)
	}
	defer d.Close()

	ctx := context.Background()
	if err := d.Login(ctx, "carla@example.com", "secret"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if !d.Session().Authenticated() {
		t.Fatal("expected authenticated session")
	}

	if err := d.Refresh(ctx); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	// Role 3 is agent-scoped: only records assigned to user 42 come back.
	page := d.Render()
	if page.TotalRows != 1 || page.Rows[0].ID != 1 {
		t.Errorf("agent-scoped refresh should only fetch own records, got %+v", page)
	}
}

func TestLogin_RejectedCredentials(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	d, _, _, err := fake.NewDesk(testConfig(), seedOptions(token)...)
	if err != nil {
		t.Fatalf("NewDesk returned error: %v", err)
	}
	defer d.Close()

	if err := d.Login(context.Background(), "carla@example.com", "wrong"); err == nil {
		t.Fatal("expected error for rejected credentials")
	}
	if d.Session().Authenticated() {
		t.Error("failed login must not authenticate")
	}
}

func TestScope_PassesThroughForUnscopedRoles(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	opts := seedOptions(token)
	opts = append(opts, fake.WithCredential("boss@example.com", "secret",
		clientdesk.User{ID: 7, Name: "Rosa", Role: 1}, token))

	d, _, _, err := fake.NewDesk(testConfig(), opts...)
	if err != nil {
		t.Fatalf("NewDesk returned error: %v", err)
	}
	defer d.Close()

	ctx := context.Background()
	if err := d.Login(ctx, "boss@example.com", "secret"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if err := d.Refresh(ctx); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if page := d.Render(); page.TotalRows != 3 {
		t.Errorf("unscoped role should browse every record, got %d", page.TotalRows)
	}
}

func TestScope_UnauthenticatedPassesThrough(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	d, _, _, err := fake.NewDesk(testConfig(), seedOptions(token)...)
	if err != nil {
		t.Fatalf("NewDesk returned error: %v", err)
	}
	defer d.Close()

	q := d.Scope(clientdesk.ListQuery{StateIDs: []int{1}})
	if q.AgentID != 0 || len(q.StateIDs) != 1 {
		t.Errorf("no session should leave the query untouched, got %+v", q)
	}
}

func TestMutationFlow_SuccessRefreshesRecords(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	d, backends, notifier, err := fake.NewDesk(testConfig(), seedOptions(token)...)
	if err != nil {
		t.Fatalf("NewDesk returned error: %v", err)
	}
	defer d.Close()

	ctx := context.Background()
	if err := d.Refresh(ctx); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	rec := d.Records().Snapshot()[0]
	dlg, err := d.Mutator().Open(ctx, rec)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := dlg.Select(5); err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if err := dlg.Confirm(ctx); err != nil {
		t.Fatalf("Confirm returned error: %v", err)
	}

	// The fake server applied the transition and the post-mutation refresh
	// pulled it back into the store.
	stored, ok := backends.Record(rec.ID)
	if !ok || stored.State == nil || stored.State.ID != 5 {
		t.Errorf("server-side record should carry state 5, got %+v", stored)
	}
	var found bool
	for _, r := range d.Records().Snapshot() {
		if r.ID == rec.ID {
			found = true
			if r.State == nil || r.State.ID != 5 {
				t.Errorf("refreshed snapshot should reflect server truth, got %+v", r.State)
			}
		}
	}
	if !found {
		t.Fatal("mutated record missing from snapshot")
	}
	if len(notifier.Successes()) != 1 {
		t.Errorf("expected one success notification, got %v", notifier.Successes())
	}
}

func TestRender_AppliesTableConfiguration(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	d, _, _, err := fake.NewDesk(testConfig(), seedOptions(token)...)
	if err != nil {
		t.Fatalf("NewDesk returned error: %v", err)
	}
	defer d.Close()

	ctx := context.Background()
	if err := d.Refresh(ctx); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	d.Table().SetPredicate(view.TextPredicate{Query: "mena"})
	page := d.Render()
	if page.TotalRows != 1 || page.Rows[0].ID != 3 {
		t.Errorf("expected only Bruno Mena, got %+v", page)
	}
}

func TestRestore_AcrossDesks(t *testing.T) {
	// Both desks share one storage backend, simulating a host restart.
	token := signedToken(t, time.Now().Add(time.Hour))
	store := storage.NewMemory()

	cfg := testConfig()
	first, _, _, err := fake.NewDeskWithStorage(cfg, store, seedOptions(token)...)
	if err != nil {
		t.Fatalf("NewDesk returned error: %v", err)
	}
	ctx := context.Background()
	if err := first.Login(ctx, "carla@example.com", "secret"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	first.Close()

	second, _, _, err := fake.NewDeskWithStorage(cfg, store, seedOptions(token)...)
	if err != nil {
		t.Fatalf("second NewDesk returned error: %v", err)
	}
	defer second.Close()

	if err := second.Restore(ctx); err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}
	u, err := second.Session().User()
	if err != nil {
		t.Fatalf("User returned error: %v", err)
	}
	if u.Email != "carla@example.com" {
		t.Errorf("restored user mismatch: %+v", u)
	}
}
