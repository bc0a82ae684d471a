package usecase

import (
	"context"
	"encoding/hex"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gnelabs/authgate/internal/auth/entity"
	"github.com/gnelabs/authgate/internal/pkg/clock"
	"github.com/gnelabs/authgate/internal/pkg/config"
	"github.com/gnelabs/authgate/internal/pkg/goerror"
	"github.com/gnelabs/authgate/internal/pkg/goroutine"
	"github.com/gnelabs/authgate/internal/pkg/hash"
	"github.com/gnelabs/authgate/internal/pkg/instrument"
	"github.com/gnelabs/authgate/internal/pkg/jwt"
	"github.com/gnelabs/authgate/internal/pkg/twofa"
	"github.com/gnelabs/authgate/internal/pkg/validator"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeStore struct {
	records map[string]entity.Challenge
	latest  map[string]string

	saveErr   error
	getErr    error
	latestErr error
	deleteErr error

	saved   []entity.Challenge
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records: make(map[string]entity.Challenge),
		latest:  make(map[string]string),
	}
}

func (f *fakeStore) Save(_ context.Context, ch entity.Challenge) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.records[ch.ID] = ch
	f.latest[ch.Username] = ch.ID
	f.saved = append(f.saved, ch)
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*entity.Challenge, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	ch, ok := f.records[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &ch, nil
}

func (f *fakeStore) LatestIDForUser(_ context.Context, username string) (string, error) {
	if f.latestErr != nil {
		return "", f.latestErr
	}
	id, ok := f.latest[username]
	if !ok {
		return "", goerror.ErrNotFound
	}
	return id, nil
}

func (f *fakeStore) Delete(_ context.Context, ch entity.Challenge) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.records, ch.ID)
	f.deleted = append(f.deleted, ch.ID)
	return nil
}

type fakeProvider struct {
	issueErr    error
	validateErr error

	issuedCreds *twofa.Credentials
	issued      *twofa.Challenge
	validated   *twofa.Challenge
	gotCode     string
}

func (f *fakeProvider) IssueChallenge(_ context.Context, creds twofa.Credentials, ch twofa.Challenge) error {
	f.issuedCreds = &creds
	f.issued = &ch
	return f.issueErr
}

func (f *fakeProvider) ValidateCode(_ context.Context, ch twofa.Challenge, code string) error {
	f.validated = &ch
	f.gotCode = code
	return f.validateErr
}

type fakeRepoDB struct {
	mu   sync.Mutex
	rows []entity.LoginAttempt
	err  error
}

func (f *fakeRepoDB) CreateLoginAttempt(_ context.Context, in entity.LoginAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, in)
	return nil
}

func (f *fakeRepoDB) attempts() []entity.LoginAttempt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.LoginAttempt(nil), f.rows...)
}

type fakeJWT struct {
	token string
	err   error
	got   string
}

func (f *fakeJWT) Generate(username string) (string, error) {
	f.got = username
	return f.token, f.err
}

func (f *fakeJWT) Verify(string) (jwt.Claims, error) { return jwt.Claims{}, nil }

type staticStringID struct{ id string }

func (s staticStringID) Generate() string { return s.id }

type staticNumberID struct{ id int64 }

func (s staticNumberID) Generate() int64 { return s.id }

type staticToken struct {
	token string
	err   error
}

func (s staticToken) Generate() (string, error) { return s.token, s.err }

type harness struct {
	uc        *Usecase
	store     *fakeStore
	provider  *fakeProvider
	repoDB    *fakeRepoDB
	jwt       *fakeJWT
	hmac      hash.Hash
	goroutine *goroutine.Manager
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
auth:
  challenge_ttl_minutes: 5
`))
	if err != nil {
		t.Fatalf("failed to build config: %v", err)
	}

	val, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}

	h := &harness{
		store:     newFakeStore(),
		provider:  &fakeProvider{},
		repoDB:    &fakeRepoDB{},
		jwt:       &fakeJWT{token: "jwt-abc"},
		hmac:      hash.NewHMACSHA256("hmac-secret"),
		goroutine: goroutine.NewManager(4),
	}

	h.uc = New(Dependency{
		Store:      h.store,
		RepoDB:     h.repoDB,
		Provider:   h.provider,
		Validator:  val,
		Config:     cfg,
		HMAC:       h.hmac,
		Token:      staticToken{token: "raw-device-token"},
		UUID:       staticStringID{id: "ch-uuid"},
		UID:        staticNumberID{id: 7},
		Clock:      clock.Static{At: testNow},
		JWT:        h.jwt,
		Instrument: instrument.NewNoop(),
		Goroutine:  h.goroutine,
	})
	return h
}

// seed places a valid outstanding challenge for alice in the store.
func (h *harness) seed(t *testing.T) entity.Challenge {
	t.Helper()

	digest, err := h.hmac.Hash("raw-device-token")
	if err != nil {
		t.Fatalf("failed to hash token: %v", err)
	}
	ch := entity.Challenge{
		ID:              "ch-uuid",
		Username:        "alice",
		DeviceTokenHash: string(digest),
		Channel:         entity.DeliveryChannelEmail,
		IssuedAt:        testNow.Add(-time.Minute),
	}
	h.store.records[ch.ID] = ch
	h.store.latest[ch.Username] = ch.ID
	return ch
}

func (h *harness) audits(t *testing.T) []entity.LoginAttempt {
	t.Helper()

	if err := h.goroutine.Wait(); err != nil {
		t.Fatalf("background tasks failed: %v", err)
	}
	return h.repoDB.attempts()
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestLoginIssuesChallenge(t *testing.T) {
	h := newHarness(t)

	out, err := h.uc.Login(context.Background(), LoginInput{Username: " alice ", Password: "secret", SMS: true})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if out.ChallengeID != "ch-uuid" {
		t.Fatalf("unexpected challenge id %q", out.ChallengeID)
	}

	if len(h.store.saved) != 1 {
		t.Fatalf("expected one saved record, got %d", len(h.store.saved))
	}
	saved := h.store.saved[0]
	if saved.Username != "alice" {
		t.Fatalf("username should be trimmed, got %q", saved.Username)
	}
	if saved.Channel != entity.DeliveryChannelSMS {
		t.Fatalf("unexpected channel %v", saved.Channel)
	}
	if !saved.IssuedAt.Equal(testNow) {
		t.Fatalf("unexpected issuance time %v", saved.IssuedAt)
	}

	digest, err := h.hmac.Hash("raw-device-token")
	if err != nil {
		t.Fatalf("failed to hash token: %v", err)
	}
	if saved.DeviceTokenHash != string(digest) {
		t.Fatalf("stored token is not the keyed digest")
	}
	if saved.DeviceTokenHash == "raw-device-token" {
		t.Fatalf("raw device token must never be stored")
	}
	if _, err := hex.DecodeString(saved.DeviceTokenHash); err != nil {
		t.Fatalf("digest should be hex encoded: %v", err)
	}

	if h.provider.issued == nil || h.provider.issued.DeviceToken != saved.DeviceTokenHash {
		t.Fatalf("provider should receive the stored digest, got %+v", h.provider.issued)
	}
	if h.provider.issuedCreds.Username != "alice" || h.provider.issuedCreds.Password != "secret" {
		t.Fatalf("provider received wrong credentials %+v", h.provider.issuedCreds)
	}

	rows := h.audits(t)
	if len(rows) != 1 || rows[0].Step != entity.AttemptStepIssue || !rows[0].Success {
		t.Fatalf("unexpected audit rows %+v", rows)
	}
}

func TestLoginValidatesInput(t *testing.T) {
	h := newHarness(t)

	_, err := h.uc.Login(context.Background(), LoginInput{Username: "", Password: "secret"})

	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Type() != goerror.TypeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(h.store.saved) != 0 {
		t.Fatalf("store must not be touched on invalid input")
	}
}

func TestLoginStoreFailureSkipsProvider(t *testing.T) {
	h := newHarness(t)
	h.store.saveErr = context.DeadlineExceeded

	_, err := h.uc.Login(context.Background(), LoginInput{Username: "alice", Password: "secret"})

	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Type() != goerror.TypeServer {
		t.Fatalf("expected server error, got %v", err)
	}
	if h.provider.issued != nil {
		t.Fatalf("provider must not be consulted when the store write fails")
	}
}

func TestLoginRejectedCredentials(t *testing.T) {
	h := newHarness(t)
	h.provider.issueErr = twofa.ErrRejected

	_, err := h.uc.Login(context.Background(), LoginInput{Username: "alice", Password: "wrong"})
	assertUnauthorized(t, err)

	rows := h.audits(t)
	if len(rows) != 1 || rows[0].Success {
		t.Fatalf("expected one failed audit row, got %+v", rows)
	}
}

func TestLoginChallengeVerifiesCode(t *testing.T) {
	h := newHarness(t)
	ch := h.seed(t)

	out, err := h.uc.LoginChallenge(context.Background(), LoginChallengeInput{
		Code:        "123456",
		ChallengeID: ch.ID,
		Username:    "alice",
		Password:    "secret",
	})
	if err != nil {
		t.Fatalf("verification failed: %v", err)
	}
	if out.AccessToken != "jwt-abc" {
		t.Fatalf("unexpected access token %q", out.AccessToken)
	}
	if h.jwt.got != "alice" {
		t.Fatalf("token minted for %q", h.jwt.got)
	}

	if h.provider.validated == nil || h.provider.validated.DeviceToken != ch.DeviceTokenHash {
		t.Fatalf("provider should receive the stored digest, got %+v", h.provider.validated)
	}
	if h.provider.gotCode != "123456" {
		t.Fatalf("provider received code %q", h.provider.gotCode)
	}

	if len(h.store.deleted) != 1 || h.store.deleted[0] != ch.ID {
		t.Fatalf("record should be deleted after use, got %v", h.store.deleted)
	}

	rows := h.audits(t)
	if len(rows) != 1 || rows[0].Step != entity.AttemptStepVerify || !rows[0].Success {
		t.Fatalf("unexpected audit rows %+v", rows)
	}
}

func TestLoginChallengeUnknownID(t *testing.T) {
	h := newHarness(t)

	_, err := h.uc.LoginChallenge(context.Background(), LoginChallengeInput{
		Code:        "123456",
		ChallengeID: "missing",
		Username:    "alice",
		Password:    "secret",
	})
	assertUnauthorized(t, err)
}

func TestLoginChallengeWrongUser(t *testing.T) {
	h := newHarness(t)
	ch := h.seed(t)

	_, err := h.uc.LoginChallenge(context.Background(), LoginChallengeInput{
		Code:        "123456",
		ChallengeID: ch.ID,
		Username:    "mallory",
		Password:    "secret",
	})
	assertUnauthorized(t, err)

	if h.provider.validated != nil {
		t.Fatalf("provider must not see a mismatched challenge")
	}
}

func TestLoginChallengeExpired(t *testing.T) {
	h := newHarness(t)
	ch := h.seed(t)
	ch.IssuedAt = testNow.Add(-6 * time.Minute)
	h.store.records[ch.ID] = ch

	_, err := h.uc.LoginChallenge(context.Background(), LoginChallengeInput{
		Code:        "123456",
		ChallengeID: ch.ID,
		Username:    "alice",
		Password:    "secret",
	})
	assertUnauthorized(t, err)
}

func TestLoginChallengeSuperseded(t *testing.T) {
	h := newHarness(t)
	ch := h.seed(t)
	h.store.latest["alice"] = "ch-newer"

	_, err := h.uc.LoginChallenge(context.Background(), LoginChallengeInput{
		Code:        "123456",
		ChallengeID: ch.ID,
		Username:    "alice",
		Password:    "secret",
	})
	assertUnauthorized(t, err)

	if h.provider.validated != nil {
		t.Fatalf("provider must not see a superseded challenge")
	}
}

func TestLoginChallengeWrongCode(t *testing.T) {
	h := newHarness(t)
	ch := h.seed(t)
	h.provider.validateErr = twofa.ErrRejected

	_, err := h.uc.LoginChallenge(context.Background(), LoginChallengeInput{
		Code:        "000000",
		ChallengeID: ch.ID,
		Username:    "alice",
		Password:    "secret",
	})
	assertUnauthorized(t, err)

	if len(h.store.deleted) != 0 {
		t.Fatalf("record must survive a failed verification")
	}

	rows := h.audits(t)
	if len(rows) != 1 || rows[0].Success {
		t.Fatalf("expected one failed audit row, got %+v", rows)
	}
}

func TestLoginChallengeDeleteFailureStillSucceeds(t *testing.T) {
	h := newHarness(t)
	ch := h.seed(t)
	h.store.deleteErr = context.DeadlineExceeded

	out, err := h.uc.LoginChallenge(context.Background(), LoginChallengeInput{
		Code:        "123456",
		ChallengeID: ch.ID,
		Username:    "alice",
		Password:    "secret",
	})
	if err != nil {
		t.Fatalf("verification should succeed despite cleanup failure: %v", err)
	}
	if out.AccessToken == "" {
		t.Fatalf("expected an access token")
	}
}
