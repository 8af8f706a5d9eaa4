package cli

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/dmitrijs2005/docproc/internal/client/config"
	"github.com/dmitrijs2005/docproc/internal/client/metrics"
	"github.com/dmitrijs2005/docproc/internal/client/models"
	"github.com/dmitrijs2005/docproc/internal/client/services"
	"github.com/dmitrijs2005/docproc/internal/client/sources"
	"github.com/dmitrijs2005/docproc/internal/logging"
	"github.com/stretchr/testify/require"
)

// fakeAPI implements client.Client with canned results.
type fakeAPI struct {
	tokens      *models.TokenPair
	tokenErr    error
	registerErr error
	user        *models.User
	userErr     error
	legacy      *models.LegacyLogin
	legacyErr   error

	docs       []models.Document
	listErr    error
	byID       map[int64]*models.Document
	getErr     error
	uploaded   *models.Document
	uploadErr  error
	processed  *models.Document
	processErr error
	updateErrs []error
	stats      *models.Stats
	statsErr   error
	pingErr    error

	lastUsername string
	lastEmail    string
	lastPassword string
	lastUpload   struct{ name, body, title string }
	updates      int
}

func (f *fakeAPI) ObtainToken(_ context.Context, username string, password []byte) (*models.TokenPair, error) {
	f.lastUsername, f.lastPassword = username, string(password)
	return f.tokens, f.tokenErr
}

func (f *fakeAPI) Register(_ context.Context, username, email string, password []byte) error {
	f.lastUsername, f.lastEmail, f.lastPassword = username, email, string(password)
	return f.registerErr
}

func (f *fakeAPI) CurrentUser(context.Context) (*models.User, error) {
	return f.user, f.userErr
}

func (f *fakeAPI) LoginLegacy(_ context.Context, email string, password []byte) (*models.LegacyLogin, error) {
	f.lastEmail, f.lastPassword = email, string(password)
	return f.legacy, f.legacyErr
}

func (f *fakeAPI) ListDocuments(context.Context) ([]models.Document, error) {
	return f.docs, f.listErr
}

func (f *fakeAPI) GetDocument(_ context.Context, id int64) (*models.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	d, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	c := d.Clone()
	return &c, nil
}

func (f *fakeAPI) UploadDocument(_ context.Context, filename string, file io.Reader, title string) (*models.Document, error) {
	body, _ := io.ReadAll(file)
	f.lastUpload.name, f.lastUpload.body, f.lastUpload.title = filename, string(body), title
	return f.uploaded, f.uploadErr
}

func (f *fakeAPI) ProcessDocument(context.Context, int64) (*models.Document, error) {
	return f.processed, f.processErr
}

func (f *fakeAPI) UpdateExtractedField(_ context.Context, id int64, value string, validated bool) (*models.ExtractedField, error) {
	f.updates++
	if len(f.updateErrs) > 0 {
		err := f.updateErrs[0]
		f.updateErrs = f.updateErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &models.ExtractedField{ID: id, Value: value, IsValidated: validated}, nil
}

func (f *fakeAPI) Stats(context.Context) (*models.Stats, error) {
	return f.stats, f.statsErr
}

func (f *fakeAPI) Ping(context.Context) error {
	return f.pingErr
}

type memCreds struct {
	access, refresh string
}

func (m *memCreds) AccessToken(context.Context) (string, error)  { return m.access, nil }
func (m *memCreds) RefreshToken(context.Context) (string, error) { return m.refresh, nil }
func (m *memCreds) Save(_ context.Context, access, refresh string) error {
	m.access, m.refresh = access, refresh
	return nil
}
func (m *memCreds) Clear(context.Context) error {
	m.access, m.refresh = "", ""
	return nil
}

type memCache struct {
	docs []models.Document
}

func (m *memCache) Replace(_ context.Context, docs []models.Document) error {
	m.docs = append([]models.Document(nil), docs...)
	return nil
}
func (m *memCache) Load(context.Context) ([]models.Document, error) {
	return append([]models.Document{}, m.docs...), nil
}
func (m *memCache) Clear(context.Context) error {
	m.docs = nil
	return nil
}

type testEnv struct {
	app   *App
	api   *fakeAPI
	creds *memCreds
	cache *memCache
	out   *bytes.Buffer
}

// newTestEnv builds an App over fakes. input feeds every prompt, passwords
// included, as if piped on stdin.
func newTestEnv(t *testing.T, api *fakeAPI, creds *memCreds, flow services.AuthFlow, input string) *testEnv {
	t.Helper()
	stubTerminal(t, false, func(int) ([]byte, error) {
		t.Fatal("terminal read in test")
		return nil, nil
	})

	logger := logging.New(io.Discard, "error")
	session, err := services.NewSessionStore(context.Background(), api, creds, flow, logger)
	require.NoError(t, err)

	cache := &memCache{}
	out := &bytes.Buffer{}
	a := &App{
		config:    &config.Config{ServerBaseURL: "http://backend.test/api"},
		logger:    logger,
		api:       api,
		session:   session,
		documents: services.NewDocumentStore(api, cache, logger),
		opener:    sources.NewRouter(sources.Config{}),
		metrics:   metrics.NewRecorder(),
		reader:    rdr(input),
		out:       out,
	}
	a.watchStores()
	t.Cleanup(func() { _ = a.Close() })

	return &testEnv{app: a, api: api, creds: creds, cache: cache, out: out}
}

func loggedInEnv(t *testing.T, api *fakeAPI, input string) *testEnv {
	t.Helper()
	return newTestEnv(t, api, &memCreds{access: "acc", refresh: "ref"}, services.AuthFlowToken, input)
}
