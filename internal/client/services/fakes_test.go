package services

import (
	"context"
	"io"
	"sync"

	"github.com/dmitrijs2005/docproc/internal/client/models"
)

// fakeClient implements client.Client with canned results and records the
// arguments it was called with.
type fakeClient struct {
	mu sync.Mutex

	ObtainTokenRet *models.TokenPair
	ObtainTokenErr error
	RegisterErr    error
	CurrentUserRet *models.User
	CurrentUserErr error
	LegacyRet      *models.LegacyLogin
	LegacyErr      error

	ListRet    []models.Document
	ListErr    error
	ListFn     func(ctx context.Context) ([]models.Document, error)
	GetFn      func(ctx context.Context, id int64) (*models.Document, error)
	UploadRet  *models.Document
	UploadErr  error
	ProcessRet *models.Document
	ProcessErr error
	UpdateErr  error
	StatsRet   *models.Stats
	StatsErr   error
	PingErr    error

	LastUsername string
	LastEmail    string
	LastPassword string
	LastUpload   struct{ Filename, Body, Title string }
	LastUpdate   struct {
		ID        int64
		Value     string
		Validated bool
	}
	Calls []string
}

func (f *fakeClient) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, name)
}

func (f *fakeClient) ObtainToken(_ context.Context, username string, password []byte) (*models.TokenPair, error) {
	f.record("ObtainToken")
	f.LastUsername, f.LastPassword = username, string(password)
	return f.ObtainTokenRet, f.ObtainTokenErr
}

func (f *fakeClient) Register(_ context.Context, username, email string, password []byte) error {
	f.record("Register")
	f.LastUsername, f.LastEmail, f.LastPassword = username, email, string(password)
	return f.RegisterErr
}

func (f *fakeClient) CurrentUser(context.Context) (*models.User, error) {
	f.record("CurrentUser")
	return f.CurrentUserRet, f.CurrentUserErr
}

func (f *fakeClient) LoginLegacy(_ context.Context, email string, password []byte) (*models.LegacyLogin, error) {
	f.record("LoginLegacy")
	f.LastEmail, f.LastPassword = email, string(password)
	return f.LegacyRet, f.LegacyErr
}

func (f *fakeClient) ListDocuments(ctx context.Context) ([]models.Document, error) {
	f.record("ListDocuments")
	if f.ListFn != nil {
		return f.ListFn(ctx)
	}
	return f.ListRet, f.ListErr
}

func (f *fakeClient) GetDocument(ctx context.Context, id int64) (*models.Document, error) {
	f.record("GetDocument")
	return f.GetFn(ctx, id)
}

func (f *fakeClient) UploadDocument(_ context.Context, filename string, file io.Reader, title string) (*models.Document, error) {
	f.record("UploadDocument")
	b, _ := io.ReadAll(file)
	f.LastUpload.Filename, f.LastUpload.Body, f.LastUpload.Title = filename, string(b), title
	return f.UploadRet, f.UploadErr
}

func (f *fakeClient) ProcessDocument(context.Context, int64) (*models.Document, error) {
	f.record("ProcessDocument")
	return f.ProcessRet, f.ProcessErr
}

func (f *fakeClient) UpdateExtractedField(_ context.Context, id int64, value string, validated bool) (*models.ExtractedField, error) {
	f.record("UpdateExtractedField")
	f.LastUpdate.ID, f.LastUpdate.Value, f.LastUpdate.Validated = id, value, validated
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	return &models.ExtractedField{ID: id, Value: value, IsValidated: validated}, nil
}

func (f *fakeClient) Stats(context.Context) (*models.Stats, error) {
	f.record("Stats")
	return f.StatsRet, f.StatsErr
}

func (f *fakeClient) Ping(context.Context) error { return f.PingErr }

// memCredentials is an in-memory CredentialStore.
type memCredentials struct {
	access, refresh string
	SaveErr         error
	ClearErr        error
	Cleared         bool
}

func (m *memCredentials) AccessToken(context.Context) (string, error)  { return m.access, nil }
func (m *memCredentials) RefreshToken(context.Context) (string, error) { return m.refresh, nil }

func (m *memCredentials) Save(_ context.Context, access, refresh string) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.access, m.refresh = access, refresh
	return nil
}

func (m *memCredentials) Clear(context.Context) error {
	m.Cleared = true
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.access, m.refresh = "", ""
	return nil
}

// memCache is an in-memory DocumentCache.
type memCache struct {
	docs       []models.Document
	ReplaceErr error
	Cleared    bool
}

func (m *memCache) Replace(_ context.Context, docs []models.Document) error {
	if m.ReplaceErr != nil {
		return m.ReplaceErr
	}
	m.docs = append([]models.Document(nil), docs...)
	return nil
}

func (m *memCache) Load(context.Context) ([]models.Document, error) {
	return append([]models.Document{}, m.docs...), nil
}

func (m *memCache) Clear(context.Context) error {
	m.Cleared = true
	m.docs = nil
	return nil
}
