package organizations

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sort"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herdup/herdup/internal/middleware"
	"github.com/herdup/herdup/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memStore struct {
	orgs    map[uuid.UUID]*models.Organization
	members map[uuid.UUID][]uuid.UUID
	calls   int
}

func newMemStore(orgs ...*models.Organization) *memStore {
	s := &memStore{orgs: map[uuid.UUID]*models.Organization{}, members: map[uuid.UUID][]uuid.UUID{}}
	for _, o := range orgs {
		s.orgs[o.ID] = o
	}
	return s
}

func (s *memStore) List(context.Context) ([]*models.Organization, error) {
	s.calls++
	var out []*models.Organization
	for _, o := range s.orgs {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memStore) ListByIDs(_ context.Context, ids []uuid.UUID) ([]*models.Organization, error) {
	s.calls++
	var out []*models.Organization
	for _, id := range ids {
		if o, ok := s.orgs[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *memStore) GetByID(_ context.Context, id uuid.UUID) (*models.Organization, error) {
	s.calls++
	o, ok := s.orgs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return o, nil
}

func (s *memStore) Logos(_ context.Context, ids []uuid.UUID) ([]models.OrganizationLogo, error) {
	s.calls++
	var out []models.OrganizationLogo
	for _, id := range ids {
		if o, ok := s.orgs[id]; ok {
			out = append(out, models.OrganizationLogo{ID: o.ID, Logo: o.Logo})
		}
	}
	return out, nil
}

func (s *memStore) SetLogo(_ context.Context, id uuid.UUID, url string) (*string, error) {
	o, ok := s.orgs[id]
	if !ok {
		return nil, ErrNotFound
	}
	prev := o.Logo
	o.Logo = &url
	return prev, nil
}

func (s *memStore) MemberOrganizationIDs(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.members[userID], nil
}

func (s *memStore) AddMember(_ context.Context, orgID, userID uuid.UUID) error {
	if _, ok := s.orgs[orgID]; !ok {
		return ErrNotFound
	}
	s.members[userID] = append(s.members[userID], orgID)
	return nil
}

func (s *memStore) RemoveMember(_ context.Context, orgID, userID uuid.UUID) error {
	kept := s.members[userID][:0]
	for _, id := range s.members[userID] {
		if id != orgID {
			kept = append(kept, id)
		}
	}
	s.members[userID] = kept
	return nil
}

type fakeLogos struct {
	uploaded map[string][]byte
	deleted  []string
}

func (f *fakeLogos) UploadLogo(_ context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	b, _ := io.ReadAll(body)
	f.uploaded[key] = b
	return f.PublicURL(key), nil
}

func (f *fakeLogos) PresignLogoUpload(_ context.Context, key, _ string) (string, error) {
	return "https://signed.example/" + key + "?sig=1", nil
}

func (f *fakeLogos) PublicURL(key string) string { return "https://logos.example/" + key }

func (f *fakeLogos) KeyFromPublicURL(url string) string {
	const prefix = "https://logos.example/"
	if len(url) > len(prefix) && url[:len(prefix)] == prefix {
		return url[len(prefix):]
	}
	return ""
}

func (f *fakeLogos) DeleteLogo(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func strPtr(s string) *string { return &s }

func newRouter(store Store, logos LogoStorage, userID uuid.UUID) *gin.Engine {
	h := NewHandler(store, logos, nil)
	r := gin.New()
	asUser := func(c *gin.Context) { c.Set(middleware.ContextUserID, userID) }
	r.GET("/organizations", h.List)
	r.GET("/organizations/logos", h.Logos)
	r.GET("/organizations/:id", h.Get)
	r.PUT("/organizations/:id/logo", h.UploadLogo)
	r.POST("/organizations/:id/logo/upload-url", h.LogoUploadURL)
	r.POST("/organizations/:id/members", asUser, h.Join)
	r.DELETE("/organizations/:id/members", asUser, h.Leave)
	r.GET("/me/organizations", asUser, h.MyOrganizations)
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	var body struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	require.True(t, body.Success)
	require.NoError(t, json.Unmarshal(body.Data, v))
}

func TestListFilters(t *testing.T) {
	a := &models.Organization{ID: uuid.New(), Name: "Alpha"}
	b := &models.Organization{ID: uuid.New(), Name: "Beta"}
	store := newMemStore(a, b)
	r := newRouter(store, nil, uuid.New())

	var all []models.Organization
	decodeData(t, serve(r, httptest.NewRequest(http.MethodGet, "/organizations", nil)), &all)
	require.Len(t, all, 2)
	assert.Equal(t, "Alpha", all[0].Name)

	var some []models.Organization
	decodeData(t, serve(r, httptest.NewRequest(http.MethodGet, "/organizations?ids="+b.ID.String(), nil)), &some)
	require.Len(t, some, 1)
	assert.Equal(t, b.ID, some[0].ID)

	before := store.calls
	w := serve(r, httptest.NewRequest(http.MethodGet, "/organizations?ids=", nil))
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())
	assert.Equal(t, before, store.calls, "empty filter must not query")

	w = serve(r, httptest.NewRequest(http.MethodGet, "/organizations?ids=bogus", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogosAndGet(t *testing.T) {
	a := &models.Organization{ID: uuid.New(), Name: "Alpha", Logo: strPtr("https://img/a.png")}
	r := newRouter(newMemStore(a), nil, uuid.New())

	var logos []models.OrganizationLogo
	decodeData(t, serve(r, httptest.NewRequest(http.MethodGet, "/organizations/logos?ids="+a.ID.String(), nil)), &logos)
	require.Len(t, logos, 1)
	assert.Equal(t, "https://img/a.png", *logos[0].Logo)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/organizations/logos", nil))
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodGet, "/organizations/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Organization not found")
}

func TestJoinLeave(t *testing.T) {
	a := &models.Organization{ID: uuid.New(), Name: "Alpha"}
	user := uuid.New()
	store := newMemStore(a)
	r := newRouter(store, nil, user)

	w := serve(r, httptest.NewRequest(http.MethodPost, "/organizations/"+a.ID.String()+"/members", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	var ids []uuid.UUID
	decodeData(t, serve(r, httptest.NewRequest(http.MethodGet, "/me/organizations", nil)), &ids)
	assert.Equal(t, []uuid.UUID{a.ID}, ids)

	w = serve(r, httptest.NewRequest(http.MethodDelete, "/organizations/"+a.ID.String()+"/members", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = serve(r, httptest.NewRequest(http.MethodGet, "/me/organizations", nil))
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodPost, "/organizations/"+uuid.NewString()+"/members", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadLogoReplacesPrevious(t *testing.T) {
	a := &models.Organization{ID: uuid.New(), Name: "Alpha", Logo: strPtr("https://logos.example/logos/old.png")}
	logos := &fakeLogos{uploaded: map[string][]byte{}}
	r := newRouter(newMemStore(a), logos, uuid.New())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="logo.png"`)
	hdr.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, _ = part.Write([]byte("png-bytes"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/organizations/"+a.ID.String()+"/logo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := serve(r, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.Len(t, logos.uploaded, 1)
	for _, body := range logos.uploaded {
		assert.Equal(t, "png-bytes", string(body))
	}
	assert.Equal(t, []string{"logos/old.png"}, logos.deleted)
	assert.Contains(t, *a.Logo, "https://logos.example/logos/"+a.ID.String()+"/")
}

func TestLogoUploadURL(t *testing.T) {
	a := &models.Organization{ID: uuid.New(), Name: "Alpha"}
	r := newRouter(newMemStore(a), &fakeLogos{uploaded: map[string][]byte{}}, uuid.New())

	req := httptest.NewRequest(http.MethodPost, "/organizations/"+a.ID.String()+"/logo/upload-url", bytes.NewBufferString(`{"filename":"x.exe"}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusBadRequest, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodPost, "/organizations/"+a.ID.String()+"/logo/upload-url", bytes.NewBufferString(`{"filename":"x.png"}`))
	req.Header.Set("Content-Type", "application/json")
	var out map[string]string
	decodeData(t, serve(r, req), &out)
	assert.Contains(t, out["upload_url"], "https://signed.example/logos/")
	assert.Equal(t, *a.Logo, out["org_logo"])
}

func TestLogoUploadURLReplacesPreviousAndReindexes(t *testing.T) {
	a := &models.Organization{ID: uuid.New(), Name: "Alpha", Logo: strPtr("https://logos.example/logos/old.png")}
	logos := &fakeLogos{uploaded: map[string][]byte{}}
	h := NewHandler(newMemStore(a), logos, nil)
	reloads := 0
	h.OnLogoChange(func() { reloads++ })
	r := gin.New()
	r.POST("/organizations/:id/logo/upload-url", h.LogoUploadURL)

	req := httptest.NewRequest(http.MethodPost, "/organizations/"+a.ID.String()+"/logo/upload-url", bytes.NewBufferString(`{"filename":"new.png"}`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(r, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, []string{"logos/old.png"}, logos.deleted)
	assert.Contains(t, *a.Logo, "https://logos.example/logos/"+a.ID.String()+"/")
	assert.Equal(t, 1, reloads)

	req = httptest.NewRequest(http.MethodPost, "/organizations/"+uuid.NewString()+"/logo/upload-url", bytes.NewBufferString(`{"filename":"new.png"}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusNotFound, serve(r, req).Code)
	assert.Equal(t, 1, reloads)
}

func TestLogoRoutesWithoutStorage(t *testing.T) {
	a := &models.Organization{ID: uuid.New(), Name: "Alpha"}
	r := newRouter(newMemStore(a), nil, uuid.New())
	req := httptest.NewRequest(http.MethodPut, "/organizations/"+a.ID.String()+"/logo", nil)
	assert.Equal(t, http.StatusServiceUnavailable, serve(r, req).Code)
}
