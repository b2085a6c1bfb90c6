package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/devlinkhq/devlink-backend/internal/models"
	"github.com/devlinkhq/devlink-backend/internal/store"
)

type fakeProfileStore struct {
	docs     map[string]bson.M // upserted $set documents, merged like Mongo would
	profiles map[string]*models.Profile
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{
		docs:     map[string]bson.M{},
		profiles: map[string]*models.Profile{},
	}
}

func (f *fakeProfileStore) Upsert(_ context.Context, userID string, set bson.M) (*models.Profile, error) {
	doc, ok := f.docs[userID]
	if !ok {
		doc = bson.M{}
		f.docs[userID] = doc
	}
	for k, v := range set {
		doc[k] = v
	}

	p := &models.Profile{UserID: userID}
	if v, ok := doc["status"].(string); ok {
		p.Status = v
	}
	if v, ok := doc["skills"].([]string); ok {
		p.Skills = v
	}
	if v, ok := doc["company"].(string); ok {
		p.Company = v
	}
	if v, ok := doc["bio"].(string); ok {
		p.Bio = v
	}
	return p, nil
}

func (f *fakeProfileStore) GetByUserID(_ context.Context, userID string) (*models.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProfileStore) List(_ context.Context) ([]models.Profile, error) {
	out := make([]models.Profile, 0, len(f.profiles))
	for _, p := range f.profiles {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProfileStore) Replace(_ context.Context, p *models.Profile) error {
	f.profiles[p.UserID] = p
	return nil
}

func (f *fakeProfileStore) DeleteByUserID(_ context.Context, userID string) error {
	delete(f.profiles, userID)
	return nil
}

type fakeUserStore struct {
	summaries map[string]models.UserSummary
	deleted   []string
	log       *[]string
}

func (f *fakeUserStore) GetUserSummaries(_ context.Context, ids []string) (map[string]models.UserSummary, error) {
	out := map[string]models.UserSummary{}
	for _, id := range ids {
		if u, ok := f.summaries[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (f *fakeUserStore) DeleteUser(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	if f.log != nil {
		*f.log = append(*f.log, "user")
	}
	return nil
}

type fakePostStore struct {
	log *[]string
}

func (f *fakePostStore) DeleteByUserID(_ context.Context, _ string) error {
	if f.log != nil {
		*f.log = append(*f.log, "posts")
	}
	return nil
}

func newTestHandler() (*Handler, *fakeProfileStore) {
	profiles := newFakeProfileStore()
	users := &fakeUserStore{summaries: map[string]models.UserSummary{
		"owner": {ID: "owner", Name: "Jo Dev", Avatar: "https://www.gravatar.com/avatar/abc"},
	}}
	return NewHandler(profiles, users, &fakePostStore{}, nil), profiles
}

func do(t *testing.T, h *Handler, userID, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Post("/api/profile", h.Upsert)
	r.Get("/api/profile", h.List)
	r.Get("/api/profile/me", h.Me)
	r.Get("/api/profile/user/{user_id}", h.GetByUser)
	r.Delete("/api/profile", h.Delete)
	r.Put("/api/profile/experience", h.AddExperience)
	r.Delete("/api/profile/experience/{exp_id}", h.RemoveExperience)
	r.Put("/api/profile/education", h.AddEducation)
	r.Delete("/api/profile/education/{edu_id}", h.RemoveEducation)
	r.Get("/api/profile/github/{username}", h.GithubRepos)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), "user_id", userID))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestParseSkills(t *testing.T) {
	assert.Equal(t, []string{"node", "react", "css"}, ParseSkills("node, react , css"))
	assert.Equal(t, []string{"go"}, ParseSkills("go"))
}

func TestUpsertValidation(t *testing.T) {
	h, _ := newTestHandler()
	rec := do(t, h, "owner", http.MethodPost, "/api/profile", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t,
		`{"errors":[{"msg":"Status is required"},{"msg":"Skills is required"}]}`,
		rec.Body.String())
}

func TestUpsertMergeKeepsUnspecifiedFields(t *testing.T) {
	h, _ := newTestHandler()

	rec := do(t, h, "owner", http.MethodPost, "/api/profile",
		`{"status":"Developer","skills":"go","company":"ACME"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Second call omits company entirely; it must survive the merge.
	rec = do(t, h, "owner", http.MethodPost, "/api/profile",
		`{"status":"Developer","skills":"go","bio":"hi there"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var p models.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "ACME", p.Company)
	assert.Equal(t, "hi there", p.Bio)
}

func TestMeWithoutProfile(t *testing.T) {
	h, _ := newTestHandler()
	rec := do(t, h, "owner", http.MethodGet, "/api/profile/me", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"msg":"There is no profile for this user"}`, rec.Body.String())
}

func TestMeAttachesUserSummary(t *testing.T) {
	h, profiles := newTestHandler()
	profiles.profiles["owner"] = &models.Profile{UserID: "owner", Status: "Developer"}

	rec := do(t, h, "owner", http.MethodGet, "/api/profile/me", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var p models.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	require.NotNil(t, p.User)
	assert.Equal(t, "Jo Dev", p.User.Name)
}

func TestAddExperienceValidation(t *testing.T) {
	h, _ := newTestHandler()
	rec := do(t, h, "owner", http.MethodPut, "/api/profile/experience", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t,
		`{"errors":[{"msg":"Title is required"},{"msg":"Company is required"},{"msg":"From date is required"}]}`,
		rec.Body.String())
}

func TestAddExperienceWithoutProfile(t *testing.T) {
	h, _ := newTestHandler()
	rec := do(t, h, "owner", http.MethodPut, "/api/profile/experience",
		`{"title":"Engineer","company":"ACME","from":"2020-01-01"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"msg":"There is no profile for this user"}`, rec.Body.String())
}

func TestExperiencePrependAndRemove(t *testing.T) {
	h, profiles := newTestHandler()
	profiles.profiles["owner"] = &models.Profile{UserID: "owner", Status: "Developer"}

	rec := do(t, h, "owner", http.MethodPut, "/api/profile/experience",
		`{"title":"Engineer","company":"ACME","from":"2020-01-01"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, "owner", http.MethodPut, "/api/profile/experience",
		`{"title":"Senior Engineer","company":"ACME","from":"2022-01-01"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var p models.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	require.Len(t, p.Experience, 2)
	assert.Equal(t, "Senior Engineer", p.Experience[0].Title) // newest first
	require.NotEmpty(t, p.Experience[0].ID)

	// Unknown entry id removes nothing and reports 404.
	rec = do(t, h, "owner", http.MethodDelete, "/api/profile/experience/bogus-id", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"msg":"Experience not found"}`, rec.Body.String())
	require.Len(t, profiles.profiles["owner"].Experience, 2)

	rec = do(t, h, "owner", http.MethodDelete, "/api/profile/experience/"+p.Experience[0].ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	require.Len(t, p.Experience, 1)
	assert.Equal(t, "Engineer", p.Experience[0].Title)
}

func TestRemoveUnknownEducation(t *testing.T) {
	h, profiles := newTestHandler()
	profiles.profiles["owner"] = &models.Profile{
		UserID:    "owner",
		Education: []models.Education{{ID: "edu-1", School: "MIT"}},
	}

	rec := do(t, h, "owner", http.MethodDelete, "/api/profile/education/bogus-id", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"msg":"Education not found"}`, rec.Body.String())
	assert.Len(t, profiles.profiles["owner"].Education, 1)
}

func TestDeleteCascadesPostsProfileUser(t *testing.T) {
	var order []string
	profiles := newFakeProfileStore()
	profiles.profiles["owner"] = &models.Profile{UserID: "owner"}
	users := &fakeUserStore{summaries: map[string]models.UserSummary{}, log: &order}
	h := NewHandler(profiles, users, &fakePostStore{log: &order}, nil)

	rec := do(t, h, "owner", http.MethodDelete, "/api/profile", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"msg":"User deleted"}`, rec.Body.String())

	assert.Equal(t, []string{"posts", "user"}, order)
	assert.Equal(t, []string{"owner"}, users.deleted)
	assert.NotContains(t, profiles.profiles, "owner")
}

func TestListAttachesUserSummaries(t *testing.T) {
	h, profiles := newTestHandler()
	profiles.profiles["owner"] = &models.Profile{UserID: "owner", Status: "Developer"}
	profiles.profiles["ghost"] = &models.Profile{UserID: "ghost", Status: "Unknown"}

	rec := do(t, h, "owner", http.MethodGet, "/api/profile", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var out []models.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 2)
	for _, p := range out {
		if p.UserID == "owner" {
			require.NotNil(t, p.User)
			assert.Equal(t, "Jo Dev", p.User.Name)
		} else {
			assert.Nil(t, p.User) // no matching user row
		}
	}
}
