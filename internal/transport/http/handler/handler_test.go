package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"member-management/internal/core/auth"
	"member-management/internal/core/clock"
	"member-management/internal/core/config"
	"member-management/internal/core/server"
	"member-management/internal/domain"
	"member-management/internal/feature/team"
	"member-management/internal/feature/user"
	"member-management/internal/transport/http/router"
)

var t0 = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

type envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

type fixture struct {
	api, admin http.Handler
	teams      *MockTeamService
	users      *MockUserService
	jwt        *auth.JWTer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		teams: new(MockTeamService),
		users: new(MockUserService),
		jwt:   &auth.JWTer{Secret: []byte("test-secret"), Issuer: "member-management", TTL: time.Hour, Clock: clock.NewFixed(time.Now())},
	}
	log := zap.NewNop()
	reg := router.NewRegistry(
		NewAuthHandler(f.users, f.jwt, log),
		NewTeamHandler(f.teams, log),
		NewUserHandler(f.users, log),
	)
	d := router.Deps{
		Log:     log,
		JWT:     f.jwt,
		Limits:  config.Limits{MaxBodyBytes: 1 << 16},
		Server:  server.Options{Name: "test", Mode: gin.TestMode},
		Modules: reg,
	}
	f.api = router.NewAPIEngine(d)
	f.admin = router.NewAdminEngine(d)
	return f
}

func (f *fixture) token(t *testing.T, uid int64, role domain.Role) string {
	t.Helper()
	tok, _, err := f.jwt.Issue(uid, role)
	require.NoError(t, err)
	return tok
}

func do(t *testing.T, h http.Handler, method, path, token, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	assert.Equal(t, w.Code, env.Status, "http status must match envelope status")
	return w, env
}

func TestTeamHandler_Create(t *testing.T) {
	f := newFixture(t)
	admin := f.token(t, 1, domain.RoleAdmin)

	f.teams.On("CreateTeam", mock.Anything, team.CreateInput{Name: "Alpha", Description: "first"}).
		Return(&team.DTO{ID: 1, Name: "Alpha", Description: "first", CreatedAt: t0, UpdatedAt: t0}, nil).Once()

	w, env := do(t, f.api, http.MethodPost, "/api/v1/teams", admin, `{"name":"Alpha","description":"first"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Created successfully", env.Message)

	var got team.DTO
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, int64(1), got.ID)
	f.teams.AssertExpectations(t)
}

func TestTeamHandler_CreateDuplicate(t *testing.T) {
	f := newFixture(t)
	admin := f.token(t, 1, domain.RoleAdmin)

	f.teams.On("CreateTeam", mock.Anything, mock.Anything).
		Return(nil, domain.NewDuplicate("Team name already exists: Alpha")).Once()

	w, env := do(t, f.api, http.MethodPost, "/api/v1/teams", admin, `{"name":"Alpha"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Team name already exists: Alpha", env.Message)
	assert.Empty(t, env.Data)
}

func TestTeamHandler_CreateValidation(t *testing.T) {
	f := newFixture(t)
	admin := f.token(t, 1, domain.RoleAdmin)

	w, env := do(t, f.api, http.MethodPost, "/api/v1/teams", admin, `{"description":"no name"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Errors, "name")
	f.teams.AssertNotCalled(t, "CreateTeam", mock.Anything, mock.Anything)

	w, env = do(t, f.api, http.MethodPost, "/api/v1/teams", admin, `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Malformed JSON request", env.Message)
}

func TestTeamHandler_MemberCannotMutate(t *testing.T) {
	f := newFixture(t)
	member := f.token(t, 2, domain.RoleMember)

	w, env := do(t, f.api, http.MethodPost, "/api/v1/teams", member, `{"name":"Alpha"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied", env.Message)

	w, _ = do(t, f.api, http.MethodDelete, "/api/v1/teams/1", member, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	f.teams.AssertNotCalled(t, "DeleteTeam", mock.Anything, mock.Anything)
}

func TestTeamHandler_Get(t *testing.T) {
	f := newFixture(t)
	member := f.token(t, 2, domain.RoleMember)

	t.Run("requires login", func(t *testing.T) {
		w, _ := do(t, f.api, http.MethodGet, "/api/v1/teams/1", "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		f.teams.On("GetTeam", mock.Anything, int64(999)).Return(nil, domain.NotFoundID("Team", 999)).Once()
		w, env := do(t, f.api, http.MethodGet, "/api/v1/teams/999", member, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Team not found with id: 999", env.Message)
	})

	t.Run("bad id", func(t *testing.T) {
		w, env := do(t, f.api, http.MethodGet, "/api/v1/teams/abc", member, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid id: abc", env.Message)
	})

	t.Run("internal error is hidden", func(t *testing.T) {
		f.teams.On("GetTeam", mock.Anything, int64(5)).Return(nil, errors.New("dial tcp: refused")).Once()
		w, env := do(t, f.api, http.MethodGet, "/api/v1/teams/5", member, "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, env.Message, "dial tcp")
	})
}

func TestTeamHandler_UpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	admin := f.token(t, 1, domain.RoleAdmin)
	name := "Beta"

	f.teams.On("UpdateTeam", mock.Anything, int64(1), team.UpdateInput{Name: &name, Description: "d"}).
		Return(&team.DTO{ID: 1, Name: "Beta", Description: "d"}, nil).Once()
	w, env := do(t, f.api, http.MethodPut, "/api/v1/teams/1", admin, `{"name":"Beta","description":"d"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Team updated successfully", env.Message)

	f.teams.On("DeleteTeam", mock.Anything, int64(1)).Return(true, nil).Once()
	w, env = do(t, f.api, http.MethodDelete, "/api/v1/teams/1", admin, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "true", string(env.Data))

	f.teams.On("UpdateTeam", mock.Anything, int64(1), mock.Anything).Return(nil, domain.NotFoundID("Team", 1)).Once()
	w, _ = do(t, f.api, http.MethodPut, "/api/v1/teams/1", admin, `{"description":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	f.teams.AssertExpectations(t)
}

func TestTeamHandler_Members(t *testing.T) {
	f := newFixture(t)
	admin := f.token(t, 1, domain.RoleAdmin)

	f.teams.On("AddMember", mock.Anything, int64(1), int64(7)).
		Return(&team.MemberDTO{TeamID: 1, UserID: 7, JoinedAt: t0}, nil).Once()
	w, _ := do(t, f.api, http.MethodPost, "/api/v1/teams/1/members", admin, `{"userId":7}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	f.teams.On("AddMember", mock.Anything, int64(1), int64(7)).
		Return(nil, domain.DuplicateField("Membership", "userId", 7)).Once()
	w, _ = do(t, f.api, http.MethodPost, "/api/v1/teams/1/members", admin, `{"userId":7}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	f.teams.On("RemoveMember", mock.Anything, int64(1), int64(7)).Return(nil).Once()
	w, env := do(t, f.api, http.MethodDelete, "/api/v1/teams/1/members/7", admin, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Member removed successfully", env.Message)

	f.teams.On("ListMembers", mock.Anything, int64(1)).
		Return(&team.MembersDTO{Team: team.DTO{ID: 1, Name: "Alpha"}, Members: []user.DTO{}}, nil).Once()
	w, _ = do(t, f.api, http.MethodGet, "/api/v1/teams/1/members", f.token(t, 2, domain.RoleMember), "")
	assert.Equal(t, http.StatusOK, w.Code)
	f.teams.AssertExpectations(t)
}

func TestTeamHandler_List(t *testing.T) {
	f := newFixture(t)
	f.teams.On("ListTeams", mock.Anything, team.ListQuery{Offset: 10, Limit: 5}).
		Return(&team.Page{Total: 11, Items: []team.DTO{{ID: 11}}}, nil).Once()

	w, env := do(t, f.api, http.MethodGet, "/api/v1/teams?offset=10&limit=5", f.token(t, 2, domain.RoleMember), "")
	assert.Equal(t, http.StatusOK, w.Code)
	var page team.Page
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, int64(11), page.Total)
}

func TestAuthHandler_Login(t *testing.T) {
	f := newFixture(t)

	t.Run("ok", func(t *testing.T) {
		f.users.On("Authenticate", mock.Anything, "ann@example.com", "s3cret-pass").
			Return(&user.DTO{ID: 3, Email: "ann@example.com", Role: "ADMIN", Status: "ACTIVE"}, nil).Once()

		w, env := do(t, f.api, http.MethodPost, "/api/v1/auth/login", "", `{"email":"ann@example.com","password":"s3cret-pass"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Login successful", env.Message)

		var out LoginOutput
		require.NoError(t, json.Unmarshal(env.Data, &out))
		claims, err := f.jwt.Parse(out.Token)
		require.NoError(t, err)
		assert.Equal(t, int64(3), claims.UID)
		assert.True(t, claims.IsAdmin())
	})

	t.Run("bad credentials", func(t *testing.T) {
		f.users.On("Authenticate", mock.Anything, "ann@example.com", "nope").
			Return(nil, domain.NewUnauthorized("Invalid email or password")).Once()

		w, env := do(t, f.api, http.MethodPost, "/api/v1/auth/login", "", `{"email":"ann@example.com","password":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid email or password", env.Message)
	})

	t.Run("invalid email", func(t *testing.T) {
		w, env := do(t, f.api, http.MethodPost, "/api/v1/auth/login", "", `{"email":"nope","password":"x"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "must be a well-formed email address", env.Errors["email"])
	})
}

func TestAuthHandler_Me(t *testing.T) {
	f := newFixture(t)
	f.users.On("GetUser", mock.Anything, int64(2)).Return(&user.DTO{ID: 2, Email: "bob@example.com"}, nil).Once()

	w, env := do(t, f.api, http.MethodGet, "/api/v1/me", f.token(t, 2, domain.RoleMember), "")
	assert.Equal(t, http.StatusOK, w.Code)
	var got user.DTO
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "bob@example.com", got.Email)
}

func TestUserHandler_Admin(t *testing.T) {
	f := newFixture(t)
	admin := f.token(t, 1, domain.RoleAdmin)

	t.Run("member is rejected", func(t *testing.T) {
		w, _ := do(t, f.admin, http.MethodGet, "/admin/v1/users", f.token(t, 2, domain.RoleMember), "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("create", func(t *testing.T) {
		f.users.On("CreateUser", mock.Anything, user.CreateInput{Name: "Cy", Email: "cy@example.com", Password: "s3cret-pass"}).
			Return(&user.DTO{ID: 4, Email: "cy@example.com"}, nil).Once()
		w, _ := do(t, f.admin, http.MethodPost, "/admin/v1/users", admin, `{"name":"Cy","email":"cy@example.com","password":"s3cret-pass"}`)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("short password", func(t *testing.T) {
		w, env := do(t, f.admin, http.MethodPost, "/admin/v1/users", admin, `{"name":"Cy","email":"cy@example.com","password":"short"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, env.Errors, "password")
	})

	t.Run("delete", func(t *testing.T) {
		f.users.On("DeleteUser", mock.Anything, int64(4)).Return(true, nil).Once()
		w, env := do(t, f.admin, http.MethodDelete, "/admin/v1/users/4", admin, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "User deleted successfully", env.Message)
	})

	f.users.AssertExpectations(t)
}
