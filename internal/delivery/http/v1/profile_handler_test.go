package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go-profile-backend/internal/delivery/http/middleware"
	"go-profile-backend/internal/delivery/http/response"
	v1 "go-profile-backend/internal/delivery/http/v1"
	"go-profile-backend/internal/domain"
	"go-profile-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProfileUsecase struct {
	mock.Mock
}

func (m *MockProfileUsecase) profileResult(args mock.Arguments) (*domain.Profile, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileUsecase) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Profile), args.Error(1)
}

func (m *MockProfileUsecase) GetByHandle(ctx context.Context, handle string) (*domain.Profile, error) {
	return m.profileResult(m.Called(ctx, handle))
}

func (m *MockProfileUsecase) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	return m.profileResult(m.Called(ctx, userID))
}

func (m *MockProfileUsecase) GetOwnProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	return m.profileResult(m.Called(ctx, userID))
}

func (m *MockProfileUsecase) SaveProfile(ctx context.Context, userID string, input domain.ProfileInput) (*domain.Profile, error) {
	return m.profileResult(m.Called(ctx, userID, input))
}

func (m *MockProfileUsecase) AddExperience(ctx context.Context, userID string, input domain.ExperienceInput) (*domain.Profile, error) {
	return m.profileResult(m.Called(ctx, userID, input))
}

func (m *MockProfileUsecase) AddEducation(ctx context.Context, userID string, input domain.EducationInput) (*domain.Profile, error) {
	return m.profileResult(m.Called(ctx, userID, input))
}

func (m *MockProfileUsecase) RemoveExperience(ctx context.Context, userID, experienceID string) (*domain.Profile, error) {
	return m.profileResult(m.Called(ctx, userID, experienceID))
}

func (m *MockProfileUsecase) RemoveEducation(ctx context.Context, userID, educationID string) (*domain.Profile, error) {
	return m.profileResult(m.Called(ctx, userID, educationID))
}

func (m *MockProfileUsecase) DeleteAccount(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

// stubAuth trusts X-Test-User in place of a verified token.
func stubAuth(c *gin.Context) {
	if id := c.GetHeader("X-Test-User"); id != "" {
		c.Set(string(domain.KeyUserID), id)
		c.Next()
		return
	}
	response.Message(c, http.StatusUnauthorized, "Unauthorized")
	c.Abort()
}

func newTestRouter(uc domain.ProfileUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	v1.NewProfileHandler(r.Group("/api/profile"), stubAuth, uc)
	return r
}

func do(r http.Handler, method, path, user, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestPublicRoutes(t *testing.T) {
	uc := new(MockProfileUsecase)
	r := newTestRouter(uc)

	t.Run("Should answer the test route", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/profile/test", "", "", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"msg":"Profile Works"}`, w.Body.String())
	})

	t.Run("Should return a profile by handle", func(t *testing.T) {
		uc.On("GetByHandle", mock.Anything, "jdoe").Return(&domain.Profile{
			Handle: "jdoe",
			User:   domain.Owner{ID: "user1", Name: "Jane", Avatar: "//avatar"},
			Skills: []string{"go"},
		}, nil).Once()

		w := do(r, http.MethodGet, "/api/profile/handle/jdoe", "", "", "")
		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "jdoe", body["handle"])
		assert.Equal(t, "Jane", body["user"].(map[string]interface{})["name"])
	})

	t.Run("Should render the not-found object verbatim", func(t *testing.T) {
		uc.On("GetByHandle", mock.Anything, "ghost").
			Return(nil, apperror.FieldError(http.StatusNotFound, "noprofile", "There is no profile for this user")).Once()

		w := do(r, http.MethodGet, "/api/profile/handle/ghost", "", "", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"noprofile":"There is no profile for this user"}`, w.Body.String())
	})

	t.Run("Should list all profiles", func(t *testing.T) {
		uc.On("ListProfiles", mock.Anything).Return([]domain.Profile{{Handle: "a"}, {Handle: "b"}}, nil).Once()

		w := do(r, http.MethodGet, "/api/profile/all", "", "", "")
		assert.Equal(t, http.StatusOK, w.Code)
		var list []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Len(t, list, 2)
	})

	t.Run("Should look up by user id from the path", func(t *testing.T) {
		uc.On("GetByUserID", mock.Anything, "user42").
			Return(nil, apperror.FieldError(http.StatusNotFound, "noprofile", "No profile found")).Once()

		w := do(r, http.MethodGet, "/api/profile/user/user42", "", "", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"noprofile":"No profile found"}`, w.Body.String())
	})

	uc.AssertExpectations(t)
}

func TestOwnerRoutes(t *testing.T) {
	t.Run("Should reject requests without a user", func(t *testing.T) {
		uc := new(MockProfileUsecase)
		r := newTestRouter(uc)

		for _, tc := range []struct{ method, path string }{
			{http.MethodGet, "/api/profile"},
			{http.MethodPost, "/api/profile"},
			{http.MethodDelete, "/api/profile"},
			{http.MethodPost, "/api/profile/experience"},
			{http.MethodDelete, "/api/profile/education/e1"},
		} {
			w := do(r, tc.method, tc.path, "", "", "")
			assert.Equal(t, http.StatusUnauthorized, w.Code, tc.method+" "+tc.path)
		}
		uc.AssertNotCalled(t, "GetOwnProfile", mock.Anything, mock.Anything)
	})

	t.Run("Should return the caller's profile", func(t *testing.T) {
		uc := new(MockProfileUsecase)
		r := newTestRouter(uc)
		uc.On("GetOwnProfile", mock.Anything, "user1").Return(&domain.Profile{Handle: "jdoe"}, nil)

		w := do(r, http.MethodGet, "/api/profile", "user1", "", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "jdoe", decode(t, w)["handle"])
	})

	t.Run("Should bind a JSON profile body", func(t *testing.T) {
		uc := new(MockProfileUsecase)
		r := newTestRouter(uc)
		want := domain.ProfileInput{Handle: "jdoe", Status: "Developer", Skills: "html,css, node", Twitter: "twitter.com/jdoe"}
		uc.On("SaveProfile", mock.Anything, "user1", want).Return(&domain.Profile{Handle: "jdoe"}, nil)

		w := do(r, http.MethodPost, "/api/profile", "user1", "application/json",
			`{"handle":"jdoe","status":"Developer","skills":"html,css, node","twitter":"twitter.com/jdoe"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		uc.AssertExpectations(t)
	})

	t.Run("Should bind a form-encoded profile body", func(t *testing.T) {
		uc := new(MockProfileUsecase)
		r := newTestRouter(uc)
		want := domain.ProfileInput{Handle: "jdoe", Status: "Developer", Skills: "go,sql"}
		uc.On("SaveProfile", mock.Anything, "user1", want).Return(&domain.Profile{Handle: "jdoe"}, nil)

		form := url.Values{"handle": {"jdoe"}, "status": {"Developer"}, "skills": {"go,sql"}}
		w := do(r, http.MethodPost, "/api/profile", "user1", "application/x-www-form-urlencoded", form.Encode())
		assert.Equal(t, http.StatusOK, w.Code)
		uc.AssertExpectations(t)
	})

	t.Run("Should return validation errors as a field map", func(t *testing.T) {
		uc := new(MockProfileUsecase)
		r := newTestRouter(uc)
		uc.On("SaveProfile", mock.Anything, "user1", mock.Anything).Return(nil, apperror.Validation(map[string]string{
			"handle": "Profile handle is required",
			"status": "Status field is required",
		}))

		w := do(r, http.MethodPost, "/api/profile", "user1", "application/json", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"handle":"Profile handle is required","status":"Status field is required"}`, w.Body.String())
	})

	t.Run("Should reject a malformed body", func(t *testing.T) {
		uc := new(MockProfileUsecase)
		r := newTestRouter(uc)

		w := do(r, http.MethodPost, "/api/profile/experience", "user1", "application/json", `{"title":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"message":"Invalid request body"}`, w.Body.String())
		uc.AssertNotCalled(t, "AddExperience", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should add experience and education", func(t *testing.T) {
		uc := new(MockProfileUsecase)
		r := newTestRouter(uc)
		exp := domain.ExperienceInput{Title: "Engineer", Company: "Acme", From: "2020-01-01", Current: true}
		edu := domain.EducationInput{School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: "2010-09-01", To: "2014-06-30"}
		uc.On("AddExperience", mock.Anything, "user1", exp).Return(&domain.Profile{Handle: "jdoe"}, nil)
		uc.On("AddEducation", mock.Anything, "user1", edu).Return(&domain.Profile{Handle: "jdoe"}, nil)

		w := do(r, http.MethodPost, "/api/profile/experience", "user1", "application/json",
			`{"title":"Engineer","company":"Acme","from":"2020-01-01","current":true}`)
		assert.Equal(t, http.StatusOK, w.Code)

		w = do(r, http.MethodPost, "/api/profile/education", "user1", "application/json",
			`{"school":"MIT","degree":"BSc","fieldofstudy":"CS","from":"2010-09-01","to":"2014-06-30"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		uc.AssertExpectations(t)
	})

	t.Run("Should pass entry ids from the path", func(t *testing.T) {
		uc := new(MockProfileUsecase)
		r := newTestRouter(uc)
		uc.On("RemoveExperience", mock.Anything, "user1", "exp-1").Return(&domain.Profile{Handle: "jdoe"}, nil)
		uc.On("RemoveEducation", mock.Anything, "user1", "edu-1").Return(&domain.Profile{Handle: "jdoe"}, nil)

		assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/api/profile/experience/exp-1", "user1", "", "").Code)
		assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/api/profile/education/edu-1", "user1", "", "").Code)
		uc.AssertExpectations(t)
	})

	t.Run("Should confirm account deletion", func(t *testing.T) {
		uc := new(MockProfileUsecase)
		r := newTestRouter(uc)
		uc.On("DeleteAccount", mock.Anything, "user1").Return(nil)

		w := do(r, http.MethodDelete, "/api/profile", "user1", "", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true}`, w.Body.String())
	})
}
