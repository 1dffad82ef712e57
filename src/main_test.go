package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"ngocms/src/types"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
)

type TestSuite struct {
	suite.Suite
}

func (s *TestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("futuredate", futureDateValidatorFunc)
		v.RegisterValidation("gtdate", gtfield)
	}
}

func (s *TestSuite) TestPingRoute() {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
}

func (s *TestSuite) TestMaintenanceMode() {
	os.Setenv("MAINTENANCE_MODE", "true")
	defer os.Unsetenv("MAINTENANCE_MODE")

	router := setupRouter()
	router = maintenanceModeMiddleware(router)
	apiv1Group(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 503, w.Code)
}

func (s *TestSuite) TestAdminRoutesRequireAuth() {
	router := setupRouter()
	adminRoutes(router)

	for _, route := range []struct {
		method string
		path   string
	}{
		{"GET", "/api/v1/admin/events"},
		{"GET", "/api/v1/admin/donations"},
		{"POST", "/api/v1/admin/newsletter/send"},
		{"POST", "/api/v1/admin/events/1/check-in/manual"},
	} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(route.method, route.path, nil)
		router.ServeHTTP(w, req)

		assert.Equalf(s.T(), 401, w.Code, "%s %s should require a token", route.method, route.path)
	}

	s.Run("Should reject an authorization header with no token", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/admin/events", nil)
		req.Header.Set("Authorization", "Bearer")
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 401, w.Code)
	})
}

func (s *TestSuite) TestDonationValidation() {
	router := setupRouter()
	publicRoutes(router)

	s.Run("Should reject a donation without an amount", func() {
		body := types.CreateDonationRequestBody{
			DonorName:  "Asha",
			DonorEmail: "asha@example.com",
		}
		rbytes, err := json.Marshal(&body)
		assert.Nil(s.T(), err)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/donations", strings.NewReader(string(rbytes)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
		resbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		errMsg := gjson.Get(string(resbytes), "error").String()
		assert.NotEmpty(s.T(), errMsg)
	})

	s.Run("Should reject a donation with a bad email", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/donations", strings.NewReader(`{"donor_name":"Asha","donor_email":"not-an-email","amount":500}`))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should reject a verification callback with missing fields", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/payment/verify", strings.NewReader(`{"orderId":"order_abc"}`))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
		resbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		assert.False(s.T(), gjson.Get(string(resbytes), "success").Bool())
	})
}

func (s *TestSuite) TestCheckInValidation() {
	router := setupRouter()
	publicRoutes(router)

	s.Run("Should reject a scan without a payload", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/events/1/check-in", strings.NewReader(`{}`))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should reject a scan when the station token is wrong", func() {
		os.Setenv("CHECKIN_STATION_SECRET", "station-secret")
		defer os.Unsetenv("CHECKIN_STATION_SECRET")

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/events/1/check-in", strings.NewReader(`{"qrData":"deadbeef"}`))
		req.Header.Set("X-Station-Token", "wrong")
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 401, w.Code)
	})
}

func (s *TestSuite) TestNewsletterValidation() {
	router := setupRouter()
	publicRoutes(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/newsletter/subscribe", strings.NewReader(`{"email":"nope"}`))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 400, w.Code)
}

func (s *TestSuite) TestAuthLoginValidation() {
	router := setupRouter()
	guestAuthRoutes(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(`{"email":"someone@example.com"}`))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 400, w.Code)
}

func TestSuiteRun(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
