package httpHandler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"smartdrishti-server/cache"
	"smartdrishti-server/db"
	"smartdrishti-server/middleware"
	"smartdrishti-server/repositories"
	"smartdrishti-server/usecases"

	"github.com/gin-gonic/gin"
	"github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var apiSecret = []byte("test-secret")

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// newTestRouter wires the full handler stack over an in-memory database,
// mirroring the production route table.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	database := &db.GormDatabase{DB: gdb}

	userRepo := repositories.NewUserPgRepository(database)
	projectRepo := repositories.NewProjectPgRepository(database)
	stepRepo := repositories.NewStepPgRepository(database)
	mediaRepo := repositories.NewStepMediaPgRepository(database)
	deviceRepo := repositories.NewDevicePgRepository(database)
	sensorRepo := repositories.NewSensorDataPgRepository(database)
	hourlyRepo := repositories.NewSensorHourlyPgRepository(database)

	authHandler := NewAuthHandler(usecases.NewAuthUseCase(userRepo, apiSecret))
	projectHandler := NewProjectHandler(usecases.NewProjectUseCase(projectRepo, stepRepo, mediaRepo))
	iotUseCase := usecases.NewIotUseCase(deviceRepo, sensorRepo, hourlyRepo, nil, cache.NewLatestCache())
	iotHandler := NewIotHandler(iotUseCase, usecases.NewMaintenanceUseCase(sensorRepo))

	router := gin.New()
	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/profile", middleware.AuthenticateJWT(apiSecret), authHandler.GetProfile)

	projects := api.Group("/projects")
	projects.GET("", middleware.OptionalJWT(apiSecret), projectHandler.ListProjects)
	projects.POST("", middleware.AuthenticateJWT(apiSecret), projectHandler.CreateProject)
	projects.GET("/:id", projectHandler.GetProject)
	projects.PUT("/:id", middleware.AuthenticateJWT(apiSecret), projectHandler.UpdateProject)
	projects.DELETE("/:id", middleware.AuthenticateJWT(apiSecret), projectHandler.DeleteProject)

	iot := api.Group("/iot")
	iot.POST("/devices", iotHandler.RegisterDevice)
	iot.POST("/sensor-data", iotHandler.IngestSensorData)
	iot.GET("/sensor-data/latest/:deviceId", iotHandler.GetLatestSensorData)

	return router
}

func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, router *gin.Engine, username, email string) string {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "hunter22",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode register response: %v", err)
	}
	return resp.Token
}

func TestRegisterValidation(t *testing.T) {
	g := gomega.NewWithT(t)
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "not-an-email",
		"password": "hunter22",
	})
	g.Expect(w.Code).To(gomega.Equal(http.StatusBadRequest))

	w = doJSON(router, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "short",
	})
	g.Expect(w.Code).To(gomega.Equal(http.StatusBadRequest))
}

func TestRegisterConflictAndLogin(t *testing.T) {
	g := gomega.NewWithT(t)
	router := newTestRouter(t)

	registerUser(t, router, "alice", "alice@example.com")

	w := doJSON(router, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice2",
		"email":    "alice@example.com",
		"password": "hunter22",
	})
	g.Expect(w.Code).To(gomega.Equal(http.StatusConflict))

	w = doJSON(router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	g.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))

	w = doJSON(router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "hunter22",
	})
	g.Expect(w.Code).To(gomega.Equal(http.StatusOK))
}

func TestProfileRequiresToken(t *testing.T) {
	g := gomega.NewWithT(t)
	router := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/auth/profile", "", nil)
	g.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))

	token := registerUser(t, router, "alice", "alice@example.com")
	w = doJSON(router, http.MethodGet, "/api/auth/profile", token, nil)
	g.Expect(w.Code).To(gomega.Equal(http.StatusOK))
	g.Expect(w.Body.String()).NotTo(gomega.ContainSubstring("password"))
}

func TestProjectEndpoints(t *testing.T) {
	g := gomega.NewWithT(t)
	router := newTestRouter(t)

	alice := registerUser(t, router, "alice", "alice@example.com")
	bob := registerUser(t, router, "bob", "bob@example.com")

	w := doJSON(router, http.MethodPost, "/api/projects", "", map[string]string{"title": "X"})
	g.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))

	w = doJSON(router, http.MethodPost, "/api/projects", alice, map[string]string{
		"title":      "Weather Station",
		"difficulty": "Easy",
	})
	g.Expect(w.Code).To(gomega.Equal(http.StatusCreated))

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	g.Expect(json.Unmarshal(w.Body.Bytes(), &created)).To(gomega.Succeed())
	g.Expect(created.Data.ID).NotTo(gomega.BeEmpty())

	// Owner-only update.
	w = doJSON(router, http.MethodPut, "/api/projects/"+created.Data.ID, bob, map[string]string{"title": "Stolen"})
	g.Expect(w.Code).To(gomega.Equal(http.StatusForbidden))

	w = doJSON(router, http.MethodPut, "/api/projects/"+created.Data.ID, alice, map[string]string{"title": "Renamed"})
	g.Expect(w.Code).To(gomega.Equal(http.StatusOK))

	w = doJSON(router, http.MethodGet, "/api/projects/no-such-id", "", nil)
	g.Expect(w.Code).To(gomega.Equal(http.StatusNotFound))

	// Anonymous list sees nothing, the owner sees their project.
	w = doJSON(router, http.MethodGet, "/api/projects", "", nil)
	g.Expect(w.Code).To(gomega.Equal(http.StatusOK))
	g.Expect(w.Body.String()).To(gomega.ContainSubstring(`"count":0`))

	w = doJSON(router, http.MethodGet, "/api/projects", alice, nil)
	g.Expect(w.Body.String()).To(gomega.ContainSubstring(`"count":1`))
	g.Expect(w.Body.String()).To(gomega.ContainSubstring("Renamed"))
}

func TestSensorIngestEndpoint(t *testing.T) {
	g := gomega.NewWithT(t)
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/iot/sensor-data", "", map[string]interface{}{
		"device_id":   "pico-1",
		"temperature": 22.5,
		"humidity":    40,
	})
	g.Expect(w.Code).To(gomega.Equal(http.StatusCreated))

	w = doJSON(router, http.MethodGet, "/api/iot/sensor-data/latest/pico-1", "", nil)
	g.Expect(w.Code).To(gomega.Equal(http.StatusOK))
	g.Expect(w.Body.String()).To(gomega.ContainSubstring("22.5"))

	w = doJSON(router, http.MethodGet, "/api/iot/sensor-data/latest/ghost", "", nil)
	g.Expect(w.Code).To(gomega.Equal(http.StatusNotFound))
}
