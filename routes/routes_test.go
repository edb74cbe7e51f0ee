package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"condo-management-server/models"
	"condo-management-server/storage"
	"condo-management-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// buildTestApp wires the protected API surface against an in-memory
// database, mirroring the production party layout.
func buildTestApp(t *testing.T) *iris.Application {
	t.Helper()
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Condo{},
		&models.Unit{},
		&models.ParkingSpot{},
		&models.UnitParkingAssignment{},
		&models.ShortTermBooking{},
		&models.UnitAccess{},
		&models.AuditLog{},
	))
	storage.DB = db

	app := iris.New()
	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	api := app.Party("/api", accessTokenVerifierMiddleware, utils.ClaimsMiddleware)
	api.Get("/condos", ListCondos)
	api.Get("/units", ListUnits)
	api.Get("/units/{id:uint}", GetUnit)
	api.Get("/spots/{id:uint}/unit", SpotUnitLookup)
	api.Post("/unit-parking-assignments", utils.PMOnlyMiddleware, CreateAssignment)

	assignmentsCSV := api.Party("/assignments", utils.PMOnlyMiddleware)
	{
		assignmentsCSV.Get("/export.csv", ExportAssignmentsCSV)
		assignmentsCSV.Post("/import.csv", ImportAssignmentsCSV)
	}

	require.NoError(t, app.Build())
	return app
}

func signTestToken(t *testing.T, userID uint, role string) string {
	t.Helper()
	signer := jwt.NewSigner(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")), 15*time.Minute)
	token, err := signer.Sign(utils.AccessToken{ID: userID, Role: role})
	require.NoError(t, err)
	return string(token)
}

func doRequest(app *iris.Application, method, target, token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, body)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func TestAPIRequiresToken(t *testing.T) {
	app := buildTestApp(t)

	resp := doRequest(app, http.MethodGet, "/api/condos", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestUnitListScopedByRole(t *testing.T) {
	app := buildTestApp(t)

	condo := models.Condo{Name: "Maple", Code: "MAPLE01"}
	require.NoError(t, storage.DB.Create(&condo).Error)
	mine := models.Unit{CondoID: condo.ID, UnitNumber: "101"}
	other := models.Unit{CondoID: condo.ID, UnitNumber: "102"}
	require.NoError(t, storage.DB.Create(&mine).Error)
	require.NoError(t, storage.DB.Create(&other).Error)

	pm := models.User{Email: "pm@example.com", Role: "pm"}
	owner := models.User{Email: "owner@example.com", Role: "owner"}
	require.NoError(t, storage.DB.Create(&pm).Error)
	require.NoError(t, storage.DB.Create(&owner).Error)
	require.NoError(t, storage.DB.Create(&models.UnitAccess{
		UserID: owner.ID, UnitID: mine.ID, AccessType: models.AccessTypeOwner, Active: true,
	}).Error)

	var page struct {
		Data []models.Unit `json:"data"`
	}

	resp := doRequest(app, http.MethodGet, "/api/units", signTestToken(t, pm.ID, "pm"), nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	assert.Len(t, page.Data, 2)

	resp = doRequest(app, http.MethodGet, "/api/units", signTestToken(t, owner.ID, "owner"), nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, "101", page.Data[0].UnitNumber)

	// direct fetch of a unit outside the grant is refused
	resp = doRequest(app, http.MethodGet, fmt.Sprintf("/api/units/%d", other.ID), signTestToken(t, owner.ID, "owner"), nil, "")
	assert.Equal(t, http.StatusForbidden, resp.Code)

	// a unit that does not exist is 404, not 403, even without a grant
	resp = doRequest(app, http.MethodGet, "/api/units/999999", signTestToken(t, owner.ID, "owner"), nil, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCreateAssignmentRejectsCrossCondoSpot(t *testing.T) {
	app := buildTestApp(t)

	maple := models.Condo{Name: "Maple", Code: "MAPLE01"}
	birch := models.Condo{Name: "Birch", Code: "BIRCH01"}
	require.NoError(t, storage.DB.Create(&maple).Error)
	require.NoError(t, storage.DB.Create(&birch).Error)
	unit := models.Unit{CondoID: maple.ID, UnitNumber: "101"}
	require.NoError(t, storage.DB.Create(&unit).Error)
	foreignSpot := models.ParkingSpot{CondoID: birch.ID, Code: "P1-001"}
	require.NoError(t, storage.DB.Create(&foreignSpot).Error)
	pm := models.User{Email: "pm@example.com", Role: "pm"}
	require.NoError(t, storage.DB.Create(&pm).Error)

	payload, err := json.Marshal(iris.Map{
		"unitID":        unit.ID,
		"parkingSpotID": foreignSpot.ID,
		"startDate":     "2025-01-01",
	})
	require.NoError(t, err)

	resp := doRequest(app, http.MethodPost, "/api/unit-parking-assignments",
		signTestToken(t, pm.ID, "pm"), bytes.NewBuffer(payload), "application/json")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "different condos")

	var count int64
	require.NoError(t, storage.DB.Model(&models.UnitParkingAssignment{}).Count(&count).Error)
	assert.EqualValues(t, 0, count, "rejected assignments must not be persisted")
}

func TestSpotUnitLookupScopedByUnitAccess(t *testing.T) {
	app := buildTestApp(t)

	condo := models.Condo{Name: "Maple", Code: "MAPLE01"}
	require.NoError(t, storage.DB.Create(&condo).Error)
	unit := models.Unit{CondoID: condo.ID, UnitNumber: "101"}
	require.NoError(t, storage.DB.Create(&unit).Error)
	spot := models.ParkingSpot{CondoID: condo.ID, Code: "P1-001"}
	require.NoError(t, storage.DB.Create(&spot).Error)
	require.NoError(t, storage.DB.Create(&models.UnitParkingAssignment{
		UnitID: unit.ID, ParkingSpotID: spot.ID,
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}).Error)

	owner := models.User{Email: "owner@example.com", Role: "owner"}
	agent := models.User{Email: "agent@example.com", Role: "partner"}
	pm := models.User{Email: "pm@example.com", Role: "pm"}
	require.NoError(t, storage.DB.Create(&owner).Error)
	require.NoError(t, storage.DB.Create(&agent).Error)
	require.NoError(t, storage.DB.Create(&pm).Error)
	require.NoError(t, storage.DB.Create(&models.UnitAccess{
		UserID: owner.ID, UnitID: unit.ID, AccessType: models.AccessTypeOwner, Active: true,
	}).Error)

	target := fmt.Sprintf("/api/spots/%d/unit", spot.ID)

	// owner holds an active grant on the spot's assigned unit
	resp := doRequest(app, http.MethodGet, target, signTestToken(t, owner.ID, "owner"), nil, "")
	assert.Equal(t, http.StatusOK, resp.Code)

	// agent has no grants anywhere
	resp = doRequest(app, http.MethodGet, target, signTestToken(t, agent.ID, "partner"), nil, "")
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = doRequest(app, http.MethodGet, target, signTestToken(t, pm.ID, "pm"), nil, "")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestAssignmentCSVEndpointsPMOnly(t *testing.T) {
	app := buildTestApp(t)

	pm := models.User{Email: "pm@example.com", Role: "pm"}
	concierge := models.User{Email: "desk@example.com", Role: "concierge"}
	require.NoError(t, storage.DB.Create(&pm).Error)
	require.NoError(t, storage.DB.Create(&concierge).Error)

	resp := doRequest(app, http.MethodGet, "/api/assignments/export.csv", signTestToken(t, concierge.ID, "concierge"), nil, "")
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = doRequest(app, http.MethodGet, "/api/assignments/export.csv", signTestToken(t, pm.ID, "pm"), nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "assignments.csv")
	assert.Contains(t, resp.Body.String(), "condo_code,unit_number,parking_code,status,effective_start,effective_end")
}

func TestImportCSVDryRunEndpoint(t *testing.T) {
	app := buildTestApp(t)

	condo := models.Condo{Name: "Maple", Code: "MAPLE01"}
	require.NoError(t, storage.DB.Create(&condo).Error)
	require.NoError(t, storage.DB.Create(&models.Unit{CondoID: condo.ID, UnitNumber: "101"}).Error)
	require.NoError(t, storage.DB.Create(&models.ParkingSpot{CondoID: condo.ID, Code: "P1-001"}).Error)
	pm := models.User{Email: "pm@example.com", Role: "pm"}
	require.NoError(t, storage.DB.Create(&pm).Error)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "assignments.csv")
	require.NoError(t, err)
	part.Write([]byte("condo_code,unit_number,parking_code,start_date\nMAPLE01,101,P1-001,2025-01-01\n"))
	require.NoError(t, mw.Close())

	resp := doRequest(app, http.MethodPost, "/api/assignments/import.csv?dry_run=1",
		signTestToken(t, pm.ID, "pm"), &body, mw.FormDataContentType())
	require.Equal(t, http.StatusOK, resp.Code)

	var result struct {
		Created int  `json:"created"`
		Updated int  `json:"updated"`
		Errors  int  `json:"errors"`
		DryRun  bool `json:"dry_run"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 0, result.Errors)
	assert.True(t, result.DryRun)

	var count int64
	require.NoError(t, storage.DB.Model(&models.UnitParkingAssignment{}).Count(&count).Error)
	assert.EqualValues(t, 0, count, "dry run must not persist")
}
