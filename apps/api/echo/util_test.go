package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	. "github.com/Powerhouse0784/Coaching-sub000/apps/api/echo"
	"github.com/Powerhouse0784/Coaching-sub000/core"
	"github.com/Powerhouse0784/Coaching-sub000/core/bookmark"
	"github.com/Powerhouse0784/Coaching-sub000/core/catalog"
	"github.com/Powerhouse0784/Coaching-sub000/core/progress"
	"github.com/Powerhouse0784/Coaching-sub000/core/stats"
	inmemdb "github.com/Powerhouse0784/Coaching-sub000/storage/database/inmem"
	testutil "github.com/Powerhouse0784/Coaching-sub000/tests"
)

var (
	conf = core.NewTestConfig()

	student = core.Identity{ID: "u1", Name: "Student", Email: "student@test.test"}

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

type fixture struct {
	app          *Server
	progressRepo progress.Repository
	folder       catalog.Folder
	token        string
}

func setup(t *testing.T) fixture {
	db := inmemdb.Open()
	cat := inmemdb.NewCatalogRepository(db)
	progressRepo := inmemdb.NewProgressRepository(db)
	logger, _ := testutil.NewLogger()

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	app := NewServer(ServerDeps{
		Conf:        conf,
		Logger:      logger,
		ProgressSvc: progress.NewService(progressRepo, cat, logger),
		BookmarkSvc: bookmark.NewService(inmemdb.NewBookmarkRepository(db), cat),
		StatsSvc:    stats.NewService(progressRepo, cat),
		Validate:    validate,
		Translator:  translator,
	})
	return fixture{
		app:          app,
		progressRepo: progressRepo,
		folder:       testutil.CreateFolder(cat, "f1", "Algebra", 120, 300, 600, 60),
		token:        getToken(t, student),
	}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr core.Identity) string {
	token, err := GenerateToken(GetUserClaims(usr, conf), conf)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode() failed: %v; body %s", err, rec.Body.String())
	}
}
