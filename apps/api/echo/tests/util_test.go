package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	echoapi "github.com/Hussainrokeriya/champweb-backend/apps/api/echo"
	"github.com/Hussainrokeriya/champweb-backend/core/user"
)

const errMissingToken = "missing or malformed jwt"

// envelope mirrors the wire shape of echoapi.Response with raw data so each
// test decodes what it needs.
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Success    bool            `json:"success"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantMsg  string
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

func getToken(t *testing.T, usr user.User) string {
	t.Helper()

	claims := echoapi.GetUserClaims(conf, usr)
	token, err := echoapi.GenerateToken(conf, claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decodeEnvelope() failed: %v; body = %s", err, rec.Body.String())
	}
	return env
}

func checkEnvelope(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	env := decodeEnvelope(t, rec)
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body = %s", rec.Code, tt.wantCode, rec.Body.String())
	}
	if env.StatusCode != tt.wantCode {
		t.Errorf("failed! statusCode = %v; wantCode %v", env.StatusCode, tt.wantCode)
	}
	if wantSuccess := tt.wantCode < 400; env.Success != wantSuccess {
		t.Errorf("failed! success = %v; want %v", env.Success, wantSuccess)
	}
	if tt.wantMsg != "" && env.Message != tt.wantMsg {
		t.Errorf("failed! message = %q; wantMsg %q", env.Message, tt.wantMsg)
	}
	return env
}
