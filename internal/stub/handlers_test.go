package stub

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/ananyak/chatterm/internal/api"
	"github.com/ananyak/chatterm/internal/stub/store"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "stub.db"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	srv := NewServer("127.0.0.1:0", NewHandler(db, zap.NewNop()), zap.NewNop())
	ts := httptest.NewServer(srv.Echo())
	t.Cleanup(ts.Close)
	return ts
}

func request(t *testing.T, ts *httptest.Server, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	return resp, buf.Bytes()
}

func signupAndLogin(t *testing.T, ts *httptest.Server, email, password string) string {
	t.Helper()
	creds := api.Credentials{Email: email, Password: password}
	if resp, body := request(t, ts, http.MethodPost, "/signup", "", creds); resp.StatusCode != http.StatusOK {
		t.Fatalf("signup status = %d, body %s", resp.StatusCode, body)
	}
	resp, body := request(t, ts, http.MethodPost, "/login", "", creds)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, body %s", resp.StatusCode, body)
	}
	var lr api.LoginResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		t.Fatal(err)
	}
	if lr.Session.AccessToken == "" {
		t.Fatal("login returned empty access token")
	}
	return lr.Session.AccessToken
}

func TestSignupLoginSignout(t *testing.T) {
	ts := testServer(t)
	token := signupAndLogin(t, ts, "a@b.c", "secret")

	// The token works.
	if resp, _ := request(t, ts, http.MethodGet, "/list_chats", token, nil); resp.StatusCode != http.StatusOK {
		t.Errorf("list_chats status = %d, want 200", resp.StatusCode)
	}

	if resp, _ := request(t, ts, http.MethodPost, "/signout", token, nil); resp.StatusCode != http.StatusOK {
		t.Errorf("signout status = %d, want 200", resp.StatusCode)
	}

	// Revoked token no longer works.
	if resp, _ := request(t, ts, http.MethodGet, "/list_chats", token, nil); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("list_chats after signout status = %d, want 401", resp.StatusCode)
	}

	// Signout without a token still succeeds.
	if resp, _ := request(t, ts, http.MethodPost, "/signout", "", nil); resp.StatusCode != http.StatusOK {
		t.Errorf("tokenless signout status = %d, want 200", resp.StatusCode)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ts := testServer(t)
	signupAndLogin(t, ts, "a@b.c", "secret")

	resp, body := request(t, ts, http.MethodPost, "/login", "", api.Credentials{Email: "a@b.c", Password: "wrong"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Detail == "" {
		t.Errorf("error body = %s, want {detail}", body)
	}

	resp, _ = request(t, ts, http.MethodPost, "/login", "", api.Credentials{Email: "nobody@b.c", Password: "x"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unknown account status = %d, want 401", resp.StatusCode)
	}
}

func TestSignupDuplicate(t *testing.T) {
	ts := testServer(t)
	signupAndLogin(t, ts, "a@b.c", "secret")

	resp, _ := request(t, ts, http.MethodPost, "/signup", "", api.Credentials{Email: "a@b.c", Password: "other"})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate signup status = %d, want 409", resp.StatusCode)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := testServer(t)

	paths := []struct {
		method, path string
	}{
		{http.MethodGet, "/list_chats"},
		{http.MethodGet, "/get_chat/x"},
		{http.MethodPost, "/create_chat"},
		{http.MethodPost, "/add_message_to_chat/x"},
		{http.MethodPut, "/rename_chat/x"},
		{http.MethodDelete, "/delete_chat/x"},
	}
	for _, p := range paths {
		resp, _ := request(t, ts, p.method, p.path, "", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s %s status = %d, want 401", p.method, p.path, resp.StatusCode)
		}
	}
}

func TestChatLifecycle(t *testing.T) {
	ts := testServer(t)
	token := signupAndLogin(t, ts, "a@b.c", "secret")

	// Create returns [chat_id, assistant_message].
	resp, body := request(t, ts, http.MethodPost, "/create_chat", token, api.NewChat{
		ChatTitle:    "Trip",
		FirstMessage: api.Message{Role: api.RoleUser, Text: "where to?"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create status = %d, body %s", resp.StatusCode, body)
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || len(raw) != 2 {
		t.Fatalf("create body = %s", body)
	}
	var chatID string
	if err := json.Unmarshal(raw[0], &chatID); err != nil || chatID == "" {
		t.Fatalf("chat id element = %s", raw[0])
	}
	var reply api.Message
	if err := json.Unmarshal(raw[1], &reply); err != nil || reply.Role != api.RoleAssistant {
		t.Fatalf("reply element = %s", raw[1])
	}

	// List shows it.
	resp, body = request(t, ts, http.MethodGet, "/list_chats", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var chats []api.ChatSummary
	if err := json.Unmarshal(body, &chats); err != nil {
		t.Fatal(err)
	}
	if len(chats) != 1 || chats[0].ID != chatID || chats[0].Title != "Trip" {
		t.Fatalf("chats = %+v", chats)
	}

	// Transcript holds the first exchange.
	resp, body = request(t, ts, http.MethodGet, "/get_chat/"+chatID, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	var transcript api.Transcript
	if err := json.Unmarshal(body, &transcript); err != nil {
		t.Fatal(err)
	}
	if transcript.Title != "Trip" || len(transcript.Messages) != 2 {
		t.Fatalf("transcript = %+v", transcript)
	}

	// Add a message, get the assistant reply back.
	resp, body = request(t, ts, http.MethodPost, "/add_message_to_chat/"+chatID, token, api.Message{Role: api.RoleUser, Text: "somewhere warm"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add status = %d, body %s", resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, &reply); err != nil || reply.Role != api.RoleAssistant {
		t.Fatalf("add reply = %s", body)
	}
	resp, body = request(t, ts, http.MethodGet, "/get_chat/"+chatID, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatal("get after add failed")
	}
	_ = json.Unmarshal(body, &transcript)
	if len(transcript.Messages) != 4 {
		t.Errorf("messages = %d, want 4", len(transcript.Messages))
	}

	// Rename, then delete.
	resp, _ = request(t, ts, http.MethodPut, "/rename_chat/"+chatID, token, api.RenameRequest{Title: "Vacation"})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("rename status = %d", resp.StatusCode)
	}
	resp, body = request(t, ts, http.MethodGet, "/get_chat/"+chatID, token, nil)
	_ = json.Unmarshal(body, &transcript)
	if transcript.Title != "Vacation" {
		t.Errorf("title after rename = %q", transcript.Title)
	}

	resp, _ = request(t, ts, http.MethodDelete, "/delete_chat/"+chatID, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	resp, _ = request(t, ts, http.MethodGet, "/get_chat/"+chatID, token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", resp.StatusCode)
	}
}

func TestMissingChatReturns404(t *testing.T) {
	ts := testServer(t)
	token := signupAndLogin(t, ts, "a@b.c", "secret")

	cases := []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/get_chat/ghost", nil},
		{http.MethodPost, "/add_message_to_chat/ghost", api.Message{Role: api.RoleUser, Text: "x"}},
		{http.MethodPut, "/rename_chat/ghost", api.RenameRequest{Title: "X"}},
		{http.MethodDelete, "/delete_chat/ghost", nil},
	}
	for _, tc := range cases {
		resp, _ := request(t, ts, tc.method, tc.path, token, tc.body)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s %s status = %d, want 404", tc.method, tc.path, resp.StatusCode)
		}
	}
}

func TestChatsAreOwnerScoped(t *testing.T) {
	ts := testServer(t)
	tokenA := signupAndLogin(t, ts, "a@b.c", "secret")
	tokenB := signupAndLogin(t, ts, "z@b.c", "secret")

	resp, body := request(t, ts, http.MethodPost, "/create_chat", tokenA, api.NewChat{
		ChatTitle:    "Private",
		FirstMessage: api.Message{Role: api.RoleUser, Text: "hi"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var raw []json.RawMessage
	_ = json.Unmarshal(body, &raw)
	var chatID string
	_ = json.Unmarshal(raw[0], &chatID)

	// The other account cannot see or touch it.
	if resp, _ := request(t, ts, http.MethodGet, "/get_chat/"+chatID, tokenB, nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("cross-owner get status = %d, want 404", resp.StatusCode)
	}
	resp, body = request(t, ts, http.MethodGet, "/list_chats", tokenB, nil)
	var chats []api.ChatSummary
	_ = json.Unmarshal(body, &chats)
	if len(chats) != 0 {
		t.Errorf("cross-owner list = %+v, want empty", chats)
	}
}
