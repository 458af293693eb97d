package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rafikipets-api/internal/ports/checkout"
	"rafikipets-api/internal/ports/identity"
	"rafikipets-api/internal/router"
)

// -------------------------
// Fakes de proveedores
// -------------------------

type fakeIdentity struct {
	ids map[string]identity.Identity
}

func (f *fakeIdentity) Exchange(_ context.Context, sessionID string) (identity.Identity, error) {
	id, ok := f.ids[sessionID]
	if !ok {
		return identity.Identity{}, identity.ErrInvalidSession
	}
	return id, nil
}

type fakeCheckout struct {
	paid map[string]bool
	last checkout.SessionRequest
}

func (f *fakeCheckout) CreateSession(_ context.Context, req checkout.SessionRequest) (checkout.Session, error) {
	f.last = req
	return checkout.Session{ID: "cs_test_1", URL: "https://checkout.example/cs_test_1"}, nil
}

func (f *fakeCheckout) GetStatus(_ context.Context, sessionID string) (checkout.Status, error) {
	st := checkout.Status{SessionID: sessionID, Status: "open", PaymentStatus: "unpaid", Currency: "usd"}
	if f.paid[sessionID] {
		st.Status = "complete"
		st.PaymentStatus = checkout.PaymentStatusPaid
		st.AmountTotal = 5000
	}
	return st, nil
}

func (f *fakeCheckout) ParseWebhook(context.Context, []byte, string) (checkout.WebhookEvent, error) {
	return checkout.WebhookEvent{}, checkout.ErrNotConfigured
}

// -------------------------
// Helpers
// -------------------------

type env struct {
	t   *testing.T
	url string
	co  *fakeCheckout
}

func newEnv(t *testing.T) *env {
	t.Helper()
	co := &fakeCheckout{paid: map[string]bool{}}
	ts := httptest.NewServer(router.NewRouter(router.Options{
		Stores: router.MemoryStores(),
		Identity: &fakeIdentity{ids: map[string]identity.Identity{
			"ext-1": {Email: "fed@example.com", Name: "Fede", Picture: "https://img.example/f.png", SessionToken: "fed-token-1"},
		}},
		Checkout: co,
	}))
	t.Cleanup(ts.Close)
	return &env{t: t, url: ts.URL, co: co}
}

func (e *env) do(method, path, token string, body any, headers ...string) (int, map[string]any, http.Header) {
	e.t.Helper()
	status, raw, h := e.doRaw(method, path, token, body, headers...)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(e.t, json.Unmarshal(raw, &out), string(raw))
	}
	return status, out, h
}

func (e *env) list(path, token string) []map[string]any {
	e.t.Helper()
	status, raw, _ := e.doRaw(http.MethodGet, path, token, nil)
	require.Equal(e.t, http.StatusOK, status, string(raw))
	var out []map[string]any
	require.NoError(e.t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func (e *env) doRaw(method, path, token string, body any, headers ...string) (int, []byte, http.Header) {
	e.t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(e.t, err)
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, e.url+path, rdr)
	require.NoError(e.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(e.t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(e.t, err)
	return res.StatusCode, raw, res.Header
}

func (e *env) register(email, name, role string) (token, userID string) {
	e.t.Helper()
	st, body, _ := e.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": email, "password": "secret", "name": name, "user_type": role,
	})
	require.Equal(e.t, http.StatusOK, st, body)
	user := body["user"].(map[string]any)
	return body["session_token"].(string), user["user_id"].(string)
}

func ids(items []map[string]any, key string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it[key].(string))
	}
	return out
}

// -------------------------
// Escenarios
// -------------------------

func TestHTTP_RootAndHealth(t *testing.T) {
	e := newEnv(t)

	st, body, _ := e.do(http.MethodGet, "/api/", "", nil)
	assert.Equal(t, http.StatusOK, st)
	assert.Equal(t, "RafikiPets API", body["message"])

	st, raw, _ := e.doRaw(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, st)
	assert.Equal(t, "ok", string(raw))
}

func TestHTTP_RegisterLoginMeLogout(t *testing.T) {
	e := newEnv(t)

	st, body, h := e.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "owner@example.com", "password": "pw", "name": "Ana", "user_type": "pet_owner",
	})
	require.Equal(t, http.StatusOK, st, body)
	assert.Contains(t, h.Get("Set-Cookie"), "session_token=")
	assert.Contains(t, h.Get("Set-Cookie"), "HttpOnly")
	assert.Equal(t, "pet_owner", body["user"].(map[string]any)["user_type"])

	// duplicado => 400, sin segundo usuario
	st, body, _ = e.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "owner@example.com", "password": "other", "name": "Ana 2", "user_type": "pet_owner",
	})
	assert.Equal(t, http.StatusBadRequest, st)
	assert.Equal(t, "Email already registered", body["detail"])

	st, body, _ = e.do(http.MethodPost, "/api/auth/login", "", map[string]any{"email": "owner@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, st)
	assert.Equal(t, "Invalid credentials", body["detail"])

	st, body, _ = e.do(http.MethodPost, "/api/auth/login", "", map[string]any{"email": "owner@example.com", "password": "pw"})
	require.Equal(t, http.StatusOK, st, body)
	token := body["session_token"].(string)

	st, body, _ = e.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, st)
	assert.Equal(t, "Ana", body["name"])

	st, body, _ = e.do(http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, st)
	assert.Equal(t, "Logged out successfully", body["message"])

	st, body, _ = e.do(http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, st)
	assert.Equal(t, "Not authenticated", body["detail"])
}

func TestHTTP_CookieAuth(t *testing.T) {
	e := newEnv(t)
	token, _ := e.register("c@example.com", "Cami", "pet_owner")

	req, err := http.NewRequest(http.MethodGet, e.url+"/api/auth/me", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: token})
	// la cookie gana sobre un bearer inválido
	req.Header.Set("Authorization", "Bearer nope")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestHTTP_FederatedLogin(t *testing.T) {
	e := newEnv(t)

	st, body, _ := e.do(http.MethodPost, "/api/auth/google-session", "", nil)
	assert.Equal(t, http.StatusBadRequest, st)
	assert.Equal(t, "Session ID required", body["detail"])

	st, body, _ = e.do(http.MethodPost, "/api/auth/google-session", "", nil, "X-Session-ID", "unknown")
	assert.Equal(t, http.StatusUnauthorized, st)
	assert.Equal(t, "Invalid session", body["detail"])

	st, body, _ = e.do(http.MethodPost, "/api/auth/google-session", "", nil, "X-Session-ID", "ext-1")
	require.Equal(t, http.StatusOK, st, body)
	assert.Equal(t, "fed-token-1", body["session_token"])
	assert.Equal(t, "fed@example.com", body["user"].(map[string]any)["email"])

	st, body, _ = e.do(http.MethodGet, "/api/auth/me", "fed-token-1", nil)
	require.Equal(t, http.StatusOK, st)
	assert.Equal(t, "Fede", body["name"])
}

func TestHTTP_ProtectedEndpointsRequireSession(t *testing.T) {
	e := newEnv(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/appointments"},
		{http.MethodGet, "/api/emergency"},
		{http.MethodGet, "/api/chats"},
		{http.MethodGet, "/api/vet/profile/me"},
		{http.MethodPost, "/api/payments/checkout?appointment_id=x&origin_url=https://app.example"},
	} {
		st, body, _ := e.do(tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, st, tc.path)
		assert.Equal(t, "Not authenticated", body["detail"], tc.path)
	}
}

func TestHTTP_VetDirectory(t *testing.T) {
	e := newEnv(t)
	vetToken, vetID := e.register("vet@example.com", "Dra. Vera", "vet")

	st, body, _ := e.do(http.MethodPost, "/api/vet/profile", vetToken, map[string]any{
		"license_number": "LIC-1", "specialty": "Felinos", "location": "Nairobi", "experience_years": 4,
	})
	require.Equal(t, http.StatusOK, st, body)

	st, _, _ = e.do(http.MethodPost, "/api/vet/profile", vetToken, map[string]any{
		"license_number": "LIC-2", "specialty": "x", "location": "y",
	})
	assert.Equal(t, http.StatusBadRequest, st)

	all := e.list("/api/vets?specialty=felin", "")
	require.Len(t, all, 1)
	assert.Equal(t, vetID, all[0]["user_id"])
	assert.Equal(t, "Dra. Vera", all[0]["name"])

	assert.Empty(t, e.list("/api/vets?location=Mombasa", ""))

	st, body, _ = e.do(http.MethodGet, "/api/vets/"+vetID, "", nil)
	require.Equal(t, http.StatusOK, st)
	assert.Equal(t, "Felinos", body["specialty"])

	st, _, _ = e.do(http.MethodGet, "/api/vets/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, st)
}

func TestHTTP_AppointmentAndPayment(t *testing.T) {
	e := newEnv(t)
	ownerToken, ownerID := e.register("o@example.com", "Olga", "pet_owner")
	vetToken, vetID := e.register("v@example.com", "Victor", "vet")

	st, body, _ := e.do(http.MethodPost, "/api/appointments", ownerToken, map[string]any{
		"vet_id": vetID, "appointment_date": "2026-11-02", "appointment_time": "10:30",
		"pet_name": "Milo", "pet_type": "dog", "reason": "vacuna",
	})
	require.Equal(t, http.StatusOK, st, body)
	apptID := body["appointment_id"].(string)
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, "pending", body["payment_status"])
	assert.EqualValues(t, 50, body["amount"])
	assert.Equal(t, ownerID, body["pet_owner_id"])

	ownerView := e.list("/api/appointments", ownerToken)
	require.Len(t, ownerView, 1)
	assert.Equal(t, "Victor", ownerView[0]["vet_name"])

	vetView := e.list("/api/appointments", vetToken)
	require.Len(t, vetView, 1)
	assert.Equal(t, "Olga", vetView[0]["owner_name"])

	st, _, _ = e.do(http.MethodPatch, "/api/appointments/"+apptID+"?status=bogus", vetToken, nil)
	assert.Equal(t, http.StatusBadRequest, st)

	st, _, _ = e.do(http.MethodPatch, "/api/appointments/nope?status=completed", vetToken, nil)
	assert.Equal(t, http.StatusNotFound, st)

	// checkout + poll => pagado y confirmado
	q := url.Values{"appointment_id": {apptID}, "origin_url": {"https://app.example"}}
	st, body, _ = e.do(http.MethodPost, "/api/payments/checkout?"+q.Encode(), ownerToken, nil)
	require.Equal(t, http.StatusOK, st, body)
	assert.Equal(t, "cs_test_1", body["session_id"])
	assert.Equal(t, apptID, e.co.last.Metadata["appointment_id"])
	assert.Equal(t, "https://app.example/appointments", e.co.last.CancelURL)

	st, body, _ = e.do(http.MethodGet, "/api/payments/status/cs_test_1", ownerToken, nil)
	require.Equal(t, http.StatusOK, st)
	assert.Equal(t, "unpaid", body["payment_status"])
	assert.Equal(t, "pending", e.list("/api/appointments", ownerToken)[0]["payment_status"])

	e.co.paid["cs_test_1"] = true
	for i := 0; i < 2; i++ {
		st, body, _ = e.do(http.MethodGet, "/api/payments/status/cs_test_1", ownerToken, nil)
		require.Equal(t, http.StatusOK, st)
		assert.Equal(t, "paid", body["payment_status"])
	}

	got := e.list("/api/appointments", ownerToken)[0]
	assert.Equal(t, "paid", got["payment_status"])
	assert.Equal(t, "confirmed", got["status"])

	st, body, _ = e.do(http.MethodPatch, "/api/appointments/"+apptID+"?status=completed", vetToken, nil)
	require.Equal(t, http.StatusOK, st)
	assert.Equal(t, "completed", body["status"])
}

func TestHTTP_WebhookBadSignature(t *testing.T) {
	e := newEnv(t)

	st, body, _ := e.do(http.MethodPost, "/api/webhook/stripe", "", map[string]any{"id": "evt_1"}, "Stripe-Signature", "t=1,v1=bad")
	assert.Equal(t, http.StatusBadRequest, st)
	assert.NotEmpty(t, body["detail"])
}

func TestHTTP_EmergencyAcceptLastWriterWins(t *testing.T) {
	e := newEnv(t)
	ownerToken, _ := e.register("o@example.com", "Olga", "pet_owner")
	vet1Token, vet1ID := e.register("v1@example.com", "Vet Uno", "vet")
	vet2Token, vet2ID := e.register("v2@example.com", "Vet Dos", "vet")

	st, body, _ := e.do(http.MethodPost, "/api/emergency", ownerToken, map[string]any{
		"location": "Westlands", "description": "no respira bien", "pet_name": "Luna", "pet_type": "cat",
	})
	require.Equal(t, http.StatusOK, st, body)
	reqID := body["request_id"].(string)
	assert.Equal(t, "active", body["status"])

	assert.Equal(t, []string{reqID}, ids(e.list("/api/emergency", vet1Token), "request_id"))

	st, body, _ = e.do(http.MethodPatch, "/api/emergency/"+reqID+"/accept", ownerToken, nil)
	assert.Equal(t, http.StatusForbidden, st)
	assert.Equal(t, "Only vets can accept emergency requests", body["detail"])

	st, body, _ = e.do(http.MethodPatch, "/api/emergency/"+reqID+"/accept", vet1Token, nil)
	require.Equal(t, http.StatusOK, st)
	assert.Equal(t, "accepted", body["status"])
	assert.Equal(t, vet1ID, body["assigned_vet_id"])

	// el que aceptó la sigue viendo; otro vet ya no (dejó de estar activa)
	assert.Len(t, e.list("/api/emergency", vet1Token), 1)
	assert.Empty(t, e.list("/api/emergency", vet2Token))

	st, body, _ = e.do(http.MethodPatch, "/api/emergency/"+reqID+"/accept", vet2Token, nil)
	require.Equal(t, http.StatusOK, st)
	assert.Equal(t, vet2ID, body["assigned_vet_id"])

	assert.Empty(t, e.list("/api/emergency", vet1Token))
	assert.Len(t, e.list("/api/emergency", vet2Token), 1)

	owned := e.list("/api/emergency", ownerToken)
	require.Len(t, owned, 1)
	assert.Equal(t, "Vet Dos", owned[0]["vet_name"])

	st, _, _ = e.do(http.MethodPatch, "/api/emergency/nope/accept", vet1Token, nil)
	assert.Equal(t, http.StatusNotFound, st)
}

func TestHTTP_ChatsAndMessages(t *testing.T) {
	e := newEnv(t)
	ownerToken, ownerID := e.register("o@example.com", "Olga", "pet_owner")
	vetToken, vetID := e.register("v@example.com", "Victor", "vet")

	st, first, _ := e.do(http.MethodPost, "/api/chats?vet_id="+vetID, ownerToken, nil)
	require.Equal(t, http.StatusOK, st, first)
	st, second, _ := e.do(http.MethodPost, "/api/chats?vet_id="+vetID, ownerToken, nil)
	require.Equal(t, http.StatusOK, st)
	assert.Equal(t, first["chat_id"], second["chat_id"])
	chatID := first["chat_id"].(string)

	st, body, _ := e.do(http.MethodPost, "/api/messages", ownerToken, map[string]any{"chat_id": chatID, "content": "hola"})
	require.Equal(t, http.StatusOK, st, body)
	assert.Equal(t, ownerID, body["sender_id"])

	st, _, _ = e.do(http.MethodPost, "/api/messages", vetToken, map[string]any{"chat_id": chatID, "content": "¿qué pasa?"})
	require.Equal(t, http.StatusOK, st)

	st, body, _ = e.do(http.MethodPost, "/api/messages", vetToken, map[string]any{"chat_id": "nope", "content": "x"})
	assert.Equal(t, http.StatusNotFound, st)
	assert.Equal(t, "Chat not found", body["detail"])

	vetChats := e.list("/api/chats", vetToken)
	require.Len(t, vetChats, 1)
	assert.Equal(t, "¿qué pasa?", vetChats[0]["last_message"])
	assert.Equal(t, "Olga", vetChats[0]["owner_name"])

	history := e.list("/api/messages/"+chatID, ownerToken)
	require.Len(t, history, 2)
	assert.Equal(t, "hola", history[0]["content"])
	assert.Equal(t, "Victor", history[1]["sender_name"])
}
