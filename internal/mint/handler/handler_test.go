package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"mintgate/internal/allowlist"
	"mintgate/internal/metadata"
	"mintgate/internal/mint"
	"mintgate/internal/mint/models"
	"mintgate/internal/platform/middleware"
	"mintgate/internal/registry"
	"mintgate/internal/treasury"
	id "mintgate/pkg/domain"
)

const (
	minterAddress = "0xa11ce00000000000000000000000000000000001"
	ownerAddress  = "0x00000000000000000000000000000000000000aa"
)

type stubValidator struct {
	claims *middleware.Claims
	err    error
}

func (v *stubValidator) ValidateToken(string) (*middleware.Claims, error) {
	return v.claims, v.err
}

// HandlerSuite provides shared test setup for the public mint endpoints.
// Uses real in-memory collaborators; the only stub is the token validator.
type HandlerSuite struct {
	suite.Suite
	router  http.Handler
	service *mint.Service
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	collection, err := models.NewCollection(
		"Gate Pass", "GATE",
		uint256.NewInt(100),
		1000, 5,
		time.Now().Add(-time.Hour),
		time.Now().Add(-2*time.Hour),
	)
	require.NoError(s.T(), err)

	s.service = mint.New(
		collection,
		id.MustAddress(ownerAddress),
		registry.NewInMemory(),
		allowlist.NewInMemory(),
		treasury.NewRecordingTransferer(),
		metadata.NewResolver("ipfs://QmGatePass/", ".json"),
	)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	validator := &stubValidator{claims: &middleware.Claims{Address: minterAddress, Role: "minter"}}
	handler := New(s.service, logger, nil, validator)

	r := chi.NewRouter()
	handler.Register(r)
	s.router = r
}

func (s *HandlerSuite) postMint(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/mint", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// =============================================================================
// POST /mint
// =============================================================================

func (s *HandlerSuite) TestMint_Success() {
	rec := s.postMint(`{"quantity":2,"payment":"200"}`)

	require.Equal(s.T(), http.StatusCreated, rec.Code, rec.Body.String())

	var resp MintResponse
	require.NoError(s.T(), json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(s.T(), minterAddress, resp.Caller)
	assert.Equal(s.T(), uint64(2), resp.Quantity)
	assert.Equal(s.T(), uint64(1), resp.FirstID)
	assert.Equal(s.T(), uint64(2), resp.LastID)
	assert.Equal(s.T(), "200", resp.Payment)
	assert.Equal(s.T(), uint64(1), resp.Sequence)
}

func (s *HandlerSuite) TestMint_InsufficientPayment() {
	rec := s.postMint(`{"quantity":2,"payment":"199"}`)

	require.Equal(s.T(), http.StatusPaymentRequired, rec.Code)

	var body map[string]string
	require.NoError(s.T(), json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(s.T(), "insufficient_payment", body["error"])
}

func (s *HandlerSuite) TestMint_ZeroQuantityReachesGate() {
	// Zero quantity is a gate verdict, not a request validation failure.
	rec := s.postMint(`{"quantity":0}`)

	require.Equal(s.T(), http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(s.T(), json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(s.T(), "zero_quantity", body["error"])
}

func (s *HandlerSuite) TestMint_InvalidPayment() {
	rec := s.postMint(`{"quantity":1,"payment":"1.5e18"}`)

	require.Equal(s.T(), http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(s.T(), json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(s.T(), "invalid_input", body["error"])
}

func (s *HandlerSuite) TestMint_InvalidJSON() {
	rec := s.postMint(`not valid json`)

	assert.Equal(s.T(), http.StatusBadRequest, rec.Code,
		"expected 400 for invalid JSON")
}

func (s *HandlerSuite) TestMint_MissingToken() {
	req := httptest.NewRequest(http.MethodPost, "/mint",
		bytes.NewBufferString(`{"quantity":1,"payment":"100"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(s.T(), http.StatusUnauthorized, rec.Code)
}

// =============================================================================
// GET /collection
// =============================================================================

func (s *HandlerSuite) TestGetCollection() {
	rec := s.postMint(`{"quantity":3,"payment":"300"}`)
	require.Equal(s.T(), http.StatusCreated, rec.Code)

	rec = s.get("/collection")
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var resp CollectionResponse
	require.NoError(s.T(), json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(s.T(), "Gate Pass", resp.Name)
	assert.Equal(s.T(), "GATE", resp.Symbol)
	assert.Equal(s.T(), "100", resp.Cost)
	assert.Equal(s.T(), uint64(1000), resp.MaxSupply)
	assert.Equal(s.T(), uint64(5), resp.MaxMintPerCall)
	assert.Equal(s.T(), uint64(3), resp.TotalSupply)
	assert.Equal(s.T(), uint64(997), resp.Remaining)
	assert.False(s.T(), resp.Paused)
	assert.False(s.T(), resp.WhitelistOnly)
}

// =============================================================================
// GET /tokens/{tokenID}
// =============================================================================

func (s *HandlerSuite) TestGetToken() {
	rec := s.postMint(`{"quantity":1,"payment":"100"}`)
	require.Equal(s.T(), http.StatusCreated, rec.Code)

	rec = s.get("/tokens/1")
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var resp TokenResponse
	require.NoError(s.T(), json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(s.T(), uint64(1), resp.TokenID)
	assert.Equal(s.T(), minterAddress, resp.Owner)
	assert.Equal(s.T(), "ipfs://QmGatePass/1.json", resp.TokenURI)
}

func (s *HandlerSuite) TestGetToken_NotIssued() {
	rec := s.get("/tokens/42")

	assert.Equal(s.T(), http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestGetToken_MalformedID() {
	for _, path := range []string{"/tokens/abc", "/tokens/0", "/tokens/-1"} {
		rec := s.get(path)
		assert.Equal(s.T(), http.StatusBadRequest, rec.Code, "path %s", path)
	}
}

// =============================================================================
// GET /addresses/{address}
// =============================================================================

func (s *HandlerSuite) TestGetAddress() {
	rec := s.postMint(`{"quantity":2,"payment":"200"}`)
	require.Equal(s.T(), http.StatusCreated, rec.Code)

	rec = s.get("/addresses/" + minterAddress)
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var resp AddressResponse
	require.NoError(s.T(), json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(s.T(), minterAddress, resp.Address)
	assert.Equal(s.T(), uint64(2), resp.Balance)
	assert.Equal(s.T(), []uint64{1, 2}, resp.Tokens)
	assert.False(s.T(), resp.Whitelisted)
}

func (s *HandlerSuite) TestGetAddress_Malformed() {
	rec := s.get("/addresses/not-an-address")

	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
}

// =============================================================================
// GET /collection/events
// =============================================================================

func (s *HandlerSuite) TestListEvents() {
	for i := 0; i < 3; i++ {
		rec := s.postMint(`{"quantity":1,"payment":"100"}`)
		require.Equal(s.T(), http.StatusCreated, rec.Code)
	}

	rec := s.get("/collection/events")
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var resp EventsResponse
	require.NoError(s.T(), json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(s.T(), resp.Events, 3)
	assert.Equal(s.T(), uint64(3), resp.NextAfter)

	// Cursor resumes strictly after the given sequence.
	rec = s.get("/collection/events?after=2")
	require.Equal(s.T(), http.StatusOK, rec.Code)

	resp = EventsResponse{}
	require.NoError(s.T(), json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(s.T(), resp.Events, 1)
	assert.Equal(s.T(), uint64(3), resp.Events[0].Sequence)
}

func (s *HandlerSuite) TestListEvents_BadCursor() {
	rec := s.get("/collection/events?after=later")
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)

	rec = s.get("/collection/events?limit=99999")
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
}
