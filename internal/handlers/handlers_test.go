package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/personal_ledger_app/internal/adapters/archive"
	"github.com/SscSPs/personal_ledger_app/internal/adapters/kvstore"
	"github.com/SscSPs/personal_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/personal_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/personal_ledger_app/internal/core/services"
	"github.com/SscSPs/personal_ledger_app/internal/dto"
	"github.com/SscSPs/personal_ledger_app/internal/handlers"
	"github.com/SscSPs/personal_ledger_app/internal/platform/config"
	"github.com/SscSPs/personal_ledger_app/internal/repositories/kvrepo"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type HandlersTestSuite struct {
	suite.Suite
	router   *gin.Engine
	store    *kvstore.MemoryStore
	services *portssvc.ServiceContainer
	cfg      *config.Config
}

func (s *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.cfg = &config.Config{
		JWTSecret:         "test-secret-key-that-is-long-enough",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "test",
		AuthRateLimit:     "1000-M",
	}
	s.store = kvstore.NewMemoryStore()
	s.build()
}

// build wires a fresh process on top of the current store, like a restart.
func (s *HandlersTestSuite) build() {
	dir, err := archive.NewDirArchive(s.T().TempDir())
	s.Require().NoError(err)

	s.services = services.NewServiceContainer(kvrepo.NewRepositoryProvider(s.store, dir))
	_, err = s.services.Session.Restore(context.Background())
	s.Require().NoError(err)

	s.router = gin.New()
	s.Require().NoError(handlers.RegisterRoutes(s.router, s.cfg, s.services))
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

func (s *HandlersTestSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlersTestSuite) register() string {
	w := s.do(http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{
		Identifier: "ana@example.com", DisplayName: "Ana", Secret: "secret1",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp dto.AuthResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().NotEmpty(resp.Token)
	s.Equal("ana@example.com", resp.Account.Identifier)
	return resp.Token
}

func (s *HandlersTestSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("OK", w.Body.String())
}

func (s *HandlersTestSuite) TestProtectedRoutesNeedToken() {
	w := s.do(http.MethodGet, "/api/v1/transactions", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/v1/transactions", "not-a-jwt", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlersTestSuite) TestRegister_ValidationAndDuplicate() {
	w := s.do(http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{Identifier: "ana@example.com", Secret: "secret1"})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{Identifier: "ana@example.com", DisplayName: "Ana", Secret: "123"})
	s.Equal(http.StatusBadRequest, w.Code)

	token := s.register()
	s.Equal(http.StatusNoContent, s.do(http.MethodPost, "/api/v1/auth/logout", token, nil).Code)

	w = s.do(http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{Identifier: "ana@example.com", DisplayName: "Other", Secret: "secret2"})
	s.Equal(http.StatusConflict, w.Code)
}

func (s *HandlersTestSuite) TestLoginFlow() {
	token := s.register()
	s.Equal(http.StatusNoContent, s.do(http.MethodPost, "/api/v1/auth/logout", token, nil).Code)

	// The old token no longer opens anything.
	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/loans", token, nil).Code)

	w := s.do(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Identifier: "ana@example.com", Secret: "wrong1"})
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Identifier: "ghost@example.com", Secret: "secret1"})
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Identifier: "ana@example.com", Secret: "secret1"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
}

func (s *HandlersTestSuite) TestSocialLoginNotImplemented() {
	w := s.do(http.MethodPost, "/api/v1/auth/social/google", "", nil)
	s.Equal(http.StatusNotImplemented, w.Code)
}

func (s *HandlersTestSuite) TestLedgerFlow() {
	token := s.register()

	w := s.do(http.MethodPost, "/api/v1/transactions", token, `{"amount":"1000","category":"Salary","type":"income","date":"2024-03-01"}`)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	w = s.do(http.MethodPost, "/api/v1/transactions", token, `{"amount":250.5,"category":"Food","type":"expense"}`)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var expense domain.Transaction
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &expense))

	w = s.do(http.MethodPost, "/api/v1/transactions", token, `{"amount":"-5","category":"Food","type":"expense"}`)
	s.Equal(http.StatusBadRequest, w.Code)
	w = s.do(http.MethodPost, "/api/v1/transactions", token, `{"amount":"5","category":"Food","type":"gift"}`)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/loans", token, `{"amount":"40","personName":"Bob","type":"lend"}`)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var loan domain.LoanRecord
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &loan))
	s.Equal(domain.LoanPending, loan.Status)

	w = s.do(http.MethodPost, "/api/v1/loans/"+loan.ID+"/paid", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"status":"paid"`)

	w = s.do(http.MethodPost, "/api/v1/loans/missing/paid", token, nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/v1/summary?period=all", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var view domain.LedgerView
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &view))
	s.Equal("749.5", view.Balance.String())

	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/summary?period=decade", token, nil).Code)

	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/api/v1/transactions/"+expense.ID, token, nil).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodDelete, "/api/v1/transactions/"+expense.ID, token, nil).Code)

	w = s.do(http.MethodGet, "/api/v1/transactions", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var list dto.ListTransactionsResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &list))
	s.Len(list.Transactions, 1)
}

func (s *HandlersTestSuite) TestPinLockAcrossRestart() {
	token := s.register()

	w := s.do(http.MethodPut, "/api/v1/session/pin", token, dto.SetPinRequest{Pin: "1234", ConfirmPin: "4321"})
	s.Equal(http.StatusBadRequest, w.Code)
	w = s.do(http.MethodPut, "/api/v1/session/pin", token, dto.SetPinRequest{Pin: "1234", ConfirmPin: "1234"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	s.build()

	w = s.do(http.MethodGet, "/api/v1/session", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"state":"awaiting_unlock","lock":"has_lock"}`, w.Body.String())

	s.Equal(http.StatusLocked, s.do(http.MethodGet, "/api/v1/transactions", token, nil).Code)

	w = s.do(http.MethodPost, "/api/v1/session/pin/verify", "", dto.VerifyPinRequest{Pin: "0000"})
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/v1/session/pin/verify", "", dto.VerifyPinRequest{Pin: "1234"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.AuthResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))

	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/v1/transactions", resp.Token, nil).Code)
}

func (s *HandlersTestSuite) TestBackupRoundTrip() {
	token := s.register()
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/api/v1/transactions", token, `{"amount":"10","category":"Food","type":"expense"}`).Code)

	w := s.do(http.MethodGet, "/api/v1/backup", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Header().Get("Content-Disposition"), "finance-backup-")
	s.Contains(w.Body.String(), `"version": "1.0"`)
	document := w.Body.String()

	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/api/v1/transactions", token, `{"amount":"99","category":"Rent","type":"expense"}`).Code)

	w = s.do(http.MethodPost, "/api/v1/backup", token, document)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.JSONEq(`{"transactions":1,"loans":0}`, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/backup", token, `{"transactions":[]}`)
	s.Equal(http.StatusBadRequest, w.Code)
	w = s.do(http.MethodPost, "/api/v1/backup", token, strings.Repeat("{", 3))
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersTestSuite) TestArchiveFlow() {
	token := s.register()

	w := s.do(http.MethodPost, "/api/v1/backup/archive", token, nil)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var archived dto.ArchiveResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &archived))
	s.True(strings.HasPrefix(archived.Name, "finance-backup-"))

	w = s.do(http.MethodGet, "/api/v1/backup/archive", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), archived.Name)

	w = s.do(http.MethodPost, "/api/v1/backup/archive/"+archived.Name+"/restore", token, nil)
	s.Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/backup/archive/finance-backup-0.json/restore", token, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlersTestSuite) TestSessionStatus_DoesNotNameAccount() {
	s.register()

	w := s.do(http.MethodGet, "/api/v1/session", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.NotContains(w.Body.String(), "ana@example.com")
	s.NotContains(w.Body.String(), "Ana")
	var status dto.SessionStatusResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &status))
	s.Equal(domain.Active, status.State)
}

func (s *HandlersTestSuite) TestVerifyPin_OpenSessionIssuesNoToken() {
	s.register()

	w := s.do(http.MethodPost, "/api/v1/session/pin/verify", "", dto.VerifyPinRequest{Pin: "0000"})
	s.Equal(http.StatusConflict, w.Code)
	s.NotContains(w.Body.String(), "token")

	// Same without any PIN set at all.
	w = s.do(http.MethodPost, "/api/v1/session/pin/verify", "", dto.VerifyPinRequest{})
	s.Equal(http.StatusConflict, w.Code)
	s.NotContains(w.Body.String(), "token")
}

func (s *HandlersTestSuite) TestImportBackup_TooLarge() {
	token := s.register()

	body := `{"transactions":[],"loans":[],"pad":"` + strings.Repeat("x", 10<<20) + `"}`
	w := s.do(http.MethodPost, "/api/v1/backup", token, body)
	s.Equal(http.StatusRequestEntityTooLarge, w.Code)
}

func (s *HandlersTestSuite) TestArchive_NotVisibleToOtherAccount() {
	token := s.register()
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/api/v1/transactions", token, `{"amount":"900","category":"AnaSecretRent","type":"expense"}`).Code)

	w := s.do(http.MethodPost, "/api/v1/backup/archive", token, nil)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var archived dto.ArchiveResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &archived))
	s.Require().Equal(http.StatusNoContent, s.do(http.MethodPost, "/api/v1/auth/logout", token, nil).Code)

	w = s.do(http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{
		Identifier: "eve@example.com", DisplayName: "Eve", Secret: "secret2",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var eve dto.AuthResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &eve))

	w = s.do(http.MethodGet, "/api/v1/backup/archive", eve.Token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.NotContains(w.Body.String(), archived.Name)

	w = s.do(http.MethodPost, "/api/v1/backup/archive/"+archived.Name+"/restore", eve.Token, nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/v1/transactions", eve.Token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.NotContains(w.Body.String(), "AnaSecretRent")
}
