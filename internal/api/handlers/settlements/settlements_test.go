package settlements

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splitledger/internal/manager"
	"splitledger/internal/models"
	"splitledger/internal/repositories/jsonstore"
)

func newHandler(t *testing.T) *Handler {
	t.Helper()

	store, err := jsonstore.Open(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)

	logger := logrus.New()
	logger.Out = io.Discard

	mgr, err := manager.New(store, logger)
	require.NoError(t, err)

	// Outstanding: sam owes you 30.
	require.NoError(t, mgr.AddExpense(models.Expense{
		ID:     "e1",
		Amount: decimal.RequireFromString("60"),
		Payer:  "you",
		Participants: models.Participants{
			{Identity: "you", Weight: decimal.Zero},
			{Identity: "sam", Weight: decimal.Zero},
		},
		SplitMode:   "EqualSplit",
		Description: "rent",
		Date:        time.Now().UTC(),
	}))

	return &Handler{Manager: mgr, Logger: logger}
}

func postSettlement(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/settlements/create", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateHandler(rec, req)
	return rec
}

func TestCreateSettlement(t *testing.T) {
	h := newHandler(t)

	rec := postSettlement(t, h, `{"payer":"sam","payee":"you","amount":20,"description":"","notes":""}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	net := h.Manager.BalancesFor("sam")
	require.Contains(t, net, "you")
	assert.Equal(t, "10.00", net["you"].StringFixed(2))
}

func TestStrictSettlementRejectsOverpayment(t *testing.T) {
	h := newHandler(t)

	rec := postSettlement(t, h, `{"payer":"sam","payee":"you","amount":45,"description":"","notes":"","strict":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	// Without strict the engine accepts overpayment and flips the balance.
	rec = postSettlement(t, h, `{"payer":"sam","payee":"you","amount":45,"description":"","notes":""}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "-15.00", h.Manager.BalancesFor("sam")["you"].StringFixed(2))
}

func TestCreateSettlementValidation(t *testing.T) {
	h := newHandler(t)

	rec := postSettlement(t, h, `{"payer":"sam","payee":"sam","amount":5,"description":"","notes":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postSettlement(t, h, `{"payer":"sam","payee":"you","amount":-5,"description":"","notes":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
