package mint

import (
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mintgate/internal/mint/models"
	dErrors "mintgate/pkg/domain-errors"
)

var gateActivation = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// admissibleRequest builds a request that passes every gate rule:
// active, unpaused, open admission, quantity 2 at cost 100 paid 200.
func admissibleRequest() AdmissionRequest {
	return AdmissionRequest{
		Collection: models.Snapshot{
			Name:           "Gate Pass",
			Symbol:         "GATE",
			Cost:           *uint256.NewInt(100),
			MaxSupply:      1000,
			MaxMintPerCall: 5,
			ActivationTime: gateActivation,
			TotalSupply:    10,
		},
		Allowlisted: false,
		Quantity:    2,
		Payment:     uint256.NewInt(200),
		Now:         gateActivation.Add(time.Hour),
	}
}

func TestAdmit(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(req *AdmissionRequest)
		wantCode dErrors.Code
	}{
		{
			name:   "admits when every precondition holds",
			modify: func(req *AdmissionRequest) {},
		},
		{
			name: "admits exact payment",
			modify: func(req *AdmissionRequest) {
				req.Payment = uint256.NewInt(200)
			},
		},
		{
			name: "admits overpayment without refund",
			modify: func(req *AdmissionRequest) {
				req.Payment = uint256.NewInt(100000)
			},
		},
		{
			name: "admits free mint with nil payment",
			modify: func(req *AdmissionRequest) {
				req.Collection.Cost = uint256.Int{}
				req.Payment = nil
			},
		},
		{
			name: "admits allow-listed caller in whitelist-only mode",
			modify: func(req *AdmissionRequest) {
				req.Collection.WhitelistOnly = true
				req.Allowlisted = true
			},
		},
		{
			name: "admits at the activation instant",
			modify: func(req *AdmissionRequest) {
				req.Now = gateActivation
			},
		},
		{
			name: "admits quantity that lands exactly on max supply",
			modify: func(req *AdmissionRequest) {
				req.Collection.TotalSupply = 995
				req.Quantity = 5
				req.Payment = uint256.NewInt(500)
			},
		},
		{
			name: "rejects when paused",
			modify: func(req *AdmissionRequest) {
				req.Collection.Paused = true
			},
			wantCode: dErrors.CodePaused,
		},
		{
			name: "rejects non-member in whitelist-only mode",
			modify: func(req *AdmissionRequest) {
				req.Collection.WhitelistOnly = true
			},
			wantCode: dErrors.CodeNotWhitelisted,
		},
		{
			name: "rejects before activation",
			modify: func(req *AdmissionRequest) {
				req.Now = gateActivation.Add(-time.Second)
			},
			wantCode: dErrors.CodeNotYetActive,
		},
		{
			name: "rejects zero quantity",
			modify: func(req *AdmissionRequest) {
				req.Quantity = 0
				req.Payment = new(uint256.Int)
			},
			wantCode: dErrors.CodeZeroQuantity,
		},
		{
			name: "rejects payment one unit short",
			modify: func(req *AdmissionRequest) {
				req.Payment = uint256.NewInt(199)
			},
			wantCode: dErrors.CodeInsufficientPayment,
		},
		{
			name: "rejects nil payment when cost is positive",
			modify: func(req *AdmissionRequest) {
				req.Payment = nil
			},
			wantCode: dErrors.CodeInsufficientPayment,
		},
		{
			name: "rejects when cost times quantity overflows",
			modify: func(req *AdmissionRequest) {
				huge := new(uint256.Int).Lsh(uint256.NewInt(1), 255)
				req.Collection.Cost = *huge
				req.Quantity = 4
				req.Payment = new(uint256.Int).SetAllOne()
			},
			wantCode: dErrors.CodeInsufficientPayment,
		},
		{
			name: "rejects quantity above the per-call limit",
			modify: func(req *AdmissionRequest) {
				req.Quantity = 6
				req.Payment = uint256.NewInt(600)
			},
			wantCode: dErrors.CodeExceedsPerCallLimit,
		},
		{
			name: "rejects quantity above the remaining supply",
			modify: func(req *AdmissionRequest) {
				req.Collection.TotalSupply = 998
				req.Quantity = 3
				req.Payment = uint256.NewInt(300)
			},
			wantCode: dErrors.CodeExceedsMaxSupply,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := admissibleRequest()
			tt.modify(&req)

			err := Admit(req)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, dErrors.CodeOf(err))
		})
	}
}

// The gate reports the earliest violated rule when several fail at
// once.
func TestAdmitFirstViolationWins(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(req *AdmissionRequest)
		wantCode dErrors.Code
	}{
		{
			name: "paused beats underpayment",
			modify: func(req *AdmissionRequest) {
				req.Collection.Paused = true
				req.Payment = uint256.NewInt(1)
			},
			wantCode: dErrors.CodePaused,
		},
		{
			name: "paused beats everything",
			modify: func(req *AdmissionRequest) {
				req.Collection.Paused = true
				req.Collection.WhitelistOnly = true
				req.Now = gateActivation.Add(-time.Hour)
				req.Quantity = 0
			},
			wantCode: dErrors.CodePaused,
		},
		{
			name: "membership beats activation",
			modify: func(req *AdmissionRequest) {
				req.Collection.WhitelistOnly = true
				req.Now = gateActivation.Add(-time.Hour)
			},
			wantCode: dErrors.CodeNotWhitelisted,
		},
		{
			name: "activation beats zero quantity",
			modify: func(req *AdmissionRequest) {
				req.Now = gateActivation.Add(-time.Hour)
				req.Quantity = 0
			},
			wantCode: dErrors.CodeNotYetActive,
		},
		{
			name: "underpayment beats per-call limit",
			modify: func(req *AdmissionRequest) {
				req.Quantity = 6
				req.Payment = uint256.NewInt(1)
			},
			wantCode: dErrors.CodeInsufficientPayment,
		},
		{
			name: "per-call limit beats supply cap",
			modify: func(req *AdmissionRequest) {
				req.Collection.TotalSupply = 999
				req.Quantity = 6
				req.Payment = uint256.NewInt(600)
			},
			wantCode: dErrors.CodeExceedsPerCallLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := admissibleRequest()
			tt.modify(&req)

			err := Admit(req)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, dErrors.CodeOf(err))
		})
	}
}

func TestRequiredPayment(t *testing.T) {
	required, overflow := RequiredPayment(uint256.NewInt(250), 4)
	require.False(t, overflow)
	assert.Equal(t, uint256.NewInt(1000), required)

	_, overflow = RequiredPayment(new(uint256.Int).SetAllOne(), 2)
	assert.True(t, overflow)

	required, overflow = RequiredPayment(uint256.NewInt(250), 0)
	require.False(t, overflow)
	assert.True(t, required.IsZero())
}
