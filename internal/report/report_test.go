package report

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scgc-mis/slrecon/internal/ledger"
	"github.com/scgc-mis/slrecon/internal/recon"
)

func sampleResult() *recon.Result {
	rebate := decimal.NewFromInt(200)
	balance := decimal.NewFromInt(8800)
	return &recon.Result{
		Ledger: []ledger.Transaction{
			{
				ID:         "a",
				Date:       civil.Date{Year: 2020, Month: time.January, Day: 15},
				Particular: "PAYMENT",
				Credit:     decimal.NewFromInt(1000),
			},
			{
				ID:         "b",
				RawDate:    "20200132",
				Particular: "PAYMENT",
				Credit:     decimal.NewFromInt(500),
			},
		},
		Annotations: map[string]recon.Annotation{
			"a": {
				RecomputedRebate:       &rebate,
				RecomputedTotalBalance: &balance,
				DelinquencyChar:        "0",
			},
		},
		DelinquencyString: "00",
		RebateTotal:       decimal.NewFromInt(400),
		PenaltyTotal:      decimal.Zero,
		Periods:           2,
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleResult()))

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	// header + 2 ledger rows + 4 summary rows
	require.Len(t, records, 7)

	assert.Equal(t, []string{
		"TR_DATE", "PARTICULAR", "DEBIT", "CREDIT", "REBATE", "PENALTY", "BALANCE",
		"RECOMPUTED_REBATE", "RECOMPUTED_TOTAL_BALANCE", "PD_CHAR",
	}, records[0])

	annotated := records[1]
	assert.Equal(t, "2020-01-15", annotated[0])
	assert.Equal(t, "1000", annotated[3])
	assert.Equal(t, "200", annotated[7])
	assert.Equal(t, "8800", annotated[8])
	assert.Equal(t, "0", annotated[9])

	// Unannotated row keeps its raw warehouse date and empty recomputed cells.
	plain := records[2]
	assert.Equal(t, "20200132", plain[0])
	assert.Equal(t, "", plain[7])
	assert.Equal(t, "", plain[8])
	assert.Equal(t, "", plain[9])

	assert.Equal(t, []string{"PD_STRING", "00"}, records[3])
	assert.Equal(t, []string{"REBATE_TOTAL", "400"}, records[4])
	assert.Equal(t, []string{"PENALTY_TOTAL", "0"}, records[5])
	assert.Equal(t, []string{"PERIODS", "2"}, records[6])
}

func TestBuildCSV(t *testing.T) {
	data, err := BuildCSV(sampleResult())
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestObjectName(t *testing.T) {
	assert.Equal(t, "reconciliation/2020-03-01/00561289.csv", ObjectName("00561289", "2020-03-01"))
}
