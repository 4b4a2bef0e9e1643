package workorder

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"woingest/internal/sheet"
)

func sampleRow() sheet.Row {
	cells := make([]string, MinColumns)
	cells[ColCustomerName] = "ACME Bank"
	cells[ColInputFileName] = "ACME_20240315.txt"
	cells[ColBatchName] = "B-001"
	cells[ColHexID] = "#00FF12"
	cells[ColProductName] = "Visa Gold"
	cells[ColProductAlias] = "VG"
	cells[ColProductType] = "Adicional"
	cells[ColProductStatus] = "Finished"
	cells[ColAdditionalHexID] = "nan"
	cells[ColCreationDate] = "45366.5"
	cells[ColDueDate] = ""
	cells[ColFinishedDate] = "2024-03-16 10:00:00"
	cells[ColShippingDate] = "NaT"
	cells[ColComments] = "rush"
	cells[ColWOStatus] = "Shipped"
	cells[ColQuantity] = "250"
	cells[ColMainPlastic] = "PVC"
	cells[ColPlanningID] = "P778"
	cells[ColPackageID] = "PK-9"
	cells[ColSequenceInPackage] = "3"
	cells[ColPriorityQuantity] = "10"
	cells[ColExcludedQuantity] = "0"
	cells[ColProcessStart] = "15-Mar-24 08:00:00"
	cells[ColProcessEnd] = ""
	cells[ColProcessCostTime] = "00:42:00"
	cells[ColInitCMF] = "14-Mar-24 23:10:05"
	cells[ColInitCMFInfo] = "ok"
	cells[ColMatchingStart] = "45366.25"
	cells[ColMatchingEnd] = ""
	return sheet.Row{Number: 2, Cells: cells}
}

func TestTransform(t *testing.T) {
	wo, err := NewTransformer(false).Transform(sampleRow())
	require.NoError(t, err)

	assert.Equal(t, "ACME Bank", wo.CustomerName)
	assert.Equal(t, "ACME_20240315.txt", wo.InputFileName)
	assert.Equal(t, "B-001", wo.BatchName)
	require.NotNil(t, wo.HexID)
	assert.Equal(t, "00FF12", *wo.HexID)
	assert.Nil(t, wo.AdditionalHexID)
	assert.Equal(t, 2, wo.ProductType)
	assert.Equal(t, 200, wo.WOStatus)
	assert.Equal(t, "2024-03-15T12:00:00", *wo.CreationDate)
	assert.Nil(t, wo.DueDate)
	assert.Equal(t, "2024-03-16T10:00:00", *wo.FinishedDate)
	assert.Nil(t, wo.ShippingDate)
	assert.Equal(t, 250, wo.Quantity)
	assert.Equal(t, 10, wo.PriorityQuantity)
	assert.Equal(t, 0, wo.ExcludedQuantity)
	assert.Equal(t, 3, wo.SequenceInPackage)
	assert.Equal(t, "778", *wo.PlanningID)
	assert.Equal(t, "PK-9", wo.PackageID)
	assert.Equal(t, "2024-03-15T08:00:00", *wo.ProcessStartDate)
	assert.Nil(t, wo.ProcessEndDate)
	assert.Equal(t, "2024-03-14T23:10:05", *wo.InitCMFDate)
	assert.Equal(t, "2024-03-15T06:00:00", *wo.MatchingStartDate)
	assert.Nil(t, wo.MatchingEndDate)
}

func TestTransformBlankIdentifiers(t *testing.T) {
	row := sampleRow()
	row.Cells[ColHexID] = ""
	row.Cells[ColPlanningID] = ""

	wo, err := NewTransformer(false).Transform(row)
	require.NoError(t, err)
	assert.Nil(t, wo.HexID)
	require.NotNil(t, wo.PlanningID)
	assert.Equal(t, "", *wo.PlanningID)
}

func TestTransformJSONShape(t *testing.T) {
	wo, err := NewTransformer(false).Transform(sampleRow())
	require.NoError(t, err)

	blob, err := json.Marshal(wo)
	require.NoError(t, err)
	var obj map[string]any
	require.NoError(t, json.Unmarshal(blob, &obj))

	assert.Len(t, obj, len(Columns))
	for _, c := range Columns {
		assert.Contains(t, obj, c.Field)
	}
	assert.Nil(t, obj["duedate"])
	assert.Nil(t, obj["additionalhexid"])
	assert.EqualValues(t, 200, obj["wo_status"])
}

func TestTransformShortRowIsFormatError(t *testing.T) {
	row := sampleRow()
	row.Cells = row.Cells[:50]

	_, err := NewTransformer(false).Transform(row)
	require.Error(t, err)

	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 2, fe.Row)
	assert.Equal(t, ColProcessCostTime, fe.Column)
	assert.Equal(t, "processcosttime", fe.Field)
}

func TestTransformBadLegacyDate(t *testing.T) {
	row := sampleRow()
	row.Cells[ColProcessEnd] = "2024/03/15 10:00"

	_, err := NewTransformer(false).Transform(row)
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ColProcessEnd, fe.Column)
	assert.Equal(t, "processenddate", fe.Field)
	assert.Contains(t, err.Error(), "row 2")
}

func TestTransformBadCount(t *testing.T) {
	row := sampleRow()
	row.Cells[ColQuantity] = "many"

	_, err := NewTransformer(false).Transform(row)
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "quantity", fe.Field)
}

func TestTransformCustomStatusTable(t *testing.T) {
	tr := NewTransformer(false)
	tr.Statuses = StatusTable{"Shipped": 300}

	wo, err := tr.Transform(sampleRow())
	require.NoError(t, err)
	assert.Equal(t, 300, wo.WOStatus)
}

func TestValidateHeader(t *testing.T) {
	header := make([]string, MinColumns)
	for _, c := range Columns {
		header[c.Index] = c.Header
	}
	header[ColExcludedQuantity] = "QTD EXCLUIDA"
	require.NoError(t, ValidateHeader(header, true))

	header[ColPlanningID] = "Planning"
	err := ValidateHeader(header, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "planningid")
	require.NoError(t, ValidateHeader(header, false))

	err = ValidateHeader(header[:40], false)
	assert.True(t, IsFormatError(err))
}

func TestFillColumns(t *testing.T) {
	fill := FillColumns()
	assert.Len(t, fill, 14)
	for _, c := range fill {
		assert.NotEmpty(t, c.Header)
	}
}
