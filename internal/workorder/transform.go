package workorder

import (
	"woingest/internal"
	"woingest/internal/sheet"
	"woingest/internal/util"
)

type Transformer struct {
	Statuses StatusTable
	Date1904 bool
}

func NewTransformer(date1904 bool) *Transformer {
	return &Transformer{Statuses: DefaultStatusTable, Date1904: date1904}
}

// Transform maps one positional row to a WorkOrder. A column missing from
// the row is a FormatError; blank cells follow the per-field defaults.
func (t *Transformer) Transform(row sheet.Row) (internal.WorkOrder, error) {
	r := rowReader{row: row, date1904: t.Date1904}

	wo := internal.WorkOrder{
		CustomerName:      r.text(ColCustomerName),
		InputFileName:     r.text(ColInputFileName),
		BatchName:         r.text(ColBatchName),
		HexID:             r.identifier(ColHexID),
		ProductName:       r.text(ColProductName),
		ProductAlias:      r.text(ColProductAlias),
		ProductType:       ProductType(r.text(ColProductType)),
		ProductStatus:     r.text(ColProductStatus),
		AdditionalHexID:   r.identifier(ColAdditionalHexID),
		CreationDate:      r.date(ColCreationDate),
		DueDate:           r.date(ColDueDate),
		FinishedDate:      r.date(ColFinishedDate),
		ShippingDate:      r.date(ColShippingDate),
		Comments:          r.text(ColComments),
		WOStatus:          t.statuses().Code(r.text(ColWOStatus)),
		Quantity:          r.count(ColQuantity),
		PriorityQuantity:  r.count(ColPriorityQuantity),
		ExcludedQuantity:  r.count(ColExcludedQuantity),
		MainPlastic:       r.text(ColMainPlastic),
		PlanningID:        r.identifier(ColPlanningID),
		PackageID:         r.text(ColPackageID),
		SequenceInPackage: r.count(ColSequenceInPackage),
		ProcessStartDate:  r.legacyDate(ColProcessStart),
		ProcessEndDate:    r.legacyDate(ColProcessEnd),
		ProcessCostTime:   r.text(ColProcessCostTime),
		InitCMFDate:       r.legacyDate(ColInitCMF),
		InitCMFInfo:       r.text(ColInitCMFInfo),
		MatchingStartDate: r.date(ColMatchingStart),
		MatchingEndDate:   r.date(ColMatchingEnd),
	}
	if r.err != nil {
		return internal.WorkOrder{}, r.err
	}
	return wo, nil
}

func (t *Transformer) statuses() StatusTable {
	if t.Statuses == nil {
		return DefaultStatusTable
	}
	return t.Statuses
}

// rowReader keeps the first error so Transform reads like a field table.
type rowReader struct {
	row      sheet.Row
	date1904 bool
	err      error
}

func (r *rowReader) cell(index int) (string, bool) {
	if r.err != nil {
		return "", false
	}
	if index >= len(r.row.Cells) {
		r.err = &FormatError{
			Row:    r.row.Number,
			Column: index,
			Field:  fieldName(index),
			Reason: "column missing from row",
		}
		return "", false
	}
	return r.row.Cells[index], true
}

func (r *rowReader) text(index int) string {
	v, _ := r.cell(index)
	return v
}

// identifier treats a blank cell as absent, except in pre-filled columns
// where blank is the fill value.
func (r *rowReader) identifier(index int) *string {
	v, ok := r.cell(index)
	if !ok {
		return nil
	}
	return StripIdentifierMarker(v, v != "" || isFilled(index))
}

func (r *rowReader) date(index int) *string {
	v, ok := r.cell(index)
	if !ok {
		return nil
	}
	out, err := ISOFromDateValue(v, r.date1904)
	if err != nil {
		r.err = at(err, r.row.Number, index, fieldName(index))
		return nil
	}
	return out
}

func (r *rowReader) legacyDate(index int) *string {
	v, ok := r.cell(index)
	if !ok {
		return nil
	}
	out, err := ParseLegacyDateTime(v)
	if err != nil {
		r.err = at(err, r.row.Number, index, fieldName(index))
		return nil
	}
	return out
}

func (r *rowReader) count(index int) int {
	v, ok := r.cell(index)
	if !ok {
		return 0
	}
	n, err := util.ParseCount(v)
	if err != nil {
		r.err = &FormatError{Row: r.row.Number, Column: index, Field: fieldName(index), Value: v, Reason: "not an integer"}
		return 0
	}
	return n
}

func isFilled(index int) bool {
	for _, c := range Columns {
		if c.Index == index {
			return c.Fill
		}
	}
	return false
}
