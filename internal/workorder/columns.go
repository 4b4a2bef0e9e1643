package workorder

import (
	"fmt"

	"woingest/internal/util"
)

// Column positions in the upstream work-order export. The layout is fixed by
// the producing system; a change there is a change here and nowhere else.
const (
	ColCustomerName      = 0
	ColInputFileName     = 1
	ColBatchName         = 2
	ColHexID             = 3
	ColProductName       = 4
	ColProductAlias      = 5
	ColProductType       = 6
	ColProductStatus     = 7
	ColAdditionalHexID   = 8
	ColCreationDate      = 9
	ColDueDate           = 10
	ColFinishedDate      = 11
	ColShippingDate      = 13
	ColComments          = 15
	ColWOStatus          = 18
	ColQuantity          = 20
	ColMainPlastic       = 21
	ColPlanningID        = 22
	ColPackageID         = 23
	ColSequenceInPackage = 24
	ColPriorityQuantity  = 46
	ColExcludedQuantity  = 47
	ColProcessStart      = 48
	ColProcessEnd        = 49
	ColProcessCostTime   = 50
	ColInitCMF           = 51
	ColInitCMFInfo       = 52
	ColMatchingStart     = 53
	ColMatchingEnd       = 54

	MinColumns = 55
)

type ColumnKind int

const (
	KindText ColumnKind = iota
	KindIdentifier
	KindCategory
	KindStatus
	KindDate
	KindLegacyDate
	KindCount
)

// Column describes one mapped position.
// Header is the title the export uses, when known.
// Fill marks columns blanked to a default once per file before rows are read.
type Column struct {
	Index  int
	Field  string
	Kind   ColumnKind
	Header string
	Fill   bool
}

var Columns = []Column{
	{Index: ColCustomerName, Field: "customername", Kind: KindText},
	{Index: ColInputFileName, Field: "inputfilename", Kind: KindText},
	{Index: ColBatchName, Field: "batchname", Kind: KindText},
	{Index: ColHexID, Field: "hexid", Kind: KindIdentifier},
	{Index: ColProductName, Field: "productname", Kind: KindText},
	{Index: ColProductAlias, Field: "productalias", Kind: KindText},
	{Index: ColProductType, Field: "producttype", Kind: KindCategory, Header: "Tipo produto", Fill: true},
	{Index: ColProductStatus, Field: "productstatus", Kind: KindText},
	{Index: ColAdditionalHexID, Field: "additionalhexid", Kind: KindIdentifier, Header: "ID Adicional", Fill: true},
	{Index: ColCreationDate, Field: "creationdate", Kind: KindDate},
	{Index: ColDueDate, Field: "duedate", Kind: KindDate},
	{Index: ColFinishedDate, Field: "finisheddate", Kind: KindDate},
	{Index: ColShippingDate, Field: "shippingdate", Kind: KindDate},
	{Index: ColComments, Field: "comments", Kind: KindText, Header: "Comentário", Fill: true},
	{Index: ColWOStatus, Field: "wo_status", Kind: KindStatus},
	{Index: ColQuantity, Field: "quantity", Kind: KindCount},
	{Index: ColMainPlastic, Field: "mainplastic", Kind: KindText, Header: "Plástico", Fill: true},
	{Index: ColPlanningID, Field: "planningid", Kind: KindIdentifier, Header: "PlanningID", Fill: true},
	{Index: ColPackageID, Field: "packageid", Kind: KindText, Header: "PackageID", Fill: true},
	{Index: ColSequenceInPackage, Field: "sequenceinpackage", Kind: KindCount, Header: "SequenceInPackage", Fill: true},
	{Index: ColPriorityQuantity, Field: "priorityquantity", Kind: KindCount, Header: "Qtd Agilizada", Fill: true},
	{Index: ColExcludedQuantity, Field: "excludedquantity", Kind: KindCount, Header: "Qtd Excluída", Fill: true},
	{Index: ColProcessStart, Field: "processstartdate", Kind: KindLegacyDate, Header: "Process start", Fill: true},
	{Index: ColProcessEnd, Field: "processenddate", Kind: KindLegacyDate, Header: "Process end", Fill: true},
	{Index: ColProcessCostTime, Field: "processcosttime", Kind: KindText, Header: "Process costtime", Fill: true},
	{Index: ColInitCMF, Field: "initcmfdate", Kind: KindLegacyDate, Header: "InitCMF", Fill: true},
	{Index: ColInitCMFInfo, Field: "initcmfinfo", Kind: KindText, Header: "InitCMF info", Fill: true},
	{Index: ColMatchingStart, Field: "matchingstartdate", Kind: KindDate},
	{Index: ColMatchingEnd, Field: "matchingenddate", Kind: KindDate},
}

// FillColumns returns the pre-filled columns. Counts default to "0",
// everything else to "".
func FillColumns() []Column {
	out := make([]Column, 0, 14)
	for _, c := range Columns {
		if c.Fill {
			out = append(out, c)
		}
	}
	return out
}

func fieldName(index int) string {
	for _, c := range Columns {
		if c.Index == index {
			return c.Field
		}
	}
	return fmt.Sprintf("column_%d", index)
}

// ValidateHeader checks the header row is wide enough for the contract.
// With strict set, the known titles must also match (case, accents and
// spacing ignored).
func ValidateHeader(header []string, strict bool) error {
	if len(header) < MinColumns {
		return &FormatError{
			Column: -1,
			Reason: fmt.Sprintf("header has %d columns, need at least %d", len(header), MinColumns),
		}
	}
	if !strict {
		return nil
	}
	for _, c := range Columns {
		if c.Header == "" {
			continue
		}
		if util.NormalizeHeader(header[c.Index]) != util.NormalizeHeader(c.Header) {
			return &FormatError{
				Column: c.Index,
				Field:  c.Field,
				Value:  header[c.Index],
				Reason: fmt.Sprintf("unexpected header, want %q", c.Header),
			}
		}
	}
	return nil
}
