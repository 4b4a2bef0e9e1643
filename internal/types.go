package internal

import "time"

// WorkOrder is the canonical record uploaded for one spreadsheet row.
// Nullable fields are pointers so they serialise as JSON null.
type WorkOrder struct {
	CustomerName      string  `json:"customername"`
	InputFileName     string  `json:"inputfilename"`
	BatchName         string  `json:"batchname"`
	HexID             *string `json:"hexid"`
	ProductName       string  `json:"productname"`
	ProductAlias      string  `json:"productalias"`
	ProductType       int     `json:"producttype"`
	ProductStatus     string  `json:"productstatus"`
	AdditionalHexID   *string `json:"additionalhexid"`
	CreationDate      *string `json:"creationdate"`
	DueDate           *string `json:"duedate"`
	FinishedDate      *string `json:"finisheddate"`
	ShippingDate      *string `json:"shippingdate"`
	Comments          string  `json:"comments"`
	WOStatus          int     `json:"wo_status"`
	Quantity          int     `json:"quantity"`
	PriorityQuantity  int     `json:"priorityquantity"`
	ExcludedQuantity  int     `json:"excludedquantity"`
	MainPlastic       string  `json:"mainplastic"`
	PlanningID        *string `json:"planningid"`
	PackageID         string  `json:"packageid"`
	SequenceInPackage int     `json:"sequenceinpackage"`
	ProcessStartDate  *string `json:"processstartdate"`
	ProcessEndDate    *string `json:"processenddate"`
	ProcessCostTime   string  `json:"processcosttime"`
	InitCMFDate       *string `json:"initcmfdate"`
	InitCMFInfo       string  `json:"initcmfinfo"`
	MatchingStartDate *string `json:"matchingstartdate"`
	MatchingEndDate   *string `json:"matchingenddate"`
}

type UploadResult struct {
	Accepted     int
	Requests     int
	Failed       int
	AllSucceeded bool
}

type FileResult struct {
	Path         string
	Rows         int
	Uploaded     int
	Requests     int
	FailedChunks int
	Success      bool
	Duration     time.Duration
}

type FileOutcome string

const (
	OutcomeArchived      FileOutcome = "archived"
	OutcomeUploadFailed  FileOutcome = "upload_failed"
	OutcomeFault         FileOutcome = "fault"
	OutcomeArchiveFailed FileOutcome = "archive_failed"
)

type CycleResult struct {
	TraceID  string
	Files    int
	Archived int
	Failed   int
	Uploaded int
	Elapsed  time.Duration
	Err      error
}

type RunRow struct {
	ID           int
	TraceID      string
	FilePath     string
	Outcome      string
	Rows         int
	Uploaded     int
	Requests     int
	FailedChunks int
	DurationMs   int64
	Error        *string
	CreatedAt    string
}
