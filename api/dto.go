/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

NUMBERS:
  Hours, rates and money travel as decimal strings ("33000", "7.5"),
  never as JSON floats - the engine is decimal end to end and the API
  doesn't reintroduce float rounding at the boundary.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

// =============================================================================
// AUTH
// =============================================================================

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// =============================================================================
// WORKERS
// =============================================================================

// WorkerDTO represents a directory entry in API responses.
type WorkerDTO struct {
	Name         string `json:"name"`
	Function     string `json:"function"`
	Crew         string `json:"crew"`
	RegularRate  string `json:"regular_rate"`
	OvertimeRate string `json:"overtime_rate"`
}

// SaveWorkerRequest creates or updates a directory entry.
type SaveWorkerRequest struct {
	Name         string `json:"name"`
	Function     string `json:"function"`
	Crew         string `json:"crew"`
	RegularRate  string `json:"regular_rate"`
	OvertimeRate string `json:"overtime_rate"`
}

// =============================================================================
// PERIODS
// =============================================================================

// PeriodDTO is a resolved accounting period.
type PeriodDTO struct {
	Month int    `json:"month"`
	Year  int    `json:"year"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// =============================================================================
// ATTENDANCE GRID
// =============================================================================

// GridRowDTO is one worker's row of the attendance grid: hours keyed by
// YYYY-MM-DD date, zero/absent meaning "no hours".
type GridRowDTO struct {
	Worker string            `json:"worker"`
	Hours  map[string]string `json:"hours"`
}

// AttendanceGridDTO is the editable grid for one crew and period.
type AttendanceGridDTO struct {
	Crew   string       `json:"crew"`
	Period PeriodDTO    `json:"period"`
	Dates  []string     `json:"dates"`
	Rows   []GridRowDTO `json:"rows"`
}

// SaveGridRequest submits an edited grid. The grid is authoritative for
// its whole (crew x period) rectangle: cells absent here are erased.
type SaveGridRequest struct {
	Rows []GridRowDTO `json:"rows"`
}

// ReconcileResultDTO reports what a grid save did.
type ReconcileResultDTO struct {
	Inserted int `json:"inserted"`
	Removed  int `json:"removed"`
	Dropped  int `json:"dropped"`
}

// =============================================================================
// ADVANCES
// =============================================================================

type AdvanceDTO struct {
	Date   string `json:"date"`
	Worker string `json:"worker"`
	Amount string `json:"amount"`
}

type CreateAdvanceRequest struct {
	Date   string `json:"date"`
	Worker string `json:"worker"`
	Amount string `json:"amount"`
}

// =============================================================================
// PAYROLL REPORT
// =============================================================================

type PayrollLineDTO struct {
	Worker        string `json:"worker"`
	Function      string `json:"function"`
	RegularHours  string `json:"regular_hours"`
	OvertimeHours string `json:"overtime_hours"`
	Gross         string `json:"gross"`
	Advances      string `json:"advances"`
	Net           string `json:"net"`
}

type CrewPayrollDTO struct {
	Crew     string           `json:"crew"`
	Lines    []PayrollLineDTO `json:"lines"`
	Subtotal string           `json:"subtotal"`
}

type ReportAuditDTO struct {
	OrphanedAttendance int `json:"orphaned_attendance"`
	OrphanedAdvances   int `json:"orphaned_advances"`
}

type PayrollReportDTO struct {
	Period     PeriodDTO        `json:"period"`
	Crews      []CrewPayrollDTO `json:"crews"`
	GrandTotal string           `json:"grand_total"`
	Audit      ReportAuditDTO   `json:"audit"`
}

// =============================================================================
// ERRORS
// =============================================================================

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
