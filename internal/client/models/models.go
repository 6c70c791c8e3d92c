// Package models defines the farm entities persisted in the local record
// store and exchanged with the remote server during sync.
//
// Field names in json tags are the canonical wire names. Historical aliases
// (e.g. numero_arete for tag_number) are folded away at the wire boundary
// and never appear here.
package models

// SyncStatus marks whether a local row has unsynced mutations.
type SyncStatus string

const (
	// StatusPending marks a row with local mutations awaiting push.
	StatusPending SyncStatus = "pending"
	// StatusSynced marks a row known to match the remote's last-seen state.
	StatusSynced SyncStatus = "synced"
)

// Animal lifecycle stages. Mutually exclusive.
const (
	StageLechon      = "Lechon"
	StageDestete     = "Destete"
	StageEngorde     = "Engorde"
	StageReproductor = "Reproductor"
)

// Animal activity status.
const (
	StatusActivo   = "Activo"
	StatusInactivo = "Inactivo"
)

// Animal sexes. Immutable after creation: no service exposes a sex update.
const (
	SexMacho  = "Macho"
	SexHembra = "Hembra"
)

// GestationDays is the fixed gestation period used to derive the predicted
// farrowing date from a breeding event.
const GestationDays = 114

// Pig is an animal in the herd. PenID is empty for unassigned animals.
type Pig struct {
	TagNumber string  `json:"tag_number"`
	Sex       string  `json:"sex"`
	Stage     string  `json:"stage"`
	Status    string  `json:"status"`
	PenID     string  `json:"pen_id,omitempty"`
	BirthDate string  `json:"birth_date,omitempty"`
	Weight    float64 `json:"weight,omitempty"`
}

// Section is a named area of the farm (e.g. "Maternidad"). Name is the
// natural key used for reconciliation dedup.
type Section struct {
	Name string `json:"name"`
}

// Pen belongs to a Section and holds at most Capacity active animals.
// The capacity invariant is enforced by the move operation, not by storage.
type Pen struct {
	Name      string `json:"name"`
	SectionID string `json:"section_id"`
	Capacity  int    `json:"capacity"`
}

// FeedInventoryItem tracks feed stock. CurrentStockKg must never go
// negative; feeding operations check before committing.
type FeedInventoryItem struct {
	Name           string  `json:"name"`
	CostPerKg      float64 `json:"cost_per_kg"`
	CurrentStockKg float64 `json:"current_stock_kg"`
	BatchNumber    string  `json:"batch_number,omitempty"`
}

// FeedUsageEvent records feed consumed by one animal (or a whole pen in
// batch mode) at a point in time. Date is a YYYY-MM-DD string.
type FeedUsageEvent struct {
	FeedID   string  `json:"feed_id"`
	PigID    string  `json:"pig_id,omitempty"`
	PenID    string  `json:"pen_id,omitempty"`
	AmountKg float64 `json:"amount_kg"`
	Date     string  `json:"date"`
}

// HealthEvent records a treatment or observation for an animal. When a
// medication is involved, WithdrawalEndDate is the event date plus the
// medication's withdrawal period.
type HealthEvent struct {
	PigID             string `json:"pig_id"`
	EventType         string `json:"event_type"`
	Description       string `json:"description,omitempty"`
	MedicationID      string `json:"medication_id,omitempty"`
	EventDate         string `json:"event_date"`
	WithdrawalEndDate string `json:"withdrawal_end_date,omitempty"`
}

// Medication is near-static reference data pulled from the remote.
type Medication struct {
	Name           string `json:"name"`
	WithdrawalDays int    `json:"withdrawal_days"`
}

// BreedingEvent records a service (monta), confirmation or farrowing for a
// dam. The predicted due date is EventDate + GestationDays.
type BreedingEvent struct {
	PigID     string `json:"pig_id"`
	SireID    string `json:"sire_id,omitempty"`
	EventType string `json:"event_type"`
	EventDate string `json:"event_date"`
	Notes     string `json:"notes,omitempty"`
}

// WeightLog is a weight measurement for an animal on a given date.
type WeightLog struct {
	PigID  string  `json:"pig_id"`
	Weight float64 `json:"weight"`
	Date   string  `json:"date"`
}

// AccessLog is a biosecurity visit record.
type AccessLog struct {
	VisitorName  string `json:"visitor_name"`
	Company      string `json:"company,omitempty"`
	VehiclePlate string `json:"vehicle_plate,omitempty"`
	Origin       string `json:"origin,omitempty"`
	RiskLevel    string `json:"risk_level,omitempty"`
}

// UserPoints is one gamification award for a worker.
type UserPoints struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
	Points int    `json:"points"`
}

// Role is reference data pulled from the remote.
type Role struct {
	Name string `json:"name"`
}

// Permission is reference data pulled from the remote.
type Permission struct {
	Slug string `json:"slug"`
}

// RolePermission assigns a permission to a role. Locally editable and synced.
type RolePermission struct {
	RoleID       string `json:"role_id"`
	PermissionID string `json:"permission_id"`
}
