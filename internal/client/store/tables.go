package store

// Table describes one syncable table and the metadata the sync engine needs
// to reconcile it.
type Table struct {
	// Name is both the SQL table name and the wire table name.
	Name string

	// NaturalKey names the domain field used to detect identity collisions
	// during reconciliation (two ids, one name). Empty means the table is
	// never deduplicated.
	NaturalKey string

	// Referrers lists the tables and fields holding foreign keys to this
	// table's id. When a duplicate is retired, every referrer is remapped
	// to the canonical id before the duplicate row is deleted.
	Referrers []Referrer
}

// Referrer is a foreign-key reference to a table's id.
type Referrer struct {
	Table string
	Field string
}

var tables = []Table{
	{
		Name:       "sections",
		NaturalKey: "name",
		Referrers:  []Referrer{{Table: "pens", Field: "section_id"}},
	},
	{
		Name:       "pens",
		NaturalKey: "name",
		Referrers: []Referrer{
			{Table: "pigs", Field: "pen_id"},
			{Table: "feed_usage", Field: "pen_id"},
		},
	},
	{Name: "pigs"},
	{Name: "weight_logs"},
	{Name: "health_records"},
	{Name: "medications"},
	{Name: "feed_inventory"},
	{Name: "feed_usage"},
	{Name: "breeding_events"},
	{Name: "access_logs"},
	{Name: "user_points"},
	{Name: "roles"},
	{Name: "permissions"},
	{Name: "role_permissions"},
}

var tablesByName = func() map[string]Table {
	m := make(map[string]Table, len(tables))
	for _, t := range tables {
		m[t.Name] = t
	}
	return m
}()

// Tables returns every syncable table in a fixed order. The order is the
// reconciliation order: parents (sections, pens) before their referrers.
func Tables() []Table {
	return tables
}

// TableByName looks up a table definition. ok is false for unknown names,
// which also guards the SQL built from table names.
func TableByName(name string) (Table, bool) {
	t, ok := tablesByName[name]
	return t, ok
}
