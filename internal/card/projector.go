// Package card derives the per-person vaccination card from the current
// record set. Projections are pure: the same snapshot always yields the same
// output, and nothing here mutates state.
package card

import (
	"sort"

	"vaxcard/internal/person"
	"vaxcard/internal/vaccination"
	"vaxcard/internal/vaccine"
	id "vaxcard/pkg/domain"
)

// MatrixColumn identifies one vaccine column of the grid.
type MatrixColumn struct {
	VaccineID   id.VaccineID `json:"vaccine_id"`
	VaccineName string       `json:"vaccine_name"`
}

// MatrixCell references the one record at a (dose, vaccine) intersection.
type MatrixCell struct {
	RecordID  id.RecordID `json:"record_id"`
	Dose      id.Dose     `json:"dose"`
	AppliedAt id.Date     `json:"applied_at"`
}

// Matrix is the dose × vaccine grid. Rows are the five canonical dose labels
// in fixed order; Grid[r][c] is nil when no record exists at the
// intersection.
type Matrix struct {
	Person *person.Person  `json:"person"`
	Rows   []id.Dose       `json:"rows"`
	Cols   []MatrixColumn  `json:"cols"`
	Grid   [][]*MatrixCell `json:"grid"`
}

// ListEntry is one record inside a vaccine block of the list view.
type ListEntry struct {
	RecordID  id.RecordID `json:"record_id"`
	Dose      id.Dose     `json:"dose"`
	AppliedAt id.Date     `json:"applied_at"`
	Lot       string      `json:"lot,omitempty"`
	Location  string      `json:"location,omitempty"`
}

// VaccineBlock groups a person's records for one vaccine.
type VaccineBlock struct {
	VaccineID   id.VaccineID `json:"vaccine_id"`
	VaccineName string       `json:"vaccine_name"`
	Entries     []ListEntry  `json:"entries"`
}

// List is the grouped card view.
type List struct {
	Person   *person.Person `json:"person"`
	Vaccines []VaccineBlock `json:"vaccines"`
}

// BuildMatrix projects the grid for one person. Columns are the vaccines
// holding at least one record for the person, ordered by name; with all set,
// the full catalog becomes the column set instead. The (person, vaccine,
// dose) uniqueness invariant guarantees at most one record per cell.
func BuildMatrix(p *person.Person, catalog []*vaccine.Vaccine, records []*vaccination.Record, all bool) *Matrix {
	recorded := make(map[id.VaccineID]bool, len(records))
	for _, rec := range records {
		recorded[rec.VaccineID] = true
	}

	cols := make([]MatrixColumn, 0, len(catalog))
	for _, v := range catalog {
		if all || recorded[v.ID] {
			cols = append(cols, MatrixColumn{VaccineID: v.ID, VaccineName: v.Name})
		}
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i].VaccineName < cols[j].VaccineName })

	type cellKey struct {
		dose    id.Dose
		vaccine id.VaccineID
	}
	byKey := make(map[cellKey]*vaccination.Record, len(records))
	for _, rec := range records {
		byKey[cellKey{dose: rec.Dose, vaccine: rec.VaccineID}] = rec
	}

	grid := make([][]*MatrixCell, len(id.DoseOrder))
	for r, dose := range id.DoseOrder {
		row := make([]*MatrixCell, len(cols))
		for c, col := range cols {
			if rec, ok := byKey[cellKey{dose: dose, vaccine: col.VaccineID}]; ok {
				row[c] = &MatrixCell{RecordID: rec.ID, Dose: rec.Dose, AppliedAt: rec.AppliedAt}
			}
		}
		grid[r] = row
	}

	return &Matrix{
		Person: p,
		Rows:   append([]id.Dose{}, id.DoseOrder...),
		Cols:   cols,
		Grid:   grid,
	}
}

// BuildList projects the grouped view: one block per vaccine with records,
// blocks ordered by vaccine name, entries in canonical dose order.
func BuildList(p *person.Person, catalog []*vaccine.Vaccine, records []*vaccination.Record) *List {
	names := make(map[id.VaccineID]string, len(catalog))
	for _, v := range catalog {
		names[v.ID] = v.Name
	}

	grouped := make(map[id.VaccineID][]*vaccination.Record)
	for _, rec := range records {
		grouped[rec.VaccineID] = append(grouped[rec.VaccineID], rec)
	}

	blocks := make([]VaccineBlock, 0, len(grouped))
	for vaccineID, recs := range grouped {
		sort.Slice(recs, func(i, j int) bool { return recs[i].Dose.Before(recs[j].Dose) })
		entries := make([]ListEntry, len(recs))
		for i, rec := range recs {
			entries[i] = ListEntry{
				RecordID:  rec.ID,
				Dose:      rec.Dose,
				AppliedAt: rec.AppliedAt,
				Lot:       rec.Lot,
				Location:  rec.Location,
			}
		}
		name := names[vaccineID]
		if name == "" {
			name = vaccineID.String()
		}
		blocks = append(blocks, VaccineBlock{VaccineID: vaccineID, VaccineName: name, Entries: entries})
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].VaccineName < blocks[j].VaccineName })

	return &List{Person: p, Vaccines: blocks}
}
