package card

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaxcard/internal/person"
	"vaxcard/internal/vaccination"
	"vaxcard/internal/vaccine"
	id "vaxcard/pkg/domain"
)

func testPerson(t *testing.T) *person.Person {
	t.Helper()
	p, err := person.New(id.NewPersonID(), "Ana", "doc-ana", id.SexFemale, 30, time.Now())
	require.NoError(t, err)
	return p
}

func testVaccine(t *testing.T, name, code string) *vaccine.Vaccine {
	t.Helper()
	v, err := vaccine.New(id.NewVaccineID(), name, code, nil, time.Now())
	require.NoError(t, err)
	return v
}

func record(p *person.Person, v *vaccine.Vaccine, dose id.Dose, applied id.Date) *vaccination.Record {
	return &vaccination.Record{
		ID:        id.NewRecordID(),
		PersonID:  p.ID,
		VaccineID: v.ID,
		Dose:      dose,
		AppliedAt: applied,
		CreatedAt: time.Now(),
	}
}

func TestBuildMatrix(t *testing.T) {
	p := testPerson(t)
	hepb := testVaccine(t, "Hepatite B", "hepatite-b")
	bcg := testVaccine(t, "BCG", "bcg")
	rota := testVaccine(t, "Rotavírus", "rotavirus")
	catalog := []*vaccine.Vaccine{hepb, bcg, rota}

	applied := id.NewDate(2025, time.March, 10)
	records := []*vaccination.Record{
		record(p, hepb, id.DoseD1, applied),
		record(p, hepb, id.DoseD2, applied),
		record(p, bcg, id.DoseD1, applied),
	}

	t.Run("columns default to recorded vaccines sorted by name", func(t *testing.T) {
		m := BuildMatrix(p, catalog, records, false)

		require.Len(t, m.Cols, 2)
		assert.Equal(t, "BCG", m.Cols[0].VaccineName)
		assert.Equal(t, "Hepatite B", m.Cols[1].VaccineName)
		assert.Equal(t, id.DoseOrder, m.Rows)
	})

	t.Run("all flag expands columns to the catalog", func(t *testing.T) {
		m := BuildMatrix(p, catalog, records, true)

		require.Len(t, m.Cols, 3)
		assert.Equal(t, "Rotavírus", m.Cols[2].VaccineName)
		// The catalog-only column stays empty on every row.
		for r := range m.Grid {
			assert.Nil(t, m.Grid[r][2])
		}
	})

	t.Run("each record lands on exactly one cell", func(t *testing.T) {
		m := BuildMatrix(p, catalog, records, false)

		filled := 0
		for _, row := range m.Grid {
			require.Len(t, row, len(m.Cols))
			for _, cell := range row {
				if cell != nil {
					filled++
				}
			}
		}
		assert.Equal(t, len(records), filled)

		// hepb is the second column; its D1 and D2 rows are populated.
		assert.Equal(t, records[0].ID, m.Grid[0][1].RecordID)
		assert.Equal(t, records[1].ID, m.Grid[1][1].RecordID)
		assert.Nil(t, m.Grid[2][1])
	})

	t.Run("projection is pure", func(t *testing.T) {
		first := BuildMatrix(p, catalog, records, false)
		second := BuildMatrix(p, catalog, records, false)
		assert.Equal(t, first, second)
	})

	t.Run("no records yields an empty grid", func(t *testing.T) {
		m := BuildMatrix(p, catalog, nil, false)
		assert.Empty(t, m.Cols)
		require.Len(t, m.Grid, len(id.DoseOrder))
		for _, row := range m.Grid {
			assert.Empty(t, row)
		}
	})
}

func TestBuildList(t *testing.T) {
	p := testPerson(t)
	hepb := testVaccine(t, "Hepatite B", "hepatite-b")
	bcg := testVaccine(t, "BCG", "bcg")
	catalog := []*vaccine.Vaccine{hepb, bcg}

	applied := id.NewDate(2025, time.March, 10)
	records := []*vaccination.Record{
		record(p, hepb, id.DoseD2, applied),
		record(p, hepb, id.DoseD1, applied),
		record(p, bcg, id.DoseD1, applied),
	}

	l := BuildList(p, catalog, records)

	require.Len(t, l.Vaccines, 2)
	assert.Equal(t, "BCG", l.Vaccines[0].VaccineName)
	assert.Equal(t, "Hepatite B", l.Vaccines[1].VaccineName)

	// Entries come back in canonical dose order even when recorded out of order.
	hepbBlock := l.Vaccines[1]
	require.Len(t, hepbBlock.Entries, 2)
	assert.Equal(t, id.DoseD1, hepbBlock.Entries[0].Dose)
	assert.Equal(t, id.DoseD2, hepbBlock.Entries[1].Dose)
}
