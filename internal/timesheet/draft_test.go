package timesheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDraftStartsWithOneBlankRow(t *testing.T) {
	d := NewDraft("2024-10-07")

	assert.NotEmpty(t, d.SessionID)
	assert.Equal(t, "2024-10-07", d.Date)
	require.Len(t, d.Rows, 1)
	assert.False(t, d.Editing())
}

func TestDraftFromLog(t *testing.T) {
	d := DraftFromLog(DailyLog{
		ID: "l1", LogDate: "2024-10-07", ProjectID: "p1", ContractID: "c1",
		Description: "review", LoggedHours: 1.5,
	})

	require.Len(t, d.Rows, 1)
	assert.True(t, d.Editing())
	assert.Equal(t, "1.5", d.Rows[0].Hours)
	assert.Equal(t, "c1", d.Rows[0].ContractID)
}

func TestSetProjectClearsContract(t *testing.T) {
	d := NewDraft("2024-10-07")
	d.Rows[0].ProjectID = "p1"
	d.Rows[0].ContractID = "c1"

	changed := d.SetProject(0, "p2")
	assert.True(t, changed)
	assert.Equal(t, "p2", d.Rows[0].ProjectID)
	assert.Empty(t, d.Rows[0].ContractID)
}

func TestSetProjectSameProjectIsNoOp(t *testing.T) {
	d := NewDraft("2024-10-07")
	d.Rows[0].ProjectID = "p1"
	d.Rows[0].ContractID = "c1"

	changed := d.SetProject(0, "p1")
	assert.False(t, changed)
	assert.Equal(t, "c1", d.Rows[0].ContractID, "re-selecting the same project keeps the contract")
}

func TestAddAndRemoveRows(t *testing.T) {
	d := NewDraft("2024-10-07")
	d.AddRow()
	d.AddRow()
	require.Len(t, d.Rows, 3)

	d.RemoveRow(1)
	assert.Len(t, d.Rows, 2)

	// The last row is never removed.
	d.RemoveRow(0)
	d.RemoveRow(0)
	assert.Len(t, d.Rows, 1)
}

func TestDraftValidate(t *testing.T) {
	d := NewDraft("2024-10-07")
	d.Rows[0] = EntryDraft{ProjectID: "p1", ContractID: "c1", Hours: "2.5", Description: "work"}
	assert.NoError(t, d.Validate())

	d.Rows[0].ContractID = ""
	assert.Error(t, d.Validate())

	d.Rows[0].ContractID = "c1"
	d.Rows[0].Hours = "0"
	assert.Error(t, d.Validate())

	d.Rows[0].Hours = "abc"
	assert.Error(t, d.Validate())
}

func TestDraftEntries(t *testing.T) {
	d := NewDraft("2024-10-07")
	d.Rows[0] = EntryDraft{ProjectID: "p1", ContractID: "c1", Hours: "2", Description: "a"}
	d.AddRow()
	d.Rows[1] = EntryDraft{ProjectID: "p2", ContractID: "c2", Hours: "1.5", Description: "b"}

	logs, err := d.Entries()
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "2024-10-07", logs[0].LogDate)
	assert.Equal(t, 2.0, logs[0].LoggedHours)
	assert.Equal(t, 1.5, logs[1].LoggedHours)
}

func TestDraftEntriesRejectsInvalidDraft(t *testing.T) {
	d := NewDraft("2024-10-07")
	_, err := d.Entries()
	assert.Error(t, err)
}
