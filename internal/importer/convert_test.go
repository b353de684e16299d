package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knaito/nippo/internal/domain"
)

func TestConvert_DerivesLevelsAndPositions(t *testing.T) {
	data := Convert(validSchema())

	require.Len(t, data.WorkTypes, 1)
	require.Len(t, data.Items, 3)

	prep, clean, inspect := data.Items[0], data.Items[1], data.Items[2]
	assert.Equal(t, 1, prep.Level)
	assert.Nil(t, prep.ParentID)
	assert.Equal(t, 2, clean.Level)
	require.NotNil(t, clean.ParentID)
	assert.Equal(t, prep.ID, *clean.ParentID)
	assert.Equal(t, 1, inspect.Level)

	for i, w := range data.Items {
		assert.Equal(t, i, w.Position)
		assert.Equal(t, data.WorkTypes[0].ID, w.WorkTypeID)
	}
}

func TestConvert_ResolvesLeadtimePredecessorRefs(t *testing.T) {
	data := Convert(validSchema())

	inspect := data.Items[2]
	assert.True(t, inspect.ExternalLeadtime)
	require.Len(t, inspect.ExternalLeadtimeItems, 1)
	assert.Equal(t, data.Items[1].ID, inspect.ExternalLeadtimeItems[0])
}

func TestConvert_ProjectWorkTypesByName(t *testing.T) {
	data := Convert(validSchema())

	require.Len(t, data.Projects, 1)
	p := data.Projects[0]
	assert.Equal(t, domain.ProjectInProgress, p.Status)
	assert.Equal(t, []string{data.WorkTypes[0].ID}, p.WorkTypeIDs)
}

func TestConvert_DefaultsStatusAndRole(t *testing.T) {
	s := validSchema()
	s.Projects[0].Status = ""
	s.Accounts[0].Role = ""

	data := Convert(s)
	assert.Equal(t, domain.ProjectNotStarted, data.Projects[0].Status)
	assert.Equal(t, domain.RoleUser, data.Accounts[0].Role)
}
