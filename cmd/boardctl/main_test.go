package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadim/neo-outreach/internal/domain/board/entity"
	"github.com/vadim/neo-outreach/internal/domain/board/service"
)

func testView() service.BoardView {
	return service.BoardView{
		Platform: entity.PlatformInstagram,
		Columns: []service.ColumnView{
			{ID: "_unassigned_instagram", Name: "Unassigned", Unassigned: true, SelectAllLabel: "Select All (1)", Accounts: []service.AccountView{
				{Account: entity.Account{ID: "a2", DisplayName: "@a2", Status: entity.AccountStatusReady}},
			}},
			{ID: "C1", Name: "Spring", Status: entity.ColumnStatusActive, SelectAllLabel: "Select All (1/2)", Accounts: []service.AccountView{
				{Account: entity.Account{ID: "a1", DisplayName: "@a1", Status: entity.AccountStatusActive, PendingLeadsCount: 4}},
				{Account: entity.Account{ID: "a3", DisplayName: "@a3", Status: entity.AccountStatusPaused}, Selected: true},
			}},
		},
	}
}

func TestLocate(t *testing.T) {
	ref, idx, err := locate(testView(), "a3")
	require.NoError(t, err)
	assert.Equal(t, "C1", ref.ViewID())
	assert.Equal(t, 1, idx)

	ref, idx, err = locate(testView(), "a2")
	require.NoError(t, err)
	assert.True(t, ref.IsUnassigned())
	assert.Equal(t, entity.PlatformInstagram, ref.Platform())
	assert.Zero(t, idx)

	_, _, err = locate(testView(), "x1")
	assert.ErrorIs(t, err, entity.ErrNotVisible)
}

func TestRenderBoard(t *testing.T) {
	var buf bytes.Buffer
	renderBoard(&buf, testView())

	out := buf.String()
	assert.Contains(t, out, "Platform: instagram")
	assert.Contains(t, out, "[C1]")
	assert.Contains(t, out, "@a3")
	assert.Contains(t, strings.ToUpper(out), "SELECT ALL (1/2)")
}
