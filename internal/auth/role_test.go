// Copyright (c) 2026 Robin CRM. All rights reserved.

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleRanksAreTotalOrder(t *testing.T) {
	roles := AllRoles()
	require.Len(t, roles, 5)

	for i := 1; i < len(roles); i++ {
		assert.Greater(t, roles[i].Rank(), roles[i-1].Rank(),
			"rank must strictly increase from %s to %s", roles[i-1], roles[i])
	}
}

func TestSatisfiesHigherBeatsLower(t *testing.T) {
	roles := AllRoles()

	// Every pair: the higher-ranked role satisfies the lower, never the reverse.
	for i, lower := range roles {
		for _, higher := range roles[i+1:] {
			assert.True(t, higher.Satisfies(lower), "%s should satisfy {%s}", higher, lower)
			assert.False(t, lower.Satisfies(higher), "%s should not satisfy {%s}", lower, higher)
		}
	}
}

func TestSatisfiesUsesMinimumOfRequiredSet(t *testing.T) {
	// sales_staff (rank 2) meets {senior_manager, sales_staff} because the
	// set reads as "any of these or higher".
	assert.True(t, RoleSalesStaff.Satisfies(RoleSeniorManager, RoleSalesStaff))
	assert.False(t, RoleStaff.Satisfies(RoleSeniorManager, RoleSalesStaff))
}

func TestSatisfiesUnknownRole(t *testing.T) {
	unknown := Role("intern")

	assert.False(t, unknown.Known())
	assert.Zero(t, unknown.Rank())

	for _, role := range AllRoles() {
		assert.False(t, unknown.Satisfies(role))
	}

	// A required set containing an unranked role has minimum 0, which any
	// role (even an unknown one) meets.
	assert.True(t, unknown.Satisfies(Role("ghost")))
	assert.True(t, RoleStaff.Satisfies(Role("ghost"), RoleChiefExecutive))
}

func TestSatisfiesEmptySetAlwaysFails(t *testing.T) {
	assert.False(t, RoleChiefExecutive.Satisfies())
}

func TestParseRoleAliases(t *testing.T) {
	tests := []struct {
		raw  string
		want Role
	}{
		{"chief_executive", RoleChiefExecutive},
		{"ceo", RoleChiefExecutive},
		{"مدیر", RoleChiefExecutive},
		{"sales_manager", RoleSalesManager},
		{"intern", Role("intern")},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, ParseRole(tc.raw), "raw role %q", tc.raw)
	}
}

func TestIsTop(t *testing.T) {
	assert.True(t, RoleChiefExecutive.IsTop())
	assert.True(t, ParseRole("ceo").IsTop())
	assert.False(t, RoleSeniorManager.IsTop())
	assert.False(t, Role("intern").IsTop())
}
